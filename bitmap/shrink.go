// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package bitmap implements transforms of decoded IDX images: downsampling,
// text rendering, and export as grayscale BMP files.
package bitmap

import (
	"errors"
	"fmt"

	"github.com/ianlewis/go-mnist/idx"
)

// ErrOddSize indicates that an image cannot be halved because one of its
// dimensions is odd.
var ErrOddSize = errors.New("image dimensions must be even")

// Shrink halves the width and height of img. Each output pixel is the floor
// of the average of the corresponding 2x2 block of input pixels.
func Shrink(img *idx.Image) (*idx.Image, error) {
	if img.Rows%2 != 0 || img.Cols%2 != 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrOddSize, img.Rows, img.Cols)
	}
	if len(img.Pix) != img.Rows*img.Cols {
		return nil, fmt.Errorf("%w: %d pixels for %dx%d image", idx.ErrGeometry, len(img.Pix), img.Rows, img.Cols)
	}

	rows, cols := img.Rows/2, img.Cols/2
	pix := make([]byte, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			y, x := i<<1, j<<1
			sum := int(img.At(x, y)) +
				int(img.At(x+1, y)) +
				int(img.At(x, y+1)) +
				int(img.At(x+1, y+1))
			pix[i*cols+j] = byte(sum >> 2)
		}
	}

	return &idx.Image{
		Rows: rows,
		Cols: cols,
		Pix:  pix,
	}, nil
}
