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

package bitmap

import (
	"strings"

	"github.com/ianlewis/go-mnist/idx"
)

// Palette is the set of 8 characters used to render pixel intensities, from
// lowest to highest intensity.
type Palette string

const (
	// LightPalette renders dark pixels as blank space.
	LightPalette Palette = " .-+*?$@"

	// DarkPalette renders light pixels as blank space.
	DarkPalette Palette = "@$?*+-. "
)

// Render renders img as text using LightPalette.
func Render(img *idx.Image) string {
	return RenderPalette(img, LightPalette)
}

// RenderPalette renders img as text. Each pixel is mapped to one of the 8
// palette characters by its intensity divided into 8 buckets and followed by
// a space. Each row starts on a new line.
func RenderPalette(img *idx.Image, p Palette) string {
	if len(p) != 8 {
		p = LightPalette
	}
	cols := max(img.Cols, 1)

	var sb strings.Builder
	sb.Grow(len(img.Pix)*2 + img.Rows)
	for i, v := range img.Pix {
		if i%cols == 0 {
			sb.WriteByte('\n')
		}
		sb.WriteByte(p[v>>5])
		sb.WriteByte(' ')
	}
	return sb.String()
}
