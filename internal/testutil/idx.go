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

package testutil

import (
	"encoding/binary"
	"math"
	"testing"
)

const (
	magicLabels uint32 = 0x00000801
	magicImages uint32 = 0x00000803
)

// MakeHeader creates an IDX header. dims are appended as additional header
// fields.
func MakeHeader(magic, count uint32, dims ...uint32) []byte {
	b := binary.BigEndian.AppendUint32(nil, magic)
	b = binary.BigEndian.AppendUint32(b, count)
	for _, d := range dims {
		b = binary.BigEndian.AppendUint32(b, d)
	}
	return b
}

// MakeImages creates a test IDX image file. Each image must have rows*cols
// pixels.
func MakeImages(t *testing.T, images [][]byte, rows, cols uint32) []byte {
	t.Helper()

	if len(images) > math.MaxUint32 {
		t.Fatalf("too many images: %d", len(images))
	}
	//nolint:gosec // length bounds checked above.
	b := MakeHeader(magicImages, uint32(len(images)), rows, cols)
	for i, img := range images {
		if uint32(len(img)) != rows*cols {
			t.Fatalf("image %d has %d pixels, want %d", i, len(img), rows*cols)
		}
		b = append(b, img...)
	}
	return b
}

// MakeLabels creates a test IDX label file.
func MakeLabels(t *testing.T, labels []byte) []byte {
	t.Helper()

	if len(labels) > math.MaxUint32 {
		t.Fatalf("too many labels: %d", len(labels))
	}
	//nolint:gosec // length bounds checked above.
	b := MakeHeader(magicLabels, uint32(len(labels)))
	return append(b, labels...)
}

// MakeScalars creates a test IDX file of float32 records in the given byte
// order.
func MakeScalars(t *testing.T, magic uint32, values []float32, order binary.ByteOrder) []byte {
	t.Helper()

	if len(values) > math.MaxUint32 {
		t.Fatalf("too many values: %d", len(values))
	}
	//nolint:gosec // length bounds checked above.
	b := MakeHeader(magic, uint32(len(values)))
	var f [4]byte
	for _, v := range values {
		order.PutUint32(f[:], math.Float32bits(v))
		b = append(b, f[:]...)
	}
	return b
}

// Fill returns n bytes with value v.
func Fill(n int, v byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = v
	}
	return b
}
