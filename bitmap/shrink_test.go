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

package bitmap_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ianlewis/go-mnist/bitmap"
	"github.com/ianlewis/go-mnist/idx"
	"github.com/ianlewis/go-mnist/internal/testutil"
)

// TestShrink tests Shrink.
func TestShrink(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		image *idx.Image

		expected *idx.Image
		err      error
	}{
		{
			name:     "full intensity",
			image:    &idx.Image{Rows: 28, Cols: 28, Pix: testutil.Fill(784, 255)},
			expected: &idx.Image{Rows: 14, Cols: 14, Pix: testutil.Fill(196, 255)},
		},
		{
			name:     "floor average",
			image:    &idx.Image{Rows: 2, Cols: 2, Pix: []byte{0, 1, 2, 5}},
			expected: &idx.Image{Rows: 1, Cols: 1, Pix: []byte{2}},
		},
		{
			name: "blocks",
			image: &idx.Image{Rows: 2, Cols: 4, Pix: []byte{
				10, 20, 100, 100,
				30, 40, 100, 101,
			}},
			expected: &idx.Image{Rows: 1, Cols: 2, Pix: []byte{25, 100}},
		},
		{
			name: "non-square",
			image: &idx.Image{Rows: 4, Cols: 2, Pix: []byte{
				0, 0,
				0, 4,
				255, 255,
				255, 254,
			}},
			expected: &idx.Image{Rows: 2, Cols: 1, Pix: []byte{1, 254}},
		},
		{
			name:  "odd size",
			image: &idx.Image{Rows: 3, Cols: 3, Pix: make([]byte, 9)},
			err:   bitmap.ErrOddSize,
		},
		{
			name:  "short pixels",
			image: &idx.Image{Rows: 2, Cols: 2, Pix: make([]byte, 3)},
			err:   idx.ErrGeometry,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got, err := bitmap.Shrink(test.image)
			if !errors.Is(err, test.err) {
				t.Fatalf("Shrink error: want %v, got %v", test.err, err)
			}
			if diff := cmp.Diff(test.expected, got); diff != "" {
				t.Fatalf("Shrink (-want, +got):\n%s", diff)
			}
			if got != nil && len(got.Pix)*4 != len(test.image.Pix) {
				t.Fatalf("Shrink: got %d pixels from %d", len(got.Pix), len(test.image.Pix))
			}
		})
	}
}
