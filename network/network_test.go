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

package network

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ianlewis/go-mnist/idx"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		layers []int

		weights []int
		biases  []int
		err     error
	}{
		{
			name:    "mnist",
			layers:  []int{784, 16, 10},
			weights: []int{0, 784 * 16, 16 * 10},
			biases:  []int{784, 16, 10},
		},
		{
			name:    "single layer",
			layers:  []int{4},
			weights: []int{0},
			biases:  []int{4},
		},
		{
			name:   "no layers",
			layers: nil,
			err:    ErrLayers,
		},
		{
			name:   "empty layer",
			layers: []int{784, 0, 10},
			err:    ErrLayers,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			n, err := New(test.layers)
			if !errors.Is(err, test.err) {
				t.Fatalf("New: want %v, got %v", test.err, err)
			}
			if err != nil {
				return
			}

			if diff := cmp.Diff(test.layers, n.Sizes()); diff != "" {
				t.Fatalf("Sizes (-want, +got):\n%s", diff)
			}
			for i := range n.NumLayers() {
				if got, want := len(n.Weights(i)), test.weights[i]; got != want {
					t.Errorf("len(Weights(%d)): want %d, got %d", i, want, got)
				}
				if got, want := len(n.Biases(i)), test.biases[i]; got != want {
					t.Errorf("len(Biases(%d)): want %d, got %d", i, want, got)
				}
				for _, b := range n.Biases(i) {
					if b != 0 {
						t.Fatalf("Biases(%d): not zero initialized", i)
					}
				}
			}
		})
	}
}

func TestNetwork_SetBiases(t *testing.T) {
	t.Parallel()

	n, err := New([]int{2, 3})
	if err != nil {
		t.Fatal(err)
	}

	if err := n.SetBiases(1, []idx.Scalar{0.5, -1, 2}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float32{0.5, -1, 2}, n.Biases(1)); diff != "" {
		t.Fatalf("Biases (-want, +got):\n%s", diff)
	}

	if err := n.SetBiases(1, []idx.Scalar{1}); !errors.Is(err, ErrShape) {
		t.Fatalf("SetBiases: want %v, got %v", ErrShape, err)
	}
	if err := n.SetBiases(2, nil); !errors.Is(err, ErrLayers) {
		t.Fatalf("SetBiases: want %v, got %v", ErrLayers, err)
	}

	if err := n.SetWeights(1, []idx.Scalar{1, 2, 3, 4, 5, 6}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float32{1, 2, 3, 4, 5, 6}, n.Weights(1)); diff != "" {
		t.Fatalf("Weights (-want, +got):\n%s", diff)
	}
}

func TestInput(t *testing.T) {
	t.Parallel()

	got := Input(&idx.Image{Rows: 1, Cols: 3, Pix: []byte{0, 51, 255}})
	if diff := cmp.Diff([]float32{0, 0.2, 1}, got); diff != "" {
		t.Fatalf("Input (-want, +got):\n%s", diff)
	}
}
