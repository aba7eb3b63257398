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

// Package network defines the layout of a fully connected feed-forward
// network over MNIST images. It only allocates parameters; it does not
// implement training or inference.
package network

import (
	"errors"
	"fmt"

	"github.com/ianlewis/go-mnist/idx"
)

var (
	// ErrLayers indicates an invalid layer configuration.
	ErrLayers = errors.New("invalid layers")

	// ErrShape indicates that parameter values do not match a layer's shape.
	ErrShape = errors.New("parameter shape mismatch")
)

// Network is a feed-forward network.
type Network struct {
	sizes []int

	// weights[i] is a row-major sizes[i] x sizes[i-1] matrix. weights[0] is
	// empty since the input layer has no incoming connections.
	weights [][]float32
	biases  [][]float32
}

// New allocates a network with the given number of neurons per layer. All
// weights and biases are zero.
func New(neuronsPerLayer []int) (*Network, error) {
	if len(neuronsPerLayer) == 0 {
		return nil, fmt.Errorf("%w: no layers", ErrLayers)
	}

	n := &Network{
		sizes:   make([]int, len(neuronsPerLayer)),
		weights: make([][]float32, len(neuronsPerLayer)),
		biases:  make([][]float32, len(neuronsPerLayer)),
	}
	copy(n.sizes, neuronsPerLayer)

	for i, size := range n.sizes {
		if size <= 0 {
			return nil, fmt.Errorf("%w: layer %d has %d neurons", ErrLayers, i, size)
		}
		n.biases[i] = make([]float32, size)
		if i > 0 {
			n.weights[i] = make([]float32, size*n.sizes[i-1])
		} else {
			n.weights[i] = []float32{}
		}
	}
	return n, nil
}

// NumLayers returns the number of layers including the input layer.
func (n *Network) NumLayers() int {
	return len(n.sizes)
}

// Sizes returns the number of neurons in each layer.
func (n *Network) Sizes() []int {
	sizes := make([]int, len(n.sizes))
	copy(sizes, n.sizes)
	return sizes
}

// Weights returns the weight matrix of the connections into layer.
func (n *Network) Weights(layer int) []float32 {
	return n.weights[layer]
}

// Biases returns the biases of layer.
func (n *Network) Biases(layer int) []float32 {
	return n.biases[layer]
}

// SetWeights sets the weights of the connections into layer from decoded
// scalar records.
func (n *Network) SetWeights(layer int, values []idx.Scalar) error {
	if err := n.checkLayer(layer); err != nil {
		return err
	}
	return set(n.weights[layer], values, "weights", layer)
}

// SetBiases sets the biases of layer from decoded scalar records.
func (n *Network) SetBiases(layer int, values []idx.Scalar) error {
	if err := n.checkLayer(layer); err != nil {
		return err
	}
	return set(n.biases[layer], values, "biases", layer)
}

func (n *Network) checkLayer(layer int) error {
	if layer < 0 || layer >= len(n.sizes) {
		return fmt.Errorf("%w: layer %d not in [0, %d)", ErrLayers, layer, len(n.sizes))
	}
	return nil
}

func set(dst []float32, values []idx.Scalar, what string, layer int) error {
	if len(values) != len(dst) {
		return fmt.Errorf("%w: layer %d %s: want %d values, got %d", ErrShape, layer, what, len(dst), len(values))
	}
	for i, v := range values {
		dst[i] = float32(v)
	}
	return nil
}

// Input converts img to an input vector with intensities scaled to [0, 1].
func Input(img *idx.Image) []float32 {
	in := make([]float32, len(img.Pix))
	for i, p := range img.Pix {
		in[i] = float32(p) / 255
	}
	return in
}
