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

// Package mnist implements a library for reading the MNIST handwritten digit
// dataset in pure Go.
//
// The dataset is distributed as four IDX files:
//  1. train-images-idx3-ubyte: 60,000 training images.
//  2. train-labels-idx1-ubyte: the labels of the training images.
//  3. t10k-images-idx3-ubyte: 10,000 test images.
//  4. t10k-labels-idx1-ubyte: the labels of the test images.
//
// Each file may be compressed with gzip (.gz) or dictzip (.dz). The IDX file
// format is implemented by the idx package.
//
// More info on the dataset can be found at this URL:
// http://yann.lecun.com/exdb/mnist/
package mnist
