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

// Package idx implements reading IDX files as distributed with the MNIST
// handwritten digit dataset.
//
// An IDX file starts with a header of 32 bit integers in network byte order
// followed by a flat array of fixed size records:
//  1. The magic number identifying the record type (0x00000801 for labels,
//     0x00000803 for images).
//  2. The number of records in the file.
//  3. For image files only, the number of rows and the number of columns of
//     each image.
//
// The Decoder does not derive record geometry from the file. Image rows and
// columns are configured through [Options] and default to 28x28. Every record
// is read with an independent absolute read so records can be decoded in any
// order.
package idx
