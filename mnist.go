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

package mnist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ianlewis/go-mnist/idx"
)

var (
	// ErrNotFound indicates that a dataset file could not be found.
	ErrNotFound = errors.New("dataset file not found")

	// ErrCountMismatch indicates that the image and label files hold a
	// different number of records.
	ErrCountMismatch = errors.New("image and label counts differ")
)

// Set identifies one of the two MNIST datasets.
type Set int

const (
	// TestSet is the 10,000 image test set.
	TestSet Set = iota

	// TrainSet is the 60,000 image training set.
	TrainSet
)

// String implements [fmt.Stringer].
func (s Set) String() string {
	if s == TrainSet {
		return "train"
	}
	return "t10k"
}

// ImagesName returns the base file name of the set's image file.
func (s Set) ImagesName() string {
	return s.String() + "-images-idx3-ubyte"
}

// LabelsName returns the base file name of the set's label file.
func (s Set) LabelsName() string {
	return s.String() + "-labels-idx1-ubyte"
}

// Options are options for opening a Dataset.
type Options struct {
	// Rows and Cols are the image dimensions. Defaults to 28x28.
	Rows int
	Cols int

	// Workers is the number of goroutines used to decode each file. Values
	// less than 2 decode sequentially.
	Workers int

	// Progress, if not nil, is called periodically while each file is loaded.
	Progress func(path string, done, total int)

	// Logger receives diagnostic messages. Defaults to discarding them.
	Logger *slog.Logger
}

// Dataset is a set of images and their labels.
type Dataset struct {
	images []*idx.Image
	labels []idx.Label
}

// FindFile returns the path of the file with base name name in dir. The
// uncompressed file is preferred, then gzip and dictzip compressed files.
func FindFile(dir, name string) (string, error) {
	exts := []string{"", ".gz", ".GZ", ".dz", ".DZ"}
	for _, ext := range exts {
		path := filepath.Join(dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %q in %q", ErrNotFound, name, dir)
}

// Open loads the given set from the dataset files in dir.
func Open(ctx context.Context, dir string, set Set, opts *Options) (*Dataset, error) {
	imagesPath, err := FindFile(dir, set.ImagesName())
	if err != nil {
		return nil, err
	}
	labelsPath, err := FindFile(dir, set.LabelsName())
	if err != nil {
		return nil, err
	}
	return OpenFiles(ctx, imagesPath, labelsPath, opts)
}

// OpenFiles loads a dataset from an image file and a label file.
func OpenFiles(ctx context.Context, imagesPath, labelsPath string, opts *Options) (*Dataset, error) {
	if opts == nil {
		opts = &Options{}
	}

	images, err := loadFile(ctx, imagesPath, idx.KindImage, opts)
	if err != nil {
		return nil, err
	}
	labels, err := loadFile(ctx, labelsPath, idx.KindLabel, opts)
	if err != nil {
		return nil, err
	}

	if len(images) != len(labels) {
		return nil, fmt.Errorf("%w: %d images, %d labels", ErrCountMismatch, len(images), len(labels))
	}

	ds := &Dataset{
		images: make([]*idx.Image, len(images)),
		labels: make([]idx.Label, len(labels)),
	}
	for i := range images {
		// Kinds are checked by loadFile.
		ds.images[i] = images[i].(*idx.Image)
		ds.labels[i] = labels[i].(idx.Label)
	}
	return ds, nil
}

// Len returns the number of samples.
func (ds *Dataset) Len() int {
	return len(ds.images)
}

// Images returns the images in file order.
func (ds *Dataset) Images() []*idx.Image {
	return ds.images
}

// Labels returns the labels in file order.
func (ds *Dataset) Labels() []idx.Label {
	return ds.labels
}

// Sample returns image i and its label.
func (ds *Dataset) Sample(i int) (*idx.Image, idx.Label, error) {
	if i < 0 || i >= len(ds.images) {
		return nil, 0, fmt.Errorf("%w: %d not in [0, %d)", idx.ErrIndex, i, len(ds.images))
	}
	return ds.images[i], ds.labels[i], nil
}

func loadFile(ctx context.Context, path string, kind idx.Kind, opts *Options) ([]idx.Item, error) {
	idxOpts := &idx.Options{
		Rows:   opts.Rows,
		Cols:   opts.Cols,
		Logger: opts.Logger,
	}
	if opts.Progress != nil {
		idxOpts.Progress = func(done, total int) {
			opts.Progress(path, done, total)
		}
	}

	d, err := idx.Open(path, idxOpts)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	if d.Kind() != kind {
		return nil, fmt.Errorf("%s: %w: want %v file, got %v", path, idx.ErrKind, kind, d.Kind())
	}

	return d.LoadParallel(ctx, opts.Workers)
}
