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
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/image/bmp"

	"github.com/ianlewis/go-mnist/idx"
)

// Ext is the file extension of exported images.
const Ext = ".bmp"

// ExportOptions are options for Export.
type ExportOptions struct {
	// Clear removes all existing files in the directory before exporting.
	// Directories are left alone.
	Clear bool

	// Progress, if not nil, is called after each image is written.
	Progress func(done, total int)

	// Logger receives a message for each file written or removed. Defaults
	// to discarding them.
	Logger *slog.Logger
}

// Gray converts img to a single channel grayscale image.
func Gray(img *idx.Image) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, img.Cols, img.Rows))
	copy(g.Pix, img.Pix)
	return g
}

// Export writes each image to dir as a grayscale bitmap named by its index,
// e.g. "0.bmp". dir is created if it does not exist.
func Export(dir string, images []*idx.Image, opts *ExportOptions) error {
	if opts == nil {
		opts = &ExportOptions{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %q: %w", dir, err)
	}

	if opts.Clear {
		removed, err := ClearDir(dir)
		for _, name := range removed {
			logger.Info("removed file", "path", filepath.Join(dir, name))
		}
		if err != nil {
			return err
		}
	}

	for i, img := range images {
		name := strconv.Itoa(i) + Ext
		if err := writeBMP(filepath.Join(dir, name), img); err != nil {
			return err
		}
		logger.Debug("created image", "path", filepath.Join(dir, name))
		if opts.Progress != nil {
			opts.Progress(i+1, len(images))
		}
	}

	return nil
}

// ClearDir removes every file in dir and returns the names of the removed
// files. Subdirectories are not removed.
func ClearDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", dir, err)
	}

	var removed []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return removed, fmt.Errorf("removing %q: %w", e.Name(), err)
		}
		removed = append(removed, e.Name())
	}
	return removed, nil
}

func writeBMP(path string, img *idx.Image) (err error) {
	if len(img.Pix) != img.Rows*img.Cols {
		return fmt.Errorf("%w: %d pixels for %dx%d image", idx.ErrGeometry, len(img.Pix), img.Rows, img.Cols)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %q: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if err := bmp.Encode(f, Gray(img)); err != nil {
		return fmt.Errorf("encoding %q: %w", path, err)
	}
	return nil
}
