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

package idx

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ianlewis/go-dictzip"
)

// Open opens the IDX file at path. Files with a .gz extension are
// decompressed into memory. Files with a .dz extension are read through a
// dictzip reader which supports random access without decompressing the
// whole file. The returned Decoder owns the file and should be closed with
// the Close method.
func Open(path string, options *Options) (*Decoder, error) {
	opts := *DefaultOptions
	if options != nil {
		opts = *options
	}
	if opts.Name == "" {
		opts.Name = path
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %q: %w", ErrIO, path, err)
	}

	var r io.ReaderAt
	var c io.Closer = f
	serial := false

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		b, err := readGzip(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: decompressing %q: %w", ErrIO, path, err)
		}
		r = bytes.NewReader(b)
		c = nil
	case ".dz":
		z, err := dictzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: opening dictzip %q: %w", ErrIO, path, err)
		}
		r = z
		c = &dictzipCloser{z: z, f: f}
		// The dictzip reader keeps a chunk cache and a shared file offset.
		serial = true
	default:
		fi, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: stat %q: %w", ErrIO, path, err)
		}
		r = io.NewSectionReader(f, 0, fi.Size())
	}

	d, err := New(r, &opts)
	if err != nil {
		if c != nil {
			c.Close()
		}
		return nil, err
	}
	d.c = c
	d.serial = serial
	if serial {
		// Only the compressed size is known.
		d.size = -1
	}
	return d, nil
}

// ReadFile opens the IDX file at path, decodes all of its records and closes
// the file.
func ReadFile(path string, options *Options) ([]Item, error) {
	d, err := Open(path, options)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	return d.Load()
}

func readGzip(r io.Reader) ([]byte, error) {
	z, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer z.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(z); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type dictzipCloser struct {
	z *dictzip.Reader
	f *os.File
}

func (c *dictzipCloser) Close() error {
	zErr := c.z.Close()
	fErr := c.f.Close()
	if errors.Is(fErr, os.ErrClosed) {
		fErr = nil
	}
	return errors.Join(zErr, fErr)
}
