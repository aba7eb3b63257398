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
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ianlewis/go-dictzip"
)

// Compression is the compression applied to a temporary test file.
type Compression int

const (
	// None writes the data as is.
	None Compression = iota

	// Gzip compresses the data with gzip.
	Gzip

	// DictZip compresses the data with dictzip.
	DictZip
)

// MakeFileOptions are options for MakeTempFile.
type MakeFileOptions struct {
	// Dir is the directory to write the file to. Defaults to t.TempDir().
	Dir string

	// Name is the file name without the compression extension. Defaults to
	// "data-idx-ubyte".
	Name string

	// Compression is the compression to apply. The matching extension (.gz
	// or .dz) is appended to Name.
	Compression Compression
}

// GetName returns the file name including the compression extension.
func (o *MakeFileOptions) GetName() string {
	name := "data-idx-ubyte"
	if o == nil {
		return name
	}
	if o.Name != "" {
		name = o.Name
	}
	switch o.Compression {
	case Gzip:
		return name + ".gz"
	case DictZip:
		return name + ".dz"
	default:
		return name
	}
}

// MakeTempFile writes data to a temporary file and returns its path. The
// file is removed when the test completes.
func MakeTempFile(t *testing.T, data []byte, opts *MakeFileOptions) string {
	t.Helper()
	if opts == nil {
		opts = &MakeFileOptions{}
	}

	dir := opts.Dir
	if dir == "" {
		dir = t.TempDir()
	}

	path := filepath.Join(dir, opts.GetName())
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var w io.WriteCloser
	switch opts.Compression {
	case Gzip:
		w = gzip.NewWriter(f)
	case DictZip:
		w, err = dictzip.NewWriter(f)
		if err != nil {
			t.Fatal(err)
		}
	}

	if w == nil {
		if _, err := f.Write(data); err != nil {
			t.Fatal(err)
		}
		return path
	}

	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}
