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
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// maxPrealloc bounds the number of records allocated up front when the size
// of the data is unknown. The header record count is not trusted.
const maxPrealloc = 1 << 16

// Load decodes all records in index order. The result has exactly Len()
// items. If any record fails to decode no records are returned. Data known to
// be too short for Len() records fails with ErrIO before any record is read.
func (d *Decoder) Load() ([]Item, error) {
	return load(d, d.Item)
}

// LoadImages decodes all records of an image file.
func (d *Decoder) LoadImages() ([]*Image, error) {
	if d.kind != KindImage {
		return nil, fmt.Errorf("%w: loading images from %v decoder", ErrKind, d.kind)
	}
	return load(d, d.Image)
}

// LoadLabels decodes all records of a label file.
func (d *Decoder) LoadLabels() ([]Label, error) {
	if d.kind != KindLabel {
		return nil, fmt.Errorf("%w: loading labels from %v decoder", ErrKind, d.kind)
	}
	return load(d, d.Label)
}

// LoadScalars decodes all records of a scalar, weights or biases file.
func (d *Decoder) LoadScalars() ([]Scalar, error) {
	switch d.kind {
	case KindScalar, KindWeights, KindBiases:
	default:
		return nil, fmt.Errorf("%w: loading scalars from %v decoder", ErrKind, d.kind)
	}
	return load(d, d.Scalar)
}

// LoadParallel decodes all records using up to workers goroutines. The result
// is the same as Load. The decoder's reader must support concurrent calls to
// ReadAt and report its size (see io.SectionReader). Other decoders, and
// workers values less than 2, fall back to Load. Progress may be reported out of order but calls
// to the progress function are serialized.
func (d *Decoder) LoadParallel(ctx context.Context, workers int) ([]Item, error) {
	n := d.Len()
	if d.serial || d.size < 0 || workers < 2 || n < 2 {
		return d.Load()
	}
	if err := d.checkSize(); err != nil {
		return nil, err
	}
	if workers > n {
		workers = n
	}

	d.logger.Debug("reading items",
		"name", d.name,
		"kind", d.kind.String(),
		"count", n,
		"workers", workers,
	)

	items := make([]Item, n)
	var mu sync.Mutex
	done := 0

	g, ctx := errgroup.WithContext(ctx)
	size := (n + workers - 1) / workers
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				item, err := d.Item(i)
				if err != nil {
					return err
				}
				items[i] = item

				mu.Lock()
				done++
				if d.progress != nil && done%d.interval == 0 && done != n {
					d.progress(done, n)
				}
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.report(n, n)
	return items, nil
}

func load[T any](d *Decoder, decode func(int) (T, error)) ([]T, error) {
	n := d.Len()
	d.logger.Debug("reading items", "name", d.name, "kind", d.kind.String(), "count", n)

	if err := d.checkSize(); err != nil {
		return nil, err
	}

	c := n
	if d.size < 0 {
		c = min(n, maxPrealloc)
	}
	items := make([]T, 0, c)
	for i := range n {
		item, err := decode(i)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if done := i + 1; done%d.interval == 0 && done != n {
			d.report(done, n)
		}
	}

	d.report(n, n)
	d.logger.Debug("completed reading items", "name", d.name, "count", n)
	return items, nil
}

func (d *Decoder) report(done, total int) {
	if d.progress != nil {
		d.progress(done, total)
	}
}
