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

package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-mnist/bitmap"
	"github.com/ianlewis/go-mnist/idx"
)

var exportCommand = &cli.Command{
	Name:      "export",
	Usage:     "Write images as BMP files",
	ArgsUsage: "FILE [DIR]",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "clear",
			Usage: "remove existing files in DIR first",
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "export at most `N` images",
		},
		&cli.BoolFlag{
			Name:  "shrink",
			Usage: "halve the image dimensions before writing",
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() < 1 || c.NArg() > 2 {
			return cli.Exit(fmt.Errorf("%w: expected FILE and optional DIR arguments", ErrFlagParse), ExitCodeFlagParseError)
		}
		path := c.Args().Get(0)
		dir := "out"
		if c.NArg() == 2 {
			dir = c.Args().Get(1)
		}

		logger := newLogger(c)
		progress := newProgressPrinter(c.App.ErrWriter)

		d, err := idx.Open(path, &idx.Options{
			Logger: logger,
			Progress: func(done, total int) {
				progress.Print(path, done, total)
			},
		})
		if err != nil {
			return cli.Exit(err, ExitCodeUnknownError)
		}
		defer d.Close()

		images, err := loadImages(c, d, c.Int("limit"))
		if err != nil {
			return cli.Exit(err, ExitCodeUnknownError)
		}

		if c.Bool("shrink") {
			for i, img := range images {
				images[i], err = bitmap.Shrink(img)
				if err != nil {
					return cli.Exit(err, ExitCodeUnknownError)
				}
			}
		}

		err = bitmap.Export(dir, images, &bitmap.ExportOptions{
			Clear:  c.Bool("clear"),
			Logger: logger,
			Progress: func(done, total int) {
				progress.Print(dir, done, total)
			},
		})
		if err != nil {
			return cli.Exit(err, ExitCodeUnknownError)
		}

		logger.Info("exported images", "dir", dir, "count", len(images))
		return nil
	},
}

// loadImages decodes the first limit images of d, or all of them when limit
// is not positive.
func loadImages(c *cli.Context, d *idx.Decoder, limit int) ([]*idx.Image, error) {
	if d.Kind() != idx.KindImage {
		return nil, fmt.Errorf("%s: %w: %v file has no images", d.Name(), idx.ErrKind, d.Kind())
	}

	if limit > 0 && limit < d.Len() {
		images := make([]*idx.Image, limit)
		for i := range images {
			img, err := d.Image(i)
			if err != nil {
				return nil, err
			}
			images[i] = img
		}
		return images, nil
	}

	items, err := d.LoadParallel(c.Context, c.Int("workers"))
	if err != nil {
		return nil, err
	}
	images := make([]*idx.Image, len(items))
	for i, item := range items {
		images[i] = item.(*idx.Image)
	}
	return images, nil
}
