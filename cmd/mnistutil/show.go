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
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-mnist/bitmap"
	"github.com/ianlewis/go-mnist/idx"
)

var showCommand = &cli.Command{
	Name:      "show",
	Usage:     "Render an image as ASCII art",
	ArgsUsage: "FILE INDEX",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "labels",
			Usage:   "print the label of the image from label `FILE`",
			Aliases: []string{"l"},
		},
		&cli.BoolFlag{
			Name:  "shrink",
			Usage: "halve the image dimensions before rendering",
		},
		&cli.BoolFlag{
			Name:  "dark",
			Usage: "use a palette for light text on a dark background",
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return cli.Exit(fmt.Errorf("%w: expected FILE and INDEX arguments", ErrFlagParse), ExitCodeFlagParseError)
		}
		i, err := strconv.Atoi(c.Args().Get(1))
		if err != nil {
			return cli.Exit(fmt.Errorf("%w: invalid INDEX: %w", ErrFlagParse, err), ExitCodeFlagParseError)
		}

		logger := newLogger(c)
		d, err := idx.Open(c.Args().Get(0), &idx.Options{Logger: logger})
		if err != nil {
			return cli.Exit(err, ExitCodeUnknownError)
		}
		defer d.Close()

		img, err := d.Image(i)
		if err != nil {
			return cli.Exit(err, ExitCodeUnknownError)
		}
		if c.Bool("shrink") {
			img, err = bitmap.Shrink(img)
			if err != nil {
				return cli.Exit(err, ExitCodeUnknownError)
			}
		}

		if path := c.String("labels"); path != "" {
			ld, err := idx.Open(path, &idx.Options{Logger: logger})
			if err != nil {
				return cli.Exit(err, ExitCodeUnknownError)
			}
			defer ld.Close()

			l, err := ld.Label(i)
			if err != nil {
				return cli.Exit(err, ExitCodeUnknownError)
			}
			fmt.Fprintf(c.App.Writer, "label: %d\n", l)
		}

		palette := bitmap.LightPalette
		if c.Bool("dark") {
			palette = bitmap.DarkPalette
		}
		fmt.Fprintln(c.App.Writer, bitmap.RenderPalette(img, palette))

		return nil
	},
}
