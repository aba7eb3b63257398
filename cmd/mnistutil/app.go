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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-mnist"
)

const (
	// ExitCodeSuccess is successful error code.
	ExitCodeSuccess int = iota

	// ExitCodeFlagParseError is the exit code for a flag parsing error.
	ExitCodeFlagParseError

	// ExitCodeUnknownError is the exit code for an unknown error.
	ExitCodeUnknownError
)

// ErrMnistutil is a parent error for all command errors.
var ErrMnistutil = errors.New("mnistutil")

// ErrFlagParse is a flag parsing error.
var ErrFlagParse = fmt.Errorf("%w: parsing flags", ErrMnistutil)

// ErrNoData indicates that no dataset directory was found.
var ErrNoData = fmt.Errorf("%w: no dataset found", ErrMnistutil)

var copyrightNames = []string{
	"2025 Ian Lewis",
}

func newMnistApp() *cli.App {
	return &cli.App{
		Name:  filepath.Base(os.Args[0]),
		Usage: "Inspect MNIST dataset files.",
		Description: strings.Join([]string{
			"MNIST IDX file utility written in Go.",
			"Without a command the test set images and labels are loaded",
			"from the first data directory that contains them.",
			"http://github.com/ianlewis/go-mnist",
		}, "\n"),
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "data-dir",
				Usage:   "search for dataset files in `DIR`",
				Aliases: []string{"d"},
				Value:   cli.NewStringSlice(dataLocations()...),
			},
			&cli.BoolFlag{
				Name:  "train",
				Usage: "also load the training set",
			},
			&cli.IntFlag{
				Name:    "workers",
				Usage:   "decode files with `N` goroutines",
				Aliases: []string{"w"},
				Value:   1,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log `LEVEL` (debug, info, warn, error)",
				Value: "info",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "read defaults from `FILE`",
				Value: configPath(),
			},
			&cli.BoolFlag{
				Name:               "version",
				Usage:              "print version information and exit",
				Aliases:            []string{"V"},
				DisableDefaultText: true,
			},
		},
		Copyright:       strings.Join(copyrightNames, "\n"),
		HideHelpCommand: true,
		HideVersion:     true,
		Before:          applyConfig,
		OnUsageError: func(_ *cli.Context, err error, _ bool) error {
			return cli.Exit(fmt.Errorf("%w: %w", ErrFlagParse, err), ExitCodeFlagParseError)
		},
		Action: func(c *cli.Context) error {
			if c.Bool("version") {
				return printVersion(c)
			}
			return loadAction(c)
		},
		Commands: []*cli.Command{
			infoCommand,
			showCommand,
			dumpCommand,
			exportCommand,
		},
	}
}

// loadAction loads the test set, and optionally the training set, from the
// first data directory containing the dataset files.
func loadAction(c *cli.Context) error {
	logger := newLogger(c)
	progress := newProgressPrinter(c.App.ErrWriter)

	sets := []mnist.Set{mnist.TestSet}
	if c.Bool("train") {
		sets = []mnist.Set{mnist.TrainSet, mnist.TestSet}
	}

	dir, err := findDataDir(c.StringSlice("data-dir"), sets)
	if err != nil {
		return cli.Exit(err, ExitCodeUnknownError)
	}

	for _, set := range sets {
		ds, err := mnist.Open(c.Context, dir, set, &mnist.Options{
			Workers:  c.Int("workers"),
			Progress: progress.Print,
			Logger:   logger,
		})
		if err != nil {
			return cli.Exit(err, ExitCodeUnknownError)
		}
		logger.Info("loaded dataset", "set", set.String(), "dir", dir, "samples", ds.Len())
	}

	return nil
}

// findDataDir returns the first directory that contains the image and label
// files of all of the given sets.
func findDataDir(dirs []string, sets []mnist.Set) (string, error) {
outer:
	for _, dir := range dirs {
		for _, set := range sets {
			if _, err := mnist.FindFile(dir, set.ImagesName()); err != nil {
				continue outer
			}
			if _, err := mnist.FindFile(dir, set.LabelsName()); err != nil {
				continue outer
			}
		}
		return dir, nil
	}
	return "", fmt.Errorf("%w: searched %s", ErrNoData, strings.Join(dirs, ", "))
}
