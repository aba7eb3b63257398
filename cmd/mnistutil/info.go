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
	"log/slog"

	"github.com/goccy/go-json"
	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-mnist/idx"
)

// fileInfo is the header information of an IDX file.
type fileInfo struct {
	Path  string `json:"path"`
	Magic string `json:"magic"`
	Kind  string `json:"kind"`
	Count uint32 `json:"count"`
	Rows  uint32 `json:"rows,omitempty"`
	Cols  uint32 `json:"cols,omitempty"`
}

var infoCommand = &cli.Command{
	Name:      "info",
	Usage:     "Print IDX file headers",
	ArgsUsage: "FILE...",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "print headers as JSON",
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() == 0 {
			return cli.Exit(fmt.Errorf("%w: missing FILE argument", ErrFlagParse), ExitCodeFlagParseError)
		}
		logger := newLogger(c)

		var infos []*fileInfo
		failed := false
		for _, path := range c.Args().Slice() {
			info, err := readInfo(path, logger)
			if err != nil {
				fmt.Fprintln(c.App.ErrWriter, err)
				failed = true
				continue
			}
			infos = append(infos, info)
		}

		if c.Bool("json") {
			enc := json.NewEncoder(c.App.Writer)
			enc.SetIndent("", "  ")
			if err := enc.Encode(infos); err != nil {
				return cli.Exit(err, ExitCodeUnknownError)
			}
		} else {
			tbl := table.New("Path", "Magic", "Kind", "Count", "Rows", "Cols").WithWriter(c.App.Writer)
			for _, info := range infos {
				rows, cols := "-", "-"
				if info.Kind == idx.KindImage.String() {
					rows, cols = fmt.Sprint(info.Rows), fmt.Sprint(info.Cols)
				}
				tbl.AddRow(info.Path, info.Magic, info.Kind, info.Count, rows, cols)
			}
			tbl.Print()
		}

		if failed {
			return cli.Exit(fmt.Errorf("%w: reading headers failed", ErrMnistutil), ExitCodeUnknownError)
		}
		return nil
	},
}

func readInfo(path string, logger *slog.Logger) (*fileInfo, error) {
	d, err := idx.Open(path, nil)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	h := d.Header()
	info := &fileInfo{
		Path:  path,
		Magic: fmt.Sprintf("0x%08x", h.Magic),
		Kind:  h.Kind.String(),
		Count: h.Count,
	}
	if h.Kind == idx.KindImage {
		info.Rows, info.Cols, err = d.Dimensions()
		if err != nil {
			return nil, err
		}
		if info.Rows != idx.DefaultRows || info.Cols != idx.DefaultCols {
			logger.Warn("image dimensions differ from decoder geometry",
				"path", path,
				"rows", info.Rows,
				"cols", info.Cols,
			)
		}
	}
	return info, nil
}
