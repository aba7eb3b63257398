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
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-mnist/idx"
)

var dumpCommand = &cli.Command{
	Name:      "dump",
	Usage:     "Print label or scalar records one per line",
	ArgsUsage: "FILE",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "kind",
			Usage: "decode records as `KIND` (label, scalar, weights, biases)",
		},
		&cli.StringFlag{
			Name:  "order",
			Usage: "byte `ORDER` of scalar records (native, little, big)",
			Value: "native",
		},
		&cli.StringSliceFlag{
			Name:  "reserved",
			Usage: "register a reserved magic number as `MAGIC=KIND`",
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.Exit(fmt.Errorf("%w: expected FILE argument", ErrFlagParse), ExitCodeFlagParseError)
		}

		opts := &idx.Options{
			Logger: newLogger(c),
		}
		var err error
		if k := c.String("kind"); k != "" {
			opts.Kind, err = idx.ParseKind(k)
			if err != nil {
				return cli.Exit(fmt.Errorf("%w: %w", ErrFlagParse, err), ExitCodeFlagParseError)
			}
		}
		opts.ScalarOrder, err = parseOrder(c.String("order"))
		if err != nil {
			return cli.Exit(err, ExitCodeFlagParseError)
		}
		opts.Reserved, err = parseReserved(c.StringSlice("reserved"))
		if err != nil {
			return cli.Exit(err, ExitCodeFlagParseError)
		}

		s, err := idx.NewScannerFromPath(c.Args().Get(0), opts)
		if err != nil {
			return cli.Exit(err, ExitCodeUnknownError)
		}
		defer s.Close()

		if s.Decoder().Kind() == idx.KindImage {
			return cli.Exit(fmt.Errorf("%w: use show or export for image files", idx.ErrKind), ExitCodeUnknownError)
		}

		for s.Scan() {
			fmt.Fprintln(c.App.Writer, s.Item())
		}
		if err := s.Err(); err != nil {
			return cli.Exit(err, ExitCodeUnknownError)
		}
		return nil
	},
}

func parseOrder(order string) (binary.ByteOrder, error) {
	switch strings.ToLower(order) {
	case "native":
		return binary.NativeEndian, nil
	case "little":
		return binary.LittleEndian, nil
	case "big":
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("%w: unknown byte order %q", ErrFlagParse, order)
	}
}

// parseReserved parses MAGIC=KIND pairs. MAGIC may be given in any base
// accepted by strconv, e.g. 0x805.
func parseReserved(pairs []string) (map[uint32]idx.Kind, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	reserved := make(map[uint32]idx.Kind, len(pairs))
	for _, p := range pairs {
		m, k, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("%w: invalid reserved magic %q", ErrFlagParse, p)
		}
		magic, err := strconv.ParseUint(m, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid reserved magic %q: %w", ErrFlagParse, p, err)
		}
		kind, err := idx.ParseKind(k)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFlagParse, err)
		}
		reserved[uint32(magic)] = kind
	}
	return reserved, nil
}
