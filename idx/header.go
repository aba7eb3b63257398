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
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// MagicLabels is the magic number of a label file.
	MagicLabels uint32 = 0x00000801

	// MagicImages is the magic number of an image file.
	MagicImages uint32 = 0x00000803
)

const (
	// fieldSize is the size of a header field in bytes.
	fieldSize = 4

	// headerSize is the size of the magic number and record count fields.
	headerSize = 2 * fieldSize

	// imageHeaderSize includes the nominal rows and columns fields of image
	// files.
	imageHeaderSize = 4 * fieldSize

	// scalarSize is the size of a float32 record.
	scalarSize = 4
)

// Kind is the type of the records held in an IDX file.
type Kind int

const (
	// KindUnknown is an unrecognized record type.
	KindUnknown Kind = iota

	// KindLabel records are single unsigned bytes.
	KindLabel

	// KindImage records are rows*cols unsigned bytes.
	KindImage

	// KindScalar records are 32 bit IEEE-754 floats.
	KindScalar

	// KindWeights is reserved for network weight files. Its magic number is
	// not published and must be registered with Options.Reserved.
	KindWeights

	// KindBiases is reserved for network bias files. Its magic number is not
	// published and must be registered with Options.Reserved.
	KindBiases
)

// String implements [fmt.Stringer].
func (k Kind) String() string {
	switch k {
	case KindLabel:
		return "label"
	case KindImage:
		return "image"
	case KindScalar:
		return "scalar"
	case KindWeights:
		return "weights"
	case KindBiases:
		return "biases"
	default:
		return "unknown"
	}
}

// ParseKind parses the string form of a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{KindLabel, KindImage, KindScalar, KindWeights, KindBiases} {
		if k.String() == s {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("%w: unknown record kind %q", ErrKind, s)
}

// Header is the fixed header at the start of every IDX file.
type Header struct {
	// Magic is the magic number identifying the file.
	Magic uint32

	// Count is the number of records in the file.
	Count uint32

	// Kind is the record type identified by Magic.
	Kind Kind
}

// Classify returns the Kind identified by the magic number. reserved maps
// additional magic numbers, such as those of weight and bias files, to their
// kinds. It returns an error wrapping ErrFormat if the magic number is not
// recognized.
func Classify(magic uint32, reserved map[uint32]Kind) (Kind, error) {
	switch magic {
	case MagicLabels:
		return KindLabel, nil
	case MagicImages:
		return KindImage, nil
	}
	if k, ok := reserved[magic]; ok && k != KindUnknown {
		return k, nil
	}
	return KindUnknown, fmt.Errorf("%w: unrecognized magic number 0x%08x", ErrFormat, magic)
}

// ReadHeader reads and validates the header of an IDX file.
func ReadHeader(r io.ReaderAt, reserved map[uint32]Kind) (*Header, error) {
	var b [headerSize]byte
	if err := readFull(r, b[:], 0); err != nil {
		return nil, fmt.Errorf("%w: reading header: %w", ErrIO, err)
	}

	magic := binary.BigEndian.Uint32(b[:fieldSize])
	kind, err := Classify(magic, reserved)
	if err != nil {
		return nil, err
	}

	return &Header{
		Magic: magic,
		Count: binary.BigEndian.Uint32(b[fieldSize:]),
		Kind:  kind,
	}, nil
}

// ReadDimensions reads the nominal rows and columns fields of an image file.
// The Decoder does not use these values to locate records.
func ReadDimensions(r io.ReaderAt) (rows, cols uint32, err error) {
	var b [imageHeaderSize - headerSize]byte
	if err := readFull(r, b[:], headerSize); err != nil {
		return 0, 0, fmt.Errorf("%w: reading dimensions: %w", ErrIO, err)
	}
	return binary.BigEndian.Uint32(b[:fieldSize]), binary.BigEndian.Uint32(b[fieldSize:]), nil
}

// readFull reads exactly len(b) bytes at off.
func readFull(r io.ReaderAt, b []byte, off int64) error {
	n, err := r.ReadAt(b, off)
	if n == len(b) {
		// ReadAt may return io.EOF along with a full read at the end of the
		// data.
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return err
}
