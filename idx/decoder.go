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
	"log/slog"
	"math"
)

var (
	// ErrFormat indicates that the file is not a recognized IDX file.
	ErrFormat = errors.New("unrecognized format")

	// ErrIO indicates that the underlying data could not be read, typically
	// because the file is truncated.
	ErrIO = errors.New("reading idx data")

	// ErrIndex indicates that a record index is out of range.
	ErrIndex = errors.New("record index out of range")

	// ErrKind indicates that a record was requested as the wrong kind.
	ErrKind = errors.New("invalid record kind")

	// ErrByteOrder indicates that scalar records were requested without
	// specifying their byte order.
	ErrByteOrder = errors.New("scalar byte order not specified")

	// ErrGeometry indicates invalid image dimensions.
	ErrGeometry = errors.New("invalid image geometry")
)

const (
	// DefaultRows is the number of rows in an MNIST image.
	DefaultRows = 28

	// DefaultCols is the number of columns in an MNIST image.
	DefaultCols = 28

	// DefaultProgressInterval is the default number of records between
	// progress reports.
	DefaultProgressInterval = 100
)

// Options are options for decoding an IDX file.
type Options struct {
	// Name identifies the data in error and log messages. Open sets it to the
	// file path.
	Name string

	// Kind overrides the record kind identified by the magic number. This
	// allows, for example, reading the payload of a file as raw scalars.
	Kind Kind

	// Rows and Cols are the image dimensions. IDX image files record their
	// dimensions in the header but the Decoder does not read them.
	Rows int
	Cols int

	// ScalarOrder is the byte order of scalar records. It must be set when
	// decoding scalar, weight or bias records. Header fields are always big
	// endian.
	ScalarOrder binary.ByteOrder

	// Reserved maps magic numbers of reserved formats (e.g. weights and
	// biases) to their record kind.
	Reserved map[uint32]Kind

	// Progress, if not nil, is called periodically while loading records.
	Progress func(done, total int)

	// ProgressInterval is the number of records between calls to Progress.
	ProgressInterval int

	// Logger receives diagnostic messages. Defaults to discarding them.
	Logger *slog.Logger
}

// DefaultOptions is the default options for a Decoder.
var DefaultOptions = &Options{
	Rows:             DefaultRows,
	Cols:             DefaultCols,
	ProgressInterval: DefaultProgressInterval,
}

// Item is a decoded record. It is one of *Image, Label, or Scalar.
type Item interface {
	isItem()
}

// Image is a decoded image record.
type Image struct {
	Rows int
	Cols int

	// Pix holds the pixel intensities in row-major order.
	Pix []byte
}

// At returns the intensity of the pixel at row y and column x.
func (img *Image) At(x, y int) byte {
	return img.Pix[y*img.Cols+x]
}

// Label is a decoded label record.
type Label uint8

// Scalar is a decoded floating point record.
type Scalar float32

func (*Image) isItem() {}
func (Label) isItem()  {}
func (Scalar) isItem() {}

// sizer is implemented by readers that know the size of their data, such as
// *bytes.Reader and *io.SectionReader.
type sizer interface {
	Size() int64
}

// Decoder provides random access to the records of an IDX file.
type Decoder struct {
	r io.ReaderAt
	c io.Closer

	// serial is true when r does not support concurrent reads.
	serial bool

	// size is the size of the data in bytes or -1 if unknown.
	size int64

	name   string
	header Header
	kind   Kind

	rows, cols int
	order      binary.ByteOrder

	progress func(done, total int)
	interval int
	logger   *slog.Logger
}

// New reads the IDX header from r and returns a new Decoder. Only the header
// is read. Records are decoded on demand or by calling Load.
func New(r io.ReaderAt, options *Options) (*Decoder, error) {
	if options == nil {
		options = DefaultOptions
	}

	d := &Decoder{
		r:        r,
		size:     -1,
		name:     options.Name,
		rows:     options.Rows,
		cols:     options.Cols,
		order:    options.ScalarOrder,
		progress: options.Progress,
		interval: options.ProgressInterval,
		logger:   options.Logger,
	}
	if d.rows == 0 {
		d.rows = DefaultRows
	}
	if d.cols == 0 {
		d.cols = DefaultCols
	}
	if d.interval <= 0 {
		d.interval = DefaultProgressInterval
	}
	if d.logger == nil {
		d.logger = slog.New(slog.DiscardHandler)
	}
	if s, ok := r.(sizer); ok {
		d.size = s.Size()
	}
	if d.rows < 0 || d.cols < 0 || d.rows > math.MaxInt32/d.cols {
		return nil, d.wrap(fmt.Errorf("%w: %dx%d", ErrGeometry, d.rows, d.cols))
	}

	h, err := ReadHeader(r, options.Reserved)
	if err != nil {
		return nil, d.wrap(err)
	}
	if uint64(h.Count) > math.MaxInt {
		return nil, d.wrap(fmt.Errorf("%w: record count %d too large", ErrFormat, h.Count))
	}
	d.header = *h
	d.kind = h.Kind
	if options.Kind != KindUnknown {
		d.kind = options.Kind
	}
	switch d.kind {
	case KindScalar, KindWeights, KindBiases:
		if d.order == nil {
			return nil, d.wrap(fmt.Errorf("%w: decoding %v records", ErrByteOrder, d.kind))
		}
	}

	d.logger.Debug("detected idx file",
		"name", d.name,
		"magic", fmt.Sprintf("0x%08x", h.Magic),
		"kind", h.Kind.String(),
		"count", h.Count,
	)

	return d, nil
}

// Name returns the name of the data, usually a file path.
func (d *Decoder) Name() string {
	return d.name
}

// Header returns the file header.
func (d *Decoder) Header() Header {
	return d.header
}

// Kind returns the kind of records produced by the decoder.
func (d *Decoder) Kind() Kind {
	return d.kind
}

// Len returns the number of records in the file.
func (d *Decoder) Len() int {
	return int(d.header.Count)
}

// Geometry returns the configured image dimensions.
func (d *Decoder) Geometry() (rows, cols int) {
	return d.rows, d.cols
}

// Dimensions reads the nominal rows and columns fields of an image file. See
// ReadDimensions.
func (d *Decoder) Dimensions() (rows, cols uint32, err error) {
	if d.header.Kind != KindImage {
		return 0, 0, fmt.Errorf("%w: %v files have no dimensions", ErrKind, d.header.Kind)
	}
	rows, cols, err = ReadDimensions(d.r)
	if err != nil {
		return 0, 0, d.wrap(err)
	}
	return rows, cols, nil
}

// Offset returns the absolute byte offset of record i.
func (d *Decoder) Offset(i int) int64 {
	base := int64(headerSize)
	if d.kind == KindImage {
		base = imageHeaderSize
	}
	return base + int64(i)*int64(d.recordSize())
}

// Item decodes record i according to the decoder's kind.
func (d *Decoder) Item(i int) (Item, error) {
	switch d.kind {
	case KindImage:
		img, err := d.Image(i)
		if err != nil {
			return nil, err
		}
		return img, nil
	case KindLabel:
		l, err := d.Label(i)
		if err != nil {
			return nil, err
		}
		return l, nil
	default:
		s, err := d.Scalar(i)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// Image decodes image record i.
func (d *Decoder) Image(i int) (*Image, error) {
	if err := d.check(i, KindImage); err != nil {
		return nil, err
	}
	b := make([]byte, d.recordSize())
	if err := d.readAt(b, i); err != nil {
		return nil, err
	}
	return &Image{
		Rows: d.rows,
		Cols: d.cols,
		Pix:  b,
	}, nil
}

// Label decodes label record i.
func (d *Decoder) Label(i int) (Label, error) {
	if err := d.check(i, KindLabel); err != nil {
		return 0, err
	}
	var b [1]byte
	if err := d.readAt(b[:], i); err != nil {
		return 0, err
	}
	return Label(b[0]), nil
}

// Scalar decodes scalar record i. Weight and bias records are decoded as
// scalars.
func (d *Decoder) Scalar(i int) (Scalar, error) {
	switch d.kind {
	case KindScalar, KindWeights, KindBiases:
	default:
		return 0, fmt.Errorf("%w: %v decoder cannot decode scalars", ErrKind, d.kind)
	}
	if err := d.checkIndex(i); err != nil {
		return 0, err
	}
	var b [scalarSize]byte
	if err := d.readAt(b[:], i); err != nil {
		return 0, err
	}
	return Scalar(math.Float32frombits(d.order.Uint32(b[:]))), nil
}

// Close closes the underlying reader if the decoder owns it.
func (d *Decoder) Close() error {
	if d.c == nil {
		return nil
	}
	if err := d.c.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", d.name, err)
	}
	return nil
}

func (d *Decoder) recordSize() int {
	switch d.kind {
	case KindImage:
		return d.rows * d.cols
	case KindLabel:
		return 1
	default:
		return scalarSize
	}
}

func (d *Decoder) check(i int, k Kind) error {
	if d.kind != k {
		return fmt.Errorf("%w: %v decoder cannot decode %v records", ErrKind, d.kind, k)
	}
	return d.checkIndex(i)
}

func (d *Decoder) checkIndex(i int) error {
	if i < 0 || i >= d.Len() {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndex, i, d.Len())
	}
	return nil
}

// checkSize returns an error wrapping ErrIO if the data is known to be too
// short to hold every record. It names the first incomplete record.
func (d *Decoder) checkSize() error {
	if d.size < 0 {
		return nil
	}
	n := d.Len()
	if d.Offset(n) <= d.size {
		return nil
	}
	i := 0
	if base := d.Offset(0); d.size > base {
		i = int((d.size - base) / int64(d.recordSize()))
	}
	return d.wrap(fmt.Errorf("%w: %v record %d: %w", ErrIO, d.kind, i, io.ErrUnexpectedEOF))
}

// readAt reads the len(b) bytes of record i.
func (d *Decoder) readAt(b []byte, i int) error {
	if err := readFull(d.r, b, d.Offset(i)); err != nil {
		return d.wrap(fmt.Errorf("%w: %v record %d: %w", ErrIO, d.kind, i, err))
	}
	return nil
}

func (d *Decoder) wrap(err error) error {
	if d.name == "" {
		return err
	}
	return fmt.Errorf("%s: %w", d.name, err)
}
