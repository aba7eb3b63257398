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

// Scanner decodes records one at a time from start to end.
type Scanner struct {
	d    *Decoder
	i    int
	item Item
	err  error
}

// NewScanner returns a new Scanner that reads records from d. The Scanner
// assumes ownership of the decoder and should be closed with the Close
// method.
func NewScanner(d *Decoder) *Scanner {
	return &Scanner{
		d: d,
		i: -1,
	}
}

// NewScannerFromPath opens the IDX file at path and returns a Scanner over its
// records.
func NewScannerFromPath(path string, options *Options) (*Scanner, error) {
	d, err := Open(path, options)
	if err != nil {
		return nil, err
	}
	return NewScanner(d), nil
}

// Scan advances the scanner to the next record. It returns false if the scan
// stops either by reaching the last record or an error.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	next := s.i + 1
	if next >= s.d.Len() {
		return false
	}
	item, err := s.d.Item(next)
	if err != nil {
		s.err = err
		s.item = nil
		return false
	}
	s.i = next
	s.item = item
	return true
}

// Index returns the index of the current record.
func (s *Scanner) Index() int {
	return s.i
}

// Item returns the current record.
func (s *Scanner) Item() Item {
	return s.item
}

// Err returns the first error encountered.
func (s *Scanner) Err() error {
	return s.err
}

// Decoder returns the underlying decoder.
func (s *Scanner) Decoder() *Decoder {
	return s.d
}

// Close closes the underlying decoder.
func (s *Scanner) Close() error {
	return s.d.Close()
}
