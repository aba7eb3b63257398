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
	"io"
	"path/filepath"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// progressPrinter prints a single updating progress line per file.
type progressPrinter struct {
	mu sync.Mutex
	w  io.Writer
	p  *message.Printer
}

func newProgressPrinter(w io.Writer) *progressPrinter {
	return &progressPrinter{
		w: w,
		p: message.NewPrinter(language.English),
	}
}

// Print prints the progress of reading the file at path.
func (pp *progressPrinter) Print(path string, done, total int) {
	pp.mu.Lock()
	defer pp.mu.Unlock()

	pp.p.Fprintf(pp.w, "\rReading %s [%d/%d]", filepath.Base(path), done, total)
	if done == total {
		fmt.Fprintln(pp.w)
	}
}
