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
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-mnist"
	"github.com/ianlewis/go-mnist/internal/testutil"
)

// runApp runs the app with args and returns its output and error. The
// configuration file is pointed at a path that does not exist.
func runApp(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	app := newMnistApp()
	app.Writer = &outBuf
	app.ErrWriter = &errBuf
	app.ExitErrHandler = func(*cli.Context, error) {}

	argv := append([]string{"mnistutil", "--config", filepath.Join(t.TempDir(), "config.yaml")}, args...)
	err = app.RunContext(context.Background(), argv)
	return outBuf.String(), errBuf.String(), err
}

func exitCode(err error) int {
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	if err != nil {
		return ExitCodeUnknownError
	}
	return ExitCodeSuccess
}

// makeDataDir writes a small test set to a temporary directory.
func makeDataDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	images := [][]byte{
		testutil.Fill(784, 0),
		testutil.Fill(784, 255),
		testutil.Fill(784, 128),
	}
	testutil.MakeTempFile(t, testutil.MakeImages(t, images, 28, 28), &testutil.MakeFileOptions{
		Dir:  dir,
		Name: mnist.TestSet.ImagesName(),
	})
	testutil.MakeTempFile(t, testutil.MakeLabels(t, []byte{7, 2, 1}), &testutil.MakeFileOptions{
		Dir:         dir,
		Name:        mnist.TestSet.LabelsName(),
		Compression: testutil.Gzip,
	})
	return dir
}

func TestLoadAction(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		dir := makeDataDir(t)
		_, stderr, err := runApp(t, "--data-dir", filepath.Join(t.TempDir(), "empty"), "--data-dir", dir)
		if err != nil {
			t.Fatalf("run: %v\n%s", err, stderr)
		}
		if !strings.Contains(stderr, "samples=3") {
			t.Fatalf("unexpected log output:\n%s", stderr)
		}
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		_, _, err := runApp(t, "--data-dir", t.TempDir())
		if !errors.Is(err, ErrNoData) {
			t.Fatalf("run: want %v, got %v", ErrNoData, err)
		}
		if got, want := exitCode(err), ExitCodeUnknownError; got != want {
			t.Fatalf("exit code: want %d, got %d", want, got)
		}
	})

	t.Run("bad magic", func(t *testing.T) {
		t.Parallel()

		dir := makeDataDir(t)
		testutil.MakeTempFile(t, testutil.MakeHeader(0x00000802, 3), &testutil.MakeFileOptions{
			Dir:  dir,
			Name: mnist.TestSet.LabelsName(),
		})
		if _, _, err := runApp(t, "--data-dir", dir); exitCode(err) == ExitCodeSuccess {
			t.Fatal("run: expected failure")
		}
	})
}

func TestFindDataDir(t *testing.T) {
	t.Parallel()

	empty := t.TempDir()
	dir := makeDataDir(t)

	got, err := findDataDir([]string{empty, dir}, []mnist.Set{mnist.TestSet})
	if err != nil {
		t.Fatal(err)
	}
	if got != dir {
		t.Fatalf("findDataDir: want %q, got %q", dir, got)
	}

	if _, err := findDataDir([]string{dir}, []mnist.Set{mnist.TrainSet}); !errors.Is(err, ErrNoData) {
		t.Fatalf("findDataDir: want %v, got %v", ErrNoData, err)
	}
}

func TestInfoCommand(t *testing.T) {
	t.Parallel()

	dir := makeDataDir(t)
	images := filepath.Join(dir, mnist.TestSet.ImagesName())
	labels := filepath.Join(dir, mnist.TestSet.LabelsName()+".gz")

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		stdout, stderr, err := runApp(t, "info", "--json", images, labels)
		if err != nil {
			t.Fatalf("run: %v\n%s", err, stderr)
		}

		var got []fileInfo
		if err := json.Unmarshal([]byte(stdout), &got); err != nil {
			t.Fatal(err)
		}
		expected := []fileInfo{
			{Path: images, Magic: "0x00000803", Kind: "image", Count: 3, Rows: 28, Cols: 28},
			{Path: labels, Magic: "0x00000801", Kind: "label", Count: 3},
		}
		if diff := cmp.Diff(expected, got); diff != "" {
			t.Fatalf("info (-want, +got):\n%s", diff)
		}
	})

	t.Run("table", func(t *testing.T) {
		t.Parallel()

		stdout, stderr, err := runApp(t, "info", images)
		if err != nil {
			t.Fatalf("run: %v\n%s", err, stderr)
		}
		for _, s := range []string{"Magic", "0x00000803", "image"} {
			if !strings.Contains(stdout, s) {
				t.Fatalf("info output missing %q:\n%s", s, stdout)
			}
		}
	})

	t.Run("bad file", func(t *testing.T) {
		t.Parallel()

		bad := testutil.MakeTempFile(t, testutil.MakeHeader(0xdeadbeef, 0), nil)
		stdout, stderr, err := runApp(t, "info", images, bad)
		if got, want := exitCode(err), ExitCodeUnknownError; got != want {
			t.Fatalf("exit code: want %d, got %d", want, got)
		}
		if !strings.Contains(stderr, "0xdeadbeef") {
			t.Fatalf("stderr does not name the magic number:\n%s", stderr)
		}
		if !strings.Contains(stdout, images) {
			t.Fatalf("valid file missing from output:\n%s", stdout)
		}
	})

	t.Run("no args", func(t *testing.T) {
		t.Parallel()

		_, _, err := runApp(t, "info")
		if got, want := exitCode(err), ExitCodeFlagParseError; got != want {
			t.Fatalf("exit code: want %d, got %d", want, got)
		}
	})
}

func TestShowCommand(t *testing.T) {
	t.Parallel()

	dir := makeDataDir(t)
	images := filepath.Join(dir, mnist.TestSet.ImagesName())
	labels := filepath.Join(dir, mnist.TestSet.LabelsName()+".gz")

	stdout, stderr, err := runApp(t, "show", "--shrink", "--labels", labels, images, "1")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, stderr)
	}

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if got, want := lines[0], "label: 2"; got != want {
		t.Fatalf("label line: want %q, got %q", want, got)
	}
	rows := lines[1:]
	// The rendering starts with a newline before the first row.
	if rows[0] == "" {
		rows = rows[1:]
	}
	if got, want := len(rows), 14; got != want {
		t.Fatalf("rendered rows: want %d, got %d", want, got)
	}
	if got, want := rows[0], strings.Repeat("@ ", 14); got != want {
		t.Fatalf("row 0: want %q, got %q", want, got)
	}

	if _, _, err := runApp(t, "show", images, "3"); exitCode(err) != ExitCodeUnknownError {
		t.Fatalf("out of range index: want exit code %d, got %v", ExitCodeUnknownError, err)
	}
	if _, _, err := runApp(t, "show", images, "x"); exitCode(err) != ExitCodeFlagParseError {
		t.Fatalf("bad index: want exit code %d, got %v", ExitCodeFlagParseError, err)
	}
}

func TestDumpCommand(t *testing.T) {
	t.Parallel()

	t.Run("labels", func(t *testing.T) {
		t.Parallel()

		path := testutil.MakeTempFile(t, testutil.MakeLabels(t, []byte{7, 2, 1}), nil)
		stdout, stderr, err := runApp(t, "dump", path)
		if err != nil {
			t.Fatalf("run: %v\n%s", err, stderr)
		}
		if diff := cmp.Diff("7\n2\n1\n", stdout); diff != "" {
			t.Fatalf("dump (-want, +got):\n%s", diff)
		}
	})

	t.Run("reserved biases", func(t *testing.T) {
		t.Parallel()

		data := testutil.MakeScalars(t, 0x00000806, []float32{0.5, -1.25}, binary.LittleEndian)
		path := testutil.MakeTempFile(t, data, nil)
		stdout, stderr, err := runApp(t, "dump", "--order", "little", "--reserved", "0x806=biases", path)
		if err != nil {
			t.Fatalf("run: %v\n%s", err, stderr)
		}
		if diff := cmp.Diff("0.5\n-1.25\n", stdout); diff != "" {
			t.Fatalf("dump (-want, +got):\n%s", diff)
		}
	})

	t.Run("unregistered magic", func(t *testing.T) {
		t.Parallel()

		data := testutil.MakeScalars(t, 0x00000806, []float32{0.5}, binary.LittleEndian)
		path := testutil.MakeTempFile(t, data, nil)
		if _, _, err := runApp(t, "dump", path); exitCode(err) != ExitCodeUnknownError {
			t.Fatalf("want exit code %d, got %v", ExitCodeUnknownError, err)
		}
	})

	t.Run("bad order", func(t *testing.T) {
		t.Parallel()

		path := testutil.MakeTempFile(t, testutil.MakeLabels(t, []byte{1}), nil)
		if _, _, err := runApp(t, "dump", "--order", "middle", path); exitCode(err) != ExitCodeFlagParseError {
			t.Fatalf("want exit code %d, got %v", ExitCodeFlagParseError, err)
		}
	})
}

func TestExportCommand(t *testing.T) {
	t.Parallel()

	dir := makeDataDir(t)
	images := filepath.Join(dir, mnist.TestSet.ImagesName())
	out := t.TempDir()

	stale := filepath.Join(out, "stale.txt")
	if err := os.WriteFile(stale, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, stderr, err := runApp(t, "--workers", "2", "export", "--clear", "--limit", "2", images, out)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, stderr)
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if diff := cmp.Diff([]string{"0.bmp", "1.bmp"}, names); diff != "" {
		t.Fatalf("exported files (-want, +got):\n%s", diff)
	}
}

func TestParseReserved(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		pairs []string
		err   error
	}{
		{name: "hex", pairs: []string{"0x805=weights", "0x806=biases"}},
		{name: "decimal", pairs: []string{"2053=weights"}},
		{name: "missing kind", pairs: []string{"0x805"}, err: ErrFlagParse},
		{name: "bad kind", pairs: []string{"0x805=matrix"}, err: ErrFlagParse},
		{name: "bad magic", pairs: []string{"nope=biases"}, err: ErrFlagParse},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			_, err := parseReserved(test.pairs)
			if !errors.Is(err, test.err) {
				t.Fatalf("parseReserved(%q): want %v, got %v", test.pairs, test.err, err)
			}
		})
	}
}

func TestConfig(t *testing.T) {
	t.Parallel()

	dir := makeDataDir(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := "data_dirs:\n  - " + dir + "\nlog_level: debug\nworkers: 3\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}

	_, stderr, err := runApp(t, "--config", cfgPath)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, stderr)
	}
	// Debug messages from the decoder are only shown at debug level.
	if !strings.Contains(stderr, "level=DEBUG") {
		t.Fatalf("config log_level not applied:\n%s", stderr)
	}
	if !strings.Contains(stderr, "workers=3") {
		t.Fatalf("config workers not applied:\n%s", stderr)
	}

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		bad := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(bad, []byte("workers: [\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, _, err := runApp(t, "--config", bad); exitCode(err) != ExitCodeFlagParseError {
			t.Fatalf("want exit code %d, got %v", ExitCodeFlagParseError, err)
		}
	})
}

func TestVersion(t *testing.T) {
	t.Parallel()

	for _, flag := range []string{"--version", "-V"} {
		stdout, stderr, err := runApp(t, flag)
		if err != nil {
			t.Fatalf("run %s: %v\n%s", flag, err, stderr)
		}
		for _, s := range []string{"commit ", "built ", "Copyright (c) 2025 Ian Lewis"} {
			if !strings.Contains(stdout, s) {
				t.Fatalf("%s output missing %q:\n%s", flag, s, stdout)
			}
		}
	}
}
