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
	"strconv"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// Config is the mnistutil configuration file. Values in the file are used
// when the corresponding flag is not set on the command line.
type Config struct {
	DataDirs []string `yaml:"data_dirs"`
	LogLevel string   `yaml:"log_level"`
	Workers  *int     `yaml:"workers"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mnistutil", "config.yaml")
}

// loadConfig reads the config file at path. A missing file results in a zero
// Config.
func loadConfig(path string) (*Config, error) {
	var cfg Config
	if path == "" {
		return &cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}
	return &cfg, nil
}

// applyConfig applies config file values to flags that were not explicitly
// set.
func applyConfig(c *cli.Context) error {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return cli.Exit(fmt.Errorf("%w: %w", ErrFlagParse, err), ExitCodeFlagParseError)
	}

	set := func(name, value string) error {
		if c.IsSet(name) {
			return nil
		}
		if err := c.Set(name, value); err != nil {
			return cli.Exit(fmt.Errorf("%w: config %s: %w", ErrFlagParse, name, err), ExitCodeFlagParseError)
		}
		return nil
	}

	if !c.IsSet("data-dir") {
		for _, dir := range cfg.DataDirs {
			if err := c.Set("data-dir", dir); err != nil {
				return cli.Exit(fmt.Errorf("%w: config data_dirs: %w", ErrFlagParse, err), ExitCodeFlagParseError)
			}
		}
	}
	if cfg.LogLevel != "" {
		if err := set("log-level", cfg.LogLevel); err != nil {
			return err
		}
	}
	if cfg.Workers != nil {
		if err := set("workers", strconv.Itoa(*cfg.Workers)); err != nil {
			return err
		}
	}
	return nil
}
