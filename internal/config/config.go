/*
 * LAPU-128 - Optional TOML machine configuration.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package config loads an optional TOML file carrying the same machine
// parameters lapu-emu also accepts as flags. A file is never required:
// Default returns the CLI's own built-in defaults, and LoadFrom only
// overlays values actually present in the file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config mirrors lapu-emu's flag surface so a saved file can replace a
// long command line.
type Config struct {
	Machine struct {
		VLEN  int `toml:"vlen"`
		NMult int `toml:"n_mult"`
	} `toml:"machine"`

	Run struct {
		MaxSteps      int  `toml:"max_steps"`
		PredicateImag bool `toml:"predicate_imag"`
	} `toml:"run"`

	Print struct {
		PPMatrix bool `toml:"pp_matrix"`
		PPRows   int  `toml:"pp_rows"`
		PPCols   int  `toml:"pp_cols"`
	} `toml:"print"`
}

// Default returns the built-in defaults used when no config file and no
// overriding flag is given.
func Default() *Config {
	cfg := &Config{}
	cfg.Machine.VLEN = 8
	cfg.Machine.NMult = 2
	cfg.Run.MaxSteps = 10000
	cfg.Run.PredicateImag = false
	cfg.Print.PPMatrix = false
	cfg.Print.PPRows = 8
	cfg.Print.PPCols = 8
	return cfg
}

// LoadFrom reads path on top of Default. An empty path is a no-op, since
// --config is optional.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config: %s does not exist", path)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return cfg, nil
}
