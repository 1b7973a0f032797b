// Copyright 2026 the pagecarver authors.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package pagecarver

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaults for any Config field left at its zero value
const (
	DefaultDPI           = 400
	DefaultMinLineHeight = 50
	DefaultWorkers       = 1
)

// Config holds the tunable parameters of the carving pipeline. The
// zero value is usable; unset fields take the package defaults.
type Config struct {
	// DPI is the resolution multi-page documents are rasterized at.
	// It needs to be high enough that a text line comfortably
	// exceeds MinLineHeight pixels.
	DPI int `yaml:"dpi"`
	// MinLineHeight is the smallest height in pixels a detected line
	// may have, and the minimum separation between line boundaries.
	MinLineHeight int `yaml:"min_line_height"`
	// BinarizeMethod names the thresholding method used during line
	// detection: fixed, otsu, adaptive or sauvola.
	BinarizeMethod string `yaml:"binarize_method"`
	// OutDir is where preprocessed page images are written.
	OutDir string `yaml:"out_dir"`
	// Languages are hints passed to the recognition engine.
	Languages []string `yaml:"languages"`
	// Workers caps concurrent line recognition calls per page.
	Workers int `yaml:"workers"`
}

// ApplyDefaults fills any zero field with its package default.
func (c *Config) ApplyDefaults() {
	if c.DPI == 0 {
		c.DPI = DefaultDPI
	}
	if c.MinLineHeight == 0 {
		c.MinLineHeight = DefaultMinLineHeight
	}
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
}

// LoadConfig reads a YAML config file and applies defaults to any
// field it leaves unset.
func LoadConfig(path string) (Config, error) {
	var c Config
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("Failed to read config %s: %v", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("Failed to parse config %s: %v", path, err)
	}
	c.ApplyDefaults()
	return c, nil
}
