// Package config holds the formatter options and the optional config-file
// loading used by the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Options controls the formatter's layout decisions.
type Options struct {
	// UseTabs selects tabs over spaces for indentation.
	UseTabs bool `json:"useTabs" yaml:"useTabs"`

	// TabWidth is the number of indentation characters per level.
	TabWidth int `json:"tabWidth" yaml:"tabWidth"`

	// PrintWidth is the line-length threshold beyond which tag props are
	// exploded to one per line.
	PrintWidth int `json:"printWidth" yaml:"printWidth"`

	// SingleAttributePerLine forces the exploded tag layout regardless of
	// line length.
	SingleAttributePerLine bool `json:"singleAttributePerLine" yaml:"singleAttributePerLine"`
}

// Default returns the default formatter options.
func Default() Options {
	return Options{
		UseTabs:    false,
		TabWidth:   4,
		PrintWidth: 80,
	}
}

// IndentUnit returns the string emitted for one indentation level.
func (o Options) IndentUnit() string {
	ch := " "
	if o.UseTabs {
		ch = "\t"
	}
	return strings.Repeat(ch, o.TabWidth)
}

// FileNames are the config file names probed by Discover, in precedence
// order.
var FileNames = []string{
	".bladefmt.yaml",
	".bladefmt.yml",
	".bladefmt.jsonc",
	".bladefmt.json",
}

// Load reads options from a single config file. The format is chosen by
// file extension; unknown keys are ignored.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("read config: %w", err)
	}

	opts := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &opts); err != nil {
			return Default(), fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &opts); err != nil {
			return Default(), fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
	default:
		return Default(), fmt.Errorf("unsupported config format: %s", path)
	}

	if err := opts.validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return opts, nil
}

// Discover walks from dir toward the filesystem root looking for the
// nearest config file. When none exists it returns the defaults.
func Discover(dir string) (Options, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return Default(), err
	}
	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return Load(path)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

func (o Options) validate() error {
	if o.TabWidth < 0 {
		return fmt.Errorf("tabWidth must be non-negative, got %d", o.TabWidth)
	}
	if o.PrintWidth < 0 {
		return fmt.Errorf("printWidth must be non-negative, got %d", o.PrintWidth)
	}
	return nil
}
