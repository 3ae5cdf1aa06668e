// Package config loads the optional YAML settings read by the quill
// command.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the user's home directory when no -config
// flag is given.
const DefaultFile = ".quill.yaml"

// maxCallDepth caps interpreter.max_call_depth; each call level costs
// Go stack in the tree-walking evaluator.
const maxCallDepth = 100000

type Config struct {
	REPL        REPL        `yaml:"repl"`
	Interpreter Interpreter `yaml:"interpreter"`
	Builtins    Builtins    `yaml:"builtins"`

	// Path is the file the settings came from; empty for defaults.
	Path string `yaml:"-"`
}

type REPL struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
}

type Interpreter struct {
	DivisionScale int `yaml:"division_scale"`
	MaxCallDepth  int `yaml:"max_call_depth"`
}

type Builtins struct {
	Clock *bool `yaml:"clock"`
}

// ClockEnabled reports whether clock() should be registered. It defaults
// to true when the key is absent.
func (b Builtins) ClockEnabled() bool {
	return b.Clock == nil || *b.Clock
}

func Default() *Config {
	cfg := &Config{
		REPL: REPL{Prompt: "quill> "},
		Interpreter: Interpreter{
			DivisionScale: 100,
			MaxCallDepth:  1024,
		},
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		cfg.REPL.HistoryFile = filepath.Join(home, ".quill_history")
	}
	return cfg
}

// Load reads settings from path on top of Default. An empty path means
// the default file in the home directory, which may be absent.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return cfg, nil
		}
		path = filepath.Join(home, DefaultFile)
	}

	file, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Path = path

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	cfg.REPL.HistoryFile = expandHome(cfg.REPL.HistoryFile)
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Interpreter.DivisionScale < 0 || c.Interpreter.DivisionScale > 10000 {
		return fmt.Errorf("interpreter.division_scale must be between 0 and 10000, got %d", c.Interpreter.DivisionScale)
	}
	if c.Interpreter.MaxCallDepth <= 0 || c.Interpreter.MaxCallDepth > maxCallDepth {
		return fmt.Errorf("interpreter.max_call_depth must be between 1 and %d, got %d", maxCallDepth, c.Interpreter.MaxCallDepth)
	}
	return nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
