// Package config reads irstore.toml.
//
// The file is looked up from the working directory upwards. Every key is
// optional; command-line flags override whatever the file sets.
//
//	[trace]
//	level  = "phase"      # off|error|phase|detail|debug
//	mode   = "stream"     # stream|ring|both
//	output = "-"          # file path, "-" for stderr
//	format = "auto"       # auto|text|ndjson
//
//	[store]
//	dir   = "out/ir"
//	index = "index.db"
//
//	[output]
//	color = "auto"        # auto|on|off
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"irstore/internal/trace"
)

// FileName is the config file looked up by Find.
const FileName = "irstore.toml"

type Config struct {
	Trace  TraceConfig  `toml:"trace"`
	Store  StoreConfig  `toml:"store"`
	Output OutputConfig `toml:"output"`

	// Path is the file the config came from, empty for defaults.
	Path string `toml:"-"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Mode   string `toml:"mode"`
	Output string `toml:"output"`
	Format string `toml:"format"`
}

type StoreConfig struct {
	Dir   string `toml:"dir"`
	Index string `toml:"index"`
}

type OutputConfig struct {
	Color string `toml:"color"`
}

// Default returns the values used when no file is found.
func Default() Config {
	return Config{
		Trace:  TraceConfig{Level: "off", Mode: "stream", Output: "-", Format: "auto"},
		Store:  StoreConfig{Dir: ".", Index: "index.db"},
		Output: OutputConfig{Color: "auto"},
	}
}

// Find walks up from startDir to locate irstore.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path over the defaults. Unknown keys are an error so that a
// typo does not silently fall back to a default.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover runs Find from startDir and loads the result, or returns the
// defaults when there is no file.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	var errs []error
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		errs = append(errs, fmt.Errorf("[trace].level: %w", err))
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		errs = append(errs, fmt.Errorf("[trace].mode: %w", err))
	}
	if _, err := trace.ParseFormat(c.Trace.Format); err != nil {
		errs = append(errs, fmt.Errorf("[trace].format: %w", err))
	}
	switch strings.ToLower(c.Output.Color) {
	case "auto", "on", "off", "":
	default:
		errs = append(errs, fmt.Errorf("[output].color: invalid value %q (expected: auto|on|off)", c.Output.Color))
	}
	if strings.ContainsRune(c.Store.Index, filepath.Separator) {
		errs = append(errs, fmt.Errorf("[store].index: %q must be a bare file name", c.Store.Index))
	}
	return errors.Join(errs...)
}

// StoreDir resolves Store.Dir relative to the config file's directory.
func (c Config) StoreDir() string {
	if c.Path == "" || filepath.IsAbs(c.Store.Dir) {
		return c.Store.Dir
	}
	return filepath.Join(filepath.Dir(c.Path), c.Store.Dir)
}
