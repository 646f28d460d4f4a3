// Package config loads the rule's YAML configuration.
//
// Keys may appear at the top level or under the RuboCop cop name:
//
//	AllowedMethods: [custom_transaction]
//	AllowedPatterns: ['_transaction\z']
//	Exclude: ['vendor/**', 'db/schema.rb']
//
//	Rails/TransactionExitStatement:
//	  AllowedMethods: [custom_transaction]
//
// When both are present the two are merged.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"

	"github.com/mpyw/transactionexit/internal/allowlist"
)

const (
	defaultFileName   = ".transactionexit.yml"
	alternateFileName = ".transactionexit.yaml"

	// CopName is the RuboCop section the keys may be nested under.
	CopName = "Rails/TransactionExitStatement"
)

// Config holds the rule options.
type Config struct {
	AllowedMethods  []string `yaml:"AllowedMethods"`
	AllowedPatterns []string `yaml:"AllowedPatterns"`
	Exclude         []string `yaml:"Exclude"`
}

type document struct {
	Config `yaml:",inline"`
	Cop    *Config `yaml:"Rails/TransactionExitStatement"`
}

// Merge returns c with other's entries appended. Duplicates are dropped.
func (c Config) Merge(other Config) Config {
	return Config{
		AllowedMethods:  appendUnique(c.AllowedMethods, other.AllowedMethods),
		AllowedPatterns: appendUnique(c.AllowedPatterns, other.AllowedPatterns),
		Exclude:         appendUnique(c.Exclude, other.Exclude),
	}
}

func appendUnique(dst, src []string) []string {
	out := slices.Clone(dst)
	for _, s := range src {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// AllowList compiles the allowed methods and patterns.
func (c Config) AllowList() (*allowlist.AllowList, error) {
	return allowlist.New(c.AllowedMethods, c.AllowedPatterns)
}

// Filter compiles the Exclude globs. root is the directory globs are relative to.
func (c Config) Filter(root string) (*Filter, error) {
	f := &Filter{root: root}
	for _, pattern := range c.Exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		f.exclude = append(f.exclude, g)
	}
	return f, nil
}

// Load searches dir, then the user's home directory, for a config file.
// It returns the config and the path it was read from; the path is empty and
// the config zero when no file exists.
func Load(dir string) (Config, string, error) {
	for _, p := range searchPaths(dir) {
		cfg, found, err := loadPath(p)
		if err != nil {
			return Config{}, "", err
		}
		if found {
			return cfg, p, nil
		}
	}
	return Config{}, "", nil
}

// LoadFile reads the config at path. A missing file is an error.
func LoadFile(path string) (Config, error) {
	cfg, found, err := loadPath(path)
	if err != nil {
		return Config{}, err
	}
	if !found {
		return Config{}, fmt.Errorf("config file %s: %w", path, os.ErrNotExist)
	}
	return cfg, nil
}

func searchPaths(dir string) []string {
	var paths []string
	if dir != "" {
		paths = append(paths, filepath.Join(dir, defaultFileName))
		paths = append(paths, filepath.Join(dir, alternateFileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, defaultFileName))
		paths = append(paths, filepath.Join(home, alternateFileName))
	}
	return paths
}

func loadPath(path string) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, false, nil
		}
		return Config{}, false, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, true, nil
}

// Parse decodes a YAML document.
func Parse(data []byte) (Config, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, err
	}
	cfg := doc.Config
	if doc.Cop != nil {
		cfg = cfg.Merge(*doc.Cop)
	}
	return cfg, nil
}
