// Package config loads the YAML configuration shared by all commands.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/gnolang/assertnarrow/internal/narrow"
	"github.com/gnolang/assertnarrow/internal/types"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = ".assertnarrow.yaml"

// Class declares a user class or interface for object subtyping.
type Class struct {
	Parent     string   `yaml:"parent,omitempty"`
	Interfaces []string `yaml:"interfaces,omitempty"`
	Interface  bool     `yaml:"interface,omitempty"`
	Final      bool     `yaml:"final,omitempty"`
}

// Config represents the overall configuration.
type Config struct {
	Name string `yaml:"name"`
	// Disable lists canonical predicate names that are not narrowed.
	Disable []string         `yaml:"disable,omitempty"`
	Classes map[string]Class `yaml:"classes,omitempty"`
}

// Default returns the configuration written by `init`.
func Default() Config {
	return Config{
		Name:    "assertnarrow",
		Disable: []string{},
		Classes: map[string]Class{},
	}
}

// Load reads the configuration at path. A missing file yields Default.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every disabled name is a known predicate.
func (c Config) Validate() error {
	catalog := narrow.DefaultCatalog()
	for _, name := range c.Disable {
		if _, ok := catalog.Lookup(name); !ok {
			return fmt.Errorf("unknown predicate %q in disable list", name)
		}
	}
	return nil
}

// Write stores c at path, replacing any existing file.
func Write(path string, c Config) error {
	if path == "" {
		path = DefaultPath
	}
	d, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, d, 0o644)
}

// ClassTable returns the built-in classes plus the declared ones.
func (c Config) ClassTable() *types.ClassTable {
	table := types.NewClassTable()
	names := make([]string, 0, len(c.Classes))
	for name := range c.Classes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		decl := c.Classes[name]
		table.Register(types.Class{
			Name:       name,
			Parent:     decl.Parent,
			Interfaces: decl.Interfaces,
			Interface:  decl.Interface,
			Final:      decl.Final,
		})
	}
	return table
}

// Options returns the extension options implied by c.
func (c Config) Options() []narrow.Option {
	return []narrow.Option{narrow.WithDisabled(c.Disable...)}
}
