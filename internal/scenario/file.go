package scenario

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// File is one scenario file.
type File struct {
	Name      string     `yaml:"name"`
	Scenarios []Scenario `yaml:"scenarios"`
}

// Scenario is one assertion call with its surrounding types.
type Scenario struct {
	Name string `yaml:"name"`
	// Scope maps variable names, without the dollar sign, to types.
	Scope map[string]string `yaml:"scope,omitempty"`
	Call  string            `yaml:"call"`
	// Expect maps variable names to their types after the call.
	Expect map[string]string `yaml:"expect,omitempty"`
	// Supported, when set, is checked against the support decision.
	Supported *bool `yaml:"supported,omitempty"`
}

var scenarioExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
}

func hasScenarioExtension(path string) bool {
	return scenarioExtensions[filepath.Ext(path)]
}

// Parse decodes a scenario file.
func Parse(data []byte) (File, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return File{}, err
	}
	for i, s := range f.Scenarios {
		if s.Call == "" {
			return File{}, fmt.Errorf("scenario %d (%s): missing call", i, s.Name)
		}
		if s.Name == "" {
			f.Scenarios[i].Name = s.Call
		}
	}
	return f, nil
}

// Load reads and decodes the scenario file at path.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	f, err := Parse(data)
	if err != nil {
		return File{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return f, nil
}
