package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestWriteThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	want := Config{
		Name:    "project",
		Disable: []string{"isList"},
		Classes: map[string]Class{
			"App\\Collection": {Parent: "ArrayObject"},
			"App\\Entity":     {Interface: true},
		},
	}
	require.NoError(t, Write(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"unknown predicate", "name: x\ndisable: [email]\n", `unknown predicate "email"`},
		{"unknown field", "name: x\nrules: {}\n", "field rules not found"},
		{"malformed", "name: [\n", "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestClassTable(t *testing.T) {
	cfg := Config{Classes: map[string]Class{
		`\App\Collection`: {Parent: "ArrayObject"},
		"App\\Entity":      {Interface: true},
	}}
	table := cfg.ClassTable()

	assert.True(t, table.Exists("App\\Collection"))
	assert.True(t, table.IsSubtypeOf("App\\Collection", "Traversable"))
	assert.True(t, table.Exists("Countable"))

	entity, ok := table.Lookup("app\\entity")
	require.True(t, ok)
	assert.True(t, entity.Interface)
}

func TestOptionsDisablePredicates(t *testing.T) {
	cfg := Config{Disable: []string{"string"}}
	assert.Len(t, cfg.Options(), 1)
}
