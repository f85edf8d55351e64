package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.HeadingShift)
	assert.NotEmpty(t, cfg.DocsCommand)
	assert.NotEmpty(t, cfg.Sections)
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "cratedoc.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cratedoc.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
heading_shift: 2
sections:
  - kind: markdown
    path: docs/header.md
    optional: true
  - kind: dependency
    dependency: errgonomic
    path: README.md
  - kind: code
    path: src/lib.rs
`), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.HeadingShift)
		assert.Equal(t, Default().DocsCommand, cfg.DocsCommand)
		require.Len(t, cfg.Sections, 3)
		assert.Equal(t, "errgonomic", cfg.Sections[1].Dependency)
		assert.True(t, cfg.Sections[0].Optional)
	})

	t.Run("malformed yaml fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cratedoc.yaml")
		require.NoError(t, os.WriteFile(path, []byte("sections: [\n"), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config { return Default() }

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative shift", func(c *Config) { c.HeadingShift = -1 }},
		{"empty docs command", func(c *Config) { c.DocsCommand = nil }},
		{"unknown kind", func(c *Config) {
			c.Sections = []Section{{Kind: "mystery", Path: "x"}}
		}},
		{"markdown without path", func(c *Config) {
			c.Sections = []Section{{Kind: KindMarkdown}}
		}},
		{"docs with path", func(c *Config) {
			c.Sections = []Section{{Kind: KindDocs, Path: "docs"}}
		}},
		{"dependency without name", func(c *Config) {
			c.Sections = []Section{{Kind: KindDependency, Path: "README.md"}}
		}},
		{"dependency without path", func(c *Config) {
			c.Sections = []Section{{Kind: KindDependency, Dependency: "serde"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
