// Package config holds cratedoc configuration: the ordered section plan
// plus a handful of knobs for the transforms and external commands.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Section kinds accepted in the plan.
const (
	KindMarkdown   = "markdown"   // file rendered as a markdown fragment
	KindCode       = "code"       // file rendered as a fenced listing
	KindWrap       = "wrap"       // file rendered through the tree serializer
	KindDocs       = "docs"       // expands to the enumerated auxiliary docs
	KindDependency = "dependency" // file shipped by an installed dependency
)

// Config holds all cratedoc configuration.
type Config struct {
	// HeadingShift is applied to every heading in markdown fragments.
	HeadingShift int `yaml:"heading_shift"`

	// DocsCommand enumerates auxiliary documentation paths, one per
	// output line, relative to the project root.
	DocsCommand []string `yaml:"docs_command"`

	// Sections is the ordered plan for the assembled artifact.
	Sections []Section `yaml:"sections"`
}

// Section is one entry of the assembly plan.
type Section struct {
	Kind       string `yaml:"kind"`
	Path       string `yaml:"path,omitempty"`
	Dependency string `yaml:"dependency,omitempty"`
	// Optional marks a file whose absence is a silent skip instead of an
	// error. Dependency sections are always skippable.
	Optional bool `yaml:"optional,omitempty"`
}

// Default returns the plan used when no config file is present: an
// optional intro fragment, the enumerated docs, the crate root source and
// the manifest.
func Default() *Config {
	return &Config{
		HeadingShift: 1,
		DocsCommand:  []string{"git", "ls-files", "--", "docs/*.md"},
		Sections: []Section{
			{Kind: KindMarkdown, Path: "docs/intro.md", Optional: true},
			{Kind: KindDocs},
			{Kind: KindCode, Path: "src/lib.rs"},
			{Kind: KindWrap, Path: "Cargo.toml"},
		},
	}
}

// Load reads a config file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	cfg.Sections = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if len(cfg.Sections) == 0 {
		cfg.Sections = Default().Sections
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the plan for malformed entries.
func (c *Config) Validate() error {
	if c.HeadingShift < 0 {
		return fmt.Errorf("heading_shift must be >= 0, got %d", c.HeadingShift)
	}
	if len(c.DocsCommand) == 0 {
		return fmt.Errorf("docs_command must not be empty")
	}
	for i, s := range c.Sections {
		switch s.Kind {
		case KindMarkdown, KindCode, KindWrap:
			if s.Path == "" {
				return fmt.Errorf("section %d (%s): path is required", i, s.Kind)
			}
		case KindDocs:
			if s.Path != "" {
				return fmt.Errorf("section %d (docs): path must be empty", i)
			}
		case KindDependency:
			if s.Dependency == "" || s.Path == "" {
				return fmt.Errorf("section %d (dependency): dependency and path are required", i)
			}
		default:
			return fmt.Errorf("section %d: unknown kind %q", i, s.Kind)
		}
	}
	return nil
}
