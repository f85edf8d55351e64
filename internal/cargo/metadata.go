// Package cargo resolves the project's dependency graph through cargo
// metadata and picks the installed copy of a named package out of it.
package cargo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"

	"cratedoc/internal/runner"
)

// Package is one resolved package record from the metadata graph.
type Package struct {
	ID           string
	Name         string
	Version      *semver.Version
	ManifestPath string
}

// Metadata is the dependency graph for the current project. It is fetched
// once per run and never refreshed.
type Metadata struct {
	Packages      []Package
	WorkspaceRoot string
}

// Candidates returns every package record carrying the given name.
func (m *Metadata) Candidates(name string) []Package {
	var out []Package
	for _, p := range m.Packages {
		if p.Name == name {
			out = append(out, p)
		}
	}
	return out
}

// FetchError means the metadata command itself failed. Stderr carries the
// command's diagnostic output.
type FetchError struct {
	Stderr string
	Err    error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("cargo metadata failed: %v", e.Err)
	if e.Stderr != "" {
		msg += "\n" + e.Stderr
	}
	return msg
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError means the metadata command succeeded but its output could not
// be understood, including any package whose version is not valid semver.
type ParseError struct {
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cargo metadata output malformed: %s: %v", e.Detail, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// rawMetadata mirrors the fields of cargo metadata --format-version 1
// output that cratedoc consumes.
type rawMetadata struct {
	Packages []struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Version      string `json:"version"`
		ManifestPath string `json:"manifest_path"`
	} `json:"packages"`
	WorkspaceRoot string `json:"workspace_root"`
}

func fetchMetadata(ctx context.Context, run runner.Runner, dir string, log *zap.Logger) (*Metadata, error) {
	out, err := run.Run(ctx, dir, "cargo", "metadata", "--format-version", "1")
	if err != nil {
		stderr := ""
		if cmdErr, ok := err.(*runner.CommandError); ok {
			stderr = cmdErr.Stderr
		}
		return nil, &FetchError{Stderr: stderr, Err: err}
	}

	var raw rawMetadata
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, &ParseError{Detail: "invalid JSON", Err: err}
	}

	meta := &Metadata{
		Packages:      make([]Package, 0, len(raw.Packages)),
		WorkspaceRoot: raw.WorkspaceRoot,
	}
	for _, p := range raw.Packages {
		v, err := semver.NewVersion(p.Version)
		if err != nil {
			return nil, &ParseError{
				Detail: fmt.Sprintf("package %s has invalid version %q", p.Name, p.Version),
				Err:    err,
			}
		}
		meta.Packages = append(meta.Packages, Package{
			ID:           p.ID,
			Name:         p.Name,
			Version:      v,
			ManifestPath: p.ManifestPath,
		})
	}

	log.Debug("dependency graph fetched", zap.Int("packages", len(meta.Packages)))
	return meta, nil
}
