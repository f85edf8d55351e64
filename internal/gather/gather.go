// Package gather turns the declared section plan into assembly producers:
// project files, enumerated auxiliary docs, and files shipped by installed
// dependencies located through the metadata graph.
package gather

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"cratedoc/internal/assemble"
	"cratedoc/internal/cargo"
	"cratedoc/internal/config"
	"cratedoc/internal/render"
	"cratedoc/internal/runner"
)

// Gatherer builds producers for one assembly run. All fields are required
// except Log.
type Gatherer struct {
	Root        string
	Runner      runner.Runner
	Cache       *cargo.MetadataCache
	Shifter     render.HeadingShifter
	Serializer  render.TreeSerializer
	DocsCommand []string
	Log         *zap.Logger
}

// NewGatherer fills in a no-op logger when none is given.
func NewGatherer(g Gatherer) *Gatherer {
	if g.Log == nil {
		g.Log = zap.NewNop()
	}
	return &g
}

// Producers expands the plan into an ordered producer list. The docs
// enumeration command runs here, synchronously, so the expansion keeps the
// declared order; everything else is deferred to assembly time.
func (g *Gatherer) Producers(ctx context.Context, sections []config.Section) ([]assemble.Producer, error) {
	var out []assemble.Producer
	for _, s := range sections {
		switch s.Kind {
		case config.KindMarkdown:
			out = append(out, g.fileProducer(s.Path, render.Markdown{Shifter: g.Shifter}, s.Optional))
		case config.KindCode:
			out = append(out, g.fileProducer(s.Path, render.Code{}, s.Optional))
		case config.KindWrap:
			out = append(out, g.fileProducer(s.Path, render.Wrapper{Serializer: g.Serializer}, s.Optional))
		case config.KindDocs:
			paths, err := g.enumerateDocs(ctx)
			if err != nil {
				return nil, err
			}
			for _, p := range paths {
				out = append(out, g.fileProducer(p, render.Markdown{Shifter: g.Shifter}, false))
			}
		case config.KindDependency:
			out = append(out, g.dependencyProducer(s.Dependency, s.Path))
		default:
			return nil, fmt.Errorf("unknown section kind %q", s.Kind)
		}
	}
	return out, nil
}

// fileProducer reads one project file and renders it. With optional set,
// a missing file is an absent section; any other failure is fatal.
func (g *Gatherer) fileProducer(rel string, r render.Renderer, optional bool) assemble.Producer {
	return assemble.Producer{
		Name: rel,
		Run: func(ctx context.Context) (assemble.Section, error) {
			data, err := os.ReadFile(filepath.Join(g.Root, rel))
			if err != nil {
				if os.IsNotExist(err) && optional {
					g.Log.Debug("optional source absent", zap.String("path", rel))
					return assemble.Absent(), nil
				}
				return assemble.Section{}, fmt.Errorf("reading %s: %w", rel, err)
			}
			text, err := r.Render(rel, data)
			if err != nil {
				return assemble.Section{}, err
			}
			return assemble.Text(text), nil
		},
	}
}

// dependencyProducer locates rel inside the installed copy of the named
// dependency. A dependency missing from the graph, or a file the chosen
// version does not ship, is an absent section; a present file that fails
// to render is fatal.
func (g *Gatherer) dependencyProducer(name, rel string) assemble.Producer {
	return assemble.Producer{
		Name: name + ":" + rel,
		Run: func(ctx context.Context) (assemble.Section, error) {
			meta, err := g.Cache.Fetch(ctx)
			if err != nil {
				return assemble.Section{}, err
			}
			pkg, ok := cargo.Select(name, meta.Packages)
			if !ok {
				g.Log.Debug("dependency absent from graph", zap.String("dependency", name))
				return assemble.Absent(), nil
			}
			full := filepath.Join(filepath.Dir(pkg.ManifestPath), rel)
			data, err := os.ReadFile(full)
			if err != nil {
				if os.IsNotExist(err) {
					g.Log.Debug("dependency file absent",
						zap.String("dependency", name),
						zap.String("path", rel))
					return assemble.Absent(), nil
				}
				return assemble.Section{}, fmt.Errorf("reading %s from %s: %w", rel, name, err)
			}
			text, err := render.Classify(rel, g.Shifter, g.Serializer).Render(rel, data)
			if err != nil {
				return assemble.Section{}, err
			}
			return assemble.Text(text), nil
		},
	}
}
