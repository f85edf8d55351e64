package gather

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// enumerateDocs runs the configured enumeration command and parses its
// output as one relative path per line. Blank lines are ignored.
func (g *Gatherer) enumerateDocs(ctx context.Context) ([]string, error) {
	if len(g.DocsCommand) == 0 {
		return nil, fmt.Errorf("docs enumeration command not configured")
	}

	out, err := g.Runner.Run(ctx, g.Root, g.DocsCommand[0], g.DocsCommand[1:]...)
	if err != nil {
		return nil, fmt.Errorf("enumerating docs: %w", err)
	}

	var paths []string
	for _, line := range strings.Split(string(out), "\n") {
		p := strings.TrimSpace(line)
		if p == "" {
			continue
		}
		paths = append(paths, p)
	}
	g.Log.Debug("auxiliary docs enumerated", zap.Int("count", len(paths)))
	return paths, nil
}
