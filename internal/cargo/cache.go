package cargo

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"cratedoc/internal/runner"
)

// MetadataCache memoizes the dependency graph for the life of the process.
// The first Fetch call invokes cargo metadata; concurrent callers block on
// the same in-flight invocation, and every later call returns the stored
// result. There is no invalidation.
type MetadataCache struct {
	run runner.Runner
	dir string
	log *zap.Logger

	once sync.Once
	meta *Metadata
	err  error
}

// NewMetadataCache creates a cache rooted at the project directory.
func NewMetadataCache(run runner.Runner, dir string, log *zap.Logger) *MetadataCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &MetadataCache{run: run, dir: dir, log: log}
}

// Fetch returns the memoized dependency graph, invoking the external
// resolution command at most once per process.
func (c *MetadataCache) Fetch(ctx context.Context) (*Metadata, error) {
	c.once.Do(func() {
		c.meta, c.err = fetchMetadata(ctx, c.run, c.dir, c.log)
	})
	return c.meta, c.err
}
