package gather

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cratedoc/internal/assemble"
	"cratedoc/internal/cargo"
	"cratedoc/internal/config"
	"cratedoc/internal/markdown"
	"cratedoc/internal/render"
	"cratedoc/internal/wrap"
)

// fakeRunner serves canned stdout for external commands.
type fakeRunner struct {
	out []byte
	err error
}

func (f *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

type failingShifter struct{ err error }

func (s failingShifter) Shift(src []byte) ([]byte, error) { return nil, s.err }

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newGatherer(root string, docsOut string, metadataJSON string) *Gatherer {
	docsRunner := &fakeRunner{out: []byte(docsOut)}
	cargoRunner := &fakeRunner{out: []byte(metadataJSON)}
	if metadataJSON == "" {
		cargoRunner = &fakeRunner{err: errors.New("cargo metadata should not run in this test")}
	}
	return NewGatherer(Gatherer{
		Root:        root,
		Runner:      docsRunner,
		Cache:       cargo.NewMetadataCache(cargoRunner, root, zap.NewNop()),
		Shifter:     markdown.NewShifter(1),
		Serializer:  wrap.Serializer{},
		DocsCommand: []string{"git", "ls-files", "--", "docs/*.md"},
		Log:         zap.NewNop(),
	})
}

func metadataFor(t *testing.T, name, version, manifestPath string) string {
	t.Helper()
	return fmt.Sprintf(`{
  "packages": [
    {"id": "%s@%s", "name": "%s", "version": "%s", "manifest_path": %q}
  ],
  "workspace_root": "/work"
}`, name, version, name, version, manifestPath)
}

func TestEndToEndMarkdownPlusCode(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "docs/intro.md", "# Hello\n\nWelcome.\n")
	writeFile(t, root, "x.rs", "fn main() {}\n")

	g := newGatherer(root, "", "")
	producers, err := g.Producers(context.Background(), []config.Section{
		{Kind: config.KindMarkdown, Path: "docs/intro.md"},
		{Kind: config.KindCode, Path: "x.rs"},
	})
	require.NoError(t, err)

	out, err := assemble.Assemble(context.Background(), producers)
	require.NoError(t, err)

	want := "## Hello\n\nWelcome.\n\n## `x.rs`\n\n```rust\nfn main() {}\n```"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("artifact mismatch (-want +got):\n%s", diff)
	}
}

func TestDependencySilentSkips(t *testing.T) {
	root := t.TempDir()
	depDir := t.TempDir()
	writeFile(t, root, "x.rs", "fn main() {}\n")

	meta := metadataFor(t, "errgonomic", "0.5.0", filepath.Join(depDir, "Cargo.toml"))
	g := newGatherer(root, "", meta)

	producers, err := g.Producers(context.Background(), []config.Section{
		// Dependency exists in the graph but ships no such file.
		{Kind: config.KindDependency, Dependency: "errgonomic", Path: "GUIDE.md"},
		// Dependency entirely absent from the graph.
		{Kind: config.KindDependency, Dependency: "not-a-crate", Path: "README.md"},
		// Optional project file that does not exist.
		{Kind: config.KindMarkdown, Path: "docs/missing.md", Optional: true},
		{Kind: config.KindCode, Path: "x.rs"},
	})
	require.NoError(t, err)

	out, err := assemble.Assemble(context.Background(), producers)
	require.NoError(t, err, "absence is silent, never an error")
	assert.Equal(t, "## `x.rs`\n\n```rust\nfn main() {}\n```", out)
}

func TestDependencyFileIncluded(t *testing.T) {
	root := t.TempDir()
	depDir := t.TempDir()
	writeFile(t, depDir, "USAGE.md", "# Usage\n\nCall it.\n")

	meta := metadataFor(t, "errgonomic", "0.5.0", filepath.Join(depDir, "Cargo.toml"))
	g := newGatherer(root, "", meta)

	producers, err := g.Producers(context.Background(), []config.Section{
		{Kind: config.KindDependency, Dependency: "errgonomic", Path: "USAGE.md"},
	})
	require.NoError(t, err)

	out, err := assemble.Assemble(context.Background(), producers)
	require.NoError(t, err)
	assert.Equal(t, "## Usage\n\nCall it.", out)
}

func TestDocsEnumerationKeepsOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "docs/a.md", "# A\n")
	writeFile(t, root, "docs/b.md", "# B\n")

	g := newGatherer(root, "docs/a.md\ndocs/b.md\n", "")
	producers, err := g.Producers(context.Background(), []config.Section{
		{Kind: config.KindDocs},
	})
	require.NoError(t, err)
	require.Len(t, producers, 2)

	out, err := assemble.Assemble(context.Background(), producers)
	require.NoError(t, err)
	assert.Equal(t, "## A\n\n## B", out)
}

func TestDocsEnumerationFailure(t *testing.T) {
	g := newGatherer(t.TempDir(), "", "")
	g.Runner = &fakeRunner{err: errors.New("not a git repository")}

	_, err := g.Producers(context.Background(), []config.Section{{Kind: config.KindDocs}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enumerating docs")
}

func TestRequiredFileMissingIsFatal(t *testing.T) {
	g := newGatherer(t.TempDir(), "", "")
	producers, err := g.Producers(context.Background(), []config.Section{
		{Kind: config.KindCode, Path: "src/lib.rs"},
	})
	require.NoError(t, err)

	out, err := assemble.Assemble(context.Background(), producers)
	assert.Empty(t, out)

	var asmErr *assemble.Error
	require.ErrorAs(t, err, &asmErr)
	assert.Equal(t, "src/lib.rs", asmErr.Name)
}

func TestRenderFailureOnPresentSourceIsFatal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "docs/intro.md", "# Hi\n")

	g := newGatherer(root, "", "")
	g.Shifter = failingShifter{err: errors.New("transform exploded")}

	producers, err := g.Producers(context.Background(), []config.Section{
		{Kind: config.KindMarkdown, Path: "docs/intro.md"},
	})
	require.NoError(t, err)

	_, err = assemble.Assemble(context.Background(), producers)
	var renderErr *render.RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, "docs/intro.md", renderErr.Path)
}

func TestMetadataFetchFailureIsFatal(t *testing.T) {
	g := newGatherer(t.TempDir(), "", "")
	producers, err := g.Producers(context.Background(), []config.Section{
		{Kind: config.KindDependency, Dependency: "errgonomic", Path: "README.md"},
	})
	require.NoError(t, err)

	_, err = assemble.Assemble(context.Background(), producers)
	require.Error(t, err)

	var fetchErr *cargo.FetchError
	assert.ErrorAs(t, err, &fetchErr)
}
