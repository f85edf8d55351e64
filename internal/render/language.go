package render

import (
	"fmt"
	"path/filepath"
	"strings"
)

// languages is the closed extension-to-fence-tag table. An extension
// outside this table is an error, never a guessed or empty tag.
var languages = map[string]string{
	".c":     "c",
	".cpp":   "cpp",
	".go":    "go",
	".h":     "c",
	".js":    "javascript",
	".json":  "json",
	".proto": "protobuf",
	".py":    "python",
	".rs":    "rust",
	".sh":    "sh",
	".sql":   "sql",
	".toml":  "toml",
	".ts":    "typescript",
	".txt":   "text",
	".yaml":  "yaml",
	".yml":   "yaml",
}

// UnknownLanguageError reports a file whose extension has no fence
// language mapping.
type UnknownLanguageError struct {
	Path string
	Ext  string
}

func (e *UnknownLanguageError) Error() string {
	return fmt.Sprintf("no fence language for extension %q (file %s)", e.Ext, e.Path)
}

func languageFor(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	tag, ok := languages[ext]
	if !ok {
		return "", &UnknownLanguageError{Path: path, Ext: ext}
	}
	return tag, nil
}

func isCodeExtension(path string) bool {
	_, ok := languages[strings.ToLower(filepath.Ext(path))]
	return ok
}

func isMarkdownExtension(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
