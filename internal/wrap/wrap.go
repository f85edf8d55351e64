// Package wrap serializes non-markdown, non-code files as a small
// structured document carrying the file's path and verbatim contents.
package wrap

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type document struct {
	Path     string `yaml:"path"`
	Contents string `yaml:"contents"`
}

// Serializer emits the (path, contents) pair as a YAML document.
type Serializer struct{}

func (Serializer) Serialize(path string, contents []byte) (string, error) {
	out, err := yaml.Marshal(document{Path: path, Contents: string(contents)})
	if err != nil {
		return "", fmt.Errorf("serializing %s: %w", path, err)
	}
	return string(out), nil
}
