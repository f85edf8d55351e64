// Package render turns a single (path, content) pair into one finished
// markdown section. Three renderer kinds cover markdown fragments, fenced
// source listings and structured wrappers; callers pick the kind through
// Classify rather than branching on paths themselves.
package render

import (
	"fmt"
	"strings"
	"unicode"
)

// Renderer is the single contract all section kinds implement.
type Renderer interface {
	Render(path string, content []byte) (string, error)
}

// HeadingShifter is the external markdown transform: shift every heading
// by a fixed amount and reserialize.
type HeadingShifter interface {
	Shift(src []byte) ([]byte, error)
}

// TreeSerializer is the external structured serializer for files that are
// neither markdown nor fenced code.
type TreeSerializer interface {
	Serialize(path string, contents []byte) (string, error)
}

// RenderError reports a failed external transform for a present source.
// It aborts the whole batch; partial output is never emitted.
type RenderError struct {
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering %s: %v", e.Path, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

func trimTrailing(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// Markdown renders a markdown fragment through the heading shifter.
type Markdown struct {
	Shifter HeadingShifter
}

func (r Markdown) Render(path string, content []byte) (string, error) {
	out, err := r.Shifter.Shift(content)
	if err != nil {
		return "", &RenderError{Path: path, Err: err}
	}
	return trimTrailing(string(out)), nil
}

// Code renders a source file as a labelled fenced block. Trailing
// whitespace is trimmed; leading and internal whitespace is preserved
// byte-exact.
type Code struct{}

func (Code) Render(path string, content []byte) (string, error) {
	tag, err := languageFor(path)
	if err != nil {
		return "", err
	}
	trimmed := trimTrailing(string(content))
	fence := Fence(trimmed)
	return fmt.Sprintf("## `%s`\n\n%s%s\n%s\n%s", path, fence, tag, trimmed, fence), nil
}

// Wrapper renders a file through the structured serializer.
type Wrapper struct {
	Serializer TreeSerializer
}

func (r Wrapper) Render(path string, content []byte) (string, error) {
	out, err := r.Serializer.Serialize(path, content)
	if err != nil {
		return "", &RenderError{Path: path, Err: err}
	}
	return trimTrailing(out), nil
}

// Classify picks the renderer kind for a path: markdown extensions render
// as markdown, extensions in the language table as code, everything else
// through the structured wrapper.
func Classify(path string, shifter HeadingShifter, serializer TreeSerializer) Renderer {
	switch {
	case isMarkdownExtension(path):
		return Markdown{Shifter: shifter}
	case isCodeExtension(path):
		return Code{}
	default:
		return Wrapper{Serializer: serializer}
	}
}
