// Package markdown implements the heading-shift-and-reserialize transform
// for markdown fragments. Headings are located with goldmark so text that
// merely looks like a heading (inside fenced code, for example) is left
// alone; every real heading is rewritten as ATX at level+shift and all
// other bytes pass through untouched.
package markdown

import (
	"bytes"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

const maxHeadingLevel = 6

// Shifter shifts every heading in a markdown document by a fixed amount.
// It is stateless apart from its configuration and safe for reuse.
type Shifter struct {
	shift int
	md    goldmark.Markdown
}

// NewShifter creates a shifter. Shift amounts are clamped so no heading
// exceeds level 6.
func NewShifter(shift int) *Shifter {
	return &Shifter{
		shift: shift,
		md:    goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

type headingRewrite struct {
	prefix string // bytes before the heading marker (indent, "> ")
	level  int
	text   string
}

// Shift rewrites headings and returns the reserialized document.
func (s *Shifter) Shift(src []byte) ([]byte, error) {
	doc := s.md.Parser().Parse(text.NewReader(src))

	lines, starts := splitLines(src)
	lineOf := func(offset int) int {
		return sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
	}

	rewrites := make(map[int]headingRewrite)
	skip := make(map[int]bool)

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		segs := h.Lines()
		if segs.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}

		first := segs.At(0)
		last := segs.At(segs.Len() - 1)
		startLine := lineOf(first.Start)
		endLine := lineOf(last.Stop - 1)

		parts := make([]string, 0, segs.Len())
		for i := 0; i < segs.Len(); i++ {
			seg := segs.At(i)
			parts = append(parts, trimClosingSequence(strings.TrimSpace(string(src[seg.Start:seg.Stop]))))
		}

		level := h.Level + s.shift
		if level > maxHeadingLevel {
			level = maxHeadingLevel
		}

		pre := src[starts[startLine]:first.Start]
		if idx := bytes.IndexByte(pre, '#'); idx >= 0 {
			// ATX heading: keep whatever precedes the marker run.
			rewrites[startLine] = headingRewrite{
				prefix: string(pre[:idx]),
				level:  level,
				text:   strings.Join(parts, " "),
			}
		} else {
			// Setext heading: rewrite as ATX and drop the underline.
			rewrites[startLine] = headingRewrite{
				prefix: string(pre),
				level:  level,
				text:   strings.Join(parts, " "),
			}
			if ul := endLine + 1; ul < len(lines) && isSetextUnderline(lines[ul]) {
				skip[ul] = true
			}
		}
		for l := startLine + 1; l <= endLine; l++ {
			skip[l] = true
		}
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.Grow(len(src))
	for i, line := range lines {
		if skip[i] {
			continue
		}
		rw, ok := rewrites[i]
		if !ok {
			out.Write(line)
			continue
		}
		out.WriteString(rw.prefix)
		out.WriteString(strings.Repeat("#", rw.level))
		out.WriteByte(' ')
		out.WriteString(rw.text)
		if lineEndsDocumentWithoutNewline(i, lines, skip) {
			continue
		}
		out.WriteByte('\n')
	}
	return out.Bytes(), nil
}

// splitLines keeps line terminators so untouched lines round-trip
// byte-exact. starts[i] is the byte offset of lines[i].
func splitLines(src []byte) ([][]byte, []int) {
	var lines [][]byte
	var starts []int
	start := 0
	for i, b := range src {
		if b == '\n' {
			lines = append(lines, src[start:i+1])
			starts = append(starts, start)
			start = i + 1
		}
	}
	if start < len(src) {
		lines = append(lines, src[start:])
		starts = append(starts, start)
	}
	return lines, starts
}

// trimClosingSequence drops an ATX closing sequence ("## Title ##") from
// heading text. A trailing hash run counts as a closing sequence only
// when it stands alone or follows a space.
func trimClosingSequence(s string) string {
	trimmed := strings.TrimRight(s, "#")
	if trimmed == s {
		return s
	}
	if trimmed == "" || strings.HasSuffix(trimmed, " ") {
		return strings.TrimRight(trimmed, " ")
	}
	return s
}

func isSetextUnderline(line []byte) bool {
	t := bytes.TrimSpace(line)
	if len(t) == 0 {
		return false
	}
	c := t[0]
	if c != '=' && c != '-' {
		return false
	}
	for _, b := range t {
		if b != c {
			return false
		}
	}
	return true
}

// lineEndsDocumentWithoutNewline reports whether the rewritten heading at
// index i is the last emitted line of a document whose final line had no
// terminator, in which case none is added.
func lineEndsDocumentWithoutNewline(i int, lines [][]byte, skip map[int]bool) bool {
	for j := i + 1; j < len(lines); j++ {
		if !skip[j] {
			return false
		}
	}
	last := lines[len(lines)-1]
	return len(last) > 0 && last[len(last)-1] != '\n'
}
