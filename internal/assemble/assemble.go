// Package assemble runs an ordered list of section producers concurrently
// and joins their results back in declaration order.
package assemble

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Section is one producer's contribution. A section that is not Present
// is dropped from the artifact without leaving a stray separator; this is
// how producers report optional sources that turned out to be absent.
type Section struct {
	Text    string
	Present bool
}

// Absent is the section an optional producer returns when its source does
// not exist.
func Absent() Section { return Section{} }

// Text wraps rendered text as a present section.
func Text(s string) Section { return Section{Text: s, Present: true} }

// Producer computes one section. Name identifies the source in errors.
type Producer struct {
	Name string
	Run  func(ctx context.Context) (Section, error)
}

// Error wraps the first failing producer's error.
type Error struct {
	Name string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("assembling %s: %v", e.Name, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Separator joins adjacent sections in the final artifact.
const Separator = "\n\n"

// Assemble starts every producer concurrently, waits for all of them to
// settle, and joins the present sections in declaration order. Any failure
// aborts the whole batch: the first producer error is returned and no
// partial artifact is produced. A failing producer does not cancel its
// siblings; Assemble always waits for every producer before returning.
func Assemble(ctx context.Context, producers []Producer) (string, error) {
	results := make([]Section, len(producers))

	var eg errgroup.Group
	for i, p := range producers {
		eg.Go(func() error {
			sec, err := p.Run(ctx)
			if err != nil {
				return &Error{Name: p.Name, Err: err}
			}
			results[i] = sec
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return "", err
	}

	parts := make([]string, 0, len(results))
	for _, sec := range results {
		if !sec.Present || sec.Text == "" {
			continue
		}
		parts = append(parts, sec.Text)
	}
	return strings.Join(parts, Separator), nil
}
