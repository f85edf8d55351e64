// Package runner executes the external commands cratedoc depends on
// (cargo metadata, the docs enumeration command) and captures their
// output for diagnostics.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Runner abstracts external command execution so callers can be tested
// without spawning processes.
type Runner interface {
	// Run executes name with args in dir and returns captured stdout.
	// A non-zero exit or spawn failure returns a *CommandError.
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// CommandError reports a failed external command along with whatever the
// command wrote to stderr.
type CommandError struct {
	Name   string
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command %q failed: %v", e.Name+" "+strings.Join(e.Args, " "), e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += "\n" + s
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// ExecRunner runs commands directly on the host.
type ExecRunner struct {
	Log *zap.Logger
}

// NewExecRunner creates a runner. A nil logger is replaced with a no-op one.
func NewExecRunner(log *zap.Logger) *ExecRunner {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExecRunner{Log: log}
}

func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.Log.Debug("running external command",
		zap.String("name", name),
		zap.Strings("args", args),
		zap.String("dir", dir))

	if err := cmd.Run(); err != nil {
		r.Log.Debug("external command failed",
			zap.String("name", name),
			zap.Error(err))
		return nil, &CommandError{
			Name:   name,
			Args:   args,
			Stderr: stderr.String(),
			Err:    err,
		}
	}

	return stdout.Bytes(), nil
}
