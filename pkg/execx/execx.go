// Package execx runs formula install commands.
package execx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"

	"github.com/matzehuels/beer/pkg/formula"
)

// Result is the outcome of a command that started.
type Result struct {
	ExitCode int
	Output   []byte // Combined stdout and stderr, when captured
}

// Runner executes one command in a working directory. A non-zero exit is
// reported in the Result; an error means the command could not be started.
type Runner interface {
	Run(ctx context.Context, cmd formula.Command, dir string, capture bool) (Result, error)
}

// ExecRunner runs commands as child processes. Uncaptured output goes to
// Stdout and Stderr, or is discarded when they are nil.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	Env    []string // Extra environment entries appended to the parent's
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, c formula.Command, dir string, capture bool) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Program, c.Args...)
	cmd.Dir = dir
	if len(r.Env) > 0 {
		cmd.Env = append(cmd.Environ(), r.Env...)
	}

	var out bytes.Buffer
	if capture {
		cmd.Stdout = &out
		cmd.Stderr = &out
	} else {
		cmd.Stdout = r.Stdout
		cmd.Stderr = r.Stderr
	}

	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return Result{Output: out.Bytes()}, nil
	case errors.As(err, &exitErr):
		return Result{ExitCode: exitErr.ExitCode(), Output: out.Bytes()}, nil
	default:
		return Result{ExitCode: -1, Output: out.Bytes()}, err
	}
}

var _ Runner = (*ExecRunner)(nil)
