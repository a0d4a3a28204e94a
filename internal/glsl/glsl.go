// Package glsl hands generated shader programs to a validating compiler.
package glsl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'fractalc.glsl'.
func tracer() tracing.Trace {
	return tracing.Select("fractalc.glsl")
}

// Result is what the compiler reported for one program. Log is passed on
// to the user unchanged.
type Result struct {
	OK  bool
	Log string
}

// Compiler accepts program text and reports success or a diagnostic log.
// An error means the compiler could not be run at all.
type Compiler interface {
	Compile(ctx context.Context, program string) (*Result, error)
}

// Nop accepts every program.
type Nop struct{}

func (Nop) Compile(ctx context.Context, program string) (*Result, error) {
	return &Result{OK: true}, nil
}

// ExecCompiler runs an external validator, writing the program to its
// stdin, e.g. "glslangValidator --stdin -S frag".
type ExecCompiler struct {
	path string
	args []string
}

// NewExecCompiler resolves the first word of command on PATH.
func NewExecCompiler(command string) (*ExecCompiler, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, errors.New("empty compiler command")
	}
	path, err := exec.LookPath(fields[0])
	if err != nil {
		return nil, fmt.Errorf("compiler not found: %w", err)
	}
	return &ExecCompiler{path: path, args: fields[1:]}, nil
}

// Compile runs the validator once. A non-zero exit status is a failed
// compilation, reported in the Result rather than as an error.
func (c *ExecCompiler) Compile(ctx context.Context, program string) (*Result, error) {
	cmd := exec.CommandContext(ctx, c.path, c.args...)
	cmd.Stdin = strings.NewReader(program)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	result := &Result{Log: strings.TrimSpace(out.String())}
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("running %s: %w", c.path, err)
		}
		tracer().Debugf("%s exited with %d", c.path, exitErr.ExitCode())
		return result, nil
	}
	result.OK = true
	return result, nil
}

// New returns an ExecCompiler for command, or Nop if command is empty.
func New(command string) (Compiler, error) {
	if strings.TrimSpace(command) == "" {
		return Nop{}, nil
	}
	return NewExecCompiler(command)
}
