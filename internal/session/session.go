// Package session runs the equation pipeline for one editing session:
// extract variables, reconcile the registry, translate, splice and hand the
// program to the shader compiler.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/btouchard/fractalc/internal/compiler"
	"github.com/btouchard/fractalc/internal/compiler/resolver"
	"github.com/btouchard/fractalc/internal/compiler/splicer"
	"github.com/btouchard/fractalc/internal/glsl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/npillmayer/schuko/tracing"
	"github.com/zeebo/blake3"
)

// tracer traces with key 'fractalc.session'.
func tracer() tracing.Trace {
	return tracing.Select("fractalc.session")
}

// Result describes one successful Apply.
type Result struct {
	Equation   string
	Expression string
	Program    string
	Variables  []string // distinct, in order of first appearance
	Warnings   []string
	Compile    *glsl.Result
	Recompiled bool // false if the program was identical to the current one
}

// Session owns a registry and the program currently in effect. Methods are
// safe for concurrent use.
type Session struct {
	mu          sync.Mutex
	template    string
	compiler    glsl.Compiler
	registry    *resolver.Registry
	equation    string
	expression  string
	program     string
	fingerprint [32]byte
	lastCompile *glsl.Result
}

// New creates a session splicing into template. A nil compiler accepts
// every program.
func New(template string, c glsl.Compiler) *Session {
	if c == nil {
		c = glsl.Nop{}
	}
	return &Session{
		template: template,
		compiler: c,
		registry: resolver.NewRegistry(),
	}
}

// Apply runs the full pipeline for equation. On error the program in
// effect and the registry are left as they were; compiler.Message renders
// the error for display.
func (s *Session) Apply(ctx context.Context, equation string) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := resolver.ExtractVariables(equation)
	expr, warnings, err := compiler.Check(equation)
	if err != nil {
		return nil, err
	}
	program, err := splicer.Splice(s.template, names, expr)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Equation:   equation,
		Expression: expr,
		Program:    program,
		Variables:  distinct(names),
		Warnings:   warnings.Messages(),
	}

	sum := blake3.Sum256([]byte(program))
	if s.program != "" && sum == s.fingerprint {
		tracer().Debugf("program unchanged, skipping compile")
		res.Compile = s.lastCompile
		s.registry.Reconcile(names)
		s.equation = equation
		return res, nil
	}

	cr, err := s.compiler.Compile(ctx, program)
	if err != nil {
		return nil, fmt.Errorf("compiling program: %w", err)
	}
	if !cr.OK {
		tracer().Infof("shader compiler rejected program: %s", cr.Log)
	}
	// The registry follows the program in effect, not a rejected edit.
	s.registry.Reconcile(names)
	s.equation = equation
	s.expression = expr
	s.program = program
	s.fingerprint = sum
	s.lastCompile = cr
	res.Compile = cr
	res.Recompiled = true
	return res, nil
}

// ApplyTwice applies equation two times in a row, the way the host does
// after every edit, and checks that the second pass changed nothing.
func (s *Session) ApplyTwice(ctx context.Context, equation string) (*Result, error) {
	first, err := s.Apply(ctx, equation)
	if err != nil {
		return nil, err
	}
	second, err := s.Apply(ctx, equation)
	if err != nil {
		return nil, err
	}
	if first.Program != second.Program {
		return nil, fmt.Errorf("pipeline did not converge for %q", equation)
	}
	return second, nil
}

// Program returns the program in effect, or "" before the first success.
func (s *Session) Program() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.program
}

// Expression returns the translated equation of the program in effect.
func (s *Session) Expression() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expression
}

// Equation returns the equation text last applied successfully.
func (s *Session) Equation() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.equation
}

func (s *Session) Variables() map[string]resolver.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Snapshot()
}

func (s *Session) SetValue(name string, v mgl32.Vec2) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.SetValue(name, v)
}

func (s *Session) SetConstant(name string, constant bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.SetConstant(name, constant)
}

// Restore loads saved variable state. Entries are kept only for names the
// next Apply still sees.
func (s *Session) Restore(entries map[string]resolver.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry.Restore(entries)
}

// Uniforms returns the value to upload for each variable uniform.
func (s *Session) Uniforms() map[string]mgl32.Vec2 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]mgl32.Vec2, s.registry.Len())
	for _, n := range s.registry.Names() {
		e, _ := s.registry.Get(n)
		out[n] = e.Value
	}
	return out
}

func distinct(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
