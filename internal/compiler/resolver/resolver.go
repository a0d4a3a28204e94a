package resolver

import (
	stderrors "errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/btouchard/fractalc/internal/compiler/token"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'fractalc.resolver'.
func tracer() tracing.Trace {
	return tracing.Select("fractalc.resolver")
}

// identPattern matches anything shaped like an identifier, including
// function names. Built-ins are filtered out afterwards.
var identPattern = regexp.MustCompile(`\b[A-Za-z_][A-Za-z0-9_]*\b`)

// ExtractVariables returns the free variables of an equation in source
// order. Duplicates are kept. The text does not need to be valid.
func ExtractVariables(text string) []string {
	names := []string{}
	for _, m := range identPattern.FindAllString(text, -1) {
		if token.IsBuiltin(m) {
			continue
		}
		names = append(names, m)
	}
	return names
}

// ErrConstant is returned when writing to a variable flagged constant.
var ErrConstant = stderrors.New("variable is constant")

// Entry is the state of one user variable.
type Entry struct {
	Value    mgl32.Vec2 // complex value (real, imaginary)
	Constant bool       // locked against edits
}

// Registry holds the user variables of one equation. It is not safe for
// concurrent use; a session owns exactly one.
type Registry struct {
	entries map[string]Entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Reconcile makes the registry's keys equal to the distinct elements of
// names. New names get a zero, unlocked entry; names already present keep
// their state; everything else is dropped.
func (r *Registry) Reconcile(names []string) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	for name := range r.entries {
		if !want[name] {
			tracer().Debugf("drop variable %s", name)
			delete(r.entries, name)
		}
	}
	for _, n := range names {
		if _, ok := r.entries[n]; !ok {
			tracer().Debugf("add variable %s", n)
			r.entries[n] = Entry{}
		}
	}
}

// Get returns the entry for name and whether it exists.
func (r *Registry) Get(name string) (Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// SetValue updates a variable's complex value.
func (r *Registry) SetValue(name string, v mgl32.Vec2) error {
	e, ok := r.entries[name]
	if !ok {
		return fmt.Errorf("unknown variable %q", name)
	}
	if e.Constant {
		return fmt.Errorf("%s: %w", name, ErrConstant)
	}
	e.Value = v
	r.entries[name] = e
	return nil
}

// SetConstant locks or unlocks a variable.
func (r *Registry) SetConstant(name string, constant bool) error {
	e, ok := r.entries[name]
	if !ok {
		return fmt.Errorf("unknown variable %q", name)
	}
	e.Constant = constant
	r.entries[name] = e
	return nil
}

// Names returns the variable names in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// Snapshot copies the registry contents.
func (r *Registry) Snapshot() map[string]Entry {
	out := make(map[string]Entry, len(r.entries))
	for k, v := range r.entries {
		out[k] = v
	}
	return out
}

// Restore replaces the registry contents with a copy of entries.
func (r *Registry) Restore(entries map[string]Entry) {
	r.entries = make(map[string]Entry, len(entries))
	for k, v := range entries {
		r.entries[k] = v
	}
}
