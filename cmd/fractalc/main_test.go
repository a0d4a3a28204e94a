package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/btouchard/fractalc/internal/compiler/resolver"
	"github.com/btouchard/fractalc/internal/compiler/splicer"
	"github.com/btouchard/fractalc/internal/session"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tevino/abool/v2"
)

func TestCheckLines(t *testing.T) {
	input := `# presets
z^2 + c

sin(z) + c
z^2 +
abs(z) & c
`
	var out bytes.Buffer
	total, failed, err := checkLines(strings.NewReader(input), &out, false)
	if err != nil {
		t.Fatal(err)
	}
	if total != 4 || failed != 2 {
		t.Errorf("total = %d, failed = %d; want 4, 2", total, failed)
	}
	got := out.String()
	for _, want := range []string{"2: (complexPower(z, 2)+c)", "4: (complexSin(z)+c)", "5: ERROR: ", "6: ERROR: "} {
		if !strings.Contains(got, want) {
			t.Errorf("output lacks %q:\n%s", want, got)
		}
	}
}

func TestCheckLinesStrict(t *testing.T) {
	input := "sine(z) + c\nz^2 + c\n"
	var out bytes.Buffer
	total, failed, err := checkLines(strings.NewReader(input), &out, false)
	if err != nil || total != 2 || failed != 0 {
		t.Errorf("lenient: total = %d, failed = %d, err = %v", total, failed, err)
	}
	out.Reset()
	total, failed, err = checkLines(strings.NewReader(input), &out, true)
	if err != nil || total != 2 || failed != 1 {
		t.Errorf("strict: total = %d, failed = %d, err = %v", total, failed, err)
	}
	if !strings.Contains(out.String(), `did you mean "sin"?`) {
		t.Errorf("output lacks the suggestion:\n%s", out.String())
	}
}

func TestWatcherPoll(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eq.txt")
	output := filepath.Join(dir, "out.frag")
	if err := os.WriteFile(path, []byte("z^2 + c\n"), 0644); err != nil {
		t.Fatal(err)
	}
	w := &watcher{
		path:    path,
		output:  output,
		session: session.New(splicer.DefaultTemplate, nil),
		running: abool.NewBool(true),
	}

	w.poll()
	if w.last != "" {
		t.Fatal("poll ran while the previous tick was still running")
	}

	w.running.UnSet()
	w.poll()
	if w.last != "z^2 + c" {
		t.Errorf("last = %q", w.last)
	}
	if w.running.IsSet() {
		t.Error("guard not released after poll")
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "return (complexPower(z, 2)+c);") {
		t.Errorf("output lacks the equation:\n%s", data)
	}
}

func TestRenderVariables(t *testing.T) {
	reg := resolver.NewRegistry()
	var out bytes.Buffer
	renderVariables(&out, reg)
	if !strings.Contains(out.String(), "no variables") {
		t.Errorf("empty registry rendered as %q", out.String())
	}

	reg.Reconcile([]string{"juliaC"})
	_ = reg.SetValue("juliaC", mgl32.Vec2{0.25, -1})
	out.Reset()
	renderVariables(&out, reg)
	for _, want := range []string{"juliaC", "0.25", "-1"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("table lacks %q:\n%s", want, out.String())
		}
	}
}

func TestReplExecute(t *testing.T) {
	var out bytes.Buffer
	r := &repl{session: session.New(splicer.DefaultTemplate, nil), out: &out}

	if r.execute("a*z + c") {
		t.Fatal("equation ended the loop")
	}
	if !strings.Contains(out.String(), "(complexMultiply(a, z)+c)") {
		t.Errorf("output = %q", out.String())
	}

	r.execute(":set a 1 2")
	r.execute(":lock a")
	out.Reset()
	r.execute(":set a 3 4")
	if !strings.Contains(out.String(), "constant") {
		t.Errorf("setting a constant: %q", out.String())
	}
	if v := r.session.Uniforms()["a"]; v != (mgl32.Vec2{1, 2}) {
		t.Errorf("a = %v", v)
	}

	out.Reset()
	r.execute(":preset Mandelbrot")
	if !strings.Contains(out.String(), "no database") {
		t.Errorf("preset without store: %q", out.String())
	}

	out.Reset()
	r.execute("z^")
	if !strings.Contains(out.String(), "ERROR: ") {
		t.Errorf("bad equation: %q", out.String())
	}
	if !r.execute(":bye") {
		t.Error(":bye should end the loop")
	}
}
