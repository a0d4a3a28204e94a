package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/btouchard/fractalc/internal/compiler"
	"github.com/btouchard/fractalc/internal/compiler/splicer"
	"github.com/fatih/color"
)

func cmdCheck(args []string) {
	fs := newFlagSet("check", "[--strict] [file]")
	strict := fs.Bool("strict", false, "count calls to unknown functions as failures")
	cfg := setup(fs, args)

	var in io.Reader = os.Stdin
	if fs.NArg() > 0 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			fail(err)
		}
		defer f.Close()
		in = f
	}

	tmpl, err := loadTemplate(cfg)
	if err != nil {
		fail(err)
	}
	failed := 0
	if _, err := splicer.Splice(tmpl, nil, "z"); err != nil {
		fmt.Println(compiler.Message(err))
		failed++
	}

	n, bad, err := checkLines(in, os.Stdout, *strict)
	if err != nil {
		fail(err)
	}
	failed += bad
	fmt.Printf("%d equations, %d failed\n", n, bad)
	if failed > 0 {
		os.Exit(1)
	}
}

// checkLines translates every non-empty line not starting with '#'. In
// strict mode a line with warnings counts as failed.
func checkLines(r io.Reader, w io.Writer, strict bool) (total, failed int, err error) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	sc := bufio.NewScanner(r)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		total++
		expr, warnings, err := compiler.Check(line)
		if err != nil {
			failed++
			_, _ = red.Fprintf(w, "%d: %s\n", lineNo, compiler.Message(err))
			continue
		}
		if strict && warnings.HasErrors() {
			failed++
			_, _ = red.Fprintf(w, "%d: %s\n", lineNo, expr)
		} else {
			_, _ = green.Fprintf(w, "%d: %s\n", lineNo, expr)
		}
		warn(w, warnings.Messages())
	}
	return total, failed, sc.Err()
}
