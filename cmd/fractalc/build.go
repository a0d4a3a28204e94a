package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/btouchard/fractalc/internal/compiler"
	"github.com/btouchard/fractalc/internal/session"
	"github.com/fatih/color"
)

func cmdBuild(args []string) {
	fs := newFlagSet("build", "[-o output.frag] [--preset name | <equation>]")
	output := fs.StringP("output", "o", "", "output file (default: stdout)")
	preset := fs.StringP("preset", "p", "", "build a stored preset")
	cfg := setup(fs, args)

	equation := equationArg(fs)
	if *preset != "" {
		st, err := openStore(cfg)
		if err != nil {
			fail(err)
		}
		p, err := st.Preset(*preset)
		_ = st.Close()
		if err != nil {
			fail(err)
		}
		equation = p.Equation
	}
	if equation == "" {
		fs.Usage()
		os.Exit(1)
	}

	sess, err := newSession(cfg)
	if err != nil {
		fail(err)
	}
	res, err := sess.ApplyTwice(context.Background(), equation)
	if err != nil {
		fmt.Println(compiler.Message(err))
		os.Exit(1)
	}
	warn(os.Stderr, res.Warnings)
	if err := writeProgram(*output, res); err != nil {
		fail(err)
	}
	if !res.Compile.OK {
		_, _ = color.New(color.FgRed).Fprintf(os.Stderr, "shader compilation failed:\n%s\n", res.Compile.Log)
		os.Exit(1)
	}
	if *output != "" {
		fmt.Printf("Generated %s successfully\n", *output)
	}
}

// writeProgram writes the spliced program to path, or stdout if path is "".
func writeProgram(path string, res *session.Result) error {
	if path == "" {
		_, err := fmt.Print(res.Program)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(res.Program), 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}
