package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/btouchard/fractalc/internal/compiler/splicer"
	"github.com/btouchard/fractalc/internal/config"
	"github.com/btouchard/fractalc/internal/glsl"
	"github.com/btouchard/fractalc/internal/session"
	"github.com/btouchard/fractalc/internal/store"
	"github.com/fatih/color"
	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/pflag"
)

// tracer traces with key 'fractalc.cli'.
func tracer() tracing.Trace {
	return tracing.Select("fractalc.cli")
}

var commands = map[string]func([]string){
	"translate": cmdTranslate,
	"vars":      cmdVars,
	"build":     cmdBuild,
	"check":     cmdCheck,
	"repl":      cmdRepl,
	"watch":     cmdWatch,
	"serve":     cmdServe,
	"presets":   cmdPresets,
}

func usage() {
	_, _ = fmt.Fprintf(os.Stderr, `Usage: fractalc <command> [flags] [arguments]

Commands:
  translate <equation>     print the shader expression for an equation
  vars <equation>          list the variables of an equation
  build [-o out] <eq>      splice an equation into the shader template
  check [file]             translate every line of a file (or stdin)
  repl                     edit equations interactively
  watch [-o out] <file>    rebuild whenever an equation file changes
  serve                    serve the translation API over HTTP
  presets [add|rm] ...     list or edit the preset equations

Run 'fractalc <command> -h' for the flags of a command.
`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	name := os.Args[1]
	if name == "-h" || name == "--help" || name == "help" {
		usage()
		return
	}
	cmd, ok := commands[name]
	if !ok {
		_, _ = fmt.Fprintf(os.Stderr, "unknown command %q\n\n", name)
		usage()
		os.Exit(1)
	}
	cmd(os.Args[2:])
}

// newFlagSet creates a flag set carrying the shared configuration flags.
func newFlagSet(name, synopsis string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ExitOnError)
	config.Flags(fs)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage: fractalc %s %s\n\nFlags:\n", name, synopsis)
		fs.PrintDefaults()
	}
	return fs
}

// setup parses args into fs and loads the configuration.
func setup(fs *pflag.FlagSet, args []string) *config.Config {
	_ = fs.Parse(args)
	cfg, err := config.Load(fs)
	if err != nil {
		fail(err)
	}
	if err := cfg.ConfigureTracing(); err != nil {
		fail(err)
	}
	return cfg
}

// fail prints err in red and exits.
func fail(err error) {
	_, _ = color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func warn(w io.Writer, msgs []string) {
	yellow := color.New(color.FgYellow)
	for _, m := range msgs {
		_, _ = yellow.Fprintf(w, "warning: %s\n", m)
	}
}

// equationArg joins the positional arguments, so equations need no quoting.
func equationArg(fs *pflag.FlagSet) string {
	return strings.TrimSpace(strings.Join(fs.Args(), " "))
}

func loadTemplate(cfg *config.Config) (string, error) {
	if cfg.Template == "" {
		return splicer.DefaultTemplate, nil
	}
	data, err := os.ReadFile(cfg.Template)
	if err != nil {
		return "", fmt.Errorf("reading template: %w", err)
	}
	return string(data), nil
}

func newSession(cfg *config.Config) (*session.Session, error) {
	tmpl, err := loadTemplate(cfg)
	if err != nil {
		return nil, err
	}
	c, err := glsl.New(cfg.Compiler)
	if err != nil {
		return nil, err
	}
	return session.New(tmpl, c), nil
}

// openStore opens the database and installs the default presets.
func openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.Open(cfg.DB)
	if err != nil {
		return nil, err
	}
	if _, err := st.SeedPresets(); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

// restoreVariables loads the saved values of the configured session.
func restoreVariables(cfg *config.Config, st *store.Store, sess *session.Session) {
	reg, err := st.LoadRegistry(cfg.Session)
	if err != nil {
		tracer().Errorf("loading variables: %v", err)
		return
	}
	sess.Restore(reg.Snapshot())
}
