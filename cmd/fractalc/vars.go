package main

import (
	"fmt"
	"io"
	"os"

	"github.com/btouchard/fractalc/internal/compiler/resolver"
	"github.com/jedib0t/go-pretty/v6/table"
)

func cmdVars(args []string) {
	fs := newFlagSet("vars", "<equation>")
	saved := fs.Bool("saved", false, "show the values saved for the session")
	cfg := setup(fs, args)

	equation := equationArg(fs)
	if equation == "" {
		fs.Usage()
		os.Exit(1)
	}

	reg := resolver.NewRegistry()
	if *saved {
		st, err := openStore(cfg)
		if err != nil {
			fail(err)
		}
		defer st.Close()
		if reg, err = st.LoadRegistry(cfg.Session); err != nil {
			fail(err)
		}
	}
	reg.Reconcile(resolver.ExtractVariables(equation))
	renderVariables(os.Stdout, reg)
}

// renderVariables prints a registry as a table, one row per variable.
func renderVariables(w io.Writer, reg *resolver.Registry) {
	if reg.Len() == 0 {
		_, _ = fmt.Fprintln(w, "no variables")
		return
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Name", "Real", "Imag", "Constant"})
	for _, name := range reg.Names() {
		e, _ := reg.Get(name)
		tw.AppendRow(table.Row{name, e.Value[0], e.Value[1], e.Constant})
	}
	tw.Render()
}
