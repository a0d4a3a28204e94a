package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

func cmdPresets(args []string) {
	fs := newFlagSet("presets", "[add <name> <equation> | rm <name>]")
	cfg := setup(fs, args)

	st, err := openStore(cfg)
	if err != nil {
		fail(err)
	}
	defer st.Close()

	switch fs.Arg(0) {
	case "":
		presets, err := st.Presets()
		if err != nil {
			fail(err)
		}
		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.SetStyle(table.StyleLight)
		tw.AppendHeader(table.Row{"Name", "Equation", "Built-in"})
		for _, p := range presets {
			tw.AppendRow(table.Row{p.Name, p.Equation, p.Builtin})
		}
		tw.Render()
	case "add":
		if fs.NArg() < 3 {
			fs.Usage()
			os.Exit(1)
		}
		p, err := st.AddPreset(fs.Arg(1), strings.Join(fs.Args()[2:], " "))
		if err != nil {
			fail(err)
		}
		fmt.Printf("Added %s: %s\n", p.Name, p.Equation)
	case "rm":
		if fs.NArg() != 2 {
			fs.Usage()
			os.Exit(1)
		}
		if err := st.DeletePreset(fs.Arg(1)); err != nil {
			fail(err)
		}
		fmt.Printf("Removed %s\n", fs.Arg(1))
	default:
		fs.Usage()
		os.Exit(1)
	}
}
