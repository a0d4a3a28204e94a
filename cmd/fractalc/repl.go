package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/btouchard/fractalc/internal/compiler"
	"github.com/btouchard/fractalc/internal/compiler/resolver"
	"github.com/btouchard/fractalc/internal/session"
	"github.com/btouchard/fractalc/internal/store"
	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/go-gl/mathgl/mgl32"
)

const replHelp = `Type an equation to apply it, or one of:
  :vars                 show the variables
  :set <name> <re> <im> set a variable
  :lock <name>          make a variable constant
  :unlock <name>        make a variable editable
  :preset <name>        apply a stored preset
  :program              print the current program
  :save                 save the variables
  :help                 print this message
  :bye                  quit
`

var replCompleter = readline.NewPrefixCompleter(
	readline.PcItem(":vars"),
	readline.PcItem(":set"),
	readline.PcItem(":lock"),
	readline.PcItem(":unlock"),
	readline.PcItem(":preset"),
	readline.PcItem(":program"),
	readline.PcItem(":save"),
	readline.PcItem(":help"),
	readline.PcItem(":bye"),
)

type repl struct {
	session *session.Session
	store   *store.Store // nil without a database
	name    string
	out     io.Writer
}

func cmdRepl(args []string) {
	fs := newFlagSet("repl", "")
	cfg := setup(fs, args)

	sess, err := newSession(cfg)
	if err != nil {
		fail(err)
	}
	r := &repl{session: sess, name: cfg.Session}
	if st, err := openStore(cfg); err != nil {
		tracer().Errorf("running without database: %v", err)
	} else {
		defer st.Close()
		r.store = st
		restoreVariables(cfg, st, sess)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "fractalc> ",
		HistoryFile:       fmt.Sprintf("%s/fractalc-repl-history.tmp", os.TempDir()),
		AutoComplete:      replCompleter,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fail(err)
	}
	defer rl.Close()
	r.out = rl.Stdout()

	_, _ = io.WriteString(rl.Stderr(), replHelp)
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		if r.execute(strings.TrimSpace(line)) {
			break
		}
	}
	r.save()
}

// execute runs one input line and reports whether the loop should end.
func (r *repl) execute(line string) bool {
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, ":") {
		r.apply(line)
		return false
	}

	words := strings.Fields(line)
	switch words[0] {
	case ":bye", ":quit":
		return true
	case ":help":
		_, _ = io.WriteString(r.out, replHelp)
	case ":vars":
		reg := resolver.NewRegistry()
		reg.Restore(r.session.Variables())
		renderVariables(r.out, reg)
	case ":program":
		_, _ = fmt.Fprintln(r.out, r.session.Program())
	case ":save":
		r.save()
	case ":set":
		if len(words) != 4 {
			r.errorf("usage: :set <name> <re> <im>")
			return false
		}
		re, err1 := strconv.ParseFloat(words[2], 32)
		im, err2 := strconv.ParseFloat(words[3], 32)
		if err1 != nil || err2 != nil {
			r.errorf("values must be numbers")
			return false
		}
		if err := r.session.SetValue(words[1], mgl32.Vec2{float32(re), float32(im)}); err != nil {
			r.errorf("%v", err)
		}
	case ":lock", ":unlock":
		if len(words) != 2 {
			r.errorf("usage: %s <name>", words[0])
			return false
		}
		if err := r.session.SetConstant(words[1], words[0] == ":lock"); err != nil {
			r.errorf("%v", err)
		}
	case ":preset":
		if r.store == nil {
			r.errorf("no database")
			return false
		}
		p, err := r.store.Preset(strings.TrimSpace(strings.TrimPrefix(line, ":preset")))
		if err != nil {
			r.errorf("%v", err)
			return false
		}
		_, _ = fmt.Fprintf(r.out, "%s: %s\n", p.Name, p.Equation)
		r.apply(p.Equation)
	default:
		r.errorf("unknown command %s, try :help", words[0])
	}
	return false
}

func (r *repl) apply(equation string) {
	res, err := r.session.ApplyTwice(context.Background(), equation)
	if err != nil {
		r.errorf("%s", compiler.Message(err))
		return
	}
	warn(r.out, res.Warnings)
	_, _ = color.New(color.FgGreen).Fprintf(r.out, "%s\n", res.Expression)
	if res.Compile != nil && !res.Compile.OK {
		r.errorf("shader compilation failed:\n%s", res.Compile.Log)
	}
}

func (r *repl) save() {
	if r.store == nil {
		return
	}
	reg := resolver.NewRegistry()
	reg.Restore(r.session.Variables())
	if err := r.store.SaveRegistry(r.name, reg); err != nil {
		r.errorf("saving variables: %v", err)
	}
}

func (r *repl) errorf(format string, args ...interface{}) {
	_, _ = color.New(color.FgRed).Fprintf(r.out, format+"\n", args...)
}
