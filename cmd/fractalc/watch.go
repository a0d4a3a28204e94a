package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/btouchard/fractalc/internal/compiler"
	"github.com/btouchard/fractalc/internal/session"
	"github.com/go-co-op/gocron/v2"
	"github.com/tevino/abool/v2"
)

// watcher rebuilds the program whenever the equation file changes.
type watcher struct {
	path    string
	output  string
	session *session.Session
	last    string
	running *abool.AtomicBool
}

func cmdWatch(args []string) {
	fs := newFlagSet("watch", "[-o output.frag] <equation-file>")
	output := fs.StringP("output", "o", "", "output file (default: stdout)")
	cfg := setup(fs, args)

	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}
	sess, err := newSession(cfg)
	if err != nil {
		fail(err)
	}
	w := &watcher{
		path:    fs.Arg(0),
		output:  *output,
		session: sess,
		running: abool.NewBool(false),
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		fail(err)
	}
	if _, err := scheduler.NewJob(
		gocron.DurationJob(cfg.Interval),
		gocron.NewTask(w.poll),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		fail(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	fmt.Fprintf(os.Stderr, "watching %s every %s\n", w.path, cfg.Interval)
	scheduler.Start()
	<-ctx.Done()
	if err := scheduler.Shutdown(); err != nil {
		tracer().Errorf("stopping scheduler: %v", err)
	}
}

// poll skips a tick while the previous one is still running.
func (w *watcher) poll() {
	if !w.running.SetToIf(false, true) {
		return
	}
	defer w.running.UnSet()

	data, err := os.ReadFile(w.path)
	if err != nil {
		tracer().Errorf("reading %s: %v", w.path, err)
		return
	}
	equation := strings.TrimSpace(string(data))
	if equation == w.last {
		return
	}
	w.last = equation
	tracer().Infof("%s changed", w.path)

	res, err := w.session.ApplyTwice(context.Background(), equation)
	if err != nil {
		fmt.Fprintln(os.Stderr, compiler.Message(err))
		return
	}
	warn(os.Stderr, res.Warnings)
	if err := writeProgram(w.output, res); err != nil {
		tracer().Errorf("%v", err)
		return
	}
	if !res.Compile.OK {
		fmt.Fprintf(os.Stderr, "shader compilation failed:\n%s\n", res.Compile.Log)
		return
	}
	fmt.Fprintf(os.Stderr, "rebuilt: %s\n", res.Expression)
}
