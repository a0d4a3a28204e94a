package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/btouchard/fractalc/internal/server"
	"github.com/btouchard/fractalc/internal/store"
)

func cmdServe(args []string) {
	fs := newFlagSet("serve", "[--listen addr]")
	initial := fs.String("equation", "z^2 + c", "equation applied at startup")
	cfg := setup(fs, args)

	sess, err := newSession(cfg)
	if err != nil {
		fail(err)
	}
	var st *store.Store
	if st, err = openStore(cfg); err != nil {
		tracer().Errorf("serving without database: %v", err)
	} else {
		defer st.Close()
		restoreVariables(cfg, st, sess)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if _, err := sess.ApplyTwice(ctx, *initial); err != nil {
		fail(err)
	}

	srv := server.New(sess, st, cfg.Session)
	if err := srv.ListenAndServe(ctx, cfg.Listen); err != nil {
		fail(err)
	}
}
