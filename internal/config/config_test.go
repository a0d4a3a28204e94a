package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	Flags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse(%v): %v", args, err)
	}
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newFlags(t))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DB != "fractalc.db" || cfg.Listen != ":8080" || cfg.Session != "default" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Interval != 500*time.Millisecond {
		t.Errorf("Interval = %s", cfg.Interval)
	}
	if cfg.Template != "" || cfg.Compiler != "" || cfg.Verbose {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadNilFlags(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Session != "default" {
		t.Errorf("Session = %q", cfg.Session)
	}
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("FRACTALC_DB", "/tmp/env.db")
	t.Setenv("FRACTALC_SESSION", "from-env")

	cfg, err := Load(newFlags(t, "--session", "from-flag", "--interval", "2s"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DB != "/tmp/env.db" {
		t.Errorf("DB = %q, want the environment value", cfg.DB)
	}
	if cfg.Session != "from-flag" {
		t.Errorf("Session = %q, want the flag value", cfg.Session)
	}
	if cfg.Interval != 2*time.Second {
		t.Errorf("Interval = %s", cfg.Interval)
	}
}

func TestIntervalFromEnvironment(t *testing.T) {
	t.Setenv("FRACTALC_INTERVAL", "3s")
	cfg, err := Load(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Interval != 3*time.Second {
		t.Errorf("Interval = %s, want 3s", cfg.Interval)
	}
}

func TestLoadRejectsBadInterval(t *testing.T) {
	t.Setenv("FRACTALC_INTERVAL", "soon")
	if _, err := Load(nil); err == nil {
		t.Error("expected an error for an unparsable interval")
	}
}
