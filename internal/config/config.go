// Package config merges defaults, FRACTALC_* environment variables and
// command-line flags, and sets up tracing from the result.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/spf13/pflag"
)

// AppKey locates configuration files and prefixes environment variables.
const AppKey = "FRACTALC"

// TraceKeys lists every tracer the application selects.
var TraceKeys = []string{
	"fractalc.lexer",
	"fractalc.parser",
	"fractalc.compiler",
	"fractalc.resolver",
	"fractalc.splicer",
	"fractalc.glsl",
	"fractalc.session",
	"fractalc.store",
	"fractalc.server",
	"fractalc.cli",
}

var defaults = map[string]interface{}{
	"template":        "",
	"db":              "fractalc.db",
	"compiler":        "",
	"interval":        "500ms",
	"listen":          ":8080",
	"session":         "default",
	"verbose":         false,
	"tracing.adapter": "go",
}

type Config struct {
	Template string        // template path, "" for the built-in one
	DB       string        // sqlite database path
	Compiler string        // shader validator command, "" to skip
	Interval time.Duration // watch polling interval
	Listen   string
	Session  string // name under which variable values are saved
	Verbose  bool

	konf *koanfadapter.KConf
}

// Flags registers the flags every command understands on fs.
func Flags(fs *pflag.FlagSet) {
	fs.String("template", "", "Shader template file (default: built-in)")
	fs.String("db", "fractalc.db", "Preset and variable database")
	fs.String("compiler", "", "Shader validator command, e.g. \"glslangValidator --stdin -S frag\"")
	fs.Duration("interval", 500*time.Millisecond, "Watch polling interval")
	fs.String("listen", ":8080", "Listen address for serve")
	fs.String("session", "default", "Session name for saved variables")
	fs.BoolP("verbose", "v", false, "Debug tracing")
}

// Load merges defaults, environment and the parsed flag set fs, in that
// order of precedence. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	konf := koanfadapter.New(k, AppKey, []string{"nt"})
	konf.InitDefaults()

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}
	prefix := AppKey + "_"
	if err := k.Load(env.Provider(prefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, prefix)), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}
	if fs != nil {
		if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	interval, err := time.ParseDuration(k.String("interval"))
	if err != nil {
		return nil, fmt.Errorf("interval: %w", err)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("interval: must be positive, got %s", interval)
	}
	return &Config{
		Template: k.String("template"),
		DB:       k.String("db"),
		Compiler: k.String("compiler"),
		Interval: interval,
		Listen:   k.String("listen"),
		Session:  k.String("session"),
		Verbose:  k.Bool("verbose"),
		konf:     konf,
	}, nil
}

// ConfigureTracing routes tracing through Go's log package at the levels
// found under "trace.*". Verbose raises every application tracer to debug.
func (c *Config) ConfigureTracing() error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	if err := trace2go.ConfigureRoot(c.konf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	if c.Verbose {
		for _, key := range TraceKeys {
			tracing.Select(key).SetTraceLevel(tracing.LevelDebug)
		}
	}
	return nil
}
