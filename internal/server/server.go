// Package server exposes translation and the session pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/btouchard/fractalc/internal/compiler"
	"github.com/btouchard/fractalc/internal/compiler/resolver"
	"github.com/btouchard/fractalc/internal/session"
	"github.com/btouchard/fractalc/internal/store"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/npillmayer/schuko/tracing"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/expvarhandler"
)

// tracer traces with key 'fractalc.server'.
func tracer() tracing.Trace {
	return tracing.Select("fractalc.server")
}

var (
	translateCalls = expvar.NewInt("translateCalls")
	programCalls   = expvar.NewInt("programCalls")
	failedCalls    = expvar.NewInt("failedCalls")
)

// CompileTimeout bounds one call to the shader compiler.
const CompileTimeout = 10 * time.Second

type Server struct {
	session *session.Session
	store   *store.Store // optional
	name    string       // session name for saved variables
}

// New serves sess. If st is not nil, variable edits are saved under name
// and presets are listed from it.
func New(sess *session.Session, st *store.Store, name string) *Server {
	return &Server{session: sess, store: st, name: name}
}

type translateResponse struct {
	Expression string   `json:"expression"`
	Variables  []string `json:"variables"`
	Warnings   []string `json:"warnings"`
}

type programResponse struct {
	translateResponse
	Program  string `json:"program"`
	Compiled bool   `json:"compiled"`
	Log      string `json:"log,omitempty"`
}

type variable struct {
	Name     string  `json:"name"`
	Real     float32 `json:"real"`
	Imag     float32 `json:"imag"`
	Constant bool    `json:"constant"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler routes requests.
func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	method := string(ctx.Method())
	tracer().Debugf("%s %s", method, path)

	switch {
	case path == "/translate" && method == fasthttp.MethodPost:
		s.handleTranslate(ctx)
	case path == "/program" && method == fasthttp.MethodPost:
		s.handleProgram(ctx)
	case path == "/program" && method == fasthttp.MethodGet:
		ctx.SetContentType("text/plain; charset=utf-8")
		ctx.SetBodyString(s.session.Program())
	case path == "/variables" && method == fasthttp.MethodGet:
		s.handleVariables(ctx)
	case path == "/variables" && method == fasthttp.MethodPost:
		s.handleSetVariable(ctx)
	case path == "/presets" && method == fasthttp.MethodGet:
		s.handlePresets(ctx)
	case path == "/stats":
		expvarhandler.ExpvarHandler(ctx)
	default:
		ctx.Error("not found", http.StatusNotFound)
	}
}

func (s *Server) handleTranslate(ctx *fasthttp.RequestCtx) {
	translateCalls.Add(1)
	equation := string(ctx.PostBody())
	expr, warnings, err := compiler.Check(equation)
	if err != nil {
		writeError(ctx, http.StatusBadRequest, compiler.Message(err))
		return
	}
	writeJSON(ctx, http.StatusOK, translateResponse{
		Expression: expr,
		Variables:  distinct(resolver.ExtractVariables(equation)),
		Warnings:   warnings.Messages(),
	})
}

func (s *Server) handleProgram(ctx *fasthttp.RequestCtx) {
	programCalls.Add(1)
	c, cancel := context.WithTimeout(context.Background(), CompileTimeout)
	defer cancel()

	res, err := s.session.ApplyTwice(c, string(ctx.PostBody()))
	if err != nil {
		writeError(ctx, http.StatusBadRequest, compiler.Message(err))
		return
	}
	writeJSON(ctx, http.StatusOK, programResponse{
		translateResponse: translateResponse{
			Expression: res.Expression,
			Variables:  res.Variables,
			Warnings:   res.Warnings,
		},
		Program:  res.Program,
		Compiled: res.Compile.OK,
		Log:      res.Compile.Log,
	})
}

func (s *Server) handleVariables(ctx *fasthttp.RequestCtx) {
	vars := s.session.Variables()
	out := make([]variable, 0, len(vars))
	for name, e := range vars {
		out = append(out, variable{Name: name, Real: e.Value[0], Imag: e.Value[1], Constant: e.Constant})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	writeJSON(ctx, http.StatusOK, out)
}

// handleSetVariable takes form values name, real, imag and optionally
// constant. Unlocking happens before and locking after the value update.
func (s *Server) handleSetVariable(ctx *fasthttp.RequestCtx) {
	name := string(ctx.FormValue("name"))
	re, err1 := strconv.ParseFloat(string(ctx.FormValue("real")), 32)
	im, err2 := strconv.ParseFloat(string(ctx.FormValue("imag")), 32)
	if name == "" || err1 != nil || err2 != nil {
		writeError(ctx, http.StatusBadRequest, "name, real and imag are required")
		return
	}
	var constant *bool
	if c := ctx.FormValue("constant"); len(c) > 0 {
		b, err := strconv.ParseBool(string(c))
		if err != nil {
			writeError(ctx, http.StatusBadRequest, "constant: "+err.Error())
			return
		}
		constant = &b
	}

	if constant != nil && !*constant {
		if err := s.session.SetConstant(name, false); err != nil {
			writeError(ctx, http.StatusNotFound, err.Error())
			return
		}
	}
	if err := s.session.SetValue(name, mgl32.Vec2{float32(re), float32(im)}); err != nil {
		status := http.StatusNotFound
		if errors.Is(err, resolver.ErrConstant) {
			status = http.StatusConflict
		}
		writeError(ctx, status, err.Error())
		return
	}
	if constant != nil && *constant {
		if err := s.session.SetConstant(name, true); err != nil {
			writeError(ctx, http.StatusNotFound, err.Error())
			return
		}
	}
	s.save()
	ctx.SetStatusCode(http.StatusNoContent)
}

func (s *Server) save() {
	if s.store == nil {
		return
	}
	r := resolver.NewRegistry()
	r.Restore(s.session.Variables())
	if err := s.store.SaveRegistry(s.name, r); err != nil {
		tracer().Errorf("saving variables: %v", err)
	}
}

func (s *Server) handlePresets(ctx *fasthttp.RequestCtx) {
	if s.store == nil {
		writeJSON(ctx, http.StatusOK, store.DefaultPresets)
		return
	}
	presets, err := s.store.Presets()
	if err != nil {
		writeError(ctx, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, http.StatusOK, presets)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		ctx.Error(err.Error(), http.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, msg string) {
	failedCalls.Add(1)
	tracer().Infof("%s: %s", ctx.Path(), msg)
	writeJSON(ctx, status, errorResponse{Error: msg})
}

func distinct(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &fasthttp.Server{
		Handler:      s.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		tracer().Infof("listening on %s", addr)
		errc <- srv.ListenAndServe(addr)
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return srv.Shutdown()
	}
}
