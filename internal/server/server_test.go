package server

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/btouchard/fractalc/internal/compiler/splicer"
	"github.com/btouchard/fractalc/internal/session"
	"github.com/btouchard/fractalc/internal/store"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/valyala/fasthttp"
)

func do(s *Server, method, uri, body string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	ctx.Request.SetBodyString(body)
	s.Handler(&ctx)
	return &ctx
}

func decode(t *testing.T, ctx *fasthttp.RequestCtx, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(ctx.Response.Body(), v); err != nil {
		t.Fatalf("decoding %q: %v", ctx.Response.Body(), err)
	}
}

func newServer() *Server {
	return New(session.New(splicer.DefaultTemplate, nil), nil, "default")
}

func TestTranslate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fractalc.server")
	defer teardown()

	ctx := do(newServer(), "POST", "/translate", "a*z + a")
	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("status = %d: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	var res translateResponse
	decode(t, ctx, &res)
	if res.Expression != "(complexMultiply(a, z)+a)" {
		t.Errorf("Expression = %q", res.Expression)
	}
	if len(res.Variables) != 1 || res.Variables[0] != "a" {
		t.Errorf("Variables = %v", res.Variables)
	}
}

func TestTranslateError(t *testing.T) {
	ctx := do(newServer(), "POST", "/translate", "z $ c")
	if ctx.Response.StatusCode() != http.StatusBadRequest {
		t.Fatalf("status = %d", ctx.Response.StatusCode())
	}
	var res errorResponse
	decode(t, ctx, &res)
	if !strings.HasPrefix(res.Error, "ERROR: ") {
		t.Errorf("Error = %q", res.Error)
	}
}

func TestProgramAndVariables(t *testing.T) {
	s := newServer()
	ctx := do(s, "POST", "/program", "z^2 + juliaC")
	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("status = %d: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	var res programResponse
	decode(t, ctx, &res)
	if !res.Compiled || !strings.Contains(res.Program, "uniform vec2 juliaC;") {
		t.Errorf("unexpected response: %+v", res)
	}

	ctx = do(s, "GET", "/program", "")
	if string(ctx.Response.Body()) != res.Program {
		t.Error("GET /program does not return the program in effect")
	}

	ctx = do(s, "POST", "/variables?name=juliaC&real=-0.8&imag=0.156&constant=true", "")
	if ctx.Response.StatusCode() != http.StatusNoContent {
		t.Fatalf("set variable status = %d: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	ctx = do(s, "POST", "/variables?name=juliaC&real=0&imag=0", "")
	if ctx.Response.StatusCode() != http.StatusConflict {
		t.Errorf("editing a constant: status = %d", ctx.Response.StatusCode())
	}

	ctx = do(s, "GET", "/variables", "")
	var vars []variable
	decode(t, ctx, &vars)
	if len(vars) != 1 || vars[0].Name != "juliaC" || !vars[0].Constant || vars[0].Real != -0.8 {
		t.Errorf("variables = %+v", vars)
	}
}

func TestProgramErrorKeepsPrevious(t *testing.T) {
	s := newServer()
	do(s, "POST", "/program", "z^2 + c")
	before := s.session.Program()

	ctx := do(s, "POST", "/program", "z^2 +")
	if ctx.Response.StatusCode() != http.StatusBadRequest {
		t.Fatalf("status = %d", ctx.Response.StatusCode())
	}
	if s.session.Program() != before {
		t.Error("failed request replaced the program")
	}
}

func TestSetVariableBadRequest(t *testing.T) {
	s := newServer()
	for _, uri := range []string{
		"/variables",
		"/variables?name=k&real=x&imag=0",
		"/variables?name=k&real=0&imag=0&constant=maybe",
	} {
		if ctx := do(s, "POST", uri, ""); ctx.Response.StatusCode() != http.StatusBadRequest {
			t.Errorf("%s: status = %d", uri, ctx.Response.StatusCode())
		}
	}
	if ctx := do(s, "POST", "/variables?name=k&real=0&imag=0", ""); ctx.Response.StatusCode() != http.StatusNotFound {
		t.Errorf("unknown variable: status = %d", ctx.Response.StatusCode())
	}
}

func TestPresetsAndSaving(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "server.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	if _, err := st.SeedPresets(); err != nil {
		t.Fatal(err)
	}

	s := New(session.New(splicer.DefaultTemplate, nil), st, "web")
	ctx := do(s, "GET", "/presets", "")
	var presets []store.Preset
	decode(t, ctx, &presets)
	if len(presets) != len(store.DefaultPresets) {
		t.Errorf("got %d presets", len(presets))
	}

	do(s, "POST", "/program", "k*z")
	do(s, "POST", "/variables?name=k&real=2&imag=1", "")
	saved, err := st.LoadRegistry("web")
	if err != nil {
		t.Fatal(err)
	}
	if e, ok := saved.Get("k"); !ok || e.Value[0] != 2 || e.Value[1] != 1 {
		t.Errorf("saved k = %+v, %v", e, ok)
	}
}

func TestNotFound(t *testing.T) {
	if ctx := do(newServer(), "GET", "/nope", ""); ctx.Response.StatusCode() != http.StatusNotFound {
		t.Errorf("status = %d", ctx.Response.StatusCode())
	}
}
