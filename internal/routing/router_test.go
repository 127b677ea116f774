package routing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	c, err := NewClassifier(healthOnly(), "server")
	if err != nil {
		t.Fatal(err)
	}
	return NewRouter(c, nil)
}

func TestRouter_PanicBecomes500JSON(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	r.Handle(RouteClassInternalAPI, http.MethodGet, "/menu/api/panic", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/menu/api/panic", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("content-type=%q", rec.Header().Get("Content-Type"))
	}
}

func TestRouter_MethodNotAllowed_JSONOnly(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	r.Handle(RouteClassInternalAPI, http.MethodGet, "/menu/api/menus", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPatch, "/menu/api/menus", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status=%d", rec.Code)
	}
	var body ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Code != "method_not_allowed" || body.Meta.Method != http.MethodPatch {
		t.Fatalf("body=%+v", body)
	}
}

func TestRouter_PathVarsAndOrder(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	r.Handle(RouteClassInternalAPI, http.MethodGet, "/logadmin/api/files/{name}:download", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte("download " + PathVar(req, "name")))
	}))
	r.Handle(RouteClassInternalAPI, http.MethodGet, "/logadmin/api/files/{name}", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte("tail " + PathVar(req, "name")))
	}))

	cases := map[string]string{
		"/logadmin/api/files/app.log:download": "download app.log",
		"/logadmin/api/files/app.log":          "tail app.log",
	}
	for path, want := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Body.String() != want {
			t.Fatalf("path=%s body=%q", path, rec.Body.String())
		}
	}
}

func TestRouter_MiddlewareRunsOnMatchedRoutes(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	var hits int
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			hits++
			next.ServeHTTP(w, req)
		})
	})
	r.Handle(RouteClassOps, http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || hits != 1 {
		t.Fatalf("status=%d hits=%d", rec.Code, hits)
	}
}

func TestRouter_RoutesInRegistrationOrder(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	noop := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	r.Handle(RouteClassOps, http.MethodGet, "/health", noop)
	r.Handle(RouteClassInternalAPI, http.MethodPost, "/menu/api/menus", noop)

	got := r.Routes()
	if len(got) != 2 || got[1] != (RegisteredRoute{Class: RouteClassInternalAPI, Method: http.MethodPost, Path: "/menu/api/menus"}) {
		t.Fatalf("routes=%+v", got)
	}
	got[0].Path = "/mutated"
	if r.Routes()[0].Path != "/health" {
		t.Fatal("Routes must return a copy")
	}
}
