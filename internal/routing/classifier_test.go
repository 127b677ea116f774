package routing

import "testing"

func healthOnly() Allowlist {
	return Allowlist{
		Version: 1,
		Entrypoints: map[string]Entrypoint{
			"server": {Routes: []Route{{Path: "/health", Methods: []string{"GET"}, RouteClass: "ops"}}},
		},
	}
}

func TestClassifier_SegmentBoundary(t *testing.T) {
	t.Parallel()

	c, err := NewClassifier(healthOnly(), "server")
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		path string
		want RouteClass
	}{
		{path: "/api/v1", want: RouteClassPublicAPI},
		{path: "/api/v1x", want: RouteClassUI},
		{path: "/menu/api", want: RouteClassInternalAPI},
		{path: "/menu/api/menus:tree", want: RouteClassInternalAPI},
		{path: "/menu/apix", want: RouteClassUI},
		{path: "/menu", want: RouteClassUI},
		{path: "menu/api", want: RouteClassUI},
		{path: "/", want: RouteClassUI},
	}
	for _, tc := range cases {
		if got := c.Classify(tc.path); got != tc.want {
			t.Fatalf("path=%s got=%q want=%q", tc.path, got, tc.want)
		}
	}
}

func TestNewClassifier_Errors(t *testing.T) {
	t.Parallel()

	if _, err := NewClassifier(healthOnly(), "dbtool"); err == nil {
		t.Fatal("expected missing entrypoint error")
	}
	_, err := NewClassifier(Allowlist{Version: 1, Entrypoints: map[string]Entrypoint{"server": {Routes: nil}}}, "server")
	if err == nil {
		t.Fatal("expected empty routes error")
	}
	_, err = NewClassifier(Allowlist{Version: 1, Entrypoints: map[string]Entrypoint{"server": {Routes: []Route{{}}}}}, "server")
	if err == nil {
		t.Fatal("expected invalid route error")
	}
}

func TestClassifier_Fallbacks(t *testing.T) {
	t.Parallel()

	c, err := NewClassifier(healthOnly(), "server")
	if err != nil {
		t.Fatal(err)
	}

	cases := map[string]RouteClass{
		"/health":         RouteClassOps,
		"/healthz":        RouteClassUI,
		"/webhooks/foo/x": RouteClassWebhook,
		"/assets/x":       RouteClassStatic,
		"/static/x":       RouteClassStatic,
		"/staticx":        RouteClassUI,
		"/anything-else":  RouteClassUI,
	}
	for path, want := range cases {
		if got := c.Classify(path); got != want {
			t.Fatalf("path=%s got=%q want=%q", path, got, want)
		}
	}
}

func TestClassifier_PathPattern(t *testing.T) {
	t.Parallel()

	a := Allowlist{
		Version: 1,
		Entrypoints: map[string]Entrypoint{
			"server": {Routes: []Route{
				{Path: "/health", Methods: []string{"GET"}, RouteClass: "ops"},
				{Path: "/logs/{name}:download", Methods: []string{"GET"}, RouteClass: "internal_api"},
				{Path: "/menus/{id}/edit", Methods: []string{"GET"}, RouteClass: "ui"},
			}},
		},
	}
	c, err := NewClassifier(a, "server")
	if err != nil {
		t.Fatal(err)
	}

	if got := c.Classify("/logs/app.log:download"); got != RouteClassInternalAPI {
		t.Fatalf("got=%q", got)
	}
	if got := c.Classify("/logs/app.log"); got != RouteClassUI {
		t.Fatalf("got=%q", got)
	}
	if got := c.Classify("/logs/:download"); got != RouteClassUI {
		t.Fatalf("got=%q", got)
	}
	if got := c.Classify("/menus/7/edit"); got != RouteClassUI {
		t.Fatalf("got=%q", got)
	}
}
