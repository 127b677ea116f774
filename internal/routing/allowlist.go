package routing

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Allowlist is config/routing/allowlist.yaml: every path an entrypoint
// serves, with its methods and route class.
type Allowlist struct {
	Version     int                   `yaml:"version"`
	Entrypoints map[string]Entrypoint `yaml:"entrypoints"`
}

type Entrypoint struct {
	Routes []Route `yaml:"routes"`
}

type Route struct {
	Path       string   `yaml:"path"`
	Methods    []string `yaml:"methods"`
	RouteClass string   `yaml:"route_class"`
}

var allowedMethods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
}

func ParseAllowlistYAML(b []byte) (Allowlist, error) {
	var a Allowlist
	if err := yaml.Unmarshal(b, &a); err != nil {
		return Allowlist{}, err
	}
	if a.Version != 1 {
		return Allowlist{}, errors.New("allowlist: unsupported version")
	}
	if a.Entrypoints == nil {
		return Allowlist{}, errors.New("allowlist: missing entrypoints")
	}
	for name, ep := range a.Entrypoints {
		for i := range ep.Routes {
			if err := normalizeRoute(&ep.Routes[i]); err != nil {
				return Allowlist{}, fmt.Errorf("allowlist: %s: %w", name, err)
			}
		}
	}
	return a, nil
}

func normalizeRoute(r *Route) error {
	r.Path = strings.TrimSpace(r.Path)
	if !strings.HasPrefix(r.Path, "/") {
		return fmt.Errorf("route %q: path must start with /", r.Path)
	}
	if !knownRouteClass(RouteClass(r.RouteClass)) {
		return fmt.Errorf("route %q: unknown route_class %q", r.Path, r.RouteClass)
	}
	if len(r.Methods) == 0 {
		return fmt.Errorf("route %q: no methods", r.Path)
	}
	for i, m := range r.Methods {
		m = strings.ToUpper(strings.TrimSpace(m))
		if !slices.Contains(allowedMethods, m) {
			return fmt.Errorf("route %q: unsupported method %q", r.Path, m)
		}
		r.Methods[i] = m
	}
	return nil
}

func LoadAllowlist(path string) (Allowlist, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Allowlist{}, err
	}
	return ParseAllowlistYAML(b)
}

// Allows reports whether the entrypoint lists method for a route whose path
// (or pattern) is exactly path.
func (e Entrypoint) Allows(method string, path string) bool {
	for _, r := range e.Routes {
		if r.Path == path && slices.Contains(r.Methods, method) {
			return true
		}
	}
	return false
}
