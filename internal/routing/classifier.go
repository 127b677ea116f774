package routing

import (
	"errors"
	"strings"
)

type RouteClass string

const (
	RouteClassUI          RouteClass = "ui"
	RouteClassInternalAPI RouteClass = "internal_api"
	RouteClassPublicAPI   RouteClass = "public_api"
	RouteClassWebhook     RouteClass = "webhook"
	RouteClassOps         RouteClass = "ops"
	RouteClassStatic      RouteClass = "static"
)

func knownRouteClass(rc RouteClass) bool {
	switch rc {
	case RouteClassUI, RouteClassInternalAPI, RouteClassPublicAPI, RouteClassWebhook, RouteClassOps, RouteClassStatic:
		return true
	}
	return false
}

// prefixClasses applies to paths the allowlist does not name. Module APIs
// (/{module}/api/...) are checked after /api/v1 and before these.
var prefixClasses = []struct {
	prefix string
	rc     RouteClass
}{
	{prefix: "/webhooks", rc: RouteClassWebhook},
	{prefix: "/assets", rc: RouteClassStatic},
	{prefix: "/static", rc: RouteClassStatic},
}

type Classifier struct {
	entrypoint string
	exact      map[string]RouteClass
	patterns   []pathPatternRoute
}

type pathPatternRoute struct {
	pattern PathPattern
	rc      RouteClass
}

func NewClassifier(a Allowlist, entrypoint string) (*Classifier, error) {
	ep, ok := a.Entrypoints[entrypoint]
	if !ok {
		return nil, errors.New("allowlist: missing entrypoint")
	}
	if len(ep.Routes) == 0 {
		return nil, errors.New("allowlist: entrypoint routes empty")
	}

	c := &Classifier{entrypoint: entrypoint, exact: make(map[string]RouteClass, len(ep.Routes))}
	for _, r := range ep.Routes {
		if r.Path == "" || r.RouteClass == "" {
			return nil, errors.New("allowlist: invalid route")
		}
		rc := RouteClass(r.RouteClass)
		if p, ok := parsePathPattern(r.Path); ok {
			c.patterns = append(c.patterns, pathPatternRoute{pattern: p, rc: rc})
		} else {
			c.exact[r.Path] = rc
		}
	}
	return c, nil
}

// Classify prefers an exact allowlist path, then the first matching
// pattern in file order, then the prefix conventions.
func (c *Classifier) Classify(path string) RouteClass {
	if rc, ok := c.exact[path]; ok {
		return rc
	}
	for _, p := range c.patterns {
		if p.pattern.Match(path) {
			return p.rc
		}
	}
	return fallbackClass(path)
}

func fallbackClass(path string) RouteClass {
	if hasPrefixSegment(path, "/api/v1") {
		return RouteClassPublicAPI
	}
	if isModuleInternalAPI(path) {
		return RouteClassInternalAPI
	}
	for _, pc := range prefixClasses {
		if hasPrefixSegment(path, pc.prefix) {
			return pc.rc
		}
	}
	return RouteClassUI
}

func hasPrefixSegment(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// isModuleInternalAPI matches /{module}/api and anything below it, where
// module is exactly one segment.
func isModuleInternalAPI(path string) bool {
	rest, ok := strings.CutPrefix(path, "/")
	if !ok {
		return false
	}
	module, after, ok := strings.Cut(rest, "/")
	if !ok || module == "" {
		return false
	}
	return hasPrefixSegment("/"+after, "/api")
}
