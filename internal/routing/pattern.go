package routing

import "strings"

// PathPattern is an allowlist path with {param} segments, optionally
// followed by a custom verb as in "/logs/{name}:download".
type PathPattern struct {
	segments []patternSegment
}

type patternSegment struct {
	literal string
	param   bool
	verb    string
}

func (s patternSegment) match(got string) bool {
	switch {
	case got == "":
		return false
	case !s.param:
		return got == s.literal
	case s.verb == "":
		return true
	}
	name, ok := strings.CutSuffix(got, s.verb)
	return ok && name != ""
}

// parsePathPattern reports false for plain paths and for malformed
// templates; both are then treated as exact paths.
func parsePathPattern(raw string) (PathPattern, bool) {
	if !strings.HasPrefix(raw, "/") || !strings.ContainsAny(raw, "{}") {
		return PathPattern{}, false
	}
	parts := splitPathSegments(raw)
	segs := make([]patternSegment, 0, len(parts))
	for _, part := range parts {
		seg, ok := parseSegment(part)
		if !ok {
			return PathPattern{}, false
		}
		segs = append(segs, seg)
	}
	return PathPattern{segments: segs}, true
}

func parseSegment(part string) (patternSegment, bool) {
	if part == "" {
		return patternSegment{}, false
	}
	if !strings.ContainsAny(part, "{}") {
		return patternSegment{literal: part}, true
	}
	if !strings.HasPrefix(part, "{") {
		return patternSegment{}, false
	}
	end := strings.Index(part, "}")
	if end < 2 || strings.ContainsAny(part[1:end], "{}") {
		return patternSegment{}, false
	}
	verb := part[end+1:]
	switch {
	case verb == "":
		return patternSegment{param: true}, true
	case verb[0] == ':' && len(verb) > 1 && !strings.ContainsAny(verb, "{}"):
		return patternSegment{param: true, verb: verb}, true
	}
	return patternSegment{}, false
}

func (p PathPattern) Match(path string) bool {
	if len(p.segments) == 0 {
		return false
	}
	in := splitPathSegments(path)
	if len(in) != len(p.segments) {
		return false
	}
	for i, seg := range p.segments {
		if !seg.match(in[i]) {
			return false
		}
	}
	return true
}

func splitPathSegments(path string) []string {
	path = strings.TrimPrefix(strings.TrimSpace(path), "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
