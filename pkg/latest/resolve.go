package latest

import (
	"strings"
	"time"
)

// Versioned is one entry of an append-only history. The current version is
// the one with the greatest VersionDate, then the greatest VersionOrdinal.
type Versioned interface {
	VersionDate() time.Time
	VersionOrdinal() int64
	NaturalKey() string
}

type Predicate[T any] func(T) bool

func Equal[T any, V comparable](get func(T) V, want V) Predicate[T] {
	return func(r T) bool { return get(r) == want }
}

// StatusIn matches records whose status is one of allowed. An empty allowed
// list matches everything.
func StatusIn[T any](get func(T) string, allowed ...string) Predicate[T] {
	set := make(map[string]struct{}, len(allowed))
	for _, s := range allowed {
		s = strings.TrimSpace(s)
		if s != "" {
			set[s] = struct{}{}
		}
	}
	return func(r T) bool {
		if len(set) == 0 {
			return true
		}
		_, ok := set[get(r)]
		return ok
	}
}

type Resolution[T any] struct {
	Record T
	Found  bool
	// Ties counts the records sharing the winning date and ordinal. Values
	// above one mean the history holds duplicates and the pick fell back to
	// the smallest natural key.
	Ties int
}

func (r Resolution[T]) Ambiguous() bool { return r.Ties > 1 }

func Resolve[T Versioned](records []T, preds ...Predicate[T]) Resolution[T] {
	var (
		out     Resolution[T]
		maxDate time.Time
	)

	candidates := make([]T, 0, len(records))
	for _, rec := range records {
		if !matchAll(rec, preds) {
			continue
		}
		if len(candidates) == 0 || rec.VersionDate().After(maxDate) {
			maxDate = rec.VersionDate()
		}
		candidates = append(candidates, rec)
	}
	if len(candidates) == 0 {
		return out
	}

	var (
		maxOrdinal int64
		seen       bool
	)
	for _, rec := range candidates {
		if !rec.VersionDate().Equal(maxDate) {
			continue
		}
		if !seen || rec.VersionOrdinal() > maxOrdinal {
			maxOrdinal = rec.VersionOrdinal()
			seen = true
		}
	}

	for _, rec := range candidates {
		if !rec.VersionDate().Equal(maxDate) || rec.VersionOrdinal() != maxOrdinal {
			continue
		}
		out.Ties++
		if !out.Found || rec.NaturalKey() < out.Record.NaturalKey() {
			out.Record = rec
			out.Found = true
		}
	}
	return out
}

func matchAll[T any](rec T, preds []Predicate[T]) bool {
	for _, p := range preds {
		if p != nil && !p(rec) {
			return false
		}
	}
	return true
}
