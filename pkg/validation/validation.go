package validation

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

type Kind string

const (
	KindRequired Kind = "required"
	KindTooLong  Kind = "too_long"
	KindFormat   Kind = "format"
	KindEnum     Kind = "enum"
	KindRange    Kind = "range"
	KindExpr     Kind = "expr"
)

type Violation struct {
	Field   string `json:"field"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	if v.Message == "" {
		return v.Field + ": " + string(v.Kind)
	}
	return v.Field + ": " + v.Message
}

// Errors is the accumulated result of a Set. The zero value means valid.
type Errors []Violation

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, v := range e {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, "; ")
}

func (e Errors) Fields() map[string]string {
	out := make(map[string]string, len(e))
	for _, v := range e {
		if _, ok := out[v.Field]; !ok {
			out[v.Field] = v.String()
		}
	}
	return out
}

func AsErrors(err error) (Errors, bool) {
	var out Errors
	if errors.As(err, &out) && len(out) > 0 {
		return out, true
	}
	return nil, false
}

// Rule checks one value and returns nil when it passes.
type Rule func(value any) *Violation

var validate = validator.New()

type Set struct {
	errs Errors
}

func New() *Set { return &Set{} }

// Field runs rules in order and records the first failure for name.
// Optional values that are empty skip every rule except Required.
func (s *Set) Field(name string, value any, rules ...Rule) *Set {
	for _, rule := range rules {
		v := rule(value)
		if v == nil {
			continue
		}
		v.Field = name
		s.errs = append(s.errs, *v)
		return s
	}
	return s
}

func (s *Set) Add(field string, kind Kind, message string) *Set {
	s.errs = append(s.errs, Violation{Field: field, Kind: kind, Message: message})
	return s
}

func (s *Set) Err() error {
	if len(s.errs) == 0 {
		return nil
	}
	return s.errs
}

func Required() Rule {
	return func(value any) *Violation {
		if isEmpty(value) {
			return &Violation{Kind: KindRequired, Message: "is required"}
		}
		return nil
	}
}

func MaxLen(n int) Rule {
	return func(value any) *Violation {
		s, ok := asString(value)
		if !ok || s == "" {
			return nil
		}
		if utf8.RuneCountInString(s) > n {
			return &Violation{Kind: KindTooLong, Message: fmt.Sprintf("must be at most %d characters", n)}
		}
		return nil
	}
}

func Pattern(re *regexp.Regexp, message string) Rule {
	return func(value any) *Violation {
		s, ok := asString(value)
		if !ok || s == "" {
			return nil
		}
		if !re.MatchString(s) {
			return &Violation{Kind: KindFormat, Message: message}
		}
		return nil
	}
}

func OneOf(allowed ...string) Rule {
	return func(value any) *Violation {
		s, ok := asString(value)
		if !ok || s == "" {
			return nil
		}
		if !slices.Contains(allowed, s) {
			return &Violation{Kind: KindEnum, Message: "must be one of " + strings.Join(allowed, ", ")}
		}
		return nil
	}
}

func Between(min, max int64) Rule {
	return func(value any) *Violation {
		n, ok := asInt(value)
		if !ok {
			return nil
		}
		if n < min || n > max {
			return &Violation{Kind: KindRange, Message: fmt.Sprintf("must be between %d and %d", min, max)}
		}
		return nil
	}
}

// Tag delegates to a go-playground/validator tag such as "number,len=5".
func Tag(tag string, kind Kind, message string) Rule {
	return func(value any) *Violation {
		if isEmpty(value) {
			return nil
		}
		if err := validate.Var(value, tag); err != nil {
			return &Violation{Kind: kind, Message: message}
		}
		return nil
	}
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case *string:
		return v == nil || strings.TrimSpace(*v) == ""
	case *int:
		return v == nil
	case *int64:
		return v == nil
	default:
		return false
	}
}

func asString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", false
		}
		return *v, true
	default:
		return "", false
	}
}

func asInt(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case *int:
		if v == nil {
			return 0, false
		}
		return int64(*v), true
	case *int64:
		if v == nil {
			return 0, false
		}
		return *v, true
	default:
		return 0, false
	}
}
