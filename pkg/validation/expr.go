package validation

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
)

var exprProgramCache sync.Map

var newExprEnv = func() (*cel.Env, error) {
	return cel.NewEnv(cel.Variable("f", cel.MapType(cel.StringType, cel.DynType)))
}

// Expr evaluates a boolean CEL expression over vars (bound as `f`) and
// records a violation on field when it yields false. Nil values are left
// out of the map so expressions can test them with has(f.x).
func (s *Set) Expr(field string, expr string, message string, vars map[string]any) *Set {
	ok, err := evalExpr(expr, vars)
	if err != nil {
		return s.Add(field, KindExpr, err.Error())
	}
	if !ok {
		return s.Add(field, KindExpr, message)
	}
	return s
}

func evalExpr(expr string, vars map[string]any) (bool, error) {
	program, err := loadOrCompileExpr(expr)
	if err != nil {
		return false, err
	}
	bound := make(map[string]any, len(vars))
	for k, v := range vars {
		if isNil(v) {
			continue
		}
		bound[k] = v
	}
	out, _, err := program.Eval(map[string]any{"f": bound})
	if err != nil {
		return false, err
	}
	v, ok := out.Value().(bool)
	if !ok {
		return false, errors.New("expression output type mismatch")
	}
	return v, nil
}

func loadOrCompileExpr(expr string) (cel.Program, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, errors.New("expression required")
	}
	if cached, ok := exprProgramCache.Load(expr); ok {
		return cached.(cel.Program), nil
	}
	env, err := newExprEnv()
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	if ast.OutputType() != cel.BoolType {
		return nil, errors.New("expression output type mismatch")
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, err
	}
	exprProgramCache.Store(expr, program)
	return program, nil
}

func isNil(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case *string:
		return t == nil
	case *int:
		return t == nil
	default:
		return false
	}
}
