package filtering

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/ted-design/talentmatch/internal/measurement"
	"github.com/ted-design/talentmatch/internal/talent"
	"github.com/ted-design/talentmatch/internal/utils"
)

const maxExpressionLogLength = 80

var (
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func expressionEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("talent", cel.MapType(cel.StringType, cel.DynType)),
			cel.CrossTypeNumericComparisons(true),
		)
	})
	return celEnv, celEnvErr
}

type expressionFilter struct {
	expr string
	prg  cel.Program
}

// NewExpression compiles a CEL predicate evaluated against each record as
//
//	talent.id, talent.name, talent.gender, talent.agency, talent.email,
//	talent.casting_sessions (int), talent.measurements.<key> (parsed, inches)
//
// Only measurements that parse are visible, so has(talent.measurements.waist)
// tells whether a usable waist exists. A record whose evaluation fails or does
// not produce a boolean is excluded.
func NewExpression(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("expression is empty")
	}

	env, err := expressionEnv()
	if err != nil {
		return nil, fmt.Errorf("expression environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile expression: %w", issues.Err())
	}

	out := ast.OutputType()
	if !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("expression must return bool, got %s", out)
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build expression program: %w", err)
	}

	return &expressionFilter{expr: expr, prg: prg}, nil
}

func (f *expressionFilter) Name() string { return "expression" }

func (f *expressionFilter) Match(rec *talent.Record) bool {
	out, _, err := f.prg.Eval(map[string]any{"talent": activation(rec)})
	if err != nil {
		return false
	}
	ok, isBool := out.Value().(bool)
	return isBool && ok
}

func (f *expressionFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: true,
		Details: map[string]string{"expression": utils.TruncateForLog(f.expr, maxExpressionLogLength)},
	}
}

func activation(rec *talent.Record) map[string]any {
	measured := make(map[string]any, len(rec.Measurements))
	for key, raw := range rec.Measurements {
		if v, ok := measurement.Parse(raw); ok {
			measured[string(key)] = v
		}
	}

	return map[string]any{
		"id":               rec.ID,
		"name":             rec.Name,
		"gender":           rec.Gender,
		"agency":           rec.Agency,
		"email":            rec.Email,
		"casting_sessions": int64(len(rec.CastingSessions)),
		"measurements":     measured,
	}
}
