package rules

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/ext"

	"ddqcheck/internal/finding"
)

// compiledRule pairs a custom rule with its CEL program.
type compiledRule struct {
	CustomRule
	program cel.Program
}

// newCustomEnv declares the row variables visible to custom expressions.
func newCustomEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("sheet", cel.StringType),
		cel.Variable("question", cel.StringType),
		cel.Variable("answer", cel.StringType),
		cel.Variable("expected", cel.StringType),
		cel.Variable("question_id", cel.StringType),
		cel.Variable("row_idx", cel.IntType),
		ext.Strings(),
	)
}

// CheckCustom reports the first problem with a set of custom rules.
func CheckCustom(custom []CustomRule) error {
	_, err := compileCustom(custom)
	return err
}

// compileCustom type-checks custom rules and prepares them for evaluation.
func compileCustom(custom []CustomRule) ([]compiledRule, error) {
	if len(custom) == 0 {
		return nil, nil
	}
	env, err := newCustomEnv()
	if err != nil {
		return nil, fmt.Errorf("create cel environment: %w", err)
	}
	compiled := make([]compiledRule, 0, len(custom))
	seen := map[string]struct{}{}
	for _, cr := range custom {
		name := strings.TrimSpace(cr.Name)
		if name == "" {
			return nil, fmt.Errorf("custom rule name is required")
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("custom rule %q: duplicate name", name)
		}
		seen[name] = struct{}{}
		if !cr.Status.IsFlagged() {
			return nil, fmt.Errorf("custom rule %q: status must be INCOMPLETE, REJECTED, or NEEDS_EVIDENCE", name)
		}
		if strings.TrimSpace(cr.Reason) == "" {
			return nil, fmt.Errorf("custom rule %q: reason is required", name)
		}
		ast, iss := env.Compile(cr.Expression)
		if iss != nil && iss.Err() != nil {
			return nil, fmt.Errorf("custom rule %q: %w", name, iss.Err())
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return nil, fmt.Errorf("custom rule %q: expression must return bool, got %s", name, ast.OutputType())
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("custom rule %q: %w", name, err)
		}
		cr.Name = name
		compiled = append(compiled, compiledRule{CustomRule: cr, program: prg})
	}
	return compiled, nil
}

// customRule wraps compiled expressions as the final step of the chain.
func customRule(compiled []compiledRule) rule {
	return rule{
		name: "custom",
		check: func(in *input) outcome {
			activation := map[string]any{
				"sheet":       in.row.Sheet,
				"question":    in.row.QuestionText,
				"answer":      in.answer,
				"expected":    in.expected,
				"question_id": in.row.ID(),
				"row_idx":     int64(in.row.RowIdx),
			}
			for _, cr := range compiled {
				out, _, err := cr.program.Eval(activation)
				if err != nil {
					continue
				}
				if matched, ok := out.Value().(bool); ok && matched {
					return flag(cr.Status, cr.Reason, finding.Details{"custom_rule": cr.Name})
				}
			}
			return proceed()
		},
	}
}
