package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"ddqcheck/internal/finding"
	"ddqcheck/internal/question"
	"ddqcheck/internal/rules"
)

// Evaluation is the engine outcome for one row.
type Evaluation struct {
	Finding finding.Finding
	Rule    string
}

// Evaluate runs the engine over rows with up to workers goroutines. The output
// is aligned with rows by index. onRow, when set, is called once per row.
func Evaluate(ctx context.Context, engine *rules.Engine, rows []question.Row, workers int, onRow func(int, Evaluation)) ([]Evaluation, error) {
	out := make([]Evaluation, len(rows))
	evaluate := func(i int) {
		out[i] = evaluateRow(engine, rows[i])
		if onRow != nil {
			onRow(i, out[i])
		}
	}

	if workers <= 1 {
		for i := range rows {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			evaluate(i)
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range rows {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			evaluate(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func evaluateRow(engine *rules.Engine, row question.Row) Evaluation {
	decision := engine.Decide(row)
	switch {
	case decision.Flagged:
		return Evaluation{Finding: decision.Finding, Rule: decision.Rule}
	case !rules.ShouldValidate(row):
		return Evaluation{Finding: finding.Skipped(row), Rule: decision.Rule}
	default:
		return Evaluation{Finding: finding.Passed(row), Rule: decision.Rule}
	}
}

// Findings drops the rule names from evaluations.
func Findings(evals []Evaluation) []finding.Finding {
	out := make([]finding.Finding, len(evals))
	for i, e := range evals {
		out[i] = e.Finding
	}
	return out
}

// Flagged returns the findings that need follow-up, in order.
func Flagged(findings []finding.Finding) []finding.Finding {
	var out []finding.Finding
	for _, f := range findings {
		if f.Flagged() {
			out = append(out, f)
		}
	}
	return out
}

// Merge replaces entries of results whose key matches a refined finding.
func Merge(results, refined []finding.Finding) []finding.Finding {
	byKey := make(map[question.Key]finding.Finding, len(refined))
	for _, f := range refined {
		byKey[f.Key()] = f
	}
	out := make([]finding.Finding, len(results))
	for i, r := range results {
		if f, ok := byKey[r.Key()]; ok {
			out[i] = f
			continue
		}
		out[i] = r
	}
	return out
}
