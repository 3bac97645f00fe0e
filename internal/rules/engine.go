package rules

import (
	"fmt"
	"strings"

	"ddqcheck/internal/finding"
	"ddqcheck/internal/question"
)

type verdict int

const (
	verdictContinue verdict = iota
	verdictPass
	verdictFlag
)

// outcome is the result of a single rule.
type outcome struct {
	verdict verdict
	status  finding.Status
	reason  string
	details finding.Details
}

func proceed() outcome { return outcome{verdict: verdictContinue} }

func accept() outcome { return outcome{verdict: verdictPass} }

func flag(status finding.Status, reason string, details finding.Details) outcome {
	return outcome{verdict: verdictFlag, status: status, reason: reason, details: details}
}

// input is the per-row view shared by every rule in the chain.
type input struct {
	row       question.Row
	cfg       *Config
	answer    string
	expected  string
	question  string
	mandatory bool
}

func newInput(row question.Row, cfg *Config) *input {
	return &input{
		row:       row,
		cfg:       cfg,
		answer:    strings.TrimSpace(row.AnswerText),
		expected:  strings.TrimSpace(row.ExpectedText),
		question:  strings.ToLower(row.QuestionText),
		mandatory: IsMandatory(row),
	}
}

// rule is one named step of the cascade.
type rule struct {
	name  string
	check func(in *input) outcome
}

// Decision records which rule settled a row.
type Decision struct {
	// Rule is empty when no rule decided and the row passes by default.
	Rule    string
	Finding finding.Finding
	Flagged bool
}

// Engine applies the ordered rule cascade to rows.
type Engine struct {
	cfg   Config
	chain []rule
}

// NewEngine builds an engine, compiling any custom rules.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.MinLenDescriptive < 0 {
		return nil, fmt.Errorf("min_len_descriptive must be >= 0, got %d", cfg.MinLenDescriptive)
	}
	custom, err := compileCustom(cfg.Custom)
	if err != nil {
		return nil, err
	}
	chain := builtinChain()
	if len(custom) > 0 {
		chain = append(chain, customRule(custom))
	}
	return &Engine{cfg: cfg, chain: chain}, nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// Rules lists rule names in evaluation order.
func (e *Engine) Rules() []string {
	names := make([]string, 0, len(e.chain))
	for _, r := range e.chain {
		names = append(names, r.name)
	}
	return names
}

// Decide runs the cascade and reports the deciding rule.
func (e *Engine) Decide(row question.Row) Decision {
	in := newInput(row, &e.cfg)
	for _, r := range e.chain {
		out := r.check(in)
		switch out.verdict {
		case verdictPass:
			return Decision{Rule: r.name}
		case verdictFlag:
			return Decision{
				Rule:    r.name,
				Finding: finding.New(row, out.status, out.reason, out.details),
				Flagged: true,
			}
		}
	}
	return Decision{}
}

// Validate returns a finding for flagged rows only.
func (e *Engine) Validate(row question.Row) (finding.Finding, bool) {
	d := e.Decide(row)
	return d.Finding, d.Flagged
}

// Evaluate always returns a finding: SKIPPED for rows outside validation,
// OK for rows that pass, and the flag otherwise.
func (e *Engine) Evaluate(row question.Row) finding.Finding {
	if !ShouldValidate(row) {
		return finding.Skipped(row)
	}
	if f, ok := e.Validate(row); ok {
		return f
	}
	return finding.Passed(row)
}

// ValidateRow runs the built-in cascade with cfg. Custom rules are ignored.
func ValidateRow(row question.Row, cfg Config) (finding.Finding, bool) {
	e := &Engine{cfg: cfg, chain: builtinChain()}
	return e.Validate(row)
}
