package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"ddqcheck/internal/finding"
	"ddqcheck/internal/rules"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks a normalized config and reports every issue found.
func Validate(cfg *Config) error {
	collector := &issueCollector{}

	if cfg.Version != 1 {
		collector.add("version", fmt.Sprintf("unsupported version %d", cfg.Version))
	}
	validateTags(cfg, collector.add)
	validateRules(cfg.Rules, collector.add)
	validateDurations(cfg.LLM, collector.add)

	return collector.result()
}

// validateTags runs struct tag validation and maps failures to YAML paths.
func validateTags(cfg *Config, add issueAdder) {
	err := structValidator.Struct(cfg)
	if err == nil {
		return
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		add("config", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		add(fieldPath(fe.Namespace()), tagMessage(fe))
	}
}

func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_if":
		field, value, _ := strings.Cut(fe.Param(), " ")
		return fmt.Sprintf("is required when %s is %s", strings.ToLower(field), value)
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gte":
		return "must be >= " + fe.Param()
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// validateRules checks semantic constraints on rule settings and compiles custom rules.
func validateRules(cfg RulesConfig, add issueAdder) {
	if cfg.MinLenDescriptive != nil && *cfg.MinLenDescriptive < 0 {
		add("rules.min_len_descriptive", "must be >= 0")
	}
	seen := map[string]struct{}{}
	for i, custom := range cfg.Custom {
		prefix := fmt.Sprintf("rules.custom[%d]", i)
		name := strings.TrimSpace(custom.Name)
		if name != "" {
			if _, dup := seen[name]; dup {
				add(prefix+".name", fmt.Sprintf("duplicate name %q", name))
				continue
			}
			seen[name] = struct{}{}
		}
		cr := custom.rule()
		if name == "" || strings.TrimSpace(custom.Reason) == "" || !cr.Status.IsFlagged() || strings.TrimSpace(custom.Expression) == "" {
			continue
		}
		if err := rules.CheckCustom([]rules.CustomRule{cr}); err != nil {
			add(prefix+".expression", err.Error())
		}
	}
}

func validateDurations(cfg LLMConfig, add issueAdder) {
	if cfg.RetryDelay < 0 {
		add("llm.retry_delay", "must be >= 0")
	}
	if cfg.Timeout < 0 {
		add("llm.timeout", "must be >= 0")
	}
	if cfg.Cache.TTL < 0 {
		add("llm.cache.ttl", "must be >= 0")
	}
}

func (c CustomRuleConfig) rule() rules.CustomRule {
	return rules.CustomRule{
		Name:       strings.TrimSpace(c.Name),
		Expression: c.Expression,
		Status:     finding.Status(strings.ToUpper(strings.TrimSpace(c.Status))),
		Reason:     c.Reason,
	}
}
