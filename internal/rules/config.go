package rules

import "ddqcheck/internal/finding"

// DefaultMinLenDescriptive is the shortest acceptable answer to a descriptive question.
const DefaultMinLenDescriptive = 20

// Config holds the tunable parameters of the engine.
type Config struct {
	// ForbiddenTokens are placeholder strings treated as non-answers. They are
	// matched as substrings of the lowercased answer, in order.
	ForbiddenTokens []string
	// MinLenDescriptive is measured in runes.
	MinLenDescriptive int
	// Custom rules run after the built-in rules, in order.
	Custom []CustomRule
}

// CustomRule is a user-defined boolean CEL expression over a row.
type CustomRule struct {
	Name       string
	Expression string
	Status     finding.Status
	Reason     string
}

// DefaultForbiddenTokens returns the built-in placeholder list.
func DefaultForbiddenTokens() []string {
	return []string{
		"n/a",
		"n.a",
		"na",
		"not applicable",
		"tbd",
		"to be defined",
		"later",
		"unknown",
		"k.a",
		"keine angabe",
	}
}

// DefaultConfig returns the built-in rule configuration.
func DefaultConfig() Config {
	return Config{
		ForbiddenTokens:   DefaultForbiddenTokens(),
		MinLenDescriptive: DefaultMinLenDescriptive,
	}
}
