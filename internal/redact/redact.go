// Package redact removes personal names from questionnaire text before it is
// evaluated or sent to a language model.
package redact

import (
	"regexp"

	"ddqcheck/internal/question"
)

// Placeholder replaces every redacted name.
const Placeholder = "[REDACTED]"

// Labels are matched case-insensitively; names must be capitalized words.
var (
	labelledName = regexp.MustCompile(`\b((?i:name|contact|prepared by|author|signed by|signatory|respondent))\b\s*[:\-]\s*(\p{Lu}\p{Ll}+(?:[\s\-'.]\p{Lu}\p{Ll}+){0,3})`)
	titledName   = regexp.MustCompile(`\b(Mr|Ms|Mrs|Dr|Prof)\.?\s+(\p{Lu}\p{Ll}+(?:[\s\-'.]\p{Lu}\p{Ll}+){0,3})`)
	attributed   = regexp.MustCompile(`\b((?i:by|from|attn|attention))\s+(\p{Lu}\p{Ll}+(?:\s+\p{Lu}\p{Ll}+){1,3})`)
)

// Text redacts names that follow a label, a title, or an attribution.
func Text(text string) string {
	if text == "" {
		return text
	}
	text = labelledName.ReplaceAllString(text, "${1}: "+Placeholder)
	text = titledName.ReplaceAllString(text, "${1} "+Placeholder)
	text = attributed.ReplaceAllString(text, "${1} "+Placeholder)
	return text
}

// Rows returns redacted copies of rows. Keys are preserved.
func Rows(rows []question.Row) []question.Row {
	out := make([]question.Row, len(rows))
	for i, row := range rows {
		row.QuestionText = Text(row.QuestionText)
		row.AnswerText = Text(row.AnswerText)
		row.ExpectedText = Text(row.ExpectedText)
		out[i] = row
	}
	return out
}
