package rules

import (
	"strings"

	"ddqcheck/internal/question"
)

// LooksLikeQuestion reports whether question text asks for an answer.
func LooksLikeQuestion(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return false
	}
	if hasAnyPrefix(strings.ToLower(t), questionStarters) {
		return true
	}
	if strings.Contains(t, "?") {
		return true
	}
	return questionVerbPattern.MatchString(t)
}

// LooksLikeNote reports guidance lines that are not meant to be answered.
func LooksLikeNote(expected, questionText string) bool {
	e := fold(expected)
	if e == "" {
		return false
	}
	if hasAnyPrefix(e, noteStarters) {
		return true
	}
	if _, ok := sectionHeadings[fold(questionText)]; ok && containsAny(e, noteMarkers) {
		return true
	}
	return false
}

// IsSignatureRow reports rows asking for a signature, name and position, or place and date.
func IsSignatureRow(row question.Row) bool {
	return signaturePattern.MatchString(row.QuestionText) || signaturePattern.MatchString(row.ExpectedText)
}

// ShouldValidate decides whether a row is meant to be answered.
func ShouldValidate(row question.Row) bool {
	if LooksLikeNote(row.ExpectedText, row.QuestionText) {
		return false
	}
	if IsSignatureRow(row) {
		return true
	}
	if LooksLikeQuestion(row.QuestionText) {
		return true
	}
	e := strings.ToLower(row.ExpectedText)
	if strings.Contains(e, "[text]") || containsAny(e, validationMarkers) {
		return true
	}
	return ExpectedYesNo(row.ExpectedText) != YesNoNone
}

// IsMandatory reports whether an empty or placeholder answer must be rejected.
func IsMandatory(row question.Row) bool {
	e := strings.ToLower(row.ExpectedText)
	if containsAny(e, mandatoryMarkers) {
		return true
	}
	if strings.TrimSpace(e) != "" {
		return true
	}
	return hasAnyPrefix(strings.ToLower(row.QuestionText), identificationLeadIns)
}
