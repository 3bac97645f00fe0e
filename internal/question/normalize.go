package question

import "strings"

// NormalizeCell trims surrounding whitespace from an extracted cell value.
func NormalizeCell(value string) string {
	return strings.TrimSpace(value)
}

// Fold trims and lowercases text for keyword matching.
func Fold(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// OptionalID returns nil for an empty id and a pointer to the trimmed id otherwise.
func OptionalID(value string) *string {
	value = NormalizeCell(value)
	if value == "" {
		return nil
	}
	return &value
}

// NewRow builds a row with every text field normalized.
func NewRow(sheet string, rowIdx int, id, questionText, answerText, expectedText string) Row {
	return Row{
		Sheet:        sheet,
		RowIdx:       rowIdx,
		QuestionID:   OptionalID(id),
		QuestionText: NormalizeCell(questionText),
		AnswerText:   NormalizeCell(answerText),
		ExpectedText: NormalizeCell(expectedText),
	}
}
