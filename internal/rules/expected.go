package rules

import "strings"

// YesNo is the polarity a model answer demands.
type YesNo int

const (
	// YesNoNone means the expected text does not settle on yes or no.
	YesNoNone YesNo = iota
	// YesNoYes means a confirming answer is expected.
	YesNoYes
	// YesNoNo means a negative answer is expected.
	YesNoNo
)

// String returns YES, NO, or an empty string.
func (v YesNo) String() string {
	switch v {
	case YesNoYes:
		return "YES"
	case YesNoNo:
		return "NO"
	default:
		return ""
	}
}

// ExpectedYesNo derives the required polarity from the expected text.
// Text naming both or neither is inconclusive.
func ExpectedYesNo(expected string) YesNo {
	e := strings.ToLower(expected)
	hasJa := strings.Contains(e, "ja")
	hasNein := strings.Contains(e, "nein")
	switch {
	case hasJa && !hasNein:
		return YesNoYes
	case hasNein && !hasJa:
		return YesNoNo
	default:
		return YesNoNone
	}
}

// ExpectedRequiresFilename reports whether the answer must name a file.
func ExpectedRequiresFilename(expected string) bool {
	return containsAny(strings.ToLower(expected), []string{"name of a file", "name of file", "dateiname"})
}

// ExpectedRequiresNumberAndText reports whether the answer must mix digits and words.
func ExpectedRequiresNumberAndText(expected string) bool {
	return containsAny(strings.ToLower(expected), []string{"number and text obligatory", "nummer und text"})
}

// ExpectedContentNotRelevant reports whether any non-empty answer is acceptable.
func ExpectedContentNotRelevant(expected string) bool {
	return containsAny(strings.ToLower(expected), []string{"content not relevant", "fields must only be filled"})
}

// ExpectedDisallowReference reports whether pointing at another document is rejected.
func ExpectedDisallowReference(expected string) bool {
	return containsAny(strings.ToLower(expected), []string{
		"reference to a document is not acceptable",
		"reference to another document is not acceptable",
		"only reference to another document is also not acceptable",
	})
}

// ExpectedDisallowRefusal reports whether declining to answer is rejected.
func ExpectedDisallowRefusal(expected string) bool {
	e := strings.ToLower(expected)
	if containsAny(e, []string{"refusal is not acceptable", "any sort of refusal is not acceptable"}) {
		return true
	}
	return strings.Contains(e, "not acceptable") && strings.Contains(e, "n/a")
}
