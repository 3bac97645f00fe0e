package rules

import (
	"strings"
	"unicode/utf8"
)

// LooksLikeEmail reports whether the whole answer is a single address.
func LooksLikeEmail(answer string) bool {
	return emailPattern.MatchString(strings.TrimSpace(answer))
}

// LooksLikePhone reports whether the answer holds at least seven digits.
func LooksLikePhone(answer string) bool {
	digits := 0
	for i := 0; i < len(answer); i++ {
		if answer[i] >= '0' && answer[i] <= '9' {
			digits++
			if digits >= minPhoneDigits {
				return true
			}
		}
	}
	return false
}

// LooksLikeURL reports a scheme or www prefix, or a bare dotted host-like token.
func LooksLikeURL(answer string) bool {
	a := strings.TrimSpace(answer)
	if urlPattern.MatchString(a) {
		return true
	}
	return strings.Contains(a, ".") && !strings.Contains(a, " ") && utf8.RuneCountInString(a) >= 4
}

// LooksLikeFilename reports a token ending in a known document extension.
func LooksLikeFilename(answer string) bool {
	return filenamePattern.MatchString(answer)
}

// HasNumberAndText reports at least one digit and at least one letter.
func HasNumberAndText(answer string) bool {
	return strings.ContainsAny(answer, "0123456789") && letterPattern.MatchString(answer)
}

// DetectReference reports cross-references to attachments, sections, or numbered clauses.
func DetectReference(answer string) bool {
	return referencePattern.MatchString(answer)
}

// DetectRefusal reports wording that declines to answer.
func DetectRefusal(answer string) bool {
	return refusalPattern.MatchString(answer)
}

// HasYes reports a confirming token.
func HasYes(answer string) bool {
	return yesPattern.MatchString(answer)
}

// HasNo reports a negative token.
func HasNo(answer string) bool {
	return noPattern.MatchString(answer)
}

// ContainsForbidden returns the first configured placeholder found in the answer.
func ContainsForbidden(answer string, tokens []string) (string, bool) {
	a := fold(answer)
	if a == "" {
		return "", false
	}
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if strings.Contains(a, strings.ToLower(tok)) {
			return tok, true
		}
	}
	return "", false
}
