package rules

import "testing"

func TestDetectors(t *testing.T) {
	tests := []struct {
		name   string
		detect func(string) bool
		input  string
		want   bool
	}{
		{"email trimmed", LooksLikeEmail, "  info@example.com ", true},
		{"email without tld", LooksLikeEmail, "info@example", false},
		{"email with space", LooksLikeEmail, "a b@c.de", false},
		{"phone scattered digits", LooksLikePhone, "+49 (0)40 123-45", true},
		{"phone too short", LooksLikePhone, "12 34 56", false},
		{"url scheme", LooksLikeURL, "https://x", true},
		{"url bare host", LooksLikeURL, "example.com", true},
		{"url too short", LooksLikeURL, "a.b", false},
		{"url in sentence", LooksLikeURL, "see example.com", false},
		{"filename", LooksLikeFilename, "Organigramm_2024.pdf", true},
		{"filename upper extension", LooksLikeFilename, "policy.PDF", true},
		{"filename bare extension", LooksLikeFilename, "pdf", false},
		{"number and text", HasNumberAndText, "3 Mitarbeiter", true},
		{"number only", HasNumberAndText, "123", false},
		{"umlaut text only", HasNumberAndText, "Prüfer", false},
		{"reference dotted id", DetectReference, "see 4.1.9", true},
		{"reference german", DetectReference, "Siehe Anlage", true},
		{"reference none", DetectReference, "No comment", false},
		{"refusal", DetectRefusal, "We refuse.", true},
		{"refusal whole word only", DetectRefusal, "refused", false},
		{"yes german", HasYes, "Ja", true},
		{"yes inside word", HasYes, "Jahr", false},
		{"no english", HasNo, "No.", true},
		{"no inside word", HasNo, "none", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.detect(tt.input); got != tt.want {
				t.Errorf("detect(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestContainsForbiddenOrder verifies the first configured token wins.
func TestContainsForbiddenOrder(t *testing.T) {
	tokens := DefaultForbiddenTokens()
	if tok, ok := ContainsForbidden("  N/A ", tokens); !ok || tok != "n/a" {
		t.Fatalf("expected n/a, got %q %v", tok, ok)
	}
	if tok, ok := ContainsForbidden("keine Angabe", tokens); !ok || tok != "keine angabe" {
		t.Fatalf("expected keine angabe, got %q %v", tok, ok)
	}
	if _, ok := ContainsForbidden("", tokens); ok {
		t.Fatalf("expected no match for empty answer")
	}
	if _, ok := ContainsForbidden("anything", []string{""}); ok {
		t.Fatalf("expected empty tokens to be ignored")
	}
}

// TestExpectedYesNo verifies polarity and the inconclusive cases.
func TestExpectedYesNo(t *testing.T) {
	tests := map[string]YesNo{
		"Ja, bestätigt.": YesNoYes,
		"Nein":           YesNoNo,
		"Ja / Nein":      YesNoNone,
		"":               YesNoNone,
	}
	for expected, want := range tests {
		if got := ExpectedYesNo(expected); got != want {
			t.Errorf("ExpectedYesNo(%q) = %s, want %s", expected, got, want)
		}
	}
}

// TestExpectedClassifiers verifies the model-answer keyword checks.
func TestExpectedClassifiers(t *testing.T) {
	if !ExpectedRequiresFilename("Please enter the name of a file") {
		t.Fatalf("expected filename requirement")
	}
	if !ExpectedRequiresNumberAndText("Nummer und Text") {
		t.Fatalf("expected number+text requirement")
	}
	if !ExpectedContentNotRelevant("Fields must only be filled") {
		t.Fatalf("expected content not relevant")
	}
	if !ExpectedDisallowReference("Only reference to another document is also not acceptable.") {
		t.Fatalf("expected reference disallowed")
	}
	if !ExpectedDisallowRefusal("Not acceptable: N/A") {
		t.Fatalf("expected refusal disallowed via n/a")
	}
	if ExpectedDisallowRefusal("not acceptable") {
		t.Fatalf("expected plain not acceptable to allow refusal")
	}
}
