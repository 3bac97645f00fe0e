package question

import "testing"

// TestNewRowNormalizesFields verifies cells are trimmed and empty ids become nil.
func TestNewRowNormalizesFields(t *testing.T) {
	row := NewRow("General", 3, "  ", "  Name der Gesellschaft ", " ACME AG\n", "")
	if row.QuestionID != nil {
		t.Fatalf("expected nil question id, got %q", *row.QuestionID)
	}
	if row.QuestionText != "Name der Gesellschaft" {
		t.Fatalf("unexpected question text: %q", row.QuestionText)
	}
	if row.AnswerText != "ACME AG" {
		t.Fatalf("unexpected answer text: %q", row.AnswerText)
	}
}

// TestRowKeyDistinguishesMissingID verifies an absent id differs from an empty one.
func TestRowKeyDistinguishesMissingID(t *testing.T) {
	withID := NewRow("General", 1, "1.1", "Q", "A", "")
	without := NewRow("General", 1, "", "Q", "A", "")
	if withID.Key() == without.Key() {
		t.Fatalf("expected keys to differ")
	}
	if withID.ID() != "1.1" || without.ID() != "" {
		t.Fatalf("unexpected ids: %q %q", withID.ID(), without.ID())
	}
	if withID.Key() != NewRow("General", 1, "1.1", "other", "", "").Key() {
		t.Fatalf("expected key to ignore text fields")
	}
}

// TestFold verifies trimming and lowercasing.
func TestFold(t *testing.T) {
	if got := Fold("  Bitte BESCHREIBEN "); got != "bitte beschreiben" {
		t.Fatalf("unexpected fold: %q", got)
	}
}
