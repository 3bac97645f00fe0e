package redact

import (
	"testing"

	"ddqcheck/internal/question"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"label", "Prepared by: John Smith", "Prepared by: [REDACTED]"},
		{"label with dash and umlaut", "Contact - Anna Müller", "Contact: [REDACTED]"},
		{"title", "Dr. Eva Klein approved the policy", "Dr [REDACTED] approved the policy"},
		{"attribution", "Approved by Jane Doe", "Approved by [REDACTED]"},
		{"lowercase object kept", "Approved by the Board", "Approved by the Board"},
		{"single capitalized word kept", "Sent from Frankfurt", "Sent from Frankfurt"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.in); got != tt.want {
				t.Errorf("Text(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestRowsReturnsCopies verifies inputs are untouched and keys survive.
func TestRowsReturnsCopies(t *testing.T) {
	rows := []question.Row{question.NewRow("General", 2, "1.1", "Name: Max Mustermann", "Signed by: Erika Muster", "")}
	out := Rows(rows)
	if rows[0].QuestionText != "Name: Max Mustermann" {
		t.Fatalf("input mutated: %q", rows[0].QuestionText)
	}
	if out[0].QuestionText != "Name: [REDACTED]" || out[0].AnswerText != "Signed by: [REDACTED]" {
		t.Fatalf("unexpected redaction: %+v", out[0])
	}
	if out[0].Key() != rows[0].Key() {
		t.Fatalf("expected key to be preserved")
	}
}
