package rules

import (
	"testing"

	"ddqcheck/internal/finding"
	"ddqcheck/internal/question"
)

func row(sheet, q, a, e string) question.Row {
	return question.NewRow(sheet, 1, "1", q, a, e)
}

// TestLooksLikeQuestion verifies lead words, question marks, and verbs.
func TestLooksLikeQuestion(t *testing.T) {
	yes := []string{"Bitte angeben", "Hat die Gesellschaft einen Beauftragten", "Is there a policy?", "Describe your controls", "Wir bitten Sie zu erläutern"}
	for _, text := range yes {
		if !LooksLikeQuestion(text) {
			t.Errorf("expected %q to look like a question", text)
		}
	}
	no := []string{"", "Name der Gesellschaft", "Allgemeine Angaben"}
	for _, text := range no {
		if LooksLikeQuestion(text) {
			t.Errorf("expected %q not to look like a question", text)
		}
	}
}

// TestShouldValidateNoteShortCircuit verifies guidance rows are never validated.
func TestShouldValidateNoteShortCircuit(t *testing.T) {
	rows := []question.Row{
		row("General", "Bitte beschreiben Sie den Prozess?", "", "Please note: this field is obligatory"),
		row("Fund Management", "Unterschrift", "", "please note the signature block"),
		row("Sheet1", "Outsourcing", "", "Rückfragen bitte an das Team"),
	}
	for _, r := range rows {
		if ShouldValidate(r) {
			t.Errorf("expected note row to be skipped: %+v", r)
		}
	}
}

// TestShouldValidate covers each positive branch and the default.
func TestShouldValidate(t *testing.T) {
	tests := []struct {
		name string
		row  question.Row
		want bool
	}{
		{"signature", row("Sheet1", "Ort / Datum", "", ""), true},
		{"question", row("Sheet1", "Wird ein Handbuch geführt?", "", ""), true},
		{"text marker", row("Sheet1", "Strategie", "", "[Text]"), true},
		{"obligatory", row("Sheet1", "Strategie", "", "Field is obligatory"), true},
		{"yes no", row("Sheet1", "Strategie", "", "Ja"), true},
		{"heading", row("Sheet1", "Allgemeine Angaben", "", ""), false},
		{"free guidance", row("Sheet1", "Strategie", "", "Siehe Anlage"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldValidate(tt.row); got != tt.want {
				t.Errorf("ShouldValidate() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestIsMandatory verifies markers, non-empty expectations, and identification fields.
func TestIsMandatory(t *testing.T) {
	if !IsMandatory(row("Sheet1", "Whatever", "", "Field is obligatory")) {
		t.Fatalf("expected obligatory to be mandatory")
	}
	if !IsMandatory(row("Sheet1", "Whatever", "", "Any model answer")) {
		t.Fatalf("expected non-empty expectations to be mandatory")
	}
	if !IsMandatory(row("Sheet1", "Telefonnummer", "", "")) {
		t.Fatalf("expected phone field to be mandatory")
	}
	if IsMandatory(row("Sheet1", "Gibt es Anmerkungen?", "", "")) {
		t.Fatalf("expected free question without expectation to be optional")
	}
	for _, q := range []string{"Email address?", "Phone number", "Name of the contact person"} {
		if IsMandatory(row("Sheet1", q, "", "")) {
			t.Fatalf("expected %q without expectation to be optional", q)
		}
	}
}

// TestEnglishContactFieldWithoutExpectationPasses verifies that only the
// German lead-ins make an empty identification answer mandatory.
func TestEnglishContactFieldWithoutExpectationPasses(t *testing.T) {
	engine := newTestEngine(t)
	got := engine.Evaluate(row("General", "Email address?", "", ""))
	if got.Status != finding.StatusOK {
		t.Fatalf("expected OK for optional English contact field, got %+v", got)
	}
}

// TestClassify verifies category keywords in both languages.
func TestClassify(t *testing.T) {
	tests := map[string]Category{
		"Allgemeine Angaben": CategoryGeneral,
		"General":            CategoryGeneral,
		"Fund Management":    CategoryFundManagement,
		"Fondsmanagement":    CategoryFundManagement,
		"Innenrevision":      CategoryInternalAudit,
		"Internal Audit":     CategoryInternalAudit,
		"RegTA":              CategoryRegTA,
		"ZV-FoBu":            CategoryZVFoBu,
		"ZV only":            CategoryNone,
		"Verwahrstelle":      CategoryCustodian,
		"Custodian":          CategoryCustodian,
		"Sheet1":             CategoryNone,
	}
	for sheet, want := range tests {
		if got := Classify(sheet); got != want {
			t.Errorf("Classify(%q) = %s, want %s", sheet, got, want)
		}
	}
	if !CategoryRegTA.Matches("regta 2024") || CategoryRegTA.Matches("General") {
		t.Fatalf("unexpected Matches result")
	}
}
