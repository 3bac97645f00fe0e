package finding

import (
	"encoding/json"
	"maps"

	"ddqcheck/internal/question"
)

// Reasons for the placeholder findings written for rows without a flag.
const (
	ReasonSkipped = "Row is not a question or validation rule does not apply."
	ReasonPassed  = "Passed rule checks."
)

// Details carries structured evidence for a finding.
type Details map[string]any

// Finding is the evaluated form of a row.
type Finding struct {
	question.Row
	Status  Status  `json:"status"`
	Reason  string  `json:"reason"`
	Details Details `json:"details"`
}

// New builds a finding for a row.
func New(row question.Row, status Status, reason string, details Details) Finding {
	return Finding{Row: row, Status: status, Reason: reason, Details: details}
}

// Skipped returns the placeholder for a row the engine does not validate.
func Skipped(row question.Row) Finding {
	return New(row, StatusSkipped, ReasonSkipped, Details{"validated": false})
}

// Passed returns the placeholder for a validated row with no flag.
func Passed(row question.Row) Finding {
	return New(row, StatusOK, ReasonPassed, Details{"validated": true})
}

// Key returns the natural key of the underlying row.
func (f Finding) Key() question.Key {
	return f.Row.Key()
}

// Flagged reports whether the finding needs follow-up.
func (f Finding) Flagged() bool {
	return f.Status.IsFlagged()
}

// Detail returns a details value and whether it was present.
func (f Finding) Detail(key string) (any, bool) {
	if f.Details == nil {
		return nil, false
	}
	value, ok := f.Details[key]
	return value, ok
}

// WithRefinement returns a copy with a new status and reason and extra details merged in.
// The receiver is left untouched.
func (f Finding) WithRefinement(status Status, reason string, extra Details) Finding {
	details := make(Details, len(f.Details)+len(extra))
	maps.Copy(details, f.Details)
	maps.Copy(details, extra)
	f.Status = status
	f.Reason = reason
	f.Details = details
	return f
}

// WithDetails returns a copy with extra details merged in and status and reason kept.
func (f Finding) WithDetails(extra Details) Finding {
	return f.WithRefinement(f.Status, f.Reason, extra)
}

// Record returns the flat map form used by JSON reports.
func (f Finding) Record() map[string]any {
	var id any
	if f.QuestionID != nil {
		id = *f.QuestionID
	}
	details := f.Details
	if details == nil {
		details = Details{}
	}
	return map[string]any{
		"sheet":         f.Sheet,
		"row_idx":       f.RowIdx,
		"question_id":   id,
		"question_text": f.QuestionText,
		"answer_text":   f.AnswerText,
		"expected_text": f.ExpectedText,
		"status":        string(f.Status),
		"reason":        f.Reason,
		"details":       map[string]any(details),
	}
}

// DetailsJSON encodes the details map, never producing null.
func (f Finding) DetailsJSON() (string, error) {
	details := f.Details
	if details == nil {
		details = Details{}
	}
	data, err := json.Marshal(details)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// MarshalJSON encodes a nil details map as an empty object.
func (f Finding) MarshalJSON() ([]byte, error) {
	type plain Finding
	if f.Details == nil {
		f.Details = Details{}
	}
	return json.Marshal(plain(f))
}
