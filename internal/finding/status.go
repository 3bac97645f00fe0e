package finding

import "fmt"

// Status is the outcome assigned to a questionnaire row.
type Status string

const (
	// StatusOK marks a row that passed every check.
	StatusOK Status = "OK"
	// StatusSkipped marks a row that is not a question or needs no validation.
	StatusSkipped Status = "SKIPPED"
	// StatusIncomplete marks an answer with the wrong shape or missing content.
	StatusIncomplete Status = "INCOMPLETE"
	// StatusRejected marks an answer that is unacceptable as given.
	StatusRejected Status = "REJECTED"
	// StatusNeedsEvidence marks an answer that points at another document.
	StatusNeedsEvidence Status = "NEEDS_EVIDENCE"
)

// Statuses lists every status in report order.
var Statuses = []Status{StatusOK, StatusSkipped, StatusIncomplete, StatusRejected, StatusNeedsEvidence}

// IsValid reports whether the status is part of the closed vocabulary.
func (s Status) IsValid() bool {
	switch s {
	case StatusOK, StatusSkipped, StatusIncomplete, StatusRejected, StatusNeedsEvidence:
		return true
	default:
		return false
	}
}

// IsFlagged reports whether the status requires follow-up with the respondent.
func (s Status) IsFlagged() bool {
	return s.IsValid() && s != StatusOK && s != StatusSkipped
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ParseStatus parses a string into a Status value.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid status: %s", s)
	}
	return status, nil
}
