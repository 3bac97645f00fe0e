package question

// Row is one question/answer triple extracted from a filled questionnaire.
type Row struct {
	Sheet        string  `json:"sheet"`
	RowIdx       int     `json:"row_idx"`
	QuestionID   *string `json:"question_id"`
	QuestionText string  `json:"question_text"`
	AnswerText   string  `json:"answer_text"`
	ExpectedText string  `json:"expected_text"`
}

// Key identifies a row through redaction, evaluation, and refinement.
type Key struct {
	Sheet      string
	RowIdx     int
	QuestionID string
	HasID      bool
}

// Key returns the natural key of the row.
func (r Row) Key() Key {
	key := Key{Sheet: r.Sheet, RowIdx: r.RowIdx}
	if r.QuestionID != nil {
		key.QuestionID = *r.QuestionID
		key.HasID = true
	}
	return key
}

// ID returns the question id or an empty string when the row has none.
func (r Row) ID() string {
	if r.QuestionID == nil {
		return ""
	}
	return *r.QuestionID
}
