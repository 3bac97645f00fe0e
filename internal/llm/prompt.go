package llm

import (
	"bytes"
	"encoding/json"

	"ddqcheck/internal/finding"
)

// SystemPrompt is sent with every refinement request.
const SystemPrompt = "You are an internal due-diligence questionnaire (DDQ) validator. " +
	"Be strict, factual, and concise. Do not cite regulations unless they are explicitly provided in the expected/model text. " +
	"Return ONLY valid JSON matching the requested schema."

const refineTask = "Refine the assessment and suggest what exactly the customer must add/fix."

type outputSchema struct {
	Status          string   `json:"status"`
	Reason          string   `json:"reason"`
	MissingPoints   []string `json:"missing_points"`
	CustomerRequest string   `json:"customer_request"`
}

type refinePrompt struct {
	Question       string       `json:"question"`
	CustomerAnswer string       `json:"customer_answer"`
	Expected       string       `json:"expected"`
	CurrentStatus  string       `json:"current_status"`
	CurrentReason  string       `json:"current_reason"`
	Task           string       `json:"task"`
	OutputSchema   outputSchema `json:"output_schema"`
}

// BuildPrompt renders the user message for a finding.
func BuildPrompt(f finding.Finding) (string, error) {
	prompt := refinePrompt{
		Question:       f.QuestionText,
		CustomerAnswer: f.AnswerText,
		Expected:       f.ExpectedText,
		CurrentStatus:  f.Status.String(),
		CurrentReason:  f.Reason,
		Task:           refineTask,
		OutputSchema: outputSchema{
			Status:          "OK | INCOMPLETE | REJECTED | NEEDS_EVIDENCE",
			Reason:          "short explanation",
			MissingPoints:   []string{"..."},
			CustomerRequest: "one short instruction to the customer",
		},
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(prompt); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
