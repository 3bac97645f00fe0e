package api

import (
	"encoding/json"
	"net/http"

	"ddqcheck/internal/finding"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type validateResponse struct {
	RunID       string           `json:"run_id"`
	Summary     finding.Summary  `json:"summary"`
	Report      []map[string]any `json:"report"`
	ReportCSV   string           `json:"report_csv"`
	SummaryJSON string           `json:"summary_json"`
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		status = http.StatusInternalServerError
		data = []byte(`{"detail":"encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
