package finding

// Summary is the status histogram over a full result list.
type Summary struct {
	TotalRows    int            `json:"total_rows"`
	TotalFlagged int            `json:"total_flagged"`
	ByStatus     map[Status]int `json:"by_status"`
}

// Summarize counts findings by status.
func Summarize(findings []Finding) Summary {
	summary := Summary{TotalRows: len(findings), ByStatus: map[Status]int{}}
	for _, f := range findings {
		summary.ByStatus[f.Status]++
		if f.Status != StatusOK && f.Status != StatusSkipped {
			summary.TotalFlagged++
		}
	}
	return summary
}

// Count returns the number of findings with a status.
func (s Summary) Count(status Status) int {
	return s.ByStatus[status]
}
