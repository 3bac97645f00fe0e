package report

import (
	"fmt"
	"strconv"
)

// formatShare returns part/total as a percentage string.
func formatShare(part, total int) string {
	if total <= 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(part)/float64(total)*100)
}

func fmtInt(value int) string {
	return strconv.Itoa(value)
}
