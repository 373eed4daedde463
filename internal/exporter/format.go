package exporter

import (
	"fmt"
	"time"
)

// formatPercent formats a share for CSV output with exactly 2 decimal places
func formatPercent(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats a count for CSV output
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// formatDate formats a bucket boundary as a calendar date
func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
