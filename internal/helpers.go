package internal

import (
	"fmt"
	"strings"
	"time"
)

const (
	formatDDMMYYYY = "02.01.2006"
)

func FormatDate(date time.Time) string {
	return date.Format(formatDDMMYYYY)
}

// FormatTimeLimit renders a voting time limit as days, hours and minutes, e.g. "1d 6h".
// Zero is unlimited.
func FormatTimeLimit(limit time.Duration) string {
	if limit <= 0 {
		return "unlimited"
	}

	days := limit / (24 * time.Hour)
	hours := (limit % (24 * time.Hour)) / time.Hour
	minutes := (limit % time.Hour) / time.Minute

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	return strings.Join(parts, " ")
}
