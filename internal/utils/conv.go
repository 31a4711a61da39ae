package utils

import (
	"fmt"
	"time"
)

// FormatTimeAgo renders the elapsed time since t as a short label.
func FormatTimeAgo(t, now time.Time) string {
	minutes := int(now.Sub(t).Minutes())
	hours := minutes / 60
	days := hours / 24

	if days > 0 {
		return fmt.Sprintf("%dd ago", days)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh ago", hours)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm ago", minutes)
	}
	return "Just now"
}
