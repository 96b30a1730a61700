package cmd

import (
	"fmt"
	"time"
)

// formatTimeAgo formats a time as a human-readable "time ago" string
func formatTimeAgo(t time.Time) string {
	duration := time.Since(t)

	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		return plural(int(duration.Minutes()), "min")
	case duration < 24*time.Hour:
		return plural(int(duration.Hours()), "hour")
	case duration < 7*24*time.Hour:
		return plural(int(duration.Hours()/24), "day")
	case duration < 30*24*time.Hour:
		return plural(int(duration.Hours()/24/7), "week")
	case duration < 365*24*time.Hour:
		return plural(int(duration.Hours()/24/30), "month")
	}
	return plural(int(duration.Hours()/24/365), "year")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// truncate truncates a string to a maximum length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
