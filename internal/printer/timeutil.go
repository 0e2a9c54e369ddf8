package printer

import (
	"fmt"
	"time"

	"github.com/slok/labgrade/internal/model"
)

const unknown = "unknown"

// FormatISO returns the UTC RFC 3339 representation of t (e.g "2025-11-10T20:59:59Z").
func FormatISO(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// FormatISOMillis returns the UTC ISO 8601 representation of t with milliseconds.
func FormatISOMillis(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// FormatLastCommit returns the UTC RFC 3339 last commit time or "unknown".
func FormatLastCommit(t *time.Time) string {
	if t == nil {
		return unknown
	}
	return FormatISO(*t)
}

// FormatDue returns the due date in the zone it was declared (e.g "2025-11-10 23:59:59 +03:00").
func FormatDue(d model.Deadline) string {
	return d.Due.Format("2006-01-02 15:04:05 -07:00")
}

// FormatAge returns how long ago t was in a human readable form (e.g "5m ago").
func FormatAge(t time.Time) string {
	return formatAge(time.Since(t))
}

func formatAge(d time.Duration) string {
	switch {
	case d < 0:
		return "in the future"
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
