package tui

import (
	"time"

	"github.com/existflow/projecttasks/internal/model"
)

// truncate shortens a string to max runes with ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// formatDue renders the due date relative to now, or "" when unset
func formatDue(t model.Task, now time.Time) string {
	due, ok := t.DueDate.Get()
	if !ok {
		return ""
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, now.Location())
	switch day.Sub(today) / (24 * time.Hour) {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	case -1:
		return "yesterday"
	}
	if due.Year() != now.Year() {
		return due.Format("Jan 2, 2006")
	}
	return due.Format("Jan 2")
}
