package ui

import (
	"strings"
	"time"
)

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}

// bookDateLayout renders dates like "Mar 4, 2026, 9:05:07 AM".
const bookDateLayout = "Jan 2, 2006, 3:04:05 PM"

// formatBookDate formats a book timestamp in UTC.
func formatBookDate(t time.Time) string {
	if t.IsZero() {
		return "n/a"
	}
	return t.UTC().Format(bookDateLayout)
}

// displayOr returns value, or fallback when value is blank.
func displayOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
