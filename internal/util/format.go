package util

import (
	"fmt"
	"time"
)

// FormatSizeKB renders a byte count as whole kilobytes, the unit used
// in session listings.
func FormatSizeKB(size int64) string {
	return fmt.Sprintf("%d KB", size/1024)
}

// FormatModTime renders a file modification time for session listings.
func FormatModTime(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

// FormatDate renders just the date portion.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// Truncate shortens s to max characters, appending "..." when cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
