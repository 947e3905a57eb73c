package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatSizeKB(t *testing.T) {
	assert.Equal(t, "0 KB", FormatSizeKB(512))
	assert.Equal(t, "4 KB", FormatSizeKB(4608))
}

func TestFormatTimes(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 5, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-01 10:05", FormatModTime(ts))
	assert.Equal(t, "2024-03-01", FormatDate(ts))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exactly", Truncate("exactly", 7))
	assert.Equal(t, "long ...", Truncate("long string here", 8))
	assert.Equal(t, "héé", Truncate("hééé", 3), "rune-based, never splits a multibyte character")
}
