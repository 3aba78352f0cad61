package output

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var counts = message.NewPrinter(language.English)

// Truncate shortens s to at most width runes, marking the cut with "...".
// A non-positive width leaves s unchanged.
func Truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// FormatTime renders milliseconds as "150ms", "1.50s" or "2.00m".
// Negative values (HAR's "not applicable") render as "-".
func FormatTime(ms float64) string {
	switch {
	case ms < 0:
		return "-"
	case ms < 1000:
		return fmt.Sprintf("%.0fms", ms)
	case ms < 60000:
		return fmt.Sprintf("%.2fs", ms/1000)
	default:
		return fmt.Sprintf("%.2fm", ms/60000)
	}
}

// FormatOptionalTime is FormatTime with "-" for absent values.
func FormatOptionalTime(ms *float64) string {
	if ms == nil {
		return "-"
	}
	return FormatTime(*ms)
}

// FormatBytes renders a size as "512B", "1.5KB" or "2.0MB". Negative sizes
// (unknown) render as "-".
func FormatBytes(n int64) string {
	switch {
	case n < 0:
		return "-"
	case n < 1024:
		return fmt.Sprintf("%dB", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1fKB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1fMB", float64(n)/(1024*1024))
	}
}

// FormatCount renders n with thousands separators ("12,345").
func FormatCount(n int) string {
	return counts.Sprintf("%d", n)
}
