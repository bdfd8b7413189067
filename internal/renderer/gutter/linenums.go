package gutter

import (
	"strconv"
	"strings"
)

// FormatNumber formats a line number.
func FormatNumber(n int) string {
	return strconv.Itoa(n)
}

// PadLeft pads s with spaces on the left to width.
func PadLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// countDigits returns the number of characters n formats to.
func countDigits(n int) int {
	return len(FormatNumber(n))
}
