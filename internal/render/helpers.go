package render

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/a1s/gridbuf/internal/model1"
	dtcell "github.com/derailed/tcell/v2"
	"github.com/gdamore/tcell/v2"
)

// Missing returns MissingValue for blank strings.
func Missing(s string) string {
	if s == "" {
		return MissingValue
	}
	return s
}

// Truncate shortens s to max runes.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	if max == 1 {
		return Ellipsis
	}
	return string(r[:max-1]) + Ellipsis
}

// FormatSize formats bytes to human readable format
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatField formats a field for display according to its column.
func FormatField(h model1.Header, col int, v string) string {
	if v == "" || v == model1.NAValue {
		return Missing(v)
	}
	if col >= 0 && col < len(h) && h[col].Name == "SIZE" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return FormatSize(n)
		}
	}
	return v
}

// AsCellColor converts a row color to a cell color.
func AsCellColor(c tcell.Color) dtcell.Color {
	if c == tcell.ColorDefault {
		return dtcell.ColorDefault
	}
	hex := c.Hex()
	if hex < 0 {
		return dtcell.ColorDefault
	}
	return dtcell.NewHexColor(hex)
}
