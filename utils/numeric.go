package utils

import (
	"strconv"
	"strings"
)

// ParseFloatSafe converts a cell value to a float, tolerating thousands
// separators and surrounding whitespace. Blank or unparseable values return
// nil, never zero: downstream consumers must be able to tell "no figure" from
// an actual zero appropriation.
func ParseFloatSafe(v string) *float64 {
	s := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// NormalizeWhitespace collapses every run of whitespace to a single space and
// trims the ends. Used for narrative section texts pulled out of PDF layout.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IsBlankRow reports whether every cell in the row is empty or whitespace.
func IsBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// CellAt returns the trimmed cell at the mapped column for key, or "" when the
// key is unmapped or the row is too short.
func CellAt(row []string, hdr map[string]int, key string) string {
	idx, ok := hdr[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
