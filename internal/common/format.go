// Package common provides shared utilities for the advisor portal.
package common

import (
	"fmt"
	"strings"
)

// FormatPercent formats a 0-100 percent value for display, trimming a
// trailing ".0" so whole numbers render without a decimal.
func FormatPercent(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	s = strings.TrimSuffix(s, ".0")
	return s + "%"
}

// FormatSignedPct formats a percentage with +/- prefix
func FormatSignedPct(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

// Truncate shortens s to at most n runes, appending an ellipsis when cut.
// Used for rationale text in markdown tables.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return strings.TrimRight(string(runes[:n-3]), " ") + "..."
}

// TitleLabel converts a snake_case vocabulary code to a display label.
// "mutual_fund" -> "Mutual Fund", "etf" -> "Etf" (callers special-case acronyms).
func TitleLabel(code string) string {
	parts := strings.Split(code, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// AssetTypeLabel returns the display label for an asset-type code.
func AssetTypeLabel(code string) string {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "etf":
		return "ETF"
	case "mutual_fund":
		return "Mutual Fund"
	case "stock":
		return "Stock"
	default:
		return TitleLabel(code)
	}
}
