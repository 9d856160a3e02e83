package layout

import "github.com/charmbracelet/x/ansi"

// Widths here are terminal cells: escape sequences are zero wide and East
// Asian wide runes take two cells.

// resetStyle clears any styling left open by a truncated string.
const resetStyle = "\x1b[0m"

// VisibleLength returns the number of cells s occupies.
func VisibleLength(s string) int {
	return ansi.StringWidth(s)
}

// TruncateText cuts text to maxWidth cells ending in the ellipsis and reports
// whether anything was cut. When even the ellipsis does not fit, the ellipsis
// itself is cut.
func TruncateText(text string, maxWidth int, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", true
	}
	if VisibleLength(text) <= maxWidth {
		return text, false
	}
	if VisibleLength(cfg.Ellipsis) >= maxWidth {
		return ansi.Truncate(cfg.Ellipsis, maxWidth, ""), true
	}
	return ansi.Truncate(text, maxWidth, cfg.Ellipsis), true
}

// TruncateWithPrefixSuffix cuts the text between prefix and suffix so the
// whole fits in maxWidth, e.g. ("Development", 12, "* ", "/") gives
// "* Develo.../". Without room for the text it falls back to TruncateText on
// the combined string.
func TruncateWithPrefixSuffix(text string, maxWidth int, prefix, suffix string, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", true
	}
	whole := prefix + text + suffix
	if VisibleLength(whole) <= maxWidth {
		return whole, false
	}

	room := maxWidth - VisibleLength(prefix) - VisibleLength(suffix)
	if room <= VisibleLength(cfg.Ellipsis) {
		return TruncateText(whole, maxWidth, cfg)
	}
	return prefix + ansi.Truncate(text, room, cfg.Ellipsis) + suffix, true
}

// TruncateANSIAware cuts styled text without splitting escape sequences, so
// highlighted fuzzy matches survive. A reset is appended after the ellipsis.
func TruncateANSIAware(styled string, maxWidth int, cfg TextConfig) string {
	if maxWidth <= 0 {
		return ""
	}
	if VisibleLength(styled) <= maxWidth {
		return styled
	}
	return ansi.Truncate(styled, maxWidth, cfg.Ellipsis) + resetStyle
}
