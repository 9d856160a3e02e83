package tui

import "strings"

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "j/k", "Enter")
	Desc string // Short description (e.g., "move", "open")
}

// renderHint renders a single hint as "key:desc" with styling.
func (a App) renderHint(h Hint) string {
	return a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
}

// renderHints renders hints in horizontal format for the bottom bar: "j/k:move h:parent l:open"
func (a App) renderHints(hints []Hint) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.renderHint(h)
	}
	return strings.Join(parts, " ")
}

// renderHintsInline renders hints in inline format for modals: "y confirm  n cancel"
func (a App) renderHintsInline(hints []Hint) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + " " + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}

// contextualHints returns the hints for the current mode.
func (a App) contextualHints() []Hint {
	switch a.mode {
	case ModeSearch:
		return []Hint{{"Enter", "search"}, {"Esc", "close"}}
	case ModeMove:
		return []Hint{{"Enter", "move"}, {"Esc", "cancel"}}
	case ModeConfirm:
		return []Hint{{"y", "confirm"}, {"n", "cancel"}}
	}

	hints := []Hint{{"j/k", "move"}, {"h", "parent"}, {"l", "open"}, {"H/L", "back/fwd"}, {"/", "search"}}
	if a.view.Selecting {
		return append(hints, Hint{"space", "select"}, Hint{"V", "all"}, Hint{"d", "delete"},
			Hint{"y", "dup"}, Hint{"m", "move"}, Hint{"o", "open"}, Hint{"Esc", "done"})
	}
	hints = append(hints, Hint{"v", "select"}, Hint{"s", "sort"})
	if len(a.profiles) > 1 {
		hints = append(hints, Hint{"P", "profile"})
	}
	return append(hints, Hint{"q", "quit"})
}
