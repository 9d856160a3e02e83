// Package picker provides small terminal prompts: a fuzzy result picker and a
// yes/no confirmation dialog.
package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/shelf/internal/search"
	"github.com/nikbrunner/shelf/internal/tui/layout"
)

// header (2) + footer (2); every result takes two lines.
const chromeLines = 4

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Underline(true)

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Picker is a simple TUI for selecting one entry from fuzzy results.
type Picker struct {
	results   []search.FuzzyResult
	query     string
	keys      KeyMap
	layout    layout.LayoutConfig
	cursor    int
	selected  bool
	cancelled bool
	width     int
	height    int
}

// New creates a new Picker with the given results.
func New(results []search.FuzzyResult, query string) Picker {
	return Picker{
		results: results,
		query:   query,
		keys:    DefaultKeyMap(),
		layout:  layout.DefaultConfig(),
		width:   80,
		height:  24,
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Cancel):
			p.cancelled = true
			return p, tea.Quit
		case key.Matches(msg, p.keys.Select):
			if len(p.results) == 0 {
				p.cancelled = true
			} else {
				p.selected = true
			}
			return p, tea.Quit
		case key.Matches(msg, p.keys.Down):
			if p.cursor < len(p.results)-1 {
				p.cursor++
			}
		case key.Matches(msg, p.keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
		case key.Matches(msg, p.keys.Top):
			p.cursor = 0
		case key.Matches(msg, p.keys.Bottom):
			if len(p.results) > 0 {
				p.cursor = len(p.results) - 1
			}
		}
	}

	return p, nil
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder
	width := p.width - 4

	b.WriteString(headerStyle.Render(fmt.Sprintf("Find: %s (%d results)", p.query, len(p.results))))
	b.WriteString("\n\n")

	start, end := layout.CalculateVisibleListItems((p.height-chromeLines)/2, p.cursor, len(p.results))
	for i := start; i < end; i++ {
		result := p.results[i]
		cursor := "  "
		style := normalStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedStyle
		}

		name := layout.TruncateANSIAware(highlight(result.Entry.Name, result.MatchedIndexes, style), width, p.layout.Text)
		path, _ := layout.TruncateText(result.PathDisplay, width-1, p.layout.Text)
		b.WriteString(cursor + name + "\n")
		b.WriteString("   " + pathStyle.Render(path) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/k: move  Enter: open  q/Esc: cancel"))

	return b.String()
}

// highlight renders name with the matched rune positions emphasized.
func highlight(name string, matched []int, base lipgloss.Style) string {
	if len(matched) == 0 {
		return base.Render(name)
	}
	hits := make(map[int]bool, len(matched))
	for _, i := range matched {
		hits[i] = true
	}

	var b strings.Builder
	// sahilm/fuzzy reports byte offsets.
	for i, r := range name {
		if hits[i] {
			b.WriteString(matchStyle.Inherit(base).Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

// Selected returns the chosen result, or nil if cancelled.
func (p Picker) Selected() *search.FuzzyResult {
	if p.cancelled || !p.selected {
		return nil
	}
	if p.cursor < len(p.results) {
		return &p.results[p.cursor]
	}
	return nil
}

// Cancelled returns true if the user cancelled the selection.
func (p Picker) Cancelled() bool {
	return p.cancelled
}
