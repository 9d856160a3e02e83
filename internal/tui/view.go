package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/session"
	"github.com/nikbrunner/shelf/internal/tui/layout"
)

// View implements tea.Model.
func (a App) View() string {
	if a.mode == ModeConfirm {
		return a.renderModal()
	}

	content := a.styles.App.Render(lipgloss.JoinVertical(lipgloss.Left,
		a.renderBreadcrumb(),
		a.renderList(),
		a.renderStatus(),
		a.renderInput(),
		a.renderMessageLine(),
		a.renderHints(a.contextualHints()),
	))

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

func (a App) renderBreadcrumb() string {
	if a.view.Searching {
		return a.styles.Breadcrumb.Render(fmt.Sprintf("Search %q in %s", a.view.Term, a.view.PathDisplay))
	}
	return a.styles.Breadcrumb.Render(a.view.PathDisplay)
}

func (a App) renderList() string {
	height := layout.CalculateListHeight(a.height, a.layoutConfig.List)
	width := layout.CalculateItemWidth(a.width, a.layoutConfig.List)

	if len(a.items) == 0 {
		text := "Empty folder"
		if a.view.Searching {
			text = "No matches"
		}
		return a.styles.Empty.Render("  " + text)
	}

	start, end := layout.CalculateVisibleListItems(height, a.cursor, len(a.items))
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, a.renderItem(a.items[i], i == a.cursor, width))
	}
	return strings.Join(lines, "\n")
}

func (a App) renderItem(it session.Item, isCursor bool, maxWidth int) string {
	mark := "  "
	if a.view.Selecting {
		mark = "○ "
		if it.Selected {
			mark = a.styles.Mark.Render("● ")
		}
	}

	var name, detail string
	if it.Folder != nil {
		name, _ = layout.TruncateWithPrefixSuffix(it.Folder.Name, maxWidth/2, "", "/", a.layoutConfig.Text)
		detail = fmt.Sprintf("%d", model.TotalEntryCount(it.Folder))
	} else {
		name, _ = layout.TruncateText(it.Entry.Name, maxWidth/2, a.layoutConfig.Text)
		detail = fmt.Sprintf("%d links", model.LinkCount(it.Entry))
	}
	if it.PathDisplay != "" {
		detail += "  " + it.PathDisplay
	}
	detail, _ = layout.TruncateText(detail, maxWidth-lipgloss.Width(name)-2, a.layoutConfig.Text)

	if isCursor {
		return mark + a.styles.ItemSelected.Render(name+"  "+detail)
	}
	style := a.styles.Entry
	if it.Folder != nil {
		style = a.styles.Folder
	}
	return mark + a.styles.Item.Render(style.Render(name)+"  "+a.styles.Path.Render(detail))
}

func (a App) renderStatus() string {
	var status strings.Builder
	status.WriteString("[sort:" + a.view.SortMode.Label() + "]")
	if a.view.Selecting {
		fmt.Fprintf(&status, " [sel:%d]", a.view.Selected)
	}
	back, fwd := "-", "-"
	if a.view.CanBack {
		back = "H"
	}
	if a.view.CanForward {
		fwd = "L"
	}
	status.WriteString(" [hist:" + back + fwd + "]")
	return a.styles.Status.Render(status.String())
}

func (a App) renderInput() string {
	switch a.mode {
	case ModeSearch:
		return "/" + a.input.View()
	case ModeMove:
		return "Move to: " + a.input.View()
	}
	return ""
}

// renderMessageLine renders the styled message with prefix icon based on type.
func (a App) renderMessageLine() string {
	if a.messageText == "" {
		return ""
	}
	switch a.messageType {
	case MessageError:
		return a.styles.Error.Render("✗ " + a.messageText)
	case MessageSuccess:
		return a.styles.Success.Render("✓ " + a.messageText)
	default:
		return a.styles.Info.Render(a.messageText)
	}
}

func (a App) renderModal() string {
	width := layout.CalculateModalWidth(a.width, a.layoutConfig.Modal)
	body := lipgloss.JoinVertical(lipgloss.Left,
		a.styles.Title.Render(a.confirmTitle),
		"",
		a.confirmDesc,
		"",
		a.renderHintsInline(a.contextualHints()),
	)
	modal := a.styles.Modal.Width(width).Render(body)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
}
