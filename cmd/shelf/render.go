package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/session"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(10)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	tagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	markStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
)

// colorStyle renders a name in an item's own color when it has one.
func colorStyle(color string, bold bool) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(bold)
	if color != "" {
		s = s.Foreground(lipgloss.Color(color))
	}
	return s
}

func printView(w io.Writer, v session.View) {
	header := v.PathDisplay
	if v.Searching {
		header = fmt.Sprintf("Search %q in %s", v.Term, v.PathDisplay)
	}
	fmt.Fprintf(w, "%s %s\n", headerStyle.Render(header), mutedStyle.Render("["+v.SortMode.Label()+"]"))

	if len(v.Folders)+len(v.Entries) == 0 {
		if v.Searching {
			fmt.Fprintln(w, mutedStyle.Render("  no matches"))
		} else {
			fmt.Fprintln(w, mutedStyle.Render("  empty folder"))
		}
		return
	}
	for _, it := range v.Folders {
		printItem(w, it)
	}
	for _, it := range v.Entries {
		printItem(w, it)
	}
}

func printItem(w io.Writer, it session.Item) {
	mark := "  "
	if it.Selected {
		mark = markStyle.Render("* ")
	}

	var line strings.Builder
	line.WriteString(mark + keyStyle.Render(it.Key.String()))
	if f := it.Folder; f != nil {
		line.WriteString(colorStyle(f.Color, true).Render(f.Name + "/"))
		line.WriteString(mutedStyle.Render(fmt.Sprintf("  %d", model.TotalEntryCount(f))))
		line.WriteString(tags(f.FolderTags))
	} else {
		e := it.Entry
		line.WriteString(colorStyle(e.Color, false).Render(e.Name))
		line.WriteString(mutedStyle.Render(fmt.Sprintf("  %d links", model.LinkCount(e))))
		line.WriteString(tags(e.EntryTags))
	}
	if it.PathDisplay != "" {
		line.WriteString(mutedStyle.Render("  in " + it.PathDisplay))
	}
	fmt.Fprintln(w, line.String())
}

func tags(t []string) string {
	if len(t) == 0 {
		return ""
	}
	return "  " + tagStyle.Render("#"+strings.Join(t, " #"))
}
