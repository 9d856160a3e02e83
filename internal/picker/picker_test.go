package picker

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/search"
)

func result(name string) search.FuzzyResult {
	return search.FuzzyResult{Result: search.Result{
		Entry:       &model.Entry{Name: name, Links: []string{"https://" + strings.ToLower(name) + ".com"}},
		PathDisplay: "Root / Dev",
	}}
}

func twoResults() []search.FuzzyResult {
	return []search.FuzzyResult{result("GitHub"), result("GitLab")}
}

func press(p Picker, msg tea.KeyMsg) (Picker, tea.Cmd) {
	m, cmd := p.Update(msg)
	return m.(Picker), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPicker_InitialState(t *testing.T) {
	p := New(twoResults(), "git")

	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}
	if len(p.results) != 2 {
		t.Errorf("expected 2 results, got %d", len(p.results))
	}
}

func TestPicker_NavigateDownUp(t *testing.T) {
	p := New(twoResults(), "git")

	p, _ = press(p, runes("j"))
	if p.cursor != 1 {
		t.Errorf("expected cursor at 1, got %d", p.cursor)
	}

	p, _ = press(p, runes("k"))
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}
}

func TestPicker_BoundsCheck(t *testing.T) {
	p := New([]search.FuzzyResult{result("GitHub")}, "git")

	p, _ = press(p, runes("k"))
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}

	p, _ = press(p, runes("j"))
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0 (only 1 item), got %d", p.cursor)
	}
}

func TestPicker_TopBottom(t *testing.T) {
	results := append(twoResults(), result("Gitea"))
	p := New(results, "git")

	p, _ = press(p, runes("G"))
	if p.cursor != 2 {
		t.Errorf("expected cursor at 2, got %d", p.cursor)
	}
	p, _ = press(p, runes("g"))
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}
}

func TestPicker_ArrowKeys(t *testing.T) {
	p := New(twoResults(), "git")

	p, _ = press(p, tea.KeyMsg{Type: tea.KeyDown})
	if p.cursor != 1 {
		t.Errorf("expected cursor at 1 after down arrow, got %d", p.cursor)
	}

	p, _ = press(p, tea.KeyMsg{Type: tea.KeyUp})
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0 after up arrow, got %d", p.cursor)
	}
}

func TestPicker_SelectItem(t *testing.T) {
	p := New(twoResults(), "git")
	p.cursor = 1

	p, cmd := press(p, tea.KeyMsg{Type: tea.KeyEnter})
	if !p.selected {
		t.Error("expected selected to be true after Enter")
	}
	if cmd == nil {
		t.Error("expected quit command after selection")
	}

	got := p.Selected()
	if got == nil || got.Entry.Name != "GitLab" {
		t.Errorf("expected GitLab to be selected, got %+v", got)
	}
}

func TestPicker_Cancel(t *testing.T) {
	p := New(twoResults(), "git")

	p, cmd := press(p, tea.KeyMsg{Type: tea.KeyEsc})
	if !p.Cancelled() {
		t.Error("expected cancelled to be true after Esc")
	}
	if cmd == nil {
		t.Error("expected quit command after cancel")
	}
	if p.Selected() != nil {
		t.Error("expected nil when cancelled")
	}
}

func TestPicker_EnterWithoutResults(t *testing.T) {
	p := New(nil, "zzz")

	p, _ = press(p, tea.KeyMsg{Type: tea.KeyEnter})
	if !p.Cancelled() {
		t.Error("expected an empty picker to cancel on Enter")
	}
}

func TestPicker_ViewShowsPaths(t *testing.T) {
	p := New(twoResults(), "git")

	view := p.View()
	if !strings.Contains(view, "Find: git (2 results)") {
		t.Errorf("expected header in view, got:\n%s", view)
	}
	if !strings.Contains(view, "Root / Dev") {
		t.Errorf("expected path display in view, got:\n%s", view)
	}
}

func TestPicker_ViewScrollsToCursor(t *testing.T) {
	var results []search.FuzzyResult
	for _, name := range []string{"a1", "a2", "a3", "a4", "a5", "a6"} {
		results = append(results, result(name))
	}
	m, _ := New(results, "a").Update(tea.WindowSizeMsg{Width: 80, Height: 8})
	p := m.(Picker)
	p, _ = press(p, runes("G"))

	view := p.View()
	if strings.Contains(view, "a1") {
		t.Errorf("expected first item scrolled out of view, got:\n%s", view)
	}
	if !strings.Contains(view, "a6") {
		t.Errorf("expected cursor item in view, got:\n%s", view)
	}
}

func TestConfirm_Answers(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want bool
	}{
		{"yes", runes("y"), true},
		{"no", runes("n"), false},
		{"escape", tea.KeyMsg{Type: tea.KeyEsc}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := NewConfirm("Delete Entry?", "This will delete:\nEmpty entry").Update(tt.msg)
			c := m.(Confirm)
			if c.Confirmed() != tt.want {
				t.Errorf("expected confirmed=%v", tt.want)
			}
			if cmd == nil {
				t.Error("expected quit command after answer")
			}
		})
	}
}

func TestConfirm_IgnoresOtherKeys(t *testing.T) {
	m, cmd := NewConfirm("Delete Entry?", "Empty entry").Update(runes("x"))
	c := m.(Confirm)
	if c.answered || cmd != nil {
		t.Error("expected unrelated keys to be ignored")
	}
	if !strings.Contains(c.View(), "Delete Entry?") {
		t.Errorf("expected title in view, got:\n%s", c.View())
	}
}
