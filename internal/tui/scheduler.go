package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/shelf/internal/debounce"
)

// tickScheduler debounces queued searches on the bubbletea event loop: a
// trigger only records the call, and a tick message carrying the matching
// generation runs it from Update.
type tickScheduler struct {
	debounce.Manual
	gen int
}

type searchTickMsg struct{ gen int }

func (s *tickScheduler) Trigger(fn func()) {
	s.Manual.Trigger(fn)
	s.gen++
}

// tick returns the command that fires the pending call after delay.
func (s *tickScheduler) tick(delay time.Duration) tea.Cmd {
	if !s.Pending() {
		return nil
	}
	gen := s.gen
	return tea.Tick(delay, func(time.Time) tea.Msg { return searchTickMsg{gen: gen} })
}

// fire runs the pending call if msg is the latest trigger.
func (s *tickScheduler) fire(msg searchTickMsg) bool {
	if msg.gen != s.gen {
		return false
	}
	return s.Flush()
}
