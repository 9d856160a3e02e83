package picker

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/shelf/internal/tui/layout"
)

var (
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("160")).
			Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// Confirm is a yes/no dialog for destructive operations.
type Confirm struct {
	title       string
	description string
	keys        KeyMap
	answered    bool
	confirmed   bool
	width       int
}

// NewConfirm creates a dialog with the given title and description.
func NewConfirm(title, description string) Confirm {
	return Confirm{
		title:       title,
		description: description,
		keys:        DefaultKeyMap(),
		width:       80,
	}
}

// Init implements tea.Model.
func (c Confirm) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (c Confirm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, c.keys.Yes):
			c.answered, c.confirmed = true, true
			return c, tea.Quit
		case key.Matches(msg, c.keys.No):
			c.answered = true
			return c, tea.Quit
		}
	}
	return c, nil
}

// View implements tea.Model.
func (c Confirm) View() string {
	if c.answered {
		return ""
	}
	body := titleStyle.Render(c.title) + "\n\n" +
		c.description + "\n\n" +
		helpStyle.Render("y: confirm  n/Esc: cancel")
	return modalStyle.Width(layout.CalculateModalWidth(c.width, layout.DefaultConfig().Modal)).Render(body) + "\n"
}

// Confirmed reports whether the user answered yes.
func (c Confirm) Confirmed() bool {
	return c.confirmed
}

// Prompter asks for confirmation on a terminal.
type Prompter struct {
	in  io.Reader
	out io.Writer
}

// NewPrompter returns a Prompter reading keys from in and drawing to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out}
}

// Confirm shows the dialog and blocks until the user answers.
func (p *Prompter) Confirm(ctx context.Context, title, description string) (bool, error) {
	program := tea.NewProgram(NewConfirm(title, description),
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)
	final, err := program.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, tea.ErrProgramKilled) {
			return false, ctxErr
		}
		return false, err
	}
	return final.(Confirm).Confirmed(), nil
}
