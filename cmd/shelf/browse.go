package main

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/shelf/internal/tui"
)

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the tree interactively (default without a command)",
		Args:  cobra.NoArgs,
		RunE:  a.browse,
	}
}

// browse runs the full-screen browser on the active profile.
func (a *app) browse(cmd *cobra.Command, _ []string) error {
	params, err := a.sessionParams()
	if err != nil {
		return err
	}

	// Log lines would tear the alternate screen; errors reach the message line.
	if !a.verbose {
		a.log.SetOutput(io.Discard)
	}

	profiles := make([]string, len(a.config.Profiles))
	for i, p := range a.config.Profiles {
		profiles[i] = p.Name
	}
	app := tui.NewApp(tui.AppParams{
		Session:     params,
		SearchDelay: a.config.SearchDelay,
		Profiles:    profiles,
		LoadProfile: a.repo.LoadTree,
	})
	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(a.in),
		tea.WithOutput(a.out),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
