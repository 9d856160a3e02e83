// Package tui is the interactive folder browser. All state lives in a
// session; the App only tracks the cursor, the open mode and messages.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/session"
	"github.com/nikbrunner/shelf/internal/tui/layout"
)

// Mode is what keys currently drive.
type Mode int

const (
	ModeNormal  Mode = iota
	ModeSearch       // typing a search term
	ModeMove         // typing a destination path
	ModeConfirm      // delete confirmation modal
)

// MessageType selects how the message line is styled.
type MessageType int

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageError
)

// gate approves exactly one destructive operation after the user confirmed
// it in the modal.
type gate struct {
	approved bool
}

func (g *gate) Confirm(context.Context, string, string) (bool, error) {
	ok := g.approved
	g.approved = false
	return ok, nil
}

// App is the main bubbletea model for the browser.
type App struct {
	sess         *session.Session
	gate         *gate
	sched        *tickScheduler
	searchDelay  time.Duration
	profiles     []string
	loadProfile  func(string) (*model.Tree, error)
	keys         KeyMap
	styles       Styles
	layoutConfig layout.LayoutConfig

	view   session.View
	items  []session.Item
	cursor int

	mode  Mode
	input textinput.Model

	confirmTitle string
	confirmDesc  string
	// implicit marks a selection made from the cursor for a single action.
	implicit bool

	messageText string
	messageType MessageType

	// For gg command
	lastKeyWasG bool

	width  int
	height int
}

// AppParams holds parameters for creating a new App. Confirmer and
// SearchScheduler in Session are replaced by the App's own.
type AppParams struct {
	Session     session.Params
	SearchDelay time.Duration
	// Profiles are the names P cycles through; LoadProfile loads one.
	Profiles    []string
	LoadProfile func(name string) (*model.Tree, error)
	Keys        *KeyMap // optional, uses default if nil
	Styles      *Styles // optional, uses default if nil
}

// NewApp creates a new App over a session built from params.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}
	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	g := &gate{}
	sched := &tickScheduler{}
	sp := params.Session
	sp.Confirmer = g
	sp.SearchScheduler = sched

	cfg := layout.DefaultConfig()
	input := textinput.New()
	input.CharLimit = cfg.Input.SearchCharLimit
	input.Width = cfg.Input.Width

	app := App{
		sess:         session.New(sp),
		gate:         g,
		sched:        sched,
		searchDelay:  params.SearchDelay,
		profiles:     params.Profiles,
		loadProfile:  params.LoadProfile,
		keys:         keys,
		styles:       styles,
		layoutConfig: cfg,
		input:        input,
		width:        80,
		height:       24,
	}
	app.refresh()
	return app
}

// Session returns the session the App drives.
func (a App) Session() *session.Session {
	return a.sess
}

// Cursor returns the current cursor position.
func (a App) Cursor() int {
	return a.cursor
}

// Items returns the displayed items, folders first.
func (a App) Items() []session.Item {
	return a.items
}

// Mode returns the current input mode.
func (a App) Mode() Mode {
	return a.mode
}

// Message returns the message line text.
func (a App) Message() string {
	return a.messageText
}

// refresh rebuilds the items from the session and clamps the cursor.
func (a *App) refresh() {
	a.view = a.sess.View()
	a.items = make([]session.Item, 0, len(a.view.Folders)+len(a.view.Entries))
	a.items = append(a.items, a.view.Folders...)
	a.items = append(a.items, a.view.Entries...)
	if a.cursor >= len(a.items) {
		a.cursor = len(a.items) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) setMessage(t MessageType, format string, args ...any) {
	a.messageType = t
	a.messageText = fmt.Sprintf(format, args...)
}

func (a *App) setError(err error) {
	a.setMessage(MessageError, "%v", err)
}

func (a App) current() (session.Item, bool) {
	if a.cursor < len(a.items) {
		return a.items[a.cursor], true
	}
	return session.Item{}, false
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case searchTickMsg:
		if a.sched.fire(msg) {
			a.cursor = 0
			a.refresh()
		}
		return a, nil

	case tea.KeyMsg:
		switch a.mode {
		case ModeSearch:
			return a.updateSearch(msg)
		case ModeMove:
			return a.updateMove(msg)
		case ModeConfirm:
			return a.updateConfirm(msg)
		}
		return a.updateNormal(msg)
	}

	return a, nil
}

func (a App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.cursor = 0
			a.lastKeyWasG = false
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false
	a.messageText = ""

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		if len(a.items) > 0 && a.cursor < len(a.items)-1 {
			a.cursor++
		}

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}

	case key.Matches(msg, a.keys.Bottom):
		if len(a.items) > 0 {
			a.cursor = len(a.items) - 1
		}

	case key.Matches(msg, a.keys.Right):
		a.openCurrent()

	case key.Matches(msg, a.keys.Left):
		if a.view.Searching {
			a.sess.ClearSearch()
		} else if err := a.sess.Up(); err != nil && !errors.Is(err, model.ErrPathNotFound) {
			a.setError(err)
		}
		a.cursor = 0

	case key.Matches(msg, a.keys.Back):
		a.travel(a.sess.Back)

	case key.Matches(msg, a.keys.Forward):
		a.travel(a.sess.Forward)

	case key.Matches(msg, a.keys.Search):
		a.mode = ModeSearch
		a.input.Placeholder = "Search... (.name .tag .link, ; to combine)"
		a.input.CharLimit = a.layoutConfig.Input.SearchCharLimit
		a.input.SetValue(a.view.Term)
		a.input.CursorEnd()
		cmd := a.input.Focus()
		return a, cmd

	case key.Matches(msg, a.keys.SelectMode):
		if a.view.Selecting {
			a.sess.ExitSelectionMode()
		} else {
			a.sess.EnterSelectionMode()
		}

	case key.Matches(msg, a.keys.Toggle):
		if it, ok := a.current(); ok {
			if _, err := a.sess.Toggle(it.Key); err != nil {
				a.setError(err)
			} else if a.cursor < len(a.items)-1 {
				a.cursor++
			}
		}

	case key.Matches(msg, a.keys.SelectAll):
		if n, err := a.sess.SelectAll(); err != nil {
			a.setError(err)
		} else {
			a.setMessage(MessageInfo, "Selected %d item(s)", n)
		}

	case key.Matches(msg, a.keys.Delete):
		if a.ensureSelection() {
			a.confirmTitle, a.confirmDesc = a.describeSelection()
			a.mode = ModeConfirm
		}

	case key.Matches(msg, a.keys.Duplicate):
		if a.ensureSelection() {
			n, err := a.sess.DuplicateSelected()
			a.finishImplicit()
			a.report(err, "Duplicated %d item(s)", n)
		}

	case key.Matches(msg, a.keys.Open):
		if a.ensureSelection() {
			n, err := a.sess.OpenSelected()
			a.finishImplicit()
			a.report(err, "Opened %d link(s)", n)
		}

	case key.Matches(msg, a.keys.Move):
		if a.ensureSelection() {
			a.mode = ModeMove
			a.input.Placeholder = "0/1 (empty for Root)"
			a.input.CharLimit = a.layoutConfig.Input.PathCharLimit
			a.input.SetValue("")
			a.refresh()
			cmd := a.input.Focus()
			return a, cmd
		}

	case key.Matches(msg, a.keys.Sort):
		a.sess.SetSortMode(a.sess.SortMode().Next())
		a.setMessage(MessageInfo, "Sort: %s", a.sess.SortMode().Label())

	case key.Matches(msg, a.keys.Profile):
		a.nextProfile()

	case key.Matches(msg, a.keys.Cancel):
		if a.view.Selecting {
			a.sess.ExitSelectionMode()
		} else if a.view.Searching {
			a.sess.ClearSearch()
			a.cursor = 0
		}
	}

	a.refresh()
	return a, nil
}

// nextProfile loads the profile after the current one and starts the browser
// over on it.
func (a *App) nextProfile() {
	if len(a.profiles) < 2 || a.loadProfile == nil {
		a.setMessage(MessageInfo, "No other profile")
		return
	}
	next := a.profiles[0]
	for i, name := range a.profiles {
		if name == a.sess.Source() {
			next = a.profiles[(i+1)%len(a.profiles)]
			break
		}
	}
	tree, err := a.loadProfile(next)
	if err != nil {
		a.setError(err)
		return
	}
	a.sess.SwitchTree(tree, next)
	a.cursor = 0
	a.setMessage(MessageInfo, "Profile: %s", next)
}

func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.mode = ModeNormal
		a.input.Blur()
		if a.input.Value() == "" {
			a.sess.ClearSearch()
		}
		a.refresh()
		return a, nil

	case key.Matches(msg, a.keys.Submit):
		a.mode = ModeNormal
		a.input.Blur()
		term := a.input.Value()
		if !a.sess.FlushSearch() {
			if current, ok := a.sess.Searching(); !ok || current != term {
				if err := a.sess.ExecuteSearch(term); err != nil && !errors.Is(err, model.ErrEmptyInput) {
					a.setError(err)
				}
			}
		}
		a.cursor = 0
		a.refresh()
		if a.view.Searching && len(a.items) == 0 {
			a.setMessage(MessageInfo, "No matches for %q", term)
		}
		return a, nil
	}

	before := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if a.input.Value() == before {
		return a, cmd
	}

	a.sess.QueueSearch(a.input.Value())
	if a.searchDelay <= 0 {
		a.sess.FlushSearch()
	}
	a.cursor = 0
	a.refresh()
	return a, tea.Batch(cmd, a.sched.tick(a.searchDelay))
}

func (a App) updateMove(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.mode = ModeNormal
		a.input.Blur()
		a.finishImplicit()
		a.refresh()
		return a, nil

	case key.Matches(msg, a.keys.Submit):
		a.mode = ModeNormal
		a.input.Blur()
		dest, err := model.ParsePath(a.input.Value())
		if err == nil {
			var n int
			n, err = a.sess.MoveSelected(dest)
			if err == nil {
				a.setMessage(MessageSuccess, "Moved %d item(s) to %s", n, a.sess.Tree().DisplayPath(dest))
			}
		}
		if err != nil {
			a.setError(err)
		}
		a.finishImplicit()
		a.refresh()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Confirm):
		a.mode = ModeNormal
		a.gate.approved = true
		n, err := a.sess.DeleteSelected(context.Background())
		a.finishImplicit()
		a.report(err, "Deleted %d item(s)", n)
		a.refresh()

	case key.Matches(msg, a.keys.Decline):
		a.mode = ModeNormal
		a.finishImplicit()
		a.setMessage(MessageInfo, "Cancelled")
		a.refresh()
	}
	return a, nil
}

// openCurrent enters the folder under the cursor or activates the entry.
func (a *App) openCurrent() {
	it, ok := a.current()
	if !ok {
		return
	}

	if it.Folder != nil {
		var err error
		if a.view.Searching {
			p, found := a.sess.Tree().PathOf(it.Folder.ID)
			if !found {
				err = model.ErrPathNotFound
			} else {
				err = a.sess.NavigateTo(p)
			}
		} else {
			err = a.sess.Enter(it.Key.Index)
		}
		if err != nil {
			a.setError(err)
			return
		}
		a.cursor = 0
		return
	}

	var act session.Activation
	var err error
	if a.view.Searching {
		act, err = a.sess.ActivateResult(it.Key)
	} else {
		act, err = a.sess.ActivateEntry(it.Key.Index)
	}
	switch {
	case err != nil:
		a.setError(err)
	case act.Action == model.ClickCopyNote:
		a.setMessage(MessageSuccess, "Copied note of %s", it.Entry.Name)
	default:
		a.setMessage(MessageSuccess, "Opened %d link(s)", act.Opened)
	}
}

// travel moves through the history with back or forward.
func (a *App) travel(step func() error) {
	if err := step(); err != nil {
		if errors.Is(err, model.ErrNoHistory) {
			a.setMessage(MessageInfo, "No more history")
			return
		}
		a.setError(err)
		return
	}
	a.cursor = 0
}

// ensureSelection selects the cursor item when nothing is selected yet.
func (a *App) ensureSelection() bool {
	if !a.sess.Selection().Empty() {
		return true
	}
	it, ok := a.current()
	if !ok {
		a.setError(model.ErrNoSelection)
		return false
	}
	if _, err := a.sess.Toggle(it.Key); err != nil {
		a.setError(err)
		return false
	}
	a.implicit = true
	return true
}

// finishImplicit leaves the selection mode an ensureSelection entered.
func (a *App) finishImplicit() {
	if a.implicit {
		a.sess.ExitSelectionMode()
		a.implicit = false
	}
}

// describeSelection builds the confirmation text for the selected items.
func (a *App) describeSelection() (string, string) {
	a.refresh()
	var folders []*model.Folder
	var entries []*model.Entry
	for _, it := range a.items {
		if !it.Selected {
			continue
		}
		if it.Folder != nil {
			folders = append(folders, it.Folder)
		} else {
			entries = append(entries, it.Entry)
		}
	}
	return session.DescribeDeletion(folders, entries)
}

func (a *App) report(err error, format string, n int) {
	if err != nil {
		a.setError(err)
		return
	}
	a.setMessage(MessageSuccess, format, n)
}
