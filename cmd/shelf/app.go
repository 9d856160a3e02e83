package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nikbrunner/shelf/internal/launcher"
	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/picker"
	"github.com/nikbrunner/shelf/internal/selection"
	"github.com/nikbrunner/shelf/internal/session"
	"github.com/nikbrunner/shelf/internal/sorting"
	"github.com/nikbrunner/shelf/internal/storage"
)

// app carries what every command needs: flags, config, logger and the
// repository of the active profile.
type app struct {
	configPath string
	profile    string
	sortMode   string
	verbose    bool

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	log    *logrus.Logger
	config *storage.Config
	repo   *storage.Repository
	saver  *storage.AutoSaver

	saveMu   sync.Mutex
	saveErrs []error
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "shelf",
		Short: "A hierarchical bookmark organizer",
		Long: `shelf keeps entries (named groups of links with a note and tags) in
nested folders.

Folders are addressed by index paths such as 0/2/1; an empty path or "/"
is the root. Items inside a folder are addressed by keys: folder:N or entry:N,
as printed by "shelf ls".`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.setup,
		// No command: run the browser.
		RunE: a.browse,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.config/shelf/config.json)")
	root.PersistentFlags().StringVarP(&a.profile, "profile", "p", "", "profile to use instead of the active one")
	root.PersistentFlags().StringVar(&a.sortMode, "sort", "", "sort mode: name-asc, name-desc, count-asc, count-desc, none")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newBrowseCmd(a),
		newLsCmd(a),
		newSearchCmd(a),
		newFindCmd(a),
		newMkdirCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newLinkCmd(a),
		newRmCmd(a),
		newMvCmd(a),
		newDupCmd(a),
		newExportJSONCmd(a),
		newOpenCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newCullCmd(a),
		newSlotCmd(a),
		newProfileCmd(a),
		newSettingsCmd(a),
	)
	return root
}

// execute runs one invocation. Pending saves are written even when the
// command fails, since a failing command may already have changed the tree.
func execute(ctx context.Context, a *app, args []string) error {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	err := root.ExecuteContext(ctx)
	return errors.Join(err, a.finish())
}

// setup loads the config and builds the logger, repository and autosaver.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	path := a.configPath
	if path == "" {
		var err error
		if path, err = storage.DefaultConfigFilePath(); err != nil {
			return fmt.Errorf("config path: %w", err)
		}
	}
	config, err := storage.LoadConfig(path, newLogger(a.errOut, "", a.verbose))
	if err != nil {
		return err
	}
	a.config = config
	a.log = newLogger(a.errOut, config.LogLevel, a.verbose)
	a.repo = storage.NewRepository(config, a.log)

	a.saver = storage.NewAutoSaver(a.repo, config.SaveDelay, a.log)
	a.saver.OnError = func(err error) {
		a.saveMu.Lock()
		a.saveErrs = append(a.saveErrs, err)
		a.saveMu.Unlock()
	}
	return nil
}

// finish writes any pending autosave and closes the repository.
func (a *app) finish() error {
	if a.repo == nil {
		return nil
	}
	a.saver.Flush()
	a.saveMu.Lock()
	errs := append([]error(nil), a.saveErrs...)
	a.saveMu.Unlock()
	return errors.Join(append(errs, a.repo.Close())...)
}

func newLogger(w io.Writer, level string, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(logrus.WarnLevel)
	if lvl, err := logrus.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// source returns the profile the command works on.
func (a *app) source() (string, error) {
	if a.profile != "" {
		if _, err := a.config.Profile(a.profile); err != nil {
			return "", err
		}
		return a.profile, nil
	}
	p, err := a.config.Active()
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

type sessionOptions struct {
	// assumeYes approves destructive operations without asking.
	assumeYes bool
}

// sessionParams loads the profile's tree and wires the collaborators every
// session shares.
func (a *app) sessionParams() (session.Params, error) {
	source, err := a.source()
	if err != nil {
		return session.Params{}, err
	}
	tree, err := a.repo.LoadTree(source)
	if err != nil {
		return session.Params{}, err
	}
	modeName := a.sortMode
	if modeName == "" {
		modeName = a.config.SortMode
	}
	mode, err := sorting.ParseMode(modeName)
	if err != nil {
		return session.Params{}, err
	}

	desktop := launcher.New(launcher.WithLogger(a.log))
	return session.Params{
		Tree:      tree,
		Source:    source,
		SortMode:  mode,
		Persister: a.saver,
		Opener:    desktop,
		Clipboard: desktop,
		Logger:    a.log,
	}, nil
}

// openSession loads the profile's tree into a new session.
func (a *app) openSession(opts sessionOptions) (*session.Session, error) {
	params, err := a.sessionParams()
	if err != nil {
		return nil, err
	}
	params.Confirmer = a.confirmer(opts.assumeYes)
	return session.New(params), nil
}

// confirmer prompts on an interactive terminal and declines otherwise.
func (a *app) confirmer(assumeYes bool) session.Confirmer {
	if assumeYes {
		return session.ConfirmFunc(func(context.Context, string, string) (bool, error) {
			return true, nil
		})
	}
	if f, ok := a.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return picker.NewPrompter(a.in, a.errOut)
	}
	return session.ConfirmFunc(func(context.Context, string, string) (bool, error) {
		return false, fmt.Errorf("stdin is not a terminal, pass --yes to confirm: %w", model.ErrCancelled)
	})
}

// locate opens the folder at, running term as a search there when given.
func locate(sess *session.Session, at, term string) error {
	p, err := model.ParsePath(at)
	if err != nil {
		return err
	}
	if err := sess.NavigateTo(p); err != nil {
		return err
	}
	if strings.TrimSpace(term) != "" {
		return sess.ExecuteSearch(term)
	}
	return nil
}

// selectKeys enters selection mode and selects every key in args.
func selectKeys(sess *session.Session, args []string) error {
	sess.EnterSelectionMode()
	for _, arg := range args {
		k, err := selection.ParseKey(arg)
		if err != nil {
			return err
		}
		if sess.Selection().Has(k) {
			continue
		}
		if _, err := sess.Toggle(k); err != nil {
			return err
		}
	}
	return nil
}

// scopeFlags are shared by commands that act on items of one folder or of
// one search.
type scopeFlags struct {
	at     string
	search string
}

func (f *scopeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.at, "at", "", "folder path, e.g. 0/2 (default root)")
	cmd.Flags().StringVar(&f.search, "search", "", "address keys within the results of this search")
}
