package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/shelf/internal/exporter"
	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/picker"
	"github.com/nikbrunner/shelf/internal/search"
	"github.com/nikbrunner/shelf/internal/selection"
	"github.com/nikbrunner/shelf/internal/session"
)

func newLsCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession(sessionOptions{})
			if err != nil {
				return err
			}
			at := ""
			if len(args) == 1 {
				at = args[0]
			}
			if err := locate(sess, at, ""); err != nil {
				return err
			}
			if asJSON {
				f, err := sess.CurrentFolder()
				if err != nil {
					return err
				}
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(f)
			}
			printView(a.out, sess.View())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the folder as JSON")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search names, links and tags below a folder",
		Long: `Search every folder and entry below a folder.

Plain words match names, links and tags. Keyword clauses narrow the match and
are joined with ";" (all must match):

  .name  .fname  .ename   names (any, folders, entries)
  .tag   .ftag   .etag    tags
  .link                   entry links

Examples:
  shelf search golang
  shelf search ".ename go; .tag docs"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession(sessionOptions{})
			if err != nil {
				return err
			}
			if err := locate(sess, at, strings.Join(args, " ")); err != nil {
				return err
			}
			printView(a.out, sess.View())
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "folder to search from (default root)")
	return cmd
}

func newFindCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "find <query>",
		Short: "Fuzzy find an entry by name and activate it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession(sessionOptions{})
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			results := search.FuzzyEntries(sess.Tree(), query)

			var chosen *search.FuzzyResult
			switch len(results) {
			case 0:
				fmt.Fprintf(a.out, "No entries found for '%s'\n", query)
				return nil
			case 1:
				chosen = &results[0]
			default:
				program := tea.NewProgram(picker.New(results, query),
					tea.WithContext(cmd.Context()),
					tea.WithInput(a.in),
					tea.WithOutput(a.errOut),
				)
				final, err := program.Run()
				if err != nil {
					return fmt.Errorf("run picker: %w", err)
				}
				chosen = final.(picker.Picker).Selected()
				if chosen == nil {
					return nil
				}
			}

			if err := sess.NavigateTo(chosen.Path); err != nil {
				return err
			}
			act, err := sess.ActivateEntry(chosen.EntryIndex)
			if err != nil {
				return err
			}
			printActivation(a, chosen.Entry, act)
			return nil
		},
	}
}

func printActivation(a *app, e *model.Entry, act session.Activation) {
	if act.Action == model.ClickCopyNote {
		fmt.Fprintf(a.out, "Copied note of %s\n", e.Name)
		return
	}
	fmt.Fprintf(a.out, "Opened %d link(s) of %s\n", act.Opened, e.Name)
}

func newMkdirCmd(a *app) *cobra.Command {
	var (
		at    string
		color string
		tags  string
	)
	cmd := &cobra.Command{
		Use:   "mkdir <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession(sessionOptions{})
			if err != nil {
				return err
			}
			if err := locate(sess, at, ""); err != nil {
				return err
			}
			tagList, err := model.ParseTags(tags)
			if err != nil {
				return err
			}
			f, err := sess.CreateFolder(model.NewFolderParams{Name: args[0], Color: color, Tags: tagList})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created folder %s in %s\n", f.Name, sess.View().PathDisplay)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "parent folder path (default root)")
	cmd.Flags().StringVar(&color, "color", "", "folder color, e.g. #28a745")
	cmd.Flags().StringVar(&tags, "tags", "", `semicolon-separated tags, e.g. "go; docs;"`)
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var (
		at   string
		note string
		tags string
		into int
	)
	cmd := &cobra.Command{
		Use:   "add <name> [links...]",
		Short: "Create an entry",
		Long: `Create an entry with a name and any number of links.

With --into N and a single link argument (no name), the entry is created in
subfolder N of the target folder and named after the link's host.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession(sessionOptions{})
			if err != nil {
				return err
			}
			if err := locate(sess, at, ""); err != nil {
				return err
			}
			if into >= 0 {
				if len(args) != 1 {
					return fmt.Errorf("--into takes exactly one link: %w", model.ErrEmptyInput)
				}
				e, err := sess.CreateEntryFromLink(into, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Created entry %s\n", e.Name)
				return nil
			}
			tagList, err := model.ParseTags(tags)
			if err != nil {
				return err
			}
			e, err := sess.CreateEntry(model.NewEntryParams{
				Name:  args[0],
				Links: args[1:],
				Note:  note,
				Tags:  tagList,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created entry %s with %d link(s)\n", e.Name, len(e.Links))
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "folder path (default root)")
	cmd.Flags().StringVar(&note, "note", "", "entry note")
	cmd.Flags().StringVar(&tags, "tags", "", `semicolon-separated tags, e.g. "go; docs;"`)
	cmd.Flags().IntVar(&into, "into", -1, "create from a link inside subfolder N")
	return cmd
}

func newRmCmd(a *app) *cobra.Command {
	var (
		scope scopeFlags
		yes   bool
	)
	cmd := &cobra.Command{
		Use:   "rm <keys...>",
		Short: "Delete folders and entries",
		Example: `  shelf rm entry:0 folder:2 --at 1
  shelf rm entry:3 --search rust --yes`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession(sessionOptions{assumeYes: yes})
			if err != nil {
				return err
			}
			if err := locate(sess, scope.at, scope.search); err != nil {
				return err
			}
			if len(args) == 1 && scope.search == "" {
				if err := deleteOne(cmd, sess, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "Deleted 1 item(s)")
				return nil
			}
			if err := selectKeys(sess, args); err != nil {
				return err
			}
			n, err := sess.DeleteSelected(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted %d item(s)\n", n)
			return nil
		},
	}
	scope.register(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// deleteOne removes a single item of the current folder.
func deleteOne(cmd *cobra.Command, sess *session.Session, arg string) error {
	k, err := selection.ParseKey(arg)
	if err != nil {
		return err
	}
	if k.Kind == selection.KindFolder {
		return sess.DeleteFolder(cmd.Context(), k.Index)
	}
	return sess.DeleteEntry(cmd.Context(), k.Index)
}

func newMvCmd(a *app) *cobra.Command {
	var (
		scope scopeFlags
		to    string
	)
	cmd := &cobra.Command{
		Use:   "mv <keys...> --to <path>",
		Short: "Move folders and entries into another folder",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, err := model.ParsePath(to)
			if err != nil {
				return err
			}
			sess, err := a.openSession(sessionOptions{})
			if err != nil {
				return err
			}
			if err := locate(sess, scope.at, scope.search); err != nil {
				return err
			}
			if err := selectKeys(sess, args); err != nil {
				return err
			}
			display := sess.Tree().DisplayPath(dest)
			n, err := sess.MoveSelected(dest)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Moved %d item(s) to %s\n", n, display)
			return nil
		},
	}
	scope.register(cmd)
	cmd.Flags().StringVar(&to, "to", "", "destination folder path")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newDupCmd(a *app) *cobra.Command {
	var scope scopeFlags
	cmd := &cobra.Command{
		Use:   "dup <keys...>",
		Short: "Duplicate folders and entries",
		Long:  "Duplicate folders and entries. Copies are named with a _Copy suffix and added to the folder the keys are addressed in.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession(sessionOptions{})
			if err != nil {
				return err
			}
			if err := locate(sess, scope.at, scope.search); err != nil {
				return err
			}
			if err := selectKeys(sess, args); err != nil {
				return err
			}
			n, err := sess.DuplicateSelected()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Duplicated %d item(s)\n", n)
			return nil
		},
	}
	scope.register(cmd)
	return cmd
}

func newExportJSONCmd(a *app) *cobra.Command {
	var (
		scope  scopeFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "export-json <keys...>",
		Short: "Export folders and entries as a standalone JSON document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession(sessionOptions{})
			if err != nil {
				return err
			}
			if err := locate(sess, scope.at, scope.search); err != nil {
				return err
			}
			if err := selectKeys(sess, args); err != nil {
				return err
			}
			doc, err := sess.ExportSelected()
			if err != nil {
				return err
			}
			if output == "" {
				return exporter.ExportJSON(a.out, doc)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := exporter.ExportJSON(f, doc); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(a.errOut, "Exported %d folder(s) and %d entr(y/ies) to %s\n",
				len(doc.Root.Folders), len(doc.Root.Entries), output)
			return nil
		},
	}
	scope.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func newOpenCmd(a *app) *cobra.Command {
	var scope scopeFlags
	cmd := &cobra.Command{
		Use:   "open <keys...>",
		Short: "Open every link of the given items, folders recursively",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession(sessionOptions{})
			if err != nil {
				return err
			}
			if err := locate(sess, scope.at, scope.search); err != nil {
				return err
			}
			if err := selectKeys(sess, args); err != nil {
				return err
			}
			n, err := sess.OpenSelected()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Opened %d link(s)\n", n)
			return nil
		},
	}
	scope.register(cmd)
	return cmd
}
