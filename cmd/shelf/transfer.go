package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/shelf/internal/culler"
	"github.com/nikbrunner/shelf/internal/exporter"
	"github.com/nikbrunner/shelf/internal/importer"
	"github.com/nikbrunner/shelf/internal/model"
)

func newImportCmd(a *app) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "import <file.html>",
		Short: "Import bookmarks from a browser HTML export",
		Long: `Import a Netscape bookmark file. Folders merge with same-named folders at
the same level; entries whose links already exist are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer file.Close()

			src, err := importer.ParseHTMLBookmarks(file)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			sess, err := a.openSession(sessionOptions{})
			if err != nil {
				return err
			}
			if err := locate(sess, at, ""); err != nil {
				return err
			}
			added, skipped, err := sess.Import(src)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Imported %d entries", added)
			if skipped > 0 {
				fmt.Fprintf(a.out, " (%d duplicates skipped)", skipped)
			}
			fmt.Fprintln(a.out)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "folder to import into (default root)")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file.html]",
		Short: "Export the tree as a browser HTML bookmark file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var outputPath string
			if len(args) == 1 {
				outputPath = args[0]
			} else {
				var err error
				if outputPath, err = exporter.DefaultExportPath(); err != nil {
					return fmt.Errorf("default export path: %w", err)
				}
			}

			sess, err := a.openSession(sessionOptions{})
			if err != nil {
				return err
			}
			tree := sess.Tree()
			if err := os.WriteFile(outputPath, []byte(exporter.ExportHTML(tree)), 0644); err != nil {
				return fmt.Errorf("write %s: %w", outputPath, err)
			}

			folders := -1 // root is not exported as a folder
			tree.Walk(func(model.Path, *model.Folder) bool {
				folders++
				return true
			})
			fmt.Fprintf(a.out, "Exported %d entries, %d folders to %s\n",
				model.TotalEntryCount(tree.Root), folders, outputPath)
			return nil
		},
	}
}

func newCullCmd(a *app) *cobra.Command {
	var (
		concurrency int
		timeout     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "cull",
		Short: "Check every link and report dead or unreachable ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession(sessionOptions{})
			if err != nil {
				return err
			}
			targets := culler.CollectTargets(sess.Tree())
			if len(targets) == 0 {
				fmt.Fprintln(a.out, "No links to check")
				return nil
			}

			results := culler.CheckLinks(cmd.Context(), targets, culler.Options{
				Concurrency:    concurrency,
				Timeout:        timeout,
				ExcludeDomains: a.config.CullExcludeDomains,
				OnProgress: func(completed, total int) {
					fmt.Fprintf(a.errOut, "\rChecking links %d/%d", completed, total)
				},
			})
			fmt.Fprintln(a.errOut)

			groups := culler.GroupResults(results)
			if len(groups) == 0 {
				fmt.Fprintf(a.out, "All %d links are healthy\n", len(results))
				return nil
			}
			for _, g := range groups {
				fmt.Fprintf(a.out, "%s (%d)\n", headerStyle.Render(g.Label), len(g.Results))
				for _, r := range g.Results {
					fmt.Fprintf(a.out, "  %s %s\n", r.Entry.Name, mutedStyle.Render(r.Link))
					fmt.Fprintf(a.out, "    %s\n", mutedStyle.Render(fmt.Sprintf("in %s, entry:%d", r.PathDisplay, r.EntryIndex)))
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", 10, "parallel checks")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "per-link timeout")
	return cmd
}
