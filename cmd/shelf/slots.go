package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/storage"
)

func newSlotCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slot",
		Short: "Manage named folder shortcuts",
	}

	var at string
	save := &cobra.Command{
		Use:   "save <name>",
		Short: "Save a folder path under a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession(sessionOptions{})
			if err != nil {
				return err
			}
			if err := locate(sess, at, ""); err != nil {
				return err
			}
			if err := sess.SaveSlot(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Saved slot %s -> %s\n", args[0], sess.View().PathDisplay)
			return nil
		},
	}
	save.Flags().StringVar(&at, "at", "", "folder path (default root)")

	goCmd := &cobra.Command{
		Use:   "go <name>",
		Short: "List the folder a slot points to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession(sessionOptions{})
			if err != nil {
				return err
			}
			if err := sess.GoToSlot(args[0]); err != nil {
				return err
			}
			printView(a.out, sess.View())
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved slots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession(sessionOptions{})
			if err != nil {
				return err
			}
			slots := sess.Settings().Slots
			if len(slots) == 0 {
				fmt.Fprintln(a.out, "No slots saved")
				return nil
			}
			tree := sess.Tree()
			for _, s := range slots {
				display := mutedStyle.Render("(missing)")
				if _, err := tree.Resolve(s.Path); err == nil {
					display = tree.DisplayPath(s.Path)
				}
				fmt.Fprintf(a.out, "%s %s %s\n", keyStyle.Render(s.Name), s.Path, display)
			}
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession(sessionOptions{})
			if err != nil {
				return err
			}
			return sess.DeleteSlot(args[0])
		},
	}

	cmd.AddCommand(save, goCmd, list, rm)
	return cmd
}

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage profiles (named bookmark files)",
		Long: `Each profile names one document. A path ending in .db, .sqlite or .sqlite3
is stored in SQLite, anything else as JSON. Relative paths live next to the
config file.`,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range a.config.Profiles {
				mark := "  "
				if p.Name == a.config.ActiveProfile {
					mark = markStyle.Render("* ")
				}
				resolved, err := a.config.Profile(p.Name)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s%s %s\n", mark, keyStyle.Render(p.Name), mutedStyle.Render(resolved.Path))
			}
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <name> <path>",
		Short: "Add a profile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.updateConfig(func(c *storage.Config) error { return c.AddProfile(args[0], args[1]) })
		},
	}

	rm := &cobra.Command{
		Use:   "rm <name>",
		Short: "Remove a profile (its file is kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.updateConfig(func(c *storage.Config) error { return c.RemoveProfile(args[0]) })
		},
	}

	rename := &cobra.Command{
		Use:   "rename <from> <to>",
		Short: "Rename a profile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.updateConfig(func(c *storage.Config) error { return c.RenameProfile(args[0], args[1]) })
		},
	}

	use := &cobra.Command{
		Use:   "use <name>",
		Short: "Make a profile the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.updateConfig(func(c *storage.Config) error { return c.SetActive(args[0]) }); err != nil {
				return err
			}
			sess, err := a.openSession(sessionOptions{})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Using %s (%d entries)\n", sess.Source(), model.TotalEntryCount(sess.Tree().Root))
			return nil
		},
	}

	cmd.AddCommand(list, add, rm, rename, use)
	return cmd
}

func (a *app) updateConfig(change func(*storage.Config) error) error {
	if err := change(a.config); err != nil {
		return err
	}
	return a.config.Save()
}
