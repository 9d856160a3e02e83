package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/shelf/internal/model"
)

func newSettingsCmd(a *app) *cobra.Command {
	var (
		folderColor, entryColor   string
		folderAspect, entryAspect string
		folderTags, entryTags     string
		click                     string
		folderWhite               bool
		linksOpen, noteOpen       bool
		tagsOpen                  bool
	)
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the defaults of the active profile",
		Long: `Show the profile's settings. With flags, change them first.

New folders and entries take their color, aspect ratio and tags from these
defaults when created without one.`,
		Example: `  shelf settings
  shelf settings --entry-color "#6c757d" --click copyNote
  shelf settings --entry-tags "inbox;"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession(sessionOptions{})
			if err != nil {
				return err
			}

			next := sess.Settings().Clone()
			flags := cmd.Flags()
			strs := []struct {
				flag string
				from string
				to   *string
			}{
				{"folder-color", folderColor, &next.DefaultFolderColor},
				{"entry-color", entryColor, &next.DefaultEntryColor},
				{"folder-aspect", folderAspect, &next.DefaultFolderAspectRatio},
				{"entry-aspect", entryAspect, &next.DefaultEntryAspectRatio},
				{"click", click, &next.EntryClickAction},
			}
			bools := []struct {
				flag string
				from bool
				to   *bool
			}{
				{"folder-white-text", folderWhite, &next.DefaultFolderWhiteText},
				{"links-expanded", linksOpen, &next.LinksExpandedByDefault},
				{"note-expanded", noteOpen, &next.NoteExpandedByDefault},
				{"tags-expanded", tagsOpen, &next.TagsExpandedByDefault},
			}
			changed := false
			for _, s := range strs {
				if flags.Changed(s.flag) {
					*s.to, changed = s.from, true
				}
			}
			for _, b := range bools {
				if flags.Changed(b.flag) {
					*b.to, changed = b.from, true
				}
			}
			for flag, tags := range map[string]struct {
				input string
				to    *[]string
			}{
				"folder-tags": {folderTags, &next.DefaultFolderTags},
				"entry-tags":  {entryTags, &next.DefaultEntryTags},
			} {
				if !flags.Changed(flag) {
					continue
				}
				parsed, err := model.ParseTags(tags.input)
				if err != nil {
					return err
				}
				*tags.to, changed = parsed, true
			}

			if changed {
				if err := sess.UpdateSettings(next); err != nil {
					return err
				}
			}
			printSettings(a, sess.Settings())
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&folderColor, "folder-color", "", "default folder color")
	f.StringVar(&entryColor, "entry-color", "", "default entry color")
	f.StringVar(&folderAspect, "folder-aspect", "", "default folder aspect ratio")
	f.StringVar(&entryAspect, "entry-aspect", "", "default entry aspect ratio")
	f.StringVar(&folderTags, "folder-tags", "", "tags given to new folders, semicolon-separated")
	f.StringVar(&entryTags, "entry-tags", "", "tags given to new entries, semicolon-separated")
	f.StringVar(&click, "click", "", "entry click action: openLinks or copyNote")
	f.BoolVar(&folderWhite, "folder-white-text", false, "new folders use white text")
	f.BoolVar(&linksOpen, "links-expanded", false, "show entry links expanded")
	f.BoolVar(&noteOpen, "note-expanded", false, "show entry notes expanded")
	f.BoolVar(&tagsOpen, "tags-expanded", false, "show tags expanded")
	return cmd
}

func printSettings(a *app, s *model.Settings) {
	rows := []struct{ name, value string }{
		{"folder color", s.DefaultFolderColor},
		{"folder aspect", s.DefaultFolderAspectRatio},
		{"folder white text", fmt.Sprint(s.DefaultFolderWhiteText)},
		{"folder tags", model.FormatTags(s.DefaultFolderTags)},
		{"entry color", s.DefaultEntryColor},
		{"entry aspect", s.DefaultEntryAspectRatio},
		{"entry tags", model.FormatTags(s.DefaultEntryTags)},
		{"entry click", s.EntryClickAction},
		{"links expanded", fmt.Sprint(s.LinksExpandedByDefault)},
		{"note expanded", fmt.Sprint(s.NoteExpandedByDefault)},
		{"tags expanded", fmt.Sprint(s.TagsExpandedByDefault)},
		{"slots", fmt.Sprint(len(s.Slots))},
	}
	for _, r := range rows {
		value := r.value
		if value == "" {
			value = mutedStyle.Render("-")
		}
		fmt.Fprintf(a.out, "%-18s %s\n", r.name, value)
	}
}
