package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/selection"
)

// editFlags are the fields "shelf edit" can replace. Only flags given on the
// command line change anything.
type editFlags struct {
	name   string
	color  string
	cover  string
	aspect string
	tags   string
	note   string
	links  []string
	white  bool
}

func (f *editFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "new name")
	cmd.Flags().StringVar(&f.color, "color", "", "hex color, empty to clear")
	cmd.Flags().StringVar(&f.cover, "cover", "", "local cover image, empty to clear")
	cmd.Flags().StringVar(&f.aspect, "aspect", "", "card aspect ratio, e.g. 8:3")
	cmd.Flags().StringVar(&f.tags, "tags", "", `semicolon-separated tags, e.g. "go; docs;"`)
	cmd.Flags().StringVar(&f.note, "note", "", "entry note")
	cmd.Flags().StringSliceVar(&f.links, "links", nil, "replace all entry links")
	cmd.Flags().BoolVar(&f.white, "white-text", false, "folder text in white")
}

func (f *editFlags) folderEdit(cmd *cobra.Command, folder *model.Folder) (model.FolderEdit, error) {
	if cmd.Flags().Changed("note") || cmd.Flags().Changed("links") {
		return model.FolderEdit{}, &model.ValidationError{Field: "key", Message: "folders have no note or links"}
	}
	edit := model.FolderEdit{
		Name:        folder.Name,
		Color:       folder.Color,
		Cover:       folder.Cover,
		AspectRatio: folder.AspectRatio,
		WhiteText:   folder.WhiteText != nil && *folder.WhiteText,
		Tags:        folder.FolderTags,
	}
	if cmd.Flags().Changed("white-text") {
		edit.WhiteText = f.white
	}
	return edit, f.apply(cmd, &edit.Name, &edit.Color, &edit.Cover, &edit.AspectRatio, &edit.Tags)
}

func (f *editFlags) entryEdit(cmd *cobra.Command, e *model.Entry) (model.EntryEdit, error) {
	if cmd.Flags().Changed("white-text") {
		return model.EntryEdit{}, &model.ValidationError{Field: "key", Message: "entries have no text color"}
	}
	edit := model.EntryEdit{
		Name:        e.Name,
		Color:       e.Color,
		Cover:       e.Cover,
		AspectRatio: e.AspectRatio,
		Links:       e.Links,
		Note:        e.Note,
		Tags:        e.EntryTags,
	}
	if cmd.Flags().Changed("note") {
		edit.Note = f.note
	}
	if cmd.Flags().Changed("links") {
		edit.Links = f.links
	}
	return edit, f.apply(cmd, &edit.Name, &edit.Color, &edit.Cover, &edit.AspectRatio, &edit.Tags)
}

// apply copies the shared flags that were set.
func (f *editFlags) apply(cmd *cobra.Command, name, color, cover, aspect *string, tags *[]string) error {
	if cmd.Flags().Changed("name") {
		*name = f.name
	}
	if cmd.Flags().Changed("color") {
		*color = f.color
	}
	if cmd.Flags().Changed("cover") {
		*cover = f.cover
	}
	if cmd.Flags().Changed("aspect") {
		*aspect = f.aspect
	}
	if cmd.Flags().Changed("tags") {
		parsed, err := model.ParseTags(f.tags)
		if err != nil {
			return err
		}
		*tags = parsed
	}
	return nil
}

func newEditCmd(a *app) *cobra.Command {
	var (
		at    string
		flags editFlags
	)
	cmd := &cobra.Command{
		Use:   "edit <key>",
		Short: "Edit a folder or entry",
		Example: `  shelf edit folder:0 --name Work --color "#1e90ff"
  shelf edit entry:2 --at 0 --tags "go; docs;" --note "read later"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := selection.ParseKey(args[0])
			if err != nil {
				return err
			}
			sess, err := a.openSession(sessionOptions{})
			if err != nil {
				return err
			}
			if err := locate(sess, at, ""); err != nil {
				return err
			}
			parent, err := sess.CurrentFolder()
			if err != nil {
				return err
			}

			var changes []string
			if k.Kind == selection.KindFolder {
				f, err := parent.FolderAt(k.Index)
				if err != nil {
					return err
				}
				edit, err := flags.folderEdit(cmd, f)
				if err != nil {
					return err
				}
				if changes, err = sess.EditFolder(k.Index, edit); err != nil {
					return err
				}
			} else {
				e, err := parent.EntryAt(k.Index)
				if err != nil {
					return err
				}
				edit, err := flags.entryEdit(cmd, e)
				if err != nil {
					return err
				}
				if changes, err = sess.EditEntry(k.Index, edit); err != nil {
					return err
				}
			}

			if len(changes) == 0 {
				fmt.Fprintln(a.out, "No changes")
				return nil
			}
			fmt.Fprintf(a.out, "Changed %s\n", strings.Join(changes, ", "))
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "parent folder path (default root)")
	flags.register(cmd)
	return cmd
}

func newLinkCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Manage entry links",
	}

	var at string
	add := &cobra.Command{
		Use:     "add <entry:N> <url>",
		Short:   "Append a link to an entry",
		Example: `  shelf link add entry:0 https://pkg.go.dev --at 1`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := selection.ParseKey(args[0])
			if err != nil {
				return err
			}
			if k.Kind != selection.KindEntry {
				return &model.ValidationError{Field: "key", Message: "links belong to entries, use entry:N"}
			}
			sess, err := a.openSession(sessionOptions{})
			if err != nil {
				return err
			}
			if err := locate(sess, at, ""); err != nil {
				return err
			}
			if err := sess.AddLinkToEntry(k.Index, args[1]); err != nil {
				return err
			}
			parent, err := sess.CurrentFolder()
			if err != nil {
				return err
			}
			e, err := parent.EntryAt(k.Index)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Added link to %s (%d link(s))\n", e.Name, len(e.Links))
			return nil
		},
	}
	add.Flags().StringVar(&at, "at", "", "folder path (default root)")

	cmd.AddCommand(add)
	return cmd
}
