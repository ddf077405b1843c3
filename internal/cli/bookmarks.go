package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakif/navidash/internal/importer"
	"github.com/sakif/navidash/internal/model"
)

func newBookmarksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookmarks",
		Aliases: []string{"bm"},
		Short:   "Show and edit the sidebar bookmark tree",
	}

	cmd.AddCommand(newBookmarksListCmd(app))
	cmd.AddCommand(newBookmarksAddCmd(app))
	cmd.AddCommand(newBookmarksUpdateCmd(app))
	cmd.AddCommand(newBookmarksRmCmd(app))
	cmd.AddCommand(newBookmarksImportCmd(app))
	return cmd
}

func newBookmarksListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the bookmark tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, s *session) error {
				s.refresh(ctx, s.bookmarks.Fetch)
				renderTree(cmd.OutOrStdout(), s.bookmarks.Bookmarks())
				return nil
			})
		},
	}
}

// editBookmarks runs fn against the server's current tree and writes the
// result back before returning.
func editBookmarks(ctx context.Context, s *session, fn func() error) error {
	if err := s.bookmarks.Fetch(ctx); err != nil {
		return fmt.Errorf("fetch bookmarks: %w", err)
	}
	if err := fn(); err != nil {
		return err
	}
	if err := s.bookmarks.Flush(ctx); err != nil {
		return fmt.Errorf("save bookmarks: %w", err)
	}
	return nil
}

func newBookmarksAddCmd(app *App) *cobra.Command {
	var (
		node     model.Bookmark
		parentID string
		folder   bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a link or folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if node.Title == "" {
				return errors.New("--title is required")
			}
			if folder {
				node.URL = ""
				node.Children = []model.Bookmark{}
			} else if node.URL == "" {
				return errors.New("--url is required for a link (use --folder for a folder)")
			}
			node.ID = model.NewID()

			return withSession(cmd, app, func(ctx context.Context, s *session) error {
				err := editBookmarks(ctx, s, func() error {
					return s.bookmarks.Add(node, parentID)
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), node.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&node.Title, "title", "", "Title shown in the sidebar")
	cmd.Flags().StringVar(&node.URL, "url", "", "Link target")
	cmd.Flags().StringVar(&node.Icon, "icon", "", "Icon name")
	cmd.Flags().StringVar(&node.Color, "color", "", "Accent color")
	cmd.Flags().StringVar(&parentID, "parent", "", "Folder id to add under (default: top level)")
	cmd.Flags().BoolVar(&folder, "folder", false, "Create an empty folder instead of a link")
	return cmd
}

func newBookmarksUpdateCmd(app *App) *cobra.Command {
	var title, url, icon, color string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a link or folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch model.BookmarkPatch
			flags := cmd.Flags()
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("url") {
				patch.URL = &url
			}
			if flags.Changed("icon") {
				patch.Icon = &icon
			}
			if flags.Changed("color") {
				patch.Color = &color
			}
			if patch == (model.BookmarkPatch{}) {
				return errors.New("nothing to update: pass at least one of --title, --url, --icon, --color")
			}

			return withSession(cmd, app, func(ctx context.Context, s *session) error {
				return editBookmarks(ctx, s, func() error {
					return s.bookmarks.Update(args[0], patch)
				})
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&url, "url", "", "New link target")
	cmd.Flags().StringVar(&icon, "icon", "", "New icon name")
	cmd.Flags().StringVar(&color, "color", "", "New accent color")
	return cmd
}

func newBookmarksRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove a link, or a folder with everything in it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, s *session) error {
				return editBookmarks(ctx, s, func() error {
					return s.bookmarks.Remove(args[0])
				})
			})
		},
	}
}

func newBookmarksImportCmd(app *App) *cobra.Command {
	var parentID string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a browser bookmark export (Netscape HTML)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			forest, err := importer.ParseNetscape(f)
			f.Close()
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			return withSession(cmd, app, func(ctx context.Context, s *session) error {
				err := editBookmarks(ctx, s, func() error {
					for _, node := range forest {
						if err := s.bookmarks.Add(node, parentID); err != nil {
							return err
						}
					}
					return nil
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d bookmarks\n", model.CountBookmarks(forest))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&parentID, "parent", "", "Folder id to import into (default: top level)")
	return cmd
}
