package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sakif/navidash/internal/model"
)

func newWidgetsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "widgets",
		Short: "Show and arrange dashboard widgets",
	}

	cmd.AddCommand(newWidgetsListCmd(app))
	cmd.AddCommand(newWidgetsAddCmd(app))
	cmd.AddCommand(newWidgetsResizeCmd(app))
	cmd.AddCommand(newWidgetsMoveCmd(app))
	cmd.AddCommand(newWidgetsRmCmd(app))
	return cmd
}

func newWidgetsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the widget grid as a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, s *session) error {
				s.refresh(ctx, s.widgets.Fetch)
				renderWidgets(cmd.OutOrStdout(), s.widgets.Widgets())
				return nil
			})
		},
	}
}

// editWidgets runs fn against the server's current list and waits for the
// save. A save that was rolled back fails the command.
func editWidgets(ctx context.Context, s *session, fn func() error) error {
	if err := s.widgets.Fetch(ctx); err != nil {
		return fmt.Errorf("fetch widgets: %w", err)
	}
	if err := fn(); err != nil {
		return err
	}
	s.widgets.Wait()
	if s.notices.failed() {
		return errors.New("widget change was not saved")
	}
	return nil
}

func newWidgetsAddCmd(app *App) *cobra.Command {
	var config string

	types := make([]string, len(model.WidgetTypes))
	for i, t := range model.WidgetTypes {
		types[i] = string(t)
	}

	cmd := &cobra.Command{
		Use:       "add <type>",
		Short:     "Place a widget in the first free row",
		Long:      "Place a widget in the first free row.\n\nTypes: " + strings.Join(types, ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: types,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := model.WidgetType(args[0])
			if !t.Valid() {
				return fmt.Errorf("unknown widget type %q (one of: %s)", args[0], strings.Join(types, ", "))
			}
			var raw json.RawMessage
			if config != "" {
				if !json.Valid([]byte(config)) {
					return errors.New("--config is not valid JSON")
				}
				raw = json.RawMessage(config)
			}

			return withSession(cmd, app, func(ctx context.Context, s *session) error {
				var placed model.Widget
				err := editWidgets(ctx, s, func() error {
					var err error
					placed, err = s.widgets.Place(t, raw)
					return err
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), placed.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&config, "config", "", "Widget config as a JSON object")
	return cmd
}

// gridArgs parses the two integer arguments of resize and move.
func gridArgs(args []string, floor int) (a, b int, err error) {
	vals := make([]int, 2)
	for i, s := range args {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, fmt.Errorf("%q is not an integer", s)
		}
		if v < floor {
			return 0, 0, fmt.Errorf("%d is below the minimum of %d", v, floor)
		}
		vals[i] = v
	}
	return vals[0], vals[1], nil
}

func newWidgetsResizeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resize <id> <w> <h>",
		Short: "Change a widget's size in grid units",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, h, err := gridArgs(args[1:], 1)
			if err != nil {
				return err
			}
			size := model.Size{W: w, H: h}
			return withSession(cmd, app, func(ctx context.Context, s *session) error {
				return editWidgets(ctx, s, func() error {
					return s.widgets.Update(args[0], model.WidgetPatch{Size: &size})
				})
			})
		},
	}
}

func newWidgetsMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <x> <y>",
		Short: "Move a widget to a grid position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := gridArgs(args[1:], 0)
			if err != nil {
				return err
			}
			pos := model.Position{X: x, Y: y}
			return withSession(cmd, app, func(ctx context.Context, s *session) error {
				return editWidgets(ctx, s, func() error {
					return s.widgets.Update(args[0], model.WidgetPatch{Position: &pos})
				})
			})
		},
	}
}

func newWidgetsRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove a widget",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, s *session) error {
				return editWidgets(ctx, s, func() error {
					return s.widgets.Remove(args[0])
				})
			})
		},
	}
}
