package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sakif/navidash/internal/state"
)

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change the dashboard appearance",
	}

	cmd.AddCommand(newSettingsGetCmd(app))
	cmd.AddCommand(newSettingsSetCmd(app))
	cmd.AddCommand(newSettingsResetCmd(app))
	return cmd
}

func newSettingsGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Print every setting, or the value of one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && !slices.Contains(settingKeys, args[0]) {
				return fmt.Errorf("unknown setting %q", args[0])
			}
			return withSession(cmd, app, func(ctx context.Context, s *session) error {
				s.refresh(ctx, s.settings.Fetch)
				current := s.settings.Settings()
				if len(args) == 1 {
					fmt.Fprintln(cmd.OutOrStdout(), settingValue(current, args[0]))
					return nil
				}
				renderSettings(cmd.OutOrStdout(), current)
				return nil
			})
		},
	}
}

// editSettings runs fn against the server's current record and writes the
// result back before returning.
func editSettings(ctx context.Context, s *session, fn func() error) error {
	if err := s.settings.Fetch(ctx); err != nil {
		return fmt.Errorf("fetch settings: %w", err)
	}
	if err := fn(); err != nil {
		return err
	}
	if err := s.settings.Flush(ctx); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func newSettingsSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "set KEY=VALUE...",
		Short:   "Change one or more settings",
		Example: "  navidash settings set themeColor=#3b82f6 backgroundBlur=4",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := make([]state.Field, 0, len(args))
			for _, arg := range args {
				key, value, ok := strings.Cut(arg, "=")
				if !ok || key == "" {
					return fmt.Errorf("%q is not KEY=VALUE", arg)
				}
				fields = append(fields, state.Field{Key: key, Value: value})
			}

			return withSession(cmd, app, func(ctx context.Context, s *session) error {
				return editSettings(ctx, s, func() error {
					return s.settings.SetFields(fields...)
				})
			})
		},
	}
}

func newSettingsResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default appearance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, s *session) error {
				return editSettings(ctx, s, func() error {
					s.settings.Reset()
					return nil
				})
			})
		},
	}
}
