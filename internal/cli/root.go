// Package cli is the navidash command tree.
//
// Every command builds the same client stack: an HTTP client for the server,
// a SQLite file holding the three local slots, and the bookmark, widget and
// settings stores on top of both. Reads paint from the local slots and then
// refresh from the server; writes refresh first, mutate, and wait for the
// save to settle before the process exits.
package cli

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
)

// App holds the persistent flags shared by every subcommand.
type App struct {
	Server  string
	Cache   string
	Demo    bool
	Verbose bool
	Timeout time.Duration
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "navidash",
		Short:        "Command-line client for a navidash dashboard server",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Show the sidebar tree
  navidash bookmarks list

  # Add a link under a folder
  navidash bookmarks add --title Go --url https://go.dev --parent dev

  # Place a clock widget in the first free row
  navidash widgets add clock

  # Keep the local cache in sync with the server
  navidash sync --interval 10s
`),
	}

	cmd.PersistentFlags().StringVar(&app.Server, "server", envOr("NAVIDASH_SERVER", "http://localhost:8080"), "Base URL of the navidash server")
	cmd.PersistentFlags().StringVar(&app.Cache, "cache", envOr("NAVIDASH_CACHE", defaultCachePath()), "SQLite file holding the local copy of each document")
	cmd.PersistentFlags().BoolVar(&app.Demo, "demo", false, "Treat the server as a demo deployment (widget changes stay local)")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Log requests and store activity to stderr")
	cmd.PersistentFlags().DurationVar(&app.Timeout, "timeout", 10*time.Second, "Per-request timeout (0 disables)")

	cmd.AddCommand(newBookmarksCmd(app))
	cmd.AddCommand(newWidgetsCmd(app))
	cmd.AddCommand(newSettingsCmd(app))
	cmd.AddCommand(newSyncCmd(app))

	return cmd
}

func (app *App) newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if app.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// lockedWriter serializes writes from the logger, the notice sink and the
// background saves that feed both.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".navidash", "cache.db")
	}
	return filepath.Join(home, ".navidash", "cache.db")
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
