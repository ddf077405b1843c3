package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sakif/navidash/internal/model"
	"github.com/sakif/navidash/internal/syncer"
)

func newSyncCmd(app *App) *cobra.Command {
	var (
		interval time.Duration
		once     bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Keep the local cache in step with the server",
		Long: `Keep the local cache in step with the server.

Fetches all three documents now, then again every --interval. Each time a
document's version changes a line is printed.

Signals:
  SIGUSR1  pause polling (as if the dashboard were hidden)
  SIGUSR2  refresh now and resume polling
  SIGINT   stop`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, s *session) error {
				orch := syncer.New(interval, s.logger, s.bookmarks, s.widgets, s.settings)
				if once {
					err := orch.RefreshAll(ctx)
					printSummary(cmd.OutOrStdout(), s)
					return err
				}
				return runSync(ctx, cmd.OutOrStdout(), s, orch)
			})
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", syncer.DefaultInterval, "Polling period while visible")
	cmd.Flags().BoolVar(&once, "once", false, "Refresh once, print a summary and exit")
	return cmd
}

func runSync(ctx context.Context, w io.Writer, s *session, orch *syncer.Orchestrator) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := &lockedWriter{w: w}
	changes := &changeLog{w: out, seen: make(map[string]int64)}

	defer s.bookmarks.Subscribe(func(tree []model.Bookmark) {
		changes.report("bookmarks", s.bookmarks.Version(), fmt.Sprintf("%d nodes", model.CountBookmarks(tree)))
	})()
	defer s.widgets.Subscribe(func(list []model.Widget) {
		changes.report("widgets", s.widgets.Version(), fmt.Sprintf("%d widgets", len(list)))
	})()
	defer s.settings.Subscribe(func(model.Settings) {
		changes.report("settings", s.settings.Version(), "updated")
	})()

	vis := syncer.NewVisibility(true)
	defer watchVisibility(vis)()
	defer vis.Subscribe(func(visible bool) {
		state := "hidden, polling paused"
		if visible {
			state = "visible, polling resumed"
		}
		fmt.Fprintln(out, state)
	})()

	orch.Attach(ctx, vis)
	<-ctx.Done()
	orch.Detach()
	return nil
}

// changeLog prints one line per document whenever its version moves.
type changeLog struct {
	mu   sync.Mutex
	w    io.Writer
	seen map[string]int64
}

func (c *changeLog) report(doc string, version int64, detail string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if last, ok := c.seen[doc]; ok && last == version {
		return
	}
	c.seen[doc] = version
	fmt.Fprintf(c.w, "%s  %-9s version %d  %s\n", time.Now().Format(time.TimeOnly), doc, version, detail)
}

func printSummary(w io.Writer, s *session) {
	fmt.Fprintf(w, "bookmarks  version %d  %d nodes  (%s)\n",
		s.bookmarks.Version(), model.CountBookmarks(s.bookmarks.Bookmarks()), s.bookmarks.Phase())
	fmt.Fprintf(w, "widgets    version %d  %d widgets  (%s)\n",
		s.widgets.Version(), len(s.widgets.Widgets()), s.widgets.Phase())
	fmt.Fprintf(w, "settings   version %d  (%s)\n",
		s.settings.Version(), s.settings.Phase())
}
