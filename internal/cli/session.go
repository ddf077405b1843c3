package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sakif/navidash/internal/client"
	"github.com/sakif/navidash/internal/repository/sqlite"
	"github.com/sakif/navidash/internal/state"
)

// session is one command's view of the dashboard.
type session struct {
	client    *client.Client
	cache     *sqlite.DB
	bookmarks *state.BookmarkStore
	widgets   *state.WidgetStore
	settings  *state.SettingsStore
	notices   *noticeSink
	logger    *slog.Logger
}

func openSession(cmd *cobra.Command, app *App) (*session, error) {
	errOut := &lockedWriter{w: cmd.ErrOrStderr()}
	logger := app.newLogger(errOut)

	if dir := filepath.Dir(app.Cache); app.Cache != ":memory:" && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	cache, err := sqlite.New(app.Cache)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	c := client.New(app.Server,
		client.WithTimeout(app.Timeout),
		client.WithDemoMode(app.Demo),
		client.WithLogger(logger),
	)

	notices := newNoticeSink(errOut)
	opts := state.Options{
		Slots:    cache,
		Notifier: notices,
		Logger:   logger,
	}

	s := &session{
		client:    c,
		cache:     cache,
		bookmarks: state.NewBookmarkStore(c, opts),
		widgets:   state.NewWidgetStore(c, opts),
		settings:  state.NewSettingsStore(c, opts),
		notices:   notices,
		logger:    logger,
	}

	// A corrupt or missing slot only costs the instant paint.
	ctx := commandContext(cmd)
	if err := errors.Join(
		s.bookmarks.Hydrate(ctx),
		s.widgets.Hydrate(ctx),
		s.settings.Hydrate(ctx),
	); err != nil {
		logger.Debug("hydrate failed", slog.String("error", err.Error()))
	}
	return s, nil
}

// close flushes whatever is still pending and releases the cache.
func (s *session) close(ctx context.Context) error {
	err := errors.Join(
		s.bookmarks.Close(ctx),
		s.widgets.Close(ctx),
		s.settings.Close(ctx),
	)
	return errors.Join(err, s.cache.Close())
}

// refresh pulls the server's copy for a read command. When the server cannot
// be reached the cached copy is still shown, with a warning.
func (s *session) refresh(ctx context.Context, fetch func(context.Context) error) {
	if err := fetch(ctx); err != nil {
		s.notices.Notify(state.LevelWarn, "showing cached copy: "+err.Error())
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// withSession opens a session, runs fn and closes the session, returning the
// first error of the three.
func withSession(cmd *cobra.Command, app *App, fn func(ctx context.Context, s *session) error) (err error) {
	s, err := openSession(cmd, app)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	defer func() {
		if cerr := s.close(ctx); err == nil {
			err = cerr
		}
	}()
	return fn(ctx, s)
}
