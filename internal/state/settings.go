package state

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/sakif/navidash/internal/model"
	"github.com/sakif/navidash/internal/seed"
	"github.com/sakif/navidash/internal/validate"
)

// SettingsRemote is the server side of the settings record.
type SettingsRemote interface {
	Settings(ctx context.Context) (model.Settings, int64, error)
	SaveSettings(ctx context.Context, settings model.Settings) (int64, error)
}

// SettingsStore holds the appearance record. It persists like BookmarkStore:
// debounced, never rolled back.
type SettingsStore struct {
	remote   SettingsRemote
	cell     *cell[model.Settings]
	debounce *Debouncer
	logger   *slog.Logger
}

// NewSettingsStore creates a store that starts from the default appearance.
func NewSettingsStore(remote SettingsRemote, opts Options) *SettingsStore {
	opts = opts.withDefaults()
	s := &SettingsStore{
		remote: remote,
		cell:   newCell(SlotSettings, seed.Settings(), opts.Slots, func(v model.Settings) model.Settings { return v }, opts.Logger),
		logger: opts.Logger.With(slog.String("store", "settings")),
	}
	s.debounce = NewDebouncer(opts.Debounce, func() {
		s.persist(context.Background())
	})
	return s
}

// Settings returns the current record.
func (s *SettingsStore) Settings() model.Settings {
	return s.cell.get()
}

// Phase reports where the store is in its sync cycle.
func (s *SettingsStore) Phase() Phase { return s.cell.getPhase() }

// Version is the last version stamp seen from the server.
func (s *SettingsStore) Version() int64 { return s.cell.getVersion() }

// Subscribe calls fn with the new record after every change.
func (s *SettingsStore) Subscribe(fn func(model.Settings)) (cancel func()) {
	return s.cell.subscribe(fn)
}

// Hydrate loads the last record saved in the local slot.
func (s *SettingsStore) Hydrate(ctx context.Context) error {
	return s.cell.hydrate(ctx)
}

// Fetch replaces the local record with the server's unless the server has
// none. The server may hold a partial record; fields it leaves out take
// their default values.
func (s *SettingsStore) Fetch(ctx context.Context) error {
	prev := s.cell.beginSync()

	remote, version, err := s.remote.Settings(ctx)
	if err != nil {
		s.cell.setPhase(prev)
		s.logger.Debug("fetch failed", slog.String("error", err.Error()))
		return err
	}

	s.cell.setVersion(version)
	if !remote.IsZero() {
		s.cell.set(overlay(seed.Settings(), remote))
	}
	s.cell.setPhase(PhaseSettled)
	return nil
}

// Set replaces the whole record.
func (s *SettingsStore) Set(settings model.Settings) {
	s.cell.set(settings)
	s.debounce.Trigger()
}

// Field is one assignment by JSON name, e.g. {"themeColor", "#3b82f6"}.
type Field struct {
	Key, Value string
}

// SetField assigns one field. See SetFields.
func (s *SettingsStore) SetField(key, value string) error {
	return s.SetFields(Field{Key: key, Value: value})
}

// SetFields applies the assignments in order and checks the result with the
// same rules the server applies. Either all of them land or, on the first
// error, none do.
func (s *SettingsStore) SetFields(fields ...Field) error {
	next := s.cell.get()
	for _, f := range fields {
		if err := next.SetField(f.Key, f.Value); err != nil {
			return err
		}
	}
	raw, err := json.Marshal(next)
	if err != nil {
		return err
	}
	if _, err := validate.Settings(raw); err != nil {
		return err
	}
	s.Set(next)
	return nil
}

// Reset restores the default appearance.
func (s *SettingsStore) Reset() {
	s.Set(seed.Settings())
}

// Flush writes a pending change now and returns the save error, if any.
func (s *SettingsStore) Flush(ctx context.Context) error {
	if s.debounce.Cancel() {
		return s.persist(ctx)
	}
	s.debounce.Wait()
	return nil
}

// Wait blocks until no save is pending or running.
func (s *SettingsStore) Wait() {
	s.debounce.Wait()
}

// Close flushes any pending change.
func (s *SettingsStore) Close(ctx context.Context) error {
	return s.Flush(ctx)
}

func (s *SettingsStore) persist(ctx context.Context) error {
	settings := s.cell.get()
	version, err := s.remote.SaveSettings(ctx, settings)
	if outcome := settle(s.cell, RollbackNever, settings, err); outcome != OutcomeCommitted {
		s.logger.Warn("failed to save settings",
			slog.String("outcome", outcome.String()),
			slog.String("error", err.Error()),
		)
		return err
	}
	s.cell.setVersion(version)
	return nil
}

// overlay returns base with every non-zero field of top copied over it.
func overlay(base, top model.Settings) model.Settings {
	if top.BackgroundImage != "" {
		base.BackgroundImage = top.BackgroundImage
	}
	if top.BackgroundBlur != 0 {
		base.BackgroundBlur = top.BackgroundBlur
	}
	if top.BackgroundOpacity != 0 {
		base.BackgroundOpacity = top.BackgroundOpacity
	}
	if top.BackgroundSize != "" {
		base.BackgroundSize = top.BackgroundSize
	}
	if top.BackgroundRepeat != "" {
		base.BackgroundRepeat = top.BackgroundRepeat
	}
	if top.ThemeColor != "" {
		base.ThemeColor = top.ThemeColor
	}
	if top.CustomFavicon != "" {
		base.CustomFavicon = top.CustomFavicon
	}
	if top.CustomTitle != "" {
		base.CustomTitle = top.CustomTitle
	}
	if top.Language != "" {
		base.Language = top.Language
	}
	return base
}
