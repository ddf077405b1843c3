package state

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"

	"github.com/sakif/navidash/internal/apperror"
	"github.com/sakif/navidash/internal/model"
	"github.com/sakif/navidash/internal/seed"
)

// WidgetRemote is the server side of the widget list.
type WidgetRemote interface {
	Widgets(ctx context.Context) ([]model.Widget, int64, error)
	SaveWidgets(ctx context.Context, widgets []model.Widget) (int64, error)
	DemoMode() bool
}

// Notices shown after a widget save.
const (
	NoticeWidgetsDemo     = "Demo mode: changes are temporary and will reset on refresh"
	NoticeWidgetsRollback = "Failed to save widgets, changes were reverted"
)

// WidgetStore holds the widget list.
//
// Add, Update and Remove save immediately and roll back to the previous list
// when the save fails, unless the failure is a demo mode refusal. Set and
// ApplyLayout save the same way but never roll back.
//
// Rollback restores the list as it was before that mutation. If two saves are
// in flight and the first fails, the second mutation is undone too.
type WidgetStore struct {
	remote   WidgetRemote
	cell     *cell[[]model.Widget]
	notifier Notifier
	logger   *slog.Logger

	wg sync.WaitGroup
}

// NewWidgetStore creates a store that starts from the default widgets.
func NewWidgetStore(remote WidgetRemote, opts Options) *WidgetStore {
	opts = opts.withDefaults()
	return &WidgetStore{
		remote:   remote,
		cell:     newCell(SlotWidgets, seed.Widgets(), opts.Slots, cloneWidgets, opts.Logger),
		notifier: opts.Notifier,
		logger:   opts.Logger.With(slog.String("store", "widgets")),
	}
}

func cloneWidgets(list []model.Widget) []model.Widget {
	out := slices.Clone(list)
	for i := range out {
		out[i].Config = slices.Clone(out[i].Config)
	}
	return out
}

// Widgets returns a copy of the current list.
func (s *WidgetStore) Widgets() []model.Widget {
	return s.cell.get()
}

// Phase reports where the store is in its sync cycle.
func (s *WidgetStore) Phase() Phase { return s.cell.getPhase() }

// Version is the last version stamp seen from the server.
func (s *WidgetStore) Version() int64 { return s.cell.getVersion() }

// Subscribe calls fn with the new list after every change, rollbacks included.
func (s *WidgetStore) Subscribe(fn func([]model.Widget)) (cancel func()) {
	return s.cell.subscribe(fn)
}

// Hydrate loads the last list saved in the local slot.
func (s *WidgetStore) Hydrate(ctx context.Context) error {
	return s.cell.hydrate(ctx)
}

// Fetch replaces the local list with the server's when the server has any.
// When both are empty the default widgets come back, so a dashboard emptied
// by mistake does not stay blank.
func (s *WidgetStore) Fetch(ctx context.Context) error {
	prev := s.cell.beginSync()

	widgets, version, err := s.remote.Widgets(ctx)
	if err != nil {
		s.cell.setPhase(prev)
		s.logger.Debug("fetch failed", slog.String("error", err.Error()))
		return err
	}

	s.cell.setVersion(version)
	switch {
	case len(widgets) > 0:
		s.cell.set(widgets)
	case len(s.cell.get()) == 0:
		s.logger.Info("server and local widget lists are empty, restoring defaults")
		s.cell.set(seed.Widgets())
	}
	s.cell.setPhase(PhaseSettled)
	return nil
}

// Add appends w. A missing id is generated and a missing config becomes {}.
func (s *WidgetStore) Add(w model.Widget) model.Widget {
	if w.ID == "" {
		w.ID = model.NewID()
	}
	w = w.Normalized()

	s.mutate(RollbackOutsideDemo, func(list []model.Widget) ([]model.Widget, bool) {
		out := make([]model.Widget, len(list), len(list)+1)
		copy(out, list)
		return append(out, w), true
	})
	return w
}

// Place adds a widget of the given type with its default size, in the first
// free row below every existing widget.
func (s *WidgetStore) Place(t model.WidgetType, config json.RawMessage) (model.Widget, error) {
	if !t.Valid() {
		return model.Widget{}, apperror.ValidationFailed("type", "unknown widget type "+string(t))
	}
	w := model.Widget{
		ID:       model.NewID(),
		Type:     t,
		Size:     t.DefaultSize(),
		Position: model.Position{X: 0, Y: model.NextRow(s.cell.get())},
		Config:   config,
	}
	return s.Add(w), nil
}

// Update merges patch into the widget with the given id.
func (s *WidgetStore) Update(id string, patch model.WidgetPatch) error {
	found := s.mutate(RollbackOutsideDemo, func(list []model.Widget) ([]model.Widget, bool) {
		i := slices.IndexFunc(list, func(w model.Widget) bool { return w.ID == id })
		if i < 0 {
			return list, false
		}
		out := slices.Clone(list)
		out[i] = patch.Apply(out[i])
		return out, true
	})
	if !found {
		return apperror.NotFound("widget", id)
	}
	return nil
}

// Remove deletes the widget with the given id.
func (s *WidgetStore) Remove(id string) error {
	found := s.mutate(RollbackOutsideDemo, func(list []model.Widget) ([]model.Widget, bool) {
		out := slices.DeleteFunc(slices.Clone(list), func(w model.Widget) bool { return w.ID == id })
		return out, len(out) != len(list)
	})
	if !found {
		return apperror.NotFound("widget", id)
	}
	return nil
}

// Set replaces the whole list and saves it without rollback.
func (s *WidgetStore) Set(widgets []model.Widget) {
	widgets = cloneWidgets(widgets)
	if widgets == nil {
		widgets = []model.Widget{}
	}
	s.mutate(RollbackNever, func([]model.Widget) ([]model.Widget, bool) {
		return widgets, true
	})
}

// ApplyLayout merges positions and sizes reported by the grid. The list is
// replaced (through Set) only when something actually moved; the return
// value says whether it did.
func (s *WidgetStore) ApplyLayout(layout []model.LayoutItem) bool {
	merged, changed := model.ApplyLayout(s.cell.get(), layout)
	if changed {
		s.Set(merged)
	}
	return changed
}

// Wait blocks until every in-flight save has settled.
func (s *WidgetStore) Wait() {
	s.wg.Wait()
}

// Flush is Wait: widget saves are never deferred.
func (s *WidgetStore) Flush(context.Context) error {
	s.wg.Wait()
	return nil
}

// Close waits for in-flight saves.
func (s *WidgetStore) Close(ctx context.Context) error {
	return s.Flush(ctx)
}

// mutate applies fn and, if it changed anything, saves the result in the
// background under the given policy.
func (s *WidgetStore) mutate(policy RollbackPolicy, fn func([]model.Widget) ([]model.Widget, bool)) bool {
	before, after, changed := s.cell.update(fn)
	if !changed {
		return false
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.persist(context.Background(), policy, before, after)
	}()
	return true
}

func (s *WidgetStore) persist(ctx context.Context, policy RollbackPolicy, snapshot, widgets []model.Widget) {
	var err error
	if s.remote.DemoMode() {
		// A demo deployment refuses widget writes; don't bother asking.
		err = apperror.DemoModeDenied()
	} else {
		var version int64
		version, err = s.remote.SaveWidgets(ctx, widgets)
		if err == nil {
			s.cell.setVersion(version)
		}
	}

	switch outcome := settle(s.cell, policy, snapshot, err); outcome {
	case OutcomeCommitted:
	case OutcomeDemo:
		s.notifier.Notify(LevelInfo, NoticeWidgetsDemo)
	case OutcomeRolledBack:
		s.logger.Error("rolled back widget change", slog.String("error", err.Error()))
		s.notifier.Notify(LevelError, NoticeWidgetsRollback)
	default:
		s.logger.Warn("failed to save widgets", slog.String("error", err.Error()))
	}
}
