package state

import (
	"context"
	"log/slog"

	"github.com/sakif/navidash/internal/apperror"
	"github.com/sakif/navidash/internal/model"
	"github.com/sakif/navidash/internal/seed"
)

// BookmarkRemote is the server side of the bookmark tree.
type BookmarkRemote interface {
	Bookmarks(ctx context.Context) ([]model.Bookmark, int64, error)
	SaveBookmarks(ctx context.Context, tree []model.Bookmark) (int64, error)
}

// BookmarkStore holds the bookmark tree.
//
// Mutations apply immediately and schedule one debounced save of the whole
// tree. A failed save is logged and the local tree is kept.
type BookmarkStore struct {
	remote   BookmarkRemote
	cell     *cell[[]model.Bookmark]
	debounce *Debouncer
	logger   *slog.Logger
}

// NewBookmarkStore creates a store that starts from the built-in tree.
func NewBookmarkStore(remote BookmarkRemote, opts Options) *BookmarkStore {
	opts = opts.withDefaults()
	s := &BookmarkStore{
		remote: remote,
		cell:   newCell(SlotBookmarks, seed.Bookmarks(), opts.Slots, cloneTree, opts.Logger),
		logger: opts.Logger.With(slog.String("store", "bookmarks")),
	}
	s.debounce = NewDebouncer(opts.Debounce, func() {
		s.persist(context.Background())
	})
	return s
}

// Bookmarks returns a copy of the current tree.
func (s *BookmarkStore) Bookmarks() []model.Bookmark {
	return s.cell.get()
}

// Find returns the node with the given id.
func (s *BookmarkStore) Find(id string) (model.Bookmark, bool) {
	return findNode(s.cell.get(), id)
}

// Phase reports where the store is in its sync cycle.
func (s *BookmarkStore) Phase() Phase { return s.cell.getPhase() }

// Version is the last version stamp seen from the server.
func (s *BookmarkStore) Version() int64 { return s.cell.getVersion() }

// Subscribe calls fn with the new tree after every change.
func (s *BookmarkStore) Subscribe(fn func([]model.Bookmark)) (cancel func()) {
	return s.cell.subscribe(fn)
}

// Hydrate loads the last tree saved in the local slot.
func (s *BookmarkStore) Hydrate(ctx context.Context) error {
	return s.cell.hydrate(ctx)
}

// Fetch replaces the local tree with the server's, unless the server
// returned nothing. Errors leave local state untouched.
func (s *BookmarkStore) Fetch(ctx context.Context) error {
	prev := s.cell.beginSync()

	tree, version, err := s.remote.Bookmarks(ctx)
	if err != nil {
		s.cell.setPhase(prev)
		s.logger.Debug("fetch failed", slog.String("error", err.Error()))
		return err
	}

	s.cell.setVersion(version)
	if len(tree) > 0 {
		s.cell.set(tree)
	}
	s.cell.setPhase(PhaseSettled)
	return nil
}

// Add appends node under parentID, or at the root when parentID is empty.
func (s *BookmarkStore) Add(node model.Bookmark, parentID string) error {
	if node.ID == "" {
		node.ID = model.NewID()
	}
	return s.mutate(func(tree []model.Bookmark) ([]model.Bookmark, bool) {
		return addUnder(tree, node, parentID)
	}, parentID)
}

// Update merges patch into the node with the given id.
func (s *BookmarkStore) Update(id string, patch model.BookmarkPatch) error {
	return s.mutate(func(tree []model.Bookmark) ([]model.Bookmark, bool) {
		return updateNode(tree, id, patch)
	}, id)
}

// Remove deletes the node with the given id and its whole subtree.
func (s *BookmarkStore) Remove(id string) error {
	return s.mutate(func(tree []model.Bookmark) ([]model.Bookmark, bool) {
		return removeNode(tree, id)
	}, id)
}

// Set replaces the whole tree (import, reset).
func (s *BookmarkStore) Set(tree []model.Bookmark) {
	tree = cloneTree(tree)
	if tree == nil {
		tree = []model.Bookmark{}
	}
	s.cell.set(tree)
	s.debounce.Trigger()
}

func (s *BookmarkStore) mutate(fn func([]model.Bookmark) ([]model.Bookmark, bool), id string) error {
	_, _, changed := s.cell.update(fn)
	if !changed {
		return apperror.NotFound("bookmark", id)
	}
	s.debounce.Trigger()
	return nil
}

// Flush writes a pending change now instead of waiting for the quiet period,
// and returns the save error, if any.
func (s *BookmarkStore) Flush(ctx context.Context) error {
	if s.debounce.Cancel() {
		return s.persist(ctx)
	}
	s.debounce.Wait()
	return nil
}

// Wait blocks until no save is pending or running.
func (s *BookmarkStore) Wait() {
	s.debounce.Wait()
}

// Close flushes any pending change.
func (s *BookmarkStore) Close(ctx context.Context) error {
	return s.Flush(ctx)
}

// persist sends the tree as it is now, so a burst of edits lands as one write
// carrying the final state.
func (s *BookmarkStore) persist(ctx context.Context) error {
	tree := s.cell.get()
	version, err := s.remote.SaveBookmarks(ctx, tree)
	if outcome := settle(s.cell, RollbackNever, tree, err); outcome != OutcomeCommitted {
		s.logger.Warn("failed to save bookmarks",
			slog.String("outcome", outcome.String()),
			slog.String("error", err.Error()),
		)
		return err
	}
	s.cell.setVersion(version)
	return nil
}
