package syncer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	fetches atomic.Int32
	err     error
}

func (c *countingStore) Fetch(context.Context) error {
	c.fetches.Add(1)
	return c.err
}

func newTestOrchestrator(interval time.Duration, stores ...Refresher) *Orchestrator {
	return New(interval, slog.New(slog.NewTextHandler(io.Discard, nil)), stores...)
}

func TestAttach_FetchesImmediately(t *testing.T) {
	a, b, c := &countingStore{}, &countingStore{}, &countingStore{}
	o := newTestOrchestrator(time.Hour, a, b, c)

	o.Attach(context.Background(), NewVisibility(true))
	defer o.Detach()

	assert.Equal(t, int32(1), a.fetches.Load())
	assert.Equal(t, int32(1), b.fetches.Load())
	assert.Equal(t, int32(1), c.fetches.Load())
	assert.True(t, o.Running())
}

func TestPolling_WhileVisible(t *testing.T) {
	store := &countingStore{}
	o := newTestOrchestrator(20*time.Millisecond, store)

	o.Attach(context.Background(), NewVisibility(true))
	defer o.Detach()

	assert.Eventually(t, func() bool { return store.fetches.Load() >= 4 }, time.Second, 5*time.Millisecond)
}

func TestHidden_NoPolling(t *testing.T) {
	store := &countingStore{}
	o := newTestOrchestrator(10*time.Millisecond, store)

	o.Attach(context.Background(), NewVisibility(false))
	defer o.Detach()

	assert.False(t, o.Running())
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), store.fetches.Load(), "only the mount fetch")
}

func TestVisibilityChanges(t *testing.T) {
	store := &countingStore{}
	vis := NewVisibility(true)
	o := newTestOrchestrator(time.Hour, store)

	o.Attach(context.Background(), vis)
	defer o.Detach()
	require.Equal(t, int32(1), store.fetches.Load())

	vis.Hide()
	assert.False(t, o.Running())
	assert.Equal(t, int32(1), store.fetches.Load())

	vis.Show()
	assert.True(t, o.Running())
	assert.Equal(t, int32(2), store.fetches.Load(), "returning triggers one immediate refresh")

	vis.Show()
	assert.Equal(t, int32(2), store.fetches.Load(), "no change, no refresh")
}

func TestDetach_LeavesNothingRunning(t *testing.T) {
	store := &countingStore{}
	vis := NewVisibility(true)
	o := newTestOrchestrator(10*time.Millisecond, store)

	o.Attach(context.Background(), vis)
	o.Detach()
	assert.False(t, o.Running())

	after := store.fetches.Load()
	vis.Hide()
	vis.Show()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, store.fetches.Load(), "detached: no ticks and no visibility reaction")
}

func TestStartIsIdempotent(t *testing.T) {
	o := newTestOrchestrator(time.Hour)
	o.Start()
	o.Start()
	assert.True(t, o.Running())
	o.Stop()
	o.Stop()
	assert.False(t, o.Running())
}

func TestRefreshAll_JoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	ok, failing := &countingStore{}, &countingStore{err: boom}
	o := newTestOrchestrator(time.Hour, ok, failing)

	err := o.RefreshAll(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), ok.fetches.Load())
}

func TestAttach_ContextCancelStopsPolling(t *testing.T) {
	store := &countingStore{}
	ctx, cancel := context.WithCancel(context.Background())
	o := newTestOrchestrator(10*time.Millisecond, store)

	o.Attach(ctx, NewVisibility(true))
	cancel()
	time.Sleep(30 * time.Millisecond)
	settled := store.fetches.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, store.fetches.Load())
	o.Detach()
}

// gatedStore blocks Fetch on release while held is set.
type gatedStore struct {
	fetches atomic.Int32
	held    atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStore) Fetch(context.Context) error {
	g.fetches.Add(1)
	if g.held.Load() {
		select {
		case g.entered <- struct{}{}:
		default:
		}
		<-g.release
	}
	return nil
}

func TestDetach_DuringResumeRefresh(t *testing.T) {
	store := &gatedStore{entered: make(chan struct{}, 1), release: make(chan struct{})}
	vis := NewVisibility(true)
	o := newTestOrchestrator(10*time.Millisecond, store)

	o.Attach(context.Background(), vis)
	vis.Hide()
	require.False(t, o.Running())

	store.held.Store(true)
	shown := make(chan struct{})
	go func() {
		defer close(shown)
		vis.Show()
	}()
	<-store.entered

	o.Detach()
	store.held.Store(false)
	close(store.release)
	<-shown

	assert.False(t, o.Running(), "the resume callback must not restart polling after Detach")
	after := store.fetches.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, store.fetches.Load())
}

func TestReattach_IgnoresOldSource(t *testing.T) {
	store := &countingStore{}
	first, second := NewVisibility(true), NewVisibility(false)
	o := newTestOrchestrator(time.Hour, store)

	o.Attach(context.Background(), first)
	o.Attach(context.Background(), second)
	defer o.Detach()
	require.False(t, o.Running())

	first.Hide()
	first.Show()
	assert.False(t, o.Running(), "the first source was unsubscribed")
	assert.Equal(t, int32(2), store.fetches.Load(), "one mount fetch per Attach")
}
