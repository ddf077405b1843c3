// Package syncer keeps the client stores fresh while someone is looking.
//
// The Orchestrator fetches every store once when attached, then again on a
// fixed interval while its VisibilitySource reports visible. Hiding stops the
// interval; showing again fetches immediately and restarts it. Detach leaves
// no timer or listener behind.
//
// The orchestrator owns no data and handles no errors beyond logging them:
// a failed fetch leaves that store's local state as it was.
package syncer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultInterval is the polling period while visible.
const DefaultInterval = 5 * time.Second

// Refresher is a store that can pull the server's copy.
type Refresher interface {
	Fetch(ctx context.Context) error
}

// Orchestrator schedules Fetch across a set of stores.
type Orchestrator struct {
	stores   []Refresher
	interval time.Duration
	logger   *slog.Logger

	mu          sync.Mutex
	ctx         context.Context // from Attach; fetches stop when it is done
	attachment  uint64          // bumped by Attach and Detach; callbacks from an older one do nothing
	stopLoop    context.CancelFunc
	loopDone    chan struct{}
	unsubscribe func()
}

// New creates an Orchestrator. interval <= 0 means DefaultInterval.
func New(interval time.Duration, logger *slog.Logger, stores ...Refresher) *Orchestrator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Orchestrator{
		stores:   stores,
		interval: interval,
		logger:   logger,
		ctx:      context.Background(),
	}
}

// Attach is the mount step: fetch everything now, start polling if src is
// visible, and follow src from then on. Attaching twice detaches first.
func (o *Orchestrator) Attach(ctx context.Context, src VisibilitySource) {
	o.Detach()

	o.mu.Lock()
	o.attachment++
	id := o.attachment
	o.ctx = ctx
	o.mu.Unlock()

	// Subscribe before reading Visible so no change in between is missed.
	unsubscribe := src.Subscribe(func(visible bool) { o.onVisibility(id, visible) })
	o.mu.Lock()
	if o.attachment != id {
		o.mu.Unlock()
		unsubscribe()
		return
	}
	o.unsubscribe = unsubscribe
	o.mu.Unlock()

	o.RefreshAll(ctx)
	if src.Visible() {
		o.startFor(id)
	}
}

// Detach is the unmount step: stop polling and stop following visibility.
// A visibility callback still running when Detach returns cannot restart
// polling.
func (o *Orchestrator) Detach() {
	o.mu.Lock()
	o.attachment++
	unsubscribe := o.unsubscribe
	o.unsubscribe = nil
	o.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	o.Stop()
}

// onVisibility reacts to the user leaving or returning, for attachment id.
func (o *Orchestrator) onVisibility(id uint64, visible bool) {
	ctx, ok := o.contextFor(id)
	if !ok {
		return
	}
	if !visible {
		o.logger.Debug("hidden, polling paused")
		o.Stop()
		return
	}

	o.logger.Debug("visible, refreshing")
	o.RefreshAll(ctx)
	o.startFor(id)
}

// Start begins polling. It is a no-op if polling is already running.
// The first tick comes one interval after Start.
func (o *Orchestrator) Start() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.startLocked()
}

// startFor starts polling only if attachment id is still the current one.
func (o *Orchestrator) startFor(id uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.attachment != id {
		return
	}
	o.startLocked()
}

func (o *Orchestrator) startLocked() {
	if o.stopLoop != nil {
		return
	}
	ctx, cancel := context.WithCancel(o.ctx)
	done := make(chan struct{})
	o.stopLoop = cancel
	o.loopDone = done

	go o.loop(ctx, done)
}

// Stop ends polling and waits for the loop to exit. A fetch already in
// flight is cancelled through its context.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	cancel, done := o.stopLoop, o.loopDone
	o.stopLoop, o.loopDone = nil, nil
	o.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the polling loop is active.
func (o *Orchestrator) Running() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stopLoop != nil
}

func (o *Orchestrator) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.RefreshAll(ctx)
		}
	}
}

// RefreshAll fetches every store concurrently and waits for all of them.
// Failures are logged and also returned joined, for callers that care.
func (o *Orchestrator) RefreshAll(ctx context.Context) error {
	errs := make([]error, len(o.stores))

	// Each store records its own error so one failure never cancels the rest.
	var g errgroup.Group
	for i, store := range o.stores {
		g.Go(func() error {
			errs[i] = store.Fetch(ctx)
			return nil
		})
	}
	_ = g.Wait()

	err := errors.Join(errs...)
	if err != nil && ctx.Err() == nil {
		o.logger.Warn("refresh failed", slog.String("error", err.Error()))
	}
	return err
}

func (o *Orchestrator) contextFor(id uint64) (context.Context, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ctx, o.attachment == id
}
