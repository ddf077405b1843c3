package state

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/sakif/navidash/internal/repository"
)

// Local slot names, one per store.
const (
	SlotBookmarks = "bookmark-storage"
	SlotWidgets   = "widget-storage-v3"
	SlotSettings  = "settings-storage"
)

// cell is the state shared by every store: the current value, its phase,
// subscribers, and the mirror into the local slot store.
//
// Values are treated as immutable. Mutations build a new value and swap it in,
// so a value handed out by get stays valid even after later changes.
type cell[T any] struct {
	slot   string
	slots  repository.SlotStore
	logger *slog.Logger
	clone  func(T) T

	mu      sync.Mutex
	value   T
	phase   Phase
	version int64
	subs    map[int]func(T)
	nextSub int
}

func newCell[T any](slot string, initial T, slots repository.SlotStore, clone func(T) T, logger *slog.Logger) *cell[T] {
	return &cell[T]{
		slot:   slot,
		slots:  slots,
		logger: logger,
		clone:  clone,
		value:  initial,
		subs:   make(map[int]func(T)),
	}
}

func (c *cell[T]) get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clone(c.value)
}

// set replaces the value, mirrors it to the slot and notifies subscribers.
func (c *cell[T]) set(v T) {
	c.mu.Lock()
	c.value = v
	c.mirrorLocked()
	subs := c.subscribersLocked()
	c.mu.Unlock()

	c.publish(subs, v)
}

// update applies fn atomically and returns the value before and after.
// If fn reports no change, nothing is stored, mirrored or published.
func (c *cell[T]) update(fn func(T) (T, bool)) (before, after T, changed bool) {
	c.mu.Lock()
	before = c.value
	after, changed = fn(before)
	if !changed {
		c.mu.Unlock()
		return before, before, false
	}
	c.value = after
	c.mirrorLocked()
	subs := c.subscribersLocked()
	c.mu.Unlock()

	c.publish(subs, after)
	return before, after, true
}

// hydrate loads the slot into the value. An empty slot keeps the initial
// value; a corrupt one is logged and ignored.
func (c *cell[T]) hydrate(ctx context.Context) error {
	var data []byte
	if c.slots != nil {
		var err error
		data, err = c.slots.Load(ctx, c.slot)
		if err != nil {
			c.setPhase(PhaseHydrated)
			return err
		}
	}

	if len(data) > 0 {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			c.logger.Warn("ignoring corrupt local slot",
				slog.String("slot", c.slot),
				slog.String("error", err.Error()),
			)
		} else {
			c.mu.Lock()
			c.value = v
			c.phase = PhaseHydrated
			subs := c.subscribersLocked()
			c.mu.Unlock()
			c.publish(subs, v)
			return nil
		}
	}

	c.setPhase(PhaseHydrated)
	return nil
}

func (c *cell[T]) mirrorLocked() {
	if c.slots == nil {
		return
	}
	data, err := json.Marshal(c.value)
	if err == nil {
		err = c.slots.Save(context.Background(), c.slot, data)
	}
	if err != nil {
		c.logger.Warn("failed to mirror local slot",
			slog.String("slot", c.slot),
			slog.String("error", err.Error()),
		)
	}
}

func (c *cell[T]) subscribersLocked() []func(T) {
	subs := make([]func(T), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	return subs
}

func (c *cell[T]) publish(subs []func(T), v T) {
	for _, fn := range subs {
		fn(c.clone(v))
	}
}

func (c *cell[T]) subscribe(fn func(T)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

func (c *cell[T]) getPhase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *cell[T]) setPhase(p Phase) {
	c.mu.Lock()
	c.phase = p
	c.mu.Unlock()
}

// beginSync moves to PhaseSyncing and returns the phase to go back to if the
// fetch fails.
func (c *cell[T]) beginSync() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.phase
	c.phase = PhaseSyncing
	return prev
}

func (c *cell[T]) getVersion() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

func (c *cell[T]) setVersion(v int64) {
	c.mu.Lock()
	c.version = v
	c.mu.Unlock()
}
