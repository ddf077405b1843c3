package syncer

import "sync"

// VisibilitySource reports whether the user is looking, and when that
// changes. In a browser this is the document's visibility; the CLI drives it
// from signals.
type VisibilitySource interface {
	Visible() bool
	Subscribe(fn func(visible bool)) (cancel func())
}

// Visibility is a settable VisibilitySource. The zero value is hidden; use
// NewVisibility for one that starts visible.
type Visibility struct {
	mu      sync.Mutex
	visible bool
	subs    map[int]func(bool)
	nextSub int
}

var _ VisibilitySource = (*Visibility)(nil)

// NewVisibility creates a Visibility with the given initial state.
func NewVisibility(visible bool) *Visibility {
	return &Visibility{visible: visible}
}

func (v *Visibility) Visible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.visible
}

// Show marks the source visible.
func (v *Visibility) Show() { v.Set(true) }

// Hide marks the source hidden.
func (v *Visibility) Hide() { v.Set(false) }

// Set changes the state and notifies subscribers if it actually changed.
func (v *Visibility) Set(visible bool) {
	v.mu.Lock()
	if v.visible == visible {
		v.mu.Unlock()
		return
	}
	v.visible = visible
	subs := make([]func(bool), 0, len(v.subs))
	for _, fn := range v.subs {
		subs = append(subs, fn)
	}
	v.mu.Unlock()

	for _, fn := range subs {
		fn(visible)
	}
}

func (v *Visibility) Subscribe(fn func(visible bool)) func() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.subs == nil {
		v.subs = make(map[int]func(bool))
	}
	id := v.nextSub
	v.nextSub++
	v.subs[id] = fn

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.subs, id)
	}
}
