package state

import (
	"io"
	"log/slog"
	"time"

	"github.com/sakif/navidash/internal/repository"
)

// DefaultDebounce is the quiet period before a bookmark or settings change
// is written to the server.
const DefaultDebounce = time.Second

// Options carries the collaborators shared by all stores. Every field is
// optional.
type Options struct {
	Slots    repository.SlotStore // local mirror; nil keeps state in memory only
	Notifier Notifier             // user-facing notices; nil drops them
	Logger   *slog.Logger         // nil discards logs
	Debounce time.Duration        // 0 means DefaultDebounce
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Notifier == nil {
		o.Notifier = NotifierFunc(func(Level, string) {})
	}
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	return o
}
