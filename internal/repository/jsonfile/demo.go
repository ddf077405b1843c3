package jsonfile

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/sakif/navidash/internal/model"
	"github.com/sakif/navidash/internal/repository"
)

var _ repository.DocumentStore = (*DemoStore)(nil)

// DemoStore is the read-mostly variant used on public demo deployments.
//
//   - bookmarks are always the seed tree; the file is never consulted
//   - widgets and settings are read from disk like the normal store
//   - Write succeeds without touching the disk
//
// The server picks this variant once, at startup, from the DEMO_MODE flag.
type DemoStore struct {
	files *Store
}

// NewDemo wraps a file store in demo semantics.
func NewDemo(files *Store) *DemoStore {
	return &DemoStore{files: files}
}

func (d *DemoStore) Read(ctx context.Context, doc model.Document) json.RawMessage {
	if doc == model.DocBookmarks {
		return d.files.fallback(doc)
	}
	return d.files.Read(ctx, doc)
}

// Write is a silent no-op that reports success.
func (d *DemoStore) Write(ctx context.Context, doc model.Document, value any) error {
	d.files.logger.Debug("demo mode: write ignored", slog.String("document", string(doc)))
	return nil
}

func (d *DemoStore) LastModified(ctx context.Context, doc model.Document) int64 {
	return d.files.LastModified(ctx, doc)
}
