// Package repository declares the storage interfaces the rest of the
// application depends on. Implementations live in subpackages:
//
//	jsonfile → server-side document files (one JSON file per document)
//	sqlite   → client-side durable slots (the local cache a client paints from)
package repository

import (
	"context"
	"encoding/json"

	"github.com/sakif/navidash/internal/model"
)

// DocumentStore durably holds the three synchronized documents.
//
// Read never fails: a missing document yields the seed value (or nil), and any
// other problem yields nil. Write does fail, and callers must handle it.
type DocumentStore interface {
	Read(ctx context.Context, doc model.Document) json.RawMessage
	Write(ctx context.Context, doc model.Document, value any) error
	LastModified(ctx context.Context, doc model.Document) int64
}

// SlotStore is a small named key/value store for a client's last-known copy of
// each document. Load returns (nil, nil) for a slot that was never saved.
type SlotStore interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
}
