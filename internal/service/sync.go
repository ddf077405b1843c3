// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces demo rules, stamps versions
//	Repository (Data layer)  → reads/writes the JSON document files
//
// The service takes a repository.DocumentStore (interface), never a concrete
// *jsonfile.Store. main.go decides whether that is the real file store or the
// demo variant; the service only knows the demo flag for the one rule the
// store cannot express: widget writes are refused outright.
package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/sakif/navidash/internal/apperror"
	"github.com/sakif/navidash/internal/model"
	"github.com/sakif/navidash/internal/repository"
	"github.com/sakif/navidash/internal/validate"
)

// Empty bodies served when a document has no content and no seed applies.
var (
	emptyList   = json.RawMessage(`[]`)
	emptyObject = json.RawMessage(`{}`)
)

// SyncService implements the read/validate/persist cycle behind the three
// synchronization endpoints.
type SyncService struct {
	docs   repository.DocumentStore
	demo   bool
	logger *slog.Logger
}

// NewSyncService creates a SyncService. demo must match the store variant
// chosen for docs.
func NewSyncService(docs repository.DocumentStore, demo bool, logger *slog.Logger) *SyncService {
	return &SyncService{
		docs:   docs,
		demo:   demo,
		logger: logger,
	}
}

// DemoMode reports whether this instance refuses widget writes.
func (s *SyncService) DemoMode() bool {
	return s.demo
}

// Get returns a document body and its current version.
//
// Reads never fail. A document with nothing stored and no seed comes back as
// [] (bookmarks, widgets) or {} (settings).
func (s *SyncService) Get(ctx context.Context, doc model.Document) (json.RawMessage, int64) {
	body := s.docs.Read(ctx, doc)
	if len(body) == 0 || string(body) == "null" {
		if doc == model.DocSettings {
			body = emptyObject
		} else {
			body = emptyList
		}
	}
	return body, s.docs.LastModified(ctx, doc)
}

// Version returns a document's current version stamp.
func (s *SyncService) Version(ctx context.Context, doc model.Document) int64 {
	return s.docs.LastModified(ctx, doc)
}

// SaveBookmarks validates a full bookmark tree and replaces the stored one.
func (s *SyncService) SaveBookmarks(ctx context.Context, raw []byte) (int64, error) {
	tree, err := validate.Bookmarks(raw)
	if err != nil {
		return 0, err
	}
	if err := s.write(ctx, model.DocBookmarks, tree); err != nil {
		return 0, err
	}
	s.logger.Info("bookmarks saved", slog.Int("nodes", model.CountBookmarks(tree)))
	return s.docs.LastModified(ctx, model.DocBookmarks), nil
}

// SaveWidgets validates a widget list and replaces the stored one.
//
// DEMO MODE:
// Bookmarks and settings writes are silently dropped by the demo store.
// Widget writes are refused here, before the body is even looked at, so
// storage is never touched.
func (s *SyncService) SaveWidgets(ctx context.Context, raw []byte) (int64, error) {
	if s.demo {
		s.logger.Debug("widget write denied in demo mode")
		return 0, apperror.DemoModeDenied()
	}

	widgets, err := validate.Widgets(raw)
	if err != nil {
		return 0, err
	}
	if err := s.write(ctx, model.DocWidgets, widgets); err != nil {
		return 0, err
	}
	s.logger.Info("widgets saved", slog.Int("count", len(widgets)))
	return s.docs.LastModified(ctx, model.DocWidgets), nil
}

// SaveSettings validates a settings record and replaces the stored one.
// Unknown keys are dropped; absent keys stay absent.
func (s *SyncService) SaveSettings(ctx context.Context, raw []byte) (int64, error) {
	settings, err := validate.Settings(raw)
	if err != nil {
		return 0, err
	}
	if err := s.write(ctx, model.DocSettings, settings); err != nil {
		return 0, err
	}
	s.logger.Info("settings saved")
	return s.docs.LastModified(ctx, model.DocSettings), nil
}

func (s *SyncService) write(ctx context.Context, doc model.Document, value any) error {
	if err := s.docs.Write(ctx, doc, value); err != nil {
		s.logger.Error("failed to write document",
			slog.String("document", string(doc)),
			slog.String("error", err.Error()),
		)
		return apperror.StorageFailed("save "+string(doc), err)
	}
	return nil
}
