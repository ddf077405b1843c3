// Package jsonfile implements repository.DocumentStore on plain JSON files.
//
// LAYOUT:
// One file per document inside a data directory:
//
//	data/bookmarks.json
//	data/widgets.json
//	data/settings.json
//
// Each file contains exactly the body a GET returns. The directory is created
// on the first write, not at startup.
//
// VERSION STAMPS:
// A document's version is its file's modification time in Unix milliseconds
// (0 when the file does not exist). The store remembers the last stamp it
// produced per document and nudges the mtime forward when a write lands in
// the same millisecond, so successive writes always yield a larger version.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sakif/navidash/internal/model"
	"github.com/sakif/navidash/internal/repository"
)

var _ repository.DocumentStore = (*Store)(nil)

// Store reads and writes document files under a directory.
type Store struct {
	dir           string
	seedBookmarks []model.Bookmark
	logger        *slog.Logger

	// mu serializes writes so the stamp bookkeeping stays consistent.
	// It does not make concurrent writers merge: the last rename wins.
	mu     sync.Mutex
	stamps map[model.Document]int64
}

// New creates a Store rooted at dir. seedBookmarks is served when the
// bookmarks file does not exist yet.
func New(dir string, seedBookmarks []model.Bookmark, logger *slog.Logger) *Store {
	return &Store{
		dir:           dir,
		seedBookmarks: seedBookmarks,
		logger:        logger,
		stamps:        make(map[model.Document]int64),
	}
}

// Path returns the file backing doc.
func (s *Store) Path(doc model.Document) string {
	return filepath.Join(s.dir, doc.FileName())
}

// Read returns the document's JSON, or the fallback when it cannot.
//
//	file exists and parses → its content
//	file does not exist    → seed bookmarks, or nil for widgets/settings
//	anything else          → nil (logged)
func (s *Store) Read(ctx context.Context, doc model.Document) json.RawMessage {
	data, err := os.ReadFile(s.Path(doc))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s.fallback(doc)
		}
		s.logger.Warn("reading document failed",
			slog.String("document", string(doc)),
			slog.String("error", err.Error()),
		)
		return nil
	}

	if !json.Valid(data) {
		s.logger.Warn("document file is not valid JSON",
			slog.String("document", string(doc)),
			slog.String("path", s.Path(doc)),
		)
		return nil
	}
	return json.RawMessage(data)
}

func (s *Store) fallback(doc model.Document) json.RawMessage {
	if doc != model.DocBookmarks || s.seedBookmarks == nil {
		return nil
	}
	data, err := json.Marshal(s.seedBookmarks)
	if err != nil {
		s.logger.Error("encoding seed bookmarks failed", slog.String("error", err.Error()))
		return nil
	}
	return data
}

// Write replaces the document with value, pretty-printed.
//
// ATOMIC REPLACE:
// The JSON is written to a temporary file in the same directory and then
// renamed over the target. A reader sees either the old file or the new one,
// never a half-written file.
func (s *Store) Write(ctx context.Context, doc model.Document, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encoding %s: %w", doc, err)
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("jsonfile: creating data directory: %w", err)
	}
	// The stamp from an earlier process is whatever the file carries now.
	if _, ok := s.stamps[doc]; !ok {
		s.stamps[doc] = modTime(s.Path(doc))
	}

	tmp, err := os.CreateTemp(s.dir, "."+string(doc)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("jsonfile: creating temp file for %s: %w", doc, err)
	}
	tmpName := tmp.Name()
	// Removing after a successful rename is a harmless ENOENT.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("jsonfile: writing %s: %w", doc, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("jsonfile: syncing %s: %w", doc, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("jsonfile: closing %s: %w", doc, err)
	}
	if err := os.Rename(tmpName, s.Path(doc)); err != nil {
		return fmt.Errorf("jsonfile: replacing %s: %w", doc, err)
	}

	s.advanceStamp(doc)
	return nil
}

// advanceStamp records the new version of doc, bumping the file's mtime by
// one millisecond when the filesystem clock did not move past the previous
// stamp. Callers hold s.mu.
func (s *Store) advanceStamp(doc model.Document) {
	path := s.Path(doc)
	stamp := modTime(path)
	if prev := s.stamps[doc]; stamp <= prev {
		next := time.UnixMilli(prev + 1)
		if err := os.Chtimes(path, next, next); err != nil {
			s.logger.Warn("advancing document version failed",
				slog.String("document", string(doc)),
				slog.String("error", err.Error()),
			)
		}
		stamp = modTime(path)
	}
	s.stamps[doc] = stamp
}

// LastModified returns the document's version stamp, or 0 if the file does
// not exist.
func (s *Store) LastModified(ctx context.Context, doc model.Document) int64 {
	return modTime(s.Path(doc))
}

func modTime(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.ModTime().UnixMilli()
}
