package jsonfile

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/navidash/internal/model"
	"github.com/sakif/navidash/internal/seed"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// A subdirectory that does not exist yet, to exercise lazy creation.
	return New(filepath.Join(t.TempDir(), "data"), seed.Bookmarks(), logger)
}

func TestRead_SeedFallbackForBookmarks(t *testing.T) {
	s := newTestStore(t)

	raw := s.Read(context.Background(), model.DocBookmarks)
	require.NotNil(t, raw)

	var got []model.Bookmark
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, seed.Bookmarks(), got)
}

func TestRead_MissingWidgetsAndSettingsAreNil(t *testing.T) {
	s := newTestStore(t)

	assert.Nil(t, s.Read(context.Background(), model.DocWidgets))
	assert.Nil(t, s.Read(context.Background(), model.DocSettings))
}

func TestRead_CorruptFileIsNil(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(s.dir, 0o755))
	require.NoError(t, os.WriteFile(s.Path(model.DocWidgets), []byte(`[{"id":`), 0o644))

	assert.Nil(t, s.Read(context.Background(), model.DocWidgets))
}

func TestWrite_CreatesDirectoryAndRoundTrips(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := os.Stat(s.dir)
	require.True(t, os.IsNotExist(err), "data dir should not exist before the first write")

	tree := []model.Bookmark{
		{ID: "a", Title: "A", Children: []model.Bookmark{
			{ID: "b", Title: "B", URL: "https://b.example"},
			{ID: "c", Title: "C", Children: []model.Bookmark{}},
		}},
	}
	require.NoError(t, s.Write(ctx, model.DocBookmarks, tree))

	var got []model.Bookmark
	require.NoError(t, json.Unmarshal(s.Read(ctx, model.DocBookmarks), &got))
	assert.Equal(t, tree, got)
	assert.True(t, got[0].Children[1].IsFolder(), "empty folder must survive the round trip")
}

func TestWrite_PrettyPrints(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Write(context.Background(), model.DocSettings, model.Settings{CustomTitle: "Home"}))

	data, err := os.ReadFile(s.Path(model.DocSettings))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"customTitle\": \"Home\"\n}\n", string(data))
}

func TestWrite_LeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Write(context.Background(), model.DocWidgets, []model.Widget{}))

	entries, err := os.ReadDir(s.dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "widgets.json", entries[0].Name())
}

func TestWrite_FailsWhenDirectoryIsAFile(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	s := New(blocker, nil, logger)
	err := s.Write(context.Background(), model.DocWidgets, []model.Widget{})
	assert.Error(t, err)
}

func TestLastModified(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.Equal(t, int64(0), s.LastModified(ctx, model.DocWidgets), "missing file has version 0")

	require.NoError(t, s.Write(ctx, model.DocWidgets, []model.Widget{}))
	v1 := s.LastModified(ctx, model.DocWidgets)
	assert.Greater(t, v1, int64(0))

	// Back-to-back writes usually land in the same millisecond.
	require.NoError(t, s.Write(ctx, model.DocWidgets, []model.Widget{}))
	v2 := s.LastModified(ctx, model.DocWidgets)
	assert.Greater(t, v2, v1)

	require.NoError(t, s.Write(ctx, model.DocWidgets, []model.Widget{}))
	assert.Greater(t, s.LastModified(ctx, model.DocWidgets), v2)
}

func TestLastModified_IncreasesAcrossRestart(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()

	first := New(dir, seed.Bookmarks(), logger)
	require.NoError(t, first.Write(ctx, model.DocSettings, model.Settings{}))

	// The file carries a stamp the next process's clock has not reached.
	ahead := time.Now().Add(time.Hour).Truncate(time.Millisecond)
	require.NoError(t, os.Chtimes(first.Path(model.DocSettings), ahead, ahead))
	before := first.LastModified(ctx, model.DocSettings)

	restarted := New(dir, seed.Bookmarks(), logger)
	require.NoError(t, restarted.Write(ctx, model.DocSettings, model.Settings{}))
	assert.Greater(t, restarted.LastModified(ctx, model.DocSettings), before)
}

func TestDemoStore(t *testing.T) {
	files := newTestStore(t)
	demo := NewDemo(files)
	ctx := context.Background()

	// A real bookmarks file exists, but demo mode ignores it.
	require.NoError(t, files.Write(ctx, model.DocBookmarks, []model.Bookmark{{ID: "x", Title: "X"}}))

	var got []model.Bookmark
	require.NoError(t, json.Unmarshal(demo.Read(ctx, model.DocBookmarks), &got))
	assert.Equal(t, seed.Bookmarks(), got)

	before := demo.LastModified(ctx, model.DocSettings)
	require.NoError(t, demo.Write(ctx, model.DocSettings, model.Settings{CustomTitle: "vandalized"}))
	assert.Nil(t, demo.Read(ctx, model.DocSettings), "demo write must not reach the disk")
	assert.Equal(t, before, demo.LastModified(ctx, model.DocSettings))
}
