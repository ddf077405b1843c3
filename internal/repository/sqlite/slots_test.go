package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLoad_EmptySlot(t *testing.T) {
	db := newTestDB(t)

	data, err := db.Load(context.Background(), "widget-storage-v3")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestSaveThenLoad(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Save(ctx, "bookmark-storage", []byte(`[{"id":"1","title":"A"}]`)))

	data, err := db.Load(ctx, "bookmark-storage")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1","title":"A"}]`, string(data))
}

func TestSave_Overwrites(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Save(ctx, "settings-storage", []byte(`{"customTitle":"one"}`)))
	require.NoError(t, db.Save(ctx, "settings-storage", []byte(`{"customTitle":"two"}`)))

	data, err := db.Load(ctx, "settings-storage")
	require.NoError(t, err)
	assert.JSONEq(t, `{"customTitle":"two"}`, string(data))

	names, err := db.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"settings-storage"}, names)
}

func TestSlotsAreIndependent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Save(ctx, "a", []byte(`1`)))
	require.NoError(t, db.Save(ctx, "b", []byte(`2`)))

	a, err := db.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", string(a))

	names, err := db.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	db, err := New(path)
	require.NoError(t, err)
	require.NoError(t, db.Save(ctx, "widget-storage-v3", []byte(`[]`)))
	require.NoError(t, db.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	data, err := reopened.Load(ctx, "widget-storage-v3")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
