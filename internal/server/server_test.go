package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/navidash/internal/model"
	"github.com/sakif/navidash/internal/seed"
)

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(t.TempDir(), "data")
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := httptest.NewServer(New(cfg, logger).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func post(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func version(t *testing.T, resp *http.Response) int64 {
	t.Helper()
	v, err := strconv.ParseInt(resp.Header.Get(model.VersionHeader), 10, 64)
	require.NoError(t, err)
	return v
}

// Bookmarks file absent → seed tree → rename a category → renamed tree with a
// strictly larger version.
func TestScenario_SeedRenameVersion(t *testing.T) {
	ts := newTestServer(t, Config{SeedBookmarks: seed.Bookmarks()})

	resp, body := get(t, ts.URL+"/api/bookmarks")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	before := version(t, resp)
	assert.Zero(t, before)

	var tree []model.Bookmark
	require.NoError(t, json.Unmarshal(body, &tree))
	require.Len(t, tree, 5)

	tree[1].Title = "Development"
	payload, err := json.Marshal(tree)
	require.NoError(t, err)

	resp, body = post(t, ts.URL+"/api/bookmarks", string(payload))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var saved model.SaveResponse
	require.NoError(t, json.Unmarshal(body, &saved))
	assert.True(t, saved.Success)

	resp, body = get(t, ts.URL+"/api/bookmarks")
	after := version(t, resp)
	assert.Greater(t, after, before)
	assert.Equal(t, saved.Version, after)

	var renamed []model.Bookmark
	require.NoError(t, json.Unmarshal(body, &renamed))
	assert.Equal(t, tree, renamed)
	assert.Equal(t, "Development", renamed[1].Title)

	// A second write still moves the version forward.
	resp, _ = post(t, ts.URL+"/api/bookmarks", string(payload))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Greater(t, version(t, resp), after)
}

func TestDemoMode_WidgetWriteDenied(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	existing := `[{"id":"1","type":"clock","size":{"w":2,"h":1},"position":{"x":0,"y":0},"config":{}}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "widgets.json"), []byte(existing), 0o644))

	ts := newTestServer(t, Config{DataDir: dir, DemoMode: true, SeedBookmarks: seed.Bookmarks()})

	_, before := get(t, ts.URL+"/api/widgets")

	resp, body := post(t, ts.URL+"/api/widgets",
		`[{"id":"2","type":"memo","size":{"w":2,"h":2},"position":{"x":0,"y":1},"config":{}}]`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, string(body), "Demo mode: writes are disabled")

	_, after := get(t, ts.URL+"/api/widgets")
	assert.JSONEq(t, string(before), string(after))
	assert.JSONEq(t, existing, string(after))
}

func TestDemoMode_BookmarkWriteSoftIgnored(t *testing.T) {
	ts := newTestServer(t, Config{DemoMode: true, SeedBookmarks: seed.Bookmarks()})

	resp, _ := post(t, ts.URL+"/api/bookmarks", `[{"id":"x","title":"Vandalised"}]`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, body := get(t, ts.URL+"/api/bookmarks")
	assert.NotContains(t, string(body), "Vandalised")
}

func TestInvalidWidgetType_FileUnchanged(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	ts := newTestServer(t, Config{DataDir: dir})

	valid := `[{"id":"1","type":"todo","size":{"w":2,"h":2},"position":{"x":0,"y":0},"config":{"items":[]}}]`
	resp, _ := post(t, ts.URL+"/api/widgets", valid)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	onDisk, err := os.ReadFile(filepath.Join(dir, "widgets.json"))
	require.NoError(t, err)

	resp, body := post(t, ts.URL+"/api/widgets",
		`[{"id":"1","type":"spaceship","size":{"w":2,"h":2},"position":{"x":0,"y":0}}]`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp model.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.NotEmpty(t, errResp.Details)

	still, err := os.ReadFile(filepath.Join(dir, "widgets.json"))
	require.NoError(t, err)
	assert.Equal(t, onDisk, still)
}

func TestSettings_NoCacheAndVersion(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, body := get(t, ts.URL+"/api/settings")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{}`, string(body))
	assert.Contains(t, resp.Header.Get("Cache-Control"), "no-store")
	assert.Equal(t, "0", resp.Header.Get(model.VersionHeader))

	resp, _ = post(t, ts.URL+"/api/settings", `{"themeColor":"#ff8800","backgroundBlur":4}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Cache-Control"))

	_, body = get(t, ts.URL+"/api/settings")
	assert.JSONEq(t, `{"themeColor":"#ff8800","backgroundBlur":4}`, string(body))
}

func TestStaticFiles(t *testing.T) {
	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "hello.txt"), []byte("hi"), 0o644))

	ts := newTestServer(t, Config{StaticDir: static})

	resp, body := get(t, ts.URL+"/static/hello.txt")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hi", string(body))
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, _ := get(t, ts.URL+"/api/snippets")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRunStopsWhenContextEnds(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(Config{Port: 0, DataDir: t.TempDir()}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout):
		t.Fatal("Run did not return after cancel")
	}
}
