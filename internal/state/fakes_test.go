package state

import (
	"context"
	"sync"

	"github.com/sakif/navidash/internal/client"
	"github.com/sakif/navidash/internal/model"
)

var (
	_ BookmarkRemote = (*client.Client)(nil)
	_ WidgetRemote   = (*client.Client)(nil)
	_ SettingsRemote = (*client.Client)(nil)
)

// fakeRemote is an in-memory server for all three documents. It records every
// save so tests can count writes and inspect what was sent.
type fakeRemote struct {
	mu sync.Mutex

	bookmarks []model.Bookmark
	widgets   []model.Widget
	settings  model.Settings
	version   int64

	demo     bool
	fetchErr error
	saveErr  error

	bookmarkSaves [][]model.Bookmark
	widgetSaves   [][]model.Widget
	settingsSaves []model.Settings
}

func (f *fakeRemote) Bookmarks(context.Context) ([]model.Bookmark, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, 0, f.fetchErr
	}
	return cloneTree(f.bookmarks), f.version, nil
}

func (f *fakeRemote) SaveBookmarks(_ context.Context, tree []model.Bookmark) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookmarkSaves = append(f.bookmarkSaves, cloneTree(tree))
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	f.bookmarks = cloneTree(tree)
	f.version++
	return f.version, nil
}

func (f *fakeRemote) Widgets(context.Context) ([]model.Widget, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, 0, f.fetchErr
	}
	return cloneWidgets(f.widgets), f.version, nil
}

func (f *fakeRemote) SaveWidgets(_ context.Context, widgets []model.Widget) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.widgetSaves = append(f.widgetSaves, cloneWidgets(widgets))
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	f.widgets = cloneWidgets(widgets)
	f.version++
	return f.version, nil
}

func (f *fakeRemote) DemoMode() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.demo
}

func (f *fakeRemote) Settings(context.Context) (model.Settings, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return model.Settings{}, 0, f.fetchErr
	}
	return f.settings, f.version, nil
}

func (f *fakeRemote) SaveSettings(_ context.Context, settings model.Settings) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settingsSaves = append(f.settingsSaves, settings)
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	f.settings = settings
	f.version++
	return f.version, nil
}

func (f *fakeRemote) bookmarkSaveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.bookmarkSaves)
}

func (f *fakeRemote) widgetSaveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.widgetSaves)
}

// memSlots is an in-memory repository.SlotStore.
type memSlots struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemSlots() *memSlots {
	return &memSlots{data: make(map[string][]byte)}
}

func (m *memSlots) Load(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[name], nil
}

func (m *memSlots) Save(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[name] = append([]byte(nil), data...)
	return nil
}

// recorder is a Notifier that keeps every notice.
type recorder struct {
	mu      sync.Mutex
	notices []notice
}

type notice struct {
	level   Level
	message string
}

func (r *recorder) Notify(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice{level, message})
}

func (r *recorder) all() []notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notice(nil), r.notices...)
}
