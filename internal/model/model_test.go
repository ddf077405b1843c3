package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookmarkFolderOnTheWire(t *testing.T) {
	tests := []struct {
		name string
		node Bookmark
		want string
	}{
		{
			name: "link has no children key",
			node: Bookmark{ID: "a", Title: "A", URL: "https://a.test"},
			want: `{"id":"a","title":"A","url":"https://a.test"}`,
		},
		{
			name: "empty folder keeps an empty array",
			node: Bookmark{ID: "f", Title: "F", Children: []Bookmark{}},
			want: `{"id":"f","title":"F","children":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.node)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(raw))

			var back Bookmark
			require.NoError(t, json.Unmarshal(raw, &back))
			assert.Equal(t, tt.node.IsFolder(), back.IsFolder())
		})
	}
}

func TestBookmarkPatchApply(t *testing.T) {
	title := "Renamed"
	b := Bookmark{ID: "a", Title: "A", URL: "https://a.test", Icon: "globe"}

	got := BookmarkPatch{Title: &title}.Apply(b)

	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, "https://a.test", got.URL)
	assert.Equal(t, "globe", got.Icon)
	assert.Equal(t, "A", b.Title, "the original is untouched")
}

func TestCountBookmarks(t *testing.T) {
	tree := []Bookmark{
		{ID: "f", Title: "F", Children: []Bookmark{
			{ID: "a", Title: "A", URL: "https://a.test"},
			{ID: "g", Title: "G", Children: []Bookmark{}},
		}},
		{ID: "b", Title: "B", URL: "https://b.test"},
	}
	assert.Equal(t, 4, CountBookmarks(tree))
	assert.Zero(t, CountBookmarks(nil))
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := NewID()
		assert.Len(t, id, 20)
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestWidgetType(t *testing.T) {
	assert.True(t, WidgetClock.Valid())
	assert.True(t, WidgetRSS.Valid())
	assert.False(t, WidgetType("toaster").Valid())
	assert.False(t, WidgetType("").Valid())

	assert.Equal(t, Size{W: 2, H: 1}, WidgetClock.DefaultSize())
	assert.Equal(t, Size{W: 1, H: 1}, WidgetWeather.DefaultSize())
	assert.Equal(t, Size{W: 2, H: 2}, WidgetCalendar.DefaultSize())
}

func TestWidgetNormalized(t *testing.T) {
	for _, cfg := range []json.RawMessage{nil, json.RawMessage("null"), json.RawMessage("  ")} {
		assert.Equal(t, EmptyConfig, Widget{ID: "1", Config: cfg}.Normalized().Config)
	}

	kept := json.RawMessage(`{"city":"Oslo"}`)
	assert.Equal(t, kept, Widget{ID: "1", Config: kept}.Normalized().Config)
}

func TestNextRow(t *testing.T) {
	assert.Zero(t, NextRow(nil))

	widgets := []Widget{
		{ID: "1", Size: Size{W: 2, H: 1}, Position: Position{X: 0, Y: 0}},
		{ID: "2", Size: Size{W: 2, H: 3}, Position: Position{X: 2, Y: 1}},
		{ID: "3", Size: Size{W: 2, H: 2}, Position: Position{X: 0, Y: 2}},
	}
	assert.Equal(t, 4, NextRow(widgets))
}

func TestApplyLayout(t *testing.T) {
	widgets := []Widget{
		{ID: "1", Size: Size{W: 2, H: 1}, Position: Position{X: 0, Y: 0}},
		{ID: "2", Size: Size{W: 2, H: 2}, Position: Position{X: 2, Y: 0}},
	}

	t.Run("unchanged", func(t *testing.T) {
		_, changed := ApplyLayout(widgets, []LayoutItem{
			{ID: "1", X: 0, Y: 0, W: 2, H: 1},
			{ID: "2", X: 2, Y: 0, W: 2, H: 2},
		})
		assert.False(t, changed)
	})

	t.Run("moved", func(t *testing.T) {
		out, changed := ApplyLayout(widgets, []LayoutItem{{ID: "2", X: 0, Y: 1, W: 3, H: 2}})
		require.True(t, changed)
		assert.Equal(t, Position{X: 0, Y: 1}, out[1].Position)
		assert.Equal(t, Size{W: 3, H: 2}, out[1].Size)
		assert.Equal(t, widgets[0], out[0])
		assert.Equal(t, Position{X: 2, Y: 0}, widgets[1].Position, "input is not modified")
	})

	t.Run("unknown ids are ignored", func(t *testing.T) {
		out, changed := ApplyLayout(widgets, []LayoutItem{{ID: "9", X: 5, Y: 5, W: 1, H: 1}})
		assert.False(t, changed)
		assert.Equal(t, widgets, out)
	})
}

func TestSettingsSetField(t *testing.T) {
	var s Settings
	require.NoError(t, s.SetField("themeColor", "#fff"))
	require.NoError(t, s.SetField("backgroundBlur", "2.5"))
	require.NoError(t, s.SetField("backgroundOpacity", "0.4"))

	assert.Equal(t, "#fff", s.ThemeColor)
	assert.Equal(t, 2.5, s.BackgroundBlur)
	assert.Equal(t, 0.4, s.BackgroundOpacity)
	assert.False(t, s.IsZero())

	assert.Error(t, s.SetField("backgroundBlur", "lots"))
	assert.Error(t, s.SetField("fontSize", "12"))
	assert.True(t, Settings{}.IsZero())
}

func TestDocumentFileName(t *testing.T) {
	assert.Equal(t, "bookmarks.json", DocBookmarks.FileName())
}
