package model

import (
	"bytes"
	"encoding/json"
)

// WidgetType is the closed set of dashboard tile kinds.
type WidgetType string

const (
	WidgetClock       WidgetType = "clock"
	WidgetWeather     WidgetType = "weather"
	WidgetDate        WidgetType = "date"
	WidgetQuickLink   WidgetType = "quick-link"
	WidgetTodo        WidgetType = "todo"
	WidgetMemo        WidgetType = "memo"
	WidgetCalendar    WidgetType = "calendar"
	WidgetPhotoFrame  WidgetType = "photo-frame"
	WidgetMostVisited WidgetType = "most-visited"

	// Reserved: accepted on the wire, no renderer ships for them.
	WidgetRSS     WidgetType = "rss"
	WidgetMonitor WidgetType = "monitor"
)

// WidgetTypes lists every accepted kind in a stable order.
var WidgetTypes = []WidgetType{
	WidgetClock, WidgetWeather, WidgetDate, WidgetQuickLink, WidgetTodo, WidgetMemo,
	WidgetCalendar, WidgetPhotoFrame, WidgetMostVisited, WidgetRSS, WidgetMonitor,
}

// Valid reports whether t is a member of the closed enum.
func (t WidgetType) Valid() bool {
	for _, known := range WidgetTypes {
		if t == known {
			return true
		}
	}
	return false
}

// DefaultSize is the footprint a freshly placed widget of this kind gets.
func (t WidgetType) DefaultSize() Size {
	switch t {
	case WidgetClock, WidgetDate:
		return Size{W: 2, H: 1}
	case WidgetWeather, WidgetQuickLink:
		return Size{W: 1, H: 1}
	default:
		return Size{W: 2, H: 2}
	}
}

// Size is a footprint in grid units (columns × rows).
type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

// Position is a grid coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Widget is a single dashboard tile.
//
// Config belongs to the widget's renderer. The sync layer never looks inside
// it: it is kept as raw JSON so every key and number survives a round trip
// byte-for-byte (modulo whitespace).
type Widget struct {
	ID       string          `json:"id"`
	Type     WidgetType      `json:"type"`
	Size     Size            `json:"size"`
	Position Position        `json:"position"`
	Config   json.RawMessage `json:"config"`
}

// EmptyConfig is the config every widget starts with.
var EmptyConfig = json.RawMessage(`{}`)

// Normalized returns w with a missing or null config replaced by {}.
func (w Widget) Normalized() Widget {
	trimmed := bytes.TrimSpace(w.Config)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		w.Config = EmptyConfig
	}
	return w
}

// WidgetPatch is a shallow update merged into one widget by id.
type WidgetPatch struct {
	Type     *WidgetType
	Size     *Size
	Position *Position
	Config   json.RawMessage
}

// Apply returns a copy of w with the non-nil patch fields merged in.
func (p WidgetPatch) Apply(w Widget) Widget {
	if p.Type != nil {
		w.Type = *p.Type
	}
	if p.Size != nil {
		w.Size = *p.Size
	}
	if p.Position != nil {
		w.Position = *p.Position
	}
	if p.Config != nil {
		w.Config = p.Config
	}
	return w
}

// NextRow returns the first grid row below every placed widget.
// An empty dashboard starts at row 0.
func NextRow(widgets []Widget) int {
	maxY := 0
	for _, w := range widgets {
		if bottom := w.Position.Y + w.Size.H; bottom > maxY {
			maxY = bottom
		}
	}
	return maxY
}

// LayoutItem is one entry reported by the grid after a drag or resize.
type LayoutItem struct {
	ID string
	X  int
	Y  int
	W  int
	H  int
}

// ApplyLayout merges grid positions into widgets. It returns the merged list
// and whether anything actually moved or changed size.
func ApplyLayout(widgets []Widget, layout []LayoutItem) ([]Widget, bool) {
	byID := make(map[string]LayoutItem, len(layout))
	for _, l := range layout {
		byID[l.ID] = l
	}

	changed := false
	out := make([]Widget, len(widgets))
	for i, w := range widgets {
		l, ok := byID[w.ID]
		if ok {
			if w.Position.X != l.X || w.Position.Y != l.Y || w.Size.W != l.W || w.Size.H != l.H {
				changed = true
			}
			w.Position = Position{X: l.X, Y: l.Y}
			w.Size = Size{W: l.W, H: l.H}
		}
		out[i] = w
	}
	return out, changed
}
