// Package model defines the data structures shared by the server and the client.
//
// The three synchronized documents are:
//   - the bookmark tree ([]Bookmark, arbitrarily nested)
//   - the widget list ([]Widget, flat)
//   - the settings record (Settings, a singleton)
//
// Each document is written and read wholesale; nothing in this package
// knows about HTTP or files.
package model

import "github.com/rs/xid"

// Bookmark is one node of the sidebar tree.
//
// FOLDER VS LINK:
// A node is a folder if and only if Children is non-nil (it may be empty).
// Everything else is a link. The `omitzero` tag keeps that distinction on the
// wire: a nil slice is dropped, an empty slice is written as [].
type Bookmark struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	URL      string     `json:"url,omitempty"`
	Icon     string     `json:"icon,omitempty"`
	Color    string     `json:"color,omitempty"`
	Children []Bookmark `json:"children,omitzero"`
}

// IsFolder reports whether b is a category rather than a link.
func (b Bookmark) IsFolder() bool {
	return b.Children != nil
}

// BookmarkPatch is a shallow update applied to a single node.
// Nil fields are left untouched.
type BookmarkPatch struct {
	Title    *string
	URL      *string
	Icon     *string
	Color    *string
	Children *[]Bookmark
}

// Apply returns a copy of b with the non-nil patch fields merged in.
func (p BookmarkPatch) Apply(b Bookmark) Bookmark {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.URL != nil {
		b.URL = *p.URL
	}
	if p.Icon != nil {
		b.Icon = *p.Icon
	}
	if p.Color != nil {
		b.Color = *p.Color
	}
	if p.Children != nil {
		b.Children = *p.Children
	}
	return b
}

// CountBookmarks returns the number of nodes in the forest, folders included.
func CountBookmarks(items []Bookmark) int {
	n := 0
	for _, item := range items {
		n++
		if item.Children != nil {
			n += CountBookmarks(item.Children)
		}
	}
	return n
}

// NewID generates an identifier for a node or widget created on the client.
// xid values are 20 URL-safe characters and sort by creation time.
func NewID() string {
	return xid.New().String()
}
