package importer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/navidash/internal/apperror"
	"github.com/sakif/navidash/internal/model"
)

const chromeExport = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<!-- This is an automatically generated file. -->
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><H3 ADD_DATE="1700000000" PERSONAL_TOOLBAR_FOLDER="true">Bookmarks bar</H3>
    <DL><p>
        <DT><A HREF="https://go.dev/" ADD_DATE="1700000001">The Go Programming Language</A>
        <DT><H3>Tools</H3>
        <DL><p>
            <DT><A HREF="https://github.com/">GitHub</A>
            <DT><A HREF="https://pkg.go.dev/">  pkg.go.dev  </A>
        </DL><p>
        <DT><H3>Empty</H3>
        <DL><p>
        </DL><p>
    </DL><p>
    <DT><A HREF="https://news.ycombinator.com/">Hacker News</A>
    <DT><A>No href</A>
</DL><p>
`

func TestParseNetscape(t *testing.T) {
	tree, err := ParseNetscape(strings.NewReader(chromeExport))
	require.NoError(t, err)

	require.Len(t, tree, 2)
	bar := tree[0]
	assert.Equal(t, "Bookmarks bar", bar.Title)
	assert.True(t, bar.IsFolder())
	require.Len(t, bar.Children, 3)

	assert.Equal(t, "The Go Programming Language", bar.Children[0].Title)
	assert.Equal(t, "https://go.dev/", bar.Children[0].URL)
	assert.False(t, bar.Children[0].IsFolder())

	tools := bar.Children[1]
	assert.Equal(t, "Tools", tools.Title)
	require.Len(t, tools.Children, 2)
	assert.Equal(t, "pkg.go.dev", tools.Children[1].Title, "whitespace is collapsed")

	empty := bar.Children[2]
	assert.True(t, empty.IsFolder())
	assert.Empty(t, empty.Children)

	assert.Equal(t, "Hacker News", tree[1].Title)
	assert.Equal(t, 7, model.CountBookmarks(tree))
}

func TestParseNetscape_UniqueIDs(t *testing.T) {
	tree, err := ParseNetscape(strings.NewReader(chromeExport))
	require.NoError(t, err)

	seen := map[string]bool{}
	var walk func([]model.Bookmark)
	walk = func(items []model.Bookmark) {
		for _, b := range items {
			require.NotEmpty(t, b.ID)
			assert.False(t, seen[b.ID], "duplicate id %s", b.ID)
			seen[b.ID] = true
			walk(b.Children)
		}
	}
	walk(tree)
}

func TestParseNetscape_NoList(t *testing.T) {
	_, err := ParseNetscape(strings.NewReader(`<html><body><p>hello</p></body></html>`))
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestParseNetscape_EmptyList(t *testing.T) {
	tree, err := ParseNetscape(strings.NewReader(`<DL><p></DL>`))
	require.NoError(t, err)
	assert.NotNil(t, tree)
	assert.Empty(t, tree)
}
