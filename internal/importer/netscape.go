// Package importer turns browser bookmark exports into bookmark trees.
package importer

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/sakif/navidash/internal/apperror"
	"github.com/sakif/navidash/internal/model"
)

// ParseNetscape reads a "Netscape bookmark file", the HTML every major
// browser exports:
//
//	<DL><p>
//	    <DT><H3>Folder</H3>
//	    <DL><p>
//	        <DT><A HREF="https://go.dev">Go</A>
//	    </DL><p>
//	</DL>
//
// Each <H3> becomes a folder (Children non-nil, possibly empty) and each
// <A HREF> a link. Every node gets a fresh id. Links without an href are
// skipped.
func ParseNetscape(r io.Reader) ([]model.Bookmark, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	top := findElement(doc, "dl")
	if top == nil {
		return nil, apperror.ValidationFailed("(root)", "no bookmark list found")
	}
	return parseList(top), nil
}

// parseList converts the <DT> entries of one <DL>. The HTML parser sometimes
// leaves entries inside stray <p> elements, so those are searched too.
func parseList(dl *html.Node) []model.Bookmark {
	out := []model.Bookmark{}
	for c := dl.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "dt":
			if b, ok := parseEntry(c); ok {
				out = append(out, b)
			}
		case "p":
			out = append(out, parseList(c)...)
		}
	}
	return out
}

func parseEntry(dt *html.Node) (model.Bookmark, bool) {
	for c := dt.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "h3":
			folder := model.Bookmark{
				ID:       model.NewID(),
				Title:    text(c),
				Children: []model.Bookmark{},
			}
			if sub := findElement(dt, "dl"); sub != nil {
				folder.Children = parseList(sub)
			}
			return folder, true
		case "a":
			href := attr(c, "href")
			if href == "" {
				return model.Bookmark{}, false
			}
			title := text(c)
			if title == "" {
				title = href
			}
			return model.Bookmark{ID: model.NewID(), Title: title, URL: href}, true
		}
	}
	return model.Bookmark{}, false
}

// findElement returns the first element named tag below n, depth first.
func findElement(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
