package validate

import (
	"encoding/json"

	"github.com/sakif/navidash/internal/apperror"
	"github.com/sakif/navidash/internal/model"
)

// Bookmarks validates a bookmark forest and decodes it.
//
// The schema is self-referential: a node's children are checked by the same
// node rule, so trees of any depth are accepted. bookmarkList and
// bookmarkNode recurse into each other.
func Bookmarks(raw []byte) ([]model.Bookmark, error) {
	v, err := decodeGeneric(raw)
	if err != nil {
		return nil, apperror.ValidationFailed("", "body must be valid JSON: "+err.Error())
	}

	var p problems
	bookmarkList(v, "", &p)
	if len(p) > 0 {
		return nil, apperror.Invalid("bookmarks", p)
	}

	var out []model.Bookmark
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, apperror.ValidationFailed("", err.Error())
	}
	if out == nil {
		out = []model.Bookmark{}
	}
	return out, nil
}

func bookmarkList(v any, path string, p *problems) {
	items, ok := v.([]any)
	if !ok {
		field := path
		if field == "" {
			field = "(root)"
		}
		p.add(field, "must be an array of bookmarks")
		return
	}
	for i, item := range items {
		bookmarkNode(item, index(path, i), p)
	}
}

func bookmarkNode(v any, path string, p *problems) {
	obj, ok := v.(map[string]any)
	if !ok {
		p.add(path, "must be an object")
		return
	}

	requireString(obj, "id", path, p)
	requireString(obj, "title", path, p)
	optionalString(obj, "url", path, p)
	optionalString(obj, "icon", path, p)
	optionalString(obj, "color", path, p)

	if children, present := obj["children"]; present {
		bookmarkList(children, join(path, "children"), p)
	}
}
