package validate

import (
	"encoding/json"
	"strings"

	"github.com/sakif/navidash/internal/apperror"
	"github.com/sakif/navidash/internal/model"
)

// Widgets validates a flat widget list and decodes it. A missing or null
// config becomes {}.
//
// Beyond the shape checks, sizes must be at least 1×1, coordinates must be
// non-negative whole numbers, and ids must be unique within the list.
func Widgets(raw []byte) ([]model.Widget, error) {
	v, err := decodeGeneric(raw)
	if err != nil {
		return nil, apperror.ValidationFailed("", "body must be valid JSON: "+err.Error())
	}

	var p problems
	items, ok := v.([]any)
	if !ok {
		p.add("(root)", "must be an array of widgets")
		return nil, apperror.Invalid("widgets", p)
	}

	seen := make(map[string]int, len(items))
	for i, item := range items {
		path := index("", i)
		widgetItem(item, path, &p)

		if obj, isObj := item.(map[string]any); isObj {
			if id, isString := obj["id"].(string); isString {
				if first, dup := seen[id]; dup {
					p.add(join(path, "id"), "duplicates the id of [%d]", first)
				} else {
					seen[id] = i
				}
			}
		}
	}
	if len(p) > 0 {
		return nil, apperror.Invalid("widgets", p)
	}

	var out []model.Widget
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, apperror.ValidationFailed("", err.Error())
	}
	if out == nil {
		out = []model.Widget{}
	}
	for i := range out {
		out[i] = out[i].Normalized()
	}
	return out, nil
}

func widgetItem(v any, path string, p *problems) {
	obj, ok := v.(map[string]any)
	if !ok {
		p.add(path, "must be an object")
		return
	}

	requireString(obj, "id", path, p)

	switch t := obj["type"].(type) {
	case nil:
		p.add(join(path, "type"), "is required")
	case string:
		if !model.WidgetType(t).Valid() {
			p.add(join(path, "type"), "must be one of %s", typeList())
		}
	default:
		p.add(join(path, "type"), "must be a string")
	}

	if size, ok := obj["size"].(map[string]any); ok {
		requireInt(size, "w", join(path, "size"), 1, p)
		requireInt(size, "h", join(path, "size"), 1, p)
	} else {
		p.add(join(path, "size"), "must be an object with w and h")
	}

	if pos, ok := obj["position"].(map[string]any); ok {
		requireInt(pos, "x", join(path, "position"), 0, p)
		requireInt(pos, "y", join(path, "position"), 0, p)
	} else {
		p.add(join(path, "position"), "must be an object with x and y")
	}

	if cfg, present := obj["config"]; present && cfg != nil {
		if _, isObj := cfg.(map[string]any); !isObj {
			p.add(join(path, "config"), "must be an object")
		}
	}
}

func typeList() string {
	names := make([]string, len(model.WidgetTypes))
	for i, t := range model.WidgetTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
