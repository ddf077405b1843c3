// Package validate checks submitted documents before they are persisted.
//
// Validation runs on the generic JSON value (maps, slices, json.Number) rather
// than on decoded structs: a struct decoder would silently coerce or zero out
// fields, while here `{"id": 123}` must be reported as "id must be a string".
// Only a payload with no problems is then decoded into the typed model.
package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/sakif/navidash/internal/model"
)

// problems accumulates field errors while walking a payload.
type problems []model.FieldError

func (p *problems) add(path, format string, args ...any) {
	*p = append(*p, model.FieldError{Field: path, Message: fmt.Sprintf(format, args...)})
}

// decodeGeneric parses raw into an untyped value, keeping numbers exact.
func decodeGeneric(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return v, nil
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

// requireString checks that obj[key] exists and is a string.
func requireString(obj map[string]any, key, path string, p *problems) {
	v, ok := obj[key]
	if !ok || v == nil {
		p.add(join(path, key), "is required")
		return
	}
	if _, isString := v.(string); !isString {
		p.add(join(path, key), "must be a string")
	}
}

// optionalString accepts an absent key, null, or a string.
func optionalString(obj map[string]any, key, path string, p *problems) {
	v, ok := obj[key]
	if !ok || v == nil {
		return
	}
	if _, isString := v.(string); !isString {
		p.add(join(path, key), "must be a string")
	}
}

// number extracts a JSON number as float64.
func number(v any) (float64, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

// requireInt checks that obj[key] is an integral number no smaller than min.
func requireInt(obj map[string]any, key, path string, min int, p *problems) {
	v, ok := obj[key]
	if !ok || v == nil {
		p.add(join(path, key), "is required")
		return
	}
	f, isNumber := number(v)
	if !isNumber {
		p.add(join(path, key), "must be a number")
		return
	}
	if f != math.Trunc(f) {
		p.add(join(path, key), "must be a whole number")
		return
	}
	if f < float64(min) {
		p.add(join(path, key), "must be at least %d", min)
	}
}
