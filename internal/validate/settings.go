package validate

import (
	"encoding/json"
	"regexp"
	"slices"
	"strings"

	"github.com/sakif/navidash/internal/apperror"
	"github.com/sakif/navidash/internal/model"
)

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

var settingsStrings = []string{
	"backgroundImage", "backgroundSize", "backgroundRepeat",
	"themeColor", "customFavicon", "customTitle", "language",
}

// Settings validates a (possibly partial) settings record and decodes it.
// Unknown keys are ignored and do not survive decoding.
func Settings(raw []byte) (model.Settings, error) {
	v, err := decodeGeneric(raw)
	if err != nil {
		return model.Settings{}, apperror.ValidationFailed("", "body must be valid JSON: "+err.Error())
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return model.Settings{}, apperror.Invalid("settings", []model.FieldError{
			{Field: "(root)", Message: "must be an object"},
		})
	}

	var p problems
	for _, key := range settingsStrings {
		optionalString(obj, key, "", &p)
	}

	if blur, present := obj["backgroundBlur"]; present && blur != nil {
		if f, isNumber := number(blur); !isNumber {
			p.add("backgroundBlur", "must be a number")
		} else if f < 0 {
			p.add("backgroundBlur", "must not be negative")
		}
	}
	if opacity, present := obj["backgroundOpacity"]; present && opacity != nil {
		if f, isNumber := number(opacity); !isNumber {
			p.add("backgroundOpacity", "must be a number")
		} else if f < 0 || f > 1 {
			p.add("backgroundOpacity", "must be between 0 and 1")
		}
	}
	if c, isString := obj["themeColor"].(string); isString && c != "" && !hexColor.MatchString(c) {
		p.add("themeColor", "must be a hex color like #3b82f6")
	}
	if lang, isString := obj["language"].(string); isString && lang != "" && !slices.Contains(model.Languages, lang) {
		p.add("language", "must be one of %s", strings.Join(model.Languages, ", "))
	}

	if len(p) > 0 {
		return model.Settings{}, apperror.Invalid("settings", p)
	}

	var out model.Settings
	if err := json.Unmarshal(raw, &out); err != nil {
		return model.Settings{}, apperror.ValidationFailed("", err.Error())
	}
	return out, nil
}
