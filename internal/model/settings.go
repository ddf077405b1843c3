package model

import (
	"fmt"
	"strconv"
)

// Settings is the appearance record. There is exactly one per deployment.
//
// Every field is optional on the wire so that a partial record (or {}) is a
// valid document. A zero Settings means "the server has nothing yet".
type Settings struct {
	BackgroundImage   string  `json:"backgroundImage,omitempty"`
	BackgroundBlur    float64 `json:"backgroundBlur,omitempty"`
	BackgroundOpacity float64 `json:"backgroundOpacity,omitempty"`
	BackgroundSize    string  `json:"backgroundSize,omitempty"`
	BackgroundRepeat  string  `json:"backgroundRepeat,omitempty"`
	ThemeColor        string  `json:"themeColor,omitempty"`
	CustomFavicon     string  `json:"customFavicon,omitempty"`
	CustomTitle       string  `json:"customTitle,omitempty"`
	Language          string  `json:"language,omitempty"`
}

// Languages the UI ships strings for.
var Languages = []string{"en", "zh"}

// IsZero reports whether s carries no value at all.
func (s Settings) IsZero() bool {
	return s == Settings{}
}

// SetField assigns one field by its JSON name. Used by the CLI's KEY=VALUE
// syntax; range checks are left to the validator.
func (s *Settings) SetField(key, value string) error {
	switch key {
	case "backgroundImage":
		s.BackgroundImage = value
	case "backgroundSize":
		s.BackgroundSize = value
	case "backgroundRepeat":
		s.BackgroundRepeat = value
	case "themeColor":
		s.ThemeColor = value
	case "customFavicon":
		s.CustomFavicon = value
	case "customTitle":
		s.CustomTitle = value
	case "language":
		s.Language = value
	case "backgroundBlur", "backgroundOpacity":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", key, value)
		}
		if key == "backgroundBlur" {
			s.BackgroundBlur = f
		} else {
			s.BackgroundOpacity = f
		}
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}
