package model

// Document names one of the three synchronized JSON documents.
type Document string

const (
	DocBookmarks Document = "bookmarks"
	DocWidgets   Document = "widgets"
	DocSettings  Document = "settings"
)

// Documents lists all synchronized documents.
var Documents = []Document{DocBookmarks, DocWidgets, DocSettings}

// FileName is the name of the document's JSON file in the data directory.
func (d Document) FileName() string {
	return string(d) + ".json"
}

// VersionHeader carries a document's version stamp on every response.
const VersionHeader = "X-Data-Version"

// SaveResponse is the body of a successful POST.
type SaveResponse struct {
	Success bool  `json:"success"`
	Version int64 `json:"version"`
}

// FieldError describes one problem found in a submitted document.
// Field is a path into the payload, e.g. "[0].children[2].title".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the standard error body returned by every endpoint.
type ErrorResponse struct {
	Error   string       `json:"error"`             // machine-readable kind, e.g. "validation_error"
	Message string       `json:"message"`           // human-readable description
	Details []FieldError `json:"details,omitempty"` // field-level problems, validation only
}
