package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/navidash/internal/model"
	"github.com/sakif/navidash/internal/service"
)

// MaxBodyBytes caps a POSTed document. A bookmark tree or widget list of any
// realistic size is far below it.
const MaxBodyBytes = 10 << 20

// SyncHandler serves the three synchronization resources.
//
// Each resource has the same two operations:
//
//	GET  /api/{doc} → the document body, X-Data-Version: <stamp>
//	POST /api/{doc} → {"success": true, "version": <stamp>}, or an error body
//
// The handler only speaks HTTP. Validation, the demo guard and versioning
// live in the service.
type SyncHandler struct {
	svc    *service.SyncService
	logger *slog.Logger
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(svc *service.SyncService, logger *slog.Logger) *SyncHandler {
	return &SyncHandler{svc: svc, logger: logger}
}

// HandleGet returns the handler for GET /api/{doc}.
func (h *SyncHandler) HandleGet(doc model.Document) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, version := h.svc.Get(r.Context(), doc)
		setVersion(w, version)
		writeRaw(w, http.StatusOK, body)
	}
}

// HandleSave returns the handler for POST /api/{doc}.
//
// BODY LIMIT:
// http.MaxBytesReader stops reading after MaxBodyBytes and makes ReadAll fail
// with *http.MaxBytesError, which becomes a 413.
func (h *SyncHandler) HandleSave(doc model.Document) http.HandlerFunc {
	save := h.saver(doc)

	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				setVersion(w, h.svc.Version(r.Context(), doc))
				writeJSON(w, http.StatusRequestEntityTooLarge, model.ErrorResponse{
					Error:   "payload_too_large",
					Message: "request body must be at most " + strconv.Itoa(MaxBodyBytes) + " bytes",
				})
				return
			}
			h.logger.Warn("failed to read request body",
				slog.String("document", string(doc)),
				slog.String("error", err.Error()),
			)
			writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
				Error:   "bad_request",
				Message: "could not read request body",
			})
			return
		}

		version, err := save(r.Context(), raw)
		if err != nil {
			h.logger.Debug("save rejected",
				slog.String("document", string(doc)),
				slog.String("error", err.Error()),
			)
			setVersion(w, h.svc.Version(r.Context(), doc))
			writeError(w, err)
			return
		}

		setVersion(w, version)
		writeJSON(w, http.StatusOK, model.SaveResponse{Success: true, Version: version})
	}
}

func (h *SyncHandler) saver(doc model.Document) func(context.Context, []byte) (int64, error) {
	switch doc {
	case model.DocBookmarks:
		return h.svc.SaveBookmarks
	case model.DocWidgets:
		return h.svc.SaveWidgets
	default:
		return h.svc.SaveSettings
	}
}

func setVersion(w http.ResponseWriter, version int64) {
	w.Header().Set(model.VersionHeader, strconv.FormatInt(version, 10))
}
