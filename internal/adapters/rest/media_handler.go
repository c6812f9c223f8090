package rest

import (
	"errors"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/mchugh/liveblog/internal/adapters/blob"
)

// MediaHandler serves stored asset blobs
type MediaHandler struct {
	*BaseHandler
	store *blob.FileStore
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(base *BaseHandler, store *blob.FileStore) *MediaHandler {
	return &MediaHandler{
		BaseHandler: base,
		store:       store,
	}
}

// ServeAsset streams a stored asset by name
func (h *MediaHandler) ServeAsset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	file, err := h.store.Open(r.Context(), name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			h.WriteJSONError(w, r, ErrorCodeNotFound, "asset not found", http.StatusNotFound)
			return
		}
		h.HandleError(w, r, err)
		return
	}
	defer file.Close()

	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")

	if _, err := io.Copy(w, file); err != nil {
		h.logger.Warn(r.Context(), "failed to stream asset", "name", name, "error", err)
	}
}
