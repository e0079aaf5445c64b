package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"

	"github.com/heartmarshall/forkful-backend/internal/domain"
)

type blobOpener interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// MediaHandler streams stored images. Blob names are unique per upload so
// responses are cached aggressively.
type MediaHandler struct {
	blobs blobOpener
	log   *slog.Logger
}

// NewMediaHandler creates a MediaHandler.
func NewMediaHandler(blobs blobOpener, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{blobs: blobs, log: logger.With("handler", "media")}
}

// Serve handles GET /media/{name...}.
func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	rc, err := h.blobs.Open(r.Context(), name)
	if err != nil {
		// The local store reports unsafe names as validation errors.
		if errors.Is(err, domain.ErrValidation) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		handleError(h.log, w, r, err)
		return
	}
	defer rc.Close()

	ct := mime.TypeByExtension(path.Ext(name))
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		h.log.WarnContext(r.Context(), "stream blob", slog.String("name", name), slog.String("error", err.Error()))
	}
}
