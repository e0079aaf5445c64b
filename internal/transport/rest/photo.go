package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/forkful-backend/internal/domain"
	"github.com/heartmarshall/forkful-backend/internal/service/moderation"
	"github.com/heartmarshall/forkful-backend/internal/service/photo"
)

// multipartOverhead covers form fields and boundaries on top of the file.
const multipartOverhead = 64 << 10

type photoService interface {
	Upload(ctx context.Context, input photo.UploadInput) (*photo.UploadResult, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Photo, error)
	Score(ctx context.Context, id uuid.UUID) (*domain.Photo, moderation.Outcome, error)
}

// PhotoHandler serves user photo uploads.
type PhotoHandler struct {
	svc      photoService
	log      *slog.Logger
	maxBytes int64
}

// NewPhotoHandler creates a PhotoHandler. maxBytes bounds the uploaded file.
func NewPhotoHandler(svc photoService, maxBytes int64, logger *slog.Logger) *PhotoHandler {
	return &PhotoHandler{svc: svc, log: logger.With("handler", "photo"), maxBytes: maxBytes}
}

type photoResponse struct {
	Success bool     `json:"success"`
	Photo   photoDTO `json:"photo"`
	Error   string   `json:"error,omitempty"`
}

type photoScoreRequest struct {
	PhotoID string `json:"photoId"`
}

// Upload handles POST /api/photos (multipart: recipeSlug, submitter, file).
// When the photo is stored but scoring fails, the response carries the
// pending photo with success=false.
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	limit := h.maxBytes + multipartOverhead
	if r.ContentLength > limit {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unable to read file")
		return
	}

	res, err := h.svc.Upload(r.Context(), photo.UploadInput{
		RecipeSlug: r.FormValue("recipeSlug"),
		Submitter:  r.FormValue("submitter"),
		Data:       data,
	})
	if err != nil {
		if res != nil && res.Photo != nil && errors.Is(err, domain.ErrUpstream) {
			h.log.WarnContext(r.Context(), "photo stored, scoring failed",
				slog.String("photo_id", res.Photo.ID.String()),
				slog.String("error", err.Error()),
			)
			writeJSON(w, http.StatusBadGateway, photoResponse{
				Photo: toPhotoDTO(res.Photo),
				Error: "photo saved but could not be scored, it stays pending review",
			})
			return
		}
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, photoResponse{Success: true, Photo: toPhotoDTO(res.Photo)})
}

// Get handles GET /api/photos/{id}.
func (h *PhotoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid photo id")
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, photoResponse{Success: true, Photo: toPhotoDTO(p)})
}

// Score handles POST /api/photos/score.
func (h *PhotoHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req photoScoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := uuid.Parse(req.PhotoID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid photoId")
		return
	}

	_, out, err := h.svc.Score(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toScoreResponse(out))
}
