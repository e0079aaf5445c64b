package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/forkful-backend/internal/domain"
)

type inputValidator interface {
	ValidateUserInput(ctx context.Context, terms, essentials []string) domain.ValidationVerdict
}

// ValidateHandler exposes the food-input gate to the frontend.
type ValidateHandler struct {
	svc inputValidator
	log *slog.Logger
}

// NewValidateHandler creates a ValidateHandler.
func NewValidateHandler(svc inputValidator, logger *slog.Logger) *ValidateHandler {
	return &ValidateHandler{svc: svc, log: logger.With("handler", "validate")}
}

type validateRequest struct {
	Terms      []string `json:"terms"`
	Essentials []string `json:"essentials"`
}

type validateResponse struct {
	Success bool   `json:"success"`
	Valid   bool   `json:"valid"`
	Reason  string `json:"reason,omitempty"`
}

// Validate handles POST /api/validate. The verdict is always answered with
// 200; an invalid input is not a request error.
func (h *ValidateHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	v := h.svc.ValidateUserInput(r.Context(), req.Terms, req.Essentials)
	writeJSON(w, http.StatusOK, validateResponse{Success: true, Valid: v.Valid, Reason: v.Reason})
}
