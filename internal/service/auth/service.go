// Package auth implements admin login.
package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/forkful-backend/internal/config"
)

// jwtManager defines the JWT token management interface needed by auth service.
type jwtManager interface {
	GenerateAccessToken(subject uuid.UUID, role string) (string, time.Time, error)
	ValidateAccessToken(token string) (uuid.UUID, string, error)
}

// Service implements auth operations.
type Service struct {
	log *slog.Logger
	jwt jwtManager
	cfg config.AuthConfig
}

// NewService creates a new auth service instance.
func NewService(logger *slog.Logger, jwt jwtManager, cfg config.AuthConfig) *Service {
	return &Service{
		log: logger.With("service", "auth"),
		jwt: jwt,
		cfg: cfg,
	}
}

// ValidateToken verifies an access token and returns the subject and role.
func (s *Service) ValidateToken(_ context.Context, token string) (uuid.UUID, string, error) {
	return s.jwt.ValidateAccessToken(token)
}
