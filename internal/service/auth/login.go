package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	internalauth "github.com/heartmarshall/forkful-backend/internal/auth"
	"github.com/heartmarshall/forkful-backend/internal/domain"
	"github.com/heartmarshall/forkful-backend/pkg/ctxutil"
)

// Login authenticates the configured admin with email + password.
// Returns ErrUnauthorized if admin login is disabled or the credentials
// do not match.
func (s *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	input.Email = strings.TrimSpace(input.Email)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	if !s.cfg.AdminEnabled() {
		return nil, domain.ErrUnauthorized
	}

	emailOK := subtle.ConstantTimeCompare(
		[]byte(strings.ToLower(input.Email)),
		[]byte(strings.ToLower(strings.TrimSpace(s.cfg.AdminEmail))),
	) == 1
	// The hash is compared even for a wrong email so both paths cost the same.
	pwErr := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(input.Password))
	if !emailOK || pwErr != nil {
		s.log.WarnContext(ctx, "admin login rejected", slog.String("client_ip", ctxutil.ClientIPFromCtx(ctx)))
		return nil, domain.ErrUnauthorized
	}

	token, expires, err := s.jwt.GenerateAccessToken(internalauth.AdminSubject(s.cfg.AdminEmail), ctxutil.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("auth.Login issue token: %w", err)
	}

	s.log.InfoContext(ctx, "admin logged in")

	return &LoginResult{AccessToken: token, ExpiresAt: expires}, nil
}
