// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/commodity-admin/internal/catalog"
	"github.com/javajoker/commodity-admin/internal/config"
	"github.com/javajoker/commodity-admin/internal/utils"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// SessionFactory binds a session API to a token; logout runs with the token
// of the session being closed.
type SessionFactory func(token string) SessionAPI

type AuthService struct {
	sessions   SessionFactory
	workspaces *WorkspaceStore
	cfg        config.SessionConfig
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type AuthResponse struct {
	Email     string `json:"email"`
	Cookie    string `json:"-"`
	ExpiresIn int    `json:"expires_in"` // in seconds
}

func NewAuthService(sessions SessionFactory, workspaces *WorkspaceStore, cfg config.SessionConfig) *AuthService {
	return &AuthService{
		sessions:   sessions,
		workspaces: workspaces,
		cfg:        cfg,
	}
}

// Login verifies credentials with the catalog and wraps the catalog's session
// token into the dashboard's session cookie value.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	upstream, err := s.sessions("").AdminLogin(ctx, catalog.Credentials{Email: email, Password: req.Password})
	if err != nil {
		var apiErr *catalog.APIError
		if errors.As(err, &apiErr) && (apiErr.Status == 400 || apiErr.Status == 401 || apiErr.Status == 403) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, catalog.UserMessage(err))
		}
		return nil, err
	}

	cookie, err := utils.GenerateSessionToken(email, upstream, s.cfg.TTLHours)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	logrus.WithField("email", email).Info("Admin logged in")
	return &AuthResponse{
		Email:     email,
		Cookie:    cookie,
		ExpiresIn: s.cfg.TTLHours * 3600,
	}, nil
}

// Logout closes the catalog session and drops the dashboard workspace. The
// workspace is dropped even when the catalog call fails.
func (s *AuthService) Logout(ctx context.Context, cookie, upstream string) error {
	s.workspaces.Drop(cookie)

	if err := s.sessions(upstream).AdminLogout(ctx); err != nil {
		logrus.WithError(err).Warn("Catalog logout failed")
		return err
	}
	return nil
}

// ResolveSession returns the upstream token and admin email for a cookie
// value. A cookie that is not one of our JWTs is forwarded unchanged.
func ResolveSession(cookie string) (upstream, email string) {
	claims, err := utils.ParseSessionToken(cookie)
	if err != nil {
		return cookie, ""
	}
	return claims.Upstream, claims.Email
}
