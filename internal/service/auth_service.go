package service

import (
	"context"
	"errors"
	"sync"

	"storefront/internal/models"
	"storefront/internal/remote"
	"storefront/internal/util"

	"go.uber.org/zap"
)

const (
	msgLoginFailed    = "Login failed"
	msgRegisterFailed = "Registration failed"
)

// AuthClient is the remote authentication API.
type AuthClient interface {
	Login(ctx context.Context, creds remote.Credentials) (*remote.AuthResponse, error)
	Register(ctx context.Context, creds remote.Credentials) (*remote.AuthResponse, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)
}

// AuthResult is the outcome of a login, registration or logout.
type AuthResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Session tracks who is logged in against the remote API.
type Session struct {
	mu     sync.RWMutex
	client AuthClient
	user   *models.User
	logger *zap.Logger
}

// NewSession creates an anonymous session
func NewSession(client AuthClient) *Session {
	return &Session{client: client, logger: util.GetLogger()}
}

// Init asks the remote API whether the session cookie belongs to a user.
func (s *Session) Init(ctx context.Context) {
	ctx, span := util.StartSpan(ctx, "Session.Init")
	defer span.End()

	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		if !remote.IsForbidden(err) {
			s.logger.Error("Error checking user status", zap.Error(err))
		}
		user = nil
	}
	s.setUser(user)
}

// Login opens a session for username.
func (s *Session) Login(ctx context.Context, username, password string) AuthResult {
	ctx, span := util.StartSpan(ctx, "Session.Login")
	defer span.End()

	resp, err := s.client.Login(ctx, remote.Credentials{Username: username, Password: password})
	return s.finish(ctx, "login", resp, err, msgLoginFailed)
}

// Register creates an account and logs it in.
func (s *Session) Register(ctx context.Context, username, password string) AuthResult {
	ctx, span := util.StartSpan(ctx, "Session.Register")
	defer span.End()

	resp, err := s.client.Register(ctx, remote.Credentials{Username: username, Password: password})
	return s.finish(ctx, "register", resp, err, msgRegisterFailed)
}

func (s *Session) finish(ctx context.Context, action string, resp *remote.AuthResponse, err error, fallback string) AuthResult {
	if err != nil {
		s.logger.Warn("Authentication request failed", zap.String("action", action), zap.Error(err))
		var se *remote.StatusError
		if errors.As(err, &se) && se.Message != "" {
			return AuthResult{Error: se.Message}
		}
		return AuthResult{Error: fallback}
	}
	if !resp.Success {
		if resp.Error != "" {
			return AuthResult{Error: resp.Error}
		}
		return AuthResult{Error: fallback}
	}

	user := resp.User
	if user == nil {
		// Older servers answer without the user; ask for it.
		if user, err = s.client.CurrentUser(ctx); err != nil {
			s.logger.Warn("Authenticated but could not load user", zap.Error(err))
			user = nil
		}
	}
	s.setUser(user)
	s.logger.Info("User authenticated", zap.String("action", action), zap.String("username", username(user)))
	return AuthResult{Success: true}
}

// Logout ends the session. The local session is cleared even when the
// remote call fails.
func (s *Session) Logout(ctx context.Context) AuthResult {
	ctx, span := util.StartSpan(ctx, "Session.Logout")
	defer span.End()

	if err := s.client.Logout(ctx); err != nil {
		s.logger.Error("Logout error", zap.Error(err))
	}
	s.setUser(nil)
	return AuthResult{Success: true}
}

// Status reports the current authentication state.
func (s *Session) Status() models.AuthStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return models.AuthStatus{}
	}
	user := *s.user
	return models.AuthStatus{IsAuthenticated: true, User: &user}
}

func (s *Session) setUser(user *models.User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

func username(user *models.User) string {
	if user == nil {
		return ""
	}
	return user.Username
}
