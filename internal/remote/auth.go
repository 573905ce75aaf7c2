package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"storefront/internal/models"
)

const (
	opLogin       = "login"
	opRegister    = "register"
	opLogout      = "logout"
	opCurrentUser = "current_user"
)

// Credentials for login and registration.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is the body returned by login and register.
type AuthResponse struct {
	Success bool         `json:"success"`
	Error   string       `json:"error,omitempty"`
	User    *models.User `json:"user,omitempty"`
}

// Login opens a session. A 2xx reply may still carry Success=false.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	return c.authenticate(ctx, opLogin, "auth/login", creds)
}

// Register creates an account and opens a session for it.
func (c *Client) Register(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	return c.authenticate(ctx, opRegister, "auth/register", creds)
}

func (c *Client) authenticate(ctx context.Context, operation, path string, creds Credentials) (*AuthResponse, error) {
	body, err := c.do(ctx, operation, http.MethodPost, path, creds)
	if err != nil {
		return nil, err
	}

	var resp AuthResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", operation, err)
	}
	return &resp, nil
}

// Logout ends the session upstream.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, opLogout, http.MethodPost, "auth/logout", nil)
	return err
}

// CurrentUser returns the user bound to the session. Anonymous sessions get
// a *StatusError with status 403.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	body, err := c.do(ctx, opCurrentUser, http.MethodGet, "auth/user", nil)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return &user, nil
}
