package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"taskcli/internal/service"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login implements service.Service.
// The backend answers 404 for an unknown email and 400 for a wrong
// password; both are credential rejections.
func (c *Client) Login(ctx context.Context, email, password string) (service.AuthResult, error) {
	var res service.AuthResult
	err := c.call(ctx, "login", http.MethodPost, PathLogin, loginRequest{Email: email, Password: password}, &res)

	var verr *service.ValidationError
	if errors.As(err, &verr) || errors.Is(err, service.ErrNotFound) {
		return service.AuthResult{}, fmt.Errorf("login: %w", service.ErrAuth)
	}
	if err != nil {
		return service.AuthResult{}, err
	}
	if res.Token == "" {
		return service.AuthResult{}, &service.ProtocolError{Op: "login", Err: errors.New("no token in response")}
	}
	return res, nil
}

// Register implements service.Service.
func (c *Client) Register(ctx context.Context, username, email, password string) (service.AuthResult, error) {
	var res service.AuthResult
	req := registerRequest{Username: username, Email: email, Password: password}
	if err := c.call(ctx, "register", http.MethodPost, PathRegister, req, &res); err != nil {
		return service.AuthResult{}, err
	}
	return res, nil
}

// Profile implements service.Service.
func (c *Client) Profile(ctx context.Context) (service.User, error) {
	var user service.User
	if err := c.call(ctx, "profile", http.MethodGet, PathProfile, nil, &user); err != nil {
		return service.User{}, err
	}
	return user, nil
}

// Logout implements service.Service.
func (c *Client) Logout(ctx context.Context) error {
	return c.call(ctx, "logout", http.MethodPost, PathLogout, nil, nil)
}
