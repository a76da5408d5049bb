package parkingclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jakechorley/parking-admin/pkg/core/model"
)

// AuthResponse is returned by login and register
type AuthResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login exchanges credentials for a bearer token and stores it in the session
func (c *Client) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}

	var resp AuthResponse
	if err := c.request(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, err
	}

	if err := c.storeToken(resp.Token); err != nil {
		return nil, err
	}

	return &resp, nil
}

// Register creates an account and stores the returned token in the session
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	body := map[string]string{
		"username": name,
		"name":     name,
		"email":    email,
		"password": password,
	}

	var resp AuthResponse
	if err := c.request(ctx, http.MethodPost, "/auth/register", body, &resp); err != nil {
		return nil, err
	}

	if err := c.storeToken(resp.Token); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) storeToken(token string) error {
	if token == "" {
		return fmt.Errorf("server did not return a session token")
	}
	if err := c.session.SetToken(token); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Logout forgets the session locally. The backend keeps no session state to revoke.
func (c *Client) Logout() error {
	return c.session.Clear()
}

// ForgotPassword asks the backend to email a reset code
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.request(ctx, http.MethodPost, "/auth/forgotPassword", map[string]string{"email": email}, nil)
}

// ResetPassword completes a password reset using the emailed code
func (c *Client) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	body := map[string]string{
		"email":       email,
		"token":       code,
		"newPassword": newPassword,
	}
	return c.request(ctx, http.MethodPost, "/auth/resetPassword", body, nil)
}

// VerifyEmail confirms an account's email address with the emailed token
func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	return c.request(ctx, http.MethodPost, "/auth/verify-email", map[string]string{"token": token}, nil)
}

// DeleteUser removes an account
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.request(ctx, http.MethodDelete, "/auth/deleteUser/"+url.PathEscape(id), nil, nil)
}
