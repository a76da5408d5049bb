package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/parking-admin/pkg/clients/parkingclient"
	"github.com/jakechorley/parking-admin/pkg/core/model"
	"github.com/jakechorley/parking-admin/pkg/session"
)

// Login signs in and stores the session token
func Login(ctx context.Context, client AuthClient, n Notifier, logger *zap.Logger, form model.LoginForm) (*parkingclient.AuthResponse, error) {
	if err := model.Validate(form); err != nil {
		return nil, err
	}

	logger.Info("Logging in", zap.String("username", form.Username))

	resp, err := client.Login(ctx, form.Username, form.Password)
	if err != nil {
		// A 401 here is a credentials problem, not an expired session
		if parkingclient.IsUnauthorized(err) {
			n.Notify(LevelError, "Login failed: Invalid username or password")
			return nil, &notifiedError{err: fmt.Errorf("Login failed: %w", err)}
		}
		return nil, fail(n, "Login failed", err)
	}

	name := resp.User.Username
	if name == "" {
		name = form.Username
	}
	n.Notify(LevelSuccess, fmt.Sprintf("Welcome back, %s", name))
	return resp, nil
}

// Register creates an account and stores the session token
func Register(ctx context.Context, client AuthClient, n Notifier, logger *zap.Logger, form model.RegisterForm) (*parkingclient.AuthResponse, error) {
	if err := model.Validate(form); err != nil {
		return nil, err
	}

	logger.Info("Registering account", zap.String("name", form.Name), zap.String("email", form.Email))

	resp, err := client.Register(ctx, form.Name, form.Email, form.Password)
	if err != nil {
		return nil, fail(n, "Registration failed", err)
	}

	n.Notify(LevelSuccess, "Account created")
	return resp, nil
}

// ForgotPassword requests a password reset code by email
func ForgotPassword(ctx context.Context, client AuthClient, n Notifier, logger *zap.Logger, form model.ForgotPasswordForm) error {
	if err := model.Validate(form); err != nil {
		return err
	}

	logger.Info("Requesting password reset", zap.String("email", form.Email))

	if err := client.ForgotPassword(ctx, form.Email); err != nil {
		return fail(n, "Failed to send reset code", err)
	}

	n.Notify(LevelSuccess, "Reset code sent to your email")
	return nil
}

// ResetPassword sets a new password using the emailed code
func ResetPassword(ctx context.Context, client AuthClient, n Notifier, logger *zap.Logger, form model.ResetPasswordForm) error {
	if err := model.Validate(form); err != nil {
		return err
	}

	logger.Info("Resetting password", zap.String("email", form.Email))

	if err := client.ResetPassword(ctx, form.Email, form.Code, form.Password); err != nil {
		return fail(n, "Failed to reset password", err)
	}

	n.Notify(LevelSuccess, "Password reset, please log in")
	return nil
}

// VerifyEmail confirms an account's email address
func VerifyEmail(ctx context.Context, client AuthClient, n Notifier, logger *zap.Logger, token string) error {
	if token == "" {
		return fmt.Errorf("verification token is required")
	}

	logger.Info("Verifying email")

	if err := client.VerifyEmail(ctx, token); err != nil {
		return fail(n, "Email verification failed", err)
	}

	n.Notify(LevelSuccess, "Email verified")
	return nil
}

// Logout forgets the session
func Logout(client AuthClient, n Notifier, logger *zap.Logger) error {
	logger.Info("Logging out")

	if err := client.Logout(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	n.Notify(LevelSuccess, "Logged out")
	return nil
}

// ClaimsSource exposes the decoded claims of the current session
type ClaimsSource interface {
	Claims() (*session.Claims, error)
}

// WhoAmI returns what the current session token says about its holder.
// Opaque tokens yield empty claims rather than an error.
func WhoAmI(src ClaimsSource, logger *zap.Logger) (*session.Claims, error) {
	claims, err := src.Claims()
	if errors.Is(err, session.ErrNoSession) {
		return nil, err
	}
	if err != nil {
		logger.Debug("Session token has no readable claims", zap.Error(err))
		return &session.Claims{}, nil
	}
	return claims, nil
}
