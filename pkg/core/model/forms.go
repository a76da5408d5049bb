package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MinPasswordLength is the shortest password the account forms accept
const MinPasswordLength = 6

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidationError is returned when a form fails client-side validation.
// No request is sent to the backend when this error is returned.
type ValidationError struct {
	Fields []string
	err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields, "; "))
}

func (e *ValidationError) Unwrap() error {
	return e.err
}

// IsValidationError reports whether err is a client-side validation failure
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate runs struct validation on a form and converts failures into a ValidationError
func Validate(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validation failed: %w", err)
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, describeFieldError(fe))
	}

	return &ValidationError{Fields: fields, err: err}
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// LoginForm holds the sign-in credentials
type LoginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// RegisterForm holds the new-account fields
type RegisterForm struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// ForgotPasswordForm requests a reset code
type ForgotPasswordForm struct {
	Email string `validate:"required,email"`
}

// ResetPasswordForm completes a password reset with the emailed code
type ResetPasswordForm struct {
	Email           string `validate:"required,email"`
	Code            string `validate:"required"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

// StaffForm holds the fields for a new staff account
type StaffForm struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role" validate:"required,oneof=admin staff"`
}

// RoleForm changes a staff member's role
type RoleForm struct {
	StaffID string `validate:"required"`
	Role    Role   `validate:"required,oneof=admin staff"`
}

// ProfileUpdate is a partial profile change; nil fields are left untouched
type ProfileUpdate struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Avatar   *string `json:"avatar,omitempty"`
}

// BusinessUpdate is a partial business settings change
type BusinessUpdate struct {
	Name     *string `json:"name,omitempty"`
	Address  *string `json:"address,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Currency *string `json:"currency,omitempty" validate:"omitempty,len=3"`
	TaxID    *string `json:"taxId,omitempty"`
}

// NotificationUpdate is a partial notification settings change
type NotificationUpdate struct {
	EmailAlerts       *bool `json:"emailAlerts,omitempty"`
	PushNotifications *bool `json:"pushNotifications,omitempty"`
	LowStockAlerts    *bool `json:"lowStockAlerts,omitempty"`
	WeeklyReports     *bool `json:"weeklyReports,omitempty"`
}
