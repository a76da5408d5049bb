package services

import (
	"context"

	"github.com/jakechorley/parking-admin/pkg/clients/parkingclient"
	"github.com/jakechorley/parking-admin/pkg/core/model"
)

// CalendarClient defines the calendar read needed by the calendar pages
type CalendarClient interface {
	GetCalendar(ctx context.Context, year, month int) ([]model.CalendarDate, error)
}

// DateUpdater defines the single-date writes issued by the calendar pages
type DateUpdater interface {
	UpdatePrice(ctx context.Context, date string, price float64) (*parkingclient.UpdateResult, error)
	UpdateCapacity(ctx context.Context, date string, capacity int) (*parkingclient.UpdateResult, error)
	UpdateAvailability(ctx context.Context, date string, availability model.Availability, manualOverride bool) (*parkingclient.UpdateResult, error)
}

// CalendarAPI is everything the calendar pages need from the backend
type CalendarAPI interface {
	CalendarClient
	DateUpdater
}

// BookingsClient defines the bookings reads
type BookingsClient interface {
	GetBookings(ctx context.Context) ([]model.Booking, error)
	GetBookingsByDate(ctx context.Context, date string) ([]model.Booking, error)
}

// AlertsClient defines the alert operations
type AlertsClient interface {
	GetAlerts(ctx context.Context) ([]model.Alert, error)
	MarkAlertRead(ctx context.Context, id string) error
}

// LogsClient defines the change-history read
type LogsClient interface {
	GetLogs(ctx context.Context) ([]model.LogEntry, error)
}

// StaffClient defines the staff management operations
type StaffClient interface {
	GetStaff(ctx context.Context) ([]model.Staff, error)
	CreateStaff(ctx context.Context, form model.StaffForm) (*model.Staff, error)
	UpdateStaffRole(ctx context.Context, staffID string, role model.Role) error
	UpdateStaffPermissions(ctx context.Context, staffID string, permissions []string) error
	DeleteUser(ctx context.Context, id string) error
}

// SettingsClient defines the settings page operations
type SettingsClient interface {
	GetProfile(ctx context.Context) (*model.Profile, error)
	UpdateProfile(ctx context.Context, update model.ProfileUpdate) (*model.Profile, error)
	GetBusinessSettings(ctx context.Context) (*model.BusinessSettings, error)
	UpdateBusinessSettings(ctx context.Context, update model.BusinessUpdate) (*model.BusinessSettings, error)
	GetNotificationSettings(ctx context.Context) (*model.NotificationSettings, error)
	UpdateNotificationSettings(ctx context.Context, update model.NotificationUpdate) (*model.NotificationSettings, error)
	GetAPIKey(ctx context.Context) (string, error)
	RegenerateAPIKey(ctx context.Context) (string, error)
}

// AuthClient defines the account operations behind the login pages
type AuthClient interface {
	Login(ctx context.Context, username, password string) (*parkingclient.AuthResponse, error)
	Register(ctx context.Context, name, email, password string) (*parkingclient.AuthResponse, error)
	Logout() error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	VerifyEmail(ctx context.Context, token string) error
}
