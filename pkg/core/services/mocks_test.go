package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jakechorley/parking-admin/pkg/clients/parkingclient"
	"github.com/jakechorley/parking-admin/pkg/core/model"
	"github.com/jakechorley/parking-admin/pkg/db"
)

type notification struct {
	level   Level
	message string
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []notification
}

func (r *recordingNotifier) Notify(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, notification{level: level, message: message})
}

func (r *recordingNotifier) all() []notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notification(nil), r.notes...)
}

func (r *recordingNotifier) errors() []string {
	var msgs []string
	for _, n := range r.all() {
		if n.level == LevelError {
			msgs = append(msgs, n.message)
		}
	}
	return msgs
}

var errBackend = &parkingclient.APIError{StatusCode: 500, Message: "Internal server error"}

type updateCall struct {
	kind  string
	date  string
	value any
}

// mockCalendarAPI serves a fixed month and records every write.
// Writes for dates in failDates fail with errBackend.
type mockCalendarAPI struct {
	mu        sync.Mutex
	dates     []model.CalendarDate
	getErr    error
	failDates map[string]bool
	failKinds map[string]bool
	respond   func(kind, date string) *parkingclient.UpdateResult
	calls     []updateCall
	gets      []string
}

func (m *mockCalendarAPI) GetCalendar(ctx context.Context, year, month int) ([]model.CalendarDate, error) {
	m.mu.Lock()
	m.gets = append(m.gets, fmt.Sprintf("%d/%d", year, month))
	m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return append([]model.CalendarDate(nil), m.dates...), nil
}

func (m *mockCalendarAPI) write(kind, date string, value any) (*parkingclient.UpdateResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, updateCall{kind: kind, date: date, value: value})
	m.mu.Unlock()

	if m.failDates[date] || m.failKinds[kind] {
		return nil, errBackend
	}
	if m.respond != nil {
		return m.respond(kind, date), nil
	}
	return &parkingclient.UpdateResult{Message: "ok"}, nil
}

func (m *mockCalendarAPI) UpdatePrice(ctx context.Context, date string, price float64) (*parkingclient.UpdateResult, error) {
	return m.write("price", date, price)
}

func (m *mockCalendarAPI) UpdateCapacity(ctx context.Context, date string, capacity int) (*parkingclient.UpdateResult, error) {
	return m.write("capacity", date, capacity)
}

func (m *mockCalendarAPI) UpdateAvailability(ctx context.Context, date string, availability model.Availability, manualOverride bool) (*parkingclient.UpdateResult, error) {
	return m.write("availability", date, availability)
}

func (m *mockCalendarAPI) writes() []updateCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]updateCall(nil), m.calls...)
}

// june2025 returns three open dates of June 2025 with plenty of space
func june2025() []model.CalendarDate {
	return []model.CalendarDate{
		{Date: "2025-06-01", Price: 40, Availability: model.Available, StatusColor: "green", Capacity: model.Capacity{Total: 300, Remaining: 250}, BookingsCount: 50},
		{Date: "2025-06-05", Price: 45, Availability: model.Available, StatusColor: "green", Capacity: model.Capacity{Total: 300, Remaining: 80}, BookingsCount: 220},
		{Date: "2025-06-07", Price: 3, Availability: model.Available, StatusColor: "green", Capacity: model.Capacity{Total: 300, Remaining: 10}, BookingsCount: 290},
	}
}

func loadedView(dates []model.CalendarDate) *CalendarView {
	view := NewCalendarView(2025, 6)
	view.replace(dates, true)
	return view
}

type mockBookingsClient struct {
	bookings []model.Booking
	err      error
	dates    []string
}

func (m *mockBookingsClient) GetBookings(ctx context.Context) ([]model.Booking, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.bookings, nil
}

func (m *mockBookingsClient) GetBookingsByDate(ctx context.Context, date string) ([]model.Booking, error) {
	m.dates = append(m.dates, date)
	if m.err != nil {
		return nil, m.err
	}
	return m.bookings, nil
}

type mockAlertsClient struct {
	alerts  []model.Alert
	getErr  error
	markErr error
	marked  []string
}

func (m *mockAlertsClient) GetAlerts(ctx context.Context) ([]model.Alert, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.alerts, nil
}

func (m *mockAlertsClient) MarkAlertRead(ctx context.Context, id string) error {
	m.marked = append(m.marked, id)
	return m.markErr
}

type mockLogsClient struct {
	entries []model.LogEntry
	err     error
}

func (m *mockLogsClient) GetLogs(ctx context.Context) ([]model.LogEntry, error) {
	return m.entries, m.err
}

type mockStaffClient struct {
	staff    []model.Staff
	err      error
	created  []model.StaffForm
	roles    map[string]model.Role
	perms    map[string][]string
	deleted  []string
	requests int
}

func (m *mockStaffClient) GetStaff(ctx context.Context) ([]model.Staff, error) {
	m.requests++
	if m.err != nil {
		return nil, m.err
	}
	return m.staff, nil
}

func (m *mockStaffClient) CreateStaff(ctx context.Context, form model.StaffForm) (*model.Staff, error) {
	m.requests++
	m.created = append(m.created, form)
	if m.err != nil {
		return nil, m.err
	}
	return &model.Staff{User: model.User{ID: "new-id", Username: form.Username, Email: form.Email, Role: form.Role}}, nil
}

func (m *mockStaffClient) UpdateStaffRole(ctx context.Context, staffID string, role model.Role) error {
	m.requests++
	if m.roles == nil {
		m.roles = make(map[string]model.Role)
	}
	m.roles[staffID] = role
	return m.err
}

func (m *mockStaffClient) UpdateStaffPermissions(ctx context.Context, staffID string, permissions []string) error {
	m.requests++
	if m.perms == nil {
		m.perms = make(map[string][]string)
	}
	m.perms[staffID] = permissions
	return m.err
}

func (m *mockStaffClient) DeleteUser(ctx context.Context, id string) error {
	m.requests++
	m.deleted = append(m.deleted, id)
	return m.err
}

type mockSettingsClient struct {
	profileErr  error
	businessErr error
	notifyErr   error
	apiKeyErr   error
	updateErr   error
	requests    int
}

func (m *mockSettingsClient) GetProfile(ctx context.Context) (*model.Profile, error) {
	if m.profileErr != nil {
		return nil, m.profileErr
	}
	return &model.Profile{Username: "admin", Email: "admin@example.com", Role: "admin"}, nil
}

func (m *mockSettingsClient) UpdateProfile(ctx context.Context, update model.ProfileUpdate) (*model.Profile, error) {
	m.requests++
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	p := &model.Profile{Username: "admin", Email: "admin@example.com"}
	if update.Email != nil {
		p.Email = *update.Email
	}
	return p, nil
}

func (m *mockSettingsClient) GetBusinessSettings(ctx context.Context) (*model.BusinessSettings, error) {
	if m.businessErr != nil {
		return nil, m.businessErr
	}
	return &model.BusinessSettings{Name: "Airport Parking", Currency: "GBP"}, nil
}

func (m *mockSettingsClient) UpdateBusinessSettings(ctx context.Context, update model.BusinessUpdate) (*model.BusinessSettings, error) {
	m.requests++
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return &model.BusinessSettings{Name: "Airport Parking"}, nil
}

func (m *mockSettingsClient) GetNotificationSettings(ctx context.Context) (*model.NotificationSettings, error) {
	if m.notifyErr != nil {
		return nil, m.notifyErr
	}
	return &model.NotificationSettings{EmailAlerts: true}, nil
}

func (m *mockSettingsClient) UpdateNotificationSettings(ctx context.Context, update model.NotificationUpdate) (*model.NotificationSettings, error) {
	m.requests++
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return &model.NotificationSettings{WeeklyReports: true}, nil
}

func (m *mockSettingsClient) GetAPIKey(ctx context.Context) (string, error) {
	if m.apiKeyErr != nil {
		return "", m.apiKeyErr
	}
	return "key-123", nil
}

func (m *mockSettingsClient) RegenerateAPIKey(ctx context.Context) (string, error) {
	m.requests++
	if m.updateErr != nil {
		return "", m.updateErr
	}
	return "key-456", nil
}

type mockAuthClient struct {
	err       error
	requests  int
	loggedOut bool
}

func (m *mockAuthClient) Login(ctx context.Context, username, password string) (*parkingclient.AuthResponse, error) {
	m.requests++
	if m.err != nil {
		return nil, m.err
	}
	return &parkingclient.AuthResponse{Token: "tok", User: model.User{Username: username}}, nil
}

func (m *mockAuthClient) Register(ctx context.Context, name, email, password string) (*parkingclient.AuthResponse, error) {
	m.requests++
	if m.err != nil {
		return nil, m.err
	}
	return &parkingclient.AuthResponse{Token: "tok", User: model.User{Username: name, Email: email}}, nil
}

func (m *mockAuthClient) Logout() error {
	m.loggedOut = true
	return nil
}

func (m *mockAuthClient) ForgotPassword(ctx context.Context, email string) error {
	m.requests++
	return m.err
}

func (m *mockAuthClient) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	m.requests++
	return m.err
}

func (m *mockAuthClient) VerifyEmail(ctx context.Context, token string) error {
	m.requests++
	return m.err
}

type mockSheetsExporter struct {
	spreadsheetID string
	tab           string
	header        []string
	rows          [][]string
	err           error
}

func (m *mockSheetsExporter) ExportRows(spreadsheetID, tab string, header []string, rows [][]string) error {
	m.spreadsheetID, m.tab, m.header, m.rows = spreadsheetID, tab, header, rows
	return m.err
}

type sentEmail struct {
	to, subject, body string
}

type mockGmailClient struct {
	sent []sentEmail
	err  error
}

func (m *mockGmailClient) SendEmail(to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentEmail{to: to, subject: subject, body: body})
	return nil
}

type mockSnapshotStore struct {
	inserted []db.CalendarSnapshot
	history  []db.CalendarSnapshot
	err      error
	queried  []string
}

func (m *mockSnapshotStore) InsertSnapshots(ctx context.Context, snapshots []db.CalendarSnapshot) error {
	if m.err != nil {
		return m.err
	}
	m.inserted = append(m.inserted, snapshots...)
	return nil
}

func (m *mockSnapshotStore) GetDateHistory(ctx context.Context, date string) ([]db.CalendarSnapshot, error) {
	m.queried = append(m.queried, date)
	if m.err != nil {
		return nil, m.err
	}
	return m.history, nil
}

var errStore = errors.New("connection refused")
