package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/parking-admin/internal/config"
	"github.com/jakechorley/parking-admin/pkg/clients/parkingclient"
	"github.com/jakechorley/parking-admin/pkg/core/navigation"
	"github.com/jakechorley/parking-admin/pkg/core/services"
	"github.com/jakechorley/parking-admin/pkg/session"
)

// backend is a stand-in for the parking REST service
type backend struct {
	router *mux.Router
	mu     sync.Mutex
	bodies map[string][]map[string]any
}

func newBackend(t *testing.T) (*backend, *httptest.Server) {
	t.Helper()
	b := &backend{router: mux.NewRouter(), bodies: map[string][]map[string]any{}}
	srv := httptest.NewServer(b.router)
	t.Cleanup(srv.Close)
	return b, srv
}

// handle answers method+path with status and payload, recording JSON request bodies
func (b *backend) handle(method, path string, status int, payload any) {
	b.router.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		b.bodies[path] = append(b.bodies[path], body)
		b.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(payload)
	}).Methods(method)
}

func (b *backend) received(path string) []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bodies[path]
}

func testToken(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      "u1",
		"username": "alice",
		"role":     role,
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

// newTestApp wires an AppContext against srv. role "" leaves the session logged out.
func newTestApp(t *testing.T, srv *httptest.Server, role string) (*AppContext, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}

	store := session.NewStore(t.TempDir(), "test")
	if role != "" {
		require.NoError(t, store.SetToken(testToken(t, role)))
	}

	notifier := NewConsoleNotifier(out, false)
	router := navigation.NewRouter(navigation.PageDashboard, func() {
		notifier.Notify(services.LevelError, "Session expired, please log in again")
	})

	app := &AppContext{
		Env:      "test",
		Ctx:      context.Background(),
		Cfg:      &config.Config{CurrencySymbol: "£", LowSpaceThreshold: 100, PageSize: 10, PriceStep: 5},
		Logger:   zap.NewNop(),
		Out:      out,
		In:       strings.NewReader(""),
		Session:  store,
		Router:   router,
		Client:   parkingclient.NewClient(srv.URL, store, router, zap.NewNop()),
		Notifier: notifier,
		Calendar: services.NewCalendarView(2025, 6),
		Alerts:   &services.AlertList{},
		Staff:    &services.StaffList{},
		Now:      func() time.Time { return time.Date(2025, 6, 5, 9, 0, 0, 0, time.UTC) },
	}
	return app, out
}

var juneDays = []map[string]any{
	{"date": "2025-06-01", "price": 40, "availability": "available", "status": "green", "capacity": map[string]int{"total": 300, "remaining": 250}, "bookingsCount": 50},
	{"date": "2025-06-05", "price": 45, "availability": "available", "status": "green", "capacity": map[string]int{"total": 300, "remaining": 80}, "bookingsCount": 220},
	{"date": "2025-06-07", "price": 30, "availability": "available", "status": "green", "capacity": map[string]int{"total": 300, "remaining": 10}, "bookingsCount": 290},
}

func TestSetPriceCmd(t *testing.T) {
	b, srv := newBackend(t)
	b.handle(http.MethodGet, "/date/calendar/2025/6", http.StatusOK, juneDays)
	b.handle(http.MethodPost, "/date/price/update", http.StatusOK, map[string]any{
		"message": "Price updated",
		"date":    map[string]any{"id": "2025-06-05", "date": "2025-06-05T00:00:00.000Z", "price": 55, "availability": "available", "statusColor": "green", "capacityTotal": 300, "capacityRemaining": 80},
	})

	app, out := newTestApp(t, srv, "staff")
	cmd := SetPriceCmd(app)
	cmd.SetArgs([]string{"2025-6-5", "55"})
	require.NoError(t, cmd.Execute())

	bodies := b.received("/date/price/update")
	require.Len(t, bodies, 1)
	assert.Equal(t, "2025-6-5", bodies[0]["dateId"])
	assert.Equal(t, 55.0, bodies[0]["newPrice"])

	d, ok := app.Calendar.Find("2025-06-05")
	require.True(t, ok)
	assert.Equal(t, 55.0, d.Price)
	assert.Contains(t, out.String(), "✓ Price updated")
	assert.Equal(t, navigation.PagePricing, app.Router.Current())
}

func TestPricingCmd_RefetchesOnEachEntry(t *testing.T) {
	b, srv := newBackend(t)
	b.handle(http.MethodGet, "/date/calendar/2025/6", http.StatusOK, juneDays)
	b.handle(http.MethodPost, "/date/price/update", http.StatusOK, map[string]any{"message": "ok"})

	app, _ := newTestApp(t, srv, "staff")
	for range 2 {
		cmd := PricingCmd(app)
		cmd.SetArgs([]string{})
		require.NoError(t, cmd.Execute())
	}
	assert.Len(t, b.received("/date/calendar/2025/6"), 2)

	// edits work on the month the page just showed
	cmd := SetPriceCmd(app)
	cmd.SetArgs([]string{"2025-06-05", "50"})
	require.NoError(t, cmd.Execute())
	assert.Len(t, b.received("/date/calendar/2025/6"), 2)
	assert.Len(t, b.received("/date/price/update"), 1)
}

func TestBulkPriceCmd_WeekendRule(t *testing.T) {
	b, srv := newBackend(t)
	b.handle(http.MethodGet, "/date/calendar/2025/6", http.StatusOK, map[string]any{"days": juneDays})
	b.handle(http.MethodPost, "/date/price/update", http.StatusOK, map[string]any{"message": "ok"})

	app, out := newTestApp(t, srv, "staff")
	cmd := BulkPriceCmd(app)
	cmd.SetArgs([]string{"--month", "2025-06", "--rrule", "FREQ=WEEKLY;BYDAY=SA,SU", "--up"})
	require.NoError(t, cmd.Execute())

	// June 1st 2025 is a Sunday and the 7th a Saturday
	bodies := b.received("/date/price/update")
	require.Len(t, bodies, 2)
	got := map[any]any{}
	for _, body := range bodies {
		got[body["dateId"]] = body["newPrice"]
	}
	assert.Equal(t, map[any]any{"2025-6-1": 45.0, "2025-6-7": 35.0}, got)
	assert.Contains(t, out.String(), "Updated price for 2 dates")
}

func TestBulkPriceCmd_RequiresOneChange(t *testing.T) {
	b, srv := newBackend(t)
	b.handle(http.MethodGet, "/date/calendar/2025/6", http.StatusOK, juneDays)

	app, _ := newTestApp(t, srv, "staff")
	cmd := BulkPriceCmd(app)
	cmd.SetArgs([]string{"--all", "--up", "--price", "10"})
	cmd.SilenceUsage = true
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one")
	assert.Empty(t, b.received("/date/price/update"))
}

func TestPageCommands_RequireLogin(t *testing.T) {
	_, srv := newBackend(t)
	app, _ := newTestApp(t, srv, "")

	cmd := DashboardCmd(app)
	cmd.SetArgs([]string{})
	cmd.SilenceUsage = true
	err := cmd.Execute()
	require.ErrorIs(t, err, navigation.ErrNotLoggedIn)
}

func TestStaffCmd_AdminOnly(t *testing.T) {
	b, srv := newBackend(t)
	b.handle(http.MethodGet, "/staff", http.StatusOK, []any{})

	app, _ := newTestApp(t, srv, "staff")
	cmd := StaffCmd(app)
	cmd.SetArgs([]string{})
	cmd.SilenceUsage = true
	require.ErrorIs(t, cmd.Execute(), navigation.ErrForbidden)
}

func TestCommand_UnauthorizedLogsOut(t *testing.T) {
	b, srv := newBackend(t)
	b.handle(http.MethodGet, "/date/calendar/2025/6", http.StatusUnauthorized, map[string]string{"message": "jwt expired"})

	app, out := newTestApp(t, srv, "staff")
	cmd := CalendarCmd(app)
	cmd.SetArgs([]string{"2025", "6"})
	cmd.SilenceUsage = true
	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, services.Notified(err))

	assert.Empty(t, app.Session.Token())
	assert.Equal(t, navigation.PageLogin, app.Router.Current())
	assert.Equal(t, 1, strings.Count(out.String(), "Session expired, please log in again"))
}

func TestBookingsCmd_FilterAndPage(t *testing.T) {
	b, srv := newBackend(t)
	b.handle(http.MethodGet, "/booking/bookings", http.StatusOK, map[string]any{"bookings": []map[string]any{
		{"id": "BK-1", "customerName": "Jane Smith", "carReg": "AB12 CDE", "price": 45, "source": "Direct", "status": "New"},
		{"id": "BK-2", "customerName": "John Doe", "carReg": "XY98 ZZZ", "price": 60, "source": "SkyParks", "status": "Confirmed"},
	}})

	app, out := newTestApp(t, srv, "staff")
	cmd := BookingsCmd(app)
	cmd.SetArgs([]string{"--search", "smith"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "BK-1")
	assert.NotContains(t, out.String(), "BK-2")
	assert.Contains(t, out.String(), "Page 1 of 1 (1 bookings)")
}

func TestBookingsCmd_UnknownSource(t *testing.T) {
	_, srv := newBackend(t)
	app, _ := newTestApp(t, srv, "staff")

	cmd := BookingsCmd(app)
	cmd.SetArgs([]string{"--source", "Carrier Pigeon"})
	cmd.SilenceUsage = true
	require.Error(t, cmd.Execute())
}
