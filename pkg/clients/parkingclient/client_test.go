package parkingclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/parking-admin/pkg/session"
)

// recordingNavigator counts redirects to the login page
type recordingNavigator struct {
	mu      sync.Mutex
	toLogin int
}

func (n *recordingNavigator) ToLogin() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toLogin++
}

func (n *recordingNavigator) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.toLogin
}

// capturedRequest records what the fake backend received
type capturedRequest struct {
	Method        string
	Path          string
	EscapedPath   string
	Authorization string
	ContentType   string
	RequestID     string
	Body          map[string]any
}

type fakeBackend struct {
	t        *testing.T
	router   *mux.Router
	server   *httptest.Server
	mu       sync.Mutex
	requests []capturedRequest
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{t: t, router: mux.NewRouter()}
	fb.server = httptest.NewServer(fb.capture(fb.router))
	t.Cleanup(fb.server.Close)
	return fb
}

func (fb *fakeBackend) capture(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := capturedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			EscapedPath:   r.URL.EscapedPath(),
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
			RequestID:     r.Header.Get("X-Request-ID"),
		}
		if r.Body != nil && r.ContentLength != 0 {
			_ = json.NewDecoder(r.Body).Decode(&req.Body)
		}
		fb.mu.Lock()
		fb.requests = append(fb.requests, req)
		fb.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// handle registers a handler that writes body as JSON with the given status
func (fb *fakeBackend) handle(method, path string, status int, body any) {
	fb.router.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body == nil {
			return
		}
		if raw, ok := body.(string); ok {
			_, _ = w.Write([]byte(raw))
			return
		}
		_ = json.NewEncoder(w).Encode(body)
	}).Methods(method)
}

func (fb *fakeBackend) captured() []capturedRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]capturedRequest(nil), fb.requests...)
}

func (fb *fakeBackend) last() capturedRequest {
	reqs := fb.captured()
	require.NotEmpty(fb.t, reqs)
	return reqs[len(reqs)-1]
}

func newTestClient(t *testing.T, fb *fakeBackend, opts ...Option) (*Client, *session.Store, *recordingNavigator) {
	t.Helper()
	store := session.NewStore(t.TempDir(), "test")
	nav := &recordingNavigator{}
	client := NewClient(fb.server.URL, store, nav, zap.NewNop(), opts...)
	return client, store, nav
}

func TestRequest_AttachesHeadersWhenLoggedIn(t *testing.T) {
	fb := newFakeBackend(t)
	fb.handle(http.MethodGet, "/logs", http.StatusOK, []any{})
	client, store, _ := newTestClient(t, fb)
	require.NoError(t, store.SetToken("tok-1"))

	_, err := client.GetLogs(context.Background())
	require.NoError(t, err)

	req := fb.last()
	assert.Equal(t, "Bearer tok-1", req.Authorization)
	assert.Equal(t, "application/json", req.ContentType)
	assert.NotEmpty(t, req.RequestID)
}

func TestRequest_NoAuthorizationWithoutToken(t *testing.T) {
	fb := newFakeBackend(t)
	fb.handle(http.MethodGet, "/logs", http.StatusOK, []any{})
	client, _, _ := newTestClient(t, fb)

	_, err := client.GetLogs(context.Background())
	require.NoError(t, err)

	assert.Empty(t, fb.last().Authorization)
}

func TestRequest_UnauthorizedClearsSessionAndNavigates(t *testing.T) {
	endpoints := []struct {
		name string
		path string
		call func(c *Client) error
	}{
		{"calendar", "/date/calendar/2025/6", func(c *Client) error { _, err := c.GetCalendar(context.Background(), 2025, 6); return err }},
		{"bookings", "/booking/bookings", func(c *Client) error { _, err := c.GetBookings(context.Background()); return err }},
		{"alerts", "/alerts", func(c *Client) error { _, err := c.GetAlerts(context.Background()); return err }},
		{"staff", "/staff", func(c *Client) error { _, err := c.GetStaff(context.Background()); return err }},
		{"profile", "/settings/profile", func(c *Client) error { _, err := c.GetProfile(context.Background()); return err }},
	}

	for _, tt := range endpoints {
		t.Run(tt.name, func(t *testing.T) {
			fb := newFakeBackend(t)
			fb.handle(http.MethodGet, tt.path, http.StatusUnauthorized, map[string]string{"message": "jwt expired"})
			client, store, nav := newTestClient(t, fb)
			require.NoError(t, store.SetToken("stale"))

			err := tt.call(client)

			require.Error(t, err)
			assert.True(t, IsUnauthorized(err))
			assert.Equal(t, "", store.Token())
			assert.Equal(t, "", session.NewStore(filepath.Dir(store.Path()), "test").Token())
			assert.Equal(t, 1, nav.count())
		})
	}
}

func TestRequest_ServerMessageSurfaced(t *testing.T) {
	fb := newFakeBackend(t)
	fb.handle(http.MethodPost, "/date/price/update", http.StatusBadRequest, map[string]string{"message": "Price must be positive"})
	client, _, nav := newTestClient(t, fb)

	_, err := client.UpdatePrice(context.Background(), "2025-06-01", -1)

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Price must be positive", apiErr.Message)
	assert.Equal(t, "Price must be positive", UserMessage(err))
	assert.Equal(t, 0, nav.count())
}

func TestRequest_StatusTextFallback(t *testing.T) {
	fb := newFakeBackend(t)
	fb.handle(http.MethodGet, "/alerts", http.StatusInternalServerError, "<html>oops</html>")
	client, _, _ := newTestClient(t, fb)

	_, err := client.GetAlerts(context.Background())

	require.Error(t, err)
	assert.Equal(t, 500, StatusCode(err))
	assert.Contains(t, err.Error(), "API Error: Internal Server Error")
}

func TestRequest_NetworkFailure(t *testing.T) {
	fb := newFakeBackend(t)
	client, _, _ := newTestClient(t, fb)
	fb.server.Close()

	_, err := client.GetLogs(context.Background())

	require.Error(t, err)
	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
	assert.Equal(t, "Network error, please check your connection", UserMessage(err))
}

func TestRequest_EmptyBodyForVoidEndpoint(t *testing.T) {
	fb := newFakeBackend(t)
	fb.handle(http.MethodPost, "/alerts/{id}/read", http.StatusNoContent, nil)
	client, _, _ := newTestClient(t, fb)

	err := client.MarkAlertRead(context.Background(), "alert-7")

	require.NoError(t, err)
	assert.Equal(t, "/alerts/alert-7/read", fb.last().Path)
}

func TestLogin_TokenUsedByNextRequest(t *testing.T) {
	fb := newFakeBackend(t)
	fb.handle(http.MethodPost, "/auth/login", http.StatusOK, map[string]any{
		"token": "fresh-token",
		"user":  map[string]any{"id": "u1", "username": "frontdesk", "role": "staff"},
	})
	fb.handle(http.MethodGet, "/booking/bookings", http.StatusOK, []any{})
	client, store, _ := newTestClient(t, fb)
	require.NoError(t, store.SetToken("old-token"))

	resp, err := client.Login(context.Background(), "frontdesk", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "frontdesk", resp.User.Username)

	_, err = client.GetBookings(context.Background())
	require.NoError(t, err)

	reqs := fb.captured()
	require.Len(t, reqs, 2)
	assert.Equal(t, map[string]any{"username": "frontdesk", "password": "secret1"}, reqs[0].Body)
	assert.Equal(t, "Bearer fresh-token", reqs[1].Authorization)
}

func TestLogin_MissingTokenIsAnError(t *testing.T) {
	fb := newFakeBackend(t)
	fb.handle(http.MethodPost, "/auth/login", http.StatusOK, map[string]any{"user": map[string]any{}})
	client, store, _ := newTestClient(t, fb)

	_, err := client.Login(context.Background(), "frontdesk", "secret1")

	assert.Error(t, err)
	assert.Equal(t, "", store.Token())
}

func TestRegister_SendsNameAsUsername(t *testing.T) {
	fb := newFakeBackend(t)
	fb.handle(http.MethodPost, "/auth/register", http.StatusCreated, map[string]any{"token": "t"})
	client, store, _ := newTestClient(t, fb)

	_, err := client.Register(context.Background(), "Sam", "sam@example.com", "secret1")
	require.NoError(t, err)

	body := fb.last().Body
	assert.Equal(t, "Sam", body["username"])
	assert.Equal(t, "Sam", body["name"])
	assert.Equal(t, "t", store.Token())
}

func TestResetPassword_SendsCodeAsToken(t *testing.T) {
	fb := newFakeBackend(t)
	fb.handle(http.MethodPost, "/auth/resetPassword", http.StatusOK, map[string]string{"message": "ok"})
	client, _, _ := newTestClient(t, fb)

	require.NoError(t, client.ResetPassword(context.Background(), "sam@example.com", "123456", "newpass"))

	assert.Equal(t, map[string]any{"email": "sam@example.com", "token": "123456", "newPassword": "newpass"}, fb.last().Body)
}

func TestRequest_IDsAreEscapedAsOnePathSegment(t *testing.T) {
	fb := newFakeBackend(t)
	fb.handle(http.MethodGet, "/booking/bookings/{date}", http.StatusOK, []any{})
	client, _, _ := newTestClient(t, fb)
	ctx := context.Background()

	// unrouted paths answer 404, only the request line matters here
	_ = client.MarkAlertRead(ctx, "a/b?c")
	assert.Equal(t, "/alerts/a%2Fb%3Fc/read", fb.last().EscapedPath)

	_ = client.DeleteUser(ctx, "u/1")
	assert.Equal(t, "/auth/deleteUser/u%2F1", fb.last().EscapedPath)

	_, err := client.GetBookingsByDate(ctx, "2025-6-5")
	require.NoError(t, err)
	assert.Equal(t, "/booking/bookings/2025-06-05", fb.last().EscapedPath)
}
