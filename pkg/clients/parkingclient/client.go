package parkingclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// TokenStore is the session the client reads its bearer token from.
// The token is read on every request so a fresh login is picked up immediately.
type TokenStore interface {
	Token() string
	SetToken(token string) error
	Clear() error
}

// Navigator is told to show the login page when the backend rejects the session
type Navigator interface {
	ToLogin()
}

// Client wraps the parking backend's REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    TokenStore
	navigator  Navigator
	logger     *zap.Logger
	padDateIDs bool
}

// Option customises a Client
type Option func(*Client)

// WithHTTPClient replaces the default instrumented HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithPaddedDateIDs sends date identifiers as YYYY-MM-DD instead of YYYY-M-D
func WithPaddedDateIDs(padded bool) Option {
	return func(c *Client) {
		c.padDateIDs = padded
	}
}

// NewClient creates a client for the backend at baseURL
func NewClient(baseURL string, session TokenStore, navigator Navigator, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		session:   session,
		navigator: navigator,
		logger:    logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// dateID converts a caller-supplied date into the identifier the update endpoints expect
func (c *Client) dateID(date string) string {
	if c.padDateIDs {
		return PaddedDate(date)
	}
	return NormalizeDateID(date)
}

// request sends one JSON request and decodes the JSON response into out (if non-nil)
func (c *Client) request(ctx context.Context, method, endpoint string, body any, out any) error {
	raw, err := c.requestRaw(ctx, method, endpoint, body)
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response from %s %s: %w", method, endpoint, err)
	}

	return nil
}

// requestRaw sends one JSON request and returns the undecoded 2xx response body
func (c *Client) requestRaw(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	if token := c.session.Token(); token != "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("Request failed",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, &NetworkError{Method: method, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("Request completed",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Info("Session rejected by server, logging out", zap.String("endpoint", endpoint))
		if err := c.session.Clear(); err != nil {
			c.logger.Warn("Failed to clear session", zap.Error(err))
		}
		if c.navigator != nil {
			c.navigator.ToLogin()
		}
		return nil, ErrUnauthorized
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Method: method, Endpoint: endpoint, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, data)
	}

	return data, nil
}

// newAPIError builds an APIError from the server's {"message": ...} payload,
// falling back to the HTTP status text when the body carries no message
func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)

	message := payload.Message
	if message == "" {
		message = "API Error: " + http.StatusText(status)
	}

	return &APIError{StatusCode: status, Message: message}
}
