package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	sessionFilePerms = 0600 // Read/write for owner only
	sessionDirPerms  = 0700
)

// ErrNoSession is returned when claims are requested without a stored token
var ErrNoSession = errors.New("not logged in")

// Store holds the bearer token for one environment.
// The token is persisted to disk and mirrored in memory so repeated reads don't touch the file.
type Store struct {
	path string

	mu     sync.RWMutex
	token  string
	loaded bool
}

type sessionFile struct {
	Token   string    `json:"token"`
	SavedAt time.Time `json:"savedAt"`
}

// NewStore creates a session store persisting to <dir>/session-<env>.json
func NewStore(dir, env string) *Store {
	return &Store{
		path: filepath.Join(dir, fmt.Sprintf("session-%s.json", env)),
	}
}

// Path returns the file backing this store
func (s *Store) Path() string {
	return s.path
}

// Token returns the current token, or "" when logged out.
// The file is read at most once; afterwards the in-memory copy is authoritative.
func (s *Store) Token() string {
	s.mu.RLock()
	if s.loaded {
		token := s.token
		s.mu.RUnlock()
		return token
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.token = s.readFile()
		s.loaded = true
	}
	return s.token
}

// SetToken stores the token in memory and on disk. An empty token clears the session.
func (s *Store) SetToken(token string) error {
	if token == "" {
		return s.Clear()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.loaded = true

	if err := os.MkdirAll(filepath.Dir(s.path), sessionDirPerms); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.Marshal(sessionFile{Token: token, SavedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(s.path, data, sessionFilePerms); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Clear forgets the token in memory and deletes the session file
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.loaded = true

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}

	return nil
}

// readFile returns the persisted token, treating a missing or unreadable file as logged out
func (s *Store) readFile() string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}

	var sf sessionFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return ""
	}

	return sf.Token
}

// Claims is the subset of the token payload shown to the operator
type Claims struct {
	Subject   string
	Username  string
	Email     string
	Role      string
	ExpiresAt *time.Time
}

// Expired reports whether the token carries an expiry that has passed
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// Claims decodes the stored token's payload without verifying its signature.
// The backend remains the only authority on whether the token is valid.
func (s *Store) Claims() (*Claims, error) {
	token := s.Token()
	if token == "" {
		return nil, ErrNoSession
	}

	return ParseClaims(token)
}

// ParseClaims decodes a JWT payload without verification
func ParseClaims(token string) (*Claims, error) {
	mapClaims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mapClaims); err != nil {
		return nil, fmt.Errorf("token is not a readable JWT: %w", err)
	}

	claims := &Claims{
		Username: stringClaim(mapClaims, "username", "name"),
		Email:    stringClaim(mapClaims, "email"),
		Role:     stringClaim(mapClaims, "role"),
	}

	if sub, err := mapClaims.GetSubject(); err == nil && sub != "" {
		claims.Subject = sub
	} else {
		claims.Subject = stringClaim(mapClaims, "id", "userId", "_id")
	}

	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		claims.ExpiresAt = &t
	}

	return claims, nil
}

func stringClaim(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if v, ok := claims[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
