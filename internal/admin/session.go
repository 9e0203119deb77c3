package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Eursukkul/club-cms/internal/dto"
	"github.com/golang-jwt/jwt/v5"
)

// Authority exchanges credentials for a token; *client.Client satisfies it.
type Authority interface {
	Login(ctx context.Context, username, password string) (*dto.LoginResponse, error)
}

// Session is admin mode: a token obtained at login and persisted so later
// invocations stay signed in until it expires or the user logs out.
type Session struct {
	path string
	data sessionFile
}

type sessionFile struct {
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// DefaultSessionPath is session.json under the user's config directory.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "club-cms", "session.json"), nil
}

// OpenSession loads a stored session. A missing file is an empty session.
func OpenSession(path string) (*Session, error) {
	s := &Session{path: path}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if err := json.Unmarshal(b, &s.data); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", path, err)
	}
	return s, nil
}

func (s *Session) Login(ctx context.Context, auth Authority, username, password string) error {
	resp, err := auth.Login(ctx, username, password)
	if err != nil {
		return err
	}
	s.data = sessionFile{Username: username, Token: resp.Token, ExpiresAt: resp.ExpiresAt}
	return s.save()
}

// Logout forgets the token locally. The server keeps no session state.
func (s *Session) Logout() error {
	s.data = sessionFile{}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func (s *Session) Token() string    { return s.data.Token }
func (s *Session) Username() string { return s.data.Username }

// Expiry prefers the token's own exp claim over the stored value.
func (s *Session) Expiry() time.Time {
	if s.data.Token == "" {
		return time.Time{}
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(s.data.Token, &claims); err == nil && claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time
	}
	return s.data.ExpiresAt
}

// Active reports whether a token is held and not yet expired at now.
// The signature is only checked by the server.
func (s *Session) Active(now time.Time) bool {
	if s.data.Token == "" {
		return false
	}
	return now.Before(s.Expiry())
}

func (s *Session) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	b, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
