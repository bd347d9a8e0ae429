// Package session holds the process-wide authentication state: the bearer
// token obtained at sign-in, persisted in local storage and read by every
// authenticated request. It is constructed once at startup and injected into
// each screen, never accessed as ambient global state.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/studenthelper/studenthelper/internal/api"
	"github.com/studenthelper/studenthelper/internal/storage"
)

const tokenKey = "session"

var (
	// ErrNotSignedIn is returned when an operation needs a session token
	// and none is stored.
	ErrNotSignedIn = errors.New("not signed in")
)

// Session is the authentication context shared by all screens. It implements
// api.TokenSource so the client attaches the stored token to every request.
type Session struct {
	store *storage.Store
	token string
}

// New loads any persisted token from the store.
func New(store *storage.Store) *Session {
	token, _ := store.Get(tokenKey)
	return &Session{store: store, token: token}
}

// Token implements api.TokenSource.
func (s *Session) Token() string { return s.token }

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool { return s.token != "" }

// SignIn exchanges credentials for a token and persists it. On failure the
// stored token is left untouched.
func (s *Session) SignIn(ctx context.Context, client *api.Client, email, password string) error {
	resp, err := client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	s.token = resp.AccessToken
	if err := s.store.Set(tokenKey, s.token); err != nil {
		// The sign-in itself succeeded; a persistence failure only costs
		// the user a re-login next run.
		logrus.WithError(err).Warn("failed to persist session token")
	}
	return nil
}

// Register creates a new account. The stored token is unaffected.
func (s *Session) Register(ctx context.Context, client *api.Client, email, password string) error {
	return client.Register(ctx, email, password)
}

// SignOut clears the token from memory and storage.
func (s *Session) SignOut() error {
	s.token = ""
	return s.store.Delete(tokenKey)
}

// Claims exposes the subject and expiry embedded in the access token. The
// token is opaque to the client protocol-wise, but it happens to be a JWT,
// so the claims can be read (not verified) for display purposes.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Claims parses the stored token without signature verification.
func (s *Session) Claims() (*Claims, error) {
	if s.token == "" {
		return nil, ErrNotSignedIn
	}

	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(s.token, jwt.MapClaims{})
	if err != nil {
		return nil, err
	}

	out := &Claims{}
	if sub, err := token.Claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if exp, err := token.Claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}

// Expired reports whether the stored token carries an expiry in the past.
// Tokens without a readable expiry are treated as live; the backend is the
// authority either way.
func (s *Session) Expired() bool {
	claims, err := s.Claims()
	if err != nil {
		return false
	}
	return !claims.ExpiresAt.IsZero() && claims.ExpiresAt.Before(time.Now())
}
