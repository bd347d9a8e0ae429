package screens

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/studenthelper/studenthelper/internal/api"
	"github.com/studenthelper/studenthelper/internal/stubserver"
)

var accountSeq int

// startBackend runs the in-memory dev backend on a loopback port.
func startBackend(t *testing.T) string {
	t.Helper()

	srv := stubserver.New(stubserver.Config{JWTSecret: "test-secret"})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = srv.Shutdown() })

	return "http://" + ln.Addr().String()
}

// newAnonClient returns a client with no token attached.
func newAnonClient(t *testing.T, baseURL string) *api.Client {
	t.Helper()
	return api.NewClient(baseURL, 5*time.Second, nil)
}

// signedInClient registers a fresh account and returns a client bearing its
// token.
func signedInClient(t *testing.T, baseURL string) *api.Client {
	t.Helper()

	accountSeq++
	email := fmt.Sprintf("student%d@example.com", accountSeq)

	anon := newAnonClient(t, baseURL)
	ctx := context.Background()
	require.NoError(t, anon.Register(ctx, email, "password123"))

	resp, err := anon.Login(ctx, email, "password123")
	require.NoError(t, err)

	return api.NewClient(baseURL, 5*time.Second, api.StaticToken(resp.AccessToken))
}
