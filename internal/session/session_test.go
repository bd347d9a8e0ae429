package session

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studenthelper/studenthelper/internal/api"
	"github.com/studenthelper/studenthelper/internal/storage"
	"github.com/studenthelper/studenthelper/internal/stubserver"
)

func startBackend(t *testing.T) string {
	t.Helper()

	srv := stubserver.New(stubserver.Config{JWTSecret: "test-secret"})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = srv.Shutdown() })

	return "http://" + ln.Addr().String()
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(t.TempDir())
	require.NoError(t, err)
	return store
}

func signedToken(t *testing.T, subject string, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestSession_SignInPersistsToken(t *testing.T) {
	base := startBackend(t)
	store := openStore(t)
	ctx := context.Background()

	sess := New(store)
	assert.False(t, sess.Authenticated())

	client := api.NewClient(base, 5*time.Second, sess)
	require.NoError(t, sess.Register(ctx, client, "me@example.com", "password123"))
	require.NoError(t, sess.SignIn(ctx, client, "me@example.com", "password123"))

	assert.True(t, sess.Authenticated())
	assert.NotEmpty(t, sess.Token())

	// A new session over the same store picks the token back up.
	restored := New(store)
	assert.True(t, restored.Authenticated())
	assert.Equal(t, sess.Token(), restored.Token())
}

func TestSession_FailedSignInLeavesTokenUntouched(t *testing.T) {
	base := startBackend(t)
	store := openStore(t)
	require.NoError(t, store.Set("session", "existing-token"))
	ctx := context.Background()

	sess := New(store)
	client := api.NewClient(base, 5*time.Second, sess)

	err := sess.SignIn(ctx, client, "nobody@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "existing-token", sess.Token())
}

func TestSession_SignOutClearsStore(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.Set("session", "some-token"))

	sess := New(store)
	require.True(t, sess.Authenticated())

	require.NoError(t, sess.SignOut())
	assert.False(t, sess.Authenticated())
	_, ok := store.Get("session")
	assert.False(t, ok)
}

func TestSession_Claims(t *testing.T) {
	store := openStore(t)
	sess := New(store)

	_, err := sess.Claims()
	assert.ErrorIs(t, err, ErrNotSignedIn)

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	require.NoError(t, store.Set("session", signedToken(t, "user-42", exp)))
	sess = New(store)

	claims, err := sess.Claims()
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.Subject)
	assert.True(t, claims.ExpiresAt.Equal(exp))
}

func TestSession_Expired(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.Set("session", signedToken(t, "u", time.Now().Add(time.Hour))))
	assert.False(t, New(store).Expired())

	require.NoError(t, store.Set("session", signedToken(t, "u", time.Now().Add(-time.Hour))))
	assert.True(t, New(store).Expired())

	// Garbage tokens are treated as live; the backend decides.
	require.NoError(t, store.Set("session", "not-a-jwt"))
	assert.False(t, New(store).Expired())
}
