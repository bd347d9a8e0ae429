package screens

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studenthelper/studenthelper/internal/api"
	"github.com/studenthelper/studenthelper/internal/models"
)

func TestChat_SendCreatesThreadAndAppliesReply(t *testing.T) {
	base := startBackend(t)
	client := signedInClient(t, base)
	ctx := context.Background()

	chat := NewChat(client)
	require.NoError(t, chat.LoadHistory(ctx))
	assert.Empty(t, chat.Threads())

	reply, err := chat.Send(ctx, "explain photosynthesis to me", "")
	require.NoError(t, err)
	require.NotNil(t, reply)
	assert.Equal(t, models.RoleAssistant, reply.Role)
	assert.NotEmpty(t, reply.Content)

	thread := chat.Current()
	require.NotNil(t, thread)
	assert.Equal(t, "explain photosynthes", thread.Title)
	require.Len(t, thread.Messages, 2)
	assert.Equal(t, models.RoleUser, thread.Messages[0].Role)
	assert.Equal(t, models.StatusSent, thread.Messages[0].Status)
	assert.Equal(t, models.RoleAssistant, thread.Messages[1].Role)
}

func TestChat_SendEmptyRejected(t *testing.T) {
	chat := NewChat(nil)
	_, err := chat.Send(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestChat_FailedSendKeepsMessageMarkedFailed(t *testing.T) {
	// Nothing listens on this port, so the request fails immediately.
	client := api.NewClient("http://127.0.0.1:1", time.Second, nil)
	chat := NewChat(client)
	ctx := context.Background()

	_, err := chat.Send(ctx, "hello", "")
	require.Error(t, err)

	thread := chat.Current()
	require.NotNil(t, thread)
	require.Len(t, thread.Messages, 1)
	assert.Equal(t, models.StatusFailed, thread.Messages[0].Status)

	// A retry on the same thread appends a second entry rather than
	// reviving the failed one.
	_, err = chat.Send(ctx, "hello again", "")
	require.Error(t, err)
	assert.Len(t, thread.Messages, 2)
}

func TestChat_StaleReplyDiscarded(t *testing.T) {
	chat := NewChat(nil)
	thread := chat.NewThread()

	chat.latestSeq[thread.ID] = 2

	applied := chat.applyReply(thread.ID, 1, models.ChatMessage{
		Role:    models.RoleAssistant,
		Content: "stale",
	})
	assert.False(t, applied)
	assert.Empty(t, thread.Messages)

	applied = chat.applyReply(thread.ID, 2, models.ChatMessage{
		Role:    models.RoleAssistant,
		Content: "current",
	})
	assert.True(t, applied)
	require.Len(t, thread.Messages, 1)
	assert.Equal(t, "current", thread.Messages[0].Content)
}

func TestChat_LoadHistoryRoundTrip(t *testing.T) {
	base := startBackend(t)
	client := signedInClient(t, base)
	ctx := context.Background()

	first := NewChat(client)
	require.NoError(t, first.LoadHistory(ctx))
	_, err := first.Send(ctx, "what is a derivative?", "")
	require.NoError(t, err)

	// A fresh mount sees the saved thread with all messages sent.
	second := NewChat(client)
	require.NoError(t, second.LoadHistory(ctx))
	threads := second.Threads()
	require.Len(t, threads, 1)
	require.Len(t, threads[0].Messages, 2)
	for _, m := range threads[0].Messages {
		assert.Equal(t, models.StatusSent, m.Status)
	}

	// Loading again is a no-op on an already-loaded screen.
	require.NoError(t, second.LoadHistory(ctx))
	assert.Len(t, second.Threads(), 1)
}

func TestChat_SelectThread(t *testing.T) {
	chat := NewChat(nil)
	a := chat.NewThread()
	b := chat.NewThread()

	assert.Equal(t, b.ID, chat.Current().ID)
	require.NoError(t, chat.SelectThread(a.ID))
	assert.Equal(t, a.ID, chat.Current().ID)
	assert.ErrorIs(t, chat.SelectThread("missing"), ErrThreadNotFound)
}

func TestChat_ImageOnlySendTitlesThread(t *testing.T) {
	base := startBackend(t)
	client := signedInClient(t, base)

	chat := NewChat(client)
	_, err := chat.Send(context.Background(), "", "aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "Image Analysis", chat.Current().Title)
}
