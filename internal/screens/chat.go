package screens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/studenthelper/studenthelper/internal/api"
	"github.com/studenthelper/studenthelper/internal/models"
)

var (
	// ErrEmptyMessage is returned when a send has neither text nor image.
	ErrEmptyMessage = errors.New("nothing to send")
	// ErrThreadNotFound is returned when selecting an unknown thread.
	ErrThreadNotFound = errors.New("thread not found")
)

const titleMaxLen = 20

// Chat is the AI tutor screen: an ordered list of conversation threads, each
// with an ordered transcript. Outgoing messages are appended optimistically
// as pending and marked sent or failed once the request settles.
type Chat struct {
	client *api.Client

	threads   []*models.ChatThread
	currentID string
	loaded    bool

	// latestSeq guards against out-of-order response application: a reply
	// is only appended if no newer send was issued on the same thread.
	latestSeq map[string]uint64
	nextSeq   uint64
}

// NewChat creates the chat controller.
func NewChat(client *api.Client) *Chat {
	return &Chat{
		client:    client,
		latestSeq: make(map[string]uint64),
	}
}

// LoadHistory fetches saved threads once per screen mount. Re-fetching with
// no intervening sends yields the same set; calling it again on a loaded
// screen is a no-op.
func (c *Chat) LoadHistory(ctx context.Context) error {
	if c.loaded {
		return nil
	}

	history, err := c.client.ChatHistory(ctx)
	if err != nil {
		return err
	}

	c.threads = c.threads[:0]
	for i := range history {
		t := history[i]
		for j := range t.Messages {
			t.Messages[j].Status = models.StatusSent
		}
		c.threads = append(c.threads, &t)
	}
	c.loaded = true
	return nil
}

// Threads returns the threads, newest first.
func (c *Chat) Threads() []*models.ChatThread { return c.threads }

// Current returns the active thread, or nil before the first send.
func (c *Chat) Current() *models.ChatThread {
	return c.findThread(c.currentID)
}

// NewThread starts a fresh conversation and makes it current.
func (c *Chat) NewThread() *models.ChatThread {
	t := &models.ChatThread{
		ID:    uuid.New().String(),
		Title: fmt.Sprintf("New Chat %d", len(c.threads)+1),
		Date:  time.Now().Format(dateLayout),
	}
	c.threads = append([]*models.ChatThread{t}, c.threads...)
	c.currentID = t.ID
	return t
}

// SelectThread makes an existing thread current.
func (c *Chat) SelectThread(id string) error {
	if c.findThread(id) == nil {
		return ErrThreadNotFound
	}
	c.currentID = id
	return nil
}

// Send appends the user message to the current thread (creating one if
// needed), posts it, and appends the assistant reply. The optimistic user
// entry is never removed: it is marked failed when the request fails, and a
// reply that arrives after a newer send on the same thread is discarded.
func (c *Chat) Send(ctx context.Context, text, imageB64 string) (*models.ChatMessage, error) {
	if text == "" && imageB64 == "" {
		return nil, ErrEmptyMessage
	}

	thread := c.Current()
	if thread == nil {
		thread = c.NewThread()
		thread.Title = threadTitle(text)
	}

	userMsg := models.ChatMessage{
		ID:      uuid.New().String(),
		Role:    models.RoleUser,
		Content: text,
		Image:   imageB64,
		Status:  models.StatusPending,
	}
	thread.Messages = append(thread.Messages, userMsg)
	userIdx := len(thread.Messages) - 1

	c.nextSeq++
	seq := c.nextSeq
	c.latestSeq[thread.ID] = seq

	resp, err := c.client.SendChatMessage(ctx, api.ChatMessageRequest{
		SessionID: thread.ID,
		Message:   text,
		Image:     imageB64,
	})
	if err != nil {
		thread.Messages[userIdx].Status = models.StatusFailed
		return nil, err
	}
	thread.Messages[userIdx].Status = models.StatusSent

	reply := models.ChatMessage{
		ID:      resp.ID,
		Role:    models.RoleAssistant,
		Content: resp.Reply,
		Status:  models.StatusSent,
	}
	if !c.applyReply(thread.ID, seq, reply) {
		return nil, nil
	}
	return &reply, nil
}

// applyReply appends an assistant reply unless a newer send has been issued
// on the thread since, in which case the stale reply is dropped.
func (c *Chat) applyReply(threadID string, seq uint64, reply models.ChatMessage) bool {
	if c.latestSeq[threadID] != seq {
		logrus.WithField("thread", threadID).Debug("discarding stale chat reply")
		return false
	}
	thread := c.findThread(threadID)
	if thread == nil {
		return false
	}
	thread.Messages = append(thread.Messages, reply)
	return true
}

func (c *Chat) findThread(id string) *models.ChatThread {
	if id == "" {
		return nil
	}
	for _, t := range c.threads {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func threadTitle(text string) string {
	if text == "" {
		return "Image Analysis"
	}
	if len(text) > titleMaxLen {
		return text[:titleMaxLen]
	}
	return text
}
