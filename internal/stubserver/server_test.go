package stubserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(Config{JWTSecret: "test-secret"})
}

// request runs one request through the fiber app without a real listener and
// decodes the JSON body into out when out is non-nil.
func request(t *testing.T, s *Server, method, path, token string, body, out interface{}) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func registerAndLogin(t *testing.T, s *Server, email string) string {
	t.Helper()

	creds := map[string]string{"email": email, "password": "password123"}
	status := request(t, s, http.MethodPost, "/auth/register", "", creds, nil)
	require.Equal(t, http.StatusCreated, status)

	var login struct {
		AccessToken string `json:"access_token"`
	}
	status = request(t, s, http.MethodPost, "/auth/login", "", creds, &login)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, login.AccessToken)
	return login.AccessToken
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := newTestServer(t)

	creds := map[string]string{"email": "dup@example.com", "password": "pw"}
	assert.Equal(t, http.StatusCreated, request(t, s, http.MethodPost, "/auth/register", "", creds, nil))

	var body struct {
		Message string `json:"message"`
	}
	status := request(t, s, http.MethodPost, "/auth/register", "", creds, &body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "User already exists", body.Message)
}

func TestLogin_Rejections(t *testing.T) {
	s := newTestServer(t)
	registerAndLogin(t, s, "known@example.com")

	tests := []struct {
		name  string
		creds map[string]string
		want  int
	}{
		{"wrong password", map[string]string{"email": "known@example.com", "password": "nope"}, http.StatusUnauthorized},
		{"unknown user", map[string]string{"email": "ghost@example.com", "password": "pw"}, http.StatusUnauthorized},
		{"missing password", map[string]string{"email": "known@example.com"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := request(t, s, http.MethodPost, "/auth/login", "", tt.creds, nil)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "auth@example.com")

	assert.Equal(t, http.StatusOK, request(t, s, http.MethodGet, "/auth/myInfo", token, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, request(t, s, http.MethodGet, "/auth/myInfo", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, request(t, s, http.MethodGet, "/auth/myInfo", "garbage", nil, nil))

	// A structurally valid token signed with a different secret is rejected.
	other := New(Config{JWTSecret: "other-secret"})
	forged, err := other.issueToken("someone")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, request(t, s, http.MethodGet, "/auth/myInfo", forged, nil, nil))
}

func TestEvents_PerUserIsolation(t *testing.T) {
	s := newTestServer(t)
	alice := registerAndLogin(t, s, "alice@example.com")
	bob := registerAndLogin(t, s, "bob@example.com")

	event := map[string]string{"date": "2026-09-10", "type": "test", "description": "Latin vocab"}
	require.Equal(t, http.StatusCreated, request(t, s, http.MethodPost, "/events", alice, event, nil))

	var aliceEvents, bobEvents map[string][]map[string]string
	request(t, s, http.MethodGet, "/events", alice, nil, &aliceEvents)
	request(t, s, http.MethodGet, "/events", bob, nil, &bobEvents)

	assert.Len(t, aliceEvents["2026-09-10"], 1)
	assert.Empty(t, bobEvents)
}

func TestDeleteEvent_ByContent(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "events@example.com")

	for _, desc := range []string{"Essay draft", "Essay draft", "Lab report"} {
		event := map[string]string{"date": "2026-09-12", "type": "homework", "description": desc}
		require.Equal(t, http.StatusCreated, request(t, s, http.MethodPost, "/events", token, event, nil))
	}

	// Only the first matching duplicate goes.
	del := map[string]string{"date": "2026-09-12", "description": "Essay draft"}
	assert.Equal(t, http.StatusOK, request(t, s, http.MethodPost, "/events/delete", token, del, nil))

	var events map[string][]map[string]string
	request(t, s, http.MethodGet, "/events", token, nil, &events)
	assert.Len(t, events["2026-09-12"], 2)

	del = map[string]string{"date": "2026-09-12", "description": "No such thing"}
	assert.Equal(t, http.StatusNotFound, request(t, s, http.MethodPost, "/events/delete", token, del, nil))
}

func TestChatMessage_ThreadLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "chat@example.com")

	msg := map[string]string{"session_id": "thread-1", "message": "help me with fractions"}
	var reply struct {
		ID    string `json:"id"`
		Reply string `json:"reply"`
	}
	require.Equal(t, http.StatusOK, request(t, s, http.MethodPost, "/chat/message", token, msg, &reply))
	assert.NotEmpty(t, reply.ID)
	assert.NotEmpty(t, reply.Reply)

	// A second message on the same session extends the thread.
	msg["message"] = "and decimals too"
	require.Equal(t, http.StatusOK, request(t, s, http.MethodPost, "/chat/message", token, msg, &reply))

	var history []struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}
	request(t, s, http.MethodGet, "/chat/history", token, nil, &history)
	require.Len(t, history, 1)
	assert.Equal(t, "help me with fractio", history[0].Title)
	assert.Len(t, history[0].Messages, 4)
}

func TestGenerateTest_CannedFallback(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "quiz@example.com")

	body := map[string]interface{}{
		"subject":        "Biology",
		"context":        "cells",
		"questionsCount": 50,
	}
	var out struct {
		Questions []struct {
			Question string   `json:"question"`
			Options  []string `json:"options"`
			Correct  string   `json:"correct"`
		} `json:"questions"`
	}
	require.Equal(t, http.StatusOK, request(t, s, http.MethodPost, "/chat/generate-test", token, body, &out))

	// The count clamps to 20 and every question carries a valid answer key.
	require.Len(t, out.Questions, 20)
	for _, q := range out.Questions {
		assert.Contains(t, q.Options, q.Correct)
	}
}

func TestScores_Average(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "scores@example.com")

	var summary struct {
		TotalTests    int     `json:"total_tests"`
		AvgPercentage float64 `json:"avg_percentage"`
	}
	request(t, s, http.MethodGet, "/recent-scores", token, nil, &summary)
	assert.Zero(t, summary.TotalTests)
	assert.Zero(t, summary.AvgPercentage)

	for _, sc := range []map[string]interface{}{
		{"subject": "Maths", "score": 4, "total": 5},
		{"subject": "History", "score": 1, "total": 3},
	} {
		require.Equal(t, http.StatusCreated, request(t, s, http.MethodPost, "/save-score", token, sc, nil))
	}

	request(t, s, http.MethodGet, "/recent-scores", token, nil, &summary)
	assert.Equal(t, 2, summary.TotalTests)
	// (80 + 33.333) / 2 rounded to one decimal.
	assert.InDelta(t, 56.7, summary.AvgPercentage, 0.001)
}

func TestSaveScore_Validation(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "badscores@example.com")

	for _, sc := range []map[string]interface{}{
		{"subject": "Maths", "score": 6, "total": 5},
		{"subject": "Maths", "score": -1, "total": 5},
		{"subject": "Maths", "score": 3, "total": 0},
	} {
		assert.Equal(t, http.StatusBadRequest, request(t, s, http.MethodPost, "/save-score", token, sc, nil))
	}
}

func TestExtractEvents_CannedFallback(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "scan@example.com")

	var out struct {
		Added int `json:"added"`
	}
	body := map[string]string{"image": "aGVsbG8="}
	require.Equal(t, http.StatusOK, request(t, s, http.MethodPost, "/chat/extract-events", token, body, &out))
	assert.Equal(t, 2, out.Added)

	var events map[string][]map[string]string
	request(t, s, http.MethodGet, "/events", token, nil, &events)
	total := 0
	for _, dayEvents := range events {
		total += len(dayEvents)
	}
	assert.Equal(t, 2, total)
}
