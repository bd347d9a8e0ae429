package api

import (
	"context"
	"encoding/json"

	"github.com/studenthelper/studenthelper/internal/models"
)

// ChatMessageRequest is the body for sending one chat message. Image is a
// base64-encoded attachment, empty when the message is text-only.
type ChatMessageRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	Image     string `json:"image,omitempty"`
}

// ChatMessageResponse is the assistant reply to a sent message.
type ChatMessageResponse struct {
	ID    string `json:"id"`
	Reply string `json:"reply"`
}

// ExamAnalysisResponse is the feedback for a scanned exam image.
type ExamAnalysisResponse struct {
	Reply string `json:"reply"`
}

// SchoolworkRequest is the structured analyzer submission.
type SchoolworkRequest struct {
	Type     models.SchoolworkType `json:"type"`
	Subject  string                `json:"subject"`
	Grade    string                `json:"grade,omitempty"`
	Mistakes string                `json:"mistakes,omitempty"`
	Notes    string                `json:"notes,omitempty"`
	Topic    string                `json:"topic,omitempty"`
	Images   []string              `json:"images"`
}

// SchoolworkResponse is the analyzer feedback, with the id of the saved
// analysis when the backend stored one.
type SchoolworkResponse struct {
	ID       string `json:"id,omitempty"`
	Analysis string `json:"analysis"`
}

// GenerateTestRequest asks the backend to produce a practice quiz.
type GenerateTestRequest struct {
	Subject        string   `json:"subject"`
	Context        string   `json:"context"`
	QuestionsCount int      `json:"questionsCount"`
	Images         []string `json:"images"`
}

// GenerateTestResponse carries the generated quiz questions in order.
type GenerateTestResponse struct {
	Questions []models.QuizQuestion `json:"questions"`
}

// ExtractEventsResponse reports how many events a schedule scan added.
type ExtractEventsResponse struct {
	Added int `json:"added"`
}

// ChatHistory lists the saved conversation threads. A malformed body (not a
// JSON array) degrades to an empty history rather than an error, so a bad
// payload never breaks the chat screen.
func (c *Client) ChatHistory(ctx context.Context) ([]models.ChatThread, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/chat/history", &raw); err != nil {
		return nil, err
	}

	var threads []models.ChatThread
	if err := json.Unmarshal(raw, &threads); err != nil {
		return []models.ChatThread{}, nil
	}
	return threads, nil
}

// SendChatMessage posts one message to a thread and returns the assistant
// reply.
func (c *Client) SendChatMessage(ctx context.Context, req ChatMessageRequest) (*ChatMessageResponse, error) {
	var out ChatMessageResponse
	if err := c.post(ctx, "/chat/message", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeExam submits a single base64-encoded exam image for feedback.
func (c *Client) AnalyzeExam(ctx context.Context, imageB64 string) (*ExamAnalysisResponse, error) {
	body := struct {
		Image string `json:"image"`
	}{Image: imageB64}

	var out ExamAnalysisResponse
	if err := c.post(ctx, "/chat/examAnalyse", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeSchoolwork submits a structured schoolwork analysis request.
func (c *Client) AnalyzeSchoolwork(ctx context.Context, req SchoolworkRequest) (*SchoolworkResponse, error) {
	var out SchoolworkResponse
	if err := c.post(ctx, "/chat/analyze-schoolwork", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSchoolwork fetches a previously saved analysis by id.
func (c *Client) GetSchoolwork(ctx context.Context, id string) (*models.Analysis, error) {
	var out models.Analysis
	if err := c.get(ctx, "/schoolwork/"+id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateTest asks the backend for a practice quiz.
func (c *Client) GenerateTest(ctx context.Context, req GenerateTestRequest) (*GenerateTestResponse, error) {
	var out GenerateTestResponse
	if err := c.post(ctx, "/chat/generate-test", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExtractEvents submits a schedule photo; the backend parses it and files
// the events it finds.
func (c *Client) ExtractEvents(ctx context.Context, imageB64 string) (*ExtractEventsResponse, error) {
	body := struct {
		Image string `json:"image"`
	}{Image: imageB64}

	var out ExtractEventsResponse
	if err := c.post(ctx, "/chat/extract-events", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
