// Package models holds the domain records shared by the API client, the
// screen controllers and the dev backend.
package models

// MessageRole identifies who authored a chat message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// MessageStatus is the local delivery state of an optimistically appended
// message. It never crosses the wire; history loads arrive as sent.
type MessageStatus string

const (
	StatusPending MessageStatus = "pending"
	StatusSent    MessageStatus = "sent"
	StatusFailed  MessageStatus = "failed"
)

// ChatMessage is one entry of a conversation transcript. Image is a base64
// attachment, empty for text-only messages.
type ChatMessage struct {
	ID      string      `json:"id"`
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
	Image   string      `json:"image,omitempty"`

	Status MessageStatus `json:"-"`
}

// ChatThread is one saved conversation with the tutor.
type ChatThread struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Date     string        `json:"date"`
	Messages []ChatMessage `json:"messages"`
}

// EventType classifies calendar events.
type EventType string

const (
	EventHomework EventType = "homework"
	EventTest     EventType = "test"
	EventProject  EventType = "project"
)

// Event is one calendar entry. Its date is the key of the surrounding
// mapping, not a field of the event itself.
type Event struct {
	Type        EventType `json:"type"`
	Description string    `json:"description"`
}

// DatedEvent is an event paired with its date, for flows that flatten the
// mapping.
type DatedEvent struct {
	Event
	Date string `json:"date"`
}

// UpcomingEvent annotates an event with its whole-day distance from today.
type UpcomingEvent struct {
	DatedEvent
	DaysLeft int `json:"days_left"`
}

// QuizQuestion is one generated multiple-choice question. Correct holds the
// exact text of the right option.
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Correct  string   `json:"correct"`
}

// ScoreSummary aggregates recent quiz results for the dashboard.
type ScoreSummary struct {
	TotalTests    int     `json:"total_tests"`
	AvgPercentage float64 `json:"avg_percentage"`
}

// SchoolworkType classifies what the analyzer is looking at.
type SchoolworkType string

const (
	SchoolworkPastExam SchoolworkType = "past_exam"
	SchoolworkProject  SchoolworkType = "project"
	SchoolworkHomework SchoolworkType = "homework"
)

// Analysis is a saved schoolwork analysis.
type Analysis struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Topic   string `json:"topic"`
	Content string `json:"content"`
}
