package stubserver

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/studenthelper/studenthelper/internal/models"
)

const bcryptCost = 12

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var req credentials
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Registration failed"})
	}

	if _, ok := s.store.createUser(req.Email, hash); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "User already exists"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User created successfully"})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req credentials
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Missing credentials"})
	}

	u := s.store.userByEmail(req.Email)
	if u == nil || bcrypt.CompareHashAndPassword(u.passwordHash, []byte(req.Password)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid credentials"})
	}

	token, err := s.issueToken(u.id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Token issue failed"})
	}
	return c.JSON(fiber.Map{"access_token": token})
}

func (s *Server) handleMyInfo(c *fiber.Ctx) error {
	u := s.store.userByID(currentUserID(c))
	return c.JSON(fiber.Map{"email": u.email})
}

func (s *Server) handleChangePassword(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Password is required"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Password change failed"})
	}
	s.store.setPassword(currentUserID(c), hash)
	return c.JSON(fiber.Map{"message": "Password updated"})
}

func (s *Server) handleGetEvents(c *fiber.Ctx) error {
	out := make(map[string][]models.Event)
	s.store.withState(currentUserID(c), func(st *userState) {
		for date, evs := range st.events {
			out[date] = append([]models.Event(nil), evs...)
		}
	})
	return c.JSON(out)
}

func (s *Server) handleCreateEvent(c *fiber.Ctx) error {
	var req struct {
		Date        string           `json:"date"`
		Type        models.EventType `json:"type"`
		Description string           `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil || req.Date == "" || req.Description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}
	if req.Type == "" {
		req.Type = models.EventHomework
	}

	s.store.withState(currentUserID(c), func(st *userState) {
		st.events[req.Date] = append(st.events[req.Date], models.Event{
			Type:        req.Type,
			Description: req.Description,
		})
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Event created"})
}

func (s *Server) handleDeleteEvent(c *fiber.Ctx) error {
	var req struct {
		Date        string `json:"date"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	deleted := false
	s.store.withState(currentUserID(c), func(st *userState) {
		deleted = st.deleteEvent(req.Date, req.Description)
	})
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Event not found"})
	}
	return c.JSON(fiber.Map{"message": "Event deleted"})
}

func (s *Server) handleChatHistory(c *fiber.Ctx) error {
	out := []models.ChatThread{}
	s.store.withState(currentUserID(c), func(st *userState) {
		for _, t := range st.threads {
			out = append(out, *t)
		}
	})
	return c.JSON(out)
}

func (s *Server) handleChatMessage(c *fiber.Ctx) error {
	var req struct {
		SessionID string `json:"session_id"`
		Message   string `json:"message"`
		Image     string `json:"image"`
	}
	if err := c.BodyParser(&req); err != nil || (req.Message == "" && req.Image == "") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	prompt := "You are a patient study tutor for a student. Answer clearly and" +
		" encourage them.\n\nStudent: " + req.Message
	var images []string
	if req.Image != "" {
		images = append(images, req.Image)
	}

	reply, err := s.responder.Reply(c.Context(), prompt, images)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "AI request failed"})
	}

	replyID := uuid.New().String()
	s.store.withState(currentUserID(c), func(st *userState) {
		thread := st.findThread(req.SessionID)
		if thread == nil {
			thread = &models.ChatThread{
				ID:    req.SessionID,
				Title: threadTitle(req.Message),
				Date:  time.Now().Format("2006-01-02"),
			}
			st.threads = append([]*models.ChatThread{thread}, st.threads...)
		}
		thread.Messages = append(thread.Messages,
			models.ChatMessage{ID: uuid.New().String(), Role: models.RoleUser, Content: req.Message, Image: req.Image},
			models.ChatMessage{ID: replyID, Role: models.RoleAssistant, Content: reply},
		)
	})

	return c.JSON(fiber.Map{"id": replyID, "reply": reply})
}

func threadTitle(message string) string {
	if message == "" {
		return "Image Analysis"
	}
	if len(message) > 20 {
		return message[:20]
	}
	return message
}

func (s *Server) handleExamAnalyse(c *fiber.Ctx) error {
	var req struct {
		Image string `json:"image"`
	}
	if err := c.BodyParser(&req); err != nil || req.Image == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Image is required"})
	}

	prompt := "This is a photo of a student's graded exam. Point out the" +
		" mistakes, explain the underlying concepts, and suggest what to practice."
	reply, err := s.responder.Reply(c.Context(), prompt, []string{req.Image})
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "AI request failed"})
	}
	return c.JSON(fiber.Map{"reply": reply})
}

func (s *Server) handleAnalyzeSchoolwork(c *fiber.Ctx) error {
	var req struct {
		Type     models.SchoolworkType `json:"type"`
		Subject  string                `json:"subject"`
		Grade    string                `json:"grade"`
		Mistakes string                `json:"mistakes"`
		Notes    string                `json:"notes"`
		Topic    string                `json:"topic"`
		Images   []string              `json:"images"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	if req.Subject == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Subject is required"})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze a student's %s in %s and produce markdown feedback.\n", req.Type, req.Subject)
	if req.Topic != "" {
		fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	}
	if req.Grade != "" {
		fmt.Fprintf(&b, "Grade received: %s\n", req.Grade)
	}
	if req.Mistakes != "" {
		fmt.Fprintf(&b, "Mistakes the student noticed: %s\n", req.Mistakes)
	}
	if req.Notes != "" {
		fmt.Fprintf(&b, "Additional notes: %s\n", req.Notes)
	}

	reply, err := s.responder.Reply(c.Context(), b.String(), req.Images)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "AI request failed"})
	}

	analysis := models.Analysis{
		ID:      uuid.New().String(),
		Subject: req.Subject,
		Topic:   req.Topic,
		Content: reply,
	}
	s.store.withState(currentUserID(c), func(st *userState) {
		st.analyses[analysis.ID] = analysis
	})

	return c.JSON(fiber.Map{"id": analysis.ID, "analysis": reply})
}

func (s *Server) handleGetSchoolwork(c *fiber.Ctx) error {
	id := c.Params("id")

	var analysis models.Analysis
	found := false
	s.store.withState(currentUserID(c), func(st *userState) {
		analysis, found = st.analyses[id]
	})
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Analysis not found"})
	}
	return c.JSON(analysis)
}

func (s *Server) handleGenerateTest(c *fiber.Ctx) error {
	var req struct {
		Subject        string   `json:"subject"`
		Context        string   `json:"context"`
		QuestionsCount int      `json:"questionsCount"`
		Images         []string `json:"images"`
	}
	if err := c.BodyParser(&req); err != nil || req.Subject == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	count := req.QuestionsCount
	if count <= 0 {
		count = 5
	}
	if count > 20 {
		count = 20
	}

	prompt := fmt.Sprintf(
		"Create %d multiple-choice questions to prepare for a test on %q."+
			" Study notes:\n%s\n\nRespond with ONLY a JSON array of objects"+
			" {\"question\", \"options\", \"correct\"} where correct is the exact"+
			" text of the right option.",
		count, req.Subject, req.Context,
	)
	reply, err := s.responder.Reply(c.Context(), prompt, req.Images)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "AI request failed"})
	}

	questions, ok := parseQuizReply(reply)
	if !ok {
		questions = cannedQuiz(req.Subject, count)
	}
	return c.JSON(fiber.Map{"questions": questions})
}

// parseQuizReply accepts either a bare JSON array or a {"questions": [...]}
// wrapper and rejects questions whose correct answer is not among the
// options.
func parseQuizReply(reply string) ([]models.QuizQuestion, bool) {
	text := strings.TrimSpace(reply)

	var questions []models.QuizQuestion
	if err := json.Unmarshal([]byte(text), &questions); err != nil {
		var wrapped struct {
			Questions []models.QuizQuestion `json:"questions"`
		}
		if err := json.Unmarshal([]byte(text), &wrapped); err != nil {
			return nil, false
		}
		questions = wrapped.Questions
	}

	if len(questions) == 0 {
		return nil, false
	}
	for _, q := range questions {
		if q.Question == "" || len(q.Options) < 2 {
			return nil, false
		}
		found := false
		for _, opt := range q.Options {
			if opt == q.Correct {
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
	}
	return questions, true
}

// cannedQuiz produces deterministic questions so the quiz flow works with
// the canned responder.
func cannedQuiz(subject string, count int) []models.QuizQuestion {
	questions := make([]models.QuizQuestion, count)
	for i := range questions {
		correct := fmt.Sprintf("%s: key fact %d", subject, i+1)
		questions[i] = models.QuizQuestion{
			Question: fmt.Sprintf("Question %d: which statement about %s is correct?", i+1, subject),
			Options: []string{
				correct,
				fmt.Sprintf("%s: common misconception %d", subject, i+1),
				fmt.Sprintf("%s: unrelated detail %d", subject, i+1),
				fmt.Sprintf("%s: partial answer %d", subject, i+1),
			},
			Correct: correct,
		}
	}
	return questions
}

func (s *Server) handleExtractEvents(c *fiber.Ctx) error {
	var req struct {
		Image string `json:"image"`
	}
	if err := c.BodyParser(&req); err != nil || req.Image == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Image is required"})
	}

	prompt := "This is a photo of a school schedule or planner. Extract the" +
		" dated tasks. Respond with ONLY a JSON array of objects {\"date\"" +
		" (YYYY-MM-DD), \"type\" (homework|test|project), \"description\"}."
	reply, err := s.responder.Reply(c.Context(), prompt, []string{req.Image})
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "AI request failed"})
	}

	extracted := parseExtractedEvents(reply)
	if extracted == nil {
		extracted = cannedEvents(time.Now())
	}

	s.store.withState(currentUserID(c), func(st *userState) {
		for _, ev := range extracted {
			st.events[ev.Date] = append(st.events[ev.Date], ev.Event)
		}
	})
	return c.JSON(fiber.Map{"added": len(extracted)})
}

func parseExtractedEvents(reply string) []models.DatedEvent {
	var events []models.DatedEvent
	if err := json.Unmarshal([]byte(strings.TrimSpace(reply)), &events); err != nil {
		return nil
	}

	valid := events[:0]
	for _, ev := range events {
		if _, err := time.Parse("2006-01-02", ev.Date); err != nil {
			continue
		}
		switch ev.Type {
		case models.EventHomework, models.EventTest, models.EventProject:
		default:
			ev.Type = models.EventHomework
		}
		if ev.Description == "" {
			continue
		}
		valid = append(valid, ev)
	}
	if len(valid) == 0 {
		return nil
	}
	return valid
}

func cannedEvents(now time.Time) []models.DatedEvent {
	return []models.DatedEvent{
		{
			Event: models.Event{Type: models.EventHomework, Description: "Scanned: review class notes"},
			Date:  now.AddDate(0, 0, 1).Format("2006-01-02"),
		},
		{
			Event: models.Event{Type: models.EventTest, Description: "Scanned: upcoming test"},
			Date:  now.AddDate(0, 0, 3).Format("2006-01-02"),
		},
	}
}

func (s *Server) handleRecentScores(c *fiber.Ctx) error {
	total := 0
	sum := 0.0
	s.store.withState(currentUserID(c), func(st *userState) {
		total = len(st.scores)
		for _, r := range st.scores {
			sum += float64(r.Score) / float64(r.Total) * 100
		}
	})

	avg := 0.0
	if total > 0 {
		avg = math.Round(sum/float64(total)*10) / 10
	}
	return c.JSON(fiber.Map{"total_tests": total, "avg_percentage": avg})
}

func (s *Server) handleSaveScore(c *fiber.Ctx) error {
	var req struct {
		Subject string `json:"subject"`
		Score   int    `json:"score"`
		Total   int    `json:"total"`
	}
	if err := c.BodyParser(&req); err != nil || req.Total <= 0 || req.Score < 0 || req.Score > req.Total {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	s.store.withState(currentUserID(c), func(st *userState) {
		st.scores = append(st.scores, scoreRecord{Subject: req.Subject, Score: req.Score, Total: req.Total})
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Score saved"})
}
