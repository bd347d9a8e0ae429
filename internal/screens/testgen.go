package screens

import (
	"context"
	"errors"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/studenthelper/studenthelper/internal/api"
	"github.com/studenthelper/studenthelper/internal/models"
)

var (
	// ErrNoTestSelected is returned when generating without picking a test.
	ErrNoTestSelected = errors.New("select an upcoming test first")
	// ErrContextRequired is returned when generating with no notes and no
	// images.
	ErrContextRequired = errors.New("paste your study notes first")
	// ErrImageLimit is returned when attaching more than MaxQuizImages.
	ErrImageLimit = errors.New("you can upload a maximum of 2 images")
	// ErrQuizUnfinished is returned when scoring with unanswered questions.
	ErrQuizUnfinished = errors.New("answer all questions before finishing")
	// ErrNoQuiz is returned for quiz operations before generation.
	ErrNoQuiz = errors.New("no quiz generated")
	// ErrAlreadyScored is returned when answering after the score is final.
	ErrAlreadyScored = errors.New("quiz already scored")
	// ErrBadQuestion is returned for an out-of-range question index.
	ErrBadQuestion = errors.New("no such question")
)

// MaxQuizImages caps the note photos attached to a generation request.
const MaxQuizImages = 2

// DefaultQuestionCount is the question count used when the user does not
// pick one.
const DefaultQuestionCount = 5

// TestGenState is the generator screen's explicit mode.
type TestGenState string

const (
	StateSelect  TestGenState = "select"
	StateContext TestGenState = "context"
	StateQuiz    TestGenState = "quiz"
	StateScored  TestGenState = "scored"
)

// TestGenerator drives the practice-test flow: pick an upcoming test, supply
// notes, generate a quiz, answer, score, reset.
type TestGenerator struct {
	client *api.Client

	State TestGenState
	Tests []models.DatedEvent

	selected     *models.DatedEvent
	Context      string
	Images       []string
	NumQuestions int

	Quiz    []models.QuizQuestion
	Answers map[int]string
	Score   int
}

// NewTestGenerator creates the generator in the selection state.
func NewTestGenerator(client *api.Client) *TestGenerator {
	g := &TestGenerator{client: client}
	g.Reset()
	return g
}

// LoadTests fetches events and keeps those tagged "test", sorted by date.
func (g *TestGenerator) LoadTests(ctx context.Context) error {
	events, err := g.client.GetEvents(ctx)
	if err != nil {
		return err
	}

	g.Tests = g.Tests[:0]
	for date, dayEvents := range events {
		for _, ev := range dayEvents {
			if ev.Type == models.EventTest {
				g.Tests = append(g.Tests, models.DatedEvent{Event: ev, Date: date})
			}
		}
	}
	sort.Slice(g.Tests, func(i, j int) bool { return g.Tests[i].Date < g.Tests[j].Date })
	return nil
}

// SelectTest picks one of the loaded tests and moves to context entry.
func (g *TestGenerator) SelectTest(i int) error {
	if i < 0 || i >= len(g.Tests) {
		return ErrNoTestSelected
	}
	g.selected = &g.Tests[i]
	g.State = StateContext
	return nil
}

// Selected returns the picked test, or nil.
func (g *TestGenerator) Selected() *models.DatedEvent { return g.selected }

// AddImage stages a photo of study notes.
func (g *TestGenerator) AddImage(imageB64 string) error {
	if len(g.Images) >= MaxQuizImages {
		return ErrImageLimit
	}
	g.Images = append(g.Images, imageB64)
	return nil
}

// Generate validates the inputs and asks the backend for a quiz. On success
// the screen enters the quiz state with a clean answer map.
func (g *TestGenerator) Generate(ctx context.Context) error {
	if g.selected == nil {
		return ErrNoTestSelected
	}
	if g.Context == "" && len(g.Images) == 0 {
		return ErrContextRequired
	}

	count := g.NumQuestions
	if count <= 0 {
		count = DefaultQuestionCount
	}

	resp, err := g.client.GenerateTest(ctx, api.GenerateTestRequest{
		Subject:        g.selected.Description,
		Context:        g.Context,
		QuestionsCount: count,
		Images:         g.Images,
	})
	if err != nil {
		return err
	}

	g.Quiz = resp.Questions
	g.Answers = make(map[int]string)
	g.State = StateQuiz
	return nil
}

// Answer records the user's selection for question i.
func (g *TestGenerator) Answer(i int, option string) error {
	if g.State == StateScored {
		return ErrAlreadyScored
	}
	if g.Quiz == nil {
		return ErrNoQuiz
	}
	if i < 0 || i >= len(g.Quiz) {
		return ErrBadQuestion
	}
	g.Answers[i] = option
	return nil
}

// CalculateScore refuses until every question is answered, then tallies
// exact string matches against each question's correct option and records
// the result with the backend. The score upload is best-effort: a failure
// is logged, never surfaced, and the local score stands.
func (g *TestGenerator) CalculateScore(ctx context.Context) (int, error) {
	if g.Quiz == nil {
		return 0, ErrNoQuiz
	}
	if len(g.Answers) < len(g.Quiz) {
		return 0, ErrQuizUnfinished
	}

	correct := 0
	for i, q := range g.Quiz {
		if g.Answers[i] == q.Correct {
			correct++
		}
	}
	g.Score = correct
	g.State = StateScored

	if err := g.client.SaveScore(ctx, api.SaveScoreRequest{
		Subject: g.selected.Description,
		Score:   correct,
		Total:   len(g.Quiz),
	}); err != nil {
		logrus.WithError(err).Warn("failed to save quiz score")
	}
	return correct, nil
}

// Reset clears all quiz state and returns to test selection.
func (g *TestGenerator) Reset() {
	g.State = StateSelect
	g.selected = nil
	g.Context = ""
	g.Images = nil
	g.NumQuestions = DefaultQuestionCount
	g.Quiz = nil
	g.Answers = make(map[int]string)
	g.Score = 0
}
