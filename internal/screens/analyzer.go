package screens

import (
	"context"
	"errors"

	"github.com/studenthelper/studenthelper/internal/api"
	"github.com/studenthelper/studenthelper/internal/models"
)

var (
	// ErrImageRequired is returned when an image-driven flow has no image.
	ErrImageRequired = errors.New("select an image first")
	// ErrSubjectRequired is returned when submitting an analysis without a
	// subject.
	ErrSubjectRequired = errors.New("please enter a subject")
)

// ExamScanner is the simple analyzer variant: one captured image in, a block
// of feedback text out.
type ExamScanner struct {
	client *api.Client

	image    string
	Feedback string
}

// NewExamScanner creates the exam scanner controller.
func NewExamScanner(client *api.Client) *ExamScanner {
	return &ExamScanner{client: client}
}

// SetImage stages a base64-encoded exam image, clearing stale feedback.
func (s *ExamScanner) SetImage(imageB64 string) {
	s.image = imageB64
	s.Feedback = ""
}

// Analyze submits the staged image and stores the returned feedback.
func (s *ExamScanner) Analyze(ctx context.Context) error {
	if s.image == "" {
		return ErrImageRequired
	}

	resp, err := s.client.AnalyzeExam(ctx, s.image)
	if err != nil {
		return err
	}
	s.Feedback = resp.Reply
	return nil
}

// AnalyzerMode is the schoolwork analyzer's explicit screen mode.
type AnalyzerMode string

const (
	ModeCreate AnalyzerMode = "create"
	ModeView   AnalyzerMode = "view"
)

// SchoolworkForm is the structured analyzer submission under edit.
type SchoolworkForm struct {
	Type     models.SchoolworkType
	Subject  string
	Grade    string
	Mistakes string
	Notes    string
	Topic    string
	Images   []string
}

// Analyzer is the schoolwork analysis screen: a create/view state machine
// over a structured form. Submit flips to the read-only view on success and
// stays in edit mode on failure.
type Analyzer struct {
	client *api.Client

	Mode   AnalyzerMode
	Form   SchoolworkForm
	Result *models.Analysis
}

// NewAnalyzer creates the schoolwork analyzer in create mode.
func NewAnalyzer(client *api.Client) *Analyzer {
	a := &Analyzer{client: client}
	a.Reset()
	return a
}

// AddImage stages another captured page.
func (a *Analyzer) AddImage(imageB64 string) {
	a.Form.Images = append(a.Form.Images, imageB64)
}

// Submit validates the form and posts it for analysis.
func (a *Analyzer) Submit(ctx context.Context) error {
	if a.Form.Subject == "" {
		return ErrSubjectRequired
	}

	resp, err := a.client.AnalyzeSchoolwork(ctx, api.SchoolworkRequest{
		Type:     a.Form.Type,
		Subject:  a.Form.Subject,
		Grade:    a.Form.Grade,
		Mistakes: a.Form.Mistakes,
		Notes:    a.Form.Notes,
		Topic:    a.Form.Topic,
		Images:   a.Form.Images,
	})
	if err != nil {
		return err
	}

	a.Result = &models.Analysis{
		ID:      resp.ID,
		Subject: a.Form.Subject,
		Topic:   a.Form.Topic,
		Content: resp.Analysis,
	}
	a.Mode = ModeView
	return nil
}

// LoadSaved fetches a previously saved analysis and shows it read-only. On
// failure the screen stays in create mode.
func (a *Analyzer) LoadSaved(ctx context.Context, id string) error {
	analysis, err := a.client.GetSchoolwork(ctx, id)
	if err != nil {
		return err
	}
	a.Result = analysis
	a.Mode = ModeView
	return nil
}

// Title is the view-mode heading: "Subject" or "Subject: Topic".
func (a *Analyzer) Title() string {
	if a.Result == nil {
		return "Analysis"
	}
	if a.Result.Topic != "" {
		return a.Result.Subject + ": " + a.Result.Topic
	}
	return a.Result.Subject
}

// Reset clears the form and returns to create mode.
func (a *Analyzer) Reset() {
	a.Mode = ModeCreate
	a.Result = nil
	a.Form = SchoolworkForm{Type: models.SchoolworkPastExam}
}
