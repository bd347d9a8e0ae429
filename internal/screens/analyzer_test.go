package screens

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studenthelper/studenthelper/internal/models"
)

func TestExamScanner_RequiresImage(t *testing.T) {
	scanner := NewExamScanner(nil)
	assert.ErrorIs(t, scanner.Analyze(context.Background()), ErrImageRequired)
}

func TestExamScanner_AnalyzeAndRestage(t *testing.T) {
	base := startBackend(t)
	client := signedInClient(t, base)
	ctx := context.Background()

	scanner := NewExamScanner(client)
	scanner.SetImage("aGVsbG8=")
	require.NoError(t, scanner.Analyze(ctx))
	assert.NotEmpty(t, scanner.Feedback)

	// Picking a new image drops the previous feedback.
	scanner.SetImage("d29ybGQ=")
	assert.Empty(t, scanner.Feedback)
}

func TestAnalyzer_SubmitRequiresSubject(t *testing.T) {
	analyzer := NewAnalyzer(nil)
	assert.ErrorIs(t, analyzer.Submit(context.Background()), ErrSubjectRequired)
	assert.Equal(t, ModeCreate, analyzer.Mode)
}

func TestAnalyzer_SubmitThenLoadSaved(t *testing.T) {
	base := startBackend(t)
	client := signedInClient(t, base)
	ctx := context.Background()

	analyzer := NewAnalyzer(client)
	assert.Equal(t, models.SchoolworkPastExam, analyzer.Form.Type)

	analyzer.Form.Subject = "Chemistry"
	analyzer.Form.Topic = "Redox reactions"
	analyzer.Form.Grade = "C"
	analyzer.Form.Mistakes = "balancing half equations"
	analyzer.AddImage("aGVsbG8=")

	require.NoError(t, analyzer.Submit(ctx))
	assert.Equal(t, ModeView, analyzer.Mode)
	require.NotNil(t, analyzer.Result)
	assert.NotEmpty(t, analyzer.Result.ID)
	assert.NotEmpty(t, analyzer.Result.Content)
	assert.Equal(t, "Chemistry: Redox reactions", analyzer.Title())

	savedID := analyzer.Result.ID

	// A fresh screen can pull the same analysis back by id.
	viewer := NewAnalyzer(client)
	require.NoError(t, viewer.LoadSaved(ctx, savedID))
	assert.Equal(t, ModeView, viewer.Mode)
	assert.Equal(t, "Chemistry", viewer.Result.Subject)

	viewer.Reset()
	assert.Equal(t, ModeCreate, viewer.Mode)
	assert.Nil(t, viewer.Result)
}

func TestAnalyzer_LoadSavedMissingStaysInCreate(t *testing.T) {
	base := startBackend(t)
	client := signedInClient(t, base)

	analyzer := NewAnalyzer(client)
	err := analyzer.LoadSaved(context.Background(), "no-such-id")
	require.Error(t, err)
	assert.Equal(t, ModeCreate, analyzer.Mode)
	assert.Nil(t, analyzer.Result)
}

func TestAnalyzer_TitleWithoutTopic(t *testing.T) {
	analyzer := NewAnalyzer(nil)
	assert.Equal(t, "Analysis", analyzer.Title())

	analyzer.Result = &models.Analysis{Subject: "Physics"}
	assert.Equal(t, "Physics", analyzer.Title())
}
