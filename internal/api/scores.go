package api

import (
	"context"

	"github.com/studenthelper/studenthelper/internal/models"
)

// SaveScoreRequest records one completed quiz result.
type SaveScoreRequest struct {
	Subject string `json:"subject"`
	Score   int    `json:"score"`
	Total   int    `json:"total"`
}

// RecentScores fetches the aggregate quiz statistics for the dashboard.
func (c *Client) RecentScores(ctx context.Context) (*models.ScoreSummary, error) {
	var out models.ScoreSummary
	if err := c.get(ctx, "/recent-scores", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveScore records a completed quiz score.
func (c *Client) SaveScore(ctx context.Context, req SaveScoreRequest) error {
	return c.post(ctx, "/save-score", req, nil)
}
