package api

import (
	"context"

	"github.com/studenthelper/studenthelper/internal/models"
)

// CreateEventRequest files a new calendar event under a date.
type CreateEventRequest struct {
	Date        string           `json:"date"`
	Type        models.EventType `json:"type"`
	Description string           `json:"description"`
}

// DeleteEventRequest removes an event. The backend matches by date plus
// description; there is no stable event id in this contract.
type DeleteEventRequest struct {
	Date        string `json:"date"`
	Description string `json:"description"`
}

// GetEvents fetches the full date -> events mapping.
func (c *Client) GetEvents(ctx context.Context) (map[string][]models.Event, error) {
	out := make(map[string][]models.Event)
	if err := c.get(ctx, "/events", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateEvent files a new event.
func (c *Client) CreateEvent(ctx context.Context, req CreateEventRequest) error {
	return c.post(ctx, "/events", req, nil)
}

// DeleteEvent removes the event matching date plus description.
func (c *Client) DeleteEvent(ctx context.Context, req DeleteEventRequest) error {
	return c.post(ctx, "/events/delete", req, nil)
}
