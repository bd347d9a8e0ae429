package screens

import (
	"context"
	"errors"
	"time"

	"github.com/studenthelper/studenthelper/internal/api"
	"github.com/studenthelper/studenthelper/internal/models"
)

var (
	// ErrInvalidDate is returned when an event date is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
	// ErrPastDate is returned when adding an event dated before today.
	ErrPastDate = errors.New("cannot add events to past dates")
	// ErrEmptyDescription is returned when adding an event with no description.
	ErrEmptyDescription = errors.New("description is required")
	// ErrBadEventType is returned for an unknown event type.
	ErrBadEventType = errors.New("event type must be homework, test or project")
	// ErrDeleteNotConfirmed is returned when the user declines the
	// destructive-action prompt.
	ErrDeleteNotConfirmed = errors.New("deletion not confirmed")
)

// Marker colors, keyed by the highest-priority event type present on a date.
const (
	ColorTest     = "red"
	ColorProject  = "orange"
	ColorHomework = "blue"
)

// Marking is the per-date calendar decoration.
type Marking struct {
	Marked   bool
	Color    string
	Selected bool
}

// Calendar is the event-tracker screen: the date -> events mapping plus the
// add, delete and schedule-scan flows.
type Calendar struct {
	client *api.Client

	Events map[string][]models.Event
}

// NewCalendar creates the calendar controller.
func NewCalendar(client *api.Client) *Calendar {
	return &Calendar{client: client, Events: map[string][]models.Event{}}
}

// Refresh loads the full event mapping.
func (c *Calendar) Refresh(ctx context.Context) error {
	events, err := c.client.GetEvents(ctx)
	if err != nil {
		return err
	}
	c.Events = events
	return nil
}

// MarkedDates derives the calendar decorations: each date with events gets a
// dot colored by the highest-priority type present (test > project >
// homework), and the selected date gets a highlight whether or not it has
// events.
func MarkedDates(events map[string][]models.Event, selected string) map[string]Marking {
	out := make(map[string]Marking, len(events)+1)

	for date, dayEvents := range events {
		if len(dayEvents) == 0 {
			continue
		}
		out[date] = Marking{
			Marked:   true,
			Color:    markerColor(dayEvents),
			Selected: date == selected,
		}
	}

	if selected != "" {
		m := out[selected]
		m.Selected = true
		out[selected] = m
	}
	return out
}

func markerColor(events []models.Event) string {
	color := ColorHomework
	for _, ev := range events {
		switch ev.Type {
		case models.EventTest:
			return ColorTest
		case models.EventProject:
			color = ColorProject
		}
	}
	return color
}

// AddEvent validates and files a new event, then refreshes the mapping.
// Validation failures never issue a request.
func (c *Calendar) AddEvent(ctx context.Context, date string, typ models.EventType, description string, now time.Time) error {
	if description == "" {
		return ErrEmptyDescription
	}
	switch typ {
	case models.EventHomework, models.EventTest, models.EventProject:
	default:
		return ErrBadEventType
	}

	eventDate, err := time.ParseInLocation(dateLayout, date, now.Location())
	if err != nil {
		return ErrInvalidDate
	}
	if eventDate.Before(midnight(now)) {
		return ErrPastDate
	}

	if err := c.client.CreateEvent(ctx, api.CreateEventRequest{
		Date:        date,
		Type:        typ,
		Description: description,
	}); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// DeleteEvent removes the event matching date plus description after the
// confirm callback approves it. Matching by content is the backend contract;
// duplicate descriptions on one date are indistinguishable.
func (c *Calendar) DeleteEvent(ctx context.Context, date, description string, confirm func(string) bool) error {
	if !confirm(description) {
		return ErrDeleteNotConfirmed
	}

	if err := c.client.DeleteEvent(ctx, api.DeleteEventRequest{
		Date:        date,
		Description: description,
	}); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// ScanSchedule submits a schedule photo for event extraction and reports how
// many events the backend added.
func (c *Calendar) ScanSchedule(ctx context.Context, imageB64 string) (int, error) {
	if imageB64 == "" {
		return 0, ErrImageRequired
	}

	resp, err := c.client.ExtractEvents(ctx, imageB64)
	if err != nil {
		return 0, err
	}
	if err := c.Refresh(ctx); err != nil {
		return resp.Added, err
	}
	return resp.Added, nil
}
