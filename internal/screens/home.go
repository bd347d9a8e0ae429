// Package screens implements the view-state controllers behind each screen
// of the student-helper app: the local state machines, validation, and
// display computations. All real work is delegated to the backend through
// the api client; controllers only shape what the user sees.
package screens

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/studenthelper/studenthelper/internal/api"
	"github.com/studenthelper/studenthelper/internal/models"
)

const dateLayout = "2006-01-02"

// Home aggregates upcoming events and recent quiz scores for the dashboard.
type Home struct {
	client *api.Client

	Upcoming []models.UpcomingEvent
	Scores   *models.ScoreSummary
}

// NewHome creates the dashboard controller.
func NewHome(client *api.Client) *Home {
	return &Home{client: client}
}

// Refresh loads events and scores. A score fetch failure is logged and the
// dashboard renders without the performance card; an event fetch failure is
// surfaced since the screen is useless without it.
func (h *Home) Refresh(ctx context.Context) error {
	events, err := h.client.GetEvents(ctx)
	if err != nil {
		return err
	}
	h.Upcoming = UpcomingEvents(events, time.Now())

	scores, err := h.client.RecentScores(ctx)
	if err != nil {
		logrus.WithError(err).Warn("failed to fetch recent scores")
		h.Scores = nil
		return nil
	}
	h.Scores = scores
	return nil
}

// NextDeadline returns the nearest upcoming event, or nil when the user is
// all caught up.
func (h *Home) NextDeadline() *models.UpcomingEvent {
	if len(h.Upcoming) == 0 {
		return nil
	}
	return &h.Upcoming[0]
}

// Agenda returns up to n events after the next deadline.
func (h *Home) Agenda(n int) []models.UpcomingEvent {
	if len(h.Upcoming) <= 1 {
		return nil
	}
	rest := h.Upcoming[1:]
	if len(rest) > n {
		rest = rest[:n]
	}
	return rest
}

// UpcomingEvents flattens a date -> events mapping into a list annotated
// with whole-day distances from midnight-normalized today. Past events are
// dropped; the rest are sorted ascending by days left. Dates that fail to
// parse are skipped.
func UpcomingEvents(events map[string][]models.Event, now time.Time) []models.UpcomingEvent {
	today := midnight(now)

	var out []models.UpcomingEvent
	for dateStr, dayEvents := range events {
		days, ok := daysLeft(today, dateStr)
		if !ok || days < 0 {
			continue
		}
		for _, ev := range dayEvents {
			out = append(out, models.UpcomingEvent{
				DatedEvent: models.DatedEvent{Event: ev, Date: dateStr},
				DaysLeft:   days,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysLeft < out[j].DaysLeft
	})
	return out
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func daysLeft(today time.Time, dateStr string) (int, bool) {
	eventDate, err := time.ParseInLocation(dateLayout, dateStr, today.Location())
	if err != nil {
		logrus.WithField("date", dateStr).Warn("skipping event with unparseable date")
		return 0, false
	}
	// Rounding absorbs DST days that are not exactly 24 hours long.
	days := int(math.Round(eventDate.Sub(today).Hours() / 24))
	return days, true
}
