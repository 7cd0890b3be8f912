package calendar

import (
	"context"
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/ai-secretary/internal/domain"
	"github.com/seu-repo/ai-secretary/internal/ports"
)

const (
	Provider = "internal"

	maxFreeSlots     = 10
	workdayStartHour = 9
	workdayEndHour   = 18
	defaultWindow    = 7 * 24 * time.Hour
)

// Service is the built-in calendar: events live in an EventRepository and
// meeting links are generated locally.
type Service struct {
	repo ports.EventRepository
	loc  *time.Location
	now  func() time.Time
	log  *zap.Logger
}

func NewService(repo ports.EventRepository, loc *time.Location, log *zap.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo: repo,
		loc:  loc,
		now:  time.Now,
		log:  log,
	}
}

func (s *Service) CreateEvent(ctx context.Context, userID string, input domain.EventInput) (*domain.EventResult, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || input.Start.IsZero() || input.End.IsZero() {
		return rejected("missing required fields: title, start, end"), nil
	}
	if !input.End.After(input.Start) {
		return rejected("end must be after start"), nil
	}

	existing, err := s.repo.FindByUserBetween(ctx, userID, input.Start, input.End)
	if err != nil {
		return nil, fmt.Errorf("check conflicts: %w", err)
	}
	if len(existing) > 0 {
		c := existing[0]
		return rejected(fmt.Sprintf("time conflict with %q at %s", c.Title, c.StartsAt.In(s.loc).Format("2006-01-02 15:04"))), nil
	}

	id := uuid.New()
	event := &domain.CalendarEvent{
		ID:          id.String(),
		UserID:      userID,
		Title:       title,
		StartsAt:    input.Start,
		EndsAt:      input.End,
		Attendees:   input.Attendees,
		Location:    input.Location,
		Description: input.Description,
		CreatedAt:   s.now(),
	}
	if input.Zoom {
		event.JoinURL = meetingLink(id)
	}

	if err := s.repo.Save(ctx, event); err != nil {
		return nil, fmt.Errorf("save event: %w", err)
	}

	s.log.Info("Calendar event created",
		zap.String("user_id", userID),
		zap.String("event_id", event.ID),
		zap.Time("start", event.StartsAt),
		zap.Int("attendees", len(event.Attendees)),
	)

	return &domain.EventResult{
		OK:       true,
		ID:       event.ID,
		JoinURL:  event.JoinURL,
		Provider: Provider,
	}, nil
}

// FindFreeSlots returns up to ten hour-aligned windows inside working hours
// that do not collide with stored events.
func (s *Service) FindFreeSlots(ctx context.Context, userID string, durationMin int, startISO, endISO string) ([]domain.FreeSlot, error) {
	if durationMin <= 0 {
		durationMin = 30
	}
	duration := time.Duration(durationMin) * time.Minute

	from := s.now()
	if startISO != "" {
		t, err := time.Parse(time.RFC3339, startISO)
		if err != nil {
			return nil, fmt.Errorf("invalid start: %w", err)
		}
		from = t
	}
	to := from.Add(defaultWindow)
	if endISO != "" {
		t, err := time.Parse(time.RFC3339, endISO)
		if err != nil {
			return nil, fmt.Errorf("invalid end: %w", err)
		}
		to = t
	}
	if !to.After(from) {
		return nil, nil
	}

	busy, err := s.repo.FindByUserBetween(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}

	var slots []domain.FreeSlot
	cursor := from.In(s.loc).Truncate(time.Hour)
	if cursor.Before(from) {
		cursor = cursor.Add(time.Hour)
	}
	for ; !cursor.Add(duration).After(to) && len(slots) < maxFreeSlots; cursor = cursor.Add(time.Hour) {
		end := cursor.Add(duration)
		dayEnd := time.Date(cursor.Year(), cursor.Month(), cursor.Day(), workdayEndHour, 0, 0, 0, s.loc)
		if cursor.Hour() < workdayStartHour || end.After(dayEnd) {
			continue
		}
		if overlapsAny(busy, cursor, end) {
			continue
		}
		slots = append(slots, domain.FreeSlot{Start: cursor, End: end, DurationMin: durationMin})
	}
	return slots, nil
}

func overlapsAny(events []domain.CalendarEvent, start, end time.Time) bool {
	for i := range events {
		if events[i].Overlaps(start, end) {
			return true
		}
	}
	return false
}

func rejected(reason string) *domain.EventResult {
	return &domain.EventResult{OK: false, Provider: Provider, Error: reason}
}

// meetingLink derives a stable 10-digit meeting number from the event ID.
func meetingLink(id uuid.UUID) string {
	n := binary.BigEndian.Uint64(id[:8]) % 10_000_000_000
	return fmt.Sprintf("https://zoom.us/j/%010d", n)
}
