package usecase

import (
	"context"
	"fmt"

	"github.com/dmarchuk/matchfeed/internal/domain/event"
	"github.com/dmarchuk/matchfeed/internal/domain/match"
)

// MatchEvents is the raw listing of a match's stored events. Counts is only
// filled when no category filter was given.
type MatchEvents struct {
	MatchID  int64
	Category *event.Category
	Events   []event.Classified
	Counts   map[event.Category]int
}

// EventQueryService reads stored events back out, without aggregation.
type EventQueryService struct {
	matchRepo match.Repository
	eventRepo event.Repository
}

func NewEventQueryService(matchRepo match.Repository, eventRepo event.Repository) *EventQueryService {
	return &EventQueryService{
		matchRepo: matchRepo,
		eventRepo: eventRepo,
	}
}

func (s *EventQueryService) ListMatchEvents(ctx context.Context, matchID int64, category *event.Category) (MatchEvents, error) {
	ctx, span := startUsecaseSpan(ctx, "EventQueryService.ListMatchEvents")
	defer span.End()

	if matchID <= 0 {
		return MatchEvents{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if category != nil && !validCategory(*category) {
		return MatchEvents{}, fmt.Errorf("%w: unknown event category %q", ErrInvalidInput, *category)
	}

	_, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return MatchEvents{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return MatchEvents{}, fmt.Errorf("%w: match=%d", ErrNotFound, matchID)
	}

	events, err := s.eventRepo.ListByMatch(ctx, matchID, category)
	if err != nil {
		return MatchEvents{}, fmt.Errorf("list match events: %w", err)
	}

	out := MatchEvents{MatchID: matchID, Category: category, Events: events}
	if category == nil {
		counts, err := s.eventRepo.CountsByMatch(ctx, matchID)
		if err != nil {
			return MatchEvents{}, fmt.Errorf("count match events: %w", err)
		}
		out.Counts = counts
	}

	return out, nil
}

func validCategory(c event.Category) bool {
	for _, known := range event.Categories() {
		if c == known {
			return true
		}
	}
	return false
}
