package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmarchuk/matchfeed/internal/domain/event"
	"github.com/dmarchuk/matchfeed/internal/domain/match"
	"github.com/dmarchuk/matchfeed/internal/domain/player"
	"github.com/dmarchuk/matchfeed/internal/domain/report"
	"github.com/dmarchuk/matchfeed/internal/platform/logging"
)

// EventLoaderService classifies raw feed events and stores them per category.
// Bad events are skipped one by one; the rest of the batch still lands.
type EventLoaderService struct {
	matchRepo  match.Repository
	playerRepo player.Repository
	eventRepo  event.Repository
	logger     *logging.Logger
}

func NewEventLoaderService(
	matchRepo match.Repository,
	playerRepo player.Repository,
	eventRepo event.Repository,
	logger *logging.Logger,
) *EventLoaderService {
	if logger == nil {
		logger = logging.Default()
	}
	return &EventLoaderService{
		matchRepo:  matchRepo,
		playerRepo: playerRepo,
		eventRepo:  eventRepo,
		logger:     logger,
	}
}

func (s *EventLoaderService) LoadMatchEvents(ctx context.Context, matchID int64, events []report.Event) (event.LoadOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "EventLoaderService.LoadMatchEvents")
	defer span.End()

	if matchID <= 0 {
		return event.LoadOutcome{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return event.LoadOutcome{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return event.LoadOutcome{}, fmt.Errorf("%w: match=%d", ErrNotFound, matchID)
	}

	outcome := event.LoadOutcome{Loaded: make(map[event.Category]int)}
	if len(events) == 0 {
		return outcome, nil
	}

	playerIDs, err := s.resolvePlayers(ctx, events)
	if err != nil {
		return event.LoadOutcome{}, err
	}

	classified := make([]event.Classified, 0, len(events))
	for _, raw := range events {
		// "Start" rows are period markers, not player actions.
		if raw.Type == "Start" {
			continue
		}

		ev, err := event.Classify(raw)
		if err != nil {
			if errors.Is(err, event.ErrUnknownType) {
				s.logger.WarnContext(ctx, "skipping event of unknown type",
					"match_id", matchID,
					"source_id", raw.SourceID,
					"type", raw.Type,
				)
				outcome.Skipped = append(outcome.Skipped, skippedFromRaw(raw, "unknown event type"))
				continue
			}
			return event.LoadOutcome{}, fmt.Errorf("classify event %d: %w", raw.SourceID, err)
		}

		ev.Base.MatchID = matchID
		ev.Base.TeamID = teamForSide(m, raw.Side)
		ev.Base.PlayerID = resolvePlayerRef(ctx, s.logger, playerIDs, raw)

		classified = append(classified, ev)
	}

	failures, err := s.eventRepo.UpsertBatch(ctx, classified)
	if err != nil {
		return event.LoadOutcome{}, fmt.Errorf("upsert events: %w", err)
	}

	failed := make(map[int]struct{}, len(failures))
	for _, f := range failures {
		failed[f.Index] = struct{}{}
		ev := classified[f.Index]
		s.logger.WarnContext(ctx, "event failed to store",
			"match_id", matchID,
			"source_id", ev.Base.SourceID,
			"category", ev.Category,
			"error", f.Err,
		)
		outcome.Skipped = append(outcome.Skipped, event.SkippedEvent{
			SourceID: ev.Base.SourceID,
			EventID:  ev.Base.EventID,
			Type:     ev.Base.Type,
			Reason:   f.Err.Error(),
		})
	}

	for i, ev := range classified {
		if _, ok := failed[i]; ok {
			continue
		}
		outcome.Loaded[ev.Category]++
	}

	s.logger.InfoContext(ctx, "match events loaded",
		"match_id", matchID,
		"loaded", outcome.TotalLoaded(),
		"skipped", len(outcome.Skipped),
	)

	return outcome, nil
}

// resolvePlayers maps the batch's external player ids to internal ids in one
// round trip.
func (s *EventLoaderService) resolvePlayers(ctx context.Context, events []report.Event) (map[int64]int64, error) {
	seen := make(map[int64]struct{})
	var externalIDs []int64
	for _, raw := range events {
		if raw.PlayerID == nil {
			continue
		}
		if _, ok := seen[*raw.PlayerID]; ok {
			continue
		}
		seen[*raw.PlayerID] = struct{}{}
		externalIDs = append(externalIDs, *raw.PlayerID)
	}
	if len(externalIDs) == 0 {
		return nil, nil
	}

	ids, err := s.playerRepo.MapExternalIDs(ctx, externalIDs)
	if err != nil {
		return nil, fmt.Errorf("map player ids: %w", err)
	}
	return ids, nil
}

func resolvePlayerRef(ctx context.Context, logger *logging.Logger, ids map[int64]int64, raw report.Event) *int64 {
	if raw.PlayerID == nil {
		return nil
	}
	id, ok := ids[*raw.PlayerID]
	if !ok {
		// An event can reference a player the sheet never listed. The event
		// still counts for the team, just without a player link.
		logger.WarnContext(ctx, "event references unknown player",
			"source_id", raw.SourceID,
			"player_external_id", *raw.PlayerID,
		)
		return nil
	}
	return &id
}

func teamForSide(m match.Match, side string) int64 {
	if side == "h" {
		return m.HomeTeamID
	}
	return m.AwayTeamID
}

func skippedFromRaw(raw report.Event, reason string) event.SkippedEvent {
	return event.SkippedEvent{
		SourceID: raw.SourceID,
		EventID:  raw.EventID,
		Type:     raw.Type,
		Reason:   reason,
	}
}
