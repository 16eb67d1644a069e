package usecase

import (
	"context"
	"fmt"

	"github.com/dmarchuk/matchfeed/internal/domain/competition"
	"github.com/dmarchuk/matchfeed/internal/domain/event"
	"github.com/dmarchuk/matchfeed/internal/domain/match"
	"github.com/dmarchuk/matchfeed/internal/domain/player"
	"github.com/dmarchuk/matchfeed/internal/domain/team"
)

type stubCompetitionRepository struct {
	competitions []competition.Competition
	seasons      []competition.Season
	upsertCalls  int
}

func (s *stubCompetitionRepository) UpsertCompetition(_ context.Context, c competition.Competition) (competition.Competition, error) {
	s.upsertCalls++
	for _, existing := range s.competitions {
		if existing.Name == c.Name && existing.Country == c.Country {
			return existing, nil
		}
	}
	c.ID = int64(len(s.competitions) + 1)
	s.competitions = append(s.competitions, c)
	return c, nil
}

func (s *stubCompetitionRepository) UpsertSeason(_ context.Context, season competition.Season) (competition.Season, error) {
	for _, existing := range s.seasons {
		if existing.CompetitionID == season.CompetitionID && existing.Name == season.Name {
			return existing, nil
		}
	}
	season.ID = int64(len(s.seasons) + 1)
	s.seasons = append(s.seasons, season)
	return season, nil
}

func (s *stubCompetitionRepository) GetSeasonByID(_ context.Context, seasonID int64) (competition.Season, bool, error) {
	for _, existing := range s.seasons {
		if existing.ID == seasonID {
			return existing, true, nil
		}
	}
	return competition.Season{}, false, nil
}

type stubTeamRepository struct {
	teams       []team.Team
	upsertCalls int
}

func (s *stubTeamRepository) Upsert(_ context.Context, t team.Team) (team.Team, error) {
	s.upsertCalls++
	for i, existing := range s.teams {
		if existing.ExternalID == t.ExternalID {
			t.ID = existing.ID
			s.teams[i] = t
			return t, nil
		}
	}
	t.ID = int64(len(s.teams) + 1)
	s.teams = append(s.teams, t)
	return t, nil
}

func (s *stubTeamRepository) GetByID(_ context.Context, teamID int64) (team.Team, bool, error) {
	for _, existing := range s.teams {
		if existing.ID == teamID {
			return existing, true, nil
		}
	}
	return team.Team{}, false, nil
}

type stubPlayerRepository struct {
	players []player.Player
}

func (s *stubPlayerRepository) Upsert(_ context.Context, p player.Player) (player.Player, error) {
	for i, existing := range s.players {
		if existing.ExternalID == p.ExternalID {
			p.ID = existing.ID
			s.players[i] = p
			return p, nil
		}
	}
	p.ID = int64(len(s.players) + 1)
	s.players = append(s.players, p)
	return p, nil
}

func (s *stubPlayerRepository) GetByID(_ context.Context, playerID int64) (player.Player, bool, error) {
	for _, existing := range s.players {
		if existing.ID == playerID {
			return existing, true, nil
		}
	}
	return player.Player{}, false, nil
}

func (s *stubPlayerRepository) MapExternalIDs(_ context.Context, externalIDs []int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(externalIDs))
	for _, externalID := range externalIDs {
		for _, existing := range s.players {
			if existing.ExternalID == externalID {
				out[externalID] = existing.ID
			}
		}
	}
	return out, nil
}

type stubMatchRepository struct {
	matches      []match.Match
	bundles      []match.Bundle
	matchPlayers []match.MatchPlayer
	appearances  map[string][]match.Appearance
	seasonCtx    map[string]match.TeamSeasonContext
	saveCalls    int
}

func seasonKey(seasonID, id int64) string {
	return fmt.Sprintf("%d|%d", seasonID, id)
}

func (s *stubMatchRepository) SaveBundle(_ context.Context, b match.Bundle) (match.Match, error) {
	s.saveCalls++
	s.bundles = append(s.bundles, b)

	for i, existing := range s.matches {
		if existing.ExternalID == b.Match.ExternalID {
			b.Match.ID = existing.ID
			s.matches[i] = b.Match
			return b.Match, nil
		}
	}
	b.Match.ID = int64(len(s.matches) + 1)
	s.matches = append(s.matches, b.Match)
	return b.Match, nil
}

func (s *stubMatchRepository) GetByID(_ context.Context, matchID int64) (match.Match, bool, error) {
	for _, existing := range s.matches {
		if existing.ID == matchID {
			return existing, true, nil
		}
	}
	return match.Match{}, false, nil
}

func (s *stubMatchRepository) GetByExternalID(_ context.Context, externalID int64) (match.Match, bool, error) {
	for _, existing := range s.matches {
		if existing.ExternalID == externalID {
			return existing, true, nil
		}
	}
	return match.Match{}, false, nil
}

func (s *stubMatchRepository) GetMatchPlayer(_ context.Context, matchID, playerID int64) (match.MatchPlayer, bool, error) {
	for _, existing := range s.matchPlayers {
		if existing.MatchID == matchID && existing.PlayerID == playerID {
			return existing, true, nil
		}
	}
	return match.MatchPlayer{}, false, nil
}

func (s *stubMatchRepository) ListBySeasonTeam(_ context.Context, seasonID, teamID int64) ([]match.Match, error) {
	var out []match.Match
	for _, existing := range s.matches {
		if existing.SeasonID != seasonID {
			continue
		}
		if existing.HomeTeamID == teamID || existing.AwayTeamID == teamID {
			out = append(out, existing)
		}
	}
	return out, nil
}

func (s *stubMatchRepository) ListAppearancesBySeasonPlayer(_ context.Context, seasonID, playerID int64) ([]match.Appearance, error) {
	return s.appearances[seasonKey(seasonID, playerID)], nil
}

func (s *stubMatchRepository) GetTeamSeasonContext(_ context.Context, seasonID, teamID int64) (match.TeamSeasonContext, bool, error) {
	ctx, ok := s.seasonCtx[seasonKey(seasonID, teamID)]
	return ctx, ok, nil
}

type stubEventRepository struct {
	stored        []event.Classified
	failSourceIDs map[int64]error
	upsertCalls   int
}

func (s *stubEventRepository) UpsertBatch(_ context.Context, events []event.Classified) ([]event.UpsertFailure, error) {
	s.upsertCalls++
	var failures []event.UpsertFailure
	for i, ev := range events {
		if err, ok := s.failSourceIDs[ev.Base.SourceID]; ok {
			failures = append(failures, event.UpsertFailure{Index: i, Err: err})
			continue
		}
		s.stored = append(s.stored, ev)
	}
	return failures, nil
}

func (s *stubEventRepository) ListByMatch(_ context.Context, matchID int64, category *event.Category) ([]event.Classified, error) {
	var out []event.Classified
	for _, ev := range s.stored {
		if ev.Base.MatchID != matchID {
			continue
		}
		if category != nil && ev.Category != *category {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (s *stubEventRepository) ListByMatchTeam(_ context.Context, matchID, teamID int64) ([]event.Classified, error) {
	var out []event.Classified
	for _, ev := range s.stored {
		if ev.Base.MatchID == matchID && ev.Base.TeamID == teamID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *stubEventRepository) ListByMatchPlayer(_ context.Context, matchID, playerID int64) ([]event.Classified, error) {
	var out []event.Classified
	for _, ev := range s.stored {
		if ev.Base.MatchID != matchID || ev.Base.PlayerID == nil {
			continue
		}
		if *ev.Base.PlayerID == playerID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *stubEventRepository) CountsByMatch(_ context.Context, matchID int64) (map[event.Category]int, error) {
	out := make(map[event.Category]int)
	for _, cat := range event.Categories() {
		out[cat] = 0
	}
	for _, ev := range s.stored {
		if ev.Base.MatchID == matchID {
			out[ev.Category]++
		}
	}
	return out, nil
}
