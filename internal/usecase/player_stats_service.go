package usecase

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/dmarchuk/matchfeed/internal/domain/event"
	"github.com/dmarchuk/matchfeed/internal/domain/match"
	"github.com/dmarchuk/matchfeed/internal/domain/player"
)

type PlayerShooting struct {
	Shots         int `json:"shots"`
	ShotsOnTarget int `json:"shots_on_target"`
	Goals         int `json:"goals"`
	BigChances    int `json:"big_chances"`
}

type PlayerPassing struct {
	PassesAttempted int     `json:"passes_attempted"`
	PassesCompleted int     `json:"passes_completed"`
	KeyPasses       int     `json:"key_passes"`
	Assists         int     `json:"assists"`
	PassAccuracy    float64 `json:"pass_accuracy"`
}

type PlayerDefending struct {
	Tackles        int `json:"tackles"`
	Interceptions  int `json:"interceptions"`
	BallRecoveries int `json:"ball_recoveries"`
	DuelsWon       int `json:"duels_won"`
}

// PlayerMatchStats is one player's aggregate over a single match.
type PlayerMatchStats struct {
	MatchID       int64           `json:"match_id"`
	PlayerID      int64           `json:"player_id"`
	TeamID        int64           `json:"team_id"`
	Position      string          `json:"position"`
	IsFirstEleven bool            `json:"is_first_eleven"`
	Shooting      PlayerShooting  `json:"shooting"`
	Passing       PlayerPassing   `json:"passing"`
	Defending     PlayerDefending `json:"defending"`
}

// PlayerSeasonStats sums per-match aggregates over a season, with ratios
// recomputed on the summed totals. Team and position come from the player's
// latest appearance.
type PlayerSeasonStats struct {
	SeasonID     int64           `json:"season_id"`
	Player       player.Player   `json:"player"`
	TeamID       int64           `json:"team_id"`
	Position     string          `json:"position"`
	GamesPlayed  int             `json:"games_played"`
	GamesStarted int             `json:"games_started"`
	Shooting     PlayerShooting  `json:"shooting"`
	Passing      PlayerPassing   `json:"passing"`
	Defending    PlayerDefending `json:"defending"`
	ShotsPer90   float64         `json:"shots_per_90"`
	PassesPer90  float64         `json:"passes_per_90"`
	TacklesPer90 float64         `json:"tackles_per_90"`
}

// PlayerStatsService aggregates stored events into player figures on demand.
type PlayerStatsService struct {
	matchRepo  match.Repository
	playerRepo player.Repository
	eventRepo  event.Repository
}

func NewPlayerStatsService(matchRepo match.Repository, playerRepo player.Repository, eventRepo event.Repository) *PlayerStatsService {
	return &PlayerStatsService{
		matchRepo:  matchRepo,
		playerRepo: playerRepo,
		eventRepo:  eventRepo,
	}
}

func (s *PlayerStatsService) MatchStats(ctx context.Context, matchID, playerID int64) (PlayerMatchStats, error) {
	ctx, span := startUsecaseSpan(ctx, "PlayerStatsService.MatchStats")
	defer span.End()

	if matchID <= 0 || playerID <= 0 {
		return PlayerMatchStats{}, fmt.Errorf("%w: match id and player id are required", ErrInvalidInput)
	}

	mp, exists, err := s.matchRepo.GetMatchPlayer(ctx, matchID, playerID)
	if err != nil {
		return PlayerMatchStats{}, fmt.Errorf("get match player: %w", err)
	}
	if !exists {
		return PlayerMatchStats{}, fmt.Errorf("%w: player=%d has no sheet entry for match=%d", ErrNotFound, playerID, matchID)
	}

	stats, err := s.matchStatsForPlayer(ctx, matchID, playerID)
	if err != nil {
		return PlayerMatchStats{}, err
	}
	stats.TeamID = mp.TeamID
	stats.Position = mp.Position
	stats.IsFirstEleven = mp.IsFirstEleven

	return stats, nil
}

func (s *PlayerStatsService) matchStatsForPlayer(ctx context.Context, matchID, playerID int64) (PlayerMatchStats, error) {
	events, err := s.eventRepo.ListByMatchPlayer(ctx, matchID, playerID)
	if err != nil {
		return PlayerMatchStats{}, fmt.Errorf("list player events: %w", err)
	}

	stats := aggregatePlayerEvents(events)
	stats.MatchID = matchID
	stats.PlayerID = playerID
	stats.Passing.PassAccuracy = ratioPct(stats.Passing.PassesCompleted, stats.Passing.PassesAttempted)

	return stats, nil
}

func (s *PlayerStatsService) SeasonStats(ctx context.Context, seasonID, playerID int64) (PlayerSeasonStats, error) {
	ctx, span := startUsecaseSpan(ctx, "PlayerStatsService.SeasonStats")
	defer span.End()

	if seasonID <= 0 || playerID <= 0 {
		return PlayerSeasonStats{}, fmt.Errorf("%w: season id and player id are required", ErrInvalidInput)
	}

	appearances, err := s.matchRepo.ListAppearancesBySeasonPlayer(ctx, seasonID, playerID)
	if err != nil {
		return PlayerSeasonStats{}, fmt.Errorf("list season appearances: %w", err)
	}
	if len(appearances) == 0 {
		return PlayerSeasonStats{}, fmt.Errorf("%w: no appearances for player=%d in season=%d", ErrNotFound, playerID, seasonID)
	}

	p, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return PlayerSeasonStats{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return PlayerSeasonStats{}, fmt.Errorf("%w: player=%d", ErrNotFound, playerID)
	}

	fanOut := pool.NewWithResults[PlayerMatchStats]().WithContext(ctx).WithMaxGoroutines(seasonFanOutWorkers)
	for _, app := range appearances {
		app := app
		fanOut.Go(func(ctx context.Context) (PlayerMatchStats, error) {
			return s.matchStatsForPlayer(ctx, app.MatchID, playerID)
		})
	}
	perMatch, err := fanOut.Wait()
	if err != nil {
		return PlayerSeasonStats{}, err
	}

	out := PlayerSeasonStats{
		SeasonID:    seasonID,
		Player:      p,
		GamesPlayed: len(appearances),
	}

	latest := appearances[len(appearances)-1]
	out.TeamID = latest.TeamID
	out.Position = latest.Position

	for _, app := range appearances {
		if app.IsFirstEleven {
			out.GamesStarted++
		}
	}

	for _, ms := range perMatch {
		out.Shooting.Shots += ms.Shooting.Shots
		out.Shooting.ShotsOnTarget += ms.Shooting.ShotsOnTarget
		out.Shooting.Goals += ms.Shooting.Goals
		out.Shooting.BigChances += ms.Shooting.BigChances

		out.Passing.PassesAttempted += ms.Passing.PassesAttempted
		out.Passing.PassesCompleted += ms.Passing.PassesCompleted
		out.Passing.KeyPasses += ms.Passing.KeyPasses
		out.Passing.Assists += ms.Passing.Assists

		out.Defending.Tackles += ms.Defending.Tackles
		out.Defending.Interceptions += ms.Defending.Interceptions
		out.Defending.BallRecoveries += ms.Defending.BallRecoveries
		out.Defending.DuelsWon += ms.Defending.DuelsWon
	}

	played := float64(out.GamesPlayed)
	out.Passing.PassAccuracy = ratioPct(out.Passing.PassesCompleted, out.Passing.PassesAttempted)
	out.ShotsPer90 = round1(float64(out.Shooting.Shots) / played)
	out.PassesPer90 = round1(float64(out.Passing.PassesAttempted) / played)
	out.TacklesPer90 = round1(float64(out.Defending.Tackles) / played)

	return out, nil
}

func aggregatePlayerEvents(events []event.Classified) PlayerMatchStats {
	var out PlayerMatchStats
	for _, ev := range events {
		switch ev.Category {
		case event.CategoryShooting:
			a := ev.Shooting
			countIf(&out.Shooting.Shots, a.IsShot)
			countIf(&out.Shooting.ShotsOnTarget, a.ShotOnTarget)
			countIf(&out.Shooting.Goals, a.IsGoal)
			countIf(&out.Shooting.BigChances, a.BigChanceScored || a.BigChanceMissed)
		case event.CategoryPassing:
			a := ev.Passing
			out.Passing.PassesAttempted++
			countIf(&out.Passing.PassesCompleted, a.PassAccurate)
			countIf(&out.Passing.KeyPasses, a.PassKey)
			countIf(&out.Passing.Assists, a.Assist)
		case event.CategoryDefending:
			a := ev.Defending
			countIf(&out.Defending.Tackles, a.IsTackle)
			countIf(&out.Defending.Interceptions, a.IsInterception)
			countIf(&out.Defending.BallRecoveries, a.IsBallRecovery)
			countIf(&out.Defending.DuelsWon, a.DefensiveDuel)
		}
	}
	return out
}
