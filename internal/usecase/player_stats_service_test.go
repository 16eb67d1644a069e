package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmarchuk/matchfeed/internal/domain/event"
	"github.com/dmarchuk/matchfeed/internal/domain/match"
	"github.com/dmarchuk/matchfeed/internal/domain/player"
)

func TestPlayerStatsService_MatchStats_ComputesRatios(t *testing.T) {
	t.Parallel()

	matchRepo := &stubMatchRepository{
		matches: []match.Match{{ID: 10, HomeTeamID: 1, AwayTeamID: 2}},
		matchPlayers: []match.MatchPlayer{
			{MatchID: 10, PlayerID: 7, TeamID: 1, Position: "FW", IsFirstEleven: true},
		},
	}
	eventRepo := &stubEventRepository{}
	playerID := int64(7)
	f := &eventFactory{playerID: &playerID}

	for i := 0; i < 10; i++ {
		eventRepo.stored = append(eventRepo.stored, f.passing(10, 1, event.PassingAttrs{
			PassAccurate: i < 8,
			PassKey:      i == 0,
		}))
	}
	for i := 0; i < 3; i++ {
		eventRepo.stored = append(eventRepo.stored, f.shooting(10, 1, event.ShootingAttrs{
			IsShot:       true,
			ShotOnTarget: i < 2,
			IsGoal:       i == 0,
		}))
	}
	eventRepo.stored = append(eventRepo.stored,
		f.defending(10, 1, event.DefendingAttrs{IsTackle: true}),
		f.defending(10, 1, event.DefendingAttrs{IsTackle: true}),
		f.defending(10, 1, event.DefendingAttrs{IsInterception: true}),
		f.defending(10, 1, event.DefendingAttrs{IsBallRecovery: true}),
		f.defending(10, 1, event.DefendingAttrs{DefensiveDuel: true}),
	)

	service := NewPlayerStatsService(matchRepo, &stubPlayerRepository{}, eventRepo)

	stats, err := service.MatchStats(context.Background(), 10, 7)
	require.NoError(t, err)

	require.Equal(t, int64(1), stats.TeamID)
	require.Equal(t, "FW", stats.Position)
	require.True(t, stats.IsFirstEleven)

	require.Equal(t, 10, stats.Passing.PassesAttempted)
	require.Equal(t, 8, stats.Passing.PassesCompleted)
	require.InDelta(t, 80.0, stats.Passing.PassAccuracy, 0.01)

	require.Equal(t, 3, stats.Shooting.Shots)
	require.Equal(t, 2, stats.Shooting.ShotsOnTarget)
	require.Equal(t, 1, stats.Shooting.Goals)

	require.Equal(t, 2, stats.Defending.Tackles)
	require.Equal(t, 1, stats.Defending.Interceptions)
	require.Equal(t, 1, stats.Defending.BallRecoveries)
	require.Equal(t, 1, stats.Defending.DuelsWon)
}

func TestPlayerStatsService_MatchStats_NotOnSheet(t *testing.T) {
	t.Parallel()

	matchRepo := &stubMatchRepository{
		matches: []match.Match{{ID: 10, HomeTeamID: 1, AwayTeamID: 2}},
	}
	service := NewPlayerStatsService(matchRepo, &stubPlayerRepository{}, &stubEventRepository{})

	_, err := service.MatchStats(context.Background(), 10, 7)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPlayerStatsService_SeasonStats_SumsAndPerNinety(t *testing.T) {
	t.Parallel()

	matchRepo := &stubMatchRepository{
		appearances: map[string][]match.Appearance{
			seasonKey(5, 7): {
				{MatchID: 11, TeamID: 1, Position: "FW", IsFirstEleven: true},
				{MatchID: 12, TeamID: 1, Position: "AM", IsFirstEleven: false},
			},
		},
	}
	playerRepo := &stubPlayerRepository{
		players: []player.Player{{ID: 7, ExternalID: 101, Name: "Some Forward"}},
	}
	eventRepo := &stubEventRepository{}
	playerID := int64(7)
	f := &eventFactory{playerID: &playerID}

	for i := 0; i < 2; i++ {
		eventRepo.stored = append(eventRepo.stored, f.shooting(11, 1, event.ShootingAttrs{IsShot: true}))
	}
	for i := 0; i < 4; i++ {
		eventRepo.stored = append(eventRepo.stored, f.shooting(12, 1, event.ShootingAttrs{IsShot: true}))
	}
	for i := 0; i < 10; i++ {
		eventRepo.stored = append(eventRepo.stored, f.passing(11, 1, event.PassingAttrs{PassAccurate: i < 5}))
	}
	for i := 0; i < 10; i++ {
		eventRepo.stored = append(eventRepo.stored, f.passing(12, 1, event.PassingAttrs{PassAccurate: true}))
	}

	service := NewPlayerStatsService(matchRepo, playerRepo, eventRepo)

	stats, err := service.SeasonStats(context.Background(), 5, 7)
	require.NoError(t, err)

	require.Equal(t, "Some Forward", stats.Player.Name)
	require.Equal(t, 2, stats.GamesPlayed)
	require.Equal(t, 1, stats.GamesStarted)
	require.Equal(t, "AM", stats.Position)
	require.Equal(t, int64(1), stats.TeamID)

	require.Equal(t, 6, stats.Shooting.Shots)
	require.Equal(t, 20, stats.Passing.PassesAttempted)
	require.Equal(t, 15, stats.Passing.PassesCompleted)
	require.InDelta(t, 75.0, stats.Passing.PassAccuracy, 0.01)

	require.InDelta(t, 3.0, stats.ShotsPer90, 0.01)
	require.InDelta(t, 10.0, stats.PassesPer90, 0.01)
}

func TestPlayerStatsService_SeasonStats_NoAppearances(t *testing.T) {
	t.Parallel()

	service := NewPlayerStatsService(&stubMatchRepository{}, &stubPlayerRepository{}, &stubEventRepository{})

	_, err := service.SeasonStats(context.Background(), 5, 7)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
