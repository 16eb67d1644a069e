package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"github.com/dmarchuk/matchfeed/internal/domain/report"
)

func TestMatchLoaderService_LoadMatch_PersistsBundle(t *testing.T) {
	t.Parallel()

	competitionRepo := &stubCompetitionRepository{}
	teamRepo := &stubTeamRepository{}
	matchRepo := &stubMatchRepository{}
	service := NewMatchLoaderService(competitionRepo, teamRepo, matchRepo, nil)

	saved, err := service.LoadMatch(context.Background(), decodeReport(t, validReportPayload()))
	if err != nil {
		t.Fatalf("LoadMatch error: %v", err)
	}

	if saved.ID == 0 || saved.ExternalID != 1821372 {
		t.Fatalf("unexpected saved match: %+v", saved)
	}
	if saved.SeasonID == 0 {
		t.Fatalf("expected season to be resolved, got %+v", saved)
	}
	if saved.FTScore.Home != 2 || saved.FTScore.Away != 1 {
		t.Fatalf("unexpected full-time score: %+v", saved.FTScore)
	}
	if saved.ETScore != nil {
		t.Fatalf("etScore was not in the payload, got %+v", saved.ETScore)
	}

	want := time.Date(2024, 8, 10, 15, 30, 0, 0, time.UTC)
	if !saved.StartAt.Equal(want) {
		t.Fatalf("kickoff = %v, want %v", saved.StartAt, want)
	}

	if len(matchRepo.bundles) != 1 {
		t.Fatalf("expected one bundle, got %d", len(matchRepo.bundles))
	}
	bundle := matchRepo.bundles[0]
	if len(bundle.TeamStats) != 2 {
		t.Fatalf("expected team stats for both sides, got %d", len(bundle.TeamStats))
	}
	if !bundle.TeamStats[0].IsHome || bundle.TeamStats[1].IsHome {
		t.Fatalf("home/away order wrong: %+v", bundle.TeamStats)
	}
	if len(bundle.Roster) != 2 {
		t.Fatalf("expected one roster entry per side, got %d", len(bundle.Roster))
	}
	if len(bundle.Formations) != 2 {
		t.Fatalf("expected one formation per side, got %d", len(bundle.Formations))
	}
}

func TestMatchLoaderService_LoadMatch_CollectsAllMissingFields(t *testing.T) {
	t.Parallel()

	competitionRepo := &stubCompetitionRepository{}
	teamRepo := &stubTeamRepository{}
	matchRepo := &stubMatchRepository{}
	service := NewMatchLoaderService(competitionRepo, teamRepo, matchRepo, nil)

	payload := validReportPayload()
	delete(payload, "venueName")
	delete(payload["home"].(map[string]any), "managerName")
	delete(payload["away"].(map[string]any), "players")

	_, err := service.LoadMatch(context.Background(), decodeReport(t, payload))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	assertContains(t, vErr.Fields, "venueName")
	assertContains(t, vErr.Fields, "home.managerName")
	assertContains(t, vErr.Fields, "away.players")

	if competitionRepo.upsertCalls != 0 || teamRepo.upsertCalls != 0 || matchRepo.saveCalls != 0 {
		t.Fatalf("rejected report must not write: competitions=%d teams=%d matches=%d",
			competitionRepo.upsertCalls, teamRepo.upsertCalls, matchRepo.saveCalls)
	}
}

func TestMatchLoaderService_LoadMatch_RejectsMalformedScore(t *testing.T) {
	t.Parallel()

	competitionRepo := &stubCompetitionRepository{}
	teamRepo := &stubTeamRepository{}
	matchRepo := &stubMatchRepository{}
	service := NewMatchLoaderService(competitionRepo, teamRepo, matchRepo, nil)

	payload := validReportPayload()
	payload["htScore"] = "abc"

	_, err := service.LoadMatch(context.Background(), decodeReport(t, payload))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if competitionRepo.upsertCalls != 0 || matchRepo.saveCalls != 0 {
		t.Fatalf("malformed score must abort before any write")
	}
}

func TestMatchLoaderService_LoadMatch_ParsesSplitKickoff(t *testing.T) {
	t.Parallel()

	service := NewMatchLoaderService(&stubCompetitionRepository{}, &stubTeamRepository{}, &stubMatchRepository{}, nil)

	payload := validReportPayload()
	payload["startDate"] = "2024-08-10T00:00:00"
	payload["startTime"] = "0001-01-01T17:45:00"

	saved, err := service.LoadMatch(context.Background(), decodeReport(t, payload))
	if err != nil {
		t.Fatalf("LoadMatch error: %v", err)
	}

	want := time.Date(2024, 8, 10, 17, 45, 0, 0, time.UTC)
	if !saved.StartAt.Equal(want) {
		t.Fatalf("kickoff = %v, want %v", saved.StartAt, want)
	}
}

func TestMatchLoaderService_LoadMatch_ReloadIsIdempotent(t *testing.T) {
	t.Parallel()

	competitionRepo := &stubCompetitionRepository{}
	teamRepo := &stubTeamRepository{}
	matchRepo := &stubMatchRepository{}
	service := NewMatchLoaderService(competitionRepo, teamRepo, matchRepo, nil)

	first, err := service.LoadMatch(context.Background(), decodeReport(t, validReportPayload()))
	if err != nil {
		t.Fatalf("first LoadMatch error: %v", err)
	}
	second, err := service.LoadMatch(context.Background(), decodeReport(t, validReportPayload()))
	if err != nil {
		t.Fatalf("second LoadMatch error: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("reload produced a new match: first=%d second=%d", first.ID, second.ID)
	}
	if len(matchRepo.matches) != 1 {
		t.Fatalf("expected one match row, got %d", len(matchRepo.matches))
	}
	if len(competitionRepo.competitions) != 1 || len(competitionRepo.seasons) != 1 {
		t.Fatalf("reload must reuse competition and season: competitions=%d seasons=%d",
			len(competitionRepo.competitions), len(competitionRepo.seasons))
	}
	if len(teamRepo.teams) != 2 {
		t.Fatalf("reload must reuse teams, got %d rows", len(teamRepo.teams))
	}
}

func decodeReport(t *testing.T, payload map[string]any) report.Match {
	t.Helper()

	data, err := sonic.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	var rep report.Match
	if err := sonic.Unmarshal(data, &rep); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	return rep
}

func validReportPayload() map[string]any {
	return map[string]any{
		"matchId":   1821372,
		"league":    "Premier League",
		"region":    "England",
		"season":    "2024/2025",
		"startDate": "2024-08-10",
		"startTime": "15:30:00",
		"venueName": "Anfield",
		"referee":   map[string]any{"officialId": 77, "name": "M. Oliver"},
		"score":     "2 : 1",
		"htScore":   "1 : 0",
		"ftScore":   "2 : 1",
		"home":      teamSheetPayload(26, "Liverpool", 101),
		"away":      teamSheetPayload(167, "Manchester City", 201),
	}
}

func teamSheetPayload(teamID int64, name string, playerID int64) map[string]any {
	return map[string]any{
		"teamId":      teamID,
		"name":        name,
		"averageAge":  26.4,
		"managerName": "Somebody",
		"countryName": "England",
		"scores":      map[string]any{"running": map[string]any{"0": 0}},
		"stats":       map[string]any{"ratings": map[string]any{}},
		"formations": []any{
			map[string]any{
				"formationId":         4,
				"formationName":       "4-3-3",
				"period":              16,
				"captainPlayerId":     playerID,
				"startMinuteExpanded": 0,
				"endMinuteExpanded":   98,
				"playerIds":           []any{playerID},
			},
		},
		"players": []any{
			map[string]any{
				"playerId":      playerID,
				"name":          "Player " + name,
				"shirtNo":       9,
				"position":      "FW",
				"field":         "home",
				"isFirstEleven": true,
				"age":           27,
				"height":        182.0,
				"weight":        76.0,
			},
		},
	}
}

func assertContains(t *testing.T, items []string, want string) {
	t.Helper()
	for _, item := range items {
		if item == want {
			return
		}
	}
	t.Fatalf("expected %q in %v", want, items)
}
