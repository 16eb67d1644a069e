package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/dmarchuk/matchfeed/internal/domain/competition"
	"github.com/dmarchuk/matchfeed/internal/domain/event"
	"github.com/dmarchuk/matchfeed/internal/domain/match"
	"github.com/dmarchuk/matchfeed/internal/domain/player"
	"github.com/dmarchuk/matchfeed/internal/domain/team"
	"github.com/dmarchuk/matchfeed/internal/platform/logging"
	"github.com/dmarchuk/matchfeed/internal/usecase"
)

type memCompetitionRepo struct{}

func (r *memCompetitionRepo) UpsertCompetition(_ context.Context, c competition.Competition) (competition.Competition, error) {
	c.ID = 1
	return c, nil
}

func (r *memCompetitionRepo) UpsertSeason(_ context.Context, s competition.Season) (competition.Season, error) {
	s.ID = 5
	return s, nil
}

func (r *memCompetitionRepo) GetSeasonByID(_ context.Context, _ int64) (competition.Season, bool, error) {
	return competition.Season{}, false, nil
}

type memTeamRepo struct {
	teams []team.Team
}

func (r *memTeamRepo) Upsert(_ context.Context, t team.Team) (team.Team, error) {
	t.ID = t.ExternalID
	return t, nil
}

func (r *memTeamRepo) GetByID(_ context.Context, teamID int64) (team.Team, bool, error) {
	for _, t := range r.teams {
		if t.ID == teamID {
			return t, true, nil
		}
	}
	return team.Team{}, false, nil
}

type memPlayerRepo struct{}

func (r *memPlayerRepo) Upsert(_ context.Context, p player.Player) (player.Player, error) {
	p.ID = p.ExternalID
	return p, nil
}

func (r *memPlayerRepo) GetByID(_ context.Context, _ int64) (player.Player, bool, error) {
	return player.Player{}, false, nil
}

func (r *memPlayerRepo) MapExternalIDs(_ context.Context, _ []int64) (map[int64]int64, error) {
	return map[int64]int64{}, nil
}

type memMatchRepo struct {
	matches []match.Match
}

func (r *memMatchRepo) SaveBundle(_ context.Context, b match.Bundle) (match.Match, error) {
	m := b.Match
	m.ID = int64(len(r.matches) + 1)
	r.matches = append(r.matches, m)
	return m, nil
}

func (r *memMatchRepo) GetByID(_ context.Context, matchID int64) (match.Match, bool, error) {
	for _, m := range r.matches {
		if m.ID == matchID {
			return m, true, nil
		}
	}
	return match.Match{}, false, nil
}

func (r *memMatchRepo) GetByExternalID(_ context.Context, externalID int64) (match.Match, bool, error) {
	for _, m := range r.matches {
		if m.ExternalID == externalID {
			return m, true, nil
		}
	}
	return match.Match{}, false, nil
}

func (r *memMatchRepo) GetMatchPlayer(_ context.Context, _, _ int64) (match.MatchPlayer, bool, error) {
	return match.MatchPlayer{}, false, nil
}

func (r *memMatchRepo) ListBySeasonTeam(_ context.Context, seasonID, teamID int64) ([]match.Match, error) {
	var out []match.Match
	for _, m := range r.matches {
		if m.SeasonID == seasonID && (m.HomeTeamID == teamID || m.AwayTeamID == teamID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMatchRepo) ListAppearancesBySeasonPlayer(_ context.Context, _, _ int64) ([]match.Appearance, error) {
	return nil, nil
}

func (r *memMatchRepo) GetTeamSeasonContext(_ context.Context, _, _ int64) (match.TeamSeasonContext, bool, error) {
	return match.TeamSeasonContext{}, false, nil
}

type memEventRepo struct {
	stored []event.Classified
}

func (r *memEventRepo) UpsertBatch(_ context.Context, events []event.Classified) ([]event.UpsertFailure, error) {
	r.stored = append(r.stored, events...)
	return nil, nil
}

func (r *memEventRepo) ListByMatch(_ context.Context, matchID int64, category *event.Category) ([]event.Classified, error) {
	var out []event.Classified
	for _, e := range r.stored {
		if e.Base.MatchID != matchID {
			continue
		}
		if category != nil && e.Category != *category {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *memEventRepo) ListByMatchTeam(_ context.Context, matchID, teamID int64) ([]event.Classified, error) {
	var out []event.Classified
	for _, e := range r.stored {
		if e.Base.MatchID == matchID && e.Base.TeamID == teamID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memEventRepo) ListByMatchPlayer(_ context.Context, matchID, playerID int64) ([]event.Classified, error) {
	var out []event.Classified
	for _, e := range r.stored {
		if e.Base.MatchID == matchID && e.Base.PlayerID != nil && *e.Base.PlayerID == playerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memEventRepo) CountsByMatch(_ context.Context, matchID int64) (map[event.Category]int, error) {
	counts := make(map[event.Category]int, len(event.Categories()))
	for _, c := range event.Categories() {
		counts[c] = 0
	}
	for _, e := range r.stored {
		if e.Base.MatchID == matchID {
			counts[e.Category]++
		}
	}
	return counts, nil
}

func newTestRouter(t *testing.T, matchRepo *memMatchRepo, eventRepo *memEventRepo) http.Handler {
	t.Helper()

	teamRepo := &memTeamRepo{
		teams: []team.Team{
			{ID: 1, ExternalID: 26, Name: "Liverpool", Country: "England"},
			{ID: 2, ExternalID: 167, Name: "Manchester City", Country: "England"},
		},
	}
	playerRepo := &memPlayerRepo{}

	matchLoader := usecase.NewMatchLoaderService(&memCompetitionRepo{}, teamRepo, matchRepo, logging.NewNop())
	eventLoader := usecase.NewEventLoaderService(matchRepo, playerRepo, eventRepo, logging.NewNop())
	eventQuery := usecase.NewEventQueryService(matchRepo, eventRepo)
	teamStats := usecase.NewTeamStatsService(matchRepo, teamRepo, eventRepo)
	playerStats := usecase.NewPlayerStatsService(matchRepo, playerRepo, eventRepo)
	backfillService := usecase.NewBackfillService(nil, matchLoader, eventLoader, 2, logging.NewNop())

	handler := NewHandler(matchLoader, eventLoader, eventQuery, teamStats, playerStats, backfillService, logging.NewNop())
	return NewRouter(handler, logging.NewNop(), nil, "secret")
}

func seededRepos() (*memMatchRepo, *memEventRepo) {
	matchRepo := &memMatchRepo{
		matches: []match.Match{
			{ID: 10, ExternalID: 1821372, SeasonID: 5, HomeTeamID: 1, AwayTeamID: 2, FTScore: match.Score{Home: 2, Away: 1}},
		},
	}
	eventRepo := &memEventRepo{
		stored: []event.Classified{
			{
				Category: event.CategoryPassing,
				Base:     event.Base{ID: 1, MatchID: 10, SourceID: 100, TeamID: 1, Type: "Pass"},
				Passing:  &event.PassingAttrs{PassAccurate: true},
			},
			{
				Category:  event.CategoryDefending,
				Base:      event.Base{ID: 2, MatchID: 10, SourceID: 101, TeamID: 2, Type: "Tackle"},
				Defending: &event.DefendingAttrs{IsTackle: true, TackleWon: true},
			},
		},
	}
	return matchRepo, eventRepo
}

func TestRouter_Healthz(t *testing.T) {
	matchRepo, eventRepo := seededRepos()
	router := newTestRouter(t, matchRepo, eventRepo)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRouter_ListMatchEvents(t *testing.T) {
	matchRepo, eventRepo := seededRepos()
	router := newTestRouter(t, matchRepo, eventRepo)

	req := httptest.NewRequest(http.MethodGet, "/v1/matches/10/events", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data struct {
			MatchID int64          `json:"matchId"`
			Counts  map[string]int `json:"counts"`
			Events  []struct {
				Category string `json:"category"`
				SourceID int64  `json:"sourceId"`
			} `json:"events"`
		} `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if body.Data.MatchID != 10 {
		t.Fatalf("unexpected match id %d", body.Data.MatchID)
	}
	if len(body.Data.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(body.Data.Events))
	}
	if body.Data.Counts["passing"] != 1 || body.Data.Counts["defending"] != 1 {
		t.Fatalf("unexpected counts %v", body.Data.Counts)
	}
}

func TestRouter_ListMatchEvents_FiltersCategory(t *testing.T) {
	matchRepo, eventRepo := seededRepos()
	router := newTestRouter(t, matchRepo, eventRepo)

	req := httptest.NewRequest(http.MethodGet, "/v1/matches/10/events?category=passing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Data struct {
			Category *string        `json:"category"`
			Counts   map[string]int `json:"counts"`
			Events   []struct {
				Category string `json:"category"`
			} `json:"events"`
		} `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if body.Data.Category == nil || *body.Data.Category != "passing" {
		t.Fatalf("expected category passing, got %v", body.Data.Category)
	}
	if len(body.Data.Events) != 1 || body.Data.Events[0].Category != "passing" {
		t.Fatalf("unexpected events %+v", body.Data.Events)
	}
	if body.Data.Counts != nil {
		t.Fatalf("counts must be omitted when filtering by category")
	}
}

func TestRouter_ListMatchEvents_UnknownCategory(t *testing.T) {
	matchRepo, eventRepo := seededRepos()
	router := newTestRouter(t, matchRepo, eventRepo)

	req := httptest.NewRequest(http.MethodGet, "/v1/matches/10/events?category=dancing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestRouter_ListMatchEvents_UnknownMatch(t *testing.T) {
	matchRepo, eventRepo := seededRepos()
	router := newTestRouter(t, matchRepo, eventRepo)

	req := httptest.NewRequest(http.MethodGet, "/v1/matches/99/events", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestRouter_GetTeamMatchStats(t *testing.T) {
	matchRepo, eventRepo := seededRepos()
	router := newTestRouter(t, matchRepo, eventRepo)

	req := httptest.NewRequest(http.MethodGet, "/v1/matches/10/teams/1/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data struct {
			TeamID  int64 `json:"team_id"`
			Passing struct {
				TotalPasses    int `json:"total_passes"`
				AccuratePasses int `json:"accurate_passes"`
			} `json:"passing"`
		} `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if body.Data.TeamID != 1 {
		t.Fatalf("unexpected team id %d", body.Data.TeamID)
	}
	if body.Data.Passing.TotalPasses != 1 || body.Data.Passing.AccuratePasses != 1 {
		t.Fatalf("unexpected passing stats %+v", body.Data.Passing)
	}
}

func TestRouter_IngestMatch_MalformedJSON(t *testing.T) {
	matchRepo, eventRepo := seededRepos()
	router := newTestRouter(t, matchRepo, eventRepo)

	req := httptest.NewRequest(http.MethodPost, "/v1/matches", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestRouter_Backfill_RequiresToken(t *testing.T) {
	matchRepo, eventRepo := seededRepos()
	router := newTestRouter(t, matchRepo, eventRepo)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/backfill", strings.NewReader(`{"matchIds":[1821372]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRouter_Backfill_NoFetcherIsUnavailable(t *testing.T) {
	matchRepo, eventRepo := seededRepos()
	router := newTestRouter(t, matchRepo, eventRepo)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/backfill", strings.NewReader(`{"matchIds":[1821372]}`))
	req.Header.Set("X-Internal-Job-Token", "secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}
