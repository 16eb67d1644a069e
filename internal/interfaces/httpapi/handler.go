package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/dmarchuk/matchfeed/internal/domain/event"
	"github.com/dmarchuk/matchfeed/internal/domain/match"
	"github.com/dmarchuk/matchfeed/internal/domain/player"
	"github.com/dmarchuk/matchfeed/internal/domain/report"
	"github.com/dmarchuk/matchfeed/internal/domain/team"
	"github.com/dmarchuk/matchfeed/internal/platform/logging"
	"github.com/dmarchuk/matchfeed/internal/usecase"
)

type Handler struct {
	matchLoader     *usecase.MatchLoaderService
	eventLoader     *usecase.EventLoaderService
	eventQuery      *usecase.EventQueryService
	teamStats       *usecase.TeamStatsService
	playerStats     *usecase.PlayerStatsService
	backfillService *usecase.BackfillService
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	matchLoader *usecase.MatchLoaderService,
	eventLoader *usecase.EventLoaderService,
	eventQuery *usecase.EventQueryService,
	teamStats *usecase.TeamStatsService,
	playerStats *usecase.PlayerStatsService,
	backfillService *usecase.BackfillService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchLoader:     matchLoader,
		eventLoader:     eventLoader,
		eventQuery:      eventQuery,
		teamStats:       teamStats,
		playerStats:     playerStats,
		backfillService: backfillService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) IngestMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestMatch")
	defer span.End()

	var req ingestMatchRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	m, err := h.matchLoader.LoadMatch(ctx, req.Report)
	if err != nil {
		h.logger.WarnContext(ctx, "ingest match failed", "external_match_id", req.Report.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	var outcome event.LoadOutcome
	if len(req.Events) > 0 {
		outcome, err = h.eventLoader.LoadMatchEvents(ctx, m.ID, req.Events)
		if err != nil {
			h.logger.WarnContext(ctx, "ingest match events failed", "match_id", m.ID, "error", err)
			writeError(ctx, w, err)
			return
		}
	}

	writeSuccess(ctx, w, http.StatusCreated, ingestMatchResponse{
		Match:  matchToDTO(ctx, m),
		Events: loadOutcomeToDTO(ctx, outcome),
	})
}

func (h *Handler) IngestMatchEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestMatchEvents")
	defer span.End()

	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req ingestEventsRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	outcome, err := h.eventLoader.LoadMatchEvents(ctx, matchID, req.Events)
	if err != nil {
		h.logger.WarnContext(ctx, "ingest events failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, loadOutcomeToDTO(ctx, outcome))
}

func (h *Handler) ListMatchEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchEvents")
	defer span.End()

	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var category *event.Category
	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		c := event.Category(strings.ToLower(raw))
		category = &c
	}

	listing, err := h.eventQuery.ListMatchEvents(ctx, matchID, category)
	if err != nil {
		h.logger.WarnContext(ctx, "list match events failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchEventsToDTO(ctx, listing))
}

func (h *Handler) GetTeamMatchStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamMatchStats")
	defer span.End()

	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	teamID, err := pathID(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	stats, err := h.teamStats.MatchStats(ctx, matchID, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "team match stats failed", "match_id", matchID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, stats)
}

func (h *Handler) GetPlayerMatchStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerMatchStats")
	defer span.End()

	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	playerID, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	stats, err := h.playerStats.MatchStats(ctx, matchID, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "player match stats failed", "match_id", matchID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, stats)
}

func (h *Handler) GetTeamSeasonStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamSeasonStats")
	defer span.End()

	seasonID, err := pathID(r, "seasonID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	teamID, err := pathID(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	stats, err := h.teamStats.SeasonStats(ctx, seasonID, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "team season stats failed", "season_id", seasonID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamSeasonStatsToDTO(ctx, stats))
}

func (h *Handler) GetPlayerSeasonStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerSeasonStats")
	defer span.End()

	seasonID, err := pathID(r, "seasonID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	playerID, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	stats, err := h.playerStats.SeasonStats(ctx, seasonID, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "player season stats failed", "season_id", seasonID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerSeasonStatsToDTO(ctx, stats))
}

func (h *Handler) RunBackfillJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunBackfillJob")
	defer span.End()

	var req backfillRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.backfillService.Backfill(ctx, usecase.BackfillInput{
		MatchIDs:   req.MatchIDs,
		MaxWorkers: req.MaxWorkers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "backfill failed", "match_count", len(req.MatchIDs), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return id, nil
}

type ingestMatchRequest struct {
	Report report.Match   `json:"report"`
	Events []report.Event `json:"events"`
}

type ingestEventsRequest struct {
	Events []report.Event `json:"events"`
}

type backfillRequest struct {
	MatchIDs   []int64 `json:"matchIds" validate:"required,min=1,dive,gt=0"`
	MaxWorkers int     `json:"maxWorkers" validate:"gte=0,lte=32"`
}

type ingestMatchResponse struct {
	Match  matchDTO       `json:"match"`
	Events loadOutcomeDTO `json:"events"`
}

type matchDTO struct {
	ID          int64     `json:"id"`
	ExternalID  int64     `json:"externalId"`
	SeasonID    int64     `json:"seasonId"`
	HomeTeamID  int64     `json:"homeTeamId"`
	AwayTeamID  int64     `json:"awayTeamId"`
	StartAt     string    `json:"startAt"`
	Venue       string    `json:"venue"`
	Attendance  *int      `json:"attendance,omitempty"`
	RefereeName string    `json:"refereeName,omitempty"`
	HTScore     scoreDTO  `json:"htScore"`
	FTScore     scoreDTO  `json:"ftScore"`
	ETScore     *scoreDTO `json:"etScore,omitempty"`
}

type scoreDTO struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

type loadOutcomeDTO struct {
	Loaded      map[string]int    `json:"loaded"`
	TotalLoaded int               `json:"totalLoaded"`
	Skipped     []skippedEventDTO `json:"skipped"`
}

type skippedEventDTO struct {
	SourceID int64  `json:"sourceId"`
	EventID  int64  `json:"eventId"`
	Type     string `json:"type"`
	Reason   string `json:"reason"`
}

type matchEventsDTO struct {
	MatchID  int64          `json:"matchId"`
	Category *string        `json:"category,omitempty"`
	Counts   map[string]int `json:"counts,omitempty"`
	Events   []eventDTO     `json:"events"`
}

type eventDTO struct {
	ID             int64    `json:"id"`
	Category       string   `json:"category"`
	SourceID       int64    `json:"sourceId"`
	EventID        int64    `json:"eventId"`
	TeamID         int64    `json:"teamId"`
	PlayerID       *int64   `json:"playerId,omitempty"`
	PlayerName     string   `json:"playerName,omitempty"`
	Minute         int      `json:"minute"`
	Second         *float64 `json:"second,omitempty"`
	ExpandedMinute int      `json:"expandedMinute"`
	Period         string   `json:"period"`
	X              float64  `json:"x"`
	Y              float64  `json:"y"`
	EndX           *float64 `json:"endX,omitempty"`
	EndY           *float64 `json:"endY,omitempty"`
	Type           string   `json:"type"`
	OutcomeType    string   `json:"outcomeType,omitempty"`
	Situation      string   `json:"situation,omitempty"`
	Attributes     any      `json:"attributes,omitempty"`
}

type teamDTO struct {
	ID         int64  `json:"id"`
	ExternalID int64  `json:"externalId"`
	Name       string `json:"name"`
	Country    string `json:"country,omitempty"`
}

type playerDTO struct {
	ID         int64    `json:"id"`
	ExternalID int64    `json:"externalId"`
	Name       string   `json:"name"`
	Height     *float64 `json:"height,omitempty"`
	Weight     *float64 `json:"weight,omitempty"`
}

type teamSeasonStatsDTO struct {
	SeasonID         int64                   `json:"season_id"`
	Team             teamDTO                 `json:"team"`
	MatchesPlayed    int                     `json:"matches_played"`
	HomeMatches      int                     `json:"home_matches"`
	AwayMatches      int                     `json:"away_matches"`
	GoalsFor         int                     `json:"goals_for"`
	ManagerName      string                  `json:"manager_name,omitempty"`
	FormationName    string                  `json:"formation_name,omitempty"`
	AvgPossessionPct float64                 `json:"avg_possession_pct"`
	Shooting         usecase.TeamShooting    `json:"shooting"`
	Passing          usecase.TeamPassing     `json:"passing"`
	Defending        usecase.TeamDefending   `json:"defending"`
	Goalkeeping      usecase.TeamGoalkeeping `json:"goalkeeping"`
	Discipline       usecase.TeamDiscipline  `json:"discipline"`
	ShotsPer90       float64                 `json:"shots_per_90"`
	PassesPer90      float64                 `json:"passes_per_90"`
	TacklesPer90     float64                 `json:"tackles_per_90"`
}

type playerSeasonStatsDTO struct {
	SeasonID     int64                   `json:"season_id"`
	Player       playerDTO               `json:"player"`
	TeamID       int64                   `json:"team_id"`
	Position     string                  `json:"position,omitempty"`
	GamesPlayed  int                     `json:"games_played"`
	GamesStarted int                     `json:"games_started"`
	Shooting     usecase.PlayerShooting  `json:"shooting"`
	Passing      usecase.PlayerPassing   `json:"passing"`
	Defending    usecase.PlayerDefending `json:"defending"`
	ShotsPer90   float64                 `json:"shots_per_90"`
	PassesPer90  float64                 `json:"passes_per_90"`
	TacklesPer90 float64                 `json:"tackles_per_90"`
}

func matchToDTO(ctx context.Context, m match.Match) matchDTO {
	ctx, span := startSpan(ctx, "httpapi.matchToDTO")
	defer span.End()

	out := matchDTO{
		ID:          m.ID,
		ExternalID:  m.ExternalID,
		SeasonID:    m.SeasonID,
		HomeTeamID:  m.HomeTeamID,
		AwayTeamID:  m.AwayTeamID,
		StartAt:     m.StartAt.UTC().Format(time.RFC3339),
		Venue:       m.Venue,
		Attendance:  m.Attendance,
		RefereeName: m.RefereeName,
		HTScore:     scoreDTO{Home: m.HTScore.Home, Away: m.HTScore.Away},
		FTScore:     scoreDTO{Home: m.FTScore.Home, Away: m.FTScore.Away},
	}
	if m.ETScore != nil {
		out.ETScore = &scoreDTO{Home: m.ETScore.Home, Away: m.ETScore.Away}
	}
	return out
}

func loadOutcomeToDTO(ctx context.Context, outcome event.LoadOutcome) loadOutcomeDTO {
	ctx, span := startSpan(ctx, "httpapi.loadOutcomeToDTO")
	defer span.End()

	loaded := make(map[string]int, len(outcome.Loaded))
	for category, n := range outcome.Loaded {
		loaded[string(category)] = n
	}

	skipped := make([]skippedEventDTO, 0, len(outcome.Skipped))
	for _, s := range outcome.Skipped {
		skipped = append(skipped, skippedEventDTO{
			SourceID: s.SourceID,
			EventID:  s.EventID,
			Type:     s.Type,
			Reason:   s.Reason,
		})
	}

	return loadOutcomeDTO{
		Loaded:      loaded,
		TotalLoaded: outcome.TotalLoaded(),
		Skipped:     skipped,
	}
}

func matchEventsToDTO(ctx context.Context, listing usecase.MatchEvents) matchEventsDTO {
	ctx, span := startSpan(ctx, "httpapi.matchEventsToDTO")
	defer span.End()

	out := matchEventsDTO{
		MatchID: listing.MatchID,
		Events:  make([]eventDTO, 0, len(listing.Events)),
	}
	if listing.Category != nil {
		category := string(*listing.Category)
		out.Category = &category
	}
	if listing.Counts != nil {
		out.Counts = make(map[string]int, len(listing.Counts))
		for category, n := range listing.Counts {
			out.Counts[string(category)] = n
		}
	}
	for _, e := range listing.Events {
		out.Events = append(out.Events, eventToDTO(ctx, e))
	}
	return out
}

func eventToDTO(ctx context.Context, e event.Classified) eventDTO {
	ctx, span := startSpan(ctx, "httpapi.eventToDTO")
	defer span.End()

	out := eventDTO{
		ID:             e.Base.ID,
		Category:       string(e.Category),
		SourceID:       e.Base.SourceID,
		EventID:        e.Base.EventID,
		TeamID:         e.Base.TeamID,
		PlayerID:       e.Base.PlayerID,
		PlayerName:     e.Base.PlayerName,
		Minute:         e.Base.Minute,
		Second:         e.Base.Second,
		ExpandedMinute: e.Base.ExpandedMinute,
		Period:         e.Base.Period,
		X:              e.Base.X,
		Y:              e.Base.Y,
		EndX:           e.Base.EndX,
		EndY:           e.Base.EndY,
		Type:           e.Base.Type,
		OutcomeType:    e.Base.OutcomeType,
		Situation:      e.Base.Situation,
	}

	switch e.Category {
	case event.CategoryPassing:
		out.Attributes = e.Passing
	case event.CategoryShooting:
		out.Attributes = e.Shooting
	case event.CategoryDefending:
		out.Attributes = e.Defending
	case event.CategoryGoalkeeping:
		out.Attributes = e.Goalkeeping
	case event.CategoryPossession:
		out.Attributes = e.Possession
	case event.CategorySummary:
		out.Attributes = e.Summary
	}

	return out
}

func teamSeasonStatsToDTO(ctx context.Context, stats usecase.TeamSeasonStats) teamSeasonStatsDTO {
	ctx, span := startSpan(ctx, "httpapi.teamSeasonStatsToDTO")
	defer span.End()

	return teamSeasonStatsDTO{
		SeasonID:         stats.SeasonID,
		Team:             teamToDTO(ctx, stats.Team),
		MatchesPlayed:    stats.MatchesPlayed,
		HomeMatches:      stats.HomeMatches,
		AwayMatches:      stats.AwayMatches,
		GoalsFor:         stats.GoalsFor,
		ManagerName:      stats.ManagerName,
		FormationName:    stats.FormationName,
		AvgPossessionPct: stats.AvgPossessionPct,
		Shooting:         stats.Shooting,
		Passing:          stats.Passing,
		Defending:        stats.Defending,
		Goalkeeping:      stats.Goalkeeping,
		Discipline:       stats.Discipline,
		ShotsPer90:       stats.ShotsPer90,
		PassesPer90:      stats.PassesPer90,
		TacklesPer90:     stats.TacklesPer90,
	}
}

func playerSeasonStatsToDTO(ctx context.Context, stats usecase.PlayerSeasonStats) playerSeasonStatsDTO {
	ctx, span := startSpan(ctx, "httpapi.playerSeasonStatsToDTO")
	defer span.End()

	return playerSeasonStatsDTO{
		SeasonID:     stats.SeasonID,
		Player:       playerToDTO(ctx, stats.Player),
		TeamID:       stats.TeamID,
		Position:     stats.Position,
		GamesPlayed:  stats.GamesPlayed,
		GamesStarted: stats.GamesStarted,
		Shooting:     stats.Shooting,
		Passing:      stats.Passing,
		Defending:    stats.Defending,
		ShotsPer90:   stats.ShotsPer90,
		PassesPer90:  stats.PassesPer90,
		TacklesPer90: stats.TacklesPer90,
	}
}

func teamToDTO(ctx context.Context, t team.Team) teamDTO {
	ctx, span := startSpan(ctx, "httpapi.teamToDTO")
	defer span.End()

	return teamDTO{
		ID:         t.ID,
		ExternalID: t.ExternalID,
		Name:       t.Name,
		Country:    t.Country,
	}
}

func playerToDTO(ctx context.Context, p player.Player) playerDTO {
	ctx, span := startSpan(ctx, "httpapi.playerToDTO")
	defer span.End()

	return playerDTO{
		ID:         p.ID,
		ExternalID: p.ExternalID,
		Name:       p.Name,
		Height:     p.Height,
		Weight:     p.Weight,
	}
}
