package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/dmarchuk/matchfeed/internal/domain/competition"
	"github.com/dmarchuk/matchfeed/internal/domain/match"
	"github.com/dmarchuk/matchfeed/internal/domain/report"
	"github.com/dmarchuk/matchfeed/internal/domain/team"
	"github.com/dmarchuk/matchfeed/internal/platform/logging"
)

// Feed payloads carry the kickoff either as a combined timestamp or split
// into an ISO date and an ISO time.
const (
	kickoffCombinedLayout = "2006-01-02 15:04:05"
	kickoffDateLayout     = "2006-01-02"
	kickoffTimeLayout     = "15:04:05"
)

var requiredMatchFields = []string{
	"matchId", "league", "region", "season",
	"home", "away", "startDate", "startTime",
	"venueName", "score", "htScore", "ftScore",
}

var requiredTeamFields = []string{
	"teamId", "name", "averageAge", "managerName", "countryName",
	"scores", "stats", "formations", "players",
}

// MatchLoaderService turns one scraped match report into the relational
// match bundle and persists it atomically.
type MatchLoaderService struct {
	competitionRepo competition.Repository
	teamRepo        team.Repository
	matchRepo       match.Repository
	logger          *logging.Logger
}

func NewMatchLoaderService(
	competitionRepo competition.Repository,
	teamRepo team.Repository,
	matchRepo match.Repository,
	logger *logging.Logger,
) *MatchLoaderService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchLoaderService{
		competitionRepo: competitionRepo,
		teamRepo:        teamRepo,
		matchRepo:       matchRepo,
		logger:          logger,
	}
}

// LoadMatch validates and persists one report. All required-field violations
// are collected before anything is written, so a rejected report leaves the
// database untouched.
func (s *MatchLoaderService) LoadMatch(ctx context.Context, rep report.Match) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchLoaderService.LoadMatch")
	defer span.End()

	if err := validateReport(&rep); err != nil {
		return match.Match{}, err
	}

	scores, err := parseReportScores(rep)
	if err != nil {
		return match.Match{}, err
	}

	startAt, err := parseKickoff(rep.StartDate, rep.StartTime)
	if err != nil {
		return match.Match{}, err
	}

	comp, err := s.competitionRepo.UpsertCompetition(ctx, competition.Competition{
		Name:    rep.League,
		Country: rep.Region,
	})
	if err != nil {
		return match.Match{}, fmt.Errorf("upsert competition: %w", err)
	}

	season, err := s.competitionRepo.UpsertSeason(ctx, competition.Season{
		CompetitionID: comp.ID,
		Name:          rep.Season,
	})
	if err != nil {
		return match.Match{}, fmt.Errorf("upsert season: %w", err)
	}

	homeTeam, err := s.upsertTeam(ctx, rep.Home, rep.Region)
	if err != nil {
		return match.Match{}, err
	}
	awayTeam, err := s.upsertTeam(ctx, rep.Away, rep.Region)
	if err != nil {
		return match.Match{}, err
	}

	bundle := buildBundle(rep, season.ID, homeTeam, awayTeam, startAt, scores)

	saved, err := s.matchRepo.SaveBundle(ctx, bundle)
	if err != nil {
		return match.Match{}, fmt.Errorf("save match bundle: %w", err)
	}

	s.logger.InfoContext(ctx, "match loaded",
		"match_id", saved.ID,
		"external_id", saved.ExternalID,
		"season_id", saved.SeasonID,
		"roster_size", len(bundle.Roster),
	)

	return saved, nil
}

func (s *MatchLoaderService) upsertTeam(ctx context.Context, sheet *report.TeamSheet, region string) (team.Team, error) {
	t, err := s.teamRepo.Upsert(ctx, team.Team{
		ExternalID: sheet.TeamID,
		Name:       sheet.Name,
		Country:    region,
	})
	if err != nil {
		return team.Team{}, fmt.Errorf("upsert team %d: %w", sheet.TeamID, err)
	}
	return t, nil
}

func validateReport(rep *report.Match) error {
	var missing []string
	for _, field := range requiredMatchFields {
		if !rep.Has(field) {
			missing = append(missing, field)
		}
	}

	missing = append(missing, missingTeamFields("home", rep.Home, rep.Has("home"))...)
	missing = append(missing, missingTeamFields("away", rep.Away, rep.Has("away"))...)

	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

func missingTeamFields(side string, sheet *report.TeamSheet, present bool) []string {
	if !present {
		return nil
	}
	if sheet == nil {
		// The key was there but held null; every team field is missing.
		out := make([]string, 0, len(requiredTeamFields))
		for _, field := range requiredTeamFields {
			out = append(out, side+"."+field)
		}
		return out
	}

	var out []string
	for _, field := range requiredTeamFields {
		if !sheet.Has(field) {
			out = append(out, side+"."+field)
		}
	}
	return out
}

type reportScores struct {
	ht match.Score
	ft match.Score
	et *match.Score
}

func parseReportScores(rep report.Match) (reportScores, error) {
	var out reportScores
	var err error

	if _, err = match.ParseScore(rep.Score); err != nil {
		return out, fmt.Errorf("%w: score: %v", ErrInvalidInput, err)
	}
	if out.ht, err = match.ParseScore(rep.HTScore); err != nil {
		return out, fmt.Errorf("%w: htScore: %v", ErrInvalidInput, err)
	}
	if out.ft, err = match.ParseScore(rep.FTScore); err != nil {
		return out, fmt.Errorf("%w: ftScore: %v", ErrInvalidInput, err)
	}

	if rep.ETScore != "" {
		et, err := match.ParseScore(rep.ETScore)
		if err != nil {
			return out, fmt.Errorf("%w: etScore: %v", ErrInvalidInput, err)
		}
		out.et = &et
	}

	return out, nil
}

func parseKickoff(startDate, startTime string) (time.Time, error) {
	if strings.Contains(startDate, "T") {
		datePart, _, _ := strings.Cut(startDate, "T")
		_, timePart, ok := strings.Cut(startTime, "T")
		if !ok {
			return time.Time{}, fmt.Errorf("%w: startTime %q has no time component", ErrInvalidInput, startTime)
		}
		at, err := time.Parse(kickoffDateLayout+" "+kickoffTimeLayout, datePart+" "+timePart)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: kickoff: %v", ErrInvalidInput, err)
		}
		return at, nil
	}

	at, err := time.Parse(kickoffCombinedLayout, startDate+" "+startTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: kickoff: %v", ErrInvalidInput, err)
	}
	return at, nil
}

func buildBundle(
	rep report.Match,
	seasonID int64,
	homeTeam, awayTeam team.Team,
	startAt time.Time,
	scores reportScores,
) match.Bundle {
	m := match.Match{
		ExternalID: rep.MatchID,
		SeasonID:   seasonID,
		HomeTeamID: homeTeam.ID,
		AwayTeamID: awayTeam.ID,
		StartAt:    startAt,
		Venue:      rep.VenueName,
		Attendance: rep.Attendance,
		ScoreRaw:   rep.Score,
		HTScore:    scores.ht,
		FTScore:    scores.ft,
		ETScore:    scores.et,
	}
	if rep.Referee != nil {
		refID := rep.Referee.OfficialID
		m.RefereeID = &refID
		m.RefereeName = rep.Referee.Name
	}

	bundle := match.Bundle{Match: m}
	bundle = appendSide(bundle, rep.Home, homeTeam.ID, true)
	bundle = appendSide(bundle, rep.Away, awayTeam.ID, false)
	return bundle
}

func appendSide(bundle match.Bundle, sheet *report.TeamSheet, teamID int64, isHome bool) match.Bundle {
	field := "away"
	if isHome {
		field = "home"
	}

	bundle.TeamStats = append(bundle.TeamStats, match.TeamStats{
		TeamID:       teamID,
		IsHome:       isHome,
		Field:        field,
		AverageAge:   sheet.AverageAge,
		ManagerName:  sheet.ManagerName,
		CountryName:  sheet.CountryName,
		RunningScore: rawValue(sheet.Scores.Running),
		Stats:        sheet.Stats,
	})

	for _, f := range sheet.Formations {
		playerIDs, _ := sonic.Marshal(f.PlayerIDs)
		bundle.Formations = append(bundle.Formations, match.Formation{
			TeamID:              teamID,
			FormationID:         f.FormationID,
			Period:              f.Period,
			FormationName:       f.FormationName,
			CaptainPlayerID:     f.CaptainPlayerID,
			StartMinuteExpanded: f.StartMinuteExpanded,
			EndMinuteExpanded:   f.EndMinuteExpanded,
			JerseyNumbers:       f.JerseyNumbers,
			PlayerIDs:           playerIDs,
			FormationSlots:      f.FormationSlots,
			FormationPositions:  f.FormationPositions,
		})
	}

	for _, p := range sheet.Players {
		entry := match.RosterEntry{
			PlayerExternalID: p.PlayerID,
			PlayerName:       p.Name,
			TeamID:           teamID,
			ShirtNo:          p.ShirtNo,
			Position:         p.Position,
			Field:            p.Field,
			IsFirstEleven:    p.IsFirstEleven,
			IsManOfMatch:     p.IsManOfTheMatch,
			Age:              p.Age,
			Stats:            p.Stats,
		}
		if p.Height > 0 {
			h := p.Height
			entry.Height = &h
		}
		if p.Weight > 0 {
			w := p.Weight
			entry.Weight = &w
		}
		bundle.Roster = append(bundle.Roster, entry)
	}

	return bundle
}

func rawValue(v report.Value) json.RawMessage {
	if !v.Present() {
		return nil
	}
	return json.RawMessage(v.Raw())
}
