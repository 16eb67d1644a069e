package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/sourcegraph/conc/pool"

	"github.com/dmarchuk/matchfeed/internal/domain/event"
	"github.com/dmarchuk/matchfeed/internal/domain/match"
	"github.com/dmarchuk/matchfeed/internal/domain/team"
)

const seasonFanOutWorkers = 4

// TeamPossession counts a side's on-ball involvement in a match. The
// possession share is approximated from touch counts of both sides.
type TeamPossession struct {
	Touches        int     `json:"touches"`
	PossessionLost int     `json:"possession_lost"`
	DribblesWon    int     `json:"dribbles_won"`
	DribblesLost   int     `json:"dribbles_lost"`
	PossessionPct  float64 `json:"possession_pct"`
}

type TeamShooting struct {
	TotalShots    int `json:"total_shots"`
	ShotsOnTarget int `json:"shots_on_target"`
	Goals         int `json:"goals"`
	BigChances    int `json:"big_chances"`
}

type TeamPassing struct {
	TotalPasses       int     `json:"total_passes"`
	AccuratePasses    int     `json:"accurate_passes"`
	KeyPasses         int     `json:"key_passes"`
	Assists           int     `json:"assists"`
	BigChancesCreated int     `json:"big_chances_created"`
	PassAccuracy      float64 `json:"pass_accuracy"`
}

type TeamDefending struct {
	TacklesWon    int `json:"tackles_won"`
	Interceptions int `json:"interceptions"`
	Clearances    int `json:"clearances"`
	Blocks        int `json:"blocks"`
}

type TeamGoalkeeping struct {
	Saves   int `json:"saves"`
	Claims  int `json:"claims"`
	Punches int `json:"punches"`
}

type TeamDiscipline struct {
	YellowCards    int `json:"yellow_cards"`
	RedCards       int `json:"red_cards"`
	FoulsCommitted int `json:"fouls_committed"`
	Substitutions  int `json:"substitutions"`
}

// TeamMatchStats is one side's aggregate over a single match.
type TeamMatchStats struct {
	MatchID     int64           `json:"match_id"`
	TeamID      int64           `json:"team_id"`
	Possession  TeamPossession  `json:"possession"`
	Shooting    TeamShooting    `json:"shooting"`
	Passing     TeamPassing     `json:"passing"`
	Defending   TeamDefending   `json:"defending"`
	Goalkeeping TeamGoalkeeping `json:"goalkeeping"`
	Discipline  TeamDiscipline  `json:"discipline"`
}

// TeamSeasonStats sums per-match aggregates over a season. Ratios are
// recomputed on the summed totals, never averaged across matches.
type TeamSeasonStats struct {
	SeasonID         int64           `json:"season_id"`
	Team             team.Team       `json:"team"`
	MatchesPlayed    int             `json:"matches_played"`
	HomeMatches      int             `json:"home_matches"`
	AwayMatches      int             `json:"away_matches"`
	GoalsFor         int             `json:"goals_for"`
	ManagerName      string          `json:"manager_name,omitempty"`
	FormationName    string          `json:"formation_name,omitempty"`
	AvgPossessionPct float64         `json:"avg_possession_pct"`
	Shooting         TeamShooting    `json:"shooting"`
	Passing          TeamPassing     `json:"passing"`
	Defending        TeamDefending   `json:"defending"`
	Goalkeeping      TeamGoalkeeping `json:"goalkeeping"`
	Discipline       TeamDiscipline  `json:"discipline"`
	ShotsPer90       float64         `json:"shots_per_90"`
	PassesPer90      float64         `json:"passes_per_90"`
	TacklesPer90     float64         `json:"tackles_per_90"`
}

// TeamStatsService aggregates stored events into team figures on demand.
type TeamStatsService struct {
	matchRepo match.Repository
	teamRepo  team.Repository
	eventRepo event.Repository
}

func NewTeamStatsService(matchRepo match.Repository, teamRepo team.Repository, eventRepo event.Repository) *TeamStatsService {
	return &TeamStatsService{
		matchRepo: matchRepo,
		teamRepo:  teamRepo,
		eventRepo: eventRepo,
	}
}

func (s *TeamStatsService) MatchStats(ctx context.Context, matchID, teamID int64) (TeamMatchStats, error) {
	ctx, span := startUsecaseSpan(ctx, "TeamStatsService.MatchStats")
	defer span.End()

	if matchID <= 0 || teamID <= 0 {
		return TeamMatchStats{}, fmt.Errorf("%w: match id and team id are required", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return TeamMatchStats{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return TeamMatchStats{}, fmt.Errorf("%w: match=%d", ErrNotFound, matchID)
	}
	if teamID != m.HomeTeamID && teamID != m.AwayTeamID {
		return TeamMatchStats{}, fmt.Errorf("%w: team=%d did not play match=%d", ErrInvalidInput, teamID, matchID)
	}

	return s.matchStatsForSide(ctx, m, teamID)
}

func (s *TeamStatsService) matchStatsForSide(ctx context.Context, m match.Match, teamID int64) (TeamMatchStats, error) {
	own, err := s.eventRepo.ListByMatchTeam(ctx, m.ID, teamID)
	if err != nil {
		return TeamMatchStats{}, fmt.Errorf("list team events: %w", err)
	}

	opponentID := m.AwayTeamID
	if teamID == m.AwayTeamID {
		opponentID = m.HomeTeamID
	}
	opponent, err := s.eventRepo.ListByMatchTeam(ctx, m.ID, opponentID)
	if err != nil {
		return TeamMatchStats{}, fmt.Errorf("list opponent events: %w", err)
	}

	stats := aggregateTeamEvents(own)
	stats.MatchID = m.ID
	stats.TeamID = teamID
	stats.Possession.PossessionPct = possessionShare(stats.Possession.Touches, countTouches(opponent))
	stats.Passing.PassAccuracy = ratioPct(stats.Passing.AccuratePasses, stats.Passing.TotalPasses)

	return stats, nil
}

func (s *TeamStatsService) SeasonStats(ctx context.Context, seasonID, teamID int64) (TeamSeasonStats, error) {
	ctx, span := startUsecaseSpan(ctx, "TeamStatsService.SeasonStats")
	defer span.End()

	if seasonID <= 0 || teamID <= 0 {
		return TeamSeasonStats{}, fmt.Errorf("%w: season id and team id are required", ErrInvalidInput)
	}

	matches, err := s.matchRepo.ListBySeasonTeam(ctx, seasonID, teamID)
	if err != nil {
		return TeamSeasonStats{}, fmt.Errorf("list season matches: %w", err)
	}
	if len(matches) == 0 {
		return TeamSeasonStats{}, fmt.Errorf("%w: no matches for team=%d in season=%d", ErrNotFound, teamID, seasonID)
	}

	t, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return TeamSeasonStats{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return TeamSeasonStats{}, fmt.Errorf("%w: team=%d", ErrNotFound, teamID)
	}

	p := pool.NewWithResults[TeamMatchStats]().WithContext(ctx).WithMaxGoroutines(seasonFanOutWorkers)
	for _, m := range matches {
		m := m
		p.Go(func(ctx context.Context) (TeamMatchStats, error) {
			return s.matchStatsForSide(ctx, m, teamID)
		})
	}
	perMatch, err := p.Wait()
	if err != nil {
		return TeamSeasonStats{}, err
	}

	out := TeamSeasonStats{
		SeasonID:      seasonID,
		Team:          t,
		MatchesPlayed: len(matches),
	}

	totalPossessionPct := 0.0
	for _, ms := range perMatch {
		totalPossessionPct += ms.Possession.PossessionPct

		out.Shooting.TotalShots += ms.Shooting.TotalShots
		out.Shooting.ShotsOnTarget += ms.Shooting.ShotsOnTarget
		out.Shooting.Goals += ms.Shooting.Goals
		out.Shooting.BigChances += ms.Shooting.BigChances

		out.Passing.TotalPasses += ms.Passing.TotalPasses
		out.Passing.AccuratePasses += ms.Passing.AccuratePasses
		out.Passing.KeyPasses += ms.Passing.KeyPasses
		out.Passing.Assists += ms.Passing.Assists
		out.Passing.BigChancesCreated += ms.Passing.BigChancesCreated

		out.Defending.TacklesWon += ms.Defending.TacklesWon
		out.Defending.Interceptions += ms.Defending.Interceptions
		out.Defending.Clearances += ms.Defending.Clearances
		out.Defending.Blocks += ms.Defending.Blocks

		out.Goalkeeping.Saves += ms.Goalkeeping.Saves
		out.Goalkeeping.Claims += ms.Goalkeeping.Claims
		out.Goalkeeping.Punches += ms.Goalkeeping.Punches

		out.Discipline.YellowCards += ms.Discipline.YellowCards
		out.Discipline.RedCards += ms.Discipline.RedCards
		out.Discipline.FoulsCommitted += ms.Discipline.FoulsCommitted
		out.Discipline.Substitutions += ms.Discipline.Substitutions
	}

	for _, m := range matches {
		if m.HomeTeamID == teamID {
			out.HomeMatches++
			out.GoalsFor += m.FTScore.Home
		} else {
			out.AwayMatches++
			out.GoalsFor += m.FTScore.Away
		}
	}

	played := float64(out.MatchesPlayed)
	out.AvgPossessionPct = round1(totalPossessionPct / played)
	out.Passing.PassAccuracy = ratioPct(out.Passing.AccuratePasses, out.Passing.TotalPasses)
	out.ShotsPer90 = round1(float64(out.Shooting.TotalShots) / played)
	out.PassesPer90 = round1(float64(out.Passing.TotalPasses) / played)
	out.TacklesPer90 = round1(float64(out.Defending.TacklesWon) / played)

	if sctx, exists, err := s.matchRepo.GetTeamSeasonContext(ctx, seasonID, teamID); err != nil {
		return TeamSeasonStats{}, fmt.Errorf("get team season context: %w", err)
	} else if exists {
		out.ManagerName = sctx.ManagerName
		out.FormationName = sctx.FormationName
	}

	return out, nil
}

func aggregateTeamEvents(events []event.Classified) TeamMatchStats {
	var out TeamMatchStats
	for _, ev := range events {
		switch ev.Category {
		case event.CategoryPossession:
			a := ev.Possession
			countIf(&out.Possession.Touches, a.Touches)
			countIf(&out.Possession.PossessionLost, a.Dispossessed)
			countIf(&out.Possession.DribblesWon, a.DribbleWon)
			countIf(&out.Possession.DribblesLost, a.DribbleLost)
			countIf(&out.Discipline.FoulsCommitted, a.FoulCommitted)
		case event.CategoryShooting:
			a := ev.Shooting
			countIf(&out.Shooting.TotalShots, a.IsShot)
			countIf(&out.Shooting.ShotsOnTarget, a.ShotOnTarget)
			countIf(&out.Shooting.Goals, a.IsGoal)
			countIf(&out.Shooting.BigChances, a.BigChanceScored || a.BigChanceMissed)
		case event.CategoryPassing:
			a := ev.Passing
			out.Passing.TotalPasses++
			countIf(&out.Passing.AccuratePasses, a.PassAccurate)
			countIf(&out.Passing.KeyPasses, a.PassKey)
			countIf(&out.Passing.Assists, a.Assist)
			countIf(&out.Passing.BigChancesCreated, a.BigChanceCreated)
		case event.CategoryDefending:
			a := ev.Defending
			countIf(&out.Defending.TacklesWon, a.TackleWon)
			countIf(&out.Defending.Interceptions, a.InterceptionWon)
			countIf(&out.Defending.Clearances, a.IsClearance)
			countIf(&out.Defending.Blocks, a.OutfielderBlock)
		case event.CategoryGoalkeeping:
			a := ev.Goalkeeping
			countIf(&out.Goalkeeping.Saves, a.KeeperSaveTotal)
			countIf(&out.Goalkeeping.Claims, a.KeeperClaimWon || a.KeeperClaimHighWon)
			countIf(&out.Goalkeeping.Punches, a.Punches)
		case event.CategorySummary:
			a := ev.Summary
			countIf(&out.Discipline.YellowCards, a.YellowCard || a.SecondYellow)
			countIf(&out.Discipline.RedCards, a.RedCard)
			countIf(&out.Discipline.Substitutions, a.SubOn)
		}
	}
	return out
}

func countTouches(events []event.Classified) int {
	n := 0
	for _, ev := range events {
		if ev.Category == event.CategoryPossession && ev.Possession.Touches {
			n++
		}
	}
	return n
}

func countIf(counter *int, cond bool) {
	if cond {
		*counter++
	}
}

// possessionShare splits 100% between the two sides by touch volume.
func possessionShare(own, opponent int) float64 {
	total := own + opponent
	if total == 0 {
		return 0
	}
	return round1(float64(own) / float64(total) * 100)
}

// ratioPct is num/den as a percentage, zero when the denominator is zero.
func ratioPct(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return round1(float64(num) / float64(den) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
