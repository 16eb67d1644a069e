package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dmarchuk/matchfeed/internal/domain/match"
	qb "github.com/dmarchuk/matchfeed/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// SaveBundle persists one loaded report atomically: match shell, per-side
// team stats, formations and roster, all keyed by external ids so the same
// report can be ingested again without duplicating rows.
func (r *MatchRepository) SaveBundle(ctx context.Context, b match.Bundle) (match.Match, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return match.Match{}, fmt.Errorf("begin save bundle tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	matchID, err := upsertMatchTx(ctx, tx, b.Match)
	if err != nil {
		return match.Match{}, err
	}

	statsIDByTeam := make(map[int64]int64, len(b.TeamStats))
	for _, stats := range b.TeamStats {
		stats.MatchID = matchID
		statsID, err := upsertTeamStatsTx(ctx, tx, stats)
		if err != nil {
			return match.Match{}, err
		}
		statsIDByTeam[stats.TeamID] = statsID
	}

	for _, formation := range b.Formations {
		statsID, ok := statsIDByTeam[formation.TeamID]
		if !ok {
			return match.Match{}, fmt.Errorf("formation references team %d without team stats", formation.TeamID)
		}
		formation.MatchTeamStatsID = statsID
		if err := upsertFormationTx(ctx, tx, formation); err != nil {
			return match.Match{}, err
		}
	}

	for _, entry := range b.Roster {
		if err := upsertRosterEntryTx(ctx, tx, matchID, entry); err != nil {
			return match.Match{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return match.Match{}, fmt.Errorf("commit save bundle tx: %w", err)
	}

	out := b.Match
	out.ID = matchID
	return out, nil
}

func upsertMatchTx(ctx context.Context, tx *sqlx.Tx, m match.Match) (int64, error) {
	insertModel := matchInsertModel{
		ExternalID:  m.ExternalID,
		SeasonID:    m.SeasonID,
		HomeTeamID:  m.HomeTeamID,
		AwayTeamID:  m.AwayTeamID,
		StartAt:     m.StartAt,
		Venue:       m.Venue,
		Attendance:  intPtrToNullInt64(m.Attendance),
		RefereeID:   ptrToNullInt64(m.RefereeID),
		RefereeName: m.RefereeName,
		ScoreRaw:    m.ScoreRaw,
		HomeScoreHT: m.HTScore.Home,
		AwayScoreHT: m.HTScore.Away,
		HomeScoreFT: m.FTScore.Home,
		AwayScoreFT: m.FTScore.Away,
	}
	if m.ETScore != nil {
		insertModel.HomeScoreET = sql.NullInt64{Int64: int64(m.ETScore.Home), Valid: true}
		insertModel.AwayScoreET = sql.NullInt64{Int64: int64(m.ETScore.Away), Valid: true}
	}

	query, args, err := qb.InsertModel("matches", insertModel, `ON CONFLICT (external_id)
DO UPDATE SET season_id = EXCLUDED.season_id,
	home_team_id = EXCLUDED.home_team_id,
	away_team_id = EXCLUDED.away_team_id,
	start_at = EXCLUDED.start_at,
	venue = EXCLUDED.venue,
	attendance = EXCLUDED.attendance,
	referee_id = EXCLUDED.referee_id,
	referee_name = EXCLUDED.referee_name,
	score_raw = EXCLUDED.score_raw,
	home_score_ht = EXCLUDED.home_score_ht,
	away_score_ht = EXCLUDED.away_score_ht,
	home_score_ft = EXCLUDED.home_score_ft,
	away_score_ft = EXCLUDED.away_score_ft,
	home_score_et = EXCLUDED.home_score_et,
	away_score_et = EXCLUDED.away_score_et,
	updated_at = NOW()
RETURNING id`)
	if err != nil {
		return 0, fmt.Errorf("build upsert match query: %w", err)
	}

	var id int64
	if err := tx.GetContext(ctx, &id, query, args...); err != nil {
		return 0, fmt.Errorf("upsert match: %w", err)
	}

	return id, nil
}

func upsertTeamStatsTx(ctx context.Context, tx *sqlx.Tx, stats match.TeamStats) (int64, error) {
	insertModel := teamStatsInsertModel{
		MatchID:      stats.MatchID,
		TeamID:       stats.TeamID,
		IsHome:       stats.IsHome,
		Field:        stats.Field,
		AverageAge:   stats.AverageAge,
		ManagerName:  stats.ManagerName,
		CountryName:  stats.CountryName,
		RunningScore: jsonbOrNull(stats.RunningScore),
		Stats:        jsonbOrNull(stats.Stats),
	}

	query, args, err := qb.InsertModel("match_team_stats", insertModel, `ON CONFLICT (match_id, team_id)
DO UPDATE SET is_home = EXCLUDED.is_home,
	field = EXCLUDED.field,
	average_age = EXCLUDED.average_age,
	manager_name = EXCLUDED.manager_name,
	country_name = EXCLUDED.country_name,
	running_score = EXCLUDED.running_score,
	stats = EXCLUDED.stats,
	updated_at = NOW()
RETURNING id`)
	if err != nil {
		return 0, fmt.Errorf("build upsert team stats query: %w", err)
	}

	var id int64
	if err := tx.GetContext(ctx, &id, query, args...); err != nil {
		return 0, fmt.Errorf("upsert team stats: %w", err)
	}

	return id, nil
}

func upsertFormationTx(ctx context.Context, tx *sqlx.Tx, f match.Formation) error {
	insertModel := formationInsertModel{
		MatchTeamStatsID:    f.MatchTeamStatsID,
		FormationID:         f.FormationID,
		Period:              f.Period,
		FormationName:       f.FormationName,
		CaptainPlayerID:     f.CaptainPlayerID,
		StartMinuteExpanded: f.StartMinuteExpanded,
		EndMinuteExpanded:   f.EndMinuteExpanded,
		JerseyNumbers:       jsonbOrNull(f.JerseyNumbers),
		PlayerIDs:           jsonbOrNull(f.PlayerIDs),
		FormationSlots:      jsonbOrNull(f.FormationSlots),
		FormationPositions:  jsonbOrNull(f.FormationPositions),
	}

	query, args, err := qb.InsertModel("formations", insertModel, `ON CONFLICT (match_team_stats_id, formation_id, period)
DO UPDATE SET formation_name = EXCLUDED.formation_name,
	captain_player_id = EXCLUDED.captain_player_id,
	start_minute_expanded = EXCLUDED.start_minute_expanded,
	end_minute_expanded = EXCLUDED.end_minute_expanded,
	jersey_numbers = EXCLUDED.jersey_numbers,
	player_ids = EXCLUDED.player_ids,
	formation_slots = EXCLUDED.formation_slots,
	formation_positions = EXCLUDED.formation_positions,
	updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert formation query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert formation: %w", err)
	}

	return nil
}

func upsertRosterEntryTx(ctx context.Context, tx *sqlx.Tx, matchID int64, entry match.RosterEntry) error {
	playerModel := playerInsertModel{
		ExternalID: entry.PlayerExternalID,
		Name:       entry.PlayerName,
		Height:     ptrToNullFloat64(entry.Height),
		Weight:     ptrToNullFloat64(entry.Weight),
	}

	playerQuery, playerArgs, err := qb.InsertModel("players", playerModel, `ON CONFLICT (external_id)
DO UPDATE SET name = EXCLUDED.name,
	height = COALESCE(EXCLUDED.height, players.height),
	weight = COALESCE(EXCLUDED.weight, players.weight),
	updated_at = NOW()
RETURNING id`)
	if err != nil {
		return fmt.Errorf("build upsert roster player query: %w", err)
	}

	var playerID int64
	if err := tx.GetContext(ctx, &playerID, playerQuery, playerArgs...); err != nil {
		return fmt.Errorf("upsert roster player %d: %w", entry.PlayerExternalID, err)
	}

	rowModel := matchPlayerInsertModel{
		MatchID:       matchID,
		PlayerID:      playerID,
		TeamID:        entry.TeamID,
		ShirtNo:       entry.ShirtNo,
		Position:      entry.Position,
		Field:         entry.Field,
		IsFirstEleven: entry.IsFirstEleven,
		IsManOfMatch:  entry.IsManOfMatch,
		Age:           entry.Age,
		Height:        floatOrZero(entry.Height),
		Weight:        floatOrZero(entry.Weight),
		Stats:         jsonbOrNull(entry.Stats),
	}

	query, args, err := qb.InsertModel("match_players", rowModel, `ON CONFLICT (match_id, player_id, team_id)
DO UPDATE SET shirt_no = EXCLUDED.shirt_no,
	position = EXCLUDED.position,
	field = EXCLUDED.field,
	is_first_eleven = EXCLUDED.is_first_eleven,
	is_man_of_match = EXCLUDED.is_man_of_match,
	age = EXCLUDED.age,
	height = EXCLUDED.height,
	weight = EXCLUDED.weight,
	stats = EXCLUDED.stats,
	updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert match player query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert match player %d: %w", entry.PlayerExternalID, err)
	}

	return nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID int64) (match.Match, bool, error) {
	return r.getByCondition(ctx, qb.Eq("id", matchID))
}

func (r *MatchRepository) GetByExternalID(ctx context.Context, externalID int64) (match.Match, bool, error) {
	return r.getByCondition(ctx, qb.Eq("external_id", externalID))
}

func (r *MatchRepository) getByCondition(ctx context.Context, cond qb.Condition) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").Where(cond).ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}

	return matchFromRow(row), true, nil
}

func (r *MatchRepository) GetMatchPlayer(ctx context.Context, matchID, playerID int64) (match.MatchPlayer, bool, error) {
	query, args, err := qb.Select("*").From("match_players").
		Where(qb.Eq("match_id", matchID), qb.Eq("player_id", playerID)).
		ToSQL()
	if err != nil {
		return match.MatchPlayer{}, false, fmt.Errorf("build get match player query: %w", err)
	}

	var row matchPlayerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.MatchPlayer{}, false, nil
		}
		return match.MatchPlayer{}, false, fmt.Errorf("get match player: %w", err)
	}

	return match.MatchPlayer{
		ID:            row.ID,
		MatchID:       row.MatchID,
		PlayerID:      row.PlayerID,
		TeamID:        row.TeamID,
		ShirtNo:       row.ShirtNo,
		Position:      row.Position,
		Field:         row.Field,
		IsFirstEleven: row.IsFirstEleven,
		IsManOfMatch:  row.IsManOfMatch,
		Age:           row.Age,
		Height:        row.Height,
		Weight:        row.Weight,
		Stats:         json.RawMessage(row.Stats),
	}, true, nil
}

func (r *MatchRepository) ListBySeasonTeam(ctx context.Context, seasonID, teamID int64) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("season_id", seasonID),
			qb.Expr("(home_team_id = ? OR away_team_id = ?)", teamID, teamID),
		).
		OrderBy("start_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list season matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list season matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}

	return out, nil
}

func (r *MatchRepository) ListAppearancesBySeasonPlayer(ctx context.Context, seasonID, playerID int64) ([]match.Appearance, error) {
	query, args, err := qb.Select(
		"mp.match_id",
		"m.start_at",
		"mp.team_id",
		"mp.position",
		"mp.is_first_eleven",
	).From("match_players mp JOIN matches m ON m.id = mp.match_id").
		Where(
			qb.Eq("m.season_id", seasonID),
			qb.Eq("mp.player_id", playerID),
		).
		OrderBy("m.start_at", "m.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list season appearances query: %w", err)
	}

	var rows []appearanceRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list season appearances: %w", err)
	}

	out := make([]match.Appearance, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.Appearance{
			MatchID:       row.MatchID,
			StartAt:       row.StartAt,
			TeamID:        row.TeamID,
			Position:      row.Position,
			IsFirstEleven: row.IsFirstEleven,
		})
	}

	return out, nil
}

func (r *MatchRepository) GetTeamSeasonContext(ctx context.Context, seasonID, teamID int64) (match.TeamSeasonContext, bool, error) {
	query, args, err := qb.Select("mts.id", "mts.manager_name").
		From("match_team_stats mts JOIN matches m ON m.id = mts.match_id").
		Where(
			qb.Eq("m.season_id", seasonID),
			qb.Eq("mts.team_id", teamID),
		).
		OrderBy("m.start_at DESC", "m.id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return match.TeamSeasonContext{}, false, fmt.Errorf("build team season context query: %w", err)
	}

	var row teamSeasonContextRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.TeamSeasonContext{}, false, nil
		}
		return match.TeamSeasonContext{}, false, fmt.Errorf("get team season context: %w", err)
	}

	formationQuery, formationArgs, err := qb.Select("formation_name").From("formations").
		Where(qb.Eq("match_team_stats_id", row.MatchTeamStatsID)).
		OrderBy("period DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return match.TeamSeasonContext{}, false, fmt.Errorf("build latest formation query: %w", err)
	}

	var formationName string
	if err := r.db.GetContext(ctx, &formationName, formationQuery, formationArgs...); err != nil && !isNotFound(err) {
		return match.TeamSeasonContext{}, false, fmt.Errorf("get latest formation: %w", err)
	}

	return match.TeamSeasonContext{
		ManagerName:   row.ManagerName,
		FormationName: formationName,
	}, true, nil
}

func matchFromRow(row matchTableModel) match.Match {
	out := match.Match{
		ID:          row.ID,
		ExternalID:  row.ExternalID,
		SeasonID:    row.SeasonID,
		HomeTeamID:  row.HomeTeamID,
		AwayTeamID:  row.AwayTeamID,
		StartAt:     row.StartAt,
		Venue:       row.Venue,
		Attendance:  nullInt64ToIntPtr(row.Attendance),
		RefereeID:   nullInt64ToPtr(row.RefereeID),
		RefereeName: row.RefereeName,
		ScoreRaw:    row.ScoreRaw,
		HTScore:     match.Score{Home: row.HomeScoreHT, Away: row.AwayScoreHT},
		FTScore:     match.Score{Home: row.HomeScoreFT, Away: row.AwayScoreFT},
	}
	if row.HomeScoreET.Valid && row.AwayScoreET.Valid {
		out.ETScore = &match.Score{Home: int(row.HomeScoreET.Int64), Away: int(row.AwayScoreET.Int64)}
	}
	return out
}

func intPtrToNullInt64(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullInt64ToIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
