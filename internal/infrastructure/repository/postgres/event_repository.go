package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/dmarchuk/matchfeed/internal/domain/event"
	qb "github.com/dmarchuk/matchfeed/internal/platform/querybuilder"
)

var eventTableByCategory = map[event.Category]string{
	event.CategoryPassing:     "passing_events",
	event.CategoryShooting:    "shooting_events",
	event.CategoryDefending:   "defending_events",
	event.CategoryGoalkeeping: "goalkeeping_events",
	event.CategoryPossession:  "possession_events",
	event.CategorySummary:     "summary_events",
}

const eventUpsertSuffix = `ON CONFLICT (match_id, source_id)
DO UPDATE SET event_id = EXCLUDED.event_id,
	team_id = EXCLUDED.team_id,
	player_id = EXCLUDED.player_id,
	player_name = EXCLUDED.player_name,
	minute = EXCLUDED.minute,
	second = EXCLUDED.second,
	expanded_minute = EXCLUDED.expanded_minute,
	period = EXCLUDED.period,
	max_minute = EXCLUDED.max_minute,
	x = EXCLUDED.x,
	y = EXCLUDED.y,
	end_x = EXCLUDED.end_x,
	end_y = EXCLUDED.end_y,
	is_touch = EXCLUDED.is_touch,
	touches = EXCLUDED.touches,
	defensive_third = EXCLUDED.defensive_third,
	mid_third = EXCLUDED.mid_third,
	final_third = EXCLUDED.final_third,
	type = EXCLUDED.type,
	outcome_type = EXCLUDED.outcome_type,
	related_event_id = EXCLUDED.related_event_id,
	related_player_id = EXCLUDED.related_player_id,
	side = EXCLUDED.side,
	situation = EXCLUDED.situation,
	qualifiers = EXCLUDED.qualifiers,
	satisfied_events = EXCLUDED.satisfied_events,
	attrs = EXCLUDED.attrs,
	updated_at = NOW()`

type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// UpsertBatch stores a classified batch in one transaction. Each event gets
// its own savepoint: a row that fails to land is rolled back and reported
// without poisoning the rest of the batch.
func (r *EventRepository) UpsertBatch(ctx context.Context, events []event.Classified) ([]event.UpsertFailure, error) {
	if len(events) == 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin upsert events tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var failures []event.UpsertFailure
	for i, ev := range events {
		savepoint := fmt.Sprintf("ev_%d", i)
		if _, err := tx.ExecContext(ctx, "SAVEPOINT "+savepoint); err != nil {
			return nil, fmt.Errorf("create savepoint: %w", err)
		}

		if err := upsertEventTx(ctx, tx, ev); err != nil {
			if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+savepoint); rbErr != nil {
				return nil, fmt.Errorf("rollback to savepoint: %w", rbErr)
			}
			failures = append(failures, event.UpsertFailure{Index: i, Err: err})
			continue
		}

		if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+savepoint); err != nil {
			return nil, fmt.Errorf("release savepoint: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit upsert events tx: %w", err)
	}

	return failures, nil
}

func upsertEventTx(ctx context.Context, tx *sqlx.Tx, ev event.Classified) error {
	table, ok := eventTableByCategory[ev.Category]
	if !ok {
		return fmt.Errorf("no table for category %q", ev.Category)
	}

	attrs, err := marshalAttrs(ev)
	if err != nil {
		return err
	}

	insertModel := eventInsertModel{
		eventInsertBase: eventInsertFromBase(ev.Base),
		Qualifiers:      jsonbOrNull(ev.Base.Qualifiers),
		SatisfiedEvents: jsonbOrNull(ev.Base.SatisfiedEvents),
		Attrs:           attrs,
	}

	query, args, err := qb.InsertModel(table, insertModel, eventUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert event query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert %s row %d: %w", table, ev.Base.SourceID, err)
	}

	return nil
}

func marshalAttrs(ev event.Classified) ([]byte, error) {
	var payload any
	switch ev.Category {
	case event.CategoryPassing:
		payload = ev.Passing
	case event.CategoryShooting:
		payload = ev.Shooting
	case event.CategoryDefending:
		payload = ev.Defending
	case event.CategoryGoalkeeping:
		payload = ev.Goalkeeping
	case event.CategoryPossession:
		payload = ev.Possession
	case event.CategorySummary:
		payload = ev.Summary
	}
	if payload == nil {
		return nil, fmt.Errorf("event %d has no attrs for category %q", ev.Base.SourceID, ev.Category)
	}

	out, err := sonic.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal event attrs: %w", err)
	}
	return out, nil
}

func (r *EventRepository) ListByMatch(ctx context.Context, matchID int64, category *event.Category) ([]event.Classified, error) {
	conditions := []qb.Condition{qb.Eq("match_id", matchID)}
	if category != nil {
		return r.listCategory(ctx, *category, conditions)
	}

	var out []event.Classified
	for _, cat := range event.Categories() {
		events, err := r.listCategory(ctx, cat, conditions)
		if err != nil {
			return nil, err
		}
		out = append(out, events...)
	}

	return out, nil
}

func (r *EventRepository) ListByMatchTeam(ctx context.Context, matchID, teamID int64) ([]event.Classified, error) {
	conditions := []qb.Condition{qb.Eq("match_id", matchID), qb.Eq("team_id", teamID)}

	var out []event.Classified
	for _, cat := range event.Categories() {
		events, err := r.listCategory(ctx, cat, conditions)
		if err != nil {
			return nil, err
		}
		out = append(out, events...)
	}

	return out, nil
}

func (r *EventRepository) ListByMatchPlayer(ctx context.Context, matchID, playerID int64) ([]event.Classified, error) {
	conditions := []qb.Condition{qb.Eq("match_id", matchID), qb.Eq("player_id", playerID)}

	var out []event.Classified
	for _, cat := range event.Categories() {
		events, err := r.listCategory(ctx, cat, conditions)
		if err != nil {
			return nil, err
		}
		out = append(out, events...)
	}

	return out, nil
}

func (r *EventRepository) CountsByMatch(ctx context.Context, matchID int64) (map[event.Category]int, error) {
	out := make(map[event.Category]int, len(eventTableByCategory))
	for cat, table := range eventTableByCategory {
		query, args, err := qb.Select("COUNT(1)").From(table).
			Where(qb.Eq("match_id", matchID)).
			ToSQL()
		if err != nil {
			return nil, fmt.Errorf("build count %s query: %w", table, err)
		}

		var count int
		if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		out[cat] = count
	}

	return out, nil
}

func (r *EventRepository) listCategory(ctx context.Context, cat event.Category, conditions []qb.Condition) ([]event.Classified, error) {
	table, ok := eventTableByCategory[cat]
	if !ok {
		return nil, fmt.Errorf("no table for category %q", cat)
	}

	query, args, err := qb.Select("*").From(table).
		Where(conditions...).
		OrderBy("minute", "second", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list %s query: %w", table, err)
	}

	var rows []eventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}

	out := make([]event.Classified, 0, len(rows))
	for _, row := range rows {
		classified, err := classifiedFromRow(cat, row)
		if err != nil {
			return nil, err
		}
		out = append(out, classified)
	}

	return out, nil
}

func classifiedFromRow(cat event.Category, row eventTableModel) (event.Classified, error) {
	out := event.Classified{Category: cat, Base: baseFromEventRow(row)}

	var err error
	switch cat {
	case event.CategoryPassing:
		attrs := &event.PassingAttrs{}
		err = sonic.Unmarshal(row.Attrs, attrs)
		out.Passing = attrs
	case event.CategoryShooting:
		attrs := &event.ShootingAttrs{}
		err = sonic.Unmarshal(row.Attrs, attrs)
		out.Shooting = attrs
	case event.CategoryDefending:
		attrs := &event.DefendingAttrs{}
		err = sonic.Unmarshal(row.Attrs, attrs)
		out.Defending = attrs
	case event.CategoryGoalkeeping:
		attrs := &event.GoalkeepingAttrs{}
		err = sonic.Unmarshal(row.Attrs, attrs)
		out.Goalkeeping = attrs
	case event.CategoryPossession:
		attrs := &event.PossessionAttrs{}
		err = sonic.Unmarshal(row.Attrs, attrs)
		out.Possession = attrs
	case event.CategorySummary:
		attrs := &event.SummaryAttrs{}
		err = sonic.Unmarshal(row.Attrs, attrs)
		out.Summary = attrs
	}
	if err != nil {
		return event.Classified{}, fmt.Errorf("decode %s attrs for row %d: %w", cat, row.ID, err)
	}

	return out, nil
}
