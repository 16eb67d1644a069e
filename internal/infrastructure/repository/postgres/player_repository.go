package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dmarchuk/matchfeed/internal/domain/player"
	qb "github.com/dmarchuk/matchfeed/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) Upsert(ctx context.Context, p player.Player) (player.Player, error) {
	insertModel := playerInsertModel{
		ExternalID: p.ExternalID,
		Name:       p.Name,
		Height:     ptrToNullFloat64(p.Height),
		Weight:     ptrToNullFloat64(p.Weight),
	}

	query, args, err := qb.InsertModel("players", insertModel, `ON CONFLICT (external_id)
DO UPDATE SET name = EXCLUDED.name,
	height = COALESCE(EXCLUDED.height, players.height),
	weight = COALESCE(EXCLUDED.weight, players.weight),
	updated_at = NOW()
RETURNING id`)
	if err != nil {
		return player.Player{}, fmt.Errorf("build upsert player query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		return player.Player{}, fmt.Errorf("upsert player: %w", err)
	}

	p.ID = id
	return p, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID int64) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player: %w", err)
	}

	return player.Player{
		ID:         row.ID,
		ExternalID: row.ExternalID,
		Name:       row.Name,
		Height:     nullFloat64ToPtr(row.Height),
		Weight:     nullFloat64ToPtr(row.Weight),
	}, true, nil
}

func (r *PlayerRepository) MapExternalIDs(ctx context.Context, externalIDs []int64) (map[int64]int64, error) {
	if len(externalIDs) == 0 {
		return map[int64]int64{}, nil
	}

	values := make([]any, 0, len(externalIDs))
	for _, id := range externalIDs {
		values = append(values, id)
	}

	query, args, err := qb.Select("id", "external_id").From("players").
		Where(qb.In("external_id", values)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build map player ids query: %w", err)
	}

	var rows []playerIDPairRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("map player ids: %w", err)
	}

	out := make(map[int64]int64, len(rows))
	for _, row := range rows {
		out[row.ExternalID] = row.ID
	}

	return out, nil
}
