package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dmarchuk/matchfeed/internal/domain/competition"
	qb "github.com/dmarchuk/matchfeed/internal/platform/querybuilder"
)

type CompetitionRepository struct {
	db *sqlx.DB
}

func NewCompetitionRepository(db *sqlx.DB) *CompetitionRepository {
	return &CompetitionRepository{db: db}
}

func (r *CompetitionRepository) UpsertCompetition(ctx context.Context, c competition.Competition) (competition.Competition, error) {
	insertModel := competitionInsertModel{
		Name:    c.Name,
		Country: c.Country,
	}

	query, args, err := qb.InsertModel("competitions", insertModel, `ON CONFLICT (name, country)
DO UPDATE SET updated_at = NOW()
RETURNING id`)
	if err != nil {
		return competition.Competition{}, fmt.Errorf("build upsert competition query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		return competition.Competition{}, fmt.Errorf("upsert competition: %w", err)
	}

	c.ID = id
	return c, nil
}

func (r *CompetitionRepository) UpsertSeason(ctx context.Context, s competition.Season) (competition.Season, error) {
	insertModel := seasonInsertModel{
		CompetitionID: s.CompetitionID,
		Name:          s.Name,
		IsCurrent:     s.IsCurrent,
	}

	query, args, err := qb.InsertModel("seasons", insertModel, `ON CONFLICT (competition_id, name)
DO UPDATE SET updated_at = NOW()
RETURNING id`)
	if err != nil {
		return competition.Season{}, fmt.Errorf("build upsert season query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		return competition.Season{}, fmt.Errorf("upsert season: %w", err)
	}

	s.ID = id
	return s, nil
}

func (r *CompetitionRepository) GetSeasonByID(ctx context.Context, seasonID int64) (competition.Season, bool, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(qb.Eq("id", seasonID)).
		ToSQL()
	if err != nil {
		return competition.Season{}, false, fmt.Errorf("build get season query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return competition.Season{}, false, nil
		}
		return competition.Season{}, false, fmt.Errorf("get season: %w", err)
	}

	return competition.Season{
		ID:            row.ID,
		CompetitionID: row.CompetitionID,
		Name:          row.Name,
		IsCurrent:     row.IsCurrent,
	}, true, nil
}
