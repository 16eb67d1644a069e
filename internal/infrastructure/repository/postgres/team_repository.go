package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dmarchuk/matchfeed/internal/domain/team"
	qb "github.com/dmarchuk/matchfeed/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Upsert(ctx context.Context, t team.Team) (team.Team, error) {
	insertModel := teamInsertModel{
		ExternalID: t.ExternalID,
		Name:       t.Name,
		Country:    t.Country,
	}

	query, args, err := qb.InsertModel("teams", insertModel, `ON CONFLICT (external_id)
DO UPDATE SET name = EXCLUDED.name, country = EXCLUDED.country, updated_at = NOW()
RETURNING id`)
	if err != nil {
		return team.Team{}, fmt.Errorf("build upsert team query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		return team.Team{}, fmt.Errorf("upsert team: %w", err)
	}

	t.ID = id
	return t, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID int64) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("id", teamID)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}

	return team.Team{
		ID:         row.ID,
		ExternalID: row.ExternalID,
		Name:       row.Name,
		Country:    row.Country,
	}, true, nil
}
