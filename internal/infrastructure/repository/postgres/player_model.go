package postgres

import (
	"database/sql"
	"time"
)

type playerTableModel struct {
	ID         int64           `db:"id"`
	ExternalID int64           `db:"external_id"`
	Name       string          `db:"name"`
	Height     sql.NullFloat64 `db:"height"`
	Weight     sql.NullFloat64 `db:"weight"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

type playerInsertModel struct {
	ExternalID int64           `db:"external_id"`
	Name       string          `db:"name"`
	Height     sql.NullFloat64 `db:"height"`
	Weight     sql.NullFloat64 `db:"weight"`
}

type playerIDPairRow struct {
	ID         int64 `db:"id"`
	ExternalID int64 `db:"external_id"`
}
