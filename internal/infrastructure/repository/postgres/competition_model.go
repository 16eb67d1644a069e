package postgres

import "time"

type competitionTableModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Country   string    `db:"country"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type competitionInsertModel struct {
	Name    string `db:"name"`
	Country string `db:"country"`
}

type seasonTableModel struct {
	ID            int64     `db:"id"`
	CompetitionID int64     `db:"competition_id"`
	Name          string    `db:"name"`
	IsCurrent     bool      `db:"is_current"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type seasonInsertModel struct {
	CompetitionID int64  `db:"competition_id"`
	Name          string `db:"name"`
	IsCurrent     bool   `db:"is_current"`
}
