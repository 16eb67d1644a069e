package event

import "context"

// UpsertFailure records one event of a batch that could not be stored.
type UpsertFailure struct {
	Index int
	Err   error
}

// Repository describes event persistence needs from use cases.
type Repository interface {
	// UpsertBatch stores the events in one transaction, keyed per category
	// table by (match_id, source_id). A failing event is rolled back to a
	// savepoint and reported in the failure list while the rest commit.
	UpsertBatch(ctx context.Context, events []Classified) ([]UpsertFailure, error)

	// ListByMatch returns all stored events of a match; category narrows the
	// listing to one table when non-nil.
	ListByMatch(ctx context.Context, matchID int64, category *Category) ([]Classified, error)

	ListByMatchTeam(ctx context.Context, matchID, teamID int64) ([]Classified, error)
	ListByMatchPlayer(ctx context.Context, matchID, playerID int64) ([]Classified, error)

	CountsByMatch(ctx context.Context, matchID int64) (map[Category]int, error)
}
