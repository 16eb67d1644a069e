package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	Upsert(ctx context.Context, p Player) (Player, error)
	GetByID(ctx context.Context, playerID int64) (Player, bool, error)
	// MapExternalIDs resolves known external ids to internal ids. External
	// ids without a player row are simply omitted from the result.
	MapExternalIDs(ctx context.Context, externalIDs []int64) (map[int64]int64, error)
}
