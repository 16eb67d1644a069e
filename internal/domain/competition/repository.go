package competition

import "context"

// Repository describes competition persistence needs from use cases.
// Upserts are keyed by natural identity so re-ingesting a report is a no-op.
type Repository interface {
	UpsertCompetition(ctx context.Context, c Competition) (Competition, error)
	UpsertSeason(ctx context.Context, s Season) (Season, error)
	GetSeasonByID(ctx context.Context, seasonID int64) (Season, bool, error)
}
