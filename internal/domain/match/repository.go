package match

import "context"

// Repository describes match persistence needs from use cases.
type Repository interface {
	// SaveBundle upserts the match shell plus its team stats, formations and
	// roster in one transaction, keyed by external ids throughout.
	SaveBundle(ctx context.Context, b Bundle) (Match, error)

	GetByID(ctx context.Context, matchID int64) (Match, bool, error)
	GetByExternalID(ctx context.Context, externalID int64) (Match, bool, error)

	GetMatchPlayer(ctx context.Context, matchID, playerID int64) (MatchPlayer, bool, error)

	// ListBySeasonTeam returns the matches of a season a team took part in,
	// ordered by kickoff time.
	ListBySeasonTeam(ctx context.Context, seasonID, teamID int64) ([]Match, error)

	// ListAppearancesBySeasonPlayer returns the roster rows of a player
	// across a season, ordered by kickoff time.
	ListAppearancesBySeasonPlayer(ctx context.Context, seasonID, playerID int64) ([]Appearance, error)

	// GetTeamSeasonContext returns manager and formation of the team's
	// latest match in the season.
	GetTeamSeasonContext(ctx context.Context, seasonID, teamID int64) (TeamSeasonContext, bool, error)
}
