package speedrun

import "context"

// Repository describes the remote speedrun data needed by use cases. A lookup
// that finds nothing is not an error: GetLeaderboard reports it with false and
// the batch getters simply omit unknown ids.
type Repository interface {
	GetLeaderboard(ctx context.Context, key string) (Leaderboard, bool, error)
	GetUsers(ctx context.Context, ids []string) ([]User, error)
	GetGames(ctx context.Context, ids []string) ([]Game, error)
}
