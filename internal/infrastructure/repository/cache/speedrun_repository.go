package cache

import (
	"context"
	"sort"
	"strings"

	"github.com/riskibarqy/speedrun-browser/internal/domain/speedrun"
	basecache "github.com/riskibarqy/speedrun-browser/internal/platform/cache"
)

// SpeedrunRepository is a read-through cache over a speedrun.Repository.
// Misses are cached too so an unknown board is not refetched until expiry.
type SpeedrunRepository struct {
	next  speedrun.Repository
	cache *basecache.Store
}

var _ speedrun.Repository = (*SpeedrunRepository)(nil)

func NewSpeedrunRepository(next speedrun.Repository, cache *basecache.Store) *SpeedrunRepository {
	return &SpeedrunRepository{next: next, cache: cache}
}

func (r *SpeedrunRepository) GetLeaderboard(ctx context.Context, key string) (speedrun.Leaderboard, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, "leaderboard:"+key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetLeaderboard(ctx, key)
		if err != nil {
			return nil, err
		}
		return cachedLeaderboard{value: item, exists: exists}, nil
	})
	if err != nil {
		return speedrun.Leaderboard{}, false, err
	}

	cached, _ := v.(cachedLeaderboard)
	return cached.value, cached.exists, nil
}

func (r *SpeedrunRepository) GetUsers(ctx context.Context, ids []string) ([]speedrun.User, error) {
	v, err := r.cache.GetOrLoad(ctx, "user:ids:"+idsKey(ids), func(ctx context.Context) (any, error) {
		items, err := r.next.GetUsers(ctx, ids)
		if err != nil {
			return nil, err
		}
		return append([]speedrun.User(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]speedrun.User)
	return append([]speedrun.User(nil), items...), nil
}

func (r *SpeedrunRepository) GetGames(ctx context.Context, ids []string) ([]speedrun.Game, error) {
	v, err := r.cache.GetOrLoad(ctx, "game:ids:"+idsKey(ids), func(ctx context.Context) (any, error) {
		items, err := r.next.GetGames(ctx, ids)
		if err != nil {
			return nil, err
		}
		return append([]speedrun.Game(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]speedrun.Game)
	return append([]speedrun.Game(nil), items...), nil
}

type cachedLeaderboard struct {
	value  speedrun.Leaderboard
	exists bool
}

func idsKey(ids []string) string {
	sorted := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			sorted = append(sorted, id)
		}
	}
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
