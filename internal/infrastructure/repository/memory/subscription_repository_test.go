package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/speedrun-browser/internal/domain/subscription"
)

func TestSubscriptionRepository_SaveIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewSubscriptionRepository()
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	saved, err := repo.Save(ctx, subscription.Subscription{EntityType: subscription.EntityTypeGame, EntityID: "g1", CreatedAt: first})
	require.NoError(t, err)
	assert.Equal(t, first, saved.CreatedAt)

	again, err := repo.Save(ctx, subscription.Subscription{EntityType: subscription.EntityTypeGame, EntityID: " g1 ", CreatedAt: first.Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, first, again.CreatedAt)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestSubscriptionRepository_ListKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewSubscriptionRepository(
		subscription.Subscription{EntityType: subscription.EntityTypePlayer, EntityID: "p1"},
		subscription.Subscription{EntityType: subscription.EntityTypeGame, EntityID: "g1"},
	)
	_, err := repo.Save(ctx, subscription.Subscription{EntityType: subscription.EntityTypeGame, EntityID: "g2"})
	require.NoError(t, err)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "player_p1", items[0].Topic())
	assert.Equal(t, "game_g1", items[1].Topic())
	assert.Equal(t, "game_g2", items[2].Topic())
	for _, item := range items {
		assert.False(t, item.CreatedAt.IsZero())
	}
}

func TestSubscriptionRepository_GetAndDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewSubscriptionRepository(subscription.Subscription{EntityType: subscription.EntityTypeGame, EntityID: "g1"})

	_, ok, err := repo.Get(ctx, subscription.EntityTypeGame, "g1")
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = repo.Get(ctx, subscription.EntityTypePlayer, "g1")
	require.NoError(t, err)
	assert.False(t, ok)

	deleted, err := repo.Delete(ctx, subscription.EntityTypeGame, "g1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, subscription.EntityTypeGame, "g1")
	require.NoError(t, err)
	assert.False(t, deleted)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSubscriptionRepository_SaveRejectsInvalid(t *testing.T) {
	t.Parallel()

	repo := NewSubscriptionRepository()
	_, err := repo.Save(context.Background(), subscription.Subscription{EntityType: "team", EntityID: "x"})
	require.Error(t, err)
}
