package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/speedrun-browser/internal/domain/subscription"
)

// SubscriptionRepository keeps subscriptions in process memory, ordered by insertion.
type SubscriptionRepository struct {
	mu    sync.RWMutex
	items map[string]subscription.Subscription
	order []string
	now   func() time.Time
}

var _ subscription.Repository = (*SubscriptionRepository)(nil)

func NewSubscriptionRepository(seed ...subscription.Subscription) *SubscriptionRepository {
	r := &SubscriptionRepository{
		items: make(map[string]subscription.Subscription, len(seed)),
		now:   time.Now,
	}
	for _, item := range seed {
		r.insertLocked(item)
	}
	return r
}

func (r *SubscriptionRepository) Get(_ context.Context, entityType subscription.EntityType, entityID string) (subscription.Subscription, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[subscription.TopicName(entityType, strings.TrimSpace(entityID))]
	return item, ok, nil
}

func (r *SubscriptionRepository) List(_ context.Context) ([]subscription.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]subscription.Subscription, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.items[key])
	}
	return out, nil
}

func (r *SubscriptionRepository) Save(_ context.Context, item subscription.Subscription) (subscription.Subscription, error) {
	if err := item.Validate(); err != nil {
		return subscription.Subscription{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.insertLocked(item), nil
}

func (r *SubscriptionRepository) Delete(_ context.Context, entityType subscription.EntityType, entityID string) (bool, error) {
	key := subscription.TopicName(entityType, strings.TrimSpace(entityID))

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[key]; !ok {
		return false, nil
	}
	delete(r.items, key)
	for i, existing := range r.order {
		if existing == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (r *SubscriptionRepository) insertLocked(item subscription.Subscription) subscription.Subscription {
	item.EntityID = strings.TrimSpace(item.EntityID)
	key := item.Topic()
	if existing, ok := r.items[key]; ok {
		return existing
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = r.now().UTC()
	}

	r.items[key] = item
	r.order = append(r.order, key)
	return item
}
