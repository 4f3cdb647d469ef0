package postgres

import (
	"time"

	"github.com/riskibarqy/speedrun-browser/internal/domain/subscription"
)

const subscriptionsTable = "subscriptions"

type subscriptionTableModel struct {
	ID         int64     `db:"id,readonly"`
	EntityType string    `db:"entity_type"`
	EntityID   string    `db:"entity_id"`
	CreatedAt  time.Time `db:"created_at"`
}

func (m subscriptionTableModel) toDomain() subscription.Subscription {
	return subscription.Subscription{
		EntityType: subscription.EntityType(m.EntityType),
		EntityID:   m.EntityID,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}
