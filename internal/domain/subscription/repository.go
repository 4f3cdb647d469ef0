package subscription

import "context"

// Repository persists subscription records keyed by (entity type, entity id).
type Repository interface {
	Get(ctx context.Context, entityType EntityType, entityID string) (Subscription, bool, error)
	List(ctx context.Context) ([]Subscription, error)
	// Save stores item. Saving an existing record keeps the original and is not an error.
	Save(ctx context.Context, item Subscription) (Subscription, error)
	// Delete removes a record and reports whether one existed.
	Delete(ctx context.Context, entityType EntityType, entityID string) (bool, error)
}
