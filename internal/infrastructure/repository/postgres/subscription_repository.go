package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/speedrun-browser/internal/domain/subscription"
	qb "github.com/riskibarqy/speedrun-browser/internal/platform/querybuilder"
)

type SubscriptionRepository struct {
	db *sqlx.DB
}

var _ subscription.Repository = (*SubscriptionRepository)(nil)

func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Get(ctx context.Context, entityType subscription.EntityType, entityID string) (subscription.Subscription, bool, error) {
	query, args, err := selectSubscriptionQuery(entityType, entityID)
	if err != nil {
		return subscription.Subscription{}, false, fmt.Errorf("build select subscription query: %w", err)
	}

	var row subscriptionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return subscription.Subscription{}, false, nil
		}
		return subscription.Subscription{}, false, fmt.Errorf("select subscription %s: %w", subscription.TopicName(entityType, entityID), err)
	}

	return row.toDomain(), true, nil
}

func (r *SubscriptionRepository) List(ctx context.Context) ([]subscription.Subscription, error) {
	sel, err := qb.SelectModel(subscriptionsTable, subscriptionTableModel{})
	if err != nil {
		return nil, fmt.Errorf("build list subscriptions query: %w", err)
	}
	query, args, err := sel.OrderBy("created_at", "id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list subscriptions query: %w", err)
	}

	var rows []subscriptionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select subscriptions: %w", err)
	}

	out := make([]subscription.Subscription, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Save inserts item. When the record already exists the stored row is returned unchanged.
func (r *SubscriptionRepository) Save(ctx context.Context, item subscription.Subscription) (subscription.Subscription, error) {
	if err := item.Validate(); err != nil {
		return subscription.Subscription{}, err
	}

	query, args, err := insertSubscriptionQuery(item)
	if err != nil {
		return subscription.Subscription{}, fmt.Errorf("build insert subscription query: %w", err)
	}

	var row subscriptionTableModel
	err = r.db.GetContext(ctx, &row, query, args...)
	switch {
	case err == nil:
		return row.toDomain(), nil
	case isNotFound(err), isUniqueViolation(err):
		existing, ok, getErr := r.Get(ctx, item.EntityType, item.EntityID)
		if getErr != nil {
			return subscription.Subscription{}, getErr
		}
		if !ok {
			return subscription.Subscription{}, fmt.Errorf("subscription %s vanished after conflicting insert", item.Topic())
		}
		return existing, nil
	default:
		return subscription.Subscription{}, fmt.Errorf("insert subscription %s: %w", item.Topic(), err)
	}
}

func (r *SubscriptionRepository) Delete(ctx context.Context, entityType subscription.EntityType, entityID string) (bool, error) {
	query, args, err := qb.DeleteFrom(subscriptionsTable).
		Where(
			qb.Eq("entity_type", string(entityType)),
			qb.Eq("entity_id", strings.TrimSpace(entityID)),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete subscription query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete subscription %s: %w", subscription.TopicName(entityType, entityID), err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete subscription rows affected: %w", err)
	}
	return affected > 0, nil
}

func selectSubscriptionQuery(entityType subscription.EntityType, entityID string) (string, []any, error) {
	sel, err := qb.SelectModel(subscriptionsTable, subscriptionTableModel{})
	if err != nil {
		return "", nil, err
	}
	return sel.
		Where(
			qb.Eq("entity_type", string(entityType)),
			qb.Eq("entity_id", strings.TrimSpace(entityID)),
		).
		Limit(1).
		ToSQL()
}

func insertSubscriptionQuery(item subscription.Subscription) (string, []any, error) {
	createdAt := item.CreatedAt.UTC()
	if item.CreatedAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	row := subscriptionTableModel{
		EntityType: string(item.EntityType),
		EntityID:   strings.TrimSpace(item.EntityID),
		CreatedAt:  createdAt,
	}
	return qb.InsertModel(subscriptionsTable, row, "ON CONFLICT (entity_type, entity_id) DO NOTHING", subscriptionTableModel{})
}
