package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/speedrun-browser/internal/domain/subscription"
	"github.com/riskibarqy/speedrun-browser/internal/platform/logging"
)

// TopicPublisher registers push notification topics.
type TopicPublisher interface {
	SubscribeTopic(ctx context.Context, topic string) error
	UnsubscribeTopic(ctx context.Context, topic string) error
}

type noopTopicPublisher struct{}

func (noopTopicPublisher) SubscribeTopic(_ context.Context, _ string) error   { return nil }
func (noopTopicPublisher) UnsubscribeTopic(_ context.Context, _ string) error { return nil }

type SubscriptionInput struct {
	EntityType string `validate:"required,oneof=game player"`
	EntityID   string `validate:"required,max=64"`
}

type SubscriptionService struct {
	repo      subscription.Repository
	publisher TopicPublisher
	logger    *logging.Logger
	now       func() time.Time
}

func NewSubscriptionService(repo subscription.Repository, publisher TopicPublisher, logger *logging.Logger) *SubscriptionService {
	if publisher == nil {
		publisher = noopTopicPublisher{}
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &SubscriptionService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *SubscriptionService) List(ctx context.Context) ([]subscription.Subscription, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubscriptionService.List")
	defer span.End()

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return items, nil
}

func (s *SubscriptionService) Get(ctx context.Context, input SubscriptionInput) (subscription.Subscription, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubscriptionService.Get")
	defer span.End()

	entityType, entityID, err := parseSubscriptionInput(input)
	if err != nil {
		return subscription.Subscription{}, err
	}

	item, exists, err := s.repo.Get(ctx, entityType, entityID)
	if err != nil {
		return subscription.Subscription{}, fmt.Errorf("get subscription: %w", err)
	}
	if !exists {
		return subscription.Subscription{}, notFoundf("subscription=%s", subscription.TopicName(entityType, entityID))
	}
	return item, nil
}

// Subscribe registers the push topic and then stores the record. Subscribing
// to something already followed returns the existing record.
func (s *SubscriptionService) Subscribe(ctx context.Context, input SubscriptionInput) (subscription.Subscription, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubscriptionService.Subscribe")
	defer span.End()

	entityType, entityID, err := parseSubscriptionInput(input)
	if err != nil {
		return subscription.Subscription{}, err
	}

	existing, exists, err := s.repo.Get(ctx, entityType, entityID)
	if err != nil {
		return subscription.Subscription{}, fmt.Errorf("get subscription: %w", err)
	}
	if exists {
		return existing, nil
	}

	item := subscription.Subscription{
		EntityType: entityType,
		EntityID:   entityID,
		CreatedAt:  s.now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return subscription.Subscription{}, invalidInputf("%v", err)
	}

	if err := s.publisher.SubscribeTopic(ctx, item.Topic()); err != nil {
		return subscription.Subscription{}, fmt.Errorf("subscribe topic %s: %w", item.Topic(), err)
	}

	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		return subscription.Subscription{}, fmt.Errorf("save subscription: %w", err)
	}

	s.logger.InfoContext(ctx, "subscribed", "topic", saved.Topic())
	return saved, nil
}

// Unsubscribe removes the push topic and then deletes the record.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, input SubscriptionInput) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubscriptionService.Unsubscribe")
	defer span.End()

	entityType, entityID, err := parseSubscriptionInput(input)
	if err != nil {
		return err
	}

	topic := subscription.TopicName(entityType, entityID)
	_, exists, err := s.repo.Get(ctx, entityType, entityID)
	if err != nil {
		return fmt.Errorf("get subscription: %w", err)
	}
	if !exists {
		return notFoundf("subscription=%s", topic)
	}

	if err := s.publisher.UnsubscribeTopic(ctx, topic); err != nil {
		return fmt.Errorf("unsubscribe topic %s: %w", topic, err)
	}

	deleted, err := s.repo.Delete(ctx, entityType, entityID)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	if !deleted {
		return notFoundf("subscription=%s", topic)
	}

	s.logger.InfoContext(ctx, "unsubscribed", "topic", topic)
	return nil
}

func parseSubscriptionInput(input SubscriptionInput) (subscription.EntityType, string, error) {
	entityType, err := subscription.ParseEntityType(input.EntityType)
	if err != nil {
		return "", "", invalidInputf("%v", err)
	}

	entityID := strings.TrimSpace(input.EntityID)
	if entityID == "" {
		return "", "", invalidInputf("entity id is required")
	}
	return entityType, entityID, nil
}
