package subscription

import (
	"fmt"
	"strings"
	"time"
)

// EntityType names what a subscription follows.
type EntityType string

const (
	EntityTypeGame   EntityType = "game"
	EntityTypePlayer EntityType = "player"
)

// ParseEntityType normalizes raw into a known entity type.
func ParseEntityType(raw string) (EntityType, error) {
	switch EntityType(strings.ToLower(strings.TrimSpace(raw))) {
	case EntityTypeGame:
		return EntityTypeGame, nil
	case EntityTypePlayer:
		return EntityTypePlayer, nil
	default:
		return "", fmt.Errorf("unsupported entity type %q", raw)
	}
}

// Subscription records that push notifications are wanted for one game or player.
type Subscription struct {
	EntityType EntityType
	EntityID   string
	CreatedAt  time.Time
}

// Topic is the push topic name of the subscription, e.g. "player_zx7gd1yx".
func (s Subscription) Topic() string {
	return TopicName(s.EntityType, s.EntityID)
}

func TopicName(entityType EntityType, entityID string) string {
	return string(entityType) + "_" + entityID
}

func (s Subscription) Validate() error {
	if _, err := ParseEntityType(string(s.EntityType)); err != nil {
		return err
	}
	if strings.TrimSpace(s.EntityID) == "" {
		return fmt.Errorf("subscription entity id is required")
	}

	return nil
}
