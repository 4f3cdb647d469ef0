package postgres

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"

	"github.com/riskibarqy/speedrun-browser/internal/domain/subscription"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches unique violation code", func(t *testing.T) {
		err := fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for 23505")
		}
	})

	t.Run("ignores other pq errors", func(t *testing.T) {
		if isUniqueViolation(&pq.Error{Code: "42P01"}) {
			t.Fatalf("expected false for undefined table")
		}
	})

	t.Run("ignores plain errors", func(t *testing.T) {
		if isUniqueViolation(fakeErr("duplicate key value violates unique constraint")) {
			t.Fatalf("expected false for non pq error")
		}
	})
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped sql.ErrNoRows to match")
	}
	if isNotFound(fakeErr("boom")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestSelectSubscriptionQuery(t *testing.T) {
	query, args, err := selectSubscriptionQuery(subscription.EntityTypeGame, " g1 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "SELECT id, entity_type, entity_id, created_at FROM subscriptions WHERE entity_type = $1 AND entity_id = $2 LIMIT 1"
	if query != want {
		t.Fatalf("unexpected query:\n got=%s\nwant=%s", query, want)
	}
	if len(args) != 2 || args[0] != "game" || args[1] != "g1" {
		t.Fatalf("unexpected args: %#v", args)
	}
}

func TestInsertSubscriptionQuery(t *testing.T) {
	createdAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	query, args, err := insertSubscriptionQuery(subscription.Subscription{
		EntityType: subscription.EntityTypePlayer,
		EntityID:   "zx7gd1yx",
		CreatedAt:  createdAt,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "INSERT INTO subscriptions (entity_type, entity_id, created_at) VALUES ($1, $2, $3) " +
		"ON CONFLICT (entity_type, entity_id) DO NOTHING RETURNING id, entity_type, entity_id, created_at"
	if query != want {
		t.Fatalf("unexpected query:\n got=%s\nwant=%s", query, want)
	}
	if len(args) != 3 || args[0] != "player" || args[1] != "zx7gd1yx" || args[2] != createdAt {
		t.Fatalf("unexpected args: %#v", args)
	}
}

func TestSubscriptionTableModelToDomain(t *testing.T) {
	local := time.Date(2024, 3, 1, 17, 0, 0, 0, time.FixedZone("WIB", 7*60*60))
	got := subscriptionTableModel{ID: 7, EntityType: "game", EntityID: "g1", CreatedAt: local}.toDomain()

	if got.EntityType != subscription.EntityTypeGame || got.EntityID != "g1" {
		t.Fatalf("unexpected subscription: %#v", got)
	}
	if got.CreatedAt.Location() != time.UTC || !got.CreatedAt.Equal(local) {
		t.Fatalf("expected created_at normalized to UTC, got %v", got.CreatedAt)
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
