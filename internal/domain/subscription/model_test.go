package subscription

import "testing"

func TestParseEntityType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    EntityType
		wantErr bool
	}{
		{raw: "game", want: EntityTypeGame},
		{raw: " Player ", want: EntityTypePlayer},
		{raw: "team", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParseEntityType(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseEntityType(%q) expected error", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseEntityType(%q) unexpected error: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParseEntityType(%q)=%q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestSubscriptionTopicAndValidate(t *testing.T) {
	t.Parallel()

	item := Subscription{EntityType: EntityTypePlayer, EntityID: "zx7gd1yx"}
	if item.Topic() != "player_zx7gd1yx" {
		t.Fatalf("unexpected topic %q", item.Topic())
	}
	if err := item.Validate(); err != nil {
		t.Fatalf("expected valid subscription, got %v", err)
	}

	if err := (Subscription{EntityType: EntityTypeGame}).Validate(); err == nil {
		t.Fatalf("expected missing entity id to fail validation")
	}
	if err := (Subscription{EntityType: "team", EntityID: "x"}).Validate(); err == nil {
		t.Fatalf("expected unknown entity type to fail validation")
	}
}
