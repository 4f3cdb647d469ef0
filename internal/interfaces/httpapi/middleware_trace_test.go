package httpapi

import "testing"

func TestShouldTraceRequest(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "/healthz", want: false},
		{path: " /Healthz/ ", want: false},
		{path: "/readyz", want: false},
		{path: "/openapi.yaml", want: false},
		{path: "/docs", want: false},
		{path: "/docs/index.html", want: false},
		{path: "/v1/games/g1", want: true},
		{path: "/v1/leaderboards/c1/levels/l1", want: true},
		{path: "/v1/players/p1/personal-bests", want: true},
		{path: "/", want: true},
		{path: "/documents", want: true},
	}

	for _, tt := range tests {
		if got := shouldTraceRequest(tt.path); got != tt.want {
			t.Fatalf("shouldTraceRequest(%q)=%v want=%v", tt.path, got, tt.want)
		}
	}
}
