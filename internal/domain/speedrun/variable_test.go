package speedrun

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLeaderboard() Leaderboard {
	return Leaderboard{
		CategoryID: "cat-any",
		Runs: []RunEntry{
			{Place: 1, Run: Run{ID: "r1", Values: map[string]string{"v1": "a", "v2": "b"}}},
			{Place: 2, Run: Run{ID: "r2", Values: map[string]string{"v1": "x", "v2": "b"}}},
			{Place: 3, Run: Run{ID: "r3", Values: map[string]string{"v1": "a"}}},
			{Place: 3, Run: Run{ID: "r4"}},
			{Place: 5, Run: Run{ID: "r5", Values: map[string]string{"v1": "a", "v2": "c"}}},
		},
	}
}

func runIDs(entries []RunEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Run.ID)
	}
	return out
}

func TestFilterRuns_EmptySelectionsReturnsSourceRuns(t *testing.T) {
	t.Parallel()

	lb := sampleLeaderboard()
	for _, sel := range []VariableSelections{nil, {}} {
		got := FilterRuns(lb, sel)
		require.Len(t, got, len(lb.Runs))
		assert.Same(t, &lb.Runs[0], &got[0], "identity filter should alias the source runs")
	}
}

func TestFilterRuns_MatchesEverySelection(t *testing.T) {
	t.Parallel()

	lb := sampleLeaderboard()
	tests := []struct {
		name string
		sel  VariableSelections
		want []string
	}{
		{name: "single variable", sel: VariableSelections{"v1": "a"}, want: []string{"r1", "r3", "r5"}},
		{name: "two variables", sel: VariableSelections{"v1": "a", "v2": "b"}, want: []string{"r1"}},
		{name: "unknown value", sel: VariableSelections{"v1": "zzz"}, want: []string{}},
		{name: "variable missing on every run", sel: VariableSelections{"v3": "a"}, want: []string{}},
		{name: "variable missing on some runs", sel: VariableSelections{"v2": "b"}, want: []string{"r1", "r2"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := FilterRuns(lb, tc.sel)
			assert.Equal(t, tc.want, runIDs(got))
		})
	}
}

func TestFilterRuns_PreservesRankOrderAndIsRepeatable(t *testing.T) {
	t.Parallel()

	lb := sampleLeaderboard()
	sel := VariableSelections{"v1": "a"}

	first := FilterRuns(lb, sel)
	second := FilterRuns(lb, sel)
	require.Equal(t, first, second)

	lastPlace := 0
	for _, entry := range first {
		if entry.Place < lastPlace {
			t.Fatalf("rank order broken: place %d after %d", entry.Place, lastPlace)
		}
		lastPlace = entry.Place
	}
	assert.Equal(t, []string{"r1", "r2", "r3", "r4", "r5"}, runIDs(lb.Runs), "source runs must not be mutated")
}

func TestVariableSelections_Matches(t *testing.T) {
	t.Parallel()

	run := Run{Values: map[string]string{"v1": "a", "v2": "b"}}
	if !(VariableSelections{"v1": "a"}).Matches(run) {
		t.Fatalf("expected run to match v1=a")
	}
	if (VariableSelections{"v1": "x"}).Matches(run) {
		t.Fatalf("expected run not to match v1=x")
	}
	if (VariableSelections{"v3": "a"}).Matches(run) {
		t.Fatalf("expected run without v3 not to match")
	}
	if !(VariableSelections{}).Matches(Run{}) {
		t.Fatalf("empty selections should match any run")
	}
}

func TestVariableSelections_WithWithoutDoNotMutate(t *testing.T) {
	t.Parallel()

	base := VariableSelections{"v1": "a"}
	added := base.With("v2", "b")
	removed := added.Without("v1")

	assert.Equal(t, VariableSelections{"v1": "a"}, base)
	assert.Equal(t, VariableSelections{"v1": "a", "v2": "b"}, added)
	assert.Equal(t, VariableSelections{"v2": "b"}, removed)
}

func TestVariableSelections_Scope(t *testing.T) {
	t.Parallel()

	sel := VariableSelections{"v1": "a", "other-category-var": "z"}
	scoped := sel.Scope([]Variable{{ID: "v1"}, {ID: "v2"}})

	assert.Equal(t, VariableSelections{"v1": "a"}, scoped)
	assert.True(t, VariableSelections{"x": "y"}.Scope(nil).IsEmpty())
}

func TestVariable_Value(t *testing.T) {
	t.Parallel()

	v := Variable{ID: "glitches", Values: []VariableValue{{ID: "yes", Label: "Yes"}, {ID: "no", Label: "No"}}}
	got, ok := v.Value("no")
	require.True(t, ok)
	assert.Equal(t, "No", got.Label)

	_, ok = v.Value("maybe")
	assert.False(t, ok)
}
