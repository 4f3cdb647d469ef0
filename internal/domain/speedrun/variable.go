package speedrun

type VariableValue struct {
	ID            string
	Label         string
	Rules         string
	Miscellaneous bool
}

// Variable is a category-defined classification axis for runs, e.g. "Glitches: Yes/No".
type Variable struct {
	ID            string
	Name          string
	CategoryID    string
	Mandatory     bool
	IsSubcategory bool
	DefaultValue  string
	Values        []VariableValue
}

func (v Variable) Value(valueID string) (VariableValue, bool) {
	for _, value := range v.Values {
		if value.ID == valueID {
			return value, true
		}
	}
	return VariableValue{}, false
}

// VariableSelections maps a variable id to the chosen value id.
// A nil or empty selection applies no filter.
type VariableSelections map[string]string

func (s VariableSelections) IsEmpty() bool {
	return len(s) == 0
}

// With returns a copy of s with variableID set to valueID.
func (s VariableSelections) With(variableID, valueID string) VariableSelections {
	out := make(VariableSelections, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[variableID] = valueID
	return out
}

// Without returns a copy of s with variableID removed.
func (s VariableSelections) Without(variableID string) VariableSelections {
	out := make(VariableSelections, len(s))
	for k, v := range s {
		if k == variableID {
			continue
		}
		out[k] = v
	}
	return out
}

// Scope keeps only the selections whose variable belongs to vars. A selection
// shared across every category of a game is scoped before filtering one board.
func (s VariableSelections) Scope(vars []Variable) VariableSelections {
	if len(s) == 0 {
		return s
	}

	out := make(VariableSelections, len(s))
	for _, v := range vars {
		if valueID, ok := s[v.ID]; ok {
			out[v.ID] = valueID
		}
	}
	return out
}

// Matches reports whether run recorded the chosen value for every selection.
// A run without a value for a selected variable does not match.
func (s VariableSelections) Matches(run Run) bool {
	for variableID, valueID := range s {
		recorded, ok := run.Values[variableID]
		if !ok || recorded != valueID {
			return false
		}
	}
	return true
}

// FilterRuns returns the runs of lb matching every selection, in leaderboard
// order. With no selections it returns lb.Runs itself, which callers must
// treat as read-only. An empty result means no runs match.
func FilterRuns(lb Leaderboard, selections VariableSelections) []RunEntry {
	if selections.IsEmpty() {
		return lb.Runs
	}

	out := make([]RunEntry, 0, len(lb.Runs))
	for _, entry := range lb.Runs {
		if selections.Matches(entry.Run) {
			out = append(out, entry)
		}
	}
	return out
}
