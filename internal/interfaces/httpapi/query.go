package httpapi

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/riskibarqy/speedrun-browser/internal/domain/speedrun"
	"github.com/riskibarqy/speedrun-browser/internal/usecase"
)

const variableQueryPrefix = "var."

// parseVariableSelections reads "var.<variableID>=<valueID>" parameters. Blank
// values are ignored. A variable given two different values is rejected.
func parseVariableSelections(query url.Values) (speedrun.VariableSelections, error) {
	var selections speedrun.VariableSelections
	for key, values := range query {
		if !strings.HasPrefix(key, variableQueryPrefix) {
			continue
		}
		variableID := strings.TrimSpace(strings.TrimPrefix(key, variableQueryPrefix))
		if variableID == "" {
			return nil, fmt.Errorf("%w: variable id is required in %q", usecase.ErrInvalidInput, key)
		}

		chosen := ""
		for _, value := range values {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			if chosen != "" && chosen != value {
				return nil, fmt.Errorf("%w: variable %s has more than one value", usecase.ErrInvalidInput, variableID)
			}
			chosen = value
		}
		if chosen == "" {
			continue
		}
		if selections == nil {
			selections = make(speedrun.VariableSelections)
		}
		selections[variableID] = chosen
	}
	return selections, nil
}

// splitIDs reads a comma separated id list, dropping blanks.
func splitIDs(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
