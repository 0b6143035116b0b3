package usecases

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"vehicle-dashboard/internal/shared_kernel/domain"
)

// StatusTable maps the backend's status codes and names to command states.
type StatusTable struct {
	codes map[int]domain.CommandState
	names map[string]domain.CommandState
}

func DefaultStatusTable() StatusTable {
	return StatusTable{
		codes: map[int]domain.CommandState{
			1: domain.CommandStatePending,
			2: domain.CommandStateInProgress,
			3: domain.CommandStateCompleted,
			4: domain.CommandStateFailed,
		},
		names: map[string]domain.CommandState{
			"pending":     domain.CommandStatePending,
			"queued":      domain.CommandStatePending,
			"in_progress": domain.CommandStateInProgress,
			"executing":   domain.CommandStateInProgress,
			"sent":        domain.CommandStateInProgress,
			"completed":   domain.CommandStateCompleted,
			"succeeded":   domain.CommandStateCompleted,
			"success":     domain.CommandStateCompleted,
			"failed":      domain.CommandStateFailed,
			"error":       domain.CommandStateFailed,
			"rejected":    domain.CommandStateFailed,
		},
	}
}

// NewStatusTable overrides entries of the default table. Keys of codes are
// the numeric codes as strings; values must be pending, in_progress,
// completed or failed.
func NewStatusTable(codes map[string]string, names map[string]string) (StatusTable, error) {
	table := DefaultStatusTable()

	for rawCode, rawState := range codes {
		code, err := strconv.Atoi(strings.TrimSpace(rawCode))
		if err != nil {
			return StatusTable{}, fmt.Errorf("status code %q: %w", rawCode, err)
		}
		state, err := parseReportedState(rawState)
		if err != nil {
			return StatusTable{}, err
		}
		table.codes[code] = state
	}

	for name, rawState := range names {
		state, err := parseReportedState(rawState)
		if err != nil {
			return StatusTable{}, err
		}
		table.names[normalizeStatusName(name)] = state
	}

	return table, nil
}

func parseReportedState(raw string) (domain.CommandState, error) {
	state := domain.CommandState(normalizeStatusName(raw))
	switch state {
	case domain.CommandStatePending, domain.CommandStateInProgress, domain.CommandStateCompleted, domain.CommandStateFailed:
		return state, nil
	default:
		return "", fmt.Errorf("%q is not a reportable command state", raw)
	}
}

func normalizeStatusName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// Map resolves a raw state value. ok is false for anything the table does not
// know, including nil and non integral numbers.
func (t StatusTable) Map(raw any) (domain.CommandState, bool) {
	switch v := raw.(type) {
	case string:
		if code, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return t.byCode(code)
		}
		state, ok := t.names[normalizeStatusName(v)]
		return state, ok
	case json.Number:
		code, err := v.Int64()
		if err != nil {
			return "", false
		}
		return t.byCode(int(code))
	case float64:
		if v != math.Trunc(v) {
			return "", false
		}
		return t.byCode(int(v))
	case int:
		return t.byCode(v)
	case int64:
		return t.byCode(int(v))
	default:
		return "", false
	}
}

func (t StatusTable) byCode(code int) (domain.CommandState, bool) {
	state, ok := t.codes[code]
	return state, ok
}
