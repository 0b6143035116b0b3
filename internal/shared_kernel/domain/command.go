package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
)

type ParameterType string

const (
	ParameterTypeInteger ParameterType = "integer"
	ParameterTypeNumber  ParameterType = "number"
	ParameterTypeString  ParameterType = "string"
)

// ParameterSpec describes one parameter accepted by a command.
// Bounds are optional and only apply to numeric values.
type ParameterSpec struct {
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	Type          ParameterType `json:"type,omitempty"`
	Min           *float64      `json:"min,omitempty"`
	Max           *float64      `json:"max,omitempty"`
	AllowedValues []float64     `json:"allowed_values,omitempty"`
}

// Check validates a numeric value against the declared bounds.
// Non numeric values are accepted as is.
func (p ParameterSpec) Check(value any) error {
	number, ok := NumericValue(value)
	if !ok {
		return nil
	}

	if p.Type == ParameterTypeInteger && number != math.Trunc(number) {
		return fmt.Errorf("%s must be an integer, got %v", p.Name, value)
	}
	if p.Min != nil && number < *p.Min {
		return fmt.Errorf("%s must be >= %v, got %v", p.Name, *p.Min, value)
	}
	if p.Max != nil && number > *p.Max {
		return fmt.Errorf("%s must be <= %v, got %v", p.Name, *p.Max, value)
	}
	if len(p.AllowedValues) > 0 && !slices.Contains(p.AllowedValues, number) {
		return fmt.Errorf("%s must be one of %v, got %v", p.Name, p.AllowedValues, value)
	}

	return nil
}

// NumericValue reports the float64 form of any Go numeric value.
func NumericValue(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// CommandDescriptor is an immutable catalog entry.
type CommandDescriptor struct {
	ID          CommandID       `json:"id"`
	DisplayName string          `json:"display_name"`
	Description string          `json:"description,omitempty"`
	Parameters  []ParameterSpec `json:"parameters"`
}

func (d CommandDescriptor) Parameter(name string) (ParameterSpec, bool) {
	for _, p := range d.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterSpec{}, false
}

// DisplayNameFromID turns HONK_AND_FLASH_LIGHTS into "Honk And Flash Lights".
func DisplayNameFromID(id CommandID) string {
	words := strings.FieldsFunc(string(id), func(r rune) bool { return r == '_' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// CommandRequest is built fresh for every dispatch and never retained.
type CommandRequest struct {
	VehicleID   VehicleID
	CommandID   CommandID
	Credentials CredentialBundle
	Params      map[string]any
}

type CommandState string

const (
	CommandStatePending    CommandState = "pending"
	CommandStateInProgress CommandState = "in_progress"
	CommandStateCompleted  CommandState = "completed"
	CommandStateFailed     CommandState = "failed"
	CommandStateUnknown    CommandState = "unknown"
	CommandStateTimedOut   CommandState = "timed_out"
)

// IsTerminal reports whether polling stops in this state.
func (s CommandState) IsTerminal() bool {
	switch s {
	case CommandStateCompleted, CommandStateFailed, CommandStateTimedOut:
		return true
	default:
		return false
	}
}

func (s CommandState) String() string {
	return string(s)
}

// CommandHandle tracks one dispatched command until it resolves.
type CommandHandle struct {
	TrackingID  TrackingID        `json:"tracking_id"`
	VehicleID   VehicleID         `json:"vehicle_id"`
	Descriptor  CommandDescriptor `json:"command"`
	SubmittedAt time.Time         `json:"submitted_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	State       CommandState      `json:"state"`
	Attempts    int               `json:"attempts"`
	LastError   string            `json:"last_error,omitempty"`
}

func (h CommandHandle) IsTerminal() bool {
	return h.State.IsTerminal()
}

func NewCommandHandleBuilder() *commandHandleBuilder {
	return &commandHandleBuilder{}
}

type commandHandleBuilder struct {
	actions []commandHandleHandler
}

type commandHandleHandler func(v *CommandHandle) error

func (b *commandHandleBuilder) WithTrackingID(value TrackingID) *commandHandleBuilder {
	b.actions = append(b.actions, func(d *CommandHandle) error {
		if strings.TrimSpace(value.String()) == "" {
			return ErrTrackingIDRequired
		}
		d.TrackingID = value
		return nil
	})
	return b
}

func (b *commandHandleBuilder) WithVehicleID(value VehicleID) *commandHandleBuilder {
	b.actions = append(b.actions, func(d *CommandHandle) error {
		d.VehicleID = value
		return nil
	})
	return b
}

func (b *commandHandleBuilder) WithDescriptor(value CommandDescriptor) *commandHandleBuilder {
	b.actions = append(b.actions, func(d *CommandHandle) error {
		d.Descriptor = value
		return nil
	})
	return b
}

func (b *commandHandleBuilder) WithSubmittedAt(value time.Time) *commandHandleBuilder {
	b.actions = append(b.actions, func(d *CommandHandle) error {
		d.SubmittedAt = value
		return nil
	})
	return b
}

func (b *commandHandleBuilder) Build() (CommandHandle, error) {
	now := time.Now()
	result := CommandHandle{
		SubmittedAt: now,
		UpdatedAt:   now,
		State:       CommandStatePending,
	}
	for _, a := range b.actions {
		if err := a(&result); err != nil {
			return CommandHandle{}, err
		}
	}
	if result.TrackingID == "" {
		return CommandHandle{}, ErrTrackingIDRequired
	}
	if result.VehicleID == "" {
		return CommandHandle{}, ErrVehicleIDRequired
	}
	result.UpdatedAt = result.SubmittedAt
	return result, nil
}
