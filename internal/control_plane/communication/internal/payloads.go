package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
	"vehicle-dashboard/internal/shared_kernel/domain"
)

type CommandRequest struct {
	Command    string         `json:"command"`
	VehicleID  string         `json:"vehicle_id"`
	PhoneID    string         `json:"phone_id"`
	IdentityID string         `json:"identity_id"`
	VehicleKey string         `json:"vehicle_key"`
	PrivateKey string         `json:"private_key"`
	Params     map[string]any `json:"params,omitempty"`
}

func FromCommandRequest(request domain.CommandRequest) CommandRequest {
	return CommandRequest{
		Command:    request.CommandID.String(),
		VehicleID:  request.VehicleID.String(),
		PhoneID:    request.Credentials.PhoneID,
		IdentityID: request.Credentials.IdentityID,
		VehicleKey: request.Credentials.VehicleKey,
		PrivateKey: request.Credentials.PrivateKey,
		Params:     request.Params,
	}
}

type CommandAccepted struct {
	CommandID string `json:"command_id"`
}

// ErrorBody covers both {"error": "..."} and the {"detail": ...} bodies of
// the backend framework.
type ErrorBody struct {
	Error  string `json:"error"`
	Detail any    `json:"detail"`
}

func (b ErrorBody) Message() string {
	if b.Error != "" {
		return b.Error
	}
	switch v := b.Detail.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
}

type CommandCatalog struct {
	Commands     []string                      `json:"commands"`
	CommandsInfo map[string]CommandCatalogInfo `json:"commands_info"`
}

type CommandCatalogInfo struct {
	Description string                     `json:"description"`
	Params      map[string]json.RawMessage `json:"params"`
}

type ParameterInfo struct {
	Type          string    `json:"type"`
	Description   string    `json:"description"`
	Min           *float64  `json:"min"`
	Max           *float64  `json:"max"`
	AllowedValues []float64 `json:"allowed_values"`
}

// ToDescriptors keeps the order of the commands list. Commands only present in
// commands_info are appended sorted by id.
func (c CommandCatalog) ToDescriptors() ([]domain.CommandDescriptor, error) {
	ids := make([]string, 0, len(c.Commands)+len(c.CommandsInfo))
	listed := make(map[string]struct{}, len(c.Commands))
	for _, id := range c.Commands {
		listed[id] = struct{}{}
		ids = append(ids, id)
	}

	extra := make([]string, 0)
	for id := range c.CommandsInfo {
		if _, ok := listed[id]; !ok {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	ids = append(ids, extra...)

	descriptors := make([]domain.CommandDescriptor, 0, len(ids))
	for _, id := range ids {
		info := c.CommandsInfo[id]
		parameters, err := info.parameters()
		if err != nil {
			return nil, fmt.Errorf("command %s: %w", id, err)
		}
		descriptors = append(descriptors, domain.CommandDescriptor{
			ID:          domain.CommandID(id),
			Description: info.Description,
			Parameters:  parameters,
		})
	}
	return descriptors, nil
}

func (i CommandCatalogInfo) parameters() ([]domain.ParameterSpec, error) {
	names := make([]string, 0, len(i.Params))
	for name := range i.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	parameters := make([]domain.ParameterSpec, 0, len(names))
	for _, name := range names {
		raw := bytes.TrimSpace(i.Params[name])

		var description string
		if len(raw) > 0 && raw[0] == '"' {
			if err := json.Unmarshal(raw, &description); err != nil {
				return nil, fmt.Errorf("parameter %s: %w", name, err)
			}
			parameters = append(parameters, domain.ParameterSpec{Name: name, Description: description})
			continue
		}

		var info ParameterInfo
		if err := json.Unmarshal(raw, &info); err != nil {
			return nil, fmt.Errorf("parameter %s: %w", name, err)
		}
		parameters = append(parameters, domain.ParameterSpec{
			Name:          name,
			Description:   info.Description,
			Type:          domain.ParameterType(strings.ToLower(info.Type)),
			Min:           info.Min,
			Max:           info.Max,
			AllowedValues: info.AllowedValues,
		})
	}
	return parameters, nil
}

type signalPayload struct {
	Value     any      `json:"value"`
	TimeStamp string   `json:"timeStamp"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DecodeSignals reads a vehicle state object keyed by signal name. The object
// may be wrapped in {"data": {"vehicleState": {...}}}. Only value, timeStamp
// and the gnssLocation coordinates are kept; entries that are not signals are
// dropped.
func DecodeSignals(data []byte) (map[string]domain.Signal, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decoding vehicle state: %w", err)
	}

	if wrapped, ok := fields["data"]; ok {
		var envelope struct {
			VehicleState map[string]json.RawMessage `json:"vehicleState"`
		}
		if err := json.Unmarshal(wrapped, &envelope); err == nil && envelope.VehicleState != nil {
			fields = envelope.VehicleState
		}
	}

	return signalsFromFields(fields), nil
}

func signalsFromFields(fields map[string]json.RawMessage) map[string]domain.Signal {
	signals := make(map[string]domain.Signal, len(fields))
	for name, raw := range fields {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			continue
		}

		var payload signalPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			continue
		}

		signal := domain.Signal{Timestamp: parseTimestamp(payload.TimeStamp)}
		switch {
		case name == domain.SignalGnssLocation:
			if payload.Latitude == nil || payload.Longitude == nil {
				continue
			}
			signal.Value = Location{Latitude: *payload.Latitude, Longitude: *payload.Longitude}
		case payload.Value != nil:
			signal.Value = payload.Value
		default:
			continue
		}
		signals[name] = signal
	}
	return signals
}

// VehicleUpdate is a push frame: {"event": "vehicle_update", "data": {...}}.
type VehicleUpdate struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

const EventVehicleUpdate = "vehicle_update"

// DecodeVehicleUpdate returns the vehicle the frame belongs to, empty when
// the frame does not name one, and its signals.
func DecodeVehicleUpdate(data []byte) (domain.VehicleID, map[string]domain.Signal, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return "", nil, fmt.Errorf("decoding vehicle update: %w", err)
	}

	vehicleID, err := decodeVehicleID(fields["vehicle_id"])
	if err != nil {
		return "", nil, fmt.Errorf("decoding vehicle update: %w", err)
	}

	return vehicleID, signalsFromFields(fields), nil
}

// decodeVehicleID accepts the id as a JSON string or number. A missing or
// null id decodes to "".
func decodeVehicleID(raw json.RawMessage) (domain.VehicleID, error) {
	if len(raw) == 0 {
		return "", nil
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return "", fmt.Errorf("vehicle_id: %w", err)
	}

	switch id := value.(type) {
	case nil:
		return "", nil
	case string:
		return domain.VehicleID(strings.TrimSpace(id)), nil
	case json.Number:
		return domain.VehicleID(id.String()), nil
	default:
		return "", fmt.Errorf("vehicle_id: unexpected %T", value)
	}
}

func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
