package internal

import (
	"strings"
	"time"
	"vehicle-dashboard/internal/shared_kernel/domain"
)

type KeysRequest struct {
	PhoneID    string `json:"phone_id"`
	IdentityID string `json:"identity_id"`
	VehicleKey string `json:"vehicle_key"`
	PrivateKey string `json:"private_key"`
}

func (r KeysRequest) ToBundle() domain.CredentialBundle {
	return domain.CredentialBundle{
		PhoneID:    r.PhoneID,
		IdentityID: r.IdentityID,
		VehicleKey: r.VehicleKey,
		PrivateKey: r.PrivateKey,
	}
}

// KeysResponse never carries the key material in clear.
type KeysResponse struct {
	VehicleID  string `json:"vehicle_id"`
	PhoneID    string `json:"phone_id"`
	IdentityID string `json:"identity_id"`
	VehicleKey string `json:"vehicle_key"`
	PrivateKey string `json:"private_key"`
	Complete   bool   `json:"complete"`
}

func FromBundle(vehicleID domain.VehicleID, bundle domain.CredentialBundle) KeysResponse {
	masked := bundle.Masked()
	return KeysResponse{
		VehicleID:  vehicleID.String(),
		PhoneID:    masked.PhoneID,
		IdentityID: masked.IdentityID,
		VehicleKey: masked.VehicleKey,
		PrivateKey: masked.PrivateKey,
		Complete:   bundle.IsComplete(),
	}
}

type SubmitCommandRequest struct {
	CommandID string         `json:"command_id"`
	Command   string         `json:"command"`
	Params    map[string]any `json:"params"`
}

// ID accepts both command_id and the backend's command field.
func (r SubmitCommandRequest) ID() domain.CommandID {
	if id := strings.TrimSpace(r.CommandID); id != "" {
		return domain.CommandID(id)
	}
	return domain.CommandID(strings.TrimSpace(r.Command))
}

type CommandListResponse struct {
	Commands []domain.CommandDescriptor `json:"commands"`
}

type CommandHandleListResponse struct {
	Data []domain.CommandHandle `json:"data"`
}

// VehicleMessage is what the UI websocket receives.
type VehicleMessage struct {
	Type      string    `json:"type"`
	VehicleID string    `json:"vehicle_id"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

const (
	MessageTypeVehicleState = "vehicle_state"
	MessageTypeCommandState = "command_state"
)
