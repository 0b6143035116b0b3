package usecases

import (
	"context"
	"time"
	"vehicle-dashboard/internal/shared_kernel/domain"
)

//go:generate mockgen -source=./api.go -destination=../../../test/unit/doubles/control_plane/usecases/api_mock.go -package=usecases

type CommandService interface {
	AvailableCommands(context.Context) ([]domain.CommandDescriptor, error)
	Submit(ctx context.Context, vehicleID domain.VehicleID, commandID domain.CommandID, params map[string]any) (domain.CommandHandle, error)
	Get(context.Context, domain.TrackingID) (domain.CommandHandle, error)
	Cancel(context.Context, domain.TrackingID) (domain.CommandHandle, error)
	List(context.Context, domain.VehicleID) ([]domain.CommandHandle, error)
}

type VehicleStateService interface {
	Get(context.Context, domain.VehicleID) (domain.VehicleStateSnapshot, bool)
	Refresh(context.Context, domain.VehicleID) (domain.VehicleStateSnapshot, error)
}

type SessionService interface {
	SelectVehicle(context.Context, domain.VehicleID) (SessionInfo, error)
	Current(context.Context) SessionInfo
}

// SessionInfo describes the vehicle the dashboard is working on.
type SessionInfo struct {
	VehicleID      domain.VehicleID `json:"vehicle_id,omitempty"`
	SelectedAt     time.Time        `json:"selected_at,omitempty"`
	ActiveCommands int              `json:"active_commands"`
}
