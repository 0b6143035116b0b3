package usecases

import (
	"context"
	"vehicle-dashboard/internal/shared_kernel/domain"
)

//go:generate mockgen -source=ports.go -destination=../../../test/unit/doubles/control_plane/usecases/ports_mock.go -package=usecases -mock_names=KeyStore=MockKeyStore,CatalogSource=MockCatalogSource,CommandSender=MockCommandSender,StatusReader=MockStatusReader,VehicleStateFetcher=MockVehicleStateFetcher,SnapshotStore=MockSnapshotStore

// KeyStore keeps one credential bundle per vehicle. Set replaces the whole
// bundle and rejects incomplete ones with a *domain.ValidationError.
type KeyStore interface {
	Get(ctx context.Context, vehicleID domain.VehicleID) (domain.CredentialBundle, error)
	Set(ctx context.Context, vehicleID domain.VehicleID, bundle domain.CredentialBundle) error
	Clear(ctx context.Context, vehicleID domain.VehicleID) error
}

type CatalogSource interface {
	AvailableCommands(ctx context.Context) ([]domain.CommandDescriptor, error)
}

// CommandSender submits a command. Failures are returned as *domain.DispatchError.
type CommandSender interface {
	SendCommand(ctx context.Context, request domain.CommandRequest) (domain.TrackingID, error)
}

// StatusReport carries the raw state field of a status response: a number,
// a string or nil when the field is absent.
type StatusReport struct {
	State any
}

// StatusReader reads the state of a dispatched command. A body that cannot be
// decoded is reported with an error wrapping domain.ErrUnknownStatus.
type StatusReader interface {
	CommandStatus(ctx context.Context, trackingID domain.TrackingID) (StatusReport, error)
}

// VehicleStateFetcher pulls a snapshot. Failures are returned as *domain.FetchError.
type VehicleStateFetcher interface {
	FetchVehicleState(ctx context.Context, vehicleID domain.VehicleID) (domain.VehicleStateSnapshot, error)
}

type SnapshotStore interface {
	Get(ctx context.Context, vehicleID domain.VehicleID) (domain.VehicleStateSnapshot, bool)
	Put(ctx context.Context, snapshot domain.VehicleStateSnapshot) error
	Delete(ctx context.Context, vehicleID domain.VehicleID) error
}
