//go:build wireinject
// +build wireinject

package wire

import (
	"vehicle-dashboard/cmd/config"
	"vehicle-dashboard/internal/control_plane/communication"
	"vehicle-dashboard/internal/control_plane/communication/push"
	"vehicle-dashboard/internal/control_plane/httpapi"
	"vehicle-dashboard/internal/control_plane/persistence"
	"vehicle-dashboard/internal/control_plane/usecases"
	"vehicle-dashboard/internal/infra/async"
	"vehicle-dashboard/internal/infra/sql"

	"github.com/google/wire"
)

var KeyStoreSet = wire.NewSet(
	provideDatabase,
	wire.Bind(new(sql.ORM), new(*sql.DB)),
	provideSealer,
	persistence.NewCredentialRepository,
	wire.Bind(new(usecases.KeyStore), new(*persistence.SimpleCredentialRepository)),
)

var BackendSet = wire.NewSet(
	provideBackendClient,
	wire.Bind(new(usecases.CommandSender), new(*communication.BackendClient)),
	wire.Bind(new(usecases.StatusReader), new(*communication.BackendClient)),
	wire.Bind(new(usecases.VehicleStateFetcher), new(*communication.BackendClient)),
	wire.Bind(new(usecases.CatalogSource), new(*communication.BackendClient)),
)

var VehicleStateSet = wire.NewSet(
	provideSnapshotStore,
	provideStateCacheConfig,
	usecases.NewVehicleStateCache,
	wire.Bind(new(usecases.VehicleStateService), new(*usecases.VehicleStateCache)),
	wire.Bind(new(push.StateSink), new(*usecases.VehicleStateCache)),
)

var CommandServiceSet = wire.NewSet(
	provideCommandCatalog,
	wire.Bind(new(usecases.CommandResolver), new(*usecases.CommandCatalog)),
	usecases.NewCommandDispatcher,
	provideStatusTable,
	providePollerConfig,
	usecases.NewStatusPoller,
	provideCommandHistory,
	provideCommandService,
	wire.Bind(new(usecases.CommandService), new(*usecases.SimpleCommandService)),
	wire.Bind(new(usecases.VehicleCommands), new(*usecases.SimpleCommandService)),
)

var SessionSet = wire.NewSet(
	usecases.NewSessionService,
	wire.Bind(new(usecases.SessionService), new(*usecases.SimpleSessionService)),
	wire.Bind(new(usecases.SelectedVehicleProvider), new(*usecases.SimpleSessionService)),
)

var ControllerSet = wire.NewSet(
	httpapi.NewKeyController,
	httpapi.NewCommandController,
	httpapi.NewVehicleStateController,
	httpapi.NewSessionController,
	httpapi.NewVehicleWebSocketController,
)

func InitializeApplication(cfg config.AppConfig, broker async.InternalBroker) (*Application, func(), error) {
	wire.Build(
		KeyStoreSet,
		BackendSet,
		VehicleStateSet,
		CommandServiceSet,
		SessionSet,
		ControllerSet,
		provideSchedulerWorker,
		provideWorkers,
		provideHTTPServer,
		provideApplication,
	)
	return nil, nil, nil
}
