package wire

import (
	"fmt"
	"log/slog"
	"strings"
	"vehicle-dashboard/cmd/config"
	"vehicle-dashboard/internal/control_plane/communication"
	"vehicle-dashboard/internal/control_plane/communication/push"
	"vehicle-dashboard/internal/control_plane/httpapi"
	"vehicle-dashboard/internal/control_plane/persistence"
	"vehicle-dashboard/internal/control_plane/usecases"
	"vehicle-dashboard/internal/infra/async"
	"vehicle-dashboard/internal/infra/cache"
	"vehicle-dashboard/internal/infra/httpserver"
	"vehicle-dashboard/internal/infra/mqtt"
	"vehicle-dashboard/internal/infra/node"
	"vehicle-dashboard/internal/infra/secret"
	"vehicle-dashboard/internal/infra/sql"
	"vehicle-dashboard/internal/shared_kernel/domain"
)

// Application is everything main starts and stops.
type Application struct {
	Server    *httpserver.StandardServer
	Workers   []async.Worker
	WebSocket *httpapi.VehicleWebSocketController
	Commands  *usecases.SimpleCommandService
}

func provideApplication(
	server *httpserver.StandardServer,
	workers []async.Worker,
	webSocket *httpapi.VehicleWebSocketController,
	commands *usecases.SimpleCommandService,
) *Application {
	return &Application{
		Server:    server,
		Workers:   workers,
		WebSocket: webSocket,
		Commands:  commands,
	}
}

func provideHTTPServer(
	cfg config.AppConfig,
	keys *httpapi.KeyController,
	commands *httpapi.CommandController,
	states *httpapi.VehicleStateController,
	session *httpapi.SessionController,
	webSocket *httpapi.VehicleWebSocketController,
) *httpserver.StandardServer {
	return httpserver.NewServer(httpserver.Config{
		Addr:           cfg.HTTP.Addr,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		ShutdownGrace:  cfg.HTTP.ShutdownGrace,
	}, keys, commands, states, session, webSocket)
}

func provideDatabase(cfg config.AppConfig) (*sql.DB, error) {
	switch strings.ToLower(cfg.KeyStore.Driver) {
	case "memory":
		return sql.NewMemoryORM("keystore")
	case "postgres":
		return sql.NewPosgreORM(cfg.KeyStore.DSN, cfg.KeyStore.Timeout)
	case "sqlite", "":
		return sql.NewSQLiteORM(cfg.KeyStore.Path, cfg.KeyStore.Timeout)
	default:
		return nil, fmt.Errorf("unsupported keystore driver %q", cfg.KeyStore.Driver)
	}
}

func provideSealer(cfg config.AppConfig) (secret.Sealer, error) {
	if cfg.KeyStore.EncryptionKey == "" {
		slog.Warn("keystore encryption key not set, credential bundles are stored unsealed")
		return secret.Plaintext{}, nil
	}
	return secret.NewXChaChaSealer(cfg.KeyStore.EncryptionKey, []byte(cfg.KeyStore.Salt))
}

func provideBackendClient(cfg config.AppConfig) (*communication.BackendClient, error) {
	return communication.NewBackendClient(communication.BackendClientConfig{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
		Tokens: domain.SessionTokens{
			CSRFToken:        cfg.Backend.CSRFToken,
			AppSessionToken:  cfg.Backend.AppSessionToken,
			UserSessionToken: cfg.Backend.UserSessionToken,
		},
	})
}

func provideCommandCatalog(source usecases.CatalogSource) *usecases.CommandCatalog {
	return usecases.NewCommandCatalog(source, usecases.NewBuiltinCatalogSource())
}

func provideStatusTable(cfg config.AppConfig) (usecases.StatusTable, error) {
	return usecases.NewStatusTable(cfg.Poller.StatusCodes, cfg.Poller.StatusNames)
}

func providePollerConfig(cfg config.AppConfig) usecases.PollerConfig {
	return usecases.PollerConfig{
		Interval:    cfg.Poller.Interval,
		MaxAttempts: cfg.Poller.MaxAttempts,
	}
}

func provideStateCacheConfig(cfg config.AppConfig) usecases.StateCacheConfig {
	return usecases.StateCacheConfig{Coalesce: cfg.StateCache.Coalesce}
}

func provideSnapshotStore(cfg config.AppConfig) (usecases.SnapshotStore, func(), error) {
	var (
		backing cache.Cache
		cleanup = func() {}
	)

	switch strings.ToLower(cfg.StateCache.Store) {
	case "memory", "":
		return persistence.NewSimpleSnapshotStore(), cleanup, nil
	case "ristretto":
		local, err := cache.New(nil)
		if err != nil {
			return nil, nil, err
		}
		backing, cleanup = local, local.Close
	case "redis":
		redisConfig := cache.DefaultRedisConfig()
		redisConfig.Addr = cfg.Redis.Addr
		redisConfig.Password = cfg.Redis.Password
		redisConfig.DB = cfg.Redis.DB
		remote, err := cache.NewRedisCache(redisConfig)
		if err != nil {
			return nil, nil, err
		}
		backing = remote
	default:
		return nil, nil, fmt.Errorf("unsupported state cache store %q", cfg.StateCache.Store)
	}

	storeConfig := persistence.DefaultCachedSnapshotStoreConfig()
	storeConfig.Cache = backing
	if cfg.StateCache.TTL > 0 {
		storeConfig.DefaultTTL = cfg.StateCache.TTL
	}
	store, err := persistence.NewCachedSnapshotStore(storeConfig)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return store, cleanup, nil
}

func provideCommandHistory(cfg config.AppConfig) *usecases.CommandHistory {
	return usecases.NewCommandHistory(cfg.History.MaxAge)
}

func provideCommandService(
	catalog *usecases.CommandCatalog,
	dispatcher *usecases.CommandDispatcher,
	poller *usecases.StatusPoller,
	history *usecases.CommandHistory,
	states usecases.VehicleStateService,
	broker async.InternalBroker,
) (*usecases.SimpleCommandService, func()) {
	service := usecases.NewCommandService(catalog, dispatcher, poller, history, states, broker)
	return service, service.Close
}

func provideSchedulerWorker(
	cfg config.AppConfig,
	session usecases.SelectedVehicleProvider,
	states usecases.VehicleStateService,
	history *usecases.CommandHistory,
) (*usecases.SchedulerWorker, error) {
	jobs := []usecases.ScheduledJob{
		usecases.NewHistoryPurgeJob(cfg.History.PurgeSchedule, history),
	}

	if cfg.Refresh.Enabled {
		vehicles := make([]domain.VehicleID, 0, len(cfg.Refresh.Vehicles))
		for _, id := range cfg.Refresh.Vehicles {
			vehicles = append(vehicles, domain.VehicleID(strings.TrimSpace(id)))
		}
		jobs = append(jobs, usecases.NewVehicleRefreshJob(
			cfg.Refresh.Schedule, session, states, vehicles, cfg.Refresh.Concurrency))
	}

	return usecases.NewSchedulerWorker(jobs...)
}

func provideWorkers(cfg config.AppConfig, scheduler *usecases.SchedulerWorker, sink push.StateSink) ([]async.Worker, error) {
	workers := []async.Worker{scheduler}

	switch strings.ToLower(cfg.Push.Transport) {
	case "none", "":
	case "websocket":
		workers = append(workers, push.NewWebSocketTransport(push.WebSocketTransportConfig{
			URL: cfg.Push.WebSocketURL,
			Tokens: domain.SessionTokens{
				CSRFToken:        cfg.Backend.CSRFToken,
				AppSessionToken:  cfg.Backend.AppSessionToken,
				UserSessionToken: cfg.Backend.UserSessionToken,
			},
			ReconnectDelay: cfg.Push.ReconnectDelay,
		}, sink))
	case "mqtt":
		clientID := cfg.MQTTClient.ClientID
		if clientID == "" {
			clientID = node.GetNodeInfo().ClientID("vehicle-dashboard")
		}
		client, err := mqtt.NewSimpleClient(mqtt.SimpleClientOpts{
			Broker:   cfg.MQTTClient.Broker,
			ClientID: clientID,
			Username: cfg.MQTTClient.Username,
			Password: cfg.MQTTClient.Password, //pragma: allowlist secret
		})
		if err != nil {
			return nil, err
		}
		workers = append(workers, push.NewMQTTTransport(push.MQTTTransportConfig{
			TopicRoot: cfg.Push.TopicRoot,
			QoS:       cfg.Push.QoS,
		}, client, sink))
	default:
		return nil, fmt.Errorf("unsupported push transport %q", cfg.Push.Transport)
	}

	return workers, nil
}
