package driver

import (
	"net/http/httptest"
	"time"
	"vehicle-dashboard/cmd/api/wire"
	"vehicle-dashboard/cmd/config"
	"vehicle-dashboard/internal/infra/async"
)

// Environment runs the dashboard API in process against a BackendDouble.
type Environment struct {
	Backend *BackendDouble
	API     *APIDriver

	server  *httptest.Server
	broker  *async.LocalBroker
	cleanup func()
}

func StartEnvironment() (*Environment, error) {
	backend := NewBackendDouble()
	broker := async.NewLocalBroker()

	app, cleanup, err := wire.InitializeApplication(environmentConfig(backend.URL()), broker)
	if err != nil {
		broker.Stop()
		backend.Close()
		return nil, err
	}

	server := httptest.NewServer(app.Server.Handler())

	return &Environment{
		Backend: backend,
		API:     NewAPIDriver(server.URL),
		server:  server,
		broker:  broker,
		cleanup: cleanup,
	}, nil
}

func (e *Environment) Stop() {
	e.server.Close()
	e.cleanup()
	e.broker.Stop()
	e.Backend.Close()
}

func environmentConfig(backendURL string) config.AppConfig {
	return config.AppConfig{
		General: config.GeneralConfig{LogLevel: "error"},
		Backend: config.BackendConfig{
			BaseURL: backendURL,
			Timeout: 5 * time.Second,
		},
		KeyStore: config.KeyStoreConfig{
			Driver:        "memory",
			Timeout:       5 * time.Second,
			EncryptionKey: "functional-suite-key",
			Salt:          "vehicle-dashboard",
		},
		Poller: config.PollerConfig{
			Interval:    20 * time.Millisecond,
			MaxAttempts: 50,
		},
		StateCache: config.StateCacheConfig{
			Coalesce: true,
			Store:    "memory",
		},
		Push: config.PushConfig{Transport: "none"},
		History: config.HistoryConfig{
			MaxAge:        time.Hour,
			PurgeSchedule: "@every 1h",
		},
	}
}
