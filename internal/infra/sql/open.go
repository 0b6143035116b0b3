package sql

import (
	"fmt"
	"log/slog"
	"time"
)

const (
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

type Config struct {
	Driver  string
	DSN     string
	Timeout time.Duration
}

// Open picks the driver named in config. DSN is a file path for sqlite, a
// database name for memory and a libpq connection string for postgres.
func Open(config Config) (*DB, error) {
	slog.Info("opening database", slog.String("driver", config.Driver))

	switch config.Driver {
	case DriverSQLite, "":
		return NewSQLiteORM(config.DSN, config.Timeout)
	case DriverMemory:
		return NewMemoryORM(config.DSN)
	case DriverPostgres:
		return NewPosgreORM(config.DSN, config.Timeout)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}
}
