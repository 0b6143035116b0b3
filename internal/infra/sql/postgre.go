package sql

import (
	"fmt"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const _postgresPasswordEnv = "VEHICLE_DASHBOARD_POSTGRES_PASSWORD"

func NewPosgreORM(dsn string, timeout time.Duration) (*DB, error) {
	pass, ok := os.LookupEnv(_postgresPasswordEnv)
	if ok {
		dsn = fmt.Sprintf("%s password=%s", dsn, pass)
	}

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return &DB{
		DB:                   gormDB,
		autoMigrationEnabled: true,
		timeout:              timeout,
	}, nil
}
