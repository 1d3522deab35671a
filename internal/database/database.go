package database

import (
	"context"
	"fmt"
	"time"

	"quiz-digest/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // registers "oracle"
)

const (
	oracleDriverName   = "oracle"
	postgresDriverName = "pgx"
)

func init() {
	// go-ora takes :name placeholders; sqlx does not know the driver name.
	sqlx.BindDriver(oracleDriverName, sqlx.NAMED)
}

// DriverName maps a db.driver config value to the registered database/sql driver.
func DriverName(dbDriver string) (string, error) {
	switch dbDriver {
	case config.DBDriverOracle:
		return oracleDriverName, nil
	case config.DBDriverPostgres:
		return postgresDriverName, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", dbDriver)
	}
}

// NewSQLXDB opens and pings the configured database.
func NewSQLXDB(cfg *config.Config) (*sqlx.DB, error) {
	driverName, err := DriverName(cfg.DB.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driverName, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.DB.Driver, err)
	}
	if cfg.DB.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.DB.Driver, err)
	}
	return db, nil
}
