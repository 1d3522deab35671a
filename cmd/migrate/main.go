package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"quiz-digest/internal/config"
	"quiz-digest/internal/database"
	"quiz-digest/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const usage = `usage: migrate [flags] <up|down|version|force VERSION>

postgres supports every command; oracle supports up only.

flags:
`

func main() {
	steps := pflag.IntP("steps", "n", 0, "number of migrations to roll back with down (0 = all)")
	pflag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if pflag.NArg() < 1 {
		pflag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get().With(zap.String("driver", cfg.DB.Driver))
	defer logger.Sync()

	db, err := database.NewSQLXDB(cfg)
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	command := pflag.Arg(0)
	switch cfg.DB.Driver {
	case config.DBDriverOracle:
		if command != "up" {
			l.Fatal("Command not supported for oracle", zap.String("command", command))
		}
		m, err := database.NewEmbeddedOracleMigrator(db)
		if err != nil {
			l.Fatal("Failed to load migrations", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		applied, err := m.Up(ctx)
		if err != nil {
			l.Fatal("Failed to run migrations", zap.Error(err), zap.Strings("applied", applied))
		}
		l.Info("Migrations applied", zap.Strings("versions", applied))

	case config.DBDriverPostgres:
		m, err := database.NewPostgresMigrator(db.DB)
		if err != nil {
			l.Fatal("Failed to create migrator", zap.Error(err))
		}
		if err := runPostgres(m, command, *steps, pflag.Args()[1:]); err != nil {
			l.Fatal("Migration failed", zap.String("command", command), zap.Error(err))
		}
		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			l.Fatal("Failed to read schema version", zap.Error(err))
		}
		l.Info("Schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))

	default:
		l.Fatal("Unsupported database driver")
	}
}

func runPostgres(m *migrate.Migrate, command string, steps int, args []string) error {
	var err error
	switch command {
	case "up":
		err = m.Up()
	case "down":
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
	case "version":
		return nil
	case "force":
		if len(args) != 1 {
			return errors.New("force requires a version")
		}
		var v int
		if _, scanErr := fmt.Sscanf(args[0], "%d", &v); scanErr != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], scanErr)
		}
		err = m.Force(v)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
