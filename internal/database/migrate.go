package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"quiz-digest/database/migrations"
	"quiz-digest/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// NewPostgresMigrator returns a golang-migrate instance over the embedded postgres files.
func NewPostgresMigrator(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrations.FS, "postgres")
	if err != nil {
		return nil, fmt.Errorf("could not open embedded migrations: %w", err)
	}
	drv, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	if err != nil {
		return nil, fmt.Errorf("could not create migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "pgx5", drv)
	if err != nil {
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	return m, nil
}

const (
	oracleMigrationsTableExists = `SELECT COUNT(*) FROM user_tables WHERE table_name = 'SCHEMA_MIGRATIONS'`
	oracleCreateMigrationsTable = `CREATE TABLE schema_migrations (version VARCHAR2(255) PRIMARY KEY, applied_at TIMESTAMP DEFAULT SYSTIMESTAMP NOT NULL)`
	oracleAppliedVersions       = `SELECT version "version" FROM schema_migrations`
	oracleRecordVersion         = `INSERT INTO schema_migrations (version) VALUES (?)`
)

// OracleMigrator applies *.up.sql files in name order, once each. Oracle runs
// one statement per Exec, so files are split on ";" at line ends.
type OracleMigrator struct {
	db   *sqlx.DB
	fsys fs.FS
}

func NewOracleMigrator(db *sqlx.DB, fsys fs.FS) *OracleMigrator {
	return &OracleMigrator{db: db, fsys: fsys}
}

// NewEmbeddedOracleMigrator uses the oracle files compiled into the binary.
func NewEmbeddedOracleMigrator(db *sqlx.DB) (*OracleMigrator, error) {
	sub, err := fs.Sub(migrations.FS, "oracle")
	if err != nil {
		return nil, err
	}
	return NewOracleMigrator(db, sub), nil
}

// Up applies pending migrations and returns the versions it applied.
func (m *OracleMigrator) Up(ctx context.Context) ([]string, error) {
	if err := m.ensureVersionTable(ctx); err != nil {
		return nil, err
	}

	var done []string
	if err := m.db.SelectContext(ctx, &done, oracleAppliedVersions); err != nil {
		return nil, fmt.Errorf("could not read applied migrations: %w", err)
	}
	applied := make(map[string]bool, len(done))
	for _, v := range done {
		applied[v] = true
	}

	files, err := fs.Glob(m.fsys, "*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("could not list migrations: %w", err)
	}
	sort.Strings(files)

	var ran []string
	for _, name := range files {
		version := strings.TrimSuffix(name, ".up.sql")
		if applied[version] {
			continue
		}

		content, err := fs.ReadFile(m.fsys, name)
		if err != nil {
			return ran, fmt.Errorf("could not read migration file %s: %w", name, err)
		}
		for _, stmt := range splitStatements(string(content)) {
			if _, err := m.db.ExecContext(ctx, stmt); err != nil {
				return ran, fmt.Errorf("could not execute migration %s: %w", name, err)
			}
		}
		if _, err := m.db.ExecContext(ctx, m.db.Rebind(oracleRecordVersion), version); err != nil {
			return ran, fmt.Errorf("could not record migration %s: %w", name, err)
		}

		logger.Get().Info("Executed migration", zap.String("version", version))
		ran = append(ran, version)
	}
	return ran, nil
}

func (m *OracleMigrator) ensureVersionTable(ctx context.Context) error {
	var count int
	if err := m.db.GetContext(ctx, &count, oracleMigrationsTableExists); err != nil {
		return fmt.Errorf("could not check schema_migrations: %w", err)
	}
	if count > 0 {
		return nil
	}
	if _, err := m.db.ExecContext(ctx, oracleCreateMigrationsTable); err != nil {
		return fmt.Errorf("could not create schema_migrations: %w", err)
	}
	return nil
}

func splitStatements(script string) []string {
	var (
		stmts   []string
		current strings.Builder
	)
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
		if strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSuffix(strings.TrimSpace(current.String()), ";")
			if stmt != "" {
				stmts = append(stmts, stmt)
			}
			current.Reset()
		}
	}
	if rest := strings.TrimSpace(current.String()); rest != "" {
		stmts = append(stmts, rest)
	}
	return stmts
}
