package migrate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

const MigrationsTable = "raffle_schema_migrations"

var ErrDirtySchema = errors.New("schema is dirty")

// zapLogger routes golang-migrate progress lines into the service logger.
type zapLogger struct {
	log *zap.SugaredLogger
}

func (l zapLogger) Printf(format string, v ...any) {
	l.log.Infof(strings.TrimSuffix(format, "\n"), v...)
}

func (l zapLogger) Verbose() bool { return false }

// sourceURL accepts either a bare directory or a file:// URL.
func sourceURL(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	return "file://" + path
}

// RunMigrations brings the raffle schema up to the newest migration under
// migrationPath and reports the resulting version. A schema left dirty by
// an earlier failed run is refused until an operator forces a version.
func RunMigrations(db *gorm.DB, migrationPath string, log *zap.Logger) (uint, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("migrate")

	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("sql.DB from gorm: %w", err)
	}
	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{MigrationsTable: MigrationsTable})
	if err != nil {
		return 0, fmt.Errorf("postgres migrate driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance(sourceURL(migrationPath), "postgres", driver)
	if err != nil {
		return 0, fmt.Errorf("migrate instance for %s: %w", migrationPath, err)
	}
	m.Log = zapLogger{log: log.Sugar()}

	if _, dirty, err := m.Version(); err == nil && dirty {
		return 0, ErrDirtySchema
	}

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		log.Debug("schema already current")
	case err != nil:
		return 0, fmt.Errorf("migrating up: %w", err)
	}

	version, _, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	log.Info("schema migrated", zap.Uint("version", version), zap.String("table", MigrationsTable))
	return version, nil
}
