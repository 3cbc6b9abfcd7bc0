package postgres

import (
	"log"

	"github.com/LavaJover/shvark-raffle-service/internal/config"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MustInitDB opens the raffle database and brings its schema up to date,
// from SQL migrations when a migrations path is configured and through
// AutoMigrate otherwise.
func MustInitDB(cfg *config.RaffleConfig, zlog *zap.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.RaffleDB.Dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	if cfg.RaffleDB.MaxOpenConns > 0 {
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("failed to get sql.DB: %v\n", err.Error())
		}
		sqlDB.SetMaxOpenConns(cfg.RaffleDB.MaxOpenConns)
	}

	if cfg.RaffleDB.MigrationsPath != "" {
		if _, err := migrate.RunMigrations(db, cfg.RaffleDB.MigrationsPath, zlog); err != nil {
			log.Fatalf("failed to run migrations: %v\n", err.Error())
		}
		return db
	}

	if err := db.AutoMigrate(
		&models.UnitModel{},
		&models.NumberModel{},
		&models.PurchaseModel{},
		&logger.PurchaseAuditEvent{},
	); err != nil {
		log.Fatalf("failed to migrate db: %v\n", err.Error())
	}

	return db
}
