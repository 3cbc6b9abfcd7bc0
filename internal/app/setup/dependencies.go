package setup

import (
	"fmt"
	"io"

	"github.com/LavaJover/shvark-raffle-service/internal/config"
	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	publisher "github.com/LavaJover/shvark-raffle-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Dependencies struct {
	Config       *config.RaffleConfig
	DB           *gorm.DB
	Publisher    domain.PurchaseEventPublisher
	Audit        logger.PurchaseEventLogger
	Repositories *Repositories

	closers []io.Closer
}

type Repositories struct {
	UnitRepo     domain.UnitRepository
	NumberStore  domain.NumberStore
	PurchaseRepo domain.PurchaseStore
}

func InitializeDependencies(cfg *config.RaffleConfig, log *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{Config: cfg}

	switch cfg.Storage.Driver {
	case DriverPostgres, "":
		db := postgres.MustInitDB(cfg, log)
		deps.DB = db
		deps.Audit = logger.NewPGPurchaseEventLogger(db)
		deps.Repositories = &Repositories{
			UnitRepo:     repository.NewDefaultUnitRepository(db),
			NumberStore:  repository.NewDefaultNumberRepository(db),
			PurchaseRepo: repository.NewDefaultPurchaseRepository(db),
		}
	case DriverMemory:
		store := memory.NewStore()
		deps.Audit = logger.NewMemoryPurchaseEventLogger()
		deps.Repositories = &Repositories{
			UnitRepo:     store,
			NumberStore:  store,
			PurchaseRepo: store,
		}
		log.Warn("using in-memory storage, state is lost on restart")
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	pub, err := initPurchasePublisher(cfg)
	if err != nil {
		return nil, fmt.Errorf("purchase publisher: %w", err)
	}
	deps.Publisher = pub
	if c, ok := pub.(io.Closer); ok {
		deps.closers = append(deps.closers, c)
	}

	return deps, nil
}

func initPurchasePublisher(cfg *config.RaffleConfig) (domain.PurchaseEventPublisher, error) {
	if !cfg.KafkaService.Enabled {
		return publisher.NopPublisher{}, nil
	}
	pub, err := publisher.NewKafkaPublisher(publisher.KafkaConfig{
		Brokers: []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)},
		Topic:   cfg.KafkaService.Topic,
	})
	if err != nil {
		return nil, err
	}
	return pub, nil
}

// Close releases the publisher and the database pool.
func (d *Dependencies) Close() error {
	var firstErr error
	for _, c := range d.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if d.DB != nil {
		sqlDB, err := d.DB.DB()
		if err == nil {
			err = sqlDB.Close()
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
