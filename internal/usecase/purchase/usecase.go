package purchase

import (
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-raffle-service/internal/usecase/numberpool"
	"github.com/jaevor/go-nanoid"
	"go.uber.org/zap"
)

// PurchaseIDLength is the length of purchase ids, which buyers also quote as
// their payment reference.
const PurchaseIDLength = 15

type DefaultPurchaseUsecase struct {
	UnitRepo     domain.UnitRepository
	NumberStore  domain.NumberStore
	PurchaseRepo domain.PurchaseStore
	Pool         *numberpool.Pool
	Publisher    domain.PurchaseEventPublisher
	Audit        logger.PurchaseEventLogger
	Metrics      *metrics.RaffleMetrics
	Log          *zap.Logger

	now   func() time.Time
	newID func() string
}

func NewDefaultPurchaseUsecase(
	unitRepo domain.UnitRepository,
	numberStore domain.NumberStore,
	purchaseRepo domain.PurchaseStore,
	pool *numberpool.Pool,
	log *zap.Logger,
) (*DefaultPurchaseUsecase, error) {
	idGenerator, err := nanoid.Standard(PurchaseIDLength)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &DefaultPurchaseUsecase{
		UnitRepo:     unitRepo,
		NumberStore:  numberStore,
		PurchaseRepo: purchaseRepo,
		Pool:         pool,
		Log:          log.Named("purchase"),
		now:          time.Now,
		newID:        idGenerator,
	}, nil
}

func (uc *DefaultPurchaseUsecase) WithPublisher(p domain.PurchaseEventPublisher) *DefaultPurchaseUsecase {
	uc.Publisher = p
	return uc
}

func (uc *DefaultPurchaseUsecase) WithAudit(a logger.PurchaseEventLogger) *DefaultPurchaseUsecase {
	uc.Audit = a
	return uc
}

func (uc *DefaultPurchaseUsecase) WithMetrics(m *metrics.RaffleMetrics) *DefaultPurchaseUsecase {
	uc.Metrics = m
	return uc
}
