package setup

import (
	"fmt"

	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-raffle-service/internal/usecase/numberpool"
	"github.com/LavaJover/shvark-raffle-service/internal/usecase/purchase"
	"github.com/LavaJover/shvark-raffle-service/internal/usecase/ranking"
	"github.com/LavaJover/shvark-raffle-service/internal/usecase/unit"
	"go.uber.org/zap"
)

type UseCases struct {
	UnitUsecase     *unit.DefaultUnitUsecase
	PurchaseUsecase *purchase.DefaultPurchaseUsecase
	RankingUsecase  *ranking.DefaultRankingUsecase
}

// InitializeUseCases wires the usecases over deps. m may be nil to run
// without metrics.
func InitializeUseCases(deps *Dependencies, m *metrics.RaffleMetrics, log *zap.Logger) (*UseCases, error) {
	pool := numberpool.New(nil)
	repos := deps.Repositories

	unitUsecase := unit.NewDefaultUnitUsecase(repos.UnitRepo, repos.NumberStore, pool, log)
	if deps.Config != nil {
		unitUsecase.WithMaxTotalNumbers(deps.Config.Units.MaxTotalNumbers)
	}

	purchaseUsecase, err := purchase.NewDefaultPurchaseUsecase(repos.UnitRepo, repos.NumberStore, repos.PurchaseRepo, pool, log)
	if err != nil {
		return nil, fmt.Errorf("purchase usecase: %w", err)
	}
	purchaseUsecase.WithPublisher(deps.Publisher).WithAudit(deps.Audit)

	if m != nil {
		unitUsecase.WithMetrics(m)
		purchaseUsecase.WithMetrics(m)
	}

	return &UseCases{
		UnitUsecase:     unitUsecase,
		PurchaseUsecase: purchaseUsecase,
		RankingUsecase:  ranking.NewDefaultRankingUsecase(repos.NumberStore, repos.PurchaseRepo),
	}, nil
}
