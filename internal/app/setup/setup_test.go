package setup

import (
	"context"
	"testing"

	"github.com/LavaJover/shvark-raffle-service/internal/config"
	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	publisher "github.com/LavaJover/shvark-raffle-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-raffle-service/internal/usecase/purchase"
	"github.com/LavaJover/shvark-raffle-service/internal/usecase/unit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestMemoryWiring(t *testing.T) {
	log := zaptest.NewLogger(t)
	cfg := &config.RaffleConfig{Storage: config.Storage{Driver: DriverMemory}}

	deps, err := InitializeDependencies(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, deps.Close()) })
	assert.IsType(t, publisher.NopPublisher{}, deps.Publisher)

	ucs, err := InitializeUseCases(deps, metrics.NewRaffleMetrics(prometheus.NewRegistry()), log)
	require.NoError(t, err)

	ctx := context.Background()
	u, err := ucs.UnitUsecase.Create(ctx, unit.CreateUnitInput{Title: "Car", TotalNumbers: 5, UnitPrice: 1, Activate: true})
	require.NoError(t, err)
	p, err := ucs.PurchaseUsecase.Reserve(ctx, purchase.ReserveInput{UnitID: u.ID, Count: 2, Buyer: domain.Buyer{Name: "Ana"}})
	require.NoError(t, err)
	_, err = ucs.PurchaseUsecase.Authorize(ctx, p.ID)
	require.NoError(t, err)

	entries, err := ucs.RankingUsecase.Rank(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].TicketsBought)
}

func TestUnknownDriver(t *testing.T) {
	_, err := InitializeDependencies(&config.RaffleConfig{Storage: config.Storage{Driver: "sqlite"}}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestKafkaPublisherNeedsTopic(t *testing.T) {
	cfg := &config.RaffleConfig{
		Storage:      config.Storage{Driver: DriverMemory},
		KafkaService: config.KafkaService{Enabled: true, Host: "localhost", Port: "9092", Topic: ""},
	}
	_, err := InitializeDependencies(cfg, zaptest.NewLogger(t))
	assert.Error(t, err)
}
