package background

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/config"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const gaugeRefreshInterval = 30 * time.Second

type ExpiredReservationRejecter interface {
	RejectExpired(ctx context.Context, ttl time.Duration) (int, error)
}

type GaugeRefresher interface {
	RefreshGauges(ctx context.Context) error
}

// BackgroundTasks runs the periodic jobs of the service on a cron
// scheduler. Overlapping runs of one job are skipped.
type BackgroundTasks struct {
	Purchases ExpiredReservationRejecter
	Units     GaugeRefresher

	cfg  config.Reservation
	cron *cron.Cron
	log  *zap.Logger
}

func NewBackgroundTasks(purchases ExpiredReservationRejecter, units GaugeRefresher, cfg config.Reservation, log *zap.Logger) *BackgroundTasks {
	if log == nil {
		log = zap.NewNop()
	}
	return &BackgroundTasks{
		Purchases: purchases,
		Units:     units,
		cfg:       cfg,
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:       log.Named("background"),
	}
}

// StartAll schedules every job and starts the scheduler. The reservation
// sweeper is only scheduled when a TTL is configured.
func (bt *BackgroundTasks) StartAll(ctx context.Context) error {
	if bt.cfg.TTL > 0 {
		interval := bt.cfg.SweepInterval
		if interval <= 0 {
			interval = time.Minute
		}
		if _, err := bt.cron.AddFunc(every(interval), func() { bt.sweepExpired(ctx) }); err != nil {
			return fmt.Errorf("schedule reservation sweeper: %w", err)
		}
		bt.log.Info("reservation sweeper scheduled", zap.Duration("ttl", bt.cfg.TTL), zap.Duration("interval", interval))
	}
	if bt.Units != nil {
		if _, err := bt.cron.AddFunc(every(gaugeRefreshInterval), func() { bt.refreshGauges(ctx) }); err != nil {
			return fmt.Errorf("schedule gauge refresh: %w", err)
		}
	}
	bt.cron.Start()
	return nil
}

// Stop halts the scheduler; the returned context is done once running jobs
// have finished.
func (bt *BackgroundTasks) Stop() context.Context {
	return bt.cron.Stop()
}

func (bt *BackgroundTasks) sweepExpired(ctx context.Context) {
	released, err := bt.Purchases.RejectExpired(ctx, bt.cfg.TTL)
	if err != nil {
		bt.log.Error("reservation sweep failed", zap.Error(err))
		return
	}
	if released > 0 {
		bt.log.Info("expired reservations released", zap.Int("count", released))
	}
}

func (bt *BackgroundTasks) refreshGauges(ctx context.Context) {
	if err := bt.Units.RefreshGauges(ctx); err != nil {
		bt.log.Warn("gauge refresh failed", zap.Error(err))
	}
}

func every(d time.Duration) string {
	return "@every " + d.String()
}
