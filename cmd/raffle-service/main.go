package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/app/background"
	"github.com/LavaJover/shvark-raffle-service/internal/app/setup"
	"github.com/LavaJover/shvark-raffle-service/internal/config"
	"github.com/LavaJover/shvark-raffle-service/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-raffle-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/metrics"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	zapLogger, err := logger.New(cfg.LogConfig)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	deps, err := setup.InitializeDependencies(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to init dependencies", zap.Error(err))
	}
	defer deps.Close()

	var (
		raffleMetrics  *metrics.RaffleMetrics
		metricsHandler http.Handler
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		raffleMetrics = metrics.NewRaffleMetrics(reg)
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	ucs, err := setup.InitializeUseCases(deps, raffleMetrics, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to init usecases", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// HTTP
	httpHandler := handlers.NewHTTPRaffleHandler(ucs.UnitUsecase, ucs.PurchaseUsecase, ucs.RankingUsecase, zapLogger)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:      handlers.NewRouter(httpHandler, metricsHandler, cfg.Metrics.Path),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}
	go func() {
		zapLogger.Info("HTTP server started", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	// gRPC health
	grpcServer := grpcapi.NewServer(zapLogger)
	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%s", cfg.GRPCServer.Host, cfg.GRPCServer.Port))
	if err != nil {
		zapLogger.Fatal("failed to listen", zap.Error(err))
	}
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			zapLogger.Error("gRPC server failed", zap.Error(err))
			stop()
		}
	}()

	// Background jobs
	tasks := background.NewBackgroundTasks(ucs.PurchaseUsecase, ucs.UnitUsecase, cfg.Reservation, zapLogger)
	if err := tasks.StartAll(ctx); err != nil {
		zapLogger.Fatal("failed to start background tasks", zap.Error(err))
	}

	grpcServer.SetServing(true)
	<-ctx.Done()
	zapLogger.Info("shutting down")

	grpcServer.SetServing(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("HTTP shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()
	select {
	case <-tasks.Stop().Done():
	case <-shutdownCtx.Done():
		zapLogger.Warn("background tasks did not stop in time")
	}
}
