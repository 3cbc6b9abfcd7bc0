package handlers

import (
	"context"
	"net/http"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/usecase/purchase"
	"github.com/LavaJover/shvark-raffle-service/internal/usecase/unit"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UnitService interface {
	Create(ctx context.Context, in unit.CreateUnitInput) (*domain.Unit, error)
	Get(ctx context.Context, unitID string) (*domain.Unit, error)
	List(ctx context.Context) ([]*domain.Unit, error)
	ChangeStatus(ctx context.Context, unitID string, next domain.UnitStatus) (*domain.Unit, error)
	DrawWinner(ctx context.Context, unitID string) (*domain.Unit, error)
	Stats(ctx context.Context, unitID string) (domain.NumberStats, error)
	ListNumbers(ctx context.Context, unitID string, status domain.NumberStatus) ([]*domain.NumberRecord, error)
}

type PurchaseService interface {
	Reserve(ctx context.Context, in purchase.ReserveInput) (*domain.PurchaseRecord, error)
	GetPurchase(ctx context.Context, purchaseID string) (*domain.PurchaseRecord, error)
	ListPurchases(ctx context.Context, filter domain.PurchaseFilter) ([]*domain.PurchaseRecord, error)
	Authorize(ctx context.Context, purchaseID string) (*domain.PurchaseRecord, error)
	Reject(ctx context.Context, purchaseID string) (*domain.PurchaseRecord, error)
	PaymentInfo(ctx context.Context, purchaseID string) (*domain.PaymentInfo, error)
}

type RankingService interface {
	Rank(ctx context.Context, unitID string) ([]domain.RankingEntry, error)
}

// HTTPRaffleHandler serves the buyer, operator and display endpoints.
type HTTPRaffleHandler struct {
	Units     UnitService
	Purchases PurchaseService
	Ranking   RankingService
	Log       *zap.Logger
}

func NewHTTPRaffleHandler(units UnitService, purchases PurchaseService, ranking RankingService, log *zap.Logger) *HTTPRaffleHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPRaffleHandler{
		Units:     units,
		Purchases: purchases,
		Ranking:   ranking,
		Log:       log.Named("http"),
	}
}

func (h *HTTPRaffleHandler) RegisterRoutes(router gin.IRouter) {
	api := router.Group("/api/v1")

	units := api.Group("/units")
	units.POST("", h.CreateUnit)
	units.GET("", h.ListUnits)
	units.GET("/:id", h.GetUnit)
	units.POST("/:id/status", h.ChangeUnitStatus)
	units.POST("/:id/draw", h.DrawWinner)
	units.GET("/:id/numbers", h.ListNumbers)
	units.GET("/:id/stats", h.Stats)
	units.GET("/:id/ranking", h.Rank)
	units.GET("/:id/purchases", h.ListPurchases)
	units.POST("/:id/purchases", h.Reserve)

	purchases := api.Group("/purchases")
	purchases.GET("/:id", h.GetPurchase)
	purchases.GET("/:id/payment", h.PaymentInfo)
	purchases.POST("/:id/authorize", h.Authorize)
	purchases.POST("/:id/reject", h.Reject)
}

// NewRouter builds the gin engine with the API, health and metrics routes.
// metrics may be nil to leave the metrics path unrouted.
func NewRouter(h *HTTPRaffleHandler, metrics http.Handler, metricsPath string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if metrics != nil {
		router.GET(metricsPath, gin.WrapH(metrics))
	}
	h.RegisterRoutes(router)
	return router
}

func (h *HTTPRaffleHandler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		h.Log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
		)
	}
}
