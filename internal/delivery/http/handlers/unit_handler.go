package handlers

import (
	"net/http"
	"strings"

	"github.com/LavaJover/shvark-raffle-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-raffle-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/usecase/unit"
	"github.com/gin-gonic/gin"
)

func (h *HTTPRaffleHandler) CreateUnit(c *gin.Context) {
	var req request.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	in := unit.CreateUnitInput{
		Title:        req.Title,
		TotalNumbers: req.TotalNumbers,
		SpaceSize:    req.NumberSpaceSize,
		Numbering:    domain.NumberingMode(strings.ToUpper(req.NumberingMode)),
		Pricing:      domain.PricingMode(strings.ToUpper(req.PricingMode)),
		UnitPrice:    req.UnitPrice,
		PrizeCount:   req.PrizeCount,
		PrizeNumbers: req.PrizeNumbers,
		PaymentKey:   req.PaymentKey,
		Activate:     req.Activate,
	}
	if req.Combo != nil {
		in.Combo = &domain.ComboRule{
			BaseValue:       req.Combo.BaseValue,
			NumbersPerValue: req.Combo.NumbersPerValue,
		}
	}

	created, err := h.Units.Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUnitResponse(created))
}

func (h *HTTPRaffleHandler) ListUnits(c *gin.Context) {
	units, err := h.Units.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	out := make([]response.UnitResponse, len(units))
	for i, u := range units {
		out[i] = toUnitResponse(u)
	}
	c.JSON(http.StatusOK, gin.H{"units": out})
}

func (h *HTTPRaffleHandler) GetUnit(c *gin.Context) {
	u, err := h.Units.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUnitResponse(u))
}

func (h *HTTPRaffleHandler) ChangeUnitStatus(c *gin.Context) {
	var req request.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	next, err := domain.ParseUnitStatus(req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	u, err := h.Units.ChangeStatus(c.Request.Context(), c.Param("id"), next)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUnitResponse(u))
}

func (h *HTTPRaffleHandler) DrawWinner(c *gin.Context) {
	u, err := h.Units.DrawWinner(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUnitResponse(u))
}

func (h *HTTPRaffleHandler) ListNumbers(c *gin.Context) {
	var status domain.NumberStatus
	if raw := c.Query("status"); raw != "" {
		parsed, err := domain.ParseNumberStatus(raw)
		if err != nil {
			h.writeError(c, err)
			return
		}
		status = parsed
	}
	numbers, err := h.Units.ListNumbers(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	out := make([]response.NumberResponse, len(numbers))
	for i, n := range numbers {
		out[i] = toNumberResponse(n)
	}
	c.JSON(http.StatusOK, gin.H{"numbers": out})
}

func (h *HTTPRaffleHandler) Stats(c *gin.Context) {
	unitID := c.Param("id")
	stats, err := h.Units.Stats(c.Request.Context(), unitID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.StatsResponse{
		UnitID:    unitID,
		Total:     stats.Total,
		Available: stats.Available,
		Reserved:  stats.Reserved,
		Sold:      stats.Sold,
	})
}

func (h *HTTPRaffleHandler) Rank(c *gin.Context) {
	entries, err := h.Ranking.Rank(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	out := make([]response.RankingEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = response.RankingEntryResponse{
			Position:                i + 1,
			BuyerID:                 e.BuyerID,
			BuyerName:               e.BuyerName,
			TicketsBought:           e.TicketsBought,
			ParticipationPercentage: e.ParticipationPercentage,
		}
	}
	c.JSON(http.StatusOK, gin.H{"ranking": out})
}
