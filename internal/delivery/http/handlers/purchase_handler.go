package handlers

import (
	"net/http"

	"github.com/LavaJover/shvark-raffle-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-raffle-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/usecase/purchase"
	"github.com/gin-gonic/gin"
)

func (h *HTTPRaffleHandler) Reserve(c *gin.Context) {
	var req request.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.Purchases.Reserve(c.Request.Context(), purchase.ReserveInput{
		UnitID:  c.Param("id"),
		Numbers: req.Numbers,
		Count:   req.Count,
		Amount:  req.Amount,
		Buyer: domain.Buyer{
			Name:       req.Buyer.Name,
			DocumentID: req.Buyer.DocumentID,
			Phone:      req.Buyer.Phone,
		},
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPurchaseResponse(p))
}

// ListPurchases lists a unit's purchases, optionally filtered by status and
// buyer document. It serves both the operator's pending queue and a buyer's
// own purchase lookup.
func (h *HTTPRaffleHandler) ListPurchases(c *gin.Context) {
	filter := domain.PurchaseFilter{
		UnitID:     c.Param("id"),
		DocumentID: c.Query("document"),
	}
	if raw := c.Query("status"); raw != "" {
		status, err := domain.ParsePurchaseStatus(raw)
		if err != nil {
			h.writeError(c, err)
			return
		}
		filter.Status = status
	}
	purchases, err := h.Purchases.ListPurchases(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": toPurchaseResponses(purchases)})
}

func (h *HTTPRaffleHandler) GetPurchase(c *gin.Context) {
	p, err := h.Purchases.GetPurchase(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPurchaseResponse(p))
}

func (h *HTTPRaffleHandler) PaymentInfo(c *gin.Context) {
	info, err := h.Purchases.PaymentInfo(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.PaymentResponse{
		PurchaseID: info.PurchaseID,
		Amount:     info.Amount,
		PaymentKey: info.PaymentKey,
		Reference:  info.Reference,
	})
}

func (h *HTTPRaffleHandler) Authorize(c *gin.Context) {
	p, err := h.Purchases.Authorize(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPurchaseResponse(p))
}

func (h *HTTPRaffleHandler) Reject(c *gin.Context) {
	p, err := h.Purchases.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPurchaseResponse(p))
}
