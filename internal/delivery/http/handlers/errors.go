package handlers

import (
	"errors"
	"net/http"

	"github.com/LavaJover/shvark-raffle-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/usecase/purchase"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNumbersUnavailable),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrSoldOut):
		return http.StatusConflict
	case errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrEntitlementExceeded),
		errors.Is(err, domain.ErrUnitNotActive):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *HTTPRaffleHandler) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	body := response.ErrorResponse{
		Success: false,
		Error:   err.Error(),
		Kind:    purchase.ErrorKind(err),
	}
	if numbers, ok := domain.ConflictingNumbers(err); ok {
		body.Numbers = numbers
	}
	if status == http.StatusInternalServerError {
		h.Log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		body.Error = "internal error"
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.ErrorResponse{
		Success: false,
		Error:   err.Error(),
		Kind:    "invalid_input",
	})
}
