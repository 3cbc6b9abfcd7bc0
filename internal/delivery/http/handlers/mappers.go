package handlers

import (
	"github.com/LavaJover/shvark-raffle-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

func toUnitResponse(u *domain.Unit) response.UnitResponse {
	resp := response.UnitResponse{
		ID:              u.ID,
		Title:           u.Title,
		TotalNumbers:    u.TotalNumbers,
		NumberSpaceSize: u.NumberSpaceSize,
		NumberingMode:   string(u.Numbering),
		PricingMode:     string(u.Pricing),
		UnitPrice:       u.UnitPrice,
		Status:          string(u.Status),
		WinningNumber:   u.WinningNumber,
		PrizeNumbers:    u.PrizeNumbers,
		PaymentKey:      u.PaymentKey,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
	if u.Combo != nil {
		resp.Combo = &response.ComboResponse{
			BaseValue:       u.Combo.BaseValue,
			NumbersPerValue: u.Combo.NumbersPerValue,
		}
	}
	return resp
}

func toNumberResponse(n *domain.NumberRecord) response.NumberResponse {
	resp := response.NumberResponse{
		Value:      n.Value,
		Status:     string(n.Status),
		PurchaseID: n.PurchaseID,
		ReservedAt: n.ReservedAt,
		Prize:      n.Prize,
	}
	if n.Holder != nil {
		resp.HolderName = n.Holder.Name
	}
	return resp
}

func toPurchaseResponse(p *domain.PurchaseRecord) response.PurchaseResponse {
	return response.PurchaseResponse{
		ID:            p.ID,
		UnitID:        p.UnitID,
		BuyerName:     p.Buyer.Name,
		BuyerDocument: p.Buyer.DocumentID,
		BuyerPhone:    p.Buyer.Phone,
		Numbers:       p.Numbers,
		Amount:        p.Amount,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
		DecidedAt:     p.DecidedAt,
	}
}

func toPurchaseResponses(ps []*domain.PurchaseRecord) []response.PurchaseResponse {
	out := make([]response.PurchaseResponse, len(ps))
	for i, p := range ps {
		out[i] = toPurchaseResponse(p)
	}
	return out
}
