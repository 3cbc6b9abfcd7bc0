package response

import "time"

type PurchaseResponse struct {
	ID            string     `json:"id"`
	UnitID        string     `json:"unit_id"`
	BuyerName     string     `json:"buyer_name"`
	BuyerDocument string     `json:"buyer_document,omitempty"`
	BuyerPhone    string     `json:"buyer_phone,omitempty"`
	Numbers       []int64    `json:"numbers"`
	Amount        float64    `json:"amount"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
}

type PaymentResponse struct {
	PurchaseID string  `json:"purchase_id"`
	Amount     float64 `json:"amount"`
	PaymentKey string  `json:"payment_key"`
	Reference  string  `json:"reference"`
}

// ErrorResponse is the body of every failed request. Numbers lists the
// conflicting numbers of a refused reservation.
type ErrorResponse struct {
	Success bool    `json:"success"`
	Error   string  `json:"error"`
	Kind    string  `json:"kind"`
	Numbers []int64 `json:"numbers,omitempty"`
}
