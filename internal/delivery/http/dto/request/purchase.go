package request

type BuyerRequest struct {
	Name       string `json:"name"`
	DocumentID string `json:"document_id"`
	Phone      string `json:"phone"`
}

// ReserveRequest carries either explicit numbers or a count to auto-select.
type ReserveRequest struct {
	Numbers []int64      `json:"numbers"`
	Count   int          `json:"count"`
	Amount  float64      `json:"amount"`
	Buyer   BuyerRequest `json:"buyer"`
}
