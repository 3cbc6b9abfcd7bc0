package response

import "time"

type ComboResponse struct {
	BaseValue       float64 `json:"base_value"`
	NumbersPerValue int     `json:"numbers_per_value"`
}

type UnitResponse struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	TotalNumbers    int            `json:"total_numbers"`
	NumberSpaceSize int            `json:"number_space_size"`
	NumberingMode   string         `json:"numbering_mode"`
	PricingMode     string         `json:"pricing_mode"`
	UnitPrice       float64        `json:"unit_price"`
	Combo           *ComboResponse `json:"combo,omitempty"`
	Status          string         `json:"status"`
	WinningNumber   *int64         `json:"winning_number,omitempty"`
	PrizeNumbers    []int64        `json:"prize_numbers,omitempty"`
	PaymentKey      string         `json:"payment_key,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

type NumberResponse struct {
	Value      int64      `json:"value"`
	Status     string     `json:"status"`
	HolderName string     `json:"holder_name,omitempty"`
	PurchaseID string     `json:"purchase_id,omitempty"`
	ReservedAt *time.Time `json:"reserved_at,omitempty"`
	Prize      bool       `json:"prize,omitempty"`
}

type StatsResponse struct {
	UnitID    string `json:"unit_id"`
	Total     int64  `json:"total"`
	Available int64  `json:"available"`
	Reserved  int64  `json:"reserved"`
	Sold      int64  `json:"sold"`
}

type RankingEntryResponse struct {
	Position                int     `json:"position"`
	BuyerID                 string  `json:"buyer_id"`
	BuyerName               string  `json:"buyer_name"`
	TicketsBought           int     `json:"tickets_bought"`
	ParticipationPercentage float64 `json:"participation_percentage"`
}
