package request

type ComboRequest struct {
	BaseValue       float64 `json:"base_value"`
	NumbersPerValue int     `json:"numbers_per_value"`
}

type CreateUnitRequest struct {
	Title           string        `json:"title"`
	TotalNumbers    int           `json:"total_numbers" binding:"required"`
	NumberSpaceSize int           `json:"number_space_size"`
	NumberingMode   string        `json:"numbering_mode"`
	PricingMode     string        `json:"pricing_mode"`
	UnitPrice       float64       `json:"unit_price"`
	Combo           *ComboRequest `json:"combo"`
	PrizeCount      int           `json:"prize_count"`
	PrizeNumbers    []int64       `json:"prize_numbers"`
	PaymentKey      string        `json:"payment_key"`
	Activate        bool          `json:"activate"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
