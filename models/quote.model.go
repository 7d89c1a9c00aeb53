package models

type Deduction struct {
	Question   string  `json:"question"`
	Percentage float64 `json:"percentage"`
}

// Quote is a computed trade-in offer. It is never persisted.
type Quote struct {
	BasePrice   int         `json:"base_price"`
	FinalPrice  int         `json:"final_price"`
	Deductions  []Deduction `json:"deductions"`
	IsBlocked   bool        `json:"is_blocked"`
	BlockReason *string     `json:"block_reason"`
}
