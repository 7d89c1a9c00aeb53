package models

import "time"

const (
	LeadTypeSell = "sell"
	LeadTypeBuy  = "buy"
)

// Lead is a customer contact request. Leads are append-only.
type Lead struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id" bson:"id"`
	Name          string    `gorm:"size:255" json:"name" bson:"name"`
	Phone         string    `gorm:"size:50" json:"phone" bson:"phone"`
	Area          string    `gorm:"size:255" json:"area" bson:"area"`
	PreferredTime string    `gorm:"size:100" json:"preferred_time" bson:"preferred_time"`
	PhoneModel    *string   `gorm:"size:255" json:"phone_model" bson:"phone_model"`
	OfferedPrice  *int      `json:"offered_price" bson:"offered_price"`
	Remarks       *string   `gorm:"type:text" json:"remarks" bson:"remarks"`
	LeadType      string    `gorm:"size:20;index" json:"lead_type" bson:"lead_type"`
	CreatedAt     time.Time `gorm:"index" json:"created_at" bson:"created_at"`
}

// LeadReceipt is what the customer gets back after submitting a lead.
type LeadReceipt struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Area      string `json:"area"`
	LeadType  string `json:"lead_type"`
	CreatedAt string `json:"created_at"`
}

func (l Lead) Receipt() LeadReceipt {
	return LeadReceipt{
		ID:        l.ID,
		Name:      l.Name,
		Phone:     l.Phone,
		Area:      l.Area,
		LeadType:  l.LeadType,
		CreatedAt: l.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

type LeadFilter struct {
	LeadType string
}
