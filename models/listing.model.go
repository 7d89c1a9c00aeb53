package models

import "gorm.io/datatypes"

// ResaleListing is a refurbished phone the shop has for sale.
type ResaleListing struct {
	ID          string                                `gorm:"primaryKey;size:64" json:"id"`
	Brand       string                                `gorm:"size:100;index;not null" json:"brand"`
	Model       string                                `gorm:"size:255;not null" json:"model"`
	Price       int                                   `gorm:"index;not null" json:"price"`
	Condition   string                                `gorm:"size:50" json:"condition"` // Excellent, Good, ...
	Image       string                                `json:"image"`
	Description string                                `gorm:"type:text" json:"description"`
	Specs       datatypes.JSONType[map[string]string] `json:"specs"`
	InStock     bool                                  `gorm:"index;not null;default:true" json:"in_stock"`
}

func (ResaleListing) TableName() string {
	return "phones_for_sale"
}

// NewSpecs wraps a spec sheet for storage.
func NewSpecs(specs map[string]string) datatypes.JSONType[map[string]string] {
	return datatypes.NewJSONType(specs)
}

// ListingFilter narrows the in-stock listings. Nil bounds are open.
type ListingFilter struct {
	Brand    string
	MinPrice *int
	MaxPrice *int
}

// Matches applies the filter to a single listing, in-stock check included.
func (f ListingFilter) Matches(l ResaleListing) bool {
	if !l.InStock {
		return false
	}
	if f.Brand != "" && l.Brand != f.Brand {
		return false
	}
	if f.MinPrice != nil && l.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && l.Price > *f.MaxPrice {
		return false
	}
	return true
}
