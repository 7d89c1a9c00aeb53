package models

// PhoneModel is a tradeable model of a brand. BasePrice is what the shop
// pays for a unit in perfect condition.
type PhoneModel struct {
	ID        string `gorm:"primaryKey;size:64" json:"id" bson:"id"`
	BrandID   string `gorm:"size:64;index;not null" json:"brand_id" bson:"brand_id"`
	Name      string `gorm:"size:100;not null" json:"name" bson:"name"`
	BasePrice int    `gorm:"not null" json:"base_price" bson:"base_price"`
	Image     string `json:"image" bson:"image"`
}
