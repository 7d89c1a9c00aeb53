package models

type Brand struct {
	ID   string `gorm:"primaryKey;size:64" json:"id" bson:"id"`
	Name string `gorm:"size:100;not null" json:"name" bson:"name"`
	Logo string `gorm:"size:255" json:"logo" bson:"logo"`
}
