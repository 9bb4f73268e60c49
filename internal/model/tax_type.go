package model

// TaxType is a configurable percentage applied to the sale subtotal.
// Enabled types are picked up by both the live cart preview and checkout.
type TaxType struct {
	BaseModel
	Code    string  `gorm:"type:varchar(20);uniqueIndex;not null" json:"code" validate:"required"`
	Name    string  `gorm:"type:varchar(100);not null" json:"name" validate:"required"`
	Rate    float64 `gorm:"not null" json:"rate" validate:"gte=0,lte=100"`
	Enabled bool    `gorm:"default:true" json:"enabled"`
}
