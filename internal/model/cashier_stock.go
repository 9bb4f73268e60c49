package model

import "time"

// CashierStock is the quantity of a product physically assigned to one
// cashier, separate from warehouse stock. Quantity never goes below zero;
// warehouse stock plus the sum over all cashiers is the total stock of a
// product (distribution and return only move stock, never create it).
type CashierStock struct {
	ProductID string `gorm:"type:uuid;primaryKey" json:"product_id"`
	CashierID string `gorm:"type:uuid;primaryKey" json:"cashier_id"`
	Quantity  int    `gorm:"not null;default:0" json:"quantity"`

	UpdatedAt time.Time `json:"updated_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Cashier *User    `gorm:"foreignKey:CashierID" json:"cashier,omitempty"`
}

func (CashierStock) TableName() string {
	return "cashier_stocks"
}
