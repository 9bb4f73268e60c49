package model

// ReturnReason is the fixed set of reasons a cashier can return stock
type ReturnReason string

const (
	ReturnLeftover  ReturnReason = "LEFTOVER"
	ReturnDefective ReturnReason = "DEFECTIVE"
	ReturnExpired   ReturnReason = "EXPIRED"
)

// ValidReturnReason reports whether r is one of the enumerated reasons
func ValidReturnReason(r ReturnReason) bool {
	switch r {
	case ReturnLeftover, ReturnDefective, ReturnExpired:
		return true
	}
	return false
}

// StockDistribution is an immutable audit record of a warehouse -> cashier
// stock move. It is never updated after creation.
type StockDistribution struct {
	BaseModel
	ProductID string `gorm:"type:uuid;not null;index" json:"product_id" validate:"required"`
	CashierID string `gorm:"type:uuid;not null;index" json:"cashier_id" validate:"required"`
	Quantity  int    `gorm:"not null" json:"quantity" validate:"required,gt=0"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Cashier *User    `gorm:"foreignKey:CashierID" json:"cashier,omitempty"`
}

// StockReturn is an immutable audit record of a cashier -> warehouse move
type StockReturn struct {
	BaseModel
	ProductID string       `gorm:"type:uuid;not null;index" json:"product_id" validate:"required"`
	CashierID string       `gorm:"type:uuid;not null;index" json:"cashier_id" validate:"required"`
	Quantity  int          `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Reason    ReturnReason `gorm:"type:varchar(20);not null" json:"reason" validate:"required,oneof=LEFTOVER DEFECTIVE EXPIRED"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Cashier *User    `gorm:"foreignKey:CashierID" json:"cashier,omitempty"`
}

// StockAdjustment logs a direct warehouse stock correction with its reason,
// so every ledger mutation stays auditable.
type StockAdjustment struct {
	BaseModel
	ProductID     string `gorm:"type:uuid;not null;index" json:"product_id"`
	Delta         int    `gorm:"not null" json:"delta"`
	PreviousStock int    `gorm:"not null" json:"previous_stock"`
	NewStock      int    `gorm:"not null" json:"new_stock"`
	Reason        string `gorm:"type:text;not null" json:"reason"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
