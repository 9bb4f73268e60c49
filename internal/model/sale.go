package model

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentQRIS PaymentMethod = "QRIS"
	PaymentCard PaymentMethod = "CARD"
)

type SaleStatus string

const (
	SalePending   SaleStatus = "PENDING"
	SaleCompleted SaleStatus = "COMPLETED"
	SaleCancelled SaleStatus = "CANCELLED"
)

// Sale is created atomically with its items and tax lines. After completion
// the only allowed change is the status transition to CANCELLED.
type Sale struct {
	BaseModel
	CashierID     string        `gorm:"type:uuid;not null;index" json:"cashier_id"`
	Subtotal      int64         `gorm:"not null" json:"subtotal"`
	TotalTax      int64         `gorm:"not null" json:"total_tax"`
	Total         int64         `gorm:"not null" json:"total"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(10);not null" json:"payment_method"`
	CashReceived  int64         `gorm:"default:0" json:"cash_received"`
	ChangeGiven   int64         `gorm:"default:0" json:"change_given"`
	Status        SaleStatus    `gorm:"type:varchar(10);not null;index" json:"status"`

	Cashier *User     `gorm:"foreignKey:CashierID" json:"cashier,omitempty"`
	Items   []SaleItem `gorm:"foreignKey:SaleID" json:"items"`
	Taxes   []SaleTax  `gorm:"foreignKey:SaleID" json:"taxes"`
}

// SaleItem snapshots the unit price at sale time so historical sales stay
// accurate after catalog price changes.
type SaleItem struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	SaleID    string `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID string `gorm:"type:uuid;not null" json:"product_id"`
	Quantity  int    `gorm:"not null" json:"quantity"`
	UnitPrice int64  `gorm:"not null" json:"unit_price"`
	LineTotal int64  `gorm:"not null" json:"line_total"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// SaleTax snapshots one enabled tax type applied to a sale
type SaleTax struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	SaleID    string  `gorm:"type:uuid;not null;index" json:"sale_id"`
	TaxTypeID string  `gorm:"type:uuid;not null" json:"tax_type_id"`
	Name      string  `gorm:"type:varchar(100)" json:"name"`
	Rate      float64 `gorm:"not null" json:"rate"`
	Amount    int64   `gorm:"not null" json:"amount"`
}
