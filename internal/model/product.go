package model

type Product struct {
	BaseModel
	SKU         string  `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name        string  `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description string  `gorm:"type:text" json:"description"`
	ImageURL    string  `gorm:"type:text" json:"image_url"`
	Price       int64   `gorm:"default:0" json:"price" validate:"gte=0"`
	Stock       int     `gorm:"default:0" json:"stock" validate:"gte=0"` // Warehouse stock, never negative
	Unit        string  `gorm:"type:varchar(20)" json:"unit"`
	CategoryID  *string `gorm:"type:uuid;index" json:"category_id"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	// User tracking
	CreatedByUserID *string `gorm:"type:uuid" json:"created_by_user_id,omitempty"`
	UpdatedByUserID *string `gorm:"type:uuid" json:"updated_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
	UpdatedByUser   *User   `gorm:"foreignKey:UpdatedByUserID;references:ID" json:"updated_by_user,omitempty"`

	// Stock currently held by cashiers, keyed by cashier
	CashierStocks []CashierStock `gorm:"foreignKey:ProductID" json:"cashier_stocks,omitempty"`
}

type Category struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required"`
	Description string `gorm:"type:text" json:"description"`
}

func (Category) TableName() string {
	return "categories"
}
