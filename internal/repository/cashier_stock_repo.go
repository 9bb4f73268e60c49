package repository

import (
	"errors"

	"go-pos-ws/internal/model"

	"gorm.io/gorm"
)

type CashierStockRepository interface {
	GetQuantity(tx *gorm.DB, productID, cashierID string) (int, error)
	ListByCashier(cashierID string) ([]model.CashierStock, error)
	ListByProduct(productID string) ([]model.CashierStock, error)
	Ensure(tx *gorm.DB, productID, cashierID string) error
	Adjust(tx *gorm.DB, productID, cashierID string, delta int) (int64, error)
}

type cashierStockRepo struct {
	db *gorm.DB
}

func NewCashierStockRepo(db *gorm.DB) CashierStockRepository {
	return &cashierStockRepo{db}
}

// GetQuantity returns 0 for a cashier that never held the product
func (r *cashierStockRepo) GetQuantity(tx *gorm.DB, productID, cashierID string) (int, error) {
	var cs model.CashierStock
	err := tx.First(&cs, "product_id = ? AND cashier_id = ?", productID, cashierID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return cs.Quantity, nil
}

func (r *cashierStockRepo) ListByCashier(cashierID string) ([]model.CashierStock, error) {
	var stocks []model.CashierStock
	err := r.db.Preload("Product").Where("cashier_id = ?", cashierID).Find(&stocks).Error
	return stocks, err
}

func (r *cashierStockRepo) ListByProduct(productID string) ([]model.CashierStock, error) {
	var stocks []model.CashierStock
	err := r.db.Preload("Cashier").Where("product_id = ?", productID).Find(&stocks).Error
	return stocks, err
}

// Ensure creates the (product, cashier) row with quantity 0 if it is missing,
// so a following guarded Adjust has a row to hit.
func (r *cashierStockRepo) Ensure(tx *gorm.DB, productID, cashierID string) error {
	cs := model.CashierStock{ProductID: productID, CashierID: cashierID}
	return tx.Where("product_id = ? AND cashier_id = ?", productID, cashierID).
		FirstOrCreate(&cs).Error
}

// Adjust applies delta with the same non-negative guard as warehouse stock.
// Zero rows affected means the row is missing or the guard rejected the delta.
func (r *cashierStockRepo) Adjust(tx *gorm.DB, productID, cashierID string, delta int) (int64, error) {
	res := tx.Model(&model.CashierStock{}).
		Where("product_id = ? AND cashier_id = ? AND quantity + ? >= 0", productID, cashierID, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	return res.RowsAffected, res.Error
}
