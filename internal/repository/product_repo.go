package repository

import (
	"go-pos-ws/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id string) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id string, deletedBy string) error
	GetStock(tx *gorm.DB, id string) (int, error)
	AdjustStock(tx *gorm.DB, id string, delta int, updatedBy string) (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Category").Preload("CashierStocks").Preload("CashierStocks.Cashier").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id string) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Category").Preload("CashierStocks").First(&product, "id = ?", id).Error
	return &product, err
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "sku = ?", sku).Error
	return &product, err
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(id string, deletedBy string) error {
	if err := r.db.Model(&model.Product{}).Where("id = ?", id).
		Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}

// GetStock reads the warehouse quantity inside the given tx (or plain db)
func (r *productRepo) GetStock(tx *gorm.DB, id string) (int, error) {
	var product model.Product
	if err := tx.Select("stock").First(&product, "id = ?", id).Error; err != nil {
		return 0, err
	}
	return product.Stock, nil
}

// AdjustStock applies delta to the warehouse quantity with a guard that keeps
// it non-negative. The guarded UPDATE is the concurrency control: two
// concurrent decrements cannot both pass the guard against the same row.
// Returns the number of rows affected; zero means the product is missing or
// the guard rejected the delta.
func (r *productRepo) AdjustStock(tx *gorm.DB, id string, delta int, updatedBy string) (int64, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock + ?", delta),
			"updated_by": updatedBy,
		})
	return res.RowsAffected, res.Error
}
