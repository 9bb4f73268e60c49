package repository

import (
	"time"

	"go-pos-ws/internal/model"

	"gorm.io/gorm"
)

type SaleRepository interface {
	Create(tx *gorm.DB, sale *model.Sale) error
	FindByID(id string) (*model.Sale, error)
	FindAll(filter SaleFilter) ([]model.Sale, error)
	UpdateStatus(tx *gorm.DB, id string, from, to model.SaleStatus) (int64, error)
	GetDailySummary(startDate, endDate time.Time) ([]SalesSummaryData, error)
	GetTodayStats() (int64, int64, error)
}

// SaleFilter narrows sale listings for the history and report screens
type SaleFilter struct {
	CashierID string
	Status    model.SaleStatus
	StartDate *time.Time
	EndDate   *time.Time
}

// SalesSummaryData aggregates completed sales per day
type SalesSummaryData struct {
	Date     string `json:"date"`
	Count    int    `json:"count"`
	Subtotal int64  `json:"subtotal"`
	TotalTax int64  `json:"total_tax"`
	Total    int64  `json:"total"`
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

// Create inserts the sale together with its items and tax lines; GORM writes
// the associations in the same tx so they commit or roll back as one unit.
func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	return tx.Create(sale).Error
}

func (r *saleRepo) FindByID(id string) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.Preload("Items").Preload("Items.Product").Preload("Taxes").Preload("Cashier").
		First(&sale, "id = ?", id).Error
	return &sale, err
}

func (r *saleRepo) FindAll(filter SaleFilter) ([]model.Sale, error) {
	var sales []model.Sale
	q := r.db.Preload("Items").Preload("Taxes").Preload("Cashier").Order("created_at DESC")
	if filter.CashierID != "" {
		q = q.Where("cashier_id = ?", filter.CashierID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.StartDate != nil {
		q = q.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("created_at <= ?", *filter.EndDate)
	}
	err := q.Find(&sales).Error
	return sales, err
}

// UpdateStatus flips the status only when the current value matches `from`,
// so concurrent transitions cannot double-apply. Returns rows affected.
func (r *saleRepo) UpdateStatus(tx *gorm.DB, id string, from, to model.SaleStatus) (int64, error) {
	res := tx.Model(&model.Sale{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (r *saleRepo) GetDailySummary(startDate, endDate time.Time) ([]SalesSummaryData, error) {
	var results []SalesSummaryData

	rows, err := r.db.Model(&model.Sale{}).
		Select(`
			DATE(created_at) as date,
			COUNT(*) as count,
			COALESCE(SUM(subtotal), 0) as subtotal,
			COALESCE(SUM(total_tax), 0) as total_tax,
			COALESCE(SUM(total), 0) as total
		`).
		Where("status = ? AND created_at BETWEEN ? AND ?", model.SaleCompleted, startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data SalesSummaryData
		if err := rows.Scan(&data.Date, &data.Count, &data.Subtotal, &data.TotalTax, &data.Total); err != nil {
			return nil, err
		}
		results = append(results, data)
	}
	return results, nil
}

func (r *saleRepo) GetTodayStats() (int64, int64, error) {
	var count int64
	var total int64

	startOfDay := time.Now().Truncate(24 * time.Hour)

	if err := r.db.Model(&model.Sale{}).
		Where("status = ? AND created_at >= ?", model.SaleCompleted, startOfDay).
		Count(&count).Error; err != nil {
		return 0, 0, err
	}

	if err := r.db.Model(&model.Sale{}).
		Where("status = ? AND created_at >= ?", model.SaleCompleted, startOfDay).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error; err != nil {
		return 0, 0, err
	}

	return count, total, nil
}
