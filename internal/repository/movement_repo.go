package repository

import (
	"sort"
	"time"

	"go-pos-ws/internal/model"

	"gorm.io/gorm"
)

type MovementRepository interface {
	CreateDistribution(tx *gorm.DB, d *model.StockDistribution) error
	CreateReturn(tx *gorm.DB, ret *model.StockReturn) error
	CreateAdjustment(tx *gorm.DB, adj *model.StockAdjustment) error
	FindDistributions(productID, cashierID string) ([]model.StockDistribution, error)
	FindReturns(productID, cashierID string) ([]model.StockReturn, error)
	GetDailyMovement(startDate, endDate time.Time) ([]MovementData, error)
}

// MovementData aggregates distributed vs returned quantities per day for the
// stock movement chart
type MovementData struct {
	Date        string `json:"date"`
	Distributed int    `json:"distributed"`
	Returned    int    `json:"returned"`
}

type movementRepo struct {
	db *gorm.DB
}

func NewMovementRepo(db *gorm.DB) MovementRepository {
	return &movementRepo{db}
}

func (r *movementRepo) CreateDistribution(tx *gorm.DB, d *model.StockDistribution) error {
	return tx.Create(d).Error
}

func (r *movementRepo) CreateReturn(tx *gorm.DB, ret *model.StockReturn) error {
	return tx.Create(ret).Error
}

func (r *movementRepo) CreateAdjustment(tx *gorm.DB, adj *model.StockAdjustment) error {
	return tx.Create(adj).Error
}

func (r *movementRepo) FindDistributions(productID, cashierID string) ([]model.StockDistribution, error) {
	var out []model.StockDistribution
	q := r.db.Preload("Product").Preload("Cashier").Order("created_at DESC")
	if productID != "" {
		q = q.Where("product_id = ?", productID)
	}
	if cashierID != "" {
		q = q.Where("cashier_id = ?", cashierID)
	}
	err := q.Find(&out).Error
	return out, err
}

func (r *movementRepo) FindReturns(productID, cashierID string) ([]model.StockReturn, error) {
	var out []model.StockReturn
	q := r.db.Preload("Product").Preload("Cashier").Order("created_at DESC")
	if productID != "" {
		q = q.Where("product_id = ?", productID)
	}
	if cashierID != "" {
		q = q.Where("cashier_id = ?", cashierID)
	}
	err := q.Find(&out).Error
	return out, err
}

func (r *movementRepo) GetDailyMovement(startDate, endDate time.Time) ([]MovementData, error) {
	byDate := map[string]*MovementData{}

	distRows, err := r.db.Model(&model.StockDistribution{}).
		Select("DATE(created_at) as date, COALESCE(SUM(quantity), 0) as total").
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Rows()
	if err != nil {
		return nil, err
	}
	defer distRows.Close()
	for distRows.Next() {
		var date string
		var total int
		if err := distRows.Scan(&date, &total); err != nil {
			return nil, err
		}
		byDate[date] = &MovementData{Date: date, Distributed: total}
	}

	retRows, err := r.db.Model(&model.StockReturn{}).
		Select("DATE(created_at) as date, COALESCE(SUM(quantity), 0) as total").
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Rows()
	if err != nil {
		return nil, err
	}
	defer retRows.Close()
	for retRows.Next() {
		var date string
		var total int
		if err := retRows.Scan(&date, &total); err != nil {
			return nil, err
		}
		if entry, ok := byDate[date]; ok {
			entry.Returned = total
		} else {
			byDate[date] = &MovementData{Date: date, Returned: total}
		}
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	// Chronological output for charting
	sort.Strings(dates)

	results := make([]MovementData, 0, len(dates))
	for _, d := range dates {
		results = append(results, *byDate[d])
	}
	return results, nil
}
