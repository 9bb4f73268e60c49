package service

import (
	"time"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"

	"gorm.io/gorm"
)

type DashboardService interface {
	GetDashboardStats() (*DashboardStats, error)
	GetStockMovement(days int) ([]repository.MovementData, error)
	GetSalesSummary(startDate, endDate time.Time) ([]repository.SalesSummaryData, error)
}

// DashboardStats is the overview card data for the admin home screen
type DashboardStats struct {
	TotalProducts   int64 `json:"total_products"`
	LowStockCount   int64 `json:"low_stock_count"`
	TotalValuation  int64 `json:"total_valuation"`
	TodaySalesCount int64 `json:"today_sales_count"`
	TodaySalesTotal int64 `json:"today_sales_total"`
}

type dashboardService struct {
	movementRepo repository.MovementRepository
	saleRepo     repository.SaleRepository
	db           *gorm.DB
}

func NewDashboardService(movementRepo repository.MovementRepository, saleRepo repository.SaleRepository, db *gorm.DB) DashboardService {
	return &dashboardService{
		movementRepo: movementRepo,
		saleRepo:     saleRepo,
		db:           db,
	}
}

func (s *dashboardService) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	if err := s.db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}

	// Low stock means fewer than 10 units left in the warehouse
	if err := s.db.Model(&model.Product{}).Where("stock < ?", 10).Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&model.Product{}).Select("COALESCE(SUM(stock * price), 0)").Scan(&stats.TotalValuation).Error; err != nil {
		return nil, err
	}

	count, total, err := s.saleRepo.GetTodayStats()
	if err != nil {
		return nil, err
	}
	stats.TodaySalesCount = count
	stats.TodaySalesTotal = total

	return &stats, nil
}

func (s *dashboardService) GetStockMovement(days int) ([]repository.MovementData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)
	return s.movementRepo.GetDailyMovement(startDate, endDate)
}

func (s *dashboardService) GetSalesSummary(startDate, endDate time.Time) ([]repository.SalesSummaryData, error) {
	return s.saleRepo.GetDailySummary(startDate, endDate)
}
