package service

import (
	"testing"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/internal/ws"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testEnv wires the full service stack against an in-memory database so the
// transactional flows run for real, without a server.
type testEnv struct {
	db  *gorm.DB
	hub *ws.Hub

	productRepo      repository.ProductRepository
	cashierStockRepo repository.CashierStockRepository
	movementRepo     repository.MovementRepository
	saleRepo         repository.SaleRepository
	taxTypeRepo      repository.TaxTypeRepository
	qrisRepo         repository.QRISPaymentRepository
	userRepo         repository.UserRepository

	inventory InventoryService
	movement  MovementService
	sales     SaleService
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.Category{}, &model.Product{}, &model.CashierStock{},
		&model.StockDistribution{}, &model.StockReturn{}, &model.StockAdjustment{},
		&model.Sale{}, &model.SaleItem{}, &model.SaleTax{},
		&model.TaxType{}, &model.QRISPayment{},
		&model.User{}, &model.Privilege{}, &model.Role{},
	))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	hub := ws.NewHub()
	logger := zaptest.NewLogger(t)

	env := &testEnv{
		db:               db,
		hub:              hub,
		productRepo:      repository.NewProductRepo(db),
		cashierStockRepo: repository.NewCashierStockRepo(db),
		movementRepo:     repository.NewMovementRepo(db),
		saleRepo:         repository.NewSaleRepo(db),
		taxTypeRepo:      repository.NewTaxTypeRepo(db),
		qrisRepo:         repository.NewQRISPaymentRepo(db),
		userRepo:         repository.NewUserRepo(db),
	}
	env.inventory = NewInventoryService(env.productRepo, env.cashierStockRepo, env.movementRepo, db, hub, logger)
	env.movement = NewMovementService(env.productRepo, env.cashierStockRepo, env.movementRepo, env.userRepo, db, hub, logger)
	env.sales = NewSaleService(env.productRepo, env.cashierStockRepo, env.saleRepo, env.taxTypeRepo, db, hub, logger)
	return env
}

func seedProduct(t *testing.T, db *gorm.DB, sku string, price int64, stock int) *model.Product {
	t.Helper()
	p := &model.Product{SKU: sku, Name: "Product " + sku, Price: price, Stock: stock, Unit: "pcs"}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedCashier(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	u := &model.User{Email: email, FullName: "Cashier " + email, IsActive: true}
	require.NoError(t, u.SetPassword("secret123"))
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedTaxType(t *testing.T, db *gorm.DB, code string, rate float64, enabled bool) *model.TaxType {
	t.Helper()
	tt := &model.TaxType{Code: code, Name: "Tax " + code, Rate: rate, Enabled: enabled}
	require.NoError(t, db.Create(tt).Error)
	return tt
}

func warehouseStock(t *testing.T, db *gorm.DB, productID string) int {
	t.Helper()
	var p model.Product
	require.NoError(t, db.First(&p, "id = ?", productID).Error)
	return p.Stock
}

func cashierQty(t *testing.T, db *gorm.DB, productID, cashierID string) int {
	t.Helper()
	var cs model.CashierStock
	err := db.First(&cs, "product_id = ? AND cashier_id = ?", productID, cashierID).Error
	if err == gorm.ErrRecordNotFound {
		return 0
	}
	require.NoError(t, err)
	return cs.Quantity
}

var testActor = Actor{ID: "00000000-0000-0000-0000-000000000001", Name: "Test Admin"}
