package service

import (
	"errors"
	"fmt"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/internal/ws"
	"go-pos-ws/pkg/validator"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type InventoryService interface {
	CreateProduct(req *model.Product, actor Actor) error
	UpdateProduct(id string, req *model.Product, actor Actor) (*model.Product, error)
	DeleteProduct(id string, actor Actor) error
	GetAllProducts() ([]model.Product, error)
	GetProductByID(id string) (*model.Product, error)
	GetWarehouseStock(productID string) (int, error)
	GetCashierStock(productID, cashierID string) (int, error)
	GetCashierStocks(cashierID string) ([]model.CashierStock, error)
	AdjustWarehouseStock(productID string, delta int, reason string, actor Actor) (*StockMutationResult, error)
	CreateCategory(req *model.Category, actor Actor) error
	GetAllCategories() ([]model.Category, error)
}

type inventoryService struct {
	productRepo      repository.ProductRepository
	cashierStockRepo repository.CashierStockRepository
	movementRepo     repository.MovementRepository
	db               *gorm.DB
	wsHub            *ws.Hub
	logger           *zap.Logger
}

func NewInventoryService(
	productRepo repository.ProductRepository,
	cashierStockRepo repository.CashierStockRepository,
	movementRepo repository.MovementRepository,
	db *gorm.DB,
	hub *ws.Hub,
	logger *zap.Logger,
) InventoryService {
	return &inventoryService{
		productRepo:      productRepo,
		cashierStockRepo: cashierStockRepo,
		movementRepo:     movementRepo,
		db:               db,
		wsHub:            hub,
		logger:           logger,
	}
}

func (s *inventoryService) CreateProduct(req *model.Product, actor Actor) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return validationErr(errs)
	}

	// SKU must be globally unique
	existing, _ := s.productRepo.FindBySKU(req.SKU)
	if existing != nil && existing.ID != "" {
		return ErrSKUExists
	}

	req.CreatedBy = actor.ID
	req.UpdatedBy = actor.ID
	req.CreatedByUserID = &actor.ID
	req.UpdatedByUserID = &actor.ID

	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	s.logger.Info("product created",
		zap.String("product_id", req.ID),
		zap.String("sku", req.SKU),
		zap.String("actor", actor.ID))

	s.wsHub.Publish(ws.Event{
		Type:     "stock_update",
		Action:   "product_created",
		Entity:   "product",
		EntityID: req.ID,
		Data:     req,
		User:     map[string]string{"id": actor.ID, "name": actor.Name, "email": actor.Email},
		Message:  fmt.Sprintf("%s created product '%s'", actor.Name, req.Name),
	})

	return nil
}

func (s *inventoryService) UpdateProduct(id string, req *model.Product, actor Actor) (*model.Product, error) {
	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if req.SKU != existing.SKU {
		if dup, _ := s.productRepo.FindBySKU(req.SKU); dup != nil && dup.ID != "" {
			return nil, ErrSKUExists
		}
	}

	existing.Name = req.Name
	existing.SKU = req.SKU
	existing.Description = req.Description
	existing.ImageURL = req.ImageURL
	existing.Price = req.Price
	existing.Unit = req.Unit
	existing.CategoryID = req.CategoryID
	existing.UpdatedBy = actor.ID
	existing.UpdatedByUserID = &actor.ID

	if err := s.productRepo.Update(existing); err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:     "stock_update",
		Action:   "product_updated",
		Entity:   "product",
		EntityID: existing.ID,
		Data:     existing,
		User:     map[string]string{"id": actor.ID, "name": actor.Name, "email": actor.Email},
		Message:  fmt.Sprintf("%s updated product '%s'", actor.Name, existing.Name),
	})

	return existing, nil
}

func (s *inventoryService) DeleteProduct(id string, actor Actor) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return s.productRepo.Delete(id, actor.ID)
}

func (s *inventoryService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *inventoryService) GetProductByID(id string) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	return product, err
}

func (s *inventoryService) GetWarehouseStock(productID string) (int, error) {
	stock, err := s.productRepo.GetStock(s.db, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrProductNotFound
	}
	return stock, err
}

func (s *inventoryService) GetCashierStock(productID, cashierID string) (int, error) {
	return s.cashierStockRepo.GetQuantity(s.db, productID, cashierID)
}

func (s *inventoryService) GetCashierStocks(cashierID string) ([]model.CashierStock, error) {
	return s.cashierStockRepo.ListByCashier(cashierID)
}

// AdjustWarehouseStock applies a signed correction to warehouse stock and logs
// it with its reason. Fails without side effects when the delta would push the
// quantity negative.
func (s *inventoryService) AdjustWarehouseStock(productID string, delta int, reason string, actor Actor) (*StockMutationResult, error) {
	if delta == 0 {
		return nil, ErrInvalidQuantity
	}
	if reason == "" {
		return nil, fmt.Errorf("%w: adjustment reason is required", ErrInvalidReason)
	}

	var result StockMutationResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		affected, err := s.productRepo.AdjustStock(tx, productID, delta, actor.ID)
		if err != nil {
			return err
		}
		if affected == 0 {
			if _, err := s.productRepo.GetStock(tx, productID); errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return ErrInsufficientWarehouseStock
		}

		newStock, err := s.productRepo.GetStock(tx, productID)
		if err != nil {
			return err
		}
		result = StockMutationResult{Success: true, PreviousStock: newStock - delta, NewStock: newStock}

		adj := &model.StockAdjustment{
			ProductID:     productID,
			Delta:         delta,
			PreviousStock: result.PreviousStock,
			NewStock:      result.NewStock,
			Reason:        reason,
		}
		adj.CreatedBy = actor.ID
		adj.UpdatedBy = actor.ID
		return s.movementRepo.CreateAdjustment(tx, adj)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("warehouse stock adjusted",
		zap.String("product_id", productID),
		zap.Int("delta", delta),
		zap.String("reason", reason),
		zap.String("actor", actor.ID))

	s.wsHub.Publish(ws.Event{
		Type:     "stock_update",
		Action:   "warehouse_adjusted",
		Entity:   "product",
		EntityID: productID,
		Data:     result,
		User:     map[string]string{"id": actor.ID, "name": actor.Name},
		Message:  fmt.Sprintf("%s adjusted warehouse stock by %d (%s)", actor.Name, delta, reason),
	})

	return &result, nil
}

func (s *inventoryService) CreateCategory(req *model.Category, actor Actor) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return validationErr(errs)
	}
	req.CreatedBy = actor.ID
	req.UpdatedBy = actor.ID
	return s.db.Create(req).Error
}

func (s *inventoryService) GetAllCategories() ([]model.Category, error) {
	var categories []model.Category
	err := s.db.Order("name ASC").Find(&categories).Error
	return categories, err
}
