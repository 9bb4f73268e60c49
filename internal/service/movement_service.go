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

type MovementService interface {
	Distribute(req *DistributeRequest, actor Actor) (*StockMutationResult, error)
	Return(req *ReturnRequest, actor Actor) (*StockMutationResult, error)
	GetDistributions(productID, cashierID string) ([]model.StockDistribution, error)
	GetReturns(productID, cashierID string) ([]model.StockReturn, error)
}

// DistributeRequest moves stock from the warehouse to a cashier
type DistributeRequest struct {
	ProductID string `json:"product_id" validate:"uuid_required"`
	CashierID string `json:"cashier_id" validate:"uuid_required"`
	Quantity  int    `json:"quantity"`
}

// ReturnRequest moves stock from a cashier back to the warehouse. ReturnAll
// resolves the quantity to the cashier's full current stock inside the
// transaction; it exists so "return everything" is never spelled as a magic
// quantity value.
type ReturnRequest struct {
	ProductID string             `json:"product_id" validate:"uuid_required"`
	CashierID string             `json:"cashier_id" validate:"uuid_required"`
	Quantity  int                `json:"quantity"`
	ReturnAll bool               `json:"return_all"`
	Reason    model.ReturnReason `json:"reason"`
}

type movementService struct {
	productRepo      repository.ProductRepository
	cashierStockRepo repository.CashierStockRepository
	movementRepo     repository.MovementRepository
	userRepo         repository.UserRepository
	db               *gorm.DB
	wsHub            *ws.Hub
	logger           *zap.Logger
}

func NewMovementService(
	productRepo repository.ProductRepository,
	cashierStockRepo repository.CashierStockRepository,
	movementRepo repository.MovementRepository,
	userRepo repository.UserRepository,
	db *gorm.DB,
	hub *ws.Hub,
	logger *zap.Logger,
) MovementService {
	return &movementService{
		productRepo:      productRepo,
		cashierStockRepo: cashierStockRepo,
		movementRepo:     movementRepo,
		userRepo:         userRepo,
		db:               db,
		wsHub:            hub,
		logger:           logger,
	}
}

// Distribute decrements warehouse stock, increments the cashier's stock, and
// appends the distribution log entry in one transaction. Either all three
// commit or none do.
func (s *movementService) Distribute(req *DistributeRequest, actor Actor) (*StockMutationResult, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationErr(errs)
	}
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	if _, err := s.userRepo.FindByID(req.CashierID); err != nil {
		return nil, ErrCashierNotFound
	}

	var result StockMutationResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		affected, err := s.productRepo.AdjustStock(tx, req.ProductID, -req.Quantity, actor.ID)
		if err != nil {
			return err
		}
		if affected == 0 {
			if _, err := s.productRepo.GetStock(tx, req.ProductID); errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return ErrInsufficientWarehouseStock
		}

		if err := s.cashierStockRepo.Ensure(tx, req.ProductID, req.CashierID); err != nil {
			return err
		}
		if _, err := s.cashierStockRepo.Adjust(tx, req.ProductID, req.CashierID, req.Quantity); err != nil {
			return err
		}

		newStock, err := s.productRepo.GetStock(tx, req.ProductID)
		if err != nil {
			return err
		}
		result = StockMutationResult{Success: true, PreviousStock: newStock + req.Quantity, NewStock: newStock}

		dist := &model.StockDistribution{
			ProductID: req.ProductID,
			CashierID: req.CashierID,
			Quantity:  req.Quantity,
		}
		dist.CreatedBy = actor.ID
		dist.UpdatedBy = actor.ID
		return s.movementRepo.CreateDistribution(tx, dist)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock distributed",
		zap.String("product_id", req.ProductID),
		zap.String("cashier_id", req.CashierID),
		zap.Int("quantity", req.Quantity),
		zap.String("actor", actor.ID))

	s.wsHub.Publish(ws.Event{
		Type:     "stock_update",
		Action:   "distributed",
		Entity:   "product",
		EntityID: req.ProductID,
		Data: map[string]interface{}{
			"cashier_id":      req.CashierID,
			"quantity":        req.Quantity,
			"warehouse_stock": result.NewStock,
		},
		User:    map[string]string{"id": actor.ID, "name": actor.Name},
		Message: fmt.Sprintf("%s distributed %d units to cashier", actor.Name, req.Quantity),
	})

	return &result, nil
}

// Return moves stock from a cashier back to the warehouse with an audited
// reason. The reported previous/new stock is the cashier's, since the return
// screen is cashier-scoped.
func (s *movementService) Return(req *ReturnRequest, actor Actor) (*StockMutationResult, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationErr(errs)
	}
	if !model.ValidReturnReason(req.Reason) {
		return nil, ErrInvalidReason
	}
	if !req.ReturnAll && req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var result StockMutationResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.productRepo.GetStock(tx, req.ProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		quantity := req.Quantity
		current, err := s.cashierStockRepo.GetQuantity(tx, req.ProductID, req.CashierID)
		if err != nil {
			return err
		}
		if req.ReturnAll {
			quantity = current
			if quantity <= 0 {
				return ErrInvalidQuantity
			}
		}

		affected, err := s.cashierStockRepo.Adjust(tx, req.ProductID, req.CashierID, -quantity)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrInsufficientCashierStock
		}

		affected, err = s.productRepo.AdjustStock(tx, req.ProductID, quantity, actor.ID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrProductNotFound
		}

		newQty, err := s.cashierStockRepo.GetQuantity(tx, req.ProductID, req.CashierID)
		if err != nil {
			return err
		}
		result = StockMutationResult{Success: true, PreviousStock: newQty + quantity, NewStock: newQty}

		ret := &model.StockReturn{
			ProductID: req.ProductID,
			CashierID: req.CashierID,
			Quantity:  quantity,
			Reason:    req.Reason,
		}
		ret.CreatedBy = actor.ID
		ret.UpdatedBy = actor.ID
		return s.movementRepo.CreateReturn(tx, ret)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock returned",
		zap.String("product_id", req.ProductID),
		zap.String("cashier_id", req.CashierID),
		zap.Int("quantity", result.PreviousStock-result.NewStock),
		zap.String("reason", string(req.Reason)),
		zap.String("actor", actor.ID))

	s.wsHub.Publish(ws.Event{
		Type:     "stock_update",
		Action:   "returned",
		Entity:   "product",
		EntityID: req.ProductID,
		Data: map[string]interface{}{
			"cashier_id":    req.CashierID,
			"quantity":      result.PreviousStock - result.NewStock,
			"reason":        req.Reason,
			"cashier_stock": result.NewStock,
		},
		User:    map[string]string{"id": actor.ID, "name": actor.Name},
		Message: fmt.Sprintf("%s returned %d units to warehouse (%s)", actor.Name, result.PreviousStock-result.NewStock, req.Reason),
	})

	return &result, nil
}

func (s *movementService) GetDistributions(productID, cashierID string) ([]model.StockDistribution, error) {
	return s.movementRepo.FindDistributions(productID, cashierID)
}

func (s *movementService) GetReturns(productID, cashierID string) ([]model.StockReturn, error) {
	return s.movementRepo.FindReturns(productID, cashierID)
}
