package service

import (
	"errors"
	"fmt"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/internal/tax"
	"go-pos-ws/internal/ws"
	"go-pos-ws/pkg/validator"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SaleService interface {
	CompleteSale(req *CheckoutRequest, actor Actor) (*SaleResult, error)
	CancelSale(saleID string, actor Actor) (*model.Sale, error)
	GetSaleByID(id string) (*model.Sale, error)
	GetSales(filter repository.SaleFilter) ([]model.Sale, error)
	PreviewTotals(subtotal int64) (tax.Breakdown, error)
}

// CartItemRequest is one line of the ephemeral, client-owned cart
type CartItemRequest struct {
	ProductID string `json:"product_id" validate:"uuid_required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// CheckoutRequest carries the cart to checkout. CashierID is optional; when
// empty the sale is booked against the acting user's own stock.
type CheckoutRequest struct {
	Items         []CartItemRequest   `json:"items" validate:"required,min=1,dive"`
	PaymentMethod model.PaymentMethod `json:"payment_method" validate:"required,oneof=CASH QRIS CARD"`
	CashierID     string              `json:"cashier_id"`
	CashReceived  int64               `json:"cash_received"`
}

// SaleResult is returned from a completed checkout
type SaleResult struct {
	Success     bool        `json:"success"`
	SaleID      string      `json:"sale_id"`
	Subtotal    int64       `json:"subtotal"`
	TotalTax    int64       `json:"total_tax"`
	Total       int64       `json:"total"`
	ChangeGiven int64       `json:"change_given"`
	Sale        *model.Sale `json:"sale,omitempty"`
}

type saleService struct {
	productRepo      repository.ProductRepository
	cashierStockRepo repository.CashierStockRepository
	saleRepo         repository.SaleRepository
	taxTypeRepo      repository.TaxTypeRepository
	db               *gorm.DB
	wsHub            *ws.Hub
	logger           *zap.Logger
}

func NewSaleService(
	productRepo repository.ProductRepository,
	cashierStockRepo repository.CashierStockRepository,
	saleRepo repository.SaleRepository,
	taxTypeRepo repository.TaxTypeRepository,
	db *gorm.DB,
	hub *ws.Hub,
	logger *zap.Logger,
) SaleService {
	return &saleService{
		productRepo:      productRepo,
		cashierStockRepo: cashierStockRepo,
		saleRepo:         saleRepo,
		taxTypeRepo:      taxTypeRepo,
		db:               db,
		wsHub:            hub,
		logger:           logger,
	}
}

func (s *saleService) resolveCashierID(req *CheckoutRequest, actor Actor) string {
	if req.CashierID != "" {
		return req.CashierID
	}
	return actor.ID
}

// buildSale assembles the Sale with items and taxes inside tx, decrementing
// the cashier's stock per line. Prices and tax rates are snapshotted from the
// catalog at this moment. Any stock failure aborts the whole transaction.
func (s *saleService) buildSale(tx *gorm.DB, items []CartItemRequest, cashierID string, status model.SaleStatus, decrementStock bool) (*model.Sale, error) {
	taxTypes, err := s.taxTypeRepo.FindEnabled()
	if err != nil {
		return nil, err
	}

	sale := &model.Sale{
		CashierID: cashierID,
		Status:    status,
	}

	for _, line := range items {
		var product model.Product
		if err := tx.First(&product, "id = ?", line.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, err
		}

		if decrementStock {
			affected, err := s.cashierStockRepo.Adjust(tx, line.ProductID, cashierID, -line.Quantity)
			if err != nil {
				return nil, err
			}
			if affected == 0 {
				return nil, fmt.Errorf("%w for product '%s'", ErrInsufficientStock, product.Name)
			}
		} else {
			current, err := s.cashierStockRepo.GetQuantity(tx, line.ProductID, cashierID)
			if err != nil {
				return nil, err
			}
			if current < line.Quantity {
				return nil, fmt.Errorf("%w for product '%s'", ErrInsufficientStock, product.Name)
			}
		}

		lineTotal := product.Price * int64(line.Quantity)
		sale.Items = append(sale.Items, model.SaleItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
			LineTotal: lineTotal,
		})
		sale.Subtotal += lineTotal
	}

	breakdown := tax.Calculate(sale.Subtotal, taxTypes)
	for _, t := range breakdown.Taxes {
		sale.Taxes = append(sale.Taxes, model.SaleTax{
			TaxTypeID: t.TaxTypeID,
			Name:      t.Name,
			Rate:      t.Rate,
			Amount:    t.Amount,
		})
	}
	sale.TotalTax = breakdown.TotalTax
	sale.Total = breakdown.Total

	return sale, nil
}

// CompleteSale validates the cart against the cashier's own stock (not the
// warehouse), decrements it per line, and records the sale with snapshotted
// prices and taxes as one atomic unit. Cash checkout additionally validates
// received >= total and computes change.
func (s *saleService) CompleteSale(req *CheckoutRequest, actor Actor) (*SaleResult, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationErr(errs)
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if req.PaymentMethod == model.PaymentQRIS {
		return nil, fmt.Errorf("%w: QRIS checkout is asynchronous, use the QRIS flow", ErrInvalidTransition)
	}

	cashierID := s.resolveCashierID(req, actor)

	var sale *model.Sale
	err := s.db.Transaction(func(tx *gorm.DB) error {
		built, err := s.buildSale(tx, req.Items, cashierID, model.SaleCompleted, true)
		if err != nil {
			return err
		}

		built.PaymentMethod = req.PaymentMethod
		if req.PaymentMethod == model.PaymentCash {
			if req.CashReceived < built.Total {
				return ErrInsufficientPayment
			}
			built.CashReceived = req.CashReceived
			built.ChangeGiven = req.CashReceived - built.Total
		}
		built.CreatedBy = actor.ID
		built.UpdatedBy = actor.ID

		if err := s.saleRepo.Create(tx, built); err != nil {
			return err
		}
		sale = built
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale completed",
		zap.String("sale_id", sale.ID),
		zap.String("cashier_id", cashierID),
		zap.Int64("total", sale.Total),
		zap.String("payment_method", string(sale.PaymentMethod)))

	s.wsHub.Publish(ws.Event{
		Type:     "sale_update",
		Action:   "completed",
		Entity:   "sale",
		EntityID: sale.ID,
		Data: map[string]interface{}{
			"cashier_id": cashierID,
			"total":      sale.Total,
			"items":      len(sale.Items),
		},
		User:    map[string]string{"id": actor.ID, "name": actor.Name},
		Message: fmt.Sprintf("%s completed a %s sale", actor.Name, sale.PaymentMethod),
	})

	return &SaleResult{
		Success:     true,
		SaleID:      sale.ID,
		Subtotal:    sale.Subtotal,
		TotalTax:    sale.TotalTax,
		Total:       sale.Total,
		ChangeGiven: sale.ChangeGiven,
		Sale:        sale,
	}, nil
}

// CancelSale transitions a completed sale to cancelled and puts the sold
// quantities back on the cashier's stock, atomically.
func (s *saleService) CancelSale(saleID string, actor Actor) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		affected, err := s.saleRepo.UpdateStatus(tx, saleID, model.SaleCompleted, model.SaleCancelled)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrInvalidTransition
		}

		for _, item := range sale.Items {
			if err := s.cashierStockRepo.Ensure(tx, item.ProductID, sale.CashierID); err != nil {
				return err
			}
			if _, err := s.cashierStockRepo.Adjust(tx, item.ProductID, sale.CashierID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sale.Status = model.SaleCancelled

	s.logger.Info("sale cancelled",
		zap.String("sale_id", saleID),
		zap.String("actor", actor.ID))

	s.wsHub.Publish(ws.Event{
		Type:     "sale_update",
		Action:   "cancelled",
		Entity:   "sale",
		EntityID: saleID,
		User:     map[string]string{"id": actor.ID, "name": actor.Name},
		Message:  fmt.Sprintf("%s cancelled sale %s", actor.Name, saleID),
	})

	return sale, nil
}

func (s *saleService) GetSaleByID(id string) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSaleNotFound
	}
	return sale, err
}

func (s *saleService) GetSales(filter repository.SaleFilter) ([]model.Sale, error) {
	return s.saleRepo.FindAll(filter)
}

// PreviewTotals computes the tax breakdown for a subtotal so the cart screen
// can show a live total without creating anything.
func (s *saleService) PreviewTotals(subtotal int64) (tax.Breakdown, error) {
	taxTypes, err := s.taxTypeRepo.FindEnabled()
	if err != nil {
		return tax.Breakdown{}, err
	}
	return tax.Calculate(subtotal, taxTypes), nil
}
