package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/internal/ws"
	"go-pos-ws/pkg/validator"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QRISService interface {
	Initiate(ctx context.Context, req *CheckoutRequest, actor Actor) (*model.QRISPayment, error)
	Advance(ctx context.Context, paymentID string) (*model.QRISPayment, error)
	Poll(ctx context.Context, paymentID string) (*model.QRISPayment, error)
	ExpireStale() (int, error)
}

type qrisService struct {
	saleService      *saleService
	cashierStockRepo repository.CashierStockRepository
	saleRepo         repository.SaleRepository
	qrisRepo         repository.QRISPaymentRepository
	provider         PaymentProvider
	db               *gorm.DB
	wsHub            *ws.Hub
	logger           *zap.Logger

	expiry       time.Duration
	pollInterval time.Duration
}

func NewQRISService(
	saleSvc SaleService,
	cashierStockRepo repository.CashierStockRepository,
	saleRepo repository.SaleRepository,
	qrisRepo repository.QRISPaymentRepository,
	provider PaymentProvider,
	db *gorm.DB,
	hub *ws.Hub,
	logger *zap.Logger,
	expiry, pollInterval time.Duration,
) QRISService {
	return &qrisService{
		saleService:      saleSvc.(*saleService),
		cashierStockRepo: cashierStockRepo,
		saleRepo:         saleRepo,
		qrisRepo:         qrisRepo,
		provider:         provider,
		db:               db,
		wsHub:            hub,
		logger:           logger,
		expiry:           expiry,
		pollInterval:     pollInterval,
	}
}

// Initiate creates a PENDING sale with its items and taxes plus the pending
// payment record. Stock is only checked here, not decremented; the decrement
// happens atomically when the provider confirms, so an abandoned QR never
// touches the ledger. The provider call runs outside the sale transaction so
// a slow gateway never holds a DB transaction open; if the provider or the
// payment insert fails afterwards, the pending sale is cancelled.
func (s *qrisService) Initiate(ctx context.Context, req *CheckoutRequest, actor Actor) (*model.QRISPayment, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationErr(errs)
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}

	cashierID := s.saleService.resolveCashierID(req, actor)

	var sale *model.Sale
	err := s.db.Transaction(func(tx *gorm.DB) error {
		built, err := s.saleService.buildSale(tx, req.Items, cashierID, model.SalePending, false)
		if err != nil {
			return err
		}
		built.PaymentMethod = model.PaymentQRIS
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

	providerPayment, err := s.provider.CreatePayment(ctx, sale.ID, sale.Total)
	if err != nil {
		s.voidSale(sale.ID)
		return nil, fmt.Errorf("failed to create provider payment: %w", err)
	}

	payment := &model.QRISPayment{
		SaleID:     sale.ID,
		ExternalID: providerPayment.ExternalID,
		QRPayload:  providerPayment.QRPayload,
		Status:     model.QRISPending,
		ExpiresAt:  time.Now().Add(s.expiry),
	}
	payment.CreatedBy = actor.ID
	payment.UpdatedBy = actor.ID
	if err := s.qrisRepo.Create(s.db, payment); err != nil {
		s.voidSale(sale.ID)
		return nil, err
	}
	payment.Sale = sale

	s.logger.Info("qris payment initiated",
		zap.String("payment_id", payment.ID),
		zap.String("sale_id", payment.SaleID),
		zap.Time("expires_at", payment.ExpiresAt))

	return payment, nil
}

// voidSale cancels a pending sale whose payment could not be set up. No stock
// was decremented at initiation, so cancelling is just the status flip.
func (s *qrisService) voidSale(saleID string) {
	if _, err := s.saleRepo.UpdateStatus(s.db, saleID, model.SalePending, model.SaleCancelled); err != nil {
		s.logger.Warn("failed to cancel sale after payment setup failure",
			zap.String("sale_id", saleID),
			zap.Error(err))
	}
}

// Advance performs one poll step: ask the provider, apply a terminal outcome
// if there is one, enforce the expiry. Safe to call repeatedly; the guarded
// status transitions apply at most once.
func (s *qrisService) Advance(ctx context.Context, paymentID string) (*model.QRISPayment, error) {
	payment, err := s.qrisRepo.FindByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	if payment.Status != model.QRISPending {
		return payment, nil
	}

	if payment.Expired(time.Now()) {
		return s.fail(payment)
	}

	status, err := s.provider.CheckStatus(ctx, payment.ExternalID)
	if err != nil {
		// Transient provider failure: stay pending, caller retries
		s.logger.Warn("qris status check failed",
			zap.String("payment_id", payment.ID),
			zap.Error(err))
		return payment, nil
	}

	switch status {
	case ProviderSuccess:
		return s.confirm(payment)
	case ProviderFailed:
		return s.fail(payment)
	default:
		return payment, nil
	}
}

// Poll drives Advance on an interval until a terminal status, context
// cancellation, or expiry. A cancelled poll marks the payment failed (the
// caller gave up). It always terminates by the expiry deadline even if the
// caller never cancels.
func (s *qrisService) Poll(ctx context.Context, paymentID string) (*model.QRISPayment, error) {
	payment, err := s.qrisRepo.FindByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if payment.Status != model.QRISPending {
		return payment, nil
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	deadline := time.NewTimer(time.Until(payment.ExpiresAt))
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return s.fail(payment)
		case <-deadline.C:
			return s.fail(payment)
		case <-ticker.C:
			current, err := s.Advance(ctx, paymentID)
			if err != nil {
				return nil, err
			}
			if current.Status != model.QRISPending {
				return current, nil
			}
		}
	}
}

// confirm flips payment and sale to their success states and decrements the
// cashier's stock, re-validating every line against current quantities in the
// same transaction.
func (s *qrisService) confirm(payment *model.QRISPayment) (*model.QRISPayment, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		affected, err := s.qrisRepo.UpdateStatus(tx, payment.ID, model.QRISPending, model.QRISSuccess)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrInvalidTransition
		}

		sale := payment.Sale
		if sale == nil {
			loaded, err := s.saleRepo.FindByID(payment.SaleID)
			if err != nil {
				return err
			}
			sale = loaded
		}

		for _, item := range sale.Items {
			var product model.Product
			if err := tx.First(&product, "id = ?", item.ProductID).Error; err != nil {
				return err
			}
			affected, err := s.cashierStockRepo.Adjust(tx, item.ProductID, sale.CashierID, -item.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return fmt.Errorf("%w for product '%s'", ErrInsufficientStock, product.Name)
			}
		}

		affected, err = s.saleRepo.UpdateStatus(tx, payment.SaleID, model.SalePending, model.SaleCompleted)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrInvalidTransition
		}
		return nil
	})
	if err != nil {
		// Stock ran out between initiation and confirmation; the payment
		// cannot complete the sale, so it is terminal-failed.
		if errors.Is(err, ErrInsufficientStock) {
			if _, failErr := s.fail(payment); failErr != nil {
				return nil, failErr
			}
		}
		return nil, err
	}

	payment.Status = model.QRISSuccess

	s.logger.Info("qris payment confirmed",
		zap.String("payment_id", payment.ID),
		zap.String("sale_id", payment.SaleID))

	s.wsHub.Publish(ws.Event{
		Type:     "sale_update",
		Action:   "completed",
		Entity:   "sale",
		EntityID: payment.SaleID,
		Message:  "QRIS payment confirmed",
	})

	return payment, nil
}

// fail marks the payment failed and cancels the pending sale. Nothing was
// decremented at initiation, so there is no stock to restore.
func (s *qrisService) fail(payment *model.QRISPayment) (*model.QRISPayment, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		affected, err := s.qrisRepo.UpdateStatus(tx, payment.ID, model.QRISPending, model.QRISFailed)
		if err != nil {
			return err
		}
		if affected == 0 {
			// Already terminal, nothing to do
			return nil
		}
		_, err = s.saleRepo.UpdateStatus(tx, payment.SaleID, model.SalePending, model.SaleCancelled)
		return err
	})
	if err != nil {
		return nil, err
	}

	payment.Status = model.QRISFailed

	s.logger.Info("qris payment failed",
		zap.String("payment_id", payment.ID),
		zap.String("sale_id", payment.SaleID))

	s.wsHub.Publish(ws.Event{
		Type:     "sale_update",
		Action:   "cancelled",
		Entity:   "sale",
		EntityID: payment.SaleID,
		Message:  "QRIS payment failed or expired",
	})

	return payment, nil
}

// ExpireStale sweeps pending payments past their expiry and fails them. Runs
// from a ticker in main so payments terminate even when nobody polls.
func (s *qrisService) ExpireStale() (int, error) {
	stale, err := s.qrisRepo.FindStalePending(time.Now())
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range stale {
		if _, err := s.fail(&stale[i]); err != nil {
			s.logger.Warn("failed to expire qris payment",
				zap.String("payment_id", stale[i].ID),
				zap.Error(err))
			continue
		}
		expired++
	}
	return expired, nil
}
