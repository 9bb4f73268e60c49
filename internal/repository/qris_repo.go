package repository

import (
	"time"

	"go-pos-ws/internal/model"

	"gorm.io/gorm"
)

type QRISPaymentRepository interface {
	Create(tx *gorm.DB, payment *model.QRISPayment) error
	FindByID(id string) (*model.QRISPayment, error)
	FindBySaleID(saleID string) (*model.QRISPayment, error)
	UpdateStatus(tx *gorm.DB, id string, from, to model.QRISStatus) (int64, error)
	FindStalePending(now time.Time) ([]model.QRISPayment, error)
}

type qrisRepo struct {
	db *gorm.DB
}

func NewQRISPaymentRepo(db *gorm.DB) QRISPaymentRepository {
	return &qrisRepo{db}
}

func (r *qrisRepo) Create(tx *gorm.DB, payment *model.QRISPayment) error {
	return tx.Create(payment).Error
}

func (r *qrisRepo) FindByID(id string) (*model.QRISPayment, error) {
	var payment model.QRISPayment
	err := r.db.Preload("Sale").Preload("Sale.Items").First(&payment, "id = ?", id).Error
	return &payment, err
}

func (r *qrisRepo) FindBySaleID(saleID string) (*model.QRISPayment, error) {
	var payment model.QRISPayment
	err := r.db.First(&payment, "sale_id = ?", saleID).Error
	return &payment, err
}

// UpdateStatus is guarded on the current status so the pending -> terminal
// transition happens exactly once even when the poller and the sweeper race.
func (r *qrisRepo) UpdateStatus(tx *gorm.DB, id string, from, to model.QRISStatus) (int64, error) {
	res := tx.Model(&model.QRISPayment{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (r *qrisRepo) FindStalePending(now time.Time) ([]model.QRISPayment, error) {
	var payments []model.QRISPayment
	err := r.db.Where("status = ? AND expires_at <= ?", model.QRISPending, now).Find(&payments).Error
	return payments, err
}
