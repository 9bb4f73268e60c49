package model

import "time"

type QRISStatus string

const (
	QRISPending QRISStatus = "PENDING"
	QRISSuccess QRISStatus = "SUCCESS"
	QRISFailed  QRISStatus = "FAILED"
)

// QRISPayment is the handshake record for an asynchronous QRIS checkout.
// It is polled until the provider reports a terminal status; past ExpiresAt
// a still-pending payment is treated as failed.
type QRISPayment struct {
	BaseModel
	SaleID     string     `gorm:"type:uuid;uniqueIndex;not null" json:"sale_id"`
	ExternalID string     `gorm:"type:varchar(100);index" json:"external_id"`
	QRPayload  string     `gorm:"type:text" json:"qr_payload"`
	Status     QRISStatus `gorm:"type:varchar(10);not null;index" json:"status"`
	ExpiresAt  time.Time  `gorm:"not null" json:"expires_at"`

	Sale *Sale `gorm:"foreignKey:SaleID" json:"sale,omitempty"`
}

func (QRISPayment) TableName() string {
	return "qris_payments"
}

// Expired reports whether the payment window has closed at the given time
func (p *QRISPayment) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}
