package model

import (
	"time"

	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCanceled  PaymentStatus = "canceled"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Payment mirrors a gateway payment intent. OrderID is an optional weak
// reference; an intent may be created before any order exists.
type Payment struct {
	ID      string  `gorm:"primaryKey;size:64;not null"`
	UserID  string  `gorm:"size:64;index;not null"`
	OrderID *string `gorm:"size:64;index"`

	// correlation key to the gateway, at most one Payment per intent
	GatewayIntentID string `gorm:"size:128;uniqueIndex;not null"`
	GatewayChargeID string `gorm:"size:128;index"`

	Amount   int64  `gorm:"not null"` // paise
	Currency string `gorm:"size:8;not null"`
	Status   PaymentStatus `gorm:"size:16;index;not null"`

	Description   string `gorm:"size:512"`
	ReceiptEmail  string `gorm:"size:255"`
	FailureReason string `gorm:"size:512"`

	RefundID     string `gorm:"size:128"`
	RefundAmount int64
	RefundReason string `gorm:"size:512"`

	PaidAt     *time.Time
	FailedAt   *time.Time
	RefundedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeSave stamps the terminal timestamp the first time the payment
// enters its corresponding status. The fields are never overwritten, so
// a replayed save is a no-op.
func (p *Payment) BeforeSave(tx *gorm.DB) error {
	now := time.Now()
	switch p.Status {
	case PaymentSucceeded:
		if p.PaidAt == nil {
			p.PaidAt = &now
		}
	case PaymentFailed:
		if p.FailedAt == nil {
			p.FailedAt = &now
		}
	case PaymentRefunded:
		if p.RefundedAt == nil {
			p.RefundedAt = &now
		}
	}
	return nil
}
