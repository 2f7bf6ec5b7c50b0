package repository

import (
	"context"
	"time"

	"jansan-commerce/internal/model"

	"gorm.io/gorm"
)

type PaymentQuery struct {
	UserID string
	Status string
	Page   int
	Limit  int
}

type RefundFields struct {
	RefundID     string
	RefundAmount int64
	RefundReason string
}

// PaymentRepository mutates payments only through status-conditional
// updates, so the synchronous confirm path and the webhook path can race
// or replay without losing the terminal state.
type PaymentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, payment *model.Payment) error
	FindByID(ctx context.Context, paymentID string) (*model.Payment, error)
	FindByIntentID(ctx context.Context, intentID string) (*model.Payment, error)
	FindByChargeID(ctx context.Context, chargeID string) (*model.Payment, error)
	List(ctx context.Context, q PaymentQuery) ([]*model.Payment, int64, error)

	MarkSucceeded(ctx context.Context, tx *gorm.DB, intentID, chargeID, orderID string) (bool, error)
	MarkFailed(ctx context.Context, tx *gorm.DB, intentID, reason string) (bool, error)
	MarkCanceled(ctx context.Context, tx *gorm.DB, intentID string) (bool, error)
	MarkRefunded(ctx context.Context, tx *gorm.DB, paymentID string, refund RefundFields) (bool, error)
}

type paymentRepoImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepoImpl{
		db: db,
	}
}

func (r *paymentRepoImpl) Create(ctx context.Context, tx *gorm.DB, payment *model.Payment) error {
	return tx.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepoImpl) FindByID(ctx context.Context, paymentID string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).
		Where("id = ?", paymentID).
		First(&payment).Error

	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepoImpl) FindByIntentID(ctx context.Context, intentID string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).
		Where("gateway_intent_id = ?", intentID).
		First(&payment).Error

	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepoImpl) FindByChargeID(ctx context.Context, chargeID string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).
		Where("gateway_charge_id = ?", chargeID).
		First(&payment).Error

	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepoImpl) List(ctx context.Context, q PaymentQuery) ([]*model.Payment, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Payment{})
	if q.UserID != "" {
		base = base.Where("user_id = ?", q.UserID)
	}
	if q.Status != "" {
		base = base.Where("status = ?", q.Status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []*model.Payment
	err := base.
		Order("created_at DESC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&payments).Error

	if err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

// MarkSucceeded moves a pending payment to succeeded. The timestamp uses
// COALESCE so a replayed event never overwrites the first paid_at; the
// status condition makes the whole update a no-op on replay.
func (r *paymentRepoImpl) MarkSucceeded(ctx context.Context, tx *gorm.DB, intentID, chargeID, orderID string) (bool, error) {
	fields := map[string]interface{}{
		"status":     model.PaymentSucceeded,
		"paid_at":    gorm.Expr("COALESCE(paid_at, ?)", time.Now()),
		"updated_at": time.Now(),
	}
	if chargeID != "" {
		fields["gateway_charge_id"] = chargeID
	}
	if orderID != "" {
		fields["order_id"] = orderID
	}

	result := tx.WithContext(ctx).Model(&model.Payment{}).
		Where("gateway_intent_id = ? AND status = ?", intentID, model.PaymentPending).
		Updates(fields)

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *paymentRepoImpl) MarkFailed(ctx context.Context, tx *gorm.DB, intentID, reason string) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Payment{}).
		Where("gateway_intent_id = ? AND status = ?", intentID, model.PaymentPending).
		Updates(map[string]interface{}{
			"status":         model.PaymentFailed,
			"failure_reason": reason,
			"failed_at":      gorm.Expr("COALESCE(failed_at, ?)", time.Now()),
			"updated_at":     time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *paymentRepoImpl) MarkCanceled(ctx context.Context, tx *gorm.DB, intentID string) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Payment{}).
		Where("gateway_intent_id = ? AND status = ?", intentID, model.PaymentPending).
		Updates(map[string]interface{}{
			"status":     model.PaymentCanceled,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkRefunded is the only transition out of succeeded.
func (r *paymentRepoImpl) MarkRefunded(ctx context.Context, tx *gorm.DB, paymentID string, refund RefundFields) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ? AND status = ?", paymentID, model.PaymentSucceeded).
		Updates(map[string]interface{}{
			"status":        model.PaymentRefunded,
			"refund_id":     refund.RefundID,
			"refund_amount": refund.RefundAmount,
			"refund_reason": refund.RefundReason,
			"refunded_at":   gorm.Expr("COALESCE(refunded_at, ?)", time.Now()),
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
