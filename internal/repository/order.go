package repository

import (
	"context"
	"time"

	"jansan-commerce/internal/model"

	"gorm.io/gorm"
)

// OrderTransition is a conditional status change. The update applies only
// when the order's current status is one of From, which makes concurrent
// cascades and webhook replays safe: the second writer matches no row.
type OrderTransition struct {
	From []model.OrderStatus
	To   model.OrderStatus

	// optional side effects of the transition
	PaymentStatus    model.OrderPaymentStatus
	Note             string
	AdminNotes       string
	GatewayPaymentID string
	StampDelivery    bool
}

type OrderQuery struct {
	UserID string
	Status string
	Page   int
	Limit  int
}

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	FindByID(ctx context.Context, orderID string) (*model.Order, error)
	List(ctx context.Context, q OrderQuery) ([]*model.Order, int64, error)

	// Transition applies a conditional status update and appends the
	// matching history entry. Reports whether a row was updated.
	Transition(ctx context.Context, tx *gorm.DB, orderID string, t OrderTransition) (bool, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory").
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) List(ctx context.Context, q OrderQuery) ([]*model.Order, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Order{})
	if q.UserID != "" {
		base = base.Where("user_id = ?", q.UserID)
	}
	if q.Status != "" {
		base = base.Where("order_status = ?", q.Status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []*model.Order
	err := base.
		Preload("Items").
		Order("created_at DESC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&orders).Error

	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepoImpl) Transition(ctx context.Context, tx *gorm.DB, orderID string, t OrderTransition) (bool, error) {
	now := time.Now()

	fields := map[string]interface{}{
		"order_status": t.To,
		"updated_at":   now,
	}
	if t.PaymentStatus != "" {
		fields["payment_status"] = t.PaymentStatus
	}
	if t.AdminNotes != "" {
		fields["admin_notes"] = t.AdminNotes
	}
	if t.GatewayPaymentID != "" {
		fields["gateway_payment_id"] = t.GatewayPaymentID
	}
	if t.StampDelivery {
		fields["delivery_date"] = now
	}

	result := tx.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND order_status IN ?", orderID, t.From).
		Updates(fields)

	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	// every applied transition leaves a history entry
	note := t.Note
	if note == "" {
		note = "Order status changed to " + string(t.To)
	}
	err := tx.WithContext(ctx).Create(&model.OrderStatusHistory{
		OrderID:   orderID,
		Status:    t.To,
		Timestamp: now,
		Note:      note,
	}).Error
	if err != nil {
		return false, err
	}

	return true, nil
}
