package repository

import (
	"context"
	"errors"

	"jansan-commerce/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartRepository interface {
	GetOrCreate(ctx context.Context, userID string) (*model.Cart, error)
	AddItem(ctx context.Context, userID string, item model.CartItem) (*model.Cart, error)
	UpdateItemQuantity(ctx context.Context, userID string, itemID uint, quantity int32) (*model.Cart, error)
	RemoveItem(ctx context.Context, userID string, itemID uint) (*model.Cart, error)
	Clear(ctx context.Context, userID string) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{
		db: db,
	}
}

func (r *cartRepoImpl) GetOrCreate(ctx context.Context, userID string) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = model.Cart{ID: uuid.NewString(), UserID: userID}
		if err := r.db.WithContext(ctx).Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepoImpl) AddItem(ctx context.Context, userID string, item model.CartItem) (*model.Cart, error) {
	cart, err := r.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// same product twice merges quantities
		for _, existing := range cart.Items {
			if existing.ProductID == item.ProductID {
				return tx.Model(&model.CartItem{}).
					Where("id = ?", existing.ID).
					Update("quantity", gorm.Expr("quantity + ?", item.Quantity)).Error
			}
		}

		item.CartID = cart.ID
		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, err
	}

	return r.refreshTotal(ctx, cart.ID, userID)
}

func (r *cartRepoImpl) UpdateItemQuantity(ctx context.Context, userID string, itemID uint, quantity int32) (*model.Cart, error) {
	cart, err := r.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("id = ? AND cart_id = ?", itemID, cart.ID).
		Update("quantity", quantity)

	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return r.refreshTotal(ctx, cart.ID, userID)
}

func (r *cartRepoImpl) RemoveItem(ctx context.Context, userID string, itemID uint) (*model.Cart, error) {
	cart, err := r.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cart.ID).
		Delete(&model.CartItem{})

	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return r.refreshTotal(ctx, cart.ID, userID)
}

func (r *cartRepoImpl) Clear(ctx context.Context, userID string) error {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil // nothing to clear
	}
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Model(&model.Cart{}).
			Where("id = ?", cart.ID).
			Update("total_amount", 0).Error
	})
}

// refreshTotal recomputes the cart total from its items and reloads.
func (r *cartRepoImpl) refreshTotal(ctx context.Context, cartID, userID string) (*model.Cart, error) {
	err := r.db.WithContext(ctx).Model(&model.Cart{}).
		Where("id = ?", cartID).
		Update("total_amount", gorm.Expr(
			"(SELECT COALESCE(SUM(quantity * unit_price), 0) FROM cart_items WHERE cart_id = ?)", cartID,
		)).Error
	if err != nil {
		return nil, err
	}

	return r.GetOrCreate(ctx, userID)
}
