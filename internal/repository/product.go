package repository

import (
	"context"

	"jansan-commerce/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, productID string) (*model.Product, error)
	FindMany(ctx context.Context, productIDs []string) ([]*model.Product, error)
	List(ctx context.Context, productType string) ([]*model.Product, error)
	Updates(ctx context.Context, productID string, fields map[string]interface{}) error
	Delete(ctx context.Context, productID string) error

	// DecrementStock applies "stock = stock - qty" only when enough stock
	// remains; reports whether a row was updated.
	DecrementStock(ctx context.Context, tx *gorm.DB, productID string, qty int32) (bool, error)
	RestoreStock(ctx context.Context, tx *gorm.DB, productID string, qty int32) error
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindMany(ctx context.Context, productIDs []string) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", productIDs).
		Find(&products).
		Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) List(ctx context.Context, productType string) ([]*model.Product, error) {
	q := r.db.WithContext(ctx)
	if productType != "" {
		q = q.Where("type = ?", productType)
	}

	var products []*model.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) Updates(ctx context.Context, productID string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", productID).
		Updates(fields)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepoImpl) Delete(ctx context.Context, productID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", productID).
		Delete(&model.Product{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepoImpl) DecrementStock(ctx context.Context, tx *gorm.DB, productID string, qty int32) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *productRepoImpl) RestoreStock(ctx context.Context, tx *gorm.DB, productID string, qty int32) error {
	return tx.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", qty)).Error
}
