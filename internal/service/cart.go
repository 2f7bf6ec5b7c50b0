package service

import (
	"context"
	"errors"

	"jansan-commerce/internal/apperr"
	"jansan-commerce/internal/dto"
	"jansan-commerce/internal/model"
	"jansan-commerce/internal/repository"

	"gorm.io/gorm"
)

type CartService interface {
	GetCart(ctx context.Context, userID string) (*model.Cart, error)
	AddToCart(ctx context.Context, userID string, req *dto.AddToCartRequest) (*model.Cart, error)
	UpdateCartItem(ctx context.Context, userID string, itemID uint, quantity int32) (*model.Cart, error)
	RemoveCartItem(ctx context.Context, userID string, itemID uint) (*model.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}

type cartServiceImpl struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartServiceImpl{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) (*model.Cart, error) {
	return s.cartRepo.GetOrCreate(ctx, userID)
}

func (s *cartServiceImpl) AddToCart(ctx context.Context, userID string, req *dto.AddToCartRequest) (*model.Cart, error) {
	if req.ProductID == "" {
		return nil, apperr.Validationf("productId is required")
	}
	if req.Quantity < 1 {
		return nil, apperr.Validationf("quantity must be at least 1")
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("product not found")
	}
	if err != nil {
		return nil, err
	}
	if product.Stock < req.Quantity {
		return nil, apperr.Validationf("%s - insufficient stock (need %d, available %d)",
			product.Name, req.Quantity, product.Stock)
	}

	return s.cartRepo.AddItem(ctx, userID, model.CartItem{
		ProductID: product.ID,
		Quantity:  req.Quantity,
		UnitPrice: product.Price,
	})
}

func (s *cartServiceImpl) UpdateCartItem(ctx context.Context, userID string, itemID uint, quantity int32) (*model.Cart, error) {
	if quantity < 1 {
		return nil, apperr.Validationf("quantity must be at least 1")
	}

	cart, err := s.cartRepo.UpdateItemQuantity(ctx, userID, itemID, quantity)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("cart item not found")
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *cartServiceImpl) RemoveCartItem(ctx context.Context, userID string, itemID uint) (*model.Cart, error) {
	cart, err := s.cartRepo.RemoveItem(ctx, userID, itemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("cart item not found")
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *cartServiceImpl) ClearCart(ctx context.Context, userID string) error {
	return s.cartRepo.Clear(ctx, userID)
}
