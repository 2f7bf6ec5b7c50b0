package service

import (
	"context"
	"errors"

	"jansan-commerce/internal/apperr"
	"jansan-commerce/internal/dto"
	"jansan-commerce/internal/model"
	"jansan-commerce/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req *dto.ProductRequest) (*model.Product, error)
	GetProductByID(ctx context.Context, productID string) (*model.Product, error)
	ListProducts(ctx context.Context, productType string) ([]*model.Product, error)
	UpdateProduct(ctx context.Context, productID string, req *dto.ProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
}

type productServiceImpl struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productServiceImpl{
		productRepo: productRepo,
	}
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, req *dto.ProductRequest) (*model.Product, error) {
	if req.Name == "" {
		return nil, apperr.Validationf("product name is required")
	}
	if req.Price <= 0 {
		return nil, apperr.Validationf("price must be greater than zero")
	}
	if req.Stock < 0 {
		return nil, apperr.Validationf("stock cannot be negative")
	}

	product := &model.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Type:        req.Type,
		Capacity:    req.Capacity,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
		Image:       req.Image,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *productServiceImpl) GetProductByID(ctx context.Context, productID string) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("product not found")
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productServiceImpl) ListProducts(ctx context.Context, productType string) ([]*model.Product, error) {
	return s.productRepo.List(ctx, productType)
}

func (s *productServiceImpl) UpdateProduct(ctx context.Context, productID string, req *dto.ProductRequest) (*model.Product, error) {
	fields := map[string]interface{}{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Type != "" {
		fields["type"] = req.Type
	}
	if req.Capacity != "" {
		fields["capacity"] = req.Capacity
	}
	if req.Price > 0 {
		fields["price"] = req.Price
	}
	if req.Stock >= 0 {
		fields["stock"] = req.Stock
	}
	if req.Description != "" {
		fields["description"] = req.Description
	}
	if req.Image != "" {
		fields["image"] = req.Image
	}

	err := s.productRepo.Updates(ctx, productID, fields)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("product not found")
	}
	if err != nil {
		return nil, err
	}

	return s.productRepo.FindByID(ctx, productID)
}

func (s *productServiceImpl) DeleteProduct(ctx context.Context, productID string) error {
	err := s.productRepo.Delete(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFoundf("product not found")
	}
	return err
}
