package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"jansan-commerce/internal/apperr"
	"jansan-commerce/internal/dto"
	"jansan-commerce/internal/model"
	"jansan-commerce/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderService interface {
	CreateOrder(ctx context.Context, userID string, req *dto.CreateOrderRequest) (*dto.OrderResponse, error)
	GetOrderByID(ctx context.Context, requesterID string, isAdmin bool, orderID string) (*model.Order, error)
	GetMyOrders(ctx context.Context, userID, status string, page, limit int) (*dto.OrderListResponse, error)
	GetAllOrders(ctx context.Context, userID, status string, page, limit int) (*dto.OrderListResponse, error)
	UpdateOrderStatus(ctx context.Context, orderID string, req *dto.UpdateOrderStatusRequest) (*model.Order, error)
	CancelOrder(ctx context.Context, userID, orderID string) (*model.Order, error)
}

type orderServiceImpl struct {
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	cartRepo    repository.CartRepository
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	cartRepo repository.CartRepository,
) OrderService {
	return &orderServiceImpl{
		db:          db,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		cartRepo:    cartRepo,
	}
}

func (s *orderServiceImpl) CreateOrder(ctx context.Context, userID string, req *dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	method := model.PaymentMethod(req.PaymentMethod)
	if req.PaymentMethod == "" {
		method = model.MethodCashOnDelivery
	}
	if !model.ValidPaymentMethod(method) {
		return nil, apperr.Validationf("invalid payment method %q", req.PaymentMethod)
	}

	if len(req.Items) == 0 {
		return nil, apperr.Validationf("order must contain at least one item")
	}
	if req.TotalAmount <= 0 {
		return nil, apperr.Validationf("order total amount must be greater than 0")
	}

	productIDs := make([]string, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity < 1 {
			return nil, apperr.Validationf("item quantity must be positive")
		}
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.FindMany(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	productByID := make(map[string]*model.Product, len(products))
	for _, p := range products {
		productByID[p.ID] = p
	}

	var missing []string
	for _, id := range productIDs {
		if _, ok := productByID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, apperr.Validationf("products not found: %s", strings.Join(missing, ", "))
	}

	orderItems := make([]model.OrderItem, len(req.Items))
	for i, item := range req.Items {
		product := productByID[item.ProductID]

		unitPrice := item.Price
		if unitPrice <= 0 {
			unitPrice = product.Price
		}

		orderItems[i] = model.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
		}
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("user not found")
	}
	if err != nil {
		return nil, err
	}

	address, err := resolveShippingAddress(req.ShippingAddress, user)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		ID:               uuid.NewString(),
		UserID:           userID,
		OrderNumber:      model.NewOrderNumber(time.Now()),
		Items:            orderItems,
		TotalAmount:      model.SubtotalSum(orderItems), // summed line items, not the client value
		PaymentMethod:    method,
		PaymentStatus:    model.OrderPaymentPending,
		OrderStatus:      model.OrderProcessing,
		GatewayPaymentID: req.PaymentIntentID,
		ShippingAddress:  *address,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// stock is reserved inside the same transaction: either every
		// line item decrements or the whole order is rejected
		for _, item := range orderItems {
			ok, err := s.productRepo.DecrementStock(ctx, tx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				product := productByID[item.ProductID]
				return apperr.Validationf("%s - insufficient stock (need %d, available %d)",
					product.Name, item.Quantity, product.Stock)
			}
		}

		return s.orderRepo.Create(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}

	// best-effort: a cart-clear failure never rolls back a created order
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		log.Println("clearing cart after order", order.ID, "failed:", err)
	}

	return &dto.OrderResponse{
		Order: order,
		Items: resolveItems(orderItems, productByID),
	}, nil
}

func resolveShippingAddress(req *model.ShippingAddress, user *model.User) (*model.ShippingAddress, error) {
	if req == nil {
		req = &model.ShippingAddress{}
	}

	address := &model.ShippingAddress{
		FullName:     firstNonEmpty(req.FullName, user.Name),
		Phone:        firstNonEmpty(req.Phone, user.Phone),
		AddressLine1: firstNonEmpty(req.AddressLine1, user.Location),
		City:         firstNonEmpty(req.City, user.City),
		PostalCode:   firstNonEmpty(req.PostalCode, user.PostalCode),
		Country:      firstNonEmpty(req.Country, user.Country, "India"),
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"fullName", address.FullName},
		{"phone", address.Phone},
		{"addressLine1", address.AddressLine1},
		{"city", address.City},
		{"postalCode", address.PostalCode},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, apperr.Validationf("missing shipping address: %s", strings.Join(missing, ", "))
	}

	return address, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func resolveItems(items []model.OrderItem, productByID map[string]*model.Product) []dto.ResolvedOrderItem {
	resolved := make([]dto.ResolvedOrderItem, len(items))
	for i, item := range items {
		product := productByID[item.ProductID]
		resolved[i] = dto.ResolvedOrderItem{
			ProductID:   item.ProductID,
			Name:        product.Name,
			Type:        product.Type,
			Image:       product.Image,
			Description: product.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    int64(item.Quantity) * item.UnitPrice,
		}
	}
	return resolved
}

func (s *orderServiceImpl) GetOrderByID(ctx context.Context, requesterID string, isAdmin bool, orderID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("order not found")
	}
	if err != nil {
		return nil, err
	}

	if order.UserID != requesterID && !isAdmin {
		return nil, apperr.Forbiddenf("unauthorized to access this order")
	}

	return order, nil
}

func (s *orderServiceImpl) GetMyOrders(ctx context.Context, userID, status string, page, limit int) (*dto.OrderListResponse, error) {
	return s.listOrders(ctx, repository.OrderQuery{
		UserID: userID,
		Status: status,
		Page:   normalizePage(page),
		Limit:  normalizeLimit(limit, 10),
	})
}

func (s *orderServiceImpl) GetAllOrders(ctx context.Context, userID, status string, page, limit int) (*dto.OrderListResponse, error) {
	return s.listOrders(ctx, repository.OrderQuery{
		UserID: userID,
		Status: status,
		Page:   normalizePage(page),
		Limit:  normalizeLimit(limit, 20),
	})
}

func (s *orderServiceImpl) listOrders(ctx context.Context, q repository.OrderQuery) (*dto.OrderListResponse, error) {
	orders, total, err := s.orderRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}

	return &dto.OrderListResponse{
		Orders:     orders,
		Pagination: dto.NewPagination(q.Page, q.Limit, total),
	}, nil
}

func (s *orderServiceImpl) UpdateOrderStatus(ctx context.Context, orderID string, req *dto.UpdateOrderStatusRequest) (*model.Order, error) {
	status := model.OrderStatus(req.Status)
	switch status {
	case model.OrderProcessing, model.OrderDelivered, model.OrderCancelled:
	default:
		return nil, apperr.Validationf("invalid status %q, must be one of: Processing, Delivered, Cancelled", req.Status)
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("order not found")
	}
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		changed, err := s.orderRepo.Transition(ctx, tx, orderID, repository.OrderTransition{
			From:          []model.OrderStatus{model.OrderProcessing},
			To:            status,
			AdminNotes:    req.AdminNotes,
			StampDelivery: status == model.OrderDelivered,
		})
		if err != nil {
			return err
		}
		if !changed {
			return apperr.Conflictf("order in status %s cannot move to %s", order.OrderStatus, status)
		}

		if status == model.OrderCancelled {
			return restoreStock(ctx, tx, s.productRepo, order.Items)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.orderRepo.FindByID(ctx, orderID)
}

func (s *orderServiceImpl) CancelOrder(ctx context.Context, userID, orderID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("order not found")
	}
	if err != nil {
		return nil, err
	}

	if order.UserID != userID {
		return nil, apperr.Forbiddenf("you can only cancel your own orders")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		changed, err := s.orderRepo.Transition(ctx, tx, orderID, repository.OrderTransition{
			From: []model.OrderStatus{model.OrderProcessing},
			To:   model.OrderCancelled,
			Note: "Order cancelled by customer",
		})
		if err != nil {
			return err
		}
		if !changed {
			return apperr.Conflictf("only processing orders can be cancelled")
		}

		return restoreStock(ctx, tx, s.productRepo, order.Items)
	})
	if err != nil {
		return nil, err
	}

	return s.orderRepo.FindByID(ctx, orderID)
}

// restoreStock releases reserved stock when an order is cancelled.
func restoreStock(ctx context.Context, tx *gorm.DB, productRepo repository.ProductRepository, items []model.OrderItem) error {
	for _, item := range items {
		if err := productRepo.RestoreStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizeLimit(limit, fallback int) int {
	if limit < 1 {
		return fallback
	}
	return limit
}
