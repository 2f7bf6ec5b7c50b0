package service

import (
	"context"
	"testing"

	"jansan-commerce/internal/apperr"
	"jansan-commerce/internal/dto"
	"jansan-commerce/internal/model"
	"jansan-commerce/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newOrderService(db *gorm.DB) OrderService {
	return NewOrderService(
		db,
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		repository.NewUserRepository(db),
		repository.NewCartRepository(db),
	)
}

func TestCreateOrder_TotalIsSumOfLineItems(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	user := seedUser(t, db, model.RoleCustomer)
	p1 := seedProduct(t, db, 19900, 10)
	p2 := seedProduct(t, db, 4900, 10)

	resp, err := svc.CreateOrder(ctx, user.ID, &dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{
			{ProductID: p1.ID, Quantity: 2},
			{ProductID: p2.ID, Quantity: 1},
		},
		// a lying client total is ignored in favor of the summed items
		TotalAmount:   1,
		PaymentMethod: "gateway_card",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2*19900+4900), resp.Order.TotalAmount)
	assert.Equal(t, model.OrderProcessing, resp.Order.OrderStatus)
	assert.Equal(t, model.OrderPaymentPending, resp.Order.PaymentStatus)
	assert.Regexp(t, `^ORD-\d+-[0-9A-Z]{9}$`, resp.Order.OrderNumber)

	require.Len(t, resp.Items, 2)
	assert.Equal(t, int64(2*19900), resp.Items[0].Subtotal)

	assert.Equal(t, int32(8), productStock(t, db, p1.ID))
	assert.Equal(t, int32(9), productStock(t, db, p2.ID))
}

func TestCreateOrder_InsufficientStockRejectsWholeOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	user := seedUser(t, db, model.RoleCustomer)
	plenty := seedProduct(t, db, 19900, 10)
	scarce := seedProduct(t, db, 4900, 1)

	_, err := svc.CreateOrder(ctx, user.ID, &dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{
			{ProductID: plenty.ID, Quantity: 2},
			{ProductID: scarce.ID, Quantity: 3},
		},
		TotalAmount: 1,
	})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "insufficient stock")

	// the transaction rolled back both decrements
	assert.Equal(t, int32(10), productStock(t, db, plenty.ID))
	assert.Equal(t, int32(1), productStock(t, db, scarce.ID))

	var count int64
	require.NoError(t, db.Model(&model.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateOrder_SequentialOrdersCannotOversell(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	user := seedUser(t, db, model.RoleCustomer)
	product := seedProduct(t, db, 19900, 1)

	req := &dto.CreateOrderRequest{
		Items:       []dto.OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
		TotalAmount: 1,
	}

	_, err := svc.CreateOrder(ctx, user.ID, req)
	require.NoError(t, err)

	_, err = svc.CreateOrder(ctx, user.ID, req)
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, int32(0), productStock(t, db, product.ID))
}

func TestCreateOrder_UnknownProductNamed(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)

	user := seedUser(t, db, model.RoleCustomer)

	_, err := svc.CreateOrder(context.Background(), user.ID, &dto.CreateOrderRequest{
		Items:       []dto.OrderItemRequest{{ProductID: "missing-id", Quantity: 1}},
		TotalAmount: 1,
	})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "missing-id")
}

func TestCreateOrder_ShippingAddressFallsBackToProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)

	user := seedUser(t, db, model.RoleCustomer)
	product := seedProduct(t, db, 19900, 5)

	resp, err := svc.CreateOrder(context.Background(), user.ID, &dto.CreateOrderRequest{
		Items:       []dto.OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
		TotalAmount: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, user.Name, resp.Order.ShippingAddress.FullName)
	assert.Equal(t, user.Location, resp.Order.ShippingAddress.AddressLine1)
	assert.Equal(t, user.PostalCode, resp.Order.ShippingAddress.PostalCode)
}

func TestCreateOrder_MissingAddressFieldsListed(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)

	user := seedUser(t, db, model.RoleCustomer)
	user.Phone = ""
	user.PostalCode = ""
	require.NoError(t, db.Save(user).Error)
	product := seedProduct(t, db, 19900, 5)

	_, err := svc.CreateOrder(context.Background(), user.ID, &dto.CreateOrderRequest{
		Items:       []dto.OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
		TotalAmount: 1,
	})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "phone")
	assert.Contains(t, err.Error(), "postalCode")
}

func TestCancelOrder_RestoresStockOnce(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	user := seedUser(t, db, model.RoleCustomer)
	product := seedProduct(t, db, 19900, 10)

	resp, err := svc.CreateOrder(ctx, user.ID, &dto.CreateOrderRequest{
		Items:       []dto.OrderItemRequest{{ProductID: product.ID, Quantity: 3}},
		TotalAmount: 1,
	})
	require.NoError(t, err)
	require.Equal(t, int32(7), productStock(t, db, product.ID))

	cancelled, err := svc.CancelOrder(ctx, user.ID, resp.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, cancelled.OrderStatus)
	assert.Equal(t, int32(10), productStock(t, db, product.ID))

	// a second cancel finds no processing order and must not restore again
	_, err = svc.CancelOrder(ctx, user.ID, resp.Order.ID)
	require.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, int32(10), productStock(t, db, product.ID))
}

func TestCancelOrder_OnlyOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	owner := seedUser(t, db, model.RoleCustomer)
	stranger := seedUser(t, db, model.RoleCustomer)
	product := seedProduct(t, db, 19900, 10)

	resp, err := svc.CreateOrder(ctx, owner.ID, &dto.CreateOrderRequest{
		Items:       []dto.OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
		TotalAmount: 1,
	})
	require.NoError(t, err)

	_, err = svc.CancelOrder(ctx, stranger.ID, resp.Order.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestUpdateOrderStatus_DeliveredStampsDate(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	user := seedUser(t, db, model.RoleCustomer)
	product := seedProduct(t, db, 19900, 10)

	resp, err := svc.CreateOrder(ctx, user.ID, &dto.CreateOrderRequest{
		Items:       []dto.OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
		TotalAmount: 1,
	})
	require.NoError(t, err)

	delivered, err := svc.UpdateOrderStatus(ctx, resp.Order.ID, &dto.UpdateOrderStatusRequest{
		Status:     "Delivered",
		AdminNotes: "left at reception",
	})
	require.NoError(t, err)
	assert.Equal(t, model.OrderDelivered, delivered.OrderStatus)
	require.NotNil(t, delivered.DeliveryDate)
	assert.Equal(t, "left at reception", delivered.AdminNotes)

	// delivered orders cannot go back to cancelled
	_, err = svc.UpdateOrderStatus(ctx, resp.Order.ID, &dto.UpdateOrderStatusRequest{Status: "Cancelled"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestUpdateOrderStatus_InvalidStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)

	_, err := svc.UpdateOrderStatus(context.Background(), "any", &dto.UpdateOrderStatusRequest{Status: "Shipped"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestGetOrderByID_Access(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	owner := seedUser(t, db, model.RoleCustomer)
	stranger := seedUser(t, db, model.RoleCustomer)
	product := seedProduct(t, db, 19900, 10)

	resp, err := svc.CreateOrder(ctx, owner.ID, &dto.CreateOrderRequest{
		Items:       []dto.OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
		TotalAmount: 1,
	})
	require.NoError(t, err)

	_, err = svc.GetOrderByID(ctx, owner.ID, false, resp.Order.ID)
	assert.NoError(t, err)

	_, err = svc.GetOrderByID(ctx, stranger.ID, false, resp.Order.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.GetOrderByID(ctx, stranger.ID, true, resp.Order.ID)
	assert.NoError(t, err)

	_, err = svc.GetOrderByID(ctx, owner.ID, false, "nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGetMyOrders_Pagination(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	user := seedUser(t, db, model.RoleCustomer)
	product := seedProduct(t, db, 100, 100)

	for i := 0; i < 5; i++ {
		_, err := svc.CreateOrder(ctx, user.ID, &dto.CreateOrderRequest{
			Items:       []dto.OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
			TotalAmount: 1,
		})
		require.NoError(t, err)
	}

	result, err := svc.GetMyOrders(ctx, user.ID, "", 1, 2)
	require.NoError(t, err)
	assert.Len(t, result.Orders, 2)
	assert.Equal(t, int64(5), result.Pagination.TotalItems)
	assert.Equal(t, 3, result.Pagination.TotalPages)
	assert.True(t, result.Pagination.HasNextPage)

	result, err = svc.GetMyOrders(ctx, user.ID, string(model.OrderCancelled), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, result.Orders)
}
