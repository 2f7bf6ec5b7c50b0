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

func newCartService(db *gorm.DB) CartService {
	return NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
}

func TestAddToCart_MergesSameProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := newCartService(db)
	ctx := context.Background()

	user := seedUser(t, db, model.RoleCustomer)
	product := seedProduct(t, db, 19900, 10)

	cart, err := svc.AddToCart(ctx, user.ID, &dto.AddToCartRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(2*19900), cart.TotalAmount)

	cart, err = svc.AddToCart(ctx, user.ID, &dto.AddToCartRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int32(3), cart.Items[0].Quantity)
	assert.Equal(t, int64(3*19900), cart.TotalAmount)
}

func TestAddToCart_StockAndValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newCartService(db)
	ctx := context.Background()

	user := seedUser(t, db, model.RoleCustomer)
	product := seedProduct(t, db, 19900, 1)

	_, err := svc.AddToCart(ctx, user.ID, &dto.AddToCartRequest{ProductID: product.ID, Quantity: 5})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.AddToCart(ctx, user.ID, &dto.AddToCartRequest{ProductID: "ghost", Quantity: 1})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.AddToCart(ctx, user.ID, &dto.AddToCartRequest{ProductID: product.ID, Quantity: 0})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateAndRemoveCartItem(t *testing.T) {
	db := setupTestDB(t)
	svc := newCartService(db)
	ctx := context.Background()

	user := seedUser(t, db, model.RoleCustomer)
	product := seedProduct(t, db, 100, 10)

	cart, err := svc.AddToCart(ctx, user.ID, &dto.AddToCartRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	cart, err = svc.UpdateCartItem(ctx, user.ID, itemID, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(500), cart.TotalAmount)

	_, err = svc.UpdateCartItem(ctx, user.ID, 9999, 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	cart, err = svc.RemoveCartItem(ctx, user.ID, itemID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalAmount)
}

func TestClearCart(t *testing.T) {
	db := setupTestDB(t)
	svc := newCartService(db)
	ctx := context.Background()

	user := seedUser(t, db, model.RoleCustomer)
	product := seedProduct(t, db, 100, 10)

	_, err := svc.AddToCart(ctx, user.ID, &dto.AddToCartRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(ctx, user.ID))

	cart, err := svc.GetCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalAmount)

	// clearing an absent cart is a no-op
	other := seedUser(t, db, model.RoleCustomer)
	assert.NoError(t, svc.ClearCart(ctx, other.ID))
}
