package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"jansan-commerce/internal/client"
	"jansan-commerce/internal/model"

	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	// in shared-cache mode a pooled reader connection gets SQLITE_LOCKED
	// when another connection holds a write transaction; read_uncommitted
	// lets reads proceed, matching the row-level visibility tests get on
	// the production MySQL driver
	sql.Register("sqlite3_shared_read", &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			_, err := conn.Exec("PRAGMA read_uncommitted = true", nil)
			return err
		},
	})
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// a named shared-memory database keeps gorm's pooled connections on
	// the same store while isolating tests from each other
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(&sqlite.Dialector{DriverName: "sqlite3_shared_read", DSN: dsn}, &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, client.AutoMigrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role model.Role) *model.User {
	t.Helper()

	user := &model.User{
		ID:         uuid.NewString(),
		Name:       "Asha Kumar",
		Email:      uuid.NewString() + "@example.com",
		Phone:      "+91-9876500000",
		Role:       role,
		Location:   "12 Gandhi Street",
		City:       "Chennai",
		PostalCode: "600001",
		Country:    "India",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, price int64, stock int32) *model.Product {
	t.Helper()

	product := &model.Product{
		ID:    uuid.NewString(),
		Name:  "Surface Cleaner 1L",
		Type:  "cleaner",
		Price: price,
		Stock: stock,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func productStock(t *testing.T, db *gorm.DB, productID string) int32 {
	t.Helper()

	var product model.Product
	require.NoError(t, db.Where("id = ?", productID).First(&product).Error)
	return product.Stock
}

func historyCount(t *testing.T, db *gorm.DB, orderID string) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&model.OrderStatusHistory{}).
		Where("order_id = ?", orderID).Count(&count).Error)
	return count
}

// fakeGateway is an in-process stand-in for the payment provider.
type fakeGateway struct {
	intent *model.GatewayIntent
	refund *model.GatewayRefund
	err    error

	createCalls []client.CreateIntentParams
}

func (f *fakeGateway) CreatePaymentIntent(_ context.Context, params client.CreateIntentParams) (*model.GatewayIntent, error) {
	f.createCalls = append(f.createCalls, params)
	if f.err != nil {
		return nil, f.err
	}
	return f.intent, nil
}

func (f *fakeGateway) GetPaymentIntent(context.Context, string) (*model.GatewayIntent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.intent, nil
}

func (f *fakeGateway) CreateRefund(context.Context, string, string) (*model.GatewayRefund, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.refund, nil
}

func (f *fakeGateway) ConstructWebhookEvent(body []byte, _ string) (*model.GatewayWebhookEvent, error) {
	var event model.GatewayWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// fakeGoogleVerifier returns canned claims instead of calling Google.
type fakeGoogleVerifier struct {
	claims *client.GoogleClaims
	err    error
}

func (f *fakeGoogleVerifier) VerifyIDToken(context.Context, string) (*client.GoogleClaims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

// fakeEmail records outgoing mail instead of sending it.
type fakeEmail struct {
	sent []client.EmailMessage
	err  error
}

func (f *fakeEmail) Send(msg client.EmailMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func seedPayment(t *testing.T, db *gorm.DB, userID, intentID string, orderID *string, status model.PaymentStatus) *model.Payment {
	t.Helper()

	payment := &model.Payment{
		ID:              uuid.NewString(),
		UserID:          userID,
		OrderID:         orderID,
		GatewayIntentID: intentID,
		Amount:          49900,
		Currency:        "inr",
		Status:          status,
	}
	require.NoError(t, db.Create(payment).Error)
	return payment
}

func seedOrder(t *testing.T, db *gorm.DB, userID string, items []model.OrderItem) *model.Order {
	t.Helper()

	order := &model.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		OrderNumber:   model.NewOrderNumber(time.Now()),
		Items:         items,
		TotalAmount:   model.SubtotalSum(items),
		PaymentMethod: model.MethodGatewayCard,
		PaymentStatus: model.OrderPaymentPending,
		OrderStatus:   model.OrderProcessing,
		ShippingAddress: model.ShippingAddress{
			FullName:     "Asha Kumar",
			Phone:        "+91-9876500000",
			AddressLine1: "12 Gandhi Street",
			City:         "Chennai",
			PostalCode:   "600001",
			Country:      "India",
		},
	}
	require.NoError(t, db.Create(order).Error)
	return order
}
