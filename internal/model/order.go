package model

import (
	"fmt"
	"math/rand"
	"time"
)

type OrderStatus string

const (
	OrderProcessing OrderStatus = "Processing"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
	OrderDisputed   OrderStatus = "Disputed"
	OrderRefunded   OrderStatus = "Refunded"
)

type PaymentMethod string

const (
	MethodCashOnDelivery PaymentMethod = "cash_on_delivery"
	MethodGatewayCard    PaymentMethod = "gateway_card"
	MethodGatewayOnline  PaymentMethod = "gateway_online"
)

func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case MethodCashOnDelivery, MethodGatewayCard, MethodGatewayOnline:
		return true
	}
	return false
}

// OrderPaymentStatus is the order's own view of payment progress. The
// Payment record is the gateway-side mirror; the two are reconciled by
// the webhook handler.
type OrderPaymentStatus string

const (
	OrderPaymentPending  OrderPaymentStatus = "pending"
	OrderPaymentPaid     OrderPaymentStatus = "paid"
	OrderPaymentFailed   OrderPaymentStatus = "failed"
	OrderPaymentCanceled OrderPaymentStatus = "canceled"
	OrderPaymentRefunded OrderPaymentStatus = "refunded"
)

type ShippingAddress struct {
	FullName     string `gorm:"size:128" json:"fullName"`
	Phone        string `gorm:"size:32" json:"phone"`
	AddressLine1 string `gorm:"size:255" json:"addressLine1"`
	City         string `gorm:"size:64" json:"city"`
	PostalCode   string `gorm:"size:16" json:"postalCode"`
	Country      string `gorm:"size:64" json:"country"`
}

type Order struct {
	ID     string `gorm:"primaryKey;size:64;not null"`
	UserID string `gorm:"size:64;index;not null"`
	// assigned once at creation, never reassigned
	OrderNumber string `gorm:"size:64;uniqueIndex;not null"`

	Items []OrderItem

	// always Σ quantity×unit_price over items; amounts are paise
	TotalAmount int64 `gorm:"not null"`

	PaymentMethod PaymentMethod      `gorm:"size:32;not null"`
	PaymentStatus OrderPaymentStatus `gorm:"size:16;index;not null"`
	OrderStatus   OrderStatus        `gorm:"size:16;index;not null"`

	// soft link to the gateway payment intent; no referential integrity
	GatewayPaymentID string `gorm:"size:128;index"`

	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_"`

	DeliveryDate *time.Time
	AdminNotes   string `gorm:"size:1024"`

	StatusHistory []OrderStatusHistory

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderItem struct {
	ID uint `gorm:"primaryKey"`
	// FK → order.id
	OrderID string `gorm:"size:64;index;not null"`
	// FK → product.id
	ProductID string `gorm:"size:64;index;not null"`
	Quantity  int32  `gorm:"not null"`
	UnitPrice int64  `gorm:"not null"`

	CreatedAt time.Time
}

type OrderStatusHistory struct {
	ID        uint        `gorm:"primaryKey"`
	OrderID   string      `gorm:"size:64;index;not null"`
	Status    OrderStatus `gorm:"size:16;not null"`
	Timestamp time.Time
	Note      string `gorm:"size:512"`
}

const orderNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewOrderNumber returns a human-readable order number in the form
// ORD-<epoch_ms>-<9 base36 chars>.
func NewOrderNumber(now time.Time) string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = orderNumberAlphabet[rand.Intn(len(orderNumberAlphabet))]
	}
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), suffix)
}

// SubtotalSum recomputes the order total from its line items.
func SubtotalSum(items []OrderItem) int64 {
	var total int64
	for _, it := range items {
		total += int64(it.Quantity) * it.UnitPrice
	}
	return total
}
