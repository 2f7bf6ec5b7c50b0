package dto

import "jansan-commerce/internal/model"

// Envelope is the JSON response wrapper used by every endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// NewPagination implements the 1-based page/limit contract:
// totalPages = ceil(total/limit), hasNext = page*limit < total.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		HasNextPage: int64(page)*int64(limit) < total,
		HasPrevPage: page > 1,
	}
}

// -------- auth / users --------

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Location string `json:"location"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GoogleLoginRequest struct {
	// the ID token issued by Google sign-in on the frontend
	Credential string `json:"credential"`
}

type UserView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

type UpdateProfileRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Password   string `json:"password"`
	Location   string `json:"location"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// -------- password reset --------

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// -------- cart --------

type AddToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int32  `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int32 `json:"quantity"`
}

// -------- orders --------

type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int32  `json:"quantity"`
	// optional client price in paise, defaults to catalog price
	Price int64 `json:"price"`
}

type CreateOrderRequest struct {
	ShippingAddress *model.ShippingAddress `json:"shippingAddress"`
	Items           []OrderItemRequest     `json:"items"`
	TotalAmount     int64                  `json:"totalAmount"`
	PaymentMethod   string                 `json:"paymentMethod"`
	PaymentIntentID string                 `json:"paymentIntentId"`
}

type UpdateOrderStatusRequest struct {
	Status     string `json:"status"`
	AdminNotes string `json:"adminNotes"`
}

// ResolvedOrderItem is a line item joined with product display data.
type ResolvedOrderItem struct {
	ProductID   string `json:"productId"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Image       string `json:"image"`
	Quantity    int32  `json:"quantity"`
	UnitPrice   int64  `json:"unitPrice"`
	Subtotal    int64  `json:"subtotal"`
	Description string `json:"description,omitempty"`
}

type OrderResponse struct {
	Order *model.Order        `json:"order"`
	Items []ResolvedOrderItem `json:"items"`
}

type OrderListResponse struct {
	Orders     []*model.Order `json:"orders"`
	Pagination Pagination     `json:"pagination"`
}

// -------- payments --------

type CreatePaymentIntentRequest struct {
	// major currency units (rupees), converted to paise server-side
	Amount   float64           `json:"amount"`
	OrderID  string            `json:"orderId"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
}

type PaymentIntentResponse struct {
	ClientSecret    string  `json:"clientSecret"`
	PaymentIntentID string  `json:"paymentIntentId"`
	PaymentID       string  `json:"paymentId"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"paymentIntentId"`
	OrderID         string `json:"orderId"`
}

type RefundRequest struct {
	PaymentID string `json:"paymentId"`
	Reason    string `json:"reason"`
}

type RefundResponse struct {
	RefundID     string         `json:"refundId"`
	RefundAmount int64          `json:"refundAmount"`
	Payment      *model.Payment `json:"payment"`
}

type PaymentListResponse struct {
	Payments   []*model.Payment `json:"payments"`
	Pagination Pagination       `json:"pagination"`
}

// -------- products --------

type ProductRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Capacity    string `json:"capacity"`
	Price       int64  `json:"price"`
	Stock       int32  `json:"stock"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// -------- chat --------

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}
