package model

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

type User struct {
	ID       string `gorm:"primaryKey;size:64;not null"`
	Name     string `gorm:"size:128;not null"`
	Email    string `gorm:"size:255;uniqueIndex;not null"`
	Phone    string `gorm:"size:32"`
	Password string `gorm:"size:128"` // bcrypt hash, empty for oauth-only accounts
	GoogleID string `gorm:"size:64;index"`
	Role     Role   `gorm:"size:16;index;not null"`

	Location   string `gorm:"size:255"`
	City       string `gorm:"size:64"`
	PostalCode string `gorm:"size:16"`
	Country    string `gorm:"size:64"`

	// OTP fields for password reset
	OTP        string `gorm:"size:8"`
	OTPExpires *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Product struct {
	ID          string `gorm:"primaryKey;size:64;not null"`
	Name        string `gorm:"size:128;not null"`
	Type        string `gorm:"size:32;index"` // biogas, fertilizer
	Capacity    string `gorm:"size:64"`
	Price       int64  `gorm:"not null"` // paise
	Stock       int32  `gorm:"not null"`
	Description string `gorm:"size:1024"`
	Image       string `gorm:"size:512"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Cart struct {
	ID          string `gorm:"primaryKey;size:64;not null"`
	UserID      string `gorm:"size:64;uniqueIndex;not null"`
	TotalAmount int64  `gorm:"not null;default:0"`
	Items       []CartItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartItem struct {
	ID uint `gorm:"primaryKey"`
	// FK → cart.id
	CartID string `gorm:"size:64;index;not null"`
	// FK → product.id
	ProductID string `gorm:"size:64;index;not null"`
	Quantity  int32  `gorm:"not null"`
	UnitPrice int64  `gorm:"not null"`

	CreatedAt time.Time
}

// WebhookEvent records gateway event ids that were already processed, so
// at-least-once deliveries can be dropped on replay.
type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}
