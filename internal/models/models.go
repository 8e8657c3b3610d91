package models

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"          json:"id"`
	Token     string `gorm:"unique;not null"     json:"token"`
	UserID    uint   `gorm:"index;not null"      json:"user_id"`
	ExpiresAt int64  `gorm:"not null"            json:"expires_at"`
	Revoked   bool   `gorm:"default:false"       json:"revoked"`
}

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	SellerID    uint    `gorm:"index;not null"           json:"seller_id"`
	Name        string  `gorm:"not null"                 json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null;check:price>=0"  json:"price"`
	Currency    string  `gorm:"not null;default:INR"     json:"currency"`
	Stock       uint    `gorm:"not null;default:0"       json:"stock"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                                 json:"id"`
	UserID    uint `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"user_id"`
	ProductID uint `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"product_id"`
	Quantity  uint `gorm:"default:1;check:quantity>0"                 json:"quantity"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// Address is the canonical shipping address shape, embedded in Order.
type Address struct {
	Label      string `json:"label,omitempty"`
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

type Payment struct {
	Provider    string     `json:"provider,omitempty"`
	ReferenceID string     `json:"reference_id,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}

// OrderItem captures product name, unit price and seller at order time.
// Catalog edits after checkout must not change historical orders.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey"                json:"id"`
	OrderID   uint    `gorm:"index;not null"            json:"order_id"`
	ProductID uint    `gorm:"not null"                  json:"product_id"`
	SellerID  uint    `gorm:"index;not null"            json:"seller_id"`
	Name      string  `gorm:"not null"                  json:"name"`
	Price     float64 `gorm:"not null"                  json:"price"`
	Quantity  uint    `gorm:"not null;check:quantity>0" json:"quantity"`
}

type Order struct {
	ID              uint        `gorm:"primaryKey"           json:"id"`
	UserID          uint        `gorm:"index;not null"       json:"user_id"`
	Items           []OrderItem `gorm:"foreignKey:OrderID"   json:"items"`
	Subtotal        float64     `gorm:"not null"             json:"subtotal"`
	Tax             float64     `gorm:"not null;default:0"   json:"tax"`
	ShippingFee     float64     `gorm:"not null;default:0"   json:"shipping_fee"`
	Total           float64     `gorm:"not null"             json:"total"`
	Currency        string      `gorm:"not null;default:INR" json:"currency"`
	Status          Status      `gorm:"not null"             json:"status"`
	ShippingAddress Address     `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	Payment         Payment     `gorm:"embedded;embeddedPrefix:pay_"  json:"payment"`
	CreatedAt       int64       `gorm:"index;not null"       json:"created_at"`
}
