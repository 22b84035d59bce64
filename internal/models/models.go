package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"not null"                 json:"name"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:user"    json:"role"`
}

type Product struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"not null"                 json:"name"`
	Description   string    `gorm:"not null"                 json:"description"`
	Price         float64   `gorm:"not null"                 json:"price"`
	ImageURL      string    `json:"imageUrl"`
	Category      string    `gorm:"index"                    json:"category"`
	Gender        string    `gorm:"default:Unisex"           json:"gender"`
	Colors        []string  `gorm:"serializer:json"          json:"colors"`
	Sizes         []string  `gorm:"serializer:json"          json:"sizes"`
	IsFeatured    bool      `gorm:"default:false"            json:"isFeatured"`
	IsBestSeller  bool      `gorm:"default:false"            json:"isBestSeller"`
	AverageRating float64   `gorm:"default:0"                json:"averageRating"`
	ReviewCount   uint      `gorm:"default:0"                json:"reviewCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                  json:"id"`
	UserID    uint `gorm:"index;not null"              json:"userId"`
	ProductID uint `gorm:"not null"                    json:"productId"`
	Quantity  uint `gorm:"default:1;check:quantity>0"  json:"quantity"`
}

// Order status values. Only admins may move an order backwards or skip
// steps; the owner is limited to confirming delivery (2 -> 3).
const (
	OrderStatusPending    = 0
	OrderStatusProcessing = 1
	OrderStatusShipped    = 2
	OrderStatusDelivered  = 3
)

type Order struct {
	ID             uint        `gorm:"primaryKey"         json:"id"`
	UserID         uint        `gorm:"index;not null"     json:"userId"`
	User           *User       `json:"user,omitempty"`
	Items          []OrderItem `json:"items"`
	TotalPrice     float64     `gorm:"not null"           json:"totalPrice"`
	Address        string      `json:"address"`
	VoucherCode    string      `json:"voucherCode"`
	DiscountAmount float64     `json:"discountAmount"`
	Status         int         `gorm:"not null;default:0" json:"status"`
	CreatedAt      time.Time   `json:"createdAt"`
}

type OrderItem struct {
	ID        uint     `gorm:"primaryKey"                  json:"id"`
	OrderID   uint     `gorm:"index;not null"              json:"orderId"`
	ProductID uint     `gorm:"not null"                    json:"productId"`
	Product   *Product `json:"product,omitempty"`
	Quantity  uint     `gorm:"default:1;check:quantity>0"  json:"quantity"`
}

type Voucher struct {
	ID             uint      `gorm:"primaryKey"      json:"id"`
	Code           string    `gorm:"unique;not null" json:"code"`
	DiscountAmount float64   `gorm:"not null"        json:"discountAmount"`
	ExpiryDate     time.Time `gorm:"not null"        json:"expiryDate"`
	// no column default: GORM would skip a zero-value bool on insert and
	// false could never be stored
	IsActive       bool      `gorm:"not null"        json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Message.CreatedAt is unix milliseconds, matching what the mobile client
// renders directly.
type Message struct {
	ID         uint   `gorm:"primaryKey"     json:"id"`
	SenderID   uint   `gorm:"index;not null" json:"senderId"`
	ReceiverID uint   `gorm:"index;not null" json:"receiverId"`
	Text       string `gorm:"not null"       json:"text"`
	CreatedAt  int64  `gorm:"not null"       json:"createdAt"`
}
