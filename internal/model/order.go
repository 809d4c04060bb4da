package model

import (
	"time"
)

// OrderStatus enumerates the order lifecycle. The set is closed: any
// value outside it is treated as an active cart via Bucket.
type OrderStatus string

const (
	StatusInCart    OrderStatus = "incart"
	StatusFulfilled OrderStatus = "fulfilled"
	StatusCancelled OrderStatus = "cancelled"
)

// Bucket maps a stored status onto one of the three response buckets.
// Unknown values fall back to incart rather than being dropped.
func (s OrderStatus) Bucket() OrderStatus {
	switch s {
	case StatusCancelled, StatusFulfilled:
		return s
	default:
		return StatusInCart
	}
}

// Order represents a customer order. An order with status incart is the
// user's active cart.
type Order struct {
	ID        string      `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID    string      `json:"user_id" gorm:"type:varchar(36);not null;index"`
	Status    OrderStatus `json:"status" gorm:"type:varchar(50);not null;index"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// OrderItem is a quantity of one product within one order. Items are
// only mutated while their order is incart.
type OrderItem struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	OrderID   string    `json:"order_id" gorm:"type:varchar(36);not null;index"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);not null;index"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderLine is an order item enriched with its product for display.
type OrderLine struct {
	OrderItem
	Product Product `json:"product"`
}

// OrderDetail is an order with its enriched line items.
type OrderDetail struct {
	Order
	Items []OrderLine `json:"items"`
}

// OrderBuckets partitions a user's orders by lifecycle status,
// preserving fetch order within each bucket.
type OrderBuckets struct {
	Cancelled []OrderDetail `json:"cancelled"`
	Fulfilled []OrderDetail `json:"fulfilled"`
	InCart    []OrderDetail `json:"incart"`
}

// CartItemRequest identifies the product a cart mutation applies to.
type CartItemRequest struct {
	ProductID string `json:"productid" binding:"required"`
}

// CartSeedItem is one entry of a client-held cart submitted after login.
type CartSeedItem struct {
	ProductID string `json:"productid" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// ReplaceCartRequest carries the client cart to merge into the active order.
type ReplaceCartRequest struct {
	Cart []CartSeedItem `json:"cart" binding:"required"`
}
