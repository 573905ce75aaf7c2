package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeCartItemAdded       = "CART_ITEM_ADDED"
	EventTypeCartItemRemoved     = "CART_ITEM_REMOVED"
	EventTypeCartQuantityUpdated = "CART_QUANTITY_UPDATED"
	EventTypeCartCleared         = "CART_CLEARED"
	EventTypeProductsUpdated     = "PRODUCTS_UPDATED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// CartItemEvent is published for add, remove and quantity changes.
type CartItemEvent struct {
	BaseEvent
	ProductID  ProductID       `json:"product_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// CartClearedEvent published when the cart is emptied
type CartClearedEvent struct {
	BaseEvent
	ItemsDropped int `json:"items_dropped"`
}

// ProductsUpdatedEvent is announced upstream when the catalog changes.
type ProductsUpdatedEvent struct {
	BaseEvent
	ProductIDs []ProductID `json:"product_ids,omitempty"`
}
