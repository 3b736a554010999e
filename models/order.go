package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status values. CANCELED is an alias of CANCELLED kept for
// compatibility with older storefront clients.
const (
	OrderStatusPending    = "PENDING"
	OrderStatusConfirmed  = "CONFIRMED"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
	OrderStatusCanceled   = "CANCELED"
	OrderStatusPaid       = "PAID"
	OrderStatusCompleted  = "COMPLETED"
)

var orderStatuses = map[string]bool{
	OrderStatusPending:    true,
	OrderStatusConfirmed:  true,
	OrderStatusProcessing: true,
	OrderStatusShipped:    true,
	OrderStatusDelivered:  true,
	OrderStatusCancelled:  true,
	OrderStatusCanceled:   true,
	OrderStatusPaid:       true,
	OrderStatusCompleted:  true,
}

// IsOrderStatus reports whether s is a known order status value.
func IsOrderStatus(s string) bool {
	return orderStatuses[s]
}

type Order struct {
	ID              int             `json:"id"`
	OrderNumber     string          `json:"order_number"`
	CustomerID      *int            `json:"customer_id"`
	Status          string          `json:"status"`
	TotalEur        decimal.Decimal `json:"total_eur"`
	TotalLek        decimal.Decimal `json:"total_lek"`
	ShippingName    *string         `json:"shipping_name"`
	ShippingEmail   *string         `json:"shipping_email"`
	ShippingPhone   *string         `json:"shipping_phone"`
	ShippingAddress *string         `json:"shipping_address"`
	ShippingCity    *string         `json:"shipping_city"`
	ShippingZip     *string         `json:"shipping_zip"`
	ShippingCountry *string         `json:"shipping_country"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []OrderItem     `json:"items"`
}

// OrderItem captures the unit price in both currencies at order time, so
// historical orders stay stable when catalog prices change.
type OrderItem struct {
	ID        int             `json:"id"`
	OrderID   int             `json:"-"`
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity"`
	PriceEur  decimal.Decimal `json:"price_eur"`
	PriceLek  decimal.Decimal `json:"price_lek"`
}

type OrderItemInput struct {
	ProductID int `json:"product_id" binding:"required"`
	Quantity  int `json:"quantity" binding:"required,gt=0"`
}

type OrderCreate struct {
	CustomerID      *int             `json:"customer_id"`
	Items           []OrderItemInput `json:"items"`
	ShippingName    *string          `json:"shipping_name"`
	ShippingEmail   *string          `json:"shipping_email"`
	ShippingPhone   *string          `json:"shipping_phone"`
	ShippingAddress *string          `json:"shipping_address"`
	ShippingCity    *string          `json:"shipping_city"`
	ShippingZip     *string          `json:"shipping_zip"`
	ShippingCountry *string          `json:"shipping_country"`
}

// OrderEvent is the payload published to the order exchange after commit.
type OrderEvent struct {
	OrderID  int       `json:"order_id"`
	Type     string    `json:"type"` // created, status_updated, payment_check
	Status   string    `json:"status,omitempty"`
	Occurred time.Time `json:"occurred"`
}
