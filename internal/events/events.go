package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kylefrommelt/mini-business-management-system/internal/domain"
)

type OrderCreatedEvent struct {
	EventID     string             `json:"event_id"`
	OrderID     int64              `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	CustomerID  int64              `json:"customer_id"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Items       []domain.OrderItem `json:"items"`
	Status      domain.OrderStatus `json:"status"`
	Timestamp   time.Time          `json:"timestamp"`
	RequestID   string             `json:"request_id"`
}

type OrderStatusChangedEvent struct {
	EventID     string             `json:"event_id"`
	OrderID     int64              `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	From        domain.OrderStatus `json:"from"`
	To          domain.OrderStatus `json:"to"`
	Timestamp   time.Time          `json:"timestamp"`
	RequestID   string             `json:"request_id"`
}

// LowStockEvent fires when an order decrement lands a product at or below
// its low-stock threshold.
type LowStockEvent struct {
	EventID      string    `json:"event_id"`
	ProductID    int64     `json:"product_id"`
	SKU          string    `json:"sku"`
	CurrentStock int       `json:"current_stock"`
	Threshold    int       `json:"threshold"`
	Timestamp    time.Time `json:"timestamp"`
}
