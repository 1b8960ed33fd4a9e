package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrendPeriod is the bucket granularity for sales trends.
type TrendPeriod string

const (
	PeriodDay   TrendPeriod = "day"
	PeriodWeek  TrendPeriod = "week"
	PeriodMonth TrendPeriod = "month"
)

type DashboardOverview struct {
	TotalCustomers   int64           `json:"total_customers"`
	TotalProducts    int64           `json:"total_products"`
	TotalOrders      int64           `json:"total_orders"`
	PendingOrders    int64           `json:"pending_orders"`
	LowStockProducts int64           `json:"low_stock_products"`
	RecentOrders     int64           `json:"recent_orders"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	MonthlyRevenue   decimal.Decimal `json:"monthly_revenue"`
}

type SalesPoint struct {
	Period     time.Time       `json:"period"`
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int64           `json:"orders"`
}

type StatusCount struct {
	Status   OrderStatus     `json:"status"`
	Count    int64           `json:"count"`
	AvgValue decimal.Decimal `json:"avg_value"`
}

// InventoryAlert is a product at or below its low-stock threshold.
// Deficit is threshold minus current stock; alerts sort by it descending.
type InventoryAlert struct {
	ProductID    int64           `json:"product_id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Category     string          `json:"category"`
	CurrentStock int             `json:"current_stock"`
	Threshold    int             `json:"threshold"`
	Deficit      int             `json:"deficit"`
	Price        decimal.Decimal `json:"price"`
}

type TopProduct struct {
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	QuantitySold int64           `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

type TopCustomer struct {
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Tier       string          `json:"tier"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	OrderCount int64           `json:"order_count"`
}
