package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	SKU               string          `json:"sku"`
	Description       string          `json:"description,omitempty"`
	Category          string          `json:"category"`
	Price             decimal.Decimal `json:"price"`
	Cost              decimal.Decimal `json:"cost"`
	StockQuantity     int             `json:"stock_quantity"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	ReorderPoint      int             `json:"reorder_point"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// IsLowStock reports whether the product is at or below its alert threshold.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.LowStockThreshold
}

// NeedsReorder reports whether stock has fallen to the reorder point.
func (p *Product) NeedsReorder() bool {
	return p.StockQuantity <= p.ReorderPoint
}

// ProfitMargin returns the margin as a percentage of price, or false when
// no cost is recorded.
func (p *Product) ProfitMargin() (decimal.Decimal, bool) {
	if p.Cost.IsZero() || p.Price.IsZero() {
		return decimal.Zero, false
	}
	margin := p.Price.Sub(p.Cost).Div(p.Price).Mul(decimal.NewFromInt(100))
	return margin.Round(2), true
}

type CreateProductRequest struct {
	Name              string          `json:"name" binding:"required"`
	SKU               string          `json:"sku" binding:"required"`
	Description       string          `json:"description"`
	Category          string          `json:"category" binding:"required"`
	Price             decimal.Decimal `json:"price" binding:"required"`
	Cost              decimal.Decimal `json:"cost"`
	StockQuantity     int             `json:"stock_quantity"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	ReorderPoint      int             `json:"reorder_point"`
}

type UpdateProductRequest struct {
	Name              *string          `json:"name"`
	SKU               *string          `json:"sku"`
	Description       *string          `json:"description"`
	Category          *string          `json:"category"`
	Price             *decimal.Decimal `json:"price"`
	Cost              *decimal.Decimal `json:"cost"`
	StockQuantity     *int             `json:"stock_quantity"`
	LowStockThreshold *int             `json:"low_stock_threshold"`
	ReorderPoint      *int             `json:"reorder_point"`
}

type ProductFilter struct {
	Search   string
	Category string
	LowStock bool
	Page     int
	PerPage  int
}
