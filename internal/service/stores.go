package service

import (
	"context"
	"time"

	"github.com/kylefrommelt/mini-business-management-system/internal/domain"
)

// Store interfaces are satisfied by the pgx repositories and by in-memory
// fakes in tests.

type CustomerStore interface {
	Get(ctx context.Context, id int64) (*domain.Customer, error)
	Create(ctx context.Context, c *domain.Customer) error
	Update(ctx context.Context, c *domain.Customer) error
	Deactivate(ctx context.Context, id int64) error
	List(ctx context.Context, f domain.CustomerFilter) ([]domain.Customer, domain.Pagination, error)
}

type ProductStore interface {
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Deactivate(ctx context.Context, id int64) error
	AdjustStock(ctx context.Context, id int64, delta int) error
	List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, domain.Pagination, error)
}

type OrderStore interface {
	Create(ctx context.Context, o *domain.Order) error
	Get(ctx context.Context, id int64) (*domain.Order, error)
	UpdateStatus(ctx context.Context, o *domain.Order) error
	Cancel(ctx context.Context, o *domain.Order) error
	List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, domain.Pagination, error)
}

type AnalyticsStore interface {
	DashboardOverview(ctx context.Context, now time.Time) (*domain.DashboardOverview, error)
	SalesTrend(ctx context.Context, period domain.TrendPeriod, since time.Time) ([]domain.SalesPoint, error)
	StatusDistribution(ctx context.Context) ([]domain.StatusCount, error)
	InventoryAlerts(ctx context.Context) ([]domain.InventoryAlert, error)
	TopProducts(ctx context.Context, since time.Time) ([]domain.TopProduct, error)
	TopCustomers(ctx context.Context) ([]domain.TopCustomer, error)
}
