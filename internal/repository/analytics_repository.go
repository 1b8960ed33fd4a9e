package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kylefrommelt/mini-business-management-system/internal/domain"
)

// AnalyticsRepository runs the read-only dashboard rollups. Every call
// recomputes from current data; nothing is cached.
type AnalyticsRepository struct {
	pool *pgxpool.Pool
}

func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

func (r *AnalyticsRepository) DashboardOverview(ctx context.Context, now time.Time) (*domain.DashboardOverview, error) {
	var o domain.DashboardOverview
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	weekAgo := now.AddDate(0, 0, -7)

	row := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM customers WHERE is_active = TRUE),
			(SELECT count(*) FROM products WHERE is_active = TRUE),
			(SELECT count(*) FROM orders),
			(SELECT count(*) FROM orders WHERE status = $1),
			(SELECT count(*) FROM products WHERE is_active = TRUE AND stock_quantity <= low_stock_threshold),
			(SELECT count(*) FROM orders WHERE order_date >= $2),
			(SELECT COALESCE(sum(total_amount), 0) FROM orders WHERE status <> $3),
			(SELECT COALESCE(sum(total_amount), 0) FROM orders WHERE status <> $3 AND order_date >= $4)`,
		domain.OrderStatusPending, weekAgo, domain.OrderStatusCancelled, monthStart)

	if err := row.Scan(&o.TotalCustomers, &o.TotalProducts, &o.TotalOrders,
		&o.PendingOrders, &o.LowStockProducts, &o.RecentOrders,
		&o.TotalRevenue, &o.MonthlyRevenue); err != nil {
		return nil, fmt.Errorf("dashboard overview: %w", err)
	}
	return &o, nil
}

func (r *AnalyticsRepository) SalesTrend(ctx context.Context, period domain.TrendPeriod, since time.Time) ([]domain.SalesPoint, error) {
	// period is constrained to day/week/month by the service before it
	// reaches this query.
	query := fmt.Sprintf(`
		SELECT date_trunc('%s', order_date) AS bucket,
			COALESCE(sum(total_amount), 0),
			count(*)
		FROM orders
		WHERE order_date >= $1 AND status <> $2
		GROUP BY bucket
		ORDER BY bucket`, period)

	rows, err := r.pool.Query(ctx, query, since, domain.OrderStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("sales trend: %w", err)
	}
	defer rows.Close()

	points := []domain.SalesPoint{}
	for rows.Next() {
		var p domain.SalesPoint
		if err := rows.Scan(&p.Period, &p.Revenue, &p.OrderCount); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (r *AnalyticsRepository) StatusDistribution(ctx context.Context) ([]domain.StatusCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, count(*), COALESCE(avg(total_amount), 0)
		FROM orders
		GROUP BY status
		ORDER BY status`)
	if err != nil {
		return nil, fmt.Errorf("status distribution: %w", err)
	}
	defer rows.Close()

	counts := []domain.StatusCount{}
	for rows.Next() {
		var c domain.StatusCount
		var avg decimal.Decimal
		if err := rows.Scan(&c.Status, &c.Count, &avg); err != nil {
			return nil, err
		}
		c.AvgValue = avg.Round(2)
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *AnalyticsRepository) InventoryAlerts(ctx context.Context) ([]domain.InventoryAlert, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, sku, category, stock_quantity, low_stock_threshold, price
		FROM products
		WHERE is_active = TRUE AND stock_quantity <= low_stock_threshold
		ORDER BY (low_stock_threshold - stock_quantity) DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("inventory alerts: %w", err)
	}
	defer rows.Close()

	alerts := []domain.InventoryAlert{}
	for rows.Next() {
		var a domain.InventoryAlert
		if err := rows.Scan(&a.ProductID, &a.Name, &a.SKU, &a.Category,
			&a.CurrentStock, &a.Threshold, &a.Price); err != nil {
			return nil, err
		}
		a.Deficit = a.Threshold - a.CurrentStock
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (r *AnalyticsRepository) TopProducts(ctx context.Context, since time.Time) ([]domain.TopProduct, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.name, p.sku, sum(oi.quantity), sum(oi.line_total)
		FROM products p
		JOIN order_items oi ON oi.product_id = p.id
		JOIN orders o ON o.id = oi.order_id
		WHERE o.order_date >= $1 AND o.status <> $2
		GROUP BY p.id, p.name, p.sku
		ORDER BY sum(oi.quantity) DESC
		LIMIT 10`, since, domain.OrderStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	top := []domain.TopProduct{}
	for rows.Next() {
		var t domain.TopProduct
		if err := rows.Scan(&t.Name, &t.SKU, &t.QuantitySold, &t.Revenue); err != nil {
			return nil, err
		}
		top = append(top, t)
	}
	return top, rows.Err()
}

func (r *AnalyticsRepository) TopCustomers(ctx context.Context) ([]domain.TopCustomer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.first_name || ' ' || c.last_name, c.email, c.tier,
			sum(o.total_amount), count(o.id)
		FROM customers c
		JOIN orders o ON o.customer_id = c.id
		WHERE o.status <> $1
		GROUP BY c.id, c.first_name, c.last_name, c.email, c.tier
		ORDER BY sum(o.total_amount) DESC
		LIMIT 10`, domain.OrderStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("top customers: %w", err)
	}
	defer rows.Close()

	top := []domain.TopCustomer{}
	for rows.Next() {
		var t domain.TopCustomer
		if err := rows.Scan(&t.Name, &t.Email, &t.Tier, &t.TotalSpent, &t.OrderCount); err != nil {
			return nil, err
		}
		top = append(top, t)
	}
	return top, rows.Err()
}
