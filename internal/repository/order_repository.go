package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kylefrommelt/mini-business-management-system/internal/domain"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `id, order_number, customer_id, status, order_date,
	shipping_address, shipping_city, shipping_state, shipping_zip, shipping_country,
	subtotal, tax_amount, shipping_amount, total_amount,
	created_at, updated_at, shipped_date, delivered_date`

func scanOrder(row pgx.Row, o *domain.Order) error {
	return row.Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.Status, &o.OrderDate,
		&o.ShippingAddress, &o.ShippingCity, &o.ShippingState, &o.ShippingZip,
		&o.ShippingCountry, &o.Subtotal, &o.TaxAmount, &o.ShippingAmount,
		&o.TotalAmount, &o.CreatedAt, &o.UpdatedAt, &o.ShippedDate, &o.DeliveredDate)
}

// Create persists an order with its items and applies the stock decrement
// for every line in a single transaction. The decrement is conditional on
// remaining availability, so a concurrent order that drained stock between
// the workflow's availability check and this commit aborts the whole
// transaction with InsufficientStockError.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`INSERT INTO orders (order_number, customer_id, status, order_date,
				shipping_address, shipping_city, shipping_state, shipping_zip,
				shipping_country, subtotal, tax_amount, shipping_amount, total_amount)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			 RETURNING id, created_at, updated_at`,
			o.OrderNumber, o.CustomerID, o.Status, o.OrderDate,
			o.ShippingAddress, o.ShippingCity, o.ShippingState, o.ShippingZip,
			o.ShippingCountry, o.Subtotal, o.TaxAmount, o.ShippingAmount, o.TotalAmount)
		if err := row.Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt); err != nil {
			if isUniqueViolation(err) {
				return &domain.DuplicateError{Field: "order_number", Value: o.OrderNumber}
			}
			return fmt.Errorf("insert order: %w", err)
		}

		var shortSKUs []string
		for i := range o.Items {
			item := &o.Items[i]
			tag, err := tx.Exec(ctx,
				`UPDATE products SET stock_quantity = stock_quantity - $2, updated_at = now()
				 WHERE id = $1 AND stock_quantity >= $2`, item.ProductID, item.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			if tag.RowsAffected() == 0 {
				var sku string
				if err := tx.QueryRow(ctx,
					`SELECT sku FROM products WHERE id = $1`, item.ProductID).Scan(&sku); err != nil {
					if errors.Is(err, pgx.ErrNoRows) {
						return domain.ErrProductNotFound
					}
					return fmt.Errorf("decrement stock: %w", err)
				}
				shortSKUs = append(shortSKUs, sku)
			}
		}
		if len(shortSKUs) > 0 {
			return &domain.InsufficientStockError{SKUs: shortSKUs}
		}

		for i := range o.Items {
			item := &o.Items[i]
			item.OrderID = o.ID
			row := tx.QueryRow(ctx,
				`INSERT INTO order_items (order_id, product_id, quantity, unit_price, line_total)
				 VALUES ($1, $2, $3, $4, $5)
				 RETURNING id, created_at`,
				item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.LineTotal)
			if err := row.Scan(&item.ID, &item.CreatedAt); err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}
		return nil
	})
}

func (r *OrderRepository) Get(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	row := r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	if err := scanOrder(row, &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, order_id, product_id, quantity, unit_price, line_total, created_at
		 FROM order_items WHERE order_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID,
			&item.Quantity, &item.UnitPrice, &item.LineTotal, &item.CreatedAt); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	return &o, rows.Err()
}

// UpdateStatus persists the status and lifecycle timestamps computed by the
// transition; monetary and item fields never change after creation.
func (r *OrderRepository) UpdateStatus(ctx context.Context, o *domain.Order) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = $3, shipped_date = $4, delivered_date = $5
		 WHERE id = $1`,
		o.ID, o.Status, o.UpdatedAt, o.ShippedDate, o.DeliveredDate)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// Cancel marks the order cancelled and restores stock for every item in one
// transaction. The service layer only permits this from Pending.
func (r *OrderRepository) Cancel(ctx context.Context, o *domain.Order) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, item := range o.Items {
			if _, err := tx.Exec(ctx,
				`UPDATE products SET stock_quantity = stock_quantity + $2, updated_at = now()
				 WHERE id = $1`, item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("restore stock: %w", err)
			}
		}
		tag, err := tx.Exec(ctx,
			`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`,
			o.ID, domain.OrderStatusCancelled)
		if err != nil {
			return fmt.Errorf("cancel order: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrOrderNotFound
		}
		return nil
	})
}

func (r *OrderRepository) List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, domain.Pagination, error) {
	where := `WHERE TRUE`
	args := []any{}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if f.CustomerID != 0 {
		args = append(args, f.CustomerID)
		where += fmt.Sprintf(` AND customer_id = $%d`, len(args))
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM orders `+where, args...).Scan(&total); err != nil {
		return nil, domain.Pagination{}, fmt.Errorf("count orders: %w", err)
	}
	page := domain.NewPagination(f.Page, f.PerPage, total)

	args = append(args, page.PerPage, page.Offset())
	query := fmt.Sprintf(`SELECT %s FROM orders %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		orderColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Pagination{}, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var o domain.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, domain.Pagination{}, err
		}
		orders = append(orders, o)
	}
	return orders, page, rows.Err()
}
