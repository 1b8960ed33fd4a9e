package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kylefrommelt/mini-business-management-system/internal/domain"
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, name, sku, description, category, price, cost,
	stock_quantity, low_stock_threshold, reorder_point, is_active, created_at, updated_at`

func scanProduct(row pgx.Row, p *domain.Product) error {
	return row.Scan(&p.ID, &p.Name, &p.SKU, &p.Description, &p.Category,
		&p.Price, &p.Cost, &p.StockQuantity, &p.LowStockThreshold,
		&p.ReorderPoint, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProductRepository) Get(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	row := r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if err := scanProduct(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO products (name, sku, description, category, price, cost,
			stock_quantity, low_stock_threshold, reorder_point)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, is_active, created_at, updated_at`,
		p.Name, p.SKU, p.Description, p.Category, p.Price, p.Cost,
		p.StockQuantity, p.LowStockThreshold, p.ReorderPoint)
	if err := row.Scan(&p.ID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateError{Field: "sku", Value: p.SKU}
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET name = $2, sku = $3, description = $4, category = $5,
			price = $6, cost = $7, stock_quantity = $8, low_stock_threshold = $9,
			reorder_point = $10, updated_at = now()
		 WHERE id = $1`,
		p.ID, p.Name, p.SKU, p.Description, p.Category, p.Price, p.Cost,
		p.StockQuantity, p.LowStockThreshold, p.ReorderPoint)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateError{Field: "sku", Value: p.SKU}
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// AdjustStock applies a stock delta, refusing any change that would take
// the quantity negative.
func (r *ProductRepository) AdjustStock(ctx context.Context, id int64, delta int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET stock_quantity = stock_quantity + $2, updated_at = now()
		 WHERE id = $1 AND stock_quantity + $2 >= 0`, id, delta)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var sku string
		err := r.pool.QueryRow(ctx, `SELECT sku FROM products WHERE id = $1`, id).Scan(&sku)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrProductNotFound
		}
		if err != nil {
			return fmt.Errorf("adjust stock: %w", err)
		}
		return &domain.InsufficientStockError{SKUs: []string{sku}}
	}
	return nil
}

func (r *ProductRepository) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, domain.Pagination, error) {
	where := `WHERE is_active = TRUE`
	args := []any{}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where += fmt.Sprintf(` AND (name ILIKE $%d OR sku ILIKE $%d OR description ILIKE $%d)`, n, n, n)
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where += fmt.Sprintf(` AND category = $%d`, len(args))
	}
	if f.LowStock {
		where += ` AND stock_quantity <= low_stock_threshold`
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM products `+where, args...).Scan(&total); err != nil {
		return nil, domain.Pagination{}, fmt.Errorf("count products: %w", err)
	}
	page := domain.NewPagination(f.Page, f.PerPage, total)

	args = append(args, page.PerPage, page.Offset())
	query := fmt.Sprintf(`SELECT %s FROM products %s ORDER BY name LIMIT $%d OFFSET $%d`,
		productColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Pagination{}, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, domain.Pagination{}, err
		}
		products = append(products, p)
	}
	return products, page, rows.Err()
}
