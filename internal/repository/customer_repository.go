package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kylefrommelt/mini-business-management-system/internal/domain"
)

type CustomerRepository struct {
	pool *pgxpool.Pool
}

func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

const customerColumns = `id, first_name, last_name, email, phone, company,
	address, city, state, zip_code, country, tier, is_active, created_at, updated_at`

func scanCustomer(row pgx.Row, c *domain.Customer) error {
	return row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.Company, &c.Address, &c.City, &c.State, &c.ZipCode, &c.Country,
		&c.Tier, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CustomerRepository) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	var c domain.Customer
	row := r.pool.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	if err := scanCustomer(row, &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}

	row = r.pool.QueryRow(ctx,
		`SELECT count(*) FROM orders WHERE customer_id = $1`, id)
	if err := row.Scan(&c.OrderCount); err != nil {
		return nil, fmt.Errorf("count customer orders: %w", err)
	}
	return &c, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO customers (first_name, last_name, email, phone, company,
			address, city, state, zip_code, country, tier)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, is_active, created_at, updated_at`,
		c.FirstName, c.LastName, c.Email, c.Phone, c.Company,
		c.Address, c.City, c.State, c.ZipCode, c.Country, c.Tier)
	if err := row.Scan(&c.ID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateError{Field: "email", Value: c.Email}
		}
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *domain.Customer) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE customers SET first_name = $2, last_name = $3, email = $4,
			phone = $5, company = $6, address = $7, city = $8, state = $9,
			zip_code = $10, country = $11, tier = $12, updated_at = now()
		 WHERE id = $1`,
		c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.Company,
		c.Address, c.City, c.State, c.ZipCode, c.Country, c.Tier)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateError{Field: "email", Value: c.Email}
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

// Deactivate soft-deletes a customer; order history is preserved.
func (r *CustomerRepository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE customers SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepository) List(ctx context.Context, f domain.CustomerFilter) ([]domain.Customer, domain.Pagination, error) {
	where := `WHERE is_active = TRUE`
	args := []any{}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where += fmt.Sprintf(` AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR company ILIKE $%d)`, n, n, n, n)
	}
	if f.Tier != "" {
		args = append(args, f.Tier)
		where += fmt.Sprintf(` AND tier = $%d`, len(args))
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM customers `+where, args...).Scan(&total); err != nil {
		return nil, domain.Pagination{}, fmt.Errorf("count customers: %w", err)
	}
	page := domain.NewPagination(f.Page, f.PerPage, total)

	args = append(args, page.PerPage, page.Offset())
	query := fmt.Sprintf(`SELECT %s FROM customers %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		customerColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Pagination{}, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		var c domain.Customer
		if err := scanCustomer(rows, &c); err != nil {
			return nil, domain.Pagination{}, err
		}
		customers = append(customers, c)
	}
	return customers, page, rows.Err()
}
