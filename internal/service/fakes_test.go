package service

import (
	"context"
	"sort"

	"github.com/kylefrommelt/mini-business-management-system/internal/domain"
)

// memStore is an in-memory stand-in for the pgx repositories. Its Create
// mirrors the store's transactional contract: either every line's stock
// decrement applies or none does.
type memStore struct {
	customers map[int64]domain.Customer
	products  map[int64]domain.Product
	orders    map[int64]domain.Order
	nextID    int64
}

func newMemStore() *memStore {
	return &memStore{
		customers: map[int64]domain.Customer{},
		products:  map[int64]domain.Product{},
		orders:    map[int64]domain.Order{},
		nextID:    100,
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return &c, nil
}

func (m *memStore) Create(ctx context.Context, c *domain.Customer) error {
	c.ID = m.id()
	c.IsActive = true
	m.customers[c.ID] = *c
	return nil
}

func (m *memStore) Update(ctx context.Context, c *domain.Customer) error {
	if _, ok := m.customers[c.ID]; !ok {
		return domain.ErrCustomerNotFound
	}
	m.customers[c.ID] = *c
	return nil
}

func (m *memStore) Deactivate(ctx context.Context, id int64) error {
	c, ok := m.customers[id]
	if !ok {
		return domain.ErrCustomerNotFound
	}
	c.IsActive = false
	m.customers[id] = c
	return nil
}

func (m *memStore) List(ctx context.Context, f domain.CustomerFilter) ([]domain.Customer, domain.Pagination, error) {
	out := []domain.Customer{}
	for _, c := range m.customers {
		if c.IsActive {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, domain.NewPagination(f.Page, f.PerPage, int64(len(out))), nil
}

// productStore wraps memStore so both ProductStore and CustomerStore can be
// satisfied despite the clashing method sets.
type productStore struct{ m *memStore }

func (s productStore) Get(ctx context.Context, id int64) (*domain.Product, error) {
	p, ok := s.m.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (s productStore) Create(ctx context.Context, p *domain.Product) error {
	p.ID = s.m.id()
	p.IsActive = true
	s.m.products[p.ID] = *p
	return nil
}

func (s productStore) Update(ctx context.Context, p *domain.Product) error {
	if _, ok := s.m.products[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	s.m.products[p.ID] = *p
	return nil
}

func (s productStore) Deactivate(ctx context.Context, id int64) error {
	p, ok := s.m.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.IsActive = false
	s.m.products[id] = p
	return nil
}

func (s productStore) AdjustStock(ctx context.Context, id int64, delta int) error {
	p, ok := s.m.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	if p.StockQuantity+delta < 0 {
		return &domain.InsufficientStockError{SKUs: []string{p.SKU}}
	}
	p.StockQuantity += delta
	s.m.products[id] = p
	return nil
}

func (s productStore) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, domain.Pagination, error) {
	out := []domain.Product{}
	for _, p := range s.m.products {
		if p.IsActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, domain.NewPagination(f.Page, f.PerPage, int64(len(out))), nil
}

type orderStore struct{ m *memStore }

func (s orderStore) Create(ctx context.Context, o *domain.Order) error {
	var short []string
	for _, item := range o.Items {
		p, ok := s.m.products[item.ProductID]
		if !ok {
			return domain.ErrProductNotFound
		}
		if p.StockQuantity < item.Quantity {
			short = append(short, p.SKU)
		}
	}
	if len(short) > 0 {
		return &domain.InsufficientStockError{SKUs: short}
	}

	o.ID = s.m.id()
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
		p := s.m.products[o.Items[i].ProductID]
		p.StockQuantity -= o.Items[i].Quantity
		s.m.products[p.ID] = p
	}
	s.m.orders[o.ID] = *o
	return nil
}

func (s orderStore) Get(ctx context.Context, id int64) (*domain.Order, error) {
	o, ok := s.m.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return &o, nil
}

func (s orderStore) UpdateStatus(ctx context.Context, o *domain.Order) error {
	if _, ok := s.m.orders[o.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	s.m.orders[o.ID] = *o
	return nil
}

func (s orderStore) Cancel(ctx context.Context, o *domain.Order) error {
	stored, ok := s.m.orders[o.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	for _, item := range stored.Items {
		p := s.m.products[item.ProductID]
		p.StockQuantity += item.Quantity
		s.m.products[p.ID] = p
	}
	stored.Status = domain.OrderStatusCancelled
	s.m.orders[o.ID] = stored
	return nil
}

func (s orderStore) List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, domain.Pagination, error) {
	out := []domain.Order{}
	for _, o := range s.m.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.CustomerID != 0 && o.CustomerID != f.CustomerID {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, domain.NewPagination(f.Page, f.PerPage, int64(len(out))), nil
}
