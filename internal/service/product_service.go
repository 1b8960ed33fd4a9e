package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/kylefrommelt/mini-business-management-system/internal/domain"
)

type ProductService struct {
	products ProductStore
	logger   *zap.Logger
}

func NewProductService(products ProductStore, logger *zap.Logger) *ProductService {
	return &ProductService{products: products, logger: logger}
}

func (s *ProductService) Create(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	if req.Price.IsNegative() {
		return nil, &domain.ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if req.StockQuantity < 0 {
		return nil, &domain.ValidationError{Field: "stock_quantity", Reason: "must not be negative"}
	}
	if req.LowStockThreshold == 0 {
		req.LowStockThreshold = 10
	}
	if req.ReorderPoint == 0 {
		req.ReorderPoint = 20
	}

	product := &domain.Product{
		Name:              req.Name,
		SKU:               req.SKU,
		Description:       req.Description,
		Category:          req.Category,
		Price:             req.Price,
		Cost:              req.Cost,
		StockQuantity:     req.StockQuantity,
		LowStockThreshold: req.LowStockThreshold,
		ReorderPoint:      req.ReorderPoint,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.Int64("product_id", product.ID),
		zap.String("sku", product.SKU))
	return product, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.Get(ctx, id)
}

func (s *ProductService) Update(ctx context.Context, id int64, req domain.UpdateProductRequest) (*domain.Product, error) {
	product, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	applyString(&product.Name, req.Name)
	applyString(&product.SKU, req.SKU)
	applyString(&product.Description, req.Description)
	applyString(&product.Category, req.Category)
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, &domain.ValidationError{Field: "price", Reason: "must not be negative"}
		}
		product.Price = *req.Price
	}
	if req.Cost != nil {
		product.Cost = *req.Cost
	}
	if req.StockQuantity != nil {
		if *req.StockQuantity < 0 {
			return nil, &domain.ValidationError{Field: "stock_quantity", Reason: "must not be negative"}
		}
		product.StockQuantity = *req.StockQuantity
	}
	if req.LowStockThreshold != nil {
		product.LowStockThreshold = *req.LowStockThreshold
	}
	if req.ReorderPoint != nil {
		product.ReorderPoint = *req.ReorderPoint
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Deactivate(ctx context.Context, id int64) error {
	if err := s.products.Deactivate(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deactivated", zap.Int64("product_id", id))
	return nil
}

// AdjustStock applies a manual stock correction (restock or shrinkage).
// The store refuses any delta that would take stock negative.
func (s *ProductService) AdjustStock(ctx context.Context, id int64, delta int) (*domain.Product, error) {
	if delta == 0 {
		return nil, &domain.ValidationError{Field: "delta", Reason: "must be non-zero"}
	}
	if err := s.products.AdjustStock(ctx, id, delta); err != nil {
		return nil, err
	}
	s.logger.Info("stock adjusted",
		zap.Int64("product_id", id),
		zap.Int("delta", delta))
	return s.products.Get(ctx, id)
}

func (s *ProductService) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, domain.Pagination, error) {
	return s.products.List(ctx, f)
}
