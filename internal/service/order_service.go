package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kylefrommelt/mini-business-management-system/internal/domain"
	"github.com/kylefrommelt/mini-business-management-system/internal/events"
)

type OrderService struct {
	customers CustomerStore
	products  ProductStore
	orders    OrderStore
	rates     RatePolicy
	producer  *events.Producer
	logger    *zap.Logger
}

func NewOrderService(customers CustomerStore, products ProductStore, orders OrderStore,
	rates RatePolicy, producer *events.Producer, logger *zap.Logger) *OrderService {
	return &OrderService{
		customers: customers,
		products:  products,
		orders:    orders,
		rates:     rates,
		producer:  producer,
		logger:    logger,
	}
}

// PlaceOrder validates the request against the catalog, prices every line
// from the product's current price, and persists the order together with
// the stock decrements as one atomic unit. Nothing is written unless every
// line validates. Placing the same logical order twice creates two orders.
func (s *OrderService) PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest, requestID string) (*domain.Order, error) {
	customer, err := s.customers.Get(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive {
		return nil, domain.ErrCustomerNotFound
	}

	now := time.Now().UTC()
	order := &domain.Order{
		OrderNumber:     domain.NewOrderNumber(now),
		CustomerID:      customer.ID,
		Status:          domain.OrderStatusPending,
		OrderDate:       now,
		ShippingAddress: req.ShippingAddress,
		ShippingCity:    req.ShippingCity,
		ShippingState:   req.ShippingState,
		ShippingZip:     req.ShippingZip,
		ShippingCountry: req.ShippingCountry,
	}
	if order.ShippingCountry == "" {
		order.ShippingCountry = "USA"
	}

	var shortSKUs []string
	var lowStock []events.LowStockEvent
	subtotal := decimal.Zero
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, &domain.ValidationError{Field: "quantity", Reason: "must be a positive integer"}
		}
		product, err := s.products.Get(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.IsActive {
			return nil, domain.ErrProductNotFound
		}
		if product.StockQuantity < line.Quantity {
			shortSKUs = append(shortSKUs, product.SKU)
			continue
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: product.ID,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
			LineTotal: lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)

		if remaining := product.StockQuantity - line.Quantity; remaining <= product.LowStockThreshold {
			lowStock = append(lowStock, events.LowStockEvent{
				EventID:      uuid.New().String(),
				ProductID:    product.ID,
				SKU:          product.SKU,
				CurrentStock: remaining,
				Threshold:    product.LowStockThreshold,
				Timestamp:    now,
			})
		}
	}
	if len(shortSKUs) > 0 {
		return nil, &domain.InsufficientStockError{SKUs: shortSKUs}
	}

	order.Subtotal = subtotal
	order.TaxAmount = s.rates.ComputeTax(subtotal, order.ShippingState)
	order.ShippingAmount = s.rates.ComputeShipping(order)
	order.TotalAmount = subtotal.Add(order.TaxAmount).Add(order.ShippingAmount)

	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error("failed to place order",
			zap.String("order_number", order.OrderNumber),
			zap.Int64("customer_id", order.CustomerID),
			zap.Error(err))
		return nil, err
	}

	// Event publishing is best-effort; a broker outage never fails the order.
	if err := s.producer.PublishOrderCreated(events.OrderCreatedEvent{
		EventID:     uuid.New().String(),
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		CustomerID:  order.CustomerID,
		TotalAmount: order.TotalAmount,
		Items:       order.Items,
		Status:      order.Status,
		Timestamp:   now,
		RequestID:   requestID,
	}); err != nil {
		s.logger.Error("failed to publish order created event",
			zap.Int64("order_id", order.ID),
			zap.Error(err))
	}
	for _, ev := range lowStock {
		if err := s.producer.PublishLowStock(ev); err != nil {
			s.logger.Error("failed to publish low stock event",
				zap.String("sku", ev.SKU),
				zap.Error(err))
		}
	}

	s.logger.Info("order placed",
		zap.Int64("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Int64("customer_id", order.CustomerID),
		zap.String("total_amount", order.TotalAmount.String()))

	return order, nil
}

// UpdateStatus moves an order along the lifecycle, stamping shipped and
// delivered dates. Transitions outside the table are rejected without
// mutation. Cancelling through this path never restocks.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, to domain.OrderStatus, requestID string) (*domain.Order, error) {
	if !to.IsValid() {
		return nil, &domain.ValidationError{Field: "status", Reason: "unknown status"}
	}

	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if err := order.Transition(to, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.orders.UpdateStatus(ctx, order); err != nil {
		return nil, err
	}

	if err := s.producer.PublishStatusChanged(events.OrderStatusChangedEvent{
		EventID:     uuid.New().String(),
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		From:        from,
		To:          to,
		Timestamp:   order.UpdatedAt,
		RequestID:   requestID,
	}); err != nil {
		s.logger.Error("failed to publish status change event",
			zap.Int64("order_id", order.ID),
			zap.Error(err))
	}

	s.logger.Info("order status updated",
		zap.Int64("order_id", order.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)))

	return order, nil
}

// Cancel cancels a Pending order and restores the stock its items had
// claimed. Orders past Pending must go through UpdateStatus, which does
// not restock.
func (s *OrderService) Cancel(ctx context.Context, id int64) error {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return err
	}
	if order.Status != domain.OrderStatusPending {
		return &domain.ValidationError{Field: "status", Reason: "only pending orders can be cancelled"}
	}
	if err := s.orders.Cancel(ctx, order); err != nil {
		return err
	}

	s.logger.Info("order cancelled",
		zap.Int64("order_id", order.ID),
		zap.String("order_number", order.OrderNumber))
	return nil
}

func (s *OrderService) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orders.Get(ctx, id)
}

func (s *OrderService) List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, domain.Pagination, error) {
	if f.Status != "" && !f.Status.IsValid() {
		return nil, domain.Pagination{}, &domain.ValidationError{Field: "status", Reason: "unknown status"}
	}
	return s.orders.List(ctx, f)
}

func (s *OrderService) Statuses() []domain.OrderStatus {
	return domain.ValidStatuses
}
