package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kylefrommelt/mini-business-management-system/internal/domain"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newOrderFixture(t *testing.T) (*OrderService, *memStore) {
	t.Helper()
	m := newMemStore()
	m.customers[1] = domain.Customer{ID: 1, FirstName: "Ada", LastName: "Lovelace",
		Email: "ada@example.com", Tier: domain.TierStandard, IsActive: true}
	m.products[1] = domain.Product{ID: 1, Name: "Widget", SKU: "WIDGET-1", Category: "Tools",
		Price: money("59.99"), StockQuantity: 8, LowStockThreshold: 2, IsActive: true}
	m.products[2] = domain.Product{ID: 2, Name: "Gadget", SKU: "GADGET-1", Category: "Tools",
		Price: money("12.50"), StockQuantity: 3, LowStockThreshold: 1, IsActive: true}

	rates := &FlatRatePolicy{TaxRate: money("0.08"), Shipping: money("9.99")}
	svc := NewOrderService(m, productStore{m}, orderStore{m}, rates, nil, zap.NewNop())
	return svc, m
}

func TestPlaceOrderComputesTotals(t *testing.T) {
	svc, m := newOrderFixture(t)

	order, err := svc.PlaceOrder(context.Background(), domain.PlaceOrderRequest{
		CustomerID: 1,
		Items:      []domain.OrderLine{{ProductID: 1, Quantity: 1}},
	}, "req-1")
	require.NoError(t, err)

	assert.Equal(t, "59.99", order.Subtotal.StringFixed(2))
	assert.Equal(t, "4.80", order.TaxAmount.StringFixed(2))
	assert.Equal(t, "9.99", order.ShippingAmount.StringFixed(2))
	assert.Equal(t, "74.78", order.TotalAmount.StringFixed(2))
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, 7, m.products[1].StockQuantity)

	require.Len(t, order.Items, 1)
	assert.Equal(t, "59.99", order.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "59.99", order.Items[0].LineTotal.StringFixed(2))
}

func TestPlaceOrderSubtotalEqualsLineTotals(t *testing.T) {
	svc, m := newOrderFixture(t)

	order, err := svc.PlaceOrder(context.Background(), domain.PlaceOrderRequest{
		CustomerID: 1,
		Items: []domain.OrderLine{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 3},
		},
	}, "req-1")
	require.NoError(t, err)

	sum := decimal.Zero
	for _, item := range order.Items {
		assert.True(t, item.LineTotal.Equal(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))))
		sum = sum.Add(item.LineTotal)
	}
	assert.True(t, sum.Equal(order.Subtotal), "sum of line totals must equal subtotal")
	assert.True(t, order.TotalAmount.Equal(order.Subtotal.Add(order.TaxAmount).Add(order.ShippingAmount)))

	// Each product decremented by exactly the requested quantity.
	assert.Equal(t, 6, m.products[1].StockQuantity)
	assert.Equal(t, 0, m.products[2].StockQuantity)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	svc, m := newOrderFixture(t)

	_, err := svc.PlaceOrder(context.Background(), domain.PlaceOrderRequest{
		CustomerID: 1,
		Items:      []domain.OrderLine{{ProductID: 1, Quantity: 10}},
	}, "req-1")

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, []string{"WIDGET-1"}, stockErr.SKUs)
	assert.Equal(t, 8, m.products[1].StockQuantity, "stock must be untouched")
	assert.Empty(t, m.orders, "no order row may exist")
}

func TestPlaceOrderAllOrNothing(t *testing.T) {
	svc, m := newOrderFixture(t)

	// Second line exceeds availability; the valid first line must not apply.
	_, err := svc.PlaceOrder(context.Background(), domain.PlaceOrderRequest{
		CustomerID: 1,
		Items: []domain.OrderLine{
			{ProductID: 1, Quantity: 1},
			{ProductID: 2, Quantity: 5},
		},
	}, "req-1")

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, []string{"GADGET-1"}, stockErr.SKUs)
	assert.Equal(t, 8, m.products[1].StockQuantity)
	assert.Equal(t, 3, m.products[2].StockQuantity)
	assert.Empty(t, m.orders)
}

func TestPlaceOrderUnknownCustomer(t *testing.T) {
	svc, _ := newOrderFixture(t)

	_, err := svc.PlaceOrder(context.Background(), domain.PlaceOrderRequest{
		CustomerID: 99,
		Items:      []domain.OrderLine{{ProductID: 1, Quantity: 1}},
	}, "req-1")
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestPlaceOrderInactiveCustomer(t *testing.T) {
	svc, m := newOrderFixture(t)
	c := m.customers[1]
	c.IsActive = false
	m.customers[1] = c

	_, err := svc.PlaceOrder(context.Background(), domain.PlaceOrderRequest{
		CustomerID: 1,
		Items:      []domain.OrderLine{{ProductID: 1, Quantity: 1}},
	}, "req-1")
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestPlaceOrderInactiveProduct(t *testing.T) {
	svc, m := newOrderFixture(t)
	p := m.products[1]
	p.IsActive = false
	m.products[1] = p

	_, err := svc.PlaceOrder(context.Background(), domain.PlaceOrderRequest{
		CustomerID: 1,
		Items:      []domain.OrderLine{{ProductID: 1, Quantity: 1}},
	}, "req-1")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestPlaceOrderInvalidQuantity(t *testing.T) {
	svc, m := newOrderFixture(t)

	for _, qty := range []int{0, -1} {
		_, err := svc.PlaceOrder(context.Background(), domain.PlaceOrderRequest{
			CustomerID: 1,
			Items:      []domain.OrderLine{{ProductID: 1, Quantity: qty}},
		}, "req-1")

		var validation *domain.ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "quantity", validation.Field)
	}
	assert.Equal(t, 8, m.products[1].StockQuantity)
}

func TestPlaceOrderNotIdempotent(t *testing.T) {
	svc, m := newOrderFixture(t)

	req := domain.PlaceOrderRequest{
		CustomerID: 1,
		Items:      []domain.OrderLine{{ProductID: 1, Quantity: 1}},
	}
	first, err := svc.PlaceOrder(context.Background(), req, "req-1")
	require.NoError(t, err)
	second, err := svc.PlaceOrder(context.Background(), req, "req-1")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 6, m.products[1].StockQuantity)
}

func TestUpdateStatusLifecycle(t *testing.T) {
	svc, _ := newOrderFixture(t)

	order, err := svc.PlaceOrder(context.Background(), domain.PlaceOrderRequest{
		CustomerID: 1,
		Items:      []domain.OrderLine{{ProductID: 1, Quantity: 1}},
	}, "req-1")
	require.NoError(t, err)

	order, err = svc.UpdateStatus(context.Background(), order.ID, domain.OrderStatusProcessing, "req-2")
	require.NoError(t, err)
	assert.Nil(t, order.ShippedDate)

	order, err = svc.UpdateStatus(context.Background(), order.ID, domain.OrderStatusShipped, "req-3")
	require.NoError(t, err)
	require.NotNil(t, order.ShippedDate)

	order, err = svc.UpdateStatus(context.Background(), order.ID, domain.OrderStatusDelivered, "req-4")
	require.NoError(t, err)
	require.NotNil(t, order.DeliveredDate)
	assert.False(t, order.DeliveredDate.Before(*order.ShippedDate))
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	svc, m := newOrderFixture(t)

	order, err := svc.PlaceOrder(context.Background(), domain.PlaceOrderRequest{
		CustomerID: 1,
		Items:      []domain.OrderLine{{ProductID: 1, Quantity: 1}},
	}, "req-1")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), order.ID, domain.OrderStatusDelivered, "req-2")
	var transition *domain.InvalidTransitionError
	require.ErrorAs(t, err, &transition)
	assert.Equal(t, domain.OrderStatusPending, transition.From)
	assert.Equal(t, domain.OrderStatusDelivered, transition.To)
	assert.Equal(t, domain.OrderStatusPending, m.orders[order.ID].Status, "rejected transition must not mutate")
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	svc, _ := newOrderFixture(t)

	_, err := svc.UpdateStatus(context.Background(), 1, domain.OrderStatus("Teleported"), "req-1")
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestCancelRestoresStock(t *testing.T) {
	svc, m := newOrderFixture(t)

	order, err := svc.PlaceOrder(context.Background(), domain.PlaceOrderRequest{
		CustomerID: 1,
		Items:      []domain.OrderLine{{ProductID: 1, Quantity: 2}},
	}, "req-1")
	require.NoError(t, err)
	require.Equal(t, 6, m.products[1].StockQuantity)

	require.NoError(t, svc.Cancel(context.Background(), order.ID))
	assert.Equal(t, 8, m.products[1].StockQuantity)
	assert.Equal(t, domain.OrderStatusCancelled, m.orders[order.ID].Status)
}

func TestCancelRejectsNonPending(t *testing.T) {
	svc, m := newOrderFixture(t)

	order, err := svc.PlaceOrder(context.Background(), domain.PlaceOrderRequest{
		CustomerID: 1,
		Items:      []domain.OrderLine{{ProductID: 1, Quantity: 2}},
	}, "req-1")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), order.ID, domain.OrderStatusProcessing, "req-2")
	require.NoError(t, err)

	err = svc.Cancel(context.Background(), order.ID)
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, 6, m.products[1].StockQuantity, "cancel via status machine must not restock")
}

func TestListOrdersFiltersByStatus(t *testing.T) {
	svc, _ := newOrderFixture(t)

	for i := 0; i < 3; i++ {
		_, err := svc.PlaceOrder(context.Background(), domain.PlaceOrderRequest{
			CustomerID: 1,
			Items:      []domain.OrderLine{{ProductID: 2, Quantity: 1}},
		}, "req")
		require.NoError(t, err)
	}

	orders, page, err := svc.List(context.Background(), domain.OrderFilter{Status: domain.OrderStatusPending})
	require.NoError(t, err)
	assert.Len(t, orders, 3)
	assert.EqualValues(t, 3, page.Total)

	orders, _, err = svc.List(context.Background(), domain.OrderFilter{Status: domain.OrderStatusShipped})
	require.NoError(t, err)
	assert.Empty(t, orders)

	_, _, err = svc.List(context.Background(), domain.OrderFilter{Status: domain.OrderStatus("Bogus")})
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}
