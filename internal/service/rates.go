package service

import (
	"github.com/shopspring/decimal"

	"github.com/kylefrommelt/mini-business-management-system/internal/domain"
)

// RatePolicy computes tax and shipping for an order. The workflow only sums
// the results into the total; it never inspects the rates themselves.
type RatePolicy interface {
	ComputeTax(subtotal decimal.Decimal, region string) decimal.Decimal
	ComputeShipping(order *domain.Order) decimal.Decimal
}

// FlatRatePolicy applies one tax rate regardless of region and a flat
// shipping charge per order.
type FlatRatePolicy struct {
	TaxRate  decimal.Decimal
	Shipping decimal.Decimal
}

func NewFlatRatePolicy(taxRate, shipping string) (*FlatRatePolicy, error) {
	rate, err := decimal.NewFromString(taxRate)
	if err != nil {
		return nil, err
	}
	flat, err := decimal.NewFromString(shipping)
	if err != nil {
		return nil, err
	}
	return &FlatRatePolicy{TaxRate: rate, Shipping: flat}, nil
}

func (p *FlatRatePolicy) ComputeTax(subtotal decimal.Decimal, region string) decimal.Decimal {
	return subtotal.Mul(p.TaxRate).Round(2)
}

func (p *FlatRatePolicy) ComputeShipping(order *domain.Order) decimal.Decimal {
	return p.Shipping
}
