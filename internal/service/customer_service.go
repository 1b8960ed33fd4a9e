package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/kylefrommelt/mini-business-management-system/internal/domain"
)

type CustomerService struct {
	customers CustomerStore
	logger    *zap.Logger
}

func NewCustomerService(customers CustomerStore, logger *zap.Logger) *CustomerService {
	return &CustomerService{customers: customers, logger: logger}
}

var validTiers = map[string]bool{
	domain.TierStandard:   true,
	domain.TierPremium:    true,
	domain.TierEnterprise: true,
}

func (s *CustomerService) Create(ctx context.Context, req domain.CreateCustomerRequest) (*domain.Customer, error) {
	if req.Tier == "" {
		req.Tier = domain.TierStandard
	}
	if !validTiers[req.Tier] {
		return nil, &domain.ValidationError{Field: "tier", Reason: "must be Standard, Premium or Enterprise"}
	}
	if req.Country == "" {
		req.Country = "USA"
	}

	customer := &domain.Customer{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Company:   req.Company,
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
		Country:   req.Country,
		Tier:      req.Tier,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("customer created",
		zap.Int64("customer_id", customer.ID),
		zap.String("email", customer.Email))
	return customer, nil
}

func (s *CustomerService) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.customers.Get(ctx, id)
}

func (s *CustomerService) Update(ctx context.Context, id int64, req domain.UpdateCustomerRequest) (*domain.Customer, error) {
	customer, err := s.customers.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	applyString(&customer.FirstName, req.FirstName)
	applyString(&customer.LastName, req.LastName)
	applyString(&customer.Email, req.Email)
	applyString(&customer.Phone, req.Phone)
	applyString(&customer.Company, req.Company)
	applyString(&customer.Address, req.Address)
	applyString(&customer.City, req.City)
	applyString(&customer.State, req.State)
	applyString(&customer.ZipCode, req.ZipCode)
	applyString(&customer.Country, req.Country)
	applyString(&customer.Tier, req.Tier)

	if !validTiers[customer.Tier] {
		return nil, &domain.ValidationError{Field: "tier", Reason: "must be Standard, Premium or Enterprise"}
	}

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) Deactivate(ctx context.Context, id int64) error {
	if err := s.customers.Deactivate(ctx, id); err != nil {
		return err
	}
	s.logger.Info("customer deactivated", zap.Int64("customer_id", id))
	return nil
}

func (s *CustomerService) List(ctx context.Context, f domain.CustomerFilter) ([]domain.Customer, domain.Pagination, error) {
	return s.customers.List(ctx, f)
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
