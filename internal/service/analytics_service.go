package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kylefrommelt/mini-business-management-system/internal/domain"
)

type AnalyticsService struct {
	analytics AnalyticsStore
	logger    *zap.Logger
}

func NewAnalyticsService(analytics AnalyticsStore, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{analytics: analytics, logger: logger}
}

func (s *AnalyticsService) Dashboard(ctx context.Context) (*domain.DashboardOverview, error) {
	return s.analytics.DashboardOverview(ctx, time.Now().UTC())
}

// ParsePeriod maps the caller-supplied granularity onto a trend period and
// its lookback window: 30 days of daily buckets, 12 weeks of weekly buckets
// or 12 months of monthly buckets. Empty defaults to month.
func ParsePeriod(raw string, now time.Time) (domain.TrendPeriod, time.Time, error) {
	switch raw {
	case "day", "daily":
		return domain.PeriodDay, now.AddDate(0, 0, -30), nil
	case "week", "weekly":
		return domain.PeriodWeek, now.AddDate(0, 0, -12*7), nil
	case "month", "monthly", "":
		return domain.PeriodMonth, now.AddDate(-1, 0, 0), nil
	}
	return "", time.Time{}, &domain.ValidationError{Field: "period", Reason: "must be day, week or month"}
}

type SalesReport struct {
	Trend       []domain.SalesPoint `json:"sales_trend"`
	TopProducts []domain.TopProduct `json:"top_products"`
}

func (s *AnalyticsService) Sales(ctx context.Context, rawPeriod string) (*SalesReport, error) {
	period, since, err := ParsePeriod(rawPeriod, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	trend, err := s.analytics.SalesTrend(ctx, period, since)
	if err != nil {
		return nil, err
	}
	top, err := s.analytics.TopProducts(ctx, since)
	if err != nil {
		return nil, err
	}
	return &SalesReport{Trend: trend, TopProducts: top}, nil
}

func (s *AnalyticsService) StatusDistribution(ctx context.Context) ([]domain.StatusCount, error) {
	return s.analytics.StatusDistribution(ctx)
}

func (s *AnalyticsService) InventoryAlerts(ctx context.Context) ([]domain.InventoryAlert, error) {
	return s.analytics.InventoryAlerts(ctx)
}

func (s *AnalyticsService) TopCustomers(ctx context.Context) ([]domain.TopCustomer, error) {
	return s.analytics.TopCustomers(ctx)
}
