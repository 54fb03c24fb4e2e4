package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sahajlabs/exam-admin-gateway/internal/models"
	appErrors "github.com/sahajlabs/exam-admin-gateway/pkg/errors"
)

type reportUpstream interface {
	SubscriptionOverview(ctx context.Context, period string, subscriptionID int64) (*models.SubscriptionOverview, error)
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
}

// ReportService serves the subscription overview and dashboard reports,
// caching upstream responses in Redis. A cache failure only costs the
// upstream round trip; reports keep working without Redis.
type ReportService struct {
	upstream reportUpstream
	cache    *CacheService
	ttl      time.Duration
	logger   *zap.Logger
}

// NewReportService constructs the report service.
func NewReportService(upstream reportUpstream, cache *CacheService, ttl time.Duration, logger *zap.Logger) *ReportService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{upstream: upstream, cache: cache, ttl: ttl, logger: logger}
}

// Overview returns subscription statistics for a period, optionally scoped
// to one plan. The upstream defaults to the all-time window, and so does
// the gateway.
func (s *ReportService) Overview(ctx context.Context, period string, subscriptionID int64) (*models.SubscriptionOverview, error) {
	if period == "" {
		period = models.PeriodAll
	}
	if !models.ValidPeriod(period) {
		return nil, appErrors.Validation(appErrors.FieldErrors{
			"time_period": "time period must be one of last_week, last_month, last_3_months, last_6_months, last_year or all",
		})
	}

	key := fmt.Sprintf("reports:overview:%s:%d", period, subscriptionID)
	var cached models.SubscriptionOverview
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	overview, err := s.upstream.SubscriptionOverview(ctx, period, subscriptionID)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, overview, s.ttl)
	return overview, nil
}

// Dashboard returns the administrative landing-page summary.
func (s *ReportService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	const key = "reports:dashboard"

	var cached models.DashboardStats
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	stats, err := s.upstream.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, stats, s.ttl)
	return stats, nil
}
