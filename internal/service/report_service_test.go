package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahajlabs/exam-admin-gateway/internal/models"
	appErrors "github.com/sahajlabs/exam-admin-gateway/pkg/errors"
)

type reportUpstreamStub struct {
	overview      *models.SubscriptionOverview
	dashboard     *models.DashboardStats
	overviewCalls int
	dashCalls     int
	lastPeriod    string
	lastPlanID    int64
	err           error
}

func (s *reportUpstreamStub) SubscriptionOverview(ctx context.Context, period string, subscriptionID int64) (*models.SubscriptionOverview, error) {
	s.overviewCalls++
	s.lastPeriod = period
	s.lastPlanID = subscriptionID
	if s.err != nil {
		return nil, s.err
	}
	return s.overview, nil
}

func (s *reportUpstreamStub) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	s.dashCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.dashboard, nil
}

func TestReportServiceOverviewDefaultsToAllTime(t *testing.T) {
	upstream := &reportUpstreamStub{overview: &models.SubscriptionOverview{TotalSubscriptions: 4}}
	svc := NewReportService(upstream, nil, 0, nil)

	overview, err := svc.Overview(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Equal(t, 4, overview.TotalSubscriptions)
	assert.Equal(t, models.PeriodAll, upstream.lastPeriod)
}

func TestReportServiceOverviewRejectsUnknownPeriod(t *testing.T) {
	upstream := &reportUpstreamStub{}
	svc := NewReportService(upstream, nil, 0, nil)

	_, err := svc.Overview(context.Background(), "fortnight", 0)
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Fields, "time_period")
	assert.Equal(t, 0, upstream.overviewCalls)
}

func TestReportServiceOverviewServesSecondCallFromCache(t *testing.T) {
	upstream := &reportUpstreamStub{overview: &models.SubscriptionOverview{TotalRevenue: 12500}}
	cache := NewCacheService(&cacheRepoStub{}, nil, nil)
	svc := NewReportService(upstream, cache, 0, nil)

	first, err := svc.Overview(context.Background(), models.PeriodLastMonth, 0)
	require.NoError(t, err)

	second, err := svc.Overview(context.Background(), models.PeriodLastMonth, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, upstream.overviewCalls)
	assert.Equal(t, first.TotalRevenue, second.TotalRevenue)
}

func TestReportServiceOverviewKeysCacheByPlan(t *testing.T) {
	upstream := &reportUpstreamStub{overview: &models.SubscriptionOverview{}}
	cache := NewCacheService(&cacheRepoStub{}, nil, nil)
	svc := NewReportService(upstream, cache, 0, nil)

	_, err := svc.Overview(context.Background(), models.PeriodAll, 0)
	require.NoError(t, err)
	_, err = svc.Overview(context.Background(), models.PeriodAll, 7)
	require.NoError(t, err)

	assert.Equal(t, 2, upstream.overviewCalls)
	assert.Equal(t, int64(7), upstream.lastPlanID)
}

func TestReportServiceWorksWithoutCache(t *testing.T) {
	upstream := &reportUpstreamStub{dashboard: &models.DashboardStats{TotalStudents: 120}}
	svc := NewReportService(upstream, nil, 0, nil)

	for i := 0; i < 2; i++ {
		stats, err := svc.Dashboard(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 120, stats.TotalStudents)
	}
	assert.Equal(t, 2, upstream.dashCalls)
}

func TestReportServiceCacheFailureFallsThrough(t *testing.T) {
	upstream := &reportUpstreamStub{dashboard: &models.DashboardStats{TotalExams: 9}}
	cache := NewCacheService(&cacheRepoStub{getErr: assert.AnError}, nil, nil)
	svc := NewReportService(upstream, cache, 0, nil)

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 9, stats.TotalExams)
	assert.Equal(t, 1, upstream.dashCalls)
}

func TestReportServiceUpstreamErrorPropagates(t *testing.T) {
	upstream := &reportUpstreamStub{err: appErrors.Clone(appErrors.ErrUpstream, "exam platform unreachable")}
	svc := NewReportService(upstream, nil, 0, nil)

	_, err := svc.Overview(context.Background(), models.PeriodLastWeek, 0)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErrors.FromError(err).Code)
}
