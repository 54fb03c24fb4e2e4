package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahajlabs/exam-admin-gateway/internal/dto"
	"github.com/sahajlabs/exam-admin-gateway/internal/models"
	appErrors "github.com/sahajlabs/exam-admin-gateway/pkg/errors"
)

type subscriptionUpstreamStub struct {
	created *dto.CreateSubscriptionRequest
	updated *dto.UpdateSubscriptionRequest
	deleted []int64
	err     error
}

func (s *subscriptionUpstreamStub) CreateSubscription(ctx context.Context, req dto.CreateSubscriptionRequest) (*models.Subscription, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = &req
	return &models.Subscription{ID: 9, Name: req.Name, DurationDays: req.DurationDays}, nil
}

func (s *subscriptionUpstreamStub) UpdateSubscription(ctx context.Context, id int64, req dto.UpdateSubscriptionRequest) (*models.Subscription, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.updated = &req
	return &models.Subscription{ID: id}, nil
}

func (s *subscriptionUpstreamStub) DeleteSubscription(ctx context.Context, id int64) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func subscriptionCatalogFixture() *catalogStub {
	return &catalogStub{
		subscriptions: []models.Subscription{
			{ID: 5, Name: "Gold", DurationDays: 365, Price: 4999, IsActive: true},
			{ID: 6, Name: "Silver", DurationDays: 180, Price: 2999, IsActive: true},
		},
	}
}

func TestSubscriptionServiceCreateRejectsNonPositiveDuration(t *testing.T) {
	upstream := &subscriptionUpstreamStub{}
	svc := NewSubscriptionService(subscriptionCatalogFixture(), upstream, nil, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateSubscriptionRequest{Name: "Trial", Description: "Two weeks", DurationDays: 0})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "duration must be a positive number of days", appErr.Fields["duration_days"])
	assert.Nil(t, upstream.created)
}

func TestSubscriptionServiceCreateInvalidatesReportCache(t *testing.T) {
	upstream := &subscriptionUpstreamStub{}
	catalog := subscriptionCatalogFixture()
	repo := &cacheRepoStub{}
	svc := NewSubscriptionService(catalog, upstream, NewCacheService(repo, nil, nil), nil, nil)

	created, err := svc.Create(context.Background(), dto.CreateSubscriptionRequest{Name: "Trial", Description: "Two weeks", DurationDays: 14})
	require.NoError(t, err)
	assert.Equal(t, "Trial", created.Name)

	assert.True(t, catalog.refreshedOnce("subscriptions"))
	assert.NotContains(t, catalog.refreshed, "subscription_packages")
	assert.Equal(t, []string{"reports:*"}, repo.deleted)
}

func TestSubscriptionServiceDeleteRefetchesMappings(t *testing.T) {
	upstream := &subscriptionUpstreamStub{}
	catalog := subscriptionCatalogFixture()
	repo := &cacheRepoStub{}
	svc := NewSubscriptionService(catalog, upstream, NewCacheService(repo, nil, nil), nil, nil)

	require.NoError(t, svc.Delete(context.Background(), 5))

	assert.Equal(t, []int64{5}, upstream.deleted)
	// The upstream cascades the plan's mapping rows away with it.
	assert.True(t, catalog.refreshedOnce("subscriptions"))
	assert.True(t, catalog.refreshedOnce("subscription_packages"))
	assert.Equal(t, []string{"reports:*"}, repo.deleted)
}

func TestSubscriptionServiceUpdateUnknownPlan(t *testing.T) {
	svc := NewSubscriptionService(subscriptionCatalogFixture(), &subscriptionUpstreamStub{}, nil, nil, nil)

	name := "Platinum"
	_, err := svc.Update(context.Background(), 404, dto.UpdateSubscriptionRequest{Name: &name})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSubscriptionServiceUpdateRejectsBlankName(t *testing.T) {
	svc := NewSubscriptionService(subscriptionCatalogFixture(), &subscriptionUpstreamStub{}, nil, nil, nil)

	name := "  "
	_, err := svc.Update(context.Background(), 5, dto.UpdateSubscriptionRequest{Name: &name})
	require.Error(t, err)
	assert.Equal(t, "name is required", appErrors.FromError(err).Fields["name"])
}

func TestSubscriptionServiceListSearches(t *testing.T) {
	svc := NewSubscriptionService(subscriptionCatalogFixture(), &subscriptionUpstreamStub{}, nil, nil, nil)

	items, pagination, err := svc.List(context.Background(), models.ListParams{Search: "gold"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(5), items[0].ID)
	assert.Equal(t, 1, pagination.TotalCount)
}
