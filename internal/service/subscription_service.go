package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sahajlabs/exam-admin-gateway/internal/dto"
	"github.com/sahajlabs/exam-admin-gateway/internal/models"
	"github.com/sahajlabs/exam-admin-gateway/internal/taxonomy"
	appErrors "github.com/sahajlabs/exam-admin-gateway/pkg/errors"
)

type subscriptionCatalog interface {
	Subscriptions(ctx context.Context) ([]models.Subscription, error)
	RefreshSubscriptions(ctx context.Context) error
	RefreshSubscriptionPackages(ctx context.Context) error
}

type subscriptionUpstream interface {
	CreateSubscription(ctx context.Context, req dto.CreateSubscriptionRequest) (*models.Subscription, error)
	UpdateSubscription(ctx context.Context, id int64, req dto.UpdateSubscriptionRequest) (*models.Subscription, error)
	DeleteSubscription(ctx context.Context, id int64) error
}

// SubscriptionService manages subscription plans. Plan mutations invalidate
// the cached subscription reports, and a plan delete also refetches the
// mapping rows since the upstream cascades them.
type SubscriptionService struct {
	catalog   subscriptionCatalog
	upstream  subscriptionUpstream
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubscriptionService creates a new subscription service.
func NewSubscriptionService(catalog subscriptionCatalog, upstream subscriptionUpstream, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *SubscriptionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubscriptionService{catalog: catalog, upstream: upstream, cache: cache, validator: validate, logger: logger}
}

// List returns subscription plans matching the search term, sorted and
// paginated.
func (s *SubscriptionService) List(ctx context.Context, params models.ListParams) ([]models.Subscription, *models.Pagination, error) {
	params.Normalize()

	subscriptions, err := s.catalog.Subscriptions(ctx)
	if err != nil {
		return nil, nil, err
	}

	byID := make(map[int64]models.Subscription, len(subscriptions))
	leaves := make([]taxonomy.Leaf, 0, len(subscriptions))
	for _, sub := range subscriptions {
		byID[sub.ID] = sub
		leaves = append(leaves, taxonomy.Leaf{
			ID:          sub.ID,
			Name:        sub.Name,
			Description: derefString(sub.Description),
			CreatedAt:   sub.CreatedAt,
		})
	}

	visible := taxonomy.Apply(leaves, taxonomy.Selection{}, params.Search, params.SortBy, params.SortOrder)
	page, pagination := paginateLeaves(visible, params)

	items := make([]models.Subscription, 0, len(page))
	for _, leaf := range page {
		items = append(items, byID[leaf.ID])
	}
	return items, pagination, nil
}

// Get returns one subscription plan from the current snapshot.
func (s *SubscriptionService) Get(ctx context.Context, id int64) (*models.Subscription, error) {
	subscriptions, err := s.catalog.Subscriptions(ctx)
	if err != nil {
		return nil, err
	}
	for i := range subscriptions {
		if subscriptions[i].ID == id {
			sub := subscriptions[i]
			return &sub, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "subscription not found")
}

// Create forwards a new plan upstream.
func (s *SubscriptionService) Create(ctx context.Context, req dto.CreateSubscriptionRequest) (*models.Subscription, error) {
	req.Name = strings.TrimSpace(req.Name)

	fields := appErrors.FieldErrors{}
	if req.Name == "" {
		fields.Set("name", "name is required")
	}
	if req.DurationDays <= 0 {
		fields.Set("duration_days", "duration must be a positive number of days")
	}
	if len(fields) > 0 {
		return nil, appErrors.Validation(fields)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subscription payload")
	}

	created, err := s.upstream.CreateSubscription(ctx, req)
	if err != nil {
		return nil, err
	}
	s.afterMutation(ctx, false)
	return created, nil
}

// Update modifies an existing plan.
func (s *SubscriptionService) Update(ctx context.Context, id int64, req dto.UpdateSubscriptionRequest) (*models.Subscription, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	fields := appErrors.FieldErrors{}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
		if trimmed == "" {
			fields.Set("name", "name is required")
		}
	}
	if req.DurationDays != nil && *req.DurationDays <= 0 {
		fields.Set("duration_days", "duration must be a positive number of days")
	}
	if len(fields) > 0 {
		return nil, appErrors.Validation(fields)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subscription payload")
	}

	updated, err := s.upstream.UpdateSubscription(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.afterMutation(ctx, false)
	return updated, nil
}

// Delete forwards the delete upstream and refetches the mapping rows too,
// since the upstream drops a deleted plan's mappings with it.
func (s *SubscriptionService) Delete(ctx context.Context, id int64) error {
	if err := s.upstream.DeleteSubscription(ctx, id); err != nil {
		return err
	}
	s.afterMutation(ctx, true)
	return nil
}

func (s *SubscriptionService) afterMutation(ctx context.Context, cascades bool) {
	if err := s.catalog.RefreshSubscriptions(ctx); err != nil {
		s.logger.Warn("subscription snapshot refresh failed", zap.Error(err))
	}
	if cascades {
		if err := s.catalog.RefreshSubscriptionPackages(ctx); err != nil {
			s.logger.Warn("mapping snapshot refresh failed", zap.Error(err))
		}
	}
	_ = s.cache.Invalidate(ctx, reportCachePattern)
}
