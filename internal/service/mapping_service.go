package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sahajlabs/exam-admin-gateway/internal/dto"
	"github.com/sahajlabs/exam-admin-gateway/internal/mapping"
	"github.com/sahajlabs/exam-admin-gateway/internal/models"
	appErrors "github.com/sahajlabs/exam-admin-gateway/pkg/errors"
)

type mappingCatalog interface {
	Subscriptions(ctx context.Context) ([]models.Subscription, error)
	Packages(ctx context.Context) ([]models.Package, error)
	SubscriptionPackages(ctx context.Context) ([]models.SubscriptionPackageRow, error)
	RefreshSubscriptionPackages(ctx context.Context) error
}

type mappingUpstream interface {
	BulkCreateMapping(ctx context.Context, req dto.CreateMappingRequest) (*models.SubscriptionPackageRow, error)
	DeleteMappingsBySubscription(ctx context.Context, subscriptionID int64) error
}

// UnknownSubscriptionName labels groups whose plan has vanished from the
// subscription snapshot.
const UnknownSubscriptionName = "Unknown Subscription"

// MappingService reconciles the subscription/package mapping rows into one
// group per subscription and drives the create, replace and delete flows.
// Replacing a group deletes the existing rows before recreating them, so a
// failed recreate leaves the subscription unmapped rather than doubled.
type MappingService struct {
	catalog   mappingCatalog
	upstream  mappingUpstream
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMappingService creates a new mapping service.
func NewMappingService(catalog mappingCatalog, upstream mappingUpstream, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *MappingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MappingService{catalog: catalog, upstream: upstream, cache: cache, validator: validate, logger: logger}
}

// Groups returns the reconciled mapping view, one group per subscription in
// the order the rows first name them, decorated with plan names and full
// package records where the snapshots can supply them.
func (s *MappingService) Groups(ctx context.Context) ([]dto.MappingGroup, error) {
	rows, err := s.catalog.SubscriptionPackages(ctx)
	if err != nil {
		return nil, err
	}
	subscriptions, err := s.catalog.Subscriptions(ctx)
	if err != nil {
		return nil, err
	}
	packages, err := s.catalog.Packages(ctx)
	if err != nil {
		return nil, err
	}

	// Row-embedded plans cover groups whose subscription has not reached
	// the snapshot yet; the snapshot wins when both know the plan.
	names := make(map[int64]string, len(subscriptions))
	for _, row := range rows {
		if row.Subscription != nil {
			names[row.SubscriptionID] = row.Subscription.Name
		}
	}
	for _, sub := range subscriptions {
		names[sub.ID] = sub.Name
	}

	byID := make(map[int64]models.Package, len(packages))
	for _, pkg := range packages {
		byID[pkg.ID] = pkg
	}

	groups := mapping.GroupBySubscription(rows)
	out := make([]dto.MappingGroup, 0, len(groups))
	for _, group := range groups {
		item := dto.MappingGroup{
			SubscriptionID:   group.SubscriptionID,
			SubscriptionName: names[group.SubscriptionID],
			PackageIDs:       group.PackageIDs,
			Packages:         make([]models.Package, 0, len(group.PackageIDs)),
		}
		if item.SubscriptionName == "" {
			item.SubscriptionName = UnknownSubscriptionName
		}
		for _, id := range group.PackageIDs {
			if pkg, ok := byID[id]; ok {
				item.Packages = append(item.Packages, pkg)
			}
		}
		out = append(out, item)
	}
	return out, nil
}

// Unmapped returns the plans available to the mapping pickers. A mapped
// plan is excluded so it cannot be mapped twice; editingID re-admits the
// plan whose group is being edited so it stays selectable on its own form.
func (s *MappingService) Unmapped(ctx context.Context, editingID int64) ([]dto.SubscriptionOption, error) {
	rows, err := s.catalog.SubscriptionPackages(ctx)
	if err != nil {
		return nil, err
	}
	subscriptions, err := s.catalog.Subscriptions(ctx)
	if err != nil {
		return nil, err
	}

	available := mapping.UnmappedSubscriptionsForEdit(subscriptions, mapping.GroupBySubscription(rows), editingID)
	options := make([]dto.SubscriptionOption, 0, len(available))
	for _, sub := range available {
		options = append(options, dto.SubscriptionOption{
			ID:       sub.ID,
			Name:     sub.Name,
			Price:    sub.Price,
			IsActive: sub.IsActive,
		})
	}
	return options, nil
}

// Create maps a package set to a so-far-unmapped subscription.
func (s *MappingService) Create(ctx context.Context, req dto.CreateMappingRequest) (*dto.MappingGroup, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mapping payload")
	}
	if err := s.checkReferences(ctx, req.SubscriptionID, req.PackageIDs); err != nil {
		return nil, err
	}

	rows, err := s.catalog.SubscriptionPackages(ctx)
	if err != nil {
		return nil, err
	}
	for _, group := range mapping.GroupBySubscription(rows) {
		if group.SubscriptionID == req.SubscriptionID {
			return nil, appErrors.Clone(appErrors.ErrConflict, "subscription already has a package mapping")
		}
	}

	if _, err := s.upstream.BulkCreateMapping(ctx, req); err != nil {
		return nil, err
	}
	s.afterMutation(ctx)
	return s.groupOf(ctx, req.SubscriptionID, req.PackageIDs)
}

// Replace swaps a subscription's package set: the existing rows are
// deleted first, then the new set is recreated in one bulk row. A
// subscription that has no rows yet is tolerated, so replace doubles as
// an idempotent "set".
func (s *MappingService) Replace(ctx context.Context, subscriptionID int64, req dto.ReplaceMappingRequest) (*dto.MappingGroup, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mapping payload")
	}
	if err := s.checkReferences(ctx, subscriptionID, req.PackageIDs); err != nil {
		return nil, err
	}

	if err := s.upstream.DeleteMappingsBySubscription(ctx, subscriptionID); err != nil {
		if !appErrors.Is(err, appErrors.ErrNotFound) {
			return nil, err
		}
	}
	if _, err := s.upstream.BulkCreateMapping(ctx, dto.CreateMappingRequest{
		SubscriptionID: subscriptionID,
		PackageIDs:     req.PackageIDs,
	}); err != nil {
		return nil, err
	}
	s.afterMutation(ctx)
	return s.groupOf(ctx, subscriptionID, req.PackageIDs)
}

// Delete removes a subscription's whole group.
func (s *MappingService) Delete(ctx context.Context, subscriptionID int64) error {
	if err := s.upstream.DeleteMappingsBySubscription(ctx, subscriptionID); err != nil {
		return err
	}
	s.afterMutation(ctx)
	return nil
}

// checkReferences verifies the subscription and every package against the
// current snapshots before any row is written.
func (s *MappingService) checkReferences(ctx context.Context, subscriptionID int64, packageIDs []int64) error {
	subscriptions, err := s.catalog.Subscriptions(ctx)
	if err != nil {
		return err
	}
	packages, err := s.catalog.Packages(ctx)
	if err != nil {
		return err
	}

	fields := appErrors.FieldErrors{}
	found := false
	for i := range subscriptions {
		if subscriptions[i].ID == subscriptionID {
			found = true
			break
		}
	}
	if !found {
		fields.Set("subscription_id", "selected subscription no longer exists")
	}

	byID := make(map[int64]bool, len(packages))
	for _, pkg := range packages {
		byID[pkg.ID] = true
	}
	for _, id := range packageIDs {
		if !byID[id] {
			fields.Set("package_ids", "one or more selected packages no longer exist")
			break
		}
	}

	if len(fields) > 0 {
		return appErrors.Validation(fields)
	}
	return nil
}

// groupOf rebuilds the group view for one subscription after a mutation.
func (s *MappingService) groupOf(ctx context.Context, subscriptionID int64, packageIDs []int64) (*dto.MappingGroup, error) {
	groups, err := s.Groups(ctx)
	if err != nil {
		s.logger.Warn("mapping group reload failed", zap.Error(err))
		return &dto.MappingGroup{SubscriptionID: subscriptionID, PackageIDs: packageIDs}, nil
	}
	for i := range groups {
		if groups[i].SubscriptionID == subscriptionID {
			return &groups[i], nil
		}
	}
	return &dto.MappingGroup{SubscriptionID: subscriptionID, PackageIDs: packageIDs}, nil
}

func (s *MappingService) afterMutation(ctx context.Context) {
	if err := s.catalog.RefreshSubscriptionPackages(ctx); err != nil {
		s.logger.Warn("mapping snapshot refresh failed", zap.Error(err))
	}
	_ = s.cache.Invalidate(ctx, reportCachePattern)
}
