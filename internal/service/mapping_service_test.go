package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahajlabs/exam-admin-gateway/internal/dto"
	"github.com/sahajlabs/exam-admin-gateway/internal/models"
	appErrors "github.com/sahajlabs/exam-admin-gateway/pkg/errors"
)

// mappingUpstreamStub mutates the catalog fixture the way the real upstream
// would, so the post-mutation reload sees the new rows.
type mappingUpstreamStub struct {
	catalog   *catalogStub
	calls     []string
	createErr error
	deleteErr error
}

func (s *mappingUpstreamStub) BulkCreateMapping(ctx context.Context, req dto.CreateMappingRequest) (*models.SubscriptionPackageRow, error) {
	s.calls = append(s.calls, fmt.Sprintf("create:%d", req.SubscriptionID))
	if s.createErr != nil {
		return nil, s.createErr
	}
	row := models.SubscriptionPackageRow{SubscriptionID: req.SubscriptionID, PackageIDs: models.PackageIDList(req.PackageIDs)}
	if s.catalog != nil {
		s.catalog.mappingRows = append(s.catalog.mappingRows, row)
	}
	return &row, nil
}

func (s *mappingUpstreamStub) DeleteMappingsBySubscription(ctx context.Context, subscriptionID int64) error {
	s.calls = append(s.calls, fmt.Sprintf("delete:%d", subscriptionID))
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if s.catalog != nil {
		kept := s.catalog.mappingRows[:0]
		for _, row := range s.catalog.mappingRows {
			if row.SubscriptionID != subscriptionID {
				kept = append(kept, row)
			}
		}
		s.catalog.mappingRows = kept
	}
	return nil
}

func mappingCatalogFixture() *catalogStub {
	packageID := int64(70)
	return &catalogStub{
		subscriptions: []models.Subscription{
			{ID: 5, Name: "Gold", Price: 4999, IsActive: true},
			{ID: 6, Name: "Silver", Price: 2999, IsActive: true},
			{ID: 7, Name: "Trial", IsActive: false},
		},
		packages: []models.Package{
			{ID: 70, Name: "Starter Pack"},
			{ID: 71, Name: "Advanced Pack"},
		},
		mappingRows: []models.SubscriptionPackageRow{
			{SubscriptionID: 5, PackageID: &packageID},
			{SubscriptionID: 5, PackageIDs: models.PackageIDList{71, 70}},
			{SubscriptionID: 8, PackageIDs: models.PackageIDList{71}, Subscription: &models.Subscription{ID: 8, Name: "Legacy Plan"}},
			{SubscriptionID: 9, PackageIDs: models.PackageIDList{70, 404}},
		},
	}
}

func newMappingFixture() (*MappingService, *catalogStub, *mappingUpstreamStub, *cacheRepoStub) {
	catalog := mappingCatalogFixture()
	upstream := &mappingUpstreamStub{catalog: catalog}
	repo := &cacheRepoStub{}
	svc := NewMappingService(catalog, upstream, NewCacheService(repo, nil, nil), nil, nil)
	return svc, catalog, upstream, repo
}

func TestMappingServiceGroupsReconcilesLegacyRows(t *testing.T) {
	svc, _, _, _ := newMappingFixture()

	groups, err := svc.Groups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 3)

	// Subscriptions keep first-seen row order.
	gold := groups[0]
	assert.Equal(t, int64(5), gold.SubscriptionID)
	assert.Equal(t, "Gold", gold.SubscriptionName)
	assert.Equal(t, []int64{70, 71}, gold.PackageIDs)
	require.Len(t, gold.Packages, 2)
	assert.Equal(t, "Starter Pack", gold.Packages[0].Name)

	legacy := groups[1]
	assert.Equal(t, "Legacy Plan", legacy.SubscriptionName)

	orphan := groups[2]
	assert.Equal(t, UnknownSubscriptionName, orphan.SubscriptionName)
	assert.Equal(t, []int64{70, 404}, orphan.PackageIDs)
	// Package 404 has no catalog record to decorate with.
	require.Len(t, orphan.Packages, 1)
}

func TestMappingServiceUnmappedReadmitsEditedPlan(t *testing.T) {
	svc, _, _, _ := newMappingFixture()

	options, err := svc.Unmapped(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, options, 2)
	assert.Equal(t, int64(6), options[0].ID)
	assert.Equal(t, int64(7), options[1].ID)

	options, err = svc.Unmapped(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, options, 3)
	assert.Equal(t, int64(5), options[0].ID)
	assert.Equal(t, "Gold", options[0].Name)
}

func TestMappingServiceCreateRejectsMappedPlan(t *testing.T) {
	svc, _, upstream, _ := newMappingFixture()

	_, err := svc.Create(context.Background(), dto.CreateMappingRequest{SubscriptionID: 5, PackageIDs: []int64{70}})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, upstream.calls)
}

func TestMappingServiceCreateChecksReferences(t *testing.T) {
	svc, _, upstream, _ := newMappingFixture()

	_, err := svc.Create(context.Background(), dto.CreateMappingRequest{SubscriptionID: 404, PackageIDs: []int64{70, 999}})
	require.Error(t, err)

	fields := appErrors.FromError(err).Fields
	assert.Equal(t, "selected subscription no longer exists", fields["subscription_id"])
	assert.Equal(t, "one or more selected packages no longer exist", fields["package_ids"])
	assert.Empty(t, upstream.calls)
}

func TestMappingServiceCreateRejectsEmptySet(t *testing.T) {
	svc, _, upstream, _ := newMappingFixture()

	_, err := svc.Create(context.Background(), dto.CreateMappingRequest{SubscriptionID: 6})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, upstream.calls)
}

func TestMappingServiceCreateBuildsGroup(t *testing.T) {
	svc, catalog, upstream, repo := newMappingFixture()

	group, err := svc.Create(context.Background(), dto.CreateMappingRequest{SubscriptionID: 6, PackageIDs: []int64{71, 70}})
	require.NoError(t, err)

	assert.Equal(t, []string{"create:6"}, upstream.calls)
	assert.Equal(t, "Silver", group.SubscriptionName)
	assert.Equal(t, []int64{70, 71}, group.PackageIDs)
	assert.Len(t, group.Packages, 2)
	assert.True(t, catalog.refreshedOnce("subscription_packages"))
	assert.Equal(t, []string{"reports:*"}, repo.deleted)
}

func TestMappingServiceReplaceDeletesBeforeRecreating(t *testing.T) {
	svc, _, upstream, _ := newMappingFixture()

	group, err := svc.Replace(context.Background(), 5, dto.ReplaceMappingRequest{PackageIDs: []int64{71}})
	require.NoError(t, err)

	assert.Equal(t, []string{"delete:5", "create:5"}, upstream.calls)
	assert.Equal(t, "Gold", group.SubscriptionName)
	assert.Equal(t, []int64{71}, group.PackageIDs)
}

func TestMappingServiceReplaceToleratesMissingRows(t *testing.T) {
	svc, _, upstream, _ := newMappingFixture()
	upstream.deleteErr = appErrors.Clone(appErrors.ErrNotFound, "mapping not found")

	_, err := svc.Replace(context.Background(), 6, dto.ReplaceMappingRequest{PackageIDs: []int64{70}})
	require.NoError(t, err)
	assert.Equal(t, []string{"delete:6", "create:6"}, upstream.calls)
}

func TestMappingServiceReplaceAbortsWhenDeleteFails(t *testing.T) {
	svc, catalog, upstream, _ := newMappingFixture()
	upstream.deleteErr = appErrors.Clone(appErrors.ErrUpstream, "exam platform unreachable")

	_, err := svc.Replace(context.Background(), 5, dto.ReplaceMappingRequest{PackageIDs: []int64{70}})
	require.Error(t, err)
	assert.Equal(t, []string{"delete:5"}, upstream.calls)
	assert.Empty(t, catalog.refreshed)
}

func TestMappingServiceDeleteSurfacesMissingGroup(t *testing.T) {
	svc, catalog, upstream, _ := newMappingFixture()
	upstream.deleteErr = appErrors.Clone(appErrors.ErrNotFound, "mapping not found")

	err := svc.Delete(context.Background(), 5)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Empty(t, catalog.refreshed)
}

func TestMappingServiceDeleteInvalidatesReports(t *testing.T) {
	svc, catalog, upstream, repo := newMappingFixture()

	require.NoError(t, svc.Delete(context.Background(), 5))
	assert.Equal(t, []string{"delete:5"}, upstream.calls)
	assert.True(t, catalog.refreshedOnce("subscription_packages"))
	assert.Equal(t, []string{"reports:*"}, repo.deleted)
}
