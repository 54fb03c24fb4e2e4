package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahajlabs/exam-admin-gateway/internal/dto"
	"github.com/sahajlabs/exam-admin-gateway/internal/models"
	appErrors "github.com/sahajlabs/exam-admin-gateway/pkg/errors"
)

type streamUpstreamStub struct {
	created   *dto.CreateStreamRequest
	updatedID int64
	updated   *dto.UpdateStreamRequest
	deleted   []int64
	err       error
}

func (s *streamUpstreamStub) CreateStream(ctx context.Context, req dto.CreateStreamRequest) (*models.Stream, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = &req
	return &models.Stream{ID: 99, Name: req.Name, ClassID: req.ClassID}, nil
}

func (s *streamUpstreamStub) UpdateStream(ctx context.Context, id int64, req dto.UpdateStreamRequest) (*models.Stream, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.updatedID = id
	s.updated = &req
	return &models.Stream{ID: id}, nil
}

func (s *streamUpstreamStub) DeleteStream(ctx context.Context, id int64) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func streamCatalogFixture() *catalogStub {
	lab := "Includes laboratory work"
	return &catalogStub{
		classes: []models.Class{
			{ID: 1, Name: "Class 11"},
			{ID: 2, Name: "Class 12"},
		},
		streams: []models.Stream{
			{ID: 10, Name: "Science", ClassID: 1, Description: &lab, CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
			{ID: 11, Name: "Commerce", ClassID: 1, CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
			{ID: 20, Name: "Science", ClassID: 2, CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
}

func TestStreamServiceListFiltersByClass(t *testing.T) {
	svc := NewStreamService(streamCatalogFixture(), &streamUpstreamStub{}, nil, nil)

	items, pagination, meta, err := svc.List(context.Background(), models.ListParams{}, dto.Selections{ClassID: 1})
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "Commerce", items[0].Name)
	assert.Equal(t, "Science", items[1].Name)
	assert.Equal(t, "Class 11", items[1].Lineage.Label)
	require.NotNil(t, items[1].Lineage.Class)
	assert.Equal(t, int64(1), items[1].Lineage.Class.ID)

	assert.Equal(t, 2, pagination.TotalCount)

	require.NotNil(t, meta)
	require.NotNil(t, meta.Selections)
	assert.Equal(t, int64(1), meta.Selections.ClassID)
	require.NotNil(t, meta.FilterOptions)
	// Class options ignore the class selection itself, so both classes
	// with streams stay pickable.
	require.Len(t, meta.FilterOptions.Classes, 2)
	assert.Equal(t, "Class 11", meta.FilterOptions.Classes[0].Label)
	assert.Nil(t, meta.FilterOptions.Streams)
}

func TestStreamServiceListDropsUnreachableSelection(t *testing.T) {
	svc := NewStreamService(streamCatalogFixture(), &streamUpstreamStub{}, nil, nil)

	items, _, meta, err := svc.List(context.Background(), models.ListParams{}, dto.Selections{ClassID: 999})
	require.NoError(t, err)

	assert.Len(t, items, 3)
	assert.Equal(t, int64(0), meta.Selections.ClassID)
}

func TestStreamServiceListSearchesDescriptions(t *testing.T) {
	svc := NewStreamService(streamCatalogFixture(), &streamUpstreamStub{}, nil, nil)

	items, _, _, err := svc.List(context.Background(), models.ListParams{Search: "laboratory"}, dto.Selections{})
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, int64(10), items[0].ID)
}

func TestStreamServiceListSortsByCreatedDesc(t *testing.T) {
	svc := NewStreamService(streamCatalogFixture(), &streamUpstreamStub{}, nil, nil)

	items, _, _, err := svc.List(context.Background(), models.ListParams{SortBy: "created_at", SortOrder: "desc"}, dto.Selections{})
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, int64(20), items[0].ID)
	assert.Equal(t, int64(10), items[2].ID)
}

func TestStreamServiceGet(t *testing.T) {
	svc := NewStreamService(streamCatalogFixture(), &streamUpstreamStub{}, nil, nil)

	item, err := svc.Get(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, "Science", item.Name)
	assert.Equal(t, "Class 12", item.Lineage.Label)

	_, err = svc.Get(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStreamServiceCreateRejectsDuplicateInClass(t *testing.T) {
	upstream := &streamUpstreamStub{}
	catalog := streamCatalogFixture()
	svc := NewStreamService(catalog, upstream, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateStreamRequest{Name: "  science ", ClassID: 1})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "a stream with this name already exists in the selected class", appErr.Fields["name"])
	assert.Nil(t, upstream.created)
	assert.Empty(t, catalog.refreshed)
}

func TestStreamServiceCreateDropsDuplicateVerdictOnBadClass(t *testing.T) {
	svc := NewStreamService(streamCatalogFixture(), &streamUpstreamStub{}, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateStreamRequest{Name: "Science", ClassID: 999})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, "selected class no longer exists", appErr.Fields["class_id"])
	// The duplicate verdict was computed under an unusable parent.
	assert.NotContains(t, appErr.Fields, "name")
}

func TestStreamServiceCreateAllowsSameNameUnderSibling(t *testing.T) {
	upstream := &streamUpstreamStub{}
	catalog := streamCatalogFixture()
	svc := NewStreamService(catalog, upstream, nil, nil)

	created, err := svc.Create(context.Background(), dto.CreateStreamRequest{Name: "Commerce", ClassID: 2})
	require.NoError(t, err)
	assert.Equal(t, "Commerce", created.Name)
	require.NotNil(t, upstream.created)
	assert.True(t, catalog.refreshedOnce("streams"))
}

func TestStreamServiceUpdateExcludesSelfFromDuplicateScan(t *testing.T) {
	upstream := &streamUpstreamStub{}
	catalog := streamCatalogFixture()
	svc := NewStreamService(catalog, upstream, nil, nil)

	name := "SCIENCE"
	_, err := svc.Update(context.Background(), 10, dto.UpdateStreamRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, int64(10), upstream.updatedID)
	assert.True(t, catalog.refreshedOnce("streams"))
}

func TestStreamServiceUpdateRevalidatesDestinationClass(t *testing.T) {
	upstream := &streamUpstreamStub{}
	svc := NewStreamService(streamCatalogFixture(), upstream, nil, nil)

	// Moving Science out of class 11 collides with class 12's Science.
	destination := int64(2)
	_, err := svc.Update(context.Background(), 10, dto.UpdateStreamRequest{ClassID: &destination})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "a stream with this name already exists in the selected class", appErr.Fields["name"])
	assert.Nil(t, upstream.updated)
}

func TestStreamServiceUpdateUnknownStream(t *testing.T) {
	svc := NewStreamService(streamCatalogFixture(), &streamUpstreamStub{}, nil, nil)

	name := "Arts"
	_, err := svc.Update(context.Background(), 404, dto.UpdateStreamRequest{Name: &name})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStreamServiceDeleteRefreshesSnapshot(t *testing.T) {
	upstream := &streamUpstreamStub{}
	catalog := streamCatalogFixture()
	svc := NewStreamService(catalog, upstream, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), 11))
	assert.Equal(t, []int64{11}, upstream.deleted)
	assert.True(t, catalog.refreshedOnce("streams"))
}

func TestStreamServiceUpstreamErrorSkipsRefresh(t *testing.T) {
	upstream := &streamUpstreamStub{err: appErrors.Clone(appErrors.ErrUpstream, "exam platform unreachable")}
	catalog := streamCatalogFixture()
	svc := NewStreamService(catalog, upstream, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateStreamRequest{Name: "Arts", ClassID: 1})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErrors.FromError(err).Code)
	assert.Empty(t, catalog.refreshed)
}
