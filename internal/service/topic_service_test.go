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

type topicUpstreamStub struct {
	created *dto.CreateTopicRequest
	deleted []int64
}

func (s *topicUpstreamStub) CreateTopic(ctx context.Context, req dto.CreateTopicRequest) (*models.Topic, error) {
	s.created = &req
	return &models.Topic{ID: 5999, Name: req.Name, ChapterID: req.ChapterID}, nil
}

func (s *topicUpstreamStub) UpdateTopic(ctx context.Context, id int64, req dto.UpdateTopicRequest) (*models.Topic, error) {
	return &models.Topic{ID: id}, nil
}

func (s *topicUpstreamStub) DeleteTopic(ctx context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func topicCatalogFixture() *catalogStub {
	return &catalogStub{
		classes:  []models.Class{{ID: 1, Name: "Class 11"}},
		streams:  []models.Stream{{ID: 10, Name: "Science", ClassID: 1}},
		subjects: []models.Subject{{ID: 100, Name: "Mathematics", Code: "MATH11", StreamID: 10}},
		chapters: []models.Chapter{
			{ID: 1000, Name: "Algebra", SubjectID: 100, ChapterNumber: 1},
			{ID: 1001, Name: "Geometry", SubjectID: 100, ChapterNumber: 2},
		},
		topics: []models.Topic{
			{ID: 5000, Name: "Linear Equations", ChapterID: 1000},
			{ID: 5001, Name: "Quadratic Equations", ChapterID: 1000},
			{ID: 5002, Name: "Triangles", ChapterID: 1001},
		},
	}
}

func TestTopicServiceListMetaCoversAllFourLevels(t *testing.T) {
	svc := NewTopicService(topicCatalogFixture(), &topicUpstreamStub{}, nil, nil)

	items, _, meta, err := svc.List(context.Background(), models.ListParams{}, dto.Selections{ChapterID: 1000})
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "Algebra / Mathematics / Science / Class 11", items[0].Lineage.Label)

	require.NotNil(t, meta.FilterOptions)
	assert.Len(t, meta.FilterOptions.Classes, 1)
	assert.Len(t, meta.FilterOptions.Streams, 1)
	assert.Len(t, meta.FilterOptions.Subjects, 1)
	// Chapter options ignore the chapter selection itself.
	assert.Len(t, meta.FilterOptions.Chapters, 2)
	assert.Equal(t, int64(1000), meta.Selections.ChapterID)
}

func TestTopicServiceCreateRejectsDuplicateInChapter(t *testing.T) {
	upstream := &topicUpstreamStub{}
	svc := NewTopicService(topicCatalogFixture(), upstream, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateTopicRequest{Name: "linear equations", ChapterID: 1000})
	require.Error(t, err)
	assert.Equal(t, "a topic with this name already exists in the selected chapter", appErrors.FromError(err).Fields["name"])
	assert.Nil(t, upstream.created)
}

func TestTopicServiceCreateAllowsReuseAcrossChapters(t *testing.T) {
	upstream := &topicUpstreamStub{}
	catalog := topicCatalogFixture()
	svc := NewTopicService(catalog, upstream, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateTopicRequest{Name: "Linear Equations", ChapterID: 1001})
	require.NoError(t, err)
	require.NotNil(t, upstream.created)
	assert.True(t, catalog.refreshedOnce("topics"))
}

func TestTopicServiceCreateDropsVerdictOnBadChapter(t *testing.T) {
	svc := NewTopicService(topicCatalogFixture(), &topicUpstreamStub{}, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateTopicRequest{Name: "Linear Equations", ChapterID: 999})
	require.Error(t, err)

	fields := appErrors.FromError(err).Fields
	assert.Equal(t, "selected chapter no longer exists", fields["chapter_id"])
	assert.NotContains(t, fields, "name")
}
