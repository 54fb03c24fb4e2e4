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

type chapterUpstreamStub struct {
	created *dto.CreateChapterRequest
	updated *dto.UpdateChapterRequest
	deleted []int64
	err     error
}

func (s *chapterUpstreamStub) CreateChapter(ctx context.Context, req dto.CreateChapterRequest) (*models.Chapter, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = &req
	return &models.Chapter{ID: 1999, Name: req.Name, SubjectID: req.SubjectID, ChapterNumber: req.ChapterNumber}, nil
}

func (s *chapterUpstreamStub) UpdateChapter(ctx context.Context, id int64, req dto.UpdateChapterRequest) (*models.Chapter, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.updated = &req
	return &models.Chapter{ID: id}, nil
}

func (s *chapterUpstreamStub) DeleteChapter(ctx context.Context, id int64) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func chapterCatalogFixture() *catalogStub {
	return &catalogStub{
		classes: []models.Class{{ID: 1, Name: "Class 11"}},
		streams: []models.Stream{{ID: 10, Name: "Science", ClassID: 1}},
		subjects: []models.Subject{
			{ID: 100, Name: "Mathematics", Code: "MATH11", StreamID: 10},
			{ID: 101, Name: "Physics", Code: "PHY11", StreamID: 10},
		},
		chapters: []models.Chapter{
			{ID: 1000, Name: "Algebra", SubjectID: 100, ChapterNumber: 1},
			{ID: 1001, Name: "Geometry", SubjectID: 100, ChapterNumber: 2},
			{ID: 1002, Name: "Mechanics", SubjectID: 101, ChapterNumber: 1},
		},
	}
}

func TestChapterServiceCreateRejectsTakenNumber(t *testing.T) {
	upstream := &chapterUpstreamStub{}
	svc := NewChapterService(chapterCatalogFixture(), upstream, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateChapterRequest{Name: "Trigonometry", SubjectID: 100, ChapterNumber: 2})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, "this chapter number is already used in the selected subject", appErr.Fields["chapter_number"])
	assert.NotContains(t, appErr.Fields, "name")
	assert.Nil(t, upstream.created)
}

func TestChapterServiceCreateRejectsTakenNameIndependently(t *testing.T) {
	svc := NewChapterService(chapterCatalogFixture(), &chapterUpstreamStub{}, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateChapterRequest{Name: " ALGEBRA ", SubjectID: 100, ChapterNumber: 3})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, "a chapter with this name already exists in the selected subject", appErr.Fields["name"])
	assert.NotContains(t, appErr.Fields, "chapter_number")
}

func TestChapterServiceCreateReportsBothCollisions(t *testing.T) {
	svc := NewChapterService(chapterCatalogFixture(), &chapterUpstreamStub{}, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateChapterRequest{Name: "Geometry", SubjectID: 100, ChapterNumber: 1})
	require.Error(t, err)

	fields := appErrors.FromError(err).Fields
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "chapter_number")
}

func TestChapterServiceCreateAllowsReuseAcrossSubjects(t *testing.T) {
	upstream := &chapterUpstreamStub{}
	catalog := chapterCatalogFixture()
	svc := NewChapterService(catalog, upstream, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateChapterRequest{Name: "Algebra", SubjectID: 101, ChapterNumber: 2})
	require.NoError(t, err)
	require.NotNil(t, upstream.created)
	assert.True(t, catalog.refreshedOnce("chapters"))
}

func TestChapterServiceCreateDropsVerdictsOnBadSubject(t *testing.T) {
	svc := NewChapterService(chapterCatalogFixture(), &chapterUpstreamStub{}, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateChapterRequest{Name: "Algebra", SubjectID: 999, ChapterNumber: 1})
	require.Error(t, err)

	fields := appErrors.FromError(err).Fields
	assert.Equal(t, "selected subject no longer exists", fields["subject_id"])
	assert.NotContains(t, fields, "name")
	assert.NotContains(t, fields, "chapter_number")
}

func TestChapterServiceUpdateKeepsOwnNumber(t *testing.T) {
	upstream := &chapterUpstreamStub{}
	svc := NewChapterService(chapterCatalogFixture(), upstream, nil, nil)

	name := "Algebra Basics"
	_, err := svc.Update(context.Background(), 1000, dto.UpdateChapterRequest{Name: &name})
	require.NoError(t, err)
	require.NotNil(t, upstream.updated)
}

func TestChapterServiceUpdateRejectsSiblingNumber(t *testing.T) {
	svc := NewChapterService(chapterCatalogFixture(), &chapterUpstreamStub{}, nil, nil)

	number := 2
	_, err := svc.Update(context.Background(), 1000, dto.UpdateChapterRequest{ChapterNumber: &number})
	require.Error(t, err)
	assert.Equal(t, "this chapter number is already used in the selected subject", appErrors.FromError(err).Fields["chapter_number"])
}

func TestChapterServiceListMetaCoversThreeLevels(t *testing.T) {
	svc := NewChapterService(chapterCatalogFixture(), &chapterUpstreamStub{}, nil, nil)

	items, _, meta, err := svc.List(context.Background(), models.ListParams{}, dto.Selections{SubjectID: 100})
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "Mathematics / Science / Class 11", items[0].Lineage.Label)

	require.NotNil(t, meta.FilterOptions)
	assert.Len(t, meta.FilterOptions.Classes, 1)
	assert.Len(t, meta.FilterOptions.Streams, 1)
	require.Len(t, meta.FilterOptions.Subjects, 2)
	assert.Nil(t, meta.FilterOptions.Chapters)
}
