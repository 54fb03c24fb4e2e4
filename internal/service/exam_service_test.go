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

type examUpstreamStub struct {
	created *dto.CreateExamRequest
	updated *dto.UpdateExamRequest
	deleted []int64
	err     error
}

func (s *examUpstreamStub) CreateExam(ctx context.Context, req dto.CreateExamRequest) (*models.Exam, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = &req
	return &models.Exam{ID: 999, Title: req.Title}, nil
}

func (s *examUpstreamStub) UpdateExam(ctx context.Context, id int64, req dto.UpdateExamRequest) (*models.Exam, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.updated = &req
	return &models.Exam{ID: id}, nil
}

func (s *examUpstreamStub) DeleteExam(ctx context.Context, id int64) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func examCatalogFixture() *catalogStub {
	subjectID := int64(100)
	chapterID := int64(1000)
	courseID := int64(7000)
	return &catalogStub{
		classes:  []models.Class{{ID: 1, Name: "Class 11"}},
		streams:  []models.Stream{{ID: 10, Name: "Science", ClassID: 1}},
		subjects: []models.Subject{{ID: 100, Name: "Mathematics", Code: "MATH11", StreamID: 10}},
		chapters: []models.Chapter{{ID: 1000, Name: "Algebra", SubjectID: 100, ChapterNumber: 1}},
		topics:   []models.Topic{{ID: 5000, Name: "Linear Equations", ChapterID: 1000}},
		courses: []models.Course{
			{ID: 7000, Name: "JEE Mathematics", SubjectID: &subjectID, IsActive: true},
		},
		exams: []models.Exam{
			{ID: 900, Title: "Algebra Unit Test", ChapterID: &chapterID},
			{ID: 901, Title: "Mathematics Midterm", SubjectID: &subjectID},
			{ID: 902, Title: "Crash Course Final", CourseID: &courseID},
		},
	}
}

func validExamRequest() dto.CreateExamRequest {
	chapterID := int64(1000)
	return dto.CreateExamRequest{
		Title:           "Weekly Quiz",
		StartDatetime:   time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		MaxMarks:        100,
		ChapterID:       &chapterID,
	}
}

func TestExamServiceCreateRejectsMultipleReferences(t *testing.T) {
	upstream := &examUpstreamStub{}
	svc := NewExamService(examCatalogFixture(), upstream, nil, nil)

	req := validExamRequest()
	classID := int64(1)
	topicID := int64(5000)
	req.ChapterID = nil
	req.ClassID = &classID
	req.TopicID = &topicID

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)

	fields := appErrors.FromError(err).Fields
	assert.Equal(t, "an exam may reference only one of course, class, subject, chapter or topic", fields["class_id"])
	assert.Equal(t, fields["class_id"], fields["topic_id"])
	assert.NotContains(t, fields, "course_id")
	assert.Nil(t, upstream.created)
}

func TestExamServiceCreateRejectsVanishedReference(t *testing.T) {
	svc := NewExamService(examCatalogFixture(), &examUpstreamStub{}, nil, nil)

	req := validExamRequest()
	gone := int64(404)
	req.ChapterID = nil
	req.TopicID = &gone

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "selected topic no longer exists", appErrors.FromError(err).Fields["topic_id"])
}

func TestExamServiceCreateRequiresTitle(t *testing.T) {
	svc := NewExamService(examCatalogFixture(), &examUpstreamStub{}, nil, nil)

	req := validExamRequest()
	req.Title = "   "

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "title is required", appErrors.FromError(err).Fields["title"])
}

func TestExamServiceCreateAcceptsSingleReference(t *testing.T) {
	upstream := &examUpstreamStub{}
	catalog := examCatalogFixture()
	svc := NewExamService(catalog, upstream, nil, nil)

	created, err := svc.Create(context.Background(), validExamRequest())
	require.NoError(t, err)
	assert.Equal(t, "Weekly Quiz", created.Title)
	require.NotNil(t, upstream.created)
	assert.True(t, catalog.refreshedOnce("exams"))
}

func TestExamServiceUpdateReplacesReference(t *testing.T) {
	upstream := &examUpstreamStub{}
	svc := NewExamService(examCatalogFixture(), upstream, nil, nil)

	// Exam 901 is subject-linked; a patch naming only a class moves it
	// without tripping the single-reference rule.
	classID := int64(1)
	_, err := svc.Update(context.Background(), 901, dto.UpdateExamRequest{ClassID: &classID})
	require.NoError(t, err)
	require.NotNil(t, upstream.updated)
}

func TestExamServiceUpdateRejectsMultipleReferences(t *testing.T) {
	svc := NewExamService(examCatalogFixture(), &examUpstreamStub{}, nil, nil)

	classID := int64(1)
	subjectID := int64(100)
	_, err := svc.Update(context.Background(), 901, dto.UpdateExamRequest{ClassID: &classID, SubjectID: &subjectID})
	require.Error(t, err)

	fields := appErrors.FromError(err).Fields
	assert.Contains(t, fields, "class_id")
	assert.Contains(t, fields, "subject_id")
}

func TestExamServiceUpdateWithoutReferencesSkipsHierarchyCheck(t *testing.T) {
	upstream := &examUpstreamStub{}
	svc := NewExamService(examCatalogFixture(), upstream, nil, nil)

	title := "Renamed Midterm"
	_, err := svc.Update(context.Background(), 901, dto.UpdateExamRequest{Title: &title})
	require.NoError(t, err)
	require.NotNil(t, upstream.updated)
}

func TestExamServiceListResolvesCourseLinkThroughCourse(t *testing.T) {
	svc := NewExamService(examCatalogFixture(), &examUpstreamStub{}, nil, nil)

	// All three exams land under subject 100: directly, via their
	// chapter, or via the course's own subject link.
	items, _, meta, err := svc.List(context.Background(), models.ListParams{}, dto.Selections{SubjectID: 100})
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, int64(100), meta.Selections.SubjectID)

	for _, item := range items {
		if item.ID == 902 {
			assert.Equal(t, "Mathematics / Science / Class 11", item.Lineage.Label)
		}
	}
}

func TestExamServiceListFiltersByChapter(t *testing.T) {
	svc := NewExamService(examCatalogFixture(), &examUpstreamStub{}, nil, nil)

	items, _, _, err := svc.List(context.Background(), models.ListParams{}, dto.Selections{ChapterID: 1000})
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, int64(900), items[0].ID)
}

func TestExamServiceGetUnknown(t *testing.T) {
	svc := NewExamService(examCatalogFixture(), &examUpstreamStub{}, nil, nil)

	_, err := svc.Get(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExamServiceDeleteRefreshes(t *testing.T) {
	upstream := &examUpstreamStub{}
	catalog := examCatalogFixture()
	svc := NewExamService(catalog, upstream, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), 900))
	assert.Equal(t, []int64{900}, upstream.deleted)
	assert.True(t, catalog.refreshedOnce("exams"))
}
