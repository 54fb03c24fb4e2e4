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

type examCatalog interface {
	taxonomyCatalog
	Courses(ctx context.Context) ([]models.Course, error)
	Exams(ctx context.Context) ([]models.Exam, error)
	RefreshExams(ctx context.Context) error
}

type examUpstream interface {
	CreateExam(ctx context.Context, req dto.CreateExamRequest) (*models.Exam, error)
	UpdateExam(ctx context.Context, id int64, req dto.UpdateExamRequest) (*models.Exam, error)
	DeleteExam(ctx context.Context, id int64) error
}

const examHierarchyMessage = "an exam may reference only one of course, class, subject, chapter or topic"

// ExamService manages exams. An exam targets at most one hierarchy level;
// a payload naming several levels is rejected with the message keyed to
// every offending field, and a referenced node must exist in the current
// snapshot.
type ExamService struct {
	catalog   examCatalog
	upstream  examUpstream
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExamService creates a new exam service.
func NewExamService(catalog examCatalog, upstream examUpstream, validate *validator.Validate, logger *zap.Logger) *ExamService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamService{catalog: catalog, upstream: upstream, validator: validate, logger: logger}
}

// List returns exams under the sanitized selection with filter options for
// every taxonomy level. Exams resolve their chain through whichever
// reference they carry; course-linked exams resolve through the course.
func (s *ExamService) List(ctx context.Context, params models.ListParams, sel dto.Selections) ([]dto.ExamItem, *models.Pagination, *dto.ListMeta, error) {
	params.Normalize()

	snap, err := loadTaxonomy(ctx, s.catalog)
	if err != nil {
		return nil, nil, nil, err
	}
	courses, err := s.catalog.Courses(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	exams, err := s.catalog.Exams(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	leaves := taxonomy.ExamLeaves(snap.collections().WithCourses(courses), exams)
	clean := taxonomy.Sanitize(toSelection(sel), leaves)
	visible := taxonomy.Apply(leaves, clean, params.Search, params.SortBy, params.SortOrder)
	page, pagination := paginateLeaves(visible, params)

	byID := make(map[int64]models.Exam, len(exams))
	for _, exam := range exams {
		byID[exam.ID] = exam
	}
	items := make([]dto.ExamItem, 0, len(page))
	for _, leaf := range page {
		items = append(items, dto.ExamItem{Exam: byID[leaf.ID], Lineage: lineageOf(leaf.Ancestry)})
	}
	return items, pagination, listMeta(clean, leaves, taxonomy.LevelChapter), nil
}

// Get returns one exam with its resolved lineage.
func (s *ExamService) Get(ctx context.Context, id int64) (*dto.ExamItem, error) {
	snap, err := loadTaxonomy(ctx, s.catalog)
	if err != nil {
		return nil, err
	}
	courses, err := s.catalog.Courses(ctx)
	if err != nil {
		return nil, err
	}
	exams, err := s.catalog.Exams(ctx)
	if err != nil {
		return nil, err
	}
	for i := range exams {
		if exams[i].ID == id {
			exam := exams[i]
			lineage := lineageOf(snap.collections().WithCourses(courses).AncestryOfExam(exam))
			return &dto.ExamItem{Exam: exam, Lineage: lineage}, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
}

// Create gates the hierarchy reference before the upstream call.
func (s *ExamService) Create(ctx context.Context, req dto.CreateExamRequest) (*models.Exam, error) {
	req.Title = strings.TrimSpace(req.Title)

	snap, err := loadTaxonomy(ctx, s.catalog)
	if err != nil {
		return nil, err
	}
	courses, err := s.catalog.Courses(ctx)
	if err != nil {
		return nil, err
	}

	fields := s.hierarchyFields(snap, courses, req.CourseID, req.ClassID, req.SubjectID, req.ChapterID, req.TopicID)
	if req.Title == "" {
		fields.Set("title", "title is required")
	}
	if len(fields) > 0 {
		return nil, appErrors.Validation(fields)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam payload")
	}

	created, err := s.upstream.CreateExam(ctx, req)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return created, nil
}

// Update revalidates the patch. A patch that names any hierarchy reference
// replaces the exam's reference outright, so only the patch's own
// references are checked; a patch naming none leaves the existing
// reference in place.
func (s *ExamService) Update(ctx context.Context, id int64, req dto.UpdateExamRequest) (*models.Exam, error) {
	snap, err := loadTaxonomy(ctx, s.catalog)
	if err != nil {
		return nil, err
	}
	courses, err := s.catalog.Courses(ctx)
	if err != nil {
		return nil, err
	}

	fields := s.hierarchyFields(snap, courses, req.CourseID, req.ClassID, req.SubjectID, req.ChapterID, req.TopicID)
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		req.Title = &trimmed
		if trimmed == "" {
			fields.Set("title", "title is required")
		}
	}
	if len(fields) > 0 {
		return nil, appErrors.Validation(fields)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam payload")
	}

	updated, err := s.upstream.UpdateExam(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return updated, nil
}

// Delete forwards the delete upstream.
func (s *ExamService) Delete(ctx context.Context, id int64) error {
	if err := s.upstream.DeleteExam(ctx, id); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

// hierarchyFields rejects payloads naming more than one taxonomy level and
// verifies the single named node still exists.
func (s *ExamService) hierarchyFields(snap *taxonomySnapshot, courses []models.Course, courseID, classID, subjectID, chapterID, topicID *int64) appErrors.FieldErrors {
	fields := appErrors.FieldErrors{}

	refs := []struct {
		field string
		id    *int64
	}{
		{"course_id", courseID},
		{"class_id", classID},
		{"subject_id", subjectID},
		{"chapter_id", chapterID},
		{"topic_id", topicID},
	}

	provided := refs[:0:0]
	for _, ref := range refs {
		if ref.id != nil && *ref.id > 0 {
			provided = append(provided, ref)
		}
	}
	if len(provided) > 1 {
		for _, ref := range provided {
			fields.Set(ref.field, examHierarchyMessage)
		}
		return fields
	}
	if len(provided) == 0 {
		return fields
	}

	ref := provided[0]
	switch ref.field {
	case "course_id":
		if !courseExists(courses, *ref.id) {
			fields.Set(ref.field, "selected course no longer exists")
		}
	case "class_id":
		if !classExistsIn(snap.classes, *ref.id) {
			fields.Set(ref.field, "selected class no longer exists")
		}
	case "subject_id":
		if !subjectExistsIn(snap.subjects, *ref.id) {
			fields.Set(ref.field, "selected subject no longer exists")
		}
	case "chapter_id":
		if !chapterExistsIn(snap.chapters, *ref.id) {
			fields.Set(ref.field, "selected chapter no longer exists")
		}
	case "topic_id":
		if !topicExistsIn(snap.topics, *ref.id) {
			fields.Set(ref.field, "selected topic no longer exists")
		}
	}
	return fields
}

func (s *ExamService) refresh(ctx context.Context) {
	if err := s.catalog.RefreshExams(ctx); err != nil {
		s.logger.Warn("exam snapshot refresh failed", zap.Error(err))
	}
}

func courseExists(courses []models.Course, id int64) bool {
	for i := range courses {
		if courses[i].ID == id {
			return true
		}
	}
	return false
}

func classExistsIn(classes []models.Class, id int64) bool {
	for i := range classes {
		if classes[i].ID == id {
			return true
		}
	}
	return false
}

func subjectExistsIn(subjects []models.Subject, id int64) bool {
	for i := range subjects {
		if subjects[i].ID == id {
			return true
		}
	}
	return false
}

func chapterExistsIn(chapters []models.Chapter, id int64) bool {
	for i := range chapters {
		if chapters[i].ID == id {
			return true
		}
	}
	return false
}

func topicExistsIn(topics []models.Topic, id int64) bool {
	for i := range topics {
		if topics[i].ID == id {
			return true
		}
	}
	return false
}
