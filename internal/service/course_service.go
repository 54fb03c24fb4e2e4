package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/sahajlabs/exam-admin-gateway/internal/dto"
	"github.com/sahajlabs/exam-admin-gateway/internal/models"
	"github.com/sahajlabs/exam-admin-gateway/internal/taxonomy"
	appErrors "github.com/sahajlabs/exam-admin-gateway/pkg/errors"
)

type courseCatalog interface {
	taxonomyCatalog
	Courses(ctx context.Context) ([]models.Course, error)
}

// CourseService serves the course picker. Courses are managed elsewhere in
// the platform; the admin gateway only lists them as exam and package
// targets, resolved through whichever taxonomy level each course attaches
// to.
type CourseService struct {
	catalog courseCatalog
	logger  *zap.Logger
}

// NewCourseService creates a new course service.
func NewCourseService(catalog courseCatalog, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{catalog: catalog, logger: logger}
}

// List returns courses under the sanitized selection with filter options
// for every taxonomy level.
func (s *CourseService) List(ctx context.Context, params models.ListParams, sel dto.Selections) ([]dto.CourseItem, *models.Pagination, *dto.ListMeta, error) {
	params.Normalize()

	snap, err := loadTaxonomy(ctx, s.catalog)
	if err != nil {
		return nil, nil, nil, err
	}
	courses, err := s.catalog.Courses(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	leaves := taxonomy.CourseLeaves(snap.collections(), courses)
	clean := taxonomy.Sanitize(toSelection(sel), leaves)
	visible := taxonomy.Apply(leaves, clean, params.Search, params.SortBy, params.SortOrder)
	page, pagination := paginateLeaves(visible, params)

	byID := make(map[int64]models.Course, len(courses))
	for _, course := range courses {
		byID[course.ID] = course
	}
	items := make([]dto.CourseItem, 0, len(page))
	for _, leaf := range page {
		items = append(items, dto.CourseItem{Course: byID[leaf.ID], Lineage: lineageOf(leaf.Ancestry)})
	}
	return items, pagination, listMeta(clean, leaves, taxonomy.LevelChapter), nil
}

// Get returns one course with its resolved lineage.
func (s *CourseService) Get(ctx context.Context, id int64) (*dto.CourseItem, error) {
	snap, err := loadTaxonomy(ctx, s.catalog)
	if err != nil {
		return nil, err
	}
	courses, err := s.catalog.Courses(ctx)
	if err != nil {
		return nil, err
	}
	for i := range courses {
		if courses[i].ID == id {
			course := courses[i]
			return &dto.CourseItem{Course: course, Lineage: lineageOf(snap.collections().AncestryOfCourse(course))}, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
}
