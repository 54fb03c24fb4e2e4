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

type classCatalog interface {
	Classes(ctx context.Context) ([]models.Class, error)
	RefreshClasses(ctx context.Context) error
}

type classUpstream interface {
	CreateClass(ctx context.Context, req dto.CreateClassRequest) (*models.Class, error)
	UpdateClass(ctx context.Context, id int64, req dto.UpdateClassRequest) (*models.Class, error)
	DeleteClass(ctx context.Context, id int64) error
}

// ClassService manages the root taxonomy level. Classes have no parent, so
// the list carries no cascading filters and names are unique across the
// whole collection.
type ClassService struct {
	catalog   classCatalog
	upstream  classUpstream
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService creates a new class service.
func NewClassService(catalog classCatalog, upstream classUpstream, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{catalog: catalog, upstream: upstream, validator: validate, logger: logger}
}

// List returns classes matching the search term, sorted and paginated.
func (s *ClassService) List(ctx context.Context, params models.ListParams) ([]models.Class, *models.Pagination, error) {
	params.Normalize()

	classes, err := s.catalog.Classes(ctx)
	if err != nil {
		return nil, nil, err
	}

	byID := make(map[int64]models.Class, len(classes))
	leaves := make([]taxonomy.Leaf, 0, len(classes))
	for _, class := range classes {
		byID[class.ID] = class
		leaves = append(leaves, taxonomy.Leaf{
			ID:          class.ID,
			Name:        class.Name,
			Description: derefString(class.Description),
			CreatedAt:   class.CreatedAt,
		})
	}

	visible := taxonomy.Apply(leaves, taxonomy.Selection{}, params.Search, params.SortBy, params.SortOrder)
	page, pagination := paginateLeaves(visible, params)

	items := make([]models.Class, 0, len(page))
	for _, leaf := range page {
		items = append(items, byID[leaf.ID])
	}
	return items, pagination, nil
}

// Get returns one class from the current snapshot.
func (s *ClassService) Get(ctx context.Context, id int64) (*models.Class, error) {
	classes, err := s.catalog.Classes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range classes {
		if classes[i].ID == id {
			class := classes[i]
			return &class, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
}

// Create gates the payload against the snapshot and forwards it upstream.
func (s *ClassService) Create(ctx context.Context, req dto.CreateClassRequest) (*models.Class, error) {
	req.Name = strings.TrimSpace(req.Name)

	classes, err := s.catalog.Classes(ctx)
	if err != nil {
		return nil, err
	}
	checker := taxonomy.NewChecker(classes, nil, nil, nil, nil)
	if fields := checker.ValidateClass(req.Name, 0); len(fields) > 0 {
		return nil, appErrors.Validation(fields)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	created, err := s.upstream.CreateClass(ctx, req)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return created, nil
}

// Update revalidates the effective name, excluding the edited record from
// the duplicate scan so an unchanged name never collides with itself.
func (s *ClassService) Update(ctx context.Context, id int64, req dto.UpdateClassRequest) (*models.Class, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name := existing.Name
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
		name = trimmed
	}

	classes, err := s.catalog.Classes(ctx)
	if err != nil {
		return nil, err
	}
	checker := taxonomy.NewChecker(classes, nil, nil, nil, nil)
	if fields := checker.ValidateClass(name, id); len(fields) > 0 {
		return nil, appErrors.Validation(fields)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	updated, err := s.upstream.UpdateClass(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return updated, nil
}

// Delete forwards the delete; the upstream owns referential rules and
// answers 404 or 409 authoritatively.
func (s *ClassService) Delete(ctx context.Context, id int64) error {
	if err := s.upstream.DeleteClass(ctx, id); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

func (s *ClassService) refresh(ctx context.Context) {
	if err := s.catalog.RefreshClasses(ctx); err != nil {
		s.logger.Warn("class snapshot refresh failed", zap.Error(err))
	}
}
