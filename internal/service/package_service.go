package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sahajlabs/exam-admin-gateway/internal/dto"
	"github.com/sahajlabs/exam-admin-gateway/internal/models"
	"github.com/sahajlabs/exam-admin-gateway/internal/taxonomy"
	appErrors "github.com/sahajlabs/exam-admin-gateway/pkg/errors"
)

type packageCatalog interface {
	Packages(ctx context.Context) ([]models.Package, error)
	Courses(ctx context.Context) ([]models.Course, error)
	RefreshPackages(ctx context.Context) error
}

type packageUpstream interface {
	CreatePackage(ctx context.Context, req dto.CreatePackageRequest) (*models.Package, error)
	UpdatePackage(ctx context.Context, id int64, req dto.UpdatePackageRequest) (*models.Package, error)
	DeletePackage(ctx context.Context, id int64) error
}

// PackageService manages course packages, the sellable bundles that
// subscription mappings point at.
type PackageService struct {
	catalog   packageCatalog
	upstream  packageUpstream
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPackageService creates a new package service.
func NewPackageService(catalog packageCatalog, upstream packageUpstream, validate *validator.Validate, logger *zap.Logger) *PackageService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PackageService{catalog: catalog, upstream: upstream, validator: validate, logger: logger}
}

// List returns packages matching the search term, sorted and paginated.
func (s *PackageService) List(ctx context.Context, params models.ListParams) ([]models.Package, *models.Pagination, error) {
	params.Normalize()

	packages, err := s.catalog.Packages(ctx)
	if err != nil {
		return nil, nil, err
	}

	byID := make(map[int64]models.Package, len(packages))
	leaves := make([]taxonomy.Leaf, 0, len(packages))
	for _, pkg := range packages {
		byID[pkg.ID] = pkg
		leaves = append(leaves, taxonomy.Leaf{
			ID:          pkg.ID,
			Name:        pkg.Name,
			Description: derefString(pkg.Description),
			CreatedAt:   pkg.CreatedAt,
		})
	}

	visible := taxonomy.Apply(leaves, taxonomy.Selection{}, params.Search, params.SortBy, params.SortOrder)
	page, pagination := paginateLeaves(visible, params)

	items := make([]models.Package, 0, len(page))
	for _, leaf := range page {
		items = append(items, byID[leaf.ID])
	}
	return items, pagination, nil
}

// Get returns one package from the current snapshot.
func (s *PackageService) Get(ctx context.Context, id int64) (*models.Package, error) {
	packages, err := s.catalog.Packages(ctx)
	if err != nil {
		return nil, err
	}
	for i := range packages {
		if packages[i].ID == id {
			pkg := packages[i]
			return &pkg, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "package not found")
}

// Create verifies the referenced courses exist before the upstream call.
func (s *PackageService) Create(ctx context.Context, req dto.CreatePackageRequest) (*models.Package, error) {
	req.Name = strings.TrimSpace(req.Name)

	fields := appErrors.FieldErrors{}
	if req.Name == "" {
		fields.Set("name", "name is required")
	}
	if err := s.checkCourses(ctx, req.CourseIDs, fields); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, appErrors.Validation(fields)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid package payload")
	}

	created, err := s.upstream.CreatePackage(ctx, req)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return created, nil
}

// Update modifies an existing package.
func (s *PackageService) Update(ctx context.Context, id int64, req dto.UpdatePackageRequest) (*models.Package, error) {
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
	if err := s.checkCourses(ctx, req.CourseIDs, fields); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, appErrors.Validation(fields)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid package payload")
	}

	updated, err := s.upstream.UpdatePackage(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return updated, nil
}

// Delete forwards the delete upstream.
func (s *PackageService) Delete(ctx context.Context, id int64) error {
	if err := s.upstream.DeletePackage(ctx, id); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

func (s *PackageService) checkCourses(ctx context.Context, courseIDs []int64, fields appErrors.FieldErrors) error {
	if len(courseIDs) == 0 {
		return nil
	}
	courses, err := s.catalog.Courses(ctx)
	if err != nil {
		return err
	}
	for _, id := range courseIDs {
		if !courseExists(courses, id) {
			fields.Set("course_ids", fmt.Sprintf("course %d no longer exists", id))
			break
		}
	}
	return nil
}

func (s *PackageService) refresh(ctx context.Context) {
	if err := s.catalog.RefreshPackages(ctx); err != nil {
		s.logger.Warn("package snapshot refresh failed", zap.Error(err))
	}
}
