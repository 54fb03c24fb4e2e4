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

type subjectCatalog interface {
	taxonomyCatalog
	RefreshSubjects(ctx context.Context) error
}

type subjectUpstream interface {
	CreateSubject(ctx context.Context, req dto.CreateSubjectRequest) (*models.Subject, error)
	UpdateSubject(ctx context.Context, id int64, req dto.UpdateSubjectRequest) (*models.Subject, error)
	DeleteSubject(ctx context.Context, id int64) error
}

// SubjectService manages subjects. Names are unique within their stream;
// codes are unique across the whole collection regardless of stream.
type SubjectService struct {
	catalog   subjectCatalog
	upstream  subjectUpstream
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService creates a new subject service.
func NewSubjectService(catalog subjectCatalog, upstream subjectUpstream, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{catalog: catalog, upstream: upstream, validator: validate, logger: logger}
}

// List returns subjects under the sanitized selection with class and stream
// filter options.
func (s *SubjectService) List(ctx context.Context, params models.ListParams, sel dto.Selections) ([]dto.SubjectItem, *models.Pagination, *dto.ListMeta, error) {
	params.Normalize()

	snap, err := loadTaxonomy(ctx, s.catalog)
	if err != nil {
		return nil, nil, nil, err
	}

	leaves := taxonomy.SubjectLeaves(snap.collections(), snap.subjects)
	clean := taxonomy.Sanitize(toSelection(sel), leaves)
	visible := taxonomy.Apply(leaves, clean, params.Search, params.SortBy, params.SortOrder)
	page, pagination := paginateLeaves(visible, params)

	byID := make(map[int64]models.Subject, len(snap.subjects))
	for _, subject := range snap.subjects {
		byID[subject.ID] = subject
	}
	items := make([]dto.SubjectItem, 0, len(page))
	for _, leaf := range page {
		items = append(items, dto.SubjectItem{Subject: byID[leaf.ID], Lineage: lineageOf(leaf.Ancestry)})
	}
	return items, pagination, listMeta(clean, leaves, taxonomy.LevelStream), nil
}

// Get returns one subject with its resolved lineage.
func (s *SubjectService) Get(ctx context.Context, id int64) (*dto.SubjectItem, error) {
	snap, err := loadTaxonomy(ctx, s.catalog)
	if err != nil {
		return nil, err
	}
	for i := range snap.subjects {
		if snap.subjects[i].ID == id {
			subject := snap.subjects[i]
			return &dto.SubjectItem{Subject: subject, Lineage: lineageOf(snap.collections().AncestryOfSubject(subject))}, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
}

// Create gates name and code before the upstream call. The code is
// normalized to upper case the way the platform stores it.
func (s *SubjectService) Create(ctx context.Context, req dto.CreateSubjectRequest) (*models.Subject, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))

	snap, err := loadTaxonomy(ctx, s.catalog)
	if err != nil {
		return nil, err
	}
	if fields := snap.checker().ValidateSubject(req.Name, req.Code, req.StreamID, 0); len(fields) > 0 {
		return nil, appErrors.Validation(fields)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	created, err := s.upstream.CreateSubject(ctx, req)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return created, nil
}

// Update revalidates the effective name, code and stream, excluding the
// edited record so its own values never collide with themselves.
func (s *SubjectService) Update(ctx context.Context, id int64, req dto.UpdateSubjectRequest) (*models.Subject, error) {
	snap, err := loadTaxonomy(ctx, s.catalog)
	if err != nil {
		return nil, err
	}

	var existing *models.Subject
	for i := range snap.subjects {
		if snap.subjects[i].ID == id {
			subject := snap.subjects[i]
			existing = &subject
			break
		}
	}
	if existing == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}

	name := existing.Name
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
		name = trimmed
	}
	code := existing.Code
	if req.Code != nil {
		normalized := strings.ToUpper(strings.TrimSpace(*req.Code))
		req.Code = &normalized
		code = normalized
	}
	streamID := existing.StreamID
	if req.StreamID != nil {
		streamID = *req.StreamID
	}

	if fields := snap.checker().ValidateSubject(name, code, streamID, id); len(fields) > 0 {
		return nil, appErrors.Validation(fields)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	updated, err := s.upstream.UpdateSubject(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return updated, nil
}

// Delete forwards the delete upstream.
func (s *SubjectService) Delete(ctx context.Context, id int64) error {
	if err := s.upstream.DeleteSubject(ctx, id); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

func (s *SubjectService) refresh(ctx context.Context) {
	if err := s.catalog.RefreshSubjects(ctx); err != nil {
		s.logger.Warn("subject snapshot refresh failed", zap.Error(err))
	}
}
