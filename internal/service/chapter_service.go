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

type chapterCatalog interface {
	taxonomyCatalog
	RefreshChapters(ctx context.Context) error
}

type chapterUpstream interface {
	CreateChapter(ctx context.Context, req dto.CreateChapterRequest) (*models.Chapter, error)
	UpdateChapter(ctx context.Context, id int64, req dto.UpdateChapterRequest) (*models.Chapter, error)
	DeleteChapter(ctx context.Context, id int64) error
}

// ChapterService manages chapters. A chapter carries two independent
// per-subject constraints: its name and its order number.
type ChapterService struct {
	catalog   chapterCatalog
	upstream  chapterUpstream
	validator *validator.Validate
	logger    *zap.Logger
}

// NewChapterService creates a new chapter service.
func NewChapterService(catalog chapterCatalog, upstream chapterUpstream, validate *validator.Validate, logger *zap.Logger) *ChapterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChapterService{catalog: catalog, upstream: upstream, validator: validate, logger: logger}
}

// List returns chapters under the sanitized selection with class, stream
// and subject filter options.
func (s *ChapterService) List(ctx context.Context, params models.ListParams, sel dto.Selections) ([]dto.ChapterItem, *models.Pagination, *dto.ListMeta, error) {
	params.Normalize()

	snap, err := loadTaxonomy(ctx, s.catalog)
	if err != nil {
		return nil, nil, nil, err
	}

	leaves := taxonomy.ChapterLeaves(snap.collections(), snap.chapters)
	clean := taxonomy.Sanitize(toSelection(sel), leaves)
	visible := taxonomy.Apply(leaves, clean, params.Search, params.SortBy, params.SortOrder)
	page, pagination := paginateLeaves(visible, params)

	byID := make(map[int64]models.Chapter, len(snap.chapters))
	for _, chapter := range snap.chapters {
		byID[chapter.ID] = chapter
	}
	items := make([]dto.ChapterItem, 0, len(page))
	for _, leaf := range page {
		items = append(items, dto.ChapterItem{Chapter: byID[leaf.ID], Lineage: lineageOf(leaf.Ancestry)})
	}
	return items, pagination, listMeta(clean, leaves, taxonomy.LevelSubject), nil
}

// Get returns one chapter with its resolved lineage.
func (s *ChapterService) Get(ctx context.Context, id int64) (*dto.ChapterItem, error) {
	snap, err := loadTaxonomy(ctx, s.catalog)
	if err != nil {
		return nil, err
	}
	for i := range snap.chapters {
		if snap.chapters[i].ID == id {
			chapter := snap.chapters[i]
			return &dto.ChapterItem{Chapter: chapter, Lineage: lineageOf(snap.collections().AncestryOfChapter(chapter))}, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "chapter not found")
}

// Create gates name and number against the subject's chapters before the
// upstream call.
func (s *ChapterService) Create(ctx context.Context, req dto.CreateChapterRequest) (*models.Chapter, error) {
	req.Name = strings.TrimSpace(req.Name)

	snap, err := loadTaxonomy(ctx, s.catalog)
	if err != nil {
		return nil, err
	}
	if fields := snap.checker().ValidateChapter(req.Name, req.ChapterNumber, req.SubjectID, 0); len(fields) > 0 {
		return nil, appErrors.Validation(fields)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid chapter payload")
	}

	created, err := s.upstream.CreateChapter(ctx, req)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return created, nil
}

// Update revalidates the effective name and number under the effective
// subject.
func (s *ChapterService) Update(ctx context.Context, id int64, req dto.UpdateChapterRequest) (*models.Chapter, error) {
	snap, err := loadTaxonomy(ctx, s.catalog)
	if err != nil {
		return nil, err
	}

	var existing *models.Chapter
	for i := range snap.chapters {
		if snap.chapters[i].ID == id {
			chapter := snap.chapters[i]
			existing = &chapter
			break
		}
	}
	if existing == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "chapter not found")
	}

	name := existing.Name
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
		name = trimmed
	}
	number := existing.ChapterNumber
	if req.ChapterNumber != nil {
		number = *req.ChapterNumber
	}
	subjectID := existing.SubjectID
	if req.SubjectID != nil {
		subjectID = *req.SubjectID
	}

	if fields := snap.checker().ValidateChapter(name, number, subjectID, id); len(fields) > 0 {
		return nil, appErrors.Validation(fields)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid chapter payload")
	}

	updated, err := s.upstream.UpdateChapter(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return updated, nil
}

// Delete forwards the delete upstream.
func (s *ChapterService) Delete(ctx context.Context, id int64) error {
	if err := s.upstream.DeleteChapter(ctx, id); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

func (s *ChapterService) refresh(ctx context.Context) {
	if err := s.catalog.RefreshChapters(ctx); err != nil {
		s.logger.Warn("chapter snapshot refresh failed", zap.Error(err))
	}
}
