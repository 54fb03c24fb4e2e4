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

type streamCatalog interface {
	taxonomyCatalog
	RefreshStreams(ctx context.Context) error
}

type streamUpstream interface {
	CreateStream(ctx context.Context, req dto.CreateStreamRequest) (*models.Stream, error)
	UpdateStream(ctx context.Context, id int64, req dto.UpdateStreamRequest) (*models.Stream, error)
	DeleteStream(ctx context.Context, id int64) error
}

// StreamService manages streams, the level below classes. Stream names are
// unique within their class, so edits that move a stream revalidate against
// the destination class's siblings.
type StreamService struct {
	catalog   streamCatalog
	upstream  streamUpstream
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStreamService creates a new stream service.
func NewStreamService(catalog streamCatalog, upstream streamUpstream, validate *validator.Validate, logger *zap.Logger) *StreamService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamService{catalog: catalog, upstream: upstream, validator: validate, logger: logger}
}

// List returns streams under the sanitized selection with class filter
// options derived from the visible streams themselves.
func (s *StreamService) List(ctx context.Context, params models.ListParams, sel dto.Selections) ([]dto.StreamItem, *models.Pagination, *dto.ListMeta, error) {
	params.Normalize()

	snap, err := loadTaxonomy(ctx, s.catalog)
	if err != nil {
		return nil, nil, nil, err
	}

	leaves := taxonomy.StreamLeaves(snap.collections(), snap.streams)
	clean := taxonomy.Sanitize(toSelection(sel), leaves)
	visible := taxonomy.Apply(leaves, clean, params.Search, params.SortBy, params.SortOrder)
	page, pagination := paginateLeaves(visible, params)

	byID := make(map[int64]models.Stream, len(snap.streams))
	for _, stream := range snap.streams {
		byID[stream.ID] = stream
	}
	items := make([]dto.StreamItem, 0, len(page))
	for _, leaf := range page {
		items = append(items, dto.StreamItem{Stream: byID[leaf.ID], Lineage: lineageOf(leaf.Ancestry)})
	}
	return items, pagination, listMeta(clean, leaves, taxonomy.LevelClass), nil
}

// Get returns one stream with its resolved lineage.
func (s *StreamService) Get(ctx context.Context, id int64) (*dto.StreamItem, error) {
	snap, err := loadTaxonomy(ctx, s.catalog)
	if err != nil {
		return nil, err
	}
	for i := range snap.streams {
		if snap.streams[i].ID == id {
			stream := snap.streams[i]
			return &dto.StreamItem{Stream: stream, Lineage: lineageOf(snap.collections().AncestryOfStream(stream))}, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "stream not found")
}

// Create gates the payload against the class's siblings before the
// upstream call.
func (s *StreamService) Create(ctx context.Context, req dto.CreateStreamRequest) (*models.Stream, error) {
	req.Name = strings.TrimSpace(req.Name)

	snap, err := loadTaxonomy(ctx, s.catalog)
	if err != nil {
		return nil, err
	}
	if fields := snap.checker().ValidateStream(req.Name, req.ClassID, 0); len(fields) > 0 {
		return nil, appErrors.Validation(fields)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid stream payload")
	}

	created, err := s.upstream.CreateStream(ctx, req)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return created, nil
}

// Update revalidates the effective name under the effective class, which
// may be a different class than the record currently sits in.
func (s *StreamService) Update(ctx context.Context, id int64, req dto.UpdateStreamRequest) (*models.Stream, error) {
	snap, err := loadTaxonomy(ctx, s.catalog)
	if err != nil {
		return nil, err
	}

	var existing *models.Stream
	for i := range snap.streams {
		if snap.streams[i].ID == id {
			stream := snap.streams[i]
			existing = &stream
			break
		}
	}
	if existing == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "stream not found")
	}

	name := existing.Name
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
		name = trimmed
	}
	classID := existing.ClassID
	if req.ClassID != nil {
		classID = *req.ClassID
	}

	if fields := snap.checker().ValidateStream(name, classID, id); len(fields) > 0 {
		return nil, appErrors.Validation(fields)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid stream payload")
	}

	updated, err := s.upstream.UpdateStream(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return updated, nil
}

// Delete forwards the delete upstream.
func (s *StreamService) Delete(ctx context.Context, id int64) error {
	if err := s.upstream.DeleteStream(ctx, id); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

func (s *StreamService) refresh(ctx context.Context) {
	if err := s.catalog.RefreshStreams(ctx); err != nil {
		s.logger.Warn("stream snapshot refresh failed", zap.Error(err))
	}
}
