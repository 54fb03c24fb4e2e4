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

type topicCatalog interface {
	taxonomyCatalog
	RefreshTopics(ctx context.Context) error
}

type topicUpstream interface {
	CreateTopic(ctx context.Context, req dto.CreateTopicRequest) (*models.Topic, error)
	UpdateTopic(ctx context.Context, id int64, req dto.UpdateTopicRequest) (*models.Topic, error)
	DeleteTopic(ctx context.Context, id int64) error
}

// TopicService manages topics, the deepest taxonomy level. The topic list
// is the one screen that filters on all four ancestor levels.
type TopicService struct {
	catalog   topicCatalog
	upstream  topicUpstream
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTopicService creates a new topic service.
func NewTopicService(catalog topicCatalog, upstream topicUpstream, validate *validator.Validate, logger *zap.Logger) *TopicService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TopicService{catalog: catalog, upstream: upstream, validator: validate, logger: logger}
}

// List returns topics under the sanitized selection with filter options for
// every ancestor level.
func (s *TopicService) List(ctx context.Context, params models.ListParams, sel dto.Selections) ([]dto.TopicItem, *models.Pagination, *dto.ListMeta, error) {
	params.Normalize()

	snap, err := loadTaxonomy(ctx, s.catalog)
	if err != nil {
		return nil, nil, nil, err
	}

	leaves := taxonomy.TopicLeaves(snap.collections(), snap.topics)
	clean := taxonomy.Sanitize(toSelection(sel), leaves)
	visible := taxonomy.Apply(leaves, clean, params.Search, params.SortBy, params.SortOrder)
	page, pagination := paginateLeaves(visible, params)

	byID := make(map[int64]models.Topic, len(snap.topics))
	for _, topic := range snap.topics {
		byID[topic.ID] = topic
	}
	items := make([]dto.TopicItem, 0, len(page))
	for _, leaf := range page {
		items = append(items, dto.TopicItem{Topic: byID[leaf.ID], Lineage: lineageOf(leaf.Ancestry)})
	}
	return items, pagination, listMeta(clean, leaves, taxonomy.LevelChapter), nil
}

// Get returns one topic with its resolved lineage.
func (s *TopicService) Get(ctx context.Context, id int64) (*dto.TopicItem, error) {
	snap, err := loadTaxonomy(ctx, s.catalog)
	if err != nil {
		return nil, err
	}
	for i := range snap.topics {
		if snap.topics[i].ID == id {
			topic := snap.topics[i]
			return &dto.TopicItem{Topic: topic, Lineage: lineageOf(snap.collections().AncestryOfTopic(topic))}, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "topic not found")
}

// Create gates the payload against the chapter's topics before the
// upstream call.
func (s *TopicService) Create(ctx context.Context, req dto.CreateTopicRequest) (*models.Topic, error) {
	req.Name = strings.TrimSpace(req.Name)

	snap, err := loadTaxonomy(ctx, s.catalog)
	if err != nil {
		return nil, err
	}
	if fields := snap.checker().ValidateTopic(req.Name, req.ChapterID, 0); len(fields) > 0 {
		return nil, appErrors.Validation(fields)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid topic payload")
	}

	created, err := s.upstream.CreateTopic(ctx, req)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return created, nil
}

// Update revalidates the effective name under the effective chapter.
func (s *TopicService) Update(ctx context.Context, id int64, req dto.UpdateTopicRequest) (*models.Topic, error) {
	snap, err := loadTaxonomy(ctx, s.catalog)
	if err != nil {
		return nil, err
	}

	var existing *models.Topic
	for i := range snap.topics {
		if snap.topics[i].ID == id {
			topic := snap.topics[i]
			existing = &topic
			break
		}
	}
	if existing == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "topic not found")
	}

	name := existing.Name
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
		name = trimmed
	}
	chapterID := existing.ChapterID
	if req.ChapterID != nil {
		chapterID = *req.ChapterID
	}

	if fields := snap.checker().ValidateTopic(name, chapterID, id); len(fields) > 0 {
		return nil, appErrors.Validation(fields)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid topic payload")
	}

	updated, err := s.upstream.UpdateTopic(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return updated, nil
}

// Delete forwards the delete upstream.
func (s *TopicService) Delete(ctx context.Context, id int64) error {
	if err := s.upstream.DeleteTopic(ctx, id); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

func (s *TopicService) refresh(ctx context.Context) {
	if err := s.catalog.RefreshTopics(ctx); err != nil {
		s.logger.Warn("topic snapshot refresh failed", zap.Error(err))
	}
}
