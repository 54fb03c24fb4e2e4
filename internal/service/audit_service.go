package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/sahajlabs/exam-admin-gateway/internal/models"
)

type auditStore interface {
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditEntry, error)
	Count(ctx context.Context, filter models.AuditFilter) (int, error)
}

// AuditService serves the gateway's own audit trail. Entries are written by
// the audit middleware; this service only reads them back for the admin
// screens.
type AuditService struct {
	store  auditStore
	logger *zap.Logger
}

// NewAuditService creates a new audit service.
func NewAuditService(store auditStore, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{store: store, logger: logger}
}

// List returns audit entries matching the filter, newest first.
func (s *AuditService) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditEntry, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 200 {
		filter.PageSize = 50
	}

	entries, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return entries, pagination, nil
}
