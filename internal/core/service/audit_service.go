package service

import (
	"context"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

// AuditService reads back the events written by the audit dispatcher.
type AuditService struct {
	events ports.Store[domain.AuditEvent]
}

func NewAuditService(events ports.Store[domain.AuditEvent]) *AuditService {
	return &AuditService{events: events}
}

func (s *AuditService) List(ctx context.Context, page ports.Page) ([]domain.AuditEvent, int64, error) {
	items, total, err := s.events.FindMany(ctx, ports.Filter{}, page)
	if err != nil {
		return nil, 0, storeFault("list audit events", err)
	}
	return items, total, nil
}
