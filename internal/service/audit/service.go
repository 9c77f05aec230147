package audit

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"

	"medcollab/internal/domain"
	"medcollab/internal/pkg/reqmeta"
	"medcollab/internal/repository"
)

type Service interface {
	Log(ctx context.Context, input domain.CreateAuditLogInput)
	GetRecentActivity(ctx context.Context, limit int) ([]domain.AuditLog, error)
	ListByEntity(ctx context.Context, entityType, entityID string, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error)
}

type service struct {
	auditRepo repository.AuditLogRepository
}

func NewService(auditRepo repository.AuditLogRepository) Service {
	return &service{
		auditRepo: auditRepo,
	}
}

// Log records a consent or collaboration event. Auditing is best-effort and
// must never fail the operation that triggered it, so errors are logged and
// swallowed.
func (s *service) Log(ctx context.Context, input domain.CreateAuditLogInput) {
	var details json.RawMessage
	if input.Details != nil {
		data, err := json.Marshal(input.Details)
		if err != nil {
			log.Printf("failed to marshal audit details for %s: %v", input.Action, err)
		} else {
			details = data
		}
	}

	entry := &domain.AuditLog{
		ID:         uuid.New(),
		UserID:     input.UserID,
		Action:     input.Action,
		EntityType: input.EntityType,
		EntityID:   input.EntityID,
		Details:    details,
		IPAddress:  input.IPAddress,
		UserAgent:  input.UserAgent,
	}

	if entry.IPAddress == nil {
		if meta, ok := reqmeta.FromContext(ctx); ok {
			if meta.IPAddress != "" {
				entry.IPAddress = &meta.IPAddress
			}
			if meta.UserAgent != "" {
				entry.UserAgent = &meta.UserAgent
			}
		}
	}

	if err := s.auditRepo.Create(ctx, entry); err != nil {
		log.Printf("failed to write audit log %s on %s/%s: %v", input.Action, input.EntityType, input.EntityID, err)
	}
}

func (s *service) GetRecentActivity(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	params := domain.PaginationParams{
		Page:     1,
		PageSize: limit,
	}

	logs, _, err := s.auditRepo.List(ctx, params)
	return logs, err
}

func (s *service) ListByEntity(ctx context.Context, entityType, entityID string, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error) {
	logs, total, err := s.auditRepo.ListByEntity(ctx, entityType, entityID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.AuditLog]{}, err
	}
	return domain.NewPaginatedResponse(logs, params.Page, params.PageSize, total), nil
}
