package service

import (
	"context"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/audit"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
)

// AuditService registra a trilha de auditoria em modo best-effort:
// falhas de escrita são logadas e nunca propagadas ao chamador, para que
// auditoria jamais bloqueie ou reverta uma operação de negócio.
type AuditService struct {
	repo   audit.Repository
	logger logger.Logger
}

// NewAuditService cria uma nova instância de AuditService
func NewAuditService(repo audit.Repository, logger logger.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger}
}

// Record registra uma entrada na trilha de auditoria
func (s *AuditService) Record(ctx context.Context, e *audit.Entry) {
	if err := s.repo.Append(ctx, e); err != nil {
		s.logger.Error("falha ao registrar auditoria",
			"action", e.Action,
			"entity_kind", e.EntityKind,
			"entity_id", e.EntityID,
			"error", err.Error())
	}
}

// ListByEntity lista as entradas de auditoria ligadas a uma entidade
func (s *AuditService) ListByEntity(ctx context.Context, tenantID, entityKind, entityID string) ([]*audit.Entry, error) {
	return s.repo.ListByEntity(ctx, tenantID, entityKind, entityID)
}

// List lista as entradas de auditoria de um tenant
func (s *AuditService) List(ctx context.Context, tenantID string, limit, offset int) ([]*audit.Entry, error) {
	return s.repo.List(ctx, tenantID, limit, offset)
}
