package audit

import (
	"context"
)

// Repository define a interface para a trilha de auditoria (append-only)
type Repository interface {
	// Append registra uma entrada na trilha
	Append(ctx context.Context, e *Entry) error

	// ListByEntity lista as entradas ligadas a uma entidade
	ListByEntity(ctx context.Context, tenantID, entityKind, entityID string) ([]*Entry, error)

	// List lista as entradas de um tenant com paginação
	List(ctx context.Context, tenantID string, limit, offset int) ([]*Entry, error)
}
