package repository

import (
	"context"
	"fmt"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/audit"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRepository implementa a interface audit.Repository
type AuditRepository struct {
	db *pgxpool.Pool
}

// NewAuditRepository cria uma nova instância de AuditRepository
func NewAuditRepository(db *pgxpool.Pool) audit.Repository {
	return &AuditRepository{db: db}
}

// Append implementa audit.Repository.Append
func (r *AuditRepository) Append(ctx context.Context, e *audit.Entry) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO audit_entries (
			id, tenant_id, user_id, operator_id, action, entity_kind,
			entity_id, before, after, reason, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID, e.TenantID, e.UserID, e.OperatorID, e.Action, e.EntityKind,
		e.EntityID, e.Before, e.After, e.Reason, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("erro ao registrar auditoria: %w", err)
	}
	return nil
}

// ListByEntity implementa audit.Repository.ListByEntity
func (r *AuditRepository) ListByEntity(ctx context.Context, tenantID, entityKind, entityID string) ([]*audit.Entry, error) {
	rows, err := r.db.Query(ctx,
		selectAuditEntry+`
		WHERE tenant_id = $1 AND entity_kind = $2 AND entity_id = $3
		ORDER BY created_at, id`,
		tenantID, entityKind, entityID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar auditoria: %w", err)
	}
	defer rows.Close()

	return scanAuditEntries(rows)
}

// List implementa audit.Repository.List
func (r *AuditRepository) List(ctx context.Context, tenantID string, limit, offset int) ([]*audit.Entry, error) {
	rows, err := r.db.Query(ctx,
		selectAuditEntry+`
		WHERE tenant_id = $1 ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`,
		tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar auditoria: %w", err)
	}
	defer rows.Close()

	return scanAuditEntries(rows)
}

const selectAuditEntry = `SELECT id, tenant_id, user_id, operator_id, action,
	entity_kind, entity_id, before, after, reason, created_at
	FROM audit_entries`

func scanAuditEntries(rows pgx.Rows) ([]*audit.Entry, error) {
	var entries []*audit.Entry
	for rows.Next() {
		var e audit.Entry
		if err := rows.Scan(&e.ID, &e.TenantID, &e.UserID, &e.OperatorID,
			&e.Action, &e.EntityKind, &e.EntityID, &e.Before, &e.After,
			&e.Reason, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler entrada de auditoria: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
