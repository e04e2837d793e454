package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/pix"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PixRepository implementa a interface pix.Repository
type PixRepository struct {
	db *pgxpool.Pool
}

// NewPixRepository cria uma nova instância de PixRepository
func NewPixRepository(db *pgxpool.Pool) pix.Repository {
	return &PixRepository{db: db}
}

// Create implementa pix.Repository.Create
func (r *PixRepository) Create(ctx context.Context, t *pix.Transaction) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO pix_transactions (
			id, tenant_id, sale_id, external_id, qr_payload, amount,
			status, expires_at, provider_metadata, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.TenantID, t.SaleID, t.ExternalID, t.QRPayload, t.Amount,
		t.Status, t.ExpiresAt, t.ProviderMetadata, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("erro ao criar transação PIX: %w", err)
	}
	return nil
}

// FindByID implementa pix.Repository.FindByID
func (r *PixRepository) FindByID(ctx context.Context, tenantID, id string) (*pix.Transaction, error) {
	return scanPixTransaction(r.db.QueryRow(ctx,
		selectPixTransaction+` WHERE id = $1 AND tenant_id = $2`, id, tenantID))
}

// FindBySale implementa pix.Repository.FindBySale
func (r *PixRepository) FindBySale(ctx context.Context, tenantID, saleID string) (*pix.Transaction, error) {
	return scanPixTransaction(r.db.QueryRow(ctx,
		selectPixTransaction+`
		WHERE tenant_id = $1 AND sale_id = $2
		ORDER BY created_at DESC LIMIT 1`,
		tenantID, saleID))
}

// FindByExternalID implementa pix.Repository.FindByExternalID
func (r *PixRepository) FindByExternalID(ctx context.Context, externalID string) (*pix.Transaction, error) {
	return scanPixTransaction(r.db.QueryRow(ctx,
		selectPixTransaction+` WHERE external_id = $1`, externalID))
}

// UpdateStatus implementa pix.Repository.UpdateStatus. A transição é
// condicional ao status atual, o que torna webhook e polling idempotentes
// entre si: o segundo a chegar recebe ErrInvalidTransition.
func (r *PixRepository) UpdateStatus(ctx context.Context, tenantID, id string, from, to pix.Status, metadata json.RawMessage) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE pix_transactions SET
			status = $4,
			provider_metadata = COALESCE($5, provider_metadata),
			updated_at = now()
		WHERE id = $1 AND tenant_id = $2 AND status = $3`,
		id, tenantID, from, to, metadata)
	if err != nil {
		return fmt.Errorf("erro ao atualizar status da transação PIX: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var current string
		lookupErr := r.db.QueryRow(ctx,
			`SELECT status FROM pix_transactions WHERE id = $1 AND tenant_id = $2`,
			id, tenantID).Scan(&current)
		if lookupErr != nil {
			if errors.Is(lookupErr, pgx.ErrNoRows) {
				return pix.ErrTransactionNotFound
			}
			return fmt.Errorf("erro ao verificar transação PIX: %w", lookupErr)
		}
		return pix.ErrInvalidTransition
	}
	return nil
}

// ListPending implementa pix.Repository.ListPending
func (r *PixRepository) ListPending(ctx context.Context, tenantID string, limit int) ([]*pix.Transaction, error) {
	rows, err := r.db.Query(ctx,
		selectPixTransaction+`
		WHERE tenant_id = $1 AND status = $2
		ORDER BY created_at LIMIT $3`,
		tenantID, pix.StatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar transações PIX pendentes: %w", err)
	}
	defer rows.Close()

	var txs []*pix.Transaction
	for rows.Next() {
		t, err := scanPixTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}

	return txs, rows.Err()
}

const selectPixTransaction = `SELECT id, tenant_id, sale_id, external_id,
	qr_payload, amount, status, expires_at, provider_metadata, created_at,
	updated_at
	FROM pix_transactions`

func scanPixTransaction(row pgx.Row) (*pix.Transaction, error) {
	var t pix.Transaction
	err := row.Scan(&t.ID, &t.TenantID, &t.SaleID, &t.ExternalID,
		&t.QRPayload, &t.Amount, &t.Status, &t.ExpiresAt,
		&t.ProviderMetadata, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pix.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("erro ao buscar transação PIX: %w", err)
	}
	return &t, nil
}
