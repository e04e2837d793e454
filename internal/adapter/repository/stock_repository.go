package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/stock"
	"github.com/hugohenrick/pdv-supermercado/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// StockRepository implementa a interface stock.Repository
type StockRepository struct {
	db *pgxpool.Pool
}

// NewStockRepository cria uma nova instância de StockRepository
func NewStockRepository(db *pgxpool.Pool) stock.Repository {
	return &StockRepository{db: db}
}

// Apply implementa stock.Repository.Apply
func (r *StockRepository) Apply(ctx context.Context, m *stock.Movement) (*stock.Movement, error) {
	err := database.Transaction(ctx, r.db, func(tx pgx.Tx) error {
		return applyStockMovement(ctx, tx, m)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// applyStockMovement aplica a movimentação dentro de uma transação já
// aberta, preenchendo StockBefore/StockAfter. Usado também pelo commit
// de venda e pelo cancelamento.
//
// A baixa (saida) usa decremento condicional — a condição de estoque
// suficiente é avaliada pelo banco sobre a tupla corrente, o que elimina
// a corrida read-then-write entre caixas concorrentes.
func applyStockMovement(ctx context.Context, tx pgx.Tx, m *stock.Movement) error {
	var query string
	switch m.Kind {
	case stock.KindSaida:
		query = `UPDATE products p
			SET stock = p.stock - $3, updated_at = now()
			FROM (SELECT id, stock FROM products WHERE id = $1 AND tenant_id = $2 FOR UPDATE) AS old
			WHERE p.id = old.id AND p.stock >= $3
			RETURNING old.stock, p.stock`
	case stock.KindEntrada, stock.KindEstorno:
		query = `UPDATE products p
			SET stock = p.stock + $3, updated_at = now()
			FROM (SELECT id, stock FROM products WHERE id = $1 AND tenant_id = $2 FOR UPDATE) AS old
			WHERE p.id = old.id
			RETURNING old.stock, p.stock`
	case stock.KindAjuste:
		// Acerto absoluto: a quantidade é o novo estoque, não um delta
		query = `UPDATE products p
			SET stock = $3, updated_at = now()
			FROM (SELECT id, stock FROM products WHERE id = $1 AND tenant_id = $2 FOR UPDATE) AS old
			WHERE p.id = old.id
			RETURNING old.stock, p.stock`
	default:
		return stock.ErrInvalidKind
	}

	var before, after decimal.Decimal
	err := tx.QueryRow(ctx, query, m.ProductID, m.TenantID, m.Quantity).Scan(&before, &after)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return stockShortfall(ctx, tx, m)
		}
		return fmt.Errorf("erro ao movimentar estoque: %w", err)
	}

	m.StockBefore = before
	m.StockAfter = after

	_, err = tx.Exec(ctx,
		`INSERT INTO stock_movements (
			id, tenant_id, product_id, kind, quantity, stock_before,
			stock_after, reference_kind, reference_id, user_id, note, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		m.ID, m.TenantID, m.ProductID, m.Kind, m.Quantity, m.StockBefore,
		m.StockAfter, m.ReferenceKind, m.ReferenceID, m.UserID, m.Note,
		m.CreatedAt)
	if err != nil {
		return fmt.Errorf("erro ao registrar movimentação de estoque: %w", err)
	}

	return nil
}

// stockShortfall monta o erro quando a baixa condicional não afetou
// nenhuma linha: produto inexistente ou estoque insuficiente
func stockShortfall(ctx context.Context, tx pgx.Tx, m *stock.Movement) error {
	var name string
	var available decimal.Decimal
	err := tx.QueryRow(ctx,
		`SELECT name, stock FROM products WHERE id = $1 AND tenant_id = $2`,
		m.ProductID, m.TenantID).Scan(&name, &available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return stock.ErrProductNotFound
		}
		return fmt.Errorf("erro ao verificar produto: %w", err)
	}

	return &stock.InsufficientStockError{
		ProductID:   m.ProductID,
		ProductName: name,
		Available:   available,
		Requested:   m.Quantity,
	}
}

// ListByProduct implementa stock.Repository.ListByProduct
func (r *StockRepository) ListByProduct(ctx context.Context, tenantID, productID string, limit, offset int) ([]*stock.Movement, error) {
	rows, err := r.db.Query(ctx,
		selectStockMovement+`
		WHERE tenant_id = $1 AND product_id = $2
		ORDER BY created_at DESC, id LIMIT $3 OFFSET $4`,
		tenantID, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar movimentações de estoque: %w", err)
	}
	defer rows.Close()

	return scanStockMovements(rows)
}

// ListByReference implementa stock.Repository.ListByReference
func (r *StockRepository) ListByReference(ctx context.Context, tenantID string, refKind stock.ReferenceKind, refID string) ([]*stock.Movement, error) {
	rows, err := r.db.Query(ctx,
		selectStockMovement+`
		WHERE tenant_id = $1 AND reference_kind = $2 AND reference_id = $3
		ORDER BY created_at, id`,
		tenantID, refKind, refID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar movimentações de estoque: %w", err)
	}
	defer rows.Close()

	return scanStockMovements(rows)
}

const selectStockMovement = `SELECT id, tenant_id, product_id, kind, quantity,
	stock_before, stock_after, reference_kind, reference_id, user_id, note,
	created_at
	FROM stock_movements`

func scanStockMovements(rows pgx.Rows) ([]*stock.Movement, error) {
	var movements []*stock.Movement
	for rows.Next() {
		var m stock.Movement
		if err := rows.Scan(&m.ID, &m.TenantID, &m.ProductID, &m.Kind,
			&m.Quantity, &m.StockBefore, &m.StockAfter, &m.ReferenceKind,
			&m.ReferenceID, &m.UserID, &m.Note, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler movimentação de estoque: %w", err)
		}
		movements = append(movements, &m)
	}
	return movements, rows.Err()
}
