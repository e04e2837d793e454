package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/register"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/sale"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/stock"
	"github.com/hugohenrick/pdv-supermercado/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SaleRepository implementa a interface sale.Repository
type SaleRepository struct {
	db *pgxpool.Pool
}

// NewSaleRepository cria uma nova instância de SaleRepository
func NewSaleRepository(db *pgxpool.Pool) sale.Repository {
	return &SaleRepository{db: db}
}

// CommitSale implementa sale.Repository.CommitSale. Venda, itens, baixas
// de estoque e movimentação de caixa são gravados em uma única transação:
// nenhuma combinação parcial sobrevive a uma falha no meio da sequência.
func (r *SaleRepository) CommitSale(ctx context.Context, s *sale.Sale) error {
	return database.Transaction(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO sales (
				id, tenant_id, operator_id, customer_id, register_id,
				subtotal, discount, total, payment_method, status,
				fiscal_status, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING number`,
			s.ID, s.TenantID, s.OperatorID, s.CustomerID, s.RegisterID,
			s.Subtotal, s.Discount, s.Total, s.PaymentMethod, s.Status,
			s.FiscalStatus, s.CreatedAt, s.UpdatedAt).Scan(&s.Number)
		if err != nil {
			return fmt.Errorf("erro ao gravar venda: %w", err)
		}

		for _, l := range s.Lines {
			_, err := tx.Exec(ctx,
				`INSERT INTO sale_lines (
					id, sale_id, product_id, description, quantity,
					unit_price, subtotal
				) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				l.ID, l.SaleID, l.ProductID, l.Description, l.Quantity,
				l.UnitPrice, l.Subtotal)
			if err != nil {
				return fmt.Errorf("erro ao gravar item da venda: %w", err)
			}
		}

		// Baixa de estoque por decremento condicional, um movimento por
		// item de catálogo. Itens avulsos não movimentam estoque.
		for _, l := range s.StockLines() {
			mv, err := stock.NewMovement(s.TenantID, *l.ProductID,
				stock.KindSaida, l.Quantity, stock.RefSale, s.ID,
				s.OperatorID, fmt.Sprintf("Venda #%d", s.Number))
			if err != nil {
				return err
			}
			if err := applyStockMovement(ctx, tx, mv); err != nil {
				return err
			}
		}

		// Vendas PIX ficam provisórias: a movimentação de caixa é
		// registrada apenas na confirmação (FinalizePix)
		if s.Status == sale.StatusFinalized {
			if err := recordSaleCashMovement(ctx, tx, s, register.MovementSale); err != nil {
				return err
			}
		}

		return nil
	})
}

// recordSaleCashMovement incrementa o saldo do caixa e registra a
// movimentação de venda, quando a venda está associada a um caixa
func recordSaleCashMovement(ctx context.Context, tx pgx.Tx, s *sale.Sale, kind register.MovementKind) error {
	if s.RegisterID == nil || !s.Total.IsPositive() {
		return nil
	}

	m, err := register.NewCashMovement(s.TenantID, *s.RegisterID, kind,
		s.Total, fmt.Sprintf("Venda #%d", s.Number), s.OperatorID)
	if err != nil {
		return err
	}

	if _, err := applyBalanceDelta(ctx, tx, m); err != nil {
		return err
	}
	return insertCashMovement(ctx, tx, m)
}

// CancelSale implementa sale.Repository.CancelSale
func (r *SaleRepository) CancelSale(ctx context.Context, s *sale.Sale, compensateCash bool) error {
	return database.Transaction(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE sales SET
				status = $3, cancelled_at = $4, cancelled_by = $5,
				cancellation_reason = $6, updated_at = $7
			WHERE id = $1 AND tenant_id = $2 AND status <> 'cancelada'`,
			s.ID, s.TenantID, s.Status, s.CancelledAt, s.CancelledBy,
			s.CancellationReason, s.UpdatedAt)
		if err != nil {
			return fmt.Errorf("erro ao cancelar venda: %w", err)
		}
		if tag.RowsAffected() == 0 {
			var status string
			lookupErr := tx.QueryRow(ctx,
				`SELECT status FROM sales WHERE id = $1 AND tenant_id = $2`,
				s.ID, s.TenantID).Scan(&status)
			if lookupErr != nil {
				if errors.Is(lookupErr, pgx.ErrNoRows) {
					return sale.ErrSaleNotFound
				}
				return fmt.Errorf("erro ao verificar venda: %w", lookupErr)
			}
			return sale.ErrAlreadyCancelled
		}

		// Estorno devolve exatamente as quantidades baixadas na venda
		cancelledBy := s.OperatorID
		if s.CancelledBy != nil {
			cancelledBy = *s.CancelledBy
		}
		for _, l := range s.StockLines() {
			mv, err := stock.NewMovement(s.TenantID, *l.ProductID,
				stock.KindEstorno, l.Quantity, stock.RefCancellation, s.ID,
				cancelledBy, fmt.Sprintf("Cancelamento da venda #%d", s.Number))
			if err != nil {
				return err
			}
			if err := applyStockMovement(ctx, tx, mv); err != nil {
				return err
			}
		}

		if compensateCash && s.RegisterID != nil && s.Total.IsPositive() {
			m, err := register.NewCashMovement(s.TenantID, *s.RegisterID,
				register.MovementSaleRefund, s.Total,
				fmt.Sprintf("Cancelamento da venda #%d", s.Number), cancelledBy)
			if err != nil {
				return err
			}
			_, err = applyBalanceDelta(ctx, tx, m)
			if err != nil {
				// Caixa já fechado: o cancelamento prossegue sem
				// compensação; o delta aparece na conferência
				if errors.Is(err, register.ErrNoOpenRegister) {
					return nil
				}
				return err
			}
			if err := insertCashMovement(ctx, tx, m); err != nil {
				return err
			}
		}

		return nil
	})
}

// FinalizePix implementa sale.Repository.FinalizePix
func (r *SaleRepository) FinalizePix(ctx context.Context, tenantID, saleID string) (*sale.Sale, error) {
	var s *sale.Sale

	err := database.Transaction(ctx, r.db, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`UPDATE sales SET status = 'finalizada', updated_at = now()
			WHERE id = $1 AND tenant_id = $2 AND status = 'pendente_pagamento'
			RETURNING `+saleColumns,
			saleID, tenantID)

		updated, err := scanSale(row)
		if err != nil {
			if !errors.Is(err, sale.ErrSaleNotFound) {
				return err
			}
			var status string
			lookupErr := tx.QueryRow(ctx,
				`SELECT status FROM sales WHERE id = $1 AND tenant_id = $2`,
				saleID, tenantID).Scan(&status)
			if lookupErr != nil {
				if errors.Is(lookupErr, pgx.ErrNoRows) {
					return sale.ErrSaleNotFound
				}
				return fmt.Errorf("erro ao verificar venda: %w", lookupErr)
			}
			return sale.ErrNotPendingPayment
		}

		if err := loadLines(ctx, tx, updated); err != nil {
			return err
		}

		if err := recordSaleCashMovement(ctx, tx, updated, register.MovementSale); err != nil {
			return err
		}

		s = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

// FindByID implementa sale.Repository.FindByID
func (r *SaleRepository) FindByID(ctx context.Context, tenantID, id string) (*sale.Sale, error) {
	s, err := scanSale(r.db.QueryRow(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE id = $1 AND tenant_id = $2`,
		id, tenantID))
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, selectLines+` WHERE sale_id = $1 ORDER BY id`, s.ID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar itens da venda: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		s.Lines = append(s.Lines, *l)
	}

	return s, rows.Err()
}

// List implementa sale.Repository.List
func (r *SaleRepository) List(ctx context.Context, tenantID string, limit, offset int) ([]*sale.Sale, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+saleColumns+` FROM sales
		WHERE tenant_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar vendas: %w", err)
	}
	defer rows.Close()

	var sales []*sale.Sale
	byID := make(map[string]*sale.Sale)
	var ids []string
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return sales, nil
	}

	lineRows, err := r.db.Query(ctx, selectLines+` WHERE sale_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar itens das vendas: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		l, err := scanLine(lineRows)
		if err != nil {
			return nil, err
		}
		if s, ok := byID[l.SaleID]; ok {
			s.Lines = append(s.Lines, *l)
		}
	}

	return sales, lineRows.Err()
}

// UpdateFiscalStatus implementa sale.Repository.UpdateFiscalStatus
func (r *SaleRepository) UpdateFiscalStatus(ctx context.Context, tenantID, id string, status sale.FiscalStatus, receiptKey string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE sales SET fiscal_status = $3, fiscal_receipt_key = $4,
			updated_at = now()
		WHERE id = $1 AND tenant_id = $2`,
		id, tenantID, status, receiptKey)
	if err != nil {
		return fmt.Errorf("erro ao atualizar status fiscal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sale.ErrSaleNotFound
	}
	return nil
}

const saleColumns = `id, number, tenant_id, operator_id, customer_id,
	register_id, subtotal, discount, total, payment_method, status,
	fiscal_status, fiscal_receipt_key, cancelled_at, cancelled_by,
	cancellation_reason, created_at, updated_at`

const selectLines = `SELECT id, sale_id, product_id, description, quantity,
	unit_price, subtotal
	FROM sale_lines`

func scanSale(row pgx.Row) (*sale.Sale, error) {
	var s sale.Sale
	err := row.Scan(&s.ID, &s.Number, &s.TenantID, &s.OperatorID,
		&s.CustomerID, &s.RegisterID, &s.Subtotal, &s.Discount, &s.Total,
		&s.PaymentMethod, &s.Status, &s.FiscalStatus, &s.FiscalReceiptKey,
		&s.CancelledAt, &s.CancelledBy, &s.CancellationReason,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sale.ErrSaleNotFound
		}
		return nil, fmt.Errorf("erro ao buscar venda: %w", err)
	}
	return &s, nil
}

func scanLine(row pgx.Row) (*sale.Line, error) {
	var l sale.Line
	err := row.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.Description,
		&l.Quantity, &l.UnitPrice, &l.Subtotal)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler item da venda: %w", err)
	}
	return &l, nil
}

func loadLines(ctx context.Context, tx pgx.Tx, s *sale.Sale) error {
	rows, err := tx.Query(ctx, selectLines+` WHERE sale_id = $1 ORDER BY id`, s.ID)
	if err != nil {
		return fmt.Errorf("erro ao buscar itens da venda: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return err
		}
		s.Lines = append(s.Lines, *l)
	}
	return rows.Err()
}
