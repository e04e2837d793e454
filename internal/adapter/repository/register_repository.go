package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/register"
	"github.com/hugohenrick/pdv-supermercado/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRepository implementa a interface register.Repository
type RegisterRepository struct {
	db *pgxpool.Pool
}

// NewRegisterRepository cria uma nova instância de RegisterRepository
func NewRegisterRepository(db *pgxpool.Pool) register.Repository {
	return &RegisterRepository{db: db}
}

// Create implementa register.Repository.Create. A unicidade de sessão
// aberta por operador é garantida por índice único parcial no banco.
func (r *RegisterRepository) Create(ctx context.Context, reg *register.CashRegister) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO cash_registers (
			id, tenant_id, operator_id, opening_balance, running_balance,
			notes, status, opened_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		reg.ID, reg.TenantID, reg.OperatorID, reg.OpeningBalance,
		reg.RunningBalance, reg.Notes, reg.Status, reg.OpenedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return register.ErrAlreadyOpen
		}
		return fmt.Errorf("erro ao abrir caixa: %w", err)
	}

	return nil
}

// FindByID implementa register.Repository.FindByID
func (r *RegisterRepository) FindByID(ctx context.Context, tenantID, id string) (*register.CashRegister, error) {
	return r.scanRegister(r.db.QueryRow(ctx,
		selectRegister+` WHERE id = $1 AND tenant_id = $2`, id, tenantID))
}

// FindOpenByOperator implementa register.Repository.FindOpenByOperator
func (r *RegisterRepository) FindOpenByOperator(ctx context.Context, tenantID, operatorID string) (*register.CashRegister, error) {
	return r.scanRegister(r.db.QueryRow(ctx,
		selectRegister+` WHERE tenant_id = $1 AND operator_id = $2 AND status = $3`,
		tenantID, operatorID, register.StatusOpen))
}

// RecordMovement implementa register.Repository.RecordMovement.
// O saldo corrente é mutado por update condicional no banco — nunca por
// read-modify-write no cliente — e a movimentação é registrada na mesma
// transação.
func (r *RegisterRepository) RecordMovement(ctx context.Context, m *register.CashMovement) (*register.CashRegister, error) {
	var updated *register.CashRegister

	err := database.Transaction(ctx, r.db, func(tx pgx.Tx) error {
		reg, err := applyBalanceDelta(ctx, tx, m)
		if err != nil {
			return err
		}
		if err := insertCashMovement(ctx, tx, m); err != nil {
			return err
		}
		updated = reg
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// applyBalanceDelta aplica o delta da movimentação sobre o saldo da
// sessão, exigindo sessão aberta e, para sangria, saldo suficiente
func applyBalanceDelta(ctx context.Context, tx pgx.Tx, m *register.CashMovement) (*register.CashRegister, error) {
	delta := m.Delta()

	query := `UPDATE cash_registers
		SET running_balance = running_balance + $3
		WHERE id = $1 AND tenant_id = $2 AND status = 'aberto'`
	if delta.IsNegative() {
		query += ` AND running_balance >= $4`
	}
	query += ` RETURNING ` + registerColumns

	var row pgx.Row
	if delta.IsNegative() {
		row = tx.QueryRow(ctx, query, m.RegisterID, m.TenantID, delta, delta.Neg())
	} else {
		row = tx.QueryRow(ctx, query, m.RegisterID, m.TenantID, delta)
	}

	reg, err := scanRegisterRow(row)
	if err == nil {
		return reg, nil
	}
	if !errors.Is(err, register.ErrRegisterNotFound) {
		return nil, err
	}

	// Nenhuma linha atualizada: distinguir sessão fechada/inexistente de
	// saldo insuficiente
	var status string
	lookupErr := tx.QueryRow(ctx,
		`SELECT status FROM cash_registers WHERE id = $1 AND tenant_id = $2`,
		m.RegisterID, m.TenantID).Scan(&status)
	if lookupErr != nil {
		if errors.Is(lookupErr, pgx.ErrNoRows) {
			return nil, register.ErrRegisterNotFound
		}
		return nil, fmt.Errorf("erro ao verificar caixa: %w", lookupErr)
	}
	if status != string(register.StatusOpen) {
		return nil, register.ErrNoOpenRegister
	}
	return nil, register.ErrInsufficientBalance
}

func insertCashMovement(ctx context.Context, tx pgx.Tx, m *register.CashMovement) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO cash_movements (
			id, register_id, tenant_id, kind, amount, description,
			authorized_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.RegisterID, m.TenantID, m.Kind, m.Amount, m.Description,
		m.AuthorizedBy, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("erro ao registrar movimentação de caixa: %w", err)
	}
	return nil
}

// Close implementa register.Repository.Close. O fechamento acontece
// exatamente uma vez: a condição status='aberto' torna a operação
// idempotente sob concorrência. O delta de conferência sai do saldo
// corrente persistido dentro do próprio UPDATE — uma venda que entra
// entre a leitura da sessão e o fechamento ainda é contabilizada.
func (r *RegisterRepository) Close(ctx context.Context, reg *register.CashRegister) error {
	var breakdown []byte
	if reg.Breakdown != nil {
		var err error
		breakdown, err = json.Marshal(reg.Breakdown)
		if err != nil {
			return fmt.Errorf("erro ao serializar conferência: %w", err)
		}
	}

	err := r.db.QueryRow(ctx,
		`UPDATE cash_registers SET
			status = $3, closing_balance = $4,
			reconciliation_delta = $4 - running_balance,
			breakdown = $5, notes = $6, closed_at = $7
		WHERE id = $1 AND tenant_id = $2 AND status = 'aberto'
		RETURNING running_balance, reconciliation_delta`,
		reg.ID, reg.TenantID, reg.Status, reg.ClosingBalance,
		breakdown, reg.Notes, reg.ClosedAt).
		Scan(&reg.RunningBalance, &reg.ReconciliationDelta)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return register.ErrAlreadyClosed
		}
		return fmt.Errorf("erro ao fechar caixa: %w", err)
	}

	return nil
}

// ListMovements implementa register.Repository.ListMovements
func (r *RegisterRepository) ListMovements(ctx context.Context, tenantID, registerID string) ([]*register.CashMovement, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, register_id, tenant_id, kind, amount, description,
			authorized_by, created_at
		FROM cash_movements
		WHERE tenant_id = $1 AND register_id = $2
		ORDER BY created_at, id`,
		tenantID, registerID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar movimentações: %w", err)
	}
	defer rows.Close()

	var movements []*register.CashMovement
	for rows.Next() {
		var m register.CashMovement
		if err := rows.Scan(&m.ID, &m.RegisterID, &m.TenantID, &m.Kind,
			&m.Amount, &m.Description, &m.AuthorizedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler movimentação: %w", err)
		}
		movements = append(movements, &m)
	}

	return movements, rows.Err()
}

// List implementa register.Repository.List
func (r *RegisterRepository) List(ctx context.Context, tenantID string, limit, offset int) ([]*register.CashRegister, error) {
	rows, err := r.db.Query(ctx,
		selectRegister+` WHERE tenant_id = $1 ORDER BY opened_at DESC LIMIT $2 OFFSET $3`,
		tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar caixas: %w", err)
	}
	defer rows.Close()

	var registers []*register.CashRegister
	for rows.Next() {
		reg, err := scanRegisterRow(rows)
		if err != nil {
			return nil, err
		}
		registers = append(registers, reg)
	}

	return registers, rows.Err()
}

const registerColumns = `id, tenant_id, operator_id, opening_balance,
	running_balance, closing_balance, reconciliation_delta, breakdown,
	notes, status, opened_at, closed_at`

const selectRegister = `SELECT ` + registerColumns + ` FROM cash_registers`

func (r *RegisterRepository) scanRegister(row pgx.Row) (*register.CashRegister, error) {
	return scanRegisterRow(row)
}

func scanRegisterRow(row pgx.Row) (*register.CashRegister, error) {
	var reg register.CashRegister
	var breakdown []byte

	err := row.Scan(&reg.ID, &reg.TenantID, &reg.OperatorID,
		&reg.OpeningBalance, &reg.RunningBalance, &reg.ClosingBalance,
		&reg.ReconciliationDelta, &breakdown, &reg.Notes, &reg.Status,
		&reg.OpenedAt, &reg.ClosedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, register.ErrRegisterNotFound
		}
		return nil, fmt.Errorf("erro ao buscar caixa: %w", err)
	}

	if len(breakdown) > 0 {
		var b register.CloseBreakdown
		if err := json.Unmarshal(breakdown, &b); err != nil {
			return nil, fmt.Errorf("erro ao converter conferência: %w", err)
		}
		reg.Breakdown = &b
	}

	return &reg, nil
}
