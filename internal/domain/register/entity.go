package register

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNegativeOpeningBalance = errors.New("saldo de abertura não pode ser negativo")
	ErrNegativeCountedTotal   = errors.New("valor conferido não pode ser negativo")
	ErrInvalidAmount          = errors.New("valor deve ser maior que zero")
	ErrAlreadyOpen            = errors.New("já existe um caixa aberto para este operador")
	ErrAlreadyClosed          = errors.New("o caixa já está fechado")
	ErrNoOpenRegister         = errors.New("não há caixa aberto")
	ErrInsufficientBalance    = errors.New("saldo insuficiente para sangria")
	ErrRegisterNotFound       = errors.New("caixa não encontrado")
)

// Status representa o estado de uma sessão de caixa
type Status string

const (
	StatusOpen   Status = "aberto"
	StatusClosed Status = "fechado"
)

// MovementKind define o tipo de movimentação de caixa
type MovementKind string

const (
	MovementSangria    MovementKind = "sangria"       // Retirada autorizada
	MovementSuprimento MovementKind = "suprimento"    // Reforço de troco
	MovementSale       MovementKind = "venda"         // Entrada por venda finalizada
	MovementSaleRefund MovementKind = "estorno_venda" // Compensação por venda cancelada
)

// Valid verifica se o tipo é reconhecido
func (k MovementKind) Valid() bool {
	switch k {
	case MovementSangria, MovementSuprimento, MovementSale, MovementSaleRefund:
		return true
	}
	return false
}

// CloseBreakdown representa a conferência por forma de pagamento no fechamento
type CloseBreakdown struct {
	Cash    decimal.Decimal `json:"cash"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
	Pix     decimal.Decimal `json:"pix"`
	Voucher decimal.Decimal `json:"voucher"`
}

// CashRegister representa uma sessão de caixa de um operador.
// Ciclo de vida: criado aberto, fechado exatamente uma vez, sem reabertura.
type CashRegister struct {
	ID                  string           `json:"id"`
	TenantID            string           `json:"tenant_id"`
	OperatorID          string           `json:"operator_id"`
	OpeningBalance      decimal.Decimal  `json:"opening_balance"`
	RunningBalance      decimal.Decimal  `json:"running_balance"`
	ClosingBalance      *decimal.Decimal `json:"closing_balance,omitempty"`
	ReconciliationDelta *decimal.Decimal `json:"reconciliation_delta,omitempty"`
	Breakdown           *CloseBreakdown  `json:"breakdown,omitempty"`
	Notes               string           `json:"notes"`
	Status              Status           `json:"status"`
	OpenedAt            time.Time        `json:"opened_at"`
	ClosedAt            *time.Time       `json:"closed_at,omitempty"`
}

// NewCashRegister abre uma nova sessão de caixa
func NewCashRegister(tenantID, operatorID string, openingBalance decimal.Decimal, notes string) (*CashRegister, error) {
	if openingBalance.IsNegative() {
		return nil, ErrNegativeOpeningBalance
	}

	return &CashRegister{
		ID:             uuid.New().String(),
		TenantID:       tenantID,
		OperatorID:     operatorID,
		OpeningBalance: openingBalance,
		RunningBalance: openingBalance,
		Notes:          notes,
		Status:         StatusOpen,
		OpenedAt:       time.Now(),
	}, nil
}

// IsOpen verifica se a sessão está aberta
func (r *CashRegister) IsOpen() bool {
	return r.Status == StatusOpen
}

// Close fecha a sessão registrando o valor conferido. O delta de
// conferência (conferido − saldo corrente) é reportado, nunca bloqueia
// o fechamento.
func (r *CashRegister) Close(countedTotal decimal.Decimal, notes string, breakdown *CloseBreakdown) error {
	if !r.IsOpen() {
		return ErrAlreadyClosed
	}
	if countedTotal.IsNegative() {
		return ErrNegativeCountedTotal
	}

	delta := countedTotal.Sub(r.RunningBalance)
	now := time.Now()

	r.ClosingBalance = &countedTotal
	r.ReconciliationDelta = &delta
	r.Breakdown = breakdown
	if notes != "" {
		r.Notes = notes
	}
	r.Status = StatusClosed
	r.ClosedAt = &now
	return nil
}

// CashMovement representa uma movimentação de caixa. Registro imutável:
// nunca é atualizado ou removido.
type CashMovement struct {
	ID           string          `json:"id"`
	RegisterID   string          `json:"register_id"`
	TenantID     string          `json:"tenant_id"`
	Kind         MovementKind    `json:"kind"`
	Amount       decimal.Decimal `json:"amount"` // Sempre positivo; o sinal vem do tipo
	Description  string          `json:"description"`
	AuthorizedBy string          `json:"authorized_by"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NewCashMovement cria uma nova movimentação de caixa
func NewCashMovement(tenantID, registerID string, kind MovementKind, amount decimal.Decimal, description, authorizedBy string) (*CashMovement, error) {
	if !kind.Valid() {
		return nil, errors.New("tipo de movimentação de caixa inválido")
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	return &CashMovement{
		ID:           uuid.New().String(),
		RegisterID:   registerID,
		TenantID:     tenantID,
		Kind:         kind,
		Amount:       amount,
		Description:  description,
		AuthorizedBy: authorizedBy,
		CreatedAt:    time.Now(),
	}, nil
}

// Delta retorna o efeito da movimentação sobre o saldo corrente
func (m *CashMovement) Delta() decimal.Decimal {
	if m.Kind == MovementSangria || m.Kind == MovementSaleRefund {
		return m.Amount.Neg()
	}
	return m.Amount
}
