package dto

import (
	"time"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/register"
	"github.com/shopspring/decimal"
)

// AbrirCaixaRequest representa a abertura de uma sessão de caixa
type AbrirCaixaRequest struct {
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Notes          string          `json:"notes"`
}

// MovimentoCaixaRequest representa uma sangria ou suprimento
type MovimentoCaixaRequest struct {
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Description    string          `json:"description"`
	SupervisorCode string          `json:"supervisor_code" binding:"required"`
}

// BreakdownRequest representa a conferência por forma de pagamento
type BreakdownRequest struct {
	Cash    decimal.Decimal `json:"cash"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
	Pix     decimal.Decimal `json:"pix"`
	Voucher decimal.Decimal `json:"voucher"`
}

// FecharCaixaRequest representa o fechamento de uma sessão de caixa
type FecharCaixaRequest struct {
	CountedTotal   decimal.Decimal   `json:"counted_total"`
	Notes          string            `json:"notes"`
	Breakdown      *BreakdownRequest `json:"breakdown,omitempty"`
	SupervisorCode string            `json:"supervisor_code" binding:"required"`
}

// CaixaResponse representa uma sessão de caixa na resposta da API
type CaixaResponse struct {
	ID                  string            `json:"id"`
	OperatorID          string            `json:"operator_id"`
	OpeningBalance      decimal.Decimal   `json:"opening_balance"`
	RunningBalance      decimal.Decimal   `json:"running_balance"`
	ClosingBalance      *decimal.Decimal  `json:"closing_balance,omitempty"`
	ReconciliationDelta *decimal.Decimal  `json:"reconciliation_delta,omitempty"`
	Breakdown           *BreakdownRequest `json:"breakdown,omitempty"`
	Notes               string            `json:"notes"`
	Status              string            `json:"status"`
	OpenedAt            time.Time         `json:"opened_at"`
	ClosedAt            *time.Time        `json:"closed_at,omitempty"`
}

// MovimentoCaixaResponse representa uma movimentação de caixa na resposta
type MovimentoCaixaResponse struct {
	ID           string          `json:"id"`
	RegisterID   string          `json:"register_id"`
	Kind         string          `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	AuthorizedBy string          `json:"authorized_by"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToBreakdown converte a conferência da requisição para o domínio
func (b *BreakdownRequest) ToBreakdown() *register.CloseBreakdown {
	if b == nil {
		return nil
	}
	return &register.CloseBreakdown{
		Cash:    b.Cash,
		Debit:   b.Debit,
		Credit:  b.Credit,
		Pix:     b.Pix,
		Voucher: b.Voucher,
	}
}

// ToCaixaResponse converte uma sessão de caixa em resposta da API
func ToCaixaResponse(r *register.CashRegister) CaixaResponse {
	resp := CaixaResponse{
		ID:                  r.ID,
		OperatorID:          r.OperatorID,
		OpeningBalance:      r.OpeningBalance,
		RunningBalance:      r.RunningBalance,
		ClosingBalance:      r.ClosingBalance,
		ReconciliationDelta: r.ReconciliationDelta,
		Notes:               r.Notes,
		Status:              string(r.Status),
		OpenedAt:            r.OpenedAt,
		ClosedAt:            r.ClosedAt,
	}
	if r.Breakdown != nil {
		resp.Breakdown = &BreakdownRequest{
			Cash:    r.Breakdown.Cash,
			Debit:   r.Breakdown.Debit,
			Credit:  r.Breakdown.Credit,
			Pix:     r.Breakdown.Pix,
			Voucher: r.Breakdown.Voucher,
		}
	}
	return resp
}

// ToMovimentoCaixaResponse converte uma movimentação em resposta da API
func ToMovimentoCaixaResponse(m *register.CashMovement) MovimentoCaixaResponse {
	return MovimentoCaixaResponse{
		ID:           m.ID,
		RegisterID:   m.RegisterID,
		Kind:         string(m.Kind),
		Amount:       m.Amount,
		Description:  m.Description,
		AuthorizedBy: m.AuthorizedBy,
		CreatedAt:    m.CreatedAt,
	}
}
