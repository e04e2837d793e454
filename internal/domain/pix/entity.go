package pix

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount        = errors.New("valor da cobrança deve ser maior que zero")
	ErrTransactionNotFound  = errors.New("transação PIX não encontrada")
	ErrInvalidTransition    = errors.New("transição de status PIX inválida")
	ErrChargeNotApproved    = errors.New("a cobrança PIX não está aprovada")
	ErrChargeAlreadySettled = errors.New("a cobrança PIX já foi liquidada")
)

// Status representa o estado de uma cobrança PIX
type Status string

const (
	StatusPending  Status = "pendente"
	StatusApproved Status = "aprovada"
	StatusRejected Status = "rejeitada"
	StatusRefunded Status = "estornada"
)

// Transaction representa uma cobrança PIX junto ao gateway externo.
// Criada pendente; mutada apenas pelo protocolo assíncrono de
// confirmação (webhook/polling) ou pelo fluxo de estorno.
type Transaction struct {
	ID               string          `json:"id"`
	TenantID         string          `json:"tenant_id"`
	SaleID           string          `json:"sale_id"`
	ExternalID       string          `json:"external_id"` // ID da cobrança no gateway
	QRPayload        string          `json:"qr_payload"`  // Copia-e-cola do QR Code
	Amount           decimal.Decimal `json:"amount"`
	Status           Status          `json:"status"`
	ExpiresAt        *time.Time      `json:"expires_at,omitempty"`
	ProviderMetadata json.RawMessage `json:"provider_metadata,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// NewTransaction cria uma cobrança PIX pendente
func NewTransaction(tenantID, saleID, externalID, qrPayload string, amount decimal.Decimal, expiresAt *time.Time) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	now := time.Now()
	return &Transaction{
		ID:         uuid.New().String(),
		TenantID:   tenantID,
		SaleID:     saleID,
		ExternalID: externalID,
		QRPayload:  qrPayload,
		Amount:     amount,
		Status:     StatusPending,
		ExpiresAt:  expiresAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// StatusFromProvider traduz o status reportado pelo gateway para o
// status interno. Status desconhecidos são tratados como pendente.
func StatusFromProvider(s string) Status {
	switch s {
	case "approved", "paid":
		return StatusApproved
	case "rejected", "cancelled", "expired":
		return StatusRejected
	case "refunded":
		return StatusRefunded
	default:
		return StatusPending
	}
}

// IsPending verifica se a cobrança ainda aguarda confirmação
func (t *Transaction) IsPending() bool {
	return t.Status == StatusPending
}

// CanTransition verifica se a mudança de status é permitida.
// pendente → aprovada|rejeitada; aprovada → estornada.
func (t *Transaction) CanTransition(to Status) bool {
	switch t.Status {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected
	case StatusApproved:
		return to == StatusRefunded
	}
	return false
}
