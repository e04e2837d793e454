package dto

import (
	"encoding/json"
	"time"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/pix"
	"github.com/shopspring/decimal"
)

// PixTransactionResponse representa uma cobrança PIX na resposta da API
type PixTransactionResponse struct {
	ID         string          `json:"id"`
	SaleID     string          `json:"sale_id"`
	ExternalID string          `json:"external_id"`
	QRPayload  string          `json:"qr_payload"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	ExpiresAt  *time.Time      `json:"expires_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// PixWebhookRequest representa o evento de mudança de status enviado
// pelo gateway, chaveado pelo ID externo da cobrança
type PixWebhookRequest struct {
	ExternalID string          `json:"external_id" binding:"required"`
	Status     string          `json:"status" binding:"required"`
	Detail     json.RawMessage `json:"detail,omitempty"`
}

// ToPixTransactionResponse converte uma cobrança em resposta da API
func ToPixTransactionResponse(t *pix.Transaction) PixTransactionResponse {
	return PixTransactionResponse{
		ID:         t.ID,
		SaleID:     t.SaleID,
		ExternalID: t.ExternalID,
		QRPayload:  t.QRPayload,
		Amount:     t.Amount,
		Status:     string(t.Status),
		ExpiresAt:  t.ExpiresAt,
		CreatedAt:  t.CreatedAt,
	}
}
