package pix

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Charge representa a cobrança criada junto ao gateway externo
type Charge struct {
	ExternalID string
	QRPayload  string
	ExpiresAt  *time.Time
}

// Credentials contém as credenciais de acesso ao gateway de um tenant
type Credentials struct {
	APIKey string
}

// CredentialsProvider resolve as credenciais do gateway por tenant
type CredentialsProvider interface {
	Credentials(ctx context.Context, tenantID string) (*Credentials, error)
}

// Gateway define o contrato com o processador de pagamentos PIX externo.
// Alcançado por HTTPS autenticado; a implementação fica na camada de
// infraestrutura.
type Gateway interface {
	// CreateCharge cria uma cobrança e retorna o payload do QR Code
	CreateCharge(ctx context.Context, tenantID string, amount decimal.Decimal, reference string) (*Charge, error)

	// GetChargeStatus consulta o status atual da cobrança no gateway
	GetChargeStatus(ctx context.Context, tenantID, externalID string) (Status, json.RawMessage, error)

	// Refund solicita o estorno de uma cobrança aprovada
	Refund(ctx context.Context, tenantID, externalID string) error
}
