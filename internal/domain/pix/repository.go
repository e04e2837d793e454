package pix

import (
	"context"
	"encoding/json"
)

// Repository define a interface para operações de repositório de
// transações PIX
type Repository interface {
	// Create persiste uma nova cobrança
	Create(ctx context.Context, t *Transaction) error

	// FindByID busca uma cobrança pelo ID
	FindByID(ctx context.Context, tenantID, id string) (*Transaction, error)

	// FindBySale busca a cobrança mais recente de uma venda
	FindBySale(ctx context.Context, tenantID, saleID string) (*Transaction, error)

	// FindByExternalID busca uma cobrança pelo ID externo do gateway.
	// Usado pelo receptor de webhooks.
	FindByExternalID(ctx context.Context, externalID string) (*Transaction, error)

	// UpdateStatus aplica a transição de status condicionalmente: a
	// escrita só acontece se o status atual for `from`. Retorna
	// ErrInvalidTransition quando a condição não é satisfeita, o que
	// torna webhook e polling idempotentes entre si.
	UpdateStatus(ctx context.Context, tenantID, id string, from, to Status, metadata json.RawMessage) error

	// ListPending lista as cobranças pendentes de um tenant, para o
	// poller de confirmação
	ListPending(ctx context.Context, tenantID string, limit int) ([]*Transaction, error)
}
