package service

import (
	"context"
)

// Dispatcher enfileira trabalhos assíncronos. A implementação fica em
// internal/worker (fila Redis); os serviços dependem só deste contrato.
type Dispatcher interface {
	// EnqueueFiscalIssuance agenda a emissão do cupom fiscal de uma venda
	EnqueueFiscalIssuance(ctx context.Context, tenantID, saleID string) error

	// EnqueuePixPoll agenda o acompanhamento de uma cobrança PIX pendente
	EnqueuePixPoll(ctx context.Context, tenantID, transactionID string) error
}
