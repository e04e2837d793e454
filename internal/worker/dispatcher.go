package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Filas de trabalhos assíncronos no Redis
const (
	QueueFiscal  = "jobs:fiscal"
	QueuePixPoll = "jobs:pix-poll"
)

// Job é o envelope genérico dos trabalhos assíncronos
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// FiscalJobPayload é a carga do trabalho de emissão de cupom fiscal
type FiscalJobPayload struct {
	TenantID string `json:"tenant_id"`
	SaleID   string `json:"sale_id"`
}

// PixPollJobPayload é a carga do trabalho de acompanhamento de cobrança PIX
type PixPollJobPayload struct {
	TenantID      string `json:"tenant_id"`
	TransactionID string `json:"transaction_id"`
}

// Dispatcher enfileira trabalhos em listas Redis; o pool de workers
// consome via BRPOP. Implementa service.Dispatcher.
type Dispatcher struct {
	rdb *redis.Client
}

// NewDispatcher cria uma nova instância de Dispatcher
func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueFiscalIssuance agenda a emissão do cupom fiscal de uma venda
func (d *Dispatcher) EnqueueFiscalIssuance(ctx context.Context, tenantID, saleID string) error {
	return d.enqueue(ctx, QueueFiscal, "fiscal", FiscalJobPayload{
		TenantID: tenantID,
		SaleID:   saleID,
	})
}

// EnqueuePixPoll agenda o acompanhamento de uma cobrança PIX pendente
func (d *Dispatcher) EnqueuePixPoll(ctx context.Context, tenantID, transactionID string) error {
	return d.enqueue(ctx, QueuePixPoll, "pix-poll", PixPollJobPayload{
		TenantID:      tenantID,
		TransactionID: transactionID,
	})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao serializar trabalho %s: %w", jobType, err)
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return fmt.Errorf("erro ao serializar envelope do trabalho: %w", err)
	}
	if err := d.rdb.LPush(ctx, queue, encoded).Err(); err != nil {
		return fmt.Errorf("erro ao enfileirar trabalho em %s: %w", queue, err)
	}
	return nil
}
