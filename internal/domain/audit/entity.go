package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Códigos de ação registrados na trilha de auditoria
const (
	ActionRegisterOpened = "caixa_aberto"
	ActionRegisterClosed = "caixa_fechado"
	ActionSangria        = "sangria"
	ActionSuprimento     = "suprimento"
	ActionSaleCreated    = "venda_criada"
	ActionSaleCancelled  = "venda_cancelada"
	ActionStockAdjusted  = "estoque_ajustado"
	ActionPixApproved    = "pix_aprovado"
	ActionPixRefunded    = "pix_estornado"
)

// Entry representa um registro imutável da trilha de auditoria
type Entry struct {
	ID         string          `json:"id"`
	TenantID   string          `json:"tenant_id"`
	UserID     string          `json:"user_id"`
	OperatorID string          `json:"operator_id,omitempty"` // Operador de caixa, quando distinto do usuário
	Action     string          `json:"action"`
	EntityKind string          `json:"entity_kind"`
	EntityID   string          `json:"entity_id"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	Reason     string          `json:"reason,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewEntry cria um novo registro de auditoria. Os snapshots antes/depois
// são serializados para JSON; falhas de serialização resultam em snapshot
// vazio em vez de erro — auditoria nunca bloqueia a operação de negócio.
func NewEntry(tenantID, userID, operatorID, action, entityKind, entityID string, before, after interface{}, reason string) *Entry {
	e := &Entry{
		ID:         uuid.New().String(),
		TenantID:   tenantID,
		UserID:     userID,
		OperatorID: operatorID,
		Action:     action,
		EntityKind: entityKind,
		EntityID:   entityID,
		Reason:     reason,
		CreatedAt:  time.Now(),
	}

	if before != nil {
		if raw, err := json.Marshal(before); err == nil {
			e.Before = raw
		}
	}
	if after != nil {
		if raw, err := json.Marshal(after); err == nil {
			e.After = raw
		}
	}

	return e
}
