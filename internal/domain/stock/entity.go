package stock

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantidade deve ser maior que zero")
	ErrInvalidKind     = errors.New("tipo de movimentação inválido")
	ErrProductNotFound = errors.New("produto não encontrado")
)

// Kind define o tipo de movimentação de estoque
type Kind string

const (
	KindEntrada Kind = "entrada" // Entrada de mercadoria
	KindSaida   Kind = "saida"   // Baixa por venda
	KindAjuste  Kind = "ajuste"  // Acerto absoluto de inventário
	KindEstorno Kind = "estorno" // Reversão de baixa (cancelamento de venda)
)

// Valid verifica se o tipo é reconhecido
func (k Kind) Valid() bool {
	switch k {
	case KindEntrada, KindSaida, KindAjuste, KindEstorno:
		return true
	}
	return false
}

// ReferenceKind identifica a origem de uma movimentação
type ReferenceKind string

const (
	RefSale         ReferenceKind = "venda"
	RefCancellation ReferenceKind = "cancelamento"
	RefInventory    ReferenceKind = "inventario"
)

// Movement representa um registro imutável de movimentação de estoque.
// Guarda o estoque antes e depois para trilha de auditoria.
type Movement struct {
	ID            string          `json:"id"`
	TenantID      string          `json:"tenant_id"`
	ProductID     string          `json:"product_id"`
	Kind          Kind            `json:"kind"`
	Quantity      decimal.Decimal `json:"quantity"`
	StockBefore   decimal.Decimal `json:"stock_before"`
	StockAfter    decimal.Decimal `json:"stock_after"`
	ReferenceKind ReferenceKind   `json:"reference_kind"`
	ReferenceID   string          `json:"reference_id"`
	UserID        string          `json:"user_id"`
	Note          string          `json:"note"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NewMovement cria uma nova movimentação de estoque ainda não aplicada.
// StockBefore e StockAfter são preenchidos pelo repositório no momento
// da aplicação atômica.
func NewMovement(tenantID, productID string, kind Kind, quantity decimal.Decimal, refKind ReferenceKind, refID, userID, note string) (*Movement, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	// Ajuste aceita zero (zerar estoque); os demais exigem quantidade positiva
	if kind == KindAjuste {
		if quantity.IsNegative() {
			return nil, ErrInvalidQuantity
		}
	} else if !quantity.IsPositive() {
		return nil, ErrInvalidQuantity
	}

	return &Movement{
		ID:            uuid.New().String(),
		TenantID:      tenantID,
		ProductID:     productID,
		Kind:          kind,
		Quantity:      quantity,
		ReferenceKind: refKind,
		ReferenceID:   refID,
		UserID:        userID,
		Note:          note,
		CreatedAt:     time.Now(),
	}, nil
}

// InsufficientStockError indica que uma saída deixaria o estoque negativo.
// Carrega o estoque disponível para mensagem ao usuário.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   decimal.Decimal
	Requested   decimal.Decimal
}

// Error implementa a interface error
func (e *InsufficientStockError) Error() string {
	if e.ProductName != "" {
		return fmt.Sprintf("estoque insuficiente para %s. Disponível: %s", e.ProductName, e.Available.String())
	}
	return fmt.Sprintf("estoque insuficiente. Disponível: %s", e.Available.String())
}

// IsInsufficientStock verifica se o erro é de estoque insuficiente
func IsInsufficientStock(err error) bool {
	var target *InsufficientStockError
	return errors.As(err, &target)
}
