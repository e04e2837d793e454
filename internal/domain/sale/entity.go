package sale

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart            = errors.New("não é possível finalizar uma venda sem itens")
	ErrInvalidPaymentMethod = errors.New("forma de pagamento inválida")
	ErrInvalidDiscount      = errors.New("desconto inválido")
	ErrSaleNotFound         = errors.New("venda não encontrada")
	ErrAlreadyCancelled     = errors.New("a venda já está cancelada")
	ErrNotPendingPayment    = errors.New("a venda não está aguardando pagamento")
)

// PaymentMethod define a forma de pagamento da venda
type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "dinheiro"
	PaymentDebit       PaymentMethod = "debito"
	PaymentCredit      PaymentMethod = "credito"
	PaymentPix         PaymentMethod = "pix"
	PaymentStoreCredit PaymentMethod = "fiado"
)

// Valid verifica se a forma de pagamento é reconhecida
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentDebit, PaymentCredit, PaymentPix, PaymentStoreCredit:
		return true
	}
	return false
}

// Status representa o estado da venda
type Status string

const (
	// StatusPendingPayment é o estado provisório de vendas PIX até a
	// confirmação assíncrona do gateway
	StatusPendingPayment Status = "pendente_pagamento"
	StatusFinalized      Status = "finalizada"
	StatusCancelled      Status = "cancelada"
)

// FiscalStatus representa o estado da emissão do cupom fiscal
type FiscalStatus string

const (
	FiscalPending    FiscalStatus = "pendente"
	FiscalProcessing FiscalStatus = "processando"
	FiscalIssued     FiscalStatus = "emitida"
	FiscalError      FiscalStatus = "erro"
)

// Line representa um item da venda. ProductID nulo indica item manual
// (produto avulso fora do catálogo), excluído do controle de estoque.
type Line struct {
	ID          string          `json:"id"`
	SaleID      string          `json:"sale_id"`
	ProductID   *string         `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// IsManual verifica se o item é avulso (sem produto de catálogo)
func (l *Line) IsManual() bool {
	return l.ProductID == nil
}

// Sale representa uma venda
type Sale struct {
	ID                 string          `json:"id"`
	Number             int64           `json:"number"`
	TenantID           string          `json:"tenant_id"`
	OperatorID         string          `json:"operator_id"`
	CustomerID         *string         `json:"customer_id,omitempty"`
	RegisterID         *string         `json:"register_id,omitempty"`
	Lines              []Line          `json:"lines"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	Discount           decimal.Decimal `json:"discount"`
	Total              decimal.Decimal `json:"total"`
	PaymentMethod      PaymentMethod   `json:"payment_method"`
	Status             Status          `json:"status"`
	FiscalStatus       FiscalStatus    `json:"fiscal_status"`
	FiscalReceiptKey   string          `json:"fiscal_receipt_key,omitempty"`
	CancelledAt        *time.Time      `json:"cancelled_at,omitempty"`
	CancelledBy        *string         `json:"cancelled_by,omitempty"`
	CancellationReason *string         `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// NewSale monta uma venda a partir do carrinho. Vendas PIX nascem
// aguardando pagamento; as demais nascem finalizadas.
// Invariante: total = subtotal − desconto = soma dos subtotais dos itens.
func NewSale(tenantID, operatorID string, cart *Cart, discount decimal.Decimal, method PaymentMethod, customerID, registerID *string) (*Sale, error) {
	if cart == nil || cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if !method.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	subtotal := cart.Subtotal()
	if discount.IsNegative() || discount.GreaterThan(subtotal) {
		return nil, ErrInvalidDiscount
	}

	status := StatusFinalized
	if method == PaymentPix {
		status = StatusPendingPayment
	}

	now := time.Now()
	s := &Sale{
		ID:            uuid.New().String(),
		TenantID:      tenantID,
		OperatorID:    operatorID,
		CustomerID:    customerID,
		RegisterID:    registerID,
		Subtotal:      subtotal,
		Discount:      discount,
		Total:         subtotal.Sub(discount),
		PaymentMethod: method,
		Status:        status,
		FiscalStatus:  FiscalPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	for _, item := range cart.Items {
		s.Lines = append(s.Lines, Line{
			ID:          uuid.New().String(),
			SaleID:      s.ID,
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Quantity.Mul(item.UnitPrice),
		})
	}

	return s, nil
}

// StockLines retorna os itens que movimentam estoque (não manuais)
func (s *Sale) StockLines() []Line {
	var lines []Line
	for _, l := range s.Lines {
		if !l.IsManual() {
			lines = append(lines, l)
		}
	}
	return lines
}

// Cancel marca a venda como cancelada. Uma venda cancelada é imutável
// exceto pelos metadados de cupom fiscal.
func (s *Sale) Cancel(by, reason string) error {
	if s.Status == StatusCancelled {
		return ErrAlreadyCancelled
	}

	now := time.Now()
	s.Status = StatusCancelled
	s.CancelledAt = &now
	s.CancelledBy = &by
	s.CancellationReason = &reason
	s.UpdatedAt = now
	return nil
}

// MarkFinalized conclui uma venda que aguardava confirmação de pagamento
func (s *Sale) MarkFinalized() error {
	if s.Status != StatusPendingPayment {
		return ErrNotPendingPayment
	}
	s.Status = StatusFinalized
	s.UpdatedAt = time.Now()
	return nil
}
