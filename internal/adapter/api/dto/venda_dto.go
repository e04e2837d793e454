package dto

import (
	"time"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/sale"
	"github.com/shopspring/decimal"
)

// ItemVendaRequest representa um item do carrinho. ProductID vazio
// indica item avulso (exige description).
type ItemVendaRequest struct {
	ProductID   string          `json:"product_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// VendaRequest representa a finalização de uma venda
type VendaRequest struct {
	Items         []ItemVendaRequest `json:"items" binding:"required"`
	Discount      decimal.Decimal    `json:"discount"`
	PaymentMethod string             `json:"payment_method" binding:"required"`
	CustomerID    string             `json:"customer_id"`
	RegisterID    string             `json:"register_id"`
}

// CancelamentoVendaRequest representa o cancelamento de uma venda
type CancelamentoVendaRequest struct {
	Reason         string `json:"reason" binding:"required"`
	SupervisorCode string `json:"supervisor_code" binding:"required"`
}

// ItemVendaResponse representa um item da venda na resposta da API
type ItemVendaResponse struct {
	ID          string          `json:"id"`
	ProductID   *string         `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// VendaResponse representa uma venda na resposta da API
type VendaResponse struct {
	ID                 string              `json:"id"`
	Number             int64               `json:"number"`
	OperatorID         string              `json:"operator_id"`
	CustomerID         *string             `json:"customer_id,omitempty"`
	RegisterID         *string             `json:"register_id,omitempty"`
	Items              []ItemVendaResponse `json:"items"`
	Subtotal           decimal.Decimal     `json:"subtotal"`
	Discount           decimal.Decimal     `json:"discount"`
	Total              decimal.Decimal     `json:"total"`
	PaymentMethod      string              `json:"payment_method"`
	Status             string              `json:"status"`
	FiscalStatus       string              `json:"fiscal_status"`
	FiscalReceiptKey   string              `json:"fiscal_receipt_key,omitempty"`
	CancelledAt        *time.Time          `json:"cancelled_at,omitempty"`
	CancellationReason *string             `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
}

// ToVendaResponse converte uma venda de domínio em resposta da API
func ToVendaResponse(s *sale.Sale) VendaResponse {
	resp := VendaResponse{
		ID:                 s.ID,
		Number:             s.Number,
		OperatorID:         s.OperatorID,
		CustomerID:         s.CustomerID,
		RegisterID:         s.RegisterID,
		Subtotal:           s.Subtotal,
		Discount:           s.Discount,
		Total:              s.Total,
		PaymentMethod:      string(s.PaymentMethod),
		Status:             string(s.Status),
		FiscalStatus:       string(s.FiscalStatus),
		FiscalReceiptKey:   s.FiscalReceiptKey,
		CancelledAt:        s.CancelledAt,
		CancellationReason: s.CancellationReason,
		CreatedAt:          s.CreatedAt,
	}
	for _, l := range s.Lines {
		resp.Items = append(resp.Items, ItemVendaResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
		})
	}
	return resp
}
