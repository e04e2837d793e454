package dto

import (
	"time"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/product"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/stock"
	"github.com/shopspring/decimal"
)

// ProductRequest representa os dados de criação/atualização de produto
type ProductRequest struct {
	Name     string          `json:"name" binding:"required"`
	Barcode  string          `json:"barcode"`
	Unit     string          `json:"unit" binding:"required"`
	MinStock decimal.Decimal `json:"min_stock"`
	Price    decimal.Decimal `json:"price" binding:"required"`
}

// MovimentoEstoqueRequest representa uma movimentação de estoque manual
// (entrada de mercadoria ou acerto de inventário)
type MovimentoEstoqueRequest struct {
	Kind     string          `json:"kind" binding:"required"`
	Quantity decimal.Decimal `json:"quantity"`
	Note     string          `json:"note"`
}

// ProductResponse representa um produto na resposta da API
type ProductResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Barcode   string          `json:"barcode"`
	Unit      string          `json:"unit"`
	Stock     decimal.Decimal `json:"stock"`
	MinStock  decimal.Decimal `json:"min_stock"`
	Price     decimal.Decimal `json:"price"`
	Status    string          `json:"status"`
	LowStock  bool            `json:"low_stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// MovimentoEstoqueResponse representa uma movimentação de estoque na
// resposta da API
type MovimentoEstoqueResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Kind          string          `json:"kind"`
	Quantity      decimal.Decimal `json:"quantity"`
	StockBefore   decimal.Decimal `json:"stock_before"`
	StockAfter    decimal.Decimal `json:"stock_after"`
	ReferenceKind string          `json:"reference_kind,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	Note          string          `json:"note,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToProductResponse converte um produto de domínio em resposta da API
func ToProductResponse(p *product.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Barcode:   p.Barcode,
		Unit:      string(p.Unit),
		Stock:     p.Stock,
		MinStock:  p.MinStock,
		Price:     p.Price,
		Status:    string(p.Status),
		LowStock:  p.BelowMinStock(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToMovimentoEstoqueResponse converte uma movimentação de estoque em
// resposta da API
func ToMovimentoEstoqueResponse(m *stock.Movement) MovimentoEstoqueResponse {
	return MovimentoEstoqueResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Kind:          string(m.Kind),
		Quantity:      m.Quantity,
		StockBefore:   m.StockBefore,
		StockAfter:    m.StockAfter,
		ReferenceKind: string(m.ReferenceKind),
		ReferenceID:   m.ReferenceID,
		Note:          m.Note,
		CreatedAt:     m.CreatedAt,
	}
}
