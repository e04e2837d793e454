package product

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyName     = errors.New("nome não pode ser vazio")
	ErrInvalidPrice  = errors.New("preço de venda deve ser maior ou igual a zero")
	ErrInvalidUnit   = errors.New("unidade de medida inválida")
	ErrNegativeStock = errors.New("estoque não pode ser negativo")
	ErrInactiveSale  = errors.New("produto inativo não pode ser vendido")
)

// Unit define a unidade de medida do produto como variante explícita.
// Produtos pesáveis são vendidos por quantidade fracionada (kg).
type Unit string

const (
	UnitDiscrete Unit = "UN" // Unidade
	UnitWeighed  Unit = "KG" // Pesável
)

// Valid verifica se a unidade é reconhecida
func (u Unit) Valid() bool {
	return u == UnitDiscrete || u == UnitWeighed
}

// Status representa o estado do produto
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Product representa um produto do catálogo
type Product struct {
	ID        string          `json:"id"`
	TenantID  string          `json:"tenant_id"`
	Name      string          `json:"name"`
	Barcode   string          `json:"barcode"`
	Unit      Unit            `json:"unit"`
	Stock     decimal.Decimal `json:"stock"`     // Quantidade atual em estoque
	MinStock  decimal.Decimal `json:"min_stock"` // Estoque mínimo para alerta
	Price     decimal.Decimal `json:"price"`     // Preço de venda
	Status    Status          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewProduct cria um novo produto
func NewProduct(tenantID, name string, unit Unit, price decimal.Decimal) (*Product, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if !unit.Valid() {
		return nil, ErrInvalidUnit
	}
	if price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	now := time.Now()
	return &Product{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      name,
		Unit:      unit,
		Stock:     decimal.Zero,
		MinStock:  decimal.Zero,
		Price:     price,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsWeighed verifica se o produto é vendido por peso
func (p *Product) IsWeighed() bool {
	return p.Unit == UnitWeighed
}

// IsActive verifica se o produto está ativo
func (p *Product) IsActive() bool {
	return p.Status == StatusActive
}

// BelowMinStock verifica se o estoque atual está abaixo do mínimo
func (p *Product) BelowMinStock() bool {
	return p.Stock.LessThan(p.MinStock)
}

// Update atualiza os dados cadastrais do produto
func (p *Product) Update(name, barcode string, unit Unit, minStock, price decimal.Decimal) error {
	if name == "" {
		return ErrEmptyName
	}
	if !unit.Valid() {
		return ErrInvalidUnit
	}
	if price.IsNegative() {
		return ErrInvalidPrice
	}
	if minStock.IsNegative() {
		return ErrNegativeStock
	}

	p.Name = name
	p.Barcode = barcode
	p.Unit = unit
	p.MinStock = minStock
	p.Price = price
	p.UpdatedAt = time.Now()
	return nil
}
