package sale

import (
	"errors"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/product"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/stock"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity    = errors.New("quantidade deve ser maior que zero")
	ErrFractionalQuantity = errors.New("produto unitário exige quantidade inteira")
	ErrEmptyDescription   = errors.New("descrição do item avulso não pode ser vazia")
)

// CartItem representa um item acumulado no carrinho, antes da venda
type CartItem struct {
	ProductID   *string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// Cart acumula itens antes da finalização da venda. A validação de
// estoque aqui usa o snapshot do produto em memória; a validação
// definitiva acontece na finalização, contra o estoque persistido.
type Cart struct {
	Items []CartItem
}

// NewCart cria um carrinho vazio
func NewCart() *Cart {
	return &Cart{}
}

// IsEmpty verifica se o carrinho está vazio
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Subtotal calcula a soma dos subtotais dos itens
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Quantity.Mul(item.UnitPrice))
	}
	return total
}

// QuantityOf retorna a quantidade acumulada no carrinho para um produto
func (c *Cart) QuantityOf(productID string) decimal.Decimal {
	for _, item := range c.Items {
		if item.ProductID != nil && *item.ProductID == productID {
			return item.Quantity
		}
	}
	return decimal.Zero
}

// AddProduct adiciona um produto de catálogo ao carrinho. Quantidades do
// mesmo produto são somadas em um único item: produtos unitários somam
// unidades inteiras; produtos pesáveis somam o peso informado em cada
// pesagem. O preço pode ser sobrescrito em relação ao catálogo
// (unitPrice zero usa o preço de catálogo).
func (c *Cart) AddProduct(p *product.Product, quantity, unitPrice decimal.Decimal) error {
	if !p.IsActive() {
		return product.ErrInactiveSale
	}
	if !quantity.IsPositive() {
		return ErrInvalidQuantity
	}
	if !p.IsWeighed() && !quantity.IsInteger() {
		return ErrFractionalQuantity
	}

	if unitPrice.IsZero() {
		unitPrice = p.Price
	}

	// Checagem contra o snapshot: bloqueia o acréscimo, não toca o
	// estoque persistido
	accumulated := c.QuantityOf(p.ID).Add(quantity)
	if accumulated.GreaterThan(p.Stock) {
		return &stock.InsufficientStockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Available:   p.Stock.Sub(c.QuantityOf(p.ID)),
			Requested:   quantity,
		}
	}

	for i := range c.Items {
		if c.Items[i].ProductID != nil && *c.Items[i].ProductID == p.ID {
			c.Items[i].Quantity = c.Items[i].Quantity.Add(quantity)
			c.Items[i].UnitPrice = unitPrice
			return nil
		}
	}

	productID := p.ID
	c.Items = append(c.Items, CartItem{
		ProductID:   &productID,
		Description: p.Name,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	})
	return nil
}

// AddManual adiciona um item avulso (fora do catálogo) ao carrinho.
// Itens avulsos recebem identidade sintética e nunca movimentam estoque.
func (c *Cart) AddManual(description string, quantity, unitPrice decimal.Decimal) error {
	if description == "" {
		return ErrEmptyDescription
	}
	if !quantity.IsPositive() {
		return ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return ErrInvalidQuantity
	}

	c.Items = append(c.Items, CartItem{
		ProductID:   nil,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	})
	return nil
}
