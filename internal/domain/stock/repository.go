package stock

import (
	"context"
)

// Repository define a interface para o livro de estoque
type Repository interface {
	// Apply aplica a movimentação sobre o estoque do produto de forma
	// atômica (decremento condicional no banco) e registra o movimento
	// com estoque antes/depois preenchidos. Retorna
	// *InsufficientStockError quando uma saída deixaria o estoque
	// negativo; nesse caso o estoque permanece inalterado.
	Apply(ctx context.Context, m *Movement) (*Movement, error)

	// ListByProduct lista as movimentações de um produto
	ListByProduct(ctx context.Context, tenantID, productID string, limit, offset int) ([]*Movement, error)

	// ListByReference lista as movimentações ligadas a uma referência
	// (ex.: todas as baixas de uma venda)
	ListByReference(ctx context.Context, tenantID string, refKind ReferenceKind, refID string) ([]*Movement, error)
}
