package product

import (
	"context"
)

// Repository define a interface para operações de repositório de produtos.
// O estoque é mutado apenas pelo livro de estoque (stock.Repository);
// este repositório não expõe escrita direta da quantidade.
type Repository interface {
	// Create cria um novo produto
	Create(ctx context.Context, p *Product) error

	// FindByID busca um produto pelo ID
	FindByID(ctx context.Context, tenantID, id string) (*Product, error)

	// FindByBarcode busca um produto pelo código de barras
	FindByBarcode(ctx context.Context, tenantID, barcode string) (*Product, error)

	// List lista os produtos de um tenant com paginação
	List(ctx context.Context, tenantID string, limit, offset int) ([]*Product, error)

	// Update atualiza os dados cadastrais de um produto
	Update(ctx context.Context, p *Product) error

	// UpdateStatus atualiza o status de um produto
	UpdateStatus(ctx context.Context, tenantID, id string, status Status) error

	// CountByTenant conta quantos produtos existem para um tenant
	CountByTenant(ctx context.Context, tenantID string) (int, error)
}
