package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/product"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/stock"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProductRepository implementa a interface product.Repository
type ProductRepository struct {
	db *pgxpool.Pool
}

// NewProductRepository cria uma nova instância de ProductRepository
func NewProductRepository(db *pgxpool.Pool) product.Repository {
	return &ProductRepository{db: db}
}

// Create implementa product.Repository.Create
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO products (
			id, tenant_id, name, barcode, unit, stock, min_stock, price,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.TenantID, p.Name, p.Barcode, p.Unit, p.Stock, p.MinStock,
		p.Price, p.Status, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("erro ao criar produto: %w", err)
	}
	return nil
}

// FindByID implementa product.Repository.FindByID
func (r *ProductRepository) FindByID(ctx context.Context, tenantID, id string) (*product.Product, error) {
	return scanProduct(r.db.QueryRow(ctx,
		selectProduct+` WHERE id = $1 AND tenant_id = $2`, id, tenantID))
}

// FindByBarcode implementa product.Repository.FindByBarcode
func (r *ProductRepository) FindByBarcode(ctx context.Context, tenantID, barcode string) (*product.Product, error) {
	return scanProduct(r.db.QueryRow(ctx,
		selectProduct+` WHERE tenant_id = $1 AND barcode = $2`, tenantID, barcode))
}

// List implementa product.Repository.List
func (r *ProductRepository) List(ctx context.Context, tenantID string, limit, offset int) ([]*product.Product, error) {
	rows, err := r.db.Query(ctx,
		selectProduct+` WHERE tenant_id = $1 ORDER BY name LIMIT $2 OFFSET $3`,
		tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar produtos: %w", err)
	}
	defer rows.Close()

	var products []*product.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

// Update implementa product.Repository.Update. O estoque não é escrito
// aqui: apenas o livro de movimentações (stock.Repository) muta a coluna.
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET
			name = $3, barcode = $4, unit = $5, min_stock = $6, price = $7,
			updated_at = $8
		WHERE id = $1 AND tenant_id = $2`,
		p.ID, p.TenantID, p.Name, p.Barcode, p.Unit, p.MinStock, p.Price,
		p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("erro ao atualizar produto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return stock.ErrProductNotFound
	}
	return nil
}

// UpdateStatus implementa product.Repository.UpdateStatus
func (r *ProductRepository) UpdateStatus(ctx context.Context, tenantID, id string, status product.Status) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET status = $3, updated_at = now()
		WHERE id = $1 AND tenant_id = $2`,
		id, tenantID, status)
	if err != nil {
		return fmt.Errorf("erro ao atualizar status do produto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return stock.ErrProductNotFound
	}
	return nil
}

// CountByTenant implementa product.Repository.CountByTenant
func (r *ProductRepository) CountByTenant(ctx context.Context, tenantID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE tenant_id = $1`, tenantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("erro ao contar produtos: %w", err)
	}
	return count, nil
}

const selectProduct = `SELECT id, tenant_id, name, barcode, unit, stock,
	min_stock, price, status, created_at, updated_at
	FROM products`

func scanProduct(row pgx.Row) (*product.Product, error) {
	var p product.Product
	err := row.Scan(&p.ID, &p.TenantID, &p.Name, &p.Barcode, &p.Unit,
		&p.Stock, &p.MinStock, &p.Price, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, stock.ErrProductNotFound
		}
		return nil, fmt.Errorf("erro ao buscar produto: %w", err)
	}
	return &p, nil
}
