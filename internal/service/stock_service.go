package service

import (
	"context"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/audit"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/stock"
	"github.com/hugohenrick/pdv-supermercado/pkg/auth"
	"github.com/shopspring/decimal"
)

// StockService expõe o livro de estoque para operações fora do fluxo de
// venda: entrada de mercadoria e acerto de inventário. As baixas e os
// estornos de venda passam pelo commit transacional de venda, não por aqui.
type StockService struct {
	movements stock.Repository
	audit     *AuditService
}

// NewStockService cria uma nova instância de StockService
func NewStockService(movements stock.Repository, audit *AuditService) *StockService {
	return &StockService{movements: movements, audit: audit}
}

// ApplyMovement aplica uma movimentação de estoque e registra auditoria.
// Retorna a movimentação com estoque antes/depois preenchidos.
func (s *StockService) ApplyMovement(ctx context.Context, rc auth.RequestContext, productID string, kind stock.Kind, quantity decimal.Decimal, note string) (*stock.Movement, error) {
	m, err := stock.NewMovement(rc.TenantID, productID, kind, quantity,
		stock.RefInventory, "", rc.UserID, note)
	if err != nil {
		return nil, err
	}

	applied, err := s.movements.Apply(ctx, m)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.NewEntry(rc.TenantID, rc.UserID, rc.OperatorID,
		audit.ActionStockAdjusted, "produto", productID, nil, applied, note))

	return applied, nil
}

// ListByProduct lista as movimentações de um produto
func (s *StockService) ListByProduct(ctx context.Context, rc auth.RequestContext, productID string, limit, offset int) ([]*stock.Movement, error) {
	return s.movements.ListByProduct(ctx, rc.TenantID, productID, limit, offset)
}

// ListBySale lista as movimentações geradas por uma venda
func (s *StockService) ListBySale(ctx context.Context, rc auth.RequestContext, saleID string) ([]*stock.Movement, error) {
	return s.movements.ListByReference(ctx, rc.TenantID, stock.RefSale, saleID)
}
