package service

import (
	"context"
	"errors"
	"testing"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/audit"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/product"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/stock"
	"github.com/hugohenrick/pdv-supermercado/pkg/auth"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stockFixture struct {
	svc     *StockService
	product *product.Product
	audit   *fakeAuditRepo
	rc      auth.RequestContext
}

func newStockFixture(t *testing.T, initialStock string) *stockFixture {
	t.Helper()

	products := newFakeProductRepo()
	p, err := product.NewProduct("tenant-1", "Açúcar 1kg", product.UnitDiscrete, decimal.RequireFromString("4.20"))
	require.NoError(t, err)
	p.Stock = decimal.RequireFromString(initialStock)
	products.add(p)

	auditRepo := &fakeAuditRepo{}
	auditService := NewAuditService(auditRepo, noopLogger{})
	movements := &fakeStockRepo{products: products}

	return &stockFixture{
		svc:     NewStockService(movements, auditService),
		product: p,
		audit:   auditRepo,
		rc:      auth.RequestContext{TenantID: "tenant-1", UserID: "user-1"},
	}
}

func TestApplyMovementEntrada(t *testing.T) {
	f := newStockFixture(t, "10")

	m, err := f.svc.ApplyMovement(context.Background(), f.rc, f.product.ID,
		stock.KindEntrada, decimal.NewFromInt(5), "recebimento de nota")
	require.NoError(t, err)

	assert.True(t, m.StockBefore.Equal(decimal.NewFromInt(10)))
	assert.True(t, m.StockAfter.Equal(decimal.NewFromInt(15)))
	assert.True(t, f.product.Stock.Equal(decimal.NewFromInt(15)))
	assert.Contains(t, f.audit.actions(), audit.ActionStockAdjusted)
}

func TestApplyMovementSaidaInsuficiente(t *testing.T) {
	f := newStockFixture(t, "3")

	_, err := f.svc.ApplyMovement(context.Background(), f.rc, f.product.ID,
		stock.KindSaida, decimal.NewFromInt(5), "")

	var insufficient *stock.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.True(t, insufficient.Available.Equal(decimal.NewFromInt(3)))

	// O estoque permanece inalterado na rejeição
	assert.True(t, f.product.Stock.Equal(decimal.NewFromInt(3)))
}

func TestApplyMovementSaidaAteZero(t *testing.T) {
	f := newStockFixture(t, "3")

	m, err := f.svc.ApplyMovement(context.Background(), f.rc, f.product.ID,
		stock.KindSaida, decimal.NewFromInt(3), "")
	require.NoError(t, err)
	assert.True(t, m.StockAfter.IsZero())
}

func TestApplyMovementAjusteAbsoluto(t *testing.T) {
	f := newStockFixture(t, "10")

	m, err := f.svc.ApplyMovement(context.Background(), f.rc, f.product.ID,
		stock.KindAjuste, decimal.NewFromInt(7), "contagem de inventário")
	require.NoError(t, err)

	assert.True(t, m.StockBefore.Equal(decimal.NewFromInt(10)))
	assert.True(t, m.StockAfter.Equal(decimal.NewFromInt(7)))
	assert.True(t, f.product.Stock.Equal(decimal.NewFromInt(7)))
}

func TestApplyMovementRoundTrip(t *testing.T) {
	f := newStockFixture(t, "10")
	ctx := context.Background()

	// Saída seguida do estorno da mesma quantidade devolve o estoque original
	_, err := f.svc.ApplyMovement(ctx, f.rc, f.product.ID, stock.KindSaida, decimal.NewFromInt(4), "")
	require.NoError(t, err)
	_, err = f.svc.ApplyMovement(ctx, f.rc, f.product.ID, stock.KindEstorno, decimal.NewFromInt(4), "")
	require.NoError(t, err)

	assert.True(t, f.product.Stock.Equal(decimal.NewFromInt(10)))
}

func TestApplyMovementValidation(t *testing.T) {
	f := newStockFixture(t, "10")

	_, err := f.svc.ApplyMovement(context.Background(), f.rc, f.product.ID,
		stock.Kind("perda"), decimal.NewFromInt(1), "")
	assert.ErrorIs(t, err, stock.ErrInvalidKind)

	_, err = f.svc.ApplyMovement(context.Background(), f.rc, f.product.ID,
		stock.KindEntrada, decimal.Zero, "")
	assert.ErrorIs(t, err, stock.ErrInvalidQuantity)
}

func TestApplyMovementProdutoInexistente(t *testing.T) {
	f := newStockFixture(t, "10")

	_, err := f.svc.ApplyMovement(context.Background(), f.rc, "prod-inexistente",
		stock.KindEntrada, decimal.NewFromInt(1), "")
	assert.ErrorIs(t, err, stock.ErrProductNotFound)
}

func TestListByProduct(t *testing.T) {
	f := newStockFixture(t, "10")
	ctx := context.Background()

	_, err := f.svc.ApplyMovement(ctx, f.rc, f.product.ID, stock.KindEntrada, decimal.NewFromInt(2), "")
	require.NoError(t, err)
	_, err = f.svc.ApplyMovement(ctx, f.rc, f.product.ID, stock.KindSaida, decimal.NewFromInt(1), "")
	require.NoError(t, err)

	movements, err := f.svc.ListByProduct(ctx, f.rc, f.product.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, movements, 2)
}
