package service

import (
	"context"
	"errors"
	"testing"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/audit"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/pix"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/product"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/register"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/sale"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/stock"
	"github.com/hugohenrick/pdv-supermercado/pkg/auth"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type saleFixture struct {
	svc        *SaleService
	pixSvc     *PixService
	sales      *fakeSaleRepo
	products   *fakeProductRepo
	registers  *fakeRegisterRepo
	pixRepo    *fakePixRepo
	gateway    *fakePixGateway
	dispatcher *fakeDispatcher
	audit      *fakeAuditRepo
	rc         auth.RequestContext
	register   *register.CashRegister
	product    *product.Product
}

func newSaleFixture(t *testing.T, compensateOnCancel bool) *saleFixture {
	t.Helper()
	log := noopLogger{}

	products := newFakeProductRepo()
	p, err := product.NewProduct("tenant-1", "Arroz 5kg", product.UnitDiscrete, decimal.RequireFromString("5.00"))
	require.NoError(t, err)
	p.Stock = decimal.NewFromInt(10)
	products.add(p)

	registers := newFakeRegisterRepo()
	reg, err := register.NewCashRegister("tenant-1", "user-1", decimal.RequireFromString("100.00"), "")
	require.NoError(t, err)
	require.NoError(t, registers.Create(context.Background(), reg))

	sales := newFakeSaleRepo(products, registers)
	pixRepo := newFakePixRepo()
	gw := &fakePixGateway{}
	auditRepo := &fakeAuditRepo{}
	dispatcher := &fakeDispatcher{}

	userRepo := &fakeUserRepo{}
	userRepo.users = append(userRepo.users, newSupervisor(t, "tenant-1", "ana", supervisorCode))

	auditService := NewAuditService(auditRepo, log)
	supervisors := NewSupervisorService(userRepo, log)
	pixService := NewPixService(pixRepo, sales, gw, auditService, dispatcher, log)
	saleService := NewSaleService(sales, products, pixService, supervisors,
		auditService, dispatcher, log, compensateOnCancel)

	return &saleFixture{
		svc:        saleService,
		pixSvc:     pixService,
		sales:      sales,
		products:   products,
		registers:  registers,
		pixRepo:    pixRepo,
		gateway:    gw,
		dispatcher: dispatcher,
		audit:      auditRepo,
		rc:         auth.RequestContext{TenantID: "tenant-1", UserID: "user-1"},
		register:   reg,
		product:    p,
	}
}

func (f *saleFixture) input(method sale.PaymentMethod, qty int64) FinalizeSaleInput {
	return FinalizeSaleInput{
		Items: []SaleItemInput{{
			ProductID: f.product.ID,
			Quantity:  decimal.NewFromInt(qty),
		}},
		Discount:      decimal.Zero,
		PaymentMethod: method,
		RegisterID:    f.register.ID,
	}
}

func TestFinalizarVendaDinheiro(t *testing.T) {
	f := newSaleFixture(t, true)

	venda, err := f.svc.FinalizarVenda(context.Background(), f.rc, f.input(sale.PaymentCash, 2))
	require.NoError(t, err)

	assert.Equal(t, sale.StatusFinalized, venda.Status)
	assert.Equal(t, int64(1), venda.Number)
	assert.True(t, venda.Total.Equal(decimal.RequireFromString("10.00")))

	// Baixa de estoque e entrada no caixa na mesma finalização
	assert.True(t, f.product.Stock.Equal(decimal.NewFromInt(8)))
	assert.True(t, f.register.RunningBalance.Equal(decimal.RequireFromString("110.00")))

	assert.Equal(t, []string{venda.ID}, f.dispatcher.fiscalSales)
	assert.Contains(t, f.audit.actions(), audit.ActionSaleCreated)
}

func TestFinalizarVendaPixNasceAguardandoPagamento(t *testing.T) {
	f := newSaleFixture(t, true)

	venda, err := f.svc.FinalizarVenda(context.Background(), f.rc, f.input(sale.PaymentPix, 2))
	require.NoError(t, err)

	assert.Equal(t, sale.StatusPendingPayment, venda.Status)

	// Estoque baixa já na finalização; caixa e emissão fiscal esperam a
	// confirmação do pagamento
	assert.True(t, f.product.Stock.Equal(decimal.NewFromInt(8)))
	assert.True(t, f.register.RunningBalance.Equal(decimal.RequireFromString("100.00")))
	assert.Empty(t, f.dispatcher.fiscalSales)
}

func TestFinalizarVendaSemItens(t *testing.T) {
	f := newSaleFixture(t, true)

	_, err := f.svc.FinalizarVenda(context.Background(), f.rc, FinalizeSaleInput{
		PaymentMethod: sale.PaymentCash,
	})
	assert.ErrorIs(t, err, sale.ErrEmptyCart)
}

func TestFinalizarVendaEstoqueInsuficiente(t *testing.T) {
	f := newSaleFixture(t, true)

	_, err := f.svc.FinalizarVenda(context.Background(), f.rc, f.input(sale.PaymentCash, 11))

	var insufficient *stock.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, "Arroz 5kg", insufficient.ProductName)
	assert.True(t, insufficient.Available.Equal(decimal.NewFromInt(10)))

	// Nada foi gravado
	assert.True(t, f.product.Stock.Equal(decimal.NewFromInt(10)))
	assert.Empty(t, f.sales.sales)
}

func TestFinalizarVendaItemAvulso(t *testing.T) {
	f := newSaleFixture(t, true)

	venda, err := f.svc.FinalizarVenda(context.Background(), f.rc, FinalizeSaleInput{
		Items: []SaleItemInput{{
			Description: "Taxa de entrega",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   decimal.RequireFromString("7.50"),
		}},
		PaymentMethod: sale.PaymentCash,
		RegisterID:    f.register.ID,
	})
	require.NoError(t, err)

	assert.Empty(t, venda.StockLines())
	assert.True(t, f.product.Stock.Equal(decimal.NewFromInt(10)))
	assert.True(t, f.register.RunningBalance.Equal(decimal.RequireFromString("107.50")))
}

func TestCancelarVendaComCompensacao(t *testing.T) {
	f := newSaleFixture(t, true)

	venda, err := f.svc.FinalizarVenda(context.Background(), f.rc, f.input(sale.PaymentCash, 2))
	require.NoError(t, err)

	cancelled, err := f.svc.CancelarVenda(context.Background(), f.rc, venda.ID,
		"cliente desistiu", supervisorCode)
	require.NoError(t, err)

	assert.Equal(t, sale.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancellationReason)
	assert.Equal(t, "cliente desistiu", *cancelled.CancellationReason)

	// Estoque estornado e caixa compensado: tudo volta ao estado anterior
	assert.True(t, f.product.Stock.Equal(decimal.NewFromInt(10)))
	assert.True(t, f.register.RunningBalance.Equal(decimal.RequireFromString("100.00")))
	assert.Contains(t, f.sales.cancelledWithCompensation, venda.ID)
	assert.Contains(t, f.audit.actions(), audit.ActionSaleCancelled)
}

func TestCancelarVendaSemCompensacao(t *testing.T) {
	f := newSaleFixture(t, false)

	venda, err := f.svc.FinalizarVenda(context.Background(), f.rc, f.input(sale.PaymentCash, 2))
	require.NoError(t, err)

	_, err = f.svc.CancelarVenda(context.Background(), f.rc, venda.ID, "teste", supervisorCode)
	require.NoError(t, err)

	// Comportamento legado: o estoque volta, o saldo do caixa não
	assert.True(t, f.product.Stock.Equal(decimal.NewFromInt(10)))
	assert.True(t, f.register.RunningBalance.Equal(decimal.RequireFromString("110.00")))
	assert.Empty(t, f.sales.cancelledWithCompensation)
}

func TestCancelarVendaCodigoInvalido(t *testing.T) {
	f := newSaleFixture(t, true)

	venda, err := f.svc.FinalizarVenda(context.Background(), f.rc, f.input(sale.PaymentCash, 2))
	require.NoError(t, err)

	_, err = f.svc.CancelarVenda(context.Background(), f.rc, venda.ID, "teste", "0000")
	assert.ErrorIs(t, err, ErrAuthorizationDenied)

	current, _ := f.sales.FindByID(context.Background(), "tenant-1", venda.ID)
	assert.Equal(t, sale.StatusFinalized, current.Status)
}

func TestCancelarVendaJaCancelada(t *testing.T) {
	f := newSaleFixture(t, true)

	venda, err := f.svc.FinalizarVenda(context.Background(), f.rc, f.input(sale.PaymentCash, 2))
	require.NoError(t, err)

	_, err = f.svc.CancelarVenda(context.Background(), f.rc, venda.ID, "primeira", supervisorCode)
	require.NoError(t, err)

	_, err = f.svc.CancelarVenda(context.Background(), f.rc, venda.ID, "segunda", supervisorCode)
	assert.ErrorIs(t, err, sale.ErrAlreadyCancelled)
}

// approvePixSale leva uma venda PIX do nascimento até a aprovação via
// webhook, deixando a cobrança aprovada e a venda finalizada.
func approvePixSale(t *testing.T, f *saleFixture) (*sale.Sale, *pix.Transaction) {
	t.Helper()

	venda, err := f.svc.FinalizarVenda(context.Background(), f.rc, f.input(sale.PaymentPix, 2))
	require.NoError(t, err)

	tx, err := f.pixSvc.RequestCharge(context.Background(), f.rc, venda.ID)
	require.NoError(t, err)

	require.NoError(t, f.pixSvc.HandleWebhook(context.Background(), tx.ExternalID, pix.StatusApproved, nil))
	require.Equal(t, pix.StatusApproved, tx.Status)
	require.Equal(t, sale.StatusFinalized, venda.Status)
	return venda, tx
}

func TestCancelarVendaPixEstornaAntesDePersistir(t *testing.T) {
	f := newSaleFixture(t, true)
	venda, tx := approvePixSale(t, f)

	cancelled, err := f.svc.CancelarVenda(context.Background(), f.rc, venda.ID,
		"cliente desistiu", supervisorCode)
	require.NoError(t, err)

	assert.Equal(t, sale.StatusCancelled, cancelled.Status)
	assert.Equal(t, pix.StatusRefunded, tx.Status)
	assert.Equal(t, 1, f.gateway.refundCalls)
	assert.Contains(t, f.audit.actions(), audit.ActionPixRefunded)
}

func TestCancelarVendaPixAbortaSeEstornoFalha(t *testing.T) {
	f := newSaleFixture(t, true)
	venda, tx := approvePixSale(t, f)

	f.gateway.refundErr = errors.New("gateway indisponível")

	_, err := f.svc.CancelarVenda(context.Background(), f.rc, venda.ID,
		"cliente desistiu", supervisorCode)
	require.Error(t, err)

	// Nenhum estado persistido muda enquanto o gateway não confirmar
	current, _ := f.sales.FindByID(context.Background(), "tenant-1", venda.ID)
	assert.Equal(t, sale.StatusFinalized, current.Status)
	assert.Equal(t, pix.StatusApproved, tx.Status)
	assert.True(t, f.product.Stock.Equal(decimal.NewFromInt(8)))
}

func TestCancelarVendaPixSemCobranca(t *testing.T) {
	// Venda PIX cancelada antes da cobrança ser criada: nada a estornar
	f := newSaleFixture(t, true)

	venda, err := f.svc.FinalizarVenda(context.Background(), f.rc, f.input(sale.PaymentPix, 2))
	require.NoError(t, err)

	cancelled, err := f.svc.CancelarVenda(context.Background(), f.rc, venda.ID,
		"desistiu na hora do QR", supervisorCode)
	require.NoError(t, err)

	assert.Equal(t, sale.StatusCancelled, cancelled.Status)
	assert.Equal(t, 0, f.gateway.refundCalls)

	// A venda pendente nunca entrou no caixa: o cancelamento devolve o
	// estoque e não debita compensação nenhuma
	assert.True(t, f.product.Stock.Equal(decimal.NewFromInt(10)))
	assert.True(t, f.register.RunningBalance.Equal(decimal.RequireFromString("100.00")))
	assert.Empty(t, f.sales.cancelledWithCompensation)
}
