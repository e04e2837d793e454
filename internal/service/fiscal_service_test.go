package service

import (
	"context"
	"errors"
	"testing"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/fiscal"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/sale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIssuer struct {
	result *fiscal.Result
	err    error
	calls  int
}

func (i *fakeIssuer) IssueReceipt(_ context.Context, tenantID, saleID string) (*fiscal.Result, error) {
	i.calls++
	if i.err != nil {
		return nil, i.err
	}
	return i.result, nil
}

func TestProcessIssuance(t *testing.T) {
	f := newSaleFixture(t, true)
	venda, err := f.svc.FinalizarVenda(context.Background(), f.rc, f.input(sale.PaymentCash, 1))
	require.NoError(t, err)

	issuer := &fakeIssuer{result: &fiscal.Result{ReceiptKey: "NFe3526...", ProtocolNumber: "135260001"}}
	svc := NewFiscalService(f.sales, issuer, noopLogger{})

	require.NoError(t, svc.ProcessIssuance(context.Background(), "tenant-1", venda.ID))

	assert.Equal(t, sale.FiscalIssued, venda.FiscalStatus)
	assert.Equal(t, "NFe3526...", venda.FiscalReceiptKey)
}

func TestProcessIssuanceFalhaNuncaReverteAVenda(t *testing.T) {
	f := newSaleFixture(t, true)
	venda, err := f.svc.FinalizarVenda(context.Background(), f.rc, f.input(sale.PaymentCash, 1))
	require.NoError(t, err)

	issuer := &fakeIssuer{err: errors.New("SEFAZ indisponível")}
	svc := NewFiscalService(f.sales, issuer, noopLogger{})

	err = svc.ProcessIssuance(context.Background(), "tenant-1", venda.ID)
	require.Error(t, err)

	// A venda permanece finalizada, apenas marcada com erro fiscal
	assert.Equal(t, sale.StatusFinalized, venda.Status)
	assert.Equal(t, sale.FiscalError, venda.FiscalStatus)
}

func TestProcessIssuanceIdempotente(t *testing.T) {
	f := newSaleFixture(t, true)
	venda, err := f.svc.FinalizarVenda(context.Background(), f.rc, f.input(sale.PaymentCash, 1))
	require.NoError(t, err)

	issuer := &fakeIssuer{result: &fiscal.Result{ReceiptKey: "NFe3526..."}}
	svc := NewFiscalService(f.sales, issuer, noopLogger{})

	require.NoError(t, svc.ProcessIssuance(context.Background(), "tenant-1", venda.ID))
	require.NoError(t, svc.ProcessIssuance(context.Background(), "tenant-1", venda.ID))

	// Reentrega do trabalho não emite um segundo cupom
	assert.Equal(t, 1, issuer.calls)
}

func TestProcessIssuanceVendaInexistente(t *testing.T) {
	f := newSaleFixture(t, true)
	svc := NewFiscalService(f.sales, &fakeIssuer{}, noopLogger{})

	err := svc.ProcessIssuance(context.Background(), "tenant-1", "venda-inexistente")
	assert.ErrorIs(t, err, sale.ErrSaleNotFound)
}
