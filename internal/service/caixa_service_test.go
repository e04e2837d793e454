package service

import (
	"context"
	"testing"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/audit"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/register"
	"github.com/hugohenrick/pdv-supermercado/pkg/auth"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const supervisorCode = "4321"

type caixaFixture struct {
	svc       *CaixaService
	registers *fakeRegisterRepo
	audit     *fakeAuditRepo
	rc        auth.RequestContext
}

func newCaixaFixture(t *testing.T) *caixaFixture {
	t.Helper()
	registers := newFakeRegisterRepo()
	auditRepo := &fakeAuditRepo{}
	userRepo := &fakeUserRepo{}
	userRepo.users = append(userRepo.users, newSupervisor(t, "tenant-1", "ana", supervisorCode))

	log := noopLogger{}
	auditService := NewAuditService(auditRepo, log)
	supervisors := NewSupervisorService(userRepo, log)

	return &caixaFixture{
		svc:       NewCaixaService(registers, supervisors, auditService, log),
		registers: registers,
		audit:     auditRepo,
		rc:        auth.RequestContext{TenantID: "tenant-1", UserID: "user-1"},
	}
}

func (f *caixaFixture) open(t *testing.T, balance string) *register.CashRegister {
	t.Helper()
	reg, err := f.svc.Abrir(context.Background(), f.rc, decimal.RequireFromString(balance), "")
	require.NoError(t, err)
	return reg
}

func TestAbrirCaixa(t *testing.T) {
	f := newCaixaFixture(t)

	reg := f.open(t, "200.00")

	assert.True(t, reg.IsOpen())
	assert.True(t, reg.RunningBalance.Equal(decimal.RequireFromString("200.00")))
	assert.Contains(t, f.audit.actions(), audit.ActionRegisterOpened)
}

func TestAbrirCaixaJaAberto(t *testing.T) {
	f := newCaixaFixture(t)
	f.open(t, "100.00")

	_, err := f.svc.Abrir(context.Background(), f.rc, decimal.NewFromInt(50), "")
	assert.ErrorIs(t, err, register.ErrAlreadyOpen)
}

func TestAbrirCaixaSaldoNegativo(t *testing.T) {
	f := newCaixaFixture(t)

	_, err := f.svc.Abrir(context.Background(), f.rc, decimal.NewFromInt(-10), "")
	assert.ErrorIs(t, err, register.ErrNegativeOpeningBalance)
}

func TestSangria(t *testing.T) {
	f := newCaixaFixture(t)
	reg := f.open(t, "100.00")

	updated, err := f.svc.Sangria(context.Background(), f.rc, reg.ID,
		decimal.RequireFromString("40.00"), "malote", supervisorCode)
	require.NoError(t, err)

	assert.True(t, updated.RunningBalance.Equal(decimal.RequireFromString("60.00")))

	movements, err := f.svc.ListarMovimentos(context.Background(), f.rc, reg.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, register.MovementSangria, movements[0].Kind)
	assert.NotEmpty(t, movements[0].AuthorizedBy)
	assert.Contains(t, f.audit.actions(), audit.ActionSangria)
}

func TestSangriaSaldoExato(t *testing.T) {
	f := newCaixaFixture(t)
	reg := f.open(t, "100.00")

	// Retirar exatamente o saldo corrente é permitido: o caixa fica zerado
	updated, err := f.svc.Sangria(context.Background(), f.rc, reg.ID,
		decimal.RequireFromString("100.00"), "malote", supervisorCode)
	require.NoError(t, err)
	assert.True(t, updated.RunningBalance.IsZero())
}

func TestSangriaAcimaDoSaldo(t *testing.T) {
	f := newCaixaFixture(t)
	reg := f.open(t, "100.00")

	_, err := f.svc.Sangria(context.Background(), f.rc, reg.ID,
		decimal.RequireFromString("100.01"), "malote", supervisorCode)
	assert.ErrorIs(t, err, register.ErrInsufficientBalance)

	// O saldo permanece intacto e nenhuma movimentação é registrada
	current, findErr := f.svc.BuscarPorID(context.Background(), f.rc, reg.ID)
	require.NoError(t, findErr)
	assert.True(t, current.RunningBalance.Equal(decimal.RequireFromString("100.00")))

	movements, _ := f.svc.ListarMovimentos(context.Background(), f.rc, reg.ID)
	assert.Empty(t, movements)
}

func TestSangriaCodigoInvalido(t *testing.T) {
	f := newCaixaFixture(t)
	reg := f.open(t, "100.00")

	_, err := f.svc.Sangria(context.Background(), f.rc, reg.ID,
		decimal.NewFromInt(10), "malote", "0000")
	assert.ErrorIs(t, err, ErrAuthorizationDenied)

	movements, _ := f.svc.ListarMovimentos(context.Background(), f.rc, reg.ID)
	assert.Empty(t, movements)
}

func TestSuprimento(t *testing.T) {
	f := newCaixaFixture(t)
	reg := f.open(t, "50.00")

	updated, err := f.svc.Suprimento(context.Background(), f.rc, reg.ID,
		decimal.RequireFromString("30.00"), "reforço de troco", supervisorCode)
	require.NoError(t, err)

	assert.True(t, updated.RunningBalance.Equal(decimal.RequireFromString("80.00")))
	assert.Contains(t, f.audit.actions(), audit.ActionSuprimento)
}

func TestFecharCaixa(t *testing.T) {
	f := newCaixaFixture(t)
	reg := f.open(t, "100.00")

	_, err := f.svc.Suprimento(context.Background(), f.rc, reg.ID,
		decimal.RequireFromString("50.00"), "troco", supervisorCode)
	require.NoError(t, err)

	// Conferido 145,00 contra saldo corrente 150,00: quebra de -5,00
	closed, err := f.svc.Fechar(context.Background(), f.rc, reg.ID,
		decimal.RequireFromString("145.00"), "diferença no troco",
		&register.CloseBreakdown{Cash: decimal.RequireFromString("145.00")}, supervisorCode)
	require.NoError(t, err)

	assert.Equal(t, register.StatusClosed, closed.Status)
	require.NotNil(t, closed.ReconciliationDelta)
	assert.True(t, closed.ReconciliationDelta.Equal(decimal.RequireFromString("-5.00")))
	assert.Contains(t, f.audit.actions(), audit.ActionRegisterClosed)
}

func TestFecharCalculaDeltaSobreSaldoPersistido(t *testing.T) {
	f := newCaixaFixture(t)
	reg := f.open(t, "100.00")

	// A sessão é lida antes de uma venda entrar no caixa
	snapshot, err := f.registers.FindByID(context.Background(), "tenant-1", reg.ID)
	require.NoError(t, err)

	m, err := register.NewCashMovement("tenant-1", reg.ID, register.MovementSale,
		decimal.RequireFromString("10.00"), "Venda #1", "op-1")
	require.NoError(t, err)
	_, err = f.registers.RecordMovement(context.Background(), m)
	require.NoError(t, err)

	// O fechamento sobre o snapshot desatualizado ainda confere contra o
	// saldo persistido: conferido 105,00 contra 110,00, quebra de -5,00
	require.NoError(t, snapshot.Close(decimal.RequireFromString("105.00"), "", nil))
	require.NoError(t, f.registers.Close(context.Background(), snapshot))

	require.NotNil(t, snapshot.ReconciliationDelta)
	assert.True(t, snapshot.ReconciliationDelta.Equal(decimal.RequireFromString("-5.00")))
	assert.True(t, snapshot.RunningBalance.Equal(decimal.RequireFromString("110.00")))
}

func TestFecharCaixaDuasVezes(t *testing.T) {
	f := newCaixaFixture(t)
	reg := f.open(t, "100.00")

	_, err := f.svc.Fechar(context.Background(), f.rc, reg.ID,
		decimal.NewFromInt(100), "", nil, supervisorCode)
	require.NoError(t, err)

	_, err = f.svc.Fechar(context.Background(), f.rc, reg.ID,
		decimal.NewFromInt(100), "", nil, supervisorCode)
	assert.ErrorIs(t, err, register.ErrAlreadyClosed)
}

func TestFecharCaixaExigeSupervisor(t *testing.T) {
	f := newCaixaFixture(t)
	reg := f.open(t, "100.00")

	_, err := f.svc.Fechar(context.Background(), f.rc, reg.ID,
		decimal.NewFromInt(100), "", nil, "codigo-errado")
	assert.ErrorIs(t, err, ErrAuthorizationDenied)

	current, findErr := f.svc.BuscarPorID(context.Background(), f.rc, reg.ID)
	require.NoError(t, findErr)
	assert.True(t, current.IsOpen())
}

func TestBuscarAberto(t *testing.T) {
	f := newCaixaFixture(t)

	_, err := f.svc.BuscarAberto(context.Background(), f.rc)
	assert.ErrorIs(t, err, register.ErrNoOpenRegister)

	reg := f.open(t, "100.00")
	found, err := f.svc.BuscarAberto(context.Background(), f.rc)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, found.ID)
}
