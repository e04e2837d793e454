package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/audit"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/pix"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/product"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/register"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/sale"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/stock"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Dublês em memória dos repositórios e colaboradores externos. Reproduzem
// as mutações condicionais que em produção acontecem no banco (decremento
// de estoque, delta de saldo, transição de status PIX).

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Warn(string, ...interface{})  {}

// --- auditoria ---

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*audit.Entry
}

func (r *fakeAuditRepo) Append(_ context.Context, e *audit.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeAuditRepo) ListByEntity(_ context.Context, tenantID, entityKind, entityID string) ([]*audit.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*audit.Entry
	for _, e := range r.entries {
		if e.TenantID == tenantID && e.EntityKind == entityKind && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeAuditRepo) List(_ context.Context, tenantID string, limit, offset int) ([]*audit.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*audit.Entry
	for _, e := range r.entries {
		if e.TenantID == tenantID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeAuditRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

// --- usuários ---

type fakeUserRepo struct {
	users []*user.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	r.users = append(r.users, u)
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, tenantID, id string) (*user.User, error) {
	for _, u := range r.users {
		if u.TenantID == tenantID && u.ID == id {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, tenantID, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.TenantID == tenantID && u.Email == email {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeUserRepo) FindActiveSupervisors(_ context.Context, tenantID string) ([]*user.User, error) {
	var out []*user.User
	for _, u := range r.users {
		if u.TenantID == tenantID && u.IsActive() && u.IsSupervisor() {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) List(_ context.Context, tenantID string, limit, offset int) ([]*user.User, error) {
	var out []*user.User
	for _, u := range r.users {
		if u.TenantID == tenantID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *user.User) error { return nil }

func (r *fakeUserRepo) UpdateStatus(_ context.Context, tenantID, id string, status user.Status) error {
	u, err := r.FindByID(context.Background(), tenantID, id)
	if err != nil {
		return err
	}
	u.Status = status
	return nil
}

func newSupervisor(t *testing.T, tenantID, name, code string) *user.User {
	t.Helper()
	u, err := user.NewUser(tenantID, name, name+"@loja.com", user.RoleSupervisor)
	require.NoError(t, err)
	require.NoError(t, u.SetSupervisorCode(code))
	return u
}

// --- produtos ---

type fakeProductRepo struct {
	products map[string]*product.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*product.Product)}
}

func (r *fakeProductRepo) add(p *product.Product) { r.products[p.ID] = p }

func (r *fakeProductRepo) Create(_ context.Context, p *product.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, tenantID, id string) (*product.Product, error) {
	p, ok := r.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, stock.ErrProductNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) FindByBarcode(_ context.Context, tenantID, barcode string) (*product.Product, error) {
	for _, p := range r.products {
		if p.TenantID == tenantID && p.Barcode == barcode {
			return p, nil
		}
	}
	return nil, stock.ErrProductNotFound
}

func (r *fakeProductRepo) List(_ context.Context, tenantID string, limit, offset int) ([]*product.Product, error) {
	var out []*product.Product
	for _, p := range r.products {
		if p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *product.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) UpdateStatus(_ context.Context, tenantID, id string, status product.Status) error {
	p, ok := r.products[id]
	if !ok {
		return stock.ErrProductNotFound
	}
	p.Status = status
	return nil
}

func (r *fakeProductRepo) CountByTenant(_ context.Context, tenantID string) (int, error) {
	n := 0
	for _, p := range r.products {
		if p.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

// --- livro de estoque ---

type fakeStockRepo struct {
	products  *fakeProductRepo
	movements []*stock.Movement
}

func (r *fakeStockRepo) Apply(_ context.Context, m *stock.Movement) (*stock.Movement, error) {
	p, ok := r.products.products[m.ProductID]
	if !ok || p.TenantID != m.TenantID {
		return nil, stock.ErrProductNotFound
	}

	before := p.Stock
	var after decimal.Decimal
	switch m.Kind {
	case stock.KindEntrada, stock.KindEstorno:
		after = before.Add(m.Quantity)
	case stock.KindSaida:
		after = before.Sub(m.Quantity)
		if after.IsNegative() {
			return nil, &stock.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Available:   before,
				Requested:   m.Quantity,
			}
		}
	case stock.KindAjuste:
		after = m.Quantity
	default:
		return nil, stock.ErrInvalidKind
	}

	p.Stock = after
	m.StockBefore = before
	m.StockAfter = after
	r.movements = append(r.movements, m)
	return m, nil
}

func (r *fakeStockRepo) ListByProduct(_ context.Context, tenantID, productID string, limit, offset int) ([]*stock.Movement, error) {
	var out []*stock.Movement
	for _, m := range r.movements {
		if m.TenantID == tenantID && m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeStockRepo) ListByReference(_ context.Context, tenantID string, refKind stock.ReferenceKind, refID string) ([]*stock.Movement, error) {
	var out []*stock.Movement
	for _, m := range r.movements {
		if m.TenantID == tenantID && m.ReferenceKind == refKind && m.ReferenceID == refID {
			out = append(out, m)
		}
	}
	return out, nil
}

// --- caixa ---

type fakeRegisterRepo struct {
	registers map[string]*register.CashRegister
	movements []*register.CashMovement
}

func newFakeRegisterRepo() *fakeRegisterRepo {
	return &fakeRegisterRepo{registers: make(map[string]*register.CashRegister)}
}

func (r *fakeRegisterRepo) Create(_ context.Context, reg *register.CashRegister) error {
	for _, existing := range r.registers {
		if existing.TenantID == reg.TenantID && existing.OperatorID == reg.OperatorID && existing.IsOpen() {
			return register.ErrAlreadyOpen
		}
	}
	r.registers[reg.ID] = reg
	return nil
}

// FindByID devolve uma cópia, como uma leitura de linha do banco: o
// chamador enxerga um snapshot, não o registro vivo.
func (r *fakeRegisterRepo) FindByID(_ context.Context, tenantID, id string) (*register.CashRegister, error) {
	reg, ok := r.registers[id]
	if !ok || reg.TenantID != tenantID {
		return nil, register.ErrRegisterNotFound
	}
	snapshot := *reg
	return &snapshot, nil
}

func (r *fakeRegisterRepo) FindOpenByOperator(_ context.Context, tenantID, operatorID string) (*register.CashRegister, error) {
	for _, reg := range r.registers {
		if reg.TenantID == tenantID && reg.OperatorID == operatorID && reg.IsOpen() {
			return reg, nil
		}
	}
	return nil, register.ErrNoOpenRegister
}

// RecordMovement espelha a mutação condicional feita em SQL: sessão
// aberta e, para deltas negativos, saldo suficiente.
func (r *fakeRegisterRepo) RecordMovement(_ context.Context, m *register.CashMovement) (*register.CashRegister, error) {
	reg, ok := r.registers[m.RegisterID]
	if !ok || reg.TenantID != m.TenantID || !reg.IsOpen() {
		return nil, register.ErrNoOpenRegister
	}

	delta := m.Delta()
	newBalance := reg.RunningBalance.Add(delta)
	if delta.IsNegative() && newBalance.IsNegative() {
		return nil, register.ErrInsufficientBalance
	}

	reg.RunningBalance = newBalance
	r.movements = append(r.movements, m)
	return reg, nil
}

// Close espelha o UPDATE de fechamento: o delta de conferência é
// recalculado sobre o saldo corrente persistido, não sobre o snapshot
// lido pelo chamador.
func (r *fakeRegisterRepo) Close(_ context.Context, reg *register.CashRegister) error {
	stored, ok := r.registers[reg.ID]
	if !ok {
		return register.ErrRegisterNotFound
	}
	if !stored.IsOpen() {
		return register.ErrAlreadyClosed
	}

	if reg.ClosingBalance != nil {
		delta := reg.ClosingBalance.Sub(stored.RunningBalance)
		reg.ReconciliationDelta = &delta
	}
	reg.RunningBalance = stored.RunningBalance

	*stored = *reg
	return nil
}

func (r *fakeRegisterRepo) ListMovements(_ context.Context, tenantID, registerID string) ([]*register.CashMovement, error) {
	var out []*register.CashMovement
	for _, m := range r.movements {
		if m.TenantID == tenantID && m.RegisterID == registerID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeRegisterRepo) List(_ context.Context, tenantID string, limit, offset int) ([]*register.CashRegister, error) {
	var out []*register.CashRegister
	for _, reg := range r.registers {
		if reg.TenantID == tenantID {
			out = append(out, reg)
		}
	}
	return out, nil
}

// --- vendas ---

type fakeSaleRepo struct {
	products   *fakeProductRepo
	registers  *fakeRegisterRepo
	sales      map[string]*sale.Sale
	nextNumber int64

	cancelledWithCompensation []string
}

func newFakeSaleRepo(products *fakeProductRepo, registers *fakeRegisterRepo) *fakeSaleRepo {
	return &fakeSaleRepo{
		products:  products,
		registers: registers,
		sales:     make(map[string]*sale.Sale),
	}
}

// CommitSale reproduz a transação de finalização: decremento condicional
// de estoque por item de catálogo, número sequencial e, para vendas já
// finalizadas, a movimentação de caixa.
func (r *fakeSaleRepo) CommitSale(ctx context.Context, s *sale.Sale) error {
	for _, l := range s.StockLines() {
		p, ok := r.products.products[*l.ProductID]
		if !ok {
			return stock.ErrProductNotFound
		}
		remaining := p.Stock.Sub(l.Quantity)
		if remaining.IsNegative() {
			return &stock.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Available:   p.Stock,
				Requested:   l.Quantity,
			}
		}
		p.Stock = remaining
	}

	r.nextNumber++
	s.Number = r.nextNumber
	r.sales[s.ID] = s

	if s.Status == sale.StatusFinalized && s.RegisterID != nil && r.registers != nil {
		m, err := register.NewCashMovement(s.TenantID, *s.RegisterID,
			register.MovementSale, s.Total, "", "")
		if err != nil {
			return err
		}
		if _, err := r.registers.RecordMovement(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeSaleRepo) CancelSale(ctx context.Context, s *sale.Sale, compensateCash bool) error {
	for _, l := range s.StockLines() {
		if p, ok := r.products.products[*l.ProductID]; ok {
			p.Stock = p.Stock.Add(l.Quantity)
		}
	}
	r.sales[s.ID] = s

	if compensateCash {
		r.cancelledWithCompensation = append(r.cancelledWithCompensation, s.ID)
		if s.RegisterID != nil && r.registers != nil {
			m, err := register.NewCashMovement(s.TenantID, *s.RegisterID,
				register.MovementSaleRefund, s.Total, "", "")
			if err != nil {
				return err
			}
			if _, err := r.registers.RecordMovement(ctx, m); err != nil {
				// Caixa já fechado: a compensação é dispensada em silêncio
				if errors.Is(err, register.ErrNoOpenRegister) {
					return nil
				}
				return err
			}
		}
	}
	return nil
}

func (r *fakeSaleRepo) FinalizePix(ctx context.Context, tenantID, saleID string) (*sale.Sale, error) {
	s, ok := r.sales[saleID]
	if !ok || s.TenantID != tenantID {
		return nil, sale.ErrSaleNotFound
	}
	if err := s.MarkFinalized(); err != nil {
		return nil, err
	}
	if s.RegisterID != nil && r.registers != nil {
		m, err := register.NewCashMovement(s.TenantID, *s.RegisterID,
			register.MovementSale, s.Total, "", "")
		if err != nil {
			return nil, err
		}
		if _, err := r.registers.RecordMovement(ctx, m); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (r *fakeSaleRepo) FindByID(_ context.Context, tenantID, id string) (*sale.Sale, error) {
	s, ok := r.sales[id]
	if !ok || s.TenantID != tenantID {
		return nil, sale.ErrSaleNotFound
	}
	return s, nil
}

func (r *fakeSaleRepo) List(_ context.Context, tenantID string, limit, offset int) ([]*sale.Sale, error) {
	var out []*sale.Sale
	for _, s := range r.sales {
		if s.TenantID == tenantID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) UpdateFiscalStatus(_ context.Context, tenantID, id string, status sale.FiscalStatus, receiptKey string) error {
	s, ok := r.sales[id]
	if !ok || s.TenantID != tenantID {
		return sale.ErrSaleNotFound
	}
	s.FiscalStatus = status
	s.FiscalReceiptKey = receiptKey
	return nil
}

// --- transações PIX ---

type fakePixRepo struct {
	transactions map[string]*pix.Transaction
}

func newFakePixRepo() *fakePixRepo {
	return &fakePixRepo{transactions: make(map[string]*pix.Transaction)}
}

func (r *fakePixRepo) Create(_ context.Context, t *pix.Transaction) error {
	r.transactions[t.ID] = t
	return nil
}

func (r *fakePixRepo) FindByID(_ context.Context, tenantID, id string) (*pix.Transaction, error) {
	t, ok := r.transactions[id]
	if !ok || t.TenantID != tenantID {
		return nil, pix.ErrTransactionNotFound
	}
	return t, nil
}

func (r *fakePixRepo) FindBySale(_ context.Context, tenantID, saleID string) (*pix.Transaction, error) {
	var latest *pix.Transaction
	for _, t := range r.transactions {
		if t.TenantID == tenantID && t.SaleID == saleID {
			if latest == nil || t.CreatedAt.After(latest.CreatedAt) {
				latest = t
			}
		}
	}
	if latest == nil {
		return nil, pix.ErrTransactionNotFound
	}
	return latest, nil
}

func (r *fakePixRepo) FindByExternalID(_ context.Context, externalID string) (*pix.Transaction, error) {
	for _, t := range r.transactions {
		if t.ExternalID == externalID {
			return t, nil
		}
	}
	return nil, pix.ErrTransactionNotFound
}

// UpdateStatus espelha a escrita condicional do banco: só tem efeito se o
// status corrente for `from`.
func (r *fakePixRepo) UpdateStatus(_ context.Context, tenantID, id string, from, to pix.Status, metadata json.RawMessage) error {
	t, ok := r.transactions[id]
	if !ok || t.TenantID != tenantID {
		return pix.ErrTransactionNotFound
	}
	if t.Status != from {
		return pix.ErrInvalidTransition
	}
	t.Status = to
	if metadata != nil {
		t.ProviderMetadata = metadata
	}
	return nil
}

func (r *fakePixRepo) ListPending(_ context.Context, tenantID string, limit int) ([]*pix.Transaction, error) {
	var out []*pix.Transaction
	for _, t := range r.transactions {
		if t.TenantID == tenantID && t.IsPending() {
			out = append(out, t)
		}
	}
	return out, nil
}

// --- gateway PIX ---

type fakePixGateway struct {
	charge    *pix.Charge
	chargeErr error

	status    pix.Status
	metadata  json.RawMessage
	statusErr error

	refundErr   error
	refundCalls int
}

func (g *fakePixGateway) CreateCharge(_ context.Context, tenantID string, amount decimal.Decimal, reference string) (*pix.Charge, error) {
	if g.chargeErr != nil {
		return nil, g.chargeErr
	}
	if g.charge != nil {
		return g.charge, nil
	}
	return &pix.Charge{ExternalID: "ext-" + reference, QRPayload: "qr-" + reference}, nil
}

func (g *fakePixGateway) GetChargeStatus(_ context.Context, tenantID, externalID string) (pix.Status, json.RawMessage, error) {
	if g.statusErr != nil {
		return "", nil, g.statusErr
	}
	return g.status, g.metadata, nil
}

func (g *fakePixGateway) Refund(_ context.Context, tenantID, externalID string) error {
	g.refundCalls++
	return g.refundErr
}

// --- fila de trabalhos ---

type fakeDispatcher struct {
	fiscalSales []string
	pixPolls    []string
}

func (d *fakeDispatcher) EnqueueFiscalIssuance(_ context.Context, tenantID, saleID string) error {
	d.fiscalSales = append(d.fiscalSales, saleID)
	return nil
}

func (d *fakeDispatcher) EnqueuePixPoll(_ context.Context, tenantID, transactionID string) error {
	d.pixPolls = append(d.pixPolls, transactionID)
	return nil
}
