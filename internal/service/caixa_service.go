package service

import (
	"context"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/audit"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/register"
	"github.com/hugohenrick/pdv-supermercado/pkg/auth"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
	"github.com/shopspring/decimal"
)

// CaixaService orquestra o ciclo de vida das sessões de caixa:
// abertura, sangria, suprimento e fechamento. Sangria, suprimento e
// fechamento exigem autorização de supervisor.
type CaixaService struct {
	registers   register.Repository
	supervisors *SupervisorService
	audit       *AuditService
	logger      logger.Logger
}

// NewCaixaService cria uma nova instância de CaixaService
func NewCaixaService(registers register.Repository, supervisors *SupervisorService, audit *AuditService, logger logger.Logger) *CaixaService {
	return &CaixaService{
		registers:   registers,
		supervisors: supervisors,
		audit:       audit,
		logger:      logger,
	}
}

// Abrir abre uma nova sessão de caixa para o operador da requisição.
// Retorna register.ErrAlreadyOpen quando já existe sessão aberta.
func (s *CaixaService) Abrir(ctx context.Context, rc auth.RequestContext, openingBalance decimal.Decimal, notes string) (*register.CashRegister, error) {
	reg, err := register.NewCashRegister(rc.TenantID, rc.Operator(), openingBalance, notes)
	if err != nil {
		return nil, err
	}

	if err := s.registers.Create(ctx, reg); err != nil {
		return nil, err
	}

	s.logger.Info("caixa aberto",
		"register_id", reg.ID,
		"operator_id", reg.OperatorID,
		"opening_balance", reg.OpeningBalance.String())

	s.audit.Record(ctx, audit.NewEntry(rc.TenantID, rc.UserID, rc.OperatorID,
		audit.ActionRegisterOpened, "caixa", reg.ID, nil, reg, notes))

	return reg, nil
}

// Sangria registra uma retirada autorizada de dinheiro do caixa.
// Exige autorização de supervisor e saldo suficiente.
func (s *CaixaService) Sangria(ctx context.Context, rc auth.RequestContext, registerID string, amount decimal.Decimal, description, supervisorCode string) (*register.CashRegister, error) {
	sup, err := s.supervisors.Authorize(ctx, rc, supervisorCode)
	if err != nil {
		return nil, err
	}

	m, err := register.NewCashMovement(rc.TenantID, registerID,
		register.MovementSangria, amount, description, sup.ID)
	if err != nil {
		return nil, err
	}

	reg, err := s.registers.RecordMovement(ctx, m)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.NewEntry(rc.TenantID, rc.UserID, rc.OperatorID,
		audit.ActionSangria, "caixa", registerID, nil, m, description))

	return reg, nil
}

// Suprimento registra um reforço de troco no caixa.
// Exige autorização de supervisor.
func (s *CaixaService) Suprimento(ctx context.Context, rc auth.RequestContext, registerID string, amount decimal.Decimal, description, supervisorCode string) (*register.CashRegister, error) {
	sup, err := s.supervisors.Authorize(ctx, rc, supervisorCode)
	if err != nil {
		return nil, err
	}

	m, err := register.NewCashMovement(rc.TenantID, registerID,
		register.MovementSuprimento, amount, description, sup.ID)
	if err != nil {
		return nil, err
	}

	reg, err := s.registers.RecordMovement(ctx, m)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.NewEntry(rc.TenantID, rc.UserID, rc.OperatorID,
		audit.ActionSuprimento, "caixa", registerID, nil, m, description))

	return reg, nil
}

// Fechar encerra a sessão de caixa registrando o valor conferido.
// O delta de conferência (conferido − saldo corrente) é reportado, nunca
// bloqueia o fechamento. Exige autorização de supervisor.
func (s *CaixaService) Fechar(ctx context.Context, rc auth.RequestContext, registerID string, countedTotal decimal.Decimal, notes string, breakdown *register.CloseBreakdown, supervisorCode string) (*register.CashRegister, error) {
	if _, err := s.supervisors.Authorize(ctx, rc, supervisorCode); err != nil {
		return nil, err
	}

	reg, err := s.registers.FindByID(ctx, rc.TenantID, registerID)
	if err != nil {
		return nil, err
	}

	before := *reg
	if err := reg.Close(countedTotal, notes, breakdown); err != nil {
		return nil, err
	}

	if err := s.registers.Close(ctx, reg); err != nil {
		return nil, err
	}

	s.logger.Info("caixa fechado",
		"register_id", reg.ID,
		"closing_balance", countedTotal.String(),
		"reconciliation_delta", reg.ReconciliationDelta.String())

	s.audit.Record(ctx, audit.NewEntry(rc.TenantID, rc.UserID, rc.OperatorID,
		audit.ActionRegisterClosed, "caixa", reg.ID, &before, reg, notes))

	return reg, nil
}

// BuscarPorID busca uma sessão de caixa pelo ID
func (s *CaixaService) BuscarPorID(ctx context.Context, rc auth.RequestContext, registerID string) (*register.CashRegister, error) {
	return s.registers.FindByID(ctx, rc.TenantID, registerID)
}

// BuscarAberto busca a sessão aberta do operador da requisição
func (s *CaixaService) BuscarAberto(ctx context.Context, rc auth.RequestContext) (*register.CashRegister, error) {
	return s.registers.FindOpenByOperator(ctx, rc.TenantID, rc.Operator())
}

// ListarMovimentos lista as movimentações de uma sessão em ordem de registro
func (s *CaixaService) ListarMovimentos(ctx context.Context, rc auth.RequestContext, registerID string) ([]*register.CashMovement, error) {
	if _, err := s.registers.FindByID(ctx, rc.TenantID, registerID); err != nil {
		return nil, err
	}
	return s.registers.ListMovements(ctx, rc.TenantID, registerID)
}

// Listar lista as sessões de caixa do tenant
func (s *CaixaService) Listar(ctx context.Context, rc auth.RequestContext, limit, offset int) ([]*register.CashRegister, error) {
	return s.registers.List(ctx, rc.TenantID, limit, offset)
}
