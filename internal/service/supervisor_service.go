package service

import (
	"context"
	"errors"
	"time"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/user"
	"github.com/hugohenrick/pdv-supermercado/pkg/auth"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
	"github.com/hugohenrick/pdv-supermercado/pkg/ratelimit"
)

var (
	// ErrAuthorizationDenied é a negação genérica do gate de supervisor.
	// Não distingue código errado de supervisor inexistente, para evitar
	// enumeração de credenciais.
	ErrAuthorizationDenied = errors.New("código de supervisor inválido")

	// ErrTooManyAttempts ocorre quando o limite de tentativas do operador
	// foi excedido
	ErrTooManyAttempts = errors.New("muitas tentativas de autorização, aguarde alguns segundos")
)

// SupervisorService é o gate de autorização de supervisor: valida o
// código apresentado no terminal contra os supervisores ativos do tenant.
// A origem do código (digitação manual ou rajada de leitor de código de
// barras) é responsabilidade da camada de entrada; aqui chega sempre uma
// string já consolidada.
type SupervisorService struct {
	users   user.Repository
	limiter *ratelimit.Limiter
	logger  logger.Logger
}

// NewSupervisorService cria uma nova instância de SupervisorService
func NewSupervisorService(users user.Repository, logger logger.Logger) *SupervisorService {
	return &SupervisorService{
		users:   users,
		limiter: ratelimit.NewLimiter(5, 10*time.Second),
		logger:  logger,
	}
}

// Authorize valida o código apresentado e retorna o supervisor que
// autorizou. A comparação percorre todos os supervisores ativos do
// tenant (o código é armazenado como hash bcrypt, não é pesquisável).
func (s *SupervisorService) Authorize(ctx context.Context, rc auth.RequestContext, presentedCode string) (*user.User, error) {
	if presentedCode == "" {
		return nil, ErrAuthorizationDenied
	}

	// A janela de tentativas é por operador: terminais do mesmo tenant
	// não disputam o mesmo limite
	key := rc.TenantID + ":" + rc.Operator()
	if allowed, _ := s.limiter.Allow(key); !allowed {
		s.logger.Warn("limite de tentativas de autorização excedido",
			"tenant_id", rc.TenantID, "operator_id", rc.Operator())
		return nil, ErrTooManyAttempts
	}

	supervisors, err := s.users.FindActiveSupervisors(ctx, rc.TenantID)
	if err != nil {
		return nil, err
	}

	for _, sup := range supervisors {
		if sup.CheckSupervisorCode(presentedCode) {
			// Autorização legítima não conta como tentativa
			s.limiter.Reset(key)
			return sup, nil
		}
	}

	s.logger.Warn("autorização de supervisor negada",
		"tenant_id", rc.TenantID, "operator_id", rc.Operator())
	return nil, ErrAuthorizationDenied
}
