package auth

import (
	"errors"
)

// Papéis de usuário reconhecidos pelo sistema
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleOperator   = "operator"
)

// ErrUnauthenticated ocorre quando não há usuário autenticado no contexto
var ErrUnauthenticated = errors.New("usuário não autenticado")

// RequestContext carrega a identidade da requisição de forma explícita.
// Todas as operações de negócio recebem este valor como parâmetro em vez
// de consultar estado ambiente.
type RequestContext struct {
	TenantID string
	UserID   string
	// OperatorID identifica o operador de caixa quando distinto do usuário
	// autenticado (ex.: cartão de operador passado no terminal)
	OperatorID string
	Email      string
	Role       string
}

// Operator retorna o operador efetivo da requisição
func (rc RequestContext) Operator() string {
	if rc.OperatorID != "" {
		return rc.OperatorID
	}
	return rc.UserID
}

// HasRole verifica se o usuário possui um dos papéis informados
func (rc RequestContext) HasRole(roles ...string) bool {
	for _, role := range roles {
		if rc.Role == role {
			return true
		}
	}
	return false
}

// Validate verifica se o contexto carrega uma identidade completa
func (rc RequestContext) Validate() error {
	if rc.TenantID == "" || rc.UserID == "" {
		return ErrUnauthenticated
	}
	return nil
}

// FromGinContext monta o RequestContext a partir das claims armazenadas
// pelo middleware JWT no contexto do Gin
func FromGinContext(c interface{ GetString(string) string }) RequestContext {
	return RequestContext{
		TenantID:   c.GetString("tenant_id"),
		UserID:     c.GetString("user_id"),
		OperatorID: c.GetString("operator_id"),
		Email:      c.GetString("user_email"),
		Role:       c.GetString("user_role"),
	}
}
