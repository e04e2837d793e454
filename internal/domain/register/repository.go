package register

import (
	"context"
)

// Repository define a interface para operações de repositório de caixa.
// As mutações de saldo são condicionais e atômicas no banco; o cliente
// nunca faz read-modify-write do saldo corrente.
type Repository interface {
	// Create persiste uma nova sessão de caixa. Retorna ErrAlreadyOpen
	// quando já existe sessão aberta para o par (operador, tenant) —
	// garantido por índice único parcial.
	Create(ctx context.Context, r *CashRegister) error

	// FindByID busca uma sessão pelo ID
	FindByID(ctx context.Context, tenantID, id string) (*CashRegister, error)

	// FindOpenByOperator busca a sessão aberta de um operador
	FindOpenByOperator(ctx context.Context, tenantID, operatorID string) (*CashRegister, error)

	// RecordMovement aplica o delta da movimentação sobre o saldo
	// corrente de forma atômica e condicional (sessão aberta; saldo
	// suficiente para sangria) e registra a movimentação na mesma
	// transação. Retorna ErrNoOpenRegister ou ErrInsufficientBalance.
	RecordMovement(ctx context.Context, m *CashMovement) (*CashRegister, error)

	// Close fecha a sessão exatamente uma vez, gravando valor conferido e
	// conferência por forma de pagamento. O delta de conferência é
	// recalculado sobre o saldo corrente persistido no momento do
	// fechamento e refletido em r. Retorna ErrAlreadyClosed quando a
	// sessão não está aberta.
	Close(ctx context.Context, r *CashRegister) error

	// ListMovements lista as movimentações da sessão em ordem de registro
	ListMovements(ctx context.Context, tenantID, registerID string) ([]*CashMovement, error)

	// List lista as sessões de um tenant com paginação
	List(ctx context.Context, tenantID string, limit, offset int) ([]*CashRegister, error)
}
