package user

import (
	"context"
)

// Repository define a interface para operações de repositório de usuários
type Repository interface {
	// Create cria um novo usuário
	Create(ctx context.Context, u *User) error

	// FindByID busca um usuário pelo ID
	FindByID(ctx context.Context, tenantID, id string) (*User, error)

	// FindByEmail busca um usuário pelo email dentro do tenant
	FindByEmail(ctx context.Context, tenantID, email string) (*User, error)

	// FindActiveSupervisors lista os supervisores ativos de um tenant.
	// Usado pelo gate de autorização de supervisor.
	FindActiveSupervisors(ctx context.Context, tenantID string) ([]*User, error)

	// List lista os usuários de um tenant com paginação
	List(ctx context.Context, tenantID string, limit, offset int) ([]*User, error)

	// Update atualiza os dados de um usuário
	Update(ctx context.Context, u *User) error

	// UpdateStatus atualiza o status de um usuário
	UpdateStatus(ctx context.Context, tenantID, id string, status Status) error
}
