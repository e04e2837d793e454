package service

import (
	"context"
	"testing"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/user"
	"github.com/hugohenrick/pdv-supermercado/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func operatorRC(tenantID, operatorID string) auth.RequestContext {
	return auth.RequestContext{TenantID: tenantID, UserID: operatorID}
}

func TestAuthorize(t *testing.T) {
	userRepo := &fakeUserRepo{}
	sup := newSupervisor(t, "tenant-1", "ana", "9876")
	userRepo.users = append(userRepo.users, sup)

	svc := NewSupervisorService(userRepo, noopLogger{})

	got, err := svc.Authorize(context.Background(), operatorRC("tenant-1", "op-1"), "9876")
	require.NoError(t, err)
	assert.Equal(t, sup.ID, got.ID)
}

func TestAuthorizeNegacaoGenerica(t *testing.T) {
	userRepo := &fakeUserRepo{}
	userRepo.users = append(userRepo.users, newSupervisor(t, "tenant-1", "ana", "9876"))

	svc := NewSupervisorService(userRepo, noopLogger{})

	// Código errado e tenant sem supervisores produzem a mesma negação,
	// sem revelar qual dos dois aconteceu
	_, err := svc.Authorize(context.Background(), operatorRC("tenant-1", "op-1"), "0000")
	assert.ErrorIs(t, err, ErrAuthorizationDenied)

	_, err = svc.Authorize(context.Background(), operatorRC("tenant-2", "op-1"), "9876")
	assert.ErrorIs(t, err, ErrAuthorizationDenied)
}

func TestAuthorizeCodigoVazio(t *testing.T) {
	svc := NewSupervisorService(&fakeUserRepo{}, noopLogger{})

	_, err := svc.Authorize(context.Background(), operatorRC("tenant-1", "op-1"), "")
	assert.ErrorIs(t, err, ErrAuthorizationDenied)
}

func TestAuthorizeIgnoraSupervisorInativo(t *testing.T) {
	userRepo := &fakeUserRepo{}
	sup := newSupervisor(t, "tenant-1", "ana", "9876")
	sup.Status = user.StatusInactive
	userRepo.users = append(userRepo.users, sup)

	svc := NewSupervisorService(userRepo, noopLogger{})

	_, err := svc.Authorize(context.Background(), operatorRC("tenant-1", "op-1"), "9876")
	assert.ErrorIs(t, err, ErrAuthorizationDenied)
}

func TestAuthorizeIgnoraOperador(t *testing.T) {
	userRepo := &fakeUserRepo{}
	op, err := user.NewUser("tenant-1", "Maria", "maria@loja.com", user.RoleOperator)
	require.NoError(t, err)
	require.NoError(t, op.SetSupervisorCode("9876"))
	userRepo.users = append(userRepo.users, op)

	svc := NewSupervisorService(userRepo, noopLogger{})

	// Operador com código cadastrado por engano não autoriza nada
	_, err = svc.Authorize(context.Background(), operatorRC("tenant-1", "op-1"), "9876")
	assert.ErrorIs(t, err, ErrAuthorizationDenied)
}

func TestAuthorizeAdminTambemAutoriza(t *testing.T) {
	userRepo := &fakeUserRepo{}
	admin, err := user.NewUser("tenant-1", "João", "joao@loja.com", user.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, admin.SetSupervisorCode("1111"))
	userRepo.users = append(userRepo.users, admin)

	svc := NewSupervisorService(userRepo, noopLogger{})

	got, err := svc.Authorize(context.Background(), operatorRC("tenant-1", "op-1"), "1111")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)
}

func TestAuthorizeLimiteDeTentativas(t *testing.T) {
	userRepo := &fakeUserRepo{}
	userRepo.users = append(userRepo.users, newSupervisor(t, "tenant-1", "ana", "9876"))

	svc := NewSupervisorService(userRepo, noopLogger{})
	rc := operatorRC("tenant-1", "op-1")

	for i := 0; i < 5; i++ {
		_, err := svc.Authorize(context.Background(), rc, "0000")
		assert.ErrorIs(t, err, ErrAuthorizationDenied, "tentativa %d", i+1)
	}

	// A sexta tentativa dentro da janela é barrada antes da verificação
	_, err := svc.Authorize(context.Background(), rc, "0000")
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	// Outro tenant não é afetado
	_, err = svc.Authorize(context.Background(), operatorRC("tenant-2", "op-1"), "0000")
	assert.ErrorIs(t, err, ErrAuthorizationDenied)
}

func TestAuthorizeLimitePorOperador(t *testing.T) {
	userRepo := &fakeUserRepo{}
	userRepo.users = append(userRepo.users, newSupervisor(t, "tenant-1", "ana", "9876"))

	svc := NewSupervisorService(userRepo, noopLogger{})

	for i := 0; i < 5; i++ {
		_, err := svc.Authorize(context.Background(), operatorRC("tenant-1", "op-1"), "0000")
		assert.ErrorIs(t, err, ErrAuthorizationDenied)
	}
	_, err := svc.Authorize(context.Background(), operatorRC("tenant-1", "op-1"), "0000")
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	// Outro operador do mesmo tenant continua autorizando normalmente
	got, err := svc.Authorize(context.Background(), operatorRC("tenant-1", "op-2"), "9876")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestAuthorizeSucessoNaoConsomeTentativas(t *testing.T) {
	userRepo := &fakeUserRepo{}
	userRepo.users = append(userRepo.users, newSupervisor(t, "tenant-1", "ana", "9876"))

	svc := NewSupervisorService(userRepo, noopLogger{})
	rc := operatorRC("tenant-1", "op-1")

	// Uma sequência de sangrias legítimas não esgota a janela
	for i := 0; i < 10; i++ {
		_, err := svc.Authorize(context.Background(), rc, "9876")
		require.NoError(t, err, "autorização %d", i+1)
	}

	// E ainda restam todas as tentativas para um código errado
	for i := 0; i < 5; i++ {
		_, err := svc.Authorize(context.Background(), rc, "0000")
		assert.ErrorIs(t, err, ErrAuthorizationDenied, "tentativa %d", i+1)
	}
}
