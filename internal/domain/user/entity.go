package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyName          = errors.New("nome não pode ser vazio")
	ErrEmptyEmail         = errors.New("email não pode ser vazio")
	ErrInvalidRole        = errors.New("papel de usuário inválido")
	ErrEmptyPassword      = errors.New("senha não pode ser vazia")
	ErrEmptyCode          = errors.New("código de supervisor não pode ser vazio")
	ErrUserNotFound       = errors.New("usuário não encontrado")
	ErrInvalidCredentials = errors.New("credenciais inválidas")
)

// Role define o papel do usuário no sistema
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleOperator   Role = "operator"
)

// Valid verifica se o papel é reconhecido
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSupervisor || r == RoleOperator
}

// Status representa o estado do usuário
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// User representa um usuário do sistema: operador de caixa, supervisor
// ou administrador. Supervisores possuem um código de autorização
// (hash bcrypt) apresentado no terminal para liberar operações
// privilegiadas.
type User struct {
	ID                 string    `json:"id"`
	TenantID           string    `json:"tenant_id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Role               Role      `json:"role"`
	PasswordHash       string    `json:"-"`
	SupervisorCodeHash string    `json:"-"`
	Status             Status    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewUser cria um novo usuário
func NewUser(tenantID, name, email string, role Role) (*User, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if email == "" {
		return nil, ErrEmptyEmail
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	now := time.Now()
	return &User{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      name,
		Email:     email,
		Role:      role,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsActive verifica se o usuário está ativo
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// IsSupervisor verifica se o usuário pode autorizar operações privilegiadas
func (u *User) IsSupervisor() bool {
	return u.Role == RoleSupervisor || u.Role == RoleAdmin
}

// SetPassword define a senha do usuário com hash bcrypt
func (u *User) SetPassword(plain string) error {
	if plain == "" {
		return ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now()
	return nil
}

// CheckPassword verifica a senha do usuário
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

// SetSupervisorCode define o código de autorização do supervisor
func (u *User) SetSupervisorCode(plain string) error {
	if plain == "" {
		return ErrEmptyCode
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.SupervisorCodeHash = string(hash)
	u.UpdatedAt = time.Now()
	return nil
}

// CheckSupervisorCode verifica o código de autorização apresentado
func (u *User) CheckSupervisorCode(plain string) bool {
	if u.SupervisorCodeHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.SupervisorCodeHash), []byte(plain)) == nil
}
