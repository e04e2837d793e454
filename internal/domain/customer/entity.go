package customer

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName        = errors.New("nome não pode ser vazio")
	ErrCustomerNotFound = errors.New("cliente não encontrado")
)

// Status representa o estado do cliente
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Customer representa um cliente associado opcionalmente a vendas
// (ex.: vendas fiado exigem cliente identificado)
type Customer struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Document  string    `json:"document"` // CPF/CNPJ
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCustomer cria um novo cliente
func NewCustomer(tenantID, name, document string) (*Customer, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	now := time.Now()
	return &Customer{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      name,
		Document:  document,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsActive verifica se o cliente está ativo
func (c *Customer) IsActive() bool {
	return c.Status == StatusActive
}

// Update atualiza os dados cadastrais do cliente
func (c *Customer) Update(name, document, email, phone string) error {
	if name == "" {
		return ErrEmptyName
	}

	c.Name = name
	c.Document = document
	c.Email = email
	c.Phone = phone
	c.UpdatedAt = time.Now()
	return nil
}
