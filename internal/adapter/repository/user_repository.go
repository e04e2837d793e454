package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/user"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository implementa a interface user.Repository
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository cria uma nova instância de UserRepository
func NewUserRepository(db *pgxpool.Pool) user.Repository {
	return &UserRepository{db: db}
}

// Create implementa user.Repository.Create
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (
			id, tenant_id, name, email, role, password_hash,
			supervisor_code_hash, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.TenantID, u.Name, u.Email, u.Role, u.PasswordHash,
		u.SupervisorCodeHash, u.Status, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("erro ao criar usuário: %w", err)
	}
	return nil
}

// FindByID implementa user.Repository.FindByID
func (r *UserRepository) FindByID(ctx context.Context, tenantID, id string) (*user.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		selectUser+` WHERE id = $1 AND tenant_id = $2`, id, tenantID))
}

// FindByEmail implementa user.Repository.FindByEmail
func (r *UserRepository) FindByEmail(ctx context.Context, tenantID, email string) (*user.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		selectUser+` WHERE tenant_id = $1 AND email = $2`, tenantID, email))
}

// FindActiveSupervisors implementa user.Repository.FindActiveSupervisors
func (r *UserRepository) FindActiveSupervisors(ctx context.Context, tenantID string) ([]*user.User, error) {
	rows, err := r.db.Query(ctx,
		selectUser+`
		WHERE tenant_id = $1 AND status = $2 AND role IN ($3, $4)
		AND supervisor_code_hash <> ''`,
		tenantID, user.StatusActive, user.RoleSupervisor, user.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar supervisores: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

// List implementa user.Repository.List
func (r *UserRepository) List(ctx context.Context, tenantID string, limit, offset int) ([]*user.User, error) {
	rows, err := r.db.Query(ctx,
		selectUser+` WHERE tenant_id = $1 ORDER BY name LIMIT $2 OFFSET $3`,
		tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar usuários: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

// Update implementa user.Repository.Update
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET
			name = $3, email = $4, role = $5, password_hash = $6,
			supervisor_code_hash = $7, updated_at = $8
		WHERE id = $1 AND tenant_id = $2`,
		u.ID, u.TenantID, u.Name, u.Email, u.Role, u.PasswordHash,
		u.SupervisorCodeHash, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("erro ao atualizar usuário: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// UpdateStatus implementa user.Repository.UpdateStatus
func (r *UserRepository) UpdateStatus(ctx context.Context, tenantID, id string, status user.Status) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET status = $3, updated_at = now()
		WHERE id = $1 AND tenant_id = $2`,
		id, tenantID, status)
	if err != nil {
		return fmt.Errorf("erro ao atualizar status do usuário: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

const selectUser = `SELECT id, tenant_id, name, email, role, password_hash,
	supervisor_code_hash, status, created_at, updated_at
	FROM users`

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.TenantID, &u.Name, &u.Email, &u.Role,
		&u.PasswordHash, &u.SupervisorCodeHash, &u.Status, &u.CreatedAt,
		&u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("erro ao buscar usuário: %w", err)
	}
	return &u, nil
}

func scanUsers(rows pgx.Rows) ([]*user.User, error) {
	var users []*user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
