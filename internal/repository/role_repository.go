package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/auth-service/internal/domain"
)

// RoleRepository is the role store: resolves role names to metadata and reports
// membership counts through the user_roles join relation.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) error
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	CountUsers(ctx context.Context, name string) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type roleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository returns a Postgres-backed implementation.
func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepository{pool: pool}
}

func (r *roleRepository) Create(ctx context.Context, role *domain.Role) error {
	const query = `
        INSERT INTO roles (id, name, description)
        VALUES ($1, $2, $3)
        RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		role.ID,
		role.Name,
		role.Description,
	).Scan(&role.CreatedAt)
}

func (r *roleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	const query = `SELECT id, name, description, created_at FROM roles WHERE name=$1`

	var role domain.Role
	if err := r.pool.QueryRow(ctx, query, name).Scan(
		&role.ID,
		&role.Name,
		&role.Description,
		&role.CreatedAt,
	); err != nil {
		return nil, translateNoRows(err)
	}
	return &role, nil
}

func (r *roleRepository) List(ctx context.Context) ([]domain.Role, error) {
	const query = `SELECT id, name, description, created_at FROM roles ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *roleRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM roles WHERE name=$1)`, name,
	).Scan(&exists)
	return exists, err
}

func (r *roleRepository) CountUsers(ctx context.Context, name string) (int64, error) {
	const query = `
        SELECT COUNT(*) FROM user_roles ur
        JOIN roles r ON r.id = ur.role_id
        WHERE r.name = $1`

	var count int64
	err := r.pool.QueryRow(ctx, query, name).Scan(&count)
	return count, err
}

func (r *roleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM roles`).Scan(&count)
	return count, err
}
