package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/auth-service/internal/domain"
)

// UserRepository is the credential store: persistence access for accounts and
// their role membership.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User, roleIDs []string) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ReplaceRoles(ctx context.Context, userID string, roleIDs []string) error
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `
        u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name,
        u.enabled, u.account_non_expired, u.account_non_locked, u.credentials_non_expired,
        u.created_at, u.updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User, roleIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        INSERT INTO users (
            id, username, email, password_hash, first_name, last_name,
            enabled, account_non_expired, account_non_locked, credentials_non_expired)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING created_at, updated_at`

	if err := tx.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Enabled,
		user.AccountNonExpired,
		user.AccountNonLocked,
		user.CredentialsNonExpired,
	).Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		return err
	}

	for _, roleID := range roleIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`,
			user.ID, roleID,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET
            email=$1, password_hash=$2, first_name=$3, last_name=$4,
            enabled=$5, account_non_expired=$6, account_non_locked=$7,
            credentials_non_expired=$8, updated_at=NOW()
        WHERE id=$9`

	cmd, err := r.pool.Exec(ctx, query,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Enabled,
		user.AccountNonExpired,
		user.AccountNonLocked,
		user.CredentialsNonExpired,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id=$1`, id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users u WHERE u.username=$1`, username)
}

func (r *userRepository) GetByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error) {
	return r.getOne(ctx,
		`SELECT `+userColumns+` FROM users u WHERE u.username=$1 OR u.email=$1`,
		identifier)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Enabled,
		&user.AccountNonExpired,
		&user.AccountNonLocked,
		&user.CredentialsNonExpired,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, translateNoRows(err)
	}

	roles, err := r.loadRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	return &user, nil
}

func (r *userRepository) loadRoles(ctx context.Context, userID string) ([]string, error) {
	const query = `
        SELECT r.name FROM roles r
        JOIN user_roles ur ON ur.role_id = r.id
        WHERE ur.user_id = $1
        ORDER BY r.name`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username=$1)`, username)
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email=$1)`, email)
}

func (r *userRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, query, arg).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ReplaceRoles swaps the full membership set for a user. An empty roleIDs slice
// leaves the account with no roles; role-gated routes then deny it.
func (r *userRepository) ReplaceRoles(ctx context.Context, userID string, roleIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id=$1`, userID); err != nil {
		return err
	}
	for _, roleID := range roleIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`,
			userID, roleID,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}
