package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jharper/crmsync/internal/domain"
)

const userColumns = `id, username, email, phone, first_name, last_name, password, salt, role, disabled, created_at, updated_at`

// userRepository implements UserRepository interface
type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func scanUser(row pgx.Row) (domain.User, error) {
	var user domain.User
	var role string
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.Phone,
		&user.FirstName, &user.LastName, &user.PasswordHash, &user.Salt,
		&role, &user.Disabled, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	user.Role = domain.Role(role)
	return user, nil
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, phone, first_name, last_name, password, salt, role, disabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+userColumns,
		user.Username, user.Email, user.Phone, user.FirstName, user.LastName,
		user.PasswordHash, user.Salt, string(user.Role), user.Disabled,
	)

	created, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	user, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)

	user, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// List retrieves all users
func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// Update updates a user
func (r *userRepository) Update(ctx context.Context, user domain.User) (domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET username = $2, email = $3, phone = $4, first_name = $5, last_name = $6,
		    role = $7, disabled = $8, updated_at = (now() AT TIME ZONE 'utc')
		WHERE id = $1
		RETURNING `+userColumns,
		user.ID, user.Username, user.Email, user.Phone, user.FirstName,
		user.LastName, string(user.Role), user.Disabled,
	)

	updated, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to update user: %w", err)
	}
	return updated, nil
}

// Delete deletes a user
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
