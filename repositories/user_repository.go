package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cargoflow/cargoflow/database"
	"github.com/cargoflow/cargoflow/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// UserRepository interface defines user account database operations
type UserRepository interface {
	GetAll(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, id int64, when time.Time) error
}

// userRepository implements UserRepository interface
type userRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.DBTX) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, full_name, role, site, password_hash, is_active, last_login, date_joined`

// GetAll retrieves all user accounts
func (r *userRepository) GetAll(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY email ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.getOne(ctx, query, id)
}

// GetByEmail retrieves a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return r.getOne(ctx, query, email)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, query, arg)
	user, err := scanUser(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Create creates a new user account
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, full_name, role, site, password_hash, is_active, date_joined)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, query,
		user.Email,
		user.FullName,
		user.Role,
		user.Site,
		user.PasswordHash,
		user.IsActive,
		user.DateJoined,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	user.ID = id
	return nil
}

// UpdateLastLogin stamps the user's last successful login time
func (r *userRepository) UpdateLastLogin(ctx context.Context, id int64, when time.Time) error {
	query := `UPDATE users SET last_login = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, when, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func scanUser(scan func(dest ...any) error) (*models.User, error) {
	var user models.User
	var lastLogin sql.NullTime

	err := scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.Role,
		&user.Site,
		&user.PasswordHash,
		&user.IsActive,
		&lastLogin,
		&user.DateJoined,
	)
	if err != nil {
		return nil, err
	}

	if lastLogin.Valid {
		user.LastLogin = &lastLogin.Time
	}

	return &user, nil
}
