package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/todozero/todozero-go/internal/model"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
)

// UserRepository handles user persistence operations.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and sets the generated ID on the user struct.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, user.Username, user.Email, user.PasswordHash)
	if err != nil {
		if dup := classifyDuplicateError(err); dup != nil {
			return dup
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	user.ID = id
	return nil
}

// GetByUsername retrieves a user by their username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT id, username, email, password_hash, created_at, updated_at FROM users WHERE username = ?`

	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT id, username, email, password_hash, created_at, updated_at FROM users WHERE id = ?`

	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// List retrieves a page of users in creation order.
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	query := `SELECT id, username, email, password_hash, created_at, updated_at FROM users ORDER BY id LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// Update replaces the mutable fields of a user record.
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	query := `UPDATE users SET username = ?, email = ?, password_hash = ? WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, user.Username, user.Email, user.PasswordHash, user.ID)
	if err != nil {
		if dup := classifyDuplicateError(err); dup != nil {
			return dup
		}
		return err
	}

	return nil
}

// Delete removes a user. Their todos go with them via the cascading foreign key.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// classifyDuplicateError maps a MySQL duplicate entry error (code 1062) to the
// sentinel for the unique key that was violated, or nil for anything else.
func classifyDuplicateError(err error) error {
	if err == nil || !strings.Contains(err.Error(), "Duplicate entry") {
		return nil
	}
	if strings.Contains(err.Error(), "uq_users_email") {
		return ErrDuplicateEmail
	}
	return ErrDuplicateUsername
}
