package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/todozero/todozero-go/internal/model"
)

var ErrTodoNotFound = errors.New("todo not found")

// TodoFilter narrows a listing of a user's tasks. Zero values impose no
// constraint: empty substrings match everything, a zero limit means no cap and
// a zero offset means no skip.
type TodoFilter struct {
	Title       string
	Description string
	State       model.TodoState
	Offset      int
	Limit       int
}

// TodoRepository handles task persistence operations. Every query is scoped to
// the owning user, so another user's tasks are indistinguishable from tasks
// that do not exist.
type TodoRepository struct {
	db *sql.DB
}

// NewTodoRepository creates a new TodoRepository.
func NewTodoRepository(db *sql.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

// Create inserts a new task and sets the generated ID on the todo struct.
func (r *TodoRepository) Create(ctx context.Context, todo *model.Todo) error {
	query := `INSERT INTO todos (user_id, title, description, state) VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, todo.UserID, todo.Title, todo.Description, string(todo.State))
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	todo.ID = id
	return nil
}

// GetOwned retrieves a task by ID, scoped to its owner.
func (r *TodoRepository) GetOwned(ctx context.Context, ownerID, todoID int64) (*model.Todo, error) {
	query := `SELECT id, user_id, title, description, state, created_at, updated_at
		FROM todos WHERE user_id = ? AND id = ?`

	todo := &model.Todo{}
	err := r.db.QueryRowContext(ctx, query, ownerID, todoID).Scan(
		&todo.ID, &todo.UserID, &todo.Title, &todo.Description, &todo.State,
		&todo.CreatedAt, &todo.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}

	return todo, nil
}

// ListOwned retrieves the owner's tasks matching the filter, in creation order.
func (r *TodoRepository) ListOwned(ctx context.Context, ownerID int64, filter TodoFilter) ([]model.Todo, error) {
	query, args := buildListOwnedQuery(ownerID, filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []model.Todo
	for rows.Next() {
		var t model.Todo
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Title, &t.Description, &t.State,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}

	return todos, rows.Err()
}

// Update replaces the mutable fields of a task, scoped to its owner. The owner
// column itself is never part of the SET list.
func (r *TodoRepository) Update(ctx context.Context, todo *model.Todo) error {
	query := `UPDATE todos SET title = ?, description = ?, state = ? WHERE user_id = ? AND id = ?`

	_, err := r.db.ExecContext(ctx, query, todo.Title, todo.Description, string(todo.State), todo.UserID, todo.ID)
	return err
}

// Delete removes a task, scoped to its owner.
func (r *TodoRepository) Delete(ctx context.Context, ownerID, todoID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE user_id = ? AND id = ?`, ownerID, todoID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrTodoNotFound
	}

	return nil
}

// noLimit stands in for an absent LIMIT when an OFFSET is requested; MySQL has
// no OFFSET clause without LIMIT.
const noLimit = "18446744073709551615"

// buildListOwnedQuery assembles the filtered listing query. The owner scope is
// unconditional; every other constraint is applied only when set.
func buildListOwnedQuery(ownerID int64, filter TodoFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, user_id, title, description, state, created_at, updated_at FROM todos WHERE user_id = ?`)
	args := []any{ownerID}

	if filter.Title != "" {
		sb.WriteString(" AND title LIKE ?")
		args = append(args, "%"+filter.Title+"%")
	}
	if filter.Description != "" {
		sb.WriteString(" AND description LIKE ?")
		args = append(args, "%"+filter.Description+"%")
	}
	if filter.State != "" {
		sb.WriteString(" AND state = ?")
		args = append(args, string(filter.State))
	}

	sb.WriteString(" ORDER BY id")

	switch {
	case filter.Limit > 0:
		sb.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	case filter.Offset > 0:
		sb.WriteString(" LIMIT " + noLimit)
	}
	if filter.Offset > 0 {
		sb.WriteString(" OFFSET ?")
		args = append(args, filter.Offset)
	}

	return sb.String(), args
}
