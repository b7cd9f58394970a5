package model

import (
	"errors"
	"fmt"
	"time"
)

// TodoState is the lifecycle state of a task. The set is closed; anything else
// is a validation failure at the boundary.
type TodoState string

const (
	StateDraft TodoState = "draft"
	StateTodo  TodoState = "todo"
	StateDoing TodoState = "doing"
	StateDone  TodoState = "done"
	StateTrash TodoState = "trash"
)

var ErrUnknownState = errors.New("unknown todo state")

// ParseTodoState validates a raw state value against the closed set.
func ParseTodoState(s string) (TodoState, error) {
	switch state := TodoState(s); state {
	case StateDraft, StateTodo, StateDoing, StateDone, StateTrash:
		return state, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownState, s)
	}
}

// Todo represents a task row in the database. UserID is set at creation from
// the requesting principal and never changes afterward.
type Todo struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	State       TodoState
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateTodoRequest represents a task creation request.
type CreateTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	State       string `json:"state"`
}

// UpdateTodoRequest represents a partial task update. Nil fields are left
// untouched.
type UpdateTodoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	State       *string `json:"state"`
}

// TodoResponse represents task data for API responses.
type TodoResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	State       TodoState `json:"state"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TodoListResponse wraps a filtered page of tasks.
type TodoListResponse struct {
	Todos []TodoResponse `json:"todos"`
}

// PublicTodo converts a stored task to its API representation.
func PublicTodo(t *Todo) TodoResponse {
	return TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		State:       t.State,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
