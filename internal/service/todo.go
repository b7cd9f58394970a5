package service

import (
	"context"
	"errors"

	"github.com/todozero/todozero-go/internal/model"
	"github.com/todozero/todozero-go/internal/repository"
)

var (
	ErrTitleRequired = errors.New("title is required")

	// ErrTaskNotFound covers both a genuinely missing task and a task owned by
	// someone else. Every query is owner-scoped, so the API never reveals that
	// another user's task exists.
	ErrTaskNotFound = errors.New("task not found")
)

// TodoStore is the persistence surface TodoService depends on. Implemented by
// repository.TodoRepository; every method is scoped to the owning user.
type TodoStore interface {
	Create(ctx context.Context, todo *model.Todo) error
	GetOwned(ctx context.Context, ownerID, todoID int64) (*model.Todo, error)
	ListOwned(ctx context.Context, ownerID int64, filter repository.TodoFilter) ([]model.Todo, error)
	Update(ctx context.Context, todo *model.Todo) error
	Delete(ctx context.Context, ownerID, todoID int64) error
}

// TodoService handles task business logic.
type TodoService struct {
	repo TodoStore
}

// NewTodoService creates a new TodoService.
func NewTodoService(repo TodoStore) *TodoService {
	return &TodoService{repo: repo}
}

// Create stores a new task owned by the principal.
func (s *TodoService) Create(ctx context.Context, principal model.Principal, req model.CreateTodoRequest) (model.TodoResponse, error) {
	if req.Title == "" {
		return model.TodoResponse{}, ErrTitleRequired
	}

	state, err := model.ParseTodoState(req.State)
	if err != nil {
		return model.TodoResponse{}, err
	}

	todo := &model.Todo{
		UserID:      principal.ID,
		Title:       req.Title,
		Description: req.Description,
		State:       state,
	}

	if err := s.repo.Create(ctx, todo); err != nil {
		return model.TodoResponse{}, err
	}

	return model.PublicTodo(todo), nil
}

// List returns the principal's tasks matching the filter.
func (s *TodoService) List(ctx context.Context, principal model.Principal, filter repository.TodoFilter) (model.TodoListResponse, error) {
	todos, err := s.repo.ListOwned(ctx, principal.ID, filter)
	if err != nil {
		return model.TodoListResponse{}, err
	}

	resp := model.TodoListResponse{Todos: make([]model.TodoResponse, len(todos))}
	for i := range todos {
		resp.Todos[i] = model.PublicTodo(&todos[i])
	}
	return resp, nil
}

// Patch applies a partial update to one of the principal's tasks.
func (s *TodoService) Patch(ctx context.Context, principal model.Principal, todoID int64, req model.UpdateTodoRequest) (model.TodoResponse, error) {
	todo, err := s.repo.GetOwned(ctx, principal.ID, todoID)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return model.TodoResponse{}, ErrTaskNotFound
		}
		return model.TodoResponse{}, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return model.TodoResponse{}, ErrTitleRequired
		}
		todo.Title = *req.Title
	}
	if req.Description != nil {
		todo.Description = *req.Description
	}
	if req.State != nil {
		state, err := model.ParseTodoState(*req.State)
		if err != nil {
			return model.TodoResponse{}, err
		}
		todo.State = state
	}

	if err := s.repo.Update(ctx, todo); err != nil {
		return model.TodoResponse{}, err
	}

	return model.PublicTodo(todo), nil
}

// Delete removes one of the principal's tasks.
func (s *TodoService) Delete(ctx context.Context, principal model.Principal, todoID int64) error {
	if err := s.repo.Delete(ctx, principal.ID, todoID); err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	return nil
}
