package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/todozero/todozero-go/internal/model"
	"github.com/todozero/todozero-go/internal/repository"
)

// fakeTodoStore keeps tasks in creation order and mirrors the owner-scoped
// contract of the real repository: a task belonging to someone else is
// indistinguishable from a task that does not exist.
type fakeTodoStore struct {
	todos  []model.Todo
	nextID int64
}

func (f *fakeTodoStore) Create(_ context.Context, todo *model.Todo) error {
	f.nextID++
	todo.ID = f.nextID
	f.todos = append(f.todos, *todo)
	return nil
}

func (f *fakeTodoStore) GetOwned(_ context.Context, ownerID, todoID int64) (*model.Todo, error) {
	for i := range f.todos {
		if f.todos[i].UserID == ownerID && f.todos[i].ID == todoID {
			t := f.todos[i]
			return &t, nil
		}
	}
	return nil, repository.ErrTodoNotFound
}

func (f *fakeTodoStore) ListOwned(_ context.Context, ownerID int64, filter repository.TodoFilter) ([]model.Todo, error) {
	var out []model.Todo
	for _, t := range f.todos {
		if t.UserID != ownerID {
			continue
		}
		if filter.Title != "" && !strings.Contains(t.Title, filter.Title) {
			continue
		}
		if filter.Description != "" && !strings.Contains(t.Description, filter.Description) {
			continue
		}
		if filter.State != "" && t.State != filter.State {
			continue
		}
		out = append(out, t)
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeTodoStore) Update(_ context.Context, todo *model.Todo) error {
	for i := range f.todos {
		if f.todos[i].UserID == todo.UserID && f.todos[i].ID == todo.ID {
			f.todos[i] = *todo
		}
	}
	// An owner-scoped UPDATE matching no rows is not an error.
	return nil
}

func (f *fakeTodoStore) Delete(_ context.Context, ownerID, todoID int64) error {
	for i := range f.todos {
		if f.todos[i].UserID == ownerID && f.todos[i].ID == todoID {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			return nil
		}
	}
	return repository.ErrTodoNotFound
}

var (
	testAlice = model.Principal{ID: 1, Username: "alice"}
	testBob   = model.Principal{ID: 2, Username: "bob"}
)

func mustCreateTodo(t *testing.T, svc *TodoService, p model.Principal, title, state string) model.TodoResponse {
	t.Helper()

	resp, err := svc.Create(context.Background(), p, model.CreateTodoRequest{
		Title: title,
		State: state,
	})
	if err != nil {
		t.Fatalf("Create(%q) unexpected error: %v", title, err)
	}
	return resp
}

func TestCreateTodo_EmptyTitle(t *testing.T) {
	svc := NewTodoService(&fakeTodoStore{})

	_, err := svc.Create(context.Background(), testAlice, model.CreateTodoRequest{
		Description: "no title",
		State:       "draft",
	})
	if !errors.Is(err, ErrTitleRequired) {
		t.Errorf("Create() error = %v, want ErrTitleRequired", err)
	}
}

func TestCreateTodo_UnknownState(t *testing.T) {
	svc := NewTodoService(&fakeTodoStore{})

	_, err := svc.Create(context.Background(), testAlice, model.CreateTodoRequest{
		Title: "buy milk",
		State: "archived",
	})
	if !errors.Is(err, model.ErrUnknownState) {
		t.Errorf("Create() error = %v, want ErrUnknownState", err)
	}
}

func TestListTodos_StateFilter(t *testing.T) {
	svc := NewTodoService(&fakeTodoStore{})

	// Five trash tasks and three todo tasks, interleaved.
	var trashIDs []int64
	for i, state := range []string{"trash", "todo", "trash", "trash", "todo", "trash", "todo", "trash"} {
		resp := mustCreateTodo(t, svc, testAlice, "task-"+string(rune('a'+i)), state)
		if state == "trash" {
			trashIDs = append(trashIDs, resp.ID)
		}
	}

	resp, err := svc.List(context.Background(), testAlice, repository.TodoFilter{State: model.StateTrash})
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}

	if len(resp.Todos) != 5 {
		t.Fatalf("List(state=trash) returned %d tasks, want 5", len(resp.Todos))
	}
	for i, todo := range resp.Todos {
		if todo.State != model.StateTrash {
			t.Errorf("todo %d state = %q, want %q", todo.ID, todo.State, model.StateTrash)
		}
		// Stable creation order.
		if todo.ID != trashIDs[i] {
			t.Errorf("position %d has id %d, want %d", i, todo.ID, trashIDs[i])
		}
	}
}

func TestListTodos_ScopedToOwner(t *testing.T) {
	svc := NewTodoService(&fakeTodoStore{})

	mustCreateTodo(t, svc, testAlice, "alice-task", "todo")
	mustCreateTodo(t, svc, testBob, "bob-task", "todo")

	resp, err := svc.List(context.Background(), testAlice, repository.TodoFilter{})
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}

	if len(resp.Todos) != 1 {
		t.Fatalf("List() returned %d tasks, want 1", len(resp.Todos))
	}
	if resp.Todos[0].Title != "alice-task" {
		t.Errorf("title = %q, want %q", resp.Todos[0].Title, "alice-task")
	}

	// Even a title filter matching bob's task turns up nothing for alice.
	resp, err = svc.List(context.Background(), testAlice, repository.TodoFilter{Title: "bob-task"})
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(resp.Todos) != 0 {
		t.Errorf("List(title=bob-task) returned %d tasks, want 0", len(resp.Todos))
	}
}

func TestPatchTodo_UpdatesFields(t *testing.T) {
	svc := NewTodoService(&fakeTodoStore{})
	created := mustCreateTodo(t, svc, testAlice, "buy milk", "todo")

	state := "done"
	description := "two liters"
	resp, err := svc.Patch(context.Background(), testAlice, created.ID, model.UpdateTodoRequest{
		Description: &description,
		State:       &state,
	})
	if err != nil {
		t.Fatalf("Patch() unexpected error: %v", err)
	}

	if resp.Title != "buy milk" {
		t.Errorf("title = %q, want unchanged %q", resp.Title, "buy milk")
	}
	if resp.Description != description {
		t.Errorf("description = %q, want %q", resp.Description, description)
	}
	if resp.State != model.StateDone {
		t.Errorf("state = %q, want %q", resp.State, model.StateDone)
	}
}

func TestPatchTodo_OtherOwnerNotFound(t *testing.T) {
	svc := NewTodoService(&fakeTodoStore{})
	bobs := mustCreateTodo(t, svc, testBob, "bob-task", "todo")

	state := "trash"
	_, err := svc.Patch(context.Background(), testAlice, bobs.ID, model.UpdateTodoRequest{State: &state})
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Patch() error = %v, want ErrTaskNotFound", err)
	}
}

func TestDeleteTodo(t *testing.T) {
	svc := NewTodoService(&fakeTodoStore{})
	created := mustCreateTodo(t, svc, testAlice, "buy milk", "todo")

	if err := svc.Delete(context.Background(), testAlice, created.ID); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}

	resp, err := svc.List(context.Background(), testAlice, repository.TodoFilter{})
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(resp.Todos) != 0 {
		t.Errorf("List() returned %d tasks after delete, want 0", len(resp.Todos))
	}
}

func TestDeleteTodo_OtherOwnerNotFound(t *testing.T) {
	svc := NewTodoService(&fakeTodoStore{})
	bobs := mustCreateTodo(t, svc, testBob, "bob-task", "todo")

	// Scoped deletion surfaces as not-found, never as a permission error, so
	// the API does not reveal that another user's task exists.
	err := svc.Delete(context.Background(), testAlice, bobs.ID)
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Delete() error = %v, want ErrTaskNotFound", err)
	}

	// Bob's task is untouched.
	resp, err := svc.List(context.Background(), testBob, repository.TodoFilter{})
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(resp.Todos) != 1 {
		t.Errorf("List() returned %d tasks for owner, want 1", len(resp.Todos))
	}
}
