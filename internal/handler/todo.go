package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/todozero/todozero-go/internal/middleware"
	"github.com/todozero/todozero-go/internal/model"
	"github.com/todozero/todozero-go/internal/repository"
	"github.com/todozero/todozero-go/internal/service"
)

// TodoHandler handles HTTP requests for task operations.
type TodoHandler struct {
	service *service.TodoService
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(svc *service.TodoService) *TodoHandler {
	return &TodoHandler{service: svc}
}

// HandleCreateTodo handles POST /todos requests.
func (h *TodoHandler) HandleCreateTodo(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("could not validate credentials"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	resp, err := h.service.Create(r.Context(), principal, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTitleRequired), errors.Is(err, model.ErrUnknownState):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleListTodos handles GET /todos requests. Filters are optional; an
// unrecognized state is a validation failure, not an empty result.
func (h *TodoHandler) HandleListTodos(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("could not validate credentials"))
		return
	}

	q := r.URL.Query()
	filter := repository.TodoFilter{
		Title:       q.Get("title"),
		Description: q.Get("description"),
	}

	if raw := q.Get("state"); raw != "" {
		state, err := model.ParseTodoState(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		filter.State = state
	}

	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid offset"))
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid limit"))
		return
	}
	filter.Offset = offset
	filter.Limit = limit

	resp, err := h.service.List(r.Context(), principal, filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandlePatchTodo handles PATCH /todos/{todo_id} requests.
func (h *TodoHandler) HandlePatchTodo(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("could not validate credentials"))
		return
	}

	todoID, ok := pathID(w, r, "todo_id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.UpdateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	resp, err := h.service.Patch(r.Context(), principal, todoID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTaskNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		case errors.Is(err, service.ErrTitleRequired), errors.Is(err, model.ErrUnknownState):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleDeleteTodo handles DELETE /todos/{todo_id} requests.
func (h *TodoHandler) HandleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("could not validate credentials"))
		return
	}

	todoID, ok := pathID(w, r, "todo_id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), principal, todoID); err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "task has been deleted successfully"})
}
