package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/todozero/todozero-go/internal/middleware"
	"github.com/todozero/todozero-go/internal/model"
	"github.com/todozero/todozero-go/internal/service"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// HandleCreateUser handles POST /users requests.
func (h *UserHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		switch {
		case isUserValidationError(err):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrUsernameTaken), errors.Is(err, service.ErrEmailTaken):
			writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleListUsers handles GET /users requests.
func (h *UserHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid limit"))
		return
	}
	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid skip"))
		return
	}

	resp, err := h.service.List(r.Context(), limit, skip)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleGetUser handles GET /users/{user_id} requests.
func (h *UserHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "user_id")
	if !ok {
		return
	}

	resp, err := h.service.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdateUser handles PUT /users/{user_id} requests.
func (h *UserHandler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("could not validate credentials"))
		return
	}

	userID, ok := pathID(w, r, "user_id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	resp, err := h.service.Update(r.Context(), principal, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotEnoughPermission):
			writeJSON(w, http.StatusForbidden, errorResponse(err.Error()))
		case isUserValidationError(err):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrUsernameTaken), errors.Is(err, service.ErrEmailTaken):
			writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleDeleteUser handles DELETE /users/{user_id} requests.
func (h *UserHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("could not validate credentials"))
		return
	}

	userID, ok := pathID(w, r, "user_id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), principal, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotEnoughPermission):
			writeJSON(w, http.StatusForbidden, errorResponse(err.Error()))
		case errors.Is(err, service.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "user deleted"})
}

func isUserValidationError(err error) bool {
	return errors.Is(err, service.ErrUsernameRequired) ||
		errors.Is(err, service.ErrEmailRequired) ||
		errors.Is(err, service.ErrPasswordRequired)
}

// pathID parses a numeric id path parameter, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid "+param))
		return 0, false
	}
	return id, true
}

// queryInt parses an optional non-negative integer query parameter.
func queryInt(r *http.Request, param string, fallback int) (int, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.New("invalid " + param)
	}
	return v, nil
}
