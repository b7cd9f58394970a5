package handler

import (
	"errors"
	"net/http"

	"github.com/todozero/todozero-go/internal/middleware"
	"github.com/todozero/todozero-go/internal/service"
)

// AuthHandler handles HTTP requests for login and token refresh.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// HandleToken handles POST /auth/token requests. Credentials arrive
// form-encoded, OAuth2 password-flow style.
func (h *AuthHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid form data"))
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	resp, err := h.service.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleRefreshToken handles POST /auth/refresh_token requests. The bearer
// middleware has already validated the presented token and resolved its
// principal; an expired token never gets this far.
func (h *AuthHandler) HandleRefreshToken(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("could not validate credentials"))
		return
	}

	resp, err := h.service.Refresh(principal)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
