package service

import (
	"context"
	"errors"
	"time"

	"github.com/todozero/todozero-go/internal/crypto"
	"github.com/todozero/todozero-go/internal/model"
	"github.com/todozero/todozero-go/internal/repository"
	"github.com/todozero/todozero-go/internal/token"
)

// ErrInvalidCredentials is returned for a login with a wrong username or a
// wrong password. The message is deliberately identical for both so a caller
// cannot probe which usernames exist.
var ErrInvalidCredentials = errors.New("incorrect username or password")

const tokenType = "bearer"

// UserLookup resolves a username to a stored user record. Implemented by
// repository.UserRepository.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// AuthService handles login and token refresh.
type AuthService struct {
	users  UserLookup
	tokens *token.Service
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserLookup, tokens *token.Service) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login verifies the credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, username, password string) (model.TokenResponse, error) {
	if username == "" || password == "" {
		return model.TokenResponse{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.TokenResponse{}, ErrInvalidCredentials
		}
		return model.TokenResponse{}, err
	}

	if !crypto.VerifyPassword(password, user.PasswordHash) {
		return model.TokenResponse{}, ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(user.Username, time.Now())
	if err != nil {
		return model.TokenResponse{}, err
	}

	return model.TokenResponse{AccessToken: tok, TokenType: tokenType}, nil
}

// Refresh issues a fresh token for an already-authenticated principal. The
// bearer middleware has validated the presented token and re-checked that the
// subject still exists, so an invalid or expired token never reaches here.
func (s *AuthService) Refresh(principal model.Principal) (model.TokenResponse, error) {
	tok, err := s.tokens.Issue(principal.Username, time.Now())
	if err != nil {
		return model.TokenResponse{}, err
	}

	return model.TokenResponse{AccessToken: tok, TokenType: tokenType}, nil
}
