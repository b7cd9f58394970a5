package service

import (
	"context"
	"errors"

	"github.com/todozero/todozero-go/internal/crypto"
	"github.com/todozero/todozero-go/internal/model"
	"github.com/todozero/todozero-go/internal/repository"
)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrEmailTaken       = errors.New("email already taken")
	ErrUserNotFound     = errors.New("user not found")

	// ErrNotEnoughPermission is the strict-identity guard failure: a principal
	// acting on another user's account record. Unlike todos, the target's
	// existence is not a secret here, so this surfaces as a permission error.
	ErrNotEnoughPermission = errors.New("not enough permission")
)

// UserService handles user account business logic.
type UserService struct {
	repo *repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register creates a new user account.
func (s *UserService) Register(ctx context.Context, req model.CreateUserRequest) (model.UserResponse, error) {
	if err := validateUserRequest(req); err != nil {
		return model.UserResponse{}, err
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return model.UserResponse{}, err
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return model.UserResponse{}, mapDuplicateUser(err)
	}

	return model.PublicUser(user), nil
}

// List returns a page of users.
func (s *UserService) List(ctx context.Context, limit, skip int) (model.UserListResponse, error) {
	users, err := s.repo.List(ctx, limit, skip)
	if err != nil {
		return model.UserListResponse{}, err
	}

	resp := model.UserListResponse{Users: make([]model.UserResponse, len(users))}
	for i := range users {
		resp.Users[i] = model.PublicUser(&users[i])
	}
	return resp, nil
}

// Get returns the public data for one user.
func (s *UserService) Get(ctx context.Context, userID int64) (model.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}

	return model.PublicUser(user), nil
}

// Update replaces a user's own record. A principal may only update itself;
// the check runs before anything touches storage.
func (s *UserService) Update(ctx context.Context, principal model.Principal, userID int64, req model.CreateUserRequest) (model.UserResponse, error) {
	if !principal.Owns(userID) {
		return model.UserResponse{}, ErrNotEnoughPermission
	}
	if err := validateUserRequest(req); err != nil {
		return model.UserResponse{}, err
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return model.UserResponse{}, err
	}

	user := &model.User{
		ID:           userID,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return model.UserResponse{}, mapDuplicateUser(err)
	}

	updated, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return model.UserResponse{}, err
	}
	return model.PublicUser(updated), nil
}

// Delete removes a user's own record; their todos cascade away with it.
func (s *UserService) Delete(ctx context.Context, principal model.Principal, userID int64) error {
	if !principal.Owns(userID) {
		return ErrNotEnoughPermission
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func validateUserRequest(req model.CreateUserRequest) error {
	switch {
	case req.Username == "":
		return ErrUsernameRequired
	case req.Email == "":
		return ErrEmailRequired
	case req.Password == "":
		return ErrPasswordRequired
	}
	return nil
}

func mapDuplicateUser(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateUsername):
		return ErrUsernameTaken
	case errors.Is(err, repository.ErrDuplicateEmail):
		return ErrEmailTaken
	}
	return err
}
