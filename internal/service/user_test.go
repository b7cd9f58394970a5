package service

import (
	"context"
	"errors"
	"testing"

	"github.com/todozero/todozero-go/internal/model"
	"github.com/todozero/todozero-go/internal/repository"
)

func newTestUserService() *UserService {
	return NewUserService(repository.NewUserRepository(nil))
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     model.CreateUserRequest
		wantErr error
	}{
		{
			name:    "empty username",
			req:     model.CreateUserRequest{Email: "a@example.com", Password: "secret"},
			wantErr: ErrUsernameRequired,
		},
		{
			name:    "empty email",
			req:     model.CreateUserRequest{Username: "alice", Password: "secret"},
			wantErr: ErrEmailRequired,
		},
		{
			name:    "empty password",
			req:     model.CreateUserRequest{Username: "alice", Email: "a@example.com"},
			wantErr: ErrPasswordRequired,
		},
	}

	svc := newTestUserService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpdate_OtherUserDenied(t *testing.T) {
	svc := newTestUserService()
	alice := model.Principal{ID: 1, Username: "alice"}

	// The guard fires before validation or storage is touched; the nil
	// repository proves no query ran.
	_, err := svc.Update(context.Background(), alice, 2, model.CreateUserRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "hijacked",
	})
	if !errors.Is(err, ErrNotEnoughPermission) {
		t.Errorf("Update() error = %v, want ErrNotEnoughPermission", err)
	}
}

func TestDelete_OtherUserDenied(t *testing.T) {
	svc := newTestUserService()
	alice := model.Principal{ID: 1, Username: "alice"}

	err := svc.Delete(context.Background(), alice, 2)
	if !errors.Is(err, ErrNotEnoughPermission) {
		t.Errorf("Delete() error = %v, want ErrNotEnoughPermission", err)
	}
}

func TestMapDuplicateUser(t *testing.T) {
	if got := mapDuplicateUser(repository.ErrDuplicateUsername); !errors.Is(got, ErrUsernameTaken) {
		t.Errorf("mapDuplicateUser(username) = %v, want ErrUsernameTaken", got)
	}
	if got := mapDuplicateUser(repository.ErrDuplicateEmail); !errors.Is(got, ErrEmailTaken) {
		t.Errorf("mapDuplicateUser(email) = %v, want ErrEmailTaken", got)
	}
	other := errors.New("connection refused")
	if got := mapDuplicateUser(other); !errors.Is(got, other) {
		t.Errorf("mapDuplicateUser(other) = %v, want passthrough", got)
	}
}
