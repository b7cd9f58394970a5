package repository

import (
	"errors"
	"testing"
)

func TestNewUserRepository(t *testing.T) {
	repo := NewUserRepository(nil)
	if repo == nil {
		t.Fatal("expected non-nil UserRepository")
	}
	if repo.db != nil {
		t.Fatal("expected nil db when constructed with nil")
	}
}

func TestClassifyDuplicateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "nil error",
			err:  nil,
			want: nil,
		},
		{
			name: "unrelated error",
			err:  errors.New("connection refused"),
			want: nil,
		},
		{
			name: "duplicate username",
			err:  errors.New("Error 1062 (23000): Duplicate entry 'alice' for key 'users.uq_users_username'"),
			want: ErrDuplicateUsername,
		},
		{
			name: "duplicate email",
			err:  errors.New("Error 1062 (23000): Duplicate entry 'alice@example.com' for key 'users.uq_users_email'"),
			want: ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyDuplicateError(tt.err); !errors.Is(got, tt.want) {
				t.Errorf("classifyDuplicateError() = %v, want %v", got, tt.want)
			}
		})
	}
}
