package model

import "time"

// User represents a user row in the database.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUserRequest represents a registration request. The same shape is used
// for full updates of a user's own record.
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse represents user data safe for API responses (no credential).
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListResponse wraps a page of users.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
}

// TokenResponse is the envelope returned by login and refresh.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// MessageResponse carries a bare confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// PublicUser converts a stored user to its API representation.
func PublicUser(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
