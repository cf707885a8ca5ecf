package identity

import (
	"strings"
	"time"

	"github.com/localisation/backend/internal/domain/identity"
)

// LoginInput contains the credentials of POST /auth/login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResult is returned after a successful login
type LoginResult struct {
	Token     string       `json:"token"`
	TokenType string       `json:"tokenType"`
	ExpiresAt time.Time    `json:"expiresAt"`
	Role      string       `json:"role"`
	User      UserResponse `json:"user"`
}

// UserResponse represents a user in API responses; the password hash is never exposed
type UserResponse struct {
	ID       int    `json:"id"`
	Nom      string `json:"nom"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Username string `json:"username"`
}

// CreateUserInput is the body of POST /users
type CreateUserInput struct {
	Nom      string `json:"nom" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"role" binding:"required,oneof=BR GR Brigade UniteSecondaire Admin"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// Username is the handle recorded in dossier history: the local part of the email
func Username(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// ToUserResponse converts a domain User
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Nom:      u.Nom,
		Email:    u.Email,
		Role:     string(u.Role),
		Username: Username(u.Email),
	}
}
