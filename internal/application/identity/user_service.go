package identity

import (
	"context"

	"github.com/localisation/backend/internal/domain/identity"
	"github.com/localisation/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// UserService manages back-office accounts
type UserService struct {
	userRepo   identity.UserRepository
	bcryptCost int
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, bcryptCost int) *UserService {
	return &UserService{userRepo: userRepo, bcryptCost: bcryptCost}
}

// List returns every user ordered by id
func (s *UserService) List(ctx context.Context) ([]UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out, nil
}

// Create registers a new user; a duplicate email is ALREADY_EXISTS
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*UserResponse, error) {
	role, err := identity.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}
	user, err := identity.NewUser(input.Nom, input.Email, role, input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("User created", zap.Int("user_id", user.ID), zap.String("role", string(user.Role)))
	resp := ToUserResponse(user)
	return &resp, nil
}
