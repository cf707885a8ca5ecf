package identity

import (
	"context"
	"errors"

	"github.com/localisation/backend/internal/domain/identity"
	"github.com/localisation/backend/internal/domain/shared"
	"github.com/localisation/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo identity.UserRepository, jwtService *auth.JWTService, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

func invalidCredentials() error {
	return shared.NewDomainError(shared.CodeUnauthorized, "Invalid email or password")
}

// Login authenticates a user and returns a signed access token.
// Unknown emails and wrong passwords yield the same UNAUTHORIZED error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login attempt for unknown email", zap.String("email", input.Email))
			return nil, invalidCredentials()
		}
		return nil, err
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.Int("user_id", user.ID))
		return nil, invalidCredentials()
	}

	token, err := s.jwtService.GenerateToken(auth.TokenInput{
		UserID:   user.ID,
		Username: Username(user.Email),
		Email:    user.Email,
		Role:     string(user.Role),
	})
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token").WithCause(err)
	}

	s.logger.Info("User logged in", zap.Int("user_id", user.ID), zap.String("role", string(user.Role)))
	return &LoginResult{
		Token:     token.AccessToken,
		TokenType: token.TokenType,
		ExpiresAt: token.ExpiresAt,
		Role:      string(user.Role),
		User:      ToUserResponse(user),
	}, nil
}
