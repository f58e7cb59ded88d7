package services

import (
	"context"
	"errors"
	"fmt"

	"songvault/internal/models"
	"songvault/internal/repositories"

	"go.uber.org/zap"
)

// AuthService handles business logic for registration and login.
type AuthService struct {
	userRepo repositories.UserRepository
	hasher   *PasswordHasher
	tokens   *TokenService
	log      *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, hasher *PasswordHasher, tokens *TokenService, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		log:      log,
	}
}

// RegisterUser creates a user with a hashed password and returns it with a fresh token.
// A taken email yields repositories.ErrDuplicateEmail.
func (s *AuthService) RegisterUser(ctx context.Context, username, email, password string) (*models.User, string, error) {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, "", fmt.Errorf("email '%s': %w", email, repositories.ErrDuplicateEmail)
	}
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
		Gender:   models.GenderUnknown,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Info("User registered", zap.String("user_id", user.ID))
	return user, token, nil
}

// LoginUser authenticates a user by email and password and returns a token.
// Unknown email and wrong password both yield ErrInvalidCredentials; a hash
// that cannot be verified is an operational error.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := s.hasher.Verify(user.Password, password)
	if err != nil {
		return "", fmt.Errorf("failed to verify password for user %s: %w", user.ID, err)
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// Verify returns the subject asserted by a token. It lets the auth middleware
// depend on AuthService rather than on the token implementation.
func (s *AuthService) Verify(token string) (string, error) {
	return s.tokens.Verify(token)
}
