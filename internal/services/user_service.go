package services

import (
	"context"

	"songvault/internal/models"
	"songvault/internal/repositories"
)

// UserService handles business logic related to user profiles.
type UserService struct {
	repo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

// GetUserByID retrieves a user by ID.
func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateGender changes the gender on a user's profile.
func (s *UserService) UpdateGender(ctx context.Context, id string, gender models.Gender) error {
	return s.repo.UpdateGender(ctx, id, gender)
}
