package services_test

import (
	"context"
	"fmt"
	"testing"

	"songvault/internal/models"
	"songvault/internal/repositories"
	"songvault/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil && user.ID == "" {
		user.ID = "user-123"
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateGender(ctx context.Context, id string, gender models.Gender) error {
	args := m.Called(ctx, id, gender)
	return args.Error(0)
}

// fastHasher keeps the tests quick; the production parameters are covered in password_test.go.
func fastHasher() *services.PasswordHasher {
	return services.NewPasswordHasher(services.Argon2Params{Time: 1, Memory: 64, Threads: 1, SaltLen: 16, KeyLen: 32})
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, repositories.ErrNotFound)
}

func TestAuthService_RegisterUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	tokens := newTokenService(t)
	authService := services.NewAuthService(mockRepo, fastHasher(), tokens, nil)

	// successful registration
	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(nil, notFound("user")).Once()
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "test@example.com" && u.Password != "password123" && u.Gender == models.GenderUnknown
	})).Return(nil).Once()

	user, token, err := authService.RegisterUser(ctx, "testuser", "test@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "user-123", user.ID)
	subject, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", subject)
	mockRepo.AssertExpectations(t)

	// email already registered
	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(&models.User{ID: "1"}, nil).Once()
	_, _, err = authService.RegisterUser(ctx, "testuser", "test@example.com", "password123")
	assert.ErrorIs(t, err, repositories.ErrDuplicateEmail)
	mockRepo.AssertExpectations(t)

	// duplicate detected by the store itself
	mockRepo.On("GetByEmail", ctx, "race@example.com").Return(nil, notFound("user")).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(repositories.ErrDuplicateEmail).Once()
	_, _, err = authService.RegisterUser(ctx, "racer", "race@example.com", "password123")
	assert.ErrorIs(t, err, repositories.ErrDuplicateEmail)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	hasher := fastHasher()
	tokens := newTokenService(t)
	authService := services.NewAuthService(mockRepo, hasher, tokens, nil)

	hashedPassword, err := hasher.Hash("password123")
	require.NoError(t, err)
	user := &models.User{
		ID:       "user-123",
		Username: "testuser",
		Email:    "test@example.com",
		Password: hashedPassword,
	}

	// successful login
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	token, err := authService.LoginUser(ctx, "test@example.com", "password123")
	require.NoError(t, err)
	subject, err := authService.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)
	mockRepo.AssertExpectations(t)

	// wrong password
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	_, err = authService.LoginUser(ctx, "test@example.com", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// unknown email gets the same error
	mockRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, notFound("user")).Once()
	_, err = authService.LoginUser(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// a corrupt stored hash is an operational failure, not a wrong password
	corrupt := *user
	corrupt.Password = "not-a-hash"
	mockRepo.On("GetByEmail", ctx, user.Email).Return(&corrupt, nil).Once()
	_, err = authService.LoginUser(ctx, "test@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrMalformedHash)
	assert.NotErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// store failure propagates
	mockRepo.On("GetByEmail", ctx, "down@example.com").Return(nil, fmt.Errorf("connection refused")).Once()
	_, err = authService.LoginUser(ctx, "down@example.com", "password123")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}
