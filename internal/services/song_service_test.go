package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"songvault/internal/models"
	"songvault/internal/repositories"
	"songvault/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSongRepository is a mock implementation of repositories.SongRepository
type MockSongRepository struct {
	mock.Mock
}

func (m *MockSongRepository) GetAll(ctx context.Context) ([]models.Song, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Song), args.Error(1)
}

func (m *MockSongRepository) GetByID(ctx context.Context, id string) (*models.Song, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Song), args.Error(1)
}

func (m *MockSongRepository) Create(ctx context.Context, song *models.Song) error {
	args := m.Called(ctx, song)
	return args.Error(0)
}

func (m *MockSongRepository) Update(ctx context.Context, song *models.Song) error {
	args := m.Called(ctx, song)
	return args.Error(0)
}

func (m *MockSongRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPublisher records published events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(eventType string, body []byte) error {
	args := m.Called(eventType, body)
	return args.Error(0)
}

func strPtr(s string) *string { return &s }

func TestSongService_GetAllSongs(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSongRepository)
	service := services.NewSongService(mockRepo, nil, nil)

	expectedSongs := []models.Song{
		{ID: "1", Name: "Song A", Artist: "Artist A"},
		{ID: "2", Name: "Song B", Artist: "Artist B"},
	}
	mockRepo.On("GetAll", ctx).Return(expectedSongs, nil).Once()

	songs, err := service.GetAllSongs(ctx)
	assert.NoError(t, err)
	assert.Equal(t, expectedSongs, songs)
	mockRepo.AssertExpectations(t)
}

func TestSongService_CreateSong(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSongRepository)
	publisher := new(MockPublisher)
	service := services.NewSongService(mockRepo, publisher, nil)

	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Song")).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Song).ID = "song-1"
	}).Return(nil).Once()
	publisher.On("Publish", models.EventSongCreated, mock.MatchedBy(func(body []byte) bool {
		return assert.Contains(t, string(body), `"song_id":"song-1"`)
	})).Return(nil).Once()

	song, err := service.CreateSong(ctx, "user-1", "New Song", "Someone")
	require.NoError(t, err)
	assert.Equal(t, "song-1", song.ID)
	assert.Equal(t, "New Song", song.Name)
	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)

	// creation failure is returned and nothing is published
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Song")).Return(fmt.Errorf("database error")).Once()
	_, err = service.CreateSong(ctx, "user-1", "New Song", "Someone")
	assert.ErrorContains(t, err, "database error")
	publisher.AssertNumberOfCalls(t, "Publish", 1)
}

func TestSongService_CreateSong_PublishFailureIgnored(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSongRepository)
	publisher := new(MockPublisher)
	service := services.NewSongService(mockRepo, publisher, nil)

	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Song")).Return(nil).Once()
	publisher.On("Publish", models.EventSongCreated, mock.Anything).Return(errors.New("broker down")).Once()

	_, err := service.CreateSong(ctx, "user-1", "New Song", "Someone")
	assert.NoError(t, err)
	publisher.AssertExpectations(t)
}

func TestSongService_UpdateSong(t *testing.T) {
	ctx := context.Background()

	t.Run("no fields", func(t *testing.T) {
		mockRepo := new(MockSongRepository)
		service := services.NewSongService(mockRepo, nil, nil)

		_, err := service.UpdateSong(ctx, "user-1", "1", nil, nil)
		var verr *services.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "at least one field must be provided", verr.Message)
		mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("only name changes", func(t *testing.T) {
		mockRepo := new(MockSongRepository)
		service := services.NewSongService(mockRepo, nil, nil)

		mockRepo.On("GetByID", ctx, "1").Return(&models.Song{ID: "1", Name: "Old", Artist: "Kept"}, nil).Once()
		mockRepo.On("Update", ctx, &models.Song{ID: "1", Name: "New", Artist: "Kept"}).Return(nil).Once()

		song, err := service.UpdateSong(ctx, "user-1", "1", strPtr("New"), nil)
		require.NoError(t, err)
		assert.Equal(t, "New", song.Name)
		assert.Equal(t, "Kept", song.Artist)
		mockRepo.AssertExpectations(t)
	})

	t.Run("only artist changes", func(t *testing.T) {
		mockRepo := new(MockSongRepository)
		service := services.NewSongService(mockRepo, nil, nil)

		mockRepo.On("GetByID", ctx, "1").Return(&models.Song{ID: "1", Name: "Kept", Artist: "Old"}, nil).Once()
		mockRepo.On("Update", ctx, &models.Song{ID: "1", Name: "Kept", Artist: "New"}).Return(nil).Once()

		song, err := service.UpdateSong(ctx, "user-1", "1", nil, strPtr("New"))
		require.NoError(t, err)
		assert.Equal(t, "Kept", song.Name)
		assert.Equal(t, "New", song.Artist)
		mockRepo.AssertExpectations(t)
	})

	t.Run("missing song", func(t *testing.T) {
		mockRepo := new(MockSongRepository)
		service := services.NewSongService(mockRepo, nil, nil)

		mockRepo.On("GetByID", ctx, "99").Return(nil, notFound("song with ID 99")).Once()
		_, err := service.UpdateSong(ctx, "user-1", "99", strPtr("x"), nil)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
		mockRepo.AssertExpectations(t)
	})
}

func TestSongService_DeleteSong(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockSongRepository)
	publisher := new(MockPublisher)
	service := services.NewSongService(mockRepo, publisher, nil)

	mockRepo.On("Delete", ctx, "1").Return(nil).Once()
	publisher.On("Publish", models.EventSongDeleted, mock.Anything).Return(nil).Once()
	assert.NoError(t, service.DeleteSong(ctx, "user-1", "1"))

	mockRepo.On("Delete", ctx, "99").Return(notFound("song with ID 99")).Once()
	err := service.DeleteSong(ctx, "user-1", "99")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}
