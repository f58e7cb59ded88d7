package services

import (
	"context"

	"songvault/internal/models"
	"songvault/internal/repositories"

	"go.uber.org/zap"
)

// SongService handles business logic related to song records.
type SongService struct {
	repo   repositories.SongRepository
	events eventEmitter
}

// NewSongService creates a new SongService. publisher may be nil.
func NewSongService(repo repositories.SongRepository, publisher EventPublisher, log *zap.Logger) *SongService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SongService{
		repo:   repo,
		events: eventEmitter{publisher: publisher, log: log},
	}
}

// GetAllSongs retrieves all songs.
func (s *SongService) GetAllSongs(ctx context.Context) ([]models.Song, error) {
	return s.repo.GetAll(ctx)
}

// GetSongByID retrieves a single song by its ID.
func (s *SongService) GetSongByID(ctx context.Context, id string) (*models.Song, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateSong creates a new song on behalf of userID.
func (s *SongService) CreateSong(ctx context.Context, userID, name, artist string) (*models.Song, error) {
	song := &models.Song{Name: name, Artist: artist}
	if err := s.repo.Create(ctx, song); err != nil {
		return nil, err
	}
	s.events.emit(models.EventSongCreated, song.ID, userID, "")
	return song, nil
}

// UpdateSong changes the provided fields of a song; nil fields keep their value.
// At least one field must be provided.
func (s *SongService) UpdateSong(ctx context.Context, userID, id string, name, artist *string) (*models.Song, error) {
	if name == nil && artist == nil {
		return nil, validationError("at least one field must be provided")
	}

	song, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		song.Name = *name
	}
	if artist != nil {
		song.Artist = *artist
	}
	if err := s.repo.Update(ctx, song); err != nil {
		return nil, err
	}

	s.events.emit(models.EventSongUpdated, song.ID, userID, "")
	return song, nil
}

// DeleteSong deletes a song record. Its audio file, if any, is left in place.
func (s *SongService) DeleteSong(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.events.emit(models.EventSongDeleted, id, userID, "")
	return nil
}
