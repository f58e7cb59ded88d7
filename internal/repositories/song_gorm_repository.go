package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"songvault/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMSongRepository is a GORM implementation of SongRepository.
type GORMSongRepository struct {
	db *gorm.DB
}

// NewGORMSongRepository creates a new instance of GORMSongRepository.
func NewGORMSongRepository(db *gorm.DB) *GORMSongRepository {
	return &GORMSongRepository{
		db: db,
	}
}

// GetAll retrieves all songs from the database.
func (r *GORMSongRepository) GetAll(ctx context.Context) ([]models.Song, error) {
	songs := []models.Song{}
	if err := r.db.WithContext(ctx).Order("created_at").Find(&songs).Error; err != nil {
		return nil, fmt.Errorf("failed to get all songs: %w", err)
	}
	return songs, nil
}

// GetByID retrieves a single song by its ID from the database.
func (r *GORMSongRepository) GetByID(ctx context.Context, id string) (*models.Song, error) {
	var song models.Song
	if err := r.db.WithContext(ctx).First(&song, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("song with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get song by ID %s: %w", id, err)
	}
	return &song, nil
}

// Create creates a new song in the database.
func (r *GORMSongRepository) Create(ctx context.Context, song *models.Song) error {
	if song.ID == "" {
		song.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(song).Error; err != nil {
		return fmt.Errorf("failed to create song: %w", err)
	}
	return nil
}

// Update writes name and artist of an existing song.
func (r *GORMSongRepository) Update(ctx context.Context, song *models.Song) error {
	song.UpdatedAt = time.Now()
	// Save would fall back to an insert for a missing row, so update explicitly.
	res := r.db.WithContext(ctx).Model(&models.Song{}).Where("id = ?", song.ID).Updates(map[string]any{
		"name":       song.Name,
		"artist":     song.Artist,
		"updated_at": song.UpdatedAt,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update song: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("song with ID %s: %w", song.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a song by its ID from the database.
func (r *GORMSongRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Song{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete song: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("song with ID %s: %w", id, ErrNotFound)
	}
	return nil
}
