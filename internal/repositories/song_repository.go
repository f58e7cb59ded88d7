package repositories

import (
	"context"

	"songvault/internal/models"
)

// SongRepository defines the interface for song data access.
type SongRepository interface {
	GetAll(ctx context.Context) ([]models.Song, error)
	GetByID(ctx context.Context, id string) (*models.Song, error)
	Create(ctx context.Context, song *models.Song) error
	Update(ctx context.Context, song *models.Song) error
	Delete(ctx context.Context, id string) error
}
