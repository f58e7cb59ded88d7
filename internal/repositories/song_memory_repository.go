package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"songvault/internal/models"

	"github.com/google/uuid"
)

// MemorySongRepository is an in-memory implementation of SongRepository.
type MemorySongRepository struct {
	songs map[string]models.Song
	mu    sync.RWMutex
}

// NewMemorySongRepository creates a new instance of MemorySongRepository.
func NewMemorySongRepository() *MemorySongRepository {
	return &MemorySongRepository{
		songs: make(map[string]models.Song),
	}
}

// GetAll returns all songs ordered by creation time.
func (r *MemorySongRepository) GetAll(_ context.Context) ([]models.Song, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	songList := make([]models.Song, 0, len(r.songs))
	for _, s := range r.songs {
		songList = append(songList, s)
	}
	sort.Slice(songList, func(i, j int) bool {
		return songList[i].CreatedAt.Before(songList[j].CreatedAt)
	})
	return songList, nil
}

// GetByID returns a song by its ID.
func (r *MemorySongRepository) GetByID(_ context.Context, id string) (*models.Song, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	song, ok := r.songs[id]
	if !ok {
		return nil, fmt.Errorf("song with ID %s: %w", id, ErrNotFound)
	}
	return &song, nil
}

// Create adds a new song.
func (r *MemorySongRepository) Create(_ context.Context, song *models.Song) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if song.ID == "" {
		song.ID = uuid.New().String()
	}
	now := time.Now()
	song.CreatedAt = now
	song.UpdatedAt = now
	r.songs[song.ID] = *song
	return nil
}

// Update modifies an existing song.
func (r *MemorySongRepository) Update(_ context.Context, song *models.Song) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.songs[song.ID]
	if !ok {
		return fmt.Errorf("song with ID %s: %w", song.ID, ErrNotFound)
	}
	existing.Name = song.Name
	existing.Artist = song.Artist
	existing.UpdatedAt = time.Now()
	r.songs[song.ID] = existing
	*song = existing
	return nil
}

// Delete removes a song by its ID.
func (r *MemorySongRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.songs[id]; !ok {
		return fmt.Errorf("song with ID %s: %w", id, ErrNotFound)
	}
	delete(r.songs, id)
	return nil
}
