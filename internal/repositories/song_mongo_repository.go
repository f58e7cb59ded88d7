package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"songvault/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const songsCollection = "songs"

type songDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Artist    string             `bson:"artist"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *songDocument) model() models.Song {
	return models.Song{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Artist:    d.Artist,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// MongoSongRepository stores songs in the "songs" collection.
type MongoSongRepository struct {
	coll *mongo.Collection
}

// NewMongoSongRepository creates a new instance of MongoSongRepository.
func NewMongoSongRepository(db *mongo.Database) *MongoSongRepository {
	return &MongoSongRepository{coll: db.Collection(songsCollection)}
}

// GetAll returns every song ordered by creation time.
func (r *MongoSongRepository) GetAll(ctx context.Context) ([]models.Song, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to get all songs: %w", err)
	}
	var docs []songDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode songs: %w", err)
	}
	songs := make([]models.Song, 0, len(docs))
	for i := range docs {
		songs = append(songs, docs[i].model())
	}
	return songs, nil
}

// GetByID finds a song by its ObjectID hex string. A malformed id is reported as not found.
func (r *MongoSongRepository) GetByID(ctx context.Context, id string) (*models.Song, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("song with ID %s: %w", id, ErrNotFound)
	}
	var doc songDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("song with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get song by ID %s: %w", id, err)
	}
	song := doc.model()
	return &song, nil
}

// Create inserts a new song document.
func (r *MongoSongRepository) Create(ctx context.Context, song *models.Song) error {
	now := time.Now().UTC()
	doc := songDocument{
		ID:        primitive.NewObjectID(),
		Name:      song.Name,
		Artist:    song.Artist,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create song: %w", err)
	}
	*song = doc.model()
	return nil
}

// Update writes name and artist of an existing song.
func (r *MongoSongRepository) Update(ctx context.Context, song *models.Song) error {
	oid, err := primitive.ObjectIDFromHex(song.ID)
	if err != nil {
		return fmt.Errorf("song with ID %s: %w", song.ID, ErrNotFound)
	}
	song.UpdatedAt = time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"name": song.Name, "artist": song.Artist, "updatedAt": song.UpdatedAt},
	})
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("song with ID %s: %w", song.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a song document.
func (r *MongoSongRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("song with ID %s: %w", id, ErrNotFound)
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("song with ID %s: %w", id, ErrNotFound)
	}
	return nil
}
