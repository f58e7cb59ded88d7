package repositories

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"songvault/internal/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const defaultMongoDatabase = "songvault"

// Stores bundles the repositories of one backend together with its lifecycle hooks.
type Stores struct {
	Users UserRepository
	Songs SongRepository

	migrate func(ctx context.Context) error
	close   func(ctx context.Context) error
}

// Migrate prepares the backend schema: tables for GORM, indexes for MongoDB.
func (s *Stores) Migrate(ctx context.Context) error {
	if s.migrate == nil {
		return nil
	}
	return s.migrate(ctx)
}

// Close releases the underlying connection.
func (s *Stores) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the backend selected by the URI scheme:
// mongodb:// and mongodb+srv:// use MongoDB, postgres:// and postgresql:// use
// GORM with PostgreSQL, sqlite://<path> uses GORM with SQLite and memory://
// keeps everything in process.
func Open(ctx context.Context, uri string, log *zap.Logger) (*Stores, error) {
	if log == nil {
		log = zap.NewNop()
	}
	scheme, _, ok := strings.Cut(uri, "://")
	if !ok {
		return nil, fmt.Errorf("database URI %q has no scheme", uri)
	}

	switch scheme {
	case "mongodb", "mongodb+srv":
		return openMongo(ctx, uri, log)
	case "postgres", "postgresql":
		return openGORM(postgres.Open(uri), log)
	case "sqlite":
		return openGORM(sqlite.Open(strings.TrimPrefix(uri, "sqlite://")), log)
	case "memory":
		log.Warn("Using in-memory stores; data is lost on restart")
		return &Stores{
			Users: NewMemoryUserRepository(),
			Songs: NewMemorySongRepository(),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", scheme)
	}
}

// NewGORMStores wraps an open GORM connection.
func NewGORMStores(db *gorm.DB) *Stores {
	return &Stores{
		Users: NewGORMUserRepository(db),
		Songs: NewGORMSongRepository(db),
		migrate: func(ctx context.Context) error {
			if err := db.WithContext(ctx).AutoMigrate(&models.User{}, &models.Song{}); err != nil {
				return fmt.Errorf("failed to auto-migrate database: %w", err)
			}
			return nil
		},
		close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

func openGORM(dialector gorm.Dialector, log *zap.Logger) (*Stores, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info("Connected to the database with GORM", zap.String("dialect", dialector.Name()))
	return NewGORMStores(db), nil
}

func openMongo(ctx context.Context, uri string, log *zap.Logger) (*Stores, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(mongoDatabaseName(uri))
	users := NewMongoUserRepository(db)
	log.Info("Connected to MongoDB", zap.String("database", db.Name()))

	return &Stores{
		Users:   users,
		Songs:   NewMongoSongRepository(db),
		migrate: users.EnsureIndexes,
		close:   client.Disconnect,
	}, nil
}

// mongoDatabaseName returns the database named in the URI path, or the default.
func mongoDatabaseName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultMongoDatabase
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return defaultMongoDatabase
}
