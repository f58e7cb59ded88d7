package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Joke is the decorative payload attached to resource responses.
type Joke struct {
	Setup     string `json:"setup"`
	Punchline string `json:"punchline"`
}

// JokeCache stores the most recently fetched joke.
type JokeCache interface {
	Get(ctx context.Context) (*Joke, error)
	Set(ctx context.Context, joke *Joke, ttl time.Duration) error
}

// JokeService fetches a random joke from a third-party API. Every failure
// degrades to a nil joke; callers never see an error.
type JokeService struct {
	url      string
	timeout  time.Duration
	client   *http.Client
	cache    JokeCache
	cacheTTL time.Duration
	log      *zap.Logger
}

// NewJokeService creates a JokeService. An empty url disables fetching;
// cache may be nil and is only consulted when cacheTTL is positive.
func NewJokeService(url string, timeout time.Duration, cache JokeCache, cacheTTL time.Duration, log *zap.Logger) *JokeService {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &JokeService{
		url:      url,
		timeout:  timeout,
		client:   &http.Client{},
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// Random returns a joke or nil. It waits at most the configured timeout.
func (s *JokeService) Random(ctx context.Context) *Joke {
	if s == nil || s.url == "" {
		return nil
	}

	caching := s.cache != nil && s.cacheTTL > 0
	if caching {
		joke, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Debug("Joke cache read failed", zap.Error(err))
		} else if joke != nil {
			return joke
		}
	}

	joke, err := s.fetch(ctx)
	if err != nil {
		s.log.Debug("Joke fetch failed", zap.Error(err))
		return nil
	}

	if caching {
		if err := s.cache.Set(ctx, joke, s.cacheTTL); err != nil {
			s.log.Debug("Joke cache write failed", zap.Error(err))
		}
	}
	return joke
}

func (s *JokeService) fetch(ctx context.Context) (*Joke, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("joke API returned %s", resp.Status)
	}

	var joke Joke
	if err := json.NewDecoder(resp.Body).Decode(&joke); err != nil {
		return nil, fmt.Errorf("failed to decode joke: %w", err)
	}
	return &joke, nil
}

const jokeCacheKey = "songvault:joke"

// RedisJokeCache keeps the joke in Redis.
type RedisJokeCache struct {
	client *redis.Client
}

// NewRedisJokeCache connects to the Redis server at url (redis://...).
func NewRedisJokeCache(ctx context.Context, url string) (*RedisJokeCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisJokeCache{client: client}, nil
}

// Get returns the cached joke, or nil on a miss.
func (c *RedisJokeCache) Get(ctx context.Context) (*Joke, error) {
	data, err := c.client.Get(ctx, jokeCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var joke Joke
	if err := json.Unmarshal(data, &joke); err != nil {
		return nil, err
	}
	return &joke, nil
}

// Set stores joke with the given expiry.
func (c *RedisJokeCache) Set(ctx context.Context, joke *Joke, ttl time.Duration) error {
	data, err := json.Marshal(joke)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, jokeCacheKey, data, ttl).Err()
}

// Close closes the underlying client.
func (c *RedisJokeCache) Close() error {
	return c.client.Close()
}
