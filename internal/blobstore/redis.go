package blobstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"mlb_today/pipeline/internal/metrics"
)

// RedisStore keeps blobs as plain Redis string values keyed
// "{container}:{name}". Containers are a naming convention only, so
// creation is implicit.
type RedisStore struct {
	client *redis.Client
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info().Str("addr", cfg.Addr).Int("db", cfg.DB).Msg("Connected to Redis blob store")
	return &RedisStore{client: client}, nil
}

// Put overwrites the blob at container/name
func (s *RedisStore) Put(ctx context.Context, container, name string, data []byte) error {
	if err := s.client.Set(ctx, blobKey(container, name), data, 0).Err(); err != nil {
		metrics.BlobOpsTotal.WithLabelValues("put", container, "error").Inc()
		return fmt.Errorf("failed to save blob %s/%s: %w", container, name, err)
	}
	metrics.BlobOpsTotal.WithLabelValues("put", container, "ok").Inc()
	return nil
}

// Get reads the blob at container/name
func (s *RedisStore) Get(ctx context.Context, container, name string) ([]byte, error) {
	data, err := s.client.Get(ctx, blobKey(container, name)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.BlobOpsTotal.WithLabelValues("get", container, "miss").Inc()
		return nil, ErrNotFound
	}
	if err != nil {
		metrics.BlobOpsTotal.WithLabelValues("get", container, "error").Inc()
		return nil, fmt.Errorf("failed to read blob %s/%s: %w", container, name, err)
	}
	metrics.BlobOpsTotal.WithLabelValues("get", container, "ok").Inc()
	return data, nil
}

// Health checks connectivity
func (s *RedisStore) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() {
	if err := s.client.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close Redis client")
	}
}

func blobKey(container, name string) string {
	return container + ":" + name
}
