// Package redis implements the document store on Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aliskhannn/quranlingo-bot/internal/repository"
)

// Config holds Redis connection configuration.
type Config struct {
	Addr         string
	Password     string
	DB           int
	KeyPrefix    string // namespace prepended to every document key
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns a local, unauthenticated configuration.
func DefaultConfig() Config {
	return Config{
		Addr:         "localhost:6379",
		KeyPrefix:    "quranlingo:",
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// NewClient creates a client and verifies the connection.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// DocumentStore keeps each document as a plain string value. Documents never
// expire.
type DocumentStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewDocumentStore creates a DocumentStore using client. Every key is stored
// under keyPrefix.
func NewDocumentStore(client redis.UniversalClient, keyPrefix string) *DocumentStore {
	return &DocumentStore{client: client, keyPrefix: keyPrefix}
}

func (s *DocumentStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return data, nil
}

func (s *DocumentStore) Put(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, s.keyPrefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("put document: %w", err)
	}
	return nil
}

// Keys walks the keyspace with SCAN so large databases are not blocked.
func (s *DocumentStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	iter := s.client.Scan(ctx, 0, s.keyPrefix+prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val()[len(s.keyPrefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan keys: %w", err)
	}

	slices.Sort(keys)
	return slices.Compact(keys), nil
}
