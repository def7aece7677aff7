// Package redisdb shares cached blocks between explorer instances through Redis.
package redisdb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hedisam/fabexplorer/internal/store"
)

const (
	DefaultKeyPrefix = "fabexp:block:"
	defaultTTL       = 24 * time.Hour
	pingTimeout      = 2 * time.Second
)

type Config struct {
	Addr      string
	Password  string
	DB        int
	TTL       time.Duration
	KeyPrefix string
}

type BlockStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewBlockStore connects to Redis and checks the connection with a ping.
func NewBlockStore(ctx context.Context, cfg Config) (*BlockStore, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("could not reach redis at %q: %w", cfg.Addr, err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, cfg Config) *BlockStore {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	return &BlockStore{
		client: client,
		ttl:    cfg.TTL,
		prefix: cfg.KeyPrefix,
	}
}

func (s *BlockStore) GetBlock(ctx context.Context, channel string, number uint64) ([]byte, error) {
	raw, err := s.client.Get(ctx, s.key(channel, number)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("could not read block %d from redis: %w", number, err)
	}

	return raw, nil
}

func (s *BlockStore) PutBlock(ctx context.Context, channel string, number uint64, raw []byte) error {
	err := s.client.Set(ctx, s.key(channel, number), raw, s.ttl).Err()
	if err != nil {
		return fmt.Errorf("could not write block %d to redis: %w", number, err)
	}

	return nil
}

func (s *BlockStore) Close() error {
	return s.client.Close()
}

func (s *BlockStore) key(channel string, number uint64) string {
	return store.BlockKey(s.prefix, channel, number)
}
