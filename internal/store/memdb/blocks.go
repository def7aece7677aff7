package memdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/allegro/bigcache/v3"

	"github.com/hedisam/fabexplorer/internal/store"
)

// BlockStore keeps raw serialized blocks in memory. Blocks are immutable once
// committed, so entries are only ever evicted by age or size.
type BlockStore struct {
	cache *bigcache.BigCache
}

// NewBlockStore creates an in-memory block cache.
func NewBlockStore(ctx context.Context, opts ...Option) (*BlockStore, error) {
	cfg := &config{
		memSize:    DefaultMemSize,
		lifeWindow: DefaultLifeWindow,
		maxSizeMB:  DefaultMaxSizeMB,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	bcfg := bigcache.DefaultConfig(cfg.lifeWindow)
	bcfg.MaxEntriesInWindow = cfg.memSize
	bcfg.HardMaxCacheSize = cfg.maxSizeMB
	bcfg.Verbose = false

	cache, err := bigcache.New(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("could not create block cache: %w", err)
	}

	return &BlockStore{cache: cache}, nil
}

// GetBlock returns the raw block or store.ErrNotFound.
func (s *BlockStore) GetBlock(_ context.Context, channel string, number uint64) ([]byte, error) {
	raw, err := s.cache.Get(store.BlockKey("", channel, number))
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("could not read block %d from cache: %w", number, err)
	}

	return raw, nil
}

// PutBlock caches a raw block.
func (s *BlockStore) PutBlock(_ context.Context, channel string, number uint64, raw []byte) error {
	err := s.cache.Set(store.BlockKey("", channel, number), raw)
	if err != nil {
		return fmt.Errorf("could not cache block %d: %w", number, err)
	}

	return nil
}

// Len returns the number of cached blocks.
func (s *BlockStore) Len() int {
	return s.cache.Len()
}

func (s *BlockStore) Close() error {
	return s.cache.Close()
}
