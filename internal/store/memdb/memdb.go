package memdb

import "time"

const (
	// DefaultMemSize is the default number of blocks the cache is sized for.
	DefaultMemSize = 1024
	// DefaultLifeWindow is how long a cached block stays before it may be evicted.
	DefaultLifeWindow = time.Hour
	// DefaultMaxSizeMB caps the cache memory; zero means unbounded.
	DefaultMaxSizeMB = 256
)

type config struct {
	memSize    int
	lifeWindow time.Duration
	maxSizeMB  int
}

type Option func(*config)

// WithMemSize allows us to specify how many blocks the cache is sized for.
func WithMemSize(memSize int) Option {
	return func(c *config) {
		if memSize > 0 {
			c.memSize = memSize
		}
	}
}

// WithLifeWindow sets how long a block stays cached before eviction.
func WithLifeWindow(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.lifeWindow = d
		}
	}
}

// WithMaxSizeMB caps the memory used by the cache.
func WithMaxSizeMB(mb int) Option {
	return func(c *config) {
		if mb >= 0 {
			c.maxSizeMB = mb
		}
	}
}
