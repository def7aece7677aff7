package redisdb_test

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedisam/fabexplorer/internal/store/redisdb"
)

func TestNewBlockStoreRequiresAddr(t *testing.T) {
	_, err := redisdb.NewBlockStore(context.Background(), redisdb.Config{Addr: "  "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address is required")
}

func TestBlockStoreUnreachable(t *testing.T) {
	// nothing listens on port 1
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	s := redisdb.NewWithClient(client, redisdb.Config{})
	t.Cleanup(func() { _ = s.Close() })

	_, err := s.GetBlock(context.Background(), "mychannel", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not read block 3")
}
