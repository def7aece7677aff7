package explorer_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedisam/fabexplorer/internal/explorer"
	"github.com/hedisam/fabexplorer/internal/explorer/mocks"
	"github.com/hedisam/fabexplorer/internal/ledger"
	"github.com/hedisam/fabexplorer/internal/ledger/ledgertest"
	"github.com/hedisam/fabexplorer/internal/store"
)

// fakeChain serves pre-built blocks through a QueryServiceMock. delay, when set,
// is applied to every block fetch.
type fakeChain struct {
	mu        sync.Mutex
	height    uint64
	chainInfo map[uint64][]byte
	blocks    map[uint64][]byte
	delay     func(ctx context.Context, number uint64) error

	inFlight    atomic.Int64
	maxInFlight atomic.Int64
}

func newFakeChain(t *testing.T, blocks ...[]byte) *fakeChain {
	t.Helper()
	c := &fakeChain{
		height:    uint64(len(blocks)),
		chainInfo: map[uint64][]byte{},
		blocks:    map[uint64][]byte{},
	}
	for i, raw := range blocks {
		c.blocks[uint64(i)] = raw
	}
	for h := range uint64(len(blocks)) + 1 {
		c.chainInfo[h] = ledgertest.ChainInfo(t, h)
	}
	return c
}

func (c *fakeChain) setHeight(h uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.height = h
}

func (c *fakeChain) service() *mocks.QueryServiceMock {
	return &mocks.QueryServiceMock{
		QueryChainInfoFunc: func(ctx context.Context, channelID string) ([]byte, error) {
			c.mu.Lock()
			defer c.mu.Unlock()
			return c.chainInfo[c.height], nil
		},
		QueryBlockByNumberFunc: func(ctx context.Context, channelID string, number string) ([]byte, error) {
			n, err := strconv.ParseUint(number, 10, 64)
			if err != nil {
				return nil, err
			}

			cur := c.inFlight.Add(1)
			defer c.inFlight.Add(-1)
			for {
				prev := c.maxInFlight.Load()
				if cur <= prev || c.maxInFlight.CompareAndSwap(prev, cur) {
					break
				}
			}

			if c.delay != nil {
				if err := c.delay(ctx, n); err != nil {
					return nil, err
				}
			}
			raw, ok := c.blocks[n]
			if !ok {
				return nil, fmt.Errorf("block %d does not exist", n)
			}
			return raw, nil
		},
	}
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func collect[T any](t *testing.T, ch <-chan T) []T {
	t.Helper()
	var out []T
	timeout := time.After(5 * time.Second)
	for {
		select {
		case v, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, v)
		case <-timeout:
			t.Fatal("stream was not closed in time")
			return nil
		}
	}
}

func TestHeightAndChainInfo(t *testing.T) {
	c := newFakeChain(t, ledgertest.Block(t, 0), ledgertest.Block(t, 1))
	e := explorer.New(newLogger(), c.service(), ledgertest.Channel)

	height, err := e.Height(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), height)

	info, err := e.ChainInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ledgertest.PreviousHash(2), info.CurrentBlockHash)
	assert.Equal(t, ledgertest.PreviousHash(1), info.PreviousBlockHash)
}

func TestBlock(t *testing.T) {
	tests := map[string]struct {
		number          uint64
		chainInfoErr    error
		expectedErr     error
		expectedQueries int
	}{
		"existing block": {
			number:          1,
			expectedQueries: 1,
		},
		"at height": {
			number:      2,
			expectedErr: explorer.ErrNotFound,
		},
		"far beyond height": {
			number:      1 << 40,
			expectedErr: explorer.ErrNotFound,
		},
		"service unavailable": {
			number:       0,
			chainInfoErr: fmt.Errorf("dial peer0: %w", explorer.ErrServiceUnavailable),
			expectedErr:  explorer.ErrServiceUnavailable,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			c := newFakeChain(t,
				ledgertest.Block(t, 0, ledgertest.ConfigTx(t, "genesis")),
				ledgertest.Block(t, 1, ledgertest.EndorserTx(t, "tx1")),
			)
			svc := c.service()
			if test.chainInfoErr != nil {
				svc.QueryChainInfoFunc = func(ctx context.Context, channelID string) ([]byte, error) {
					return nil, test.chainInfoErr
				}
			}
			e := explorer.New(newLogger(), svc, ledgertest.Channel)

			block, err := e.Block(context.Background(), test.number)
			assert.Len(t, svc.QueryBlockByNumberCalls(), test.expectedQueries)
			if test.expectedErr != nil {
				require.ErrorIs(t, err, test.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.number, block.Header.Number)
			assert.Equal(t, ledgertest.Channel, svc.QueryBlockByNumberCalls()[0].ChannelID)
			assert.Equal(t, "1", svc.QueryBlockByNumberCalls()[0].Number)
		})
	}
}

func TestAllBlocksKeepsOrderUnderOutOfOrderCompletion(t *testing.T) {
	const (
		height      = 20
		concurrency = 4
	)
	var blocks [][]byte
	for n := range uint64(height) {
		blocks = append(blocks, ledgertest.Block(t, n, ledgertest.EndorserTx(t, fmt.Sprintf("tx%d", n))))
	}
	c := newFakeChain(t, blocks...)
	// earlier blocks of every batch finish last
	c.delay = func(ctx context.Context, n uint64) error {
		d := time.Duration(concurrency-n%concurrency) * 3 * time.Millisecond
		select {
		case <-time.After(d):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	e := explorer.New(newLogger(), c.service(), ledgertest.Channel, explorer.WithConcurrency(concurrency))

	stream, err := e.AllBlocks(context.Background())
	require.NoError(t, err)
	results := collect(t, stream)

	require.Len(t, results, height)
	for i, res := range results {
		require.NoError(t, res.Err)
		assert.Equal(t, uint64(i), res.Number)
		assert.Equal(t, uint64(i), res.Block.Header.Number)
	}
	assert.LessOrEqual(t, c.maxInFlight.Load(), int64(concurrency))
	assert.Greater(t, c.maxInFlight.Load(), int64(1), "fetches should overlap")
}

func TestAllBlocksRecordsPlaceholderForMalformedBlock(t *testing.T) {
	c := newFakeChain(t,
		ledgertest.Block(t, 0, ledgertest.ConfigTx(t, "genesis")),
		ledgertest.MalformedBlock(),
		ledgertest.Block(t, 2, ledgertest.EndorserTx(t, "tx2")),
	)
	e := explorer.New(newLogger(), c.service(), ledgertest.Channel)

	stream, err := e.AllBlocks(context.Background())
	require.NoError(t, err)
	results := collect(t, stream)

	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, uint64(0), results[0].Block.Header.Number)

	assert.Equal(t, uint64(1), results[1].Number)
	assert.Nil(t, results[1].Block)
	assert.ErrorIs(t, results[1].Err, ledger.ErrBlockDecode)

	assert.NoError(t, results[2].Err)
	assert.Equal(t, uint64(2), results[2].Block.Header.Number)
}

func TestAllBlocksEmptyChain(t *testing.T) {
	c := newFakeChain(t)
	e := explorer.New(newLogger(), c.service(), ledgertest.Channel)

	stream, err := e.AllBlocks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, collect(t, stream))
}

func TestAllBlocksCancellation(t *testing.T) {
	var blocks [][]byte
	for n := range uint64(50) {
		blocks = append(blocks, ledgertest.Block(t, n))
	}
	c := newFakeChain(t, blocks...)
	c.delay = func(ctx context.Context, n uint64) error {
		if n < 2 {
			return nil
		}
		<-ctx.Done()
		return ctx.Err()
	}
	e := explorer.New(newLogger(), c.service(), ledgertest.Channel, explorer.WithConcurrency(4))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stream, err := e.AllBlocks(ctx)
	require.NoError(t, err)

	for want := range uint64(2) {
		select {
		case res := <-stream:
			require.NotNil(t, res)
			assert.Equal(t, want, res.Number)
		case <-time.After(5 * time.Second):
			t.Fatal("block was not emitted")
		}
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-stream:
			return !ok
		default:
			return false
		}
	}, 5*time.Second, 5*time.Millisecond, "stream must close once cancelled")
	require.Eventually(t, func() bool {
		return c.inFlight.Load() == 0
	}, 5*time.Second, 5*time.Millisecond, "workers must be drained")
	assert.Less(t, c.maxInFlight.Load(), int64(5))
}

func TestAllTransactions(t *testing.T) {
	c := newFakeChain(t,
		ledgertest.Block(t, 0, ledgertest.ConfigTx(t, "genesis")),
		ledgertest.BlockWithFilter(t, 1,
			[]pb.TxValidationCode{pb.TxValidationCode_VALID, pb.TxValidationCode_VALID, pb.TxValidationCode_MVCC_READ_CONFLICT},
			ledgertest.EndorserTx(t, "tx1a"),
			ledgertest.TruncatedEnvelope(),
			ledgertest.EndorserTx(t, "tx1b"),
		),
		ledgertest.MalformedBlock(),
		ledgertest.Block(t, 3,
			ledgertest.ConfigTx(t, "cfg3"),
			ledgertest.EndorserTx(t, "tx3"),
		),
	)
	e := explorer.New(newLogger(), c.service(), ledgertest.Channel, explorer.WithConcurrency(2))

	stream, err := e.AllTransactions(context.Background())
	require.NoError(t, err)
	results := collect(t, stream)

	require.Len(t, results, 4)

	assert.Equal(t, "tx1a", results[0].Tx.TxID)
	assert.Equal(t, "VALID", results[0].Tx.ValidationCode)
	assert.Equal(t, "tx1b", results[1].Tx.TxID)
	assert.Equal(t, "MVCC_READ_CONFLICT", results[1].Tx.ValidationCode)

	assert.Equal(t, uint64(2), results[2].BlockNumber)
	assert.Nil(t, results[2].Tx)
	assert.ErrorIs(t, results[2].Err, ledger.ErrBlockDecode)

	assert.Equal(t, "tx3", results[3].Tx.TxID)
	assert.Equal(t, uint64(3), results[3].Tx.BlockNumber)
	assert.Equal(t, ledgertest.MSPID, results[3].Tx.CreatorMSP)
	assert.Equal(t, ledger.HeaderTypeEndorserTransaction, results[3].Tx.Type)
}

func TestRange(t *testing.T) {
	var blocks [][]byte
	for n := range uint64(6) {
		blocks = append(blocks, ledgertest.Block(t, n))
	}

	tests := map[string]struct {
		from, to    uint64
		expected    []uint64
		expectedErr error
	}{
		"inner range": {
			from:     2,
			to:       4,
			expected: []uint64{2, 3},
		},
		"clamped to height": {
			from:     4,
			to:       100,
			expected: []uint64{4, 5},
		},
		"empty": {
			from: 3,
			to:   3,
		},
		"beyond height": {
			from: 10,
			to:   20,
		},
		"inverted": {
			from:        4,
			to:          2,
			expectedErr: explorer.ErrInvalidRange,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			c := newFakeChain(t, blocks...)
			e := explorer.New(newLogger(), c.service(), ledgertest.Channel)

			stream, err := e.Range(context.Background(), test.from, test.to)
			if test.expectedErr != nil {
				require.ErrorIs(t, err, test.expectedErr)
				return
			}
			require.NoError(t, err)

			var got []uint64
			for _, res := range collect(t, stream) {
				require.NoError(t, res.Err)
				got = append(got, res.Number)
			}
			assert.Equal(t, test.expected, got)
		})
	}
}

func TestFollow(t *testing.T) {
	var blocks [][]byte
	for n := range uint64(5) {
		blocks = append(blocks, ledgertest.Block(t, n))
	}
	c := newFakeChain(t, blocks...)
	c.setHeight(2)
	e := explorer.New(newLogger(), c.service(), ledgertest.Channel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stream := e.Follow(ctx, 1, 10*time.Millisecond)

	var got []uint64
	for res := range stream {
		require.NoError(t, res.Err)
		got = append(got, res.Number)
		switch res.Number {
		case 1:
			c.setHeight(5)
		case 4:
			cancel()
		}
	}
	assert.Equal(t, []uint64{1, 2, 3, 4}, got)
}

func TestBlockCache(t *testing.T) {
	cachedBlock := ledgertest.Block(t, 0, ledgertest.EndorserTx(t, "from-cache"))
	c := newFakeChain(t,
		ledgertest.Block(t, 0, ledgertest.EndorserTx(t, "from-peer")),
		ledgertest.Block(t, 1, ledgertest.EndorserTx(t, "tx1")),
	)
	svc := c.service()

	var mu sync.Mutex
	cached := map[uint64][]byte{0: cachedBlock}
	cache := &mocks.BlockCacheMock{
		GetBlockFunc: func(ctx context.Context, channel string, number uint64) ([]byte, error) {
			mu.Lock()
			defer mu.Unlock()
			raw, ok := cached[number]
			if !ok {
				return nil, store.ErrNotFound
			}
			return raw, nil
		},
		PutBlockFunc: func(ctx context.Context, channel string, number uint64, raw []byte) error {
			mu.Lock()
			defer mu.Unlock()
			cached[number] = raw
			return nil
		},
	}
	e := explorer.New(newLogger(), svc, ledgertest.Channel, explorer.WithBlockCache(cache))

	block, err := e.Block(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "from-cache", block.Envelopes[0].Envelope.ChannelHeader.TxID)
	assert.Empty(t, svc.QueryBlockByNumberCalls())
	assert.Empty(t, cache.PutBlockCalls())

	_, err = e.Block(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, svc.QueryBlockByNumberCalls(), 1)
	require.Len(t, cache.PutBlockCalls(), 1)
	assert.Equal(t, uint64(1), cache.PutBlockCalls()[0].Number)
	assert.Equal(t, ledgertest.Channel, cache.PutBlockCalls()[0].Channel)

	_, err = e.Block(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, svc.QueryBlockByNumberCalls(), 1, "second read is served from cache")
}

func TestBlockCacheFailuresAreIgnored(t *testing.T) {
	c := newFakeChain(t, ledgertest.Block(t, 0, ledgertest.EndorserTx(t, "tx0")))
	svc := c.service()
	cache := &mocks.BlockCacheMock{
		GetBlockFunc: func(ctx context.Context, channel string, number uint64) ([]byte, error) {
			return nil, errors.New("connection refused")
		},
		PutBlockFunc: func(ctx context.Context, channel string, number uint64, raw []byte) error {
			return errors.New("connection refused")
		},
	}
	e := explorer.New(newLogger(), svc, ledgertest.Channel, explorer.WithBlockCache(cache))

	block, err := e.Block(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), block.Header.Number)
	assert.Len(t, svc.QueryBlockByNumberCalls(), 1)
}

func TestCorruptCachedBlockIsFetchedAgain(t *testing.T) {
	c := newFakeChain(t, ledgertest.Block(t, 0, ledgertest.EndorserTx(t, "from-peer")))
	svc := c.service()
	cache := &mocks.BlockCacheMock{
		GetBlockFunc: func(ctx context.Context, channel string, number uint64) ([]byte, error) {
			return ledgertest.MalformedBlock(), nil
		},
		PutBlockFunc: func(ctx context.Context, channel string, number uint64, raw []byte) error {
			return nil
		},
	}
	e := explorer.New(newLogger(), svc, ledgertest.Channel, explorer.WithBlockCache(cache))

	block, err := e.Block(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "from-peer", block.Envelopes[0].Envelope.ChannelHeader.TxID)
	assert.Len(t, svc.QueryBlockByNumberCalls(), 1)
	require.Len(t, cache.PutBlockCalls(), 1, "the corrupt entry is replaced")
	assert.Equal(t, uint64(0), cache.PutBlockCalls()[0].Number)
}

func TestFindTransaction(t *testing.T) {
	tests := map[string]struct {
		txID        string
		expectedErr error
		expectedBlk uint64
	}{
		"found": {
			txID:        "tx2",
			expectedBlk: 2,
		},
		"config envelopes are not transactions": {
			txID:        "genesis",
			expectedErr: explorer.ErrNotFound,
		},
		"unknown": {
			txID:        "missing",
			expectedErr: explorer.ErrNotFound,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			c := newFakeChain(t,
				ledgertest.Block(t, 0, ledgertest.ConfigTx(t, "genesis")),
				ledgertest.Block(t, 1, ledgertest.EndorserTx(t, "tx1")),
				ledgertest.Block(t, 2, ledgertest.EndorserTx(t, "tx2")),
			)
			e := explorer.New(newLogger(), c.service(), ledgertest.Channel)

			tx, err := e.FindTransaction(context.Background(), test.txID)
			if test.expectedErr != nil {
				require.ErrorIs(t, err, test.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.txID, tx.TxID)
			assert.Equal(t, test.expectedBlk, tx.BlockNumber)
		})
	}
}

func TestStats(t *testing.T) {
	c := newFakeChain(t, ledgertest.Block(t, 0), ledgertest.Block(t, 1), ledgertest.Block(t, 2))
	e := explorer.New(newLogger(), c.service(), ledgertest.Channel, explorer.WithMSPID(ledgertest.MSPID))

	stats, err := e.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ledgertest.Channel, stats.Channel)
	assert.Equal(t, uint64(3), stats.TotalBlocks)
	assert.Equal(t, ledgertest.MSPID, stats.MSPID)
	assert.Equal(t, ledgertest.PreviousHash(3), stats.LatestBlockHash)
	assert.False(t, stats.Timestamp.IsZero())
}
