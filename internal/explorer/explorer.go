// Package explorer walks a channel's ledger through the query service and hands
// back decoded blocks and transactions.
package explorer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hedisam/fabexplorer/internal/ledger"
	"github.com/hedisam/fabexplorer/internal/store"
	"github.com/hedisam/fabexplorer/internal/wideint"
)

const (
	DefaultConcurrency = 8
	MaxConcurrency     = 64
)

var (
	// ErrNotFound is returned for a block number at or beyond the chain height, or an unknown transaction id.
	ErrNotFound = errors.New("not found")
	// ErrServiceUnavailable is returned when the ledger query service cannot be reached.
	ErrServiceUnavailable = errors.New("ledger query service unavailable")
	// ErrInvalidRange is returned by Range when from is greater than to.
	ErrInvalidRange = errors.New("invalid block range")
)

// QueryService is the ledger query service of a single peer connection.
//
//go:generate moq -out mocks/query_service.go -pkg mocks -skip-ensure . QueryService
type QueryService interface {
	QueryChainInfo(ctx context.Context, channelID string) ([]byte, error)
	QueryBlockByNumber(ctx context.Context, channelID string, number string) ([]byte, error)
}

// BlockCache stores raw blocks by channel and number. GetBlock returns
// store.ErrNotFound on a miss.
//
//go:generate moq -out mocks/block_cache.go -pkg mocks -skip-ensure . BlockCache
type BlockCache interface {
	GetBlock(ctx context.Context, channel string, number uint64) ([]byte, error)
	PutBlock(ctx context.Context, channel string, number uint64, raw []byte) error
}

type Explorer struct {
	logger      *logrus.Logger
	svc         QueryService
	channel     string
	mspID       string
	concurrency int
	cache       BlockCache
	now         func() time.Time
}

type Option func(*Explorer)

// WithConcurrency bounds how many blocks are fetched at once while enumerating.
// Values are clamped to [1, MaxConcurrency].
func WithConcurrency(n int) Option {
	return func(e *Explorer) {
		e.concurrency = min(max(n, 1), MaxConcurrency)
	}
}

// WithBlockCache reads blocks through cache before asking the query service.
func WithBlockCache(cache BlockCache) Option {
	return func(e *Explorer) {
		e.cache = cache
	}
}

// WithMSPID sets the MSP of the identity the query service acts as. It is only reported in Stats.
func WithMSPID(mspID string) Option {
	return func(e *Explorer) {
		e.mspID = mspID
	}
}

func New(logger *logrus.Logger, svc QueryService, channel string, opts ...Option) *Explorer {
	e := &Explorer{
		logger:      logger,
		svc:         svc,
		channel:     channel,
		concurrency: DefaultConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *Explorer) Channel() string {
	return e.channel
}

// ChainInfo returns the current height and the last two block hashes.
func (e *Explorer) ChainInfo(ctx context.Context) (*ledger.ChainInfo, error) {
	raw, err := e.svc.QueryChainInfo(ctx, e.channel)
	if err != nil {
		failedChainInfoQueries.Inc()
		return nil, fmt.Errorf("query chain info: %w", err)
	}

	info, err := ledger.DecodeChainInfo(raw)
	if err != nil {
		failedChainInfoQueries.Inc()
		return nil, fmt.Errorf("decode chain info: %w", err)
	}
	info.Height, err = wideint.Normalize(info.Height)
	if err != nil {
		return nil, fmt.Errorf("normalize chain height: %w", err)
	}

	chainHeight.Set(float64(info.Height))
	return info, nil
}

// Height returns the number of blocks on the channel at the time of the call.
func (e *Explorer) Height(ctx context.Context) (uint64, error) {
	info, err := e.ChainInfo(ctx)
	if err != nil {
		return 0, err
	}

	return info.Height, nil
}

// Block fetches and decodes a single block. Numbers at or beyond the current
// height fail with ErrNotFound.
func (e *Explorer) Block(ctx context.Context, number uint64) (*ledger.Block, error) {
	height, err := e.Height(ctx)
	if err != nil {
		return nil, err
	}
	if number >= height {
		return nil, fmt.Errorf("%w: block %d, chain height is %d", ErrNotFound, number, height)
	}

	return e.fetchBlock(ctx, number)
}

// fetchBlock reads the block through the cache. A cached copy that no longer
// decodes is fetched again from the query service and replaced.
func (e *Explorer) fetchBlock(ctx context.Context, number uint64) (*ledger.Block, error) {
	if raw, ok := e.cachedBlock(ctx, number); ok {
		block, err := ledger.DecodeBlock(raw)
		if err == nil {
			return e.accept(number, block), nil
		}
		e.logger.WithError(err).WithField("number", number).Warn("Cached block does not decode, fetching it again")
	}

	raw, err := e.svc.QueryBlockByNumber(ctx, e.channel, strconv.FormatUint(number, 10))
	if err != nil {
		return nil, fmt.Errorf("query block %d: %w", number, err)
	}
	block, err := ledger.DecodeBlock(raw)
	if err != nil {
		return nil, fmt.Errorf("block %d: %w", number, err)
	}

	e.cacheBlock(ctx, number, raw)
	return e.accept(number, block), nil
}

func (e *Explorer) accept(number uint64, block *ledger.Block) *ledger.Block {
	if block.Header.Number != number {
		e.logger.WithFields(logrus.Fields{
			"requested": number,
			"received":  block.Header.Number,
		}).Warn("Query service returned a block with a different number")
	}
	if errs := len(block.Diagnostics()); errs > 0 {
		envelopeDecodeErrors.Add(float64(errs))
	}
	retrievedBlocks.Inc()
	return block
}

func (e *Explorer) cachedBlock(ctx context.Context, number uint64) ([]byte, bool) {
	if e.cache == nil {
		return nil, false
	}

	raw, err := e.cache.GetBlock(ctx, e.channel, number)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			e.logger.WithError(err).WithField("number", number).Warn("Failed to read block from cache")
		}
		blockCacheMisses.Inc()
		return nil, false
	}

	blockCacheHits.Inc()
	return raw, true
}

func (e *Explorer) cacheBlock(ctx context.Context, number uint64, raw []byte) {
	if e.cache == nil {
		return
	}

	err := e.cache.PutBlock(ctx, e.channel, number, raw)
	if err != nil {
		e.logger.WithError(err).WithField("number", number).Warn("Failed to cache block")
	}
}

// FindTransaction scans the chain for the endorser transaction with the given
// id and stops as soon as it is found.
func (e *Explorer) FindTransaction(ctx context.Context, txID string) (*ledger.TransactionRecord, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	txs, err := e.AllTransactions(ctx)
	if err != nil {
		return nil, err
	}

	var unavailable error
	for res := range txs {
		if res.Err != nil {
			if unavailable == nil && errors.Is(res.Err, ErrServiceUnavailable) {
				unavailable = res.Err
			}
			continue
		}
		if res.Tx.TxID == txID {
			return res.Tx, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if unavailable != nil {
		return nil, unavailable
	}

	return nil, fmt.Errorf("%w: transaction %q", ErrNotFound, txID)
}

// Stats describes the channel as seen at Timestamp.
type Stats struct {
	Channel         string    `json:"channelName"`
	TotalBlocks     uint64    `json:"totalBlocks"`
	MSPID           string    `json:"mspId,omitempty"`
	LatestBlockHash []byte    `json:"latestBlockHash"`
	Timestamp       time.Time `json:"timestamp"`
}

func (e *Explorer) Stats(ctx context.Context) (*Stats, error) {
	info, err := e.ChainInfo(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		Channel:         e.channel,
		TotalBlocks:     info.Height,
		MSPID:           e.mspID,
		LatestBlockHash: info.CurrentBlockHash,
		Timestamp:       e.now(),
	}, nil
}
