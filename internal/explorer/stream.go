package explorer

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/hedisam/pipeline/chans"

	"github.com/hedisam/fabexplorer/internal/ledger"
	"github.com/hedisam/fabexplorer/internal/ringbuffer"
)

// BlockResult is one entry of a block stream. Exactly one of Block and Err is set;
// a failed block keeps its position so enumeration can carry on past it.
type BlockResult struct {
	Number uint64
	Block  *ledger.Block
	Err    error
}

// TransactionResult is one entry of a transaction stream. A failed block shows
// up as a single result with BlockNumber and Err set.
type TransactionResult struct {
	BlockNumber uint64
	Tx          *ledger.TransactionRecord
	Err         error
}

// AllBlocks streams every block from genesis up to the height observed when it
// is called, in ascending order. Blocks committed afterwards are not included.
// The channel is closed when the scan completes or ctx is done; callers that
// stop reading early must cancel ctx.
func (e *Explorer) AllBlocks(ctx context.Context) (<-chan *BlockResult, error) {
	height, err := e.Height(ctx)
	if err != nil {
		return nil, err
	}

	return e.stream(ctx, 0, height), nil
}

// Range streams blocks [from, to) in ascending order. to is clamped to the
// current height.
func (e *Explorer) Range(ctx context.Context, from, to uint64) (<-chan *BlockResult, error) {
	if from > to {
		return nil, fmt.Errorf("%w: from %d is greater than to %d", ErrInvalidRange, from, to)
	}
	height, err := e.Height(ctx)
	if err != nil {
		return nil, err
	}

	return e.stream(ctx, from, min(to, height)), nil
}

// AllTransactions streams the endorser transactions of every block, ordered by
// block number and then by position within the block.
func (e *Explorer) AllTransactions(ctx context.Context) (<-chan *TransactionResult, error) {
	blocks, err := e.AllBlocks(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan *TransactionResult)
	go func() {
		defer close(out)

		for res := range chans.ReceiveOrDoneSeq(ctx, blocks) {
			if res.Err != nil {
				if !chans.SendOrDone(ctx, out, &TransactionResult{BlockNumber: res.Number, Err: res.Err}) {
					return
				}
				continue
			}
			for _, tx := range ledger.ExtractTransactions(res.Block) {
				if !chans.SendOrDone(ctx, out, &TransactionResult{BlockNumber: res.Number, Tx: tx}) {
					return
				}
			}
		}
	}()

	return out, nil
}

// Follow streams blocks starting at from, then keeps polling the chain height
// every pollInterval and streams new blocks as they are committed. It runs until
// ctx is done.
func (e *Explorer) Follow(ctx context.Context, from uint64, pollInterval time.Duration) <-chan *BlockResult {
	out := make(chan *BlockResult)

	go func() {
		defer close(out)

		t := time.NewTicker(pollInterval)
		defer t.Stop()

		next := from
		poll := func() bool {
			height, err := e.Height(ctx)
			if err != nil {
				if ctx.Err() == nil {
					e.logger.WithError(err).Error("Failed to get chain height")
				}
				return ctx.Err() == nil
			}
			if height <= next {
				e.logger.WithField("height", height).Debug("No new block yet")
				return true
			}

			for res := range chans.ReceiveOrDoneSeq(ctx, e.stream(ctx, next, height)) {
				if !chans.SendOrDone(ctx, out, res) {
					return false
				}
				next = res.Number + 1
			}
			return ctx.Err() == nil
		}

		if !poll() {
			return
		}
		for range chans.ReceiveOrDoneSeq(ctx, t.C) {
			if !poll() {
				return
			}
		}
	}()

	return out
}

// stream fetches blocks [from, to) with at most e.concurrency fetches in flight
// and emits them in order. A block holds its credit from dispatch until it is
// emitted, so no more than e.concurrency blocks are ever buffered.
func (e *Explorer) stream(ctx context.Context, from, to uint64) <-chan *BlockResult {
	out := make(chan *BlockResult)

	go func() {
		defer close(out)
		if from >= to {
			return
		}

		ctx, cancel := context.WithCancel(ctx)
		results := make(chan *BlockResult)
		credits := make(chan struct{}, e.concurrency)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			for num := from; num < to; num++ {
				select {
				case credits <- struct{}{}:
				case <-gctx.Done():
					return gctx.Err()
				}
				g.Go(func() error {
					res := e.fetchResult(gctx, num)
					if !chans.SendOrDone(gctx, results, res) {
						return gctx.Err()
					}
					return nil
				})
			}
			return nil
		})
		go func() {
			_ = g.Wait()
			close(results)
		}()
		defer func() {
			cancel()
			for range results {
			}
		}()

		window := ringbuffer.NewWindow[*BlockResult](uint(e.concurrency), from)
		for res := range chans.ReceiveOrDoneSeq(ctx, results) {
			if !window.Put(res.Number, res) {
				// unreachable while credits bound the in-flight blocks
				e.logger.WithField("number", res.Number).Error("Block fell outside the reorder window")
				return
			}
			for next, ok := window.Pop(); ok; next, ok = window.Pop() {
				<-credits
				if !chans.SendOrDone(ctx, out, next) {
					return
				}
				streamedBlocks.Inc()
			}
		}
	}()

	return out
}

func (e *Explorer) fetchResult(ctx context.Context, number uint64) *BlockResult {
	block, err := e.fetchBlock(ctx, number)
	if err != nil {
		if ctx.Err() == nil {
			e.logger.WithError(err).WithFields(logrus.Fields{
				"channel": e.channel,
				"number":  number,
			}).Warn("Failed to retrieve block, recording placeholder")
			failedBlockRetrievals.Inc()
		}
		return &BlockResult{Number: number, Err: err}
	}

	return &BlockResult{Number: number, Block: block}
}
