package explorer

import (
	"context"
	"errors"
	"fmt"

	"github.com/hedisam/fabexplorer/internal/ledger"
	"github.com/hedisam/fabexplorer/internal/projection"
)

// The Get* operations return projected values, ready to be encoded as JSON.

// BlockView is the presentation shape of a decoded block.
type BlockView struct {
	Header    ledger.BlockHeader       `json:"header"`
	Summary   ledger.Summary           `json:"summary"`
	Envelopes []ledger.EnvelopeOutcome `json:"envelopes"`
}

func newBlockView(b *ledger.Block) *BlockView {
	envelopes := b.Envelopes
	if envelopes == nil {
		envelopes = []ledger.EnvelopeOutcome{}
	}
	return &BlockView{
		Header:    b.Header,
		Summary:   b.Summary(),
		Envelopes: envelopes,
	}
}

// BlockFailure is the placeholder of a block that could not be retrieved.
type BlockFailure struct {
	Number uint64 `json:"number"`
	Error  string `json:"error"`
}

// Project renders a failed block as a BlockFailure and a decoded one as a BlockView.
func (r *BlockResult) Project() any {
	if r.Err != nil {
		return projection.Project(BlockFailure{Number: r.Number, Error: r.Err.Error()})
	}
	return projection.Project(newBlockView(r.Block))
}

// Project renders a transaction of a failed block as a BlockFailure.
func (r *TransactionResult) Project() any {
	if r.Err != nil {
		return projection.Project(BlockFailure{Number: r.BlockNumber, Error: r.Err.Error()})
	}
	return projection.Project(r.Tx)
}

type BlockList struct {
	Attempted int            `json:"attempted"`
	Succeeded int            `json:"succeeded"`
	Items     []*BlockResult `json:"items"`
}

type TransactionList struct {
	Attempted    int                         `json:"attempted"`
	Succeeded    int                         `json:"succeeded"`
	Items        []*ledger.TransactionRecord `json:"items"`
	FailedBlocks []BlockFailure              `json:"failedBlocks"`
}

func (e *Explorer) GetChainInfo(ctx context.Context) (any, error) {
	info, err := e.ChainInfo(ctx)
	if err != nil {
		return nil, err
	}

	return projection.Project(info), nil
}

func (e *Explorer) GetStats(ctx context.Context) (any, error) {
	stats, err := e.Stats(ctx)
	if err != nil {
		return nil, err
	}

	return projection.Project(stats), nil
}

func (e *Explorer) GetBlock(ctx context.Context, number uint64) (any, error) {
	block, err := e.Block(ctx, number)
	if err != nil {
		return nil, err
	}

	return projection.Project(newBlockView(block)), nil
}

func (e *Explorer) GetTransactionsForBlock(ctx context.Context, number uint64) (any, error) {
	block, err := e.Block(ctx, number)
	if err != nil {
		return nil, err
	}

	txs := ledger.ExtractTransactions(block)
	if txs == nil {
		txs = []*ledger.TransactionRecord{}
	}
	return projection.Project(txs), nil
}

func (e *Explorer) GetTransaction(ctx context.Context, txID string) (any, error) {
	tx, err := e.FindTransaction(ctx, txID)
	if err != nil {
		return nil, err
	}

	return projection.Project(tx), nil
}

// GetAllBlocks decodes the whole chain. Blocks that fail are kept as placeholders
// and counted in attempted but not in succeeded.
func (e *Explorer) GetAllBlocks(ctx context.Context) (any, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	blocks, err := e.AllBlocks(ctx)
	if err != nil {
		return nil, err
	}

	list, err := collectBlocks(ctx, blocks)
	if err != nil {
		return nil, err
	}
	return projection.Project(list), nil
}

// GetBlockRange is GetAllBlocks over [from, to).
func (e *Explorer) GetBlockRange(ctx context.Context, from, to uint64) (any, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	blocks, err := e.Range(ctx, from, to)
	if err != nil {
		return nil, err
	}

	list, err := collectBlocks(ctx, blocks)
	if err != nil {
		return nil, err
	}
	return projection.Project(list), nil
}

// GetAllTransactions lists the endorser transactions of the whole chain along
// with the blocks that could not be read.
func (e *Explorer) GetAllTransactions(ctx context.Context) (any, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	blocks, err := e.AllBlocks(ctx)
	if err != nil {
		return nil, err
	}

	list := &TransactionList{
		Items:        []*ledger.TransactionRecord{},
		FailedBlocks: []BlockFailure{},
	}
	for res := range blocks {
		list.Attempted++
		if res.Err != nil {
			if errors.Is(res.Err, ErrServiceUnavailable) {
				return nil, res.Err
			}
			list.FailedBlocks = append(list.FailedBlocks, BlockFailure{Number: res.Number, Error: res.Err.Error()})
			continue
		}
		list.Succeeded++
		list.Items = append(list.Items, ledger.ExtractTransactions(res.Block)...)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	return projection.Project(list), nil
}

// collectBlocks drains a block stream. An unreachable query service fails the
// whole request instead of turning every remaining block into a placeholder.
func collectBlocks(ctx context.Context, blocks <-chan *BlockResult) (*BlockList, error) {
	list := &BlockList{Items: []*BlockResult{}}
	for res := range blocks {
		list.Attempted++
		if res.Err != nil && errors.Is(res.Err, ErrServiceUnavailable) {
			return nil, res.Err
		}
		if res.Err == nil {
			list.Succeeded++
		}
		list.Items = append(list.Items, res)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}

	return list, nil
}
