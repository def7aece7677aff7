package ledger_test

import (
	"testing"

	"github.com/golang/protobuf/proto"
	cb "github.com/hyperledger/fabric-protos-go/common"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedisam/fabexplorer/internal/ledger"
	"github.com/hedisam/fabexplorer/internal/ledger/ledgertest"
)

func TestDecodeEnvelope(t *testing.T) {
	validChannelHeader := mustMarshal(t, &cb.ChannelHeader{
		Type:      int32(cb.HeaderType_ENDORSER_TRANSACTION),
		TxId:      "tx-partial",
		ChannelId: ledgertest.Channel,
	})

	tests := map[string]struct {
		raw             []byte
		expectedStep    string
		expectedPartial bool
	}{
		"truncated envelope": {
			raw:          ledgertest.TruncatedEnvelope(),
			expectedStep: ledger.StepEnvelope,
		},
		"envelope without payload": {
			raw:          mustMarshal(t, &cb.Envelope{Signature: []byte("sig")}),
			expectedStep: ledger.StepEnvelope,
		},
		"truncated payload": {
			raw:          mustMarshal(t, &cb.Envelope{Payload: []byte{0x0a, 0x10}}),
			expectedStep: ledger.StepPayload,
		},
		"payload without header": {
			raw:          mustMarshal(t, &cb.Envelope{Payload: mustMarshal(t, &cb.Payload{Data: []byte("data")})}),
			expectedStep: ledger.StepPayload,
		},
		"corrupt channel header": {
			raw:          ledgertest.EnvelopeFromHeaders(t, []byte{0x12, 0x05}, nil),
			expectedStep: ledger.StepChannelHeader,
		},
		"corrupt signature header": {
			raw:             ledgertest.EnvelopeFromHeaders(t, validChannelHeader, []byte{0x0a, 0x09, 'x'}),
			expectedStep:    ledger.StepSignatureHeader,
			expectedPartial: true,
		},
		"corrupt creator identity": {
			raw: ledgertest.EnvelopeFromHeaders(t, validChannelHeader, mustMarshal(t, &cb.SignatureHeader{
				Creator: []byte{0x0a, 0x09, 'x'},
				Nonce:   []byte("nonce"),
			})),
			expectedStep:    ledger.StepCreator,
			expectedPartial: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			env, err := ledger.DecodeEnvelope(test.raw)
			require.Error(t, err)
			assert.Nil(t, env)
			assert.ErrorIs(t, err, ledger.ErrEnvelopeDecode)

			var envErr *ledger.EnvelopeError
			require.ErrorAs(t, err, &envErr)
			assert.Equal(t, test.expectedStep, envErr.Step)
			assert.Contains(t, err.Error(), test.expectedStep)
			if !test.expectedPartial {
				assert.Nil(t, envErr.Partial)
				return
			}
			require.NotNil(t, envErr.Partial)
			require.NotNil(t, envErr.Partial.ChannelHeader)
			assert.Equal(t, "tx-partial", envErr.Partial.ChannelHeader.TxID)
		})
	}
}

func TestDecodeEnvelopeWellFormed(t *testing.T) {
	env, err := ledger.DecodeEnvelope(ledgertest.EndorserTx(t, "tx-1"))
	require.NoError(t, err)

	assert.Equal(t, &ledger.Envelope{
		ChannelHeader: &ledger.ChannelHeader{
			Type:      ledger.HeaderTypeEndorserTransaction,
			TypeName:  "ENDORSER_TRANSACTION",
			TxID:      "tx-1",
			Timestamp: ledger.Timestamp{Seconds: ledgertest.TimestampSeconds, Nanos: 500},
			ChannelID: ledgertest.Channel,
		},
		SignatureHeader: &ledger.SignatureHeader{
			Creator: ledger.Identity{
				MSPID:       ledgertest.MSPID,
				Certificate: ledgertest.Cert,
			},
			Nonce: []byte("nonce-tx-1"),
		},
	}, env)
	assert.Equal(t, ledgertest.TimestampSeconds, env.ChannelHeader.Timestamp.Time().Unix())
}

func TestDecodeBlock(t *testing.T) {
	tests := map[string]struct {
		raw                 []byte
		expectedSummary     ledger.Summary
		expectedTxIDs       []string
		expectedFailedIndex []int
	}{
		"empty block": {
			raw:             ledgertest.Block(t, 0),
			expectedSummary: ledger.Summary{},
		},
		"one valid and one truncated envelope": {
			raw:                 ledgertest.Block(t, 4, ledgertest.EndorserTx(t, "tx-1"), ledgertest.TruncatedEnvelope()),
			expectedSummary:     ledger.Summary{Envelopes: 2, Decoded: 1, Transactions: 1, Errors: 1},
			expectedTxIDs:       []string{"tx-1"},
			expectedFailedIndex: []int{1},
		},
		"config and endorser envelopes": {
			raw:             ledgertest.Block(t, 1, ledgertest.ConfigTx(t, "cfg-1"), ledgertest.EndorserTx(t, "tx-1")),
			expectedSummary: ledger.Summary{Envelopes: 2, Decoded: 2, Transactions: 1},
			expectedTxIDs:   []string{"tx-1"},
		},
		"transactions keep envelope order": {
			raw: ledgertest.Block(t, 9,
				ledgertest.EndorserTx(t, "tx-c"),
				ledgertest.TruncatedEnvelope(),
				ledgertest.EndorserTx(t, "tx-a"),
				ledgertest.EndorserTx(t, "tx-b"),
			),
			expectedSummary:     ledger.Summary{Envelopes: 4, Decoded: 3, Transactions: 3, Errors: 1},
			expectedTxIDs:       []string{"tx-c", "tx-a", "tx-b"},
			expectedFailedIndex: []int{1},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			block, err := ledger.DecodeBlock(test.raw)
			require.NoError(t, err)
			assert.Equal(t, test.expectedSummary, block.Summary())

			var txIDs []string
			for _, tx := range ledger.ExtractTransactions(block) {
				assert.Equal(t, block.Header.Number, tx.BlockNumber)
				assert.Equal(t, ledgertest.MSPID, tx.CreatorMSP)
				assert.Equal(t, ledger.HeaderTypeEndorserTransaction, tx.Type)
				txIDs = append(txIDs, tx.TxID)
			}
			assert.Equal(t, test.expectedTxIDs, txIDs)

			var failed []int
			for _, o := range block.Diagnostics() {
				require.NotNil(t, o.Err)
				failed = append(failed, o.Index)
			}
			assert.Equal(t, test.expectedFailedIndex, failed)
		})
	}
}

func TestDecodeBlockHeader(t *testing.T) {
	block, err := ledger.DecodeBlock(ledgertest.Block(t, 7, ledgertest.EndorserTx(t, "tx-1")))
	require.NoError(t, err)

	assert.Equal(t, uint64(7), block.Header.Number)
	assert.Equal(t, ledgertest.PreviousHash(7), block.Header.PreviousHash)
	assert.Len(t, block.Header.DataHash, 32)
	assert.Len(t, block.Envelopes, 1)
	assert.Equal(t, 0, block.Envelopes[0].Index)
}

func TestDecodeBlockFailures(t *testing.T) {
	tests := map[string][]byte{
		"garbage bytes": ledgertest.MalformedBlock(),
		"block without header": mustMarshal(t, &cb.Block{
			Data: &cb.BlockData{Data: [][]byte{ledgertest.EndorserTx(t, "tx-1")}},
		}),
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			block, err := ledger.DecodeBlock(raw)
			require.Error(t, err)
			assert.Nil(t, block)
			assert.ErrorIs(t, err, ledger.ErrBlockDecode)

			var blockErr *ledger.BlockDecodeError
			assert.ErrorAs(t, err, &blockErr)
		})
	}
}

func TestConfigEnvelopesStayInBlockView(t *testing.T) {
	block, err := ledger.DecodeBlock(ledgertest.Block(t, 0, ledgertest.ConfigTx(t, "genesis")))
	require.NoError(t, err)

	require.Len(t, block.Envelopes, 1)
	require.True(t, block.Envelopes[0].OK())
	assert.Equal(t, ledger.HeaderTypeConfig, block.Envelopes[0].Envelope.ChannelHeader.Type)
	assert.Equal(t, "CONFIG", block.Envelopes[0].Envelope.ChannelHeader.TypeName)
	assert.Empty(t, ledger.ExtractTransactions(block))
}

func TestValidationCodes(t *testing.T) {
	raw := ledgertest.BlockWithFilter(t, 3,
		[]pb.TxValidationCode{pb.TxValidationCode_VALID, pb.TxValidationCode_MVCC_READ_CONFLICT},
		ledgertest.EndorserTx(t, "tx-1"),
		ledgertest.EndorserTx(t, "tx-2"),
		ledgertest.EndorserTx(t, "tx-3"),
	)
	block, err := ledger.DecodeBlock(raw)
	require.NoError(t, err)

	txs := ledger.ExtractTransactions(block)
	require.Len(t, txs, 3)
	assert.Equal(t, "VALID", txs[0].ValidationCode)
	assert.Equal(t, "MVCC_READ_CONFLICT", txs[1].ValidationCode)
	// the filter is shorter than the envelope list
	assert.Empty(t, txs[2].ValidationCode)
	assert.Empty(t, block.ValidationCode(-1))
}

func TestExtractTransactionsNilBlock(t *testing.T) {
	assert.Nil(t, ledger.ExtractTransactions(nil))
}

func TestDecodeChainInfo(t *testing.T) {
	info, err := ledger.DecodeChainInfo(ledgertest.ChainInfo(t, 12))
	require.NoError(t, err)
	assert.Equal(t, uint64(12), info.Height)
	assert.Equal(t, ledgertest.PreviousHash(12), info.CurrentBlockHash)
	assert.Equal(t, ledgertest.PreviousHash(11), info.PreviousBlockHash)

	_, err = ledger.DecodeChainInfo(ledgertest.MalformedBlock())
	assert.Error(t, err)
}

func mustMarshal(t *testing.T, msg proto.Message) []byte {
	t.Helper()
	b, err := proto.Marshal(msg)
	require.NoError(t, err)
	return b
}
