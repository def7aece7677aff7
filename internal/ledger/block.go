package ledger

import (
	"github.com/golang/protobuf/proto"
	cb "github.com/hyperledger/fabric-protos-go/common"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/pkg/errors"
)

// DecodeBlock decodes a serialized common.Block. A block whose outer message or
// header is unreadable fails with a *BlockDecodeError; a broken envelope only
// marks its own outcome as failed.
func DecodeBlock(raw []byte) (*Block, error) {
	blk := &cb.Block{}
	if err := proto.Unmarshal(raw, blk); err != nil {
		return nil, &BlockDecodeError{Err: errors.Wrap(err, "unmarshal block")}
	}
	if blk.GetHeader() == nil {
		return nil, &BlockDecodeError{Err: errors.New("block has no header")}
	}

	data := blk.GetData().GetData()
	block := &Block{
		Header: BlockHeader{
			Number:       blk.GetHeader().GetNumber(),
			PreviousHash: blk.GetHeader().GetPreviousHash(),
			DataHash:     blk.GetHeader().GetDataHash(),
		},
		Envelopes: make([]EnvelopeOutcome, 0, len(data)),
		Metadata:  blk.GetMetadata().GetMetadata(),
	}

	for i, envBytes := range data {
		outcome := EnvelopeOutcome{Index: i}
		env, err := DecodeEnvelope(envBytes)
		if err != nil {
			var envErr *EnvelopeError
			if !errors.As(err, &envErr) {
				envErr = envelopeErr(StepEnvelope, err, nil)
			}
			outcome.Err = envErr
		} else {
			outcome.Envelope = env
		}
		block.Envelopes = append(block.Envelopes, outcome)
	}

	return block, nil
}

// ExtractTransactions returns a record for every successfully decoded endorser
// transaction of the block, in envelope order. Config and other envelope types
// are left out.
func ExtractTransactions(block *Block) []*TransactionRecord {
	if block == nil {
		return nil
	}

	var txs []*TransactionRecord
	for _, o := range block.Envelopes {
		if !o.OK() || !isTransaction(o.Envelope) {
			continue
		}
		chdr := o.Envelope.ChannelHeader
		tx := &TransactionRecord{
			BlockNumber:    block.Header.Number,
			TxID:           chdr.TxID,
			Timestamp:      chdr.Timestamp,
			ChannelID:      chdr.ChannelID,
			Type:           chdr.Type,
			ValidationCode: block.ValidationCode(o.Index),
		}
		if shdr := o.Envelope.SignatureHeader; shdr != nil {
			tx.CreatorMSP = shdr.Creator.MSPID
		}
		txs = append(txs, tx)
	}

	return txs
}

// ValidationCode returns the committing peer's validation result for the
// envelope at index i, or an empty string when the block carries no
// transaction filter for it.
func (b *Block) ValidationCode(i int) string {
	idx := int(cb.BlockMetadataIndex_TRANSACTIONS_FILTER)
	if i < 0 || len(b.Metadata) <= idx {
		return ""
	}
	filter := b.Metadata[idx]
	if i >= len(filter) {
		return ""
	}
	return pb.TxValidationCode(int32(filter[i])).String()
}

func isTransaction(env *Envelope) bool {
	return env != nil && env.ChannelHeader != nil && env.ChannelHeader.Type == HeaderTypeEndorserTransaction
}
