package ledger

import (
	"time"

	cb "github.com/hyperledger/fabric-protos-go/common"
)

// HeaderType is the channel header type of an envelope.
type HeaderType int32

const (
	HeaderTypeMessage             = HeaderType(cb.HeaderType_MESSAGE)
	HeaderTypeConfig              = HeaderType(cb.HeaderType_CONFIG)
	HeaderTypeEndorserTransaction = HeaderType(cb.HeaderType_ENDORSER_TRANSACTION)
)

func (t HeaderType) String() string {
	return cb.HeaderType(t).String()
}

// Timestamp is a channel header timestamp in its wire form. Rendering it is up to the caller.
type Timestamp struct {
	Seconds int64 `json:"seconds"`
	Nanos   int32 `json:"nanos"`
}

// Time converts the timestamp into a UTC time.Time.
func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Seconds, int64(ts.Nanos)).UTC()
}

// Identity is the serialized identity of an envelope's creator.
type Identity struct {
	MSPID       string `json:"mspId"`
	Certificate []byte `json:"certificate"`
}

type ChannelHeader struct {
	Type      HeaderType `json:"type"`
	TypeName  string     `json:"typeName"`
	TxID      string     `json:"txId"`
	Timestamp Timestamp  `json:"timestamp"`
	ChannelID string     `json:"channelId"`
	Epoch     uint64     `json:"epoch"`
}

type SignatureHeader struct {
	Creator Identity `json:"creator"`
	Nonce   []byte   `json:"nonce"`
}

// Envelope holds the structural metadata decoded from one envelope of a block.
// Signatures are not verified.
type Envelope struct {
	ChannelHeader   *ChannelHeader   `json:"channelHeader,omitempty"`
	SignatureHeader *SignatureHeader `json:"signatureHeader,omitempty"`
}

// EnvelopeOutcome is the decode result of the envelope at Index: exactly one of Envelope and Err is set.
type EnvelopeOutcome struct {
	Index    int            `json:"index"`
	Envelope *Envelope      `json:"envelope,omitempty"`
	Err      *EnvelopeError `json:"error,omitempty"`
}

// OK reports whether the envelope decoded successfully.
func (o EnvelopeOutcome) OK() bool {
	return o.Err == nil && o.Envelope != nil
}

type BlockHeader struct {
	Number       uint64 `json:"number"`
	PreviousHash []byte `json:"previousHash"`
	DataHash     []byte `json:"dataHash"`
}

// Block is a decoded block. Envelopes keeps every embedded envelope in its
// original position, including the ones that failed to decode.
type Block struct {
	Header    BlockHeader       `json:"header"`
	Envelopes []EnvelopeOutcome `json:"envelopes"`
	Metadata  [][]byte          `json:"metadata,omitempty"`
}

// Summary counts what decoding a block produced.
type Summary struct {
	Envelopes    int `json:"envelopes"`
	Decoded      int `json:"decoded"`
	Transactions int `json:"transactions"`
	Errors       int `json:"errors"`
}

// Summary reports how many envelopes the block carries, how many decoded, how
// many are endorser transactions and how many failed.
func (b *Block) Summary() Summary {
	s := Summary{Envelopes: len(b.Envelopes)}
	for _, o := range b.Envelopes {
		if !o.OK() {
			s.Errors++
			continue
		}
		s.Decoded++
		if isTransaction(o.Envelope) {
			s.Transactions++
		}
	}
	return s
}

// Diagnostics returns the outcomes of the envelopes that failed to decode.
func (b *Block) Diagnostics() []EnvelopeOutcome {
	var failed []EnvelopeOutcome
	for _, o := range b.Envelopes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}

// TransactionRecord is the audit view of one endorser transaction.
type TransactionRecord struct {
	BlockNumber    uint64     `json:"blockNumber"`
	TxID           string     `json:"txId"`
	Timestamp      Timestamp  `json:"timestamp"`
	ChannelID      string     `json:"channelId"`
	CreatorMSP     string     `json:"creatorMSP"`
	Type           HeaderType `json:"type"`
	ValidationCode string     `json:"validationCode,omitempty"`
}

// ChainInfo is the ledger height and the hashes of the last two blocks. Height
// is a lower bound: the chain may have grown by the time it is read.
type ChainInfo struct {
	Height            uint64 `json:"height"`
	CurrentBlockHash  []byte `json:"currentBlockHash"`
	PreviousBlockHash []byte `json:"previousBlockHash"`
}
