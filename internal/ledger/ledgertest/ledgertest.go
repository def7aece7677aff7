// Package ledgertest builds serialized Fabric blocks, envelopes and chain info
// for tests.
package ledgertest

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/golang/protobuf/proto"
	"github.com/golang/protobuf/ptypes/timestamp"
	cb "github.com/hyperledger/fabric-protos-go/common"
	"github.com/hyperledger/fabric-protos-go/msp"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/stretchr/testify/require"
)

const (
	Channel = "mychannel"
	MSPID   = "Org1MSP"

	// TimestampSeconds is the channel header time of every fixture envelope.
	TimestampSeconds = int64(1700000000)
)

// Cert is the creator certificate placed in fixture identities.
var Cert = []byte("-----BEGIN CERTIFICATE-----\nfixture\n-----END CERTIFICATE-----\n")

// EnvelopeSpec describes a well-formed envelope.
type EnvelopeSpec struct {
	Type    cb.HeaderType
	TxID    string
	Channel string
	MSPID   string
	Nonce   []byte
}

// Envelope marshals a well-formed envelope from spec. Empty fields get fixture defaults.
func Envelope(t testing.TB, spec EnvelopeSpec) []byte {
	t.Helper()

	if spec.Channel == "" {
		spec.Channel = Channel
	}
	if spec.MSPID == "" {
		spec.MSPID = MSPID
	}
	if spec.Nonce == nil {
		spec.Nonce = []byte("nonce-" + spec.TxID)
	}

	chdr := marshal(t, &cb.ChannelHeader{
		Type:      int32(spec.Type),
		TxId:      spec.TxID,
		ChannelId: spec.Channel,
		Epoch:     0,
		Timestamp: &timestamp.Timestamp{Seconds: TimestampSeconds, Nanos: 500},
	})
	creator := marshal(t, &msp.SerializedIdentity{
		Mspid:   spec.MSPID,
		IdBytes: Cert,
	})
	shdr := marshal(t, &cb.SignatureHeader{
		Creator: creator,
		Nonce:   spec.Nonce,
	})

	return EnvelopeFromHeaders(t, chdr, shdr)
}

// EnvelopeFromHeaders wraps already serialized channel and signature headers in an envelope.
func EnvelopeFromHeaders(t testing.TB, channelHeader, signatureHeader []byte) []byte {
	t.Helper()

	payload := marshal(t, &cb.Payload{
		Header: &cb.Header{
			ChannelHeader:   channelHeader,
			SignatureHeader: signatureHeader,
		},
		Data: []byte("payload-data"),
	})

	return marshal(t, &cb.Envelope{
		Payload:   payload,
		Signature: []byte("signature"),
	})
}

// EndorserTx is a well-formed ENDORSER_TRANSACTION envelope.
func EndorserTx(t testing.TB, txID string) []byte {
	t.Helper()
	return Envelope(t, EnvelopeSpec{Type: cb.HeaderType_ENDORSER_TRANSACTION, TxID: txID})
}

// ConfigTx is a well-formed CONFIG envelope.
func ConfigTx(t testing.TB, txID string) []byte {
	t.Helper()
	return Envelope(t, EnvelopeSpec{Type: cb.HeaderType_CONFIG, TxID: txID})
}

// TruncatedEnvelope declares a 16 byte payload but carries a single byte.
func TruncatedEnvelope() []byte {
	return []byte{0x0a, 0x10, 0x01}
}

// MalformedBlock cannot be decoded as a block at all.
func MalformedBlock() []byte {
	return []byte{0xff, 0xff, 0xff}
}

// Block marshals block number with the given envelopes as its data.
func Block(t testing.TB, number uint64, envelopes ...[]byte) []byte {
	t.Helper()
	return BlockWithFilter(t, number, nil, envelopes...)
}

// BlockWithFilter is Block with a transaction validation filter in the block metadata.
func BlockWithFilter(t testing.TB, number uint64, filter []pb.TxValidationCode, envelopes ...[]byte) []byte {
	t.Helper()

	metadata := make([][]byte, len(cb.BlockMetadataIndex_name))
	if filter != nil {
		flags := make([]byte, len(filter))
		for i, code := range filter {
			flags[i] = byte(code)
		}
		metadata[cb.BlockMetadataIndex_TRANSACTIONS_FILTER] = flags
	}

	return marshal(t, &cb.Block{
		Header: &cb.BlockHeader{
			Number:       number,
			PreviousHash: PreviousHash(number),
			DataHash:     dataHash(envelopes),
		},
		Data:     &cb.BlockData{Data: envelopes},
		Metadata: &cb.BlockMetadata{Metadata: metadata},
	})
}

// PreviousHash is the previous hash fixture blocks carry for number.
func PreviousHash(number uint64) []byte {
	if number == 0 {
		return nil
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], number-1)
	sum := sha256.Sum256(buf[:])
	return sum[:]
}

// ChainInfo marshals a BlockchainInfo of the given height.
func ChainInfo(t testing.TB, height uint64) []byte {
	t.Helper()

	var current, previous []byte
	if height > 0 {
		current = PreviousHash(height)
		previous = PreviousHash(height - 1)
	}
	return marshal(t, &cb.BlockchainInfo{
		Height:            height,
		CurrentBlockHash:  current,
		PreviousBlockHash: previous,
	})
}

func dataHash(envelopes [][]byte) []byte {
	sum := sha256.Sum256(bytes.Join(envelopes, nil))
	return sum[:]
}

func marshal(t testing.TB, msg proto.Message) []byte {
	t.Helper()
	b, err := proto.Marshal(msg)
	require.NoError(t, err)
	return b
}
