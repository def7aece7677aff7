package ledger

import (
	"github.com/golang/protobuf/proto"
	cb "github.com/hyperledger/fabric-protos-go/common"
	"github.com/hyperledger/fabric-protos-go/msp"
	"github.com/pkg/errors"
)

// DecodeEnvelope walks envelope -> payload -> channel/signature header -> creator
// identity. It never panics on malformed input; any failure is returned as an
// *EnvelopeError naming the step that failed.
func DecodeEnvelope(raw []byte) (*Envelope, error) {
	env := &cb.Envelope{}
	if err := proto.Unmarshal(raw, env); err != nil {
		return nil, envelopeErr(StepEnvelope, errors.Wrap(err, "unmarshal envelope"), nil)
	}
	if len(env.GetPayload()) == 0 {
		return nil, envelopeErr(StepEnvelope, errors.New("envelope has no payload"), nil)
	}

	payload := &cb.Payload{}
	if err := proto.Unmarshal(env.GetPayload(), payload); err != nil {
		return nil, envelopeErr(StepPayload, errors.Wrap(err, "unmarshal payload"), nil)
	}
	if payload.GetHeader() == nil {
		return nil, envelopeErr(StepPayload, errors.New("payload has no header"), nil)
	}

	chdr := &cb.ChannelHeader{}
	if err := proto.Unmarshal(payload.GetHeader().GetChannelHeader(), chdr); err != nil {
		return nil, envelopeErr(StepChannelHeader, errors.Wrap(err, "unmarshal channel header"), nil)
	}
	decoded := &Envelope{
		ChannelHeader: channelHeader(chdr),
	}

	shdr := &cb.SignatureHeader{}
	if err := proto.Unmarshal(payload.GetHeader().GetSignatureHeader(), shdr); err != nil {
		return nil, envelopeErr(StepSignatureHeader, errors.Wrap(err, "unmarshal signature header"), decoded)
	}
	decoded.SignatureHeader = &SignatureHeader{
		Nonce: shdr.GetNonce(),
	}

	creator := &msp.SerializedIdentity{}
	if err := proto.Unmarshal(shdr.GetCreator(), creator); err != nil {
		return nil, envelopeErr(StepCreator, errors.Wrap(err, "unmarshal creator identity"), decoded)
	}
	decoded.SignatureHeader.Creator = Identity{
		MSPID:       creator.GetMspid(),
		Certificate: creator.GetIdBytes(),
	}

	return decoded, nil
}

func channelHeader(chdr *cb.ChannelHeader) *ChannelHeader {
	typ := HeaderType(chdr.GetType())
	return &ChannelHeader{
		Type:     typ,
		TypeName: typ.String(),
		TxID:     chdr.GetTxId(),
		Timestamp: Timestamp{
			Seconds: chdr.GetTimestamp().GetSeconds(),
			Nanos:   chdr.GetTimestamp().GetNanos(),
		},
		ChannelID: chdr.GetChannelId(),
		Epoch:     chdr.GetEpoch(),
	}
}

func envelopeErr(step string, err error, partial *Envelope) *EnvelopeError {
	return &EnvelopeError{
		Step:    step,
		Err:     err,
		Partial: partial,
	}
}
