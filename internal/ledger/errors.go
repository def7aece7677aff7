package ledger

import (
	"github.com/pkg/errors"
)

// Decode steps of an envelope, outermost first.
const (
	StepEnvelope        = "envelope"
	StepPayload         = "payload"
	StepChannelHeader   = "channel_header"
	StepSignatureHeader = "signature_header"
	StepCreator         = "creator"
)

var (
	// ErrBlockDecode matches any *BlockDecodeError.
	ErrBlockDecode = errors.New("block decode error")
	// ErrEnvelopeDecode matches any *EnvelopeError.
	ErrEnvelopeDecode = errors.New("envelope decode error")
)

// BlockDecodeError is returned when the outer block or its header cannot be decoded.
type BlockDecodeError struct {
	Err error
}

func (e *BlockDecodeError) Error() string {
	return "decode block: " + e.Err.Error()
}

func (e *BlockDecodeError) Unwrap() error {
	return e.Err
}

func (e *BlockDecodeError) Is(target error) bool {
	return target == ErrBlockDecode
}

// EnvelopeError describes a failure to decode a single envelope. Partial holds
// whatever was decoded before Step failed.
type EnvelopeError struct {
	Step    string
	Err     error
	Partial *Envelope
}

func (e *EnvelopeError) Error() string {
	return "decode " + e.Step + ": " + e.Err.Error()
}

func (e *EnvelopeError) Unwrap() error {
	return e.Err
}

func (e *EnvelopeError) Is(target error) bool {
	return target == ErrEnvelopeDecode
}

type envelopeErrorView struct {
	Step    string    `json:"step"`
	Message string    `json:"message"`
	Partial *Envelope `json:"partial,omitempty"`
}

// Project exposes the error as a diagnostic record rather than a bare message.
func (e *EnvelopeError) Project() any {
	return envelopeErrorView{
		Step:    e.Step,
		Message: e.Err.Error(),
		Partial: e.Partial,
	}
}
