package types

import (
	"errors"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

// Validity is the outcome of validating a proposal's payload.
type Validity uint8

const (
	Valid Validity = iota
	Invalid
)

// Proposal is a complete, possibly-not-yet-decided value proposed at
// (Height, Round) with its proposer and validation outcome (§3).
type Proposal struct {
	Height     Height
	Round      Round
	ValidRound Round // NilRound when freshly built this round
	Proposer   common.Address
	Value      Value
	Validity   Validity
}

// partKind tags the ProposalPart union the way the teacher's
// typedMessage tags consensus messages: a leading byte, switched on
// at decode time.
type partKind uint8

const (
	partKindInit partKind = iota
	partKindData
	partKindFin
)

var errUnknownPartKind = errors.New("types: unknown proposal part kind")

// ProposalPart is the closed tagged union streamed as proposal
// chunks: Init | Data | Fin (§3, §4.2). Exactly one of the pointer
// fields is non-nil.
type ProposalPart struct {
	Init *PartInit
	Data *PartData
	Fin  *PartFin
}

type PartInit struct {
	Height   Height
	Round    Round
	PolRound Round
	Proposer common.Address
}

type PartData struct {
	Bytes []byte
}

type PartFin struct {
	Signature []byte
}

func NewInitPart(height Height, round, polRound Round, proposer common.Address) ProposalPart {
	return ProposalPart{Init: &PartInit{Height: height, Round: round, PolRound: polRound, Proposer: proposer}}
}

func NewDataPart(b []byte) ProposalPart { return ProposalPart{Data: &PartData{Bytes: b}} }

func NewFinPart(sig []byte) ProposalPart { return ProposalPart{Fin: &PartFin{Signature: sig}} }

func (p ProposalPart) kind() (partKind, interface{}, error) {
	switch {
	case p.Init != nil:
		return partKindInit, p.Init, nil
	case p.Data != nil:
		return partKindData, p.Data, nil
	case p.Fin != nil:
		return partKindFin, p.Fin, nil
	default:
		return 0, nil, errors.New("types: empty ProposalPart")
	}
}

// EncodeRLP encodes the tag byte followed by the active variant,
// mirroring consensus/tendermint/accountability's typedMessage.
func (p ProposalPart) EncodeRLP(w io.Writer) error {
	kind, payload, err := p.kind()
	if err != nil {
		return err
	}
	return rlp.Encode(w, []interface{}{uint8(kind), payload})
}

// DecodeRLP decodes the tag byte and switches on it to populate the
// matching variant field.
func (p *ProposalPart) DecodeRLP(stream *rlp.Stream) error {
	if _, err := stream.List(); err != nil {
		return err
	}
	var kind uint8
	if err := stream.Decode(&kind); err != nil {
		return err
	}
	switch partKind(kind) {
	case partKindInit:
		var v PartInit
		if err := stream.Decode(&v); err != nil {
			return err
		}
		*p = ProposalPart{Init: &v}
	case partKindData:
		var v PartData
		if err := stream.Decode(&v); err != nil {
			return err
		}
		*p = ProposalPart{Data: &v}
	case partKindFin:
		var v PartFin
		if err := stream.Decode(&v); err != nil {
			return err
		}
		*p = ProposalPart{Fin: &v}
	default:
		return errUnknownPartKind
	}
	return stream.ListEnd()
}
