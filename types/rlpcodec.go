package types

import (
	"io"

	"github.com/ethereum/go-ethereum/rlp"
)

// rlpRound is the wire form of Round: RLP has no native signed
// integer, so NilRound (-1) is carried as a boolean sentinel next to
// an unsigned magnitude, the same trick the teacher's messages
// package uses for ValidRound.
type rlpRound struct {
	Nil   bool
	Value uint64
}

func (r Round) EncodeRLP(w io.Writer) error {
	if r.IsNil() {
		return rlp.Encode(w, rlpRound{Nil: true})
	}
	return rlp.Encode(w, rlpRound{Value: uint64(r)})
}

func (r *Round) DecodeRLP(s *rlp.Stream) error {
	var wire rlpRound
	if err := s.Decode(&wire); err != nil {
		return err
	}
	if wire.Nil {
		*r = NilRound
		return nil
	}
	*r = Round(wire.Value)
	return nil
}

// EncodeRLP/DecodeRLP for Signers: the bitset is private state, so it
// needs an explicit wire form rather than relying on struct-field
// reflection.
type rlpSigners struct {
	Bits []byte
	N    uint32
}

func (s Signers) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, rlpSigners{Bits: s.bits, N: uint32(s.n)})
}

func (s *Signers) DecodeRLP(stream *rlp.Stream) error {
	var wire rlpSigners
	if err := stream.Decode(&wire); err != nil {
		return err
	}
	s.bits = wire.Bits
	s.n = int(wire.N)
	return nil
}

// EncodeProposal / DecodeProposal are the undecided_proposals table's
// wire codec.
func EncodeProposal(p Proposal) ([]byte, error) { return rlp.EncodeToBytes(p) }

func DecodeProposal(b []byte) (Proposal, error) {
	var p Proposal
	err := rlp.DecodeBytes(b, &p)
	return p, err
}

// EncodeCertificate / DecodeCertificate are the certificates table's
// wire codec.
func EncodeCertificate(c CommitCertificate) ([]byte, error) { return rlp.EncodeToBytes(c) }

func DecodeCertificate(b []byte) (CommitCertificate, error) {
	var c CommitCertificate
	err := rlp.DecodeBytes(b, &c)
	return c, err
}

// EncodeValue / DecodeValue are the decided_values table's wire
// codec.
func EncodeValue(v Value) ([]byte, error) { return rlp.EncodeToBytes(v) }

func DecodeValue(b []byte) (Value, error) {
	var v Value
	err := rlp.DecodeBytes(b, &v)
	return v, err
}

// EncodePendingParts / DecodePendingParts are the
// pending_proposal_parts table's wire codec.
func EncodePendingParts(p PendingProposalParts) ([]byte, error) { return rlp.EncodeToBytes(p) }

func DecodePendingParts(b []byte) (PendingProposalParts, error) {
	var p PendingProposalParts
	err := rlp.DecodeBytes(b, &p)
	return p, err
}

func rlpEncodePart(p ProposalPart) ([]byte, error) { return rlp.EncodeToBytes(p) }

func rlpDecodePart(b []byte) (ProposalPart, error) {
	var p ProposalPart
	err := rlp.DecodeBytes(b, &p)
	return p, err
}

// EncodeStreamMessage / DecodeStreamMessage are the network channel's
// wire codec for an outbound or inbound StreamMessage.
func EncodeStreamMessage(m StreamMessage) ([]byte, error) { return rlp.EncodeToBytes(m) }

func DecodeStreamMessage(b []byte) (StreamMessage, error) {
	var m StreamMessage
	err := rlp.DecodeBytes(b, &m)
	return m, err
}
