package types

import "github.com/ethereum/go-ethereum/common"

// AggregateSignature is a BLS (BLS12-381, min-pk) aggregate signature
// over a fixed committee, with a bitmap marking which validator
// indices contributed. Grounded on the teacher's own
// AggregateSignature{Signature *blst.BlsSignature, Signers}
// (core/types/bft_test.go); here the signature is held as opaque
// serialized bytes rather than a blst type.
type AggregateSignature struct {
	// Signature is the serialized compressed BLS12-381 G2 point, the
	// aggregate over all Signers.
	Signature []byte
	// Signers is a bitset over the validator set in committee order;
	// bit i set means Validators[i] contributed a precommit.
	Signers Signers
}

// Signers is a fixed-size bitset sized to a validator set.
type Signers struct {
	bits []byte
	n    int
}

func NewSigners(n int) Signers {
	return Signers{bits: make([]byte, (n+7)/8), n: n}
}

func (s *Signers) Increment(index int) {
	if index < 0 || index >= s.n {
		return
	}
	s.bits[index/8] |= 1 << uint(index%8)
}

func (s Signers) IsSet(index int) bool {
	if index < 0 || index >= s.n {
		return false
	}
	return s.bits[index/8]&(1<<uint(index%8)) != 0
}

func (s Signers) Count() int {
	count := 0
	for i := 0; i < s.n; i++ {
		if s.IsSet(i) {
			count++
		}
	}
	return count
}

// CommitCertificate is the persisted proof that a height decided a
// given value; it is the origin of truth for decided heights (§3).
type CommitCertificate struct {
	Height               Height
	Round                Round
	ValueID              ValueID
	AggregatedPrecommits AggregateSignature
}

// DecidedValue pairs a decided Value with the certificate proving it
// (§3).
type DecidedValue struct {
	Value       Value
	Certificate CommitCertificate
}

// RawDecidedValue is what GetDecidedValue replies with: a
// re-encoded Value (possibly reconstructed from a pruned header plus
// an engine-supplied body, §4.3) alongside its certificate.
type RawDecidedValue struct {
	ValueBytes  []byte
	Certificate CommitCertificate
}

// PendingProposalParts is a partial proposal stream buffered for a
// height greater than current_height, kept verbatim until the height
// is reached or the entry is pruned (§3 lifecycles).
type PendingProposalParts struct {
	Height   Height
	Round    Round
	Proposer common.Address
	Parts    []ProposalPart // ordered by sequence
}
