package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/beacon/engine"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Value is the opaque payload bytes exchanged with consensus. Its
// Extension carries the SSZ-encoded execution payload (§3 "Value").
type Value struct {
	Height    Height
	Round     Round
	Proposer  common.Address
	Extension []byte // SSZ(ExecutionPayloadV3 extension); see payload_ssz.go
}

// Chunks splits the extension into the ordered data chunks that feed
// ComputeValueID and the outbound proposal stream, without mutating
// the underlying slice.
func (v Value) Chunks(chunkSize int) [][]byte {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	var chunks [][]byte
	for off := 0; off < len(v.Extension); off += chunkSize {
		end := off + chunkSize
		if end > len(v.Extension) {
			end = len(v.Extension)
		}
		chunks = append(chunks, v.Extension[off:end])
	}
	if len(chunks) == 0 {
		chunks = [][]byte{{}}
	}
	return chunks
}

// ID computes this value's ValueID per I7.
func (v Value) ID() ValueID {
	return ComputeValueID(v.Height, v.Round, v.Proposer, v.Chunks(DefaultChunkSize))
}

// DefaultChunkSize is the 128 KiB outbound chunk size from §4.2.
const DefaultChunkSize = 128 * 1024

// ExecutionBlock is the compact per-block summary threaded through the
// handler's latest_block state (§3).
type ExecutionBlock struct {
	BlockHash   common.Hash
	BlockNumber uint64
	ParentHash  common.Hash
	Timestamp   uint64
	PrevRandao  common.Hash
}

// ExecutionBlockFromPayload extracts the compact summary from a full
// Engine-API payload, used after a decided payload has been committed.
func ExecutionBlockFromPayload(p *engine.ExecutableData) ExecutionBlock {
	return ExecutionBlock{
		BlockHash:   p.BlockHash,
		BlockNumber: p.Number,
		ParentHash:  p.ParentHash,
		Timestamp:   p.Timestamp,
		PrevRandao:  p.Random,
	}
}

// Validator is a committee member: an uncompressed secp256k1 public
// key (SEC1, 65 bytes starting with 0x04) plus voting power.
type Validator struct {
	PublicKey   []byte
	VotingPower uint64
}

// Address derives the Ethereum-style validator identifier: Keccak256
// of the public key with the 0x04 prefix dropped, last 20 bytes (§3).
func (v Validator) Address() (common.Address, error) {
	if len(v.PublicKey) != 65 || v.PublicKey[0] != 0x04 {
		return common.Address{}, fmt.Errorf("validator public key: want 65-byte uncompressed SEC1, got %d bytes", len(v.PublicKey))
	}
	return common.BytesToAddress(crypto.Keccak256(v.PublicKey[1:])[12:]), nil
}

// ValidatorSet is the ordered committee for a height, read from the
// execution layer per I5.
type ValidatorSet struct {
	Validators []Validator
}

// TotalPower sums voting power across the set.
func (s ValidatorSet) TotalPower() uint64 {
	var total uint64
	for _, v := range s.Validators {
		total += v.VotingPower
	}
	return total
}

// Proposer selects the round-robin proposer for a round, weighted by
// position in the ordered set. The source left proposer selection to
// the external consensus actor in most deployments; this deterministic
// round-robin is the reference rule used to validate ReceivedProposalPart
// parts against "the expected proposer" (§4.1).
func (s ValidatorSet) Proposer(height Height, round Round) (common.Address, error) {
	if len(s.Validators) == 0 {
		return common.Address{}, fmt.Errorf("empty validator set")
	}
	idx := (uint64(height) + uint64(round)) % uint64(len(s.Validators))
	return s.Validators[idx].Address()
}

// Clone returns a deep copy, used to hand readers a snapshot rather
// than a shared mutable reference (§9 snapshot-on-read discipline).
func (s ValidatorSet) Clone() ValidatorSet {
	out := ValidatorSet{Validators: make([]Validator, len(s.Validators))}
	for i, v := range s.Validators {
		pk := make([]byte, len(v.PublicKey))
		copy(pk, v.PublicKey)
		out.Validators[i] = Validator{PublicKey: pk, VotingPower: v.VotingPower}
	}
	return out
}
