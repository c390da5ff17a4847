// Package types defines the domain values exchanged between the
// consensus handler, the execution-engine client, and the durable
// store: heights, rounds, value identifiers, proposals and their
// wire parts, and commit certificates.
package types

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Height is a monotonically increasing, unsigned block counter. Zero
// denotes genesis; consensus heights start at 1.
type Height uint64

func (h Height) Bytes() []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(h))
	return buf[:]
}

func (h Height) String() string { return fmt.Sprintf("%d", uint64(h)) }

// Round is signed per-height; NilRound marks "no round yet", mirrored
// in wire encoding the way the teacher's messages package encodes a
// negative ValidRound: as a boolean sentinel alongside a uint64.
type Round int64

const NilRound Round = -1

func (r Round) IsNil() bool { return r < 0 }

// ValueID is the 8 leading bytes of Keccak256(height || round ||
// proposer || ordered data chunks), per I7: a pure function of those
// inputs.
type ValueID [8]byte

func (v ValueID) String() string { return common.Bytes2Hex(v[:]) }

func (v ValueID) IsZero() bool { return v == ValueID{} }

// ComputeValueID implements I7 and P3: identical inputs, on any
// process, yield an identical ValueID.
func ComputeValueID(height Height, round Round, proposer common.Address, dataChunks [][]byte) ValueID {
	h := crypto.NewKeccakState()
	h.Write(height.Bytes())

	var roundBuf [8]byte
	binary.BigEndian.PutUint64(roundBuf[:], uint64(round))
	h.Write(roundBuf[:])

	h.Write(proposer.Bytes())
	for _, chunk := range dataChunks {
		h.Write(chunk)
	}

	var sum common.Hash
	h.Read(sum[:])

	var id ValueID
	copy(id[:], sum[:8])
	return id
}

// StreamID packs (height, round, node-local nonce) into a single
// identifier for a proposal's outbound byte stream, as specified for
// ProposalPart streaming.
type StreamID [20]byte

func NewStreamID(height Height, round Round, nonce uint32) StreamID {
	var id StreamID
	binary.BigEndian.PutUint64(id[0:8], uint64(height))
	binary.BigEndian.PutUint64(id[8:16], uint64(round))
	binary.BigEndian.PutUint32(id[16:20], nonce)
	return id
}

func (s StreamID) Height() Height {
	return Height(binary.BigEndian.Uint64(s[0:8]))
}

func (s StreamID) Round() Round {
	return Round(binary.BigEndian.Uint64(s[8:16]))
}
