// Package handler implements component H: the dispatch loop over the
// consensus protocol's request/reply messages, carrying the
// application's height/round state machine across heights and
// rounds (§4.1, §6).
package handler

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/autonity/emerald/streaming"
	"github.com/autonity/emerald/types"
)

// Role distinguishes whether the local node is the proposer for a
// round, carried on StartedRound (§4.1).
type Role uint8

const (
	RoleValidator Role = iota
	RoleProposer
)

// NextStart is the reply to Decided: the next height to run and its
// active validator set (§6).
type NextStart struct {
	Height       types.Height
	ValidatorSet types.ValidatorSet
}

// LocallyProposedValue is the reply to GetValue (§4.1, §6).
type LocallyProposedValue struct {
	Height  types.Height
	Round   types.Round
	Value   types.Value
	ValueID types.ValueID
}

// ConsensusReadyRequest/Response — §4.1.
type ConsensusReadyRequest struct {
	Reply chan<- ConsensusReadyResponse
}

type ConsensusReadyResponse struct {
	StartHeight  types.Height
	ValidatorSet types.ValidatorSet
}

// StartedRoundRequest — §4.1.
type StartedRoundRequest struct {
	Height   types.Height
	Round    types.Round
	Proposer common.Address
	Role     Role
	Reply    chan<- []types.Proposal
}

// GetValueRequest — §4.1.
type GetValueRequest struct {
	Height  types.Height
	Round   types.Round
	Timeout time.Duration
	Reply   chan<- LocallyProposedValue
}

// ReceivedProposalPartRequest — §4.1.
type ReceivedProposalPartRequest struct {
	From  streaming.PeerID
	Part  types.StreamMessage
	Reply chan<- *types.Proposal
}

// DecidedRequest — §4.1.
type DecidedRequest struct {
	Certificate types.CommitCertificate
	Reply       chan<- NextStart
}

// ProcessSyncedValueRequest — §4.1.
type ProcessSyncedValueRequest struct {
	Height      types.Height
	Round       types.Round
	Proposer    common.Address
	ValueBytes  []byte
	Reply       chan<- *types.Proposal
}

// GetDecidedValueRequest — §4.1.
type GetDecidedValueRequest struct {
	Height types.Height
	Reply  chan<- *types.RawDecidedValue
}

// GetHistoryMinHeightRequest — §4.1.
type GetHistoryMinHeightRequest struct {
	Reply chan<- types.Height
}

// ExtendVoteRequest/VerifyVoteExtensionRequest/RestreamProposalRequest
// are not supported (§4.1): replies carry no information, or for
// RestreamProposal, no reply at all.
type ExtendVoteRequest struct {
	Reply chan<- []byte
}

type VerifyVoteExtensionRequest struct {
	Reply chan<- error
}

type RestreamProposalRequest struct {
	Height types.Height
	Round  types.Round
}

// Inbox is the closed tagged union of inbound consensus messages
// (§6, §9 "closed tagged union; every variant must be matched
// exhaustively"). Each field is a channel consensus sends requests
// on; Handler.Run selects across all of them.
type Inbox struct {
	ConsensusReady       chan ConsensusReadyRequest
	StartedRound         chan StartedRoundRequest
	GetValue             chan GetValueRequest
	ReceivedProposalPart chan ReceivedProposalPartRequest
	Decided              chan DecidedRequest
	ProcessSyncedValue   chan ProcessSyncedValueRequest
	GetDecidedValue      chan GetDecidedValueRequest
	GetHistoryMinHeight  chan GetHistoryMinHeightRequest
	ExtendVote           chan ExtendVoteRequest
	VerifyVoteExtension  chan VerifyVoteExtensionRequest
	RestreamProposal     chan RestreamProposalRequest
}

// NewInbox allocates every channel with the given buffer depth.
func NewInbox(buffer int) *Inbox {
	return &Inbox{
		ConsensusReady:       make(chan ConsensusReadyRequest, buffer),
		StartedRound:         make(chan StartedRoundRequest, buffer),
		GetValue:             make(chan GetValueRequest, buffer),
		ReceivedProposalPart: make(chan ReceivedProposalPartRequest, buffer),
		Decided:              make(chan DecidedRequest, buffer),
		ProcessSyncedValue:   make(chan ProcessSyncedValueRequest, buffer),
		GetDecidedValue:      make(chan GetDecidedValueRequest, buffer),
		GetHistoryMinHeight:  make(chan GetHistoryMinHeightRequest, buffer),
		ExtendVote:           make(chan ExtendVoteRequest, buffer),
		VerifyVoteExtension:  make(chan VerifyVoteExtensionRequest, buffer),
		RestreamProposal:     make(chan RestreamProposalRequest, buffer),
	}
}
