package handler

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/autonity/emerald/signing"
	"github.com/autonity/emerald/types"
)

func newTestSigner(t *testing.T) signing.Signer {
	t.Helper()
	s, err := signing.NewSigner("0101010101010101010101010101010101010101010101010101010101010101"[:64])
	require.NoError(t, err)
	return s
}

func newTestHandler(t *testing.T, store Store, engine Engine, validators ValidatorSetReader) *Handler {
	t.Helper()
	signer := newTestSigner(t)
	ctrl := gomock.NewController(t)
	outbox := NewMockOutbox(ctrl)
	h, err := New(NewInbox(1), store, engine, outbox, validators, signer, Config{ValidationCacheSize: 16}, 1, types.ValidatorSet{}, types.ExecutionBlock{})
	require.NoError(t, err)
	return h
}

// TestConsensusReadyRepliesSeedState exercises §4.1 ConsensusReady.
func TestConsensusReadyRepliesSeedState(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockStore(ctrl)
	engine := NewMockEngine(ctrl)
	validators := NewMockValidatorSetReader(ctrl)

	set := types.ValidatorSet{Validators: []types.Validator{{VotingPower: 1}}}
	signer := newTestSigner(t)
	outbox := NewMockOutbox(ctrl)
	h, err := New(NewInbox(1), store, engine, outbox, validators, signer, Config{ValidationCacheSize: 16}, 5, set, types.ExecutionBlock{})
	require.NoError(t, err)

	resp := h.handleConsensusReady()
	require.Equal(t, types.Height(5), resp.StartHeight)
	require.Len(t, resp.ValidatorSet.Validators, 1)
}

// TestStartedRoundLoadsProposals exercises §4.1's "return any
// previously-seen undecided proposal(s)".
func TestStartedRoundLoadsProposals(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockStore(ctrl)
	engine := NewMockEngine(ctrl)
	validators := NewMockValidatorSetReader(ctrl)

	existing := []types.Proposal{{Height: 2, Round: 1}}
	store.EXPECT().ProposalsForRound(types.Height(2), types.Round(1)).Return(existing, nil)

	h := newTestHandler(t, store, engine, validators)
	got := h.handleStartedRound(StartedRoundRequest{Height: 2, Round: 1})
	require.Equal(t, existing, got)
	require.Equal(t, types.Height(2), h.height)
	require.Equal(t, types.Round(1), h.round)
}

// TestGetHistoryMinHeightFallsBackToZero exercises the empty-store
// edge case: no certificate stored yet.
func TestGetHistoryMinHeightFallsBackToZero(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockStore(ctrl)
	engine := NewMockEngine(ctrl)
	validators := NewMockValidatorSetReader(ctrl)

	store.EXPECT().EarliestCertificateHeight().Return(types.Height(0), false, nil)

	h := newTestHandler(t, store, engine, validators)
	require.Equal(t, types.Height(0), h.handleGetHistoryMinHeight())
}

// TestGetHistoryMinHeightReturnsEarliestCertificate covers the
// populated case.
func TestGetHistoryMinHeightReturnsEarliestCertificate(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockStore(ctrl)
	engine := NewMockEngine(ctrl)
	validators := NewMockValidatorSetReader(ctrl)

	store.EXPECT().EarliestCertificateHeight().Return(types.Height(7), true, nil)

	h := newTestHandler(t, store, engine, validators)
	require.Equal(t, types.Height(7), h.handleGetHistoryMinHeight())
}
