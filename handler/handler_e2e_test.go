package handler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	gethengine "github.com/ethereum/go-ethereum/beacon/engine"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	appengine "github.com/autonity/emerald/engine"
	"github.com/autonity/emerald/streaming"
	"github.com/autonity/emerald/types"
)

// fakeStore is an in-memory stand-in for store.Store, giving the
// end-to-end tests full visibility into what the handler persisted
// without a real LevelDB file.
type fakeStore struct {
	certs          map[types.Height]types.CommitCertificate
	values         map[types.Height]types.Value
	headers        map[types.Height][]byte
	blockData      map[types.Height][]byte
	metrics        map[string]uint64
	undecidedProps map[string]types.Proposal
	undecidedData  map[string][]byte
	pending        map[types.Height][]types.PendingProposalParts
	prunedBelow    types.Height
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		certs:          map[types.Height]types.CommitCertificate{},
		values:         map[types.Height]types.Value{},
		headers:        map[types.Height][]byte{},
		blockData:      map[types.Height][]byte{},
		metrics:        map[string]uint64{},
		undecidedProps: map[string]types.Proposal{},
		undecidedData:  map[string][]byte{},
		pending:        map[types.Height][]types.PendingProposalParts{},
	}
}

func undecidedKey(h types.Height, r types.Round, id types.ValueID) string {
	return fmt.Sprintf("%s/%d/%s", h.String(), int64(r), id.String())
}

func (s *fakeStore) CommitDecided(height types.Height, cert types.CommitCertificate, value types.Value, headerSSZ []byte) error {
	s.certs[height] = cert
	s.values[height] = value
	s.headers[height] = headerSSZ
	return nil
}

func (s *fakeStore) PutDecidedBlockData(height types.Height, data []byte) error {
	if _, ok := s.blockData[height]; ok {
		return nil
	}
	s.blockData[height] = data
	return nil
}

func (s *fakeStore) IncrementMetrics(deltas map[string]uint64) error {
	for k, v := range deltas {
		s.metrics[k] += v
	}
	return nil
}

func (s *fakeStore) GetCertificate(height types.Height) (types.CommitCertificate, error) {
	return s.certs[height], nil
}

func (s *fakeStore) GetDecidedValue(height types.Height) (types.Value, error) { return s.values[height], nil }

func (s *fakeStore) GetBlockHeader(height types.Height) ([]byte, error) { return s.headers[height], nil }

func (s *fakeStore) GetBlockData(height types.Height) ([]byte, error) {
	data, ok := s.blockData[height]
	if !ok {
		return nil, errNotFoundFake
	}
	return data, nil
}

func (s *fakeStore) MaxDecidedHeight() (types.Height, bool, error) {
	var max types.Height
	found := false
	for h := range s.certs {
		if !found || h > max {
			max = h
			found = true
		}
	}
	return max, found, nil
}

func (s *fakeStore) EarliestCertificateHeight() (types.Height, bool, error) {
	var min types.Height
	found := false
	for h := range s.certs {
		if !found || h < min {
			min = h
			found = true
		}
	}
	return min, found, nil
}

func (s *fakeStore) PutUndecidedProposal(height types.Height, round types.Round, id types.ValueID, p types.Proposal) error {
	key := undecidedKey(height, round, id)
	if _, ok := s.undecidedProps[key]; ok {
		return nil
	}
	s.undecidedProps[key] = p
	return nil
}

func (s *fakeStore) ProposalsForRound(height types.Height, round types.Round) ([]types.Proposal, error) {
	var out []types.Proposal
	for _, p := range s.undecidedProps {
		if p.Height == height && p.Round == round {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeStore) PutUndecidedBlockData(height types.Height, round types.Round, id types.ValueID, data []byte) error {
	key := undecidedKey(height, round, id)
	if _, ok := s.undecidedData[key]; ok {
		return nil
	}
	s.undecidedData[key] = data
	return nil
}

func (s *fakeStore) GetUndecidedBlockData(height types.Height, round types.Round, id types.ValueID) ([]byte, error) {
	return s.undecidedData[undecidedKey(height, round, id)], nil
}

func (s *fakeStore) PutPendingParts(syntheticID uint32, parts types.PendingProposalParts) error {
	s.pending[parts.Height] = append(s.pending[parts.Height], parts)
	return nil
}

func (s *fakeStore) PendingPartsAtHeight(height types.Height) ([]types.PendingProposalParts, error) {
	out := s.pending[height]
	delete(s.pending, height)
	return out, nil
}

func (s *fakeStore) Prune(retainHeight types.Height, pruneCertificates bool) error {
	s.prunedBelow = retainHeight
	for h := range s.blockData {
		if h < retainHeight {
			delete(s.blockData, h)
		}
	}
	return nil
}

var errNotFoundFake = errors.New("fake store: not found")

// fakeEngine is a minimal in-memory execution engine stand-in always
// reporting VALID, tracking call counts for assertions.
type fakeEngine struct {
	newPayloadCalls int
	nextPayload     *gethengine.ExecutableData
	bodies          map[uint64]*appengine.PayloadBody
	rejectPayload   bool
}

func (e *fakeEngine) GeneratePayload(ctx context.Context, parent types.ExecutionBlock, feeRecipient common.Address) (*gethengine.ExecutableData, error) {
	hash := common.Hash{byte(parent.BlockNumber + 1)}
	return &gethengine.ExecutableData{
		ParentHash: parent.BlockHash,
		BlockHash:  hash,
		Number:     parent.BlockNumber + 1,
		Timestamp:  parent.Timestamp + 1,
	}, nil
}

func (e *fakeEngine) NewPayload(ctx context.Context, payload *gethengine.ExecutableData, blobs []common.Hash, root common.Hash) (appengine.NewPayloadResult, error) {
	e.newPayloadCalls++
	if e.rejectPayload {
		return appengine.NewPayloadResult{Status: appengine.StatusInvalid, LatestValidHash: payload.BlockHash}, nil
	}
	return appengine.NewPayloadResult{Status: appengine.StatusValid, LatestValidHash: payload.BlockHash}, nil
}

func (e *fakeEngine) ForkchoiceUpdated(ctx context.Context, head common.Hash, attrs *gethengine.PayloadAttributes) (appengine.ForkchoiceUpdateResult, error) {
	return appengine.ForkchoiceUpdateResult{Status: appengine.StatusValid, LatestValidHash: head}, nil
}

func (e *fakeEngine) GetPayloadBodiesByRange(ctx context.Context, start, count uint64) ([]*appengine.PayloadBody, error) {
	return []*appengine.PayloadBody{e.bodies[start]}, nil
}

type fakeValidatorReader struct {
	set types.ValidatorSet
}

func (v fakeValidatorReader) ReadAt(ctx context.Context, blockHash common.Hash) (types.ValidatorSet, error) {
	return v.set, nil
}

// fakeOutbox records every published stream message for assertions,
// standing in for the network layer consensus would otherwise gossip
// through.
type fakeOutbox struct {
	published []types.StreamMessage
}

func (o *fakeOutbox) Publish(ctx context.Context, msg types.StreamMessage) {
	o.published = append(o.published, msg)
}

// TestGetValueThenDecidedCommitsAndAdvances exercises §8 scenario 2:
// GetValue builds a block, Decided commits it and advances height.
func TestGetValueThenDecidedCommitsAndAdvances(t *testing.T) {
	store := newFakeStore()
	engine := &fakeEngine{}
	validators := fakeValidatorReader{set: types.ValidatorSet{Validators: []types.Validator{{VotingPower: 1}}}}
	signer := newTestSigner(t)

	outbox := &fakeOutbox{}
	h, err := New(NewInbox(1), store, engine, outbox, validators, signer, Config{ValidationCacheSize: 16}, 1, types.ValidatorSet{}, types.ExecutionBlock{BlockNumber: 0})
	require.NoError(t, err)

	lv := h.handleGetValue(context.Background(), GetValueRequest{Height: 1, Round: 0})
	require.NotEmpty(t, lv.Value.Extension)
	require.NotEmpty(t, outbox.published)
	require.Contains(t, store.undecidedProps, undecidedKey(1, 0, lv.ValueID))

	cert := types.CommitCertificate{Height: 1, Round: 0, ValueID: lv.ValueID}
	next := h.handleDecided(context.Background(), DecidedRequest{Certificate: cert})

	require.Equal(t, types.Height(2), next.Height)
	require.Equal(t, 1, engine.newPayloadCalls)
	_, err = store.GetCertificate(1)
	require.NoError(t, err)
	require.Contains(t, store.blockData, types.Height(1))
}

// TestReceivedProposalPartForFutureHeightIsBuffered exercises the
// pending-parts lifecycle: a stream addressed to height+1 is buffered,
// not surfaced as the current round's proposal.
func TestReceivedProposalPartForFutureHeightIsBuffered(t *testing.T) {
	store := newFakeStore()
	engine := &fakeEngine{}
	signer := newTestSigner(t)
	validators := fakeValidatorReader{set: types.ValidatorSet{Validators: []types.Validator{{PublicKey: signer.PublicKey(), VotingPower: 1}}}}

	h, err := New(NewInbox(1), store, engine, &fakeOutbox{}, validators, signer, Config{ValidationCacheSize: 16}, 1, types.ValidatorSet{}, types.ExecutionBlock{})
	require.NoError(t, err)

	proposer, err := validators.set.Proposer(2, 0)
	require.NoError(t, err)
	id := types.NewStreamID(2, 0, 1)
	value := types.Value{Height: 2, Round: 0, Proposer: proposer, Extension: []byte("future-block")}
	messages, err := streaming.BuildOutboundStream(id, 2, 0, types.NilRound, proposer, value, signer)
	require.NoError(t, err)

	var result *types.Proposal
	for _, msg := range messages {
		result = h.handleReceivedProposalPart(context.Background(), ReceivedProposalPartRequest{From: "peer-a", Part: msg})
	}
	require.Nil(t, result)
	require.Len(t, store.pending[2], 1)
}

// TestGetDecidedValueReconstructsPrunedHeight exercises §4.3's
// header/body split and P7: a pruned height is rebuilt from its header
// plus an engine-supplied body.
func TestGetDecidedValueReconstructsPrunedHeight(t *testing.T) {
	store := newFakeStore()
	full := types.ExecutionPayload{BlockNumber: 3, Transactions: [][]byte{{1, 2, 3}}}
	fullBytes, err := full.MarshalSSZ()
	require.NoError(t, err)
	headerBytes, err := full.Header().MarshalSSZ()
	require.NoError(t, err)

	store.certs[3] = types.CommitCertificate{Height: 3}
	store.headers[3] = headerBytes
	_ = fullBytes // full body intentionally not stored, simulating a pruned height

	engine := &fakeEngine{bodies: map[uint64]*appengine.PayloadBody{
		3: {Transactions: [][]byte{{1, 2, 3}}},
	}}
	validators := fakeValidatorReader{}
	signer := newTestSigner(t)

	h, err := New(NewInbox(1), store, engine, &fakeOutbox{}, validators, signer, Config{ValidationCacheSize: 16}, 4, types.ValidatorSet{}, types.ExecutionBlock{})
	require.NoError(t, err)

	result := h.handleGetDecidedValue(context.Background(), GetDecidedValueRequest{Height: 3})
	require.NotNil(t, result)

	var reconstructed types.ExecutionPayload
	require.NoError(t, reconstructed.UnmarshalSSZ(result.ValueBytes))
	require.Equal(t, full.Transactions, reconstructed.Transactions)
}

// TestProcessSyncedValueValidatesAndStores exercises §4.1's sync path:
// a value delivered without streaming is validated via newPayload and
// persisted as undecided.
func TestProcessSyncedValueValidatesAndStores(t *testing.T) {
	store := newFakeStore()
	engine := &fakeEngine{}
	validators := fakeValidatorReader{}
	signer := newTestSigner(t)

	h, err := New(NewInbox(1), store, engine, &fakeOutbox{}, validators, signer, Config{ValidationCacheSize: 16}, 5, types.ValidatorSet{}, types.ExecutionBlock{})
	require.NoError(t, err)

	payload := types.ExecutionPayload{BlockNumber: 5}
	raw, err := payload.MarshalSSZ()
	require.NoError(t, err)

	proposal := h.handleProcessSyncedValue(context.Background(), ProcessSyncedValueRequest{Height: 5, Round: 0, ValueBytes: raw})
	require.NotNil(t, proposal)
	require.Equal(t, types.Valid, proposal.Validity)
	require.Equal(t, 1, engine.newPayloadCalls)
}

// TestProcessSyncedValueInvalidPayloadSkipsStore mirrors app.rs's
// ProcessSyncedValue handling: the reply still carries the value with
// Validity Invalid, but nothing is written to the undecided tables.
func TestProcessSyncedValueInvalidPayloadSkipsStore(t *testing.T) {
	store := newFakeStore()
	engine := &fakeEngine{rejectPayload: true}
	validators := fakeValidatorReader{}
	signer := newTestSigner(t)

	h, err := New(NewInbox(1), store, engine, &fakeOutbox{}, validators, signer, Config{ValidationCacheSize: 16}, 5, types.ValidatorSet{}, types.ExecutionBlock{})
	require.NoError(t, err)

	payload := types.ExecutionPayload{BlockNumber: 5}
	raw, err := payload.MarshalSSZ()
	require.NoError(t, err)

	proposal := h.handleProcessSyncedValue(context.Background(), ProcessSyncedValueRequest{Height: 5, Round: 0, ValueBytes: raw})
	require.NotNil(t, proposal)
	require.Equal(t, types.Invalid, proposal.Validity)
	require.Empty(t, store.undecidedProps)
	require.Empty(t, store.undecidedData)
}

// TestReceivedProposalPartInvalidPayloadIsDropped mirrors
// state.rs's ReceivedProposalPart handling: an invalid execution
// payload is dropped, never surfaced and never persisted, per
// original_source/app/src/state.rs.
func TestReceivedProposalPartInvalidPayloadIsDropped(t *testing.T) {
	store := newFakeStore()
	engine := &fakeEngine{rejectPayload: true}
	validators := fakeValidatorReader{}
	signer := newTestSigner(t)

	h, err := New(NewInbox(1), store, engine, &fakeOutbox{}, validators, signer, Config{ValidationCacheSize: 16}, 1, types.ValidatorSet{}, types.ExecutionBlock{})
	require.NoError(t, err)

	payload := types.ExecutionPayload{BlockNumber: 1}
	raw, err := payload.MarshalSSZ()
	require.NoError(t, err)

	proposer := common.Address{}
	value := types.Value{Height: 1, Round: 0, Proposer: proposer, Extension: raw}
	id := types.NewStreamID(1, 0, 1)
	messages, err := streaming.BuildOutboundStream(id, 1, 0, types.NilRound, proposer, value, signer)
	require.NoError(t, err)

	var result *types.Proposal
	for _, msg := range messages {
		result = h.handleReceivedProposalPart(context.Background(), ReceivedProposalPartRequest{From: "peer-a", Part: msg})
	}
	require.Nil(t, result)
	require.Empty(t, store.undecidedProps)
	require.Empty(t, store.undecidedData)
}
