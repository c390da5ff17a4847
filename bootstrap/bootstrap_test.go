package bootstrap

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/beacon/engine"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/autonity/emerald/types"
)

type fakeStore struct {
	maxHeight types.Height
	found     bool
	blockData map[types.Height][]byte
	certs     map[types.Height]types.CommitCertificate
}

func (s *fakeStore) MaxDecidedHeight() (types.Height, bool, error) { return s.maxHeight, s.found, nil }
func (s *fakeStore) GetBlockData(h types.Height) ([]byte, error)   { return s.blockData[h], nil }
func (s *fakeStore) GetCertificate(h types.Height) (types.CommitCertificate, error) {
	return s.certs[h], nil
}

type fakeEngine struct {
	capsErr          error
	newPayloadCalls  int
	forkchoiceCalls  int
	forkchoiceStatus string
}

func (e *fakeEngine) ExchangeCapabilities(ctx context.Context) error { return e.capsErr }
func (e *fakeEngine) NewPayload(ctx context.Context, payload *engine.ExecutableData, blobs []common.Hash, root common.Hash) (EngineStatus, error) {
	e.newPayloadCalls++
	return EngineStatus{Status: "VALID"}, nil
}
func (e *fakeEngine) ForkchoiceUpdated(ctx context.Context, head common.Hash, attrs *engine.PayloadAttributes) (EngineForkchoiceResult, error) {
	e.forkchoiceCalls++
	status := e.forkchoiceStatus
	if status == "" {
		status = "VALID"
	}
	return EngineForkchoiceResult{Status: status, LatestValidHash: head}, nil
}

type fakeValidatorReader struct {
	set types.ValidatorSet
}

func (v fakeValidatorReader) ReadAt(ctx context.Context, h common.Hash) (types.ValidatorSet, error) {
	return v.set, nil
}

func fakeDecode(blockHash byte) PayloadDecoder {
	return func(raw []byte) (*engine.ExecutableData, error) {
		var h common.Hash
		h[0] = raw[0]
		return &engine.ExecutableData{BlockHash: h}, nil
	}
}

// TestGenesisBoot exercises §8 scenario 1: empty store replies
// (Height=1, genesis set).
func TestGenesisBoot(t *testing.T) {
	s := &fakeStore{found: false}
	e := &fakeEngine{}
	v := fakeValidatorReader{}
	b := New(s, e, v, fakeDecode(0))

	genesisSet := types.ValidatorSet{Validators: []types.Validator{{VotingPower: 1}, {VotingPower: 1}, {VotingPower: 1}}}
	result, err := b.Run(context.Background(), Genesis{ValidatorSet: genesisSet}, 0, common.Hash{})
	require.NoError(t, err)
	require.Equal(t, types.Height(1), result.StartHeight)
	require.Equal(t, 3, len(result.ValidatorSet.Validators))
}

// TestCrashReplay exercises §8 scenario 6: store decided up to H*=5,
// engine reports H_engine=3; replay covers heights 4 and 5.
func TestCrashReplay(t *testing.T) {
	s := &fakeStore{
		found:     true,
		maxHeight: 5,
		blockData: map[types.Height][]byte{
			4: {4},
			5: {5},
		},
		certs: map[types.Height]types.CommitCertificate{5: {Height: 5}},
	}
	e := &fakeEngine{}
	v := fakeValidatorReader{set: types.ValidatorSet{Validators: []types.Validator{{VotingPower: 1}}}}
	b := New(s, e, v, func(raw []byte) (*engine.ExecutableData, error) {
		var h common.Hash
		h[0] = raw[0]
		return &engine.ExecutableData{BlockHash: h}, nil
	})

	result, err := b.Run(context.Background(), Genesis{}, 3, common.Hash{})
	require.NoError(t, err)
	require.Equal(t, types.Height(6), result.StartHeight)
	require.Equal(t, 2, e.newPayloadCalls) // heights 4 and 5
	require.GreaterOrEqual(t, e.forkchoiceCalls, 3)
}
