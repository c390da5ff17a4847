package streaming

import (
	"math/rand"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/autonity/emerald/types"
)

func buildStream(t *testing.T) (types.StreamID, []types.StreamMessage) {
	t.Helper()
	id := types.NewStreamID(4, 0, 1)
	proposer := common.HexToAddress("0xeeee000000000000000000000000000000eeee")
	msgs := []types.StreamMessage{
		types.NewPartMessage(id, 0, types.NewInitPart(4, 0, types.NilRound, proposer)),
		types.NewPartMessage(id, 1, types.NewDataPart([]byte("chunk-0"))),
		types.NewPartMessage(id, 2, types.NewDataPart([]byte("chunk-1"))),
		types.NewPartMessage(id, 3, types.NewFinPart([]byte("sig"))),
		types.NewTerminatorMessage(id, 4),
	}
	return id, msgs
}

// TestReassemblyOrderIndependent exercises P4: any interleaving of the
// same set of parts produces the same completed ProposalParts.
func TestReassemblyOrderIndependent(t *testing.T) {
	_, msgs := buildStream(t)

	var firstResult *CompletedStream
	for trial := 0; trial < 5; trial++ {
		shuffled := append([]types.StreamMessage{}, msgs...)
		rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		r := NewReassembler()
		var result *CompletedStream
		for _, m := range shuffled {
			res, err := r.AddPart("peer-a", m)
			require.NoError(t, err)
			if res != nil {
				result = res
			}
		}
		require.NotNil(t, result)
		if firstResult == nil {
			firstResult = result
		} else {
			require.Equal(t, firstResult.Parts, result.Parts)
		}
	}
}

func TestReassemblyIncompleteUntilAllParts(t *testing.T) {
	_, msgs := buildStream(t)
	r := NewReassembler()
	for _, m := range msgs[:len(msgs)-1] {
		res, err := r.AddPart("peer-b", m)
		require.NoError(t, err)
		require.Nil(t, res)
	}
}

func TestReassemblyDuplicateSequenceIgnored(t *testing.T) {
	_, msgs := buildStream(t)
	r := NewReassembler()

	// Retransmit the Init and first Data part before the stream
	// completes; duplicates must not change the outcome (§4.2 edge
	// case: "Duplicate sequence from the same peer: ignored").
	var result *CompletedStream
	withDuplicates := append(append([]types.StreamMessage{}, msgs[0], msgs[0], msgs[1]), msgs...)
	for _, m := range withDuplicates {
		res, err := r.AddPart("peer-c", m)
		require.NoError(t, err)
		if res != nil {
			result = res
		}
	}
	require.NotNil(t, result)
	require.Len(t, result.Parts, 3) // 2 Data + 1 Fin, Init excluded
}

func TestReassemblyMissingInitNeverCompletes(t *testing.T) {
	_, msgs := buildStream(t)
	r := NewReassembler()
	for _, m := range msgs[1:] { // skip Init
		res, err := r.AddPart("peer-d", m)
		require.NoError(t, err)
		require.Nil(t, res)
	}
}
