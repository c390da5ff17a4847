package types

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

// TestComputeValueIDPure exercises P3: identical inputs yield an
// identical ValueID regardless of how many times it's recomputed.
func TestComputeValueIDPure(t *testing.T) {
	proposer := common.HexToAddress("0xaaaa000000000000000000000000000000aaaa")
	chunks := [][]byte{[]byte("chunk-0"), []byte("chunk-1")}

	id1 := ComputeValueID(Height(5), Round(2), proposer, chunks)
	id2 := ComputeValueID(Height(5), Round(2), proposer, chunks)
	require.Equal(t, id1, id2)
	require.False(t, id1.IsZero())
}

func TestComputeValueIDSensitiveToInputs(t *testing.T) {
	proposer := common.HexToAddress("0xaaaa000000000000000000000000000000aaaa")
	base := ComputeValueID(Height(5), Round(0), proposer, [][]byte{[]byte("x")})

	require.NotEqual(t, base, ComputeValueID(Height(6), Round(0), proposer, [][]byte{[]byte("x")}))
	require.NotEqual(t, base, ComputeValueID(Height(5), Round(1), proposer, [][]byte{[]byte("x")}))
	require.NotEqual(t, base, ComputeValueID(Height(5), Round(0), proposer, [][]byte{[]byte("y")}))
}

func TestStreamIDRoundTrip(t *testing.T) {
	id := NewStreamID(Height(42), Round(3), 7)
	require.Equal(t, Height(42), id.Height())
	require.Equal(t, Round(3), id.Round())
}

func TestRoundIsNil(t *testing.T) {
	require.True(t, NilRound.IsNil())
	require.False(t, Round(0).IsNil())
}
