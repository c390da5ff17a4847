package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func samplePayload() ExecutionPayload {
	p := ExecutionPayload{
		BlockNumber: 9,
		GasLimit:    30_000_000,
		GasUsed:     21_000,
		Timestamp:   1_700_000_000,
		ExtraData:   []byte("emerald"),
		Transactions: [][]byte{
			[]byte("tx-one"),
			[]byte("tx-two-longer"),
		},
		Withdrawals: []Withdrawal{
			{Index: 1, ValidatorIndex: 2, Amount: 100},
		},
		BlobGasUsed:   0,
		ExcessBlobGas: 0,
	}
	p.ParentHash[0] = 0xaa
	p.BlockHash[0] = 0xbb
	return p
}

// TestExecutionPayloadSSZRoundTrip exercises §8's "SSZ encode→decode
// of an ExecutionPayloadV3 is the identity".
func TestExecutionPayloadSSZRoundTrip(t *testing.T) {
	p := samplePayload()

	encoded, err := p.MarshalSSZ()
	require.NoError(t, err)

	var decoded ExecutionPayload
	require.NoError(t, decoded.UnmarshalSSZ(encoded))
	require.Equal(t, p, decoded)
}

func TestExecutionPayloadHeaderStripsBody(t *testing.T) {
	full := samplePayload()
	header := full.Header()
	require.Empty(t, header.Transactions)
	require.Empty(t, header.Withdrawals)
	require.Equal(t, full.BlockHash, header.BlockHash)

	rebuilt := header.WithBody(full.Transactions, full.Withdrawals)
	require.Equal(t, full, rebuilt)
}
