package cache

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestValidationCachePutGet(t *testing.T) {
	c, err := NewValidationCache(2)
	require.NoError(t, err)

	hash := common.HexToHash("0x01")
	_, ok := c.Get(hash)
	require.False(t, ok)

	c.Put(hash, Verdict{Valid: true})
	got, ok := c.Get(hash)
	require.True(t, ok)
	require.True(t, got.Valid)
}

func TestValidationCacheEviction(t *testing.T) {
	c, err := NewValidationCache(1)
	require.NoError(t, err)

	c.Put(common.HexToHash("0x01"), Verdict{Valid: true})
	c.Put(common.HexToHash("0x02"), Verdict{Valid: false, Err: "invalid"})

	require.Equal(t, 1, c.Len())
	_, ok := c.Get(common.HexToHash("0x01"))
	require.False(t, ok)
}
