package types

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func mustValidator(t *testing.T, power uint64) Validator {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	pub := crypto.FromECDSAPub(&key.PublicKey)
	return Validator{PublicKey: pub, VotingPower: power}
}

func TestValidatorAddressRequiresUncompressedKey(t *testing.T) {
	_, err := Validator{PublicKey: []byte{0x01, 0x02}}.Address()
	require.Error(t, err)
}

func TestValidatorSetTotalPower(t *testing.T) {
	set := ValidatorSet{Validators: []Validator{
		mustValidator(t, 1),
		mustValidator(t, 2),
		mustValidator(t, 3),
	}}
	require.Equal(t, uint64(6), set.TotalPower())
}

func TestValidatorSetProposerRoundRobin(t *testing.T) {
	set := ValidatorSet{Validators: []Validator{
		mustValidator(t, 1),
		mustValidator(t, 1),
		mustValidator(t, 1),
	}}
	a0, err := set.Proposer(1, 0)
	require.NoError(t, err)
	a1, err := set.Proposer(2, 0)
	require.NoError(t, err)
	require.NotEqual(t, a0, a1)
}

func TestValidatorSetCloneIsIndependent(t *testing.T) {
	set := ValidatorSet{Validators: []Validator{mustValidator(t, 1)}}
	clone := set.Clone()
	clone.Validators[0].PublicKey[0] ^= 0xff
	require.NotEqual(t, set.Validators[0].PublicKey[0], clone.Validators[0].PublicKey[0])
}

func TestValueChunksNonEmptyForEmptyExtension(t *testing.T) {
	v := Value{}
	chunks := v.Chunks(DefaultChunkSize)
	require.Len(t, chunks, 1)
}

func TestValueIDDeterministic(t *testing.T) {
	v := Value{Height: 1, Round: 0, Extension: []byte("abc")}
	require.Equal(t, v.ID(), v.ID())
}
