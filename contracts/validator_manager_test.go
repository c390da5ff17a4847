package contracts

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

type fakeCaller struct {
	response []byte
	err      error
}

func (f fakeCaller) CallContract(ctx context.Context, call CallMsg, blockHash *common.Hash) ([]byte, error) {
	return f.response, f.err
}

func TestValidatorManagerAddressFixed(t *testing.T) {
	require.Equal(t, common.BytesToAddress([]byte{0x20, 0x00}), ValidatorManagerAddress)
}

func TestGetValidatorsPacksCall(t *testing.T) {
	input, err := validatorManagerABI.Pack("getValidators")
	require.NoError(t, err)
	require.NotEmpty(t, input)
}

func TestGetValidatorsSurfacesCallError(t *testing.T) {
	caller := fakeCaller{err: context.DeadlineExceeded}
	_, err := GetValidators(context.Background(), caller, common.HexToHash("0x01"))
	require.Error(t, err)
}

func TestGetValidatorsRejectsMalformedOutput(t *testing.T) {
	caller := fakeCaller{response: []byte{0x01, 0x02}}
	_, err := GetValidators(context.Background(), caller, common.HexToHash("0x01"))
	require.Error(t, err)
}
