// Package contracts holds the fixed system-contract addresses and
// ABI bindings this application calls into on the execution layer.
// Adapted from the teacher's common/precompiled_contract_addresses.go
// fixed-address idiom (BytesToAddress([]byte{N})), extended with the
// one contract call this application actually makes: reading the
// validator set (§6).
package contracts

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ValidatorManagerAddress is the known execution-layer address
// exposing getValidators(), per §6.
var ValidatorManagerAddress = common.BytesToAddress([]byte{0x20, 0x00})

// validatorManagerABI describes getValidators() → [(bytes, uint256)]:
// a raw (x‖y) public key paired with a voting power. The validators
// package prepends 0x04 to the key to form an uncompressed SEC1 key.
var validatorManagerABI abi.ABI

const validatorManagerABIJSON = `[
	{
		"name": "getValidators",
		"type": "function",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [
			{
				"type": "tuple[]",
				"components": [
					{"name": "publicKey", "type": "bytes"},
					{"name": "votingPower", "type": "uint256"}
				]
			}
		]
	}
]`

func init() {
	parsed, err := abi.JSON(strings.NewReader(validatorManagerABIJSON))
	if err != nil {
		panic(fmt.Sprintf("contracts: parse validator manager ABI: %v", err))
	}
	validatorManagerABI = parsed
}

// RawValidator is the ABI-decoded tuple entry before address
// derivation (done in the validators package).
type RawValidator struct {
	PublicKey   []byte
	VotingPower *big.Int
}

// ContractCaller is the minimal interface this package needs from an
// Ethereum JSON-RPC client; cmd/emeraldd implements it over a
// go-ethereum rpc.Client.
type ContractCaller interface {
	CallContract(ctx context.Context, call CallMsg, blockHash *common.Hash) ([]byte, error)
}

// CallMsg mirrors go-ethereum's ethereum.CallMsg; redeclared
// here to avoid pulling the whole "core" package into this narrow
// contract-binding file.
type CallMsg struct {
	To   *common.Address
	Data []byte
}

// GetValidators calls getValidators() at the given block hash and
// decodes the returned tuple list.
func GetValidators(ctx context.Context, caller ContractCaller, blockHash common.Hash) ([]RawValidator, error) {
	input, err := validatorManagerABI.Pack("getValidators")
	if err != nil {
		return nil, fmt.Errorf("contracts: pack getValidators: %w", err)
	}

	to := ValidatorManagerAddress
	out, err := caller.CallContract(ctx, CallMsg{To: &to, Data: input}, &blockHash)
	if err != nil {
		return nil, fmt.Errorf("contracts: call getValidators at %s: %w", blockHash, err)
	}

	results, err := validatorManagerABI.Unpack("getValidators", out)
	if err != nil {
		return nil, fmt.Errorf("contracts: unpack getValidators: %w", err)
	}
	if len(results) != 1 {
		return nil, fmt.Errorf("contracts: getValidators returned %d values, want 1", len(results))
	}

	type tuple struct {
		PublicKey   []byte   `abi:"publicKey"`
		VotingPower *big.Int `abi:"votingPower"`
	}
	// Unpack yields a slice of an anonymous struct type; ConvertType
	// copies it field by field into the named tuple type.
	raw := *abi.ConvertType(results[0], new([]tuple)).(*[]tuple)

	validators := make([]RawValidator, len(raw))
	for i, v := range raw {
		validators[i] = RawValidator{PublicKey: v.PublicKey, VotingPower: v.VotingPower}
	}
	return validators, nil
}
