// Package validators implements component E: reading the validator
// set from the execution layer at a given block hash, and parsing the
// genesis validator set.
package validators

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/autonity/emerald/contracts"
	"github.com/autonity/emerald/types"
)

// Reader reads the committee at a block hash, per I5: "Validator set
// used to judge the proposer at height H is the set read from the
// execution state at the block committed at H−1."
type Reader struct {
	caller contracts.ContractCaller
}

func NewReader(caller contracts.ContractCaller) *Reader {
	return &Reader{caller: caller}
}

// ReadAt loads the committee at blockHash. A key parse failure is
// fatal to the caller per §6 ("parsing failure is fatal for the
// validator set load") — this function returns the error and leaves
// fatality to the caller, since only the handler knows whether this
// read is on the startup path (fatal) or a routine height advance.
func (r *Reader) ReadAt(ctx context.Context, blockHash common.Hash) (types.ValidatorSet, error) {
	raw, err := contracts.GetValidators(ctx, r.caller, blockHash)
	if err != nil {
		return types.ValidatorSet{}, fmt.Errorf("validators: read at %s: %w", blockHash, err)
	}

	set := types.ValidatorSet{Validators: make([]types.Validator, len(raw))}
	for i, v := range raw {
		key, err := decodeSEC1(v.PublicKey)
		if err != nil {
			return types.ValidatorSet{}, fmt.Errorf("validators: decode key at index %d: %w", i, err)
		}
		set.Validators[i] = types.Validator{PublicKey: key, VotingPower: v.VotingPower.Uint64()}
	}
	return set, nil
}

// decodeSEC1 prepends the 0x04 uncompressed-point prefix that the
// contract's raw (x‖y) encoding omits, per §6.
func decodeSEC1(xy []byte) ([]byte, error) {
	if len(xy) != 64 {
		return nil, fmt.Errorf("validators: expected 64-byte (x||y) key, got %d bytes", len(xy))
	}
	key := make([]byte, 0, 65)
	key = append(key, 0x04)
	key = append(key, xy...)
	return key, nil
}
