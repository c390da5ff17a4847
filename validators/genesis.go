package validators

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/autonity/emerald/types"
)

// GenesisValidator is the genesis JSON's validator_set entry: an
// uncompressed SEC1 public key in hex without the 0x04 prefix, per
// §6 "Genesis layout".
type GenesisValidator struct {
	PublicKey   string `json:"public_key"`
	VotingPower uint64 `json:"voting_power"`
}

// GenesisDocument is the subset of the genesis JSON this package
// cares about. Stdlib encoding/json is used here rather than a
// third-party library because this is a one-shot config-file parse;
// see DESIGN.md.
type GenesisDocument struct {
	ValidatorSet []GenesisValidator `json:"validator_set"`
}

// ParseGenesis decodes the genesis document and reconstructs the
// ValidatorSet used to bootstrap height 1 (§4.1 ConsensusReady, I5
// "genesis set at H=1").
func ParseGenesis(raw []byte) (types.ValidatorSet, error) {
	var doc GenesisDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return types.ValidatorSet{}, fmt.Errorf("validators: parse genesis: %w", err)
	}

	set := types.ValidatorSet{Validators: make([]types.Validator, len(doc.ValidatorSet))}
	for i, v := range doc.ValidatorSet {
		xy, err := hex.DecodeString(v.PublicKey)
		if err != nil {
			return types.ValidatorSet{}, fmt.Errorf("validators: genesis entry %d: decode public key: %w", i, err)
		}
		key, err := decodeSEC1(xy)
		if err != nil {
			return types.ValidatorSet{}, fmt.Errorf("validators: genesis entry %d: %w", i, err)
		}
		set.Validators[i] = types.Validator{PublicKey: key, VotingPower: v.VotingPower}
	}
	return set, nil
}
