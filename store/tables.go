package store

import (
	"encoding/binary"

	"github.com/autonity/emerald/types"
)

// Tables are key-prefixed ranges over a single goleveldb instance,
// the same convention the teacher's own core/rawdb package uses for a
// single LevelDB/Pebble instance holding multiple logical tables
// (§4.4's table list).
type table byte

const (
	tableCertificates         table = 'c'
	tableDecidedValues        table = 'v'
	tableDecidedBlockHeaders  table = 'h'
	tableDecidedBlockData     table = 'd'
	tableUndecidedProposals   table = 'p'
	tableUndecidedBlockData   table = 'u'
	tablePendingProposalParts table = 'g'
	tablePersistentMetrics    table = 'm'
)

func heightKey(t table, h types.Height) []byte {
	key := make([]byte, 1+8)
	key[0] = byte(t)
	binary.BigEndian.PutUint64(key[1:], uint64(h))
	return key
}

// compositeKey packs (height, round, value_id) for the undecided
// tables, keyed as specified in §4.4.
func compositeKey(t table, h types.Height, r types.Round, id types.ValueID) []byte {
	key := make([]byte, 1+8+8+8)
	key[0] = byte(t)
	binary.BigEndian.PutUint64(key[1:9], uint64(h))
	binary.BigEndian.PutUint64(key[9:17], uint64(r))
	copy(key[17:], id[:])
	return key
}

// pendingKey packs (height, round, synthetic_id) for
// pending_proposal_parts.
func pendingKey(h types.Height, r types.Round, syntheticID uint32) []byte {
	key := make([]byte, 1+8+8+4)
	key[0] = byte(tablePendingProposalParts)
	binary.BigEndian.PutUint64(key[1:9], uint64(h))
	binary.BigEndian.PutUint64(key[9:17], uint64(r))
	binary.BigEndian.PutUint32(key[17:], syntheticID)
	return key
}

func metricKey(name string) []byte {
	return append([]byte{byte(tablePersistentMetrics)}, []byte(name)...)
}

// heightFromKey extracts the height suffix from a heightKey-shaped
// key, used when iterating a table's prefix range for pruning.
func heightFromKey(key []byte) types.Height {
	if len(key) < 9 {
		return 0
	}
	return types.Height(binary.BigEndian.Uint64(key[1:9]))
}

func tablePrefix(t table) []byte { return []byte{byte(t)} }
