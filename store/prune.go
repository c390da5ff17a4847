package store

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/autonity/emerald/types"
)

// prunableTables is deleted from below retainHeight unconditionally;
// certificates are handled separately since their retention is an
// explicit operator policy (§9 "Pruning of certificates").
var prunableTables = []table{
	tableUndecidedProposals,
	tableUndecidedBlockData,
	tablePendingProposalParts,
	tableDecidedValues,
	tableDecidedBlockData,
}

// Prune removes rows keyed below retainHeight from the prunable
// tables (I3), and from certificates too when pruneCertificates is
// set. It is idempotent: running it twice with the same retainHeight
// has the same effect as running it once (§8).
func (s *Store) Prune(retainHeight types.Height, pruneCertificates bool) error {
	return doWrite(s.worker, func() error {
		batch := new(leveldb.Batch)
		for _, t := range prunableTables {
			s.collectBelow(batch, t, retainHeight)
		}
		if pruneCertificates {
			s.collectBelow(batch, tableCertificates, retainHeight)
		}
		return s.db.Write(batch, nil)
	})
}

// collectBelow stages deletions for every key in table t whose height
// component is below retainHeight. Composite-keyed tables
// (undecided_proposals, undecided_block_data, pending_proposal_parts)
// share the same [1:9] height layout as height-keyed tables, so one
// routine covers both.
func (s *Store) collectBelow(batch *leveldb.Batch, t table, retainHeight types.Height) {
	iter := s.db.NewIterator(util.BytesPrefix(tablePrefix(t)), nil)
	defer iter.Release()
	for iter.Next() {
		if heightFromKey(iter.Key()) >= retainHeight {
			continue
		}
		key := append([]byte{}, iter.Key()...)
		batch.Delete(key)
	}
}
