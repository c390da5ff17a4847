// Package store implements component C: the durable, transactional
// key-value layout of decided/undecided data, pruning, and crash
// recovery support (§4.4). Backed by github.com/syndtr/goleveldb, the
// teacher's own direct dependency, using the teacher's own
// core/rawdb convention of one physical database with byte-prefixed
// logical tables.
package store

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/autonity/emerald/internal/log"
	"github.com/autonity/emerald/types"
)

// ErrNotFound is returned by Get* methods when a key is absent.
var ErrNotFound = errors.New("store: not found")

// Store is the durable state store (component C). DefaultFilename
// matches §6 ("Database filename store.db under the node home
// directory").
const DefaultFilename = "store.db"

type Store struct {
	db     *leveldb.DB
	worker *worker
	logger log.Logger
}

// Open opens (creating if absent) the LevelDB file at path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	return &Store{db: db, worker: newWorker(4), logger: log.New("component", "store")}, nil
}

func (s *Store) Close() error {
	s.worker.Close()
	return s.db.Close()
}

// CommitDecided writes {certificates[H], decided_values[H],
// decided_block_headers[H]} in a single transaction, per I1.
func (s *Store) CommitDecided(height types.Height, cert types.CommitCertificate, value types.Value, headerSSZ []byte) error {
	certBytes, err := types.EncodeCertificate(cert)
	if err != nil {
		return fmt.Errorf("store: encode certificate: %w", err)
	}
	valueBytes, err := types.EncodeValue(value)
	if err != nil {
		return fmt.Errorf("store: encode value: %w", err)
	}

	return doWrite(s.worker, func() error {
		batch := new(leveldb.Batch)
		batch.Put(heightKey(tableCertificates, height), certBytes)
		batch.Put(heightKey(tableDecidedValues, height), valueBytes)
		batch.Put(heightKey(tableDecidedBlockHeaders, height), headerSSZ)
		return s.db.Write(batch, nil)
	})
}

// PutDecidedBlockData idempotently writes the full SSZ payload for a
// decided height (the "subsequent idempotent write" in §4.4's
// atomicity note).
func (s *Store) PutDecidedBlockData(height types.Height, data []byte) error {
	return s.insertIfAbsent(heightKey(tableDecidedBlockData, height), data)
}

// IncrementMetrics adds delta to each named cumulative counter in
// persistent_metrics (supplemented from original_source/app/src/metrics.rs,
// see SPEC_FULL.md §4).
func (s *Store) IncrementMetrics(deltas map[string]uint64) error {
	return doWrite(s.worker, func() error {
		batch := new(leveldb.Batch)
		for name, delta := range deltas {
			key := metricKey(name)
			current := uint64(0)
			if raw, err := s.db.Get(key, nil); err == nil {
				current = binary.BigEndian.Uint64(raw)
			} else if !errors.Is(err, leveldb.ErrNotFound) {
				return err
			}
			var buf [8]byte
			binary.BigEndian.PutUint64(buf[:], current+delta)
			batch.Put(key, buf[:])
		}
		return s.db.Write(batch, nil)
	})
}

func (s *Store) Metric(name string) (uint64, error) {
	return doRead(s.worker, func() (uint64, error) {
		raw, err := s.db.Get(metricKey(name), nil)
		if errors.Is(err, leveldb.ErrNotFound) {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
		return binary.BigEndian.Uint64(raw), nil
	})
}

func (s *Store) GetCertificate(height types.Height) (types.CommitCertificate, error) {
	return doRead(s.worker, func() (types.CommitCertificate, error) {
		raw, err := s.get(heightKey(tableCertificates, height))
		if err != nil {
			return types.CommitCertificate{}, err
		}
		return types.DecodeCertificate(raw)
	})
}

func (s *Store) GetDecidedValue(height types.Height) (types.Value, error) {
	return doRead(s.worker, func() (types.Value, error) {
		raw, err := s.get(heightKey(tableDecidedValues, height))
		if err != nil {
			return types.Value{}, err
		}
		return types.DecodeValue(raw)
	})
}

func (s *Store) GetBlockHeader(height types.Height) ([]byte, error) {
	return doRead(s.worker, func() ([]byte, error) { return s.get(heightKey(tableDecidedBlockHeaders, height)) })
}

func (s *Store) GetBlockData(height types.Height) ([]byte, error) {
	return doRead(s.worker, func() ([]byte, error) { return s.get(heightKey(tableDecidedBlockData, height)) })
}

// MaxDecidedHeight returns the highest height with a decided value,
// and found=false if the store is empty (genesis path, §4.4 step 1).
func (s *Store) MaxDecidedHeight() (height types.Height, found bool, err error) {
	h, err := doRead(s.worker, func() (types.Height, error) { return s.maxHeight(tableDecidedValues) })
	if errors.Is(err, ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return h, true, nil
}

// EarliestCertificateHeight returns the lowest height with a stored
// certificate, used to bound GetHistoryMinHeight (§4.1).
func (s *Store) EarliestCertificateHeight() (types.Height, bool, error) {
	h, err := doRead(s.worker, func() (types.Height, error) { return s.minHeight(tableCertificates) })
	if errors.Is(err, ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return h, true, nil
}

func (s *Store) maxHeight(t table) (types.Height, error) {
	iter := s.db.NewIterator(util.BytesPrefix(tablePrefix(t)), nil)
	defer iter.Release()
	if !iter.Last() {
		return 0, ErrNotFound
	}
	return heightFromKey(iter.Key()), iter.Error()
}

func (s *Store) minHeight(t table) (types.Height, error) {
	iter := s.db.NewIterator(util.BytesPrefix(tablePrefix(t)), nil)
	defer iter.Release()
	if !iter.First() {
		return 0, ErrNotFound
	}
	return heightFromKey(iter.Key()), iter.Error()
}

// PutUndecidedProposal inserts a proposal if no row exists yet at
// (height, round, value_id). P5: inserting twice leaves exactly one
// row with the first-written value.
func (s *Store) PutUndecidedProposal(height types.Height, round types.Round, id types.ValueID, p types.Proposal) error {
	encoded, err := types.EncodeProposal(p)
	if err != nil {
		return fmt.Errorf("store: encode proposal: %w", err)
	}
	return s.insertIfAbsent(compositeKey(tableUndecidedProposals, height, round, id), encoded)
}

// ProposalsForRound scans all undecided proposals at a given (height,
// round), for StartedRound's "fetch any previously-seen undecided
// proposal(s)".
func (s *Store) ProposalsForRound(height types.Height, round types.Round) ([]types.Proposal, error) {
	return doRead(s.worker, func() ([]types.Proposal, error) {
		prefix := roundPrefix(tableUndecidedProposals, height, round)
		iter := s.db.NewIterator(util.BytesPrefix(prefix), nil)
		defer iter.Release()

		var proposals []types.Proposal
		for iter.Next() {
			p, err := types.DecodeProposal(iter.Value())
			if err != nil {
				return nil, fmt.Errorf("store: decode proposal: %w", err)
			}
			proposals = append(proposals, p)
		}
		return proposals, iter.Error()
	})
}

func (s *Store) PutUndecidedBlockData(height types.Height, round types.Round, id types.ValueID, data []byte) error {
	return s.insertIfAbsent(compositeKey(tableUndecidedBlockData, height, round, id), data)
}

func (s *Store) GetUndecidedBlockData(height types.Height, round types.Round, id types.ValueID) ([]byte, error) {
	return doRead(s.worker, func() ([]byte, error) { return s.get(compositeKey(tableUndecidedBlockData, height, round, id)) })
}

// PutPendingParts stores a future-height proposal stream verbatim
// (§3 "Pending parts"); syntheticID disambiguates concurrent pending
// streams at the same (height, round).
func (s *Store) PutPendingParts(syntheticID uint32, parts types.PendingProposalParts) error {
	encoded, err := types.EncodePendingParts(parts)
	if err != nil {
		return fmt.Errorf("store: encode pending parts: %w", err)
	}
	key := pendingKey(parts.Height, parts.Round, syntheticID)
	return doWrite(s.worker, func() error { return s.db.Put(key, encoded, nil) })
}

// PendingPartsAtHeight returns every pending-parts entry buffered for
// a height, used when Decided promotes height+1's buffered streams.
func (s *Store) PendingPartsAtHeight(height types.Height) ([]types.PendingProposalParts, error) {
	return doRead(s.worker, func() ([]types.PendingProposalParts, error) {
		prefix := heightKey(tablePendingProposalParts, height)
		iter := s.db.NewIterator(util.BytesPrefix(prefix), nil)
		defer iter.Release()

		var out []types.PendingProposalParts
		for iter.Next() {
			p, err := types.DecodePendingParts(iter.Value())
			if err != nil {
				return nil, fmt.Errorf("store: decode pending parts: %w", err)
			}
			out = append(out, p)
		}
		return out, iter.Error()
	})
}

func (s *Store) get(key []byte) ([]byte, error) {
	raw, err := s.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrNotFound
	}
	return raw, err
}

// insertIfAbsent writes only if the key is currently unset, the
// idempotence rule for undecided/block-data inserts (§4.4).
func (s *Store) insertIfAbsent(key, value []byte) error {
	return doWrite(s.worker, func() error {
		has, err := s.db.Has(key, nil)
		if err != nil {
			return err
		}
		if has {
			return nil
		}
		return s.db.Put(key, value, nil)
	})
}

// roundPrefix is the shared prefix of every compositeKey at a given
// (height, round), used to range-scan undecided_proposals.
func roundPrefix(t table, h types.Height, r types.Round) []byte {
	key := make([]byte, 1+8+8)
	key[0] = byte(t)
	binary.BigEndian.PutUint64(key[1:9], uint64(h))
	binary.BigEndian.PutUint64(key[9:17], uint64(r))
	return key
}
