// Package bootstrap implements component G: initializing the
// handler's state from genesis or from the store, and replaying
// decided blocks into the execution client until its head aligns
// with the local durable log (§4.1 ConsensusReady, §4.4 crash
// recovery).
package bootstrap

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/beacon/engine"
	"github.com/ethereum/go-ethereum/common"

	"github.com/autonity/emerald/internal/fatal"
	"github.com/autonity/emerald/internal/log"
	"github.com/autonity/emerald/types"
)

// EngineClient is the subset of engine.Client bootstrap needs,
// narrowed to an interface so tests can substitute a mock (grounded
// on the teacher's own gomock-based backend_mock.go).
type EngineClient interface {
	ExchangeCapabilities(ctx context.Context) error
	NewPayload(ctx context.Context, payload *engine.ExecutableData, blobVersionedHashes []common.Hash, parentBeaconBlockRoot common.Hash) (EngineStatus, error)
	ForkchoiceUpdated(ctx context.Context, head common.Hash, attrs *engine.PayloadAttributes) (EngineForkchoiceResult, error)
}

// EngineStatus/EngineForkchoiceResult mirror engine.NewPayloadResult
// and engine.ForkchoiceUpdateResult's shape without importing the
// engine package's concrete types into this interface boundary.
type EngineStatus struct {
	Status          string
	LatestValidHash common.Hash
}

type EngineForkchoiceResult struct {
	Status          string
	LatestValidHash common.Hash
}

// Store is the subset of store.Store bootstrap needs.
type Store interface {
	MaxDecidedHeight() (types.Height, bool, error)
	GetBlockData(height types.Height) ([]byte, error)
	GetCertificate(height types.Height) (types.CommitCertificate, error)
}

// ValidatorReader is the subset of validators.Reader bootstrap needs.
type ValidatorReader interface {
	ReadAt(ctx context.Context, blockHash common.Hash) (types.ValidatorSet, error)
}

// PayloadDecoder decodes a stored SSZ payload and reports its block
// hash/number, kept abstract so this package doesn't depend on the
// SSZ wire format directly.
type PayloadDecoder func(raw []byte) (*engine.ExecutableData, error)

type Bootstrapper struct {
	store      Store
	engine     EngineClient
	validators ValidatorReader
	decode     PayloadDecoder
	logger     log.Logger
}

func New(s Store, e EngineClient, v ValidatorReader, decode PayloadDecoder) *Bootstrapper {
	return &Bootstrapper{store: s, engine: e, validators: v, decode: decode, logger: log.New("component", "bootstrap")}
}

// Result is what ConsensusReady replies with (§4.1).
type Result struct {
	StartHeight  types.Height
	ValidatorSet types.ValidatorSet
	LatestBlock  types.ExecutionBlock
}

// Genesis describes the chain's origin block and initial committee,
// used when the store has never decided anything.
type Genesis struct {
	ValidatorSet types.ValidatorSet
	Block        types.ExecutionBlock
}

// Run executes §4.1's ConsensusReady bootstrap and §4.4's crash
// recovery flow. engineHeadNumber reports the execution client's
// current block number, used to detect H_engine < H* (replay needed).
func (b *Bootstrapper) Run(ctx context.Context, genesis Genesis, engineHeadNumber uint64, engineHeadHash common.Hash) (Result, error) {
	if err := b.engine.ExchangeCapabilities(ctx); err != nil {
		fatal.Fatal("engine does not support required Engine-API capabilities", "err", err)
	}

	maxDecided, found, err := b.store.MaxDecidedHeight()
	if err != nil {
		return Result{}, fmt.Errorf("bootstrap: read max decided height: %w", err)
	}
	if !found {
		b.logger.Info("bootstrapping from genesis", "validators", len(genesis.ValidatorSet.Validators))
		return Result{StartHeight: 1, ValidatorSet: genesis.ValidatorSet, LatestBlock: genesis.Block}, nil
	}

	if engineHeadNumber < uint64(maxDecided) {
		if err := b.replay(ctx, types.Height(engineHeadNumber)+1, maxDecided); err != nil {
			fatal.Fatal("replay failed to align engine with decided log", "err", err)
		}
	}

	finalBlockHash, err := b.decidedBlockHash(maxDecided)
	if err != nil {
		return Result{}, fmt.Errorf("bootstrap: read decided block hash at %d: %w", maxDecided, err)
	}

	fc, err := b.engine.ForkchoiceUpdated(ctx, finalBlockHash, nil)
	if err != nil {
		fatal.Fatal("failed to align engine head after replay", "height", maxDecided, "err", err)
	}
	if fc.Status != "VALID" {
		fatal.Fatal("engine rejected final forkchoice alignment", "status", fc.Status)
	}

	set, err := b.validators.ReadAt(ctx, finalBlockHash)
	if err != nil {
		fatal.Fatal("failed to load validator set after replay", "err", err)
	}

	b.logger.Info("bootstrapped from store", "max_decided_height", maxDecided, "start_height", maxDecided+1)
	return Result{
		StartHeight:  maxDecided + 1,
		ValidatorSet: set,
		LatestBlock:  types.ExecutionBlock{BlockHash: finalBlockHash, BlockNumber: uint64(maxDecided)},
	}, nil
}

// replay feeds every decided block in [from, to] through newPayload
// and forkchoiceUpdated, per §4.4 step 3.
func (b *Bootstrapper) replay(ctx context.Context, from, to types.Height) error {
	for h := from; h <= to; h++ {
		raw, err := b.store.GetBlockData(h)
		if err != nil {
			return fmt.Errorf("replay: missing block data at height %d: %w", h, err)
		}
		payload, err := b.decode(raw)
		if err != nil {
			return fmt.Errorf("replay: decode payload at height %d: %w", h, err)
		}

		status, err := b.engine.NewPayload(ctx, payload, nil, common.Hash{})
		if err != nil {
			return fmt.Errorf("replay: newPayload at height %d: %w", h, err)
		}
		if status.Status != "VALID" {
			return fmt.Errorf("replay: newPayload at height %d returned %s", h, status.Status)
		}

		fc, err := b.engine.ForkchoiceUpdated(ctx, payload.BlockHash, nil)
		if err != nil {
			return fmt.Errorf("replay: forkchoiceUpdated at height %d: %w", h, err)
		}
		if fc.Status != "VALID" {
			return fmt.Errorf("replay: forkchoiceUpdated at height %d returned %s", h, fc.Status)
		}
		b.logger.Info("replayed decided block", "height", h, "block_hash", payload.BlockHash)
	}
	return nil
}

func (b *Bootstrapper) decidedBlockHash(height types.Height) (common.Hash, error) {
	cert, err := b.store.GetCertificate(height)
	if err != nil {
		return common.Hash{}, err
	}
	raw, err := b.store.GetBlockData(height)
	if err != nil {
		return common.Hash{}, err
	}
	payload, err := b.decode(raw)
	if err != nil {
		return common.Hash{}, err
	}
	_ = cert // certificate's value_id is validated against this hash by the handler, not here
	return payload.BlockHash, nil
}
