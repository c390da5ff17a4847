package handler

import (
	"context"
	"fmt"
	"math/big"
	"time"

	gethengine "github.com/ethereum/go-ethereum/beacon/engine"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	appengine "github.com/autonity/emerald/engine"
	"github.com/autonity/emerald/cache"
	"github.com/autonity/emerald/internal/fatal"
	"github.com/autonity/emerald/internal/log"
	"github.com/autonity/emerald/signing"
	"github.com/autonity/emerald/streaming"
	"github.com/autonity/emerald/types"
)

// Store is the subset of store.Store the handler drives, narrowed to
// an interface so tests substitute a mock (§4.1, §4.4).
type Store interface {
	CommitDecided(height types.Height, cert types.CommitCertificate, value types.Value, headerSSZ []byte) error
	PutDecidedBlockData(height types.Height, data []byte) error
	IncrementMetrics(deltas map[string]uint64) error
	GetCertificate(height types.Height) (types.CommitCertificate, error)
	GetDecidedValue(height types.Height) (types.Value, error)
	GetBlockHeader(height types.Height) ([]byte, error)
	GetBlockData(height types.Height) ([]byte, error)
	MaxDecidedHeight() (types.Height, bool, error)
	EarliestCertificateHeight() (types.Height, bool, error)
	PutUndecidedProposal(height types.Height, round types.Round, id types.ValueID, p types.Proposal) error
	ProposalsForRound(height types.Height, round types.Round) ([]types.Proposal, error)
	PutUndecidedBlockData(height types.Height, round types.Round, id types.ValueID, data []byte) error
	GetUndecidedBlockData(height types.Height, round types.Round, id types.ValueID) ([]byte, error)
	PutPendingParts(syntheticID uint32, parts types.PendingProposalParts) error
	PendingPartsAtHeight(height types.Height) ([]types.PendingProposalParts, error)
	Prune(retainHeight types.Height, pruneCertificates bool) error
}

// Engine is the subset of engine.Client the handler drives.
type Engine interface {
	GeneratePayload(ctx context.Context, parent types.ExecutionBlock, feeRecipient common.Address) (*gethengine.ExecutableData, error)
	NewPayload(ctx context.Context, payload *gethengine.ExecutableData, blobVersionedHashes []common.Hash, parentBeaconBlockRoot common.Hash) (appengine.NewPayloadResult, error)
	ForkchoiceUpdated(ctx context.Context, head common.Hash, attrs *gethengine.PayloadAttributes) (appengine.ForkchoiceUpdateResult, error)
	GetPayloadBodiesByRange(ctx context.Context, start, count uint64) ([]*appengine.PayloadBody, error)
}

// ValidatorSetReader is the subset of validators.Reader the handler
// drives, refreshed on every Decided per I5.
type ValidatorSetReader interface {
	ReadAt(ctx context.Context, blockHash common.Hash) (types.ValidatorSet, error)
}

// Outbox publishes an outbound stream message to the network, the
// application-side half of the teacher's backend.Gossip(ctx,
// committee, payload) (consensus/tendermint/core/handler.go). Like
// Gossip, publishing is best-effort and does not return an error: a
// part that is not delivered is not resent.
type Outbox interface {
	Publish(ctx context.Context, msg types.StreamMessage)
}

// Config bundles the handler's tunables (§6).
type Config struct {
	FeeRecipient common.Address
	MinBlockTime time.Duration
	RetainBlocks types.Height // 0 disables pruning
	ValidationCacheSize int
}

// Handler is component H: the dispatch loop carrying the
// height/round/validator-set state machine and driving the store and
// execution engine in response to every consensus message (§4.1, §6).
type Handler struct {
	inbox       *Inbox
	store       Store
	engine      Engine
	outbox      Outbox
	validators  ValidatorSetReader
	signer      signing.Signer
	cache       *cache.ValidationCache
	reassembler *streaming.Reassembler
	cfg         Config
	logger      log.Logger

	nonce uint32

	height       types.Height
	round        types.Round
	proposer     common.Address
	validatorSet types.ValidatorSet
	latestBlock  types.ExecutionBlock
	lastDecided  time.Time
}

// New builds a Handler seeded with the state bootstrap.Result
// produced (§4.1 ConsensusReady).
func New(inbox *Inbox, store Store, engine Engine, outbox Outbox, validators ValidatorSetReader, signer signing.Signer, cfg Config, startHeight types.Height, validatorSet types.ValidatorSet, latestBlock types.ExecutionBlock) (*Handler, error) {
	validationCache, err := cache.NewValidationCache(cfg.ValidationCacheSize)
	if err != nil {
		return nil, fmt.Errorf("handler: build validation cache: %w", err)
	}
	return &Handler{
		inbox:        inbox,
		store:        store,
		engine:       engine,
		outbox:       outbox,
		validators:   validators,
		signer:       signer,
		cache:        validationCache,
		reassembler:  streaming.NewReassembler(),
		cfg:          cfg,
		logger:       log.New("component", "handler"),
		height:       startHeight,
		validatorSet: validatorSet,
		latestBlock:  latestBlock,
	}, nil
}

// Run dispatches inbound messages until ctx is cancelled, the
// structural adaptation of the teacher's mainEventLoop select-over-
// channels pattern (consensus/tendermint/core/handler.go).
func (h *Handler) Run(ctx context.Context) {
	for {
		select {
		case req := <-h.inbox.ConsensusReady:
			req.Reply <- h.handleConsensusReady()
		case req := <-h.inbox.StartedRound:
			req.Reply <- h.handleStartedRound(req)
		case req := <-h.inbox.GetValue:
			req.Reply <- h.handleGetValue(ctx, req)
		case req := <-h.inbox.ReceivedProposalPart:
			req.Reply <- h.handleReceivedProposalPart(ctx, req)
		case req := <-h.inbox.Decided:
			req.Reply <- h.handleDecided(ctx, req)
		case req := <-h.inbox.ProcessSyncedValue:
			req.Reply <- h.handleProcessSyncedValue(ctx, req)
		case req := <-h.inbox.GetDecidedValue:
			req.Reply <- h.handleGetDecidedValue(ctx, req)
		case req := <-h.inbox.GetHistoryMinHeight:
			req.Reply <- h.handleGetHistoryMinHeight()
		case req := <-h.inbox.ExtendVote:
			req.Reply <- nil // extension data unsupported (§4.1 Non-goals)
		case req := <-h.inbox.VerifyVoteExtension:
			req.Reply <- nil // always accept, nothing to verify
		case req := <-h.inbox.RestreamProposal:
			h.logger.Debug("restream requested, not supported", "height", req.Height, "round", req.Round)
		case <-ctx.Done():
			return
		}
	}
}

func (h *Handler) handleConsensusReady() ConsensusReadyResponse {
	return ConsensusReadyResponse{StartHeight: h.height, ValidatorSet: h.validatorSet.Clone()}
}

// handleStartedRound updates round state and surfaces any proposal
// already seen for (height, round), e.g. after a restart or a
// round-change replay (§4.1).
func (h *Handler) handleStartedRound(req StartedRoundRequest) []types.Proposal {
	h.height = req.Height
	h.round = req.Round
	h.proposer = req.Proposer

	proposals, err := h.store.ProposalsForRound(req.Height, req.Round)
	if err != nil {
		h.logger.Error("failed to load proposals for round", "height", req.Height, "round", req.Round, "err", err)
		return nil
	}
	return proposals
}

// handleGetValue builds a new block atop latestBlock via the
// execution engine and returns it as the value to propose (§4.1, §4.3
// generate_block).
func (h *Handler) handleGetValue(ctx context.Context, req GetValueRequest) LocallyProposedValue {
	reqCtx := ctx
	var cancel context.CancelFunc
	if req.Timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	payload, err := h.engine.GeneratePayload(reqCtx, h.latestBlock, h.cfg.FeeRecipient)
	if err != nil {
		h.logger.Error("generate_block failed", "height", req.Height, "round", req.Round, "err", err)
		return LocallyProposedValue{Height: req.Height, Round: req.Round}
	}

	extension, err := marshalPayload(payload)
	if err != nil {
		h.logger.Error("failed to encode generated payload", "err", err)
		return LocallyProposedValue{Height: req.Height, Round: req.Round}
	}

	proposer := h.signer.Address()
	value := types.Value{Height: req.Height, Round: req.Round, Proposer: proposer, Extension: extension}
	id := value.ID()

	if err := h.store.PutUndecidedBlockData(req.Height, req.Round, id, extension); err != nil {
		h.logger.Error("failed to persist locally-built block data", "err", err)
	}

	proposal := types.Proposal{
		Height:     req.Height,
		Round:      req.Round,
		ValidRound: types.NilRound,
		Proposer:   proposer,
		Value:      value,
		Validity:   types.Valid,
	}
	if err := h.store.PutUndecidedProposal(req.Height, req.Round, id, proposal); err != nil {
		h.logger.Error("failed to persist locally-built proposal", "err", err)
	}

	h.nonce++
	streamID := types.NewStreamID(req.Height, req.Round, h.nonce)
	messages, err := streaming.BuildOutboundStream(streamID, req.Height, req.Round, types.NilRound, proposer, value, h.signer)
	if err != nil {
		h.logger.Error("failed to build outbound proposal stream", "height", req.Height, "round", req.Round, "err", err)
	} else {
		for _, msg := range messages {
			h.outbox.Publish(ctx, msg)
		}
	}

	return LocallyProposedValue{Height: req.Height, Round: req.Round, Value: value, ValueID: id}
}

// handleReceivedProposalPart feeds an inbound part into the
// reassembler, and once a stream completes, either buffers it as a
// pending future-height proposal or validates and surfaces it as the
// current round's proposal (§4.2).
func (h *Handler) handleReceivedProposalPart(ctx context.Context, req ReceivedProposalPartRequest) *types.Proposal {
	completed, err := h.reassembler.AddPart(req.From, req.Part)
	if err != nil {
		h.logger.Error("failed to reassemble proposal part", "from", req.From, "err", err)
		return nil
	}
	if completed == nil {
		return nil
	}

	if completed.Init.Height > h.height {
		if err := h.bufferPending(*completed); err != nil {
			h.logger.Error("failed to buffer pending proposal parts", "height", completed.Init.Height, "err", err)
		}
		return nil
	}

	proposal, raw, err := h.assembleProposal(*completed)
	if err != nil {
		h.logger.Error("failed to assemble proposal", "height", completed.Init.Height, "err", err)
		return nil
	}

	proposal = h.validateAndStore(ctx, proposal, raw)
	if proposal.Validity == types.Invalid {
		h.logger.Warn("received proposal with invalid execution payload, ignoring", "height", proposal.Height, "round", proposal.Round)
		return nil
	}
	return &proposal
}

// handleDecided commits the decided value through the execution
// engine and the durable store, advances height/round state, and
// refreshes the active validator set (§4.1, I1, I5).
func (h *Handler) handleDecided(ctx context.Context, req DecidedRequest) NextStart {
	cert := req.Certificate

	raw, err := h.store.GetUndecidedBlockData(cert.Height, cert.Round, cert.ValueID)
	if err != nil {
		fatal.Fatal("decided: missing undecided block data", "height", cert.Height, "round", cert.Round, "err", err)
		return NextStart{Height: h.height, ValidatorSet: h.validatorSet.Clone()}
	}

	execPayload, err := decodeSSZPayload(raw)
	if err != nil {
		fatal.Fatal("decided: failed to decode payload", "height", cert.Height, "err", err)
		return NextStart{Height: h.height, ValidatorSet: h.validatorSet.Clone()}
	}
	if execPayload.ParentHash != h.latestBlock.BlockHash {
		h.logger.Error("decided: parent_hash mismatch", "height", cert.Height, "want", h.latestBlock.BlockHash, "got", execPayload.ParentHash)
	}

	gethPayload := toExecutableData(execPayload)

	if verdict, ok := h.cache.Get(gethPayload.BlockHash); !ok || verdict.Valid {
		if status, err := h.engine.NewPayload(ctx, gethPayload, nil, common.Hash{}); err != nil || status.Status != appengine.StatusValid {
			fatal.Fatal("decided: newPayload rejected a value already committed by consensus", "height", cert.Height, "status", status.Status, "err", err)
			return NextStart{Height: h.height, ValidatorSet: h.validatorSet.Clone()}
		} else {
			h.cache.Put(gethPayload.BlockHash, cache.Verdict{Valid: true})
		}
	}

	fc, err := h.engine.ForkchoiceUpdated(ctx, gethPayload.BlockHash, nil)
	if err != nil || fc.Status != appengine.StatusValid {
		fatal.Fatal("decided: forkchoiceUpdated failed to finalize committed value", "height", cert.Height, "status", fc.Status, "err", err)
		return NextStart{Height: h.height, ValidatorSet: h.validatorSet.Clone()}
	}

	value := types.Value{Height: cert.Height, Round: cert.Round, Proposer: execPayload.feeRecipientAddress(), Extension: raw}
	header := execPayload.Header()
	headerBytes, err := header.MarshalSSZ()
	if err != nil {
		h.logger.Error("decided: failed to encode header", "err", err)
	}

	if err := h.store.CommitDecided(cert.Height, cert, value, headerBytes); err != nil {
		fatal.Fatal("decided: failed to commit decided value to durable store", "height", cert.Height, "err", err)
		return NextStart{Height: h.height, ValidatorSet: h.validatorSet.Clone()}
	}
	if err := h.store.PutDecidedBlockData(cert.Height, raw); err != nil {
		h.logger.Error("decided: failed to persist block data", "height", cert.Height, "err", err)
	}

	metrics := map[string]uint64{
		"transaction_count": uint64(len(execPayload.Transactions)),
		"chain_byte_size":   uint64(len(raw)),
	}
	if !h.lastDecided.IsZero() {
		metrics["elapsed_seconds"] = uint64(time.Since(h.lastDecided) / time.Second)
	}
	_ = h.store.IncrementMetrics(metrics)

	if h.cfg.RetainBlocks > 0 && cert.Height > h.cfg.RetainBlocks {
		if err := h.store.Prune(cert.Height-h.cfg.RetainBlocks, false); err != nil {
			h.logger.Error("decided: prune failed", "err", err)
		}
	}

	newSet, err := h.validators.ReadAt(ctx, gethPayload.BlockHash)
	if err != nil {
		h.logger.Error("decided: failed to refresh validator set, keeping previous", "err", err)
		newSet = h.validatorSet
	}

	h.enforceMinBlockTime()

	h.latestBlock = types.ExecutionBlockFromPayload(gethPayload)
	h.validatorSet = newSet
	h.height = cert.Height + 1
	h.round = 0
	h.lastDecided = time.Now()

	h.promotePending(h.height)

	return NextStart{Height: h.height, ValidatorSet: h.validatorSet.Clone()}
}

// enforceMinBlockTime blocks until MinBlockTime has elapsed since the
// previous decision, the backpressure rule in §4.1.
func (h *Handler) enforceMinBlockTime() {
	if h.cfg.MinBlockTime <= 0 || h.lastDecided.IsZero() {
		return
	}
	elapsed := time.Since(h.lastDecided)
	if elapsed < h.cfg.MinBlockTime {
		time.Sleep(h.cfg.MinBlockTime - elapsed)
	}
}

// promotePending moves any proposal streams buffered for the newly
// reached height into undecided_proposals, so StartedRound's replay
// can surface them immediately.
func (h *Handler) promotePending(height types.Height) {
	pending, err := h.store.PendingPartsAtHeight(height)
	if err != nil {
		h.logger.Error("failed to load pending parts", "height", height, "err", err)
		return
	}
	for _, p := range pending {
		completed := streaming.CompletedStream{
			Init:  types.PartInit{Height: p.Height, Round: p.Round, Proposer: p.Proposer},
			Parts: p.Parts,
		}
		proposal, raw, err := h.assembleProposal(completed)
		if err != nil {
			h.logger.Error("failed to assemble promoted proposal", "height", p.Height, "err", err)
			continue
		}
		h.validateAndStore(context.Background(), proposal, raw)
	}
}

// bufferPending persists a completed stream addressed to a height
// ahead of the current one, held verbatim until Decided advances to
// it (§3 lifecycles).
func (h *Handler) bufferPending(completed streaming.CompletedStream) error {
	pending := types.PendingProposalParts{
		Height:   completed.Init.Height,
		Round:    completed.Init.Round,
		Proposer: completed.Init.Proposer,
		Parts:    completed.Parts,
	}
	h.nonce++
	return h.store.PutPendingParts(h.nonce, pending)
}

// assembleProposal concatenates a completed stream's Data parts into
// the value extension, checks the proposer and the Fin signature
// against the active validator set, and produces an as-yet-unvalidated
// Proposal plus the raw extension bytes. The proposer check is skipped
// when the set yields no expected proposer (it is empty, or the
// selected entry's key does not parse); the signature check is skipped
// when the stream has no Fin signature or the proposer's key is not in
// the set.
func (h *Handler) assembleProposal(completed streaming.CompletedStream) (types.Proposal, []byte, error) {
	var extension []byte
	var chunks [][]byte
	var finSig []byte
	for _, part := range completed.Parts {
		switch {
		case part.Data != nil:
			chunks = append(chunks, part.Data.Bytes)
			extension = append(extension, part.Data.Bytes...)
		case part.Fin != nil:
			finSig = part.Fin.Signature
		}
	}

	expected, err := h.expectedProposer(completed.Init)
	if err == nil && expected != completed.Init.Proposer {
		return types.Proposal{}, nil, fmt.Errorf("handler: proposer %s does not match expected proposer %s at height %d round %d",
			completed.Init.Proposer, expected, completed.Init.Height, completed.Init.Round)
	}

	if finSig != nil {
		digest := signing.FinDigest(completed.Init.Height, completed.Init.Round, chunks)
		publicKey, pkErr := h.publicKeyFor(completed.Init.Proposer)
		if pkErr == nil && !h.signer.Verify(digest, finSig, publicKey) {
			return types.Proposal{}, nil, fmt.Errorf("handler: fin signature verification failed for height %d round %d", completed.Init.Height, completed.Init.Round)
		}
	}

	value := types.Value{Height: completed.Init.Height, Round: completed.Init.Round, Proposer: completed.Init.Proposer, Extension: extension}
	proposal := types.Proposal{
		Height:     completed.Init.Height,
		Round:      completed.Init.Round,
		ValidRound: completed.Init.PolRound,
		Proposer:   completed.Init.Proposer,
		Value:      value,
	}
	return proposal, extension, nil
}

func (h *Handler) expectedProposer(init types.PartInit) (common.Address, error) {
	return h.validatorSet.Proposer(init.Height, init.Round)
}

func (h *Handler) publicKeyFor(address common.Address) ([]byte, error) {
	for _, v := range h.validatorSet.Validators {
		a, err := v.Address()
		if err == nil && a == address {
			return v.PublicKey, nil
		}
	}
	return nil, fmt.Errorf("handler: proposer %s not found in active validator set", address)
}

// validateAndStore runs the execution payload through newPayload
// (validation only, via the cache), and persists the proposal as
// undecided only when the verdict is Valid: an invalid execution
// payload is dropped rather than stored, matching
// state.rs's handling of ReceivedProposalPart and app.rs's handling
// of ProcessSyncedValue (neither persists an Invalid value). It
// returns proposal with Validity set, since the field is otherwise
// silently lost across the by-value call.
func (h *Handler) validateAndStore(ctx context.Context, proposal types.Proposal, raw []byte) types.Proposal {
	proposal.Validity = h.validatePayload(ctx, raw)
	if proposal.Validity == types.Invalid {
		return proposal
	}

	id := proposal.Value.ID()
	if err := h.store.PutUndecidedBlockData(proposal.Height, proposal.Round, id, raw); err != nil {
		h.logger.Error("failed to persist proposal block data", "err", err)
	}
	if err := h.store.PutUndecidedProposal(proposal.Height, proposal.Round, id, proposal); err != nil {
		h.logger.Error("failed to persist proposal", "err", err)
	}
	return proposal
}

// validatePayload decodes raw as an execution payload and runs it
// through newPayload (via the validation cache), returning the
// verdict without any store side effects.
func (h *Handler) validatePayload(ctx context.Context, raw []byte) types.Validity {
	execPayload, err := decodeSSZPayload(raw)
	if err != nil {
		return types.Invalid
	}
	gethPayload := toExecutableData(execPayload)
	if execPayload.ParentHash != h.latestBlock.BlockHash {
		return types.Invalid
	}
	if verdict, ok := h.cache.Get(gethPayload.BlockHash); ok {
		return validityFromVerdict(verdict)
	}
	status, err := h.engine.NewPayload(ctx, gethPayload, nil, common.Hash{})
	valid := err == nil && status.Status == appengine.StatusValid
	verdict := cache.Verdict{Valid: valid}
	if err != nil {
		verdict.Err = err.Error()
	}
	h.cache.Put(gethPayload.BlockHash, verdict)
	return validityFromVerdict(verdict)
}

func validityFromVerdict(v cache.Verdict) types.Validity {
	if v.Valid {
		return types.Valid
	}
	return types.Invalid
}

// handleProcessSyncedValue validates a value delivered out-of-band by
// state sync (no streaming involved), per §4.1.
func (h *Handler) handleProcessSyncedValue(ctx context.Context, req ProcessSyncedValueRequest) *types.Proposal {
	value := types.Value{Height: req.Height, Round: req.Round, Proposer: req.Proposer, Extension: req.ValueBytes}
	proposal := types.Proposal{Height: req.Height, Round: req.Round, ValidRound: types.NilRound, Proposer: req.Proposer, Value: value}
	proposal = h.validateAndStore(ctx, proposal, req.ValueBytes)
	return &proposal
}

// handleGetDecidedValue returns a decided value's bytes, reconstructing
// from the pruned header plus an engine-supplied body when the full
// block data is no longer retained (§4.3, P7).
func (h *Handler) handleGetDecidedValue(ctx context.Context, req GetDecidedValueRequest) *types.RawDecidedValue {
	cert, err := h.store.GetCertificate(req.Height)
	if err != nil {
		h.logger.Error("get_decided_value: no certificate", "height", req.Height, "err", err)
		return nil
	}

	if raw, err := h.store.GetBlockData(req.Height); err == nil {
		return &types.RawDecidedValue{ValueBytes: raw, Certificate: cert}
	}

	headerBytes, err := h.store.GetBlockHeader(req.Height)
	if err != nil {
		h.logger.Error("get_decided_value: missing header for pruned height", "height", req.Height, "err", err)
		return nil
	}
	header, err := decodeSSZPayload(headerBytes)
	if err != nil {
		h.logger.Error("get_decided_value: failed to decode header", "height", req.Height, "err", err)
		return nil
	}

	bodies, err := h.engine.GetPayloadBodiesByRange(ctx, uint64(req.Height), 1)
	if err != nil || len(bodies) != 1 || bodies[0] == nil {
		h.logger.Error("get_decided_value: engine could not supply body for pruned height", "height", req.Height, "err", err)
		return nil
	}

	withdrawals := make([]types.Withdrawal, len(bodies[0].Withdrawals))
	for i, w := range bodies[0].Withdrawals {
		withdrawals[i] = types.Withdrawal{Index: w.Index, ValidatorIndex: w.Validator, Amount: w.Amount, Address: w.Address}
	}
	full := types.ExecutionPayload(*header).WithBody(bodies[0].Transactions, withdrawals)
	raw, err := full.MarshalSSZ()
	if err != nil {
		h.logger.Error("get_decided_value: failed to re-encode reconstructed value", "height", req.Height, "err", err)
		return nil
	}
	return &types.RawDecidedValue{ValueBytes: raw, Certificate: cert}
}

func (h *Handler) handleGetHistoryMinHeight() types.Height {
	height, found, err := h.store.EarliestCertificateHeight()
	if err != nil || !found {
		return 0
	}
	return height
}

// marshalPayload converts an Engine-API payload into its SSZ wire
// form, the Value extension bytes (§3, §4.3).
func marshalPayload(p *gethengine.ExecutableData) ([]byte, error) {
	payload := types.ExecutionPayload(*fromExecutableData(p))
	return payload.MarshalSSZ()
}

// DecodePayload decodes a stored SSZ payload into its Engine-API
// shape, used as bootstrap.PayloadDecoder so replay and the handler
// share one wire-format implementation.
func DecodePayload(raw []byte) (*gethengine.ExecutableData, error) {
	p, err := decodeSSZPayload(raw)
	if err != nil {
		return nil, err
	}
	return toExecutableData(p), nil
}

func decodeSSZPayload(raw []byte) (*sszPayload, error) {
	var p types.ExecutionPayload
	if err := p.UnmarshalSSZ(raw); err != nil {
		return nil, err
	}
	return (*sszPayload)(&p), nil
}

// sszPayload adds the handler-local helpers layered on
// types.ExecutionPayload without polluting the types package with
// Engine-API conversions.
type sszPayload types.ExecutionPayload

func (p *sszPayload) feeRecipientAddress() common.Address { return common.Address(p.FeeRecipient) }

func (p *sszPayload) Header() types.ExecutionPayload {
	return types.ExecutionPayload(*p).Header()
}

func fromExecutableData(p *gethengine.ExecutableData) *sszPayload {
	out := &types.ExecutionPayload{
		BlockNumber:   p.Number,
		GasLimit:      p.GasLimit,
		GasUsed:       p.GasUsed,
		Timestamp:     p.Timestamp,
		ExtraData:     p.ExtraData,
		Transactions:  p.Transactions,
		BlobGasUsed:   derefUint64(p.BlobGasUsed),
		ExcessBlobGas: derefUint64(p.ExcessBlobGas),
	}
	out.ParentHash = p.ParentHash
	out.FeeRecipient = p.FeeRecipient
	out.StateRoot = p.StateRoot
	out.ReceiptsRoot = p.ReceiptsRoot
	copy(out.LogsBloom[:], p.LogsBloom)
	out.PrevRandao = p.Random
	out.BlockHash = p.BlockHash
	if p.BaseFeePerGas != nil {
		p.BaseFeePerGas.FillBytes(out.BaseFeePerGas[:])
	}
	out.Withdrawals = make([]types.Withdrawal, len(p.Withdrawals))
	for i, w := range p.Withdrawals {
		out.Withdrawals[i] = types.Withdrawal{Index: w.Index, ValidatorIndex: w.Validator, Address: w.Address, Amount: w.Amount}
	}
	return (*sszPayload)(out)
}

func toExecutableData(p *sszPayload) *gethengine.ExecutableData {
	withdrawals := make([]*gethtypes.Withdrawal, len(p.Withdrawals))
	for i, w := range p.Withdrawals {
		withdrawals[i] = &gethtypes.Withdrawal{Index: w.Index, Validator: w.ValidatorIndex, Address: w.Address, Amount: w.Amount}
	}
	blobGasUsed := p.BlobGasUsed
	excessBlobGas := p.ExcessBlobGas
	return &gethengine.ExecutableData{
		ParentHash:    common.Hash(p.ParentHash),
		FeeRecipient:  common.Address(p.FeeRecipient),
		StateRoot:     common.Hash(p.StateRoot),
		ReceiptsRoot:  common.Hash(p.ReceiptsRoot),
		LogsBloom:     p.LogsBloom[:],
		Random:        common.Hash(p.PrevRandao),
		Number:        p.BlockNumber,
		GasLimit:      p.GasLimit,
		GasUsed:       p.GasUsed,
		Timestamp:     p.Timestamp,
		ExtraData:     p.ExtraData,
		BaseFeePerGas: bigFromBytes(p.BaseFeePerGas[:]),
		BlockHash:     common.Hash(p.BlockHash),
		Transactions:  p.Transactions,
		Withdrawals:   withdrawals,
		BlobGasUsed:   &blobGasUsed,
		ExcessBlobGas: &excessBlobGas,
	}
}

func derefUint64(p *uint64) uint64 {
	if p == nil {
		return 0
	}
	return *p
}

func bigFromBytes(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}
