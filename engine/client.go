// Package engine implements component D: typed Engine-API calls
// against the execution client, with retry-on-SYNCING and timeout
// semantics (§4.3).
package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/beacon/engine"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/autonity/emerald/internal/log"
	"github.com/autonity/emerald/types"
)

// RequiredCapabilities is the set exchangeCapabilities must confirm
// before ConsensusReady succeeds (§4.3).
var RequiredCapabilities = []string{
	"engine_forkchoiceUpdatedV3",
	"engine_getPayloadV3",
	"engine_newPayloadV3",
	"engine_getPayloadBodiesByHashV1",
	"engine_getPayloadBodiesByRangeV1",
}

// Status enumerates PayloadStatus outcomes, mirrored from the
// Engine-API spec (§4.3).
type Status string

const (
	StatusValid    Status = "VALID"
	StatusInvalid  Status = "INVALID"
	StatusAccepted Status = "ACCEPTED"
	StatusSyncing  Status = "SYNCING"
)

// Client drives the Engine-API JSON-RPC surface over one
// JWT-authenticated RPC connection. Validator-set reads do not go
// through it; they use a separate caller (validators package).
type Client struct {
	rpc    *rpc.Client
	jwt    *jwtTransport
	retry  RetryConfig
	logger log.Logger
}

// Dial connects to the Engine-API authrpc endpoint with JWT bearer
// auth, per §6.
func Dial(ctx context.Context, authrpcURL string, jwtSecret []byte, retry RetryConfig) (*Client, error) {
	transport := newJWTTransport(jwtSecret, http.DefaultTransport)
	httpClient := &http.Client{Transport: transport}

	client, err := rpc.DialOptions(ctx, authrpcURL, rpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("engine: dial %s: %w", authrpcURL, err)
	}
	return &Client{rpc: client, jwt: transport, retry: retry, logger: log.New("component", "engine")}, nil
}

// ReloadJWTSecret swaps the HS256 secret used to sign bearer tokens,
// called from the CLI's SIGHUP handler (SPEC_FULL.md §4).
func (c *Client) ReloadJWTSecret(secret []byte) { c.jwt.ReloadSecret(secret) }

func (c *Client) Close() { c.rpc.Close() }

// ExchangeCapabilities confirms the execution client supports every
// method this application needs, per §4.1 ConsensusReady.
func (c *Client) ExchangeCapabilities(ctx context.Context) error {
	var reported []string
	if err := c.rpc.CallContext(ctx, &reported, "engine_exchangeCapabilities", RequiredCapabilities); err != nil {
		return fmt.Errorf("engine: exchangeCapabilities: %w", err)
	}
	have := make(map[string]bool, len(reported))
	for _, cap := range reported {
		have[cap] = true
	}
	for _, want := range RequiredCapabilities {
		if !have[want] {
			return fmt.Errorf("engine: execution client missing required capability %q", want)
		}
	}
	return nil
}

// ForkchoiceUpdateResult is the decoded reply of forkchoiceUpdated.
type ForkchoiceUpdateResult struct {
	Status          Status
	LatestValidHash common.Hash
	PayloadID       *engine.PayloadID
}

// ForkchoiceUpdated sets head=safe=finalized=head and optionally
// requests payload building via attrs, retrying while the client
// reports SYNCING (§4.3).
func (c *Client) ForkchoiceUpdated(ctx context.Context, head common.Hash, attrs *engine.PayloadAttributes) (ForkchoiceUpdateResult, error) {
	state := engine.ForkchoiceStateV1{
		HeadBlockHash:      head,
		SafeBlockHash:      head,
		FinalizedBlockHash: head,
	}

	return retrySyncing(ctx, c.retry, func() (ForkchoiceUpdateResult, error) {
		var resp engine.ForkChoiceResponse
		if err := c.rpc.CallContext(ctx, &resp, "engine_forkchoiceUpdatedV3", state, attrs); err != nil {
			return ForkchoiceUpdateResult{}, fmt.Errorf("engine: forkchoiceUpdated: %w", err)
		}
		result := ForkchoiceUpdateResult{
			Status:          Status(resp.PayloadStatus.Status),
			LatestValidHash: hashOrZero(resp.PayloadStatus.LatestValidHash),
			PayloadID:       resp.PayloadID,
		}
		return classifyForkchoice(result)
	})
}

func classifyForkchoice(r ForkchoiceUpdateResult) (ForkchoiceUpdateResult, error) {
	switch r.Status {
	case StatusValid:
		return r, nil
	case StatusSyncing:
		return r, errSyncing
	case StatusAccepted:
		return r, errors.New("engine: forkchoiceUpdated returned ACCEPTED, expected instant finality")
	case StatusInvalid:
		return r, errors.New("engine: forkchoiceUpdated returned INVALID")
	default:
		return r, fmt.Errorf("engine: forkchoiceUpdated returned unknown status %q", r.Status)
	}
}

func hashOrZero(h *common.Hash) common.Hash {
	if h == nil {
		return common.Hash{}
	}
	return *h
}

// GetPayload fetches a previously-requested built payload.
func (c *Client) GetPayload(ctx context.Context, id engine.PayloadID) (*engine.ExecutableData, error) {
	var envelope engine.ExecutionPayloadEnvelope
	if err := c.rpc.CallContext(ctx, &envelope, "engine_getPayloadV3", id); err != nil {
		return nil, fmt.Errorf("engine: getPayload: %w", err)
	}
	return envelope.ExecutionPayload, nil
}

// NewPayloadResult is the decoded reply of newPayload.
type NewPayloadResult struct {
	Status          Status
	LatestValidHash common.Hash
}

// NewPayload delivers a block for validation, retrying while SYNCING
// (§4.3).
func (c *Client) NewPayload(ctx context.Context, payload *engine.ExecutableData, blobVersionedHashes []common.Hash, parentBeaconBlockRoot common.Hash) (NewPayloadResult, error) {
	return retrySyncing(ctx, c.retry, func() (NewPayloadResult, error) {
		var status engine.PayloadStatusV1
		if err := c.rpc.CallContext(ctx, &status, "engine_newPayloadV3", payload, blobVersionedHashes, parentBeaconBlockRoot); err != nil {
			return NewPayloadResult{}, fmt.Errorf("engine: newPayload: %w", err)
		}
		result := NewPayloadResult{Status: Status(status.Status), LatestValidHash: hashOrZero(status.LatestValidHash)}
		return classifyNewPayload(result)
	})
}

func classifyNewPayload(r NewPayloadResult) (NewPayloadResult, error) {
	switch r.Status {
	case StatusValid:
		return r, nil
	case StatusSyncing:
		return r, errSyncing
	case StatusAccepted:
		return r, errors.New("engine: newPayload returned ACCEPTED, expected instant finality")
	case StatusInvalid:
		return r, errors.New("engine: newPayload returned INVALID")
	default:
		return r, fmt.Errorf("engine: newPayload returned unknown status %q", r.Status)
	}
}

// GeneratePayload implements §4.3's generate_block: forkchoiceUpdated
// with building attrs, then getPayload, asserting the fork-choice
// reply's latest_valid_hash matches the parent.
func (c *Client) GeneratePayload(ctx context.Context, parent types.ExecutionBlock, feeRecipient common.Address) (*engine.ExecutableData, error) {
	attrs := &engine.PayloadAttributes{
		Timestamp:             parent.Timestamp + 1, // §4.3 timestamp rule
		Random:                parent.PrevRandao,
		SuggestedFeeRecipient: feeRecipient,
		Withdrawals:           []*gethtypes.Withdrawal{},
		BeaconRoot:            &parent.BlockHash,
	}

	result, err := c.ForkchoiceUpdated(ctx, parent.BlockHash, attrs)
	if err != nil {
		return nil, fmt.Errorf("engine: generate_block forkchoiceUpdated: %w", err)
	}
	if result.LatestValidHash != parent.BlockHash {
		return nil, fmt.Errorf("engine: generate_block latest_valid_hash %s != parent %s", result.LatestValidHash, parent.BlockHash)
	}
	if result.PayloadID == nil {
		return nil, errors.New("engine: generate_block forkchoiceUpdated did not return a payload id")
	}

	payload, err := c.GetPayload(ctx, *result.PayloadID)
	if err != nil {
		return nil, fmt.Errorf("engine: generate_block getPayload: %w", err)
	}
	return payload, nil
}

// PayloadBody is the transactions+withdrawals portion of a payload,
// separable from its header (§4.3 "Header/body split").
type PayloadBody struct {
	Transactions [][]byte
	Withdrawals  []*gethtypes.Withdrawal
}

// GetPayloadBodiesByRange fetches bodies for block reconstruction
// during sync reconstruction (§4.3, P7 scenario 7); a nil entry means
// "unavailable".
func (c *Client) GetPayloadBodiesByRange(ctx context.Context, start, count uint64) ([]*PayloadBody, error) {
	var raw []*engine.ExecutionPayloadBodyV1
	if err := c.rpc.CallContext(ctx, &raw, "engine_getPayloadBodiesByRangeV1", hexutil.Uint64(start), hexutil.Uint64(count)); err != nil {
		return nil, fmt.Errorf("engine: getPayloadBodiesByRange: %w", err)
	}
	bodies := make([]*PayloadBody, len(raw))
	for i, r := range raw {
		if r == nil {
			continue
		}
		txs := make([][]byte, len(r.TransactionData))
		for j, tx := range r.TransactionData {
			txs[j] = []byte(tx)
		}
		bodies[i] = &PayloadBody{Transactions: txs, Withdrawals: r.Withdrawals}
	}
	return bodies, nil
}

// GetPayloadBodiesByHash fetches bodies by block hash, the
// capability-checked counterpart of GetPayloadBodiesByRange.
func (c *Client) GetPayloadBodiesByHash(ctx context.Context, hashes []common.Hash) ([]*PayloadBody, error) {
	var raw []*engine.ExecutionPayloadBodyV1
	if err := c.rpc.CallContext(ctx, &raw, "engine_getPayloadBodiesByHashV1", hashes); err != nil {
		return nil, fmt.Errorf("engine: getPayloadBodiesByHash: %w", err)
	}
	bodies := make([]*PayloadBody, len(raw))
	for i, r := range raw {
		if r == nil {
			continue
		}
		txs := make([][]byte, len(r.TransactionData))
		for j, tx := range r.TransactionData {
			txs[j] = []byte(tx)
		}
		bodies[i] = &PayloadBody{Transactions: txs, Withdrawals: r.Withdrawals}
	}
	return bodies, nil
}

