package main

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/autonity/emerald/contracts"
)

// rpcCaller implements contracts.ContractCaller over the plain eth_*
// JSON-RPC surface (not the authenticated Engine-API one), used for
// validator-set reads (§6).
type rpcCaller struct {
	client *rpc.Client
}

func newRPCCaller(ctx context.Context, addr string) (*rpcCaller, error) {
	client, err := rpc.DialContext(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("emeraldd: dial execution rpc %s: %w", addr, err)
	}
	return &rpcCaller{client: client}, nil
}

// ethCallObject mirrors the eth_call JSON-RPC parameter shape.
type ethCallObject struct {
	To   *common.Address `json:"to"`
	Data hexutil.Bytes   `json:"data"`
}

// CallContract issues eth_call against a specific block hash, via
// EIP-1898's {"blockHash": ...} block parameter.
func (c *rpcCaller) CallContract(ctx context.Context, call contracts.CallMsg, blockHash *common.Hash) ([]byte, error) {
	obj := ethCallObject{To: call.To, Data: call.Data}

	var blockParam interface{} = "latest"
	if blockHash != nil {
		blockParam = map[string]interface{}{"blockHash": *blockHash}
	}

	var result hexutil.Bytes
	if err := c.client.CallContext(ctx, &result, "eth_call", obj, blockParam); err != nil {
		return nil, fmt.Errorf("emeraldd: eth_call: %w", err)
	}
	return result, nil
}

// head reports the execution client's current block number and hash,
// used to detect whether replay is needed at startup (§4.4).
func (c *rpcCaller) head(ctx context.Context) (uint64, common.Hash, error) {
	var block struct {
		Number hexutil.Uint64 `json:"number"`
		Hash   common.Hash    `json:"hash"`
	}
	if err := c.client.CallContext(ctx, &block, "eth_getBlockByNumber", "latest", false); err != nil {
		return 0, common.Hash{}, fmt.Errorf("emeraldd: eth_getBlockByNumber: %w", err)
	}
	return uint64(block.Number), block.Hash, nil
}
