// Package cache implements component A: deduplicating expensive
// engine-side payload validation keyed by execution-payload hash.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ethereum/go-ethereum/common"
)

// Verdict is the cached outcome of validating a payload with the
// execution engine.
type Verdict struct {
	Valid bool
	Err   string // non-empty only when Valid is false and the engine gave a reason
}

// ValidationCache memoizes newPayload verdicts by block hash, avoiding
// repeated engine round-trips for a payload already seen (e.g. when
// both a proposer's stream and a direct sync fetch deliver the same
// block).
type ValidationCache struct {
	lru *lru.Cache[common.Hash, Verdict]
}

// NewValidationCache builds a bounded LRU cache of the given size.
func NewValidationCache(size int) (*ValidationCache, error) {
	c, err := lru.New[common.Hash, Verdict](size)
	if err != nil {
		return nil, err
	}
	return &ValidationCache{lru: c}, nil
}

func (c *ValidationCache) Get(hash common.Hash) (Verdict, bool) {
	return c.lru.Get(hash)
}

func (c *ValidationCache) Put(hash common.Hash, verdict Verdict) {
	c.lru.Add(hash, verdict)
}

func (c *ValidationCache) Len() int { return c.lru.Len() }
