package entitlement

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/creativeplatform/tokengate/pkg/models/gate"
)

type cacheEntry struct {
	result    *gate.EntitlementResult
	expiresAt time.Time
}

// CachedChecker wraps a Checker with a TTL cache keyed by
// (chain, contract, tokenId, holder). It absorbs bursts of repeated
// verification calls, such as a player retrying segment requests, without
// re-querying the chain each time. The TTL should stay in the range of
// seconds so a wallet that just acquired or sold the token sees the effect
// within one cache lifetime.
//
// Only successful lookups populate the cache. A failed or cancelled query is
// returned as-is and leaves the cache untouched.
type CachedChecker struct {
	inner   Checker
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewCachedChecker wraps `inner` with a cache of the given TTL.
func NewCachedChecker(inner Checker, ttl time.Duration) *CachedChecker {
	return &CachedChecker{
		inner:   inner,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// CheckOwnership serves the result from the cache when a live entry exists and
// delegates to the wrapped checker otherwise.
func (c *CachedChecker) CheckOwnership(ctx context.Context, chainID int, contractAddress string, tokenID string, holderAddress string) (*gate.EntitlementResult, error) {
	key := fmt.Sprintf("%v|%v|%v|%v", chainID, contractAddress, tokenID, holderAddress)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.result, nil
	}

	result, err := c.inner.CheckOwnership(ctx, chainID, contractAddress, tokenID, holderAddress)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{result: result, expiresAt: time.Now().Add(c.ttl)}
	// Expired entries for other tuples are dropped opportunistically; the key
	// space is small enough that no further eviction policy is needed.
	for k, e := range c.entries {
		if time.Now().After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()

	return result, nil
}
