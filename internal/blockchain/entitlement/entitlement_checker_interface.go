// Package entitlement answers the ownership question of the token gate: does
// a wallet currently hold a non-zero balance of the gating token? It is a
// read-only chain access layer; interpretation beyond the boolean predicate
// is left to the caller.
package entitlement

import (
	"context"

	"github.com/creativeplatform/tokengate/pkg/models/gate"
)

// A Checker performs the balance query for one (chain, contract, token, holder)
// tuple and applies the ownership predicate.
//
// Failure semantics: `errorcode.ErrorInvalidChain` when the chain ID has no
// configured endpoint and `errorcode.ErrorChainUnreachable` when the query
// could not be completed. Both are distinguishable from a successful query
// with a zero balance; "we couldn't check" is never reported as "not owned".
type Checker interface {
	CheckOwnership(ctx context.Context, chainID int, contractAddress string, tokenID string, holderAddress string) (*gate.EntitlementResult, error)
}
