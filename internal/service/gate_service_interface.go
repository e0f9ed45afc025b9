package service

import (
	"context"
	"net/http"

	"github.com/creativeplatform/tokengate/pkg/models/gate"
)

// GateServiceInterface defines the operations of the token gate evaluator.
type GateServiceInterface interface {
	// Issue validates the gating context and mints an access key for it. The
	// viewer address participates in auditing only; issuance performs no
	// on-chain check.
	Issue(viewerAddress string, gatingCtx *gate.Context) *gate.Decision

	// Verify re-derives the expected key, resolves the caller identity from
	// the request and checks the live on-chain entitlement, combining the
	// results into a single terminal decision.
	Verify(reqCtx context.Context, r *http.Request, payload *gate.VerifyPayload) *gate.Decision

	// Revoke places a gating context on the denylist, invalidating every
	// outstanding key for it ahead of the time-bucket expiry.
	Revoke(gatingCtx *gate.Context, reason string) error
}
