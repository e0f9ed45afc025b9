package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/creativeplatform/tokengate/internal/blockchain/entitlement"
	"github.com/creativeplatform/tokengate/internal/db"
	"github.com/creativeplatform/tokengate/internal/identity"
	"github.com/creativeplatform/tokengate/pkg/accesskey"
	"github.com/creativeplatform/tokengate/pkg/errorcode"
	"github.com/creativeplatform/tokengate/pkg/models/gate"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// GateService combines the identity resolver, the access key codec and the
// entitlement checker into a single allow/deny decision. It is stateless and
// request-scoped; every decision is computed fresh from the inputs.
type GateService struct {
	Codec            *accesskey.Codec
	IdentityResolver identity.Resolver
	Checker          entitlement.Checker
	DB               *gorm.DB // Optional. Enables the audit log and the revocation denylist.
}

// Issue mints an access key for the gating context. The key binds the context
// only, not the viewer; the expensive ownership check happens once, at
// verification time, immediately before the resource is served.
func (s *GateService) Issue(viewerAddress string, gatingCtx *gate.Context) *gate.Decision {
	if strings.TrimSpace(viewerAddress) == "" || !hasAllContextFields(gatingCtx) {
		return &gate.Decision{
			Allowed: false,
			Reason:  gate.ReasonMissingFields,
			Message: "Bad request, missing required fields",
		}
	}

	key, err := s.Codec.Derive(gatingCtx)
	if err != nil {
		return &gate.Decision{
			Allowed: false,
			Reason:  gate.ReasonInvalidContext,
			Message: err.Error(),
		}
	}

	decision := &gate.Decision{
		Allowed:   true,
		AccessKey: key,
	}

	s.audit(db.AuditEventIssuance, viewerAddress, gatingCtx, decision)

	return decision
}

// Verify runs the verification state machine. Every outcome is terminal;
// retrying a transient chain error is a caller concern.
//
// The key check runs before the chain call: a request that fails the cheap,
// local comparison is denied without spending an RPC round-trip. Key validity
// and ownership remain independent facts; the key proves the request matches
// an issued context, the balance proves the wallet currently qualifies, and
// neither substitutes for the other.
func (s *GateService) Verify(reqCtx context.Context, r *http.Request, payload *gate.VerifyPayload) *gate.Decision {
	if payload == nil || payload.AccessKey == "" || !hasAllContextFields(payload.Context) {
		return &gate.Decision{
			Allowed: false,
			Reason:  gate.ReasonMissingFields,
			Message: "Bad request, missing required fields",
		}
	}

	gatingCtx := payload.Context

	session := s.IdentityResolver.Resolve(r)
	if !session.Authenticated() {
		return s.deny(db.AuditEventVerification, "", gatingCtx, gate.ReasonUnauthenticated, "Authentication required")
	}

	matches, err := s.Codec.Verify(gatingCtx, payload.AccessKey)
	if err != nil {
		return s.deny(db.AuditEventVerification, session.Address, gatingCtx, gate.ReasonInvalidContext, err.Error())
	}
	if !matches {
		return s.deny(db.AuditEventVerification, session.Address, gatingCtx, gate.ReasonKeyMismatch, "Access denied")
	}

	if s.isRevoked(gatingCtx) {
		return s.deny(db.AuditEventVerification, session.Address, gatingCtx, gate.ReasonRevoked, "Access denied")
	}

	result, err := s.Checker.CheckOwnership(reqCtx, gatingCtx.Chain, gatingCtx.ContractAddress, gatingCtx.TokenID, session.Address)
	if err != nil {
		if errors.Cause(err) == errorcode.ErrorInvalidChain {
			return s.deny(db.AuditEventVerification, session.Address, gatingCtx, gate.ReasonChainError, "Chain not supported")
		}

		log.WithError(err).Warnln("Verification failed against the chain")
		return s.deny(db.AuditEventVerification, session.Address, gatingCtx, gate.ReasonChainError, "Network error. Unable to verify access.")
	}

	if !result.Owns {
		return s.deny(db.AuditEventVerification, session.Address, gatingCtx, gate.ReasonNotOwned, "Access denied")
	}

	decision := &gate.Decision{
		Allowed: true,
		Message: "Access granted",
	}

	s.audit(db.AuditEventVerification, session.Address, gatingCtx, decision)

	return decision
}

// Revoke places the gating context on the denylist. Requires a configured
// database.
func (s *GateService) Revoke(gatingCtx *gate.Context, reason string) error {
	if s.DB == nil {
		return errors.New("revocation requires a configured database")
	}

	hash, err := hashContext(gatingCtx)
	if err != nil {
		return err
	}

	return db.SaveRevocationToLocalDB(hash, reason, s.DB)
}

func (s *GateService) deny(event string, viewerAddress string, gatingCtx *gate.Context, reason string, message string) *gate.Decision {
	decision := &gate.Decision{
		Allowed: false,
		Reason:  reason,
		Message: message,
	}

	s.audit(event, viewerAddress, gatingCtx, decision)

	return decision
}

// isRevoked consults the denylist. The denylist is an additional safety net on
// top of the time-bucket expiry, so a database outage degrades to the bucket
// granularity instead of taking the gate down.
func (s *GateService) isRevoked(gatingCtx *gate.Context) bool {
	if s.DB == nil {
		return false
	}

	hash, err := hashContext(gatingCtx)
	if err != nil {
		return false
	}

	_, err = db.GetRevocationFromLocalDB(hash, s.DB)
	if err == nil {
		return true
	}
	if errors.Cause(err) != errorcode.ErrorNotFound {
		log.WithError(err).Warnln("Failed to consult the revocation denylist")
	}

	return false
}

func (s *GateService) audit(event string, viewerAddress string, gatingCtx *gate.Context, decision *gate.Decision) {
	if s.DB == nil {
		return
	}

	if err := db.SaveGateAuditEntryToLocalDB(event, viewerAddress, gatingCtx, decision, s.DB); err != nil {
		log.WithError(err).Warnln("Failed to save the gate audit entry")
	}
}

func hasAllContextFields(gatingCtx *gate.Context) bool {
	if gatingCtx == nil {
		return false
	}

	return strings.TrimSpace(gatingCtx.CreatorAddress) != "" &&
		strings.TrimSpace(gatingCtx.ContractAddress) != "" &&
		strings.TrimSpace(gatingCtx.TokenID) != "" &&
		gatingCtx.Chain != 0
}

func hashContext(gatingCtx *gate.Context) (string, error) {
	canonical, err := accesskey.CanonicalizeContext(gatingCtx)
	if err != nil {
		return "", err
	}

	digest := sha256.Sum256(canonical)
	return hex.EncodeToString(digest[:]), nil
}
