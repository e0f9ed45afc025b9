package controller

import (
	"net/http"
	"strings"

	"github.com/creativeplatform/tokengate/internal/identity"
	"github.com/creativeplatform/tokengate/internal/service"
	"github.com/creativeplatform/tokengate/pkg/models/gate"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// A TokenGateController contains a group name, a `GateService` instance and an
// identity resolver. It also implements the interface `Controller`.
type TokenGateController struct {
	GroupName        string
	GateSvc          service.GateServiceInterface
	IdentityResolver identity.Resolver
}

// GetGroupName returns the group name.
func (c *TokenGateController) GetGroupName() string {
	return c.GroupName
}

// GetEndpointMap implements part of the interface `Controller`. It returns the API endpoints and handlers which are defined and managed by TokenGateController.
func (c *TokenGateController) GetEndpointMap() EndpointMap {
	return EndpointMap{
		urlMethodPair{"token-gate", "GET"}:         []gin.HandlerFunc{c.handleIssueAccessKey},
		urlMethodPair{"token-gate", "POST"}:        []gin.HandlerFunc{c.handleVerifyAccess},
		urlMethodPair{"token-gate/revoke", "POST"}: []gin.HandlerFunc{c.handleRevokeContext},
	}
}

// handleIssueAccessKey serves the issuance path: a cheap, anonymous "mint me a
// context ticket" step. No on-chain check happens here.
func (c *TokenGateController) handleIssueAccessKey(ctx *gin.Context) {
	// Validity check
	pel := &ParameterErrorList{}

	address := pel.AppendIfEmptyOrBlankSpaces(ctx.Query("address"), "The viewer address must not be empty.")
	creatorAddress := pel.AppendIfEmptyOrBlankSpaces(ctx.Query("creatorAddress"), "The creator address must not be empty.")
	tokenID := pel.AppendIfEmptyOrBlankSpaces(ctx.Query("tokenId"), "The token ID must not be empty.")
	contractAddress := pel.AppendIfEmptyOrBlankSpaces(ctx.Query("contractAddress"), "The contract address must not be empty.")
	chain := pel.AppendIfNotPositiveInt(ctx.Query("chain"), "The chain ID must be a positive int.")

	// The wire contract fixes the error body, so the parameter errors go to the log only
	if len(*pel) > 0 {
		log.Debugf("Rejected an issuance request: %v", *pel)
		ctx.AbortWithStatusJSON(http.StatusBadRequest, &gate.Decision{
			Allowed: false,
			Reason:  gate.ReasonMissingFields,
			Message: "Bad request, missing required fields",
		})
		return
	}

	decision := c.GateSvc.Issue(address, &gate.Context{
		CreatorAddress:  creatorAddress,
		TokenID:         tokenID,
		ContractAddress: contractAddress,
		Chain:           chain,
	})

	ctx.JSON(statusForDecision(decision), decision)
}

// handleVerifyAccess serves the verification path: the single point where the
// caller identity and the on-chain ownership are actually checked.
func (c *TokenGateController) handleVerifyAccess(ctx *gin.Context) {
	payload := &gate.VerifyPayload{}
	if err := ctx.ShouldBindJSON(payload); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, &gate.Decision{
			Allowed: false,
			Reason:  gate.ReasonMissingFields,
			Message: "Invalid JSON in request body",
		})
		return
	}

	decision := c.GateSvc.Verify(ctx.Request.Context(), ctx.Request, payload)
	ctx.JSON(statusForDecision(decision), decision)
}

// revocationPayload is the body of a revocation request.
type revocationPayload struct {
	Context *gate.Context `json:"context"`
	Reason  string        `json:"reason"`
}

// handleRevokeContext places a gating context on the denylist. Only the
// authenticated creator of the context may revoke it.
func (c *TokenGateController) handleRevokeContext(ctx *gin.Context) {
	payload := &revocationPayload{}
	if err := ctx.ShouldBindJSON(payload); err != nil || payload.Context == nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, &gate.Decision{
			Allowed: false,
			Reason:  gate.ReasonMissingFields,
			Message: "Bad request, missing required fields",
		})
		return
	}

	session := c.IdentityResolver.Resolve(ctx.Request)
	if !session.Authenticated() {
		ctx.Writer.WriteHeader(http.StatusUnauthorized)
		return
	}

	if !strings.EqualFold(session.Address, payload.Context.CreatorAddress) {
		ctx.Writer.WriteHeader(http.StatusForbidden)
		return
	}

	if err := c.GateSvc.Revoke(payload.Context, payload.Reason); err != nil {
		ctx.String(http.StatusInternalServerError, err.Error())
		return
	}

	ctx.Status(http.StatusOK)
}

// statusForDecision maps a gate decision to its HTTP status. Policy denials
// and infrastructure failures never share a status, so callers can tell "you
// don't qualify" from "we couldn't tell".
func statusForDecision(decision *gate.Decision) int {
	if decision.Allowed {
		return http.StatusOK
	}

	switch decision.Reason {
	case gate.ReasonMissingFields, gate.ReasonInvalidContext:
		return http.StatusBadRequest
	case gate.ReasonUnauthenticated, gate.ReasonKeyMismatch, gate.ReasonRevoked:
		return http.StatusUnauthorized
	case gate.ReasonNotOwned:
		return http.StatusForbidden
	case gate.ReasonChainError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
