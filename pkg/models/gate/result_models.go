package gate

import "math/big"

// EntitlementResult is the outcome of a successful balance query.
// It is fetched fresh (or from a short-lived cache) per verification and never persisted.
type EntitlementResult struct {
	Balance *big.Int `json:"balance"` // Raw ERC-1155 balance
	Owns    bool     `json:"owns"`    // balance > 0
}

// Deny reasons produced by the gate evaluator. Every outcome is terminal;
// retrying is a caller concern.
const (
	ReasonMissingFields   = "MISSING_FIELDS"
	ReasonInvalidContext  = "INVALID_CONTEXT"
	ReasonUnauthenticated = "UNAUTHENTICATED"
	ReasonKeyMismatch     = "KEY_MISMATCH"
	ReasonRevoked         = "REVOKED"
	ReasonNotOwned        = "NOT_OWNED"
	ReasonChainError      = "CHAIN_ERROR"
)

// Decision is the sole output of the gate evaluator. Computed, returned, discarded.
type Decision struct {
	Allowed   bool   `json:"allowed"`
	Reason    string `json:"reason,omitempty"`    // One of the Reason* constants; empty when allowed
	Message   string `json:"message,omitempty"`   // Short human-readable explanation
	AccessKey string `json:"accessKey,omitempty"` // Echoed back only on successful issuance
}
