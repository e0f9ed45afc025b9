package errorcode

import "fmt"

const (
	// CodeInvalidContext marks a gating context that failed validation. It is decided locally and never involves the chain.
	CodeInvalidContext = "~INVALIDCONTEXT~"
	// CodeUnauthenticated marks a request whose session carries no wallet address.
	CodeUnauthenticated = "~UNAUTHENTICATED~"
	// CodeKeyMismatch marks a presented access key that matches neither the current nor the previous time bucket.
	CodeKeyMismatch = "~KEYMISMATCH~"
	// CodeRevoked marks a gating context present on the revocation denylist.
	CodeRevoked = "~REVOKED~"
	// CodeNotOwned marks a successful balance query that returned zero. It is a policy denial, not a failure.
	CodeNotOwned = "~NOTOWNED~"
	// CodeChainUnreachable marks an RPC timeout or transport failure. It never means "not owned"; callers may retry.
	CodeChainUnreachable = "~CHAINUNREACHABLE~"
	// CodeInvalidChain marks a chain ID with no configured RPC endpoint.
	CodeInvalidChain = "~INVALIDCHAIN~"
	// CodeNotFound marks a record that does not exist in the local database.
	CodeNotFound = "~NOTFOUND~"
)

// ErrorInvalidContext is the error instance that uses `CodeInvalidContext`.
var ErrorInvalidContext = fmt.Errorf(CodeInvalidContext)

// ErrorUnauthenticated is the error instance that uses `CodeUnauthenticated`.
var ErrorUnauthenticated = fmt.Errorf(CodeUnauthenticated)

// ErrorKeyMismatch is the error instance that uses `CodeKeyMismatch`.
var ErrorKeyMismatch = fmt.Errorf(CodeKeyMismatch)

// ErrorRevoked is the error instance that uses `CodeRevoked`.
var ErrorRevoked = fmt.Errorf(CodeRevoked)

// ErrorNotOwned is the error instance that uses `CodeNotOwned`.
var ErrorNotOwned = fmt.Errorf(CodeNotOwned)

// ErrorChainUnreachable is the error instance that uses `CodeChainUnreachable`.
var ErrorChainUnreachable = fmt.Errorf(CodeChainUnreachable)

// ErrorInvalidChain is the error instance that uses `CodeInvalidChain`.
var ErrorInvalidChain = fmt.Errorf(CodeInvalidChain)

// ErrorNotFound is the error instance that uses `CodeNotFound`.
var ErrorNotFound = fmt.Errorf(CodeNotFound)
