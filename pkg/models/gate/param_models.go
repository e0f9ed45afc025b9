package gate

// Context identifies the content being gated. All four fields are required;
// a context is assembled once from request parameters and never partially filled.
type Context struct {
	CreatorAddress  string `json:"creatorAddress"`  // Owner of the gating token/collection
	TokenID         string `json:"tokenId"`         // Token within the contract (decimal string, ERC-1155 style)
	ContractAddress string `json:"contractAddress"` // Token contract to query
	Chain           int    `json:"chain"`           // Network on which the contract lives
}

// VerifyPayload is the body of a verification request.
type VerifyPayload struct {
	AccessKey string   `json:"accessKey"` // The key minted at issuance time
	Context   *Context `json:"context"`   // The gating context the key was minted for
	Timestamp int64    `json:"timestamp"` // Client clock, advisory only. The server time bucket is authoritative.
}

// Session is the resolved caller identity. An empty address means unauthenticated.
type Session struct {
	Address string `json:"address"`
}

// Authenticated reports whether the session carries a wallet address.
func (s *Session) Authenticated() bool {
	return s != nil && s.Address != ""
}
