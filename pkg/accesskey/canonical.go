// This package contains the access-key mechanism of the token gate: the
// canonical serialization of a gating context and the keyed codec that turns
// a canonical context into a time-bucketed access key and verifies one.
package accesskey

import (
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/creativeplatform/tokengate/pkg/errorcode"
	"github.com/creativeplatform/tokengate/pkg/models/gate"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// contextFieldDelimiter joins the canonicalized fields. It is not a legal
// character in an address, a token ID or a chain ID, so two distinct contexts
// can never collide onto the same byte string.
const contextFieldDelimiter = "|"

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{1,40}$`)
var tokenIDPattern = regexp.MustCompile(`^[0-9]+$`)

// CanonicalizeContext serializes a gating context into a stable byte sequence:
// the creator address, contract address, token ID and chain ID in that fixed
// order, joined with `|`. Addresses are normalized to lower case so that
// differently-cased spellings of the same address canonicalize identically,
// and token IDs are normalized to their minimal decimal form.
//
// Returns `errorcode.ErrorInvalidContext` (wrapped) if any field is empty, the
// token ID is not a non-negative integer string or an address fails
// format/checksum validation.
func CanonicalizeContext(ctx *gate.Context) ([]byte, error) {
	if ctx == nil {
		return nil, errors.Wrap(errorcode.ErrorInvalidContext, "the gating context must not be nil")
	}

	creator, err := canonicalizeAddress(ctx.CreatorAddress)
	if err != nil {
		return nil, errors.Wrap(err, "invalid creator address")
	}

	contract, err := canonicalizeAddress(ctx.ContractAddress)
	if err != nil {
		return nil, errors.Wrap(err, "invalid contract address")
	}

	tokenID, err := canonicalizeTokenID(ctx.TokenID)
	if err != nil {
		return nil, err
	}

	if ctx.Chain <= 0 {
		return nil, errors.Wrap(errorcode.ErrorInvalidContext, "the chain ID must be a positive integer")
	}

	fields := []string{creator, contract, tokenID, strconv.Itoa(ctx.Chain)}
	return []byte(strings.Join(fields, contextFieldDelimiter)), nil
}

// canonicalizeAddress validates an address and returns its canonical
// (lower-case) form. A full-length mixed-case address must additionally carry
// a valid EIP-55 checksum; single-case spellings carry no checksum information
// and are accepted as-is.
func canonicalizeAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", errors.Wrap(errorcode.ErrorInvalidContext, "the address must not be empty")
	}

	if !addressPattern.MatchString(address) {
		return "", errors.Wrap(errorcode.ErrorInvalidContext, "the address must be 0x-prefixed hex")
	}

	hexPart := address[2:]
	if len(hexPart) == 2*ethcommon.AddressLength && isMixedCase(hexPart) {
		if ethcommon.HexToAddress(address).Hex() != address {
			return "", errors.Wrap(errorcode.ErrorInvalidContext, "the address failed EIP-55 checksum validation")
		}
	}

	return strings.ToLower(address), nil
}

func canonicalizeTokenID(tokenID string) (string, error) {
	tokenID = strings.TrimSpace(tokenID)
	if !tokenIDPattern.MatchString(tokenID) {
		return "", errors.Wrap(errorcode.ErrorInvalidContext, "the token ID must be a non-negative integer string")
	}

	// "01" and "1" name the same token. Normalize to the minimal decimal form.
	id, ok := new(big.Int).SetString(tokenID, 10)
	if !ok {
		return "", errors.Wrap(errorcode.ErrorInvalidContext, "the token ID must be a non-negative integer string")
	}

	return id.String(), nil
}

func isMixedCase(s string) bool {
	return strings.ToLower(s) != s && strings.ToUpper(s) != s
}
