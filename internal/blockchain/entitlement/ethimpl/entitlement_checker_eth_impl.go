package ethimpl

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/creativeplatform/tokengate/pkg/errorcode"
	"github.com/creativeplatform/tokengate/pkg/models/gate"
	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// The only contract surface the gate needs: ERC-1155 balanceOf.
const erc1155ABI = `[{
	"inputs": [
		{ "name": "_owner", "type": "address" },
		{ "name": "_id", "type": "uint256" }
	],
	"name": "balanceOf",
	"outputs": [{ "name": "", "type": "uint256" }],
	"stateMutability": "view",
	"type": "function"
}]`

// DefaultRPCTimeout bounds a single balance query. A hung RPC must resolve to
// a chain error, not block the verification.
const DefaultRPCTimeout = 15 * time.Second

// EntitlementCheckerEthImpl queries ERC-1155 balances over JSON-RPC. It holds
// one client per supported chain ID; a lookup with any other chain ID fails
// with `errorcode.ErrorInvalidChain`.
type EntitlementCheckerEthImpl struct {
	clients     map[int]*ethclient.Client
	contractABI abi.ABI
	rpcTimeout  time.Duration
}

// NewEntitlementCheckerEthImpl constructs a checker over the given per-chain
// clients. A non-positive rpcTimeout falls back to DefaultRPCTimeout.
func NewEntitlementCheckerEthImpl(clients map[int]*ethclient.Client, rpcTimeout time.Duration) (*EntitlementCheckerEthImpl, error) {
	if len(clients) == 0 {
		return nil, errors.New("at least one chain RPC client must be configured")
	}

	contractABI, err := abi.JSON(strings.NewReader(erc1155ABI))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse the ERC-1155 ABI")
	}

	if rpcTimeout <= 0 {
		rpcTimeout = DefaultRPCTimeout
	}

	return &EntitlementCheckerEthImpl{
		clients:     clients,
		contractABI: contractABI,
		rpcTimeout:  rpcTimeout,
	}, nil
}

// CheckOwnership performs a read-only `balanceOf(holder, tokenId)` call on the
// specified chain and reports whether the balance is non-zero.
func (c *EntitlementCheckerEthImpl) CheckOwnership(ctx context.Context, chainID int, contractAddress string, tokenID string, holderAddress string) (*gate.EntitlementResult, error) {
	client, ok := c.clients[chainID]
	if !ok {
		return nil, errors.Wrapf(errorcode.ErrorInvalidChain, "no RPC endpoint configured for chain %v", chainID)
	}

	id, ok := new(big.Int).SetString(tokenID, 10)
	if !ok {
		return nil, errors.Wrapf(errorcode.ErrorInvalidContext, "token ID %q is not a decimal integer", tokenID)
	}

	callData, err := c.contractABI.Pack("balanceOf", common.HexToAddress(holderAddress), id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode the balance query")
	}

	contract := common.HexToAddress(contractAddress)
	callCtx, cancel := context.WithTimeout(ctx, c.rpcTimeout)
	defer cancel()

	returnData, err := client.CallContract(callCtx, ethereum.CallMsg{
		To:   &contract,
		Data: callData,
	}, nil)
	if err != nil {
		log.WithError(err).Warnf("Balance query against chain %v failed", chainID)
		return nil, errors.Wrap(errorcode.ErrorChainUnreachable, err.Error())
	}

	outputs, err := c.contractABI.Unpack("balanceOf", returnData)
	if err != nil || len(outputs) != 1 {
		return nil, errors.Wrap(errorcode.ErrorChainUnreachable, "the balance query returned an undecodable result")
	}

	balance, ok := outputs[0].(*big.Int)
	if !ok {
		return nil, errors.Wrap(errorcode.ErrorChainUnreachable, "the balance query returned an unexpected type")
	}

	return &gate.EntitlementResult{
		Balance: balance,
		Owns:    balance.Sign() > 0,
	}, nil
}
