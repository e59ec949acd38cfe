// Package node wraps a single chain RPC endpoint. Read operations are
// point-in-time: failures propagate to the caller with the originating
// operation identified and are never retried here. Only the broadcast
// dispatcher walks the endpoint list.
package node

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"

	"github.com/cardwallet/evm-core/internal/faults"
)

var balanceOfMethodID = common.Hex2Bytes("70a08231")

const abiWordLength = 32

// Client talks to one RPC endpoint.
type Client struct {
	url string
	rpc *rpc.Client
	eth *ethclient.Client
}

// Dial connects to the endpoint. Dial failures are network faults.
func Dial(ctx context.Context, url string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, faults.E(faults.Network, "node.Dial", errors.Wrapf(err, "failed to dial %s", url))
	}
	return &Client{
		url: url,
		rpc: rpcClient,
		eth: ethclient.NewClient(rpcClient),
	}, nil
}

// URL returns the endpoint this client is bound to.
func (c *Client) URL() string {
	return c.url
}

// Close releases the underlying connection.
func (c *Client) Close() {
	c.rpc.Close()
}

// ChainID queries the node's chain id.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	chainID, err := c.eth.ChainID(ctx)
	if err != nil {
		return nil, faults.E(faults.Network, "node.ChainID", err)
	}
	return chainID, nil
}

// PendingNonceAt returns the pending nonce for the given address.
func (c *Client) PendingNonceAt(ctx context.Context, address common.Address) (uint64, error) {
	nonce, err := c.eth.PendingNonceAt(ctx, address)
	if err != nil {
		return 0, faults.E(faults.Network, "node.PendingNonce", err)
	}
	return nonce, nil
}

// SuggestGasPrice returns the node's current gas price.
func (c *Client) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	price, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return nil, faults.E(faults.Network, "node.GasPrice", err)
	}
	return price, nil
}

// EstimateGas estimates the gas cost of the given call.
func (c *Client) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	gas, err := c.eth.EstimateGas(ctx, msg)
	if err != nil {
		return 0, faults.E(faults.Network, "node.EstimateGas", err)
	}
	return gas, nil
}

// BalanceAt returns the native balance of an address at the latest block.
func (c *Client) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	balance, err := c.eth.BalanceAt(ctx, address, nil)
	if err != nil {
		return nil, faults.E(faults.Network, "node.Balance", err)
	}
	return balance, nil
}

// TokenBalance returns the ERC-20 balance of account via a balanceOf call.
func (c *Client) TokenBalance(ctx context.Context, tokenAddress, account common.Address) (*big.Int, error) {
	data := make([]byte, 0, len(balanceOfMethodID)+abiWordLength)
	data = append(data, balanceOfMethodID...)
	data = append(data, common.LeftPadBytes(account.Bytes(), abiWordLength)...)

	resp, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &tokenAddress, Data: data}, nil)
	if err != nil {
		return nil, faults.E(faults.Network, "node.TokenBalance", err)
	}

	return new(big.Int).SetBytes(resp), nil
}

// SendRawTransaction submits an already-encoded transaction and returns the
// node's transaction hash. Node-reported rejections surface as network
// faults just like transport errors.
func (c *Client) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	var txHash common.Hash
	if err := c.rpc.CallContext(ctx, &txHash, "eth_sendRawTransaction", hexutil.Encode(raw)); err != nil {
		return common.Hash{}, faults.E(faults.Network, "node.SendRawTransaction", err)
	}
	return txHash, nil
}
