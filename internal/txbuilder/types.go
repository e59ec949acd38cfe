package txbuilder

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/cardwallet/evm-core/internal/registry"
)

// Intent is one transfer as the orchestration layer hands it over.
type Intent struct {
	Chain registry.Chain
	Token registry.Token

	// From is the card account paying for the transfer.
	From common.Address
	To   common.Address

	// Amount is in human-readable token units.
	Amount decimal.Decimal

	// GasLimitOverride, when non-zero, is used verbatim: no estimate, no
	// buffer, never reduced.
	GasLimitOverride uint64
}

// NodeReader is the subset of node reads the builder needs. Satisfied by
// *node.Client.
type NodeReader interface {
	PendingNonceAt(ctx context.Context, address common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	BalanceAt(ctx context.Context, address common.Address) (*big.Int, error)
	TokenBalance(ctx context.Context, tokenAddress, account common.Address) (*big.Int, error)
}
