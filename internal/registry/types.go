package registry

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Chain describes one EVM network. Values are immutable after construction;
// they come either from the built-in catalog or from a caller-supplied
// custom chain.
type Chain struct {
	ID       int64
	Name     string
	Symbol   string // native currency symbol
	Decimals uint8  // native currency decimals
	// RPCURLs is the ordered endpoint list: primary first, then fallbacks.
	RPCURLs []string
	// ExplorerTxFormat is a printf template with a single %s for the
	// transaction hash, e.g. "https://etherscan.io/tx/%s".
	ExplorerTxFormat string
}

// PrimaryRPC returns the first configured endpoint.
func (c Chain) PrimaryRPC() string {
	if len(c.RPCURLs) == 0 {
		return ""
	}
	return c.RPCURLs[0]
}

// ExplorerTxURL renders the explorer link for a transaction hash.
func (c Chain) ExplorerTxURL(txHash string) string {
	if c.ExplorerTxFormat == "" {
		return ""
	}
	return fmt.Sprintf(c.ExplorerTxFormat, txHash)
}

// TokenKind is the token variant tag. Every switch over it must handle all
// variants; adding a standard later is a compile-visible change.
type TokenKind uint8

const (
	// TokenNative is the chain's own currency.
	TokenNative TokenKind = iota + 1
	// TokenERC20 is a fungible token contract.
	TokenERC20
)

func (k TokenKind) String() string {
	switch k {
	case TokenNative:
		return "native"
	case TokenERC20:
		return "erc20"
	default:
		return "invalid"
	}
}

// Token is chain-agnostic: it never carries a contract address. The
// (chain, token) to contract mapping lives in the ContractRegistry.
type Token struct {
	Kind     TokenKind
	Symbol   string
	Name     string
	Decimals uint8
	// DefaultGasLimit is the static fallback used when gas estimation
	// fails.
	DefaultGasLimit uint64
}

// nativeTransferGasLimit is the fixed cost of a plain value transfer.
const nativeTransferGasLimit = 21000

// NativeToken builds the native-currency token for a chain.
func NativeToken(chain Chain) Token {
	return Token{
		Kind:            TokenNative,
		Symbol:          chain.Symbol,
		Name:            chain.Name,
		Decimals:        chain.Decimals,
		DefaultGasLimit: nativeTransferGasLimit,
	}
}

// ContractKey identifies one (chain, token) deployment.
type ContractKey struct {
	ChainID     int64
	TokenSymbol string
}

// ContractRegistry maps (chain id, token symbol) to the deployed contract
// address. Absence means the token is unavailable on that chain, not an
// error.
type ContractRegistry map[ContractKey]common.Address
