package registry

import "github.com/ethereum/go-ethereum/common"

// Built-in catalog. Chains and tokens are loaded once at process start and
// read-only afterwards; custom chains can be added next to these via
// NewService.

const (
	ChainIDEthereum  = 1
	ChainIDBNBChain  = 56
	ChainIDPolygon   = 137
	ChainIDArbitrum  = 42161
	ChainIDAvalanche = 43114
)

func BuiltinChains() []Chain {
	return []Chain{
		{
			ID:       ChainIDEthereum,
			Name:     "Ethereum",
			Symbol:   "ETH",
			Decimals: 18,
			RPCURLs: []string{
				"https://eth.llamarpc.com",
				"https://rpc.ankr.com/eth",
				"https://cloudflare-eth.com",
			},
			ExplorerTxFormat: "https://etherscan.io/tx/%s",
		},
		{
			ID:       ChainIDBNBChain,
			Name:     "BNB Smart Chain",
			Symbol:   "BNB",
			Decimals: 18,
			RPCURLs: []string{
				"https://bsc-dataseed.bnbchain.org",
				"https://rpc.ankr.com/bsc",
			},
			ExplorerTxFormat: "https://bscscan.com/tx/%s",
		},
		{
			ID:       ChainIDPolygon,
			Name:     "Polygon",
			Symbol:   "POL",
			Decimals: 18,
			RPCURLs: []string{
				"https://polygon-rpc.com",
				"https://rpc.ankr.com/polygon",
			},
			ExplorerTxFormat: "https://polygonscan.com/tx/%s",
		},
		{
			ID:       ChainIDArbitrum,
			Name:     "Arbitrum One",
			Symbol:   "ETH",
			Decimals: 18,
			RPCURLs: []string{
				"https://arb1.arbitrum.io/rpc",
				"https://rpc.ankr.com/arbitrum",
			},
			ExplorerTxFormat: "https://arbiscan.io/tx/%s",
		},
		{
			ID:       ChainIDAvalanche,
			Name:     "Avalanche C-Chain",
			Symbol:   "AVAX",
			Decimals: 18,
			RPCURLs: []string{
				"https://api.avax.network/ext/bc/C/rpc",
				"https://rpc.ankr.com/avalanche",
			},
			ExplorerTxFormat: "https://snowtrace.io/tx/%s",
		},
	}
}

const defaultERC20GasLimit = 100000

func BuiltinTokens() []Token {
	return []Token{
		{Kind: TokenERC20, Symbol: "USDT", Name: "Tether USD", Decimals: 6, DefaultGasLimit: defaultERC20GasLimit},
		{Kind: TokenERC20, Symbol: "USDC", Name: "USD Coin", Decimals: 6, DefaultGasLimit: defaultERC20GasLimit},
		{Kind: TokenERC20, Symbol: "DAI", Name: "Dai Stablecoin", Decimals: 18, DefaultGasLimit: defaultERC20GasLimit},
		{Kind: TokenERC20, Symbol: "WBTC", Name: "Wrapped BTC", Decimals: 8, DefaultGasLimit: defaultERC20GasLimit},
	}
}

func BuiltinContracts() ContractRegistry {
	return ContractRegistry{
		{ChainIDEthereum, "USDT"}: common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"),
		{ChainIDPolygon, "USDT"}:  common.HexToAddress("0xc2132D05D31c914a87C6611C10748AEb04B58e8F"),
		{ChainIDArbitrum, "USDT"}: common.HexToAddress("0xFd086bC7CD5C481DCC9C85ebE478A1C0b69FCbb9"),

		{ChainIDEthereum, "USDC"}:  common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"),
		{ChainIDPolygon, "USDC"}:   common.HexToAddress("0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359"),
		{ChainIDArbitrum, "USDC"}:  common.HexToAddress("0xaf88d065e77c8cC2239327C5EDb3A432268e5831"),
		{ChainIDAvalanche, "USDC"}: common.HexToAddress("0xB97EF9Ef8734C71904D8002F8b6Bc66Dd9c48a6E"),

		{ChainIDEthereum, "DAI"}: common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"),
		{ChainIDPolygon, "DAI"}:  common.HexToAddress("0x8f3Cf7ad23Cd3CaDbD9735AFf958023239c6A063"),
		{ChainIDArbitrum, "DAI"}: common.HexToAddress("0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1"),

		{ChainIDEthereum, "WBTC"}: common.HexToAddress("0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599"),
		{ChainIDPolygon, "WBTC"}:  common.HexToAddress("0x1BFD67037B42Cf73acF2047067bd4F2C47D9BfD6"),
		{ChainIDArbitrum, "WBTC"}: common.HexToAddress("0x2f2a2543B76A4166549F7aaB2e75Bef0aefC5B0f"),
	}
}
