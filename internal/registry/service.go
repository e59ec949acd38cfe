package registry

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Service is the pure lookup interface over the chain/token catalog. It has
// no side effects and never fails on "not found", only on malformed input
// at construction time.
type Service interface {
	// FindChain looks a chain up by id.
	FindChain(chainID int64) (Chain, bool)

	// Chains lists every known chain, ordered by id.
	Chains() []Chain

	// ContractAddress resolves the deployment of a token on a chain.
	// Native tokens are always available and have no contract address.
	ContractAddress(token Token, chain Chain) (common.Address, bool)

	// TokensForChain lists the native token plus every ERC-20 token with
	// a registered contract on the chain.
	TokensForChain(chain Chain) []Token
}

type service struct {
	chains    map[int64]Chain
	ordered   []Chain
	tokens    []Token
	contracts ContractRegistry
}

// NewService builds a registry from explicit catalogs. Callers wanting the
// shipped defaults use NewBuiltinService; custom chains are appended to the
// built-in set before calling this.
//
//nolint:ireturn
func NewService(chains []Chain, tokens []Token, contracts ContractRegistry) (Service, error) {
	byID := make(map[int64]Chain, len(chains))
	for _, chain := range chains {
		if chain.ID <= 0 {
			return nil, errors.Errorf("chain %q has invalid id %d", chain.Name, chain.ID)
		}
		if len(chain.RPCURLs) == 0 {
			return nil, errors.Errorf("chain %q has no RPC endpoints", chain.Name)
		}
		if _, dup := byID[chain.ID]; dup {
			return nil, errors.Errorf("duplicate chain id %d", chain.ID)
		}
		byID[chain.ID] = chain
	}

	seen := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		if token.Kind != TokenERC20 {
			return nil, errors.Errorf("catalog token %q must be erc20, native tokens derive from chains", token.Symbol)
		}
		if token.Symbol == "" {
			return nil, errors.New("token with empty symbol")
		}
		if _, dup := seen[token.Symbol]; dup {
			return nil, errors.Errorf("duplicate token symbol %q", token.Symbol)
		}
		seen[token.Symbol] = struct{}{}
	}

	for key, addr := range contracts {
		if _, ok := seen[key.TokenSymbol]; !ok {
			return nil, errors.Errorf("contract entry for unknown token %q", key.TokenSymbol)
		}
		if addr == (common.Address{}) {
			return nil, errors.Errorf("zero contract address for %q on chain %d", key.TokenSymbol, key.ChainID)
		}
	}

	ordered := make([]Chain, len(chains))
	copy(ordered, chains)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	return &service{
		chains:    byID,
		ordered:   ordered,
		tokens:    tokens,
		contracts: contracts,
	}, nil
}

// NewBuiltinService builds the registry from the shipped catalog, optionally
// extended with caller-supplied custom chains.
//
//nolint:ireturn
func NewBuiltinService(customChains ...Chain) (Service, error) {
	return NewService(append(BuiltinChains(), customChains...), BuiltinTokens(), BuiltinContracts())
}

func (s *service) FindChain(chainID int64) (Chain, bool) {
	chain, ok := s.chains[chainID]
	return chain, ok
}

func (s *service) Chains() []Chain {
	out := make([]Chain, len(s.ordered))
	copy(out, s.ordered)
	return out
}

func (s *service) ContractAddress(token Token, chain Chain) (common.Address, bool) {
	switch token.Kind {
	case TokenNative:
		// Always available, no contract involved.
		return common.Address{}, true
	case TokenERC20:
		addr, ok := s.contracts[ContractKey{ChainID: chain.ID, TokenSymbol: token.Symbol}]
		return addr, ok
	default:
		return common.Address{}, false
	}
}

func (s *service) TokensForChain(chain Chain) []Token {
	out := []Token{NativeToken(chain)}
	for _, token := range s.tokens {
		if _, ok := s.contracts[ContractKey{ChainID: chain.ID, TokenSymbol: token.Symbol}]; ok {
			out = append(out, token)
		}
	}
	return out
}

// FindToken resolves a symbol against what is actually available on the
// chain. The empty symbol and the chain's native symbol both select the
// native token.
func FindToken(s Service, chain Chain, symbol string) (Token, bool) {
	if symbol == "" || symbol == chain.Symbol {
		return NativeToken(chain), true
	}
	for _, token := range s.TokensForChain(chain) {
		if token.Kind == TokenERC20 && token.Symbol == symbol {
			return token, true
		}
	}
	return Token{}, false
}
