package transfer

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/cardwallet/evm-core/internal/registry"
	"github.com/cardwallet/evm-core/internal/signing"
	"github.com/cardwallet/evm-core/internal/txbuilder"
)

// Request is one transfer as supplied by the presentation layer.
type Request struct {
	// TokenSymbol selects the token; empty means the chain's native
	// currency.
	TokenSymbol string

	// To is the recipient as a 0x-prefixed hex address.
	To string

	// Amount is human-readable, e.g. "1.5".
	Amount string

	// GasLimit, when non-zero, overrides estimation verbatim.
	GasLimit uint64

	// Key selects the card key slot to sign with.
	Key signing.KeyRef
}

// Receipt is the result of a successful broadcast.
type Receipt struct {
	ID          uuid.UUID
	From        common.Address
	TxHash      common.Hash
	ExplorerURL string
}

// ReaderDialer opens a read connection to one endpoint URL. The returned
// close function releases it. Injectable for tests.
type ReaderDialer func(ctx context.Context, url string) (txbuilder.NodeReader, func(), error)

// Service runs the transfer pipeline against the currently selected chain.
type Service interface {
	// SelectChain atomically switches the active chain. Every read a
	// transfer derives from the chain (endpoints, nonce, contract
	// addresses) sees one consistent snapshot.
	SelectChain(chainID int64) error

	// SelectedChain returns the active chain.
	SelectedChain() registry.Chain

	// Transfer executes one pipeline run:
	// Built -> HashComputed -> Signed -> RecoveryResolved -> Encoded ->
	// Broadcast. The first failure halts the run; nothing partially
	// signed or encoded is ever broadcast.
	Transfer(ctx context.Context, req Request) (*Receipt, error)
}
