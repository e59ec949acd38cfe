// Package transfer wires the registry, builder, signing coordinator,
// recovery resolver, encoder and broadcast dispatcher into the sequential
// per-transfer pipeline.
package transfer

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/cardwallet/evm-core/internal/broadcast"
	"github.com/cardwallet/evm-core/internal/faults"
	"github.com/cardwallet/evm-core/internal/metrics"
	"github.com/cardwallet/evm-core/internal/node"
	"github.com/cardwallet/evm-core/internal/registry"
	"github.com/cardwallet/evm-core/internal/signing"
	"github.com/cardwallet/evm-core/internal/txbuilder"
)

type service struct {
	registry    registry.Service
	builder     txbuilder.Service
	coordinator *signing.Coordinator
	dispatcher  *broadcast.Dispatcher
	signer      signing.CardSigner
	dialReader  ReaderDialer

	// selected is the shared mutable "current chain"; guarded so a
	// transfer never mixes one chain's nonce with another's contracts.
	mu       sync.RWMutex
	selected registry.Chain
}

func defaultReaderDialer(ctx context.Context, url string) (txbuilder.NodeReader, func(), error) {
	client, err := node.Dial(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}

// NewService assembles the pipeline. The signer must be the same instance
// the coordinator drives, since recovery resolution matches against its
// public key. A nil dialReader uses real node connections.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(
	reg registry.Service,
	builder txbuilder.Service,
	coordinator *signing.Coordinator,
	dispatcher *broadcast.Dispatcher,
	signer signing.CardSigner,
	dialReader ReaderDialer,
	initialChainID int64,
) (Service, error) {
	chain, ok := reg.FindChain(initialChainID)
	if !ok {
		return nil, errors.Errorf("unknown initial chain id %d", initialChainID)
	}
	if dialReader == nil {
		dialReader = defaultReaderDialer
	}
	return &service{
		registry:    reg,
		builder:     builder,
		coordinator: coordinator,
		dispatcher:  dispatcher,
		signer:      signer,
		dialReader:  dialReader,
		selected:    chain,
	}, nil
}

func (s *service) SelectChain(chainID int64) error {
	chain, ok := s.registry.FindChain(chainID)
	if !ok {
		return faults.Errorf(faults.Configuration, "transfer.SelectChain", "unknown chain id %d", chainID)
	}

	s.mu.Lock()
	s.selected = chain
	s.mu.Unlock()

	log.Info().Int64("chain_id", chain.ID).Str("chain", chain.Name).Msg("Chain selected")
	return nil
}

func (s *service) SelectedChain() registry.Chain {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

func (s *service) Transfer(ctx context.Context, req Request) (*Receipt, error) {
	// One consistent chain snapshot for the whole run.
	chain := s.SelectedChain()

	receipt, err := s.run(ctx, chain, req)
	outcome := "ok"
	if err != nil {
		outcome = faults.KindOf(err).String()
	}
	metrics.TransfersTotal.WithLabelValues(chain.Name, outcome).Inc()
	return receipt, err
}

//nolint:funlen // The pipeline is a deliberate straight line through every state.
func (s *service) run(ctx context.Context, chain registry.Chain, req Request) (*Receipt, error) {
	transferID := uuid.New()
	logger := log.With().
		Str("transfer_id", transferID.String()).
		Str("chain", chain.Name).
		Logger()

	if !common.IsHexAddress(req.To) {
		return nil, faults.Errorf(faults.Validation, "transfer.Transfer", "malformed recipient address %q", req.To)
	}
	to := common.HexToAddress(req.To)

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, faults.E(faults.Validation, "transfer.Transfer",
			errors.Wrapf(err, "malformed amount %q", req.Amount))
	}

	token, ok := registry.FindToken(s.registry, chain, req.TokenSymbol)
	if !ok {
		return nil, faults.Errorf(faults.Configuration, "transfer.Transfer",
			"token %q is not available on chain %s", req.TokenSymbol, chain.Name)
	}

	// The card account is derived from the card's public key, never
	// supplied by the caller.
	cardPub, err := s.signer.PublicKey(ctx, req.Key)
	if err != nil {
		return nil, faults.E(faults.Cryptographic, "transfer.Transfer",
			errors.Wrap(err, "failed to read card public key"))
	}
	rawPub, err := signing.NormalizePublicKey(cardPub)
	if err != nil {
		return nil, faults.E(faults.Cryptographic, "transfer.Transfer", err)
	}
	from, err := signing.PublicKeyAddress(rawPub)
	if err != nil {
		return nil, faults.E(faults.Cryptographic, "transfer.Transfer", err)
	}

	reader, closeReader, err := s.dialReader(ctx, chain.PrimaryRPC())
	if err != nil {
		return nil, err
	}
	defer closeReader()

	unsigned, err := s.builder.Build(ctx, reader, txbuilder.Intent{
		Chain:            chain,
		Token:            token,
		From:             from,
		To:               to,
		Amount:           amount,
		GasLimitOverride: req.GasLimit,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("state", "built").Uint64("nonce", unsigned.Nonce).Msg("Pipeline advanced")

	signed, err := s.coordinator.Sign(ctx, req.Key, unsigned, chain.ID)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("state", "signed").Str("digest", signed.Digest.Hex()).Msg("Pipeline advanced")

	recoveryID, err := signing.ResolveRecoveryID(signed.Digest, signed.Signature, rawPub)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("state", "recovery_resolved").Uint8("recovery_id", recoveryID).Msg("Pipeline advanced")

	assembled, err := signing.Assemble(unsigned, s.coordinator.Mode(), chain.ID, signed.Signature, recoveryID)
	if err != nil {
		return nil, faults.E(faults.Cryptographic, "transfer.Transfer", err)
	}
	raw, err := assembled.Encode()
	if err != nil {
		return nil, faults.E(faults.Cryptographic, "transfer.Transfer", err)
	}
	logger.Debug().Str("state", "encoded").Int("raw_len", len(raw)).Msg("Pipeline advanced")

	txHash, err := s.dispatcher.Broadcast(ctx, chain, raw)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("state", "broadcast").
		Str("tx_hash", txHash.Hex()).
		Str("from", from.Hex()).
		Msg("Transfer broadcast")

	return &Receipt{
		ID:          transferID,
		From:        from,
		TxHash:      txHash,
		ExplorerURL: chain.ExplorerTxURL(txHash.Hex()),
	}, nil
}
