// Package txbuilder turns a transfer intent into an unsigned transaction:
// amount scaling, payload encoding, nonce/gas lookups and balance
// preflight.
package txbuilder

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/cardwallet/evm-core/internal/faults"
	"github.com/cardwallet/evm-core/internal/registry"
	"github.com/cardwallet/evm-core/internal/signing"
)

// Service converts intents into unsigned transactions.
type Service interface {
	Build(ctx context.Context, reader NodeReader, intent Intent) (*signing.UnsignedTx, error)
}

type service struct {
	registry registry.Service
}

// NewService creates a transaction builder over the given catalog.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(reg registry.Service) Service {
	return &service{registry: reg}
}

// Gas estimates are inflated by a fixed 20% safety margin, rounded up.
const (
	gasBufferNum = 6
	gasBufferDen = 5
)

// bufferGas applies the ×1.2 margin with ceiling rounding.
func bufferGas(estimate uint64) uint64 {
	return (estimate*gasBufferNum + gasBufferDen - 1) / gasBufferDen
}

// Build validates the intent, resolves the token deployment, scales the
// amount and performs the network reads. Independent reads run
// concurrently but all must resolve before the transaction is composed.
func (s *service) Build(ctx context.Context, reader NodeReader, intent Intent) (*signing.UnsignedTx, error) {
	if err := validateIntent(intent); err != nil {
		return nil, err
	}

	value, err := ToSmallestUnit(intent.Amount, intent.Token.Decimals)
	if err != nil {
		return nil, faults.E(faults.Validation, "txbuilder.Build", err)
	}

	// Compose recipient, value and payload per token variant.
	var (
		txTo    common.Address
		txValue *big.Int
		txData  []byte
	)
	switch intent.Token.Kind {
	case registry.TokenNative:
		txTo = intent.To
		txValue = value
	case registry.TokenERC20:
		contract, ok := s.registry.ContractAddress(intent.Token, intent.Chain)
		if !ok {
			return nil, faults.Errorf(faults.Configuration, "txbuilder.Build",
				"token %s is not available on chain %s", intent.Token.Symbol, intent.Chain.Name)
		}
		txTo = contract
		txValue = new(big.Int)
		txData = TransferCallData(intent.To, value)
	default:
		return nil, faults.Errorf(faults.Configuration, "txbuilder.Build",
			"invalid token kind %d", intent.Token.Kind)
	}

	// Point-in-time network reads, issued concurrently. A failed gas
	// estimate falls back to the token default; every other failure
	// propagates.
	var (
		nonce        uint64
		gasPrice     *big.Int
		nativeFunds  *big.Int
		tokenFunds   *big.Int
		gasEstimate  uint64
		estimateErr  error
		needEstimate = intent.GasLimitOverride == 0
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		var err error
		nonce, err = reader.PendingNonceAt(groupCtx, intent.From)
		return err
	})
	group.Go(func() error {
		var err error
		gasPrice, err = reader.SuggestGasPrice(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		nativeFunds, err = reader.BalanceAt(groupCtx, intent.From)
		return err
	})
	if intent.Token.Kind == registry.TokenERC20 {
		tokenContract := txTo
		group.Go(func() error {
			var err error
			tokenFunds, err = reader.TokenBalance(groupCtx, tokenContract, intent.From)
			return err
		})
	}
	if needEstimate {
		msg := ethereum.CallMsg{From: intent.From, To: &txTo, Value: txValue, Data: txData}
		group.Go(func() error {
			gasEstimate, estimateErr = reader.EstimateGas(groupCtx, msg)
			// Estimation failure is not fatal, the static default
			// covers it.
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	gasLimit := intent.GasLimitOverride
	if needEstimate {
		if estimateErr != nil {
			gasLimit = intent.Token.DefaultGasLimit
			log.Warn().
				Err(estimateErr).
				Str("token", intent.Token.Symbol).
				Uint64("gas_limit", gasLimit).
				Msg("Gas estimation failed, using static default")
		} else {
			gasLimit = bufferGas(gasEstimate)
		}
	}

	if err := checkFunds(intent, txValue, value, gasPrice, gasLimit, nativeFunds, tokenFunds); err != nil {
		return nil, err
	}

	tx := &signing.UnsignedTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		GasLimit: gasLimit,
		To:       txTo,
		Value:    txValue,
		Data:     txData,
	}

	log.Debug().
		Uint64("nonce", nonce).
		Str("gas_price", gasPrice.String()).
		Uint64("gas_limit", gasLimit).
		Str("to", txTo.Hex()).
		Str("value", txValue.String()).
		Int("data_len", len(txData)).
		Msg("Unsigned transaction built")

	return tx, nil
}

func validateIntent(intent Intent) error {
	if intent.From == (common.Address{}) {
		return faults.Errorf(faults.Validation, "txbuilder.Build", "sender address is empty")
	}
	if intent.To == (common.Address{}) {
		return faults.Errorf(faults.Validation, "txbuilder.Build", "recipient address is empty")
	}
	if intent.To == intent.From {
		return faults.Errorf(faults.Validation, "txbuilder.Build", "transfer to own address")
	}
	if intent.Amount.Sign() <= 0 {
		return faults.Errorf(faults.Validation, "txbuilder.Build", "amount must be positive")
	}
	return nil
}

// checkFunds verifies the card account can cover both the transferred
// amount and the maximum fee before any signature is requested.
func checkFunds(intent Intent, txValue, amount, gasPrice *big.Int, gasLimit uint64, nativeFunds, tokenFunds *big.Int) error {
	maxFee := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(gasLimit))

	switch intent.Token.Kind {
	case registry.TokenNative:
		need := new(big.Int).Add(txValue, maxFee)
		if nativeFunds.Cmp(need) < 0 {
			return faults.Errorf(faults.Validation, "txbuilder.Build",
				"insufficient balance: have %s, need %s (amount plus max fee)", nativeFunds, need)
		}
	case registry.TokenERC20:
		if tokenFunds.Cmp(amount) < 0 {
			return faults.Errorf(faults.Validation, "txbuilder.Build",
				"insufficient %s balance: have %s, need %s", intent.Token.Symbol, tokenFunds, amount)
		}
		if nativeFunds.Cmp(maxFee) < 0 {
			return faults.Errorf(faults.Validation, "txbuilder.Build",
				"insufficient native balance for fees: have %s, need %s", nativeFunds, maxFee)
		}
	default:
		return errors.Errorf("invalid token kind %d", intent.Token.Kind)
	}

	return nil
}
