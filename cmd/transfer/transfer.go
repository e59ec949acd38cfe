// Package transfer implements the transfer subcommand: one full pipeline
// run from the command line.
package transfer

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cardwallet/evm-core/internal/broadcast"
	"github.com/cardwallet/evm-core/internal/config"
	"github.com/cardwallet/evm-core/internal/registry"
	"github.com/cardwallet/evm-core/internal/signing"
	transfersvc "github.com/cardwallet/evm-core/internal/transfer"
	"github.com/cardwallet/evm-core/internal/txbuilder"
)

//nolint:funlen // Flag plumbing plus explicit wiring of the whole pipeline.
func New() *cobra.Command {
	var (
		chainID  int64
		token    string
		to       string
		amount   string
		gasLimit uint64
		keySlot  string
	)

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Build, sign and broadcast one transfer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if chainID == 0 {
				chainID = cfg.DefaultChainID
			}

			signer, err := buildSigner(cfg)
			if err != nil {
				return err
			}

			catalog := registry.BuiltinChains()
			if len(cfg.RPCURLOverride) > 0 {
				catalog = overrideEndpoints(catalog, chainID, cfg.RPCURLOverride)
			}
			reg, err := registry.NewService(catalog, registry.BuiltinTokens(), registry.BuiltinContracts())
			if err != nil {
				return errors.Wrap(err, "failed to load chain catalog")
			}

			coordinator, err := signing.NewCoordinator(signer, cfg.SigningMode)
			if err != nil {
				return err
			}

			svc, err := transfersvc.NewService(
				reg,
				txbuilder.NewService(reg),
				coordinator,
				broadcast.NewDispatcher(nil),
				signer,
				nil,
				chainID,
			)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if cfg.SignTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.SignTimeout)
				defer cancel()
			}

			receipt, err := svc.Transfer(ctx, transfersvc.Request{
				TokenSymbol: token,
				To:          to,
				Amount:      amount,
				GasLimit:    gasLimit,
				Key:         signing.KeyRef(keySlot),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "tx hash: %s\n", receipt.TxHash.Hex())
			if receipt.ExplorerURL != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "explorer: %s\n", receipt.ExplorerURL)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&chainID, "chain", 0, "chain id (default: configured chain)")
	cmd.Flags().StringVar(&token, "token", "", "token symbol; empty for the native currency")
	cmd.Flags().StringVar(&to, "to", "", "recipient address")
	cmd.Flags().StringVar(&amount, "amount", "", "human-readable amount, e.g. 1.5")
	cmd.Flags().Uint64Var(&gasLimit, "gas-limit", 0, "override gas limit (skips estimation)")
	cmd.Flags().StringVar(&keySlot, "key", "default", "card key slot")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

// buildSigner returns the card transport. Only the in-memory development
// signer is wired here; the NFC transport lives in the host application
// that embeds this module.
func buildSigner(cfg config.Config) (signing.CardSigner, error) {
	if cfg.DevPrivateKey == "" {
		return nil, errors.New("no card transport configured, set EVMCORE_DEV_PRIVATE_KEY for the development signer")
	}
	return signing.NewLocalSignerFromHex(cfg.DevPrivateKey)
}

func overrideEndpoints(chains []registry.Chain, chainID int64, urls []string) []registry.Chain {
	for i, chain := range chains {
		if chain.ID == chainID {
			chains[i].RPCURLs = urls
		}
	}
	return chains
}
