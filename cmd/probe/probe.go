// Package probe implements the endpoint health subcommand: it dials every
// configured endpoint of a chain and checks that the reported chain id
// matches the catalog.
package probe

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/cardwallet/evm-core/internal/config"
	"github.com/cardwallet/evm-core/internal/node"
	"github.com/cardwallet/evm-core/internal/registry"
)

func New() *cobra.Command {
	var chainID int64

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check every RPC endpoint of a chain",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if chainID == 0 {
				chainID = cfg.DefaultChainID
			}

			reg, err := registry.NewBuiltinService()
			if err != nil {
				return errors.Wrap(err, "failed to load chain catalog")
			}
			chain, ok := reg.FindChain(chainID)
			if !ok {
				return errors.Errorf("unknown chain id %d", chainID)
			}

			healthy := 0
			for _, url := range chain.RPCURLs {
				status := check(cmd, chain, url, cfg)
				if status {
					healthy++
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d/%d endpoints healthy\n", healthy, len(chain.RPCURLs))
			if healthy == 0 {
				return errors.New("no healthy endpoints")
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&chainID, "chain", 0, "chain id to probe (default: configured chain)")
	return cmd
}

func check(cmd *cobra.Command, chain registry.Chain, url string, cfg config.Config) bool {
	ctx := cmd.Context()
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}

	client, err := node.Dial(ctx, url)
	if err != nil {
		log.Warn().Err(err).Str("endpoint", url).Msg("Dial failed")
		return false
	}
	defer client.Close()

	reported, err := client.ChainID(ctx)
	if err != nil {
		log.Warn().Err(err).Str("endpoint", url).Msg("Chain id query failed")
		return false
	}
	if reported.Int64() != chain.ID {
		log.Warn().
			Str("endpoint", url).
			Int64("want", chain.ID).
			Str("got", reported.String()).
			Msg("Endpoint reports a different chain")
		return false
	}

	fmt.Fprintf(cmd.OutOrStdout(), "ok       %s\n", url)
	return true
}
