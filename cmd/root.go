package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/cardwallet/evm-core/cmd/chains"
	"github.com/cardwallet/evm-core/cmd/probe"
	"github.com/cardwallet/evm-core/cmd/transfer"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "evm-core",
	Short: "Card-backed EVM transfer core",
	Long: `evm-core builds, signs and broadcasts EVM transfers authorized by a
hardware signing card. The card only produces raw signatures over opaque
hashes; everything chain-specific happens here.

Configuration is read from EVMCORE_* environment variables.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// attach the subcommands
	rootCmd.AddCommand(
		chains.New(),
		probe.New(),
		transfer.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Failed to execute root command")
		os.Exit(1)
	}
}
