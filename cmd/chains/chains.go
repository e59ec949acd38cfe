// Package chains implements the catalog listing subcommand.
package chains

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cardwallet/evm-core/internal/registry"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "chains",
		Short: "List supported chains and their available tokens",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry.NewBuiltinService()
			if err != nil {
				return errors.Wrap(err, "failed to load chain catalog")
			}

			for _, chain := range reg.Chains() {
				symbols := make([]string, 0, 8)
				for _, token := range reg.TokensForChain(chain) {
					symbols = append(symbols, token.Symbol)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-8d %-20s %s\n",
					chain.ID, chain.Name, strings.Join(symbols, " "))
			}

			return nil
		},
	}
}
