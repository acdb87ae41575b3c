package commands

import (
	"canasim/internal/parity"
	"canasim/internal/prices"

	"github.com/spf13/cobra"
)

func newParityCmd() *cobra.Command {
	var (
		ny11    float64
		ethanol float64
		usdbrl  float64
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "parity",
		Short: "Rank every route for one set of prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := cfg.Params.Market
			state := prices.PriceState{Sugar: m.NY11, Ethanol: m.Ethanol, USDBRL: m.USDBRL}
			if cmd.Flags().Changed("ny11") {
				state.Sugar = ny11
			}
			if cmd.Flags().Changed("ethanol") {
				state.Ethanol = ethanol
			}
			if cmd.Flags().Changed("usdbrl") {
				state.USDBRL = usdbrl
			}

			results, err := parity.ComputeAll(state, cfg.Params.Constants, nil)
			if err != nil {
				return err
			}
			ranked := parity.Rank(results)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), ranked)
			}
			return writeRanking(cmd.OutOrStdout(), ranked)
		},
	}
	cmd.Flags().Float64Var(&ny11, "ny11", 0, "NY11 in USc/lb (default NY11_INICIAL)")
	cmd.Flags().Float64Var(&ethanol, "ethanol", 0, "hydrated ethanol in BRL/m3 (default ETANOL_INICIAL)")
	cmd.Flags().Float64Var(&usdbrl, "usdbrl", 0, "exchange rate (default USDBRL_INICIAL)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the ranking as JSON")
	return cmd
}
