package commands

import (
	"fmt"

	"canasim/internal/simulation"
	"canasim/internal/visuals"

	"github.com/spf13/cobra"
)

func newSimulateCmd() *cobra.Command {
	var (
		sf     scenarioFlags
		chart  bool
		detail bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate one harvest season",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := sf.scenario(cmd)
			if err != nil {
				return err
			}
			season, err := simulation.Run(cmd.Context(), sc)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, season)
			}
			if err := writeSeason(out, season, detail); err != nil {
				return err
			}
			if chart || cfg.EnableMermaidCharts {
				fmt.Fprintln(out)
				fmt.Fprintln(out, visuals.GeneratePriceChart(season.Periods))
				fmt.Fprintln(out, visuals.GenerateMixChart(season.Periods))
				fmt.Fprintln(out, visuals.GenerateRouteChart(season.Periods))
				fmt.Fprintln(out, visuals.GenerateStabilityChart(season))
			}
			return nil
		},
	}
	sf.register(cmd)
	cmd.Flags().BoolVar(&chart, "chart", false, "print Mermaid charts of prices, mix and route values")
	cmd.Flags().BoolVar(&detail, "detail", false, "print one row per period")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full season as JSON")
	return cmd
}
