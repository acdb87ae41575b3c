package commands

import (
	"fmt"

	"canasim/internal/simulation"
	"canasim/internal/visuals"

	"github.com/spf13/cobra"
)

func newMonteCarloCmd() *cobra.Command {
	var (
		sf      scenarioFlags
		trials  int
		workers int
		chart   bool
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "Run many seeded seasons and summarize the spread",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := sf.scenario(cmd)
			if err != nil {
				return err
			}
			n := cfg.Trials
			if cmd.Flags().Changed("trials") {
				n = trials
			}
			mc, err := simulation.MonteCarlo(cmd.Context(), sc, n, workers)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, mc)
			}
			if err := writeMonteCarlo(out, mc); err != nil {
				return err
			}
			if chart || cfg.EnableMermaidCharts {
				fmt.Fprintln(out)
				fmt.Fprintln(out, visuals.GenerateMonteCarloChart(mc))
				fmt.Fprintln(out, visuals.GenerateBestRoutePie(mc))
			}
			return nil
		},
	}
	sf.register(cmd)
	cmd.Flags().IntVar(&trials, "trials", 0, "number of seasons (default CANASIM_TRIALS)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent trials (default GOMAXPROCS)")
	cmd.Flags().BoolVar(&chart, "chart", false, "print Mermaid charts of the spread")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}
