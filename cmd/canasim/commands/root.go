package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"canasim/internal/config"
	"canasim/internal/logging"
	"canasim/internal/production"
	"canasim/internal/simulation"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "canasim",
	Short: "canasim simulates a sugarcane harvest season under correlated price paths",
	Long: `A season simulator for a Brazilian sugar and ethanol mill: correlated NY11,
hydrated ethanol and USD/BRL paths, a sugar mix that reacts to relative prices,
production per quinzena and the net value of every commercial route.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(verbose); err != nil {
			log.Warn().Err(err).Msg("File logging disabled")
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("canasim starting")
		return nil
	},
}

// Execute runs the root command; Ctrl-C cancels the running simulation.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate)

	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.AddCommand(newParityCmd())
	rootCmd.AddCommand(newMonteCarloCmd())
	rootCmd.AddCommand(newServeCmd())
}

// scenarioFlags are shared by simulate and montecarlo.
type scenarioFlags struct {
	seed       int64
	real       string
	rescale    string
	noFeedback bool
}

func (f *scenarioFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "random seed (default CANASIM_SEED, 0 seeds from the clock)")
	cmd.Flags().StringVar(&f.real, "real", "", "CSV of real data: period;cumulative_cane[;atr[;mix]]")
	cmd.Flags().StringVar(&f.rescale, "rescale", "", "milling redistribution around real data: proportional or uniform")
	cmd.Flags().BoolVar(&f.noFeedback, "no-feedback", false, "keep the profile mix instead of reacting to prices")
}

func (f *scenarioFlags) scenario(cmd *cobra.Command) (simulation.Scenario, error) {
	rescale, err := production.ParsePolicy(f.rescale)
	if err != nil {
		return simulation.Scenario{}, err
	}
	sc := simulation.Scenario{
		Params: cfg.Params,
		Seed:   cfg.Seed,
		Mix: &simulation.MixPolicy{
			Min:         cfg.MixMin,
			Max:         cfg.MixMax,
			Sensitivity: cfg.MixSensitivity,
		},
		Feedback: !f.noFeedback,
		Rescale:  rescale,
	}
	if cmd.Flags().Changed("seed") {
		sc.Seed = f.seed
	}
	if f.real != "" {
		obs, err := production.ReadObservationsFile(f.real)
		if err != nil {
			return simulation.Scenario{}, err
		}
		sc.Observations = obs
		log.Info().Str("path", f.real).Int("observations", len(obs)).Msg("Loaded real data")
	}
	return sc, nil
}
