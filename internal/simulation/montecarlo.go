package simulation

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"canasim/internal/parity"
	"canasim/internal/stats"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// MonteCarloResult summarizes many independent seasons of one scenario.
type MonteCarloResult struct {
	Trials    int          `json:"trials"`
	BaseSeed  int64        `json:"base_seed"`
	SugarTons stats.Spread `json:"sugar_tons"`
	EthanolM3 stats.Spread `json:"ethanol_m3"`
	FinalMix  stats.Spread `json:"final_mix"`
	// SugarNetCentsLb is the season-average net value of the sugar route.
	SugarNetCentsLb stats.Spread `json:"sugar_net_cents_lb"`
	// BestRouteShare is the share of all simulated periods each route ranked first.
	BestRouteShare map[parity.Route]float64 `json:"best_route_share"`
	Insights       []string                 `json:"insights,omitempty"`
}

// MonteCarlo runs trials seasons of sc concurrently. Trial i uses seed
// BaseSeed+i, so a fixed sc.Seed reproduces the whole result regardless of
// scheduling. workers <= 0 uses GOMAXPROCS.
func MonteCarlo(ctx context.Context, sc Scenario, trials, workers int) (MonteCarloResult, error) {
	if trials < 1 {
		return MonteCarloResult{}, fmt.Errorf("trials must be >= 1, got %d", trials)
	}
	if err := sc.validate(); err != nil {
		return MonteCarloResult{}, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	base := sc.Seed
	if base == 0 {
		base = time.Now().UnixNano()
	}

	seasons := make([]*Season, trials)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < trials; i++ {
		trial := sc
		trial.Seed = base + int64(i)
		g.Go(func() error {
			s, err := Run(gctx, trial)
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}
			seasons[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return MonteCarloResult{}, err
	}

	sugar := make([]float64, trials)
	ethanol := make([]float64, trials)
	mix := make([]float64, trials)
	sugarNet := make([]float64, trials)
	best := make(map[parity.Route]int, len(parity.Routes))
	periods := 0

	for i, s := range seasons {
		sugar[i] = s.Totals.SugarTons
		ethanol[i] = s.Totals.Ethanol.Total()
		mix[i] = s.FinalMix
		sugarNet[i] = averageNet(s, parity.SugarExport)
		for r, c := range s.BestCounts {
			best[r] += c
		}
		periods += len(s.Periods)
	}

	res := MonteCarloResult{
		Trials:          trials,
		BaseSeed:        base,
		SugarTons:       stats.Summarize(sugar),
		EthanolM3:       stats.Summarize(ethanol),
		FinalMix:        stats.Summarize(mix),
		SugarNetCentsLb: stats.Summarize(sugarNet),
		BestRouteShare:  make(map[parity.Route]float64, len(parity.Routes)),
	}
	for _, r := range parity.Routes {
		if periods > 0 {
			res.BestRouteShare[r] = float64(best[r]) / float64(periods)
		}
	}
	if !sc.Feedback {
		res.Insights = append(res.Insights, "Mix feedback disabled: production spread comes only from the fixed profile, prices vary per trial.")
	}
	if res.SugarNetCentsLb.P90-res.SugarNetCentsLb.P10 == 0 {
		res.Insights = append(res.Insights, "Zero spread across trials: volatilities are zero or every period is observed.")
	}

	log.Debug().Int("trials", trials).Int("workers", workers).Int64("baseSeed", base).Msg("Monte Carlo finished")
	return res, nil
}

func averageNet(s *Season, route parity.Route) float64 {
	if len(s.Periods) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range s.Periods {
		for _, r := range p.Parity {
			if r.Route == route {
				sum += r.NetCentsLb
			}
		}
	}
	return sum / float64(len(s.Periods))
}
