package simulation

import (
	"context"
	"fmt"

	"canasim/internal/params"
	"canasim/internal/parity"
	"canasim/internal/prices"
	"canasim/internal/production"
	"canasim/internal/stats"

	"github.com/rs/zerolog/log"
)

// Scenario is everything a season run needs. Params and Mix are required.
type Scenario struct {
	Params params.Parameters
	Seed   int64
	Mix    *MixPolicy

	// Feedback couples the mix to prices; without it the profile mix is used.
	Feedback bool

	Shocks         map[int]prices.Shock
	ObservedPrices map[int]prices.PriceState
	Observations   []production.Observation
	Rescale        production.RescalePolicy
	Costs          parity.Costs
}

// Season is the full outcome of one run.
type Season struct {
	Seed       int64                  `json:"seed"`
	Periods    []PeriodResult         `json:"periods"`
	Totals     production.Totals      `json:"totals"`
	FinalMix   float64                `json:"final_mix"`
	BestCounts map[parity.Route]int   `json:"best_counts"`
	Profile    params.SeasonalProfile `json:"profile"`
	Rejected   []string               `json:"rejected,omitempty"`

	// SugarNetXmR is the process behavior chart of the sugar route net value
	// (USc/lb), keyed by period label.
	SugarNetXmR stats.XmRResult `json:"sugar_net_xmr"`
}

// validate runs every configuration check before any period is simulated.
func (sc Scenario) validate() error {
	if err := sc.Params.Validate(); err != nil {
		return err
	}
	if sc.Mix == nil {
		return &params.ConfigurationError{Field: "mix", Reason: "mix bounds are required"}
	}
	return sc.Mix.Validate()
}

// Run simulates one season period by period.
func Run(ctx context.Context, sc Scenario) (*Season, error) {
	if err := sc.validate(); err != nil {
		return nil, err
	}

	m := sc.Params.Market
	vol := production.Volumes{CaneTons: m.CaneTons, CornTons: m.CornTons}

	override, err := production.ApplyRealData(sc.Params.Profile, vol.CaneTons, sc.Observations, sc.Rescale)
	if err != nil {
		return nil, fmt.Errorf("apply real data: %w", err)
	}
	profile := override.Profile
	n := profile.Len()

	cfg := prices.ConfigFromMarket(m, n)
	cfg.Observed = sc.ObservedPrices
	cfg.Shocks = futureShocks(sc.Shocks, override, sc.ObservedPrices)

	path, err := prices.NewSimulator(sc.Seed).Simulate(cfg)
	if err != nil {
		return nil, err
	}

	model := Model{
		Profile:     profile,
		Volumes:     vol,
		Constants:   sc.Params.Constants,
		Policy:      *sc.Mix,
		Feedback:    sc.Feedback,
		MixObserved: override.MixObserved,
		Elapsed:     override.Elapsed,
		Costs:       sc.Costs,
	}

	season := &Season{
		Seed:       sc.Seed,
		Periods:    make([]PeriodResult, 0, n),
		BestCounts: make(map[parity.Route]int, len(parity.Routes)),
		Profile:    profile,
	}
	for _, r := range override.Rejected {
		season.Rejected = append(season.Rejected, r.Error())
		log.Warn().Err(r).Msg("Real data observation rejected")
	}

	state := State{Prices: cfg.Initial}
	for p := range path.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var res PeriodResult
		state, res, err = model.Step(state, p)
		if err != nil {
			return nil, err
		}
		season.Periods = append(season.Periods, res)
		season.BestCounts[res.Best]++
	}
	if err := path.Err(); err != nil {
		return nil, err
	}

	prods := make([]production.Period, len(season.Periods))
	for i, r := range season.Periods {
		prods[i] = r.Production
	}
	season.Totals = production.Sum(prods)
	season.FinalMix = state.Mix
	season.SugarNetXmR = netStability(season.Periods, parity.SugarExport)

	log.Debug().
		Int64("seed", sc.Seed).
		Int("periods", len(season.Periods)).
		Float64("sugarTons", season.Totals.SugarTons).
		Float64("ethanolM3", season.Totals.Ethanol.Total()).
		Msg("Season simulated")
	return season, nil
}

func netStability(periods []PeriodResult, route parity.Route) stats.XmRResult {
	values := make([]float64, 0, len(periods))
	keys := make([]string, 0, len(periods))
	for _, p := range periods {
		for _, r := range p.Parity {
			if r.Route == route {
				values = append(values, r.NetCentsLb)
				keys = append(keys, p.Label)
			}
		}
	}
	return stats.CalculateXmRWithKeys(values, keys)
}

// futureShocks drops shocks aimed at periods already covered by real data.
func futureShocks(shocks map[int]prices.Shock, ov production.Override, observed map[int]prices.PriceState) map[int]prices.Shock {
	if len(shocks) == 0 {
		return nil
	}
	out := make(map[int]prices.Shock, len(shocks))
	for period, s := range shocks {
		if _, ok := observed[period]; ok || ov.Elapsed(period) {
			log.Debug().Int("period", period).Msg("Ignoring shock on elapsed period")
			continue
		}
		out[period] = s
	}
	return out
}
