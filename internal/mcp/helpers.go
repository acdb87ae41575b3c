package mcp

import (
	"fmt"

	"canasim/internal/conversion"
	"canasim/internal/params"
	"canasim/internal/parity"
	"canasim/internal/prices"
	"canasim/internal/production"
	"canasim/internal/simulation"
	"canasim/internal/stats"
)

// buildScenario overlays the tool input on the configured defaults.
func (s *Server) buildScenario(in ScenarioInput) (simulation.Scenario, error) {
	p := s.cfg.Params
	if in.NY11 > 0 {
		p.Market.NY11 = in.NY11
	}
	if in.Ethanol > 0 {
		p.Market.Ethanol = in.Ethanol
	}
	if in.USDBRL > 0 {
		p.Market.USDBRL = in.USDBRL
	}

	policy := simulation.MixPolicy{
		Min:         s.cfg.MixMin,
		Max:         s.cfg.MixMax,
		Sensitivity: s.cfg.MixSensitivity,
	}
	if in.MixMin != nil {
		policy.Min = *in.MixMin
	}
	if in.MixMax != nil {
		policy.Max = *in.MixMax
	}
	if in.Sensitivity != nil {
		policy.Sensitivity = *in.Sensitivity
	}

	rescale, err := production.ParsePolicy(in.Rescale)
	if err != nil {
		return simulation.Scenario{}, err
	}
	costs, err := routeCosts(in.Costs)
	if err != nil {
		return simulation.Scenario{}, err
	}

	sc := simulation.Scenario{
		Params:   p,
		Seed:     s.cfg.Seed,
		Mix:      &policy,
		Feedback: !in.NoFeedback,
		Rescale:  rescale,
		Costs:    costs,
	}
	if in.Seed != 0 {
		sc.Seed = in.Seed
	}

	if len(in.Shocks) > 0 {
		sc.Shocks = make(map[int]prices.Shock, len(in.Shocks))
		for _, sh := range in.Shocks {
			kind := prices.ShockKind(sh.Kind)
			if kind == "" {
				kind = prices.Multiplicative
			}
			if _, dup := sc.Shocks[sh.Period]; dup {
				return simulation.Scenario{}, fmt.Errorf("shock for period %d given twice", sh.Period)
			}
			sc.Shocks[sh.Period] = prices.Shock{Kind: kind, Sugar: sh.Sugar, Ethanol: sh.Ethanol, USDBRL: sh.USDBRL}
		}
	}
	if len(in.ObservedPrices) > 0 {
		sc.ObservedPrices = make(map[int]prices.PriceState, len(in.ObservedPrices))
		for _, o := range in.ObservedPrices {
			if _, dup := sc.ObservedPrices[o.Period]; dup {
				return simulation.Scenario{}, fmt.Errorf("observed prices for period %d given twice", o.Period)
			}
			sc.ObservedPrices[o.Period] = prices.PriceState{Period: o.Period, Sugar: o.NY11, Ethanol: o.Ethanol, USDBRL: o.USDBRL}
		}
	}
	for _, o := range in.Observations {
		sc.Observations = append(sc.Observations, production.Observation{
			Period:         o.Period,
			CumulativeCane: o.CumulativeCane,
			ATR:            o.ATR,
			Mix:            o.Mix,
		})
	}
	return sc, nil
}

func routeCosts(in []RouteCostInput) (parity.Costs, error) {
	if len(in) == 0 {
		return nil, nil
	}
	costs := make(parity.Costs, len(in))
	for _, c := range in {
		r, err := parity.ParseRoute(c.Route)
		if err != nil {
			return nil, err
		}
		costs[r] = parity.RouteCosts{FreightBRLPerTon: c.FreightBRLPerTon, TerminalUSDPerTon: c.TerminalUSDPerTon}
	}
	return costs, nil
}

// seasonSummary is the compact view of a season returned when periods are not requested.
type seasonSummary struct {
	Seed       int64                `json:"seed"`
	Totals     production.Totals    `json:"totals"`
	FinalMix   float64              `json:"final_mix"`
	BestCounts map[parity.Route]int `json:"best_counts"`
	Rejected   []string             `json:"rejected,omitempty"`
	LastPrices prices.PriceState    `json:"last_prices"`
	Signals    []stats.Signal       `json:"sugar_net_signals,omitempty"`
}

func summarize(season *simulation.Season) seasonSummary {
	sum := seasonSummary{
		Seed:       season.Seed,
		Totals:     season.Totals,
		FinalMix:   season.FinalMix,
		BestCounts: season.BestCounts,
		Rejected:   season.Rejected,
		Signals:    season.SugarNetXmR.Signals,
	}
	if n := len(season.Periods); n > 0 {
		sum.LastPrices = season.Periods[n-1].Prices
	}
	return sum
}

// conversionResult lists a price in every unit the parity engine uses.
type conversionResult struct {
	From         string  `json:"from"`
	Value        float64 `json:"value"`
	FOBCentsLb   float64 `json:"fob_cents_lb,omitempty"`
	BRLPerTon    float64 `json:"brl_per_ton_vhp"`
	CentsLb      float64 `json:"cents_lb_vhp"`
	EthanolBRLm3 float64 `json:"ethanol_brl_m3,omitempty"`
	ATRRatio     float64 `json:"atr_ratio,omitempty"`
	USDBRL       float64 `json:"usdbrl"`
}

func convertPrice(in ConvertPriceInput, c params.ConversionConstants) (conversionResult, error) {
	res := conversionResult{From: in.From, Value: in.Value, USDBRL: in.USDBRL}
	switch in.From {
	case "ny11":
		res.FOBCentsLb = conversion.VHPToFOB(in.Value, c)
		brl, err := conversion.FOBToBRLPerTon(res.FOBCentsLb, in.USDBRL, c)
		if err != nil {
			return res, err
		}
		res.BRLPerTon = brl
		res.CentsLb = res.FOBCentsLb
		// hydrated ethanol at the same ATR value
		eth, err := conversion.SugarEquivalentToEthanol(brl, conversion.HydratedFactor(c))
		if err != nil {
			return res, err
		}
		res.EthanolBRLm3 = eth
		res.ATRRatio = conversion.HydratedFactor(c)
	case "hydrated", "anhydrous":
		factor := conversion.HydratedFactor(c)
		if in.From == "anhydrous" {
			factor = conversion.AnhydrousFactor(c)
		}
		brl, err := conversion.EthanolToSugarEquivalent(in.Value, factor)
		if err != nil {
			return res, err
		}
		cents, err := conversion.EthanolToCentsLb(in.Value, factor, in.USDBRL, c)
		if err != nil {
			return res, err
		}
		res.BRLPerTon = brl
		res.CentsLb = cents
		res.EthanolBRLm3 = in.Value
		res.ATRRatio = factor
	default:
		return res, fmt.Errorf("unknown price kind %q, want ny11, hydrated or anhydrous", in.From)
	}
	return res, nil
}
