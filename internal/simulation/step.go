package simulation

import (
	"fmt"

	"canasim/internal/params"
	"canasim/internal/parity"
	"canasim/internal/prices"
	"canasim/internal/production"
)

// State is what one period hands to the next.
type State struct {
	Period    int               `json:"period"` // last completed period, 0 before the season
	Prices    prices.PriceState `json:"prices"`
	Mix       float64           `json:"mix"`
	Deviation float64           `json:"deviation"` // applied mix minus profile mix
}

// PeriodResult is the outcome of one quinzena.
type PeriodResult struct {
	Period     int               `json:"period"`
	Label      string            `json:"label"`
	Elapsed    bool              `json:"elapsed,omitempty"`
	Prices     prices.PriceState `json:"prices"`
	BaseMix    float64           `json:"base_mix"`
	Mix        float64           `json:"mix"`
	Production production.Period `json:"production"`
	Parity     []parity.Result   `json:"parity"`
	Best       parity.Route      `json:"best_route"`
}

// Model is the immutable per-run configuration of the feedback step.
type Model struct {
	Profile     params.SeasonalProfile
	Volumes     production.Volumes
	Constants   params.ConversionConstants
	Policy      MixPolicy
	Feedback    bool
	MixObserved map[int]bool
	Elapsed     func(period int) bool
	Costs       parity.Costs
}

// Step realizes period state.Period+1 with the given prices. The base mix is
// the profile mix plus the deviation carried from the previous period; with
// feedback enabled the current prices then adjust it. Periods whose mix came
// from real data are never adjusted.
func (m Model) Step(state State, p prices.PriceState) (State, PeriodResult, error) {
	i := state.Period
	if i < 0 || i >= m.Profile.Len() {
		return state, PeriodResult{}, fmt.Errorf("step: period %d outside profile of %d periods", i+1, m.Profile.Len())
	}
	pp := m.Profile.Periods[i]
	period := i + 1

	base := pp.Mix
	mix := pp.Mix
	if m.Feedback && !m.MixObserved[period] {
		base = pp.Mix + state.Deviation
		adjusted, err := AdjustMix(base, p, m.Constants, m.Policy)
		if err != nil {
			return state, PeriodResult{}, fmt.Errorf("period %d: %w", period, err)
		}
		mix = adjusted
	}

	prod, err := production.ComputePeriod(m.Profile, i, mix, m.Volumes, m.Constants)
	if err != nil {
		return state, PeriodResult{}, err
	}

	results, err := parity.ComputeAll(p, m.Constants, m.Costs)
	if err != nil {
		return state, PeriodResult{}, fmt.Errorf("period %d: %w", period, err)
	}
	best, _ := parity.Best(results)

	res := PeriodResult{
		Period:     period,
		Label:      pp.Label,
		Prices:     p,
		BaseMix:    base,
		Mix:        mix,
		Production: prod,
		Parity:     results,
		Best:       best.Route,
	}
	if m.Elapsed != nil {
		res.Elapsed = m.Elapsed(period)
	}

	next := State{
		Period:    period,
		Prices:    p,
		Mix:       mix,
		Deviation: mix - pp.Mix,
	}
	return next, res, nil
}
