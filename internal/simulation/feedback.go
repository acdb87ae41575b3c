package simulation

import (
	"fmt"
	"math"

	"canasim/internal/conversion"
	"canasim/internal/params"
	"canasim/internal/prices"
)

// MixPolicy bounds and damps the price-driven mix adjustment. It has no
// usable zero value: callers must state the bounds explicitly.
type MixPolicy struct {
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Sensitivity float64 `json:"sensitivity"` // mix shift per unit of relative price advantage
}

// Validate rejects bounds outside [0,1], inverted bounds and negative sensitivity.
func (p MixPolicy) Validate() error {
	switch {
	case math.IsNaN(p.Min) || p.Min < 0 || p.Min > 1:
		return &params.ConfigurationError{Field: "mix_min", Reason: fmt.Sprintf("must be within [0, 1], got %g", p.Min)}
	case math.IsNaN(p.Max) || p.Max < 0 || p.Max > 1:
		return &params.ConfigurationError{Field: "mix_max", Reason: fmt.Sprintf("must be within [0, 1], got %g", p.Max)}
	case p.Min > p.Max:
		return &params.ConfigurationError{Field: "mix_min", Reason: fmt.Sprintf("min %g greater than max %g", p.Min, p.Max)}
	case math.IsNaN(p.Sensitivity) || p.Sensitivity < 0:
		return &params.ConfigurationError{Field: "mix_sensitivity", Reason: fmt.Sprintf("must be >= 0, got %g", p.Sensitivity)}
	}
	return nil
}

// SugarAdvantage returns the relative premium of sugar (VHP FOB, c/lb) over
// hydrated ethanol expressed in the same unit. Positive favors sugar.
func SugarAdvantage(state prices.PriceState, c params.ConversionConstants) (float64, error) {
	ethEq, err := conversion.EthanolToCentsLb(state.Ethanol, conversion.HydratedFactor(c), state.USDBRL, c)
	if err != nil {
		return 0, err
	}
	if !(ethEq > 0) {
		return 0, &params.RangeError{What: "ethanol sugar-equivalent", Value: ethEq, Min: 0, Max: math.MaxFloat64}
	}
	return (conversion.VHPToFOB(state.Sugar, c) - ethEq) / ethEq, nil
}

// AdjustMix nudges current toward the more profitable product and clamps the
// result to the policy bounds.
func AdjustMix(current float64, state prices.PriceState, c params.ConversionConstants, policy MixPolicy) (float64, error) {
	if err := policy.Validate(); err != nil {
		return 0, err
	}
	if math.IsNaN(current) {
		return 0, &params.RangeError{What: "current mix", Value: current, Min: 0, Max: 1}
	}

	adv, err := SugarAdvantage(state, c)
	if err != nil {
		return 0, err
	}

	mix := math.Min(math.Max(current+policy.Sensitivity*adv, policy.Min), policy.Max)
	if math.IsNaN(mix) || mix < 0 || mix > 1 {
		return 0, &params.RangeError{What: "adjusted mix", Value: mix, Min: 0, Max: 1}
	}
	return mix, nil
}
