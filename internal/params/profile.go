package params

import (
	"fmt"
	"math"
)

// MillingTolerance is the accepted deviation of a profile's milling sum from 100%.
const MillingTolerance = 1e-6

// Period is one quinzena of the seasonal profile.
type Period struct {
	Label      string  `json:"label"`
	MillingPct float64 `json:"milling_pct"` // share of the season's cane, 0-100
	ATR        float64 `json:"atr"`         // kg ATR per t of cane
	Mix        float64 `json:"mix"`         // sugar share of ATR, 0-1
}

// SeasonalProfile is the ordered sequence of quinzenas of one crop season.
type SeasonalProfile struct {
	Periods []Period `json:"periods"`
}

var quinzenaLabels = []string{
	"abr/1", "abr/2", "mai/1", "mai/2", "jun/1", "jun/2",
	"jul/1", "jul/2", "ago/1", "ago/2", "set/1", "set/2",
	"out/1", "out/2", "nov/1", "nov/2", "dez/1", "dez/2",
	"jan/1", "jan/2", "fev/1", "fev/2", "mar/1", "mar/2",
}

// Default seasonal curves for a center-south crop starting in April.
var (
	defaultMillingPct = []float64{
		2.0, 3.5, 4.5, 5.5, 6.0, 6.5,
		7.0, 7.0, 7.0, 7.0, 6.5, 6.5,
		6.0, 5.5, 4.5, 3.5, 2.5, 1.5,
		1.0, 0.9, 0.8, 0.8, 1.7, 2.3,
	}
	defaultATR = []float64{
		118, 122, 126, 130, 134, 138,
		141, 144, 147, 149, 150, 150,
		149, 146, 142, 137, 131, 126,
		120, 116, 114, 114, 115, 117,
	}
	defaultMix = []float64{
		0.42, 0.45, 0.48, 0.50, 0.51, 0.52,
		0.53, 0.53, 0.53, 0.52, 0.51, 0.50,
		0.49, 0.47, 0.45, 0.42, 0.40, 0.38,
		0.35, 0.35, 0.35, 0.36, 0.38, 0.40,
	}
)

// PeriodLabel names the i-th quinzena (0-based) of an April-start season.
func PeriodLabel(i int) string {
	if i >= 0 && i < len(quinzenaLabels) {
		return quinzenaLabels[i]
	}
	return fmt.Sprintf("q%02d", i+1)
}

// DefaultProfile returns the 24-quinzena default profile.
func DefaultProfile() SeasonalProfile {
	p, _ := NewProfile(defaultMillingPct, defaultATR, defaultMix)
	return p
}

// NewProfile zips the three curves into a profile and validates it.
func NewProfile(millingPct, atr, mix []float64) (SeasonalProfile, error) {
	n := len(millingPct)
	if n == 0 {
		return SeasonalProfile{}, configErr("PERFIL_MOAGEM_PCT", "profile has no periods")
	}
	if len(atr) != n {
		return SeasonalProfile{}, configErr("PERFIL_ATR", "has %d periods, milling curve has %d", len(atr), n)
	}
	if len(mix) != n {
		return SeasonalProfile{}, configErr("PERFIL_MIX", "has %d periods, milling curve has %d", len(mix), n)
	}

	periods := make([]Period, n)
	for i := range periods {
		periods[i] = Period{
			Label:      PeriodLabel(i),
			MillingPct: millingPct[i],
			ATR:        atr[i],
			Mix:        mix[i],
		}
	}
	p := SeasonalProfile{Periods: periods}
	return p, p.Validate()
}

// Len returns the number of quinzenas.
func (p SeasonalProfile) Len() int { return len(p.Periods) }

// MillingSum returns the sum of all milling percentages.
func (p SeasonalProfile) MillingSum() float64 {
	sum := 0.0
	for _, per := range p.Periods {
		sum += per.MillingPct
	}
	return sum
}

// CumulativeMilling returns the running milling percentage at the end of each period.
func (p SeasonalProfile) CumulativeMilling() []float64 {
	out := make([]float64, len(p.Periods))
	acc := 0.0
	for i, per := range p.Periods {
		acc += per.MillingPct
		out[i] = acc
	}
	return out
}

// Clone returns a deep copy so overrides never touch the caller's profile.
func (p SeasonalProfile) Clone() SeasonalProfile {
	periods := make([]Period, len(p.Periods))
	copy(periods, p.Periods)
	return SeasonalProfile{Periods: periods}
}

// Validate enforces the profile invariants.
func (p SeasonalProfile) Validate() error {
	if len(p.Periods) == 0 {
		return configErr("PERFIL_MOAGEM_PCT", "profile has no periods")
	}
	for i, per := range p.Periods {
		if math.IsNaN(per.MillingPct) || per.MillingPct < 0 || per.MillingPct > 100 {
			return configErr("PERFIL_MOAGEM_PCT", "period %d milling %g outside [0, 100]", i+1, per.MillingPct)
		}
		if math.IsNaN(per.ATR) || per.ATR <= 0 {
			return configErr("PERFIL_ATR", "period %d ATR must be > 0, got %g", i+1, per.ATR)
		}
		if math.IsNaN(per.Mix) || per.Mix < 0 || per.Mix > 1 {
			return configErr("PERFIL_MIX", "period %d mix %g outside [0, 1]", i+1, per.Mix)
		}
	}
	if sum := p.MillingSum(); math.Abs(sum-100) > MillingTolerance {
		return configErr("PERFIL_MOAGEM_PCT", "milling percentages sum to %g, want 100", sum)
	}
	return nil
}
