// Package production turns a seasonal profile and season volumes into
// per-quinzena sugar and ethanol output.
package production

import (
	"fmt"

	"canasim/internal/params"
)

// Ethanol holds the ethanol output of a period by grade and feedstock, in m³.
type Ethanol struct {
	CaneAnhydrous float64 `json:"cane_anhydrous"`
	CaneHydrated  float64 `json:"cane_hydrated"`
	CornAnhydrous float64 `json:"corn_anhydrous"`
	CornHydrated  float64 `json:"corn_hydrated"`
}

// Anhydrous returns the anhydrous total over both feedstocks.
func (e Ethanol) Anhydrous() float64 { return e.CaneAnhydrous + e.CornAnhydrous }

// Hydrated returns the hydrated total over both feedstocks.
func (e Ethanol) Hydrated() float64 { return e.CaneHydrated + e.CornHydrated }

// Total returns all ethanol.
func (e Ethanol) Total() float64 { return e.Anhydrous() + e.Hydrated() }

// Add sums two outputs.
func (e Ethanol) Add(o Ethanol) Ethanol {
	return Ethanol{
		CaneAnhydrous: e.CaneAnhydrous + o.CaneAnhydrous,
		CaneHydrated:  e.CaneHydrated + o.CaneHydrated,
		CornAnhydrous: e.CornAnhydrous + o.CornAnhydrous,
		CornHydrated:  e.CornHydrated + o.CornHydrated,
	}
}

// Period is the computed output of one quinzena.
type Period struct {
	Index      int     `json:"index"` // 1-based
	Label      string  `json:"label"`
	MillingPct float64 `json:"milling_pct"`
	CaneTons   float64 `json:"cane_tons"`
	ATR        float64 `json:"atr"`
	ATRTons    float64 `json:"atr_tons"`
	Mix        float64 `json:"mix"`
	SugarTons  float64 `json:"sugar_tons"`
	Ethanol    Ethanol `json:"ethanol"`
}

// Volumes are the season totals the profile distributes.
type Volumes struct {
	CaneTons float64 `json:"cane_tons"`
	CornTons float64 `json:"corn_tons"`
}

// Validate checks the season volumes.
func (v Volumes) Validate() error {
	if !(v.CaneTons > 0) {
		return &params.ConfigurationError{Field: "cane_tons", Reason: fmt.Sprintf("must be > 0, got %g", v.CaneTons)}
	}
	if v.CornTons < 0 {
		return &params.ConfigurationError{Field: "corn_tons", Reason: fmt.Sprintf("must be >= 0, got %g", v.CornTons)}
	}
	return nil
}

// ComputePeriod derives the output of profile period i (0-based) with the given mix.
func ComputePeriod(profile params.SeasonalProfile, i int, mix float64, vol Volumes, c params.ConversionConstants) (Period, error) {
	if i < 0 || i >= profile.Len() {
		return Period{}, fmt.Errorf("period %d outside profile of %d periods", i+1, profile.Len())
	}
	if mix < 0 || mix > 1 {
		return Period{}, &params.RangeError{What: fmt.Sprintf("period %d mix", i+1), Value: mix, Min: 0, Max: 1}
	}
	pp := profile.Periods[i]

	cane := pp.MillingPct / 100 * vol.CaneTons
	atrTons := cane * pp.ATR / 1000
	caneEthanol := atrTons * (1 - mix) * c.EthanolYield

	out := Period{
		Index:      i + 1,
		Label:      pp.Label,
		MillingPct: pp.MillingPct,
		CaneTons:   cane,
		ATR:        pp.ATR,
		ATRTons:    atrTons,
		Mix:        mix,
		SugarTons:  atrTons * mix * c.SugarYield,
		Ethanol: Ethanol{
			CaneAnhydrous: caneEthanol * c.AnhydrousShare,
			CaneHydrated:  caneEthanol * (1 - c.AnhydrousShare),
		},
	}

	// Corn plants grind year-round, independently of the cane curve.
	if vol.CornTons > 0 {
		corn := vol.CornTons / float64(profile.Len()) * c.CornEthanolYield
		out.Ethanol.CornAnhydrous = corn * c.CornAnhydrousShare
		out.Ethanol.CornHydrated = corn * (1 - c.CornAnhydrousShare)
	}
	return out, nil
}

// ComputeProduction derives every period using the profile's static mix.
func ComputeProduction(profile params.SeasonalProfile, vol Volumes, c params.ConversionConstants) ([]Period, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if err := vol.Validate(); err != nil {
		return nil, err
	}

	out := make([]Period, profile.Len())
	for i, pp := range profile.Periods {
		p, err := ComputePeriod(profile, i, pp.Mix, vol, c)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// Totals aggregates a season.
type Totals struct {
	CaneTons  float64 `json:"cane_tons"`
	ATRTons   float64 `json:"atr_tons"`
	SugarTons float64 `json:"sugar_tons"`
	Ethanol   Ethanol `json:"ethanol"`
}

// Sum aggregates periods.
func Sum(periods []Period) Totals {
	var t Totals
	for _, p := range periods {
		t.CaneTons += p.CaneTons
		t.ATRTons += p.ATRTons
		t.SugarTons += p.SugarTons
		t.Ethanol = t.Ethanol.Add(p.Ethanol)
	}
	return t
}
