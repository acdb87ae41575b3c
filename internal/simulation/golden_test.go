package simulation

import (
	"context"
	"math"
	"testing"

	"canasim/internal/params"
	"canasim/internal/parity"
	"canasim/internal/prices"
	"canasim/internal/production"
)

// goldenScenario is the regression scenario: default profile, NY11 20 c/lb,
// ethanol 2500 BRL/m³, USD/BRL 5.00, no volatility and no shocks.
func goldenScenario(feedback bool) Scenario {
	sc := baseScenario()
	sc.Feedback = feedback
	sc.Params.Market.NY11 = 20.0
	sc.Params.Market.Ethanol = 2500
	sc.Params.Market.USDBRL = 5.00
	sc.Params.Market.Volatility = [params.NumAssets]float64{}
	return sc
}

func TestGoldenScenario_StaticMix(t *testing.T) {
	sc := goldenScenario(false)
	season, err := Run(context.Background(), sc)
	if err != nil {
		t.Fatal(err)
	}

	want, err := production.ComputeProduction(sc.Params.Profile, productionVolumes(), sc.Params.Constants)
	if err != nil {
		t.Fatal(err)
	}
	state := prices.PriceState{Sugar: 20, Ethanol: 2500, USDBRL: 5}

	for i, p := range season.Periods {
		if p.Production != want[i] {
			t.Fatalf("period %d production %+v, want %+v", i+1, p.Production, want[i])
		}
		state.Period = i + 1
		wantParity, _ := parity.ComputeAll(state, sc.Params.Constants, nil)
		for j := range wantParity {
			if p.Parity[j] != wantParity[j] {
				t.Fatalf("period %d route %s parity %+v, want %+v", i+1, wantParity[j].Route, p.Parity[j], wantParity[j])
			}
		}
		if p.Best != parity.SugarExport {
			t.Errorf("period %d best route %s, want sugar", i+1, p.Best)
		}
	}

	totals := production.Sum(want)
	if season.Totals != totals {
		t.Errorf("totals %+v, want %+v", season.Totals, totals)
	}
	if math.Abs(season.Totals.SugarTons-sugarClosedForm(sc.Params, nil)) > 1e-3 {
		t.Errorf("season sugar %v disagrees with closed form %v", season.Totals.SugarTons, sugarClosedForm(sc.Params, nil))
	}
}

func TestGoldenScenario_Feedback(t *testing.T) {
	sc := goldenScenario(true)
	season, err := Run(context.Background(), sc)
	if err != nil {
		t.Fatal(err)
	}

	c := sc.Params.Constants
	ethEq := 2500 * (c.ATRPerTonSugar / c.ATRPerM3Hydrated) / (c.CentsLbToUSDTon * 5)
	adv := (20 - c.DescontoVHPFOB*(1+c.TaxaPol) - ethEq) / ethEq
	shift := sc.Mix.Sensitivity * adv

	mixes := make([]float64, sc.Params.Profile.Len())
	dev := 0.0
	for i, pp := range sc.Params.Profile.Periods {
		m := math.Min(math.Max(pp.Mix+dev+shift, sc.Mix.Min), sc.Mix.Max)
		mixes[i] = m
		dev = m - pp.Mix
	}

	for i, p := range season.Periods {
		if math.Abs(p.Mix-mixes[i]) > 1e-12 {
			t.Fatalf("period %d mix %v, want %v", i+1, p.Mix, mixes[i])
		}
	}
	if math.Abs(season.Totals.SugarTons-sugarClosedForm(sc.Params, mixes)) > 1e-3 {
		t.Errorf("season sugar %v, want %v", season.Totals.SugarTons, sugarClosedForm(sc.Params, mixes))
	}

	static, _ := Run(context.Background(), goldenScenario(false))
	if season.Totals.SugarTons <= static.Totals.SugarTons {
		t.Errorf("sugar at a premium should pull the mix up: %v <= %v", season.Totals.SugarTons, static.Totals.SugarTons)
	}
}

func sugarClosedForm(p params.Parameters, mixes []float64) float64 {
	total := 0.0
	for i, pp := range p.Profile.Periods {
		mix := pp.Mix
		if mixes != nil {
			mix = mixes[i]
		}
		total += pp.MillingPct / 100 * p.Market.CaneTons * pp.ATR / 1000 * mix * p.Constants.SugarYield
	}
	return total
}
