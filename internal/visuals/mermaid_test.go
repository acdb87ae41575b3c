package visuals

import (
	"strings"
	"testing"

	"canasim/internal/parity"
	"canasim/internal/prices"
	"canasim/internal/simulation"
	"canasim/internal/stats"
)

func periods(n int) []simulation.PeriodResult {
	out := make([]simulation.PeriodResult, n)
	for i := range out {
		out[i] = simulation.PeriodResult{
			Period:  i + 1,
			Label:   "p",
			Prices:  prices.PriceState{Period: i + 1, Sugar: 20, Ethanol: 2500, USDBRL: 5},
			BaseMix: 0.48,
			Mix:     0.50,
			Parity: []parity.Result{
				{Route: parity.SugarExport, NetCentsLb: 17.7},
				{Route: parity.HydratedDomestic, NetCentsLb: 9.7},
			},
			Best: parity.SugarExport,
		}
	}
	return out
}

func TestCharts_Empty(t *testing.T) {
	if GeneratePriceChart(nil) != "" || GenerateMixChart(nil) != "" || GenerateRouteChart(nil) != "" {
		t.Error("empty input should produce no chart")
	}
	if GenerateMonteCarloChart(simulation.MonteCarloResult{}) != "" || GenerateBestRoutePie(simulation.MonteCarloResult{}) != "" {
		t.Error("empty Monte Carlo result should produce no chart")
	}
}

func TestGeneratePriceChart(t *testing.T) {
	chart := GeneratePriceChart(periods(24))
	for _, want := range []string{"```mermaid", "xychart-beta", "line [20.00", "line [17.70", "0 --> 24"} {
		if !strings.Contains(chart, want) {
			t.Errorf("price chart missing %q:\n%s", want, chart)
		}
	}
}

func TestGenerateMixChart(t *testing.T) {
	chart := GenerateMixChart(periods(3))
	if !strings.Contains(chart, "line [48.0, 48.0, 48.0]") || !strings.Contains(chart, "line [50.0, 50.0, 50.0]") {
		t.Errorf("unexpected mix chart:\n%s", chart)
	}
}

func TestGenerateRouteChart_CanonicalOrder(t *testing.T) {
	chart := GenerateRouteChart(periods(2))
	want := `x-axis ["anhydrous-export", "anhydrous-domestic", "hydrated-export", "hydrated-domestic", "sugar"]`
	if !strings.Contains(chart, want) {
		t.Errorf("routes out of order:\n%s", chart)
	}
	if !strings.Contains(chart, "bar [0.00, 0.00, 0.00, 9.70, 17.70]") {
		t.Errorf("unexpected averages:\n%s", chart)
	}
}

func TestSample_LimitsPoints(t *testing.T) {
	got := sample(periods(150))
	if len(got) > maxPoints+1 {
		t.Errorf("sampled %d points", len(got))
	}
	if got[len(got)-1].Period != 150 {
		t.Errorf("last period must be kept, got %d", got[len(got)-1].Period)
	}
}

func TestMonteCarloCharts(t *testing.T) {
	res := simulation.MonteCarloResult{
		Trials:    100,
		SugarTons: stats.Spread{P10: 38e6, P50: 40e6, P90: 42e6},
		BestRouteShare: map[parity.Route]float64{
			parity.SugarExport:     0.75,
			parity.AnhydrousExport: 0.25,
		},
	}
	bar := GenerateMonteCarloChart(res)
	if !strings.Contains(bar, "bar [38.00, 40.00, 42.00]") {
		t.Errorf("unexpected bar chart:\n%s", bar)
	}
	pie := GenerateBestRoutePie(res)
	if !strings.Contains(pie, `"sugar" : 75.0`) || strings.Contains(pie, "hydrated") {
		t.Errorf("unexpected pie:\n%s", pie)
	}
}

func TestGenerateStabilityChart(t *testing.T) {
	if GenerateStabilityChart(&simulation.Season{}) != "" {
		t.Error("empty season should produce no chart")
	}
	season := &simulation.Season{
		Periods:     periods(3),
		SugarNetXmR: stats.CalculateXmR([]float64{17, 18, 17}),
	}
	chart := GenerateStabilityChart(season)
	if !strings.Contains(chart, `x-axis ["p", "p", "p"]`) || strings.Count(chart, "line [") != 4 {
		t.Errorf("unexpected stability chart:\n%s", chart)
	}
}

func TestCharts_NegativeNetValueExtendsAxis(t *testing.T) {
	ps := periods(4)
	ps[2].Parity[0].NetCentsLb = -3.5

	lo, hi := yAxis(20, 17.7, -3.5)
	if lo > -4 || lo >= 0 || hi < 24 {
		t.Fatalf("axis %d --> %d does not cover the data", lo, hi)
	}

	chart := GeneratePriceChart(ps)
	if strings.Contains(chart, "\"USc/lb\" 0 -->") {
		t.Errorf("axis should start below zero for a negative net value:\n%s", chart)
	}
	if !strings.Contains(chart, "-3.50") {
		t.Errorf("negative value missing from chart:\n%s", chart)
	}

	if lo, hi := yAxis(); lo != 0 || hi != 1 {
		t.Errorf("empty series axis = %d --> %d, want 0 --> 1", lo, hi)
	}
}
