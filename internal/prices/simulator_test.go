package prices

import (
	"errors"
	"math"
	"testing"

	"canasim/internal/params"
)

func defaultConfig(periods int) PathConfig {
	return ConfigFromMarket(params.DefaultMarket(), periods)
}

func TestSimulate_SeededDeterminism(t *testing.T) {
	cfg := defaultConfig(24)

	a, err := NewSimulator(42).Simulate(cfg)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	b, err := NewSimulator(42).Simulate(cfg)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}

	pa, err := a.Collect()
	if err != nil {
		t.Fatal(err)
	}
	pb, err := b.Collect()
	if err != nil {
		t.Fatal(err)
	}

	if len(pa) != 24 || len(pb) != 24 {
		t.Fatalf("expected 24 states, got %d and %d", len(pa), len(pb))
	}
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("period %d differs: %+v vs %+v", i+1, pa[i], pb[i])
		}
	}
}

func TestSimulate_SuccessiveCallsAdvanceStream(t *testing.T) {
	sim := NewSimulator(7)
	cfg := defaultConfig(3)

	first, _ := sim.Simulate(cfg)
	p1, _ := first.Collect()
	second, _ := sim.Simulate(cfg)
	p2, _ := second.Collect()

	if p1[0] == p2[0] {
		t.Errorf("second call on the same simulator should continue the stream")
	}
}

func TestSimulate_ZeroVolatilityIsFlat(t *testing.T) {
	cfg := defaultConfig(24)
	cfg.Volatility = [params.NumAssets]float64{}

	path, err := NewSimulator(1).Simulate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	states, err := path.Collect()
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range states {
		if s.Sugar != 20.0 || s.Ethanol != 2500 || s.USDBRL != 5.0 {
			t.Fatalf("period %d moved with zero volatility: %+v", s.Period, s)
		}
	}
	if states[23].Period != 24 {
		t.Errorf("expected last period 24, got %d", states[23].Period)
	}
}

func TestPath_NotRestartable(t *testing.T) {
	path, _ := NewSimulator(3).Simulate(defaultConfig(2))
	if got, _ := path.Collect(); len(got) != 2 {
		t.Fatalf("expected 2 states, got %d", len(got))
	}
	if path.Next() {
		t.Error("a drained path must not yield again")
	}
	if got, _ := path.Collect(); len(got) != 0 {
		t.Errorf("expected empty collect after drain, got %d", len(got))
	}
}

func TestSimulate_ShocksAndObserved(t *testing.T) {
	cfg := defaultConfig(4)
	cfg.Volatility = [params.NumAssets]float64{}
	cfg.Shocks = map[int]Shock{
		2: {Kind: Multiplicative, Sugar: -0.10},
		3: {Kind: Additive, USDBRL: 0.25},
		4: {Kind: Multiplicative, Ethanol: 0.5},
	}
	cfg.Observed = map[int]PriceState{
		4: {Sugar: 21, Ethanol: 2600, USDBRL: 5.1},
	}

	path, err := NewSimulator(1).Simulate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	states, err := path.Collect()
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(states[1].Sugar-18.0) > 1e-12 {
		t.Errorf("period 2 sugar = %v, want 18", states[1].Sugar)
	}
	if math.Abs(states[2].USDBRL-5.25) > 1e-12 || math.Abs(states[2].Sugar-18.0) > 1e-12 {
		t.Errorf("period 3 = %+v, want shocked FX and carried sugar", states[2])
	}
	obs := states[3]
	if !obs.Observed || obs.Sugar != 21 || obs.Ethanol != 2600 || obs.USDBRL != 5.1 {
		t.Errorf("observed period must be used verbatim and never shocked, got %+v", obs)
	}
}

func TestSimulate_ObservedDoesNotShiftLaterDraws(t *testing.T) {
	base := defaultConfig(6)
	withObs := defaultConfig(6)
	withObs.Observed = map[int]PriceState{1: {Sugar: 20, Ethanol: 2500, USDBRL: 5}}

	a, _ := NewSimulator(11).Simulate(base)
	b, _ := NewSimulator(11).Simulate(withObs)
	pa, _ := a.Collect()
	pb, _ := b.Collect()

	// Observed period 1 equals the initial point, so the later log-returns
	// must match; only the anchor level differs.
	ra := pa[5].Sugar / pa[4].Sugar
	rb := pb[5].Sugar / pb[4].Sugar
	if math.Abs(ra-rb) > 1e-12 {
		t.Errorf("return of period 6 changed: %v vs %v", ra, rb)
	}
}

func TestSimulate_ShockToNonPositiveStopsPath(t *testing.T) {
	cfg := defaultConfig(3)
	cfg.Volatility = [params.NumAssets]float64{}
	cfg.Shocks = map[int]Shock{2: {Kind: Additive, Sugar: -25}}

	path, err := NewSimulator(1).Simulate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	states, err := path.Collect()
	if !errors.Is(err, params.ErrRange) {
		t.Fatalf("expected range error, got %v", err)
	}
	if len(states) != 1 {
		t.Errorf("expected the path to stop after period 1, got %d states", len(states))
	}
}

func TestSimulate_CorrelationSign(t *testing.T) {
	cfg := defaultConfig(2000)
	cfg.Correlation = [params.NumAssets][params.NumAssets]float64{
		{1, 0.9, 0},
		{0.9, 1, 0},
		{0, 0, 1},
	}
	path, err := NewSimulator(5).Simulate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	states, err := path.Collect()
	if err != nil {
		t.Fatal(err)
	}

	prev := cfg.Initial
	var sxy, sxx, syy float64
	for _, s := range states {
		x := math.Log(s.Sugar / prev.Sugar)
		y := math.Log(s.Ethanol / prev.Ethanol)
		sxy += x * y
		sxx += x * x
		syy += y * y
		prev = s
	}
	if corr := sxy / math.Sqrt(sxx*syy); corr < 0.8 {
		t.Errorf("sample correlation %v too far from 0.9", corr)
	}
}

func TestSimulate_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PathConfig)
	}{
		{"NegativeVolatility", func(c *PathConfig) { c.Volatility[1] = -0.1 }},
		{"ZeroPeriods", func(c *PathConfig) { c.Periods = 0 }},
		{"NonPositiveInitial", func(c *PathConfig) { c.Initial.USDBRL = 0 }},
		{"Asymmetric", func(c *PathConfig) { c.Correlation[0][1] = 0.5 }},
		{"BadDiagonal", func(c *PathConfig) { c.Correlation[2][2] = 0.9 }},
		{"NotPositiveDefinite", func(c *PathConfig) {
			c.Correlation = [params.NumAssets][params.NumAssets]float64{
				{1, 0.9, -0.9},
				{0.9, 1, 0.9},
				{-0.9, 0.9, 1},
			}
		}},
		{"ShockOutsidePath", func(c *PathConfig) { c.Shocks = map[int]Shock{30: {Kind: Additive}} }},
		{"UnknownShockKind", func(c *PathConfig) { c.Shocks = map[int]Shock{1: {Kind: "log"}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig(24)
			tt.mutate(&cfg)
			_, err := NewSimulator(1).Simulate(cfg)
			if !errors.Is(err, params.ErrConfiguration) {
				t.Errorf("expected configuration error, got %v", err)
			}
		})
	}
}
