package engine

import (
	"math"
	"path/filepath"
	"testing"

	"canasim/internal/params"
	"canasim/internal/production"
)

func TestGenerate_FeedsRealDataOverride(t *testing.T) {
	profile := params.DefaultProfile()
	total := params.DefaultMarket().CaneTons

	for _, scenario := range []string{"mild", "drought", "ahead"} {
		for _, dist := range []string{"uniform", "normal"} {
			cfg := GeneratorConfig{Scenario: scenario, Distribution: dist, Periods: 8, CaneTons: total, Seed: 11}
			obs, err := Generate(cfg, profile)
			if err != nil {
				t.Fatalf("%s/%s: %v", scenario, dist, err)
			}
			if len(obs) != 8 {
				t.Fatalf("%s/%s: expected 8 observations, got %d", scenario, dist, len(obs))
			}

			ov, err := production.ApplyRealData(profile, total, obs, production.RescaleProportional)
			if err != nil {
				t.Fatalf("%s/%s: override failed: %v", scenario, dist, err)
			}
			if len(ov.Rejected) != 0 {
				t.Errorf("%s/%s: generated data was rejected: %v", scenario, dist, ov.Rejected)
			}
			if ov.LastElapsed != 8 {
				t.Errorf("%s/%s: last elapsed = %d", scenario, dist, ov.LastElapsed)
			}
			if sum := ov.Profile.MillingSum(); math.Abs(sum-100) > params.MillingTolerance {
				t.Errorf("%s/%s: milling sum %v", scenario, dist, sum)
			}
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := GeneratorConfig{Scenario: "drought", Distribution: "normal", Periods: 5, CaneTons: 600e6, Seed: 3}
	a, _ := Generate(cfg, params.DefaultProfile())
	b, _ := Generate(cfg, params.DefaultProfile())
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("observation %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGenerate_Errors(t *testing.T) {
	profile := params.DefaultProfile()
	tests := []GeneratorConfig{
		{Scenario: "mild", Periods: 0, CaneTons: 600e6},
		{Scenario: "mild", Periods: 24, CaneTons: 600e6},
		{Scenario: "flood", Periods: 4, CaneTons: 600e6},
		{Scenario: "mild", Periods: 4, CaneTons: 0},
	}
	for _, cfg := range tests {
		if _, err := Generate(cfg, profile); err == nil {
			t.Errorf("expected error for %+v", cfg)
		}
	}
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := GeneratorConfig{Scenario: "ahead", Distribution: "uniform", Periods: 4, CaneTons: 600e6, Seed: 5}
	obs, err := Generate(cfg, params.DefaultProfile())
	if err != nil {
		t.Fatal(err)
	}
	if err := Save(dir, "TEST", obs, Metadata{Scenario: cfg.Scenario, Seed: cfg.Seed}); err != nil {
		t.Fatal(err)
	}

	back, err := production.ReadObservationsFile(filepath.Join(dir, "TEST.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != len(obs) {
		t.Fatalf("read %d observations, wrote %d", len(back), len(obs))
	}
	for i := range obs {
		if back[i] != obs[i] {
			t.Errorf("row %d: got %+v, want %+v", i, back[i], obs[i])
		}
	}
}
