package engine

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"canasim/internal/params"
	"canasim/internal/production"

	"github.com/shopspring/decimal"
)

type GeneratorConfig struct {
	Scenario     string // "mild", "drought" or "ahead"
	Distribution string // "uniform" or "normal"
	Periods      int
	CaneTons     float64
	Seed         int64
}

// Metadata describes a generated file so a run can be reproduced.
type Metadata struct {
	SourceID     string    `json:"source_id"`
	Scenario     string    `json:"scenario"`
	Distribution string    `json:"distribution"`
	Periods      int       `json:"periods"`
	CaneTons     float64   `json:"cane_tons"`
	Seed         int64     `json:"seed"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// Generate produces real-data observations for the first cfg.Periods quinzenas
// of profile, perturbed around the projected milling, ATR and mix.
func Generate(cfg GeneratorConfig, profile params.SeasonalProfile) ([]production.Observation, error) {
	if cfg.Periods < 1 || cfg.Periods >= profile.Len() {
		return nil, fmt.Errorf("periods must be within 1..%d, got %d", profile.Len()-1, cfg.Periods)
	}
	if cfg.CaneTons <= 0 {
		return nil, fmt.Errorf("cane tons must be > 0")
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	// 1. Determine Parameters
	pace, atrBias, mixBias := 1.0, 0.0, 0.0 // Mild: on the projected curve
	switch cfg.Scenario {
	case "drought":
		pace, atrBias, mixBias = 0.85, -0.04, 2.0
	case "ahead":
		pace, atrBias, mixBias = 1.10, 0.01, -1.0
	case "mild":
	default:
		return nil, fmt.Errorf("unknown scenario %q", cfg.Scenario)
	}

	noise := func(scale float64) float64 {
		if cfg.Distribution == "normal" {
			return rng.NormFloat64() * scale
		}
		return (rng.Float64()*2 - 1) * scale
	}

	obs := make([]production.Observation, 0, cfg.Periods)
	cum := 0.0
	for i := 0; i < cfg.Periods; i++ {
		p := profile.Periods[i]

		// 2. Sample the crushed cane, never below a tenth of the projection
		factor := math.Max(0.1, pace+noise(0.05))
		cum += p.MillingPct / 100 * cfg.CaneTons * factor

		// 3. ATR and mix drift around the profile
		atr := p.ATR * (1 + atrBias + noise(0.02))
		mix := math.Min(math.Max(p.Mix*100+mixBias+noise(1.5), 0), 100)

		obs = append(obs, production.Observation{
			Period:         i + 1,
			CumulativeCane: production.FormatLocaleDecimal(decimal.NewFromFloat(cum), 1),
			ATR:            production.FormatLocaleDecimal(decimal.NewFromFloat(atr), 2),
			Mix:            production.FormatLocaleDecimal(decimal.NewFromFloat(mix), 2),
		})
	}
	if cum > cfg.CaneTons {
		return nil, fmt.Errorf("generated %.0f t of cane, more than the season total", cum)
	}
	return obs, nil
}

// Save writes <sourceID>.csv in the ';' layout read by the simulator and a
// <sourceID>_meta.json describing the run.
func Save(outDir string, sourceID string, obs []production.Observation, meta Metadata) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	csvPath := filepath.Join(outDir, fmt.Sprintf("%s.csv", sourceID))
	metaPath := filepath.Join(outDir, fmt.Sprintf("%s_meta.json", sourceID))

	f, err := os.Create(csvPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'
	if err := w.Write([]string{"periodo", "moagem_acumulada_t", "atr_kg_t", "mix_acucar_pct"}); err != nil {
		return err
	}
	for _, o := range obs {
		if err := w.Write([]string{strconv.Itoa(o.Period), o.CumulativeCane, o.ATR, o.Mix}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	fm, err := os.Create(metaPath)
	if err != nil {
		return err
	}
	defer fm.Close()

	meta.SourceID = sourceID
	enc := json.NewEncoder(fm)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
