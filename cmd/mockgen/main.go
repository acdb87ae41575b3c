package main

import (
	"canasim/cmd/mockgen/engine"
	"canasim/internal/params"
	"flag"
	"fmt"
	"os"
	"time"
)

func main() {
	scenario := flag.String("scenario", "mild", "Scenario to generate: mild, drought, ahead")
	distribution := flag.String("distribution", "uniform", "Noise distribution: uniform, normal")
	outDir := flag.String("out", "./.cache", "Output directory for mock files")
	periods := flag.Int("periods", 6, "Number of elapsed quinzenas to generate")
	cane := flag.Float64("cane", params.DefaultMarket().CaneTons, "Season cane crush in tons")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario:     *scenario,
		Distribution: *distribution,
		Periods:      *periods,
		CaneTons:     *cane,
		Seed:         *seed,
	}

	fmt.Printf("Generating scenario '%s' (Distribution: %s, Periods: %d) to %s...\n", cfg.Scenario, cfg.Distribution, cfg.Periods, *outDir)

	obs, err := engine.Generate(cfg, params.DefaultProfile())
	if err != nil {
		fmt.Printf("Failed to generate mock data: %v\n", err)
		os.Exit(1)
	}

	sourceID := "SAFRA_MOCK_0"
	meta := engine.Metadata{
		Scenario:     cfg.Scenario,
		Distribution: cfg.Distribution,
		Periods:      cfg.Periods,
		CaneTons:     cfg.CaneTons,
		Seed:         cfg.Seed,
		GeneratedAt:  time.Now().UTC(),
	}
	if err := engine.Save(*outDir, sourceID, obs, meta); err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}
