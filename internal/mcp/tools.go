package mcp

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ShockInput perturbs the prices of one future period.
type ShockInput struct {
	Period  int     `json:"period" jsonschema:"1-based period (quinzena) of the season"`
	Kind    string  `json:"kind,omitempty" jsonschema:"multiplicative (relative change, -0.1 is a 10% drop) or additive (asset units)"`
	Sugar   float64 `json:"sugar,omitempty" jsonschema:"NY11 change"`
	Ethanol float64 `json:"ethanol,omitempty" jsonschema:"hydrated ethanol change"`
	USDBRL  float64 `json:"usdbrl,omitempty" jsonschema:"exchange rate change"`
}

// ObservationInput is one period of real mill data, typed with comma decimals.
type ObservationInput struct {
	Period         int    `json:"period" jsonschema:"1-based elapsed period"`
	CumulativeCane string `json:"cumulative_cane" jsonschema:"cumulative crushed cane in tonnes, e.g. 160.000.000,0"`
	ATR            string `json:"atr,omitempty" jsonschema:"observed ATR in kg per tonne of cane"`
	Mix            string `json:"mix,omitempty" jsonschema:"observed sugar mix in percent"`
}

// ObservedPriceInput pins the prices of one period to real quotes.
type ObservedPriceInput struct {
	Period  int     `json:"period" jsonschema:"1-based period (quinzena) of the season"`
	NY11    float64 `json:"ny11" jsonschema:"observed NY11 in USc/lb"`
	Ethanol float64 `json:"ethanol" jsonschema:"observed hydrated ethanol in BRL/m3"`
	USDBRL  float64 `json:"usdbrl" jsonschema:"observed exchange rate"`
}

// RouteCostInput overrides the logistics costs of one route.
type RouteCostInput struct {
	Route             string  `json:"route" jsonschema:"anhydrous-export, anhydrous-domestic, hydrated-export, hydrated-domestic or sugar"`
	FreightBRLPerTon  float64 `json:"freight_brl_t" jsonschema:"freight in BRL per tonne VHP-equivalent"`
	TerminalUSDPerTon float64 `json:"terminal_usd_t,omitempty" jsonschema:"port terminal cost in USD per tonne"`
}

// ScenarioInput is shared by simulate_season and run_monte_carlo. Zero prices
// and an unset mix policy keep the configured defaults.
type ScenarioInput struct {
	Seed           int64                `json:"seed,omitempty" jsonschema:"random seed; 0 uses the configured seed"`
	NY11           float64              `json:"ny11,omitempty" jsonschema:"initial NY11 in USc/lb"`
	Ethanol        float64              `json:"ethanol,omitempty" jsonschema:"initial hydrated ethanol in BRL/m3"`
	USDBRL         float64              `json:"usdbrl,omitempty" jsonschema:"initial exchange rate"`
	NoFeedback     bool                 `json:"no_feedback,omitempty" jsonschema:"keep the profile mix instead of reacting to prices"`
	MixMin         *float64             `json:"mix_min,omitempty" jsonschema:"lower sugar mix bound (fraction)"`
	MixMax         *float64             `json:"mix_max,omitempty" jsonschema:"upper sugar mix bound (fraction)"`
	Sensitivity    *float64             `json:"sensitivity,omitempty" jsonschema:"mix shift per unit of relative sugar advantage"`
	Rescale        string               `json:"rescale,omitempty" jsonschema:"proportional (default) or uniform redistribution of milling around real data"`
	Shocks         []ShockInput         `json:"shocks,omitempty"`
	ObservedPrices []ObservedPriceInput `json:"observed_prices,omitempty"`
	Observations   []ObservationInput   `json:"observations,omitempty"`
	Costs          []RouteCostInput     `json:"costs,omitempty"`
}

type SimulateSeasonInput struct {
	Scenario       ScenarioInput `json:"scenario,omitempty"`
	IncludePeriods bool          `json:"include_periods,omitempty" jsonschema:"include the full per-period breakdown"`
}

type RunMonteCarloInput struct {
	Scenario ScenarioInput `json:"scenario,omitempty"`
	Trials   int           `json:"trials,omitempty" jsonschema:"number of seasons; 0 uses the configured count"`
	Workers  int           `json:"workers,omitempty" jsonschema:"concurrent trials; 0 uses all CPUs"`
}

type ComputeParityInput struct {
	NY11    float64          `json:"ny11" jsonschema:"NY11 in USc/lb"`
	Ethanol float64          `json:"ethanol" jsonschema:"hydrated ethanol in BRL/m3 (before taxes)"`
	USDBRL  float64          `json:"usdbrl" jsonschema:"exchange rate"`
	Costs   []RouteCostInput `json:"costs,omitempty"`
}

type ConvertPriceInput struct {
	Value  float64 `json:"value" jsonschema:"price to convert"`
	From   string  `json:"from" jsonschema:"ny11 (USc/lb), hydrated or anhydrous (BRL/m3)"`
	USDBRL float64 `json:"usdbrl" jsonschema:"exchange rate"`
}

func (s *Server) registerTools() error {
	simulate, err := jsonschema.For[SimulateSeasonInput](nil)
	if err != nil {
		return fmt.Errorf("simulate_season schema: %w", err)
	}
	boundScenario(simulate.Properties["scenario"])

	monteCarlo, err := jsonschema.For[RunMonteCarloInput](nil)
	if err != nil {
		return fmt.Errorf("run_monte_carlo schema: %w", err)
	}
	boundScenario(monteCarlo.Properties["scenario"])
	bound(monteCarlo, "trials", 0, 100000)
	bound(monteCarlo, "workers", 0, 256)

	parity, err := jsonschema.For[ComputeParityInput](nil)
	if err != nil {
		return fmt.Errorf("compute_parity schema: %w", err)
	}
	positive(parity, "ny11", "ethanol", "usdbrl")

	convert, err := jsonschema.For[ConvertPriceInput](nil)
	if err != nil {
		return fmt.Errorf("convert_price schema: %w", err)
	}
	positive(convert, "value", "usdbrl")
	if p := convert.Properties["from"]; p != nil {
		p.Enum = []any{"ny11", "hydrated", "anhydrous"}
	}

	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "simulate_season",
		Description: "Simulate one 24-quinzena harvest season: correlated sugar, ethanol and USD/BRL prices, mix feedback, production and route parity. Optional real data anchors elapsed periods.",
		InputSchema: simulate,
	}, s.handleSimulateSeason)

	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "compute_parity",
		Description: "Compute and rank the net value of every route (sugar export, hydrated and anhydrous ethanol, domestic and export) for one set of prices.",
		InputSchema: parity,
	}, s.handleComputeParity)

	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "convert_price",
		Description: "Convert a NY11 or ethanol price into FOB, BRL per tonne and USc/lb VHP-equivalent.",
		InputSchema: convert,
	}, s.handleConvertPrice)

	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "run_monte_carlo",
		Description: "Run many seeded seasons of one scenario and report P10/P50/P90 of sugar, ethanol, final mix and sugar net value, plus how often each route ranks first.",
		InputSchema: monteCarlo,
	}, s.handleRunMonteCarlo)

	return nil
}

func boundScenario(sc *jsonschema.Schema) {
	if sc == nil {
		return
	}
	for _, name := range []string{"ny11", "ethanol", "usdbrl", "sensitivity"} {
		bound(sc, name, 0, 1e6)
	}
	bound(sc, "mix_min", 0, 1)
	bound(sc, "mix_max", 0, 1)
	if p := sc.Properties["rescale"]; p != nil {
		p.Enum = []any{"proportional", "uniform"}
	}
	if p := sc.Properties["observed_prices"]; p != nil && p.Items != nil {
		positive(p.Items, "ny11", "ethanol", "usdbrl")
	}
}

func bound(sc *jsonschema.Schema, name string, min, max float64) {
	if p := sc.Properties[name]; p != nil {
		p.Minimum = &min
		p.Maximum = &max
	}
}

func positive(sc *jsonschema.Schema, names ...string) {
	zero := 0.0
	for _, name := range names {
		if p := sc.Properties[name]; p != nil {
			p.ExclusiveMinimum = &zero
		}
	}
}
