package mcp

import (
	"context"

	"canasim/internal/parity"
	"canasim/internal/prices"
	"canasim/internal/simulation"
	"canasim/internal/visuals"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

func (s *Server) handleSimulateSeason(ctx context.Context, _ *mcp.CallToolRequest, in SimulateSeasonInput) (*mcp.CallToolResult, any, error) {
	sc, err := s.buildScenario(in.Scenario)
	if err != nil {
		return nil, nil, err
	}
	season, err := simulation.Run(ctx, sc)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Int64("seed", season.Seed).Float64("sugarTons", season.Totals.SugarTons).Msg("simulate_season")

	res := map[string]interface{}{
		"summary": summarize(season),
	}
	if in.IncludePeriods {
		res["periods"] = season.Periods
		res["profile"] = season.Profile
	}
	if s.cfg.EnableMermaidCharts {
		res["visual_prices"] = visuals.GeneratePriceChart(season.Periods)
		res["visual_mix"] = visuals.GenerateMixChart(season.Periods)
		res["visual_routes"] = visuals.GenerateRouteChart(season.Periods)
		res["visual_sugar_net_xmr"] = visuals.GenerateStabilityChart(season)
	}
	return s.formatResult(res), nil, nil
}

func (s *Server) handleRunMonteCarlo(ctx context.Context, _ *mcp.CallToolRequest, in RunMonteCarloInput) (*mcp.CallToolResult, any, error) {
	sc, err := s.buildScenario(in.Scenario)
	if err != nil {
		return nil, nil, err
	}
	trials := in.Trials
	if trials == 0 {
		trials = s.cfg.Trials
	}
	mc, err := simulation.MonteCarlo(ctx, sc, trials, in.Workers)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Int("trials", mc.Trials).Int64("baseSeed", mc.BaseSeed).Msg("run_monte_carlo")

	res := map[string]interface{}{
		"result": mc,
	}
	if s.cfg.EnableMermaidCharts {
		res["visual_sugar_spread"] = visuals.GenerateMonteCarloChart(mc)
		res["visual_best_route"] = visuals.GenerateBestRoutePie(mc)
	}
	return s.formatResult(res), nil, nil
}

func (s *Server) handleComputeParity(_ context.Context, _ *mcp.CallToolRequest, in ComputeParityInput) (*mcp.CallToolResult, any, error) {
	costs, err := routeCosts(in.Costs)
	if err != nil {
		return nil, nil, err
	}
	state := prices.PriceState{Sugar: in.NY11, Ethanol: in.Ethanol, USDBRL: in.USDBRL}
	results, err := parity.ComputeAll(state, s.cfg.Params.Constants, costs)
	if err != nil {
		return nil, nil, err
	}
	ranked := parity.Rank(results)
	return s.formatResult(map[string]interface{}{
		"ranking": ranked,
		"best":    ranked[0].Route,
	}), nil, nil
}

func (s *Server) handleConvertPrice(_ context.Context, _ *mcp.CallToolRequest, in ConvertPriceInput) (*mcp.CallToolResult, any, error) {
	res, err := convertPrice(in, s.cfg.Params.Constants)
	if err != nil {
		return nil, nil, err
	}
	return s.formatResult(res), nil, nil
}
