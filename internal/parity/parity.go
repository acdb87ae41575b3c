// Package parity computes the net value of each production route in a common
// VHP-equivalent unit and ranks them.
package parity

import (
	"fmt"
	"sort"

	"canasim/internal/conversion"
	"canasim/internal/params"
	"canasim/internal/prices"
)

// Route names a commercial destination for the mill's ATR.
type Route string

const (
	AnhydrousExport   Route = "anhydrous-export"
	AnhydrousDomestic Route = "anhydrous-domestic"
	HydratedExport    Route = "hydrated-export"
	HydratedDomestic  Route = "hydrated-domestic"
	SugarExport       Route = "sugar"
)

// Routes lists every route in its canonical order, used for tie-breaks.
var Routes = []Route{AnhydrousExport, AnhydrousDomestic, HydratedExport, HydratedDomestic, SugarExport}

// IsEthanol reports whether the route sells ethanol.
func (r Route) IsEthanol() bool {
	return r == AnhydrousExport || r == AnhydrousDomestic || r == HydratedExport || r == HydratedDomestic
}

// IsAnhydrous reports whether the route sells anhydrous ethanol.
func (r Route) IsAnhydrous() bool { return r == AnhydrousExport || r == AnhydrousDomestic }

// IsExport reports whether the route ships through a port terminal.
func (r Route) IsExport() bool {
	return r == AnhydrousExport || r == HydratedExport || r == SugarExport
}

func (r Route) order() int {
	for i, x := range Routes {
		if x == r {
			return i
		}
	}
	return len(Routes)
}

// ParseRoute validates a route name.
func ParseRoute(s string) (Route, error) {
	for _, r := range Routes {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown route %q", s)
}

// RouteCosts overrides the logistics costs of a single route.
type RouteCosts struct {
	FreightBRLPerTon  float64 `json:"freight_brl_t"`
	TerminalUSDPerTon float64 `json:"terminal_usd_t"`
}

// Costs maps routes to logistics overrides. Routes not present use the
// ConversionConstants freight and, for export routes, the terminal cost.
type Costs map[Route]RouteCosts

func (c Costs) lookup(r Route, k params.ConversionConstants) RouteCosts {
	if rc, ok := c[r]; ok {
		return rc
	}
	rc := RouteCosts{FreightBRLPerTon: k.FreteRT}
	if r.IsExport() {
		rc.TerminalUSDPerTon = k.TerminalUSDT
	}
	return rc
}

// Result is the cost breakdown of one route for one period. Every amount is
// BRL per tonne of VHP-equivalent sugar.
type Result struct {
	Route      Route   `json:"route"`
	Period     int     `json:"period"`
	Gross      float64 `json:"gross"`
	Taxes      float64 `json:"taxes"`
	CBIO       float64 `json:"cbio"`
	Freight    float64 `json:"freight"`
	Terminal   float64 `json:"terminal"`
	Net        float64 `json:"net"`
	NetCentsLb float64 `json:"net_cents_lb"`
}

// Compute returns the parity of a single route using the default logistics costs.
func Compute(route Route, state prices.PriceState, c params.ConversionConstants) (Result, error) {
	return ComputeWithCosts(route, state, c, nil)
}

// ComputeWithCosts returns the parity of a single route.
func ComputeWithCosts(route Route, state prices.PriceState, c params.ConversionConstants, costs Costs) (Result, error) {
	res := Result{Route: route, Period: state.Period}

	switch {
	case route == SugarExport:
		gross, err := conversion.FOBToBRLPerTon(conversion.VHPToFOB(state.Sugar, c), state.USDBRL, c)
		if err != nil {
			return Result{}, err
		}
		res.Gross = gross

	case route.IsEthanol():
		price, factor, cbioPerM3 := state.Ethanol, conversion.HydratedFactor(c), c.CBIOPerM3Hydrated
		if route.IsAnhydrous() {
			price, factor, cbioPerM3 = state.Ethanol*c.AnhydrousPremium, conversion.AnhydrousFactor(c), c.CBIOPerM3Anhydrous
		}
		gross, err := conversion.EthanolToSugarEquivalent(price, factor)
		if err != nil {
			return Result{}, err
		}
		res.Gross = gross
		if !route.IsExport() {
			res.Taxes = gross * (c.ICMSEtanol + c.PISCOFINSEtanol)
		}
		res.CBIO, err = conversion.EthanolToSugarEquivalent(c.CBIOPriceBRL*cbioPerM3, factor)
		if err != nil {
			return Result{}, err
		}

	default:
		return Result{}, fmt.Errorf("unknown route %q", route)
	}

	rc := costs.lookup(route, c)
	res.Freight = rc.FreightBRLPerTon
	res.Terminal = rc.TerminalUSDPerTon * state.USDBRL
	res.Net = res.Gross - res.Taxes + res.CBIO - res.Freight - res.Terminal

	cents, err := conversion.BRLPerTonToCentsLb(res.Net, state.USDBRL, c)
	if err != nil {
		return Result{}, err
	}
	res.NetCentsLb = cents
	return res, nil
}

// ComputeAll returns the parity of every route in canonical order.
func ComputeAll(state prices.PriceState, c params.ConversionConstants, costs Costs) ([]Result, error) {
	out := make([]Result, 0, len(Routes))
	for _, r := range Routes {
		res, err := ComputeWithCosts(r, state, c, costs)
		if err != nil {
			return nil, fmt.Errorf("route %s: %w", r, err)
		}
		out = append(out, res)
	}
	return out, nil
}

// Rank returns a copy of results ordered by net value, most attractive first.
func Rank(results []Result) []Result {
	ranked := make([]Result, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Net != ranked[j].Net {
			return ranked[i].Net > ranked[j].Net
		}
		return ranked[i].Route.order() < ranked[j].Route.order()
	})
	return ranked
}

// Best returns the most attractive route, or false for an empty slice.
func Best(results []Result) (Result, bool) {
	if len(results) == 0 {
		return Result{}, false
	}
	return Rank(results)[0], true
}
