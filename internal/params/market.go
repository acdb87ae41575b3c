package params

import "math"

// Commodity indexes used by volatility vectors and the correlation matrix.
const (
	Sugar = iota
	Ethanol
	FX
	NumAssets
)

// MarketDefaults holds the starting prices, stochastic inputs and season volumes.
type MarketDefaults struct {
	NY11        float64                       `yaml:"NY11_INICIAL" json:"ny11"`       // c/lb
	Ethanol     float64                       `yaml:"ETANOL_INICIAL" json:"ethanol"`  // BRL/m³ hydrated
	USDBRL      float64                       `yaml:"USDBRL_INICIAL" json:"usdbrl"`   // BRL per USD
	Volatility  [NumAssets]float64            `yaml:"VOLATILIDADES" json:"volatility"` // annualized
	Drift       [NumAssets]float64            `yaml:"DRIFT" json:"drift"`             // annualized
	Correlation [NumAssets][NumAssets]float64 `yaml:"CORRELACAO" json:"correlation"`
	CaneTons    float64                       `yaml:"MOAGEM_CANA_T" json:"cane_tons"`
	CornTons    float64                       `yaml:"MILHO_T" json:"corn_tons"`
}

// DefaultMarket returns the default starting market.
func DefaultMarket() MarketDefaults {
	return MarketDefaults{
		NY11:       20.0,
		Ethanol:    2500,
		USDBRL:     5.00,
		Volatility: [NumAssets]float64{0.30, 0.25, 0.15},
		Correlation: [NumAssets][NumAssets]float64{
			{1.0, 0.6, -0.3},
			{0.6, 1.0, -0.2},
			{-0.3, -0.2, 1.0},
		},
		CaneTons: 600e6,
		CornTons: 25e6,
	}
}

// Validate checks prices and volumes. The correlation matrix is checked by the
// price simulator, which needs its factorization anyway.
func (m MarketDefaults) Validate() error {
	prices := []struct {
		name string
		v    float64
	}{
		{"NY11_INICIAL", m.NY11},
		{"ETANOL_INICIAL", m.Ethanol},
		{"USDBRL_INICIAL", m.USDBRL},
	}
	for _, p := range prices {
		if math.IsNaN(p.v) || p.v <= 0 {
			return configErr(p.name, "must be > 0, got %g", p.v)
		}
	}
	for i, v := range m.Volatility {
		if math.IsNaN(v) || v < 0 {
			return configErr("VOLATILIDADES", "index %d must be >= 0, got %g", i, v)
		}
	}
	if m.CaneTons <= 0 {
		return configErr("MOAGEM_CANA_T", "must be > 0, got %g", m.CaneTons)
	}
	if m.CornTons < 0 {
		return configErr("MILHO_T", "must be >= 0, got %g", m.CornTons)
	}
	return nil
}
