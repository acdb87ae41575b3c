// Package prices generates correlated NY11 sugar, ethanol and USD/BRL paths.
package prices

import (
	"fmt"
	"iter"
	"math"
	"math/rand"
	"time"

	"canasim/internal/params"

	"gonum.org/v1/gonum/mat"
)

// DefaultPeriodYears is the length of a quinzena as a fraction of a year.
const DefaultPeriodYears = 1.0 / 24.0

// PriceState is the market snapshot of one period.
type PriceState struct {
	Period   int     `json:"period"`
	Sugar    float64 `json:"sugar"`   // NY11, c/lb
	Ethanol  float64 `json:"ethanol"` // hydrated, BRL/m³
	USDBRL   float64 `json:"usdbrl"`
	Observed bool    `json:"observed,omitempty"`
}

func (s PriceState) values() [params.NumAssets]float64 {
	return [params.NumAssets]float64{s.Sugar, s.Ethanol, s.USDBRL}
}

func (s *PriceState) set(v [params.NumAssets]float64) {
	s.Sugar, s.Ethanol, s.USDBRL = v[params.Sugar], v[params.Ethanol], v[params.FX]
}

// ShockKind selects how a Shock combines with the simulated price.
type ShockKind string

const (
	Additive       ShockKind = "additive"
	Multiplicative ShockKind = "multiplicative"
)

// Shock perturbs one period. Multiplicative values are relative changes
// (-0.1 is a 10% drop); additive values are in each asset's own unit.
type Shock struct {
	Kind    ShockKind `json:"kind"`
	Sugar   float64   `json:"sugar"`
	Ethanol float64   `json:"ethanol"`
	USDBRL  float64   `json:"usdbrl"`
}

func (s Shock) apply(v [params.NumAssets]float64) [params.NumAssets]float64 {
	d := [params.NumAssets]float64{s.Sugar, s.Ethanol, s.USDBRL}
	for i := range v {
		if s.Kind == Multiplicative {
			v[i] *= 1 + d[i]
		} else {
			v[i] += d[i]
		}
	}
	return v
}

// PathConfig describes one price path. Periods are 1-based in Shocks and Observed.
type PathConfig struct {
	Initial     PriceState
	Volatility  [params.NumAssets]float64
	Drift       [params.NumAssets]float64
	Correlation [params.NumAssets][params.NumAssets]float64
	Periods     int
	PeriodYears float64
	Shocks      map[int]Shock
	Observed    map[int]PriceState
}

// ConfigFromMarket builds a path config from the market parameters.
func ConfigFromMarket(m params.MarketDefaults, periods int) PathConfig {
	return PathConfig{
		Initial:     PriceState{Sugar: m.NY11, Ethanol: m.Ethanol, USDBRL: m.USDBRL},
		Volatility:  m.Volatility,
		Drift:       m.Drift,
		Correlation: m.Correlation,
		Periods:     periods,
		PeriodYears: DefaultPeriodYears,
	}
}

// Validate checks the config and returns the lower Cholesky factor of the
// correlation matrix.
func (cfg PathConfig) Validate() (*mat.TriDense, error) {
	if cfg.Periods < 1 {
		return nil, &params.ConfigurationError{Field: "periods", Reason: fmt.Sprintf("must be >= 1, got %d", cfg.Periods)}
	}
	if !(cfg.PeriodYears > 0) {
		return nil, &params.ConfigurationError{Field: "period_years", Reason: fmt.Sprintf("must be > 0, got %g", cfg.PeriodYears)}
	}
	for i, v := range cfg.Initial.values() {
		if !(v > 0) {
			return nil, &params.ConfigurationError{Field: "initial", Reason: fmt.Sprintf("asset %d price must be > 0, got %g", i, v)}
		}
	}
	for i, v := range cfg.Volatility {
		if math.IsNaN(v) || v < 0 {
			return nil, &params.ConfigurationError{Field: "volatility", Reason: fmt.Sprintf("asset %d must be >= 0, got %g", i, v)}
		}
	}
	for p, s := range cfg.Shocks {
		if p < 1 || p > cfg.Periods {
			return nil, &params.ConfigurationError{Field: "shocks", Reason: fmt.Sprintf("period %d outside 1..%d", p, cfg.Periods)}
		}
		if s.Kind != Additive && s.Kind != Multiplicative {
			return nil, &params.ConfigurationError{Field: "shocks", Reason: fmt.Sprintf("period %d has unknown kind %q", p, s.Kind)}
		}
	}
	for p, o := range cfg.Observed {
		if p < 1 || p > cfg.Periods {
			return nil, &params.ConfigurationError{Field: "observed", Reason: fmt.Sprintf("period %d outside 1..%d", p, cfg.Periods)}
		}
		for _, v := range o.values() {
			if !(v > 0) {
				return nil, &params.ConfigurationError{Field: "observed", Reason: fmt.Sprintf("period %d has non-positive price", p)}
			}
		}
	}
	return choleskyFactor(cfg.Correlation)
}

func choleskyFactor(corr [params.NumAssets][params.NumAssets]float64) (*mat.TriDense, error) {
	n := params.NumAssets
	data := make([]float64, 0, n*n)
	for i := 0; i < n; i++ {
		if corr[i][i] != 1 {
			return nil, &params.ConfigurationError{Field: "correlation", Reason: fmt.Sprintf("diagonal [%d][%d] must be 1, got %g", i, i, corr[i][i])}
		}
		for j := 0; j < n; j++ {
			if math.IsNaN(corr[i][j]) || corr[i][j] < -1 || corr[i][j] > 1 {
				return nil, &params.ConfigurationError{Field: "correlation", Reason: fmt.Sprintf("[%d][%d] = %g outside [-1, 1]", i, j, corr[i][j])}
			}
			if corr[i][j] != corr[j][i] {
				return nil, &params.ConfigurationError{Field: "correlation", Reason: fmt.Sprintf("matrix is not symmetric at [%d][%d]", i, j)}
			}
			data = append(data, corr[i][j])
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(mat.NewSymDense(n, data)); !ok {
		return nil, &params.ConfigurationError{Field: "correlation", Reason: "matrix is not positive definite"}
	}
	var l mat.TriDense
	chol.LTo(&l)
	return &l, nil
}

// Simulator owns the random source. Successive Simulate calls continue the
// same stream, so only a fixed seed reproduces a sequence of calls.
type Simulator struct {
	rng *rand.Rand
}

// NewSimulator creates a simulator. A zero seed draws one from the clock.
func NewSimulator(seed int64) *Simulator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulator{rng: rand.New(rand.NewSource(seed))}
}

// Simulate validates cfg and returns a lazy path of cfg.Periods states.
// Draws are taken from the simulator as the path is consumed.
func (s *Simulator) Simulate(cfg PathConfig) (*Path, error) {
	l, err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	return &Path{cfg: cfg, chol: l, rng: s.rng, prev: cfg.Initial}, nil
}

// Path is a finite, forward-only sequence of PriceState.
type Path struct {
	cfg  PathConfig
	chol *mat.TriDense
	rng  *rand.Rand

	period int
	prev   PriceState
	cur    PriceState
	err    error
}

// Next advances to the next period. It returns false at the end of the path
// or after an error; Err distinguishes the two.
func (p *Path) Next() bool {
	if p.err != nil || p.period >= p.cfg.Periods {
		return false
	}
	p.period++

	z := p.correlatedDraws()
	next := p.prev.values()
	dt := p.cfg.PeriodYears
	for i := range next {
		sigma := p.cfg.Volatility[i]
		next[i] *= math.Exp((p.cfg.Drift[i]-0.5*sigma*sigma)*dt + sigma*math.Sqrt(dt)*z[i])
	}

	state := PriceState{Period: p.period}
	if obs, ok := p.cfg.Observed[p.period]; ok {
		state = obs
		state.Period = p.period
		state.Observed = true
	} else {
		if shock, ok := p.cfg.Shocks[p.period]; ok {
			next = shock.apply(next)
		}
		for i, v := range next {
			if !(v > 0) {
				p.err = &params.RangeError{What: fmt.Sprintf("period %d asset %d price", p.period, i), Value: v, Min: 0, Max: math.MaxFloat64}
				return false
			}
		}
		state.set(next)
	}

	p.prev = state
	p.cur = state
	return true
}

// correlatedDraws always consumes exactly NumAssets normals so that observed
// periods do not shift the random stream of later periods.
func (p *Path) correlatedDraws() [params.NumAssets]float64 {
	var eps, z [params.NumAssets]float64
	for i := range eps {
		eps[i] = p.rng.NormFloat64()
	}
	for i := 0; i < params.NumAssets; i++ {
		for j := 0; j <= i; j++ {
			z[i] += p.chol.At(i, j) * eps[j]
		}
	}
	return z
}

// State returns the state produced by the last successful Next.
func (p *Path) State() PriceState { return p.cur }

// Err returns the error that stopped the path, if any.
func (p *Path) Err() error { return p.err }

// All yields the remaining states. Check Err after the loop.
func (p *Path) All() iter.Seq[PriceState] {
	return func(yield func(PriceState) bool) {
		for p.Next() {
			if !yield(p.cur) {
				return
			}
		}
	}
}

// Collect drains the path into a slice.
func (p *Path) Collect() ([]PriceState, error) {
	out := make([]PriceState, 0, p.cfg.Periods-p.period)
	for s := range p.All() {
		out = append(out, s)
	}
	return out, p.err
}
