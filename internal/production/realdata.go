package production

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"canasim/internal/params"

	"github.com/shopspring/decimal"
)

// RescalePolicy decides how milling percentages are redistributed around
// real cumulative observations.
type RescalePolicy string

const (
	// RescaleProportional keeps the projected shape: each unobserved period
	// keeps its share of the segment it falls into.
	RescaleProportional RescalePolicy = "proportional"
	// RescaleUniform spreads each segment evenly over its periods.
	RescaleUniform RescalePolicy = "uniform"
)

// ParsePolicy validates a policy name. The empty string selects the default.
func ParsePolicy(s string) (RescalePolicy, error) {
	switch RescalePolicy(s) {
	case "", RescaleProportional:
		return RescaleProportional, nil
	case RescaleUniform:
		return RescaleUniform, nil
	}
	return "", &params.ConfigurationError{Field: "rescale_policy", Reason: fmt.Sprintf("unknown policy %q", s)}
}

// Observation is the operator-supplied real data of one elapsed period, as
// typed in a Brazilian spreadsheet ("1.234.567,8"). ATR and Mix are optional;
// Mix is a sugar percentage (0-100).
type Observation struct {
	Period         int    `json:"period"`
	CumulativeCane string `json:"cumulative_cane"`
	ATR            string `json:"atr,omitempty"`
	Mix            string `json:"mix,omitempty"`

	// Invalid is set by readers for a row that could not be read.
	Invalid error `json:"-"`
}

type actual struct {
	period int
	cum    float64
	atr    *float64
	mix    *float64
}

// Override is a profile blended from real and projected data.
type Override struct {
	Profile params.SeasonalProfile `json:"profile"`
	// LastElapsed is the last period covered by an accepted observation (1-based, 0 if none).
	LastElapsed int `json:"last_elapsed"`
	// MixObserved lists the periods whose mix came from real data.
	MixObserved map[int]bool `json:"mix_observed,omitempty"`
	// Rejected holds one DataFormatError per observation that was not applied.
	Rejected []error `json:"-"`
}

// Elapsed reports whether period (1-based) is covered by real data.
func (o Override) Elapsed(period int) bool { return period <= o.LastElapsed }

// ParseLocaleDecimal parses a number written with ',' as decimal separator and
// '.' as thousands separator. A trailing '%' is ignored.
func ParseLocaleDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty value")
	}

	intPart, frac, hasFrac := strings.Cut(s, ",")
	if hasFrac && !allDigits(frac) {
		return decimal.Zero, fmt.Errorf("malformed decimal part")
	}

	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign, intPart = "-", intPart[1:]
	}
	groups := strings.Split(intPart, ".")
	for i, g := range groups {
		if g == "" || (i > 0 && len(g) != 3) || (i == 0 && len(groups) > 1 && len(g) > 3) {
			return decimal.Zero, fmt.Errorf("misplaced thousands separator")
		}
		if !allDigits(g) {
			return decimal.Zero, fmt.Errorf("unexpected character in %q", g)
		}
	}

	normalized := sign + strings.Join(groups, "")
	if hasFrac {
		normalized += "." + frac
	}
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// allDigits reports whether s is a non-empty run of ASCII digits. Exponents
// and a leading '+' are not part of the locale format.
func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatLocaleDecimal writes d with places decimals, ',' as decimal separator
// and '.' between thousands groups: the inverse of ParseLocaleDecimal.
func FormatLocaleDecimal(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var sb strings.Builder
	sb.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(r)
	}
	if hasFrac {
		sb.WriteByte(',')
		sb.WriteString(frac)
	}
	return sb.String()
}

func parseObservation(o Observation, n int) (actual, error) {
	if o.Invalid != nil {
		return actual{}, o.Invalid
	}
	fail := func(field, value string, err error) (actual, error) {
		return actual{}, &params.DataFormatError{Period: o.Period, Field: field, Value: value, Err: err}
	}

	if o.Period < 1 || o.Period > n {
		return fail("period", fmt.Sprint(o.Period), fmt.Errorf("outside 1..%d", n))
	}
	cum, err := ParseLocaleDecimal(o.CumulativeCane)
	if err != nil {
		return fail("cumulative_cane", o.CumulativeCane, err)
	}
	if cum.IsNegative() {
		return fail("cumulative_cane", o.CumulativeCane, fmt.Errorf("must be >= 0"))
	}
	a := actual{period: o.Period, cum: cum.InexactFloat64()}

	if strings.TrimSpace(o.ATR) != "" {
		v, err := ParseLocaleDecimal(o.ATR)
		if err != nil {
			return fail("atr", o.ATR, err)
		}
		if !v.IsPositive() {
			return fail("atr", o.ATR, fmt.Errorf("must be > 0"))
		}
		f := v.InexactFloat64()
		a.atr = &f
	}
	if strings.TrimSpace(o.Mix) != "" {
		v, err := ParseLocaleDecimal(o.Mix)
		if err != nil {
			return fail("mix", o.Mix, err)
		}
		if v.IsNegative() || v.GreaterThan(decimal.NewFromInt(100)) {
			return fail("mix", o.Mix, fmt.Errorf("must be within 0..100"))
		}
		f := v.Div(decimal.NewFromInt(100)).InexactFloat64()
		a.mix = &f
	}
	return a, nil
}

// ApplyRealData anchors the profile's cumulative milling on the observations
// and redistributes the remaining periods with policy so milling still sums
// to 100% of totalCane. Malformed observations are rejected individually; a
// cumulative value that cannot fit the season total fails the whole override.
func ApplyRealData(profile params.SeasonalProfile, totalCane float64, obs []Observation, policy RescalePolicy) (Override, error) {
	if err := profile.Validate(); err != nil {
		return Override{}, err
	}
	if !(totalCane > 0) {
		return Override{}, &params.ConfigurationError{Field: "cane_tons", Reason: fmt.Sprintf("must be > 0, got %g", totalCane)}
	}
	policy, err := ParsePolicy(string(policy))
	if err != nil {
		return Override{}, err
	}

	n := profile.Len()
	out := Override{Profile: profile.Clone()}

	accepted := make([]actual, 0, len(obs))
	for _, o := range obs {
		a, err := parseObservation(o, n)
		if err != nil {
			out.Rejected = append(out.Rejected, err)
			continue
		}
		accepted = append(accepted, a)
	}
	sort.SliceStable(accepted, func(i, j int) bool { return accepted[i].period < accepted[j].period })

	anchors := make([]actual, 0, len(accepted))
	seen := make(map[int]bool, len(accepted))
	prevCum := 0.0
	for _, a := range accepted {
		switch {
		case seen[a.period]:
			out.Rejected = append(out.Rejected, &params.DataFormatError{Period: a.period, Field: "period", Value: fmt.Sprint(a.period), Err: fmt.Errorf("duplicate observation")})
			continue
		case a.cum < prevCum:
			out.Rejected = append(out.Rejected, &params.DataFormatError{Period: a.period, Field: "cumulative_cane", Value: fmt.Sprint(a.cum), Err: fmt.Errorf("cumulative value decreased from %g", prevCum)})
			continue
		case a.cum > totalCane*(1+params.MillingTolerance):
			return Override{}, &params.RangeError{What: fmt.Sprintf("period %d cumulative cane", a.period), Value: a.cum, Min: 0, Max: totalCane}
		}
		seen[a.period] = true
		prevCum = a.cum
		anchors = append(anchors, a)
	}

	periods := out.Profile.Periods
	lastIdx, lastPct := 0, 0.0
	for _, a := range anchors {
		pct := math.Min(a.cum/totalCane*100, 100)
		redistribute(periods[lastIdx:a.period], pct-lastPct, policy)
		lastIdx, lastPct = a.period, pct

		if a.atr != nil {
			periods[a.period-1].ATR = *a.atr
		}
		if a.mix != nil {
			periods[a.period-1].Mix = *a.mix
			if out.MixObserved == nil {
				out.MixObserved = make(map[int]bool)
			}
			out.MixObserved[a.period] = true
		}
	}
	out.LastElapsed = lastIdx

	remainder := 100 - lastPct
	if lastIdx == n {
		if math.Abs(remainder) > params.MillingTolerance {
			return Override{}, &params.RangeError{What: "season cumulative milling", Value: lastPct, Min: 100, Max: 100}
		}
	} else if lastIdx > 0 {
		redistribute(periods[lastIdx:], remainder, policy)
	}

	for i, p := range periods {
		if p.MillingPct < -params.MillingTolerance || p.MillingPct > 100+params.MillingTolerance {
			return Override{}, &params.RangeError{What: fmt.Sprintf("period %d milling pct", i+1), Value: p.MillingPct, Min: 0, Max: 100}
		}
	}
	if err := out.Profile.Validate(); err != nil {
		return Override{}, err
	}
	return out, nil
}

// redistribute sets the milling percentages of seg so they add up to total.
func redistribute(seg []params.Period, total float64, policy RescalePolicy) {
	if len(seg) == 0 {
		return
	}
	weight := 0.0
	for _, p := range seg {
		weight += p.MillingPct
	}
	for i := range seg {
		if policy == RescaleUniform || weight <= 0 {
			seg[i].MillingPct = total / float64(len(seg))
		} else {
			seg[i].MillingPct = seg[i].MillingPct / weight * total
		}
	}
}
