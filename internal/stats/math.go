package stats

import (
	"math"
	"slices"
)

// Percentile returns the p-th percentile (0-1) with linear interpolation
// between closest ranks. The input is not mutated.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)
	return percentileSorted(temp, p)
}

func percentileSorted(sorted []float64, p float64) float64 {
	p = math.Min(math.Max(p, 0), 1)
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

// Spread summarizes a distribution of simulated outcomes.
type Spread struct {
	P10  float64 `json:"p10"`
	P50  float64 `json:"p50"`
	P90  float64 `json:"p90"`
	Mean float64 `json:"mean"`
}

// Summarize computes the P10/P50/P90 spread and mean of values.
func Summarize(values []float64) Spread {
	if len(values) == 0 {
		return Spread{}
	}
	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)

	sum := 0.0
	for _, v := range temp {
		sum += v
	}
	return Spread{
		P10:  percentileSorted(temp, 0.10),
		P50:  percentileSorted(temp, 0.50),
		P90:  percentileSorted(temp, 0.90),
		Mean: sum / float64(len(temp)),
	}
}
