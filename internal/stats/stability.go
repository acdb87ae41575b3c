package stats

import (
	"fmt"
	"math"
)

// NaturalProcessScale is Wheeler's scaling constant for an Individuals chart.
const NaturalProcessScale = 2.66

// ShiftRunLength is the number of successive points on one side of the
// average that signals a process shift.
const ShiftRunLength = 8

// Signal kinds.
const (
	SignalOutlier = "outlier"
	SignalShift   = "shift"
)

// XmRResult represents the output of a Process Behavior Chart analysis.
// Limits are not clamped, so signed series such as net values keep a
// negative LNPL.
type XmRResult struct {
	Average     float64   `json:"average"`
	AmR         float64   `json:"average_moving_range"`
	UNPL        float64   `json:"upper_natural_process_limit"`
	LNPL        float64   `json:"lower_natural_process_limit"`
	Values      []float64 `json:"values"`
	MovingRange []float64 `json:"moving_ranges"`
	Signals     []Signal  `json:"signals"`
}

// Signal represents a detected special cause variation.
type Signal struct {
	Index       int    `json:"index"`
	Key         string `json:"key"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// CalculateXmR performs the math for an Individuals and Moving Range chart.
func CalculateXmR(values []float64) XmRResult {
	return CalculateXmRWithKeys(values, nil)
}

// CalculateXmRWithKeys is CalculateXmR with period labels bound to the signals.
func CalculateXmRWithKeys(values []float64, keys []string) XmRResult {
	if len(values) == 0 {
		return XmRResult{}
	}

	res := XmRResult{Values: values}
	res.Average = mean(values)
	res.MovingRange = movingRanges(values)
	if len(res.MovingRange) > 0 {
		res.AmR = mean(res.MovingRange)
	}
	res.UNPL = res.Average + NaturalProcessScale*res.AmR
	res.LNPL = res.Average - NaturalProcessScale*res.AmR

	// A series without variation has no special causes.
	if res.AmR == 0 {
		return res
	}
	label := func(i int) string {
		if i < len(keys) {
			return keys[i]
		}
		return ""
	}
	res.Signals = append(outliers(res, label), shifts(res, label)...)
	return res
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func movingRanges(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	mr := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		mr[i-1] = math.Abs(values[i] - values[i-1])
	}
	return mr
}

func outliers(res XmRResult, label func(int) string) []Signal {
	var out []Signal
	for i, v := range res.Values {
		switch {
		case v > res.UNPL:
			out = append(out, Signal{
				Index:       i,
				Key:         label(i),
				Type:        SignalOutlier,
				Description: fmt.Sprintf("%.2f above Upper Natural Process Limit (UNPL %.2f)", v, res.UNPL),
			})
		case v < res.LNPL:
			out = append(out, Signal{
				Index:       i,
				Key:         label(i),
				Type:        SignalOutlier,
				Description: fmt.Sprintf("%.2f below Lower Natural Process Limit (LNPL %.2f)", v, res.LNPL),
			})
		}
	}
	return out
}

// shifts reports the point that completes each run of ShiftRunLength
// quinzenas on one side of the average. Points on the average break a run.
func shifts(res XmRResult, label func(int) string) []Signal {
	var out []Signal
	side, run := 0, 0
	for i, v := range res.Values {
		s := 0
		if v > res.Average {
			s = 1
		} else if v < res.Average {
			s = -1
		}
		if s != 0 && s == side {
			run++
		} else {
			side, run = s, 1
		}
		if s != 0 && run == ShiftRunLength {
			where := "above"
			if s < 0 {
				where = "below"
			}
			out = append(out, Signal{
				Index:       i,
				Key:         label(i),
				Type:        SignalShift,
				Description: fmt.Sprintf("%d consecutive points %s the average (process shift)", ShiftRunLength, where),
			})
		}
	}
	return out
}
