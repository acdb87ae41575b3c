package stats

import (
	"math"
	"testing"
)

func TestPercentile_Median(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"Empty", []float64{}, 0},
		{"SingleItem", []float64{5.5}, 5.5},
		{"OddCount", []float64{1.1, 3.3, 2.2, 4.4, 5.5}, 3.3},
		{"EvenCount", []float64{1.1, 2.2, 3.3, 4.4}, 2.75},
		{"Unsorted", []float64{10.5, 2.5, 8.5, 4.5, 6.5}, 6.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentile(tt.values, 0.5); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Percentile(0.5) = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestPercentile(t *testing.T) {
	values := []float64{10, 1, 9, 2, 8, 3, 7, 4, 6, 5}
	tests := []struct {
		name     string
		p        float64
		expected float64
	}{
		{"Min", 0, 1},
		{"Max", 1, 10},
		{"Median", 0.5, 5.5},
		{"P10", 0.1, 1.9},
		{"P90", 0.9, 9.1},
		{"ClampedBelow", -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentile(values, tt.p); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Percentile(%v) = %v, want %v", tt.p, got, tt.expected)
			}
		})
	}

	if values[0] != 10 {
		t.Errorf("Percentile must not reorder its input")
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{4, 4, 4, 4})
	if s.P10 != 4 || s.P50 != 4 || s.P90 != 4 || s.Mean != 4 {
		t.Errorf("constant sample should collapse the spread, got %+v", s)
	}
	if (Summarize(nil) != Spread{}) {
		t.Errorf("empty sample should give a zero spread")
	}
}
