package visuals

import (
	"fmt"
	"math"
	"strings"

	"canasim/internal/parity"
	"canasim/internal/simulation"
)

// Mermaid's xychart starts overlapping labels at around 60 points.
const maxPoints = 60

// GeneratePriceChart creates a Mermaid xychart-beta with the NY11 quote and the
// sugar route net value per period, both in USc/lb.
func GeneratePriceChart(periods []simulation.PeriodResult) string {
	if len(periods) == 0 {
		return ""
	}

	var labels []string
	var ny11 []string
	var net []string
	var plotted []float64

	for _, p := range sample(periods) {
		labels = append(labels, fmt.Sprintf("\"%s\"", p.Label))
		ny11 = append(ny11, fmt.Sprintf("%.2f", p.Prices.Sugar))
		sugarNet := routeNet(p, parity.SugarExport)
		net = append(net, fmt.Sprintf("%.2f", sugarNet))
		plotted = append(plotted, p.Prices.Sugar, sugarNet)
	}
	lo, hi := yAxis(plotted...)

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"NY11 and Sugar Net Value\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"USc/lb\" %d --> %d\n", lo, hi))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(ny11, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(net, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateMixChart plots the profile-plus-deviation base mix against the applied mix, in percent.
func GenerateMixChart(periods []simulation.PeriodResult) string {
	if len(periods) == 0 {
		return ""
	}

	var labels []string
	var base []string
	var applied []string

	for _, p := range sample(periods) {
		labels = append(labels, fmt.Sprintf("\"%s\"", p.Label))
		base = append(base, fmt.Sprintf("%.1f", p.BaseMix*100))
		applied = append(applied, fmt.Sprintf("%.1f", p.Mix*100))
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Sugar Mix (% of ATR)\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString("    y-axis \"Mix (%)\" 0 --> 100\n")
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(base, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(applied, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateRouteChart creates a Mermaid bar chart of the season-average net value per route.
func GenerateRouteChart(periods []simulation.PeriodResult) string {
	if len(periods) == 0 {
		return ""
	}

	var labels []string
	var values []string
	var avgs []float64

	for _, r := range parity.Routes {
		sum := 0.0
		for _, p := range periods {
			sum += routeNet(p, r)
		}
		avg := sum / float64(len(periods))
		labels = append(labels, fmt.Sprintf("\"%s\"", r))
		values = append(values, fmt.Sprintf("%.2f", avg))
		avgs = append(avgs, avg)
	}
	lo, hi := yAxis(avgs...)

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Average Net Value by Route\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"USc/lb VHP-equivalent\" %d --> %d\n", lo, hi))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateMonteCarloChart creates a Mermaid bar chart of the season sugar output percentiles in million tonnes.
func GenerateMonteCarloChart(res simulation.MonteCarloResult) string {
	if res.Trials == 0 || res.SugarTons.P90 == 0 {
		return ""
	}

	labels := []string{
		"\"P10\"",
		"\"P50 (Median)\"",
		"\"P90\"",
	}
	values := []string{
		fmt.Sprintf("%.2f", res.SugarTons.P10/1e6),
		fmt.Sprintf("%.2f", res.SugarTons.P50/1e6),
		fmt.Sprintf("%.2f", res.SugarTons.P90/1e6),
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"Monte Carlo Sugar Output (%d trials)\"\n", res.Trials))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Sugar (Mt)\" 0 --> %d\n", int(math.Ceil(res.SugarTons.P90/1e6*1.1))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateBestRoutePie creates a Mermaid pie chart of how often each route ranked first.
func GenerateBestRoutePie(res simulation.MonteCarloResult) string {
	if len(res.BestRouteShare) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("pie title Best Route Share\n")
	for _, r := range parity.Routes {
		if share := res.BestRouteShare[r]; share > 0 {
			sb.WriteString(fmt.Sprintf("    \"%s\" : %.1f\n", r, share*100))
		}
	}
	sb.WriteString("```")
	return sb.String()
}

func routeNet(p simulation.PeriodResult, r parity.Route) float64 {
	for _, res := range p.Parity {
		if res.Route == r {
			return res.NetCentsLb
		}
	}
	return 0
}

// yAxis returns integer axis bounds with 20% headroom around values. The lower
// bound stays at 0 unless a value is negative.
func yAxis(values ...float64) (int, int) {
	lo, hi := 0.0, 0.0
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	bottom := int(math.Floor(lo * 1.2))
	top := int(math.Ceil(hi * 1.2))
	if top <= bottom {
		top = bottom + 1
	}
	return bottom, top
}

// sample keeps every n-th period plus the last one when there are too many to draw.
func sample(periods []simulation.PeriodResult) []simulation.PeriodResult {
	if len(periods) <= maxPoints {
		return periods
	}
	rate := int(math.Ceil(float64(len(periods)) / maxPoints))
	out := make([]simulation.PeriodResult, 0, maxPoints+1)
	for i, p := range periods {
		if i%rate == 0 || i == len(periods)-1 {
			out = append(out, p)
		}
	}
	return out
}

// GenerateStabilityChart creates a Mermaid xychart-beta for the Process
// Behavior (XmR) of the sugar route net value across the season.
func GenerateStabilityChart(season *simulation.Season) string {
	xmr := season.SugarNetXmR
	if len(xmr.Values) == 0 {
		return ""
	}

	var labels []string
	var values []string
	var averages []string
	var unpls []string
	var lnpls []string

	for i, v := range xmr.Values {
		label := fmt.Sprintf("%d", i+1)
		if i < len(season.Periods) {
			label = season.Periods[i].Label
		}
		labels = append(labels, fmt.Sprintf("\"%s\"", label))
		values = append(values, fmt.Sprintf("%.2f", v))
		averages = append(averages, fmt.Sprintf("%.2f", xmr.Average))
		unpls = append(unpls, fmt.Sprintf("%.2f", xmr.UNPL))
		lnpls = append(lnpls, fmt.Sprintf("%.2f", xmr.LNPL))
	}

	lo, hi := yAxis(append([]float64{xmr.UNPL, xmr.LNPL}, xmr.Values...)...)

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Sugar Net Value Behavior (XmR)\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"USc/lb\" %d --> %d\n", lo, hi))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(values, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(averages, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(unpls, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(lnpls, ", ")))
	sb.WriteString("```")
	return sb.String()
}
