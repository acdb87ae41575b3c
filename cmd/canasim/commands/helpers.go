package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"canasim/internal/parity"
	"canasim/internal/simulation"
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSeason(w io.Writer, season *simulation.Season, detail bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	if detail {
		fmt.Fprintln(tw, "period\tlabel\tNY11\tethanol\tUSD/BRL\tmix %\tmilled %\tsugar t\tethanol m3\tbest\t")
		milled := season.Profile.CumulativeMilling()
		for i, p := range season.Periods {
			label := p.Label
			if p.Elapsed {
				label += "*"
			}
			fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.0f\t%.4f\t%.1f\t%.1f\t%.0f\t%.0f\t%s\t\n",
				p.Period, label, p.Prices.Sugar, p.Prices.Ethanol, p.Prices.USDBRL,
				p.Mix*100, milled[i], p.Production.SugarTons, p.Production.Ethanol.Total(), p.Best)
		}
		fmt.Fprintln(tw, "\t\t\t\t\t\t\t\t\t\t")
	}

	t := season.Totals
	fmt.Fprintf(tw, "seed\t%d\t\n", season.Seed)
	fmt.Fprintf(tw, "cane t\t%.0f\t\n", t.CaneTons)
	fmt.Fprintf(tw, "sugar t\t%.0f\t\n", t.SugarTons)
	fmt.Fprintf(tw, "anhydrous m3\t%.0f\t\n", t.Ethanol.Anhydrous())
	fmt.Fprintf(tw, "hydrated m3\t%.0f\t\n", t.Ethanol.Hydrated())
	fmt.Fprintf(tw, "final mix %%\t%.1f\t\n", season.FinalMix*100)
	for _, r := range parity.Routes {
		if c := season.BestCounts[r]; c > 0 {
			fmt.Fprintf(tw, "best %s\t%d periods\t\n", r, c)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, r := range season.Rejected {
		fmt.Fprintf(w, "rejected: %s\n", r)
	}
	for _, sig := range season.SugarNetXmR.Signals {
		fmt.Fprintf(w, "signal: %s at %s: %s\n", sig.Type, sig.Key, sig.Description)
	}
	return nil
}

func writeRanking(w io.Writer, ranked []parity.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "route\tgross\ttaxes\tcbio\tfreight\tterminal\tnet BRL/t\tnet c/lb\t")
	for _, r := range ranked {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.4f\t\n",
			r.Route, r.Gross, r.Taxes, r.CBIO, r.Freight, r.Terminal, r.Net, r.NetCentsLb)
	}
	return tw.Flush()
}

func writeMonteCarlo(w io.Writer, mc simulation.MonteCarloResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "trials\t%d\tbase seed\t%d\t\n", mc.Trials, mc.BaseSeed)
	fmt.Fprintln(tw, "\tP10\tP50\tP90\tmean\t")
	rows := []struct {
		name   string
		format string
		p10    float64
		p50    float64
		p90    float64
		mean   float64
	}{
		{"sugar t", "%.0f", mc.SugarTons.P10, mc.SugarTons.P50, mc.SugarTons.P90, mc.SugarTons.Mean},
		{"ethanol m3", "%.0f", mc.EthanolM3.P10, mc.EthanolM3.P50, mc.EthanolM3.P90, mc.EthanolM3.Mean},
		{"final mix", "%.4f", mc.FinalMix.P10, mc.FinalMix.P50, mc.FinalMix.P90, mc.FinalMix.Mean},
		{"sugar net c/lb", "%.2f", mc.SugarNetCentsLb.P10, mc.SugarNetCentsLb.P50, mc.SugarNetCentsLb.P90, mc.SugarNetCentsLb.Mean},
	}
	for _, r := range rows {
		f := r.format
		fmt.Fprintf(tw, "%s\t"+f+"\t"+f+"\t"+f+"\t"+f+"\t\n", r.name, r.p10, r.p50, r.p90, r.mean)
	}
	for _, r := range parity.Routes {
		fmt.Fprintf(tw, "best %s\t%.1f%%\t\t\t\t\n", r, mc.BestRouteShare[r]*100)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, i := range mc.Insights {
		fmt.Fprintf(w, "note: %s\n", i)
	}
	return nil
}
