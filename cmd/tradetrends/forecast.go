package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"TradeTrends/internal/model"
	"TradeTrends/internal/pipeline"
)

func forecastCmd() *cobra.Command {
	var (
		start, end string
		years      int
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "forecast [SYMBOL|PRESET]",
		Short: "Run one forecast and print the report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := pipeline.Request{Years: years}
			if len(args) == 1 {
				req.Symbol = args[0]
			}
			var err error
			if req.Start, err = parseFlagDate("start", start); err != nil {
				return err
			}
			if req.End, err = parseFlagDate("end", end); err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cfg, true)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			rep, err := a.pipeline.Run(ctx, req)
			if err != nil {
				return fmt.Errorf("%s: %w", model.Kind(err), err)
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			}
			printReport(cmd.OutOrStdout(), rep)
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "Window start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Window end date (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&years, "years", "y", 0, "Forecast horizon in years (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full report as JSON")
	return cmd
}

func parseFlagDate(name, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s must be YYYY-MM-DD: %w", name, err)
	}
	return t, nil
}

func printReport(w io.Writer, rep *pipeline.Report) {
	fmt.Fprintf(w, "%s  %s → %s  (%d-year horizon, run %s)\n\n", rep.Symbol,
		rep.Range.Start.Format(time.DateOnly), rep.Range.End.Format(time.DateOnly), rep.Years, rep.RunID)

	if s := rep.Summary; s != nil {
		fmt.Fprintf(w, "Sessions %d  first %.2f  last %.2f  change %+.2f%%  high %.2f  low %.2f\n",
			s.Rows, s.First, s.Last, s.ChangePct, s.High, s.Low)
	}
	if snap := rep.Snapshot; snap != nil && len(snap.Bars) > 0 {
		b := snap.Bars[len(snap.Bars)-1]
		fmt.Fprintf(w, "Real-time (%s, open=%v): close %s  volume %s\n",
			snap.Exchange, snap.MarketOpen, fmtCell(b.Close.Valid, b.Close.Float64), fmtCell(b.Volume.Valid, b.Volume.Float64))
	}

	if rep.ForecastError != "" {
		fmt.Fprintf(w, "\nForecast unavailable: %s\n", rep.ForecastError)
	} else if len(rep.ForecastTail) > 0 {
		fmt.Fprintln(w, "\nForecast (tail):")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ds\tyhat\tyhat_lower\tyhat_upper")
		for _, p := range rep.ForecastTail {
			fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\n", p.DS.Format(time.DateOnly), p.YHat, p.YHatLower, p.YHatUpper)
		}
		tw.Flush()
	}

	if len(rep.News) > 0 {
		fmt.Fprintln(w, "\nLatest news:")
		for _, n := range rep.News {
			fmt.Fprintf(w, "  - %s (%s)\n    %s\n", n.Title, n.SourceName, n.URL)
		}
	}
	for _, warn := range rep.Warnings {
		fmt.Fprintf(w, "\nwarning: %s\n", warn)
	}
}

func fmtCell(valid bool, v float64) string {
	if !valid {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}
