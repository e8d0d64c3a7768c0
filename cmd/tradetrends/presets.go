package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"TradeTrends/internal/model"
)

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the preset tickers",
		Run: func(cmd *cobra.Command, args []string) {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, p := range model.Presets {
				marker := ""
				if p.Symbol == model.DefaultSymbol {
					marker = "(default)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Symbol, p.Name, marker)
			}
			tw.Flush()
		},
	}
}
