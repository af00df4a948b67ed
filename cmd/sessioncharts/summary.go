package main

import (
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/josanescod/ciber-intrusion-visualization/src/analysis"
	"github.com/josanescod/ciber-intrusion-visualization/src/sessions"
)

func newSummaryCmd(a *app) *cobra.Command {
	var file, category string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the per-group risk aggregates behind the radial chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("category") {
				category = a.cfg.Radial.Category
			}
			c, err := analysis.ParseCategory(category)
			if err != nil {
				return err
			}
			recs, err := sessions.LoadCSV(a.datasetFile(cmd, file))
			if err != nil {
				return err
			}
			writeSummary(cmd.OutOrStdout(), recs, c)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", sessions.DefaultDatasetFile, "Path to the session CSV")
	cmd.Flags().StringVar(&category, "category", string(analysis.CategoryProtocol), "Grouping: protocol_type or encryption_used")
	return cmd
}

func writeSummary(w io.Writer, recs []sessions.Session, c analysis.Category) {
	aggs := analysis.Aggregate(recs, c)
	fmt.Fprintf(w, "Total sessions: %d\n", len(recs))
	fmt.Fprintf(w, "%-14s %7s %7s %7s %7s %9s %11s\n", c, "total", "low", "medium", "high", "confirmed", "attack_rate")
	unclassified := 0
	for _, g := range aggs {
		rate := "n/a"
		if !math.IsNaN(g.AttackRate) {
			rate = fmt.Sprintf("%.1f%%", g.AttackRate*100)
		}
		fmt.Fprintf(w, "%-14s %7d %7d %7d %7d %9d %11s\n", analysis.DisplayKey(g.Key), g.Total,
			g.RiskCounts[0], g.RiskCounts[1], g.RiskCounts[2], g.RiskCounts[3], rate)
		unclassified += g.Unclassified
	}
	if unclassified > 0 {
		fmt.Fprintf(w, "Unclassified risk level: %d\n", unclassified)
	}
}
