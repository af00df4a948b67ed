package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josanescod/ciber-intrusion-visualization/src/analysis"
	"github.com/josanescod/ciber-intrusion-visualization/src/render"
	"github.com/josanescod/ciber-intrusion-visualization/src/sessions"
)

func newTimelineCmd(a *app) *cobra.Command {
	var file, category, mode string
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Print the radial chart entry animation schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("category") {
				category = a.cfg.Radial.Category
			}
			if !cmd.Flags().Changed("mode") {
				mode = a.cfg.Radial.Mode
			}
			c, err := analysis.ParseCategory(category)
			if err != nil {
				return err
			}
			m, err := analysis.ParseMode(mode)
			if err != nil {
				return err
			}
			recs, err := sessions.LoadCSV(a.datasetFile(cmd, file))
			if err != nil {
				return err
			}
			cfg := analysis.DefaultRadialConfig()
			cfg.GridLevels = a.cfg.Radial.GridLevels
			tl := render.RadialTimeline(analysis.BuildRadial(recs, c, m, cfg))
			w := cmd.OutOrStdout()
			for _, k := range tl.Keyframes {
				fmt.Fprintln(w, k.String())
			}
			fmt.Fprintf(w, "Total: %s\n", tl.Duration())
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", sessions.DefaultDatasetFile, "Path to the session CSV")
	cmd.Flags().StringVar(&category, "category", string(analysis.CategoryProtocol), "Grouping: protocol_type or encryption_used")
	cmd.Flags().StringVar(&mode, "mode", string(analysis.ModeCount), "Radial mode: count or percent")
	return cmd
}
