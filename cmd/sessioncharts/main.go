// Command sessioncharts renders the session charts headlessly and prints
// the aggregates and animation schedule behind them.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/josanescod/ciber-intrusion-visualization/src/config"
	"github.com/josanescod/ciber-intrusion-visualization/src/sessions"
)

// app carries state shared by all subcommands once the root pre-run has loaded config.
type app struct {
	out        io.Writer
	configPath string
	logLevel   string
	cfg        *config.Config
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}
	root := &cobra.Command{
		Use:   "sessioncharts",
		Short: "Render cybersecurity session charts from a CSV dataset",
		Long: `sessioncharts reads a session dataset and renders the bubble,
parallel-coordinates and radial risk charts as SVG or PNG files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: sessioncharts.yaml in . or ./configs)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	root.AddCommand(newRenderCmd(a), newSummaryCmd(a), newTimelineCmd(a))
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	level := cfg.Logger.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	sessions.SetLogLevel(level)
	a.cfg = cfg
	return nil
}

// datasetFile resolves the --file flag against the configured dataset.
func (a *app) datasetFile(cmd *cobra.Command, flagValue string) string {
	if cmd.Flags().Changed("file") || a.cfg == nil {
		return flagValue
	}
	return a.cfg.Dataset.File
}

func main() {
	defer sessions.Sync()
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		sessions.Sync()
		os.Exit(1)
	}
}
