package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/josanescod/ciber-intrusion-visualization/src/analysis"
	"github.com/josanescod/ciber-intrusion-visualization/src/render"
	"github.com/josanescod/ciber-intrusion-visualization/src/sessions"
)

// renderOptions are the resolved settings of one render run.
type renderOptions struct {
	File        string
	Out         string
	Format      render.Format
	Category    analysis.Category
	Mode        analysis.Mode
	Width       int
	Height      int
	GridLevels  int
	Concurrency int
	Frames      int
	MetricsFile string
	Attacks     analysis.TogglePair // A: attacks only, B: normal only
	UTA         analysis.TogglePair // A: unusual time access only, B: usual only
	Brushes     *analysis.BrushSet
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		file, out, format, category, mode, metricsFile string
		width, height, frames                          int
		showAttacks, showNormal, showUTA1, showUTA0    bool
		brushes                                        []string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the bubble, parallel and radial charts as SVG or PNG",
		Long: `Renders the three charts into --out. Checkbox pairs behave like the
viewer: when both sides of a pair are set the later flag wins.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			flags := cmd.Flags()
			pick := func(name, flagValue, cfgValue string) string {
				if flags.Changed(name) {
					return flagValue
				}
				return cfgValue
			}
			pickInt := func(name string, flagValue, cfgValue int) int {
				if flags.Changed(name) {
					return flagValue
				}
				return cfgValue
			}
			opts := renderOptions{
				File:        a.datasetFile(cmd, file),
				Out:         pick("out", out, cfg.Render.Out),
				Width:       pickInt("width", width, cfg.Render.Width),
				Height:      pickInt("height", height, cfg.Render.Height),
				GridLevels:  cfg.Radial.GridLevels,
				Concurrency: cfg.Render.Concurrency,
				Frames:      pickInt("frames", frames, cfg.Render.Frames),
				MetricsFile: pick("metrics-file", metricsFile, cfg.Render.MetricsFile),
				Brushes:     analysis.NewBrushSet(),
			}
			var err error
			if opts.Format, err = render.ParseFormat(pick("format", format, cfg.Render.Format)); err != nil {
				return err
			}
			if opts.Category, err = analysis.ParseCategory(pick("category", category, cfg.Radial.Category)); err != nil {
				return err
			}
			if opts.Mode, err = analysis.ParseMode(pick("mode", mode, cfg.Radial.Mode)); err != nil {
				return err
			}
			if opts.Width < 0 || opts.Height < 0 || opts.Frames < 0 {
				return fmt.Errorf("width, height and frames must not be negative")
			}
			clickPair(&opts.Attacks, "attack", showAttacks, showNormal)
			clickPair(&opts.UTA, "unusual-time", showUTA1, showUTA0)
			for _, b := range brushes {
				field, lo, hi, err := parseBrush(b)
				if err != nil {
					return err
				}
				opts.Brushes.Set(field, lo, hi)
			}
			return runRender(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&file, "file", sessions.DefaultDatasetFile, "Path to the session CSV")
	f.StringVar(&out, "out", "charts", "Output directory")
	f.StringVar(&format, "format", string(render.FormatSVG), "Output format: svg or png")
	f.StringVar(&category, "category", string(analysis.CategoryProtocol), "Radial grouping: protocol_type or encryption_used")
	f.StringVar(&mode, "mode", string(analysis.ModeCount), "Radial mode: count or percent")
	f.IntVar(&width, "width", 0, "Chart width in pixels (0 keeps each chart's default)")
	f.IntVar(&height, "height", 0, "Chart height in pixels (0 keeps each chart's default)")
	f.BoolVar(&showAttacks, "show-attacks", false, "Bubble chart: show attack sessions only")
	f.BoolVar(&showNormal, "show-normal", false, "Bubble chart: show normal sessions only")
	f.BoolVar(&showUTA1, "show-uta1", false, "Parallel chart: show unusual-time sessions only")
	f.BoolVar(&showUTA0, "show-uta0", false, "Parallel chart: show usual-time sessions only")
	f.StringArrayVar(&brushes, "brush", nil, "Parallel brush as field=lo:hi (repeatable)")
	f.IntVar(&frames, "frames", 0, "Also write N radial animation frames")
	f.StringVar(&metricsFile, "metrics-file", "", "Write render metrics in Prometheus text format")
	return cmd
}

// clickPair replays the two flags as checkbox clicks, in flag order.
func clickPair(p *analysis.TogglePair, name string, a, b bool) {
	if a {
		p.Click(analysis.SideA, true)
	}
	if b && p.Click(analysis.SideB, true) {
		sessions.Warnf("both %s filters set; keeping the second", name)
	}
}

// parseBrush parses field=lo:hi.
func parseBrush(s string) (sessions.Field, float64, float64, error) {
	name, rng, ok := strings.Cut(s, "=")
	if !ok {
		return "", 0, 0, fmt.Errorf("brush %q: want field=lo:hi", s)
	}
	field := sessions.Field(strings.TrimSpace(name))
	known := false
	for _, f := range sessions.NumericFields {
		if f == field {
			known = true
		}
	}
	if !known {
		return "", 0, 0, fmt.Errorf("brush %q: unknown field %q", s, field)
	}
	los, his, ok := strings.Cut(rng, ":")
	if !ok {
		return "", 0, 0, fmt.Errorf("brush %q: want field=lo:hi", s)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(los), 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("brush %q: %w", s, err)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(his), 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("brush %q: %w", s, err)
	}
	return field, lo, hi, nil
}

type chartJob struct {
	name string
	draw render.DrawFunc
	// skipped reports sessions the chart could not plot, for metrics.
	skipped int
}

// buildJobs lays out every chart for recs.
func buildJobs(recs []sessions.Session, opts renderOptions) []chartJob {
	bcfg := analysis.DefaultBubbleConfig()
	pcfg := analysis.DefaultParallelConfig()
	rcfg := analysis.DefaultRadialConfig()
	if opts.Width > 0 && opts.Height > 0 {
		bcfg.Width, bcfg.Height = opts.Width, opts.Height
		pcfg.Width, pcfg.Height = opts.Width, opts.Height
		rcfg.Width, rcfg.Height = opts.Width, opts.Height
	}
	if opts.GridLevels > 0 {
		rcfg.GridLevels = opts.GridLevels
	}
	bubble := analysis.LayoutBubbles(recs, opts.Attacks, bcfg)
	parallel := analysis.LayoutParallel(recs, opts.UTA, opts.Brushes, pcfg)
	radial := analysis.BuildRadial(recs, opts.Category, opts.Mode, rcfg)
	jobs := []chartJob{
		{name: "bubble", skipped: bubble.Skipped, draw: func(w io.Writer, f render.Format) error { return render.Bubble(w, f, bubble) }},
		{name: "parallel", draw: func(w io.Writer, f render.Format) error { return render.Parallel(w, f, parallel) }},
		{name: "radial", draw: func(w io.Writer, f render.Format) error { return render.Radial(w, f, radial, render.RadialOptions{}) }},
	}
	if opts.Frames > 0 {
		tl := render.RadialTimeline(radial)
		for i, fr := range render.Frames(radial, tl, opts.Frames) {
			fr := fr
			jobs = append(jobs, chartJob{
				name: fmt.Sprintf("radial_frame_%03d", i),
				draw: func(w io.Writer, f render.Format) error { return render.Radial(w, f, fr, render.RadialOptions{}) },
			})
		}
	}
	return jobs
}

func runRender(ctx context.Context, stdout io.Writer, opts renderOptions) error {
	defer sessions.TimeTrack(time.Now(), "render")
	if ctx == nil {
		ctx = context.Background()
	}
	reg := prometheus.NewRegistry()
	m := render.NewMetrics(reg)

	recs, err := sessions.LoadCSV(opts.File)
	if err != nil {
		return err
	}
	m.SessionsLoaded.Set(float64(len(recs)))
	if err := os.MkdirAll(opts.Out, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}

	jobs := buildJobs(recs, opts)
	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	written := make([]string, len(jobs))
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			path := filepath.Join(opts.Out, job.name+"."+string(opts.Format))
			if err := render.WriteFile(path, opts.Format, job.draw); err != nil {
				m.RenderErrors.WithLabelValues(job.name).Inc()
				return fmt.Errorf("render %s: %w", job.name, err)
			}
			kind := job.name
			if strings.HasPrefix(kind, "radial_frame_") {
				kind = "radial_frame"
				m.FramesWritten.Inc()
			}
			m.RenderDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
			m.ChartsRendered.WithLabelValues(kind, string(opts.Format)).Inc()
			if job.name == "bubble" {
				m.SessionsSkipped.WithLabelValues(job.name).Set(float64(job.skipped))
			}
			sessions.Debugf("wrote %s", path)
			written[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, p := range written {
		fmt.Fprintln(stdout, p)
	}
	sessions.Infof("rendered %d charts from %d sessions into %s", len(jobs), len(recs), opts.Out)
	if opts.MetricsFile != "" {
		if err := render.WriteTextfile(opts.MetricsFile, reg); err != nil {
			return err
		}
	}
	return nil
}
