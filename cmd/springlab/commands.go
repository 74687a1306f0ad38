package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/springlab/internal/analysis"
	"github.com/san-kum/springlab/internal/automation"
	"github.com/san-kum/springlab/internal/config"
	"github.com/san-kum/springlab/internal/dynamo"
	"github.com/san-kum/springlab/internal/experiment"
	"github.com/san-kum/springlab/internal/export"
	"github.com/san-kum/springlab/internal/optim"
	"github.com/san-kum/springlab/internal/physics"
	"github.com/san-kum/springlab/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := openStore()
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg, logger)
	fmt.Printf("running %s for %.1fs...\n", cfg.Run.Integrator, cfg.Run.Duration)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(label, cfg.Run.Integrator, cfg.FrameInterval(), cfg.Run.Duration, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d, samples: %d\n", result.Frames, len(result.History))
	printMetrics(os.Stdout, result.Metrics)
	return nil
}

func printMetrics(w io.Writer, metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(w, "\nmetrics:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %.6f\n", name, metrics[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := openStore().List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tTIME\tDURATION\tINTEG\tM\tK\tC\tDRIFT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%s\t%.3g\t%.3g\t%.3g\t%.2e\n",
			run.ID,
			run.Label,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Integrator,
			run.Params.Mass,
			run.Params.Stiffness,
			run.Params.Damping,
			run.EnergyDrift,
		)
	}
	return w.Flush()
}

func positionsOf(samples []dynamo.Sample) []float64 {
	ys := make([]float64, len(samples))
	for i, s := range samples {
		ys[i] = s.Y
	}
	return ys
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := openStore()

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}
	if len(samples) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("params: m=%.3g k=%.3g c=%.3g (%s)\n", meta.Params.Mass, meta.Params.Stiffness, meta.Params.Damping,
		physics.ClassifyDamping(physics.DampingRatio(meta.Params)))
	fmt.Printf("samples: %d\n\n", len(samples))

	caption := fmt.Sprintf("position (m), %.2fs to %.2fs", samples[0].T, samples[len(samples)-1].T)
	fmt.Println(asciigraph.Plot(positionsOf(samples),
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := openStore()

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}
	summary, err := analysis.Summarize(samples)
	if err != nil {
		return err
	}

	fmt.Printf("analysis: %s\n\n", meta.ID)

	if grid, _ := analysis.Resample(samples, len(samples)); len(grid) >= 8 {
		ps := analysis.PowerSpectrum(grid)
		if plotData := ps[1 : len(ps)/4]; len(plotData) > 1 {
			fmt.Println(asciigraph.Plot(plotData,
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption("power spectrum (position)"),
			))
			fmt.Println()
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "samples\t%d\n", summary.Samples)
	fmt.Fprintf(w, "amplitude\t%.4f m\n", summary.Amplitude)
	fmt.Fprintf(w, "rms position\t%.4f m\n", summary.RMSPosition)
	fmt.Fprintf(w, "zero crossings\t%d\n", summary.Crossings)
	if summary.MeanPeriod > 0 {
		fmt.Fprintf(w, "measured period\t%.4f s\n", summary.MeanPeriod)
	}
	if summary.Frequency > 0 {
		fmt.Fprintf(w, "dominant frequency\t%.4f Hz\n", summary.Frequency)
	}
	if summary.DecayRate > 0 {
		fmt.Fprintf(w, "decay rate\t%.4f 1/s\n", summary.DecayRate)
	}
	d := physics.Derive(dynamo.State{}, meta.Params)
	fmt.Fprintf(w, "undamped period\t%.4f s\n", d.Period)
	fmt.Fprintf(w, "damping ratio\t%.4f (%s)\n", d.DampingRatio, d.Regime)
	if d.Quality > 0 {
		fmt.Fprintf(w, "quality factor\t%.3f\n", d.Quality)
	}
	return w.Flush()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	return openStore().ExportCSV(args[0], outPath)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return openStore().ExportJSON(args[0], outPath)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := openStore()

	var svg string
	if scene {
		meta, err := st.Load(runID)
		if err != nil {
			return err
		}
		svg = export.CanvasToSVG(viz.RenderScene(meta.Final, 60, 16), 4)
	} else {
		samples, err := st.LoadHistory(runID)
		if err != nil {
			return err
		}
		svg = export.HistoryToSVG(samples, width, height, "#00d4ff")
	}
	if svg == "" {
		return fmt.Errorf("no data to export")
	}
	return writeOut(outPath, svg)
}

func writeOut(path, content string) error {
	if path == "" || path == "-" {
		_, err := fmt.Println(content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", path)
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators over %.1fs (m=%.3g k=%.3g c=%.3g)\n\n",
		cfg.Run.Duration, cfg.Params.Mass, cfg.Params.Stiffness, cfg.Params.Damping)
	start := time.Now()
	out, err := experiment.Compare(context.Background(), cfg, args, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tFINAL POS\tFINAL VEL\tMAX DRIFT\tENERGY RISES\tSETTLE")
	for _, c := range out {
		final := c.Result.States[len(c.Result.States)-1]
		fmt.Fprintf(w, "%s\t%+.5f\t%+.5f\t%.2e\t%.0f\t%s\n",
			c.Integrator,
			final.Position,
			final.Velocity,
			c.Result.Metrics["energy_drift"],
			c.Result.Metrics["energy_growth"],
			settleText(c.Result.Metrics["settling_time"]),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\ncompleted in %v\n", time.Since(start))
	return nil
}

func settleText(v float64) string {
	if v < 0 {
		return "never"
	}
	return fmt.Sprintf("%.2fs", v)
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	base := config.DefaultConfig()
	if configFile != "" {
		if base, err = config.Load(configFile); err != nil {
			return err
		}
	}

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("  %s\n", sc.Description)
	}
	out, err := automation.RunScenario(context.Background(), sc, base, logger)
	if err != nil {
		return err
	}
	res := out.Result

	fmt.Printf("applied %d/%d actions over %d frames\n\n", out.Applied, len(sc.Actions), res.Frames)
	if len(res.History) > 1 {
		fmt.Println(asciigraph.Plot(positionsOf(res.History),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("position (m)"),
		))
	}
	printMetrics(os.Stdout, res.Metrics)

	if !saveRun {
		return nil
	}
	cfg, err := sc.Config(base)
	if err != nil {
		return err
	}
	st := openStore()
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(sc.Name, cfg.Run.Integrator, cfg.FrameInterval(), sc.Duration, res)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	sweep := &automation.ParameterSweep{
		Param:     sweepParam,
		Min:       sweepMin,
		Max:       sweepMax,
		Steps:     sweepSteps,
		Threshold: sweepThreshold,
	}
	results, err := automation.RunSweep(context.Background(), sweep, cfg, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tREGIME\tSETTLE\tPERIOD\tUNDAMPED\tAMPLITUDE\n", strings.ToUpper(sweepParam))
	settle := make([]float64, 0, len(results))
	for _, r := range results {
		period := "-"
		if r.Period > 0 {
			period = fmt.Sprintf("%.3fs", r.Period)
		}
		fmt.Fprintf(w, "%.4g\t%s\t%s\t%s\t%.3fs\t%.3f\n",
			r.Value, r.Regime, settleText(r.Settling), period, r.Predicted, r.Amplitude)
		if r.Settling >= 0 {
			settle = append(settle, r.Settling)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(settle) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(settle,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("settling time (s) by %s", sweepParam)),
		))
	}
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if _, err := experiment.NewRegistry().GetMetric(tuneMetric); err != nil {
		return err
	}

	axes := make([]optim.Axis, 0, len(tuneAxes))
	points := 1
	for _, arg := range tuneAxes {
		axis, err := optim.ParseAxis(arg)
		if err != nil {
			return err
		}
		axes = append(axes, axis)
		points *= len(axis.Values)
	}

	fmt.Printf("searching %d grid points for the lowest %s...\n", points, tuneMetric)
	start := time.Now()
	best, err := optim.NewGridSearch(axes...).Search(context.Background(), cfg, optim.Metric(tuneMetric))
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v (%d runs, %d rejected)\n\n", time.Since(start), best.Evaluated, best.Rejected)
	for _, name := range best.Names() {
		fmt.Printf("  %s = %.4g\n", name, best.Params[name])
	}
	fmt.Printf("  %s = %.4f\n", tuneMetric, best.Score)
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	result, err := experiment.New(cfg, logger).Run(context.Background())
	if err != nil {
		return err
	}

	portrait := analysis.NewPhasePortrait(result.States)
	fmt.Printf("phase portrait: position across, velocity up (%d points)\n\n", len(portrait.Points))
	fmt.Print(analysis.PhasePortraitToASCII(portrait, 70, 20))

	if outPath == "" {
		return nil
	}
	return writeOut(outPath, export.PhaseToSVG(portrait, 400, 400, "#00ff88"))
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tMASS\tSTIFFNESS\tDAMPING\tZETA\tREGIME")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name).Params
		zeta := physics.DampingRatio(p)
		fmt.Fprintf(w, "%s\t%.3g\t%.3g\t%.3g\t%.3f\t%s\n",
			name, p.Mass, p.Stiffness, p.Damping, zeta, physics.ClassifyDamping(zeta))
	}
	return w.Flush()
}
