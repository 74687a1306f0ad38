package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/springlab/internal/clock"
	"github.com/san-kum/springlab/internal/config"
	"github.com/san-kum/springlab/internal/logging"
	"github.com/san-kum/springlab/internal/sim"
	"github.com/san-kum/springlab/internal/storage"
	"github.com/san-kum/springlab/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string

	mass       float64
	stiffness  float64
	damping    float64
	pos        float64
	vel        float64
	duration   float64
	integrator string
	frameRate  int
	label      string
	theme      string

	outPath string
	width   int
	height  int
	scene   bool

	sweepParam     string
	sweepMin       float64
	sweepMax       float64
	sweepSteps     int
	sweepThreshold float64
	saveRun        bool

	tuneAxes   []string
	tuneMetric string

	logger *log.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "springlab",
		Short: "damped spring simulation lab",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = logging.New("springlab", logLevel, nil)
			return err
		},
		RunE:         runLive,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".springlab", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error, off)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	addPhysicsFlags(rootCmd)
	addLiveFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and save it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addPhysicsFlags(runCmd)
	runCmd.Flags().StringVar(&label, "label", "", "label stored with the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive spring in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addPhysicsFlags(liveCmd)
	addLiveFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the position history of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "period, frequency and decay analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run history to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file, - for stdout")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and history to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file, - for stdout")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export run history as an SVG chart",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file, - for stdout")
	exportSVGCmd.Flags().IntVar(&width, "width", 800, "chart width")
	exportSVGCmd.Flags().IntVar(&height, "height", 300, "chart height")
	exportSVGCmd.Flags().BoolVar(&scene, "scene", false, "draw the spring at its final position instead")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same oscillator",
		RunE:  compareIntegrators,
	}
	addPhysicsFlags(compareCmd)

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "replay a scripted session",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&saveRun, "save", false, "save the replay as a run")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter and report settling time and period",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addPhysicsFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "damping", "parameter to sweep (mass, stiffness, damping)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.5, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 10, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 8, "number of values")
	sweepCmd.Flags().Float64Var(&sweepThreshold, "threshold", 0.01, "settling band around equilibrium")

	phaseCmd := &cobra.Command{
		Use:   "phase",
		Short: "phase portrait of a headless run",
		Args:  cobra.NoArgs,
		RunE:  phasePlot,
	}
	addPhysicsFlags(phaseCmd)
	phaseCmd.Flags().StringVarP(&outPath, "out", "o", "", "also write the portrait as SVG")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search the parameters that minimise a metric",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	addPhysicsFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&tuneAxes, "grid", []string{"damping=0.5:12:24"}, "searched axis as name=min:max:n, repeatable")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "settling_time", "metric to minimise")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd,
		exportSVGCmd, compareCmd, scenarioCmd, sweepCmd, tuneCmd, phaseCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPhysicsFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&preset, "preset", "", "use preset parameters")
	f.Float64Var(&mass, "mass", def.Params.Mass, "mass (kg)")
	f.Float64Var(&stiffness, "stiffness", def.Params.Stiffness, "spring constant (N/m)")
	f.Float64Var(&damping, "damping", def.Params.Damping, "damping coefficient (Ns/m)")
	f.Float64Var(&pos, "pos", def.Init.Position, "initial displacement (m)")
	f.Float64Var(&vel, "vel", def.Init.Velocity, "initial velocity (m/s)")
	f.Float64Var(&duration, "time", def.Run.Duration, "duration of headless runs (s)")
	f.StringVar(&integrator, "integrator", def.Run.Integrator, "integrator")
	f.IntVar(&frameRate, "fps", def.Engine.FrameRate, "frame rate")
}

func addLiveFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&theme, "theme", viz.ThemeNames()[0], fmt.Sprintf("colour theme %v", viz.ThemeNames()))
}

// resolveConfig layers the config file, the preset and explicitly set flags,
// in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Params = p.Params
	}

	flags := cmd.Flags()
	if flags.Changed("mass") {
		cfg.Params.Mass = mass
	}
	if flags.Changed("stiffness") {
		cfg.Params.Stiffness = stiffness
	}
	if flags.Changed("damping") {
		cfg.Params.Damping = damping
	}
	if flags.Changed("pos") {
		cfg.Init.Position = pos
	}
	if flags.Changed("vel") {
		cfg.Init.Velocity = vel
	}
	if flags.Changed("time") {
		cfg.Run.Duration = duration
	}
	if flags.Changed("integrator") {
		cfg.Run.Integrator = integrator
	}
	if flags.Changed("fps") {
		cfg.Engine.FrameRate = frameRate
	}
	return cfg, cfg.Validate()
}

func openStore() *storage.Store {
	return storage.New(dataDir, logger)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	engine, err := cfg.NewEngine()
	if err != nil {
		return err
	}

	// the terminal belongs to the view, so the loop logs to a file
	loopLog := logging.Discard()
	if logLevel != "off" {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return err
		}
		f, err := os.Create(filepath.Join(dataDir, "live.log"))
		if err != nil {
			return err
		}
		defer f.Close()
		if loopLog, err = logging.New("loop", logLevel, f); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)

	loop := sim.NewLoop(engine, sim.NewTickerSource(cfg.Engine.FrameRate), clock.Real{}, loopLog)
	go loop.Run(ctx)

	viewErr := viz.Run(loop, theme)
	cancel()
	<-loop.Done()
	return viewErr
}
