package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/habersim/internal/catalyst"
	"github.com/san-kum/habersim/internal/config"
	"github.com/san-kum/habersim/internal/experiment"
	"github.com/san-kum/habersim/internal/logging"
	"github.com/san-kum/habersim/internal/reactor"
	"github.com/san-kum/habersim/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	theme      string
	configFile string
	preset     string
	catName    string
	pressure   float64
	integrator string
	// Axis overrides, applied only when given
	lengthMax float64
	concMax   float64
	tempMin   float64
	tempMax   float64
	width     int
	height    int
	save      bool
	outFile   string
	addr      string
	timeout   time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "habersim",
		Short:         "multi-bed ammonia converter simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			viz.SetTheme(theme)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".habersim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", viz.ThemeCyberpunk.Name, "color theme")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate a converter and print its summary",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	scenarioFlags(runCmd)
	runCmd.Flags().BoolVar(&save, "save", false, "store the run under the data directory")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot concentration, temperature and yield profiles",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	scenarioFlags(plotCmd)
	axisFlags(plotCmd)

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "write a markdown report",
		Args:  cobra.NoArgs,
		RunE:  writeReport,
	}
	scenarioFlags(reportCmd)
	axisFlags(reportCmd)
	reportCmd.Flags().StringVarP(&outFile, "out", "o", "", "write plain markdown to a file")

	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "browse the profiles interactively",
		Args:  cobra.NoArgs,
		RunE:  viewRun,
	}
	scenarioFlags(viewCmd)
	axisFlags(viewCmd)

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "simulate KMIR and FN case studies side by side",
		Args:  cobra.NoArgs,
		RunE:  compareCatalysts,
	}
	scenarioFlags(compareCmd)
	axisFlags(compareCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored trajectory as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets or print one as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}

	catalystsCmd := &cobra.Command{
		Use:   "catalysts",
		Short: "list catalysts and their input ranges",
		Args:  cobra.NoArgs,
		RunE:  listCatalysts,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "start the JSON API",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (rk45, rk4)")
	serveCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "per-request timeout")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export stored profiles as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	axisFlags(exportSVGCmd)
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output directory (default current)")

	rootCmd.AddCommand(runCmd, plotCmd, reportCmd, viewCmd, compareCmd, sweepCommand(), listCmd, exportCSVCmd, exportSVGCmd, presetsCmd, catalystsCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, viz.ErrorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

func scenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&catName, "catalyst", "", "catalyst case study (KMIR, FN)")
	cmd.Flags().Float64Var(&pressure, "pressure", 0, "total pressure in atm")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (rk45, rk4)")
}

func axisFlags(cmd *cobra.Command) {
	axis := config.DefaultAxis()
	cmd.Flags().Float64Var(&lengthMax, "length-max", axis.LengthMax, "fixed x axis maximum")
	cmd.Flags().Float64Var(&concMax, "conc-max", axis.ConcentrationMax, "fixed mole fraction axis maximum")
	cmd.Flags().Float64Var(&tempMin, "temp-min", axis.TempMin, "fixed temperature axis minimum in °C")
	cmd.Flags().Float64Var(&tempMax, "temp-max", axis.TempMax, "fixed temperature axis maximum in °C")
	cmd.Flags().IntVar(&width, "width", viz.DefaultChartWidth, "chart width")
	cmd.Flags().IntVar(&height, "height", viz.DefaultChartHeight, "chart height")
}

// loadConfig resolves preset, config file and flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("catalyst") {
		cat, err := catalyst.Parse(catName)
		if err != nil {
			return nil, err
		}
		cfg.Scenario = config.ScenarioFor(cat)
	}
	if flags.Changed("pressure") {
		cfg.Pressure = pressure
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	return cfg, cfg.Validate()
}

// chartOptions returns fixed axes only when one of the axis flags was given.
func chartOptions(cmd *cobra.Command) viz.ChartOptions {
	opts := viz.ChartOptions{Width: width, Height: height}
	for _, name := range []string{"length-max", "conc-max", "temp-min", "temp-max"} {
		if cmd.Flags().Changed(name) {
			r := config.Axis{
				LengthMax:        lengthMax,
				ConcentrationMax: concMax,
				TempMin:          tempMin,
				TempMax:          tempMax,
			}.Ranges()
			opts.Axis = &r
			break
		}
	}
	return opts
}

func newLogger(level string) (*slog.Logger, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(lvl), nil
}

func simulate(ctx context.Context, cfg *config.Config) (*experiment.Outcome, error) {
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	exp := experiment.New(cfg, experiment.NewRegistry())
	exp.SetLogger(log)
	return exp.Run(ctx)
}

// scenarios names the instances of an outcome after their catalysts.
func scenarios(out *experiment.Outcome) []viz.Scenario {
	list := []viz.Scenario{{Name: scenarioName("main", out.Main), Instance: out.Main}}
	if out.Alt != nil {
		list = append(list, viz.Scenario{Name: scenarioName("alt", out.Alt), Instance: out.Alt})
	}
	return list
}

func scenarioName(role string, inst *reactor.Instance) string {
	return fmt.Sprintf("%s (%s, %.0f atm)", role, inst.Catalyst(), inst.Pressure())
}
