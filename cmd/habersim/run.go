package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/san-kum/habersim/internal/catalyst"
	"github.com/san-kum/habersim/internal/config"
	"github.com/san-kum/habersim/internal/reactor"
	"github.com/san-kum/habersim/internal/storage"
	"github.com/san-kum/habersim/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("running %s simulation...\n", cfg.Catalyst)
	start := time.Now()

	out, err := simulate(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	var panels []string
	for _, sc := range scenarios(out) {
		p, err := viz.SummaryPanel(sc.Name, sc.Instance)
		if err != nil {
			return err
		}
		panels = append(panels, p)
	}
	fmt.Println(viz.SideBySide(panels...))

	if !save {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	for _, sc := range scenarios(out) {
		id, err := st.Save(cfg.Integrator, cfg.Integration, sc.Instance)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s  %s\n", id, sc.Name)
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	opts := chartOptions(cmd)

	if len(args) == 1 {
		inst, err := storage.New(dataDir).LoadInstance(args[0])
		if err != nil {
			return err
		}
		return printCharts([]viz.Scenario{{Name: "run " + args[0], Instance: inst}}, opts)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out, err := simulate(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	// main and alt share axes
	if out.Alt != nil && opts.Axis == nil {
		r := out.Ranges()
		opts.Axis = &r
	}
	return printCharts(scenarios(out), opts)
}

func printCharts(list []viz.Scenario, opts viz.ChartOptions) error {
	charts := []func(*reactor.Instance, viz.ChartOptions) (string, error){
		viz.ConcentrationChart,
		viz.TemperatureChart,
		viz.YieldChart,
	}
	for _, sc := range list {
		fmt.Println(viz.GradientTitle.Render(sc.Name))
		for _, chart := range charts {
			s, err := chart(sc.Instance, opts)
			if err != nil {
				return err
			}
			fmt.Println(s)
			fmt.Println()
		}
	}
	return nil
}

func writeReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out, err := simulate(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	md, err := viz.Markdown(scenarios(out), chartOptions(cmd))
	if err != nil {
		return err
	}

	if outFile != "" {
		if err := os.WriteFile(outFile, []byte(md), 0644); err != nil {
			return err
		}
		fmt.Printf("report written to %s\n", outFile)
		return nil
	}

	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		fmt.Print(md)
		return nil
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		w = 0
	}
	rendered, err := viz.RenderMarkdown(md, w)
	if err != nil {
		return err
	}
	fmt.Print(rendered)
	return nil
}

func viewRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out, err := simulate(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	return viz.RunViewer(scenarios(out), chartOptions(cmd).Axis)
}

// compareCatalysts runs the configured scenario against the other
// catalyst's case study unless the configuration already has an alt.
func compareCatalysts(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Alt == nil {
		other := catalyst.FN
		if cfg.Catalyst == catalyst.FN {
			other = catalyst.KMIR
		}
		alt := config.ScenarioFor(other)
		cfg.Alt = &alt
	}

	out, err := simulate(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	list := scenarios(out)
	var panels []string
	for _, sc := range list {
		p, err := viz.SummaryPanel(sc.Name, sc.Instance)
		if err != nil {
			return err
		}
		panels = append(panels, p)
	}
	fmt.Println(viz.SideBySide(panels...))

	ms, err := out.Main.Summary()
	if err != nil {
		return err
	}
	as, err := out.Alt.Summary()
	if err != nil {
		return err
	}
	fmt.Printf("\nyield difference (main - alt): %+.4f\n\n", ms.Yield-as.Yield)

	opts := chartOptions(cmd)
	if opts.Axis == nil {
		r := out.Ranges()
		opts.Axis = &r
	}
	for _, sc := range list {
		fmt.Println(viz.GradientTitle.Render(sc.Name))
		s, err := viz.ConcentrationChart(sc.Instance, opts)
		if err != nil {
			return err
		}
		fmt.Println(s)
		fmt.Println()
	}
	return nil
}
