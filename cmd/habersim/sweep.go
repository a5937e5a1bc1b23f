package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/san-kum/habersim/internal/experiment"
	"github.com/san-kum/habersim/internal/export"
	"github.com/san-kum/habersim/internal/optim"
	"github.com/san-kum/habersim/internal/reactor"
	"github.com/san-kum/habersim/internal/sim"
	"github.com/san-kum/habersim/internal/storage"
)

var (
	sweepBeds []int
	sweepFrom float64
	sweepTo   float64
	sweepStep float64
)

func sweepCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid-search bed inlet temperatures for the highest yield",
		Args:  cobra.NoArgs,
		RunE:  sweepTemperatures,
	}
	scenarioFlags(cmd)
	cmd.Flags().IntSliceVar(&sweepBeds, "beds", []int{1}, "beds to vary (1-based)")
	cmd.Flags().Float64Var(&sweepFrom, "from", 400, "lowest inlet temperature in °C")
	cmd.Flags().Float64Var(&sweepTo, "to", 460, "highest inlet temperature in °C")
	cmd.Flags().Float64Var(&sweepStep, "step", 5, "temperature step in °C")
	return cmd
}

func sweepTemperatures(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	grid := optim.Steps(sweepFrom+reactor.KelvinOffset, sweepTo+reactor.KelvinOffset, sweepStep)
	beds := make([]int, len(sweepBeds))
	temps := make([][]float64, len(sweepBeds))
	for i, b := range sweepBeds {
		beds[i] = b - 1
		temps[i] = grid
	}
	search, err := optim.NewGridSearch(beds, temps)
	if err != nil {
		return err
	}

	integ, err := experiment.NewRegistry().GetIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}
	runner := sim.New(integ, cfg.Integration, sim.WithLogger(log))

	fmt.Printf("sweeping %d combinations...\n", search.Size())
	res, err := search.Search(cmd.Context(), cfg.Scenario, func(ctx context.Context, inst *reactor.Instance) error {
		return runner.Run(ctx, inst)
	})
	if err != nil {
		return err
	}

	for i, b := range sweepBeds {
		fmt.Printf("bed %d inlet: %.1f °C\n", b, res.Temps[i]-reactor.KelvinOffset)
	}
	fmt.Printf("NH3 yield: %.4f (%d evaluated, %d failed)\n", res.Yield, res.Evaluated, res.Failed)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	inst, err := storage.New(dataDir).LoadInstance(args[0])
	if err != nil {
		return err
	}

	dir := outFile
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	opts := export.Options{Axis: chartOptions(cmd).Axis}
	files := []struct {
		name   string
		render func(*reactor.Instance, export.Options) (string, error)
	}{
		{"concentration.svg", export.ConcentrationSVG},
		{"temperature.svg", export.TemperatureSVG},
	}
	for _, f := range files {
		svg, err := f.render(inst, opts)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, args[0]+"-"+f.name)
		if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}
